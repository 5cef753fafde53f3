package cmd

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/badie/bdev/internal/audit"
	"github.com/badie/bdev/internal/configs"
	berrors "github.com/badie/bdev/internal/errors"
)

const testVaultPassword = "test-password-123"

func initTestVault(t *testing.T) {
	t.Helper()
	if output, err := runCLI(t, "secrets", "init"); err != nil {
		t.Fatalf("secrets init failed: %v\nOutput: %s", err, output)
	}
}

func TestSecretsInitCreatesVault(t *testing.T) {
	setupTestEnvironment(t, testVaultPassword)

	output, err := runCLI(t, "secrets", "init")
	if err != nil {
		t.Fatalf("Command failed: %v\nOutput: %s", err, output)
	}

	if !strings.Contains(output, "Vault created") {
		t.Errorf("Expected success message, got: %s", output)
	}

	for _, name := range []string{"proof", "payload"} {
		path := filepath.Join(configs.BdevSettings.VaultDir, name)
		if _, err := os.Stat(path); err != nil {
			t.Errorf("Expected %s to exist: %v", path, err)
		}
	}
}

func TestSecretsInitRefusesExistingVault(t *testing.T) {
	setupTestEnvironment(t, testVaultPassword)
	initTestVault(t)

	_, err := runCLI(t, "secrets", "init")
	if !errors.Is(err, berrors.ErrVaultAlreadyInitialized) {
		t.Fatalf("Expected ErrVaultAlreadyInitialized, got: %v", err)
	}

	output, err := runCLI(t, "secrets", "init", "--force")
	if err != nil {
		t.Fatalf("init --force failed: %v\nOutput: %s", err, output)
	}
}

func TestSecretsInitPasswordTooShort(t *testing.T) {
	setupTestEnvironment(t, "short")

	_, err := runCLI(t, "secrets", "init")
	if !errors.Is(err, berrors.ErrPasswordTooShort) {
		t.Fatalf("Expected ErrPasswordTooShort, got: %v", err)
	}
	if newVault().IsInitialized() {
		t.Error("Vault should not be created with a rejected password")
	}
}

func TestSecretsSetGetListDelete(t *testing.T) {
	setupTestEnvironment(t, testVaultPassword)
	initTestVault(t)

	output, err := runCLI(t, "secrets", "set", "api_key", "value-123")
	if err != nil {
		t.Fatalf("set failed: %v\nOutput: %s", err, output)
	}
	if !strings.Contains(output, "stored") {
		t.Errorf("Expected stored message, got: %s", output)
	}

	output, err = runCLI(t, "secrets", "set", "api_key", "value-456")
	if err != nil {
		t.Fatalf("second set failed: %v", err)
	}
	if !strings.Contains(output, "updated") {
		t.Errorf("Expected updated message, got: %s", output)
	}

	output, err = runCLI(t, "secrets", "get", "api_key", "--show")
	if err != nil {
		t.Fatalf("get --show failed: %v", err)
	}
	if strings.TrimSpace(output) != "value-456" {
		t.Errorf("Expected raw value, got: %q", output)
	}

	output, err = runCLI(t, "secrets", "get", "api_key")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if strings.Contains(output, "value-456") {
		t.Errorf("Masked output leaked the value: %s", output)
	}

	output, err = runCLI(t, "secrets", "list")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if !strings.Contains(output, "api_key") || !strings.Contains(output, "1 secrets") {
		t.Errorf("Expected api_key in list, got: %s", output)
	}

	if _, err := runCLI(t, "secrets", "delete", "api_key"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	_, err = runCLI(t, "secrets", "get", "api_key")
	if !errors.Is(err, berrors.ErrSecretNotFound) {
		t.Errorf("Expected ErrSecretNotFound after delete, got: %v", err)
	}

	_, err = runCLI(t, "secrets", "delete", "api_key")
	if !errors.Is(err, berrors.ErrSecretNotFound) {
		t.Errorf("Expected ErrSecretNotFound on second delete, got: %v", err)
	}
}

func TestSecretsEnvOutput(t *testing.T) {
	setupTestEnvironment(t, testVaultPassword)
	initTestVault(t)

	if _, err := runCLI(t, "secrets", "set", "api_key", "abc"); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if _, err := runCLI(t, "secrets", "set", "quote", "it's"); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	output, err := runCLI(t, "secrets", "env")
	if err != nil {
		t.Fatalf("env failed: %v", err)
	}

	if !strings.Contains(output, "export BDEV_API_KEY='abc'") {
		t.Errorf("Expected BDEV_API_KEY export, got: %s", output)
	}
	if !strings.Contains(output, `export BDEV_QUOTE='it'\''s'`) {
		t.Errorf("Expected quoted export, got: %s", output)
	}
}

func TestSecretsWrongPassword(t *testing.T) {
	setupTestEnvironment(t, testVaultPassword)
	initTestVault(t)

	t.Setenv(PasswordEnv, "not-the-password")
	_, err := runCLI(t, "secrets", "list")
	if !errors.Is(err, berrors.ErrAuthenticationFailed) {
		t.Fatalf("Expected ErrAuthenticationFailed, got: %v", err)
	}

	entries, err := audit.ReadEntries()
	if err != nil {
		t.Fatalf("Failed to read audit log: %v", err)
	}
	last := entries[len(entries)-1]
	if last.Operation != audit.OpVaultUnlock || last.Result != "denied" {
		t.Errorf("Expected denied unlock entry, got: %+v", last)
	}
}

func TestSecretsRequireInitializedVault(t *testing.T) {
	setupTestEnvironment(t, testVaultPassword)

	for _, args := range [][]string{
		{"secrets", "list"},
		{"secrets", "get", "x"},
		{"secrets", "set", "x", "y"},
		{"secrets", "env"},
	} {
		_, err := runCLI(t, args...)
		if !errors.Is(err, berrors.ErrVaultNotInitialized) {
			t.Errorf("%v: expected ErrVaultNotInitialized, got: %v", args, err)
		}
	}
}

func TestSecretsImportFile(t *testing.T) {
	configDir := setupTestEnvironment(t, testVaultPassword)
	initTestVault(t)

	envFile := filepath.Join(configDir, "import.env")
	content := "# imported\nDB_HOST=localhost\nexport DB_PASSWORD=\"p@ss\"\n"
	if err := os.WriteFile(envFile, []byte(content), 0600); err != nil {
		t.Fatalf("Failed to write env file: %v", err)
	}

	output, err := runCLI(t, "secrets", "import", envFile)
	if err != nil {
		t.Fatalf("import failed: %v\nOutput: %s", err, output)
	}
	if !strings.Contains(output, "Imported 2 secrets") {
		t.Errorf("Expected import count, got: %s", output)
	}

	output, err = runCLI(t, "secrets", "get", "DB_PASSWORD", "--show")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if strings.TrimSpace(output) != "p@ss" {
		t.Errorf("Expected imported value, got: %q", output)
	}
}

func TestSecretsExportRoundTrip(t *testing.T) {
	configDir := setupTestEnvironment(t, testVaultPassword)
	initTestVault(t)

	for name, value := range map[string]string{"api_key": "it's secret", "DB_HOST": "localhost"} {
		if _, err := runCLI(t, "secrets", "set", name, value); err != nil {
			t.Fatalf("set %s failed: %v", name, err)
		}
	}

	envFile := filepath.Join(configDir, "backup.env")
	output, err := runCLI(t, "secrets", "export", envFile)
	if err != nil {
		t.Fatalf("export failed: %v\nOutput: %s", err, output)
	}
	if !strings.Contains(output, "Exported 2 secrets") {
		t.Errorf("Expected export count, got: %s", output)
	}

	info, err := os.Stat(envFile)
	if err != nil {
		t.Fatalf("Expected export file: %v", err)
	}
	if runtime.GOOS != "windows" && info.Mode().Perm() != 0600 {
		t.Errorf("Expected mode 0600, got %o", info.Mode().Perm())
	}

	if _, err := runCLI(t, "secrets", "export", envFile); err == nil || !strings.Contains(err.Error(), "already exists") {
		t.Errorf("Expected export to refuse an existing file, got: %v", err)
	}
	if _, err := runCLI(t, "secrets", "export", envFile, "--force"); err != nil {
		t.Errorf("export --force failed: %v", err)
	}

	if _, err := runCLI(t, "secrets", "delete", "api_key"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := runCLI(t, "secrets", "import", envFile); err != nil {
		t.Fatalf("import failed: %v", err)
	}

	output, err = runCLI(t, "secrets", "get", "api_key", "--show")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if strings.TrimSpace(output) != "it's secret" {
		t.Errorf("Expected round-tripped value, got: %q", output)
	}
}

func TestSecretsExportStdout(t *testing.T) {
	setupTestEnvironment(t, testVaultPassword)
	initTestVault(t)

	if _, err := runCLI(t, "secrets", "set", "token", "abc"); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	output, err := runCLI(t, "secrets", "export", "-")
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}
	if !strings.Contains(output, "token='abc'") {
		t.Errorf("Expected dotenv line, got: %s", output)
	}
	if strings.Contains(output, "Exported") {
		t.Errorf("Did not expect a summary on stdout export, got: %s", output)
	}
}

func TestSecretsStatus(t *testing.T) {
	setupTestEnvironment(t, testVaultPassword)

	output, err := runCLI(t, "secrets", "status")
	if err != nil {
		t.Fatalf("status failed: %v", err)
	}
	if !strings.Contains(output, "not initialized") {
		t.Errorf("Expected not initialized state, got: %s", output)
	}

	initTestVault(t)

	output, err = runCLI(t, "secrets", "status")
	if err != nil {
		t.Fatalf("status failed: %v", err)
	}
	if !strings.Contains(output, "initialized") || !strings.Contains(output, "locked") {
		t.Errorf("Expected initialized locked state, got: %s", output)
	}
	if !strings.Contains(output, audit.OpVaultInit) {
		t.Errorf("Expected recent init activity, got: %s", output)
	}
}

func TestSecretsCorruptPayloadRecovers(t *testing.T) {
	setupTestEnvironment(t, testVaultPassword)
	initTestVault(t)

	if _, err := runCLI(t, "secrets", "set", "lost", "value"); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	payload := filepath.Join(configs.BdevSettings.VaultDir, "payload")
	if err := os.WriteFile(payload, []byte("garbage"), 0600); err != nil {
		t.Fatalf("Failed to corrupt payload: %v", err)
	}

	output, err := runCLI(t, "secrets", "list")
	if err != nil {
		t.Fatalf("list should recover from a corrupt payload, got: %v", err)
	}
	if !strings.Contains(output, "corrupt") {
		t.Errorf("Expected a corruption warning, got: %s", output)
	}
	if !strings.Contains(output, "empty") {
		t.Errorf("Expected the vault to be reported empty, got: %s", output)
	}

	backups, _ := filepath.Glob(payload + ".corrupt-*")
	if len(backups) != 1 {
		t.Errorf("Expected one payload backup, got %d", len(backups))
	}
}
