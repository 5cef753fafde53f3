package configs

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	berrors "github.com/badie/bdev/internal/errors"
)

func TestNewSettingsLayout(t *testing.T) {
	s := NewSettings("/tmp/bdev")

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"ConfigPath", s.ConfigPath, filepath.Join("/tmp/bdev", "config.toml")},
		{"VaultDir", s.VaultDir, filepath.Join("/tmp/bdev", "vault")},
		{"WorkflowsDir", s.WorkflowsDir, filepath.Join("/tmp/bdev", "workflows")},
		{"AuditLogPath", s.AuditLogPath, filepath.Join("/tmp/bdev", "audit.jsonl")},
	}

	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %q, want %q", tt.name, tt.got, tt.want)
		}
	}
}

func TestResolveConfigDirHonorsEnv(t *testing.T) {
	t.Setenv(ConfigHomeEnv, "/custom/bdev")

	if got := ResolveConfigDir(); got != "/custom/bdev" {
		t.Errorf("ResolveConfigDir() = %q, want %q", got, "/custom/bdev")
	}
}

func TestUseConfigDirRestores(t *testing.T) {
	original := BdevSettings
	restore := UseConfigDir(t.TempDir())

	if BdevSettings == original {
		t.Fatal("UseConfigDir did not replace settings")
	}

	restore()
	if BdevSettings != original {
		t.Error("restore did not put the original settings back")
	}
}

func TestEnsureDirectories(t *testing.T) {
	s := NewSettings(filepath.Join(t.TempDir(), "bdev"))

	if err := s.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}

	for _, dir := range []string{s.ConfigDir, s.VaultDir, s.WorkflowsDir} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("Expected %s to exist: %v", dir, err)
		}
		if !info.IsDir() {
			t.Errorf("Expected %s to be a directory", dir)
		}
	}
}

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	defer UseConfigDir(t.TempDir())()

	config, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if config.Vault.MinPasswordLength != defaultMinPasswordLength {
		t.Errorf("Expected default min password length %d, got %d", defaultMinPasswordLength, config.Vault.MinPasswordLength)
	}

	timeout, err := config.Workflow.Timeout()
	if err != nil {
		t.Fatalf("Timeout failed: %v", err)
	}
	if timeout != 0 {
		t.Errorf("Expected no default timeout, got %s", timeout)
	}
}

func TestSaveAndLoadConfig(t *testing.T) {
	defer UseConfigDir(t.TempDir())()

	config := DefaultConfig()
	config.Workflow.DefaultTimeout = "5m"
	config.Workflow.Shell = "/bin/bash"

	if err := SaveConfig(config); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}

	loaded, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	timeout, err := loaded.Workflow.Timeout()
	if err != nil {
		t.Fatalf("Timeout failed: %v", err)
	}
	if timeout != 5*time.Minute {
		t.Errorf("Expected 5m timeout, got %s", timeout)
	}
	if loaded.Workflow.Shell != "/bin/bash" {
		t.Errorf("Expected shell /bin/bash, got %q", loaded.Workflow.Shell)
	}
}

func TestLoadConfigPartialFileKeepsDefaults(t *testing.T) {
	defer UseConfigDir(t.TempDir())()

	content := "[workflow]\ndefault_timeout = \"30s\"\n"
	if err := os.WriteFile(BdevSettings.ConfigPath, []byte(content), 0600); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	config, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if config.Vault.MinPasswordLength != defaultMinPasswordLength {
		t.Errorf("Expected default min password length to survive, got %d", config.Vault.MinPasswordLength)
	}
	if config.Workflow.DefaultTimeout != "30s" {
		t.Errorf("Expected timeout 30s, got %q", config.Workflow.DefaultTimeout)
	}
}

func TestLoadConfigInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"MalformedTOML", "[vault\nmin_password_length = "},
		{"BadTimeout", "[workflow]\ndefault_timeout = \"soon\"\n"},
		{"NegativeTimeout", "[workflow]\ndefault_timeout = \"-1s\"\n"},
		{"NegativePasswordLength", "[vault]\nmin_password_length = -1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer UseConfigDir(t.TempDir())()

			if err := os.WriteFile(BdevSettings.ConfigPath, []byte(tt.content), 0600); err != nil {
				t.Fatalf("Failed to write config: %v", err)
			}

			_, err := LoadConfig()
			if !errors.Is(err, berrors.ErrInvalidConfig) {
				t.Errorf("Expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}
