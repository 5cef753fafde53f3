package configs

import (
	"os"
	"path/filepath"
)

// ConfigHomeEnv overrides the configuration directory.
const ConfigHomeEnv = "BDEV_CONFIG_HOME"

type Settings struct {
	ConfigDir    string
	ConfigPath   string
	VaultDir     string
	WorkflowsDir string
	AuditLogPath string
}

var BdevSettings *Settings

func init() {
	BdevSettings = NewSettings(ResolveConfigDir())
}

// ResolveConfigDir returns the bdev configuration directory.
func ResolveConfigDir() string {
	if dir := os.Getenv(ConfigHomeEnv); dir != "" {
		return dir
	}

	configDir, err := os.UserConfigDir()
	if err != nil {
		// No home directory (containers, CI). Keep state next to the caller.
		return ".bdev"
	}
	return filepath.Join(configDir, "bdev")
}

// NewSettings derives every bdev path from the configuration directory.
func NewSettings(configDir string) *Settings {
	return &Settings{
		ConfigDir:    configDir,
		ConfigPath:   filepath.Join(configDir, "config.toml"),
		VaultDir:     filepath.Join(configDir, "vault"),
		WorkflowsDir: filepath.Join(configDir, "workflows"),
		AuditLogPath: filepath.Join(configDir, "audit.jsonl"),
	}
}

// UseConfigDir replaces BdevSettings and returns a function restoring the previous value.
func UseConfigDir(configDir string) func() {
	previous := BdevSettings
	BdevSettings = NewSettings(configDir)
	return func() {
		BdevSettings = previous
	}
}

// EnsureDirectories creates the configuration, vault and workflow directories.
func (s *Settings) EnsureDirectories() error {
	for _, dir := range []string{s.ConfigDir, s.VaultDir, s.WorkflowsDir} {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return err
		}
	}
	return nil
}
