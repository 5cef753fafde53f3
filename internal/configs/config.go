package configs

import (
	"fmt"
	"os"
	"time"

	berrors "github.com/badie/bdev/internal/errors"
)

const defaultMinPasswordLength = 8

type Config struct {
	Vault    VaultConfig    `toml:"vault"`
	Workflow WorkflowConfig `toml:"workflow"`
}

type VaultConfig struct {
	MinPasswordLength int `toml:"min_password_length"`
}

type WorkflowConfig struct {
	// DefaultTimeout bounds every step without its own timeout. Empty waits forever.
	DefaultTimeout string `toml:"default_timeout"`
	// Shell replaces the platform shell used to run step command lines.
	Shell string `toml:"shell"`
}

// DefaultConfig returns the configuration used when config.toml is absent.
func DefaultConfig() *Config {
	return &Config{
		Vault: VaultConfig{
			MinPasswordLength: defaultMinPasswordLength,
		},
	}
}

// LoadConfig loads config.toml, falling back to defaults for a missing file or missing keys.
func LoadConfig() (*Config, error) {
	config := DefaultConfig()

	if _, err := os.Stat(BdevSettings.ConfigPath); os.IsNotExist(err) {
		return config, nil
	}

	if err := LoadTOML(BdevSettings.ConfigPath, config); err != nil {
		return nil, fmt.Errorf("%w: %v", berrors.ErrInvalidConfig, err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// SaveConfig writes config.toml.
func SaveConfig(config *Config) error {
	if err := config.Validate(); err != nil {
		return err
	}

	if err := SaveTOML(BdevSettings.ConfigPath, config); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	return nil
}

// Validate checks value ranges and that the timeout parses.
func (c *Config) Validate() error {
	if c.Vault.MinPasswordLength < 0 {
		return fmt.Errorf("%w: vault.min_password_length must not be negative", berrors.ErrInvalidConfig)
	}

	if _, err := c.Workflow.Timeout(); err != nil {
		return fmt.Errorf("%w: workflow.default_timeout: %v", berrors.ErrInvalidConfig, err)
	}

	return nil
}

// Timeout parses DefaultTimeout. Zero means no timeout.
func (w WorkflowConfig) Timeout() (time.Duration, error) {
	if w.DefaultTimeout == "" {
		return 0, nil
	}

	d, err := time.ParseDuration(w.DefaultTimeout)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("negative duration %s", w.DefaultTimeout)
	}
	return d, nil
}
