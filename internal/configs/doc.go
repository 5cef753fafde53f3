// Package configs manages bdev paths and user configuration.
//
// All state lives under a single per-user configuration directory:
//
//   - $BDEV_CONFIG_HOME if set
//   - otherwise os.UserConfigDir()/bdev (~/.config/bdev on Linux)
//
// # Layout
//
//	<dir>/config.toml        user configuration (this package)
//	<dir>/vault/proof        vault credential proof (internal/vault)
//	<dir>/vault/payload      encrypted secret store (internal/vault)
//	<dir>/workflows/*.yml    workflow definitions (internal/workflow)
//	<dir>/audit.jsonl        audit trail (internal/audit)
//
// # Settings
//
// BdevSettings is resolved once at startup. Tests point it at a temporary
// directory with UseConfigDir.
//
// # Configuration
//
// config.toml is optional. Missing keys fall back to DefaultConfig:
//
//	[vault]
//	min_password_length = 8
//
//	[workflow]
//	default_timeout = ""   # Go duration; empty waits forever
//	shell = ""             # override for sh / powershell
package configs
