package cmd

import (
	logger "github.com/badie/bdev/internal/logging"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	verbose bool
	debug   bool
	Logger  logger.Logger

	SecretsCmd = &cobra.Command{
		Use:   "secrets",
		Short: "Manage secrets stored in the encrypted vault",
		Long: `Provides initialization, storage, retrieval, deletion and export of secrets
kept in a password-protected vault.

The vault password is read from the terminal, or from the BDEV_VAULT_PASSWORD
environment variable for non-interactive use.

Examples:
  # Create the vault
  bdev secrets init

  # Store and read back a secret
  bdev secrets set api_key
  bdev secrets get api_key --show

  # Load every secret into the current shell
  eval "$(bdev secrets env)"`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			Logger = logger.Logger{
				Verbose: verbose,
				Debug:   debug,
			}
			Logger.Debugf("Initializing secrets command with verbose=%t, debug=%t", verbose, debug)
		},
	}
)

func init() {
	SecretsCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	SecretsCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug output")

	SecretsCmd.AddCommand(initCmd)
	SecretsCmd.AddCommand(setCmd)
	SecretsCmd.AddCommand(getCmd)
	SecretsCmd.AddCommand(listCmd)
	SecretsCmd.AddCommand(deleteCmd)
	SecretsCmd.AddCommand(envCmd)
	SecretsCmd.AddCommand(importCmd)
	SecretsCmd.AddCommand(exportCmd)
	SecretsCmd.AddCommand(statusCmd)
}

// GetSecretsCmd returns the SecretsCmd for testing.
func GetSecretsCmd() *cobra.Command {
	return SecretsCmd
}

// ResetGlobalState resets all global variables to their default values for testing.
func ResetGlobalState() {
	verbose = false
	debug = false
	Logger = logger.Logger{}
	resetInitCommandState()
	resetGetCommandState()
	resetExportCommandState()
	resetCobraFlagState(SecretsCmd)
}

// resetCobraFlagState clears the Changed marker on every flag of cmd and its
// subcommands to prevent test pollution.
func resetCobraFlagState(cmd *cobra.Command) {
	reset := func(flag *pflag.Flag) {
		flag.Changed = false
		if slice, ok := flag.Value.(pflag.SliceValue); ok {
			_ = slice.Replace(nil)
			return
		}
		_ = flag.Value.Set(flag.DefValue)
	}
	cmd.PersistentFlags().VisitAll(reset)
	cmd.Flags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetCobraFlagState(sub)
	}
}

// SetVerbose sets the verbose flag for testing.
func SetVerbose(v bool) {
	verbose = v
}

// SetDebug sets the debug flag for testing.
func SetDebug(d bool) {
	debug = d
}

// SetLogger sets the logger for testing.
func SetLogger(l logger.Logger) {
	Logger = l
}
