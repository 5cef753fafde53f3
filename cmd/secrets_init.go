package cmd

import (
	"github.com/badie/bdev/internal/audit"
	"github.com/badie/bdev/internal/configs"
	berrors "github.com/badie/bdev/internal/errors"
	"github.com/badie/bdev/internal/ui"

	"github.com/spf13/cobra"
)

var initForce bool

func init() {
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "replace an existing vault, discarding its secrets")
}

func resetInitCommandState() {
	initForce = false
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the encrypted vault",
	Long: `Creates a new vault protected by a password.

The password is never stored. Losing it means losing every secret in the vault.
An existing vault is only replaced with --force.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting init command")

		config, err := configs.LoadConfig()
		if err != nil {
			return err
		}

		v := newVault()
		if v.IsInitialized() && !initForce {
			return berrors.ErrVaultAlreadyInitialized
		}

		password, err := readNewPassword(config.Vault.MinPasswordLength)
		if err != nil {
			return err
		}

		spinner, cleanup := startSpinner("Creating vault...", verbose)
		defer cleanup()

		if err := v.Init(password); err != nil {
			return Logger.ErrorfAndReturn("failed to create vault: %w", err)
		}

		entry := audit.LogWithUser(audit.OpVaultInit)
		entry.Result = "succeeded"
		audit.Log(entry)

		spinner.FinalMSG = ui.Success.Sprint("✓") + " Vault created at " + ui.Path.Sprint(v.Dir()) + "\n" +
			ui.Info.Sprint("→") + " Run " + ui.Code.Sprint("bdev secrets set <name>") + " to store your first secret"
		return nil
	},
}
