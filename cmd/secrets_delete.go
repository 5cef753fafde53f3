package cmd

import (
	"fmt"

	"github.com/badie/bdev/internal/audit"
	berrors "github.com/badie/bdev/internal/errors"
	"github.com/badie/bdev/internal/ui"

	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:     "delete <name>",
	Aliases: []string{"rm"},
	Short:   "Delete a secret",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		Logger.Infof("Starting delete command for %s", name)

		v, err := unlockVault(false)
		if err != nil {
			return err
		}

		deleted, err := v.Delete(name)
		if err != nil {
			return Logger.ErrorfAndReturn("failed to delete %s: %w", name, err)
		}
		if !deleted {
			return fmt.Errorf("%w: %s", berrors.ErrSecretNotFound, name)
		}

		entry := audit.LogWithUser(audit.OpVaultDelete)
		entry.Secret = name
		entry.Result = "succeeded"
		audit.Log(entry)

		printSuccess("Secret " + ui.Key.Sprint(name) + " deleted")
		return nil
	},
}
