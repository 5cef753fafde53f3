package cmd

import (
	"fmt"
	"os"

	"github.com/badie/bdev/internal/audit"
	"github.com/badie/bdev/internal/ui"
	"github.com/badie/bdev/internal/utils"

	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import <file|->",
	Short: "Import secrets from a .env file",
	Long: `Imports KEY=VALUE pairs into the vault, overwriting existing names.

Pass - to read from stdin. The vault password is then read from the terminal
device, or from BDEV_VAULT_PASSWORD.

Examples:
  bdev secrets import .env
  cat .env.production | bdev secrets import -`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		source := args[0]
		Logger.Infof("Starting import command from %s", source)

		fromStdin := source == "-"

		var data []byte
		var err error
		if fromStdin {
			data, err = utils.ReadStdin()
		} else {
			data, err = os.ReadFile(source)
		}
		if err != nil {
			return Logger.ErrorfAndReturn("failed to read %s: %w", source, err)
		}

		values, err := utils.ParseDotenv(data)
		if err != nil {
			return Logger.ErrorfAndReturn("failed to parse %s: %w", source, err)
		}
		if len(values) == 0 {
			fmt.Println(ui.Warning.Sprint("⚠") + " No secrets found in " + ui.Path.Sprint(source))
			return nil
		}
		Logger.Debugf("Parsed %d entries", len(values))

		v, err := unlockVault(fromStdin)
		if err != nil {
			return err
		}

		if err := v.Import(values); err != nil {
			return Logger.ErrorfAndReturn("failed to import secrets: %w", err)
		}

		entry := audit.LogWithUser(audit.OpVaultImport)
		entry.SecretCount = len(values)
		entry.Result = "succeeded"
		audit.Log(entry)

		printSuccess(fmt.Sprintf("Imported %d secrets", len(values)))
		return nil
	},
}
