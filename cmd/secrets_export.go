package cmd

import (
	"fmt"
	"os"

	"github.com/badie/bdev/internal/audit"
	"github.com/badie/bdev/internal/ui"
	"github.com/badie/bdev/internal/utils"

	"github.com/spf13/cobra"
)

var exportForce bool

func init() {
	exportCmd.Flags().BoolVarP(&exportForce, "force", "f", false, "overwrite an existing file")
}

func resetExportCommandState() {
	exportForce = false
}

var exportCmd = &cobra.Command{
	Use:   "export <file|->",
	Short: "Export secrets to a .env file",
	Long: `Writes every secret as a KEY='VALUE' line, readable by secrets import.

Names are written unchanged. Pass - to print to stdout. The file is created
with mode 0600 and an existing file is only replaced with --force.

Examples:
  bdev secrets export backup.env
  bdev secrets export - > .env.local`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		target := args[0]
		Logger.Infof("Starting export command to %s", target)

		toStdout := target == "-"
		if !toStdout && utils.FileExists(target) && !exportForce {
			return fmt.Errorf("%s already exists, use --force to overwrite it", target)
		}

		v, err := unlockVault(false)
		if err != nil {
			return err
		}
		defer v.Lock()

		values, err := v.Export()
		if err != nil {
			return Logger.ErrorfAndReturn("failed to export secrets: %w", err)
		}

		data, err := utils.FormatDotenv(values)
		if err != nil {
			return Logger.ErrorfAndReturn("failed to export secrets: %w", err)
		}

		if toStdout {
			if _, err := os.Stdout.Write(data); err != nil {
				return Logger.ErrorfAndReturn("failed to write secrets: %w", err)
			}
		} else if err := utils.WriteFileAtomic(target, data, 0600); err != nil {
			return Logger.ErrorfAndReturn("failed to write %s: %w", target, err)
		}

		entry := audit.LogWithUser(audit.OpVaultExport)
		entry.SecretCount = len(values)
		entry.Result = "succeeded"
		audit.Log(entry)

		if !toStdout {
			printSuccess(fmt.Sprintf("Exported %d secrets to %s", len(values), ui.Path.Sprint(target)))
		}
		return nil
	},
}
