package cmd

import (
	"github.com/badie/bdev/internal/audit"
	"github.com/badie/bdev/internal/ui"

	"github.com/spf13/cobra"
)

var setCmd = &cobra.Command{
	Use:   "set <name> [value]",
	Short: "Store a secret",
	Long: `Stores a secret in the vault, replacing any existing value.

When the value is omitted it is read from the terminal without echo, which keeps
it out of shell history.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		Logger.Infof("Starting set command for %s", name)

		v, err := unlockVault(false)
		if err != nil {
			return err
		}

		var value string
		if len(args) == 2 {
			value = args[1]
		} else {
			Logger.Debugf("Reading value for %s from the terminal", name)
			raw, err := readSecretValue(name)
			if err != nil {
				return err
			}
			value = raw
		}

		_, existed := v.Get(name)
		if err := v.Set(name, value); err != nil {
			return Logger.ErrorfAndReturn("failed to store %s: %w", name, err)
		}

		entry := audit.LogWithUser(audit.OpVaultSet)
		entry.Secret = name
		entry.Result = "succeeded"
		audit.Log(entry)

		verb := "stored"
		if existed {
			verb = "updated"
		}
		printSuccess("Secret " + ui.Key.Sprint(name) + " " + verb)
		return nil
	},
}
