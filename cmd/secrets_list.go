package cmd

import (
	"fmt"

	"github.com/badie/bdev/internal/ui"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List secret names",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		v, err := unlockVault(false)
		if err != nil {
			return err
		}

		keys := v.ListKeys()
		if len(keys) == 0 {
			fmt.Println(ui.Warning.Sprint("⚠") + " The vault is empty")
			fmt.Println(ui.Info.Sprint("→") + " Run " + ui.Code.Sprint("bdev secrets set <name>") + " to add a secret")
			return nil
		}

		for _, key := range keys {
			fmt.Println("  " + ui.Key.Sprint(key))
		}
		fmt.Println()
		fmt.Println(ui.Muted.Sprintf("%d secrets", len(keys)))
		return nil
	},
}
