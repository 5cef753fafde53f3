package cmd

import (
	"github.com/badie/bdev/internal/ui"

	"github.com/spf13/cobra"
)

var workflowDeleteCmd = &cobra.Command{
	Use:     "delete <name>",
	Aliases: []string{"rm"},
	Short:   "Delete a workflow",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, err := newEngine()
		if err != nil {
			return err
		}

		if err := engine.Delete(args[0]); err != nil {
			return err
		}

		printSuccess("Workflow " + ui.Key.Sprint(args[0]) + " deleted")
		return nil
	},
}
