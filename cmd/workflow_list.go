package cmd

import (
	"fmt"

	"github.com/badie/bdev/internal/ui"

	"github.com/spf13/cobra"
)

var workflowListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List available workflows",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, err := newEngine()
		if err != nil {
			return err
		}

		names, err := engine.List()
		if err != nil {
			return WorkflowLogger.ErrorfAndReturn("failed to list workflows: %w", err)
		}

		if len(names) == 0 {
			fmt.Println(ui.Warning.Sprint("⚠") + " No workflows found in " + ui.Path.Sprint(engine.Dir))
			fmt.Println(ui.Info.Sprint("→") + " Run " + ui.Code.Sprint("bdev workflow create <name>") + " to scaffold one")
			return nil
		}

		for _, name := range names {
			def, err := engine.Load(name)
			if err != nil {
				WorkflowLogger.Debugf("Failed to load %s: %v", name, err)
				fmt.Println("  " + ui.Key.Sprint(name) + " " + ui.Error.Sprint("invalid"))
				continue
			}

			line := "  " + ui.Key.Sprint(name)
			if def.Description != "" {
				line += " " + def.Description
			}
			line += " " + ui.Muted.Sprintf("%d steps", len(def.Steps))
			fmt.Println(line)
		}
		return nil
	},
}
