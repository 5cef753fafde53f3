package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/badie/bdev/internal/ui"
	"github.com/badie/bdev/internal/workflow"

	"github.com/spf13/cobra"
)

var workflowShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Show a workflow's steps and hooks",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, err := newEngine()
		if err != nil {
			return err
		}

		def, err := engine.Load(args[0])
		if err != nil {
			return err
		}

		fmt.Println(ui.Panel(def.Name, describeDefinition(def)...))
		return nil
	},
}

func describeDefinition(def *workflow.Definition) []string {
	var lines []string
	if def.Description != "" {
		lines = append(lines, def.Description, "")
	}

	if len(def.Env) > 0 {
		lines = append(lines, "Env:")
		lines = append(lines, formatEnv(def.Env, "  ")...)
		lines = append(lines, "")
	}

	lines = append(lines, "Steps:")
	if len(def.Steps) == 0 {
		lines = append(lines, "  "+ui.Muted.Sprint("none"))
	}
	for i, step := range def.Steps {
		lines = append(lines, fmt.Sprintf("  %d. %s", i+1, step.Name))
		if step.Run != step.Name {
			lines = append(lines, "     $ "+step.Run)
		}

		var notes []string
		if step.ContinueOnError {
			notes = append(notes, "continue on error")
		}
		if step.Cwd != "" {
			notes = append(notes, "cwd "+step.Cwd)
		}
		if step.Timeout != "" {
			notes = append(notes, "timeout "+step.Timeout)
		}
		if step.If != "" {
			notes = append(notes, "if "+step.If+" (not evaluated)")
		}
		if len(notes) > 0 {
			lines = append(lines, "     "+ui.Muted.Sprint(strings.Join(notes, ", ")))
		}
		if len(step.Env) > 0 {
			lines = append(lines, formatEnv(step.Env, "     ")...)
		}
	}

	if def.OnSuccess != "" || def.OnFailure != "" {
		lines = append(lines, "", "Hooks:")
		if def.OnSuccess != "" {
			lines = append(lines, "  on_success: "+def.OnSuccess)
		}
		if def.OnFailure != "" {
			lines = append(lines, "  on_failure: "+def.OnFailure)
		}
	}

	return lines
}

func formatEnv(env map[string]string, indent string) []string {
	keys := make([]string, 0, len(env))
	for k := range env {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, indent+k+"="+env[k])
	}
	return lines
}
