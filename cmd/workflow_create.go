package cmd

import (
	"fmt"

	berrors "github.com/badie/bdev/internal/errors"
	"github.com/badie/bdev/internal/ui"
	"github.com/badie/bdev/internal/workflow"

	"github.com/spf13/cobra"
)

var (
	workflowCreateForce       bool
	workflowCreateSteps       []string
	workflowCreateDescription string
)

func init() {
	workflowCreateCmd.Flags().BoolVarP(&workflowCreateForce, "force", "f", false, "overwrite an existing workflow")
	workflowCreateCmd.Flags().StringArrayVarP(&workflowCreateSteps, "step", "s", nil, "command line for a step, in order (repeatable)")
	workflowCreateCmd.Flags().StringVar(&workflowCreateDescription, "description", "", "description stored with --step workflows")
}

func resetWorkflowCreateState() {
	workflowCreateForce = false
	workflowCreateSteps = nil
	workflowCreateDescription = ""
}

var workflowCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Scaffold a new workflow",
	Long: `Creates a workflow definition in the workflows directory.

Without --step a commented starter document is written. With --step the
workflow is built from the given command lines instead.

Examples:
  bdev workflow create deploy
  bdev workflow create check --step "go vet ./..." --step "go test ./..."`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]

		engine, err := newEngine()
		if err != nil {
			return err
		}

		var path string
		if len(workflowCreateSteps) == 0 {
			path, err = engine.CreateTemplate(name, workflowCreateForce)
		} else {
			path, err = saveSteps(engine, name)
		}
		if err != nil {
			return err
		}

		printSuccess("Workflow " + ui.Key.Sprint(name) + " created at " + ui.Path.Sprint(path))
		printHint("Edit it, then run " + ui.Code.Sprint("bdev workflow run "+name))
		return nil
	},
}

func saveSteps(engine *workflow.Engine, name string) (string, error) {
	if _, err := engine.Path(name); err == nil && !workflowCreateForce {
		return "", fmt.Errorf("%w: %s", berrors.ErrWorkflowExists, name)
	}

	def := &workflow.Definition{
		Name:        name,
		Description: workflowCreateDescription,
	}
	for _, line := range workflowCreateSteps {
		def.Steps = append(def.Steps, workflow.Step{Name: line, Run: line})
	}
	WorkflowLogger.Debugf("Saving workflow %s with %d steps", name, len(def.Steps))

	if err := engine.Save(def); err != nil {
		return "", err
	}
	return engine.Path(name)
}
