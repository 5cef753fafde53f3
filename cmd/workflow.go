package cmd

import (
	"time"

	"github.com/badie/bdev/internal/configs"
	logger "github.com/badie/bdev/internal/logging"
	"github.com/badie/bdev/internal/workflow"

	"github.com/spf13/cobra"
)

var (
	workflowVerbose bool
	workflowDebug   bool
	WorkflowLogger  logger.Logger

	// WorkflowCmd is the top-level workflow command.
	WorkflowCmd = &cobra.Command{
		Use:     "workflow",
		Aliases: []string{"wf"},
		Short:   "Run YAML workflows",
		Long: `Loads workflow definitions from the bdev config directory and runs their
steps in order as shell commands.

A failing step stops the workflow and runs its on_failure hook, unless the step
sets continue_on_error. When every step has run, on_success fires.

Examples:
  # Scaffold a workflow, then edit it
  bdev workflow create deploy

  # Run it in the current directory
  bdev workflow run deploy

  # Run with vault secrets available as ${{ secrets.NAME }}
  bdev workflow run deploy --secrets`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			WorkflowLogger = logger.Logger{
				Verbose: workflowVerbose,
				Debug:   workflowDebug,
			}
			WorkflowLogger.Debugf("Initializing workflow command with verbose=%t, debug=%t", workflowVerbose, workflowDebug)
		},
	}
)

func init() {
	WorkflowCmd.PersistentFlags().BoolVarP(&workflowVerbose, "verbose", "v", false, "enable verbose output")
	WorkflowCmd.PersistentFlags().BoolVarP(&workflowDebug, "debug", "d", false, "enable debug output")

	WorkflowCmd.AddCommand(workflowListCmd)
	WorkflowCmd.AddCommand(workflowShowCmd)
	WorkflowCmd.AddCommand(workflowRunCmd)
	WorkflowCmd.AddCommand(workflowCreateCmd)
	WorkflowCmd.AddCommand(workflowDeleteCmd)
}

// GetWorkflowCmd returns the WorkflowCmd for testing.
func GetWorkflowCmd() *cobra.Command {
	return WorkflowCmd
}

// ResetWorkflowState resets all workflow command global variables for testing.
func ResetWorkflowState() {
	workflowVerbose = false
	workflowDebug = false
	WorkflowLogger = logger.Logger{}
	resetWorkflowRunState()
	resetWorkflowCreateState()
	resetCobraFlagState(WorkflowCmd)
}

// newEngine builds an engine from config.toml.
func newEngine() (*workflow.Engine, error) {
	config, err := configs.LoadConfig()
	if err != nil {
		return nil, err
	}

	timeout, err := config.Workflow.Timeout()
	if err != nil {
		return nil, err
	}

	engine := workflow.New(configs.BdevSettings.WorkflowsDir)
	engine.Executor = workflow.NewShellExecutor(config.Workflow.Shell)
	engine.Logger = WorkflowLogger
	engine.DefaultTimeout = timeout

	WorkflowLogger.Debugf("Workflow directory: %s, default timeout: %s", engine.Dir, formatTimeout(timeout))
	return engine, nil
}

func formatTimeout(d time.Duration) string {
	if d == 0 {
		return "none"
	}
	return d.String()
}
