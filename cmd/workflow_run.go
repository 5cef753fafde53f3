package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/badie/bdev/internal/audit"
	berrors "github.com/badie/bdev/internal/errors"
	"github.com/badie/bdev/internal/ui"
	"github.com/badie/bdev/internal/workflow"

	"github.com/spf13/cobra"
)

var (
	workflowRunDir     string
	workflowRunSecrets bool
	workflowRunTimeout time.Duration
	workflowRunEnv     []string
)

func init() {
	workflowRunCmd.Flags().StringVar(&workflowRunDir, "dir", "", "directory to run steps in (default: current directory)")
	workflowRunCmd.Flags().BoolVar(&workflowRunSecrets, "secrets", false, "unlock the vault so steps can use ${{ secrets.NAME }}")
	workflowRunCmd.Flags().DurationVar(&workflowRunTimeout, "timeout", 0, "default per-step timeout, overriding config.toml")
	workflowRunCmd.Flags().StringArrayVarP(&workflowRunEnv, "env", "e", nil, "base KEY=VALUE for every step, below workflow and step env (repeatable)")
}

func resetWorkflowRunState() {
	workflowRunDir = ""
	workflowRunSecrets = false
	workflowRunTimeout = 0
	workflowRunEnv = nil
}

var workflowRunCmd = &cobra.Command{
	Use:   "run <name>",
	Short: "Run a workflow",
	Long: `Runs the steps of a workflow in order.

The vault is unlocked when --secrets is given or when the workflow references
${{ secrets.NAME }}. Values given with --env form the lowest env layer, so
workflow and step env override them. Press Ctrl+C to abort; no further steps
or hooks run.

Examples:
  bdev workflow run deploy --dir ./service
  bdev workflow run deploy --env STAGE=prod --timeout 5m`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		WorkflowLogger.Infof("Starting run command for %s", name)

		engine, err := newEngine()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("timeout") {
			if workflowRunTimeout < 0 {
				return fmt.Errorf("%w: --timeout must not be negative", berrors.ErrInvalidConfig)
			}
			engine.DefaultTimeout = workflowRunTimeout
		}

		baseEnv, err := parseEnvPairs(workflowRunEnv)
		if err != nil {
			return err
		}
		engine.BaseEnv = baseEnv

		def, err := engine.Load(name)
		if err != nil {
			return err
		}

		if workflowRunSecrets || workflow.ReferencesSecrets(def) {
			WorkflowLogger.Debugf("Unlocking vault for secret references")
			v, err := unlockVaultWithLogger(WorkflowLogger, false)
			if err != nil {
				return err
			}
			defer v.Lock()
			engine.Secrets = v
		}

		workDir := workflowRunDir
		if workDir == "" {
			if workDir, err = os.Getwd(); err != nil {
				return WorkflowLogger.ErrorfAndReturn("failed to get working directory: %w", err)
			}
		}

		engine.BeforeStep = func(index, total int, step workflow.Step) {
			fmt.Println()
			fmt.Println(ui.Info.Sprintf("Step %d/%d", index+1, total) + " " + step.Name)
		}
		engine.OnStep = printStepResult

		if def.Description != "" {
			fmt.Println(ui.Highlight.Sprint(def.Name) + " " + ui.Muted.Sprint(def.Description))
		}

		report := engine.Execute(cmd.Context(), def, workDir)

		auditRun(report)
		fmt.Println()
		fmt.Println(ui.Panel("Workflow "+report.Workflow, summarizeReport(report)...))

		return report.Err()
	},
}

// parseEnvPairs turns KEY=VALUE arguments into a map. Later keys win.
func parseEnvPairs(pairs []string) (map[string]string, error) {
	env := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || strings.TrimSpace(key) == "" {
			return nil, fmt.Errorf("invalid --env %q, expected KEY=VALUE", pair)
		}
		env[key] = value
	}
	return env, nil
}

func printStepResult(result workflow.StepResult) {
	duration := ui.Muted.Sprint(result.Duration.Round(time.Millisecond).String())

	switch {
	case result.Status == workflow.StepPassed:
		fmt.Println(ui.Success.Sprint("✓") + " Passed " + duration)
	case result.Status == workflow.StepAborted:
		fmt.Println(ui.Warning.Sprint("⚠") + " Aborted")
	case result.Tolerated:
		fmt.Println(ui.Warning.Sprint("✗") + " Failed, continuing: " + result.Err.Error() + " " + duration)
	default:
		fmt.Println(ui.Error.Sprint("✗") + " Failed: " + result.Err.Error() + " " + duration)
	}
}

func summarizeReport(report *workflow.Report) []string {
	var status string
	switch report.State {
	case workflow.Succeeded:
		status = ui.Success.Sprint("succeeded")
	case workflow.Aborted:
		status = ui.Warning.Sprint("aborted")
	default:
		status = ui.Error.Sprint("failed")
	}

	lines := []string{
		"Result:   " + status,
		fmt.Sprintf("Steps:    %d passed, %d failed, %d of %d run", report.Succeeded, report.Failed, len(report.Steps), report.TotalSteps),
		"Duration: " + report.Duration.Round(time.Millisecond).String(),
	}
	if report.HookFired != workflow.HookNone {
		lines = append(lines, "Hook:     "+string(report.HookFired))
	}
	lines = append(lines, ui.Muted.Sprint("run "+report.RunID))
	return lines
}

func auditRun(report *workflow.Report) {
	entry := audit.LogWithUser(audit.OpWorkflowRun)
	entry.Workflow = report.Workflow
	entry.RunID = report.RunID
	entry.Result = report.State.String()
	entry.StepsTotal = report.TotalSteps
	entry.StepsFailed = report.Failed
	entry.DurationMs = report.Duration.Milliseconds()
	audit.Log(entry)
}
