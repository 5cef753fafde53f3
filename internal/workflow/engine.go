package workflow

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	berrors "github.com/badie/bdev/internal/errors"
	logger "github.com/badie/bdev/internal/logging"
	"github.com/badie/bdev/internal/utils"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

var extensions = []string{".yml", ".yaml"}

// Engine loads definitions from Dir and runs them through Executor.
type Engine struct {
	Dir      string
	Executor Executor
	Logger   logger.Logger

	// DefaultTimeout bounds every step without its own timeout. Zero means
	// unbounded.
	DefaultTimeout time.Duration

	// BaseEnv is the lowest env layer, below workflow and step env.
	BaseEnv map[string]string

	// Secrets resolves ${{ secrets.X }}. Nil leaves such references empty.
	Secrets SecretSource

	// BeforeStep and OnStep observe progress, e.g. for terminal output.
	BeforeStep func(index, total int, step Step)
	OnStep     func(result StepResult)
}

// New returns an engine for dir using a ShellExecutor on the standard streams.
func New(dir string) *Engine {
	return &Engine{
		Dir:      dir,
		Executor: NewShellExecutor(""),
	}
}

// List returns the names of all definitions in Dir, sorted. A missing
// directory has no workflows.
func (e *Engine) List() ([]string, error) {
	if _, err := os.Stat(e.Dir); errors.Is(err, os.ErrNotExist) {
		return []string{}, nil
	}

	matches, err := doublestar.Glob(os.DirFS(e.Dir), "*.{yml,yaml}")
	if err != nil {
		return nil, fmt.Errorf("failed to list workflows in %s: %w", e.Dir, err)
	}

	seen := make(map[string]bool, len(matches))
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		name := strings.TrimSuffix(m, filepath.Ext(m))
		if seen[name] || !utils.FileExists(filepath.Join(e.Dir, m)) {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Path returns the file holding the named definition.
func (e *Engine) Path(name string) (string, error) {
	if !utils.IsValidName(name) {
		return "", fmt.Errorf("%w: %q", berrors.ErrInvalidWorkflowName, name)
	}
	for _, ext := range extensions {
		path := filepath.Join(e.Dir, name+ext)
		if utils.FileExists(path) {
			return path, nil
		}
	}
	return "", fmt.Errorf("%w: %s", berrors.ErrWorkflowNotFound, name)
}

// Load reads and parses the named definition.
func (e *Engine) Load(name string) (*Definition, error) {
	path, err := e.Path(name)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read workflow %s: %w", path, err)
	}

	def, err := Parse(data, name)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return def, nil
}

// Save writes def to Dir, replacing an existing document of the same name.
func (e *Engine) Save(def *Definition) error {
	if !utils.IsValidName(def.Name) {
		return fmt.Errorf("%w: %q", berrors.ErrInvalidWorkflowName, def.Name)
	}
	if err := def.Validate(); err != nil {
		return err
	}

	data, err := yaml.Marshal(def)
	if err != nil {
		return fmt.Errorf("failed to encode workflow: %w", err)
	}

	path, err := e.Path(def.Name)
	if err != nil {
		path = filepath.Join(e.Dir, def.Name+extensions[0])
	}
	return utils.WriteFileAtomic(path, data, 0644)
}

// Delete removes the named definition.
func (e *Engine) Delete(name string) error {
	path, err := e.Path(name)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("failed to delete workflow %s: %w", name, err)
	}
	return nil
}

// Run loads and executes the named workflow in workDir. The error is only
// set when the definition cannot be loaded; the run outcome is in the Report.
func (e *Engine) Run(ctx context.Context, name, workDir string) (*Report, error) {
	def, err := e.Load(name)
	if err != nil {
		return nil, err
	}
	return e.Execute(ctx, def, workDir), nil
}

// Execute runs def step by step. See the package documentation for the
// halting and hook rules.
func (e *Engine) Execute(ctx context.Context, def *Definition, workDir string) *Report {
	report := &Report{
		RunID:      uuid.NewString(),
		Workflow:   def.Name,
		TotalSteps: len(def.Steps),
		State:      NotStarted,
		Started:    time.Now(),
	}
	defer func() { report.Duration = time.Since(report.Started) }()

	if workDir == "" {
		workDir = "."
	}

	report.State = Running
	e.Logger.Debugf("Starting workflow %s (run %s) with %d steps", def.Name, report.RunID, len(def.Steps))
	if len(def.Steps) == 0 {
		e.Logger.Warnf("Workflow %s has no steps; check for a misspelled steps key", def.Name)
	}

	for i, step := range def.Steps {
		if ctx.Err() != nil {
			e.abort(report, def)
			return report
		}

		if e.BeforeStep != nil {
			e.BeforeStep(i, len(def.Steps), step)
		}
		if step.If != "" {
			e.Logger.Debugf("Step %q has if: %q; conditions are not evaluated, running anyway", step.Name, step.If)
		}

		result := e.runStep(ctx, def, i, step, workDir)

		if result.Status == StepAborted {
			report.Steps = append(report.Steps, result)
			e.notify(result)
			e.abort(report, def)
			return report
		}

		if result.Status == StepFailed {
			report.Failed++
			if step.ContinueOnError {
				result.Tolerated = true
				report.Steps = append(report.Steps, result)
				e.notify(result)
				e.Logger.Infof("Step %q failed, continuing (continue_on_error)", step.Name)
				continue
			}

			report.Steps = append(report.Steps, result)
			e.notify(result)
			report.State = Failed
			if def.OnFailure != "" {
				e.runHook(ctx, def, HookFailure, def.OnFailure, workDir)
				report.HookFired = HookFailure
			}
			return report
		}

		report.Succeeded++
		report.Steps = append(report.Steps, result)
		e.notify(result)
	}

	report.State = Succeeded
	if def.OnSuccess != "" {
		e.runHook(ctx, def, HookSuccess, def.OnSuccess, workDir)
		report.HookFired = HookSuccess
	}
	return report
}

func (e *Engine) abort(report *Report, def *Definition) {
	report.State = Aborted
	e.Logger.Warnf("Workflow %s interrupted; no further steps or hooks will run", def.Name)
}

func (e *Engine) notify(result StepResult) {
	if e.OnStep != nil {
		e.OnStep(result)
	}
}

func (e *Engine) runStep(ctx context.Context, def *Definition, index int, step Step, workDir string) StepResult {
	start := time.Now()
	result := StepResult{Index: index, Name: step.Name, Status: StepPassed}

	x := &expander{secrets: e.Secrets}
	env := e.expandEnv(x, mergeEnv(e.BaseEnv, def.Env, step.Env))
	x.env = env

	result.Command = x.expand(step.Run)
	dir := workDir
	if step.Cwd != "" {
		cwd := x.expand(step.Cwd)
		if filepath.IsAbs(cwd) {
			dir = cwd
		} else {
			dir = filepath.Join(workDir, cwd)
		}
	}
	for _, ref := range x.missing {
		e.Logger.Warnf("Step %q references %s, which is not set; using an empty value", step.Name, ref)
	}

	timeout := e.DefaultTimeout
	if d, _ := step.StepTimeout(); d > 0 {
		timeout = d
	}

	stepCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		stepCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	e.Logger.Debugf("Running step %d %q in %s", index+1, step.Name, dir)
	code, err := e.Executor.Execute(stepCtx, result.Command, dir, env)
	result.ExitCode = code

	switch {
	case err == nil && code == 0:
		// Finished cleanly, even if a deadline expired meanwhile.
	case ctx.Err() != nil:
		result.Status = StepAborted
		result.Err = ctx.Err()
	case stepCtx.Err() != nil:
		result.Status = StepFailed
		result.Err = fmt.Errorf("%w: timed out after %s", berrors.ErrStepFailed, timeout)
	case err != nil:
		result.Status = StepFailed
		result.Err = fmt.Errorf("%w: %v", berrors.ErrStepFailed, err)
	case code != 0:
		result.Status = StepFailed
		result.Err = fmt.Errorf("%w: exit code %d", berrors.ErrStepFailed, code)
	}

	result.Duration = time.Since(start)
	return result
}

// expandEnv resolves references inside env values. Values only see the
// layers themselves, not each other's expansions.
func (e *Engine) expandEnv(x *expander, env map[string]string) map[string]string {
	x.env = env
	out := make(map[string]string, len(env))
	for k, v := range env {
		out[k] = x.expand(v)
	}
	return out
}

// runHook fires a hook command. Its outcome is logged and otherwise ignored.
func (e *Engine) runHook(ctx context.Context, def *Definition, hook Hook, command, workDir string) {
	x := &expander{secrets: e.Secrets}
	env := e.expandEnv(x, mergeEnv(e.BaseEnv, def.Env))
	x.env = env
	line := x.expand(command)

	e.Logger.Debugf("Running %s hook: %s", hook, line)
	code, err := e.Executor.Execute(ctx, line, workDir, env)
	if err != nil {
		e.Logger.Warnf("%s hook could not run: %v", hook, err)
		return
	}
	if code != 0 {
		e.Logger.Warnf("%s hook exited with code %d", hook, code)
	}
}
