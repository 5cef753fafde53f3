package workflow

import (
	"fmt"
	"time"

	berrors "github.com/badie/bdev/internal/errors"
)

// RunState is the state of a single workflow run.
type RunState int

const (
	NotStarted RunState = iota
	Running
	Succeeded
	Failed
	Aborted
)

func (s RunState) String() string {
	switch s {
	case NotStarted:
		return "not started"
	case Running:
		return "running"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	case Aborted:
		return "aborted"
	default:
		return fmt.Sprintf("RunState(%d)", int(s))
	}
}

// StepStatus is the outcome of one step.
type StepStatus string

const (
	StepPassed  StepStatus = "passed"
	StepFailed  StepStatus = "failed"
	StepAborted StepStatus = "aborted"
)

// Hook names which hook a run fired.
type Hook string

const (
	HookNone    Hook = ""
	HookSuccess Hook = "on_success"
	HookFailure Hook = "on_failure"
)

// StepResult records one executed step.
type StepResult struct {
	Index    int
	Name     string
	Command  string
	Status   StepStatus
	ExitCode int
	Err      error
	Duration time.Duration
	// Tolerated is set when the step failed but had continue_on_error.
	Tolerated bool
}

// Report is the outcome of a run. It is never persisted.
type Report struct {
	RunID      string
	Workflow   string
	Steps      []StepResult
	TotalSteps int
	Succeeded  int
	Failed     int
	State      RunState
	HookFired  Hook
	Started    time.Time
	Duration   time.Duration
}

// Success reports whether the run completed without a halting failure.
func (r *Report) Success() bool {
	return r.State == Succeeded
}

// FailedStep returns the step that halted the run, if any.
func (r *Report) FailedStep() (StepResult, bool) {
	if r.State != Failed || len(r.Steps) == 0 {
		return StepResult{}, false
	}
	last := r.Steps[len(r.Steps)-1]
	return last, last.Status == StepFailed && !last.Tolerated
}

// Err converts a non-successful run into an error matching
// ErrWorkflowFailed or ErrWorkflowAborted.
func (r *Report) Err() error {
	switch r.State {
	case Failed:
		if step, ok := r.FailedStep(); ok {
			return fmt.Errorf("%w: %s halted at step %d (%s)", berrors.ErrWorkflowFailed, r.Workflow, step.Index+1, step.Name)
		}
		return fmt.Errorf("%w: %s", berrors.ErrWorkflowFailed, r.Workflow)
	case Aborted:
		return fmt.Errorf("%w: %s", berrors.ErrWorkflowAborted, r.Workflow)
	default:
		return nil
	}
}
