package workflow

import (
	"fmt"
	"os"
	"path/filepath"

	berrors "github.com/badie/bdev/internal/errors"
	"github.com/badie/bdev/internal/utils"
)

const templateBody = `name: %[1]s
description: Describe what %[1]s does

# Available to every step, overridden by step env.
env:
  APP_ENV: development

steps:
  # A bare string is both the step name and its command.
  - echo "Starting %[1]s"

  - name: Show environment
    run: echo "Running in ${{ env.APP_ENV }}"

  - name: Optional check
    run: echo "this step may fail without stopping the workflow"
    continue_on_error: true

  # Reference vault secrets with ${{ secrets.NAME }} and run with --secrets.

on_success: echo "%[1]s finished"
on_failure: echo "%[1]s failed"
`

// CreateTemplate writes a starter definition named name and returns its
// path. An existing definition is only replaced when overwrite is set.
func (e *Engine) CreateTemplate(name string, overwrite bool) (string, error) {
	if !utils.IsValidName(name) {
		return "", fmt.Errorf("%w: %q", berrors.ErrInvalidWorkflowName, name)
	}

	path := filepath.Join(e.Dir, name+extensions[0])
	if existing, err := e.Path(name); err == nil {
		if !overwrite {
			return "", fmt.Errorf("%w: %s", berrors.ErrWorkflowExists, existing)
		}
		path = existing
	}

	if err := os.MkdirAll(e.Dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create workflow directory: %w", err)
	}
	if err := utils.WriteFileAtomic(path, []byte(fmt.Sprintf(templateBody, name)), 0644); err != nil {
		return "", err
	}
	return path, nil
}
