package cmd

import (
	"errors"
	"fmt"
	"os"

	berrors "github.com/badie/bdev/internal/errors"
	"github.com/badie/bdev/internal/ui"
)

// ExitAborted is the exit status for a run interrupted by SIGINT.
const ExitAborted = 130

// PrintError writes err to stderr with a hint for well-known failures.
func PrintError(err error) {
	fmt.Fprintln(os.Stderr, ui.Error.Sprint("✗")+" "+err.Error())
	if hint := errorHint(err); hint != "" {
		fmt.Fprintln(os.Stderr, ui.Info.Sprint("→")+" "+hint)
	}
}

// ExitCode maps err to a process exit status.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	if errors.Is(err, berrors.ErrWorkflowAborted) {
		return ExitAborted
	}
	return 1
}

func errorHint(err error) string {
	switch {
	case errors.Is(err, berrors.ErrVaultNotInitialized):
		return "Run " + ui.Code.Sprint("bdev secrets init") + " to create the vault"
	case errors.Is(err, berrors.ErrVaultAlreadyInitialized):
		return "Use " + ui.Flag.Sprint("--force") + " to replace it. All stored secrets will be lost"
	case errors.Is(err, berrors.ErrAuthenticationFailed):
		return "Check the password, or " + ui.Code.Sprint(PasswordEnv) + " if it is set"
	case errors.Is(err, berrors.ErrWorkflowNotFound):
		return "Run " + ui.Code.Sprint("bdev workflow list") + " to see available workflows"
	case errors.Is(err, berrors.ErrWorkflowExists):
		return "Use " + ui.Flag.Sprint("--force") + " to overwrite it"
	case errors.Is(err, berrors.ErrInvalidConfig):
		return "Fix or regenerate it with " + ui.Code.Sprint("bdev config init --force")
	default:
		return ""
	}
}
