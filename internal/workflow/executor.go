package workflow

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"runtime"
	"sort"
	"strings"
	"time"
)

const waitDelay = 2 * time.Second

// Executor runs a single command line and reports its exit code. A non-nil
// error means the process could not be started or was interrupted.
type Executor interface {
	Execute(ctx context.Context, commandLine, dir string, env map[string]string) (int, error)
}

// ShellExecutor runs command lines through the platform shell, or through
// Shell when set. env is layered on top of the current process environment.
type ShellExecutor struct {
	Shell  string
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// NewShellExecutor returns an executor wired to the standard streams.
func NewShellExecutor(shell string) *ShellExecutor {
	return &ShellExecutor{
		Shell:  shell,
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

func (s *ShellExecutor) Execute(ctx context.Context, commandLine, dir string, env map[string]string) (int, error) {
	name, args := s.command(commandLine)

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), envList(env)...)
	cmd.Stdin = s.Stdin
	cmd.Stdout = s.Stdout
	cmd.Stderr = s.Stderr
	// Grandchildren may keep the output pipes open after a kill.
	cmd.WaitDelay = waitDelay

	err := cmd.Run()
	if err == nil {
		return 0, nil
	}
	if ctx.Err() != nil {
		return -1, ctx.Err()
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	return -1, err
}

func (s *ShellExecutor) command(commandLine string) (string, []string) {
	shell := s.Shell
	if shell == "" {
		if runtime.GOOS == "windows" {
			shell = "powershell"
		} else {
			shell = "sh"
		}
	}
	return shell, []string{shellFlag(shell), commandLine}
}

func shellFlag(shell string) string {
	base := shell
	if i := strings.LastIndexAny(base, `/\`); i >= 0 {
		base = base[i+1:]
	}
	base = strings.ToLower(strings.TrimSuffix(base, ".exe"))
	switch base {
	case "powershell", "pwsh":
		return "-Command"
	case "cmd":
		return "/C"
	default:
		return "-c"
	}
}

func envList(env map[string]string) []string {
	keys := make([]string, 0, len(env))
	for k := range env {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	list := make([]string, 0, len(keys))
	for _, k := range keys {
		list = append(list, k+"="+env[k])
	}
	return list
}
