package workflow

import (
	"bytes"
	"context"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBufferedExecutor() (*ShellExecutor, *bytes.Buffer) {
	var out bytes.Buffer
	return &ShellExecutor{Stdout: &out, Stderr: &out}, &out
}

func TestShellExecutorExitCode(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses sh")
	}
	exec, _ := newBufferedExecutor()

	code, err := exec.Execute(context.Background(), "exit 3", t.TempDir(), nil)
	require.NoError(t, err)
	assert.Equal(t, 3, code)

	code, err = exec.Execute(context.Background(), "true", t.TempDir(), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, code)
}

func TestShellExecutorEnvAndDir(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses sh")
	}
	exec, out := newBufferedExecutor()
	dir := t.TempDir()

	code, err := exec.Execute(context.Background(), `echo "$GREETING"; pwd`, dir, map[string]string{"GREETING": "hello"})
	require.NoError(t, err)
	assert.Equal(t, 0, code)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "hello", lines[0])
	assert.Contains(t, lines[1], dir[strings.LastIndex(dir, "/")+1:])
}

func TestShellExecutorContextCancel(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses sh")
	}
	exec, _ := newBufferedExecutor()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := exec.Execute(ctx, "exec sleep 5", t.TempDir(), nil)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestShellFlag(t *testing.T) {
	assert.Equal(t, "-c", shellFlag("sh"))
	assert.Equal(t, "-c", shellFlag("/bin/bash"))
	assert.Equal(t, "-Command", shellFlag("pwsh"))
	assert.Equal(t, "-Command", shellFlag(`C:\Windows\powershell.exe`))
	assert.Equal(t, "/C", shellFlag("cmd.exe"))
}
