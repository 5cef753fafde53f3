// Package cmd contains testing utilities shared between command tests.
// This file provides common functions for setting up test environments
// and capturing output.
package cmd

import (
	"bytes"
	"io"
	"log"
	"os"
	"testing"

	"github.com/badie/bdev/internal/configs"
	logger "github.com/badie/bdev/internal/logging"

	"github.com/spf13/cobra"
)

// setupTestEnvironment points bdev at a temporary config directory, sets
// the vault password env var and disables color. It returns the config dir.
func setupTestEnvironment(t *testing.T, password string) string {
	t.Helper()

	configDir := t.TempDir()
	t.Cleanup(configs.UseConfigDir(configDir))
	t.Setenv(PasswordEnv, password)
	t.Setenv("NO_COLOR", "1")

	t.Cleanup(resetAllState)

	return configDir
}

// captureOutput captures both stdout and stderr during function execution.
func captureOutput(fn func() error) (string, error) {
	originalStdout := os.Stdout
	originalStderr := os.Stderr

	stdoutReader, stdoutWriter, _ := os.Pipe()
	stderrReader, stderrWriter, _ := os.Pipe()

	os.Stdout = stdoutWriter
	os.Stderr = stderrWriter

	stdoutChan := make(chan string, 1)
	stderrChan := make(chan string, 1)

	go func() {
		var buf bytes.Buffer
		if _, err := io.Copy(&buf, stdoutReader); err != nil {
			log.Fatalf("Failed to run copy command: %s", err)
		}
		stdoutChan <- buf.String()
	}()

	go func() {
		var buf bytes.Buffer
		if _, err := io.Copy(&buf, stderrReader); err != nil {
			log.Fatalf("Failed to run copy command: %s", err)
		}
		stderrChan <- buf.String()
	}()

	err := fn()

	stdoutWriter.Close()
	stderrWriter.Close()

	os.Stdout = originalStdout
	os.Stderr = originalStderr

	return <-stdoutChan + <-stderrChan, err
}

// createTestCLI builds a root command holding every command group, with args set.
func createTestCLI(args ...string) *cobra.Command {
	Logger = logger.Logger{}
	WorkflowLogger = logger.Logger{}
	ConfigLogger = logger.Logger{}

	rootCmd := &cobra.Command{
		Use:           "bdev",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.AddCommand(SecretsCmd)
	rootCmd.AddCommand(WorkflowCmd)
	rootCmd.AddCommand(ConfigCmd)
	rootCmd.SetArgs(args)

	return rootCmd
}

func resetAllState() {
	ResetGlobalState()
	ResetWorkflowState()
	ResetConfigState()
}

// runCLI executes args against a fresh root command and captures the output.
// Flag state is reset first so earlier invocations do not leak into this one.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetAllState()
	return captureOutput(func() error {
		return createTestCLI(args...).Execute()
	})
}
