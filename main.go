package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/badie/bdev/cmd"
	"github.com/badie/bdev/internal/ui"

	"github.com/common-nighthawk/go-figure"
	"github.com/spf13/cobra"
)

// Set via ldflags at build time: go build -ldflags "-X main.version=1.0.0"
var version = "dev"

var rootCmd = &cobra.Command{
	Use:     "bdev",
	Version: version,
	Short:   "bdev - a developer CLI with an encrypted vault and YAML workflows.",
	Long: `bdev keeps developer secrets in a password-protected vault and runs
YAML workflows of shell steps.

Features:
  - Store secrets encrypted at rest and export them to your shell
  - Run ordered workflow steps with failure handling and hooks
  - Reference vault secrets from workflows with ${{ secrets.NAME }}

Usage:
  bdev <command> [flags]

Available Commands:
  secrets    Manage the encrypted vault
  workflow   Create and run workflows
  config     Manage configuration

Run 'bdev help <command>' for more details on a specific command.
`,
	SilenceUsage:  true,
	SilenceErrors: true,
	Run: func(cmd *cobra.Command, args []string) {
		banner := figure.NewColorFigure("bdev", "alligator2", "cyan", true)
		if os.Getenv("NO_COLOR") != "" {
			banner = figure.NewFigure("bdev", "alligator2", true)
		}
		banner.Print()
		fmt.Println()
		fmt.Println("Welcome to bdev! Run " + ui.Code.Sprint("bdev --help") + " to see available commands.")
	},
}

func init() {
	rootCmd.AddCommand(cmd.SecretsCmd)
	rootCmd.AddCommand(cmd.WorkflowCmd)
	rootCmd.AddCommand(cmd.ConfigCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		cmd.PrintError(err)
		os.Exit(cmd.ExitCode(err))
	}
}
