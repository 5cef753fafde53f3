package cmd

import (
	"fmt"

	"github.com/badie/bdev/internal/configs"
	"github.com/badie/bdev/internal/ui"
	"github.com/badie/bdev/internal/utils"

	"github.com/spf13/cobra"
)

var (
	configInitForce          bool
	configInitMinLength      int
	configInitDefaultTimeout string
	configInitShell          string
)

func init() {
	configInitCmd.Flags().BoolVarP(&configInitForce, "force", "f", false, "overwrite an existing config.toml")
	configInitCmd.Flags().IntVar(&configInitMinLength, "min-password-length", 0, "minimum vault password length (default 8)")
	configInitCmd.Flags().StringVar(&configInitDefaultTimeout, "default-timeout", "", "default per-step workflow timeout, e.g. 10m")
	configInitCmd.Flags().StringVar(&configInitShell, "shell", "", "shell binary used to run workflow steps")
	ConfigCmd.AddCommand(configInitCmd)
}

// resetConfigInitState resets the config init command's global state for testing.
func resetConfigInitState() {
	configInitForce = false
	configInitMinLength = 0
	configInitDefaultTimeout = ""
	configInitShell = ""
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create config.toml and the bdev data directories",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ConfigLogger.Infof("Starting config init command")
		settings := configs.BdevSettings

		if utils.FileExists(settings.ConfigPath) && !configInitForce {
			fmt.Println(ui.Warning.Sprint("⚠") + " " + ui.Path.Sprint(settings.ConfigPath) + " already exists")
			printHint("Use " + ui.Flag.Sprint("--force") + " to overwrite it")
			return nil
		}

		config := configs.DefaultConfig()
		if cmd.Flags().Changed("min-password-length") {
			config.Vault.MinPasswordLength = configInitMinLength
		}
		config.Workflow.DefaultTimeout = configInitDefaultTimeout
		config.Workflow.Shell = configInitShell

		ConfigLogger.Debugf("Creating directories under %s", settings.ConfigDir)
		if err := settings.EnsureDirectories(); err != nil {
			return ConfigLogger.ErrorfAndReturn("failed to create config directories: %w", err)
		}

		if err := configs.SaveConfig(config); err != nil {
			return err
		}

		printSuccess("Configuration written to " + ui.Path.Sprint(settings.ConfigPath))
		return nil
	},
}
