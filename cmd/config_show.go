package cmd

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/badie/bdev/internal/configs"
	"github.com/badie/bdev/internal/ui"

	"github.com/spf13/cobra"
)

var configShowJSON bool

func init() {
	configShowCmd.Flags().BoolVar(&configShowJSON, "json", false, "output in JSON format")
	ConfigCmd.AddCommand(configShowCmd)
}

// resetConfigShowState resets the config show command's global state for testing.
func resetConfigShowState() {
	configShowJSON = false
}

// configView is the JSON shape printed by config show.
type configView struct {
	ConfigDir         string `json:"config_dir"`
	ConfigFile        string `json:"config_file"`
	VaultDir          string `json:"vault_dir"`
	WorkflowsDir      string `json:"workflows_dir"`
	AuditLog          string `json:"audit_log"`
	MinPasswordLength int    `json:"min_password_length"`
	DefaultTimeout    string `json:"default_timeout"`
	Shell             string `json:"shell"`
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Display the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ConfigLogger.Infof("Starting config show command")
		settings := configs.BdevSettings

		config, err := configs.LoadConfig()
		if err != nil {
			return err
		}

		view := configView{
			ConfigDir:         settings.ConfigDir,
			ConfigFile:        settings.ConfigPath,
			VaultDir:          settings.VaultDir,
			WorkflowsDir:      settings.WorkflowsDir,
			AuditLog:          settings.AuditLogPath,
			MinPasswordLength: config.Vault.MinPasswordLength,
			DefaultTimeout:    config.Workflow.DefaultTimeout,
			Shell:             config.Workflow.Shell,
		}

		if configShowJSON {
			data, err := json.MarshalIndent(view, "", "  ")
			if err != nil {
				return ConfigLogger.ErrorfAndReturn("failed to encode config: %w", err)
			}
			fmt.Println(string(data))
			return nil
		}

		orDefault := func(value, fallback string) string {
			if value == "" {
				return ui.Muted.Sprint(fallback)
			}
			return value
		}

		fmt.Println(ui.Panel("Configuration",
			"Config file:   "+ui.Path.Sprint(view.ConfigFile),
			"Vault:         "+ui.Path.Sprint(view.VaultDir),
			"Workflows:     "+ui.Path.Sprint(view.WorkflowsDir),
			"Audit log:     "+ui.Path.Sprint(view.AuditLog),
			"",
			"[vault]",
			"  min_password_length = "+strconv.Itoa(view.MinPasswordLength),
			"[workflow]",
			"  default_timeout = "+orDefault(view.DefaultTimeout, "none"),
			"  shell = "+orDefault(view.Shell, "platform default"),
		))
		return nil
	},
}
