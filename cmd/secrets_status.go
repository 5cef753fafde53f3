package cmd

import (
	"fmt"

	"github.com/badie/bdev/internal/audit"
	"github.com/badie/bdev/internal/ui"
	"github.com/badie/bdev/internal/vault"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether the vault exists and its recent activity",
	Long: `Shows the vault location and state without asking for the password,
followed by the most recent audited operations.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		v := newVault()
		state := v.State()
		Logger.Debugf("Vault state: %s", state)

		lines := []string{
			"Location: " + ui.Path.Sprint(v.Dir()),
			"State:    " + stateLabel(state),
		}

		entries, err := audit.ReadEntries()
		if err != nil {
			Logger.Warnf("Failed to read audit log: %v", err)
		}
		if n := len(entries); n > 0 {
			lines = append(lines, "", "Recent activity:")
			start := n - recentActivity
			if start < 0 {
				start = 0
			}
			for _, e := range entries[start:] {
				lines = append(lines, "  "+formatAuditEntry(e))
			}
		}

		fmt.Println(ui.Panel("Vault", lines...))

		if state == vault.Uninitialized {
			fmt.Println(ui.Info.Sprint("→") + " Run " + ui.Code.Sprint("bdev secrets init") + " to create it")
		}
		return nil
	},
}

const recentActivity = 5

func stateLabel(state vault.State) string {
	switch state {
	case vault.Uninitialized:
		return ui.Warning.Sprint("not initialized")
	default:
		// A fresh process never holds the key, so an existing vault is locked.
		return ui.Success.Sprint("initialized") + " " + ui.Muted.Sprint(state.String())
	}
}

func formatAuditEntry(e audit.Entry) string {
	subject := e.Secret
	if e.Workflow != "" {
		subject = e.Workflow
	}
	if e.SecretCount > 0 {
		subject = fmt.Sprintf("%d secrets", e.SecretCount)
	}

	line := e.Timestamp + "  " + e.Operation
	if subject != "" {
		line += " " + subject
	}
	if e.Result != "" {
		line += " " + ui.Muted.Sprint(e.Result)
	}
	return line
}
