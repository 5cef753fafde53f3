package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"
)

var envCmd = &cobra.Command{
	Use:   "env",
	Short: "Print secrets as shell export statements",
	Long: `Prints every secret as an export statement. Names are upper-cased and
prefixed with BDEV_, and characters outside A-Z, 0-9 and _ become underscores.

Example:
  eval "$(bdev secrets env)"`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		v, err := unlockVault(false)
		if err != nil {
			return err
		}
		defer v.Lock()

		env := v.ExportEnv()
		names := make([]string, 0, len(env))
		for name := range env {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			fmt.Printf("export %s=%s\n", name, shellQuote(env[name]))
		}
		return nil
	},
}

// shellQuote wraps value in single quotes for POSIX shells.
func shellQuote(value string) string {
	return "'" + strings.ReplaceAll(value, "'", `'\''`) + "'"
}
