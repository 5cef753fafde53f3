package cmd

import (
	"fmt"

	berrors "github.com/badie/bdev/internal/errors"
	"github.com/badie/bdev/internal/ui"

	"github.com/spf13/cobra"
)

var getShow bool

func init() {
	getCmd.Flags().BoolVarP(&getShow, "show", "s", false, "print the value instead of a masked placeholder")
}

func resetGetCommandState() {
	getShow = false
}

var getCmd = &cobra.Command{
	Use:   "get <name>",
	Short: "Read a secret",
	Long: `Reads a secret from the vault. The value is masked unless --show is given.

With --show only the raw value is printed, so it can be captured by scripts:
  TOKEN="$(bdev secrets get token --show)"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		Logger.Infof("Starting get command for %s", name)

		v, err := unlockVault(false)
		if err != nil {
			return err
		}

		value, ok := v.Get(name)
		if !ok {
			return fmt.Errorf("%w: %s", berrors.ErrSecretNotFound, name)
		}

		if getShow {
			fmt.Println(value)
			return nil
		}

		fmt.Println(ui.Key.Sprint(name) + " = " + ui.Mask(value) + " " + ui.Muted.Sprint("use --show to reveal"))
		return nil
	},
}
