package cmd

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/badie/bdev/internal/audit"
	"github.com/badie/bdev/internal/configs"
	berrors "github.com/badie/bdev/internal/errors"
	logger "github.com/badie/bdev/internal/logging"
	"github.com/badie/bdev/internal/ui"
	"github.com/badie/bdev/internal/utils"
	"github.com/badie/bdev/internal/vault"

	"github.com/briandowns/spinner"
)

// PasswordEnv supplies the vault password without a prompt.
const PasswordEnv = "BDEV_VAULT_PASSWORD"

// startSpinner creates and starts a spinner with the given message when not in verbose or debug mode.
// Returns the spinner and a function that should be deferred to clean up.
//
// IMPORTANT: spinner.FinalMSG values do NOT need trailing newlines. The cleanup function
// automatically calls ui.EnsureNewline() on the final message before printing it.
func startSpinner(message string, verbose bool) (*spinner.Spinner, func()) {
	return startSpinnerWithFlags(message, verbose, debug)
}

// startSpinnerWithFlags is startSpinner for command groups with their own flag variables.
func startSpinnerWithFlags(message string, verbose, debugFlag bool) (*spinner.Spinner, func()) {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Suffix = " " + message

	// Ignore color errors - continue without colored spinner if it fails.
	_ = s.Color("cyan")

	quiet := !verbose && !debugFlag
	if quiet {
		s.Start()
		// Ensure log output is discarded unless in verbose mode.
		log.SetOutput(io.Discard)
	}

	cleanup := func() {
		if quiet {
			log.SetOutput(os.Stdout)
		}

		finalMsg := ""
		if s.FinalMSG != "" {
			finalMsg = ui.EnsureNewline(s.FinalMSG)
			// Clear FinalMSG so s.Stop() doesn't print it.
			s.FinalMSG = ""
		}

		if quiet {
			s.Stop()
		}

		// Print final message to stdout (for tests to capture).
		if finalMsg != "" {
			fmt.Print(finalMsg)
		}
	}

	return s, cleanup
}

// readPassword returns the password from PasswordEnv or prompts for it.
// fromTTY reads the prompt from the terminal device, for commands that
// consume stdin themselves.
func readPassword(prompt string, fromTTY bool) (string, error) {
	if password, ok := os.LookupEnv(PasswordEnv); ok {
		Logger.Debugf("Using vault password from %s", PasswordEnv)
		return password, nil
	}

	read := utils.ReadPassphrase
	if fromTTY {
		read = utils.ReadPassphraseFromTTY
	}

	password, err := read(prompt)
	if err != nil {
		return "", err
	}
	return string(password), nil
}

// readNewPassword prompts for a password twice and enforces the configured
// minimum length.
func readNewPassword(minLength int) (string, error) {
	password, err := readPassword("New vault password: ", false)
	if err != nil {
		return "", err
	}

	if len(password) < minLength {
		return "", fmt.Errorf("%w: must be at least %d characters", berrors.ErrPasswordTooShort, minLength)
	}

	if _, ok := os.LookupEnv(PasswordEnv); !ok {
		confirm, err := readPassword("Confirm vault password: ", false)
		if err != nil {
			return "", err
		}
		if confirm != password {
			return "", berrors.ErrPasswordMismatch
		}
	}

	return password, nil
}

// newVault returns a locked vault handle at the configured location.
func newVault() *vault.Vault {
	return newVaultWithLogger(Logger)
}

func newVaultWithLogger(l logger.Logger) *vault.Vault {
	v := vault.New(configs.BdevSettings.VaultDir)
	v.Logger = l
	return v
}

// unlockVault prompts for the password and unlocks the vault. A corrupt
// payload is reported as a warning and the empty vault is returned.
func unlockVault(fromTTY bool) (*vault.Vault, error) {
	return unlockVaultWithLogger(Logger, fromTTY)
}

// unlockVaultWithLogger is unlockVault for command groups with their own
// logger and verbosity flags.
func unlockVaultWithLogger(l logger.Logger, fromTTY bool) (*vault.Vault, error) {
	v := newVaultWithLogger(l)
	l.Debugf("Using vault at %s", v.Dir())

	if !v.IsInitialized() {
		return nil, berrors.ErrVaultNotInitialized
	}

	password, err := readPassword("Vault password: ", fromTTY)
	if err != nil {
		return nil, err
	}

	_, cleanup := startSpinnerWithFlags("Unlocking vault...", l.Verbose, l.Debug)
	err = v.Unlock(password)
	cleanup()

	entry := audit.LogWithUser(audit.OpVaultUnlock)
	switch {
	case err == nil:
		entry.Result = "succeeded"
		audit.Log(entry)
		l.Infof("Vault unlocked with %d secrets", v.Count())
		return v, nil
	case errors.Is(err, berrors.ErrCorruptPayload):
		entry.Result = "corrupt"
		audit.Log(entry)
		l.Warnf("%v", err)
		l.Warnf("Continuing with an empty vault; the damaged payload was kept alongside it")
		return v, nil
	case errors.Is(err, berrors.ErrAuthenticationFailed):
		entry.Result = "denied"
		audit.Log(entry)
		return nil, err
	default:
		return nil, err
	}
}

// readSecretValue prompts for a secret value without echo.
func readSecretValue(name string) (string, error) {
	value, err := utils.ReadPassphrase("Value for " + name + ": ")
	if err != nil {
		return "", err
	}
	return string(value), nil
}

func printSuccess(message string) {
	fmt.Println(ui.Success.Sprint("✓") + " " + message)
}

func printHint(message string) {
	fmt.Println(ui.Info.Sprint("→") + " " + message)
}
