// Package errors provides typed error values for the bdev application.
//
// Using sentinel errors allows callers to handle specific error conditions
// programmatically with errors.Is() rather than string matching. This makes
// error handling more robust and refactoring-safe.
//
// # Error Categories
//
// Errors are grouped by category:
//
//   - Vault lifecycle errors: ErrVaultNotInitialized, ErrVaultAlreadyInitialized, ErrVaultLocked
//   - Authentication errors: ErrAuthenticationFailed, ErrPasswordMismatch
//   - Storage errors: ErrCorruptPayload
//   - Workflow errors: ErrWorkflowNotFound, ErrDefinitionParse, ErrStepFailed
//
// # Usage
//
// Return errors from internal packages:
//
//	if !v.IsInitialized() {
//	    return errors.ErrVaultNotInitialized
//	}
//
// Handle errors in the CLI layer:
//
//	err := v.Unlock(password)
//	if errors.Is(err, berrors.ErrCorruptPayload) {
//	    // Warn, the vault is unlocked with an empty store
//	}
//
// Wrap errors with additional context:
//
//	return fmt.Errorf("loading workflow %s: %w", name, errors.ErrDefinitionParse)
package errors
