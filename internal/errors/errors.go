package errors

import "errors"

// Vault lifecycle errors indicate the vault is not in the state an operation requires.
var (
	// ErrVaultNotInitialized indicates no credential proof exists on disk.
	ErrVaultNotInitialized = errors.New("vault has not been initialized")

	// ErrVaultAlreadyInitialized indicates a vault already exists and overwrite was not requested.
	ErrVaultAlreadyInitialized = errors.New("vault has already been initialized")

	// ErrVaultLocked indicates the vault must be unlocked first.
	ErrVaultLocked = errors.New("vault is locked")

	// ErrInvalidSecretName indicates an empty or otherwise unusable secret name.
	ErrInvalidSecretName = errors.New("invalid secret name")

	// ErrSecretNotFound indicates the named secret is not stored in the vault.
	ErrSecretNotFound = errors.New("secret not found")
)

// Authentication errors indicate a password was rejected.
var (
	// ErrAuthenticationFailed indicates the supplied password does not match the stored proof.
	ErrAuthenticationFailed = errors.New("incorrect vault password")

	// ErrPasswordMismatch indicates the password confirmation did not match.
	ErrPasswordMismatch = errors.New("passwords do not match")

	// ErrPasswordTooShort indicates the password is below the configured minimum length.
	ErrPasswordTooShort = errors.New("password is too short")
)

// Storage errors indicate on-disk state could not be read back.
var (
	// ErrCorruptPayload indicates the encrypted payload could not be decoded or authenticated.
	// The vault is still unlocked, with an empty store.
	ErrCorruptPayload = errors.New("vault payload is corrupt or unreadable")

	// ErrCorruptProof indicates the credential proof file is malformed.
	ErrCorruptProof = errors.New("vault proof file is malformed")
)

// Workflow errors indicate issues loading or running workflow definitions.
var (
	// ErrWorkflowNotFound indicates no definition document exists for the name.
	ErrWorkflowNotFound = errors.New("workflow not found")

	// ErrWorkflowExists indicates a definition document already exists for the name.
	ErrWorkflowExists = errors.New("workflow already exists")

	// ErrDefinitionParse indicates the definition document is malformed.
	ErrDefinitionParse = errors.New("invalid workflow definition")

	// ErrInvalidWorkflowName indicates the workflow name cannot be used as a file name.
	ErrInvalidWorkflowName = errors.New("invalid workflow name")

	// ErrStepFailed indicates a step could not be launched or exited non-zero.
	ErrStepFailed = errors.New("workflow step failed")

	// ErrWorkflowFailed indicates a run halted on a step failure.
	ErrWorkflowFailed = errors.New("workflow failed")

	// ErrWorkflowAborted indicates a run was interrupted before it finished.
	ErrWorkflowAborted = errors.New("workflow aborted")
)

// Configuration errors.
var (
	// ErrInvalidConfig indicates config.toml is malformed or holds invalid values.
	ErrInvalidConfig = errors.New("configuration is invalid")
)
