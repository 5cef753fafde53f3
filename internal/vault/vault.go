package vault

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	berrors "github.com/badie/bdev/internal/errors"
	logger "github.com/badie/bdev/internal/logging"
	"github.com/badie/bdev/internal/utils"
)

const (
	proofFile   = "proof"
	payloadFile = "payload"

	// EnvPrefix is prepended to every exported secret name.
	EnvPrefix = "BDEV_"
)

// State is the lifecycle state of a vault.
type State int

const (
	Uninitialized State = iota
	Locked
	Unlocked
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Locked:
		return "locked"
	case Unlocked:
		return "unlocked"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Vault is an encrypted name to value store rooted at a directory.
type Vault struct {
	// Logger receives warnings such as corrupt payload backups.
	Logger logger.Logger

	dir     string
	key     []byte
	secrets map[string]string
	mu      sync.RWMutex
}

// New returns a locked vault handle for dir. Nothing is read until Unlock.
func New(dir string) *Vault {
	return &Vault{
		dir:     dir,
		secrets: make(map[string]string),
	}
}

// Dir returns the directory the vault is stored in.
func (v *Vault) Dir() string {
	return v.dir
}

func (v *Vault) proofPath() string {
	return filepath.Join(v.dir, proofFile)
}

func (v *Vault) payloadPath() string {
	return filepath.Join(v.dir, payloadFile)
}

// IsInitialized reports whether a credential proof exists on disk.
func (v *Vault) IsInitialized() bool {
	return utils.FileExists(v.proofPath())
}

// State returns the current lifecycle state.
func (v *Vault) State() State {
	v.mu.RLock()
	defer v.mu.RUnlock()

	if v.key != nil {
		return Unlocked
	}
	if v.IsInitialized() {
		return Locked
	}
	return Uninitialized
}

// IsUnlocked reports whether the key is held in memory.
func (v *Vault) IsUnlocked() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.key != nil
}

// Init creates a new vault protected by password, replacing any existing
// one. The vault is left unlocked with an empty store.
func (v *Vault) Init(password string) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	salt, err := newSalt()
	if err != nil {
		return err
	}
	key := deriveKey(password, salt)

	if err := os.MkdirAll(v.dir, 0700); err != nil {
		return fmt.Errorf("failed to create vault directory: %w", err)
	}
	if err := utils.WriteFileAtomic(v.proofPath(), []byte(newProof(salt, key).String()), 0600); err != nil {
		return fmt.Errorf("failed to write vault proof: %w", err)
	}

	v.key = key
	v.secrets = make(map[string]string)

	if err := v.save(); err != nil {
		v.key = nil
		return err
	}
	return nil
}

// Unlock verifies password against the stored proof and decrypts the
// payload. A missing payload is an empty store. An unreadable payload also
// yields an empty unlocked store, but the error returned matches
// ErrCorruptPayload.
func (v *Vault) Unlock(password string) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	data, err := os.ReadFile(v.proofPath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return berrors.ErrVaultNotInitialized
		}
		return fmt.Errorf("failed to read vault proof: %w", err)
	}

	p, err := parseProof(data)
	if err != nil {
		return err
	}

	key := deriveKey(password, p.salt)
	if !p.matches(key) {
		return berrors.ErrAuthenticationFailed
	}

	v.key = key
	v.secrets = make(map[string]string)

	encoded, err := os.ReadFile(v.payloadPath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return v.recoverCorrupt(nil, err)
	}

	plaintext, err := open(key, encoded)
	if err != nil {
		return v.recoverCorrupt(encoded, err)
	}

	secrets := make(map[string]string)
	if err := json.Unmarshal(plaintext, &secrets); err != nil {
		return v.recoverCorrupt(encoded, err)
	}
	v.secrets = secrets

	return nil
}

// recoverCorrupt keeps a copy of an unreadable payload before the next save
// overwrites it. The vault stays unlocked with an empty store.
func (v *Vault) recoverCorrupt(raw []byte, cause error) error {
	if raw != nil {
		if kept := v.findBackup(raw); kept != "" {
			v.Logger.Debugf("Corrupt vault payload already kept at %s", kept)
			return corruptError(cause)
		}

		backup := fmt.Sprintf("%s.corrupt-%s", v.payloadPath(), time.Now().UTC().Format("20060102T150405Z"))
		if err := utils.WriteFileAtomic(backup, raw, 0600); err != nil {
			v.Logger.Warnf("Failed to back up corrupt vault payload: %v", err)
		} else {
			v.Logger.Warnf("Corrupt vault payload copied to %s", backup)
		}
	}

	return corruptError(cause)
}

// findBackup returns an existing corrupt-payload copy holding raw, if any.
func (v *Vault) findBackup(raw []byte) string {
	matches, err := filepath.Glob(v.payloadPath() + ".corrupt-*")
	if err != nil {
		return ""
	}
	for _, m := range matches {
		if data, err := os.ReadFile(m); err == nil && bytes.Equal(data, raw) {
			return m
		}
	}
	return ""
}

func corruptError(cause error) error {
	if errors.Is(cause, berrors.ErrCorruptPayload) {
		return cause
	}
	return fmt.Errorf("%w: %v", berrors.ErrCorruptPayload, cause)
}

// Lock forgets the key and the decrypted store.
func (v *Vault) Lock() {
	v.mu.Lock()
	defer v.mu.Unlock()

	for i := range v.key {
		v.key[i] = 0
	}
	v.key = nil
	v.secrets = make(map[string]string)
}

// Set inserts or overwrites a secret and persists the store.
func (v *Vault) Set(name, value string) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.key == nil {
		return berrors.ErrVaultLocked
	}
	if strings.TrimSpace(name) == "" {
		return berrors.ErrInvalidSecretName
	}

	v.secrets[name] = value
	return v.save()
}

// Get returns the secret value. A locked vault and a missing name are
// indistinguishable.
func (v *Vault) Get(name string) (string, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	if v.key == nil {
		return "", false
	}
	value, ok := v.secrets[name]
	return value, ok
}

// Delete removes a secret. It returns false without error when the vault is
// locked or the name is absent.
func (v *Vault) Delete(name string) (bool, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.key == nil {
		return false, nil
	}
	if _, ok := v.secrets[name]; !ok {
		return false, nil
	}

	delete(v.secrets, name)
	if err := v.save(); err != nil {
		return true, err
	}
	return true, nil
}

// ListKeys returns the stored names in sorted order.
func (v *Vault) ListKeys() []string {
	v.mu.RLock()
	defer v.mu.RUnlock()

	keys := make([]string, 0, len(v.secrets))
	for k := range v.secrets {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Count returns the number of secrets held in memory.
func (v *Vault) Count() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.secrets)
}

// ExportEnv maps every secret to an environment variable name, see EnvName.
func (v *Vault) ExportEnv() map[string]string {
	v.mu.RLock()
	defer v.mu.RUnlock()

	env := make(map[string]string, len(v.secrets))
	for k, val := range v.secrets {
		env[EnvName(k)] = val
	}
	return env
}

// EnvName returns BDEV_ followed by the upper-cased name, with any character
// outside [A-Z0-9_] replaced by an underscore.
func EnvName(name string) string {
	var b strings.Builder
	b.WriteString(EnvPrefix)
	for _, r := range strings.ToUpper(name) {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	return b.String()
}

// Export returns a copy of all secrets.
func (v *Vault) Export() (map[string]string, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	if v.key == nil {
		return nil, berrors.ErrVaultLocked
	}

	out := make(map[string]string, len(v.secrets))
	for k, val := range v.secrets {
		out[k] = val
	}
	return out, nil
}

// Import merges secrets into the store and persists once.
func (v *Vault) Import(secrets map[string]string) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.key == nil {
		return berrors.ErrVaultLocked
	}
	for k := range secrets {
		if strings.TrimSpace(k) == "" {
			return berrors.ErrInvalidSecretName
		}
	}

	for k, val := range secrets {
		v.secrets[k] = val
	}
	return v.save()
}

// save re-encrypts the full store. Callers hold v.mu.
func (v *Vault) save() error {
	plaintext, err := json.Marshal(v.secrets)
	if err != nil {
		return fmt.Errorf("failed to serialize secrets: %w", err)
	}

	sealed, err := seal(v.key, plaintext)
	if err != nil {
		return err
	}

	if err := utils.WriteFileAtomic(v.payloadPath(), sealed, 0600); err != nil {
		return fmt.Errorf("failed to write vault payload: %w", err)
	}
	return nil
}
