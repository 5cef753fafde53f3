package audit

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/badie/bdev/internal/configs"
	"github.com/badie/bdev/internal/utils"
)

// Operation names.
const (
	OpVaultInit   = "vault.init"
	OpVaultSet    = "vault.set"
	OpVaultDelete = "vault.delete"
	OpVaultImport = "vault.import"
	OpVaultExport = "vault.export"
	OpVaultUnlock = "vault.unlock"
	OpWorkflowRun = "workflow.run"
)

// Entry represents a single audit log entry.
type Entry struct {
	Timestamp string `json:"ts"`   // RFC3339 with microseconds.
	User      string `json:"user"` // OS user performing the action.
	Operation string `json:"op"`

	// Optional fields depending on operation.
	Secret      string `json:"secret,omitempty"`       // For set/delete.
	SecretCount int    `json:"secret_count,omitempty"` // For import and export.
	Workflow    string `json:"workflow,omitempty"`     // For workflow runs.
	RunID       string `json:"run_id,omitempty"`       // For workflow runs.
	Result      string `json:"result,omitempty"`       // succeeded, failed, aborted, denied.
	StepsTotal  int    `json:"steps_total,omitempty"`  // For workflow runs.
	StepsFailed int    `json:"steps_failed,omitempty"` // For workflow runs.
	DurationMs  int64  `json:"duration_ms,omitempty"`  // For workflow runs.
}

// Log appends an entry to the audit log.
// Failures are ignored so that auditing never breaks the operation being audited.
func Log(entry Entry) {
	if entry.Timestamp == "" {
		entry.Timestamp = time.Now().UTC().Format("2006-01-02T15:04:05.000000Z")
	}

	logPath := LogPath()
	if logPath == "" {
		return
	}

	if err := os.MkdirAll(filepath.Dir(logPath), 0700); err != nil {
		return
	}

	f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return
	}
	defer f.Close()

	data, err := json.Marshal(entry)
	if err != nil {
		return
	}

	_, _ = f.Write(append(data, '\n'))
}

// LogWithUser returns an entry for op with the user field populated.
func LogWithUser(op string) Entry {
	entry := Entry{Operation: op}

	username, err := utils.GetUsername()
	if err != nil {
		return entry
	}
	entry.User = username

	return entry
}

// LogPath returns the path to the audit log file, or "" when settings are unset.
func LogPath() string {
	if configs.BdevSettings == nil {
		return ""
	}
	return configs.BdevSettings.AuditLogPath
}

// ReadEntries reads all entries from the audit log.
// Returns an empty slice if the log doesn't exist.
func ReadEntries() ([]Entry, error) {
	logPath := LogPath()
	if logPath == "" {
		return nil, nil
	}

	data, err := os.ReadFile(logPath)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return ParseEntries(data)
}

// ParseEntries parses JSON Lines data into audit entries.
// Malformed lines are silently skipped.
func ParseEntries(data []byte) ([]Entry, error) {
	if len(data) == 0 {
		return nil, nil
	}

	var entries []Entry
	start := 0

	for i := 0; i <= len(data); i++ {
		if i == len(data) || data[i] == '\n' {
			line := data[start:i]
			start = i + 1

			if len(line) == 0 {
				continue
			}

			var entry Entry
			if err := json.Unmarshal(line, &entry); err != nil {
				continue
			}
			entries = append(entries, entry)
		}
	}

	return entries, nil
}
