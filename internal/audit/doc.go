// Package audit records vault and workflow operations for bdev.
//
// Every mutating vault operation (init, set, delete, import) and every
// workflow run is appended to a per-user audit log. Secret values are never
// recorded, only secret names.
//
// # Log Format
//
// The audit log is stored as JSON Lines (one JSON object per line) at:
//
//	<config dir>/audit.jsonl
//
// Each entry contains:
//   - Timestamp (RFC3339 with microseconds, UTC)
//   - OS user name
//   - Operation name
//   - Operation-specific details (secret name, workflow, run ID, result)
//
// # Usage
//
//	entry := audit.LogWithUser("workflow.run")
//	entry.Workflow = report.Workflow
//	entry.RunID = report.RunID
//	audit.Log(entry)
//
// # Failure Handling
//
// Audit logging is best-effort. Operations never fail because the audit
// log could not be written. ReadEntries skips malformed lines left behind
// by partial writes.
package audit
