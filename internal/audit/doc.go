// Package audit records what dyad did to which file.
//
// Every encrypt and decrypt attempt, successful or not, is appended to a
// JSON Lines log, by default at:
//
//	$XDG_DATA_HOME/dyad/audit.jsonl
//
// Each entry contains an id, a UTC timestamp, the operation, the input and
// output locations, the number of plaintext bytes and, for failures, the
// error kind (format, integrity, authentication or other). Passwords, emails
// and keys are never written.
//
// # Failure Handling
//
// Audit logging is best-effort. If the log cannot be written the operation
// continues without error. Logging is disabled until SetLogPath is called
// with a non-empty path.
//
// # Reading Logs
//
// Use ReadEntries() to parse the log for `dyad log`. Malformed lines are
// skipped to tolerate partial writes.
package audit
