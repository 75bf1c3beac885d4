// Package workflows provides high-level orchestration for dyad commands.
//
// Workflows coordinate storage, the envelope core and the audit trail to
// implement complete user-facing features. Each workflow handles a single
// command's business logic, independent of CLI concerns like flag parsing,
// prompting, spinners and output formatting.
//
// # Available Workflows
//
//   - Encrypt: seals files into envelopes under a password and an email
//   - Decrypt: opens envelopes and restores the recorded file name
//   - Inspect: reads an envelope header without any secrets
//   - Log: filters and orders the audit trail
//
// # Secrets
//
// Encrypt and Decrypt take ownership of the Secrets they are given and wipe
// them before returning. Each file's pipeline works on its own copy, which
// is wiped when that pipeline ends.
//
// # Error Handling
//
// Workflows return errors wrapping the sentinels in internal/errors. Use
// errors.Is() to tell them apart:
//
//	result, err := workflows.Decrypt(ctx, opts)
//	if errors.Is(err, kerrors.ErrAuthentication) {
//	    // wrong password or email
//	}
//
// # Context Usage
//
// The key derivation of one file cannot be interrupted. When ctx is
// cancelled the workflow returns ctx.Err() right away and the pipeline still
// running in the background is left to finish; its output is discarded and
// nothing is written.
package workflows
