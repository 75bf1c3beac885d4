// Package errors provides typed error values for dyad.
//
// Using sentinel errors allows callers to handle specific error conditions
// programmatically with errors.Is() rather than string matching.
//
// # Envelope Errors
//
// Every failure while opening an envelope is reported as exactly one of:
//
//   - ErrFormat: the bytes are not an envelope (magic, truncated header, JSON)
//   - ErrIntegrity: the envelope is damaged (field lengths, payload tag)
//   - ErrAuthentication: the data key could not be unwrapped
//
// ErrAuthentication deliberately carries the same information whether the
// password, the email, both, or the wrapped key itself was wrong.
//
// # Usage
//
// Wrap errors with additional context:
//
//	return nil, fmt.Errorf("%w: payload shorter than %d bytes", errors.ErrIntegrity, MinPayloadSize)
//
// Handle errors in the CLI layer:
//
//	_, err := workflows.Decrypt(ctx, opts)
//	if errors.Is(err, kerrors.ErrAuthentication) {
//	    // Show user-friendly message
//	}
package errors
