/*
Package envelope implements the dyad envelope protocol: a file encrypted so
that it can only be opened by someone who knows both a password and an email
address.

# Keys

Each secret is stretched with PBKDF2-HMAC-SHA256 (600,000 iterations) under
its own random 16-byte salt. The two stretched keys are concatenated, password
key first, and fed through HKDF-SHA256 with an empty salt and a fixed context
string to produce the master key. The master key never touches file content:
it only wraps a random per-file data key with AES-256-GCM. The data key
encrypts the file body, also with AES-256-GCM.

Stretched keys and data keys are held in memguard locked buffers. The master
key is sealed in a memguard enclave and exposes no accessor for its bytes.

# Binary Format

	offset 0,  len 4 : magic "DYAD"
	offset 4,  len 4 : uint32 little-endian N, the metadata length
	offset 8,  len N : UTF-8 JSON {"fileName","sp","se","wiv","wdek"}
	offset 8+N       : IV(12) || ciphertext || tag(16)

sp and se are the password and email salts, wiv is the wrapping IV and wdek
the wrapped data key (ciphertext and tag). All four are standard base64.

# Errors

Opening an envelope fails with exactly one of errors.ErrFormat,
errors.ErrIntegrity or errors.ErrAuthentication from internal/errors. A wrong
password, a wrong email, or a damaged wrapped key all produce the same
ErrAuthentication.

# Limitation

The whole payload is encrypted in a single AEAD call, so files are held in
memory. There is no chunked mode.
*/
package envelope
