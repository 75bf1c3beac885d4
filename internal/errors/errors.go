package errors

import "errors"

// Envelope errors classify every failure of the decryption path. Callers
// should only ever see one of these three for a bad envelope.
var (
	// ErrFormat indicates the input is not a dyad envelope: wrong magic,
	// a truncated header, or metadata that is not valid JSON.
	ErrFormat = errors.New("not a valid dyad envelope")

	// ErrIntegrity indicates the envelope is structurally valid but its
	// contents are corrupted: bad field lengths, a short payload, or a
	// payload that fails authentication.
	ErrIntegrity = errors.New("envelope is corrupted or the key is wrong")

	// ErrAuthentication indicates the data key could not be unwrapped.
	// The message never says which of the two secrets was wrong.
	ErrAuthentication = errors.New("authentication failed: wrong password or email")
)

// Cryptographic errors on the encryption side.
var (
	// ErrEncryptFailed indicates the envelope could not be produced.
	ErrEncryptFailed = errors.New("failed to encrypt file")

	// ErrEmptySecret indicates the password or the email was empty.
	ErrEmptySecret = errors.New("password and email must not be empty")
)

// Input errors indicate the user supplied secrets the CLI refuses to use.
var (
	// ErrPasswordTooShort indicates the password is shorter than the configured minimum.
	ErrPasswordTooShort = errors.New("password is too short")

	// ErrPasswordMismatch indicates the confirmation prompt did not match.
	ErrPasswordMismatch = errors.New("passwords do not match")

	// ErrInvalidEmail indicates the email format is invalid.
	ErrInvalidEmail = errors.New("invalid email format")

	// ErrNoTerminal indicates a secret was needed but no terminal is available to prompt for it.
	ErrNoTerminal = errors.New("no terminal available to prompt for secrets")
)

// File errors indicate issues with file discovery or access.
var (
	// ErrNoFilesFound indicates no files matched the provided patterns.
	ErrNoFilesFound = errors.New("no matching files found")

	// ErrFileNotFound indicates a specific file could not be located.
	ErrFileNotFound = errors.New("file not found")

	// ErrFileExists indicates the output file already exists and overwriting was not requested.
	ErrFileExists = errors.New("output file already exists")

	// ErrMultipleOutputs indicates an explicit output path was given for more than one input.
	ErrMultipleOutputs = errors.New("an explicit output path needs exactly one input")
)

// Configuration errors.
var (
	// ErrInvalidConfig indicates the configuration file is malformed.
	ErrInvalidConfig = errors.New("configuration is invalid")

	// ErrConfigExists indicates a configuration file is already present.
	ErrConfigExists = errors.New("configuration file already exists")

	// ErrStorageUnavailable indicates a storage backend could not be reached or configured.
	ErrStorageUnavailable = errors.New("storage backend unavailable")

	// ErrInvalidDateFormat indicates a date filter could not be parsed.
	ErrInvalidDateFormat = errors.New("invalid date format")
)
