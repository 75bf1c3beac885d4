// Package configs manages the dyad user configuration.
//
// Configuration is a single TOML file at:
//
//	<UserConfigDir>/dyad/config.toml
//
// It holds three sections:
//
//   - [defaults]: envelope suffix, output directory, minimum password
//     length and the overwrite policy
//   - [audit]: whether the audit trail is written, and where
//   - [s3]: an optional S3-compatible endpoint for s3:// locations
//
// A missing file is not an error; LoadUserConfig returns the defaults.
// Unknown keys are rejected so that typos do not silently fall back to
// defaults.
//
// # Settings
//
// UserDyadSettings holds the resolved directories and is initialized at
// startup. The command layer overlays flags and DYAD_* environment
// variables on top of the loaded file.
//
// Envelope secrets are never stored in the configuration.
package configs
