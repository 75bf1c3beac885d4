// Package utils provides small helpers shared by the dyad commands.
//
// # String Utilities
//
//   - FormatPaths: formats file paths for human-readable output
//   - IsValidEmail: the presentation-level email format check
//
// # I/O Utilities
//
//   - ReadStdin: reads all data from standard input
//   - ReadSecretStdin: reads one secret line for --password-stdin
//
// # Terminal Utilities
//
//   - ReadPassphrase / ReadPassphraseFromTTY: hidden prompts
//   - ReadSecret: prompts on whichever terminal is available
//   - IsTerminal, IsTTYAvailable
package utils
