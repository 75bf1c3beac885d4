// Package files turns user arguments into the list of files to process and
// decides where envelopes and recovered plaintext are written.
//
// Arguments may be literal paths, directories (walked recursively) or
// doublestar globs such as "docs/**/*.pdf". For encryption, files that
// already carry the envelope suffix are skipped when expanding directories
// and globs; for decryption only such files are picked up. Literal paths are
// always taken as given.
//
// Locations of the form s3://bucket/key are passed through untouched; the
// storage package resolves them.
package files
