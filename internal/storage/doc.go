// Package storage reads and writes envelopes and plaintext.
//
// Two backends implement Store:
//
//   - FileStore: the local filesystem. Writes go to a temporary file in the
//     target directory which is then renamed into place, so a failed write
//     never leaves a partial envelope behind. Files are created with mode 0600.
//   - S3Store: any S3-compatible object store reached through minio-go.
//     Objects are addressed as s3://bucket/key.
//
// Router picks the backend from the location and creates the S3 client
// lazily, so commands that never touch s3:// locations need no S3 config.
package storage
