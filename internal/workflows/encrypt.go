package workflows

import (
	"context"
	"fmt"

	"github.com/awnumar/memguard"

	"github.com/PolarWolf314/dyad/internal/audit"
	"github.com/PolarWolf314/dyad/internal/envelope"
	kerrors "github.com/PolarWolf314/dyad/internal/errors"
	"github.com/PolarWolf314/dyad/internal/files"
	"github.com/PolarWolf314/dyad/internal/storage"
)

// EncryptOptions configures the encrypt workflow.
type EncryptOptions struct {
	// FilePatterns are paths, directories, globs or s3:// locations.
	FilePatterns []string

	// BaseDir resolves relative patterns. Defaults to the working directory.
	BaseDir string

	// Suffix is appended to each envelope name. Defaults to ".dyad".
	Suffix string

	// OutputDir receives the envelopes. Empty means next to each source.
	OutputDir string

	// Force replaces existing envelopes.
	Force bool

	// DryRun previews which files would be encrypted without making changes.
	DryRun bool

	// Secrets are wiped before Encrypt returns.
	Secrets *Secrets

	Stores   *storage.Router
	Progress ProgressFunc
}

// EncryptResult contains the outcome of an encrypt operation.
type EncryptResult struct {
	// SourceFiles lists the files that were encrypted.
	SourceFiles []string

	// EncryptedFiles lists the envelopes written, in the same order.
	EncryptedFiles []string

	// Bytes is the total plaintext size.
	Bytes int64

	// DryRun indicates whether this was a dry-run (no files modified).
	DryRun bool
}

// Encrypt seals each resolved file into an envelope openable only with both
// the password and the email. It stops at the first failing file; envelopes
// already written are reported in the result alongside the error.
//
// Returns ErrNoFilesFound if nothing matches, ErrFileExists if an envelope
// exists and Force is off, ErrEmptySecret if a secret is missing.
func Encrypt(ctx context.Context, opts EncryptOptions) (*EncryptResult, error) {
	defer opts.Secrets.Wipe()

	if !opts.DryRun && (opts.Secrets == nil || len(opts.Secrets.Password) == 0 || len(opts.Secrets.Email) == 0) {
		return nil, kerrors.ErrEmptySecret
	}

	baseDir, err := baseDirOrCwd(opts.BaseDir)
	if err != nil {
		return nil, err
	}
	suffix := suffixOrDefault(opts.Suffix)

	sources, err := files.ResolveFiles(opts.FilePatterns, baseDir, suffix, true)
	if err != nil {
		return nil, err
	}

	result := &EncryptResult{DryRun: opts.DryRun}

	if opts.DryRun {
		for _, src := range sources {
			result.SourceFiles = append(result.SourceFiles, src)
			result.EncryptedFiles = append(result.EncryptedFiles, files.EnvelopePath(src, suffix, opts.OutputDir))
		}
		return result, nil
	}

	stores := routerOrDefault(opts.Stores)
	for i, src := range sources {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		opts.Progress.report(i, len(sources), src)

		out := files.EnvelopePath(src, suffix, opts.OutputDir)
		size, err := encryptOne(ctx, stores, src, out, opts.Force, opts.Secrets)
		audit.Record(audit.OpEncrypt, src, out, size, err)
		if err != nil {
			return result, fmt.Errorf("encrypting %s: %w", src, err)
		}

		result.SourceFiles = append(result.SourceFiles, src)
		result.EncryptedFiles = append(result.EncryptedFiles, out)
		result.Bytes += size
	}

	return result, nil
}

func encryptOne(ctx context.Context, stores *storage.Router, src, out string, force bool, secrets *Secrets) (int64, error) {
	inStore, err := stores.For(src)
	if err != nil {
		return 0, err
	}
	outStore, err := stores.For(out)
	if err != nil {
		return 0, err
	}
	if err := refuseOverwrite(ctx, outStore, out, force); err != nil {
		return 0, err
	}

	plaintext, err := inStore.Read(ctx, src)
	if err != nil {
		return 0, err
	}
	size := int64(len(plaintext))

	// The pipeline owns plaintext and its copy of the secrets from here on.
	name := files.SafeFileName(src)
	s := secrets.clone()
	sealed, err := runInBackground(ctx, func() ([]byte, error) {
		defer memguard.WipeBytes(plaintext)
		defer s.Wipe()
		return envelope.EncryptFile(plaintext, name, s.Password, s.Email)
	}, nil)
	if err != nil {
		return 0, err
	}

	if err := outStore.Write(ctx, out, sealed); err != nil {
		return 0, err
	}
	return size, nil
}
