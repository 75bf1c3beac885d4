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

// DecryptOptions configures the decrypt workflow.
type DecryptOptions struct {
	// FilePatterns are envelope paths, directories, globs or s3:// locations.
	FilePatterns []string

	// BaseDir resolves relative patterns. Defaults to the working directory.
	BaseDir string

	// Suffix identifies envelopes when expanding directories and globs and
	// is stripped when the header carries no usable file name.
	Suffix string

	// Output is an explicit destination. Only valid for a single envelope.
	Output string

	// OutputDir receives the plaintext files. Empty means next to each envelope.
	OutputDir string

	// Force replaces existing files.
	Force bool

	// Secrets are wiped before Decrypt returns.
	Secrets *Secrets

	Stores   *storage.Router
	Progress ProgressFunc
}

// DecryptResult contains the outcome of a decrypt operation.
type DecryptResult struct {
	// EnvelopeFiles lists the envelopes that were opened.
	EnvelopeFiles []string

	// DecryptedFiles lists the plaintext files written, in the same order.
	DecryptedFiles []string

	// Bytes is the total plaintext size.
	Bytes int64
}

// Decrypt opens each resolved envelope and writes its plaintext under the
// file name recorded at encryption time. The header is parsed first, so a
// refused overwrite or a foreign file costs no key derivation.
//
// Returns ErrFormat, ErrIntegrity or ErrAuthentication for bad envelopes or
// secrets, ErrFileExists if the output exists and Force is off, and
// ErrMultipleOutputs if Output is set for more than one envelope.
func Decrypt(ctx context.Context, opts DecryptOptions) (*DecryptResult, error) {
	defer opts.Secrets.Wipe()

	if opts.Secrets == nil || len(opts.Secrets.Password) == 0 || len(opts.Secrets.Email) == 0 {
		return nil, kerrors.ErrEmptySecret
	}

	baseDir, err := baseDirOrCwd(opts.BaseDir)
	if err != nil {
		return nil, err
	}
	suffix := suffixOrDefault(opts.Suffix)

	envelopes, err := files.ResolveFiles(opts.FilePatterns, baseDir, suffix, false)
	if err != nil {
		return nil, err
	}
	if opts.Output != "" && len(envelopes) > 1 {
		return nil, fmt.Errorf("%w: %d envelopes matched", kerrors.ErrMultipleOutputs, len(envelopes))
	}

	result := &DecryptResult{}
	stores := routerOrDefault(opts.Stores)

	for i, src := range envelopes {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		opts.Progress.report(i, len(envelopes), src)

		out, size, err := decryptOne(ctx, stores, src, suffix, opts)
		audit.Record(audit.OpDecrypt, src, out, size, err)
		if err != nil {
			return result, fmt.Errorf("decrypting %s: %w", src, err)
		}

		result.EnvelopeFiles = append(result.EnvelopeFiles, src)
		result.DecryptedFiles = append(result.DecryptedFiles, out)
		result.Bytes += size
	}

	return result, nil
}

func decryptOne(ctx context.Context, stores *storage.Router, src, suffix string, opts DecryptOptions) (string, int64, error) {
	inStore, err := stores.For(src)
	if err != nil {
		return "", 0, err
	}
	data, err := inStore.Read(ctx, src)
	if err != nil {
		return "", 0, err
	}

	meta, _, err := envelope.Parse(data)
	if err != nil {
		return "", 0, err
	}

	out := opts.Output
	if out == "" {
		out = files.PlaintextPath(src, meta.FileName, suffix, opts.OutputDir)
	}
	outStore, err := stores.For(out)
	if err != nil {
		return out, 0, err
	}
	if err := refuseOverwrite(ctx, outStore, out, opts.Force); err != nil {
		return out, 0, err
	}

	s := opts.Secrets.clone()
	opened, err := runInBackground(ctx, func() (*envelope.Opened, error) {
		defer s.Wipe()
		return envelope.Open(data, s.Password, s.Email)
	}, func(o *envelope.Opened) {
		memguard.WipeBytes(o.Data)
	})
	if err != nil {
		return out, 0, err
	}
	defer memguard.WipeBytes(opened.Data)

	if err := outStore.Write(ctx, out, opened.Data); err != nil {
		return out, 0, err
	}
	return out, int64(len(opened.Data)), nil
}
