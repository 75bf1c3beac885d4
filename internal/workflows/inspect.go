package workflows

import (
	"context"

	"github.com/PolarWolf314/dyad/internal/envelope"
	"github.com/PolarWolf314/dyad/internal/storage"
)

// InspectOptions configures the inspect workflow.
type InspectOptions struct {
	// Location is an envelope path or s3:// location.
	Location string

	Stores *storage.Router
}

// InspectResult describes an envelope header. Nothing in it is secret.
type InspectResult struct {
	Location         string `json:"location" yaml:"location"`
	FileName         string `json:"fileName" yaml:"fileName"`
	EnvelopeSize     int64  `json:"envelopeSize" yaml:"envelopeSize"`
	HeaderLength     int    `json:"headerLength" yaml:"headerLength"`
	PayloadLength    int64  `json:"payloadLength" yaml:"payloadLength"`
	PlaintextLength  int64  `json:"plaintextLength" yaml:"plaintextLength"`
	PasswordSaltSize int    `json:"passwordSaltSize" yaml:"passwordSaltSize"`
	EmailSaltSize    int    `json:"emailSaltSize" yaml:"emailSaltSize"`
	WrapIVSize       int    `json:"wrapIVSize" yaml:"wrapIVSize"`
	WrappedKeySize   int    `json:"wrappedKeySize" yaml:"wrappedKeySize"`

	// Warnings lists structural oddities that will make decryption fail.
	Warnings []string `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// Inspect parses the header of an envelope without reading the payload.
//
// Returns ErrFormat or ErrIntegrity for headers that cannot be parsed.
func Inspect(ctx context.Context, opts InspectOptions) (*InspectResult, error) {
	store, err := routerOrDefault(opts.Stores).For(opts.Location)
	if err != nil {
		return nil, err
	}

	r, size, err := store.Open(ctx, opts.Location)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	meta, headerLength, err := envelope.ParseReader(r)
	if err != nil {
		return nil, err
	}

	result := &InspectResult{
		Location:         opts.Location,
		FileName:         meta.FileName,
		EnvelopeSize:     size,
		HeaderLength:     headerLength,
		PayloadLength:    size - int64(headerLength),
		PasswordSaltSize: len(meta.PasswordSalt),
		EmailSaltSize:    len(meta.EmailSalt),
		WrapIVSize:       len(meta.WrapIV),
		WrappedKeySize:   len(meta.WrappedKey),
	}

	if result.PayloadLength < envelope.MinPayloadSize {
		result.Warnings = append(result.Warnings, "payload is shorter than IV and tag")
	} else {
		result.PlaintextLength = result.PayloadLength - envelope.MinPayloadSize
	}
	if result.WrappedKeySize != envelope.WrappedKeySize {
		result.Warnings = append(result.Warnings, "wrapped data key has an unexpected length")
	}

	return result, nil
}
