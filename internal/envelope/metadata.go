package envelope

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"math"

	kerrors "github.com/PolarWolf314/dyad/internal/errors"
)

// Metadata is the decoded envelope header.
type Metadata struct {
	FileName     string
	PasswordSalt []byte
	EmailSalt    []byte
	WrapIV       []byte
	WrappedKey   []byte
}

// metadataJSON is the on-disk field set. Field names are part of the format.
type metadataJSON struct {
	FileName string `json:"fileName"`
	SP       string `json:"sp"`
	SE       string `json:"se"`
	WIV      string `json:"wiv"`
	WDEK     string `json:"wdek"`
}

// Pack serializes the header: magic, little-endian metadata length, JSON.
func Pack(meta *Metadata) ([]byte, error) {
	if err := meta.validate(); err != nil {
		return nil, err
	}

	var body bytes.Buffer
	enc := json.NewEncoder(&body)
	enc.SetEscapeHTML(false)
	err := enc.Encode(metadataJSON{
		FileName: meta.FileName,
		SP:       base64.StdEncoding.EncodeToString(meta.PasswordSalt),
		SE:       base64.StdEncoding.EncodeToString(meta.EmailSalt),
		WIV:      base64.StdEncoding.EncodeToString(meta.WrapIV),
		WDEK:     base64.StdEncoding.EncodeToString(meta.WrappedKey),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: encoding metadata: %v", kerrors.ErrEncryptFailed, err)
	}
	raw := bytes.TrimSuffix(body.Bytes(), []byte("\n"))
	if uint64(len(raw)) > math.MaxUint32 {
		return nil, fmt.Errorf("%w: metadata too large", kerrors.ErrEncryptFailed)
	}

	header := make([]byte, prefixSize, prefixSize+len(raw))
	copy(header, Magic)
	binary.LittleEndian.PutUint32(header[len(Magic):], uint32(len(raw)))
	return append(header, raw...), nil
}

// Parse decodes the header at the start of data. It returns the metadata
// and the offset at which the payload begins.
func Parse(data []byte) (*Metadata, int, error) {
	if len(data) < prefixSize {
		return nil, 0, fmt.Errorf("%w: header truncated", kerrors.ErrFormat)
	}
	n, err := parsePrefix(data[:prefixSize])
	if err != nil {
		return nil, 0, err
	}
	if uint64(n) > uint64(len(data)-prefixSize) {
		return nil, 0, fmt.Errorf("%w: metadata truncated (%d bytes declared, %d present)", kerrors.ErrFormat, n, len(data)-prefixSize)
	}

	end := prefixSize + int(n)
	meta, err := decodeMetadata(data[prefixSize:end])
	if err != nil {
		return nil, 0, err
	}
	return meta, end, nil
}

// ParseReader decodes the header from a stream, consuming exactly the header
// bytes. Metadata blocks larger than MaxMetadataSize are refused.
func ParseReader(r io.Reader) (*Metadata, int, error) {
	prefix := make([]byte, prefixSize)
	if _, err := io.ReadFull(r, prefix); err != nil {
		return nil, 0, fmt.Errorf("%w: header truncated", kerrors.ErrFormat)
	}
	n, err := parsePrefix(prefix)
	if err != nil {
		return nil, 0, err
	}
	if n > MaxMetadataSize {
		return nil, 0, fmt.Errorf("%w: metadata length %d exceeds %d", kerrors.ErrFormat, n, MaxMetadataSize)
	}

	body := make([]byte, n)
	if _, err := io.ReadFull(r, body); err != nil {
		return nil, 0, fmt.Errorf("%w: metadata truncated", kerrors.ErrFormat)
	}
	meta, err := decodeMetadata(body)
	if err != nil {
		return nil, 0, err
	}
	return meta, prefixSize + int(n), nil
}

func parsePrefix(prefix []byte) (uint32, error) {
	if !bytes.Equal(prefix[:len(Magic)], []byte(Magic)) {
		return 0, fmt.Errorf("%w: bad magic %q", kerrors.ErrFormat, prefix[:len(Magic)])
	}
	return binary.LittleEndian.Uint32(prefix[len(Magic):]), nil
}

func decodeMetadata(raw []byte) (*Metadata, error) {
	var mj metadataJSON
	if err := json.Unmarshal(raw, &mj); err != nil {
		return nil, fmt.Errorf("%w: malformed metadata: %v", kerrors.ErrFormat, err)
	}

	meta := &Metadata{FileName: mj.FileName}
	fields := []struct {
		name string
		in   string
		out  *[]byte
	}{
		{"sp", mj.SP, &meta.PasswordSalt},
		{"se", mj.SE, &meta.EmailSalt},
		{"wiv", mj.WIV, &meta.WrapIV},
		{"wdek", mj.WDEK, &meta.WrappedKey},
	}
	for _, f := range fields {
		b, err := base64.StdEncoding.DecodeString(f.in)
		if err != nil {
			return nil, fmt.Errorf("%w: field %s is not base64", kerrors.ErrIntegrity, f.name)
		}
		*f.out = b
	}

	if err := meta.validate(); err != nil {
		return nil, err
	}
	return meta, nil
}

// validate checks the fixed-size fields. The wrapped key is left to Unwrap so
// that tampering with it surfaces as an authentication failure.
func (m *Metadata) validate() error {
	if len(m.PasswordSalt) != SaltSize {
		return fmt.Errorf("%w: sp is %d bytes, want %d", kerrors.ErrIntegrity, len(m.PasswordSalt), SaltSize)
	}
	if len(m.EmailSalt) != SaltSize {
		return fmt.Errorf("%w: se is %d bytes, want %d", kerrors.ErrIntegrity, len(m.EmailSalt), SaltSize)
	}
	if len(m.WrapIV) != IVSize {
		return fmt.Errorf("%w: wiv is %d bytes, want %d", kerrors.ErrIntegrity, len(m.WrapIV), IVSize)
	}
	return nil
}
