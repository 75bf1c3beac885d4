package envelope

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"io"

	"github.com/awnumar/memguard"
	"golang.org/x/crypto/hkdf"
)

var errNotExportable = errors.New("master key is not exportable")

// MasterKey is derived from both stretched secrets and is used only to wrap
// and unwrap data keys. It is sealed in a memguard enclave and has no method
// that returns its bytes or serializes it.
type MasterKey struct {
	enclave *memguard.Enclave
}

// Combine derives the master key from the password key and the email key.
// The input keying material is kp || ke; HKDF runs with an empty salt since
// both halves were already stretched under fresh random salts.
func Combine(kp, ke *StretchedKey) (*MasterKey, error) {
	if !kp.alive() || !ke.alive() {
		return nil, errors.New("combine: stretched key destroyed or missing")
	}

	ikm := memguard.NewBuffer(2 * KeySize)
	defer ikm.Destroy()
	ikm.Copy(kp.buf.Bytes())
	ikm.CopyAt(KeySize, ke.buf.Bytes())

	out := memguard.NewBuffer(KeySize)
	r := hkdf.New(sha256.New, ikm.Bytes(), nil, []byte(MasterKeyInfo))
	if _, err := io.ReadFull(r, out.Bytes()); err != nil {
		out.Destroy()
		return nil, fmt.Errorf("combine: %w", err)
	}

	// Seal destroys out.
	return &MasterKey{enclave: out.Seal()}, nil
}

// use opens the enclave for the duration of fn.
func (k *MasterKey) use(fn func(key []byte) error) error {
	if k == nil || k.enclave == nil {
		return errors.New("master key destroyed or missing")
	}
	buf, err := k.enclave.Open()
	if err != nil {
		return fmt.Errorf("opening master key: %w", err)
	}
	defer buf.Destroy()
	return fn(buf.Bytes())
}

// Destroy drops the enclave.
func (k *MasterKey) Destroy() {
	if k != nil {
		k.enclave = nil
	}
}

func (k *MasterKey) String() string {
	return "MasterKey(redacted)"
}

// MarshalJSON always fails.
func (k *MasterKey) MarshalJSON() ([]byte, error) {
	return nil, errNotExportable
}

// MarshalText always fails.
func (k *MasterKey) MarshalText() ([]byte, error) {
	return nil, errNotExportable
}
