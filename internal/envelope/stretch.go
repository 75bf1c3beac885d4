package envelope

import (
	"crypto/sha256"
	"fmt"

	"github.com/awnumar/memguard"
	"golang.org/x/crypto/pbkdf2"

	kerrors "github.com/PolarWolf314/dyad/internal/errors"
)

// StretchedKey is a secret after PBKDF2. It lives in locked memory until
// Destroy is called.
type StretchedKey struct {
	buf *memguard.LockedBuffer
}

// Stretch derives a 256-bit key from a low-entropy secret and a salt. The
// same secret and salt always give the same key.
func Stretch(secret, salt []byte) (*StretchedKey, error) {
	if len(secret) == 0 {
		return nil, kerrors.ErrEmptySecret
	}
	if len(salt) != SaltSize {
		return nil, fmt.Errorf("%w: salt is %d bytes, want %d", kerrors.ErrIntegrity, len(salt), SaltSize)
	}

	derived := pbkdf2.Key(secret, salt, StretchIterations, KeySize, sha256.New)

	// NewBufferFromBytes wipes derived after copying it.
	return &StretchedKey{buf: memguard.NewBufferFromBytes(derived)}, nil
}

// Destroy wipes the key. It is safe to call more than once.
func (k *StretchedKey) Destroy() {
	if k != nil && k.buf != nil {
		k.buf.Destroy()
	}
}

func (k *StretchedKey) alive() bool {
	return k != nil && k.buf != nil && k.buf.IsAlive()
}
