package envelope

import (
	"crypto/rand"
	"fmt"
	"io"

	kerrors "github.com/PolarWolf314/dyad/internal/errors"
)

// randomBytes reads n bytes from the operating system CSPRNG. crypto/rand is
// safe for concurrent use, so pipelines never contend on a shared source.
func randomBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := io.ReadFull(rand.Reader, b); err != nil {
		return nil, fmt.Errorf("%w: reading random bytes: %v", kerrors.ErrEncryptFailed, err)
	}
	return b, nil
}

// NewSalt returns a fresh 16-byte salt.
func NewSalt() ([]byte, error) {
	return randomBytes(SaltSize)
}
