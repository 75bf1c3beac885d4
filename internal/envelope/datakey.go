package envelope

import (
	"fmt"

	"github.com/awnumar/memguard"
	"github.com/tink-crypto/tink-go/v2/aead/subtle"

	kerrors "github.com/PolarWolf314/dyad/internal/errors"
)

// DataKey is the per-file key that encrypts the payload. Unlike the master
// key its bytes are reachable, since they have to be wrapped.
type DataKey struct {
	buf *memguard.LockedBuffer
}

// WrappedKey is a data key sealed under a master key.
type WrappedKey struct {
	// Ciphertext is the encrypted key followed by the GCM tag.
	Ciphertext []byte
	// IV is the 12-byte nonce used for wrapping.
	IV []byte
}

// GenerateDataKey returns a fresh random 256-bit key.
func GenerateDataKey() *DataKey {
	return &DataKey{buf: memguard.NewBufferRandom(KeySize)}
}

// Bytes returns the raw key. The slice is only valid until Destroy.
func (k *DataKey) Bytes() []byte {
	return k.buf.Bytes()
}

// Destroy wipes the key. It is safe to call more than once.
func (k *DataKey) Destroy() {
	if k != nil && k.buf != nil {
		k.buf.Destroy()
	}
}

// Wrap encrypts the data key under the master key with a fresh IV.
func Wrap(dek *DataKey, km *MasterKey) (*WrappedKey, error) {
	var sealed []byte
	err := km.use(func(key []byte) error {
		aead, err := subtle.NewAESGCM(key)
		if err != nil {
			return err
		}
		// Output is IV || ciphertext || tag.
		sealed, err = aead.Encrypt(dek.Bytes(), nil)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("%w: wrapping data key: %v", kerrors.ErrEncryptFailed, err)
	}

	return &WrappedKey{
		IV:         sealed[:IVSize:IVSize],
		Ciphertext: sealed[IVSize:],
	}, nil
}

// Unwrap recovers a data key. Any failure, including a wrong master key or a
// tampered wrapped key, is reported as ErrAuthentication with no detail.
func Unwrap(wrapped, iv []byte, km *MasterKey) (*DataKey, error) {
	if len(iv) != IVSize {
		return nil, fmt.Errorf("%w: wrapping IV is %d bytes, want %d", kerrors.ErrIntegrity, len(iv), IVSize)
	}

	sealed := make([]byte, 0, len(iv)+len(wrapped))
	sealed = append(sealed, iv...)
	sealed = append(sealed, wrapped...)

	var plain []byte
	err := km.use(func(key []byte) error {
		aead, err := subtle.NewAESGCM(key)
		if err != nil {
			return err
		}
		plain, err = aead.Decrypt(sealed, nil)
		return err
	})
	if err != nil || len(plain) != KeySize {
		memguard.WipeBytes(plain)
		return nil, kerrors.ErrAuthentication
	}

	return &DataKey{buf: memguard.NewBufferFromBytes(plain)}, nil
}
