package envelope

import (
	"fmt"

	"github.com/tink-crypto/tink-go/v2/aead/subtle"

	kerrors "github.com/PolarWolf314/dyad/internal/errors"
)

// EncryptPayload encrypts the whole plaintext in one AEAD call under a fresh
// IV and returns IV || ciphertext || tag.
func EncryptPayload(plaintext []byte, dek *DataKey) ([]byte, error) {
	aead, err := subtle.NewAESGCM(dek.Bytes())
	if err != nil {
		return nil, fmt.Errorf("%w: payload cipher: %v", kerrors.ErrEncryptFailed, err)
	}
	out, err := aead.Encrypt(plaintext, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: encrypting payload: %v", kerrors.ErrEncryptFailed, err)
	}
	return out, nil
}

// DecryptPayload reverses EncryptPayload. Inputs shorter than MinPayloadSize
// are rejected before any decryption is attempted.
func DecryptPayload(data []byte, dek *DataKey) ([]byte, error) {
	if len(data) < MinPayloadSize {
		return nil, fmt.Errorf("%w: payload is %d bytes, need at least %d", kerrors.ErrIntegrity, len(data), MinPayloadSize)
	}
	aead, err := subtle.NewAESGCM(dek.Bytes())
	if err != nil {
		return nil, fmt.Errorf("%w: payload cipher: %v", kerrors.ErrIntegrity, err)
	}
	plain, err := aead.Decrypt(data, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: payload failed authentication", kerrors.ErrIntegrity)
	}
	return plain, nil
}
