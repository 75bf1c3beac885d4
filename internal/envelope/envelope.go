package envelope

import (
	"fmt"

	kerrors "github.com/PolarWolf314/dyad/internal/errors"
)

// Opened is the result of opening an envelope.
type Opened struct {
	// FileName is the name recorded at encryption time. It comes from the
	// envelope and is not trusted as a path.
	FileName string
	Data     []byte
}

// EncryptFile seals fileBytes so that both password and email are needed to
// open it. Every call draws fresh salts, IVs and a fresh data key.
func EncryptFile(fileBytes []byte, fileName string, password, email []byte) ([]byte, error) {
	if len(password) == 0 || len(email) == 0 {
		return nil, kerrors.ErrEmptySecret
	}

	sp, err := NewSalt()
	if err != nil {
		return nil, err
	}
	se, err := NewSalt()
	if err != nil {
		return nil, err
	}

	kp, err := Stretch(password, sp)
	if err != nil {
		return nil, err
	}
	defer kp.Destroy()
	ke, err := Stretch(email, se)
	if err != nil {
		return nil, err
	}
	defer ke.Destroy()

	km, err := Combine(kp, ke)
	if err != nil {
		return nil, wrapEncrypt(err)
	}
	defer km.Destroy()

	dek := GenerateDataKey()
	defer dek.Destroy()

	wrapped, err := Wrap(dek, km)
	if err != nil {
		return nil, err
	}

	header, err := Pack(&Metadata{
		FileName:     fileName,
		PasswordSalt: sp,
		EmailSalt:    se,
		WrapIV:       wrapped.IV,
		WrappedKey:   wrapped.Ciphertext,
	})
	if err != nil {
		return nil, err
	}

	payload, err := EncryptPayload(fileBytes, dek)
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, len(header)+len(payload))
	out = append(out, header...)
	return append(out, payload...), nil
}

// DecryptFile opens an envelope and returns the original file bytes.
func DecryptFile(envelope []byte, password, email []byte) ([]byte, error) {
	opened, err := Open(envelope, password, email)
	if err != nil {
		return nil, err
	}
	return opened.Data, nil
}

// Open opens an envelope and also returns the recorded file name. The data
// key is unwrapped, which authenticates both secrets, strictly before the
// payload is decrypted.
func Open(envelope []byte, password, email []byte) (*Opened, error) {
	if len(password) == 0 || len(email) == 0 {
		return nil, kerrors.ErrEmptySecret
	}

	meta, headerLength, err := Parse(envelope)
	if err != nil {
		return nil, err
	}

	kp, err := Stretch(password, meta.PasswordSalt)
	if err != nil {
		return nil, err
	}
	defer kp.Destroy()
	ke, err := Stretch(email, meta.EmailSalt)
	if err != nil {
		return nil, err
	}
	defer ke.Destroy()

	km, err := Combine(kp, ke)
	if err != nil {
		return nil, kerrors.ErrAuthentication
	}
	defer km.Destroy()

	dek, err := Unwrap(meta.WrappedKey, meta.WrapIV, km)
	if err != nil {
		return nil, err
	}
	defer dek.Destroy()

	plain, err := DecryptPayload(envelope[headerLength:], dek)
	if err != nil {
		return nil, err
	}

	return &Opened{FileName: meta.FileName, Data: plain}, nil
}

func wrapEncrypt(err error) error {
	return fmt.Errorf("%w: %v", kerrors.ErrEncryptFailed, err)
}
