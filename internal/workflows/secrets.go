package workflows

import (
	"bytes"

	"github.com/awnumar/memguard"
)

// Secrets are the two factors that open an envelope. They are used as given:
// no trimming, case folding or Unicode normalization.
type Secrets struct {
	Password []byte
	Email    []byte
}

// Wipe zeroes both secrets in place.
func (s *Secrets) Wipe() {
	if s == nil {
		return
	}
	memguard.WipeBytes(s.Password)
	memguard.WipeBytes(s.Email)
}

func (s *Secrets) clone() *Secrets {
	return &Secrets{
		Password: bytes.Clone(s.Password),
		Email:    bytes.Clone(s.Email),
	}
}
