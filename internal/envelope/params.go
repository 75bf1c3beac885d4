package envelope

import "github.com/tink-crypto/tink-go/v2/aead/subtle"

// Protocol parameters. Changing any of these breaks compatibility with
// existing envelopes.
const (
	// Magic opens every envelope.
	Magic = "DYAD"

	SaltSize = 16
	IVSize   = subtle.AESGCMIVSize
	TagSize  = subtle.AESGCMTagSize
	KeySize  = 32

	// StretchIterations is the PBKDF2 cost applied to each secret.
	StretchIterations = 600_000

	// MasterKeyInfo is the HKDF context that binds the master key to this protocol.
	MasterKeyInfo = "DYAD-master-key-v1"

	// MinPayloadSize is an empty plaintext: IV and tag only.
	MinPayloadSize = IVSize + TagSize

	// WrappedKeySize is a wrapped data key: ciphertext and tag.
	WrappedKeySize = KeySize + TagSize

	// MaxMetadataSize bounds the metadata block read by ParseReader.
	MaxMetadataSize = 1 << 20

	prefixSize = len(Magic) + 4
)
