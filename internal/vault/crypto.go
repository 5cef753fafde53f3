package vault

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"

	berrors "github.com/badie/bdev/internal/errors"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/nacl/secretbox"
)

// Argon2id parameters.
const (
	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
	keyLen       = 32
	saltLen      = 16
	nonceLen     = 24
	proofScheme  = "argon2id"
)

func newSalt() ([]byte, error) {
	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}
	return salt, nil
}

func deriveKey(password string, salt []byte) []byte {
	return argon2.IDKey([]byte(password), salt, argonTime, argonMemory, argonThreads, keyLen)
}

// proof is the on-disk verification record for a derived key.
type proof struct {
	salt   []byte
	digest []byte
}

func newProof(salt, key []byte) proof {
	sum := sha256.Sum256(key)
	return proof{salt: salt, digest: sum[:]}
}

func (p proof) String() string {
	return fmt.Sprintf("%s$%s$%s\n", proofScheme, hex.EncodeToString(p.salt), hex.EncodeToString(p.digest))
}

// matches compares the digest of key against the stored digest in constant time.
func (p proof) matches(key []byte) bool {
	sum := sha256.Sum256(key)
	return subtle.ConstantTimeCompare(sum[:], p.digest) == 1
}

func parseProof(data []byte) (proof, error) {
	parts := strings.Split(strings.TrimSpace(string(data)), "$")
	if len(parts) != 3 || parts[0] != proofScheme {
		return proof{}, berrors.ErrCorruptProof
	}

	salt, err := hex.DecodeString(parts[1])
	if err != nil || len(salt) != saltLen {
		return proof{}, berrors.ErrCorruptProof
	}

	digest, err := hex.DecodeString(parts[2])
	if err != nil || len(digest) != sha256.Size {
		return proof{}, berrors.ErrCorruptProof
	}

	return proof{salt: salt, digest: digest}, nil
}

// seal encrypts plaintext with a fresh nonce and returns base64(nonce || box).
func seal(key, plaintext []byte) ([]byte, error) {
	var nonce [nonceLen]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	var k [keyLen]byte
	copy(k[:], key)

	box := secretbox.Seal(nonce[:], plaintext, &nonce, &k)

	out := make([]byte, base64.StdEncoding.EncodedLen(len(box)))
	base64.StdEncoding.Encode(out, box)
	return out, nil
}

// open reverses seal. Any decoding or authentication failure is reported as
// ErrCorruptPayload.
func open(key, encoded []byte) ([]byte, error) {
	box, err := base64.StdEncoding.DecodeString(strings.TrimSpace(string(encoded)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", berrors.ErrCorruptPayload, err)
	}
	if len(box) < nonceLen+secretbox.Overhead {
		return nil, fmt.Errorf("%w: payload too short", berrors.ErrCorruptPayload)
	}

	var nonce [nonceLen]byte
	copy(nonce[:], box[:nonceLen])

	var k [keyLen]byte
	copy(k[:], key)

	plaintext, ok := secretbox.Open(nil, box[nonceLen:], &nonce, &k)
	if !ok {
		return nil, fmt.Errorf("%w: authentication failed", berrors.ErrCorruptPayload)
	}
	return plaintext, nil
}
