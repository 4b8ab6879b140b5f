package cryptox

import (
	"crypto/rand"
	"crypto/sha256"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

const (
	// KeySize is the derived encryption key length in bytes (256 bits).
	KeySize = 32

	// SaltSize is the key-derivation salt length in bytes.
	SaltSize = 16

	// NonceSize is the GCM nonce length in bytes (96 bits).
	NonceSize = 12

	// Iterations is the fixed PBKDF2 iteration count. Changing it changes
	// every derived key, so existing vaults would stop unlocking; any
	// future increase needs an explicit migration path.
	Iterations = 100000
)

// gcmTagSize is the GCM authentication tag length appended to ciphertexts.
const gcmTagSize = 16

// DeriveKey derives a 256-bit encryption key from a master password and salt
// using PBKDF2-HMAC-SHA256.
//
// The same password and salt always produce the same key; the salt is not
// secret and is stored alongside the vault. The caller is expected to wipe
// the password bytes after use.
func DeriveKey(password, salt []byte) []byte {
	return pbkdf2.Key(password, salt, Iterations, KeySize, sha256.New)
}

// GenerateSalt returns a fresh random salt for key derivation.
//
// The salt must be unique per vault to prevent precomputation attacks. A
// failing random source is reported as ErrRandomSource; there is no
// fallback to a weaker generator.
func GenerateSalt() ([]byte, error) {
	salt := make([]byte, SaltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRandomSource, err)
	}
	return salt, nil
}
