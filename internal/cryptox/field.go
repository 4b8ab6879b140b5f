package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"strings"
	"unicode/utf8"
)

// EncryptedPrefix marks string values produced by EncryptField.
const EncryptedPrefix = "enc1:"

// EncryptField encrypts a single field value with AES-256-GCM and encodes it
// as enc1:<base64(nonce + ciphertext + tag)>.
//
// A fresh random nonce is drawn for every call, so encrypting the same
// plaintext twice produces different encodings. The additional data is
// empty.
//
// Errors:
//   - ErrEmptyField if plaintext is empty (absent values stay absent)
//   - ErrInvalidFormat if the key is not KeySize bytes
//   - ErrNonceGeneration if the random source fails
func EncryptField(plaintext string, key []byte) (string, error) {
	// Reject truly empty inputs; nullable fields are handled by
	// EncryptOptionalField at the call site.
	if plaintext == "" {
		return "", ErrEmptyField
	}

	if err := ValidateKey(key); err != nil {
		return "", err
	}

	// nonce
	nonce := make([]byte, NonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("%w: %v", ErrNonceGeneration, err)
	}

	// new cipher
	block, err := aes.NewCipher(key)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}

	// encrypting; Seal appends ciphertext+tag after the nonce
	sealed := aesgcm.Seal(nonce, nonce, []byte(plaintext), nil)

	return EncryptedPrefix + base64.StdEncoding.EncodeToString(sealed), nil
}

// DecryptField decrypts a value produced by EncryptField.
//
// Errors:
//   - ErrInvalidFormat if the value misses the prefix, is not valid base64,
//     is shorter than nonce+tag, or the key is not KeySize bytes
//   - ErrDecryptionFailed if authentication fails (wrong key or tampering);
//     no partial plaintext is ever returned
//   - ErrInvalidUTF8 if the authenticated bytes are not valid UTF-8
func DecryptField(encrypted string, key []byte) (string, error) {
	if err := ValidateKey(key); err != nil {
		return "", err
	}

	// Check for version prefix
	encoded, ok := strings.CutPrefix(encrypted, EncryptedPrefix)
	if !ok {
		return "", fmt.Errorf("%w: missing version prefix", ErrInvalidFormat)
	}

	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}

	// Minimum size: nonce (12) + tag (16)
	if len(data) < NonceSize+gcmTagSize {
		return "", fmt.Errorf("%w: encrypted data too short", ErrInvalidFormat)
	}

	nonce, ciphertext := data[:NonceSize], data[NonceSize:]

	block, err := aes.NewCipher(key)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}

	plaintext, err := aesgcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		// Opaque on purpose: wrong key and tampered data are
		// indistinguishable to callers.
		return "", ErrDecryptionFailed
	}

	if !utf8.Valid(plaintext) {
		return "", ErrInvalidUTF8
	}

	return string(plaintext), nil
}

// EncryptOptionalField handles nullable field values. Nil stays nil, an
// empty string passes through unencrypted, anything else is encrypted.
func EncryptOptionalField(field *string, key []byte) (*string, error) {
	if field == nil {
		return nil, nil
	}
	if *field == "" {
		empty := ""
		return &empty, nil
	}
	enc, err := EncryptField(*field, key)
	if err != nil {
		return nil, err
	}
	return &enc, nil
}

// DecryptOptionalField is the counterpart of EncryptOptionalField. Nil stays
// nil and an empty string passes through undecrypted.
func DecryptOptionalField(field *string, key []byte) (*string, error) {
	if field == nil {
		return nil, nil
	}
	if *field == "" {
		empty := ""
		return &empty, nil
	}
	dec, err := DecryptField(*field, key)
	if err != nil {
		return nil, err
	}
	return &dec, nil
}

// IsEncrypted reports whether a string looks like encrypted data. A simple
// prefix heuristic, useful for validation and display logic.
func IsEncrypted(value string) bool {
	return strings.HasPrefix(value, EncryptedPrefix)
}

// ValidateKey checks that a key has the correct size for AES-256.
func ValidateKey(key []byte) error {
	if len(key) != KeySize {
		return fmt.Errorf("%w: invalid key size: expected %d bytes, got %d",
			ErrInvalidFormat, KeySize, len(key))
	}
	return nil
}
