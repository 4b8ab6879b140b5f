package cryptox

import "errors"

var (
	// ErrEmptyField is returned when attempting to encrypt an empty value.
	// Absent values should be represented as nil, not encrypted.
	ErrEmptyField = errors.New("cannot encrypt empty field")

	// ErrInvalidFormat is returned when an encrypted value does not match
	// the expected wire format (missing prefix, bad base64, truncated data,
	// wrong key or salt size). It is wrapped with the specific reason.
	ErrInvalidFormat = errors.New("invalid encrypted data format")

	// ErrDecryptionFailed is returned when GCM authentication fails, i.e.
	// the key is wrong or the data has been tampered with. Deliberately
	// carries no further detail.
	ErrDecryptionFailed = errors.New("decryption failed")

	// ErrInvalidUTF8 is returned when authenticated plaintext is not valid
	// UTF-8.
	ErrInvalidUTF8 = errors.New("invalid UTF-8 in decrypted data")

	// ErrNonceGeneration is returned when the random source fails while
	// drawing a nonce.
	ErrNonceGeneration = errors.New("failed to generate nonce")

	// ErrRandomSource is returned when the random source fails while
	// drawing a salt.
	ErrRandomSource = errors.New("random source failure")
)
