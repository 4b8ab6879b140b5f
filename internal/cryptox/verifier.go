package cryptox

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"strings"
)

// VerifierPrefix is the version prefix of stored password verifiers.
const VerifierPrefix = "vault1:"

// verificationMarker is the fixed plaintext hashed together with the derived
// key to produce a verifier. Changing it invalidates every stored verifier.
const verificationMarker = "GManagerVaultVerification"

// MakeVerifier builds the password verifier for a derived key:
//
//	vault1:<hex(SHA-256(key || marker))>
//
// The verifier is one-way: it proves knowledge of the master password
// without revealing the password or the key.
func MakeVerifier(key []byte) string {
	data := make([]byte, 0, len(key)+len(verificationMarker))
	data = append(data, key...)
	data = append(data, verificationMarker...)
	hash := sha256.Sum256(data)
	return VerifierPrefix + hex.EncodeToString(hash[:])
}

// CheckVerifier reports whether the derived key matches a stored verifier.
//
// The hash comparison is constant-time over the content; a malformed stored
// value (wrong prefix, bad hex, wrong length) simply fails verification.
func CheckVerifier(key []byte, stored string) bool {
	rest, ok := strings.CutPrefix(stored, VerifierPrefix)
	if !ok {
		return false
	}

	storedBytes, err := hex.DecodeString(rest)
	if err != nil {
		return false
	}

	data := make([]byte, 0, len(key)+len(verificationMarker))
	data = append(data, key...)
	data = append(data, verificationMarker...)
	expected := sha256.Sum256(data)

	return subtle.ConstantTimeCompare(storedBytes, expected[:]) == 1
}
