// Package cryptox implements the cryptographic core of GManager: master-key
// derivation, password verifiers and field-level authenticated encryption.
//
// # Key derivation
//
// Keys are derived with PBKDF2-HMAC-SHA256 at a fixed 100,000 iterations,
// producing a 32-byte AES-256 key from the master password and a 16-byte
// random salt. The same password and salt always produce the same key.
//
// # Encrypted field format
//
// Encrypted values are self-describing strings:
//
//	enc1:<base64(nonce + ciphertext + tag)>
//
//   - "enc1:" — version prefix; a future algorithm change must introduce a
//     new prefix and keep decrypting this one
//   - nonce: 12 bytes, random per encryption
//   - ciphertext: same length as the plaintext (AES-256-GCM)
//   - tag: 16 bytes appended by GCM
//
// # Verifier format
//
// Password verifiers prove knowledge of the master password without storing
// anything reversible:
//
//	vault1:<hex(SHA-256(key || verification marker))>
//
// Both formats are durable on-disk contracts; see MakeVerifier and
// EncryptField for details.
package cryptox
