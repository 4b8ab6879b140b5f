// Package models defines the data types persisted and served by GManager.
package models

import "time"

// VaultRecord is the single persisted row backing the vault protocol.
// Exactly one record exists per store.
type VaultRecord struct {
	// Salt is the hex-encoded key-derivation salt. Not secret, but it must
	// survive byte-exact: a corrupted salt makes the vault permanently
	// un-unlockable.
	Salt string

	// Verifier is the password verifier in vault1:<hex> form.
	Verifier string

	CreatedAt time.Time
	UpdatedAt time.Time
}
