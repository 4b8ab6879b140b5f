package models

import "time"

// Account is a stored credential record. The sensitive attributes (email,
// password, recovery email, TOTP secret, notes) are persisted as enc1:
// ciphertext; year, group and timestamps stay plaintext for filtering.
type Account struct {
	// ID is a globally unique identifier for the account.
	ID string

	// Email is the primary email address (encrypted at rest, required).
	Email string

	// Password is the account password (encrypted at rest, required).
	Password string

	// RecoveryEmail is the optional recovery address (encrypted at rest).
	RecoveryEmail *string

	// TOTPSecret is the optional TOTP/2FA secret (encrypted at rest).
	TOTPSecret *string

	// Notes holds free-form user notes (encrypted at rest).
	Notes *string

	// Year optionally associates the account with a year for filtering.
	Year *int

	// GroupID references the owning group, if any.
	GroupID *string

	CreatedAt time.Time
	UpdatedAt time.Time

	// Tags are the tags attached to this account, sorted by name.
	Tags []Tag
}

// AccountFilter describes a search over stored accounts. Query matches
// decrypted email, recovery email and notes; the remaining filters apply to
// plaintext columns. Limit <= 0 means no limit.
type AccountFilter struct {
	Query   string
	GroupID *string
	TagID   *string
	Year    *int
	Limit   int
	Offset  int
}

// AccountPage is one page of search results together with the total number
// of matches across all pages.
type AccountPage struct {
	Accounts []Account
	Total    int
}
