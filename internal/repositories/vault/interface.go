// Package vault persists the single vault record: the key-derivation salt
// and the password verifier the unlock protocol checks against.
package vault

import (
	"context"

	"github.com/gmanager/gmanager/internal/models"
)

// Repository stores exactly one vault record per database.
// Implementations are backed by SQLite or PostgreSQL.
type Repository interface {
	// Exists reports whether a vault record has been created.
	Exists(ctx context.Context) (bool, error)

	// Load returns the vault record, or common.ErrNotInitialized when the
	// vault has never been created.
	Load(ctx context.Context) (*models.VaultRecord, error)

	// Save inserts the vault record or replaces the salt and verifier of
	// the existing one.
	Save(ctx context.Context, rec *models.VaultRecord) error
}
