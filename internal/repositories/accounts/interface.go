// Package accounts persists credential records. The sensitive columns carry
// enc1: ciphertext; this package never sees plaintext.
package accounts

import (
	"context"

	"github.com/gmanager/gmanager/internal/models"
)

// Repository describes CRUD and query operations for Account records.
type Repository interface {
	// Create inserts a new account and stamps its timestamps.
	Create(ctx context.Context, account *models.Account) error

	// GetByID returns an account with its tags, or common.ErrNotFound.
	GetByID(ctx context.Context, id string) (*models.Account, error)

	// List returns accounts newest first, restricted by the group, tag and
	// year filters, with limit/offset pagination (Limit <= 0 disables it).
	// The text query is not applied here: the encrypted columns cannot be
	// matched by SQL, so the service layer filters decrypted fields.
	List(ctx context.Context, filter models.AccountFilter) ([]models.Account, error)

	// Count returns the number of accounts matching the group, tag and year
	// filters. A zero-value filter counts everything.
	Count(ctx context.Context, filter models.AccountFilter) (int, error)

	// CountByYear returns per-year account counts, newest year first,
	// skipping accounts without a year.
	CountByYear(ctx context.Context) ([]models.YearCount, error)

	// Update overwrites all mutable columns of an existing account.
	Update(ctx context.Context, account *models.Account) error

	// Delete removes an account together with its tag links; log entries
	// keep a NULL account reference.
	Delete(ctx context.Context, id string) error
}
