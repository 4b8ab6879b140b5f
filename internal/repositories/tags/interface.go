// Package tags persists free-form labels and their links to accounts.
package tags

import (
	"context"

	"github.com/gmanager/gmanager/internal/models"
)

// Repository describes CRUD and link operations for Tag records. Tag names
// are unique; duplicates surface as common.ErrAlreadyExists.
type Repository interface {
	// Create inserts a new tag.
	Create(ctx context.Context, tag *models.Tag) error

	// GetByID returns a tag or common.ErrNotFound.
	GetByID(ctx context.Context, id string) (*models.Tag, error)

	// List returns all tags ordered by name.
	List(ctx context.Context) ([]models.Tag, error)

	// Update overwrites name and color of an existing tag.
	Update(ctx context.Context, tag *models.Tag) error

	// Delete removes a tag together with all of its account links.
	Delete(ctx context.Context, id string) error

	// ListForAccount returns the tags attached to one account, by name.
	ListForAccount(ctx context.Context, accountID string) ([]models.Tag, error)

	// Attach links a tag to an account. Attaching twice is a no-op; a
	// missing account or tag surfaces as common.ErrNotFound.
	Attach(ctx context.Context, accountID, tagID string) error

	// Detach removes the link; common.ErrNotFound when it does not exist.
	Detach(ctx context.Context, accountID, tagID string) error

	// AccountCount returns the number of accounts carrying a tag.
	AccountCount(ctx context.Context, id string) (int, error)

	// AccountCounts returns per-tag account counts for every tag, by name.
	// Unused tags are included with a zero count.
	AccountCounts(ctx context.Context) ([]models.NameCount, error)

	// Count returns the total number of tags.
	Count(ctx context.Context) (int, error)
}
