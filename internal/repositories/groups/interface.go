// Package groups persists the named collections accounts are organized into.
package groups

import (
	"context"

	"github.com/gmanager/gmanager/internal/models"
)

// Repository describes CRUD operations for Group records. Group names are
// unique; duplicates surface as common.ErrAlreadyExists.
type Repository interface {
	// Create inserts a new group.
	Create(ctx context.Context, group *models.Group) error

	// GetByID returns a group or common.ErrNotFound.
	GetByID(ctx context.Context, id string) (*models.Group, error)

	// List returns all groups ordered by sort order, then name.
	List(ctx context.Context) ([]models.Group, error)

	// Update overwrites name, color and sort order of an existing group.
	Update(ctx context.Context, group *models.Group) error

	// Delete removes a group; member accounts keep a NULL group reference.
	Delete(ctx context.Context, id string) error

	// AccountCount returns the number of accounts in a group.
	AccountCount(ctx context.Context, id string) (int, error)

	// AccountCounts returns per-group account counts for every group,
	// ordered like List. Empty groups are included with a zero count.
	AccountCounts(ctx context.Context) ([]models.NameCount, error)

	// Count returns the total number of groups.
	Count(ctx context.Context) (int, error)
}
