// Package oplog persists the append-only audit trail of vault operations.
package oplog

import (
	"context"

	"github.com/gmanager/gmanager/internal/models"
)

// Repository describes the append-only operation log. Entries are never
// updated; maintenance is limited to purging old ones.
type Repository interface {
	// Append inserts a new log entry.
	Append(ctx context.Context, entry *models.OperationLog) error

	// List returns entries newest first, optionally restricted to one
	// account. Limit <= 0 returns everything.
	List(ctx context.Context, accountID *string, limit int) ([]models.OperationLog, error)

	// Purge deletes entries older than the given number of days and
	// returns how many were removed.
	Purge(ctx context.Context, olderThanDays int) (int, error)

	// Count returns the total number of entries.
	Count(ctx context.Context) (int, error)
}
