package services

import (
	"context"

	"github.com/gmanager/gmanager/internal/logging"
	"github.com/gmanager/gmanager/internal/models"
	"github.com/gmanager/gmanager/internal/storage"
)

// OplogService reads and prunes the append-only operation log. Entries are
// written by the account and tag services; this service never appends.
type OplogService struct {
	store  storage.Manager
	logger logging.Logger
}

// NewOplogService constructs an OplogService over the given store.
func NewOplogService(store storage.Manager, logger logging.Logger) *OplogService {
	return &OplogService{store: store, logger: logger}
}

// List returns log entries newest first, optionally restricted to one
// account. Limit <= 0 returns all entries.
func (s *OplogService) List(ctx context.Context, accountID *string, limit int) ([]models.OperationLog, error) {
	return s.store.Oplog(s.store.Conn()).List(ctx, accountID, limit)
}

// Purge deletes entries older than the given number of days and returns how
// many were removed.
func (s *OplogService) Purge(ctx context.Context, olderThanDays int) (int, error) {
	n, err := s.store.Oplog(s.store.Conn()).Purge(ctx, olderThanDays)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.logger.Info(ctx, "operation log purged", "removed", n, "older_than_days", olderThanDays)
	}
	return n, nil
}
