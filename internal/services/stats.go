package services

import (
	"context"

	"github.com/gmanager/gmanager/internal/models"
	"github.com/gmanager/gmanager/internal/storage"
)

// StatsService aggregates vault-wide counters. Everything here reads
// plaintext columns only, so no session key is needed.
type StatsService struct {
	store storage.Manager
}

// NewStatsService constructs a StatsService over the given store.
func NewStatsService(store storage.Manager) *StatsService {
	return &StatsService{store: store}
}

// Collect gathers all counters in one pass.
func (s *StatsService) Collect(ctx context.Context) (*models.Stats, error) {
	db := s.store.Conn()

	var (
		st  models.Stats
		err error
	)

	if st.AccountsCount, err = s.store.Accounts(db).Count(ctx, models.AccountFilter{}); err != nil {
		return nil, err
	}
	if st.GroupsCount, err = s.store.Groups(db).Count(ctx); err != nil {
		return nil, err
	}
	if st.TagsCount, err = s.store.Tags(db).Count(ctx); err != nil {
		return nil, err
	}
	if st.LogsCount, err = s.store.Oplog(db).Count(ctx); err != nil {
		return nil, err
	}

	if st.AccountsByYear, err = s.store.Accounts(db).CountByYear(ctx); err != nil {
		return nil, err
	}
	if st.AccountsPerGroup, err = s.store.Groups(db).AccountCounts(ctx); err != nil {
		return nil, err
	}
	if st.AccountsPerTag, err = s.store.Tags(db).AccountCounts(ctx); err != nil {
		return nil, err
	}

	return &st, nil
}
