package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/gmanager/gmanager/internal/common"
	"github.com/gmanager/gmanager/internal/dbx"
	"github.com/gmanager/gmanager/internal/logging"
	"github.com/gmanager/gmanager/internal/models"
	"github.com/gmanager/gmanager/internal/storage"
)

// TagService manages tags and their attachment to accounts. Attaching and
// detaching are audited in the operation log.
type TagService struct {
	store  storage.Manager
	logger logging.Logger
}

// NewTagService constructs a TagService over the given store.
func NewTagService(store storage.Manager, logger logging.Logger) *TagService {
	return &TagService{store: store, logger: logger}
}

// CreateTagParams carries the fields for a new tag. Color defaults to
// models.DefaultTagColor when left nil.
type CreateTagParams struct {
	Name  string
	Color *string
}

// UpdateTagParams describes a partial tag update; nil leaves the stored
// field unchanged.
type UpdateTagParams struct {
	Name  *string
	Color *string
}

// Create validates and stores a new tag.
func (s *TagService) Create(ctx context.Context, p CreateTagParams) (*models.Tag, error) {
	name := strings.TrimSpace(p.Name)
	if name == "" {
		return nil, fmt.Errorf("tag name is required: %w", common.ErrInvalidInput)
	}

	color := models.DefaultTagColor
	if p.Color != nil {
		color = *p.Color
	}
	if !isValidHexColor(color) {
		return nil, fmt.Errorf("color %q is not a valid hex color: %w", color, common.ErrInvalidInput)
	}

	tag := &models.Tag{
		ID:    uuid.NewString(),
		Name:  name,
		Color: color,
	}
	if err := s.store.Tags(s.store.Conn()).Create(ctx, tag); err != nil {
		return nil, err
	}

	s.logger.Debug(ctx, "tag created", "id", tag.ID, "name", tag.Name)
	return tag, nil
}

// Get returns one tag by id.
func (s *TagService) Get(ctx context.Context, id string) (*models.Tag, error) {
	return s.store.Tags(s.store.Conn()).GetByID(ctx, id)
}

// List returns all tags ordered by name.
func (s *TagService) List(ctx context.Context) ([]models.Tag, error) {
	return s.store.Tags(s.store.Conn()).List(ctx)
}

// ListWithCounts returns all tags together with their account counts, in
// list order.
func (s *TagService) ListWithCounts(ctx context.Context) ([]models.TagWithCount, error) {
	repo := s.store.Tags(s.store.Conn())

	tags, err := repo.List(ctx)
	if err != nil {
		return nil, err
	}
	counts, err := repo.AccountCounts(ctx)
	if err != nil {
		return nil, err
	}

	// Tag names are unique, so counts can be joined by name.
	byName := make(map[string]int, len(counts))
	for _, c := range counts {
		byName[c.Name] = c.Count
	}

	out := make([]models.TagWithCount, 0, len(tags))
	for _, t := range tags {
		out = append(out, models.TagWithCount{Tag: t, AccountCount: byName[t.Name]})
	}
	return out, nil
}

// Update applies a partial update and returns the updated tag.
func (s *TagService) Update(ctx context.Context, id string, p UpdateTagParams) (*models.Tag, error) {
	repo := s.store.Tags(s.store.Conn())

	tag, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if p.Name != nil {
		name := strings.TrimSpace(*p.Name)
		if name == "" {
			return nil, fmt.Errorf("tag name cannot be empty: %w", common.ErrInvalidInput)
		}
		tag.Name = name
	}
	if p.Color != nil {
		if !isValidHexColor(*p.Color) {
			return nil, fmt.Errorf("color %q is not a valid hex color: %w", *p.Color, common.ErrInvalidInput)
		}
		tag.Color = *p.Color
	}

	if err := repo.Update(ctx, tag); err != nil {
		return nil, err
	}
	return tag, nil
}

// Delete removes a tag and all its account links.
func (s *TagService) Delete(ctx context.Context, id string) error {
	if err := s.store.Tags(s.store.Conn()).Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Debug(ctx, "tag deleted", "id", id)
	return nil
}

// ListForAccount returns the tags attached to an account, ordered by name.
func (s *TagService) ListForAccount(ctx context.Context, accountID string) ([]models.Tag, error) {
	return s.store.Tags(s.store.Conn()).ListForAccount(ctx, accountID)
}

// Attach links a tag to an account and logs the operation. Attaching an
// already-attached tag is a no-op that is still logged.
func (s *TagService) Attach(ctx context.Context, accountID, tagID string) error {
	return dbx.WithTx(ctx, s.store.Conn(), nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.store.Tags(tx).Attach(ctx, accountID, tagID); err != nil {
			return err
		}
		return s.store.Oplog(tx).Append(ctx, &models.OperationLog{
			ID:        uuid.NewString(),
			AccountID: &accountID,
			Action:    models.ActionAddTag,
			Details:   logDetail(fmt.Sprintf("Added tag %s to account", tagID)),
		})
	})
}

// Detach unlinks a tag from an account and logs the operation. A link that
// does not exist yields ErrNotFound.
func (s *TagService) Detach(ctx context.Context, accountID, tagID string) error {
	return dbx.WithTx(ctx, s.store.Conn(), nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.store.Tags(tx).Detach(ctx, accountID, tagID); err != nil {
			return err
		}
		return s.store.Oplog(tx).Append(ctx, &models.OperationLog{
			ID:        uuid.NewString(),
			AccountID: &accountID,
			Action:    models.ActionRemoveTag,
			Details:   logDetail(fmt.Sprintf("Removed tag %s from account", tagID)),
		})
	})
}

// SetAccountTags reconciles an account's tags against the given set:
// missing tags are attached, tags absent from the set are detached.
func (s *TagService) SetAccountTags(ctx context.Context, accountID string, tagIDs []string) error {
	current, err := s.ListForAccount(ctx, accountID)
	if err != nil {
		return err
	}

	want := make(map[string]bool, len(tagIDs))
	for _, id := range tagIDs {
		want[id] = true
	}

	for _, t := range current {
		if !want[t.ID] {
			if err := s.Detach(ctx, accountID, t.ID); err != nil {
				return err
			}
		}
	}

	have := make(map[string]bool, len(current))
	for _, t := range current {
		have[t.ID] = true
	}
	for _, id := range tagIDs {
		if !have[id] {
			if err := s.Attach(ctx, accountID, id); err != nil {
				return err
			}
		}
	}

	return nil
}

// AccountCount returns the number of accounts carrying a tag.
func (s *TagService) AccountCount(ctx context.Context, id string) (int, error) {
	return s.store.Tags(s.store.Conn()).AccountCount(ctx, id)
}
