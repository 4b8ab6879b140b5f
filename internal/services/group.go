package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/gmanager/gmanager/internal/common"
	"github.com/gmanager/gmanager/internal/logging"
	"github.com/gmanager/gmanager/internal/models"
	"github.com/gmanager/gmanager/internal/storage"
)

// GroupService manages account groups. Group metadata is never sensitive,
// so no session key is involved.
type GroupService struct {
	store  storage.Manager
	logger logging.Logger
}

// NewGroupService constructs a GroupService over the given store.
func NewGroupService(store storage.Manager, logger logging.Logger) *GroupService {
	return &GroupService{store: store, logger: logger}
}

// CreateGroupParams carries the fields for a new group. Color defaults to
// models.DefaultGroupColor and SortOrder to 0 when left nil.
type CreateGroupParams struct {
	Name      string
	Color     *string
	SortOrder *int
}

// UpdateGroupParams describes a partial group update; nil leaves the stored
// field unchanged.
type UpdateGroupParams struct {
	Name      *string
	Color     *string
	SortOrder *int
}

// Create validates and stores a new group.
func (s *GroupService) Create(ctx context.Context, p CreateGroupParams) (*models.Group, error) {
	name := strings.TrimSpace(p.Name)
	if name == "" {
		return nil, fmt.Errorf("group name is required: %w", common.ErrInvalidInput)
	}

	color := models.DefaultGroupColor
	if p.Color != nil {
		color = *p.Color
	}
	if !isValidHexColor(color) {
		return nil, fmt.Errorf("color %q is not a valid hex color: %w", color, common.ErrInvalidInput)
	}

	sortOrder := 0
	if p.SortOrder != nil {
		sortOrder = *p.SortOrder
	}

	g := &models.Group{
		ID:        uuid.NewString(),
		Name:      name,
		Color:     color,
		SortOrder: sortOrder,
	}
	if err := s.store.Groups(s.store.Conn()).Create(ctx, g); err != nil {
		return nil, err
	}

	s.logger.Debug(ctx, "group created", "id", g.ID, "name", g.Name)
	return g, nil
}

// Get returns one group by id.
func (s *GroupService) Get(ctx context.Context, id string) (*models.Group, error) {
	return s.store.Groups(s.store.Conn()).GetByID(ctx, id)
}

// List returns all groups ordered by sort order, then name.
func (s *GroupService) List(ctx context.Context) ([]models.Group, error) {
	return s.store.Groups(s.store.Conn()).List(ctx)
}

// ListWithCounts returns all groups together with their account counts, in
// list order.
func (s *GroupService) ListWithCounts(ctx context.Context) ([]models.GroupWithCount, error) {
	repo := s.store.Groups(s.store.Conn())

	groups, err := repo.List(ctx)
	if err != nil {
		return nil, err
	}
	counts, err := repo.AccountCounts(ctx)
	if err != nil {
		return nil, err
	}

	// Group names are unique, so counts can be joined by name.
	byName := make(map[string]int, len(counts))
	for _, c := range counts {
		byName[c.Name] = c.Count
	}

	out := make([]models.GroupWithCount, 0, len(groups))
	for _, g := range groups {
		out = append(out, models.GroupWithCount{Group: g, AccountCount: byName[g.Name]})
	}
	return out, nil
}

// Update applies a partial update and returns the updated group.
func (s *GroupService) Update(ctx context.Context, id string, p UpdateGroupParams) (*models.Group, error) {
	repo := s.store.Groups(s.store.Conn())

	g, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if p.Name != nil {
		name := strings.TrimSpace(*p.Name)
		if name == "" {
			return nil, fmt.Errorf("group name cannot be empty: %w", common.ErrInvalidInput)
		}
		g.Name = name
	}
	if p.Color != nil {
		if !isValidHexColor(*p.Color) {
			return nil, fmt.Errorf("color %q is not a valid hex color: %w", *p.Color, common.ErrInvalidInput)
		}
		g.Color = *p.Color
	}
	if p.SortOrder != nil {
		g.SortOrder = *p.SortOrder
	}

	if err := repo.Update(ctx, g); err != nil {
		return nil, err
	}
	return g, nil
}

// Delete removes a group. Accounts in the group are kept and detached.
func (s *GroupService) Delete(ctx context.Context, id string) error {
	if err := s.store.Groups(s.store.Conn()).Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Debug(ctx, "group deleted", "id", id)
	return nil
}

// AccountCount returns the number of accounts in a group.
func (s *GroupService) AccountCount(ctx context.Context, id string) (int, error) {
	return s.store.Groups(s.store.Conn()).AccountCount(ctx, id)
}

// isValidHexColor accepts #rgb and #rrggbb forms.
func isValidHexColor(s string) bool {
	if len(s) != 4 && len(s) != 7 {
		return false
	}
	if s[0] != '#' {
		return false
	}
	for _, r := range s[1:] {
		switch {
		case r >= '0' && r <= '9':
		case r >= 'a' && r <= 'f':
		case r >= 'A' && r <= 'F':
		default:
			return false
		}
	}
	return true
}
