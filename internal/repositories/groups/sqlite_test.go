package groups

import (
	"context"
	"database/sql"
	"testing"

	"github.com/gmanager/gmanager/internal/common"
	"github.com/gmanager/gmanager/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", "file:groupsrepo?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE IF NOT EXISTS groups (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL UNIQUE,
  color TEXT NOT NULL DEFAULT '#6366f1',
  sort_order INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE IF NOT EXISTS accounts (
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL,
  password TEXT NOT NULL,
  group_id TEXT REFERENCES groups(id) ON DELETE SET NULL,
  created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
  updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);
`)
	require.NoError(t, err)
	_, err = db.Exec(`DELETE FROM accounts`)
	require.NoError(t, err)
	_, err = db.Exec(`DELETE FROM groups`)
	require.NoError(t, err)
	return db
}

func TestGroupCreateGet_RoundTrip(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	g := &models.Group{ID: "g1", Name: "Work", Color: "#ff0000", SortOrder: 3}
	require.NoError(t, r.Create(ctx, g))
	assert.False(t, g.CreatedAt.IsZero())

	got, err := r.GetByID(ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, "Work", got.Name)
	assert.Equal(t, "#ff0000", got.Color)
	assert.Equal(t, 3, got.SortOrder)
}

func TestGroupGetByID_NotFound(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)

	_, err := r.GetByID(context.Background(), "missing")
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestGroupCreate_DuplicateName(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, r.Create(ctx, &models.Group{ID: "g1", Name: "Work", Color: "#111111"}))

	err := r.Create(ctx, &models.Group{ID: "g2", Name: "Work", Color: "#222222"})
	require.ErrorIs(t, err, common.ErrAlreadyExists)
}

func TestGroupList_OrderedBySortOrderThenName(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, r.Create(ctx, &models.Group{ID: "g1", Name: "Zoo", Color: "#1", SortOrder: 1}))
	require.NoError(t, r.Create(ctx, &models.Group{ID: "g2", Name: "Bar", Color: "#1", SortOrder: 1}))
	require.NoError(t, r.Create(ctx, &models.Group{ID: "g3", Name: "Top", Color: "#1", SortOrder: 0}))

	got, err := r.List(ctx)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "Top", got[0].Name)
	assert.Equal(t, "Bar", got[1].Name)
	assert.Equal(t, "Zoo", got[2].Name)
}

func TestGroupUpdate(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	g := &models.Group{ID: "g1", Name: "Work", Color: "#111111"}
	require.NoError(t, r.Create(ctx, g))

	g.Name = "Office"
	g.Color = "#222222"
	g.SortOrder = 5
	require.NoError(t, r.Update(ctx, g))

	got, err := r.GetByID(ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, "Office", got.Name)
	assert.Equal(t, "#222222", got.Color)
	assert.Equal(t, 5, got.SortOrder)

	require.ErrorIs(t,
		r.Update(ctx, &models.Group{ID: "missing", Name: "X"}),
		common.ErrNotFound)
}

func TestGroupUpdate_DuplicateName(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, r.Create(ctx, &models.Group{ID: "g1", Name: "Work", Color: "#1"}))
	require.NoError(t, r.Create(ctx, &models.Group{ID: "g2", Name: "Home", Color: "#1"}))

	err := r.Update(ctx, &models.Group{ID: "g2", Name: "Work", Color: "#1"})
	require.ErrorIs(t, err, common.ErrAlreadyExists)
}

func TestGroupDelete_DetachesAccounts(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, r.Create(ctx, &models.Group{ID: "g1", Name: "Work", Color: "#1"}))
	_, err := db.Exec(`INSERT INTO accounts (id, email, password, group_id) VALUES ('a1', 'e', 'p', 'g1')`)
	require.NoError(t, err)

	require.NoError(t, r.Delete(ctx, "g1"))

	var groupID sql.NullString
	require.NoError(t, db.QueryRow(`SELECT group_id FROM accounts WHERE id = 'a1'`).Scan(&groupID))
	assert.False(t, groupID.Valid, "account must keep a NULL group reference")

	require.ErrorIs(t, r.Delete(ctx, "g1"), common.ErrNotFound)
}

func TestGroupCounts(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, r.Create(ctx, &models.Group{ID: "g1", Name: "Work", Color: "#1"}))
	require.NoError(t, r.Create(ctx, &models.Group{ID: "g2", Name: "Home", Color: "#1"}))
	_, err := db.Exec(`INSERT INTO accounts (id, email, password, group_id) VALUES
		('a1', 'e', 'p', 'g1'),
		('a2', 'e', 'p', 'g1'),
		('a3', 'e', 'p', NULL)`)
	require.NoError(t, err)

	n, err := r.AccountCount(ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = r.AccountCount(ctx, "g2")
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	total, err := r.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
}

func TestGroupAccountCounts(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, r.Create(ctx, &models.Group{ID: "g1", Name: "Work", Color: "#1", SortOrder: 1}))
	require.NoError(t, r.Create(ctx, &models.Group{ID: "g2", Name: "Home", Color: "#1", SortOrder: 0}))
	_, err := db.Exec(`INSERT INTO accounts (id, email, password, group_id) VALUES
		('a1', 'e', 'p', 'g1'),
		('a2', 'e', 'p', 'g1')`)
	require.NoError(t, err)

	got, err := r.AccountCounts(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, models.NameCount{Name: "Home", Count: 0}, got[0])
	assert.Equal(t, models.NameCount{Name: "Work", Count: 2}, got[1])
}
