package groups

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/gmanager/gmanager/internal/common"
	"github.com/gmanager/gmanager/internal/dbx"
	"github.com/gmanager/gmanager/internal/models"
)

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Create(ctx context.Context, g *models.Group) error {
	query := `INSERT INTO groups (id, name, color, sort_order, created_at) VALUES (?, ?, ?, ?, ?)`

	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx, query, g.ID, g.Name, g.Color, g.SortOrder, now)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return fmt.Errorf("group %q: %w", g.Name, common.ErrAlreadyExists)
		}
		return fmt.Errorf("failed to insert group: %w", err)
	}
	g.CreatedAt = now
	return nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.Group, error) {
	query := `SELECT id, name, color, sort_order, created_at FROM groups WHERE id = ?`

	g := &models.Group{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&g.ID, &g.Name, &g.Color, &g.SortOrder, &g.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("failed to select group: %w", err)
	}
	return g, nil
}

func (r *SQLiteRepository) List(ctx context.Context) ([]models.Group, error) {
	query := `SELECT id, name, color, sort_order, created_at FROM groups ORDER BY sort_order, name`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select groups: %w", err)
	}
	defer rows.Close()

	var result []models.Group
	for rows.Next() {
		var g models.Group
		if err := rows.Scan(&g.ID, &g.Name, &g.Color, &g.SortOrder, &g.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteRepository) Update(ctx context.Context, g *models.Group) error {
	query := `UPDATE groups SET name = ?, color = ?, sort_order = ? WHERE id = ?`

	res, err := r.db.ExecContext(ctx, query, g.Name, g.Color, g.SortOrder, g.ID)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return fmt.Errorf("group %q: %w", g.Name, common.ErrAlreadyExists)
		}
		return fmt.Errorf("failed to update group: %w", err)
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if ra == 0 {
		return common.ErrNotFound
	}
	return nil
}

// Delete detaches member accounts itself: SQLite does not enforce the
// declared foreign-key actions unless the pragma is enabled.
func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE accounts SET group_id = NULL WHERE group_id = ?`, id); err != nil {
		return fmt.Errorf("failed to detach accounts: %w", err)
	}

	res, err := r.db.ExecContext(ctx, `DELETE FROM groups WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete group: %w", err)
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if ra == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *SQLiteRepository) AccountCount(ctx context.Context, id string) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM accounts WHERE group_id = ?`, id).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count group accounts: %w", err)
	}
	return n, nil
}

func (r *SQLiteRepository) AccountCounts(ctx context.Context) ([]models.NameCount, error) {
	query := `SELECT g.name, COUNT(a.id)
			FROM groups g
			LEFT JOIN accounts a ON g.id = a.group_id
			GROUP BY g.id
			ORDER BY g.sort_order, g.name
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to count accounts per group: %w", err)
	}
	defer rows.Close()

	var result []models.NameCount
	for rows.Next() {
		var nc models.NameCount
		if err := rows.Scan(&nc.Name, &nc.Count); err != nil {
			return nil, err
		}
		result = append(result, nc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM groups`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count groups: %w", err)
	}
	return n, nil
}
