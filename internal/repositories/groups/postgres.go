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

// PostgresRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository returns a new PostgresRepository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, g *models.Group) error {
	query := `INSERT INTO groups (id, name, color, sort_order, created_at) VALUES ($1, $2, $3, $4, $5)`

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

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Group, error) {
	query := `SELECT id, name, color, sort_order, created_at FROM groups WHERE id = $1`

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

func (r *PostgresRepository) List(ctx context.Context) ([]models.Group, error) {
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

func (r *PostgresRepository) Update(ctx context.Context, g *models.Group) error {
	query := `UPDATE groups SET name = $1, color = $2, sort_order = $3 WHERE id = $4`

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

// Delete relies on the declared ON DELETE SET NULL for member accounts.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM groups WHERE id = $1`, id)
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

func (r *PostgresRepository) AccountCount(ctx context.Context, id string) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM accounts WHERE group_id = $1`, id).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count group accounts: %w", err)
	}
	return n, nil
}

func (r *PostgresRepository) AccountCounts(ctx context.Context) ([]models.NameCount, error) {
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

func (r *PostgresRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM groups`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count groups: %w", err)
	}
	return n, nil
}
