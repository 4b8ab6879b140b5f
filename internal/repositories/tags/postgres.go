package tags

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

func (r *PostgresRepository) Create(ctx context.Context, tag *models.Tag) error {
	query := `INSERT INTO tags (id, name, color, created_at) VALUES ($1, $2, $3, $4)`

	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx, query, tag.ID, tag.Name, tag.Color, now)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return fmt.Errorf("tag %q: %w", tag.Name, common.ErrAlreadyExists)
		}
		return fmt.Errorf("failed to insert tag: %w", err)
	}
	tag.CreatedAt = now
	return nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Tag, error) {
	query := `SELECT id, name, color, created_at FROM tags WHERE id = $1`

	t := &models.Tag{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&t.ID, &t.Name, &t.Color, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("failed to select tag: %w", err)
	}
	return t, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]models.Tag, error) {
	query := `SELECT id, name, color, created_at FROM tags ORDER BY name`
	return r.queryTags(ctx, query)
}

func (r *PostgresRepository) Update(ctx context.Context, tag *models.Tag) error {
	query := `UPDATE tags SET name = $1, color = $2 WHERE id = $3`

	res, err := r.db.ExecContext(ctx, query, tag.Name, tag.Color, tag.ID)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return fmt.Errorf("tag %q: %w", tag.Name, common.ErrAlreadyExists)
		}
		return fmt.Errorf("failed to update tag: %w", err)
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

// Delete relies on the declared ON DELETE CASCADE for the account links.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tags WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete tag: %w", err)
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

func (r *PostgresRepository) ListForAccount(ctx context.Context, accountID string) ([]models.Tag, error) {
	query := `SELECT t.id, t.name, t.color, t.created_at
			FROM tags t
			INNER JOIN account_tags at ON t.id = at.tag_id
			WHERE at.account_id = $1
			ORDER BY t.name
	`
	return r.queryTags(ctx, query, accountID)
}

func (r *PostgresRepository) Attach(ctx context.Context, accountID, tagID string) error {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM accounts WHERE id = $1`, accountID).Scan(&n); err != nil {
		return fmt.Errorf("failed to check account: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("account %s: %w", accountID, common.ErrNotFound)
	}
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tags WHERE id = $1`, tagID).Scan(&n); err != nil {
		return fmt.Errorf("failed to check tag: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("tag %s: %w", tagID, common.ErrNotFound)
	}

	query := `INSERT INTO account_tags (account_id, tag_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`
	if _, err := r.db.ExecContext(ctx, query, accountID, tagID); err != nil {
		return fmt.Errorf("failed to attach tag: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Detach(ctx context.Context, accountID, tagID string) error {
	query := `DELETE FROM account_tags WHERE account_id = $1 AND tag_id = $2`

	res, err := r.db.ExecContext(ctx, query, accountID, tagID)
	if err != nil {
		return fmt.Errorf("failed to detach tag: %w", err)
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if ra == 0 {
		return fmt.Errorf("tag %s not attached to account %s: %w", tagID, accountID, common.ErrNotFound)
	}
	return nil
}

func (r *PostgresRepository) AccountCount(ctx context.Context, id string) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM account_tags WHERE tag_id = $1`, id).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count tag accounts: %w", err)
	}
	return n, nil
}

func (r *PostgresRepository) AccountCounts(ctx context.Context) ([]models.NameCount, error) {
	query := `SELECT t.name, COUNT(at.account_id)
			FROM tags t
			LEFT JOIN account_tags at ON t.id = at.tag_id
			GROUP BY t.id
			ORDER BY t.name
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to count accounts per tag: %w", err)
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
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tags`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count tags: %w", err)
	}
	return n, nil
}

func (r *PostgresRepository) queryTags(ctx context.Context, query string, args ...any) ([]models.Tag, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select tags: %w", err)
	}
	defer rows.Close()

	var result []models.Tag
	for rows.Next() {
		var t models.Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.Color, &t.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
