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

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Create(ctx context.Context, tag *models.Tag) error {
	query := `INSERT INTO tags (id, name, color, created_at) VALUES (?, ?, ?, ?)`

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

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.Tag, error) {
	query := `SELECT id, name, color, created_at FROM tags WHERE id = ?`

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

func (r *SQLiteRepository) List(ctx context.Context) ([]models.Tag, error) {
	query := `SELECT id, name, color, created_at FROM tags ORDER BY name`
	return r.queryTags(ctx, query)
}

func (r *SQLiteRepository) Update(ctx context.Context, tag *models.Tag) error {
	query := `UPDATE tags SET name = ?, color = ? WHERE id = ?`

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

// Delete removes the account links itself: SQLite does not enforce the
// declared foreign-key actions unless the pragma is enabled.
func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM account_tags WHERE tag_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete tag links: %w", err)
	}

	res, err := r.db.ExecContext(ctx, `DELETE FROM tags WHERE id = ?`, id)
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

func (r *SQLiteRepository) ListForAccount(ctx context.Context, accountID string) ([]models.Tag, error) {
	query := `SELECT t.id, t.name, t.color, t.created_at
			FROM tags t
			INNER JOIN account_tags at ON t.id = at.tag_id
			WHERE at.account_id = ?
			ORDER BY t.name
	`
	return r.queryTags(ctx, query, accountID)
}

func (r *SQLiteRepository) Attach(ctx context.Context, accountID, tagID string) error {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM accounts WHERE id = ?`, accountID).Scan(&n); err != nil {
		return fmt.Errorf("failed to check account: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("account %s: %w", accountID, common.ErrNotFound)
	}
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tags WHERE id = ?`, tagID).Scan(&n); err != nil {
		return fmt.Errorf("failed to check tag: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("tag %s: %w", tagID, common.ErrNotFound)
	}

	query := `INSERT OR IGNORE INTO account_tags (account_id, tag_id) VALUES (?, ?)`
	if _, err := r.db.ExecContext(ctx, query, accountID, tagID); err != nil {
		return fmt.Errorf("failed to attach tag: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Detach(ctx context.Context, accountID, tagID string) error {
	query := `DELETE FROM account_tags WHERE account_id = ? AND tag_id = ?`

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

func (r *SQLiteRepository) AccountCount(ctx context.Context, id string) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM account_tags WHERE tag_id = ?`, id).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count tag accounts: %w", err)
	}
	return n, nil
}

func (r *SQLiteRepository) AccountCounts(ctx context.Context) ([]models.NameCount, error) {
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

func (r *SQLiteRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tags`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count tags: %w", err)
	}
	return n, nil
}

func (r *SQLiteRepository) queryTags(ctx context.Context, query string, args ...any) ([]models.Tag, error) {
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
