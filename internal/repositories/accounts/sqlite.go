package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
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

func (r *SQLiteRepository) Create(ctx context.Context, a *models.Account) error {
	query := `INSERT INTO accounts (id, email, password, recovery_email, totp_secret,
				year, notes, group_id, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx, query,
		a.ID, a.Email, a.Password, a.RecoveryEmail, a.TOTPSecret,
		a.Year, a.Notes, a.GroupID, now, now)
	if err != nil {
		return fmt.Errorf("failed to insert account: %w", err)
	}
	a.CreatedAt = now
	a.UpdatedAt = now
	return nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.Account, error) {
	query := `SELECT id, email, password, recovery_email, totp_secret,
				year, notes, group_id, created_at, updated_at
			FROM accounts WHERE id = ?
	`
	a := &models.Account{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&a.ID, &a.Email, &a.Password, &a.RecoveryEmail, &a.TOTPSecret,
		&a.Year, &a.Notes, &a.GroupID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("failed to select account: %w", err)
	}

	tags, err := r.tagsForAccount(ctx, a.ID)
	if err != nil {
		return nil, err
	}
	a.Tags = tags
	return a, nil
}

func (r *SQLiteRepository) List(ctx context.Context, f models.AccountFilter) ([]models.Account, error) {
	query := `SELECT DISTINCT a.id, a.email, a.password, a.recovery_email, a.totp_secret,
				a.year, a.notes, a.group_id, a.created_at, a.updated_at
			FROM accounts a`

	var conds []string
	var args []any
	if f.TagID != nil {
		query += ` INNER JOIN account_tags at ON a.id = at.account_id`
		conds = append(conds, `at.tag_id = ?`)
		args = append(args, *f.TagID)
	}
	if f.GroupID != nil {
		conds = append(conds, `a.group_id = ?`)
		args = append(args, *f.GroupID)
	}
	if f.Year != nil {
		conds = append(conds, `a.year = ?`)
		args = append(args, *f.Year)
	}
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, ` AND `)
	}
	query += ` ORDER BY a.created_at DESC`
	if f.Limit > 0 {
		query += ` LIMIT ? OFFSET ?`
		args = append(args, f.Limit, f.Offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select accounts: %w", err)
	}
	defer rows.Close()

	var result []models.Account
	for rows.Next() {
		var a models.Account
		if err := rows.Scan(
			&a.ID, &a.Email, &a.Password, &a.RecoveryEmail, &a.TOTPSecret,
			&a.Year, &a.Notes, &a.GroupID, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Tags are loaded after the account rows are fully consumed so only one
	// statement is active on the connection at a time.
	for i := range result {
		tags, err := r.tagsForAccount(ctx, result[i].ID)
		if err != nil {
			return nil, err
		}
		result[i].Tags = tags
	}
	return result, nil
}

func (r *SQLiteRepository) Count(ctx context.Context, f models.AccountFilter) (int, error) {
	query := `SELECT COUNT(DISTINCT a.id) FROM accounts a`

	var conds []string
	var args []any
	if f.TagID != nil {
		query += ` INNER JOIN account_tags at ON a.id = at.account_id`
		conds = append(conds, `at.tag_id = ?`)
		args = append(args, *f.TagID)
	}
	if f.GroupID != nil {
		conds = append(conds, `a.group_id = ?`)
		args = append(args, *f.GroupID)
	}
	if f.Year != nil {
		conds = append(conds, `a.year = ?`)
		args = append(args, *f.Year)
	}
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, ` AND `)
	}

	var n int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count accounts: %w", err)
	}
	return n, nil
}

func (r *SQLiteRepository) CountByYear(ctx context.Context) ([]models.YearCount, error) {
	query := `SELECT year, COUNT(*) FROM accounts WHERE year IS NOT NULL GROUP BY year ORDER BY year DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to count accounts by year: %w", err)
	}
	defer rows.Close()

	var result []models.YearCount
	for rows.Next() {
		var yc models.YearCount
		if err := rows.Scan(&yc.Year, &yc.Count); err != nil {
			return nil, err
		}
		result = append(result, yc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteRepository) Update(ctx context.Context, a *models.Account) error {
	query := `UPDATE accounts SET email = ?, password = ?, recovery_email = ?,
				totp_secret = ?, year = ?, notes = ?, group_id = ?, updated_at = ?
			WHERE id = ?
	`
	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx, query,
		a.Email, a.Password, a.RecoveryEmail, a.TOTPSecret,
		a.Year, a.Notes, a.GroupID, now, a.ID)
	if err != nil {
		return fmt.Errorf("failed to update account: %w", err)
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if ra == 0 {
		return common.ErrNotFound
	}
	a.UpdatedAt = now
	return nil
}

// Delete cleans the tag links and log references itself: SQLite does not
// enforce the declared foreign-key actions unless the pragma is enabled.
func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE operation_logs SET account_id = NULL WHERE account_id = ?`, id); err != nil {
		return fmt.Errorf("failed to detach log entries: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM account_tags WHERE account_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete tag links: %w", err)
	}

	res, err := r.db.ExecContext(ctx, `DELETE FROM accounts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
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

func (r *SQLiteRepository) tagsForAccount(ctx context.Context, accountID string) ([]models.Tag, error) {
	query := `SELECT t.id, t.name, t.color, t.created_at
			FROM tags t
			INNER JOIN account_tags at ON t.id = at.tag_id
			WHERE at.account_id = ?
			ORDER BY t.name
	`
	rows, err := r.db.QueryContext(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to select account tags: %w", err)
	}
	defer rows.Close()

	var tags []models.Tag
	for rows.Next() {
		var t models.Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.Color, &t.CreatedAt); err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return tags, nil
}
