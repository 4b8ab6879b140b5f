package oplog

import (
	"context"
	"fmt"
	"time"

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

func (r *SQLiteRepository) Append(ctx context.Context, e *models.OperationLog) error {
	query := `INSERT INTO operation_logs (id, account_id, action, details, created_at) VALUES (?, ?, ?, ?, ?)`

	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx, query, e.ID, e.AccountID, e.Action, e.Details, now)
	if err != nil {
		return fmt.Errorf("failed to insert log entry: %w", err)
	}
	e.CreatedAt = now
	return nil
}

func (r *SQLiteRepository) List(ctx context.Context, accountID *string, limit int) ([]models.OperationLog, error) {
	query := `SELECT id, account_id, action, details, created_at FROM operation_logs`

	var args []any
	if accountID != nil {
		query += ` WHERE account_id = ?`
		args = append(args, *accountID)
	}
	query += ` ORDER BY created_at DESC`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select log entries: %w", err)
	}
	defer rows.Close()

	var result []models.OperationLog
	for rows.Next() {
		var e models.OperationLog
		if err := rows.Scan(&e.ID, &e.AccountID, &e.Action, &e.Details, &e.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Purge computes the cutoff on the Go side so the comparison uses the same
// timestamp encoding the driver writes.
func (r *SQLiteRepository) Purge(ctx context.Context, olderThanDays int) (int, error) {
	cutoff := time.Now().UTC().AddDate(0, 0, -olderThanDays)

	res, err := r.db.ExecContext(ctx, `DELETE FROM operation_logs WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to purge log entries: %w", err)
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return int(ra), nil
}

func (r *SQLiteRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM operation_logs`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count log entries: %w", err)
	}
	return n, nil
}
