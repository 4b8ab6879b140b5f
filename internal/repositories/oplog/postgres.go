package oplog

import (
	"context"
	"fmt"
	"strconv"
	"time"

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

func (r *PostgresRepository) Append(ctx context.Context, e *models.OperationLog) error {
	query := `INSERT INTO operation_logs (id, account_id, action, details, created_at) VALUES ($1, $2, $3, $4, $5)`

	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx, query, e.ID, e.AccountID, e.Action, e.Details, now)
	if err != nil {
		return fmt.Errorf("failed to insert log entry: %w", err)
	}
	e.CreatedAt = now
	return nil
}

func (r *PostgresRepository) List(ctx context.Context, accountID *string, limit int) ([]models.OperationLog, error) {
	query := `SELECT id, account_id, action, details, created_at FROM operation_logs`

	var args []any
	if accountID != nil {
		args = append(args, *accountID)
		query += ` WHERE account_id = $` + strconv.Itoa(len(args))
	}
	query += ` ORDER BY created_at DESC`
	if limit > 0 {
		args = append(args, limit)
		query += ` LIMIT $` + strconv.Itoa(len(args))
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

func (r *PostgresRepository) Purge(ctx context.Context, olderThanDays int) (int, error) {
	cutoff := time.Now().UTC().AddDate(0, 0, -olderThanDays)

	res, err := r.db.ExecContext(ctx, `DELETE FROM operation_logs WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to purge log entries: %w", err)
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return int(ra), nil
}

func (r *PostgresRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM operation_logs`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count log entries: %w", err)
	}
	return n, nil
}
