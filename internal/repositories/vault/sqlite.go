package vault

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

func (r *SQLiteRepository) Exists(ctx context.Context) (bool, error) {
	query := `SELECT COUNT(*) FROM vault WHERE id = 1`

	var n int
	if err := r.db.QueryRowContext(ctx, query).Scan(&n); err != nil {
		return false, fmt.Errorf("failed to query vault: %w", err)
	}
	return n > 0, nil
}

func (r *SQLiteRepository) Load(ctx context.Context) (*models.VaultRecord, error) {
	query := `SELECT salt, verification_hash, created_at, updated_at FROM vault WHERE id = 1`

	rec := &models.VaultRecord{}
	err := r.db.QueryRowContext(ctx, query).Scan(&rec.Salt, &rec.Verifier, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotInitialized
		}
		return nil, fmt.Errorf("failed to load vault record: %w", err)
	}
	return rec, nil
}

// Save upserts the single row. The creation timestamp survives updates.
func (r *SQLiteRepository) Save(ctx context.Context, rec *models.VaultRecord) error {
	query := `INSERT INTO vault (id, salt, verification_hash, created_at, updated_at)
			VALUES (1, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET salt = excluded.salt,
				verification_hash = excluded.verification_hash,
				updated_at = excluded.updated_at
	`
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx, query, rec.Salt, rec.Verifier, now, now)
	if err != nil {
		return fmt.Errorf("failed to save vault record: %w", err)
	}
	return nil
}
