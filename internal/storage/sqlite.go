package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"github.com/gmanager/gmanager/internal/dbx"
	"github.com/gmanager/gmanager/internal/filex"
	sqlitemigrations "github.com/gmanager/gmanager/internal/migrations/sqlite"
	"github.com/gmanager/gmanager/internal/repositories/accounts"
	"github.com/gmanager/gmanager/internal/repositories/groups"
	"github.com/gmanager/gmanager/internal/repositories/oplog"
	"github.com/gmanager/gmanager/internal/repositories/tags"
	"github.com/gmanager/gmanager/internal/repositories/vault"
)

// SQLiteManager is the Manager implementation for the embedded SQLite
// backend (modernc driver, no cgo).
type SQLiteManager struct {
	db *sql.DB
}

// NewSQLiteManager opens the SQLite database at dsn, applies migrations and
// seeds the default group. Plain file paths get their parent directory
// created; file: URIs and in-memory databases are opened as-is.
func NewSQLiteManager(ctx context.Context, dsn string) (Manager, error) {
	if !strings.HasPrefix(dsn, "file:") && dsn != ":memory:" {
		if _, err := filex.EnsureParentDir(dsn); err != nil {
			return nil, fmt.Errorf("db dir error: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	m := &SQLiteManager{db: db}

	if err := m.RunMigrations(ctx); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}
	if err := ensureDefaultGroup(ctx, m.Groups(db)); err != nil {
		return nil, fmt.Errorf("default group error: %w", err)
	}
	return m, nil
}

func (m *SQLiteManager) Conn() *sql.DB {
	return m.db
}

// RunMigrations sets up goose with the embedded SQLite migrations and runs
// them against the managed connection.
func (m *SQLiteManager) RunMigrations(ctx context.Context) error {
	goose.SetBaseFS(sqlitemigrations.Migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	return goose.UpContext(ctx, m.db, ".")
}

func (m *SQLiteManager) Close() error {
	return m.db.Close()
}

func (m *SQLiteManager) Vault(db dbx.DBTX) vault.Repository {
	return vault.NewSQLiteRepository(db)
}

func (m *SQLiteManager) Accounts(db dbx.DBTX) accounts.Repository {
	return accounts.NewSQLiteRepository(db)
}

func (m *SQLiteManager) Groups(db dbx.DBTX) groups.Repository {
	return groups.NewSQLiteRepository(db)
}

func (m *SQLiteManager) Tags(db dbx.DBTX) tags.Repository {
	return tags.NewSQLiteRepository(db)
}

func (m *SQLiteManager) Oplog(db dbx.DBTX) oplog.Repository {
	return oplog.NewSQLiteRepository(db)
}
