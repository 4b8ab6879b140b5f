package storage

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/gmanager/gmanager/internal/dbx"
	pgmigrations "github.com/gmanager/gmanager/internal/migrations/postgres"
	"github.com/gmanager/gmanager/internal/repositories/accounts"
	"github.com/gmanager/gmanager/internal/repositories/groups"
	"github.com/gmanager/gmanager/internal/repositories/oplog"
	"github.com/gmanager/gmanager/internal/repositories/tags"
	"github.com/gmanager/gmanager/internal/repositories/vault"
)

// PostgresManager is the Manager implementation for a PostgreSQL backend
// reached through the pgx stdlib driver.
type PostgresManager struct {
	db *sql.DB
}

// NewPostgresManager opens the PostgreSQL database at dsn, applies
// migrations and seeds the default group.
func NewPostgresManager(ctx context.Context, dsn string) (Manager, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	m := &PostgresManager{db: db}

	if err := m.RunMigrations(ctx); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}
	if err := ensureDefaultGroup(ctx, m.Groups(db)); err != nil {
		return nil, fmt.Errorf("default group error: %w", err)
	}
	return m, nil
}

func (m *PostgresManager) Conn() *sql.DB {
	return m.db
}

// RunMigrations sets up goose with the embedded PostgreSQL migrations and
// runs them against the managed connection.
func (m *PostgresManager) RunMigrations(ctx context.Context) error {
	goose.SetBaseFS(pgmigrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	return goose.UpContext(ctx, m.db, ".")
}

func (m *PostgresManager) Close() error {
	return m.db.Close()
}

func (m *PostgresManager) Vault(db dbx.DBTX) vault.Repository {
	return vault.NewPostgresRepository(db)
}

func (m *PostgresManager) Accounts(db dbx.DBTX) accounts.Repository {
	return accounts.NewPostgresRepository(db)
}

func (m *PostgresManager) Groups(db dbx.DBTX) groups.Repository {
	return groups.NewPostgresRepository(db)
}

func (m *PostgresManager) Tags(db dbx.DBTX) tags.Repository {
	return tags.NewPostgresRepository(db)
}

func (m *PostgresManager) Oplog(db dbx.DBTX) oplog.Repository {
	return oplog.NewPostgresRepository(db)
}
