// Package storage opens the database backend, applies the embedded schema
// migrations and vends the repositories bound to it.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/gmanager/gmanager/internal/common"
	"github.com/gmanager/gmanager/internal/dbx"
	"github.com/gmanager/gmanager/internal/models"
	"github.com/gmanager/gmanager/internal/repositories/accounts"
	"github.com/gmanager/gmanager/internal/repositories/groups"
	"github.com/gmanager/gmanager/internal/repositories/oplog"
	"github.com/gmanager/gmanager/internal/repositories/tags"
	"github.com/gmanager/gmanager/internal/repositories/vault"
)

// Manager bundles the database handle with repository factories. The
// factories take a DBTX so services can bind repositories to a transaction.
type Manager interface {
	Conn() *sql.DB
	RunMigrations(ctx context.Context) error
	Close() error

	Vault(db dbx.DBTX) vault.Repository
	Accounts(db dbx.DBTX) accounts.Repository
	Groups(db dbx.DBTX) groups.Repository
	Tags(db dbx.DBTX) tags.Repository
	Oplog(db dbx.DBTX) oplog.Repository
}

// NewManager opens the backend selected by the configured driver.
func NewManager(ctx context.Context, driver, dsn string) (Manager, error) {
	switch driver {
	case "sqlite":
		return NewSQLiteManager(ctx, dsn)
	case "postgres", "pgx":
		return NewPostgresManager(ctx, dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", driver)
	}
}

// ensureDefaultGroup seeds the initial "Default" group the first time a
// store is opened with no groups present.
func ensureDefaultGroup(ctx context.Context, repo groups.Repository) error {
	n, err := repo.Count(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	g := &models.Group{
		ID:    uuid.NewString(),
		Name:  "Default",
		Color: models.DefaultGroupColor,
	}
	if err := repo.Create(ctx, g); err != nil && !errors.Is(err, common.ErrAlreadyExists) {
		return err
	}
	return nil
}
