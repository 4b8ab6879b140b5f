package vault

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gmanager/gmanager/internal/common"
	"github.com/gmanager/gmanager/internal/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

const (
	existsQuery = `(?s)^SELECT\s+COUNT\(\*\)\s+FROM\s+vault\s+WHERE\s+id\s*=\s*1\s*$`
	loadQuery   = `(?s)^SELECT\s+salt,\s*verification_hash,\s*created_at,\s*updated_at\s+FROM\s+vault\s+WHERE\s+id\s*=\s*1\s*$`
	saveQuery   = `(?s)^INSERT\s+INTO\s+vault\s*\(id,\s*salt,\s*verification_hash,\s*created_at,\s*updated_at\)\s*VALUES\s*\(1,\s*\$1,\s*\$2,\s*\$3,\s*\$4\)\s*ON\s+CONFLICT\s*\(id\)\s+DO\s+UPDATE\s+SET.*$`
)

func TestPostgresExists(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(existsQuery).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	ok, err := repo.Exists(context.Background())
	if err != nil {
		t.Fatalf("Exists error: %v", err)
	}
	if ok {
		t.Fatal("expected false for empty vault table")
	}

	mock.ExpectQuery(existsQuery).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	ok, err = repo.Exists(context.Background())
	if err != nil {
		t.Fatalf("Exists error: %v", err)
	}
	if !ok {
		t.Fatal("expected true when the row is present")
	}
}

func TestPostgresLoad_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{"salt", "verification_hash", "created_at", "updated_at"}).
		AddRow("a1b2", "vault1:cafe", now, now)
	mock.ExpectQuery(loadQuery).WillReturnRows(rows)

	got, err := repo.Load(context.Background())
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if got.Salt != "a1b2" || got.Verifier != "vault1:cafe" {
		t.Fatalf("unexpected record: %+v", got)
	}
}

func TestPostgresLoad_NotInitialized(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(loadQuery).WillReturnError(sql.ErrNoRows)

	_, err := repo.Load(context.Background())
	if !errors.Is(err, common.ErrNotInitialized) {
		t.Fatalf("want common.ErrNotInitialized, got %v", err)
	}
}

func TestPostgresLoad_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(loadQuery).WillReturnError(errors.New("db down"))

	_, err := repo.Load(context.Background())
	if err == nil || !regexp.MustCompile(`failed to load vault record: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestPostgresSave_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(saveQuery).
		WithArgs("a1b2", "vault1:cafe", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.Save(context.Background(), &models.VaultRecord{Salt: "a1b2", Verifier: "vault1:cafe"})
	if err != nil {
		t.Fatalf("Save error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPostgresSave_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(saveQuery).
		WithArgs("a1b2", "vault1:cafe", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnError(errors.New("db down"))

	err := repo.Save(context.Background(), &models.VaultRecord{Salt: "a1b2", Verifier: "vault1:cafe"})
	if err == nil || !regexp.MustCompile(`failed to save vault record: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}
