package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gmanager/gmanager/internal/common"
	"github.com/gmanager/gmanager/internal/cryptox"
	"github.com/gmanager/gmanager/internal/logging"
	"github.com/gmanager/gmanager/internal/models"
	"github.com/gmanager/gmanager/internal/session"
	"github.com/gmanager/gmanager/internal/storage"
)

// newTestStore opens a fresh in-memory store with the real schema applied.
// The DSN is derived from the test name so stores never leak between tests.
func newTestStore(t *testing.T) storage.Manager {
	t.Helper()

	name := strings.ReplaceAll(t.Name(), "/", "_")
	m, err := storage.NewSQLiteManager(context.Background(),
		fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Close() })
	return m
}

func newUnlockedSession(t *testing.T) *session.Manager {
	t.Helper()

	sess := session.NewManager()
	require.NoError(t, sess.Store(bytes.Repeat([]byte{0x42}, cryptox.KeySize)))
	return sess
}

func discardLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func newAccountService(t *testing.T) (*AccountService, storage.Manager, *session.Manager) {
	t.Helper()

	store := newTestStore(t)
	sess := newUnlockedSession(t)
	return NewAccountService(store, sess, discardLogger()), store, sess
}

func strptr(s string) *string { return &s }
func intptr(i int) *int       { return &i }

func TestAccountCreate(t *testing.T) {
	svc, store, _ := newAccountService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateAccountParams{
		Email:         "alice@example.com",
		Password:      "hunter2",
		RecoveryEmail: strptr("backup@example.com"),
		Notes:         strptr("personal mailbox"),
		Year:          intptr(2023),
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	assert.Equal(t, "alice@example.com", created.Email)
	assert.Equal(t, "hunter2", created.Password)
	assert.False(t, created.CreatedAt.IsZero())

	// The stored row holds only ciphertext.
	raw, err := store.Accounts(store.Conn()).GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, cryptox.IsEncrypted(raw.Email))
	assert.True(t, cryptox.IsEncrypted(raw.Password))
	require.NotNil(t, raw.RecoveryEmail)
	assert.True(t, cryptox.IsEncrypted(*raw.RecoveryEmail))
	require.NotNil(t, raw.Year)
	assert.Equal(t, 2023, *raw.Year)

	// Reading through the service decrypts.
	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", got.Email)
	assert.Equal(t, "hunter2", got.Password)
	require.NotNil(t, got.Notes)
	assert.Equal(t, "personal mailbox", *got.Notes)

	// Creation is audited.
	logs, err := store.Oplog(store.Conn()).List(ctx, nil, 0)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, models.ActionCreate, logs[0].Action)
	require.NotNil(t, logs[0].AccountID)
	assert.Equal(t, created.ID, *logs[0].AccountID)
}

func TestAccountCreate_Validation(t *testing.T) {
	svc, _, _ := newAccountService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateAccountParams{Password: "x"})
	assert.ErrorIs(t, err, common.ErrInvalidInput)

	_, err = svc.Create(ctx, CreateAccountParams{Email: "a@b.c"})
	assert.ErrorIs(t, err, common.ErrInvalidInput)
}

func TestAccountCreate_RequiresSession(t *testing.T) {
	store := newTestStore(t)
	svc := NewAccountService(store, session.NewManager(), discardLogger())

	_, err := svc.Create(context.Background(), CreateAccountParams{Email: "a@b.c", Password: "x"})
	assert.ErrorIs(t, err, common.ErrNotLoggedIn)
}

func TestAccountCreate_EmptyOptionalsStoredAbsent(t *testing.T) {
	svc, store, _ := newAccountService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateAccountParams{
		Email:         "a@b.c",
		Password:      "x",
		RecoveryEmail: strptr(""),
		Notes:         strptr(""),
	})
	require.NoError(t, err)

	raw, err := store.Accounts(store.Conn()).GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Nil(t, raw.RecoveryEmail)
	assert.Nil(t, raw.Notes)
}

func TestAccountGet_NotFound(t *testing.T) {
	svc, _, _ := newAccountService(t)

	_, err := svc.Get(context.Background(), "no-such-id")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestAccountGet_WrongKey(t *testing.T) {
	svc, _, sess := newAccountService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateAccountParams{Email: "a@b.c", Password: "x"})
	require.NoError(t, err)

	// A different key cannot authenticate the stored ciphertext.
	require.NoError(t, sess.Store(bytes.Repeat([]byte{0x17}, cryptox.KeySize)))

	_, err = svc.Get(ctx, created.ID)
	assert.ErrorIs(t, err, cryptox.ErrDecryptionFailed)
}

func TestAccountSearch_TextQuery(t *testing.T) {
	svc, _, _ := newAccountService(t)
	ctx := context.Background()

	for _, p := range []CreateAccountParams{
		{Email: "alice@example.com", Password: "p1"},
		{Email: "bob@work.org", Password: "p2", Notes: strptr("shared example inbox")},
		{Email: "carol@home.net", Password: "p3"},
	} {
		_, err := svc.Create(ctx, p)
		require.NoError(t, err)
	}

	// Matches decrypted email and notes, case-insensitively.
	page, err := svc.Search(ctx, models.AccountFilter{Query: "EXAMPLE"})
	require.NoError(t, err)
	assert.Equal(t, 2, page.Total)
	assert.Len(t, page.Accounts, 2)

	page, err = svc.Search(ctx, models.AccountFilter{Query: "carol"})
	require.NoError(t, err)
	require.Len(t, page.Accounts, 1)
	assert.Equal(t, "carol@home.net", page.Accounts[0].Email)

	page, err = svc.Search(ctx, models.AccountFilter{Query: "nothing-matches-this"})
	require.NoError(t, err)
	assert.Equal(t, 0, page.Total)
	assert.Empty(t, page.Accounts)
}

func TestAccountSearch_QueryPagination(t *testing.T) {
	svc, _, _ := newAccountService(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := svc.Create(ctx, CreateAccountParams{
			Email:    fmt.Sprintf("user%d@example.com", i),
			Password: "p",
		})
		require.NoError(t, err)
	}

	first, err := svc.Search(ctx, models.AccountFilter{Query: "example", Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, first.Total)
	require.Len(t, first.Accounts, 2)

	second, err := svc.Search(ctx, models.AccountFilter{Query: "example", Limit: 2, Offset: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, second.Total)
	require.Len(t, second.Accounts, 1)

	// The two pages cover all matches without overlap.
	seen := map[string]bool{}
	for _, a := range append(first.Accounts, second.Accounts...) {
		assert.False(t, seen[a.ID], "account %s appeared twice", a.ID)
		seen[a.ID] = true
	}
	assert.Len(t, seen, 3)
}

func TestAccountSearch_StructuralFilter(t *testing.T) {
	svc, store, _ := newAccountService(t)
	ctx := context.Background()

	groups := NewGroupService(store, discardLogger())
	g, err := groups.Create(ctx, CreateGroupParams{Name: "Work"})
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		_, err := svc.Create(ctx, CreateAccountParams{
			Email:    fmt.Sprintf("work%d@corp.com", i),
			Password: "p",
			GroupID:  &g.ID,
		})
		require.NoError(t, err)
	}
	_, err = svc.Create(ctx, CreateAccountParams{Email: "free@home.net", Password: "p"})
	require.NoError(t, err)

	page, err := svc.Search(ctx, models.AccountFilter{GroupID: &g.ID})
	require.NoError(t, err)
	assert.Equal(t, 2, page.Total)
	assert.Len(t, page.Accounts, 2)
	for _, a := range page.Accounts {
		require.NotNil(t, a.GroupID)
		assert.Equal(t, g.ID, *a.GroupID)
	}
}

func TestAccountUpdate(t *testing.T) {
	svc, store, _ := newAccountService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateAccountParams{Email: "old@example.com", Password: "old-pass"})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, created.ID, UpdateAccountParams{
		Email: strptr("new@example.com"),
		Notes: strptr("rotated credentials"),
	})
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", updated.Email)
	assert.Equal(t, "old-pass", updated.Password)
	require.NotNil(t, updated.Notes)
	assert.Equal(t, "rotated credentials", *updated.Notes)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", got.Email)

	// Empty strings leave the stored values alone.
	unchanged, err := svc.Update(ctx, created.ID, UpdateAccountParams{
		Email:    strptr(""),
		Password: strptr(""),
	})
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", unchanged.Email)
	assert.Equal(t, "old-pass", unchanged.Password)

	logs, err := store.Oplog(store.Conn()).List(ctx, &created.ID, 0)
	require.NoError(t, err)
	require.Len(t, logs, 3) // create + two updates
	assert.Equal(t, models.ActionUpdate, logs[0].Action)
}

func TestAccountUpdate_NotFound(t *testing.T) {
	svc, _, _ := newAccountService(t)

	_, err := svc.Update(context.Background(), "no-such-id", UpdateAccountParams{Email: strptr("x@y.z")})
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestAccountDelete(t *testing.T) {
	svc, store, _ := newAccountService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateAccountParams{Email: "gone@example.com", Password: "p"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, created.ID))

	_, err = svc.Get(ctx, created.ID)
	assert.ErrorIs(t, err, common.ErrNotFound)

	// The delete entry has no account reference, and the earlier create
	// entry was detached from the removed row.
	logs, err := store.Oplog(store.Conn()).List(ctx, nil, 0)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, models.ActionDelete, logs[0].Action)
	assert.Nil(t, logs[0].AccountID)
	assert.Equal(t, models.ActionCreate, logs[1].Action)
	assert.Nil(t, logs[1].AccountID)
}

func TestAccountDeleteBatch(t *testing.T) {
	svc, _, _ := newAccountService(t)
	ctx := context.Background()

	var ids []string
	for i := 0; i < 2; i++ {
		acc, err := svc.Create(ctx, CreateAccountParams{
			Email:    fmt.Sprintf("u%d@example.com", i),
			Password: "p",
		})
		require.NoError(t, err)
		ids = append(ids, acc.ID)
	}
	ids = append(ids, "no-such-id")

	deleted, err := svc.DeleteBatch(ctx, ids)
	require.NoError(t, err)
	assert.Equal(t, 2, deleted)

	page, err := svc.Search(ctx, models.AccountFilter{})
	require.NoError(t, err)
	assert.Equal(t, 0, page.Total)
}

func TestAccountUpdateBatch(t *testing.T) {
	svc, _, _ := newAccountService(t)
	ctx := context.Background()

	var ids []string
	for i := 0; i < 2; i++ {
		acc, err := svc.Create(ctx, CreateAccountParams{
			Email:    fmt.Sprintf("u%d@example.com", i),
			Password: "p",
		})
		require.NoError(t, err)
		ids = append(ids, acc.ID)
	}
	ids = append(ids, "no-such-id")

	updated, err := svc.UpdateBatch(ctx, ids, UpdateAccountParams{Year: intptr(2024)})
	require.NoError(t, err)
	assert.Equal(t, 2, updated)

	for _, id := range ids[:2] {
		got, err := svc.Get(ctx, id)
		require.NoError(t, err)
		require.NotNil(t, got.Year)
		assert.Equal(t, 2024, *got.Year)
	}
}
