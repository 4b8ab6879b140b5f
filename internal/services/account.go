// Package services contains the application-level operations behind the CLI:
// account, group, tag, operation-log and stats management. Services pull the
// session key when they touch sensitive fields, bind repositories to the
// store and keep multi-statement writes inside one transaction.
package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/gmanager/gmanager/internal/common"
	"github.com/gmanager/gmanager/internal/cryptox"
	"github.com/gmanager/gmanager/internal/dbx"
	"github.com/gmanager/gmanager/internal/logging"
	"github.com/gmanager/gmanager/internal/models"
	"github.com/gmanager/gmanager/internal/session"
	"github.com/gmanager/gmanager/internal/storage"
)

// AccountService manages credential records. Sensitive fields cross this
// boundary in plaintext and are stored encrypted; every mutation appends an
// operation-log entry in the same transaction.
type AccountService struct {
	store   storage.Manager
	session *session.Manager
	logger  logging.Logger
}

// NewAccountService constructs an AccountService over the given store.
func NewAccountService(store storage.Manager, sess *session.Manager, logger logging.Logger) *AccountService {
	return &AccountService{store: store, session: sess, logger: logger}
}

// CreateAccountParams carries the plaintext fields for a new account.
// Optional fields left nil or empty are stored as absent.
type CreateAccountParams struct {
	Email         string
	Password      string
	RecoveryEmail *string
	TOTPSecret    *string
	Notes         *string
	Year          *int
	GroupID       *string
}

// UpdateAccountParams describes a partial update. Nil and empty values leave
// the stored field unchanged; a stored value cannot be cleared.
type UpdateAccountParams struct {
	Email         *string
	Password      *string
	RecoveryEmail *string
	TOTPSecret    *string
	Notes         *string
	Year          *int
	GroupID       *string
}

// Create validates and stores a new account and returns it in plaintext.
func (s *AccountService) Create(ctx context.Context, p CreateAccountParams) (*models.Account, error) {
	if p.Email == "" {
		return nil, fmt.Errorf("email is required: %w", common.ErrInvalidInput)
	}
	if p.Password == "" {
		return nil, fmt.Errorf("password is required: %w", common.ErrInvalidInput)
	}

	key, err := s.session.Key()
	if err != nil {
		return nil, err
	}
	defer common.WipeByteArray(key)

	acc := models.Account{
		ID:            uuid.NewString(),
		Email:         p.Email,
		Password:      p.Password,
		RecoveryEmail: emptyToNil(p.RecoveryEmail),
		TOTPSecret:    emptyToNil(p.TOTPSecret),
		Notes:         emptyToNil(p.Notes),
		Year:          p.Year,
		GroupID:       p.GroupID,
	}

	enc, err := cryptox.EncryptAccountFields(acc, key)
	if err != nil {
		return nil, err
	}

	err = dbx.WithTx(ctx, s.store.Conn(), nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.store.Accounts(tx).Create(ctx, &enc); err != nil {
			return err
		}
		return s.store.Oplog(tx).Append(ctx, &models.OperationLog{
			ID:        uuid.NewString(),
			AccountID: &enc.ID,
			Action:    models.ActionCreate,
			Details:   logDetail(fmt.Sprintf("Created account %s", enc.ID)),
		})
	})
	if err != nil {
		return nil, err
	}

	acc.CreatedAt = enc.CreatedAt
	acc.UpdatedAt = enc.UpdatedAt
	s.logger.Debug(ctx, "account created", "id", acc.ID)
	return &acc, nil
}

// Get returns one account with sensitive fields decrypted and tags loaded.
func (s *AccountService) Get(ctx context.Context, id string) (*models.Account, error) {
	key, err := s.session.Key()
	if err != nil {
		return nil, err
	}
	defer common.WipeByteArray(key)

	stored, err := s.store.Accounts(s.store.Conn()).GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	dec, err := cryptox.DecryptAccountFields(*stored, key)
	if err != nil {
		return nil, err
	}
	return &dec, nil
}

// Search returns a page of decrypted accounts. Structural filters (group,
// tag, year) narrow the candidates in SQL; a text query has to match
// decrypted fields, so it is applied here along with the pagination.
func (s *AccountService) Search(ctx context.Context, filter models.AccountFilter) (*models.AccountPage, error) {
	key, err := s.session.Key()
	if err != nil {
		return nil, err
	}
	defer common.WipeByteArray(key)

	repo := s.store.Accounts(s.store.Conn())

	query := strings.TrimSpace(filter.Query)
	if query == "" {
		accs, err := repo.List(ctx, filter)
		if err != nil {
			return nil, err
		}
		total, err := repo.Count(ctx, filter)
		if err != nil {
			return nil, err
		}
		dec, err := cryptox.DecryptAccounts(accs, key)
		if err != nil {
			return nil, err
		}
		return &models.AccountPage{Accounts: dec, Total: total}, nil
	}

	all := filter
	all.Query = ""
	all.Limit = 0
	all.Offset = 0

	accs, err := repo.List(ctx, all)
	if err != nil {
		return nil, err
	}
	dec, err := cryptox.DecryptAccounts(accs, key)
	if err != nil {
		return nil, err
	}

	q := strings.ToLower(query)
	var matched []models.Account
	for _, a := range dec {
		if matchesQuery(a, q) {
			matched = append(matched, a)
		}
	}

	return &models.AccountPage{
		Accounts: paginate(matched, filter.Offset, filter.Limit),
		Total:    len(matched),
	}, nil
}

// Update applies a partial update and returns the updated plaintext account.
func (s *AccountService) Update(ctx context.Context, id string, p UpdateAccountParams) (*models.Account, error) {
	key, err := s.session.Key()
	if err != nil {
		return nil, err
	}
	defer common.WipeByteArray(key)

	stored, err := s.store.Accounts(s.store.Conn()).GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	acc, err := cryptox.DecryptAccountFields(*stored, key)
	if err != nil {
		return nil, err
	}
	applyUpdate(&acc, p)

	enc, err := cryptox.EncryptAccountFields(acc, key)
	if err != nil {
		return nil, err
	}

	err = dbx.WithTx(ctx, s.store.Conn(), nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.store.Accounts(tx).Update(ctx, &enc); err != nil {
			return err
		}
		return s.store.Oplog(tx).Append(ctx, &models.OperationLog{
			ID:        uuid.NewString(),
			AccountID: &enc.ID,
			Action:    models.ActionUpdate,
			Details:   logDetail(fmt.Sprintf("Updated account %s", enc.ID)),
		})
	})
	if err != nil {
		return nil, err
	}

	acc.UpdatedAt = enc.UpdatedAt
	s.logger.Debug(ctx, "account updated", "id", id)
	return &acc, nil
}

// Delete removes an account. The log entry keeps no account reference since
// the row is gone.
func (s *AccountService) Delete(ctx context.Context, id string) error {
	err := dbx.WithTx(ctx, s.store.Conn(), nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.store.Accounts(tx).Delete(ctx, id); err != nil {
			return err
		}
		return s.store.Oplog(tx).Append(ctx, &models.OperationLog{
			ID:      uuid.NewString(),
			Action:  models.ActionDelete,
			Details: logDetail(fmt.Sprintf("Deleted account %s", id)),
		})
	})
	if err != nil {
		return err
	}

	s.logger.Debug(ctx, "account deleted", "id", id)
	return nil
}

// DeleteBatch deletes the given accounts one by one. Failed deletes are
// skipped; the number of deleted accounts is returned.
func (s *AccountService) DeleteBatch(ctx context.Context, ids []string) (int, error) {
	deleted := 0
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return deleted, err
		}
		if err := s.Delete(ctx, id); err != nil {
			s.logger.Warn(ctx, "batch delete skipped account", "id", id, "error", err)
			continue
		}
		deleted++
	}
	return deleted, nil
}

// UpdateBatch applies the same partial update to every given account. Failed
// updates are skipped; the number of updated accounts is returned.
func (s *AccountService) UpdateBatch(ctx context.Context, ids []string, p UpdateAccountParams) (int, error) {
	updated := 0
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return updated, err
		}
		if _, err := s.Update(ctx, id, p); err != nil {
			s.logger.Warn(ctx, "batch update skipped account", "id", id, "error", err)
			continue
		}
		updated++
	}
	return updated, nil
}

func applyUpdate(acc *models.Account, p UpdateAccountParams) {
	if p.Email != nil && *p.Email != "" {
		acc.Email = *p.Email
	}
	if p.Password != nil && *p.Password != "" {
		acc.Password = *p.Password
	}
	if v := emptyToNil(p.RecoveryEmail); v != nil {
		acc.RecoveryEmail = v
	}
	if v := emptyToNil(p.TOTPSecret); v != nil {
		acc.TOTPSecret = v
	}
	if v := emptyToNil(p.Notes); v != nil {
		acc.Notes = v
	}
	if p.Year != nil {
		acc.Year = p.Year
	}
	if v := emptyToNil(p.GroupID); v != nil {
		acc.GroupID = v
	}
}

func matchesQuery(a models.Account, q string) bool {
	if strings.Contains(strings.ToLower(a.Email), q) {
		return true
	}
	if a.RecoveryEmail != nil && strings.Contains(strings.ToLower(*a.RecoveryEmail), q) {
		return true
	}
	if a.Notes != nil && strings.Contains(strings.ToLower(*a.Notes), q) {
		return true
	}
	return false
}

func paginate(accs []models.Account, offset, limit int) []models.Account {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(accs) {
		return nil
	}
	end := len(accs)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return accs[offset:end]
}

func emptyToNil(v *string) *string {
	if v != nil && *v == "" {
		return nil
	}
	return v
}

func logDetail(s string) *string {
	return &s
}
