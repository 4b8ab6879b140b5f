// Package auth implements the vault lifecycle: creating the vault, unlocking
// it with the master password, changing the password and ending the session.
// It owns the only code path that turns a password into a session key, and it
// mints the short-lived session tokens frontends use as opaque handles.
package auth

import (
	"context"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/gmanager/gmanager/internal/common"
	"github.com/gmanager/gmanager/internal/cryptox"
	"github.com/gmanager/gmanager/internal/logging"
	"github.com/gmanager/gmanager/internal/models"
	"github.com/gmanager/gmanager/internal/repositories/vault"
	"github.com/gmanager/gmanager/internal/session"
)

// Service implements the vault protocol over a single persisted record of
// key-derivation salt and password verifier. Successful operations install
// the derived key into the session manager; failed ones leave both the
// session and the stored record untouched.
type Service struct {
	vaults      vault.Repository
	session     *session.Manager
	logger      logging.Logger
	tokenSecret []byte
	tokenTTL    time.Duration
}

// NewService constructs the auth service. The token signing secret is
// generated fresh for every process, so session tokens never outlive a
// restart.
func NewService(vaults vault.Repository, sess *session.Manager, logger logging.Logger, tokenTTL time.Duration) (*Service, error) {
	secret, err := common.MakeRandHexString(32)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token secret: %w", err)
	}

	return &Service{
		vaults:      vaults,
		session:     sess,
		logger:      logger,
		tokenSecret: []byte(secret),
		tokenTTL:    tokenTTL,
	}, nil
}

// CheckHasVault reports whether a vault has been created in this store.
func (s *Service) CheckHasVault(ctx context.Context) (bool, error) {
	exists, err := s.vaults.Exists(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to check vault existence: %w", err)
	}
	return exists, nil
}

// CreateVault initializes the vault with the given master password and opens
// a session. It refuses to overwrite an existing vault. The returned key is
// the caller's copy; the session keeps its own.
func (s *Service) CreateVault(ctx context.Context, password string) ([]byte, error) {
	exists, err := s.vaults.Exists(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to check vault existence: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("vault: %w", common.ErrAlreadyExists)
	}

	salt, err := cryptox.GenerateSalt()
	if err != nil {
		return nil, err
	}

	key := cryptox.DeriveKey([]byte(password), salt)

	rec := &models.VaultRecord{
		Salt:     hex.EncodeToString(salt),
		Verifier: cryptox.MakeVerifier(key),
	}
	if err := s.vaults.Save(ctx, rec); err != nil {
		common.WipeByteArray(key)
		return nil, fmt.Errorf("failed to save vault record: %w", err)
	}

	if err := s.session.Store(key); err != nil {
		common.WipeByteArray(key)
		return nil, err
	}

	s.logger.Info(ctx, "vault created")
	return key, nil
}

// UnlockVault verifies the master password against the stored verifier and,
// on success, opens a session and returns the derived key. A wrong password
// yields ErrInvalidPassword and leaves the session untouched.
func (s *Service) UnlockVault(ctx context.Context, password string) ([]byte, error) {
	rec, err := s.vaults.Load(ctx)
	if err != nil {
		return nil, err
	}

	key, err := deriveFromRecord(password, rec)
	if err != nil {
		return nil, err
	}

	if !cryptox.CheckVerifier(key, rec.Verifier) {
		common.WipeByteArray(key)
		return nil, common.ErrInvalidPassword
	}

	if err := s.session.Store(key); err != nil {
		common.WipeByteArray(key)
		return nil, err
	}

	s.logger.Info(ctx, "vault unlocked")
	return key, nil
}

// ChangePassword re-keys the vault. The old password is verified exactly as
// UnlockVault verifies it; nothing is persisted or replaced on failure. On
// success a brand-new salt is generated, the new salt and verifier replace
// the old row, and an active session is switched to the new key.
func (s *Service) ChangePassword(ctx context.Context, oldPassword, newPassword string) error {
	rec, err := s.vaults.Load(ctx)
	if err != nil {
		return err
	}

	oldKey, err := deriveFromRecord(oldPassword, rec)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(oldKey)

	if !cryptox.CheckVerifier(oldKey, rec.Verifier) {
		return common.ErrInvalidPassword
	}

	newSalt, err := cryptox.GenerateSalt()
	if err != nil {
		return err
	}

	newKey := cryptox.DeriveKey([]byte(newPassword), newSalt)
	defer common.WipeByteArray(newKey)

	upd := &models.VaultRecord{
		Salt:     hex.EncodeToString(newSalt),
		Verifier: cryptox.MakeVerifier(newKey),
	}
	if err := s.vaults.Save(ctx, upd); err != nil {
		return fmt.Errorf("failed to save vault record: %w", err)
	}

	if s.session.Active() {
		if err := s.session.Store(newKey); err != nil {
			return err
		}
	}

	s.logger.Info(ctx, "vault password changed")
	return nil
}

// Logout drops the session key. Safe to call when no session is active.
func (s *Service) Logout() {
	s.session.Clear()
}

// IssueSessionToken mints an HS256 session token signed with the per-process
// secret. Callers treat the token as an opaque handle; it is never persisted.
func (s *Service) IssueSessionToken() (string, error) {
	token, err := generateToken(s.tokenSecret, s.tokenTTL)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return token, nil
}

// ValidateSessionToken checks a token issued by this process. It returns
// ErrTokenExpired for expired tokens and ErrInvalidToken for everything
// else that fails verification.
func (s *Service) ValidateSessionToken(tokenString string) error {
	return validateToken(tokenString, s.tokenSecret)
}

// deriveFromRecord decodes the stored salt and derives a candidate key from
// the password. Corrupted salt is reported as ErrInvalidFormat; the vault
// cannot be unlocked without the exact original salt bytes.
func deriveFromRecord(password string, rec *models.VaultRecord) ([]byte, error) {
	salt, err := hex.DecodeString(rec.Salt)
	if err != nil {
		return nil, fmt.Errorf("%w: salt is not valid hex", cryptox.ErrInvalidFormat)
	}
	if len(salt) != cryptox.SaltSize {
		return nil, fmt.Errorf("%w: invalid salt size: expected %d bytes, got %d",
			cryptox.ErrInvalidFormat, cryptox.SaltSize, len(salt))
	}

	return cryptox.DeriveKey([]byte(password), salt), nil
}
