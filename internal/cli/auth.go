package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"time"

	"github.com/gmanager/gmanager/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// minPasswordLen is the minimum master password length accepted when a vault
// is created or re-keyed. Unlocking is never length-checked.
const minPasswordLen = 8

// Setup creates a new vault protected by a master password the user chooses.
//
// If a vault already exists the user is pointed at 'unlock' instead. The
// password is prompted twice to catch typos, the derived key is wiped
// immediately (the session keeps its own copy) and a session token is issued
// so the fresh vault starts out unlocked.
func (a *App) Setup(ctx context.Context) error {
	exists, err := a.authService.CheckHasVault(ctx)
	if err != nil {
		return err
	}
	if exists {
		printlnFn("Vault already exists. Use 'unlock'.")
		return nil
	}

	password, err := getPassword("Choose a master password: ", os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if len(password) < minPasswordLen {
		printlnFn("Password must be at least 8 characters.")
		return nil
	}

	confirm, err := getPassword("Repeat the master password: ", os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(confirm)

	if !bytes.Equal(password, confirm) {
		printlnFn("Passwords do not match.")
		return nil
	}

	key, err := a.authService.CreateVault(ctx, string(password))
	if err != nil {
		printlnFn("Error:", err.Error())
		return err
	}
	common.WipeByteArray(key)

	token, err := a.authService.IssueSessionToken()
	if err != nil {
		return err
	}
	a.sessionToken = token

	printlnFn("Vault created and unlocked.")
	return nil
}

// Unlock prompts for the master password and opens the vault session.
func (a *App) Unlock(ctx context.Context) error {
	password, err := getPassword("Master password: ", os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	key, err := a.authService.UnlockVault(ctx, string(password))
	if err != nil {
		switch {
		case errors.Is(err, common.ErrNotInitialized):
			printlnFn("No vault found. Run 'setup' first.")
		case errors.Is(err, common.ErrInvalidPassword):
			printlnFn("Invalid password.")
		default:
			printlnFn("Error:", err.Error())
		}
		return err
	}
	common.WipeByteArray(key)

	token, err := a.authService.IssueSessionToken()
	if err != nil {
		return err
	}
	a.sessionToken = token

	printlnFn("Vault unlocked.")
	return nil
}

// Lock wipes the in-memory session key and discards the session token.
// The vault on disk is untouched.
func (a *App) Lock(ctx context.Context) error {
	a.authService.Logout()
	a.sessionToken = ""
	printlnFn("Vault locked.")
	return nil
}

// ChangePassword replaces the vault salt and verifier with ones derived from
// a new master password. The old password is verified by the auth service
// before anything is persisted; the new one is prompted twice.
func (a *App) ChangePassword(ctx context.Context) error {
	oldPassword, err := getPassword("Current master password: ", os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(oldPassword)

	newPassword, err := getPassword("New master password: ", os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(newPassword)

	if len(newPassword) < minPasswordLen {
		printlnFn("Password must be at least 8 characters.")
		return nil
	}

	confirm, err := getPassword("Repeat the new master password: ", os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(confirm)

	if !bytes.Equal(newPassword, confirm) {
		printlnFn("Passwords do not match.")
		return nil
	}

	if err := a.authService.ChangePassword(ctx, string(oldPassword), string(newPassword)); err != nil {
		switch {
		case errors.Is(err, common.ErrInvalidPassword):
			printlnFn("Invalid password.")
		case errors.Is(err, common.ErrNotInitialized):
			printlnFn("No vault found. Run 'setup' first.")
		default:
			printlnFn("Error:", err.Error())
		}
		return err
	}

	printlnFn("Master password changed.")
	return nil
}

// Status reports the storage backend, whether a vault exists, and the state
// of the current session and its token.
func (a *App) Status(ctx context.Context) error {
	printlnFn("Backend:", a.config.DatabaseDriver)

	exists, err := a.authService.CheckHasVault(ctx)
	if err != nil {
		return err
	}
	if exists {
		printlnFn("Vault: present")
	} else {
		printlnFn("Vault: not initialized")
	}

	if !a.isUnlocked() {
		printlnFn("Session: locked")
		return nil
	}

	createdAt, err := a.session.CreatedAt()
	if err != nil {
		return err
	}
	printlnFn("Session: unlocked since", createdAt.UTC().Format(time.RFC3339))

	if a.sessionToken != "" {
		switch err := a.authService.ValidateSessionToken(a.sessionToken); {
		case err == nil:
			printlnFn("Token: valid")
		case errors.Is(err, common.ErrTokenExpired):
			printlnFn("Token: expired (lock and unlock to renew)")
		default:
			printlnFn("Token: invalid")
		}
	}
	return nil
}
