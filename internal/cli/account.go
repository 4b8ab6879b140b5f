package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/atotto/clipboard"

	"github.com/gmanager/gmanager/internal/common"
	"github.com/gmanager/gmanager/internal/models"
	"github.com/gmanager/gmanager/internal/services"
)

// writeClipboard and readClipboard are test seams for clipboard access.
var writeClipboard = clipboard.WriteAll
var readClipboard = clipboard.ReadAll

// AddAccount interactively collects account fields and stores a new account.
// Optional fields may be left blank. Notes accept multiple lines.
func (a *App) AddAccount(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}
	password, err := getSimpleText(a.reader, "Enter password", os.Stdout)
	if err != nil {
		return err
	}
	recovery, err := getSimpleText(a.reader, "Enter recovery email (optional)", os.Stdout)
	if err != nil {
		return err
	}
	totp, err := getSimpleText(a.reader, "Enter TOTP secret (optional)", os.Stdout)
	if err != nil {
		return err
	}
	yearText, err := getSimpleText(a.reader, "Enter year (optional)", os.Stdout)
	if err != nil {
		return err
	}
	groupID, err := getSimpleText(a.reader, "Enter group id (optional)", os.Stdout)
	if err != nil {
		return err
	}
	notes, err := GetMultiline(a.reader, "Enter notes (optional):", os.Stdout)
	if err != nil {
		return err
	}

	p := services.CreateAccountParams{Email: email, Password: password}
	if recovery != "" {
		p.RecoveryEmail = &recovery
	}
	if totp != "" {
		p.TOTPSecret = &totp
	}
	if notes != "" {
		p.Notes = &notes
	}
	if groupID != "" {
		p.GroupID = &groupID
	}
	if yearText != "" {
		year, err := strconv.Atoi(yearText)
		if err != nil {
			printlnFn("Invalid year:", yearText)
			return err
		}
		p.Year = &year
	}

	account, err := a.accountService.Create(ctx, p)
	if err != nil {
		reportError(err)
		return err
	}

	printlnFn("Created account", account.ID)
	return nil
}

// ListAccounts prints a one-line summary for every stored account.
func (a *App) ListAccounts(ctx context.Context) error {
	page, err := a.accountService.Search(ctx, models.AccountFilter{})
	if err != nil {
		reportError(err)
		return err
	}
	for _, acc := range page.Accounts {
		printlnFn(renderAccountLine(&acc))
	}
	printlnFn(fmt.Sprintf("%d account(s)", page.Total))
	return nil
}

// ShowAccount fetches an account by ID and displays every decrypted field
// along with the tags attached to it.
func (a *App) ShowAccount(ctx context.Context, args []string) error {
	if len(args) != 1 {
		printlnFn("Usage: show <id>")
		return nil
	}

	account, err := a.accountService.Get(ctx, args[0])
	if err != nil {
		reportError(err)
		return err
	}

	printlnFn("ID:      ", account.ID)
	printlnFn("Email:   ", account.Email)
	printlnFn("Password:", account.Password)
	if account.RecoveryEmail != nil {
		printlnFn("Recovery:", *account.RecoveryEmail)
	}
	if account.TOTPSecret != nil {
		printlnFn("TOTP:    ", *account.TOTPSecret)
	}
	if account.Year != nil {
		printlnFn("Year:    ", *account.Year)
	}
	if account.GroupID != nil {
		printlnFn("Group:   ", *account.GroupID)
	}
	if account.Notes != nil {
		printlnFn("Notes:   ", *account.Notes)
	}
	if len(account.Tags) > 0 {
		names := make([]string, 0, len(account.Tags))
		for _, t := range account.Tags {
			names = append(names, t.Name)
		}
		printlnFn("Tags:    ", strings.Join(names, ", "))
	}
	return nil
}

// SearchAccounts matches the query text against decrypted emails, recovery
// emails and notes and prints the matching accounts.
func (a *App) SearchAccounts(ctx context.Context, args []string) error {
	if len(args) == 0 {
		printlnFn("Usage: search <text>")
		return nil
	}

	query := strings.Join(args, " ")
	page, err := a.accountService.Search(ctx, models.AccountFilter{Query: query})
	if err != nil {
		reportError(err)
		return err
	}
	for _, acc := range page.Accounts {
		printlnFn(renderAccountLine(&acc))
	}
	printlnFn(fmt.Sprintf("%d account(s) matched", page.Total))
	return nil
}

// EditAccount interactively updates an account. A blank answer keeps the
// current value of the field.
func (a *App) EditAccount(ctx context.Context, args []string) error {
	if len(args) != 1 {
		printlnFn("Usage: edit <id>")
		return nil
	}

	account, err := a.accountService.Get(ctx, args[0])
	if err != nil {
		reportError(err)
		return err
	}

	printlnFn("Press Enter to keep the current value.")

	email, err := getSimpleText(a.reader, fmt.Sprintf("Email [%s]", account.Email), os.Stdout)
	if err != nil {
		return err
	}
	password, err := getSimpleText(a.reader, "Password [unchanged]", os.Stdout)
	if err != nil {
		return err
	}
	recovery, err := getSimpleText(a.reader, fmt.Sprintf("Recovery email [%s]", strOrDash(account.RecoveryEmail)), os.Stdout)
	if err != nil {
		return err
	}
	totp, err := getSimpleText(a.reader, fmt.Sprintf("TOTP secret [%s]", strOrDash(account.TOTPSecret)), os.Stdout)
	if err != nil {
		return err
	}
	yearText, err := getSimpleText(a.reader, fmt.Sprintf("Year [%s]", intOrDash(account.Year)), os.Stdout)
	if err != nil {
		return err
	}
	groupID, err := getSimpleText(a.reader, fmt.Sprintf("Group id [%s]", strOrDash(account.GroupID)), os.Stdout)
	if err != nil {
		return err
	}
	notes, err := getSimpleText(a.reader, fmt.Sprintf("Notes [%s]", strOrDash(account.Notes)), os.Stdout)
	if err != nil {
		return err
	}

	p := services.UpdateAccountParams{}
	if email != "" {
		p.Email = &email
	}
	if password != "" {
		p.Password = &password
	}
	if recovery != "" {
		p.RecoveryEmail = &recovery
	}
	if totp != "" {
		p.TOTPSecret = &totp
	}
	if notes != "" {
		p.Notes = &notes
	}
	if groupID != "" {
		p.GroupID = &groupID
	}
	if yearText != "" {
		year, err := strconv.Atoi(yearText)
		if err != nil {
			printlnFn("Invalid year:", yearText)
			return err
		}
		p.Year = &year
	}

	if _, err := a.accountService.Update(ctx, account.ID, p); err != nil {
		reportError(err)
		return err
	}

	printlnFn("Updated account", account.ID)
	return nil
}

// RemoveAccounts deletes the listed accounts after a confirmation prompt.
// Unknown IDs are skipped; the reported count covers actual deletions.
func (a *App) RemoveAccounts(ctx context.Context, args []string) error {
	if len(args) == 0 {
		printlnFn("Usage: rm <id>...")
		return nil
	}

	answer, err := getSimpleText(a.reader, fmt.Sprintf("Delete %d account(s)? (y/N)", len(args)), os.Stdout)
	if err != nil {
		return err
	}
	if !strings.EqualFold(answer, "y") {
		printlnFn("Aborted.")
		return nil
	}

	n, err := a.accountService.DeleteBatch(ctx, args)
	if err != nil {
		reportError(err)
		return err
	}

	printlnFn(fmt.Sprintf("Deleted %d account(s)", n))
	return nil
}

// MoveAccounts assigns the listed accounts to the given group.
func (a *App) MoveAccounts(ctx context.Context, args []string) error {
	if len(args) < 2 {
		printlnFn("Usage: move <group-id> <id>...")
		return nil
	}

	groupID := args[0]
	n, err := a.accountService.UpdateBatch(ctx, args[1:], services.UpdateAccountParams{GroupID: &groupID})
	if err != nil {
		reportError(err)
		return err
	}

	printlnFn(fmt.Sprintf("Moved %d account(s)", n))
	return nil
}

// CopyPassword puts an account password on the system clipboard and schedules
// it to be cleared after the configured delay. The clipboard is only cleared
// if it still holds the copied value, so anything the user copied in the
// meantime survives.
func (a *App) CopyPassword(ctx context.Context, args []string) error {
	if len(args) != 1 {
		printlnFn("Usage: copy <id>")
		return nil
	}

	account, err := a.accountService.Get(ctx, args[0])
	if err != nil {
		reportError(err)
		return err
	}

	if err := writeClipboard(account.Password); err != nil {
		printlnFn("Error:", err.Error())
		return err
	}

	delay := a.config.ClipboardClearDelay
	if delay <= 0 {
		printlnFn("Password copied to clipboard.")
		return nil
	}

	secret := account.Password
	time.AfterFunc(delay, func() {
		if current, err := readClipboard(); err == nil && current == secret {
			_ = writeClipboard("")
		}
	})

	printlnFn(fmt.Sprintf("Password copied to clipboard, clearing in %s", delay))
	return nil
}

// reportError prints a friendly message for well-known service errors and
// falls back to the raw error text otherwise.
func reportError(err error) {
	switch {
	case errors.Is(err, common.ErrNotLoggedIn):
		printlnFn("Vault is locked. Use 'unlock'.")
	case errors.Is(err, common.ErrNotFound):
		printlnFn("Not found.")
	default:
		printlnFn("Error:", err.Error())
	}
}

// renderAccountLine is the one-line list representation of an account.
func renderAccountLine(acc *models.Account) string {
	line := fmt.Sprintf("%s  %s", acc.ID, acc.Email)
	if acc.Year != nil {
		line += fmt.Sprintf("  (%d)", *acc.Year)
	}
	return line
}

func strOrDash(s *string) string {
	if s == nil || *s == "" {
		return "-"
	}
	return *s
}

func intOrDash(n *int) string {
	if n == nil {
		return "-"
	}
	return strconv.Itoa(*n)
}
