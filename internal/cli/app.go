package cli

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/gmanager/gmanager/internal/auth"
	"github.com/gmanager/gmanager/internal/config"
	"github.com/gmanager/gmanager/internal/logging"
	"github.com/gmanager/gmanager/internal/models"
	"github.com/gmanager/gmanager/internal/services"
	"github.com/gmanager/gmanager/internal/session"
	"github.com/gmanager/gmanager/internal/storage"
)

// The interfaces below describe the slices of the service layer the CLI
// actually uses. The concrete services satisfy them; tests substitute fakes.

type authService interface {
	CheckHasVault(ctx context.Context) (bool, error)
	CreateVault(ctx context.Context, password string) ([]byte, error)
	UnlockVault(ctx context.Context, password string) ([]byte, error)
	ChangePassword(ctx context.Context, oldPassword, newPassword string) error
	Logout()
	IssueSessionToken() (string, error)
	ValidateSessionToken(tokenString string) error
}

type accountService interface {
	Create(ctx context.Context, p services.CreateAccountParams) (*models.Account, error)
	Get(ctx context.Context, id string) (*models.Account, error)
	Search(ctx context.Context, filter models.AccountFilter) (*models.AccountPage, error)
	Update(ctx context.Context, id string, p services.UpdateAccountParams) (*models.Account, error)
	DeleteBatch(ctx context.Context, ids []string) (int, error)
	UpdateBatch(ctx context.Context, ids []string, p services.UpdateAccountParams) (int, error)
}

type groupService interface {
	Create(ctx context.Context, p services.CreateGroupParams) (*models.Group, error)
	ListWithCounts(ctx context.Context) ([]models.GroupWithCount, error)
	Delete(ctx context.Context, id string) error
}

type tagService interface {
	Create(ctx context.Context, p services.CreateTagParams) (*models.Tag, error)
	ListWithCounts(ctx context.Context) ([]models.TagWithCount, error)
	Delete(ctx context.Context, id string) error
	Attach(ctx context.Context, accountID, tagID string) error
	Detach(ctx context.Context, accountID, tagID string) error
}

type oplogService interface {
	List(ctx context.Context, accountID *string, limit int) ([]models.OperationLog, error)
	Purge(ctx context.Context, olderThanDays int) (int, error)
}

type statsService interface {
	Collect(ctx context.Context) (*models.Stats, error)
}

// App is the interactive GManager client. It owns the storage backend, the
// in-memory session and the service layer, and drives the REPL.
type App struct {
	config  *config.Config
	logger  logging.Logger
	store   storage.Manager
	session *session.Manager

	authService    authService
	accountService accountService
	groupService   groupService
	tagService     tagService
	oplogService   oplogService
	statsService   statsService

	// sessionToken is the most recently issued unlock token, kept so
	// 'status' can report whether it is still valid.
	sessionToken string
	reader       *bufio.Reader
}

// NewApp wires configuration, storage, the session and the services into a
// ready-to-run App. The storage backend is opened (and migrated) here.
func NewApp(cfg *config.Config) (*App, error) {

	ctx := context.Background()

	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logging.ParseLevel(cfg.LogLevel),
	})))

	store, err := storage.NewManager(ctx, cfg.DatabaseDriver, cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}

	sess := session.NewManager()

	authSvc, err := auth.NewService(store.Vault(store.Conn()), sess, logger, cfg.SessionTokenTTL)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	return &App{
		config:         cfg,
		logger:         logger,
		store:          store,
		session:        sess,
		authService:    authSvc,
		accountService: services.NewAccountService(store, sess, logger),
		groupService:   services.NewGroupService(store, logger),
		tagService:     services.NewTagService(store, logger),
		oplogService:   services.NewOplogService(store, logger),
		statsService:   services.NewStatsService(store),
		reader:         bufio.NewReader(os.Stdin),
	}, nil
}

// Run starts the REPL and blocks until the user exits or stdin is closed.
func (a *App) Run(ctx context.Context) {
	defer a.Close()
	printlnFn("Welcome to GManager CLI (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.getStatus, scanner)
}

// Close wipes the session key and releases the storage backend.
func (a *App) Close() {
	a.session.Clear()
	a.sessionToken = ""
	if err := a.store.Close(); err != nil {
		a.logger.Error(context.Background(), "failed to close storage", "error", err)
	}
}

func (a *App) isUnlocked() bool {
	return a.session.Active()
}

func (a *App) getStatus() string {
	if a.isUnlocked() {
		return "(unlocked)"
	}
	return "(locked)"
}
