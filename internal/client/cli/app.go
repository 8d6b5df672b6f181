package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/dmitrijs2005/menuup/internal/client/api"
	"github.com/dmitrijs2005/menuup/internal/client/config"
	"github.com/dmitrijs2005/menuup/internal/client/services"
	"github.com/dmitrijs2005/menuup/internal/client/session"
	"github.com/dmitrijs2005/menuup/internal/client/storage"
	"github.com/dmitrijs2005/menuup/internal/logging"
)

// App is the interactive client. It owns the local database, the session
// store and the background workers that keep navigation in sync with it.
type App struct {
	log       logging.Logger
	auth      services.AuthService
	recipes   services.RecipeService
	store     *session.Store
	validator *session.Validator
	guard     *session.Guard
	boot      *session.Bootstrapper
	db        *sql.DB
	reader    *bufio.Reader

	outMu sync.Mutex
	out   io.Writer

	mu          sync.Mutex
	screen      session.Screen
	unsubscribe func()
}

// NewApp opens the local database and wires storage, the session store,
// the API client, the services and the session workers.
func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	if log == nil {
		log = logging.Discard()
	}

	db, err := storage.InitDatabase(ctx, c.DBPath)
	if err != nil {
		log.Error(ctx, "error initializing database", "path", c.DBPath, "error", err)
		return nil, err
	}

	var repo storage.Repository = storage.NewSQLiteRepository(db)
	if c.StorageSecret != "" {
		sealed, err := storage.NewSealed(ctx, repo, []byte(c.StorageSecret))
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("open sealed storage: %w", err)
		}
		repo = sealed
	}

	apiClient, err := api.NewHTTPClient(c.ServerURL, c.RequestTimeout, api.WithLogger(log))
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	a := &App{
		log:    log,
		db:     db,
		reader: bufio.NewReader(os.Stdin),
		out:    os.Stdout,
	}
	a.store = session.NewStore(session.NewKVPersister(repo), log.With("component", "session"))
	a.auth = services.NewAuthService(apiClient, a.store, log)
	a.recipes = services.NewRecipeService(apiClient, a.store, log)
	a.validator = session.NewValidator(a.store, apiClient, c.ValidateTimeout, log.With("component", "validator"))
	a.guard = session.NewGuard(a.store, a, log.With("component", "guard"))
	a.boot = session.NewBootstrapper(a.store, repo, log.With("component", "bootstrap"))
	return a, nil
}

// Run restores the stored session and serves the REPL on stdin until the
// user exits or stdin closes. Workers and the database are released before
// it returns.
func (a *App) Run(ctx context.Context) error {
	defer a.shutdown(ctx)

	a.start(ctx)

	a.printf("Welcome to MenuUp (type 'help' for commands)\n")
	runREPL(ctx, a, a.status, a.reader)
	return nil
}

// start subscribes the workers before hydration so the restored token is
// validated and the first root is chosen from the hydrated snapshot.
func (a *App) start(ctx context.Context) {
	a.mu.Lock()
	a.unsubscribe = a.store.Subscribe(a.onSessionChange)
	a.mu.Unlock()

	a.guard.Start()
	a.validator.Start()

	if err := a.boot.Hydrate(ctx); err != nil {
		a.log.Debug(ctx, "no session restored", "reason", err)
	}
}

func (a *App) shutdown(ctx context.Context) {
	a.mu.Lock()
	if a.unsubscribe != nil {
		a.unsubscribe()
		a.unsubscribe = nil
	}
	a.mu.Unlock()

	a.guard.Close()
	a.validator.Close()
	if err := a.store.Flush(ctx); err != nil {
		a.log.Warn(ctx, "session flush failed", "error", err)
	}
	a.store.Close()
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.log.Warn(ctx, "closing database", "error", err)
		}
	}
}

// ResetRoot implements session.Navigator. It may be called from a
// background goroutine when the server revokes the token.
func (a *App) ResetRoot(screen session.Screen) {
	a.mu.Lock()
	a.screen = screen
	a.mu.Unlock()

	switch screen {
	case session.ScreenHome:
		a.printf("Signed in as %s. Type 'help' for commands.\n", a.store.Snapshot().User.DisplayName())
	default:
		a.printf("Please sign in: type 'login' or 'register'.\n")
	}
}

func (a *App) onSessionChange(c session.Change) {
	if c.Cause == session.CauseRevoked {
		a.printf("Your session has expired. Please sign in again.\n")
	}
}

func (a *App) currentScreen() session.Screen {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.screen
}

func (a *App) isLoggedIn() bool {
	return a.currentScreen() == session.ScreenHome
}

func (a *App) status() string {
	if a.isLoggedIn() {
		return fmt.Sprintf("(%s)", a.store.Snapshot().User.DisplayName())
	}
	if a.currentScreen() == "" {
		return "(loading)"
	}
	return "(signed out)"
}

func (a *App) printf(format string, args ...any) {
	a.outMu.Lock()
	defer a.outMu.Unlock()
	fmt.Fprintf(a.out, format, args...)
}
