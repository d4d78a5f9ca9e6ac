package cli

import (
	"bufio"
	"context"
	"database/sql"
	"io"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/vendorconsole/internal/client/client"
	"github.com/dmitrijs2005/vendorconsole/internal/client/config"
	"github.com/dmitrijs2005/vendorconsole/internal/client/login"
	"github.com/dmitrijs2005/vendorconsole/internal/client/session"
	"github.com/dmitrijs2005/vendorconsole/internal/client/services"
	"github.com/dmitrijs2005/vendorconsole/internal/client/verify"
	"github.com/dmitrijs2005/vendorconsole/internal/logging"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

const pingTimeout = 3 * time.Second

// Pinger reports whether the API is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type App struct {
	config   *config.Config
	log      logging.Logger
	db       *sql.DB
	flow     *login.Flow
	sessions *session.Store
	tokens   services.TokenStore
	console  services.ConsoleService
	api      Pinger
	now      func() time.Time

	reader *bufio.Reader
	out    io.Writer

	// view state
	route  string
	search string
	vendor string

	mu   sync.Mutex
	mode Mode
}

// NewApp wires the console from cfg: local database, token store, REST
// client, verification provider, bot-check widget, session store, login
// flow and view services.
func NewApp(cfg *config.Config) (*App, error) {
	ctx := context.Background()

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stderr)
	if err != nil {
		return nil, err
	}

	db, err := client.InitDatabase(ctx, cfg.DBPath)
	if err != nil {
		logger.Error(ctx, "error initializing database", "error", err)
		return nil, err
	}

	tokens := services.NewTokenStore(db)
	api := client.NewHTTPClient(cfg.APIBaseURL, cfg.RequestTimeout, tokens, logger)
	provider := verify.NewIdentityToolkit(cfg.IdentityBaseURL, cfg.IdentityAPIKey,
		&http.Client{Timeout: cfg.RequestTimeout}, logger)
	widget := verify.NewWidget(verify.StaticTokenSource(cfg.BotCheckToken))
	sessions := session.NewStore(session.NewMemoryStorage())

	flow := login.NewFlow(login.Deps{
		Lookup:    api,
		Exchanger: api,
		Tokens:    tokens,
		Sessions:  sessions,
		Provider:  provider,
		BotCheck:  widget,
	}, login.Options{
		CountryCode: cfg.CountryCode,
		NoticeTTL:   cfg.NoticeTTL,
		Logger:      logger,
	})

	return &App{
		config:   cfg,
		log:      logger,
		db:       db,
		flow:     flow,
		sessions: sessions,
		tokens:   tokens,
		console:  services.NewConsoleService(api, logger),
		api:      api,
		now:      time.Now,
		reader:   bufio.NewReader(os.Stdin),
		out:      os.Stdout,
	}, nil
}

func (a *App) Mode() Mode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.mode
}

func (a *App) setMode(ctx context.Context, mode Mode) {
	a.mu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.mu.Unlock()

	if changed {
		a.log.Info(ctx, "connectivity changed", "mode", string(mode))
	}
}

// Run shows the login screen, starts the connectivity watcher and blocks
// in the REPL until the operator exits or ctx is cancelled.
func (a *App) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	defer a.close(ctx)

	a.Root(ctx)
}

func (a *App) close(ctx context.Context) {
	if a.db == nil {
		return
	}
	if err := a.db.Close(); err != nil {
		a.log.Warn(ctx, "error closing database", "error", err)
	}
}

func (a *App) isLoggedIn() bool {
	_, ok := a.sessions.Get()
	return ok
}

// StartOnlineStatusWatcher pings the API every interval and flips the mode
// between online and offline. It returns when ctx is done.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.checkOnline(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (a *App) checkOnline(ctx context.Context) {
	pctx, cancel := context.WithTimeout(ctx, pingTimeout)
	err := a.api.Ping(pctx)
	cancel()

	if err != nil {
		a.log.Debug(ctx, "ping failed", "error", err)
		a.setMode(ctx, ModeOffline)
		return
	}
	a.setMode(ctx, ModeOnline)
}
