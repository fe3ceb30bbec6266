// Package server wires the sportstore account server together: config,
// logging, the account store, credential hashing, token issuing and the
// HTTP API. It also handles graceful shutdown on OS signals.
package server

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dmitrijs2005/sportstore/internal/logging"
	"github.com/dmitrijs2005/sportstore/internal/server/auth"
	"github.com/dmitrijs2005/sportstore/internal/server/config"
	"github.com/dmitrijs2005/sportstore/internal/server/httpapi"
	"github.com/dmitrijs2005/sportstore/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/sportstore/internal/server/services"
)

const closeTimeout = 5 * time.Second

type App struct {
	config *config.Config
	logger logging.Logger
	store  repomanager.RepositoryManager
	server *httpapi.HTTPServer
}

// NewApp validates c, connects to the account store, prepares its schema and
// builds the HTTP server. Logs go to stdout.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	return newApp(ctx, c, os.Stdout)
}

func newApp(ctx context.Context, c *config.Config, logOutput io.Writer) (*App, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}

	logger := logging.New(c.LogFormat, c.LogLevel, logOutput)
	if c.UsesDefaultSecret() {
		logger.Warn(ctx, "using the built-in development secret key, set SECRET_KEY before deploying")
	}

	hasher, err := auth.NewHasher(c.PasswordHashAlgorithm, c.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hasher init error: %w", err)
	}

	issuer, err := auth.NewTokenIssuer([]byte(c.SecretKey), c.SigningAlgorithm, c.AccessTokenValidityDuration, logger)
	if err != nil {
		return nil, fmt.Errorf("token issuer init error: %w", err)
	}

	store, err := repomanager.NewRepositoryManager(ctx, c, logger)
	if err != nil {
		return nil, fmt.Errorf("store init error: %w", err)
	}

	if err := store.RunMigrations(ctx); err != nil {
		closeStore(logger, store)
		return nil, err
	}

	accounts := services.NewAccountService(store.Accounts(), hasher, issuer, logger)
	srv := httpapi.NewHTTPServer(c.EndpointAddrHTTP, logger, accounts, issuer, store, httpapi.Options{
		CORSAllowedOrigins: c.CORSAllowedOrigins,
	})

	return &App{config: c, logger: logger, store: store, server: srv}, nil
}

func (app *App) initSignalHandler(ctx context.Context, cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		defer signal.Stop(sigs)
		select {
		case s := <-sigs:
			app.logger.Info(ctx, "Received signal", "signal", s.String())
			cancelFunc()
		case <-ctx.Done():
		}
	}()
}

// Run serves HTTP until ctx is cancelled or a termination signal arrives,
// then closes the account store.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "address", app.config.EndpointAddrHTTP)

	app.initSignalHandler(ctx, cancelFunc)

	err := app.server.Run(ctx)
	if err != nil {
		app.logger.Error(ctx, "HTTP server error", "error", err)
	}

	closeStore(app.logger, app.store)
	app.logger.Info(context.Background(), "App stopped")

	return err
}

func closeStore(logger logging.Logger, store repomanager.RepositoryManager) {
	ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
	defer cancel()
	if err := store.Close(ctx); err != nil {
		logger.Error(ctx, "store close error", "error", err)
	}
}
