// Package repomanager owns the account store connection: it picks the
// backend from the store URL, connects with retry, prepares the schema and
// hands out repositories.
package repomanager

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/sportstore/internal/logging"
	"github.com/dmitrijs2005/sportstore/internal/server/config"
	"github.com/dmitrijs2005/sportstore/internal/server/repositories/accounts"
	"github.com/sethvargo/go-retry"
)

type RepositoryManager interface {
	// RunMigrations prepares the schema: tables for PostgreSQL, the unique
	// email index for MongoDB.
	RunMigrations(ctx context.Context) error
	Ping(ctx context.Context) error
	Accounts() accounts.Repository
	Close(ctx context.Context) error
}

// Supported store URL schemes.
const (
	SchemeMongo      = "mongodb"
	SchemeMongoSRV   = "mongodb+srv"
	SchemePostgres   = "postgres"
	SchemePostgreSQL = "postgresql"
	SchemeMemory     = "memory"
)

// Connection retry policy. Variables so tests can shorten it.
var (
	connectAttempts uint64 = 5
	connectBackoff         = 500 * time.Millisecond
)

// NewRepositoryManager connects to the store named by cfg.StoreURL.
func NewRepositoryManager(ctx context.Context, cfg *config.Config, logger logging.Logger) (RepositoryManager, error) {
	u, err := url.Parse(cfg.StoreURL)
	if err != nil {
		return nil, fmt.Errorf("invalid store url: %w", err)
	}

	logger = logger.With("module", "repomanager")

	switch strings.ToLower(u.Scheme) {
	case SchemeMongo, SchemeMongoSRV:
		return NewMongoRepositoryManager(ctx, cfg.StoreURL, cfg.DatabaseName, cfg.StoreTimeout, logger)
	case SchemePostgres, SchemePostgreSQL:
		return NewPostgresRepositoryManager(ctx, cfg.StoreURL, cfg.StoreTimeout, logger)
	case SchemeMemory:
		logger.Warn(ctx, "using in-memory account store, data is lost on restart")
		return NewInMemoryRepositoryManager(), nil
	default:
		return nil, fmt.Errorf("unsupported store url scheme %q", u.Scheme)
	}
}

// pingWithRetry calls ping with exponential backoff until it succeeds, the
// attempts run out or ctx is done.
func pingWithRetry(ctx context.Context, logger logging.Logger, timeout time.Duration, ping func(context.Context) error) error {
	b := retry.WithMaxRetries(connectAttempts-1, retry.NewExponential(connectBackoff))

	attempt := 0
	return retry.Do(ctx, b, func(ctx context.Context) error {
		attempt++
		pctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		if err := ping(pctx); err != nil {
			logger.Warn(ctx, "store not reachable", "attempt", attempt, "error", err)
			return retry.RetryableError(err)
		}
		return nil
	})
}
