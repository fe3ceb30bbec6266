package repomanager

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dmitrijs2005/sportstore/internal/logging"
	"github.com/dmitrijs2005/sportstore/internal/server/migrations"
	"github.com/dmitrijs2005/sportstore/internal/server/repositories/accounts"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// PostgresRepositoryManager serves accounts from PostgreSQL through
// database/sql and the pgx driver.
type PostgresRepositoryManager struct {
	db       *sql.DB
	accounts *accounts.PostgresRepository
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// NewPostgresRepositoryManager opens dsn and waits until it answers a ping.
func NewPostgresRepositoryManager(ctx context.Context, dsn string, timeout time.Duration, logger logging.Logger) (*PostgresRepositoryManager, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	if err := pingWithRetry(ctx, logger, timeout, db.PingContext); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db connect error: %w", err)
	}

	return newPostgresRepositoryManager(db, timeout), nil
}

func newPostgresRepositoryManager(db *sql.DB, timeout time.Duration) *PostgresRepositoryManager {
	return &PostgresRepositoryManager{
		db:       db,
		accounts: accounts.NewPostgresRepository(db, timeout),
	}
}

// RunMigrations applies the embedded goose migrations.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	if err := gooseUpContext(ctx, m.db, "."); err != nil {
		return fmt.Errorf("migration error: %w", err)
	}
	return nil
}

func (m *PostgresRepositoryManager) Ping(ctx context.Context) error {
	return m.db.PingContext(ctx)
}

func (m *PostgresRepositoryManager) Accounts() accounts.Repository {
	return m.accounts
}

func (m *PostgresRepositoryManager) Close(ctx context.Context) error {
	return m.db.Close()
}
