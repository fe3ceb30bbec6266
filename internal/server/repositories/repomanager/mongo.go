package repomanager

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/sportstore/internal/logging"
	"github.com/dmitrijs2005/sportstore/internal/server/repositories/accounts"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

// MongoRepositoryManager serves accounts from a MongoDB database.
type MongoRepositoryManager struct {
	client   *mongo.Client
	accounts *accounts.MongoRepository
}

// NewMongoRepositoryManager connects to uri and waits until the primary
// answers a ping. timeout bounds connecting, server selection and each
// operation.
func NewMongoRepositoryManager(ctx context.Context, uri, database string, timeout time.Duration, logger logging.Logger) (*MongoRepositoryManager, error) {
	opts := options.Client().
		ApplyURI(uri).
		SetConnectTimeout(timeout).
		SetServerSelectionTimeout(timeout).
		SetTimeout(timeout)

	client, err := mongo.Connect(opts)
	if err != nil {
		return nil, fmt.Errorf("mongo connect error: %w", err)
	}

	ping := func(ctx context.Context) error {
		return client.Ping(ctx, readpref.Primary())
	}
	if err := pingWithRetry(ctx, logger, timeout, ping); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo connect error: %w", err)
	}

	logger.Info(ctx, "connected to mongodb", "database", database)

	return &MongoRepositoryManager{
		client:   client,
		accounts: accounts.NewMongoRepository(client.Database(database), timeout),
	}, nil
}

// RunMigrations creates the unique email index.
func (m *MongoRepositoryManager) RunMigrations(ctx context.Context) error {
	if err := m.accounts.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("migration error: %w", err)
	}
	return nil
}

func (m *MongoRepositoryManager) Ping(ctx context.Context) error {
	return m.client.Ping(ctx, readpref.Primary())
}

func (m *MongoRepositoryManager) Accounts() accounts.Repository {
	return m.accounts
}

func (m *MongoRepositoryManager) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}
