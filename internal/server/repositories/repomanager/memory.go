package repomanager

import (
	"context"

	"github.com/dmitrijs2005/sportstore/internal/server/repositories/accounts"
)

type InMemoryRepositoryManager struct {
	accounts *accounts.InMemoryRepository
}

func NewInMemoryRepositoryManager() *InMemoryRepositoryManager {
	return &InMemoryRepositoryManager{accounts: accounts.NewInMemoryRepository()}
}

func (m *InMemoryRepositoryManager) RunMigrations(ctx context.Context) error { return nil }

func (m *InMemoryRepositoryManager) Ping(ctx context.Context) error { return ctx.Err() }

func (m *InMemoryRepositoryManager) Accounts() accounts.Repository { return m.accounts }

func (m *InMemoryRepositoryManager) Close(ctx context.Context) error { return nil }
