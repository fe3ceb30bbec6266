// Package accounts stores account records. Implementations only move data;
// business rules live in the service layer.
package accounts

import (
	"context"
	"time"

	"github.com/dmitrijs2005/sportstore/internal/server/models"
)

type Repository interface {
	// FindByEmail returns common.ErrorNotFound when no account has email.
	FindByEmail(ctx context.Context, email string) (*models.Account, error)
	// FindByID returns common.ErrorNotFound when id is unknown or malformed.
	FindByID(ctx context.Context, id string) (*models.Account, error)
	// Insert stores a and returns the id assigned by the store.
	// A taken email yields common.ErrDuplicateEmail.
	Insert(ctx context.Context, a *models.Account) (string, error)
	// UpdateFields applies the values present in patch to the account with
	// id and returns how many records matched.
	UpdateFields(ctx context.Context, id string, patch models.AccountPatch) (int64, error)
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
