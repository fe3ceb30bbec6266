package accounts

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/sportstore/internal/common"
	"github.com/dmitrijs2005/sportstore/internal/server/models"
	"github.com/google/uuid"
)

// InMemoryRepository keeps accounts in process memory. The email index
// plays the part of the store's unique constraint.
type InMemoryRepository struct {
	mu      sync.RWMutex
	byID    map[string]models.Account
	byEmail map[string]string
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		byID:    make(map[string]models.Account),
		byEmail: make(map[string]string),
	}
}

func (r *InMemoryRepository) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[email]
	if !ok {
		return nil, common.ErrorNotFound
	}
	a := r.byID[id]
	return &a, nil
}

func (r *InMemoryRepository) FindByID(ctx context.Context, id string) (*models.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &a, nil
}

func (r *InMemoryRepository) Insert(ctx context.Context, a *models.Account) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.byEmail[a.Email]; taken {
		return "", common.ErrDuplicateEmail
	}

	stored := *a
	stored.ID = uuid.NewString()
	r.byID[stored.ID] = stored
	r.byEmail[stored.Email] = stored.ID

	return stored.ID, nil
}

func (r *InMemoryRepository) UpdateFields(ctx context.Context, id string, patch models.AccountPatch) (int64, error) {
	if !patch.HasChanges() {
		return 0, common.ErrNothingToUpdate
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.byID[id]
	if !ok {
		return 0, nil
	}
	if dob, ok := patch.DateOfBirth.Get(); ok {
		a.DateOfBirth = dob
	}
	if gender, ok := patch.Gender.Get(); ok {
		a.Gender = gender
	}
	r.byID[id] = a

	return 1, nil
}
