// Package services contains server-side business logic. This file implements
// AccountService, which handles registration, login and profile updates.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dmitrijs2005/sportstore/internal/common"
	"github.com/dmitrijs2005/sportstore/internal/logging"
	"github.com/dmitrijs2005/sportstore/internal/server/auth"
	"github.com/dmitrijs2005/sportstore/internal/server/models"
	"github.com/dmitrijs2005/sportstore/internal/server/repositories/accounts"
)

const (
	MinFullNameLength = 2
	MaxFullNameLength = 100

	TokenTypeBearer = "bearer"
)

// TokenIssuer mints access tokens for authenticated accounts.
type TokenIssuer interface {
	Issue(claims auth.Claims, ttl time.Duration) (string, error)
}

// RegisterInput carries the fields of a new account.
type RegisterInput struct {
	FullName    string
	Email       string
	DateOfBirth time.Time
	Gender      models.Gender
	Password    string
}

// LoginResult is returned by a successful login.
type LoginResult struct {
	AccessToken string
	TokenType   string
	Account     *models.PublicAccount
}

// AccountService provides account operations:
// - Register: create accounts with unique emails
// - Login: verify credentials and mint an access token
// - UpdateProfile: change date of birth and gender of the caller
// - GetAccount: read the caller's public view
type AccountService struct {
	repo   accounts.Repository
	hasher auth.Hasher
	tokens TokenIssuer
	logger logging.Logger
	now    func() time.Time
}

func NewAccountService(repo accounts.Repository, hasher auth.Hasher, tokens TokenIssuer, logger logging.Logger) *AccountService {
	if logger == nil {
		logger = logging.Nop()
	}
	return &AccountService{
		repo:   repo,
		hasher: hasher,
		tokens: tokens,
		logger: logger.With("module", "accounts"),
		now:    time.Now,
	}
}

// Register creates an account. An email that is already taken, whether seen
// by the lookup or by the store's unique constraint, yields
// common.ErrDuplicateEmail.
func (s *AccountService) Register(ctx context.Context, in RegisterInput) (*models.PublicAccount, error) {
	_, err := s.repo.FindByEmail(ctx, in.Email)
	switch {
	case err == nil:
		return nil, common.ErrDuplicateEmail
	case !errors.Is(err, common.ErrorNotFound):
		return nil, s.internal(ctx, "find account by email", err)
	}

	fullName := strings.TrimSpace(in.FullName)
	if err := validateRegistration(fullName, in); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		if errors.Is(err, common.ErrValidation) {
			return nil, err
		}
		return nil, s.internal(ctx, "hash password", err)
	}

	account := &models.Account{
		Email:        in.Email,
		FullName:     fullName,
		DateOfBirth:  in.DateOfBirth.UTC(),
		Gender:       in.Gender,
		PasswordHash: hash,
		IsAdmin:      false,
		CreatedAt:    s.now().UTC().Truncate(time.Millisecond),
	}

	id, err := s.repo.Insert(ctx, account)
	if err != nil {
		if errors.Is(err, common.ErrDuplicateEmail) {
			return nil, common.ErrDuplicateEmail
		}
		return nil, s.internal(ctx, "insert account", err)
	}
	account.ID = id

	s.logger.Info(ctx, "account registered", "account_id", id)

	return account.Public(), nil
}

func validateRegistration(fullName string, in RegisterInput) error {
	if n := utf8.RuneCountInString(fullName); n < MinFullNameLength || n > MaxFullNameLength {
		return common.Validationf("full_name must be between %d and %d characters", MinFullNameLength, MaxFullNameLength)
	}
	if strings.TrimSpace(in.Email) == "" {
		return common.Validationf("email is required")
	}
	if in.DateOfBirth.IsZero() {
		return common.Validationf("date_of_birth is required")
	}
	if !in.Gender.Valid() {
		return common.Validationf("gender must be one of male, female, other")
	}
	if utf8.RuneCountInString(in.Password) < auth.MinPasswordLength {
		return common.Validationf("password must be at least %d characters", auth.MinPasswordLength)
	}
	return nil
}

// Login checks email and password. An unknown email and a wrong password
// both yield common.ErrInvalidCredentials, and both run one hash verification.
func (s *AccountService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	account, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.hasher.Verify(password, s.hasher.DummyHash())
			return nil, common.ErrInvalidCredentials
		}
		return nil, s.internal(ctx, "find account by email", err)
	}

	if !s.hasher.Verify(password, account.PasswordHash) {
		return nil, common.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(auth.NewClaims(account.ID, account.Email), 0)
	if err != nil {
		return nil, s.internal(ctx, "issue token", err)
	}

	return &LoginResult{
		AccessToken: token,
		TokenType:   TokenTypeBearer,
		Account:     account.Public(),
	}, nil
}

// UpdateProfile applies patch to the account identified by accountID, which
// must come from a verified token subject.
func (s *AccountService) UpdateProfile(ctx context.Context, accountID string, patch models.AccountPatch) (*models.PublicAccount, error) {
	if err := validatePatch(patch); err != nil {
		return nil, err
	}
	if accountID == "" {
		return nil, common.ErrorNotFound
	}
	if dob, ok := patch.DateOfBirth.Get(); ok {
		patch.DateOfBirth = models.Some(dob.UTC())
	}

	matched, err := s.repo.UpdateFields(ctx, accountID, patch)
	if err != nil {
		return nil, s.internal(ctx, "update account", err)
	}
	if matched == 0 {
		return nil, common.ErrorNotFound
	}

	s.logger.Info(ctx, "profile updated", "account_id", accountID)

	return s.GetAccount(ctx, accountID)
}

func validatePatch(patch models.AccountPatch) error {
	if patch.DateOfBirth.IsNull() {
		return common.Validationf("date_of_birth cannot be null")
	}
	if patch.Gender.IsNull() {
		return common.Validationf("gender cannot be null")
	}
	if !patch.HasChanges() {
		return common.ErrNothingToUpdate
	}
	if dob, ok := patch.DateOfBirth.Get(); ok && dob.IsZero() {
		return common.Validationf("date_of_birth is required")
	}
	if gender, ok := patch.Gender.Get(); ok && !gender.Valid() {
		return common.Validationf("gender must be one of male, female, other")
	}
	return nil
}

// GetAccount returns the public view of the account with accountID.
func (s *AccountService) GetAccount(ctx context.Context, accountID string) (*models.PublicAccount, error) {
	account, err := s.repo.FindByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, s.internal(ctx, "find account by id", err)
	}
	return account.Public(), nil
}

func (s *AccountService) internal(ctx context.Context, op string, err error) error {
	s.logger.Error(ctx, "account operation failed", "op", op, "error", err)
	return fmt.Errorf("%w: %s: %w", common.ErrorInternal, op, err)
}
