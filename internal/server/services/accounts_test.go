package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/sportstore/internal/common"
	"github.com/dmitrijs2005/sportstore/internal/logging"
	"github.com/dmitrijs2005/sportstore/internal/server/auth"
	"github.com/dmitrijs2005/sportstore/internal/server/models"
	"github.com/dmitrijs2005/sportstore/internal/server/repositories/accounts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- fakes ---

// fakeRepo wraps the in-memory repository and lets tests inject failures.
type fakeRepo struct {
	*accounts.InMemoryRepository

	findByEmailErr error
	findByIDErr    error
	insertErr      error
	updateErr      error
	updateMatched  *int64
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{InMemoryRepository: accounts.NewInMemoryRepository()}
}

func (f *fakeRepo) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	if f.findByEmailErr != nil {
		return nil, f.findByEmailErr
	}
	return f.InMemoryRepository.FindByEmail(ctx, email)
}

func (f *fakeRepo) FindByID(ctx context.Context, id string) (*models.Account, error) {
	if f.findByIDErr != nil {
		return nil, f.findByIDErr
	}
	return f.InMemoryRepository.FindByID(ctx, id)
}

func (f *fakeRepo) Insert(ctx context.Context, a *models.Account) (string, error) {
	if f.insertErr != nil {
		return "", f.insertErr
	}
	return f.InMemoryRepository.Insert(ctx, a)
}

func (f *fakeRepo) UpdateFields(ctx context.Context, id string, p models.AccountPatch) (int64, error) {
	if f.updateErr != nil {
		return 0, f.updateErr
	}
	if f.updateMatched != nil {
		return *f.updateMatched, nil
	}
	return f.InMemoryRepository.UpdateFields(ctx, id, p)
}

// countingHasher records which hashes Verify was asked about.
type countingHasher struct {
	auth.Hasher
	verified []string
}

func (h *countingHasher) Verify(password, hash string) bool {
	h.verified = append(h.verified, hash)
	return h.Hasher.Verify(password, hash)
}

type failingIssuer struct{}

func (failingIssuer) Issue(auth.Claims, time.Duration) (string, error) {
	return "", errors.New("signer broken")
}

// --- helpers ---

type fixture struct {
	svc    *AccountService
	repo   *fakeRepo
	hasher *countingHasher
	tokens *auth.TokenIssuer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	repo := newFakeRepo()
	hasher := &countingHasher{Hasher: auth.NewBcryptHasher(4)}
	tokens, err := auth.NewTokenIssuer([]byte("test-secret"), "HS256", 30*time.Minute, logging.Nop())
	require.NoError(t, err)

	svc := NewAccountService(repo, hasher, tokens, logging.Nop())
	svc.now = func() time.Time { return time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC) }

	return &fixture{svc: svc, repo: repo, hasher: hasher, tokens: tokens}
}

func validInput() RegisterInput {
	return RegisterInput{
		FullName:    "Nguyen Van A",
		Email:       "a@example.com",
		DateOfBirth: time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC),
		Gender:      models.GenderMale,
		Password:    "secret1",
	}
}

// --- Register ---

func TestRegister_Success(t *testing.T) {
	f := newFixture(t)

	in := validInput()
	in.FullName = "  Nguyen Van A  "

	got, err := f.svc.Register(context.Background(), in)
	require.NoError(t, err)
	assert.NotEmpty(t, got.ID)
	assert.Equal(t, "Nguyen Van A", got.FullName)
	assert.Equal(t, "a@example.com", got.Email)
	assert.False(t, got.IsAdmin)
	assert.Equal(t, time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC), got.CreatedAt)

	stored, err := f.repo.InMemoryRepository.FindByID(context.Background(), got.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", stored.PasswordHash)
	assert.True(t, f.hasher.Hasher.Verify("secret1", stored.PasswordHash))
}

func TestRegister_DuplicateEmailAlwaysFails(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Register(context.Background(), validInput())
	require.NoError(t, err)

	variants := []func(in *RegisterInput){
		func(in *RegisterInput) {},
		func(in *RegisterInput) { in.FullName = "Someone Else" },
		func(in *RegisterInput) { in.Password = "another-pass" },
		func(in *RegisterInput) { in.Gender = models.GenderOther },
		func(in *RegisterInput) { in.FullName = "x" },
		func(in *RegisterInput) { in.Password = "1" },
	}
	for i, mutate := range variants {
		in := validInput()
		mutate(&in)
		_, err := f.svc.Register(context.Background(), in)
		assert.ErrorIs(t, err, common.ErrDuplicateEmail, "variant %d", i)
	}
}

func TestRegister_EmailIsCaseSensitive(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Register(context.Background(), validInput())
	require.NoError(t, err)

	in := validInput()
	in.Email = "A@example.com"
	_, err = f.svc.Register(context.Background(), in)
	assert.NoError(t, err)
}

func TestRegister_ConstraintRaceIsDuplicate(t *testing.T) {
	f := newFixture(t)
	f.repo.insertErr = common.ErrDuplicateEmail

	_, err := f.svc.Register(context.Background(), validInput())
	assert.ErrorIs(t, err, common.ErrDuplicateEmail)
	assert.NotErrorIs(t, err, common.ErrorInternal)
}

func TestRegister_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(in *RegisterInput)
	}{
		{"name too short after trim", func(in *RegisterInput) { in.FullName = "  A  " }},
		{"name empty", func(in *RegisterInput) { in.FullName = "" }},
		{"name too long", func(in *RegisterInput) { in.FullName = string(make([]rune, 101)) }},
		{"password too short", func(in *RegisterInput) { in.Password = "12345" }},
		{"bad gender", func(in *RegisterInput) { in.Gender = "robot" }},
		{"missing email", func(in *RegisterInput) { in.Email = " " }},
		{"missing date of birth", func(in *RegisterInput) { in.DateOfBirth = time.Time{} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			in := validInput()
			tt.mutate(&in)

			_, err := f.svc.Register(context.Background(), in)
			require.Error(t, err)
			assert.ErrorIs(t, err, common.ErrValidation)
		})
	}
}

func TestRegister_StoreFailuresAreInternal(t *testing.T) {
	t.Run("lookup", func(t *testing.T) {
		f := newFixture(t)
		f.repo.findByEmailErr = errors.New("db error: timeout")

		_, err := f.svc.Register(context.Background(), validInput())
		assert.ErrorIs(t, err, common.ErrorInternal)
	})

	t.Run("insert", func(t *testing.T) {
		f := newFixture(t)
		f.repo.insertErr = errors.New("db error: timeout")

		_, err := f.svc.Register(context.Background(), validInput())
		assert.ErrorIs(t, err, common.ErrorInternal)
	})
}

// --- Login ---

func TestRegisterThenLogin(t *testing.T) {
	f := newFixture(t)

	acc, err := f.svc.Register(context.Background(), validInput())
	require.NoError(t, err)

	res, err := f.svc.Login(context.Background(), "a@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "bearer", res.TokenType)
	assert.Equal(t, acc.ID, res.Account.ID)

	claims, err := f.tokens.Verify(context.Background(), res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, acc.ID, claims.Subject)
	assert.Equal(t, "a@example.com", claims.Email)
}

func TestLogin_UnknownEmailAndWrongPasswordLookAlike(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Register(context.Background(), validInput())
	require.NoError(t, err)
	f.hasher.verified = nil

	_, errUnknown := f.svc.Login(context.Background(), "nobody@example.com", "secret1")
	_, errWrong := f.svc.Login(context.Background(), "a@example.com", "wrong")

	require.Error(t, errUnknown)
	require.Error(t, errWrong)
	assert.Equal(t, errUnknown, errWrong)
	assert.Equal(t, errUnknown.Error(), errWrong.Error())
	assert.ErrorIs(t, errUnknown, common.ErrInvalidCredentials)

	require.Len(t, f.hasher.verified, 2, "both paths verify a hash")
	assert.Equal(t, f.hasher.DummyHash(), f.hasher.verified[0])
}

func TestLogin_StoreFailureIsInternal(t *testing.T) {
	f := newFixture(t)
	f.repo.findByEmailErr = errors.New("db error: no primary")

	_, err := f.svc.Login(context.Background(), "a@example.com", "secret1")
	assert.ErrorIs(t, err, common.ErrorInternal)
	assert.NotErrorIs(t, err, common.ErrInvalidCredentials)
}

func TestLogin_TokenFailureIsInternal(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Register(context.Background(), validInput())
	require.NoError(t, err)

	svc := NewAccountService(f.repo, f.hasher, failingIssuer{}, nil)
	_, err = svc.Login(context.Background(), "a@example.com", "secret1")
	assert.ErrorIs(t, err, common.ErrorInternal)
}

// --- UpdateProfile ---

func TestUpdateProfile(t *testing.T) {
	newDOB := time.Date(1999, 9, 9, 0, 0, 0, 0, time.FixedZone("ICT", 7*3600))

	tests := []struct {
		name    string
		patch   models.AccountPatch
		wantErr error
		check   func(t *testing.T, got *models.PublicAccount)
	}{
		{
			name:  "gender only",
			patch: models.AccountPatch{Gender: models.Some(models.GenderFemale)},
			check: func(t *testing.T, got *models.PublicAccount) {
				assert.Equal(t, models.GenderFemale, got.Gender)
				assert.Equal(t, time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC), got.DateOfBirth)
			},
		},
		{
			name:  "date of birth only, stored in UTC",
			patch: models.AccountPatch{DateOfBirth: models.Some(newDOB)},
			check: func(t *testing.T, got *models.PublicAccount) {
				assert.Equal(t, newDOB.UTC(), got.DateOfBirth)
				assert.Equal(t, models.GenderMale, got.Gender)
			},
		},
		{
			name:  "both",
			patch: models.AccountPatch{DateOfBirth: models.Some(newDOB), Gender: models.Some(models.GenderOther)},
			check: func(t *testing.T, got *models.PublicAccount) {
				assert.Equal(t, models.GenderOther, got.Gender)
				assert.True(t, newDOB.Equal(got.DateOfBirth))
			},
		},
		{name: "nothing", patch: models.AccountPatch{}, wantErr: common.ErrNothingToUpdate},
		{name: "explicit null gender", patch: models.AccountPatch{Gender: models.Null[models.Gender]()}, wantErr: common.ErrValidation},
		{name: "explicit null date", patch: models.AccountPatch{DateOfBirth: models.Null[time.Time](), Gender: models.Some(models.GenderMale)}, wantErr: common.ErrValidation},
		{name: "invalid gender", patch: models.AccountPatch{Gender: models.Some(models.Gender("robot"))}, wantErr: common.ErrValidation},
		{name: "zero date", patch: models.AccountPatch{DateOfBirth: models.Some(time.Time{})}, wantErr: common.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			acc, err := f.svc.Register(context.Background(), validInput())
			require.NoError(t, err)

			got, err := f.svc.UpdateProfile(context.Background(), acc.ID, tt.patch)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, acc.ID, got.ID)
			tt.check(t, got)
		})
	}
}

func TestUpdateProfile_OnlyTouchesCaller(t *testing.T) {
	f := newFixture(t)
	first, err := f.svc.Register(context.Background(), validInput())
	require.NoError(t, err)

	in := validInput()
	in.Email = "b@example.com"
	second, err := f.svc.Register(context.Background(), in)
	require.NoError(t, err)

	_, err = f.svc.UpdateProfile(context.Background(), second.ID, models.AccountPatch{Gender: models.Some(models.GenderOther)})
	require.NoError(t, err)

	untouched, err := f.svc.GetAccount(context.Background(), first.ID)
	require.NoError(t, err)
	assert.Equal(t, models.GenderMale, untouched.Gender)
}

func TestUpdateProfile_NotFound(t *testing.T) {
	f := newFixture(t)
	patch := models.AccountPatch{Gender: models.Some(models.GenderOther)}

	_, err := f.svc.UpdateProfile(context.Background(), "missing", patch)
	assert.ErrorIs(t, err, common.ErrorNotFound)

	_, err = f.svc.UpdateProfile(context.Background(), "", patch)
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestUpdateProfile_StoreFailures(t *testing.T) {
	f := newFixture(t)
	acc, err := f.svc.Register(context.Background(), validInput())
	require.NoError(t, err)
	patch := models.AccountPatch{Gender: models.Some(models.GenderOther)}

	f.repo.updateErr = errors.New("db error: write concern")
	_, err = f.svc.UpdateProfile(context.Background(), acc.ID, patch)
	assert.ErrorIs(t, err, common.ErrorInternal)

	f.repo.updateErr = nil
	f.repo.findByIDErr = errors.New("db error: read timeout")
	_, err = f.svc.UpdateProfile(context.Background(), acc.ID, patch)
	assert.ErrorIs(t, err, common.ErrorInternal)
}

func TestUpdateProfile_ZeroMatched(t *testing.T) {
	f := newFixture(t)
	acc, err := f.svc.Register(context.Background(), validInput())
	require.NoError(t, err)

	zero := int64(0)
	f.repo.updateMatched = &zero

	_, err = f.svc.UpdateProfile(context.Background(), acc.ID, models.AccountPatch{Gender: models.Some(models.GenderOther)})
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

// --- GetAccount ---

func TestGetAccount(t *testing.T) {
	f := newFixture(t)
	acc, err := f.svc.Register(context.Background(), validInput())
	require.NoError(t, err)

	got, err := f.svc.GetAccount(context.Background(), acc.ID)
	require.NoError(t, err)
	assert.Equal(t, acc, got)

	_, err = f.svc.GetAccount(context.Background(), "nope")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}
