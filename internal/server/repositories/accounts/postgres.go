package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/sportstore/internal/common"
	"github.com/dmitrijs2005/sportstore/internal/dbx"
	"github.com/dmitrijs2005/sportstore/internal/server/models"
	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

type PostgresRepository struct {
	db      dbx.DBTX
	timeout time.Duration
}

func NewPostgresRepository(db dbx.DBTX, timeout time.Duration) *PostgresRepository {
	return &PostgresRepository{db: db, timeout: timeout}
}

const selectAccount = `SELECT id, email, full_name, date_of_birth, gender, password_hash, is_admin, created_at
		 FROM accounts
		 `

func (r *PostgresRepository) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	return r.scanOne(r.db.QueryRowContext(ctx, selectAccount+`WHERE email = $1`, email))
}

func (r *PostgresRepository) FindByID(ctx context.Context, id string) (*models.Account, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, common.ErrorNotFound
	}

	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	return r.scanOne(r.db.QueryRowContext(ctx, selectAccount+`WHERE id = $1`, id))
}

func (r *PostgresRepository) scanOne(row *sql.Row) (*models.Account, error) {
	a := &models.Account{}
	var gender string
	err := row.Scan(&a.ID, &a.Email, &a.FullName, &a.DateOfBirth, &gender, &a.PasswordHash, &a.IsAdmin, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	a.Gender = models.Gender(gender)
	a.DateOfBirth = a.DateOfBirth.UTC()
	a.CreatedAt = a.CreatedAt.UTC()
	return a, nil
}

func (r *PostgresRepository) Insert(ctx context.Context, a *models.Account) (string, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	query :=
		`INSERT INTO accounts (id, email, full_name, date_of_birth, gender, password_hash, is_admin, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 `

	id := uuid.NewString()
	_, err := r.db.ExecContext(ctx, query,
		id, a.Email, a.FullName, a.DateOfBirth, string(a.Gender), a.PasswordHash, a.IsAdmin, a.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return "", common.ErrDuplicateEmail
		}
		return "", fmt.Errorf("db error: %w", err)
	}

	return id, nil
}

func (r *PostgresRepository) UpdateFields(ctx context.Context, id string, patch models.AccountPatch) (int64, error) {
	var (
		sets []string
		args []any
	)
	if dob, ok := patch.DateOfBirth.Get(); ok {
		args = append(args, dob)
		sets = append(sets, fmt.Sprintf("date_of_birth = $%d", len(args)))
	}
	if gender, ok := patch.Gender.Get(); ok {
		args = append(args, string(gender))
		sets = append(sets, fmt.Sprintf("gender = $%d", len(args)))
	}
	if len(sets) == 0 {
		return 0, common.ErrNothingToUpdate
	}
	if _, err := uuid.Parse(id); err != nil {
		return 0, nil
	}

	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE accounts SET %s WHERE id = $%d`, strings.Join(sets, ", "), len(args))

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}
