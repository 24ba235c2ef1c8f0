package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/videoshare/internal/domain"
)

// AccountRepository defines persistence access for accounts. The refresh
// token slot is mutated only through the dedicated methods below.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	GetByIdentifier(ctx context.Context, identifier string) (*domain.Account, error)
	GetByUsername(ctx context.Context, username string) (*domain.Account, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	// SetRefreshTokenID overwrites the refresh slot unconditionally. A nil
	// tokenID clears it (logout / revoke).
	SetRefreshTokenID(ctx context.Context, id string, tokenID *string) error
	// ReplaceRefreshTokenID swaps the slot only if it still holds oldTokenID.
	// ErrConflict means another rotation won the race or the handle is stale.
	ReplaceRefreshTokenID(ctx context.Context, id, oldTokenID, newTokenID string) error
}

type accountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository returns a Postgres-backed implementation.
func NewAccountRepository(pool *pgxpool.Pool) AccountRepository {
	return &accountRepository{pool: pool}
}

const accountColumns = `id, username, email, full_name, avatar, cover_image, password_hash, refresh_token_id, created_at, updated_at`

func (r *accountRepository) Create(ctx context.Context, account *domain.Account) error {
	const query = `
        INSERT INTO accounts (username, email, full_name, avatar, cover_image, password_hash)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, created_at, updated_at`

	err := r.pool.QueryRow(ctx, query,
		account.Username,
		account.Email,
		account.FullName,
		account.Avatar,
		account.CoverImage,
		account.PasswordHash,
	).Scan(&account.ID, &account.CreatedAt, &account.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrConflict
		}
		return err
	}
	return nil
}

func (r *accountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	const query = `SELECT ` + accountColumns + ` FROM accounts WHERE id=$1`
	return r.scanOne(r.pool.QueryRow(ctx, query, id))
}

func (r *accountRepository) GetByIdentifier(ctx context.Context, identifier string) (*domain.Account, error) {
	const query = `SELECT ` + accountColumns + ` FROM accounts WHERE username=$1 OR email=$1`
	return r.scanOne(r.pool.QueryRow(ctx, query, identifier))
}

func (r *accountRepository) GetByUsername(ctx context.Context, username string) (*domain.Account, error) {
	const query = `SELECT ` + accountColumns + ` FROM accounts WHERE username=$1`
	return r.scanOne(r.pool.QueryRow(ctx, query, username))
}

func (r *accountRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	const query = `UPDATE accounts SET password_hash=$1, updated_at=NOW() WHERE id=$2`
	cmd, err := r.pool.Exec(ctx, query, passwordHash, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *accountRepository) SetRefreshTokenID(ctx context.Context, id string, tokenID *string) error {
	const query = `UPDATE accounts SET refresh_token_id=$1, updated_at=NOW() WHERE id=$2`
	cmd, err := r.pool.Exec(ctx, query, tokenID, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *accountRepository) ReplaceRefreshTokenID(ctx context.Context, id, oldTokenID, newTokenID string) error {
	const query = `
        UPDATE accounts SET refresh_token_id=$1, updated_at=NOW()
        WHERE id=$2 AND refresh_token_id=$3`
	cmd, err := r.pool.Exec(ctx, query, newTokenID, id, oldTokenID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrConflict
	}
	return nil
}

func (r *accountRepository) scanOne(row pgx.Row) (*domain.Account, error) {
	var account domain.Account
	if err := row.Scan(
		&account.ID,
		&account.Username,
		&account.Email,
		&account.FullName,
		&account.Avatar,
		&account.CoverImage,
		&account.PasswordHash,
		&account.RefreshTokenID,
		&account.CreatedAt,
		&account.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &account, nil
}
