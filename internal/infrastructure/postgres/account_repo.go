package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/campwire/community-core/internal/domain"
	"github.com/campwire/community-core/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const accountColumns = "id, email, password_hash, display_name, bookmarks, created_at, updated_at"

type AccountRepository struct {
	pool *pgxpool.Pool
}

func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{pool: pool}
}

func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) (*domain.Account, error) {
	query := `
		INSERT INTO accounts (id, email, password_hash, display_name, bookmarks)
		VALUES ($1, $2, $3, $4, '{}')
		RETURNING ` + accountColumns

	row := r.pool.QueryRow(ctx, query,
		account.ID,
		account.Email,
		account.PasswordHash,
		account.DisplayName,
	)

	created, err := scanAccount(row)
	if err != nil {
		// The unique index on lower(email) enforces one account per address.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domain.ErrEmailTaken
		}
		return nil, err
	}
	return created, nil
}

func (r *AccountRepository) FindByID(ctx context.Context, id string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`
	return scanAccount(r.pool.QueryRow(ctx, query, id))
}

func (r *AccountRepository) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	// Emails are stored lowercased; lower() keeps lookups case-insensitive
	// even against rows written before normalization.
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE lower(email) = lower($1)`
	return scanAccount(r.pool.QueryRow(ctx, query, email))
}

func (r *AccountRepository) UpdateProfile(ctx context.Context, id string, input repository.UpdateProfileInput) (*domain.Account, error) {
	sets := []string{"updated_at = NOW()"}
	args := []any{id}

	if input.DisplayName != nil {
		args = append(args, *input.DisplayName)
		sets = append(sets, fmt.Sprintf("display_name = $%d", len(args)))
	}
	if input.PasswordHash != nil {
		args = append(args, *input.PasswordHash)
		sets = append(sets, fmt.Sprintf("password_hash = $%d", len(args)))
	}

	query := fmt.Sprintf(`UPDATE accounts SET %s WHERE id = $1 RETURNING %s`,
		strings.Join(sets, ", "), accountColumns)

	return scanAccount(r.pool.QueryRow(ctx, query, args...))
}

// pgx.Row and pgx.Rows both implement this.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (*domain.Account, error) {
	var a domain.Account
	err := row.Scan(
		&a.ID, &a.Email, &a.PasswordHash, &a.DisplayName,
		&a.Bookmarks, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("scan account: %w", err)
	}
	return &a, nil
}
