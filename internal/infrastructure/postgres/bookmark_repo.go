package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/campwire/community-core/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type BookmarkRepository struct {
	pool *pgxpool.Pool
}

func NewBookmarkRepository(pool *pgxpool.Pool) *BookmarkRepository {
	return &BookmarkRepository{pool: pool}
}

func (r *BookmarkRepository) FindItem(ctx context.Context, itemID string) (*domain.ContentItem, error) {
	query := `SELECT id, owner_id, bookmarked_by, created_at FROM items WHERE id = $1`

	var item domain.ContentItem
	err := r.pool.QueryRow(ctx, query, itemID).Scan(
		&item.ID, &item.OwnerID, &item.BookmarkedBy, &item.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrItemNotFound
		}
		return nil, fmt.Errorf("scan item: %w", err)
	}
	return &item, nil
}

func (r *BookmarkRepository) DeleteItem(ctx context.Context, itemID string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM items WHERE id = $1`, itemID)
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrItemNotFound
	}
	return nil
}

// ToggleItemSide flips membership in a single statement. The row lock taken
// by UPDATE serializes concurrent toggles for the same pair, so two racing
// toggles always net out instead of both applying as an add. RETURNING
// evaluates against the updated row: the result is the membership after the
// flip.
func (r *BookmarkRepository) ToggleItemSide(ctx context.Context, itemID, accountID string) (bool, error) {
	query := `
		UPDATE items
		SET bookmarked_by = CASE
			WHEN $2 = ANY(bookmarked_by) THEN array_remove(bookmarked_by, $2)
			ELSE array_append(bookmarked_by, $2)
		END
		WHERE id = $1
		RETURNING $2 = ANY(bookmarked_by)`

	var bookmarked bool
	err := r.pool.QueryRow(ctx, query, itemID, accountID).Scan(&bookmarked)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, domain.ErrItemNotFound
		}
		return false, fmt.Errorf("toggle item side: %w", err)
	}
	return bookmarked, nil
}

// SetAccountSide writes the denormalized cache entry. Idempotent: adding a
// present id or removing an absent one leaves the row unchanged.
func (r *BookmarkRepository) SetAccountSide(ctx context.Context, accountID, itemID string, bookmarked bool) error {
	query := `
		UPDATE accounts
		SET bookmarks = CASE
			WHEN $3 AND NOT ($2 = ANY(bookmarks)) THEN array_append(bookmarks, $2)
			WHEN NOT $3 THEN array_remove(bookmarks, $2)
			ELSE bookmarks
		END,
		    updated_at = NOW()
		WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query, accountID, itemID, bookmarked)
	if err != nil {
		return fmt.Errorf("set account side: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

func (r *BookmarkRepository) ItemIDsBookmarkedBy(ctx context.Context, accountID string) ([]string, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id FROM items WHERE $1 = ANY(bookmarked_by)`, accountID)
	if err != nil {
		return nil, fmt.Errorf("scan item-side bookmarks: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan item id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *BookmarkRepository) ReplaceAccountSide(ctx context.Context, accountID string, itemIDs []string) error {
	if itemIDs == nil {
		itemIDs = []string{}
	}
	tag, err := r.pool.Exec(ctx,
		`UPDATE accounts SET bookmarks = $2, updated_at = NOW() WHERE id = $1`,
		accountID, itemIDs)
	if err != nil {
		return fmt.Errorf("replace account side: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

func (r *BookmarkRepository) AccountIDs(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT id FROM accounts`)
	if err != nil {
		return nil, fmt.Errorf("list account ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan account id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
