package repository

import (
	"context"

	"github.com/campwire/community-core/internal/domain"
)

// BookmarkRepository maintains both sides of the bookmark relation. The
// item-side set is the source of truth; the account-side set is a
// denormalized cache that reconciliation re-derives from item-side records.
type BookmarkRepository interface {
	FindItem(ctx context.Context, itemID string) (*domain.ContentItem, error)
	DeleteItem(ctx context.Context, itemID string) error

	// ToggleItemSide atomically flips accountID's membership in the item's
	// bookmarked-by set and returns the resulting membership. The flip must
	// happen in a single atomic update so that concurrent toggles for the
	// same pair serialize on the item record.
	ToggleItemSide(ctx context.Context, itemID, accountID string) (bool, error)

	// SetAccountSide adds or removes itemID in the account's cached bookmark
	// set. Idempotent: setting an already-present or already-absent
	// membership is a no-op.
	SetAccountSide(ctx context.Context, accountID, itemID string, bookmarked bool) error

	// ItemIDsBookmarkedBy scans the authoritative item-side records for
	// every item the account has bookmarked.
	ItemIDsBookmarkedBy(ctx context.Context, accountID string) ([]string, error)

	// ReplaceAccountSide overwrites the account's cached bookmark set.
	ReplaceAccountSide(ctx context.Context, accountID string, itemIDs []string) error

	// AccountIDs lists every account id, for full reconciliation sweeps.
	AccountIDs(ctx context.Context) ([]string, error)
}
