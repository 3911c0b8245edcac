package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/campwire/community-core/internal/domain"
	"github.com/campwire/community-core/internal/metrics"
	"github.com/campwire/community-core/internal/repository"
)

// BookmarkUsecase maintains the bidirectional bookmark relation between
// accounts and content items. The item-side membership set is authoritative;
// the account-side set is a cache that Reconcile re-derives from it.
type BookmarkUsecase struct {
	bookmarks repository.BookmarkRepository
	accounts  repository.AccountRepository
	logger    *slog.Logger
}

func NewBookmarkUsecase(bookmarks repository.BookmarkRepository, accounts repository.AccountRepository, logger *slog.Logger) *BookmarkUsecase {
	return &BookmarkUsecase{
		bookmarks: bookmarks,
		accounts:  accounts,
		logger:    logger.With("component", "bookmark_usecase"),
	}
}

// Toggle flips the bookmark for (accountID, itemID) and returns the resulting
// state. The item side commits first in a single atomic update, so concurrent
// toggles for the same pair serialize on the item record and two toggles
// always cancel out. The account cache is written second; if that write is
// lost (crash, cancellation, storage error) the relation is repairable:
// reconciliation rewrites the cache from the item side.
func (u *BookmarkUsecase) Toggle(ctx context.Context, accountID, itemID string) (bool, error) {
	if _, err := u.accounts.FindByID(ctx, accountID); err != nil {
		return false, err
	}

	bookmarked, err := u.bookmarks.ToggleItemSide(ctx, itemID, accountID)
	if err != nil {
		return false, err
	}

	if err := u.bookmarks.SetAccountSide(ctx, accountID, itemID, bookmarked); err != nil {
		u.logger.ErrorContext(ctx, "account-side bookmark write failed, reconciling",
			"account_id", accountID, "item_id", itemID, "error", err)
		if _, rerr := u.ReconcileAccount(ctx, accountID); rerr != nil {
			return false, fmt.Errorf("reconcile after account-side write failure: %w", rerr)
		}
	}

	if bookmarked {
		metrics.BookmarkTogglesTotal.WithLabelValues("bookmarked").Inc()
	} else {
		metrics.BookmarkTogglesTotal.WithLabelValues("removed").Inc()
	}
	return bookmarked, nil
}

func (u *BookmarkUsecase) GetItem(ctx context.Context, itemID string) (*domain.ContentItem, error) {
	return u.bookmarks.FindItem(ctx, itemID)
}

// DeleteItem removes the item record. Stale ids left in account-side caches
// are swept by the next reconciliation pass.
func (u *BookmarkUsecase) DeleteItem(ctx context.Context, itemID string) error {
	return u.bookmarks.DeleteItem(ctx, itemID)
}

// ReconcileAccount rewrites the account's cached bookmark set from the
// authoritative item-side records. Against a consistent ledger it is a no-op,
// so running it right after Toggle never changes observable state.
func (u *BookmarkUsecase) ReconcileAccount(ctx context.Context, accountID string) (bool, error) {
	account, err := u.accounts.FindByID(ctx, accountID)
	if err != nil {
		return false, err
	}

	authoritative, err := u.bookmarks.ItemIDsBookmarkedBy(ctx, accountID)
	if err != nil {
		return false, fmt.Errorf("scan item-side bookmarks: %w", err)
	}

	if sameSet(account.Bookmarks, authoritative) {
		return false, nil
	}

	u.logger.WarnContext(ctx, "bookmark cache diverged from item records",
		"account_id", accountID,
		"cached", len(account.Bookmarks), "authoritative", len(authoritative),
		"error", domain.ErrInconsistentRelationship)

	if err := u.bookmarks.ReplaceAccountSide(ctx, accountID, authoritative); err != nil {
		return false, fmt.Errorf("rewrite account-side bookmarks: %w", err)
	}
	metrics.RelationshipRepairsTotal.Inc()
	return true, nil
}

// ReconcileAll sweeps every account. Per-account failures are logged and the
// sweep continues; the repaired count covers caches actually rewritten.
func (u *BookmarkUsecase) ReconcileAll(ctx context.Context) (int, error) {
	ids, err := u.bookmarks.AccountIDs(ctx)
	if err != nil {
		return 0, fmt.Errorf("list accounts: %w", err)
	}

	repaired := 0
	for _, id := range ids {
		if ctx.Err() != nil {
			return repaired, ctx.Err()
		}
		fixed, err := u.ReconcileAccount(ctx, id)
		if err != nil {
			u.logger.ErrorContext(ctx, "reconcile account", "account_id", id, "error", err)
			continue
		}
		if fixed {
			repaired++
		}
	}
	return repaired, nil
}

func sameSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	as := slices.Clone(a)
	bs := slices.Clone(b)
	slices.Sort(as)
	slices.Sort(bs)
	return slices.Equal(as, bs)
}
