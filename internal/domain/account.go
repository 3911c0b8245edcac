package domain

import (
	"slices"
	"time"
)

type Account struct {
	ID           string
	Email        string
	PasswordHash string
	DisplayName  string
	// Bookmarks is the denormalized account-side view of the bookmark
	// relation. Item-side membership is authoritative.
	Bookmarks []string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasBookmark reports whether the account's cached bookmark set contains itemID.
func (a *Account) HasBookmark(itemID string) bool {
	return slices.Contains(a.Bookmarks, itemID)
}

// ContentItem is owned by the external content collaborator. The core only
// reads its id and owner and keeps BookmarkedBy synchronized with the
// account-side bookmark sets.
type ContentItem struct {
	ID           string
	OwnerID      string
	BookmarkedBy []string
	CreatedAt    time.Time
}
