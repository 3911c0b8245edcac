// seed creates the local dev schema and inserts test accounts and items.
// Run: go run ./cmd/seed
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/campwire/community-core/internal/infrastructure/postgres"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const seedPassword = "longenough1"

const schema = `
CREATE TABLE IF NOT EXISTS accounts (
	id            TEXT PRIMARY KEY,
	email         TEXT NOT NULL,
	password_hash TEXT NOT NULL,
	display_name  TEXT NOT NULL,
	bookmarks     TEXT[] NOT NULL DEFAULT '{}',
	created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE UNIQUE INDEX IF NOT EXISTS accounts_email_unique ON accounts (lower(email));

CREATE TABLE IF NOT EXISTS items (
	id            TEXT PRIMARY KEY,
	owner_id      TEXT NOT NULL REFERENCES accounts(id),
	bookmarked_by TEXT[] NOT NULL DEFAULT '{}',
	created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS rate_windows (
	identity     TEXT PRIMARY KEY,
	window_start TIMESTAMPTZ NOT NULL,
	count        INTEGER NOT NULL
);
`

var seedAccounts = []struct {
	email       string
	displayName string
}{
	{"alice@test.local", "alice"},
	{"bob@test.local", "bob"},
	{"carol@test.local", "carol"},
}

func main() {
	ctx := context.Background()

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	pool, err := postgres.NewPool(ctx, databaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer pool.Close()

	if _, err := pool.Exec(ctx, schema); err != nil {
		log.Fatalf("create schema: %v", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(seedPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("hash seed password: %v", err)
	}

	accountIDs := make([]string, 0, len(seedAccounts))
	for _, a := range seedAccounts {
		id := uuid.NewString()
		_, err := pool.Exec(ctx, `
			INSERT INTO accounts (id, email, password_hash, display_name)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT DO NOTHING`,
			id, a.email, string(hash), a.displayName)
		if err != nil {
			log.Fatalf("insert account %s: %v", a.email, err)
		}
		accountIDs = append(accountIDs, id)
		fmt.Printf("account %-18s %s (password %q)\n", a.email, id, seedPassword)
	}

	// Ten items, owners round-robin. The first two arrive pre-bookmarked by
	// alice on both sides; the third is bookmarked on the item side only, so
	// a reconciler run has something to repair locally.
	for i := 0; i < 10; i++ {
		id := uuid.NewString()
		owner := accountIDs[i%len(accountIDs)]

		var bookmarkedBy []string
		if i < 3 {
			bookmarkedBy = []string{accountIDs[0]}
		}

		_, err := pool.Exec(ctx, `
			INSERT INTO items (id, owner_id, bookmarked_by)
			VALUES ($1, $2, $3)`,
			id, owner, bookmarkedBy)
		if err != nil {
			log.Fatalf("insert item %d: %v", i, err)
		}

		if i < 2 {
			_, err = pool.Exec(ctx,
				`UPDATE accounts SET bookmarks = array_append(bookmarks, $2) WHERE id = $1`,
				accountIDs[0], id)
			if err != nil {
				log.Fatalf("bookmark item %d: %v", i, err)
			}
		}
	}

	fmt.Println("seeded 3 accounts and 10 items (one bookmark cache left stale for the reconciler)")
}
