package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/campwire/community-core/internal/ratelimit"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RateWindowStore is the shared-counter backend for the rate limiter: one row
// per identity, advanced by a single upsert so increment and rollover cannot
// race across processes.
type RateWindowStore struct {
	pool *pgxpool.Pool
}

func NewRateWindowStore(pool *pgxpool.Pool) *RateWindowStore {
	return &RateWindowStore{pool: pool}
}

func (s *RateWindowStore) Incr(ctx context.Context, key string, now, cutoff time.Time) (ratelimit.Window, error) {
	query := `
		INSERT INTO rate_windows (identity, window_start, count)
		VALUES ($1, $2, 1)
		ON CONFLICT (identity) DO UPDATE SET
			count = CASE
				WHEN rate_windows.window_start < $3 THEN 1
				ELSE rate_windows.count + 1
			END,
			window_start = CASE
				WHEN rate_windows.window_start < $3 THEN $2
				ELSE rate_windows.window_start
			END
		RETURNING window_start, count`

	var w ratelimit.Window
	if err := s.pool.QueryRow(ctx, query, key, now, cutoff).Scan(&w.Start, &w.Count); err != nil {
		return ratelimit.Window{}, fmt.Errorf("advance rate window: %w", err)
	}
	return w, nil
}
