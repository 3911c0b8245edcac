package ratelimit_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/campwire/community-core/internal/ratelimit"
)

func newLimiter(limit int, window time.Duration) *ratelimit.FixedWindow {
	return ratelimit.NewFixedWindow(ratelimit.NewMemoryStore(), limit, window)
}

func TestAllow_UnderLimit(t *testing.T) {
	l := newLimiter(3, time.Minute)

	for i := 0; i < 3; i++ {
		d, err := l.Allow(context.Background(), "k")
		if err != nil {
			t.Fatalf("allow: %v", err)
		}
		if !d.Allowed {
			t.Fatalf("request %d rejected under limit", i+1)
		}
		if want := 3 - (i + 1); d.Remaining != want {
			t.Errorf("request %d: remaining = %d, want %d", i+1, d.Remaining, want)
		}
	}
}

func TestAllow_OverLimit_RejectsWithPositiveRetryAfter(t *testing.T) {
	l := newLimiter(2, time.Minute)

	for i := 0; i < 2; i++ {
		if d, _ := l.Allow(context.Background(), "k"); !d.Allowed {
			t.Fatalf("request %d rejected under limit", i+1)
		}
	}

	d, err := l.Allow(context.Background(), "k")
	if err != nil {
		t.Fatalf("allow: %v", err)
	}
	if d.Allowed {
		t.Fatal("request over limit was admitted")
	}
	if d.RetryAfter <= 0 {
		t.Errorf("retry-after = %v, want > 0", d.RetryAfter)
	}
	if d.RetryAfter > time.Minute {
		t.Errorf("retry-after = %v exceeds the window width", d.RetryAfter)
	}
}

func TestAllow_WindowRollover_ResetsCounter(t *testing.T) {
	l := newLimiter(1, 20*time.Millisecond)

	if d, _ := l.Allow(context.Background(), "k"); !d.Allowed {
		t.Fatal("first request rejected")
	}
	if d, _ := l.Allow(context.Background(), "k"); d.Allowed {
		t.Fatal("second request in window admitted over limit")
	}

	time.Sleep(30 * time.Millisecond)

	if d, _ := l.Allow(context.Background(), "k"); !d.Allowed {
		t.Fatal("request after rollover rejected")
	}
}

func TestAllow_KeysAreIndependent(t *testing.T) {
	l := newLimiter(1, time.Minute)

	if d, _ := l.Allow(context.Background(), "a"); !d.Allowed {
		t.Fatal("key a rejected")
	}
	if d, _ := l.Allow(context.Background(), "b"); !d.Allowed {
		t.Fatal("key b rejected: keys must not share a window")
	}
}

// Two requests racing at the boundary must not both take the last slot.
func TestAllow_ConcurrentRequests_NeverOverAdmit(t *testing.T) {
	const limit = 50
	const requests = 200

	l := newLimiter(limit, time.Minute)

	var wg sync.WaitGroup
	var mu sync.Mutex
	admitted := 0

	for i := 0; i < requests; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d, err := l.Allow(context.Background(), "k")
			if err != nil {
				t.Errorf("allow: %v", err)
				return
			}
			if d.Allowed {
				mu.Lock()
				admitted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if admitted != limit {
		t.Errorf("admitted %d of %d, want exactly %d", admitted, requests, limit)
	}
}
