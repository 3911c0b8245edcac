package ratelimit

import (
	"context"
	"hash/fnv"
	"sync"
	"time"
)

const shardCount = 64

// MemoryStore keeps windows in shard-striped maps so unrelated identities
// never contend on the same lock. Each shard's increment-and-compare and
// window rollover run under that shard's mutex, which is never held across
// I/O.
type MemoryStore struct {
	shards [shardCount]shard
}

type shard struct {
	mu      sync.Mutex
	windows map[string]*Window
}

func NewMemoryStore() *MemoryStore {
	s := &MemoryStore{}
	for i := range s.shards {
		s.shards[i].windows = make(map[string]*Window)
	}
	return s
}

func (s *MemoryStore) Incr(_ context.Context, key string, now, cutoff time.Time) (Window, error) {
	sh := &s.shards[shardIndex(key)]
	sh.mu.Lock()
	defer sh.mu.Unlock()

	w, ok := sh.windows[key]
	if !ok || w.Start.Before(cutoff) {
		w = &Window{Start: now, Count: 0}
		sh.windows[key] = w
	}
	w.Count++
	return *w, nil
}

func shardIndex(key string) int {
	h := fnv.New32a()
	h.Write([]byte(key))
	return int(h.Sum32() % shardCount)
}
