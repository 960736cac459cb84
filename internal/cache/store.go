package cache

import (
	"context"
	"sync"
	"time"
)

// ProcessedStore remembers contracts already handled by removal auto-creation.
// It only short-circuits repeated work; the active-task check in the database is
// authoritative.
type ProcessedStore interface {
	Seen(ctx context.Context, contractNumber string) (bool, error)
	Mark(ctx context.Context, contractNumber string) error
}

// MemoryStore keeps processed contracts for the lifetime of the process.
type MemoryStore struct {
	mu    sync.Mutex
	ttl   time.Duration
	now   func() time.Time
	items map[string]time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:   ttl,
		now:   time.Now,
		items: make(map[string]time.Time),
	}
}

func (s *MemoryStore) Seen(_ context.Context, contractNumber string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	markedAt, ok := s.items[contractNumber]
	if !ok {
		return false, nil
	}
	if s.ttl > 0 && s.now().Sub(markedAt) >= s.ttl {
		delete(s.items, contractNumber)
		return false, nil
	}
	return true, nil
}

func (s *MemoryStore) Mark(_ context.Context, contractNumber string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[contractNumber] = s.now()
	return nil
}
