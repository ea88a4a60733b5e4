package flash

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	msg     Message
	expires time.Time
}

// MemoryStore keeps messages in process. Used when no Redis URL is configured.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

func (s *MemoryStore) Put(_ context.Context, id string, msg Message, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	// Drop expired entries so abandoned cookies don't accumulate.
	for k, e := range s.entries {
		if now.After(e.expires) {
			delete(s.entries, k)
		}
	}
	s.entries[id] = memoryEntry{msg: msg, expires: now.Add(ttl)}
	return nil
}

func (s *MemoryStore) Pop(_ context.Context, id string) (Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	if !ok {
		return Message{}, ErrNotFound
	}
	delete(s.entries, id)
	if s.now().After(e.expires) {
		return Message{}, ErrNotFound
	}
	return e.msg, nil
}
