package identity

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	rec       RefreshRecord
	expiresAt time.Time
}

// MemoryStore is an in-process TokenStore for development and tests.
type MemoryStore struct {
	mu     sync.Mutex
	tokens map[string]memoryEntry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{tokens: make(map[string]memoryEntry)}
}

func (s *MemoryStore) Put(_ context.Context, token string, rec RefreshRecord, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[token] = memoryEntry{rec: rec, expiresAt: time.Now().Add(ttl)}
	return nil
}

func (s *MemoryStore) Take(_ context.Context, token string) (RefreshRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.tokens[token]
	if !ok {
		return RefreshRecord{}, ErrTokenNotFound
	}
	delete(s.tokens, token)

	if time.Now().After(entry.expiresAt) {
		return RefreshRecord{}, ErrTokenNotFound
	}
	return entry.rec, nil
}

func (s *MemoryStore) Revoke(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, token)
	return nil
}
