package verification

import (
	"context"
	"sync"
	"time"
)

// MemoryTokenStore keeps outstanding tokens in process memory
type MemoryTokenStore struct {
	mu     sync.Mutex
	tokens map[string]Token // Key: hashed token value
}

func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{
		tokens: make(map[string]Token),
	}
}

func (s *MemoryTokenStore) Add(ctx context.Context, token Token) (bool, error) {
	key := hashToken(token.Value)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.tokens[key]; exists {
		return false, nil
	}
	token.Value = ""
	s.tokens[key] = token
	return true, nil
}

func (s *MemoryTokenStore) Take(ctx context.Context, value string) (Token, error) {
	key := hashToken(value)

	s.mu.Lock()
	defer s.mu.Unlock()

	token, exists := s.tokens[key]
	if !exists {
		return Token{}, ErrTokenNotFound
	}
	delete(s.tokens, key)
	token.Value = value
	return token, nil
}

func (s *MemoryTokenStore) Remove(ctx context.Context, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.tokens, hashToken(value))
	return nil
}

func (s *MemoryTokenStore) SweepExpired(ctx context.Context, now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key, token := range s.tokens {
		if token.Expired(now) {
			delete(s.tokens, key)
			removed++
		}
	}
	return removed, nil
}

// Len returns the number of outstanding tokens
func (s *MemoryTokenStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tokens)
}
