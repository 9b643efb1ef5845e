package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/confclone/internal/core/domain"
	"github.com/custodia-labs/confclone/internal/core/ports/driven"
)

// Ensure SessionStore implements the interface.
var _ driven.SessionStore = (*SessionStore)(nil)

// SessionStore is an in-memory implementation of driven.SessionStore.
// Trees are shared by pointer; callers replace rather than mutate them.
type SessionStore struct {
	mu    sync.RWMutex
	trees map[string]*domain.TreeState
}

// NewSessionStore creates a new in-memory session store.
func NewSessionStore() *SessionStore {
	return &SessionStore{
		trees: make(map[string]*domain.TreeState),
	}
}

// SaveTree replaces the tree state of a session.
func (s *SessionStore) SaveTree(_ context.Context, sessionID string, state *domain.TreeState) error {
	if sessionID == "" || state == nil {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.trees[sessionID] = state
	return nil
}

// GetTree returns the tree state of a session.
func (s *SessionStore) GetTree(_ context.Context, sessionID string) (*domain.TreeState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	state, ok := s.trees[sessionID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return state, nil
}

// Delete discards a session.
func (s *SessionStore) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.trees, sessionID)
	return nil
}
