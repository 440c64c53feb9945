package session

import (
	"context"
	"sync"

	"github.com/anyquestionsgame/kingofhearts/internal/game"
)

// MemoryStore keeps sessions in-process, for development and tests.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]game.SessionState
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]game.SessionState)}
}

func (s *MemoryStore) Get(_ context.Context, id string) (game.SessionState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	state, ok := s.sessions[id]
	if !ok {
		return game.SessionState{}, ErrNotFound
	}
	return state, nil
}

func (s *MemoryStore) Put(_ context.Context, state game.SessionState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[state.ID] = state
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}
