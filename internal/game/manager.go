package game

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
)

// StateStore is the slice of the session store the manager needs. The full
// store lives in internal/session; this interface keeps the dependency
// pointing outward.
type StateStore interface {
	Get(ctx context.Context, id string) (SessionState, error)
	Put(ctx context.Context, state SessionState) error
}

// EventSink receives gameplay events for broadcast. Nil-safe no-op when
// nobody is watching.
type EventSink interface {
	ScoreUpdate(sessionID string, scores map[string]int)
	RoundComplete(sessionID string, round int)
}

// Manager keeps live sessions in memory and writes snapshots through to the
// store after every scoring mutation. One live engine per session ID.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session

	store  StateStore
	source QuestionSource
	cfg    LadderConfig
	events EventSink
	logger zerolog.Logger
}

func NewManager(store StateStore, source QuestionSource, cfg LadderConfig, events EventSink, logger zerolog.Logger) *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		store:    store,
		source:   source,
		cfg:      cfg,
		events:   events,
		logger:   logger.With().Str("component", "game_manager").Logger(),
	}
}

// Acquire returns the live session for an ID, restoring it from the store
// on first touch.
func (m *Manager) Acquire(ctx context.Context, id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.sessions[id]; ok {
		return s, nil
	}

	state, err := m.store.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load session %s: %w", id, err)
	}
	s, err := NewSession(state, m.cfg, m.source, m.logger)
	if err != nil {
		return nil, err
	}
	m.sessions[id] = s
	m.logger.Info().Str("session_id", id).Int("round", state.CurrentRound).Msg("session restored")
	return s, nil
}

// Persist writes the session snapshot through to the store. Failures are
// logged, not fatal: the live engine remains authoritative and durability is
// best-effort.
func (m *Manager) Persist(ctx context.Context, s *Session) {
	if err := m.store.Put(ctx, s.Snapshot()); err != nil {
		m.logger.Warn().Err(err).Str("session_id", s.ID).Msg("session persist failed")
	}
}

// NotifyScores pushes the current scoreboard to spectators.
func (m *Manager) NotifyScores(s *Session) {
	if m.events != nil {
		m.events.ScoreUpdate(s.ID, s.Engine().Scores())
	}
}

// NotifyRoundComplete announces a round boundary.
func (m *Manager) NotifyRoundComplete(s *Session) {
	if m.events != nil {
		m.events.RoundComplete(s.ID, s.Engine().Round())
	}
}
