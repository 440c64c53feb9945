package game

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errStubNotFound = errors.New("session not found")

// stubStore is a minimal in-memory StateStore.
type stubStore struct {
	states map[string]SessionState
}

func newStubStore() *stubStore {
	return &stubStore{states: map[string]SessionState{}}
}

func (s *stubStore) Get(_ context.Context, id string) (SessionState, error) {
	state, ok := s.states[id]
	if !ok {
		return SessionState{}, errStubNotFound
	}
	return state, nil
}

func (s *stubStore) Put(_ context.Context, state SessionState) error {
	s.states[state.ID] = state
	return nil
}

type recordingSink struct {
	scoreUpdates   int
	roundsComplete int
	lastScores     map[string]int
}

func (r *recordingSink) ScoreUpdate(_ string, scores map[string]int) {
	r.scoreUpdates++
	r.lastScores = scores
}

func (r *recordingSink) RoundComplete(string, int) {
	r.roundsComplete++
}

func newTestManager(t *testing.T, store StateStore, sink EventSink) *Manager {
	t.Helper()
	return NewManager(store, newStubSource(), DefaultLadderConfig(), sink, zerolog.New(io.Discard))
}

func TestManagerAcquireRestoresFromStore(t *testing.T) {
	store := newStubStore()
	store.states["g1"] = SessionState{
		ID:           "g1",
		Players:      testPlayers(),
		CurrentRound: RoundPeer,
	}
	m := newTestManager(t, store, nil)

	s, err := m.Acquire(context.Background(), "g1")
	require.NoError(t, err)
	assert.Equal(t, RoundPeer, s.Engine().Round())

	again, err := m.Acquire(context.Background(), "g1")
	require.NoError(t, err)
	assert.Same(t, s, again, "second acquire reuses the live engine")
}

func TestManagerAcquireUnknownSession(t *testing.T) {
	m := newTestManager(t, newStubStore(), nil)

	_, err := m.Acquire(context.Background(), "nope")
	assert.ErrorIs(t, err, errStubNotFound)
}

func TestManagerPersistWritesSnapshot(t *testing.T) {
	store := newStubStore()
	store.states["g1"] = SessionState{
		ID:           "g1",
		Players:      testPlayers(),
		CurrentRound: RoundSelf,
	}
	m := newTestManager(t, store, nil)

	s, err := m.Acquire(context.Background(), "g1")
	require.NoError(t, err)
	playQuestion(t, s.Engine(), "Wine", 200, "", false, OutcomeOriginal)
	m.Persist(context.Background(), s)

	stored, err := store.Get(context.Background(), "g1")
	require.NoError(t, err)
	require.True(t, stored.QuestionsAsked.Has("Wine", 200))
	for _, p := range stored.Players {
		if p.Name == "Ana" {
			assert.Equal(t, 200, p.Score)
		}
	}
}

func TestManagerNotifications(t *testing.T) {
	store := newStubStore()
	store.states["g1"] = SessionState{
		ID:           "g1",
		Players:      testPlayers(),
		CurrentRound: RoundSelf,
	}
	sink := &recordingSink{}
	m := newTestManager(t, store, sink)

	s, err := m.Acquire(context.Background(), "g1")
	require.NoError(t, err)
	playQuestion(t, s.Engine(), "Wine", 100, "", false, OutcomeOriginal)

	m.NotifyScores(s)
	m.NotifyRoundComplete(s)

	assert.Equal(t, 1, sink.scoreUpdates)
	assert.Equal(t, 1, sink.roundsComplete)
	assert.Equal(t, 100, sink.lastScores["Ana"])
}
