package game

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type httpFixture struct {
	handlers *HTTPHandlers
	store    *stubStore
	sink     *recordingSink
}

func newHTTPFixture(t *testing.T, state SessionState) *httpFixture {
	t.Helper()
	store := newStubStore()
	store.states[state.ID] = state
	sink := &recordingSink{}
	manager := NewManager(store, newStubSource(), DefaultLadderConfig(), sink, zerolog.New(io.Discard))
	return &httpFixture{
		handlers: NewHTTPHandlers(manager, zerolog.New(io.Discard)),
		store:    store,
		sink:     sink,
	}
}

func (f *httpFixture) post(t *testing.T, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	rec := httptest.NewRecorder()
	f.handlers.Games(rec, req)
	return rec
}

func (f *httpFixture) get(t *testing.T, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	f.handlers.Games(rec, req)
	return rec
}

func roundOneState() SessionState {
	return SessionState{ID: "g1", Players: testPlayers(), CurrentRound: RoundSelf}
}

func TestGamesStateEndpoint(t *testing.T) {
	f := newHTTPFixture(t, roundOneState())

	rec := f.get(t, "/v1/games/g1/state")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		State         State          `json:"state"`
		Round         int            `json:"round"`
		CurrentPlayer string         `json:"currentPlayer"`
		Ladder        []int          `json:"ladder"`
		Scores        map[string]int `json:"scores"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, StateAwaitingCategory, resp.State)
	assert.Equal(t, 1, resp.Round)
	assert.Equal(t, "Ana", resp.CurrentPlayer)
	assert.Equal(t, []int{100, 200, 300}, resp.Ladder)
}

func TestGamesUnknownSession(t *testing.T) {
	f := newHTTPFixture(t, roundOneState())

	rec := f.get(t, "/v1/games/ghost/state")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGamesBadPath(t *testing.T) {
	f := newHTTPFixture(t, roundOneState())

	rec := f.get(t, "/v1/games/g1")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGamesFullQuestionFlow(t *testing.T) {
	f := newHTTPFixture(t, roundOneState())

	rec := f.post(t, "/v1/games/g1/category", map[string]any{"topic": "Wine"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.post(t, "/v1/games/g1/points", map[string]any{"topic": "Wine", "points": 200})
	require.Equal(t, http.StatusOK, rec.Code)

	// Point selection persists the asked record before the question is shown.
	stored, err := f.store.Get(httptest.NewRequest(http.MethodGet, "/", nil).Context(), "g1")
	require.NoError(t, err)
	assert.True(t, stored.QuestionsAsked.Has("Wine", 200))

	rec = f.post(t, "/v1/games/g1/question", map[string]any{})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.post(t, "/v1/games/g1/reveal", map[string]any{"expert": "Ben"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.post(t, "/v1/games/g1/steal", map[string]any{"attempted": true})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.post(t, "/v1/games/g1/resolve", map[string]any{"outcome": "expert"})
	require.Equal(t, http.StatusOK, rec.Code)

	var resolved struct {
		OriginalDelta int            `json:"originalDelta"`
		ExpertDelta   *int           `json:"expertDelta"`
		Scores        map[string]int `json:"scores"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resolved))
	assert.Equal(t, -200, resolved.OriginalDelta)
	require.NotNil(t, resolved.ExpertDelta)
	assert.Equal(t, 200, *resolved.ExpertDelta)
	assert.Equal(t, -200, resolved.Scores["Ana"])
	assert.Equal(t, 200, resolved.Scores["Ben"])

	assert.Equal(t, 1, f.sink.scoreUpdates, "resolution broadcasts the scoreboard")
}

func TestGamesInvalidSelectionConflicts(t *testing.T) {
	f := newHTTPFixture(t, roundOneState())

	rec := f.post(t, "/v1/games/g1/category", map[string]any{"topic": "Astrology"})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestGamesWrongStateConflicts(t *testing.T) {
	f := newHTTPFixture(t, roundOneState())

	rec := f.post(t, "/v1/games/g1/steal", map[string]any{"attempted": true})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestGamesWagerEndpoints(t *testing.T) {
	players := []Player{
		{Name: "Ana", SelfTopic: "Wine", PeerTopic: "Opera", Score: 300},
		{Name: "Ben", SelfTopic: "Cheese", PeerTopic: "Chess", Score: 100},
	}
	f := newHTTPFixture(t, SessionState{ID: "g1", Players: players, CurrentRound: FinalRound})

	rec := f.post(t, "/v1/games/g1/wager", map[string]any{"player": "Ana", "amount": 500})
	require.Equal(t, http.StatusOK, rec.Code)
	var w Wager
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &w))
	assert.Equal(t, 300, w.Amount)

	rec = f.post(t, "/v1/games/g1/wager", map[string]any{"player": "Ana", "amount": 50})
	assert.Equal(t, http.StatusConflict, rec.Code, "wagers lock on submission")

	rec = f.post(t, "/v1/games/g1/wager-resolve", map[string]any{"player": "Ana", "correct": false})
	require.Equal(t, http.StatusOK, rec.Code)
	var resolved struct {
		Delta  int            `json:"delta"`
		Scores map[string]int `json:"scores"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resolved))
	assert.Equal(t, -300, resolved.Delta)
	assert.Zero(t, resolved.Scores["Ana"])

	rec = f.post(t, "/v1/games/g1/wager-resolve", map[string]any{"player": "Ana", "correct": true})
	assert.Equal(t, http.StatusConflict, rec.Code, "a wager resolves once")
}

func TestGamesUnknownAction(t *testing.T) {
	f := newHTTPFixture(t, roundOneState())

	rec := f.post(t, "/v1/games/g1/dance", map[string]any{})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
