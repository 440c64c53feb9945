package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anyquestionsgame/kingofhearts/internal/game"
)

func sampleState(id string) game.SessionState {
	asked := game.NewAskedRecord()
	asked.Mark("wine", 200)
	return game.SessionState{
		ID: id,
		Players: []game.Player{
			{Name: "Ana", SelfTopic: "Wine", PeerTopic: "Opera", Score: 150},
			{Name: "Ben", SelfTopic: "Cheese", PeerTopic: "Chess", Score: -50},
		},
		CurrentRound:   1,
		QuestionsAsked: asked,
		SharedCategory: "World Capitals",
	}
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, sampleState("g1")))

	got, err := store.Get(ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, sampleState("g1"), got)
}

func TestMemoryStoreGetMissing(t *testing.T) {
	store := NewMemoryStore()
	_, err := store.Get(context.Background(), "absent")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreDelete(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, sampleState("g1")))
	require.NoError(t, store.Delete(ctx, "g1"))

	_, err := store.Get(ctx, "g1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStorePutOverwrites(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	state := sampleState("g1")
	require.NoError(t, store.Put(ctx, state))

	state.CurrentRound = 2
	require.NoError(t, store.Put(ctx, state))

	got, err := store.Get(ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, 2, got.CurrentRound)
}
