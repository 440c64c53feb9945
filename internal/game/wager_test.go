package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWagerSubmitClamps(t *testing.T) {
	tests := []struct {
		name   string
		score  int
		raw    int
		locked int
	}{
		{name: "within range", score: 300, raw: 200, locked: 200},
		{name: "above score clamps down", score: 100, raw: 500, locked: 100},
		{name: "negative clamps to zero", score: 300, raw: -5, locked: 0},
		{name: "negative score clamps ceiling to zero", score: -150, raw: 100, locked: 0},
		{name: "all in", score: 250, raw: 250, locked: 250},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			book := NewWagerBook()
			w, err := book.Submit("Ana", tt.score, tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.locked, w.Amount)
			assert.True(t, w.Locked)
		})
	}
}

func TestWagerResubmissionRejected(t *testing.T) {
	book := NewWagerBook()
	_, err := book.Submit("Ana", 300, 100)
	require.NoError(t, err)

	_, err = book.Submit("Ana", 300, 250)
	assert.ErrorIs(t, err, ErrWagerLocked)

	w, ok := book.Get("Ana")
	require.True(t, ok)
	assert.Equal(t, 100, w.Amount, "locked amount must survive the rejected resubmit")
}

func TestWagerResolveCorrect(t *testing.T) {
	book := NewWagerBook()
	_, err := book.Submit("Ana", 300, 120)
	require.NoError(t, err)

	delta, err := book.Resolve("Ana", true)
	require.NoError(t, err)
	assert.Equal(t, 120, delta)
}

func TestWagerResolveIncorrect(t *testing.T) {
	book := NewWagerBook()
	_, err := book.Submit("Ana", 40, 40)
	require.NoError(t, err)

	delta, err := book.Resolve("Ana", false)
	require.NoError(t, err)
	assert.Equal(t, -40, delta)
}

func TestWagerResolveOnce(t *testing.T) {
	book := NewWagerBook()
	_, err := book.Submit("Ana", 300, 100)
	require.NoError(t, err)

	_, err = book.Resolve("Ana", true)
	require.NoError(t, err)

	_, err = book.Resolve("Ana", true)
	assert.ErrorIs(t, err, ErrWagerResolved)
}

func TestWagerResolveWithoutSubmit(t *testing.T) {
	book := NewWagerBook()
	_, err := book.Resolve("Ghost", true)
	assert.ErrorIs(t, err, ErrUnknownPlayer)
}
