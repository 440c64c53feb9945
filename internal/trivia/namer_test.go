package trivia

import (
	"context"
	"io"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestNamerMemoizesPerNormalizedTopic(t *testing.T) {
	completer := &stubCompleter{namerResp: "The Grape Escape"}
	namer := NewNamer(completer, NopMetrics(), zerolog.New(io.Discard))

	first := namer.Name(context.Background(), "Wine")
	second := namer.Name(context.Background(), "  wine ")
	third := namer.Name(context.Background(), "WINE")

	assert.Equal(t, "The Grape Escape", first)
	assert.Equal(t, first, second)
	assert.Equal(t, first, third)
	assert.Equal(t, 1, completer.namerCallCount(), "display name generated at most once per topic")
}

func TestNamerDistinctTopics(t *testing.T) {
	completer := &stubCompleter{namerResp: "Shiny Name"}
	namer := NewNamer(completer, NopMetrics(), zerolog.New(io.Discard))

	namer.Name(context.Background(), "Wine")
	namer.Name(context.Background(), "Cheese")

	assert.Equal(t, 2, completer.namerCallCount())
}

func TestNamerStripsQuotes(t *testing.T) {
	completer := &stubCompleter{namerResp: "\"Grapes of Math\"\n"}
	namer := NewNamer(completer, NopMetrics(), zerolog.New(io.Discard))

	assert.Equal(t, "Grapes of Math", namer.Name(context.Background(), "Math"))
}

func TestNamerEmptyResponseFallsBackToTopic(t *testing.T) {
	completer := &stubCompleter{namerResp: "   "}
	namer := NewNamer(completer, NopMetrics(), zerolog.New(io.Discard))

	assert.Equal(t, "Math", namer.Name(context.Background(), "Math"))
}

func TestNamerConcurrentFirstCallSingleFlight(t *testing.T) {
	completer := &stubCompleter{namerResp: "Once Only"}
	namer := NewNamer(completer, NopMetrics(), zerolog.New(io.Discard))

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Equal(t, "Once Only", namer.Name(context.Background(), "Wine"))
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, completer.namerCallCount())
}
