package trivia

import (
	"context"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/anyquestionsgame/kingofhearts/internal/llm"
)

// Namer turns raw topic strings into short display names. Results are
// memoized per normalized topic for the process lifetime, so a topic's
// display name never changes mid-game no matter how many rounds reference it.
type Namer struct {
	completer llm.Completer
	metrics   *Metrics
	logger    zerolog.Logger

	group singleflight.Group
	mu    sync.RWMutex
	memo  map[string]string
}

func NewNamer(completer llm.Completer, metrics *Metrics, logger zerolog.Logger) *Namer {
	return &Namer{
		completer: completer,
		metrics:   metrics,
		logger:    logger.With().Str("component", "topic_namer").Logger(),
		memo:      make(map[string]string),
	}
}

// Name returns the display name for a topic. Failures fall back to the raw
// topic string and are memoized too, keeping the label stable for the session.
func (n *Namer) Name(ctx context.Context, topic string) string {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return topic
	}
	key := NormalizeTopic(topic)

	n.mu.RLock()
	cached, ok := n.memo[key]
	n.mu.RUnlock()
	if ok {
		n.metrics.NamerHits.Inc()
		return cached
	}

	// singleflight collapses concurrent first requests for the same topic
	// into one generation.
	name, _, _ := n.group.Do(key, func() (interface{}, error) {
		n.mu.RLock()
		cached, ok := n.memo[key]
		n.mu.RUnlock()
		if ok {
			return cached, nil
		}

		name := n.generate(ctx, topic)

		n.mu.Lock()
		n.memo[key] = name
		n.mu.Unlock()
		return name, nil
	})
	return name.(string)
}

func (n *Namer) generate(ctx context.Context, topic string) string {
	n.metrics.NamerCalls.Inc()

	text, err := n.completer.Complete(ctx, llm.CompletionRequest{
		System: namerSystemPrompt,
		Messages: []llm.Message{
			{Role: "user", Content: namerUserPrompt(topic)},
		},
	})
	if err != nil {
		n.logger.Warn().Err(err).Str("topic", topic).Msg("display name generation failed")
		return topic
	}

	name := strings.TrimSpace(strings.Trim(strings.TrimSpace(text), `"'`))
	if name == "" {
		return topic
	}
	return name
}
