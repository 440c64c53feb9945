package trivia

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Request is one topic to generate in a bulk run.
type Request struct {
	Topic   string
	Context GenContext
}

// Result aggregates a bulk run. Every submitted topic has a set in Sets
// (real or fallback); Errors lists topics whose live generation failed.
type Result struct {
	Sets         map[string]QuestionSet
	Errors       []string
	FailedTopics []string
}

// Scheduler fans generation requests out in small fixed-size groups with a
// cooldown between groups, a deliberate accommodation of upstream rate
// limits. Group N never starts before group N-1 has fully resolved.
type Scheduler struct {
	generate  func(ctx context.Context, req Request) Outcome
	groupSize int
	delay     time.Duration
	metrics   *Metrics
	logger    zerolog.Logger
}

func NewScheduler(generate func(ctx context.Context, req Request) Outcome, groupSize int, delay time.Duration, metrics *Metrics, logger zerolog.Logger) *Scheduler {
	if groupSize <= 0 {
		groupSize = 2
	}
	if delay < 0 {
		delay = 0
	}
	return &Scheduler{
		generate:  generate,
		groupSize: groupSize,
		delay:     delay,
		metrics:   metrics,
		logger:    logger.With().Str("component", "batch_scheduler").Logger(),
	}
}

// Run processes every request and resolves only once all groups complete.
// A failing request never aborts its siblings or later groups. onProgress,
// when non-nil, fires after each group with the completed and total counts.
func (s *Scheduler) Run(ctx context.Context, requests []Request, onProgress func(completed, total int)) Result {
	started := time.Now()
	result := Result{Sets: make(map[string]QuestionSet, len(requests))}

	var mu sync.Mutex
	for offset := 0; offset < len(requests); offset += s.groupSize {
		if offset > 0 {
			s.cooldown(ctx)
		}

		end := offset + s.groupSize
		if end > len(requests) {
			end = len(requests)
		}
		group := requests[offset:end]

		var wg sync.WaitGroup
		for _, req := range group {
			wg.Add(1)
			go func(req Request) {
				defer wg.Done()
				out := s.generate(ctx, req)

				mu.Lock()
				defer mu.Unlock()
				result.Sets[req.Topic] = out.Set
				if out.Err != nil {
					result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", req.Topic, out.Err))
					result.FailedTopics = append(result.FailedTopics, req.Topic)
				}
			}(req)
		}
		wg.Wait()

		if onProgress != nil {
			onProgress(end, len(requests))
		}
	}

	elapsed := time.Since(started)
	s.metrics.BatchDuration.Observe(elapsed.Seconds())
	s.logger.Info().
		Int("topics", len(requests)).
		Int("failures", len(result.Errors)).
		Dur("elapsed", elapsed).
		Msg("bulk generation complete")

	return result
}

// cooldown waits the inter-group delay. Cancellation cuts it short; the
// remaining requests then fail fast into their fallback path instead of
// hanging the batch.
func (s *Scheduler) cooldown(ctx context.Context) {
	if s.delay == 0 {
		return
	}
	timer := time.NewTimer(s.delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
