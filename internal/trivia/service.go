package trivia

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Notifier receives bulk generation lifecycle events for broadcast to
// session spectators. Optional; nil means no one is watching.
type Notifier interface {
	GenerationProgress(sessionID string, completed, total int)
	GenerationDone(sessionID string, totalQuestions int, failedTopics []string)
}

// Service orchestrates cached question generation for the HTTP surface and
// the round engine. The cache guarantees at-most-one generation per
// (topic, context) key for the process lifetime.
type Service struct {
	generator *Generator
	cache     *Cache
	scheduler *Scheduler
	notifier  Notifier
	logger    zerolog.Logger
}

// ServiceOptions configures bulk pacing and event delivery.
type ServiceOptions struct {
	GroupSize       int
	InterGroupDelay time.Duration
	Notifier        Notifier
}

func NewService(generator *Generator, cache *Cache, opts ServiceOptions, metrics *Metrics, logger zerolog.Logger) *Service {
	s := &Service{
		generator: generator,
		cache:     cache,
		notifier:  opts.Notifier,
		logger:    logger.With().Str("component", "trivia_service").Logger(),
	}
	s.scheduler = NewScheduler(func(ctx context.Context, req Request) Outcome {
		return s.GetOrGenerate(ctx, req.Topic, req.Context)
	}, opts.GroupSize, opts.InterGroupDelay, metrics, logger)
	return s
}

// Cached peeks the cache without triggering generation.
func (s *Service) Cached(topic string, gc GenContext) (QuestionSet, bool) {
	return s.cache.Get(CacheKey(topic, gc))
}

// GetOrGenerate serves a topic from the cache, generating on first request.
// Cache hits carry no error even if the cached set came from a fallback:
// the failure was already reported when the entry was created.
func (s *Service) GetOrGenerate(ctx context.Context, topic string, gc GenContext) Outcome {
	var generated *Outcome
	set := s.cache.GetOrCreate(ctx, CacheKey(topic, gc), func(ctx context.Context) QuestionSet {
		out := s.generator.GenerateOutcome(ctx, topic, gc)
		generated = &out
		return out.Set
	})
	if generated != nil {
		return *generated
	}
	return Outcome{Set: set}
}

// BulkCategory is one category in a pre-game bulk generation request.
type BulkCategory struct {
	Name   string `json:"name"`
	Expert string `json:"expert"`
	Round  int    `json:"round"`
}

// BulkRequest pre-populates the cache for every (topic, round) pair before
// play starts. SessionID, when set, routes progress events to that session's
// spectators.
type BulkRequest struct {
	SessionID   string         `json:"sessionId,omitempty"`
	Categories  []BulkCategory `json:"categories"`
	Players     []string       `json:"players"`
	PlayerCount int            `json:"playerCount"`
}

// BulkResponse reports per-category sets plus human-readable failures.
type BulkResponse struct {
	QuestionsByCategory map[string]QuestionSet `json:"questionsByCategory"`
	TotalQuestions      int                    `json:"totalQuestions"`
	Errors              []string               `json:"errors,omitempty"`
}

// Bulk runs grouped generation for all requested categories via the
// scheduler. Failed categories still return fallback sets and are listed in
// Errors; the batch never aborts.
func (s *Service) Bulk(ctx context.Context, req BulkRequest) BulkResponse {
	requests := make([]Request, 0, len(req.Categories))
	for _, cat := range req.Categories {
		requests = append(requests, Request{
			Topic:   cat.Name,
			Context: GenContext{ExpertName: cat.Expert},
		})
	}

	var onProgress func(completed, total int)
	if s.notifier != nil && req.SessionID != "" {
		onProgress = func(completed, total int) {
			s.notifier.GenerationProgress(req.SessionID, completed, total)
		}
	}

	result := s.scheduler.Run(ctx, requests, onProgress)

	total := 0
	for _, set := range result.Sets {
		total += len(set)
	}
	if s.notifier != nil && req.SessionID != "" {
		s.notifier.GenerationDone(req.SessionID, total, result.FailedTopics)
	}
	return BulkResponse{
		QuestionsByCategory: result.Sets,
		TotalQuestions:      total,
		Errors:              result.Errors,
	}
}

// SingleRequest generates (or re-serves) one category on demand, the
// cache-miss path during play.
type SingleRequest struct {
	Category    string `json:"category"`
	PlayerName  string `json:"playerName"`
	ExpertName  string `json:"expertName"`
	Round       int    `json:"round"`
	PlayerCount int    `json:"playerCount"`
}

// SingleResponse mirrors the single-category endpoint shape.
type SingleResponse struct {
	Questions QuestionSet `json:"questions"`
	Round     int         `json:"round"`
}

// Single serves one category through the cache.
func (s *Service) Single(ctx context.Context, req SingleRequest) SingleResponse {
	out := s.GetOrGenerate(ctx, req.Category, GenContext{
		PlayerName: req.PlayerName,
		ExpertName: req.ExpertName,
	})
	return SingleResponse{Questions: out.Set, Round: req.Round}
}
