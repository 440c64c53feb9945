package game

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/anyquestionsgame/kingofhearts/internal/trivia"
)

// QuestionSource supplies question sets during play. Pre-game bulk
// generation fills the cache; Cached misses fall through to an on-demand
// generation while the engine sits in its generating sub-state.
type QuestionSource interface {
	Cached(topic string, gc trivia.GenContext) (trivia.QuestionSet, bool)
	GetOrGenerate(ctx context.Context, topic string, gc trivia.GenContext) trivia.Outcome
}

// Session is one live game: a round engine, its wager book and the question
// source they pull from.
type Session struct {
	ID     string
	engine *Engine
	wagers *WagerBook
	source QuestionSource
	logger zerolog.Logger
}

func NewSession(state SessionState, cfg LadderConfig, source QuestionSource, logger zerolog.Logger) (*Session, error) {
	engine, err := Restore(state, cfg, logger)
	if err != nil {
		return nil, err
	}
	return &Session{
		ID:     state.ID,
		engine: engine,
		wagers: NewWagerBook(),
		source: source,
		logger: logger.With().Str("component", "game_session").Str("session_id", state.ID).Logger(),
	}, nil
}

// Engine exposes the round state machine.
func (s *Session) Engine() *Engine {
	return s.engine
}

// Snapshot exports the persisted shape with the session ID set.
func (s *Session) Snapshot() SessionState {
	state := s.engine.Snapshot()
	state.ID = s.ID
	return state
}

// FetchQuestion returns the question for the selected (topic, points) pair.
// Cache hits return immediately; a miss moves the engine through its
// generating sub-state while the on-demand call runs. Either way the player
// sees a question, real or fallback, indistinguishably formatted.
func (s *Session) FetchQuestion(ctx context.Context) (trivia.Question, error) {
	qc, ok := s.engine.Current()
	if !ok || qc.Tier == 0 {
		return trivia.Question{}, fmt.Errorf("%w: no question selected", ErrWrongState)
	}

	gc := trivia.GenContext{ExpertName: s.engine.CategoryExpert(qc.Topic)}
	tier := tierForPoints(qc.Tier, s.engine.LadderPoints())

	if set, hit := s.source.Cached(qc.Topic, gc); hit {
		return questionAtTier(set, tier)
	}

	if err := s.engine.BeginGeneration(); err != nil {
		return trivia.Question{}, err
	}
	out := s.source.GetOrGenerate(ctx, qc.Topic, gc)
	if err := s.engine.QuestionReady(); err != nil {
		return trivia.Question{}, err
	}
	if out.Err != nil {
		s.logger.Warn().Err(out.Err).Str("topic", qc.Topic).Msg("on-demand generation degraded")
	}
	return questionAtTier(out.Set, tier)
}

// SubmitWager locks a final-round stake clamped to the player's current score.
func (s *Session) SubmitWager(playerName string, rawAmount int) (Wager, error) {
	if s.engine.State() != StateWagering {
		return Wager{}, fmt.Errorf("%w: wagers open in the final round only", ErrWrongState)
	}
	score, ok := s.engine.Scores()[playerName]
	if !ok {
		return Wager{}, fmt.Errorf("%w: %q", ErrUnknownPlayer, playerName)
	}
	return s.wagers.Submit(playerName, score, rawAmount)
}

// ResolveWager finalizes a wager and applies the delta to the player's score.
func (s *Session) ResolveWager(playerName string, correct bool) (int, error) {
	delta, err := s.wagers.Resolve(playerName, correct)
	if err != nil {
		return 0, err
	}
	if err := s.engine.ApplyWagerDelta(playerName, delta); err != nil {
		return 0, err
	}
	return delta, nil
}

// tierForPoints maps a ladder point value onto the generated difficulty
// ladder. Round 1 values are tiers themselves; round 2 values map by rank
// from the hardest tier down, so 500 plays the 400-tier question and 250
// the 300-tier one.
func tierForPoints(points int, ladder []int) int {
	for _, t := range trivia.Tiers {
		if t == points {
			return points
		}
	}
	for i := len(ladder) - 1; i >= 0; i-- {
		if ladder[i] == points {
			offset := len(ladder) - 1 - i
			idx := len(trivia.Tiers) - 1 - offset
			if idx < 0 {
				idx = 0
			}
			return trivia.Tiers[idx]
		}
	}
	return trivia.Tiers[len(trivia.Tiers)-1]
}

func questionAtTier(set trivia.QuestionSet, tier int) (trivia.Question, error) {
	for _, q := range set {
		if q.Tier == tier {
			return q, nil
		}
	}
	return trivia.Question{}, fmt.Errorf("no question at tier %d", tier)
}
