package game

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog"
)

// State of the round engine. Transitions are strictly linear per question,
// with a transient generating state while a cache miss is filled.
type State string

const (
	StateAwaitingCategory   State = "awaiting_category"
	StateAwaitingPoints     State = "awaiting_points"
	StateGenerating         State = "generating"
	StateAwaitingReveal     State = "awaiting_reveal"
	StateAwaitingSteal      State = "awaiting_steal"
	StateAwaitingResolution State = "awaiting_resolution"
	StateRoundComplete      State = "round_complete"
	StateWagering           State = "wagering"
)

// QuestionContext is the tagged current-question state. Holding it in one
// struct rules out invalid flag combinations like an expert name set with no
// reveal in flight.
type QuestionContext struct {
	Topic          string
	Tier           int
	ExpertName     string // empty when the answering player owns the topic
	StealAttempted bool
}

// Engine owns per-round category assignment, the asked record, turn order
// and the question lifecycle. One engine per session; all methods are safe
// for the single session's event loop plus background generation callbacks.
type Engine struct {
	mu      sync.Mutex
	cfg     LadderConfig
	logger  zerolog.Logger
	players []*Player
	shared  string

	round   int
	turn    int
	state   State
	asked   AskedRecord
	current *QuestionContext
}

// NewEngine starts a session at round 1 with zero scores preserved from the
// given players.
func NewEngine(players []Player, sharedCategory string, cfg LadderConfig, logger zerolog.Logger) (*Engine, error) {
	state := SessionState{Players: players, CurrentRound: RoundSelf, SharedCategory: sharedCategory}
	if err := state.Validate(); err != nil {
		return nil, fmt.Errorf("new engine: %w", err)
	}
	return restore(state, cfg, logger), nil
}

// Restore rebuilds an engine from a persisted session. The question
// lifecycle restarts at category selection; the asked record guarantees no
// question is served twice even across a crash mid-question.
func Restore(state SessionState, cfg LadderConfig, logger zerolog.Logger) (*Engine, error) {
	if err := state.Validate(); err != nil {
		return nil, fmt.Errorf("restore engine: %w", err)
	}
	return restore(state, cfg, logger), nil
}

func restore(state SessionState, cfg LadderConfig, logger zerolog.Logger) *Engine {
	players := make([]*Player, len(state.Players))
	for i := range state.Players {
		p := state.Players[i]
		players[i] = &p
	}
	asked := state.QuestionsAsked
	if asked == nil {
		asked = NewAskedRecord()
	}
	engineState := StateAwaitingCategory
	if state.CurrentRound >= FinalRound {
		engineState = StateWagering
	}
	return &Engine{
		cfg:     cfg,
		logger:  logger.With().Str("component", "round_engine").Logger(),
		players: players,
		shared:  state.SharedCategory,
		round:   state.CurrentRound,
		state:   engineState,
		asked:   asked,
	}
}

// Snapshot exports the persisted session shape.
func (e *Engine) Snapshot() SessionState {
	e.mu.Lock()
	defer e.mu.Unlock()
	players := make([]Player, len(e.players))
	for i, p := range e.players {
		players[i] = *p
	}
	return SessionState{
		Players:        players,
		CurrentRound:   e.round,
		QuestionsAsked: e.asked,
		SharedCategory: e.shared,
	}
}

func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

func (e *Engine) Round() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.round
}

// CurrentPlayer returns the player whose turn it is.
func (e *Engine) CurrentPlayer() Player {
	e.mu.Lock()
	defer e.mu.Unlock()
	return *e.players[e.turn]
}

// Current returns the in-flight question context, if any.
func (e *Engine) Current() (QuestionContext, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.current == nil {
		return QuestionContext{}, false
	}
	return *e.current, true
}

// roundTopic returns a player's category for the active round: self topic in
// round 1, peer-assigned topic in round 2.
func (e *Engine) roundTopic(p *Player) string {
	if e.round == RoundPeer {
		return p.PeerTopic
	}
	return p.SelfTopic
}

// ownerOf returns the player whose round-scoped category matches topic.
func (e *Engine) ownerOf(topic string) *Player {
	for _, p := range e.players {
		if e.roundTopic(p) == topic {
			return p
		}
	}
	return nil
}

func (e *Engine) ladder() []int {
	return e.cfg.Ladder(e.round, len(e.players))
}

// LadderPoints returns the point values on offer this round.
func (e *Engine) LadderPoints() []int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ladder()
}

// CategoryExpert returns the name of the topic's owner for this round, or
// empty when nobody owns it.
func (e *Engine) CategoryExpert(topic string) string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if owner := e.ownerOf(topic); owner != nil {
		return owner.Name
	}
	return ""
}

// SelectCategory picks a topic for the current question. Exhausted topics
// are rejected.
func (e *Engine) SelectCategory(topic string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != StateAwaitingCategory {
		return fmt.Errorf("%w: select category in %s", ErrWrongState, e.state)
	}
	if e.ownerOf(topic) == nil {
		return fmt.Errorf("%w: %q is not a category this round", ErrInvalidSelection, topic)
	}
	if e.asked.Covers(topic, e.ladder()) {
		return fmt.Errorf("%w: %q is exhausted", ErrInvalidSelection, topic)
	}

	e.current = &QuestionContext{Topic: topic}
	e.state = StateAwaitingPoints
	return nil
}

// SelectPointValue picks the tier. The asked record is written here, before
// the question is shown, so a crash mid-question cannot serve it twice.
func (e *Engine) SelectPointValue(topic string, tier int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != StateAwaitingPoints {
		return fmt.Errorf("%w: select points in %s", ErrWrongState, e.state)
	}
	if e.current == nil || e.current.Topic != topic {
		return fmt.Errorf("%w: topic %q is not the selected category", ErrInvalidSelection, topic)
	}
	if !tierInLadder(tier, e.ladder()) {
		return fmt.Errorf("%w: %d points not on this round's ladder", ErrInvalidSelection, tier)
	}
	if !e.asked.Mark(topic, tier) {
		return fmt.Errorf("%w: %q for %d already asked", ErrInvalidSelection, topic, tier)
	}

	e.current.Tier = tier
	e.state = StateAwaitingReveal
	return nil
}

// BeginGeneration marks the engine as waiting for an on-demand question
// fetch after a cache miss.
func (e *Engine) BeginGeneration() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != StateAwaitingReveal {
		return fmt.Errorf("%w: begin generation in %s", ErrWrongState, e.state)
	}
	e.state = StateGenerating
	return nil
}

// QuestionReady returns from the generating sub-state. Generation never
// fails from the engine's point of view; fallback sets arrive the same way.
func (e *Engine) QuestionReady() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != StateGenerating {
		return fmt.Errorf("%w: question ready in %s", ErrWrongState, e.state)
	}
	e.state = StateAwaitingReveal
	return nil
}

// Reveal shows the question and pins the steal context. The caller names
// the expert; an empty name derives the topic's owner, unless the answering
// player owns it themselves, in which case no expert is present.
func (e *Engine) Reveal(expertName string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != StateAwaitingReveal {
		return fmt.Errorf("%w: reveal in %s", ErrWrongState, e.state)
	}

	answering := e.players[e.turn]
	if expertName == "" {
		if owner := e.ownerOf(e.current.Topic); owner != nil && owner.Name != answering.Name {
			expertName = owner.Name
		}
	} else {
		expert := e.playerByName(expertName)
		if expert == nil {
			return fmt.Errorf("%w: %q", ErrUnknownPlayer, expertName)
		}
		if expert.Name == answering.Name {
			return fmt.Errorf("%w: answering player cannot be their own expert", ErrInvalidSelection)
		}
	}

	e.current.ExpertName = expertName
	e.state = StateAwaitingSteal
	return nil
}

// DecideSteal records whether the expert jumps in. Attempting a steal with
// no expert present is a contract violation.
func (e *Engine) DecideSteal(attempted bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != StateAwaitingSteal {
		return fmt.Errorf("%w: decide steal in %s", ErrWrongState, e.state)
	}
	if attempted && e.current.ExpertName == "" {
		return fmt.Errorf("%w: no expert present to steal", ErrInvalidSelection)
	}

	e.current.StealAttempted = attempted
	e.state = StateAwaitingResolution
	return nil
}

// Resolve applies the outcome's point deltas exactly once, clears the
// question context and advances the turn. Turn order is strict round-robin
// regardless of who answered or stole.
func (e *Engine) Resolve(outcome Outcome) (StealDeltas, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != StateAwaitingResolution {
		return StealDeltas{}, fmt.Errorf("%w: resolve in %s", ErrWrongState, e.state)
	}

	answering := e.players[e.turn]
	isOwnCategory := e.roundTopic(answering) == e.current.Topic

	deltas, err := ResolveSteal(outcome, e.current.Tier, isOwnCategory, e.current.StealAttempted)
	if err != nil {
		return StealDeltas{}, err
	}

	answering.Score += deltas.Original
	if deltas.Expert != nil {
		expert := e.playerByName(e.current.ExpertName)
		if expert == nil {
			return StealDeltas{}, fmt.Errorf("%w: expert %q", ErrUnknownPlayer, e.current.ExpertName)
		}
		expert.Score += *deltas.Expert
	}

	e.logger.Info().
		Str("player", answering.Name).
		Str("topic", e.current.Topic).
		Int("tier", e.current.Tier).
		Str("outcome", string(outcome)).
		Int("delta", deltas.Original).
		Msg("question resolved")

	e.current = nil
	e.turn = (e.turn + 1) % len(e.players)
	if e.roundComplete() {
		e.state = StateRoundComplete
	} else {
		e.state = StateAwaitingCategory
	}
	return deltas, nil
}

// IsRoundComplete is true iff every player's round topic has no remaining
// tier on the ladder.
func (e *Engine) IsRoundComplete() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.roundComplete()
}

func (e *Engine) roundComplete() bool {
	ladder := e.ladder()
	if len(ladder) == 0 {
		return true
	}
	for _, p := range e.players {
		if !e.asked.Covers(e.roundTopic(p), ladder) {
			return false
		}
	}
	return true
}

// AdvanceRound moves to the next round, resetting the asked record. After
// round 2 the engine enters the wagering state; the wager book takes over
// scoring from there.
func (e *Engine) AdvanceRound() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != StateRoundComplete {
		return fmt.Errorf("%w: advance round in %s", ErrWrongState, e.state)
	}

	e.round++
	e.asked = NewAskedRecord()
	if e.round >= FinalRound {
		e.state = StateWagering
	} else {
		e.state = StateAwaitingCategory
	}
	return nil
}

// ApplyWagerDelta credits a resolved final-round wager to a player's score.
func (e *Engine) ApplyWagerDelta(playerName string, delta int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != StateWagering {
		return fmt.Errorf("%w: apply wager in %s", ErrWrongState, e.state)
	}
	p := e.playerByName(playerName)
	if p == nil {
		return fmt.Errorf("%w: %q", ErrUnknownPlayer, playerName)
	}
	p.Score += delta
	return nil
}

// Scores returns a name-to-score view for broadcasts.
func (e *Engine) Scores() map[string]int {
	e.mu.Lock()
	defer e.mu.Unlock()
	scores := make(map[string]int, len(e.players))
	for _, p := range e.players {
		scores[p.Name] = p.Score
	}
	return scores
}

func (e *Engine) playerByName(name string) *Player {
	for _, p := range e.players {
		if p.Name == name {
			return p
		}
	}
	return nil
}

func tierInLadder(tier int, ladder []int) bool {
	for _, t := range ladder {
		if t == tier {
			return true
		}
	}
	return false
}
