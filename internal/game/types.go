package game

import "fmt"

// Player is one participant. Scores are signed with no floor; wrong-guess
// penalties can push a player negative.
type Player struct {
	Name      string `json:"name"`
	SelfTopic string `json:"selfTopic"`
	PeerTopic string `json:"peerTopic"`
	Score     int    `json:"score"`
}

// AskedRecord tracks the (topic, tier) pairs consumed in the current round.
// Reset when a new round begins.
type AskedRecord map[string]map[int]bool

func NewAskedRecord() AskedRecord {
	return make(AskedRecord)
}

// Has reports whether the pair was already consumed.
func (r AskedRecord) Has(topic string, tier int) bool {
	return r[topic][tier]
}

// Mark records the pair. Returns false if it was already present.
func (r AskedRecord) Mark(topic string, tier int) bool {
	if r.Has(topic, tier) {
		return false
	}
	tiers, ok := r[topic]
	if !ok {
		tiers = make(map[int]bool)
		r[topic] = tiers
	}
	tiers[tier] = true
	return true
}

// Covers reports whether every tier in ladder is consumed for topic.
func (r AskedRecord) Covers(topic string, ladder []int) bool {
	for _, tier := range ladder {
		if !r.Has(topic, tier) {
			return false
		}
	}
	return true
}

// SessionState is the persisted session shape. The storage mechanism lives
// in internal/session; this package only defines the data.
type SessionState struct {
	ID             string      `json:"id"`
	Players        []Player    `json:"players"`
	CurrentRound   int         `json:"currentRound"`
	QuestionsAsked AskedRecord `json:"questionsAsked"`
	SharedCategory string      `json:"sharedCategory"`
}

// Validate rejects session payloads that cannot drive an engine.
func (s SessionState) Validate() error {
	if len(s.Players) < 2 {
		return fmt.Errorf("need at least 2 players, got %d", len(s.Players))
	}
	seen := make(map[string]bool, len(s.Players))
	for _, p := range s.Players {
		if p.Name == "" {
			return fmt.Errorf("player name must be non-empty")
		}
		if seen[p.Name] {
			return fmt.Errorf("duplicate player name %q", p.Name)
		}
		seen[p.Name] = true
	}
	if s.CurrentRound < 1 || s.CurrentRound > FinalRound {
		return fmt.Errorf("round %d out of range", s.CurrentRound)
	}
	return nil
}
