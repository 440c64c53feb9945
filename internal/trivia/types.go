package trivia

import "strings"

// Tiers is the fixed difficulty ladder for a generated set. Tier values
// double as the point values offered during play.
var Tiers = []int{100, 200, 300, 400}

// Source constants for where a question came from.
const (
	SourceLLM      = "llm"
	SourceArchive  = "archive"
	SourceFallback = "fallback"
)

// Answer holds the canonical display answer plus variants a judge may accept.
type Answer struct {
	Display  string   `json:"display"`
	Variants []string `json:"variants,omitempty"`
}

// Question is a single trivia question for one (topic, tier) pair.
// Immutable after creation.
type Question struct {
	Topic        string `json:"topic"`
	DisplayTopic string `json:"displayTopic"`
	Tier         int    `json:"tier"`
	Text         string `json:"text"`
	Hint         string `json:"hint,omitempty"`
	Answer       Answer `json:"answer"`
	Source       string `json:"source"`
}

// QuestionSet is exactly one question per tier, ordered ascending.
type QuestionSet []Question

// GenContext disambiguates cache entries when the same topic string is
// nominated by different players. It never affects question content.
type GenContext struct {
	PlayerName string
	ExpertName string
}

// NormalizeTopic produces the canonical form used for cache and memo keys.
func NormalizeTopic(topic string) string {
	return strings.ToLower(strings.TrimSpace(topic))
}

// CacheKey derives the generation cache key from topic plus context.
func CacheKey(topic string, gc GenContext) string {
	return NormalizeTopic(topic) + "|" + gc.PlayerName + "|" + gc.ExpertName
}

// validSet reports whether qs covers every required tier exactly once with
// non-empty question text and answer display.
func validSet(qs QuestionSet) bool {
	if len(qs) != len(Tiers) {
		return false
	}
	seen := make(map[int]bool, len(Tiers))
	for _, q := range qs {
		if strings.TrimSpace(q.Text) == "" || strings.TrimSpace(q.Answer.Display) == "" {
			return false
		}
		seen[q.Tier] = true
	}
	for _, tier := range Tiers {
		if !seen[tier] {
			return false
		}
	}
	return true
}
