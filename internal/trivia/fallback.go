package trivia

import "fmt"

// Fallback templates keyed by tier. Deterministic on the raw topic string so
// a failed generation still yields a playable, judge-adjudicated set.
var fallbackTemplates = map[int]struct {
	question string
	hint     string
}{
	100: {
		question: "Name one thing everybody should know about %s.",
		hint:     "Start with the basics.",
	},
	200: {
		question: "What is a fact about %s that a casual fan would know?",
		hint:     "Think common knowledge, one level deeper.",
	},
	300: {
		question: "Share a detail about %s that would surprise most people.",
		hint:     "Something beyond the obvious.",
	},
	400: {
		question: "What is the most obscure fact you know about %s?",
		hint:     "Dig deep. The table decides if it counts.",
	},
}

const fallbackAnswer = "Any reasonable answer counts; the table judges."

// fallbackSet builds the deterministic question set for a topic. It is the
// terminal error boundary for generation: it never fails.
func fallbackSet(topic string) QuestionSet {
	set := make(QuestionSet, 0, len(Tiers))
	for _, tier := range Tiers {
		tpl := fallbackTemplates[tier]
		set = append(set, Question{
			Topic:        topic,
			DisplayTopic: topic,
			Tier:         tier,
			Text:         fmt.Sprintf(tpl.question, topic),
			Hint:         tpl.hint,
			Answer:       Answer{Display: fallbackAnswer},
			Source:       SourceFallback,
		})
	}
	return set
}
