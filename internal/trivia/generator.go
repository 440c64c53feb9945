package trivia

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/anyquestionsgame/kingofhearts/internal/llm"
)

// Archive is an optional secondary source of previously generated sets,
// consulted when live generation fails and written to when it succeeds.
type Archive interface {
	Lookup(ctx context.Context, topic string) (QuestionSet, error)
	Store(ctx context.Context, topic string, set QuestionSet) error
}

// Outcome is the two-tier generation result: the set is always playable, and
// Err records the underlying failure when a fallback tier was used.
type Outcome struct {
	Set      QuestionSet
	Fallback bool
	Err      error
}

// Generator produces a four-question set for a topic via a single LLM round
// trip. On any transport, parse or shape failure it degrades first to the
// archive and then to deterministic templates; it never returns an error to
// gameplay.
type Generator struct {
	completer llm.Completer
	namer     *Namer
	archive   Archive
	metrics   *Metrics
	logger    zerolog.Logger
}

func NewGenerator(completer llm.Completer, namer *Namer, archive Archive, metrics *Metrics, logger zerolog.Logger) *Generator {
	return &Generator{
		completer: completer,
		namer:     namer,
		archive:   archive,
		metrics:   metrics,
		logger:    logger.With().Str("component", "question_generator").Logger(),
	}
}

// Generate collapses the outcome to its question set.
func (g *Generator) Generate(ctx context.Context, topic string, gc GenContext) QuestionSet {
	return g.GenerateOutcome(ctx, topic, gc).Set
}

// GenerateOutcome runs the full degradation chain for one topic. No retries:
// pacing across topics belongs to the batch scheduler, not here.
func (g *Generator) GenerateOutcome(ctx context.Context, topic string, gc GenContext) Outcome {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		err := fmt.Errorf("empty topic")
		g.metrics.GenerationFallback.WithLabelValues("template").Inc()
		return Outcome{Set: fallbackSet(topic), Fallback: true, Err: err}
	}

	set, err := g.generateOnce(ctx, topic)
	if err == nil {
		g.metrics.GenerationSuccess.Inc()
		g.attachDisplayName(ctx, topic, set)
		if g.archive != nil {
			if storeErr := g.archive.Store(ctx, NormalizeTopic(topic), set); storeErr != nil {
				g.logger.Warn().Err(storeErr).Str("topic", topic).Msg("archive store failed")
			}
		}
		return Outcome{Set: set}
	}

	g.logger.Warn().Err(err).Str("topic", topic).Msg("generation failed, degrading")

	if g.archive != nil {
		archived, lookupErr := g.archive.Lookup(ctx, NormalizeTopic(topic))
		if lookupErr != nil {
			g.logger.Warn().Err(lookupErr).Str("topic", topic).Msg("archive lookup failed")
		} else if validSet(archived) {
			g.metrics.GenerationFallback.WithLabelValues("archive").Inc()
			g.attachDisplayName(ctx, topic, archived)
			return Outcome{Set: archived, Fallback: true, Err: err}
		}
	}

	g.metrics.GenerationFallback.WithLabelValues("template").Inc()
	return Outcome{Set: fallbackSet(topic), Fallback: true, Err: err}
}

func (g *Generator) generateOnce(ctx context.Context, topic string) (QuestionSet, error) {
	messages := make([]llm.Message, 0, len(questionExamples)+1)
	messages = append(messages, questionExamples...)
	messages = append(messages, llm.Message{Role: "user", Content: questionUserPrompt(topic)})

	text, err := g.completer.Complete(ctx, llm.CompletionRequest{
		System:   questionSystemPrompt,
		Messages: messages,
	})
	if err != nil {
		return nil, err
	}

	return parseQuestionSet(topic, text)
}

// attachDisplayName decorates every question with the fun display label.
// Namer failures fall back to the raw topic inside the namer itself.
func (g *Generator) attachDisplayName(ctx context.Context, topic string, set QuestionSet) {
	display := g.namer.Name(ctx, topic)
	for i := range set {
		set[i].DisplayTopic = display
	}
}

type wireAnswer struct {
	Display  string   `json:"display"`
	Variants []string `json:"variants"`
}

type wireQuestion struct {
	Points   int        `json:"points"`
	Question string     `json:"question"`
	Hint     string     `json:"hint"`
	Answer   wireAnswer `json:"answer"`
}

type wireResponse struct {
	Questions []wireQuestion `json:"questions"`
}

// parseQuestionSet validates the strict-JSON contract: exactly one question
// per ladder tier, each with text and a displayable answer.
func parseQuestionSet(topic, text string) (QuestionSet, error) {
	var resp wireResponse
	if err := json.Unmarshal([]byte(stripCodeFence(text)), &resp); err != nil {
		return nil, fmt.Errorf("decode question payload: %w", err)
	}
	if len(resp.Questions) != len(Tiers) {
		return nil, fmt.Errorf("expected %d questions, got %d", len(Tiers), len(resp.Questions))
	}

	byTier := make(map[int]wireQuestion, len(resp.Questions))
	for _, q := range resp.Questions {
		if _, dup := byTier[q.Points]; dup {
			return nil, fmt.Errorf("duplicate %d-point question", q.Points)
		}
		byTier[q.Points] = q
	}

	set := make(QuestionSet, 0, len(Tiers))
	for _, tier := range Tiers {
		q, ok := byTier[tier]
		if !ok {
			return nil, fmt.Errorf("missing %d-point question", tier)
		}
		if strings.TrimSpace(q.Question) == "" {
			return nil, fmt.Errorf("empty question text at %d points", tier)
		}
		if strings.TrimSpace(q.Answer.Display) == "" {
			return nil, fmt.Errorf("empty answer at %d points", tier)
		}
		set = append(set, Question{
			Topic:        topic,
			DisplayTopic: topic,
			Tier:         tier,
			Text:         strings.TrimSpace(q.Question),
			Hint:         strings.TrimSpace(q.Hint),
			Answer: Answer{
				Display:  strings.TrimSpace(q.Answer.Display),
				Variants: q.Answer.Variants,
			},
			Source: SourceLLM,
		})
	}
	return set, nil
}

// stripCodeFence tolerates models that wrap JSON in a markdown fence.
func stripCodeFence(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	return strings.TrimSpace(text)
}
