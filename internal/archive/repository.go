package archive

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/anyquestionsgame/kingofhearts/internal/trivia"
)

// Repository stores successful question sets in Postgres, keyed by
// normalized topic. The archive is a degradation tier: consulted when live
// generation fails, refreshed when it succeeds. Sets are stored whole as
// JSON; they are read back whole and never queried per question.
type Repository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

var _ trivia.Archive = (*Repository)(nil)

func NewRepository(pool *pgxpool.Pool, logger zerolog.Logger) *Repository {
	return &Repository{
		pool:   pool,
		logger: logger.With().Str("component", "question_archive").Logger(),
	}
}

// Lookup returns the most recently archived set for a topic, or nil on miss.
func (r *Repository) Lookup(ctx context.Context, topic string) (trivia.QuestionSet, error) {
	var payload []byte
	err := r.pool.QueryRow(ctx,
		`SELECT questions FROM question_archive WHERE topic = $1`,
		topic,
	).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("archive lookup: %w", err)
	}

	var set trivia.QuestionSet
	if err := json.Unmarshal(payload, &set); err != nil {
		return nil, fmt.Errorf("archive decode: %w", err)
	}
	return set, nil
}

// Store upserts the set for a topic.
func (r *Repository) Store(ctx context.Context, topic string, set trivia.QuestionSet) error {
	payload, err := json.Marshal(set)
	if err != nil {
		return fmt.Errorf("archive encode: %w", err)
	}

	_, err = r.pool.Exec(ctx,
		`INSERT INTO question_archive (topic, questions, updated_at)
		 VALUES ($1, $2, now())
		 ON CONFLICT (topic) DO UPDATE SET questions = EXCLUDED.questions, updated_at = now()`,
		topic, payload,
	)
	if err != nil {
		return fmt.Errorf("archive store: %w", err)
	}
	return nil
}
