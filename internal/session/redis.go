package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/anyquestionsgame/kingofhearts/internal/game"
)

const defaultSessionTTL = 12 * time.Hour

// RedisStore persists sessions as JSON blobs with a TTL. Each key holds one
// full session; the session is small and always written whole.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
	logger zerolog.Logger
}

var _ Store = (*RedisStore)(nil)

func NewRedisStore(client *redis.Client, ttl time.Duration, logger zerolog.Logger) *RedisStore {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &RedisStore{
		client: client,
		ttl:    ttl,
		logger: logger.With().Str("component", "session_store").Logger(),
	}
}

func (s *RedisStore) key(id string) string {
	return "session:" + id
}

func (s *RedisStore) Get(ctx context.Context, id string) (game.SessionState, error) {
	data, err := s.client.Get(ctx, s.key(id)).Bytes()
	if err == redis.Nil {
		return game.SessionState{}, ErrNotFound
	}
	if err != nil {
		return game.SessionState{}, fmt.Errorf("get session: %w", err)
	}

	var state game.SessionState
	if err := json.Unmarshal(data, &state); err != nil {
		return game.SessionState{}, fmt.Errorf("unmarshal session: %w", err)
	}
	return state, nil
}

func (s *RedisStore) Put(ctx context.Context, state game.SessionState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := s.client.Set(ctx, s.key(state.ID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("put session: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, s.key(id)).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
