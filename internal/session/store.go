package session

import (
	"context"
	"errors"

	"github.com/anyquestionsgame/kingofhearts/internal/game"
)

// ErrNotFound is returned when no session exists for an ID.
var ErrNotFound = errors.New("session not found")

// Store persists the session shape between requests. Durability is not
// guaranteed; a lost session means a restarted game, nothing worse.
type Store interface {
	Get(ctx context.Context, id string) (game.SessionState, error)
	Put(ctx context.Context, state game.SessionState) error
	Delete(ctx context.Context, id string) error
}
