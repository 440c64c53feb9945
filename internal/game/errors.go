package game

import "errors"

// Contract violations are caller bugs and fail loudly; they are never
// swallowed the way generation failures are.
var (
	ErrInvalidSelection = errors.New("invalid selection")
	ErrWrongState       = errors.New("operation not valid in current state")
	ErrUnknownPlayer    = errors.New("unknown player")
	ErrWagerLocked      = errors.New("wager already locked")
	ErrWagerResolved    = errors.New("wager already resolved")
)
