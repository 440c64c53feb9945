package app

import (
	"encoding/json"

	"github.com/rs/zerolog"

	"github.com/anyquestionsgame/kingofhearts/internal/game"
	"github.com/anyquestionsgame/kingofhearts/internal/trivia"
	ws "github.com/anyquestionsgame/kingofhearts/pkg/http/ws"
)

// hubEvents adapts the websocket hub to the game and generation event sinks.
type hubEvents struct {
	hub    *ws.Hub
	logger zerolog.Logger
}

var (
	_ game.EventSink  = (*hubEvents)(nil)
	_ trivia.Notifier = (*hubEvents)(nil)
)

func newHubEvents(hub *ws.Hub, logger zerolog.Logger) *hubEvents {
	return &hubEvents{hub: hub, logger: logger.With().Str("component", "hub_events").Logger()}
}

func (e *hubEvents) ScoreUpdate(sessionID string, scores map[string]int) {
	e.broadcast(sessionID, ws.TypeScoreUpdate, ws.ScoreUpdatePayload{
		SessionID: sessionID,
		Scores:    scores,
	})
}

func (e *hubEvents) GenerationProgress(sessionID string, completed, total int) {
	e.broadcast(sessionID, ws.TypeGenerationProgress, ws.GenerationProgressPayload{
		SessionID: sessionID,
		Completed: completed,
		Total:     total,
	})
}

func (e *hubEvents) GenerationDone(sessionID string, totalQuestions int, failedTopics []string) {
	e.broadcast(sessionID, ws.TypeGenerationDone, ws.GenerationDonePayload{
		SessionID:      sessionID,
		TotalQuestions: totalQuestions,
		FailedTopics:   failedTopics,
	})
}

func (e *hubEvents) RoundComplete(sessionID string, round int) {
	e.broadcast(sessionID, ws.TypeRoundComplete, ws.RoundCompletePayload{
		SessionID: sessionID,
		Round:     round,
	})
}

func (e *hubEvents) broadcast(sessionID, msgType string, payload any) {
	raw, err := json.Marshal(payload)
	if err != nil {
		e.logger.Error().Err(err).Str("type", msgType).Msg("encode event failed")
		return
	}
	e.hub.BroadcastToSession(sessionID, ws.Message{Type: msgType, Payload: raw})
}
