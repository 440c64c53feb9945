package ws

import "encoding/json"

// MessageType constants for the session event stream.
const (
	// Client -> Server
	TypeJoinSession = "join_session"

	// Server -> Client
	TypeGenerationProgress = "generation_progress"
	TypeGenerationDone     = "generation_done"
	TypeScoreUpdate        = "score_update"
	TypeRoundComplete      = "round_complete"
	TypeError              = "error"
	TypePing               = "ping"
	TypePong               = "pong"
)

// Message wraps all WebSocket payloads with type and optional request ID.
type Message struct {
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	RequestID string          `json:"request_id,omitempty"`
}

// Client Messages (incoming)

type JoinSessionPayload struct {
	SessionID string `json:"session_id"`
}

// Server Messages (outgoing)

// GenerationProgressPayload reports bulk pre-generation advancing one group.
type GenerationProgressPayload struct {
	SessionID string `json:"session_id"`
	Completed int    `json:"completed"`
	Total     int    `json:"total"`
}

// GenerationDonePayload closes out a bulk run; failed topics carried
// fallback content and are listed by name.
type GenerationDonePayload struct {
	SessionID      string   `json:"session_id"`
	TotalQuestions int      `json:"total_questions"`
	FailedTopics   []string `json:"failed_topics,omitempty"`
}

// ScoreUpdatePayload broadcasts scores after a question resolves.
type ScoreUpdatePayload struct {
	SessionID string         `json:"session_id"`
	Scores    map[string]int `json:"scores"`
}

// RoundCompletePayload signals a round boundary.
type RoundCompletePayload struct {
	SessionID string `json:"session_id"`
	Round     int    `json:"round"`
}

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
