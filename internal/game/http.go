package game

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	httperrors "github.com/anyquestionsgame/kingofhearts/pkg/http/errors"
)

// HTTPHandlers drives the round engine over REST: one endpoint per state
// transition, routed under /v1/games/{id}/.
type HTTPHandlers struct {
	manager *Manager
	logger  zerolog.Logger
}

func NewHTTPHandlers(manager *Manager, logger zerolog.Logger) *HTTPHandlers {
	return &HTTPHandlers{
		manager: manager,
		logger:  logger.With().Str("component", "game_http").Logger(),
	}
}

// Games routes /v1/games/{id}/{action}.
func (h *HTTPHandlers) Games(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/v1/games/")
	parts := strings.SplitN(rest, "/", 2)
	if len(parts) != 2 || parts[0] == "" {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "expected /v1/games/{id}/{action}")
		return
	}
	id, action := parts[0], parts[1]

	s, err := h.manager.Acquire(r.Context(), id)
	if err != nil {
		h.logger.Warn().Err(err).Str("session_id", id).Msg("session acquire failed")
		httperrors.RespondNotFound(w, httperrors.ErrCodeSessionNotFound, "no such session")
		return
	}

	if action == "state" && r.Method == http.MethodGet {
		h.state(w, s)
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	switch action {
	case "category":
		h.selectCategory(w, r, s)
	case "points":
		h.selectPoints(w, r, s)
	case "question":
		h.question(w, r, s)
	case "reveal":
		h.reveal(w, r, s)
	case "steal":
		h.steal(w, r, s)
	case "resolve":
		h.resolve(w, r, s)
	case "advance":
		h.advance(w, r, s)
	case "wager":
		h.wager(w, r, s)
	case "wager-resolve":
		h.wagerResolve(w, r, s)
	default:
		httperrors.RespondNotFound(w, httperrors.ErrCodeNotFound, "unknown action")
	}
}

func (h *HTTPHandlers) state(w http.ResponseWriter, s *Session) {
	engine := s.Engine()
	h.respondJSON(w, http.StatusOK, map[string]any{
		"state":         engine.State(),
		"round":         engine.Round(),
		"currentPlayer": engine.CurrentPlayer().Name,
		"ladder":        engine.LadderPoints(),
		"scores":        engine.Scores(),
		"roundComplete": engine.IsRoundComplete(),
	})
}

func (h *HTTPHandlers) selectCategory(w http.ResponseWriter, r *http.Request, s *Session) {
	var req struct {
		Topic string `json:"topic"`
	}
	if !h.decode(w, r, &req) {
		return
	}
	if err := s.Engine().SelectCategory(req.Topic); err != nil {
		h.respondGameError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]any{"state": s.Engine().State()})
}

func (h *HTTPHandlers) selectPoints(w http.ResponseWriter, r *http.Request, s *Session) {
	var req struct {
		Topic  string `json:"topic"`
		Points int    `json:"points"`
	}
	if !h.decode(w, r, &req) {
		return
	}
	if err := s.Engine().SelectPointValue(req.Topic, req.Points); err != nil {
		h.respondGameError(w, err)
		return
	}
	// The asked record changed; write it out before the question is shown.
	h.manager.Persist(r.Context(), s)
	h.respondJSON(w, http.StatusOK, map[string]any{"state": s.Engine().State()})
}

func (h *HTTPHandlers) question(w http.ResponseWriter, r *http.Request, s *Session) {
	q, err := s.FetchQuestion(r.Context())
	if err != nil {
		h.respondGameError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, q)
}

func (h *HTTPHandlers) reveal(w http.ResponseWriter, r *http.Request, s *Session) {
	var req struct {
		Expert string `json:"expert"`
	}
	if !h.decode(w, r, &req) {
		return
	}
	if err := s.Engine().Reveal(req.Expert); err != nil {
		h.respondGameError(w, err)
		return
	}
	qc, _ := s.Engine().Current()
	h.respondJSON(w, http.StatusOK, map[string]any{
		"state":  s.Engine().State(),
		"expert": qc.ExpertName,
	})
}

func (h *HTTPHandlers) steal(w http.ResponseWriter, r *http.Request, s *Session) {
	var req struct {
		Attempted bool `json:"attempted"`
	}
	if !h.decode(w, r, &req) {
		return
	}
	if err := s.Engine().DecideSteal(req.Attempted); err != nil {
		h.respondGameError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]any{"state": s.Engine().State()})
}

func (h *HTTPHandlers) resolve(w http.ResponseWriter, r *http.Request, s *Session) {
	var req struct {
		Outcome Outcome `json:"outcome"`
	}
	if !h.decode(w, r, &req) {
		return
	}
	deltas, err := s.Engine().Resolve(req.Outcome)
	if err != nil {
		h.respondGameError(w, err)
		return
	}

	h.manager.Persist(r.Context(), s)
	h.manager.NotifyScores(s)
	if s.Engine().State() == StateRoundComplete {
		h.manager.NotifyRoundComplete(s)
	}

	h.respondJSON(w, http.StatusOK, map[string]any{
		"originalDelta": deltas.Original,
		"expertDelta":   deltas.Expert,
		"scores":        s.Engine().Scores(),
		"state":         s.Engine().State(),
	})
}

func (h *HTTPHandlers) advance(w http.ResponseWriter, r *http.Request, s *Session) {
	if err := s.Engine().AdvanceRound(); err != nil {
		h.respondGameError(w, err)
		return
	}
	h.manager.Persist(r.Context(), s)
	h.respondJSON(w, http.StatusOK, map[string]any{
		"round": s.Engine().Round(),
		"state": s.Engine().State(),
	})
}

func (h *HTTPHandlers) wager(w http.ResponseWriter, r *http.Request, s *Session) {
	var req struct {
		Player string `json:"player"`
		Amount int    `json:"amount"`
	}
	if !h.decode(w, r, &req) {
		return
	}
	wager, err := s.SubmitWager(req.Player, req.Amount)
	if err != nil {
		h.respondGameError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, wager)
}

func (h *HTTPHandlers) wagerResolve(w http.ResponseWriter, r *http.Request, s *Session) {
	var req struct {
		Player  string `json:"player"`
		Correct bool   `json:"correct"`
	}
	if !h.decode(w, r, &req) {
		return
	}
	delta, err := s.ResolveWager(req.Player, req.Correct)
	if err != nil {
		h.respondGameError(w, err)
		return
	}

	h.manager.Persist(r.Context(), s)
	h.manager.NotifyScores(s)

	h.respondJSON(w, http.StatusOK, map[string]any{
		"delta":  delta,
		"scores": s.Engine().Scores(),
	})
}

func (h *HTTPHandlers) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Invalid JSON payload")
		return false
	}
	return true
}

// respondGameError maps engine contract violations to 409s so caller bugs
// fail loudly instead of being absorbed.
func (h *HTTPHandlers) respondGameError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidSelection):
		httperrors.RespondError(w, http.StatusConflict, httperrors.ErrCodeInvalidSelection, err.Error())
	case errors.Is(err, ErrWrongState):
		httperrors.RespondError(w, http.StatusConflict, httperrors.ErrCodeConflict, err.Error())
	case errors.Is(err, ErrWagerLocked), errors.Is(err, ErrWagerResolved):
		httperrors.RespondError(w, http.StatusConflict, httperrors.ErrCodeWagerLocked, err.Error())
	case errors.Is(err, ErrUnknownPlayer):
		httperrors.RespondBadRequest(w, httperrors.ErrCodeValidationFailed, err.Error())
	default:
		h.logger.Error().Err(err).Msg("unexpected gameplay error")
		httperrors.RespondInternalError(w, "internal error")
	}
}

func (h *HTTPHandlers) respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error().Err(err).Msg("encode response failed")
	}
}
