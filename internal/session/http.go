package session

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/anyquestionsgame/kingofhearts/internal/game"
	httperrors "github.com/anyquestionsgame/kingofhearts/pkg/http/errors"
)

// HTTPHandlers serves the persisted session shape over REST.
type HTTPHandlers struct {
	store  Store
	logger zerolog.Logger
}

func NewHTTPHandlers(store Store, logger zerolog.Logger) *HTTPHandlers {
	return &HTTPHandlers{
		store:  store,
		logger: logger.With().Str("component", "session_http").Logger(),
	}
}

// Sessions routes /v1/sessions/{id}: GET fetches, PUT upserts.
func (h *HTTPHandlers) Sessions(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/v1/sessions/")
	if id == "" || strings.Contains(id, "/") {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "session id required")
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.get(w, r, id)
	case http.MethodPut:
		h.put(w, r, id)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// Create handles POST /v1/sessions, minting an ID for a new session.
func (h *HTTPHandlers) Create(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var state game.SessionState
	if err := json.NewDecoder(r.Body).Decode(&state); err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Invalid JSON payload")
		return
	}
	if state.CurrentRound == 0 {
		state.CurrentRound = game.RoundSelf
	}
	if err := state.Validate(); err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeValidationFailed, err.Error())
		return
	}

	state.ID = uuid.NewString()
	if state.QuestionsAsked == nil {
		state.QuestionsAsked = game.NewAskedRecord()
	}
	if err := h.store.Put(r.Context(), state); err != nil {
		h.logger.Error().Err(err).Msg("create session failed")
		httperrors.RespondInternalError(w, "failed to store session")
		return
	}

	h.respondJSON(w, http.StatusCreated, state)
}

func (h *HTTPHandlers) get(w http.ResponseWriter, r *http.Request, id string) {
	state, err := h.store.Get(r.Context(), id)
	if errors.Is(err, ErrNotFound) {
		httperrors.RespondNotFound(w, httperrors.ErrCodeSessionNotFound, "no such session")
		return
	}
	if err != nil {
		h.logger.Error().Err(err).Str("session_id", id).Msg("get session failed")
		httperrors.RespondInternalError(w, "failed to load session")
		return
	}
	h.respondJSON(w, http.StatusOK, state)
}

func (h *HTTPHandlers) put(w http.ResponseWriter, r *http.Request, id string) {
	var state game.SessionState
	if err := json.NewDecoder(r.Body).Decode(&state); err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Invalid JSON payload")
		return
	}
	state.ID = id
	if err := state.Validate(); err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeValidationFailed, err.Error())
		return
	}

	if err := h.store.Put(r.Context(), state); err != nil {
		h.logger.Error().Err(err).Str("session_id", id).Msg("put session failed")
		httperrors.RespondInternalError(w, "failed to store session")
		return
	}
	h.respondJSON(w, http.StatusOK, state)
}

func (h *HTTPHandlers) respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error().Err(err).Msg("encode response failed")
	}
}
