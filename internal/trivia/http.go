package trivia

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	httperrors "github.com/anyquestionsgame/kingofhearts/pkg/http/errors"
)

// HTTPHandlers provides REST endpoints for question generation.
type HTTPHandlers struct {
	service *Service
	logger  zerolog.Logger
}

func NewHTTPHandlers(service *Service, logger zerolog.Logger) *HTTPHandlers {
	return &HTTPHandlers{
		service: service,
		logger:  logger.With().Str("component", "trivia_http").Logger(),
	}
}

// Bulk handles POST /v1/questions/bulk, the pre-game generation pass over
// every nominated category.
func (h *HTTPHandlers) Bulk(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req BulkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Invalid JSON payload")
		return
	}
	if len(req.Categories) == 0 {
		httperrors.RespondValidationError(w, httperrors.ErrCodeMissingField, "categories is required", "categories")
		return
	}
	for _, cat := range req.Categories {
		if cat.Name == "" {
			httperrors.RespondValidationError(w, httperrors.ErrCodeValidationFailed, "category name must be non-empty", "categories")
			return
		}
	}

	resp := h.service.Bulk(r.Context(), req)
	if len(resp.Errors) > 0 {
		h.logger.Warn().
			Strs("failed", resp.Errors).
			Int("categories", len(req.Categories)).
			Msg("bulk generation finished with fallbacks")
	}

	h.respondJSON(w, http.StatusOK, resp)
}

// Single handles POST /v1/questions/single, on-demand generation for one
// category, used on cache misses during play.
func (h *HTTPHandlers) Single(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req SingleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Invalid JSON payload")
		return
	}
	if req.Category == "" {
		httperrors.RespondValidationError(w, httperrors.ErrCodeMissingField, "category is required", "category")
		return
	}

	h.respondJSON(w, http.StatusOK, h.service.Single(r.Context(), req))
}

func (h *HTTPHandlers) respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error().Err(err).Msg("encode response failed")
	}
}
