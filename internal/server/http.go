package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/anyquestionsgame/kingofhearts/internal/config"
	"github.com/anyquestionsgame/kingofhearts/internal/game"
	"github.com/anyquestionsgame/kingofhearts/internal/session"
	"github.com/anyquestionsgame/kingofhearts/internal/trivia"
)

// NewHTTPServer wires base routes (health, metrics) plus the question and
// session surfaces for the API service.
func NewHTTPServer(
	cfg *config.App,
	logger zerolog.Logger,
	registry *prometheus.Registry,
	triviaHandlers *trivia.HTTPHandlers,
	sessionHandlers *session.HTTPHandlers,
	gameHandlers *game.HTTPHandlers,
	wsHandler http.HandlerFunc,
) *http.Server {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	mux.HandleFunc("/v1/questions/bulk", triviaHandlers.Bulk)
	mux.HandleFunc("/v1/questions/single", triviaHandlers.Single)

	mux.HandleFunc("/v1/sessions", sessionHandlers.Create)
	mux.HandleFunc("/v1/sessions/", sessionHandlers.Sessions)

	mux.HandleFunc("/v1/games/", gameHandlers.Games)

	if wsHandler != nil {
		mux.HandleFunc("/ws/sessions", wsHandler)
	}

	return &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: mux,
	}
}
