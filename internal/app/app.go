package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/anyquestionsgame/kingofhearts/internal/archive"
	"github.com/anyquestionsgame/kingofhearts/internal/config"
	"github.com/anyquestionsgame/kingofhearts/internal/game"
	"github.com/anyquestionsgame/kingofhearts/internal/llm"
	"github.com/anyquestionsgame/kingofhearts/internal/logging"
	"github.com/anyquestionsgame/kingofhearts/internal/server"
	"github.com/anyquestionsgame/kingofhearts/internal/session"
	"github.com/anyquestionsgame/kingofhearts/internal/trivia"
	ws "github.com/anyquestionsgame/kingofhearts/pkg/http/ws"
)

// Application aggregates shared infrastructure (cache, stores, HTTP server).
type Application struct {
	cfg    *config.App
	logger zerolog.Logger

	pool  *pgxpool.Pool
	redis *redis.Client
	http  *http.Server
}

// New bootstraps config, logger, optional Postgres/Redis and the HTTP server.
func New(ctx context.Context, cfg *config.App) (*Application, error) {
	logger := logging.New(cfg.Name, cfg.Env)
	logger.Info().Msg("starting application bootstrap")

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := trivia.NewMetrics(registry)

	completer := llm.NewClient(llm.Config{
		APIKey:    cfg.LLM.APIKey,
		Model:     cfg.LLM.Model,
		MaxTokens: cfg.LLM.MaxTokens,
		Timeout:   cfg.LLM.Timeout,
	}, logger)
	if cfg.LLM.APIKey == "" {
		logger.Warn().Msg("ANTHROPIC_API_KEY not set; all generation will degrade to fallbacks")
	}

	// Question archive is optional; without it the generator degrades
	// straight from LLM failure to template fallback.
	var pool *pgxpool.Pool
	var questionArchive trivia.Archive
	if cfg.Postgres.Enabled() {
		connString := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s pool_max_conns=10",
			cfg.Postgres.Host, cfg.Postgres.Port, cfg.Postgres.User, cfg.Postgres.Password, cfg.Postgres.Database, cfg.Postgres.SSLMode)
		var err error
		pool, err = pgxpool.New(ctx, connString)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		questionArchive = archive.NewRepository(pool, logger)
		logger.Info().Msg("question archive enabled")
	}

	hub := ws.NewHub(logger)
	events := newHubEvents(hub, logger)

	namer := trivia.NewNamer(completer, metrics, logger)
	generator := trivia.NewGenerator(completer, namer, questionArchive, metrics, logger)
	cache := trivia.NewCache()
	triviaSvc := trivia.NewService(generator, cache, trivia.ServiceOptions{
		GroupSize:       cfg.Batch.GroupSize,
		InterGroupDelay: cfg.Batch.InterGroupDelay,
		Notifier:        events,
	}, metrics, logger)

	// Session store: Redis when configured, in-memory otherwise.
	var redisClient *redis.Client
	var sessionStore session.Store
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
		})
		sessionStore = session.NewRedisStore(redisClient, cfg.Redis.TTL, logger)
		logger.Info().Str("addr", cfg.Redis.Addr).Msg("redis session store enabled")
	} else {
		sessionStore = session.NewMemoryStore()
		logger.Warn().Msg("REDIS_ADDR not set; sessions held in memory only")
	}

	ladders := game.LadderConfig{
		RoundOneBigGroupMin: cfg.Game.RoundOneBigGroupMin,
		RoundTwoBigGroupMin: cfg.Game.RoundTwoBigGroupMin,
	}
	gameManager := game.NewManager(sessionStore, triviaSvc, ladders, events, logger)

	httpServer := server.NewHTTPServer(
		cfg,
		logger,
		registry,
		trivia.NewHTTPHandlers(triviaSvc, logger),
		session.NewHTTPHandlers(sessionStore, logger),
		game.NewHTTPHandlers(gameManager, logger),
		server.NewWSHandler(hub, logger),
	)

	return &Application{
		cfg:    cfg,
		logger: logger,
		pool:   pool,
		redis:  redisClient,
		http:   httpServer,
	}, nil
}

// Run starts the HTTP server and blocks until shutdown.
func (a *Application) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info().Str("addr", a.cfg.HTTPAddr).Msg("http server listening")
		if err := a.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case sig := <-stop:
		a.logger.Info().Str("signal", sig.String()).Msg("shutting down")
	case <-ctx.Done():
		a.logger.Info().Msg("context cancelled, shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.GracefulShutdownTimeout)
	defer cancel()

	if err := a.http.Shutdown(shutdownCtx); err != nil {
		a.logger.Error().Err(err).Msg("http shutdown failed")
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Warn().Err(err).Msg("redis close failed")
		}
	}
	if a.pool != nil {
		a.pool.Close()
	}

	a.logger.Info().Msg("shutdown complete")
	return nil
}
