package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
)

// App holds core runtime configuration shared across services.
type App struct {
	Name                    string        `env:"APP_NAME" envDefault:"kingofhearts"`
	Env                     string        `env:"APP_ENV" envDefault:"development"`
	HTTPAddr                string        `env:"HTTP_ADDR" envDefault:"0.0.0.0:8080"`
	GracefulShutdownTimeout time.Duration `env:"GRACEFUL_SHUTDOWN_SECONDS" envDefault:"20s"`

	Postgres Postgres
	Redis    Redis
	LLM      LLM
	Batch    Batch
	Game     Game
}

// Postgres captures connection info for the question archive database.
// The archive is optional: an empty host disables it entirely.
type Postgres struct {
	Host     string `env:"PG_HOST"`
	Port     int    `env:"PG_PORT" envDefault:"5432"`
	User     string `env:"PG_USER"`
	Password string `env:"PG_PASSWORD"`
	Database string `env:"PG_DATABASE"`
	SSLMode  string `env:"PG_SSL_MODE" envDefault:"disable"`
}

// Enabled reports whether archive storage is configured.
func (p Postgres) Enabled() bool {
	return p.Host != ""
}

// Redis holds session store configuration. Optional: an empty addr
// falls back to the in-memory session store.
type Redis struct {
	Addr     string        `env:"REDIS_ADDR"`
	DB       int           `env:"REDIS_DB" envDefault:"0"`
	PoolSize int           `env:"REDIS_POOL_SIZE" envDefault:"20"`
	TTL      time.Duration `env:"SESSION_TTL" envDefault:"12h"`
}

// LLM configures the completion service used for question generation.
type LLM struct {
	APIKey    string        `env:"ANTHROPIC_API_KEY"`
	Model     string        `env:"LLM_MODEL" envDefault:"claude-sonnet-4-20250514"`
	MaxTokens int64         `env:"LLM_MAX_TOKENS" envDefault:"2048"`
	Timeout   time.Duration `env:"LLM_TIMEOUT" envDefault:"20s"`
}

// Batch governs bulk generation pacing against upstream rate limits.
type Batch struct {
	GroupSize       int           `env:"BATCH_GROUP_SIZE" envDefault:"2"`
	InterGroupDelay time.Duration `env:"BATCH_INTER_GROUP_DELAY" envDefault:"500ms"`
}

// Game groups the player-count-sensitive point ladder thresholds.
// These are rules data, not protocol; change with care.
type Game struct {
	RoundOneBigGroupMin int `env:"ROUND1_BIG_GROUP_MIN" envDefault:"5"`
	RoundTwoBigGroupMin int `env:"ROUND2_BIG_GROUP_MIN" envDefault:"7"`
}

// Load parses environment variables into App config.
func Load() (*App, error) {
	cfg := &App{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}
