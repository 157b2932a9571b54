// Package config defines configuration parsing and helpers.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds all application configuration parsed from environment variables.
type Config struct {
	AppEnv string `env:"APP_ENV" envDefault:"dev"`
	Port   int    `env:"PORT" envDefault:"8080"`
	// DBURL selects the Postgres submission store; empty keeps submissions in memory.
	DBURL string `env:"DB_URL"`
	// RedisURL enables the recommendation cache when set.
	RedisURL    string        `env:"REDIS_URL"`
	RecCacheTTL time.Duration `env:"REC_CACHE_TTL" envDefault:"10m"`
	// KafkaBrokers enables assessment events when non-empty.
	KafkaBrokers []string `env:"KAFKA_BROKERS" envSeparator:","`
	EventsTopic  string   `env:"EVENTS_TOPIC" envDefault:"assessment-completed"`
	// Catalog files; empty paths use the bundled catalogs.
	QuestionsFile   string `env:"QUESTIONS_FILE"`
	CareersFile     string `env:"CAREERS_FILE"`
	LikertMin       int    `env:"LIKERT_MIN" envDefault:"1"`
	LikertMax       int    `env:"LIKERT_MAX" envDefault:"5"`
	DefaultRecLimit int    `env:"DEFAULT_REC_LIMIT" envDefault:"5"`
	OTLPEndpoint    string `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:""`
	OTELServiceName string `env:"OTEL_SERVICE_NAME" envDefault:"career-leader"`
	AdminUsername   string `env:"ADMIN_USERNAME"`
	// AdminPassword is either plain text or an argon2id$... hash.
	AdminPassword         string        `env:"ADMIN_PASSWORD"`
	CORSAllowOrigins      string        `env:"CORS_ALLOW_ORIGINS" envDefault:"*"`
	RateLimitPerMin       int           `env:"RATE_LIMIT_PER_MIN" envDefault:"60"`
	MaxBodyKB             int64         `env:"MAX_BODY_KB" envDefault:"256"`
	ServerShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" envDefault:"30s"`
	HTTPReadTimeout       time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"15s"`
	HTTPWriteTimeout      time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"30s"`
	HTTPIdleTimeout       time.Duration `env:"HTTP_IDLE_TIMEOUT" envDefault:"60s"`
	DataRetentionDays     int           `env:"DATA_RETENTION_DAYS" envDefault:"90"`
	CleanupInterval       time.Duration `env:"CLEANUP_INTERVAL" envDefault:"24h"`
	// Retry Configuration (database connect, event publishing)
	RetryMaxRetries   int           `env:"RETRY_MAX_RETRIES" envDefault:"3"`
	RetryInitialDelay time.Duration `env:"RETRY_INITIAL_DELAY" envDefault:"200ms"`
	RetryMaxDelay     time.Duration `env:"RETRY_MAX_DELAY" envDefault:"5s"`
	RetryMultiplier   float64       `env:"RETRY_MULTIPLIER" envDefault:"2.0"`
}

// AdminEnabled returns true if admin features should be enabled
func (c Config) AdminEnabled() bool {
	return c.AdminUsername != "" && c.AdminPassword != ""
}

// UsesBundledCatalog reports whether either catalog falls back to the bundled data.
func (c Config) UsesBundledCatalog() bool {
	return c.QuestionsFile == "" || c.CareersFile == ""
}

// Load parses environment variables into a Config.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("op=config.Load: %w", err)
	}
	if cfg.LikertMin >= cfg.LikertMax {
		return Config{}, fmt.Errorf("op=config.Load: LIKERT_MIN (%d) must be below LIKERT_MAX (%d)", cfg.LikertMin, cfg.LikertMax)
	}
	if cfg.DefaultRecLimit <= 0 {
		cfg.DefaultRecLimit = 5
	}
	return cfg, nil
}

// IsDev reports whether the app is running in development mode.
func (c Config) IsDev() bool { return strings.ToLower(c.AppEnv) == "dev" }

// IsProd reports whether the app is running in production mode.
func (c Config) IsProd() bool { return strings.ToLower(c.AppEnv) == "prod" }

// IsTest reports whether the app is running in test mode.
func (c Config) IsTest() bool { return strings.ToLower(c.AppEnv) == "test" }
