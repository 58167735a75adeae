package config

import (
	"context"
	"log/slog"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string `env:"PORT,      default=8080"`
	Env       string `env:"ENV,       default=development"`
	JWTSecret string `env:"JWT_SECRET"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`

	Mongo   MongoConfig
	Redis   RedisConfig
	Courier CourierConfig
	Refresh RefreshConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=courier_gateway"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// CourierConfig carries deployment-level courier endpoints. Base URLs are only
// overridden in staging and tests; the adapters default to production when
// these are empty.
type CourierConfig struct {
	FardaBaseURL string        `env:"FARDA_BASE_URL"`
	TransBaseURL string        `env:"TRANS_BASE_URL"`
	RoyalBaseURL string        `env:"ROYAL_BASE_URL"`
	Timeout      time.Duration `env:"COURIER_TIMEOUT, default=30s"`
}

// RefreshConfig controls the background tracking refresh loop.
type RefreshConfig struct {
	Workers  int           `env:"REFRESH_WORKERS,  default=4"`
	Interval time.Duration `env:"REFRESH_INTERVAL, default=15m"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(logger *slog.Logger) *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		logger.Error("Failed to load configuration", "error", err)
		panic(err)
	}
	return &cfg
}
