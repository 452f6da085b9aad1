package app

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/yungbote/daghub-backend/internal/clients/redis"
	"github.com/yungbote/daghub-backend/internal/data/db"
	"github.com/yungbote/daghub-backend/internal/observability"
	"github.com/yungbote/daghub-backend/internal/platform/envutil"
	"github.com/yungbote/daghub-backend/internal/platform/logger"
)

type Config struct {
	Port           string
	JWTSecretKey   string
	JWTIssuer      string
	AllowedOrigins []string

	QueryLogBuffer       int
	AggregateConcurrency int
	ShutdownTimeout      time.Duration

	DB    db.Config
	Redis redis.Config
	Otel  observability.OtelConfig
}

// LoadDotEnv reads .env (or ENV_FILE) into the process environment. Variables
// already set win.
func LoadDotEnv() {
	path := strings.TrimSpace(os.Getenv("ENV_FILE"))
	if path == "" {
		path = ".env"
	}
	if _, err := os.Stat(path); err == nil {
		_ = godotenv.Load(path)
	}
}

func LoadConfig(log *logger.Logger) Config {
	return Config{
		Port:                 envutil.String("PORT", "8080", log),
		JWTSecretKey:         envutil.String("JWT_SECRET_KEY", "", log),
		JWTIssuer:            envutil.String("JWT_ISSUER", "daghub", log),
		AllowedOrigins:       envutil.List("CORS_ALLOWED_ORIGINS", nil, log),
		QueryLogBuffer:       envutil.Int("QUERY_LOG_BUFFER", 1024, log),
		AggregateConcurrency: envutil.Int("AGGREGATE_CONCURRENCY", 4, log),
		ShutdownTimeout:      envutil.Duration("SHUTDOWN_TIMEOUT", 15*time.Second, log),
		DB:                   db.ConfigFromEnv(log),
		Redis:                redis.ConfigFromEnv(log),
		Otel:                 observability.OtelConfigFromEnv(log),
	}
}

// LogMode reads LOG_MODE before a logger exists.
func LogMode() string {
	mode := strings.TrimSpace(os.Getenv("LOG_MODE"))
	if mode == "" {
		return "development"
	}
	return mode
}
