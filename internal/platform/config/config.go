package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Server captures process-level configuration. Defaults keep the binary
// runnable with no environment at all: in-memory stores and a local uploads
// directory.
type Server struct {
	Addr           string
	AllowedOrigin  string
	UploadsDir     string
	DatabaseURL    string
	RedisURL       string
	SofficePath    string
	ConvertTimeout time.Duration
	ShareCacheTTL  time.Duration
}

// FromEnv builds a Server config from environment variables so main stays
// lean. A .env file is honored when present.
func FromEnv() Server {
	_ = godotenv.Load()

	cfg := Server{
		Addr:           envOr("REDINK_ADDR", ":8080"),
		AllowedOrigin:  envOr("REDINK_ALLOWED_ORIGIN", "http://localhost:5173"),
		UploadsDir:     envOr("REDINK_UPLOADS_DIR", "uploads"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		RedisURL:       os.Getenv("REDIS_URL"),
		SofficePath:    envOr("REDINK_SOFFICE_PATH", "soffice"),
		ConvertTimeout: 90 * time.Second,
		ShareCacheTTL:  5 * time.Minute,
	}

	if raw := os.Getenv("REDINK_CONVERT_TIMEOUT"); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil && d > 0 {
			cfg.ConvertTimeout = d
		}
	}
	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
