package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Storage backends selectable via DOCROUTE_STORAGE.
const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

// Server captures process-level configuration.
type Server struct {
	Addr           string
	StorageBackend string
	DatabaseURL    string
	RedisURL       string
	JWTSigningKey  string
	TokenTTL       time.Duration
}

// FromEnv builds a Server config from environment variables so main stays
// lean. A .env file in the working directory is loaded first when present.
func FromEnv() (Server, error) {
	// Missing .env is the normal production case.
	_ = godotenv.Load()

	addr := os.Getenv("DOCROUTE_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	backend := os.Getenv("DOCROUTE_STORAGE")
	if backend == "" {
		backend = BackendMemory
	}
	switch backend {
	case BackendMemory, BackendRedis, BackendPostgres:
	default:
		return Server{}, fmt.Errorf("unknown DOCROUTE_STORAGE %q", backend)
	}

	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		// Development default - must be overridden in production.
		jwtSigningKey = "dev-secret-key-change-in-production"
	}

	tokenTTL := 12 * time.Hour
	if raw := os.Getenv("DOCROUTE_TOKEN_TTL"); raw != "" {
		ttl, err := time.ParseDuration(raw)
		if err != nil {
			return Server{}, fmt.Errorf("invalid DOCROUTE_TOKEN_TTL %q: %w", raw, err)
		}
		tokenTTL = ttl
	}

	return Server{
		Addr:           addr,
		StorageBackend: backend,
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		RedisURL:       os.Getenv("REDIS_URL"),
		JWTSigningKey:  jwtSigningKey,
		TokenTTL:       tokenTTL,
	}, nil
}
