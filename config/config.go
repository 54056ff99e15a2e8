package config

import (
	"log"
	"os"
	"strings"
	"time"
)

const (
	DefaultSecretKey  = "default-secret-key"
	DefaultDatabase   = "data.db"
	DefaultPort       = "8080"
	DefaultSessionTTL = 24 * time.Hour
)

type Config struct {
	// SecretKey salts the pseudonymous post/comment aliases. Changing it
	// changes every displayed alias.
	SecretKey string
	// DatabasePath is the sqlite file backing the forum.
	DatabasePath string
	Port         string
	FEOrigins    []string
	// RedisURL, when set, moves the session store to redis.
	RedisURL   string
	SessionTTL time.Duration
	GinMode    string
}

// Load reads configuration from the environment. Call after godotenv has had
// a chance to populate it from a .env file.
func Load() *Config {
	secret := os.Getenv("SECRET_KEY")
	if secret == "" {
		log.Println("SECRET_KEY not set, falling back to the development default")
		secret = DefaultSecretKey
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = DefaultPort
	}

	ttl := DefaultSessionTTL
	if raw := os.Getenv("SESSION_TTL"); raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			log.Printf("invalid SESSION_TTL %q, using default: %v", raw, err)
		} else {
			ttl = parsed
		}
	}

	var origins []string
	if raw := os.Getenv("FE_ORIGINS"); raw != "" {
		origins = strings.Split(raw, ";")
	}

	return &Config{
		SecretKey:    secret,
		DatabasePath: DatabasePath(os.Getenv("DATABASE_URL")),
		Port:         port,
		FEOrigins:    origins,
		RedisURL:     os.Getenv("REDIS_URL"),
		SessionTTL:   ttl,
		GinMode:      os.Getenv("GIN_MODE"),
	}
}

// DatabasePath normalizes DATABASE_URL to a plain sqlite file path. The URL
// forms sqlite:///data.db and sqlite://data.db both resolve to data.db.
func DatabasePath(raw string) string {
	if raw == "" {
		return DefaultDatabase
	}
	for _, prefix := range []string{"sqlite:///", "sqlite://", "sqlite:"} {
		if strings.HasPrefix(raw, prefix) {
			trimmed := strings.TrimPrefix(raw, prefix)
			if trimmed == "" {
				return DefaultDatabase
			}
			return trimmed
		}
	}
	return raw
}
