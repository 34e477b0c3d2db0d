// Package config provides configuration management for studymatch.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Defaults. The similarity threshold matches the resolver contract: a
// nearest-neighbor match at or above it is accepted as canonical.
const (
	DefaultPort                = 8080
	DefaultMaxConns            = 10
	DefaultSimilarityThreshold = 0.83
	DefaultBackfillBatch       = 50
	DefaultEmbeddingModel      = "text-embedding-3-small"
	DefaultEmbeddingDimensions = 1536
	DefaultEmbeddingBaseURL    = "https://api.openai.com/v1"
)

// Config holds the application configuration.
type Config struct {
	// HTTP settings
	Port int

	// Database settings
	DatabaseDSN string
	MaxConns    int

	// Embedding provider settings (OpenAI-compatible REST)
	EmbeddingBaseURL    string
	EmbeddingAPIKey     string
	EmbeddingModel      string
	EmbeddingDimensions int

	// Resolver settings
	SimilarityThreshold float64
	BackfillBatch       int
	HardmapPath         string // empty means the embedded default table

	// Optional Redis synonym cache. When set, the resolver caches into
	// Redis instead of the tag_synonyms table.
	RedisAddr string
}

// Load reads configuration from the environment, merging with defaults.
// A .env file in the working directory is honored when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:                envInt("STUDYMATCH_PORT", DefaultPort),
		DatabaseDSN:         os.Getenv("DATABASE_URL"),
		MaxConns:            envInt("STUDYMATCH_MAX_CONNS", DefaultMaxConns),
		EmbeddingBaseURL:    envStr("EMBEDDING_BASE_URL", DefaultEmbeddingBaseURL),
		EmbeddingAPIKey:     os.Getenv("EMBEDDING_API_KEY"),
		EmbeddingModel:      envStr("EMBEDDING_MODEL", DefaultEmbeddingModel),
		EmbeddingDimensions: envInt("EMBEDDING_DIMENSIONS", DefaultEmbeddingDimensions),
		SimilarityThreshold: envFloat("SIM_THRESHOLD", DefaultSimilarityThreshold),
		BackfillBatch:       envInt("STUDYMATCH_BACKFILL_BATCH", DefaultBackfillBatch),
		HardmapPath:         os.Getenv("STUDYMATCH_HARDMAP_PATH"),
		RedisAddr:           os.Getenv("STUDYMATCH_REDIS_ADDR"),
	}

	return cfg, nil
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}
