package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// RateLimitConfig indicates how many requests are allowed within a given interval.
type RateLimitConfig struct {
	Requests int
	Interval time.Duration
}

// RedisConfig holds connection settings for the result cache.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// EmbeddingConfig selects the embedding provider used for semantic search.
type EmbeddingConfig struct {
	BaseURL string
	Model   string
}

// MatchingConfig tunes the matching and scoring pipeline.
type MatchingConfig struct {
	UseSemanticSearch     bool
	SemanticWeight        float64
	FuzzyWeight           float64
	SimilarityThreshold   float64
	PriceTolerancePercent float64
	MaxResults            int
	DefaultSearchRadiusKm float64
	CacheTTL              time.Duration
}

// Config aggregates application-wide configuration values.
type Config struct {
	DatabaseURL     string
	JWTSecret       string
	Port            string
	TokenTTL        time.Duration
	RateLimitSearch RateLimitConfig
	Redis           RedisConfig
	Embedding       EmbeddingConfig
	Matching        MatchingConfig
}

// Load reads configuration from environment variables and applies sane defaults.
func Load() (*Config, error) {
	cfg := &Config{
		DatabaseURL: os.Getenv("DATABASE_URL"),
		JWTSecret:   getEnv("JWT_SECRET", "dev-secret"),
		Port:        getEnv("PORT", "8080"),
		TokenTTL:    parseDuration(getEnv("JWT_TTL", "24h")),
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       parseInt(getEnv("REDIS_DB", "0"), 0),
		},
		Embedding: EmbeddingConfig{
			BaseURL: getEnv("EMBEDDING_BASE_URL", "http://localhost:11434/v1"),
			Model:   getEnv("EMBEDDING_MODEL", "all-minilm"),
		},
		Matching: MatchingConfig{
			UseSemanticSearch:     parseBool(getEnv("USE_SEMANTIC_SEARCH", "true"), true),
			SemanticWeight:        parseFloat(getEnv("SEMANTIC_WEIGHT", "0.8"), 0.8),
			FuzzyWeight:           parseFloat(getEnv("FUZZY_WEIGHT", "0.2"), 0.2),
			SimilarityThreshold:   parseFloat(getEnv("SIMILARITY_THRESHOLD", "0.25"), 0.25),
			PriceTolerancePercent: parseFloat(getEnv("PRICE_TOLERANCE_PERCENT", "0.15"), 0.15),
			MaxResults:            parseInt(getEnv("MAX_RESULTS", "20"), 20),
			DefaultSearchRadiusKm: parseFloat(getEnv("DEFAULT_SEARCH_RADIUS_KM", "50"), 50),
			CacheTTL:              time.Duration(parseInt(getEnv("CACHE_TTL_SECONDS", "3600"), 3600)) * time.Second,
		},
	}

	rl, err := parseRateLimit(getEnv("RATE_LIMIT_SEARCH", "30/min"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_SEARCH value: %w", err)
	}
	cfg.RateLimitSearch = rl

	if cfg.Matching.MaxResults <= 0 {
		cfg.Matching.MaxResults = 20
	}
	if cfg.Matching.DefaultSearchRadiusKm <= 0 {
		cfg.Matching.DefaultSearchRadiusKm = 50
	}

	return cfg, nil
}

func parseRateLimit(value string) (RateLimitConfig, error) {
	parts := strings.Split(value, "/")
	if len(parts) != 2 {
		return RateLimitConfig{}, fmt.Errorf("expected format <requests>/<interval>, got %q", value)
	}

	requests, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || requests <= 0 {
		return RateLimitConfig{}, fmt.Errorf("invalid request count: %v", parts[0])
	}

	unit := strings.ToLower(strings.TrimSpace(parts[1]))
	var interval time.Duration
	switch unit {
	case "s", "sec", "second", "seconds":
		interval = time.Second
	case "m", "min", "minute", "minutes":
		interval = time.Minute
	case "h", "hr", "hour", "hours":
		interval = time.Hour
	default:
		return RateLimitConfig{}, fmt.Errorf("unsupported interval unit: %s", unit)
	}

	return RateLimitConfig{Requests: requests, Interval: interval}, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return fallback
}

func parseDuration(input string) time.Duration {
	d, err := time.ParseDuration(input)
	if err != nil {
		return 24 * time.Hour
	}
	return d
}

func parseFloat(input string, fallback float64) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(input), 64)
	if err != nil {
		return fallback
	}
	return f
}

func parseInt(input string, fallback int) int {
	i, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil {
		return fallback
	}
	return i
}

func parseBool(input string, fallback bool) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(input))
	if err != nil {
		return fallback
	}
	return b
}
