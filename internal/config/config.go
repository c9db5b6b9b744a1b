package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv         string
	Port           string
	AllowedOrigins string

	DatabaseURL string
	RedisURL    string

	MeiliSearchHost string
	MeiliMasterKey  string

	JWTSecret      string
	JWTTTL         time.Duration
	SubmitCooldown time.Duration

	// Ranked size per list type; positions beyond it score zero points.
	ListMaxRanked map[string]int
}

func Load() (*Config, error) {
	// Don't fail if .env doesn't exist (might be prod env vars)
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:         getEnv("APP_ENV", "development"),
		Port:           getEnv("PORT", "8080"),
		AllowedOrigins: getEnv("ALLOWED_ORIGINS", "http://localhost:3000"),

		DatabaseURL: os.Getenv("DATABASE_URL"),
		RedisURL:    os.Getenv("REDIS_URL"),

		MeiliSearchHost: getEnv("MEILISEARCH_HOST", "http://localhost:7700"),
		MeiliMasterKey:  os.Getenv("MEILI_MASTER_KEY"),

		JWTSecret: getEnv("JWT_SECRET", "change-me"),
	}

	var err error
	cfg.JWTTTL, err = time.ParseDuration(getEnv("JWT_TTL", "24h"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_TTL: %w", err)
	}
	cfg.SubmitCooldown, err = time.ParseDuration(getEnv("SUBMIT_COOLDOWN", "1m"))
	if err != nil {
		return nil, fmt.Errorf("invalid SUBMIT_COOLDOWN: %w", err)
	}

	standard, err := getEnvInt("LIST_MAX_RANKED", 200)
	if err != nil {
		return nil, fmt.Errorf("invalid LIST_MAX_RANKED: %w", err)
	}
	challenge, err := getEnvInt("CHALLENGE_MAX_RANKED", 100)
	if err != nil {
		return nil, fmt.Errorf("invalid CHALLENGE_MAX_RANKED: %w", err)
	}

	cfg.ListMaxRanked = map[string]int{
		"demonlist": standard,
		"challenge": challenge,
		"unrated":   standard,
		"upcoming":  standard,
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback, nil
	}
	return strconv.Atoi(value)
}
