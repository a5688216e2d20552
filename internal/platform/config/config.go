package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is centralized process configuration.
// Keep infra values here and pass typed config into builders.
type Config struct {
	ServiceName       string
	HTTPPort          string
	HTTPClientTimeout time.Duration
	LogLevel          string
	LogFormat         string

	PostgresDSN         string
	RedisAddr           string
	DocumentCacheTTL    time.Duration
	NATSURL             string
	NotificationSubject string

	EscavadorAPIKey  string
	EscavadorBaseURL string
	OpenAIAPIKey     string
	OpenAIBaseURL    string
	OpenAIModel      string
	GeminiAPIKey     string
	GeminiModel      string

	ProbeConcurrently bool
	SearchPageSize    int
}

func Load() (Config, error) {
	pageSize, err := envInt("SEARCH_PAGE_SIZE", 20)
	if err != nil {
		return Config{}, err
	}
	if pageSize <= 0 || pageSize > 100 {
		return Config{}, fmt.Errorf("SEARCH_PAGE_SIZE must be between 1 and 100, got %d", pageSize)
	}
	clientTimeout, err := envDuration("HTTP_CLIENT_TIMEOUT", 15*time.Second)
	if err != nil {
		return Config{}, err
	}
	cacheTTL, err := envDuration("DOCUMENT_CACHE_TTL", time.Hour)
	if err != nil {
		return Config{}, err
	}

	return Config{
		ServiceName:       envString("SERVICE_NAME", "ijus"),
		HTTPPort:          envString("HTTP_PORT", "8080"),
		HTTPClientTimeout: clientTimeout,
		LogLevel:          envString("LOG_LEVEL", "info"),
		LogFormat:         envString("LOG_FORMAT", "json"),

		PostgresDSN:         strings.TrimSpace(os.Getenv("POSTGRES_DSN")),
		RedisAddr:           strings.TrimSpace(os.Getenv("REDIS_ADDR")),
		DocumentCacheTTL:    cacheTTL,
		NATSURL:             strings.TrimSpace(os.Getenv("NATS_URL")),
		NotificationSubject: envString("NOTIFICATION_SUBJECT", "ijus.progression.notifications"),

		EscavadorAPIKey:  strings.TrimSpace(os.Getenv("ESCAVADOR_API_KEY")),
		EscavadorBaseURL: envString("ESCAVADOR_BASE_URL", "https://api.escavador.com"),
		OpenAIAPIKey:     strings.TrimSpace(os.Getenv("OPENAI_API_KEY")),
		OpenAIBaseURL:    envString("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		OpenAIModel:      envString("OPENAI_MODEL", "gpt-4o-mini"),
		GeminiAPIKey:     strings.TrimSpace(os.Getenv("GEMINI_API_KEY")),
		GeminiModel:      envString("GEMINI_MODEL", "gemini-2.5-flash"),

		ProbeConcurrently: envBool("PROBE_CONCURRENTLY", false),
		SearchPageSize:    pageSize,
	}, nil
}

func envString(name string, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(name)); value != "" {
		return value
	}
	return fallback
}

func envInt(name string, fallback int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", name, err)
	}
	return value, nil
}

func envDuration(name string, fallback time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback, nil
	}
	value, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", name, err)
	}
	if value <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %s", name, raw)
	}
	return value, nil
}

func envBool(name string, fallback bool) bool {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if raw == "" {
		return fallback
	}
	switch raw {
	case "1", "true", "t", "yes", "y", "on":
		return true
	case "0", "false", "f", "no", "n", "off":
		return false
	default:
		return fallback
	}
}
