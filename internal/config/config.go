package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is loaded once at startup and passed explicitly into every
// component. Nothing reads the environment after Load returns.
type Config struct {
	GitHubToken string

	LLMBaseURL string
	LLMAPIKey  string
	LLMModel   string

	// ContextCharBudget bounds the total characters of file content sent
	// to the model. ~80k chars is roughly 20k tokens at 4 chars/token.
	ContextCharBudget int

	// MaxSourceFiles caps how many source-tier files are selected.
	MaxSourceFiles int

	// MaxBlobBytes: blobs larger than this are listed but never fetched.
	MaxBlobBytes int

	// FetchWorkers bounds concurrent content fetches against GitHub.
	FetchWorkers int

	LLMTimeout     time.Duration
	LLMMaxAttempts int
	LLMBackoffBase time.Duration

	// RequestTimeout bounds one whole summarization request: listing,
	// content fetches, and all model attempts combined.
	RequestTimeout time.Duration

	Port string
}

func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		GitHubToken: os.Getenv("GITHUB_TOKEN"),

		LLMBaseURL: os.Getenv("LLM_BASE_URL"),
		LLMAPIKey:  os.Getenv("LLM_API_KEY"),
		LLMModel:   os.Getenv("LLM_MODEL"),

		ContextCharBudget: envInt("CONTEXT_CHAR_BUDGET", 80_000),
		MaxSourceFiles:    envInt("MAX_SOURCE_FILES", 6),
		MaxBlobBytes:      envInt("MAX_BLOB_BYTES", 200_000),
		FetchWorkers:      envInt("FETCH_WORKERS", 4),

		LLMTimeout:     envDuration("LLM_TIMEOUT", 60*time.Second),
		LLMMaxAttempts: envInt("LLM_MAX_ATTEMPTS", 3),
		LLMBackoffBase: envDuration("LLM_BACKOFF_BASE", 2*time.Second),
		RequestTimeout: envDuration("REQUEST_TIMEOUT", 5*time.Minute),

		Port: os.Getenv("PORT"),
	}

	if cfg.LLMBaseURL == "" {
		cfg.LLMBaseURL = "https://api.openai.com/v1"
	}
	cfg.LLMBaseURL = strings.TrimSuffix(cfg.LLMBaseURL, "/")
	if cfg.LLMModel == "" {
		cfg.LLMModel = "gpt-4o-mini"
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}

	return cfg
}

func envInt(key string, def int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return def
	}
	return n
}

// envDuration reads a duration given either as a Go duration string
// ("90s") or as a bare number of seconds ("90").
func envDuration(key string, def time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	if d, err := time.ParseDuration(raw); err == nil && d > 0 {
		return d
	}
	if secs, err := strconv.ParseFloat(raw, 64); err == nil && secs > 0 {
		return time.Duration(secs * float64(time.Second))
	}
	return def
}
