package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Server settings
	Env             string        `env:"ENV"              envDefault:"development"`
	Host            string        `env:"HOST"             envDefault:"127.0.0.1"`
	Port            int           `env:"PORT"             envDefault:"5001"`
	LogLevel        string        `env:"LOG_LEVEL"        envDefault:"info"`
	AllowedOrigins  []string      `env:"ALLOWED_ORIGINS"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	// Summarization backend
	Backend       string `env:"SUMMARIZER_BACKEND" envDefault:"huggingface"`
	Model         string `env:"SUMMARIZER_MODEL"`
	HFToken       string `env:"HF_TOKEN"`
	HFBaseURL     string `env:"HF_BASE_URL"        envDefault:"https://router.huggingface.co/hf-inference/models"`
	GeminiAPIKey  string `env:"GEMINI_API_KEY"`
	OpenAIAPIKey  string `env:"OPENAI_API_KEY"`
	OpenAIBaseURL string `env:"OPENAI_BASE_URL"`

	// Observability and limits. Zero disables a limit.
	MetricsEnabled bool    `env:"METRICS_ENABLED"  envDefault:"true"`
	RateLimitRPS   float64 `env:"RATE_LIMIT_RPS"`
	RateLimitBurst int     `env:"RATE_LIMIT_BURST" envDefault:"1"`
	DailyQuota     int64   `env:"DAILY_QUOTA"`
}

// Default models per backend, used when SUMMARIZER_MODEL is empty
var defaultModels = map[string]string{
	"huggingface": "facebook/bart-large-cnn",
	"gemini":      "gemini-2.5-flash-lite",
	"ollama":      "llama3.2",
	"openai":      "gpt-4o-mini",
	"lead":        "lead-sentences",
}

// Load reads .env.local (if present) and then the process environment
func Load() (*Config, error) {
	if err := godotenv.Load(".env.local"); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env.local: %w", err)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	cfg.Backend = strings.ToLower(strings.TrimSpace(cfg.Backend))
	return &cfg, nil
}

// IsDevelopment returns true when running outside production
func (c *Config) IsDevelopment() bool {
	return c.Env != "production"
}

// Addr returns the listen address
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// ModelName returns the configured model, falling back to the backend default
func (c *Config) ModelName() string {
	if c.Model != "" {
		return c.Model
	}
	return defaultModels[c.Backend]
}
