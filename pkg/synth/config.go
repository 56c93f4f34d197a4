package synth

import (
	"log/slog"
	"net/http"
	"time"

	"podforge/internal/httpc"
)

// Config holds synthesis engine configuration.
// Use functional options (WithXxx) to set these values.
type Config struct {
	// Engine credentials
	APIKey  string
	BaseURL string

	// Model selection
	ModelID string

	// Timeouts
	Timeout time.Duration

	// Retry configuration for transient HTTP failures
	MaxRetries int
	RetryDelay time.Duration

	// Observability
	Logger *slog.Logger
}

// Option is a functional option for configuring synthesis engines.
type Option func(*Config)

// WithAPIKey sets the API key for the engine.
func WithAPIKey(key string) Option {
	return func(c *Config) { c.APIKey = key }
}

// WithBaseURL overrides the default API base URL.
func WithBaseURL(url string) Option {
	return func(c *Config) { c.BaseURL = url }
}

// WithModel sets the model ID.
func WithModel(modelID string) Option {
	return func(c *Config) { c.ModelID = modelID }
}

// WithTimeout sets the request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Config) { c.Timeout = timeout }
}

// WithRetry configures retry behavior for failed requests.
func WithRetry(maxRetries int, delay time.Duration) Option {
	return func(c *Config) {
		c.MaxRetries = maxRetries
		c.RetryDelay = delay
	}
}

// WithLogger sets the structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Config) { c.Logger = logger }
}

// DefaultConfig returns sensible default configuration.
func DefaultConfig() *Config {
	return &Config{
		Timeout:    30 * time.Second,
		MaxRetries: 2,
		RetryDelay: 100 * time.Millisecond,
		Logger:     slog.Default(),
	}
}

// Apply applies functional options to the config.
func (c *Config) Apply(opts ...Option) {
	for _, opt := range opts {
		opt(c)
	}
}

// Validate checks that required configuration is present.
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return ErrNoAPIKey
	}
	return nil
}

// httpClient builds an HTTP client honoring the configured timeout.
func (c *Config) httpClient() *http.Client {
	return httpc.NewClient(c.Timeout)
}
