package fetch

import (
	"errors"
	"strings"
	"time"
)

// Config holds configuration for the upstream catalog API client.
type Config struct {
	// BaseURL is the root of the PokeAPI v2 endpoints.
	// Example: "https://pokeapi.co/api/v2"
	BaseURL string

	// Timeout bounds a single HTTP request, including reading the body.
	Timeout time.Duration

	// MaxRetries is how many times a request is retried after a timeout
	// or an HTTP 429. Default: 6
	MaxRetries int

	// RetryDelay is the base delay between retries; it doubles on each retry.
	RetryDelay time.Duration

	// Workers is the number of concurrent detail requests.
	Workers int

	// RequestsPerSecond throttles outbound requests across all workers.
	RequestsPerSecond float64

	// Burst is the number of requests allowed above the steady rate.
	Burst int

	// ListLimit is the page size requested from list endpoints.
	// Default: 1302, enough to return every entry in one page.
	ListLimit int

	// UserAgent is sent with every request.
	UserAgent string
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithBaseURL sets the API root.
func WithBaseURL(url string) ConfigOption {
	return func(c *Config) {
		c.BaseURL = url
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(timeout time.Duration) ConfigOption {
	return func(c *Config) {
		c.Timeout = timeout
	}
}

// WithRetries sets the retry count and base delay.
func WithRetries(maxRetries int, delay time.Duration) ConfigOption {
	return func(c *Config) {
		c.MaxRetries = maxRetries
		c.RetryDelay = delay
	}
}

// WithWorkers sets the number of concurrent detail requests.
func WithWorkers(workers int) ConfigOption {
	return func(c *Config) {
		c.Workers = workers
	}
}

// WithRateLimit sets the outbound request rate and burst.
func WithRateLimit(requestsPerSecond float64, burst int) ConfigOption {
	return func(c *Config) {
		c.RequestsPerSecond = requestsPerSecond
		c.Burst = burst
	}
}

// WithListLimit sets the page size requested from list endpoints.
func WithListLimit(limit int) ConfigOption {
	return func(c *Config) {
		c.ListLimit = limit
	}
}

// DefaultConfig returns a Config suitable for the public PokeAPI.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:           "https://pokeapi.co/api/v2",
		Timeout:           15 * time.Second,
		MaxRetries:        6,
		RetryDelay:        500 * time.Millisecond,
		Workers:           8,
		RequestsPerSecond: 20,
		Burst:             8,
		ListLimit:         1302,
		UserAgent:         "pokesearch/1.0",
	}
}

// NewConfig creates a Config with the default values and applies the provided options.
//
// Example:
//
//	cfg := NewConfig(
//	    WithBaseURL("http://localhost:8000/api/v2"),
//	    WithRetries(3, time.Second),
//	)
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Normalize ensures the configuration is in a canonical form.
// The base URL loses any trailing slash so endpoint paths can be appended.
func (c *Config) Normalize() {
	c.BaseURL = strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	if c.Burst < 1 {
		c.Burst = 1
	}
}

// Validate checks that the configuration is valid and complete.
// It automatically normalizes the configuration before validation.
func (c *Config) Validate() error {
	c.Normalize()

	if c.BaseURL == "" {
		return errors.New("fetch config: BaseURL is required")
	}
	if !strings.HasPrefix(c.BaseURL, "http://") && !strings.HasPrefix(c.BaseURL, "https://") {
		return errors.New("fetch config: BaseURL must be an http(s) URL")
	}
	if c.Timeout <= 0 {
		return errors.New("fetch config: Timeout must be positive")
	}
	if c.MaxRetries < 0 {
		return errors.New("fetch config: MaxRetries must not be negative")
	}
	if c.RetryDelay < 0 {
		return errors.New("fetch config: RetryDelay must not be negative")
	}
	if c.Workers < 1 {
		return errors.New("fetch config: Workers must be at least 1")
	}
	if c.RequestsPerSecond <= 0 {
		return errors.New("fetch config: RequestsPerSecond must be positive")
	}
	if c.ListLimit < 1 {
		return errors.New("fetch config: ListLimit must be at least 1")
	}
	return nil
}
