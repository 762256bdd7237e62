package pokesearch

import (
	"fmt"
	"os"
	"time"

	"github.com/poiesic/pokesearch/core"
	"github.com/poiesic/pokesearch/fetch"
	"github.com/poiesic/pokesearch/fuzzy"
	"github.com/poiesic/pokesearch/search"
	"gopkg.in/yaml.v3"
)

// Config holds all pokesearch configuration.
type Config struct {
	Listen string       `yaml:"listen"`
	Cache  CacheConfig  `yaml:"cache"`
	Search SearchConfig `yaml:"search"`
	Fetch  FetchConfig  `yaml:"fetch"`
}

// CacheConfig controls where upstream data is cached and for how long.
type CacheConfig struct {
	Dir      string        `yaml:"dir"`
	InMemory bool          `yaml:"in_memory"`
	TTL      time.Duration `yaml:"ttl"`
}

// SearchConfig controls matching and pagination defaults.
type SearchConfig struct {
	PageSize int `yaml:"page_size"`

	// Threshold is the fuzzy match threshold in [0,1]. Nil selects the default.
	Threshold *float64 `yaml:"threshold"`

	// TranslatorThreshold bounds typo correction of query terms.
	// Nil falls back to Threshold.
	TranslatorThreshold *float64 `yaml:"translator_threshold"`

	// DictionaryFile replaces the embedded translation dictionary.
	DictionaryFile string `yaml:"dictionary_file"`
}

// FetchConfig controls the upstream API client.
type FetchConfig struct {
	BaseURL           string        `yaml:"base_url"`
	Timeout           time.Duration `yaml:"timeout"`
	MaxRetries        int           `yaml:"max_retries"`
	RetryDelay        time.Duration `yaml:"retry_delay"`
	Workers           int           `yaml:"workers"`
	RequestsPerSecond float64       `yaml:"requests_per_second"`
	Burst             int           `yaml:"burst"`
	ListLimit         int           `yaml:"list_limit"`
}

// DefaultConfig returns a Config with every default filled in.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.defaults()
	return cfg
}

func (c *Config) defaults() {
	if c.Listen == "" {
		c.Listen = ":3000"
	}
	if c.Cache.Dir == "" && !c.Cache.InMemory {
		c.Cache.Dir = "pokesearch-cache"
	}
	if c.Cache.TTL <= 0 {
		c.Cache.TTL = 24 * time.Hour
	}
	if c.Search.PageSize <= 0 {
		c.Search.PageSize = search.DefaultPageSize
	}
	if c.Search.Threshold == nil {
		threshold := fuzzy.DefaultThreshold
		c.Search.Threshold = &threshold
	}
	if c.Search.TranslatorThreshold == nil {
		threshold := *c.Search.Threshold
		c.Search.TranslatorThreshold = &threshold
	}

	def := fetch.DefaultConfig()
	if c.Fetch.BaseURL == "" {
		c.Fetch.BaseURL = def.BaseURL
	}
	if c.Fetch.Timeout <= 0 {
		c.Fetch.Timeout = def.Timeout
	}
	if c.Fetch.MaxRetries <= 0 {
		c.Fetch.MaxRetries = def.MaxRetries
	}
	if c.Fetch.RetryDelay <= 0 {
		c.Fetch.RetryDelay = def.RetryDelay
	}
	if c.Fetch.Workers <= 0 {
		c.Fetch.Workers = def.Workers
	}
	if c.Fetch.RequestsPerSecond <= 0 {
		c.Fetch.RequestsPerSecond = def.RequestsPerSecond
	}
	if c.Fetch.Burst <= 0 {
		c.Fetch.Burst = def.Burst
	}
	if c.Fetch.ListLimit <= 0 {
		c.Fetch.ListLimit = def.ListLimit
	}
}

// Validate fills defaults and checks the thresholds.
func (c *Config) Validate() error {
	c.defaults()
	if err := core.ValidateThreshold(*c.Search.Threshold); err != nil {
		return fmt.Errorf("search threshold: %w", err)
	}
	if err := core.ValidateThreshold(*c.Search.TranslatorThreshold); err != nil {
		return fmt.Errorf("search translator_threshold: %w", err)
	}
	return c.fetchConfig().Validate()
}

func (c *Config) fetchConfig() *fetch.Config {
	return fetch.NewConfig(
		fetch.WithBaseURL(c.Fetch.BaseURL),
		fetch.WithTimeout(c.Fetch.Timeout),
		fetch.WithRetries(c.Fetch.MaxRetries, c.Fetch.RetryDelay),
		fetch.WithWorkers(c.Fetch.Workers),
		fetch.WithRateLimit(c.Fetch.RequestsPerSecond, c.Fetch.Burst),
		fetch.WithListLimit(c.Fetch.ListLimit),
	)
}

// LoadConfigFile reads a YAML config file and fills in defaults.
func LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	cfg.defaults()
	return cfg, nil
}
