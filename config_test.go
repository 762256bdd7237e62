package pokesearch

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, ":3000", cfg.Listen)
	assert.Equal(t, "pokesearch-cache", cfg.Cache.Dir)
	assert.Equal(t, 24*time.Hour, cfg.Cache.TTL)
	assert.Equal(t, 10, cfg.Search.PageSize)
	assert.Equal(t, 0.2, *cfg.Search.Threshold)
	assert.Equal(t, 0.2, *cfg.Search.TranslatorThreshold)
	assert.Equal(t, "https://pokeapi.co/api/v2", cfg.Fetch.BaseURL)
	assert.Equal(t, 6, cfg.Fetch.MaxRetries)
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pokesearch.yaml")
	data := `
listen: ":8080"
cache:
  in_memory: true
  ttl: 1h
search:
  page_size: 25
  threshold: 0.4
fetch:
  base_url: http://localhost:9000/api/v2/
  timeout: 2s
  workers: 2
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	cfg, err := LoadConfigFile(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, ":8080", cfg.Listen)
	assert.True(t, cfg.Cache.InMemory)
	assert.Empty(t, cfg.Cache.Dir, "in-memory cache has no directory")
	assert.Equal(t, time.Hour, cfg.Cache.TTL)
	assert.Equal(t, 25, cfg.Search.PageSize)
	assert.Equal(t, 0.4, *cfg.Search.Threshold)
	assert.Equal(t, 0.4, *cfg.Search.TranslatorThreshold, "translator threshold follows threshold")
	assert.Equal(t, 2*time.Second, cfg.Fetch.Timeout)
	assert.Equal(t, 2, cfg.Fetch.Workers)
	assert.Equal(t, 1302, cfg.Fetch.ListLimit)

	fc := cfg.fetchConfig()
	require.NoError(t, fc.Validate())
	assert.Equal(t, "http://localhost:9000/api/v2", fc.BaseURL)
}

func TestLoadConfigFile_Errors(t *testing.T) {
	_, err := LoadConfigFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("search: [1, 2"), 0644))
	_, err = LoadConfigFile(path)
	assert.Error(t, err)
}

func TestConfigValidate_TranslatorThreshold(t *testing.T) {
	cfg := DefaultConfig()
	bad := -0.5
	cfg.Search.TranslatorThreshold = &bad
	assert.Error(t, cfg.Validate())
}
