package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
app_name: rentals
server:
  port: 9090
search:
  backend: index
  engine: opensearch
  timeout: 1500ms
  popular: ["tent", "drone"]
  cache:
    driver: memory
    ttl:
      search: 1m
  similarity:
    ordering: score
data:
  database:
    driver: sqlite
    source: "file::memory:"
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfig(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, "rentals", cfg.AppName)
	assert.Equal(t, "0.0.0.0:9090", cfg.Server.Addr())
	assert.Equal(t, BackendIndex, cfg.Search.Backend)
	assert.Equal(t, "opensearch", cfg.Search.Engine)
	assert.Equal(t, 1500*time.Millisecond, cfg.Search.Timeout)
	assert.Equal(t, []string{"tent", "drone"}, cfg.Search.PopularSearches)
	assert.Equal(t, "memory", cfg.Search.Cache.Driver)
	assert.Equal(t, time.Minute, cfg.Search.Cache.SearchTTL)
	assert.Equal(t, "score", cfg.Search.Similarity.Ordering)
	assert.Equal(t, "sqlite", cfg.Data.Database.Driver)
	assert.Equal(t, "rentals-log", cfg.Logger.IndexName)
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, "app_name: discovery\n"))
	require.NoError(t, err)

	s := cfg.Search
	assert.Equal(t, BackendRelational, s.Backend)
	assert.Equal(t, 3*time.Second, s.Timeout)
	assert.Equal(t, 2, s.AutocompleteMinChars)
	assert.Equal(t, 5*time.Minute, s.Cache.SearchTTL)
	assert.Equal(t, 15*time.Minute, s.Cache.AutocompleteTTL)
	assert.Equal(t, 10*time.Minute, s.Cache.SuggestionsTTL)
	assert.Equal(t, 30*time.Minute, s.Cache.SimilarTTL)
	assert.Equal(t, time.Hour, s.Cache.PopularTTL)
	assert.Equal(t, "rating", s.Similarity.Ordering)
	assert.Equal(t, 10, s.Similarity.FeatureCap)
	assert.Len(t, s.PopularSearches, 10)
	assert.Equal(t, 4, cfg.Logger.Level)
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv("DISCOVERY_SEARCH_BACKEND", "index")
	cfg, err := LoadConfig(writeConfig(t, "search:\n  backend: relational\n"))
	require.NoError(t, err)
	assert.Equal(t, BackendIndex, cfg.Search.Backend)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
