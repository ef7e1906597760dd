package config

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validConfigYAML = `
server:
  host: "127.0.0.1"
  port: 8080
database:
  host: "db"
  port: 5432
  user: "spade"
  password: "password"
  db_name: "patents"
cache:
  enabled: true
  similar_ttl: 5m
redis:
  addr: "redis:6379"
similarity:
  min_score: 2
  symmetric_tokens: true
cors:
  allowed_origins: ["https://patents.example.com"]
log:
  level: debug
  format: console
`

func createTempConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_FromFile_ValidConfig(t *testing.T) {
	cfg, err := Load(createTempConfigFile(t, validConfigYAML))
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, "db", cfg.Database.Host)
	assert.Equal(t, "patents", cfg.Database.DBName)
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, 5*time.Minute, cfg.Cache.SimilarTTL)
	assert.Equal(t, 2, cfg.Similarity.MinScore)
	assert.True(t, cfg.Similarity.SymmetricTokens)
	assert.Equal(t, []string{"https://patents.example.com"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, "console", cfg.Log.Format)

	// Unset keys fall back to registered defaults.
	assert.Equal(t, DefaultSimilarityTopN, cfg.Similarity.TopN)
	assert.Equal(t, DefaultSearchMaxPageSize, cfg.Search.MaxPageSize)
	assert.True(t, cfg.Metrics.Enabled)
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoad_InvalidYAML(t *testing.T) {
	_, err := Load(createTempConfigFile(t, "server: ["))
	assert.Error(t, err)
}

func TestLoad_ValidationFailure(t *testing.T) {
	_, err := Load(createTempConfigFile(t, "server:\n  port: 70000\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("SPADE_SERVER_PORT", "9999")
	t.Setenv("SPADE_DATABASE_HOST", "db-from-env")

	cfg, err := Load(createTempConfigFile(t, validConfigYAML))
	require.NoError(t, err)
	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, "db-from-env", cfg.Database.Host)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("SPADE_DATABASE_DB_NAME", "envdb")
	t.Setenv("SPADE_SIMILARITY_TOP_N", "5")
	t.Setenv("SPADE_CACHE_ENABLED", "true")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	assert.Equal(t, "envdb", cfg.Database.DBName)
	assert.Equal(t, 5, cfg.Similarity.TopN)
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, DefaultServerPort, cfg.Server.Port)
}

func TestLoadOrEnv(t *testing.T) {
	cfg, err := LoadOrEnv("")
	require.NoError(t, err)
	assert.Equal(t, DefaultDBName, cfg.Database.DBName)

	cfg, err = LoadOrEnv(createTempConfigFile(t, validConfigYAML))
	require.NoError(t, err)
	assert.Equal(t, "patents", cfg.Database.DBName)
}

func TestMustLoad_Panics(t *testing.T) {
	assert.Panics(t, func() { MustLoad(filepath.Join(t.TempDir(), "missing.yaml")) })
}

func TestWatch_InvokesCallbackOnChange(t *testing.T) {
	path := createTempConfigFile(t, validConfigYAML)

	var (
		mu    sync.Mutex
		level string
	)
	err := Watch(path, func(c *Config) {
		mu.Lock()
		level = c.Log.Level
		mu.Unlock()
	}, nil)
	require.NoError(t, err)

	updated := strings.Replace(validConfigYAML, "level: debug", "level: warn", 1)
	require.NoError(t, os.WriteFile(path, []byte(updated), 0o644))

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return level == "warn"
	}, 5*time.Second, 50*time.Millisecond)
}

func TestWatch_MissingFile(t *testing.T) {
	err := Watch(filepath.Join(t.TempDir(), "missing.yaml"), func(*Config) {}, nil)
	assert.Error(t, err)
}

//Personal.AI order the ending
