package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWithoutFile(t *testing.T) {
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "missing.yaml"))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "localhost:7233", cfg.Temporal.HostPort)
	assert.Equal(t, "research-tasks", cfg.Temporal.TaskQueue)
	assert.Equal(t, 20, cfg.Research.SnippetBudget)
	assert.Equal(t, 24*time.Hour, cfg.Redis.PageTTL)
	assert.Equal(t, 9090, cfg.Metrics.Port)
}

func TestLoadReadsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "briefwright.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
temporal:
  host_port: temporal:7233
  task_queue: custom-queue
generation:
  base_url: http://llm:9000
  timeout: 3m
research:
  snippet_budget: 10
`), 0o644))
	t.Setenv("CONFIG_PATH", path)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "temporal:7233", cfg.Temporal.HostPort)
	assert.Equal(t, "custom-queue", cfg.Temporal.TaskQueue)
	assert.Equal(t, "http://llm:9000", cfg.Generation.BaseURL)
	assert.Equal(t, 3*time.Minute, cfg.Generation.Timeout)
	assert.Equal(t, 10, cfg.Research.SnippetBudget)
	// Unset values keep their defaults.
	assert.Equal(t, 24*time.Hour, cfg.Redis.PageTTL)
}

func TestLoadMalformedFileFails(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "briefwright.yaml")
	require.NoError(t, os.WriteFile(path, []byte("temporal: [not a map"), 0o644))
	t.Setenv("CONFIG_PATH", path)

	_, err := Load()
	require.Error(t, err)
}

func TestEnvOverridesWin(t *testing.T) {
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("TEMPORAL_HOST", "temporal.internal:7233")
	t.Setenv("LLM_SERVICE_URL", "http://llm.internal:8000")
	t.Setenv("REDIS_ADDR", "redis.internal:6379")
	t.Setenv("METRICS_PORT", "9191")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "temporal.internal:7233", cfg.Temporal.HostPort)
	assert.Equal(t, "http://llm.internal:8000", cfg.Generation.BaseURL)
	assert.Equal(t, "redis.internal:6379", cfg.Redis.Addr)
	assert.Equal(t, 9191, cfg.Metrics.Port)
}
