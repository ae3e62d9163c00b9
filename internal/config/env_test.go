package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFrom_Defaults(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{})
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, ":9090", cfg.MetricsAddr)
	assert.Equal(t, 256, cfg.CacheSize)
	assert.Equal(t, "output", cfg.OutputDir)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Empty(t, cfg.ParamsFile)
}

func TestLoadFrom_Overrides(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{
		"QUANTA_HTTP_ADDR":        ":3000",
		"QUANTA_CACHE_SIZE":       "16",
		"QUANTA_PARAMS_FILE":      "scenario.yaml",
		"QUANTA_ALLOWED_ORIGINS":  "https://a.example,https://b.example",
		"QUANTA_SHUTDOWN_TIMEOUT": "5s",
	})
	require.NoError(t, err)

	assert.Equal(t, ":3000", cfg.HTTPAddr)
	assert.Equal(t, 16, cfg.CacheSize)
	assert.Equal(t, "scenario.yaml", cfg.ParamsFile)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	assert.Equal(t, 5*time.Second, cfg.ShutdownTimeout)
}

func TestLoadFrom_Invalid(t *testing.T) {
	_, err := LoadFrom(map[string]string{"QUANTA_CACHE_SIZE": "0"})
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = LoadFrom(map[string]string{"QUANTA_CACHE_SIZE": "lots"})
	assert.Error(t, err)
}

func TestLoad_ProcessEnv(t *testing.T) {
	t.Setenv("QUANTA_METRICS_ADDR", ":9999")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":9999", cfg.MetricsAddr)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("# comment\nQUANTA_TEST_DOTENV=from-file\nQUANTA_TEST_PRESET=from-file\n"), 0o644))

	t.Setenv("QUANTA_TEST_PRESET", "from-env")
	t.Setenv("QUANTA_TEST_DOTENV", "")
	require.NoError(t, os.Unsetenv("QUANTA_TEST_DOTENV"))

	require.NoError(t, LoadDotEnv(path, filepath.Join(dir, "missing.env")))

	assert.Equal(t, "from-file", os.Getenv("QUANTA_TEST_DOTENV"))
	assert.Equal(t, "from-env", os.Getenv("QUANTA_TEST_PRESET"), "existing variables are not overridden")
}
