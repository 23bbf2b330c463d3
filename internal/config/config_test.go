package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLoadDefaults(t *testing.T) {
	// Change to temp dir so no config.yaml is found
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "http://www.gbig.org", cfg.GBIG.BaseURL)
	assert.Equal(t, "http://www.gbig.org/search/advanced", cfg.GBIG.SearchURL())
	assert.Equal(t, "Certification//37", cfg.GBIG.ProgramFilter)
	assert.Equal(t, 30, cfg.GBIG.TimeoutSecs)
	assert.Equal(t, 3, cfg.GBIG.PlaceholderDelaySecs)
	assert.Equal(t, "mapquest", cfg.Geocode.Provider)
	assert.InDelta(t, 0, cfg.Geocode.RateLimit, 0.001)
	assert.Equal(t, "json", cfg.Export.Format)
	assert.Equal(t, "title", cfg.Export.KeyStyle)
	assert.Equal(t, 1, cfg.Batch.Concurrency)
	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestLoadFromYAML(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	yaml := `
log:
  level: debug
  format: console
geocode:
  provider: google
  google_key: g-key
export:
  format: xlsx
  key_style: snake
batch:
  concurrency: 4
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, "google", cfg.Geocode.Provider)
	assert.Equal(t, "g-key", cfg.Geocode.APIKey())
	assert.Equal(t, "xlsx", cfg.Export.Format)
	assert.Equal(t, "snake", cfg.Export.KeyStyle)
	assert.Equal(t, 4, cfg.Batch.Concurrency)
	// Defaults still apply for unset values
	assert.Equal(t, "http://www.gbig.org", cfg.GBIG.BaseURL)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	yaml := `
geocode:
  provider: google
log:
  level: debug
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	t.Setenv("LEED_GEOCODE_PROVIDER", "mapquest")
	t.Setenv("LEED_GEOCODE_MAPQUEST_KEY", "mq-key")
	t.Setenv("LEED_LOG_LEVEL", "warn")

	cfg, err := Load()
	require.NoError(t, err)

	// Env overrides file
	assert.Equal(t, "mapquest", cfg.Geocode.Provider)
	assert.Equal(t, "mq-key", cfg.Geocode.APIKey())
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadEnvOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	t.Setenv("LEED_SERVER_PORT", "3000")
	t.Setenv("LEED_GBIG_BASE_URL", "http://localhost:9999")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, "http://localhost:9999/search/advanced", cfg.GBIG.SearchURL())
}

func TestLoadFile_ExplicitPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "leed.yaml")
	yaml := `
gbig:
  placeholder_delay_secs: 1
export:
  format: jsonl
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0644))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.GBIG.PlaceholderDelaySecs)
	assert.Equal(t, "jsonl", cfg.Export.Format)
	// Defaults still apply for unset values
	assert.Equal(t, "title", cfg.Export.KeyStyle)
}

func TestLoadFile_MissingExplicitPath(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config: read file")
}

func TestInitLoggerConsole(t *testing.T) {
	err := InitLogger(LogConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerJSON(t *testing.T) {
	err := InitLogger(LogConfig{Level: "info", Format: "json"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerInvalidLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "invalid", Format: "json"})
	assert.Error(t, err)
}

// validDefaults returns a Config with all defaults populated for validation tests.
func validDefaults() *Config {
	cfg := &Config{}
	cfg.GBIG.BaseURL = "http://www.gbig.org"
	cfg.Geocode.Provider = "none"
	cfg.Export.Format = "json"
	cfg.Export.KeyStyle = "title"
	cfg.Batch.Concurrency = 1
	cfg.Server.Port = 8080
	return cfg
}

func TestValidateList_IgnoresGeocode(t *testing.T) {
	cfg := validDefaults()
	cfg.Geocode.Provider = "mapquest"

	assert.NoError(t, cfg.Validate("list"))
}

func TestValidateExtract_MissingKey(t *testing.T) {
	cfg := validDefaults()
	cfg.Geocode.Provider = "mapquest"

	err := cfg.Validate("extract")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "geocode.mapquest_key is required")

	cfg.Geocode.MapQuestKey = "k"
	assert.NoError(t, cfg.Validate("extract"))
}

func TestValidateExtract_ReportsAllProblems(t *testing.T) {
	cfg := validDefaults()
	cfg.Geocode.Provider = "bing"
	cfg.Export.Format = "csv"
	cfg.Export.KeyStyle = "camel"
	cfg.Batch.Concurrency = 0

	err := cfg.Validate("extract")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown geocode.provider "bing"`)
	assert.Contains(t, err.Error(), `unknown export.format "csv"`)
	assert.Contains(t, err.Error(), `unknown export.key_style "camel"`)
	assert.Contains(t, err.Error(), "batch.concurrency must be between 1 and 50")
}

func TestValidateServe_InvalidPort(t *testing.T) {
	cfg := validDefaults()
	cfg.Server.Port = 0

	err := cfg.Validate("serve")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "server.port must be > 0")
}

func TestValidateUnknownMode(t *testing.T) {
	cfg := validDefaults()
	err := cfg.Validate("unknown")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown mode")
}
