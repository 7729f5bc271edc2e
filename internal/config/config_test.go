package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadWithDefaultsMissingFile(t *testing.T) {
	cfg, err := LoadWithDefaults(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "trial-pts", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Environment)
	assert.Equal(t, "info", cfg.App.LogLevel)
	assert.Equal(t, 0.8, cfg.Pipeline.TrainRatio)
	assert.Equal(t, int64(42), cfg.Pipeline.Seed)
	assert.Equal(t, 200, cfg.Pipeline.Rounds)
	assert.Equal(t, 1000, cfg.Acquisition.DelayMillis)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, 8080, cfg.Health.Port)

	// Defaults alone form a valid configuration.
	require.NoError(t, Validate(cfg))
}

func TestLoadMissingFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	assert.Error(t, err)
}

func TestLoadExpandsEnvPlaceholders(t *testing.T) {
	t.Setenv("TEST_TRIAL_DB_PASSWORD", "hunter2")

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
app:
  name: trial-pts
database:
  enabled: true
  host: localhost
  name: trials
  user: pipeline
  password: ${TEST_TRIAL_DB_PASSWORD}
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "hunter2", cfg.Database.Password)
	assert.Equal(t, "localhost", cfg.Database.Host)
}

func TestValidateRejectsBadLogLevel(t *testing.T) {
	cfg, err := LoadWithDefaults(filepath.Join(t.TempDir(), "none.yaml"))
	require.NoError(t, err)

	cfg.App.LogLevel = "verbose"
	err = Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LogLevel")
}

func TestValidateRejectsBadEnvironment(t *testing.T) {
	cfg, err := LoadWithDefaults(filepath.Join(t.TempDir(), "none.yaml"))
	require.NoError(t, err)

	cfg.App.Environment = "qa"
	assert.Error(t, Validate(cfg))
}

func TestValidatePatienceMustBeBelowRounds(t *testing.T) {
	cfg, err := LoadWithDefaults(filepath.Join(t.TempDir(), "none.yaml"))
	require.NoError(t, err)

	cfg.Pipeline.Patience = cfg.Pipeline.Rounds
	err = Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "patience")
}

func TestValidateDatabaseEnabledNeedsConnectionFields(t *testing.T) {
	cfg, err := LoadWithDefaults(filepath.Join(t.TempDir(), "none.yaml"))
	require.NoError(t, err)

	cfg.Database.Enabled = true
	assert.Error(t, Validate(cfg))

	cfg.Database.Host = "localhost"
	cfg.Database.Name = "trials"
	cfg.Database.User = "pipeline"
	assert.NoError(t, Validate(cfg))
}

func TestValidateProductionRequiresSSL(t *testing.T) {
	cfg, err := LoadWithDefaults(filepath.Join(t.TempDir(), "none.yaml"))
	require.NoError(t, err)

	cfg.App.Environment = "production"
	cfg.Database.Enabled = true
	cfg.Database.Host = "db.internal"
	cfg.Database.Name = "trials"
	cfg.Database.User = "pipeline"
	cfg.Database.SSLMode = "disable"
	assert.Error(t, Validate(cfg))

	cfg.Database.SSLMode = "require"
	assert.NoError(t, Validate(cfg))
}

func TestAcquisitionDurationHelpers(t *testing.T) {
	cfg, err := LoadWithDefaults(filepath.Join(t.TempDir(), "none.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "30s", cfg.Acquisition.Timeout().String())
	assert.Equal(t, "1s", cfg.Acquisition.Delay().String())
}

func TestEnvironmentHelpers(t *testing.T) {
	cfg := &Config{App: AppConfig{Environment: "development"}}
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.IsProduction())

	cfg.App.Environment = "production"
	assert.True(t, cfg.IsProduction())
}
