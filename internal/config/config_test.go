package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/lexicon/internal/store"
)

// isolate points every lookup at a temp dir so the developer's own config,
// .env and environment do not leak into the test.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	for _, k := range []string{"LEXICON_APP_ID", "LEXICON_UID", "LEXICON_STORE", "LEXICON_DB", "LEXICON_REDIS_ADDR", "LEXICON_TIMED_BUDGET", "LEXICON_JUDGE_TIMEOUT", "LEXICON_JUDGE_ENABLED", "LEXICON_SERVE_ADDR"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
	t.Chdir(dir)
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, 10*time.Second, cfg.Game.TimedBudget)
	assert.Equal(t, store.BackendSQLite, cfg.Store.Backend)
}

func TestLoad_YAMLThenEnv(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "lexicon.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
app_id: conservatory
store:
  backend: redis
  redis:
    addr: redis:6379
game:
  timed_budget: 15s
judge:
  timeout: 3s
`), 0o644))
	t.Setenv("LEXICON_REDIS_ADDR", "cache:6380")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "conservatory", cfg.AppID)
	assert.Equal(t, store.BackendRedis, cfg.Store.Backend)
	assert.Equal(t, "cache:6380", cfg.Store.Redis.Addr, "env wins over file")
	assert.Equal(t, 15*time.Second, cfg.Game.TimedBudget)
	assert.Equal(t, 3*time.Second, cfg.Judge.Timeout)
	assert.True(t, cfg.Judge.Enabled, "unset keys keep defaults")
}

func TestLoad_DotEnv(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("LEXICON_UID=from-dotenv\nLEXICON_JUDGE_ENABLED=false\n"), 0o644))
	t.Cleanup(func() {
		os.Unsetenv("LEXICON_UID")
		os.Unsetenv("LEXICON_JUDGE_ENABLED")
	})

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv", cfg.UID)
	assert.False(t, cfg.Judge.Enabled)
}

func TestLoad_ExplicitMissingFile(t *testing.T) {
	dir := isolate(t)
	_, err := Load(filepath.Join(dir, "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty app id", func(c *Config) { c.AppID = "" }},
		{"unknown backend", func(c *Config) { c.Store.Backend = "postgres" }},
		{"redis without addr", func(c *Config) { c.Store.Backend = store.BackendRedis; c.Store.Redis.Addr = "" }},
		{"sub-second budget", func(c *Config) { c.Game.TimedBudget = 500 * time.Millisecond }},
		{"zero judge timeout", func(c *Config) { c.Judge.Timeout = 0 }},
		{"zero burst", func(c *Config) { c.Serve.Burst = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
	assert.NoError(t, Default().Validate())
}

func TestStoreOptions_ResolvesDefaultPath(t *testing.T) {
	dir := isolate(t)
	opts, err := Default().StoreOptions()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "data", "lexicon", "lexicon.db"), opts.SQLitePath)
}
