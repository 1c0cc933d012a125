package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate runs the test in an empty directory with no BALKANA_* variables
// so no stray .env or shell setting leaks in.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", dir)
	for _, kv := range os.Environ() {
		k, _, _ := strings.Cut(kv, "=")
		if strings.HasPrefix(k, envPrefix) {
			t.Setenv(k, "")
			os.Unsetenv(k)
		}
	}
	return dir
}

func TestLoadDefaults(t *testing.T) {
	home := isolate(t)

	cfg, err := Load(zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".balkana", "stats.db"), cfg.DBPath)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 30*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, "faceit", cfg.FPSProvider)
	assert.Equal(t, "riot", cfg.MOBAProvider)
	assert.Zero(t, cfg.BuildWorkers)
}

func TestLoadFileThenEnv(t *testing.T) {
	dir := isolate(t)

	path := filepath.Join(dir, "balkana.yaml")
	yaml := "db_path: /tmp/from-file.db\nlog_level: debug\nbuild_workers: 2\nhttp_timeout: 5s\n"
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))

	t.Setenv("BALKANA_CONFIG", path)
	t.Setenv("BALKANA_BUILD_WORKERS", "8")
	t.Setenv("BALKANA_FACEIT_API_KEY", "secret")

	cfg, err := Load(zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, "/tmp/from-file.db", cfg.DBPath)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 5*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, 8, cfg.BuildWorkers, "env overrides file")
	assert.Equal(t, "secret", cfg.FaceitAPIKey)
}

func TestLoadDotEnv(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("BALKANA_DB_PATH=~/x.db\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("BALKANA_DB_PATH") })

	cfg, err := Load(zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "x.db"), cfg.DBPath)
}

func TestLoadMissingFile(t *testing.T) {
	isolate(t)
	t.Setenv("BALKANA_CONFIG", "/does/not/exist.yaml")

	_, err := Load(zerolog.Nop())
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty db path", func(c *Config) { c.DBPath = "" }},
		{"zero timeout", func(c *Config) { c.HTTPTimeout = 0 }},
		{"negative workers", func(c *Config) { c.BuildWorkers = -1 }},
		{"bad level", func(c *Config) { c.LogLevel = "loud" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := New()
			tc.mutate(c)
			assert.Error(t, c.Validate())
		})
	}
	assert.NoError(t, New().Validate())
}
