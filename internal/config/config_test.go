package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_DefaultsOnly(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "newsintel", cfg.Service.Name)
	assert.Equal(t, "newsintel.db", cfg.Storage.Path)
	assert.Equal(t, "drops", cfg.Ingest.DropDir)
	assert.Equal(t, 6, cfg.Ingest.MaxRunsPerMinute)
	assert.Equal(t, 24*time.Hour, cfg.Clustering.TimeWindow)
	assert.InDelta(t, 0.5, cfg.Clustering.MinSimilarity, 1e-9)
	assert.Equal(t, ":9090", cfg.Metrics.Addr)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoad_YAMLOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
storage:
  path: /var/lib/newsintel/intel.db
ingest:
  drop_dir: /var/spool/newsintel
  max_runs_per_minute: 12
clustering:
  time_window: 12h
  min_similarity: 0.6
logging:
  level: debug
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/var/lib/newsintel/intel.db", cfg.Storage.Path)
	assert.Equal(t, "/var/spool/newsintel", cfg.Ingest.DropDir)
	assert.Equal(t, 12, cfg.Ingest.MaxRunsPerMinute)
	assert.Equal(t, 12*time.Hour, cfg.Clustering.TimeWindow)
	assert.InDelta(t, 0.6, cfg.Clustering.MinSimilarity, 1e-9)
	assert.Equal(t, "debug", cfg.Logging.Level)

	// Unset sections still get defaults.
	assert.Equal(t, 10, cfg.Clustering.KeyTermCount)
}

func TestLoad_EnvOverridesYAML(t *testing.T) {
	path := writeConfig(t, `
storage:
  path: from-yaml.db
`)
	t.Setenv("NEWSINTEL_DB_PATH", "from-env.db")
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "from-env.db", cfg.Storage.Path)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"defaults valid", func(*Config) {}, true},
		{"similarity above one", func(c *Config) { c.Clustering.MinSimilarity = 1.5 }, false},
		{"negative title weight", func(c *Config) { c.Clustering.TitleWeight = -0.1 }, false},
		{"zero time window", func(c *Config) { c.Clustering.TimeWindow = 0 }, false},
		{"negative run rate", func(c *Config) { c.Ingest.MaxRunsPerMinute = -1 }, false},
		{"empty storage path", func(c *Config) { c.Storage.Path = "" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{}
			setDefaults(cfg)
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestGetConfigPath(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	assert.Equal(t, "config.yml", GetConfigPath("config.yml"))

	t.Setenv("CONFIG_PATH", "/etc/newsintel/config.yml")
	assert.Equal(t, "/etc/newsintel/config.yml", GetConfigPath("config.yml"))
}
