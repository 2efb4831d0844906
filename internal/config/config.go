// Package config loads processor configuration from a YAML file with
// .env and environment variable overrides.
package config

import (
	"fmt"
	"time"
)

// Default configuration values.
const (
	defaultServiceName      = "newsintel"
	defaultServiceVersion   = "1.0.0"
	defaultStoragePath      = "newsintel.db"
	defaultDropDir          = "drops"
	defaultMaxRunsPerMinute = 6
	defaultMetricsAddr      = ":9090"
	defaultLogLevel         = "info"
	defaultLogFormat        = "json"
	defaultClusterWindow    = 24 * time.Hour
	defaultMinSimilarity    = 0.5
	defaultTitleWeight      = 0.6
	defaultCombinedWeight   = 0.4
	defaultCoordWindow      = 30 * time.Minute
	defaultCoordMinSources  = 3
	defaultKeyTermCount     = 10
)

// Config holds all configuration for the processor.
type Config struct {
	Service    ServiceConfig    `yaml:"service"`
	Storage    StorageConfig    `yaml:"storage"`
	Ingest     IngestConfig     `yaml:"ingest"`
	Clustering ClusteringConfig `yaml:"clustering"`
	Metrics    MetricsConfig    `yaml:"metrics"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// ServiceConfig holds service-level configuration.
type ServiceConfig struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
}

// StorageConfig holds the sqlite database location.
type StorageConfig struct {
	Path string `env:"NEWSINTEL_DB_PATH" yaml:"path"`
}

// IngestConfig holds drop-directory watch settings.
type IngestConfig struct {
	DropDir          string `env:"NEWSINTEL_DROP_DIR" yaml:"drop_dir"`
	MaxRunsPerMinute int    `yaml:"max_runs_per_minute"`
}

// ClusteringConfig holds similarity and grouping thresholds.
type ClusteringConfig struct {
	TimeWindow            time.Duration `yaml:"time_window"`
	MinSimilarity         float64       `yaml:"min_similarity"`
	TitleWeight           float64       `yaml:"title_weight"`
	CombinedWeight        float64       `yaml:"combined_weight"`
	CoordinatedWindow     time.Duration `yaml:"coordinated_window"`
	CoordinatedMinSources int           `yaml:"coordinated_min_sources"`
	KeyTermCount          int           `yaml:"key_term_count"`
}

// MetricsConfig holds the Prometheus endpoint settings.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `env:"NEWSINTEL_METRICS_ADDR" yaml:"addr"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `env:"LOG_LEVEL"  yaml:"level"`
	Format string `env:"LOG_FORMAT" yaml:"format"`
	Output string `yaml:"output"`
}

// Load reads configuration from path (empty path means defaults only),
// applies .env files, defaults, and environment overrides, then validates.
func Load(path string) (*Config, error) {
	if err := loadEnvFiles(); err != nil {
		return nil, fmt.Errorf("load environment files: %w", err)
	}

	cfg := &Config{}
	if err := loadFile(path, cfg); err != nil {
		return nil, err
	}

	setDefaults(cfg)
	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

// Validate checks that the loaded configuration is internally consistent.
func (c *Config) Validate() error {
	if c.Storage.Path == "" {
		return fmt.Errorf("storage.path is required")
	}
	if c.Clustering.MinSimilarity < 0 || c.Clustering.MinSimilarity > 1 {
		return fmt.Errorf("clustering.min_similarity must be in [0,1], got %v", c.Clustering.MinSimilarity)
	}
	if c.Clustering.TitleWeight < 0 || c.Clustering.CombinedWeight < 0 {
		return fmt.Errorf("clustering weights must be non-negative")
	}
	if c.Clustering.TimeWindow <= 0 {
		return fmt.Errorf("clustering.time_window must be positive, got %v", c.Clustering.TimeWindow)
	}
	if c.Ingest.MaxRunsPerMinute < 0 {
		return fmt.Errorf("ingest.max_runs_per_minute must be non-negative, got %d", c.Ingest.MaxRunsPerMinute)
	}
	return nil
}

func setDefaults(cfg *Config) {
	setServiceDefaults(&cfg.Service)
	setStorageDefaults(&cfg.Storage)
	setIngestDefaults(&cfg.Ingest)
	setClusteringDefaults(&cfg.Clustering)
	setMetricsDefaults(&cfg.Metrics)
	setLoggingDefaults(&cfg.Logging)
}

func setServiceDefaults(s *ServiceConfig) {
	if s.Name == "" {
		s.Name = defaultServiceName
	}
	if s.Version == "" {
		s.Version = defaultServiceVersion
	}
}

func setStorageDefaults(s *StorageConfig) {
	if s.Path == "" {
		s.Path = defaultStoragePath
	}
}

func setIngestDefaults(i *IngestConfig) {
	if i.DropDir == "" {
		i.DropDir = defaultDropDir
	}
	if i.MaxRunsPerMinute == 0 {
		i.MaxRunsPerMinute = defaultMaxRunsPerMinute
	}
}

func setClusteringDefaults(c *ClusteringConfig) {
	if c.TimeWindow == 0 {
		c.TimeWindow = defaultClusterWindow
	}
	if c.MinSimilarity == 0 {
		c.MinSimilarity = defaultMinSimilarity
	}
	if c.TitleWeight == 0 {
		c.TitleWeight = defaultTitleWeight
	}
	if c.CombinedWeight == 0 {
		c.CombinedWeight = defaultCombinedWeight
	}
	if c.CoordinatedWindow == 0 {
		c.CoordinatedWindow = defaultCoordWindow
	}
	if c.CoordinatedMinSources == 0 {
		c.CoordinatedMinSources = defaultCoordMinSources
	}
	if c.KeyTermCount == 0 {
		c.KeyTermCount = defaultKeyTermCount
	}
}

func setMetricsDefaults(m *MetricsConfig) {
	if m.Addr == "" {
		m.Addr = defaultMetricsAddr
	}
}

func setLoggingDefaults(l *LoggingConfig) {
	if l.Level == "" {
		l.Level = defaultLogLevel
	}
	if l.Format == "" {
		l.Format = defaultLogFormat
	}
}
