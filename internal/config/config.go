// Package config loads driftwatch configuration from file, environment
// and defaults via viper.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for environment variable overrides
// (e.g. DRIFTWATCH_BATCH_SIZE, DRIFTWATCH_GITHUB_TOKEN).
const EnvPrefix = "DRIFTWATCH"

// Defaults for the verification engine. The failure threshold default is
// deliberately 3: a single confirmed absence is indistinguishable from a
// remote hiccup, so deletion requires repeated confirmation.
const (
	DefaultBatchSize         = 200
	DefaultFailureThreshold  = 3
	DefaultMaxParallelGroups = 4
	DefaultPerGroupTimeout   = 2 * time.Minute
	DefaultRecheckInterval   = 24 * time.Hour
	DefaultSweepInterval     = 15 * time.Minute
)

// IndexConfig configures the external search-index removal notice.
// An empty BaseURL disables notification.
type IndexConfig struct {
	BaseURL    string `mapstructure:"base_url"`
	Collection string `mapstructure:"collection"`
}

// GitHubConfig configures the GitHub verifier transport.
type GitHubConfig struct {
	Token   string `mapstructure:"token"`
	BaseURL string `mapstructure:"base_url"` // enterprise installs; empty = api.github.com
}

// Config is the driftwatch configuration.
type Config struct {
	DBPath   string `mapstructure:"db_path"`
	LogLevel string `mapstructure:"log_level"`

	// Verification engine knobs.
	BatchSize         int           `mapstructure:"batch_size"`
	FailureThreshold  int           `mapstructure:"failure_threshold"`
	MaxParallelGroups int           `mapstructure:"max_parallel_groups"`
	PerGroupTimeout   time.Duration `mapstructure:"per_group_timeout"`
	RecheckInterval   time.Duration `mapstructure:"recheck_interval"`
	SweepInterval     time.Duration `mapstructure:"sweep_interval"`

	// SourceTypes is an optional allow-list; empty means all registered
	// source types are eligible for selection.
	SourceTypes []string `mapstructure:"source_types"`

	Index  IndexConfig  `mapstructure:"index"`
	GitHub GitHubConfig `mapstructure:"github"`
}

// DefaultDir returns the default driftwatch home directory (~/.driftwatch).
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".driftwatch"), nil
}

// Load reads config.yaml from dir (or the default directory when dir is
// empty), applies DRIFTWATCH_* environment overrides, and validates the
// result. A missing config file is not an error; defaults apply.
func Load(dir string) (*Config, error) {
	if dir == "" {
		var err error
		dir, err = DefaultDir()
		if err != nil {
			return nil, err
		}
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v, dir)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper, dir string) {
	v.SetDefault("db_path", filepath.Join(dir, "driftwatch.db"))
	v.SetDefault("log_level", "info")
	v.SetDefault("batch_size", DefaultBatchSize)
	v.SetDefault("failure_threshold", DefaultFailureThreshold)
	v.SetDefault("max_parallel_groups", DefaultMaxParallelGroups)
	v.SetDefault("per_group_timeout", DefaultPerGroupTimeout)
	v.SetDefault("recheck_interval", DefaultRecheckInterval)
	v.SetDefault("sweep_interval", DefaultSweepInterval)
	v.SetDefault("index.collection", "records")
}

// Validate enforces engine constraints on the loaded configuration.
func (c *Config) Validate() error {
	if c.BatchSize <= 0 {
		return fmt.Errorf("batch_size must be positive, got %d", c.BatchSize)
	}
	// A threshold of 1 would delete on the first confirmed absence,
	// defeating graduated confirmation.
	if c.FailureThreshold < 2 {
		return fmt.Errorf("failure_threshold must be at least 2, got %d", c.FailureThreshold)
	}
	if c.MaxParallelGroups <= 0 {
		return fmt.Errorf("max_parallel_groups must be positive, got %d", c.MaxParallelGroups)
	}
	if c.PerGroupTimeout <= 0 {
		return fmt.Errorf("per_group_timeout must be positive, got %s", c.PerGroupTimeout)
	}
	if c.SweepInterval <= 0 {
		return fmt.Errorf("sweep_interval must be positive, got %s", c.SweepInterval)
	}
	return nil
}

// Save writes config.yaml into dir with the current values. Used by
// `driftwatch init` to materialize an editable starting point.
func Save(dir string, cfg *Config) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}

	v := viper.New()
	v.Set("db_path", cfg.DBPath)
	v.Set("log_level", cfg.LogLevel)
	v.Set("batch_size", cfg.BatchSize)
	v.Set("failure_threshold", cfg.FailureThreshold)
	v.Set("max_parallel_groups", cfg.MaxParallelGroups)
	v.Set("per_group_timeout", cfg.PerGroupTimeout.String())
	v.Set("recheck_interval", cfg.RecheckInterval.String())
	v.Set("sweep_interval", cfg.SweepInterval.String())
	if len(cfg.SourceTypes) > 0 {
		v.Set("source_types", cfg.SourceTypes)
	}
	v.Set("index.base_url", cfg.Index.BaseURL)
	v.Set("index.collection", cfg.Index.Collection)
	v.Set("github.token", cfg.GitHub.Token)
	v.Set("github.base_url", cfg.GitHub.BaseURL)

	path := filepath.Join(dir, "config.yaml")
	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// Default returns a config populated with defaults rooted at dir.
func Default(dir string) *Config {
	return &Config{
		DBPath:            filepath.Join(dir, "driftwatch.db"),
		LogLevel:          "info",
		BatchSize:         DefaultBatchSize,
		FailureThreshold:  DefaultFailureThreshold,
		MaxParallelGroups: DefaultMaxParallelGroups,
		PerGroupTimeout:   DefaultPerGroupTimeout,
		RecheckInterval:   DefaultRecheckInterval,
		SweepInterval:     DefaultSweepInterval,
		Index:             IndexConfig{Collection: "records"},
	}
}
