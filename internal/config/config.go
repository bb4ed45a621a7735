// Package config loads application configuration from file and environment
// and owns global logger setup.
package config

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store    StoreConfig    `yaml:"store" mapstructure:"store"`
	Brave    BraveConfig    `yaml:"brave" mapstructure:"brave"`
	Search   SearchConfig   `yaml:"search" mapstructure:"search"`
	Keywords KeywordsConfig `yaml:"keywords" mapstructure:"keywords"`
	Role     RoleConfig     `yaml:"role" mapstructure:"role"`
	Scorer   ScorerConfig   `yaml:"scorer" mapstructure:"scorer"`
	Validate ValidateConfig `yaml:"validate" mapstructure:"validate"`
	Batch    BatchConfig    `yaml:"batch" mapstructure:"batch"`
	Export   ExportConfig   `yaml:"export" mapstructure:"export"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the persistence backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	MaxConns    int32  `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns    int32  `yaml:"min_conns" mapstructure:"min_conns"`
}

// BraveConfig holds Brave Search API settings.
type BraveConfig struct {
	Key     string `yaml:"key" mapstructure:"key"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
}

// SearchConfig configures throttling and caching for external searches.
type SearchConfig struct {
	RatePerSec    float64 `yaml:"rate_per_sec" mapstructure:"rate_per_sec"`
	CacheTTLHours int     `yaml:"cache_ttl_hours" mapstructure:"cache_ttl_hours"`
	ResultCount   int     `yaml:"result_count" mapstructure:"result_count"`
}

// CacheTTL returns the search cache TTL as a duration.
func (s SearchConfig) CacheTTL() time.Duration {
	return time.Duration(s.CacheTTLHours) * time.Hour
}

// KeywordsConfig configures the vocabulary table.
type KeywordsConfig struct {
	TablePath string `yaml:"table_path" mapstructure:"table_path"`
}

// RoleConfig holds role classifier signal weights and decision thresholds.
type RoleConfig struct {
	StrongPositive        float64 `yaml:"strong_positive" mapstructure:"strong_positive"`
	StrongNegative        float64 `yaml:"strong_negative" mapstructure:"strong_negative"`
	GenericPositive       float64 `yaml:"generic_positive" mapstructure:"generic_positive"`
	GenericNegative       float64 `yaml:"generic_negative" mapstructure:"generic_negative"`
	CustomerThreshold     float64 `yaml:"customer_threshold" mapstructure:"customer_threshold"`
	IntermediaryThreshold float64 `yaml:"intermediary_threshold" mapstructure:"intermediary_threshold"`
}

// ScorerConfig holds SCE scorer weights.
type ScorerConfig struct {
	E1PerHit        float64 `yaml:"e1_per_hit" mapstructure:"e1_per_hit"`
	E2PerHit        float64 `yaml:"e2_per_hit" mapstructure:"e2_per_hit"`
	E3PerHit        float64 `yaml:"e3_per_hit" mapstructure:"e3_per_hit"`
	NegativePenalty float64 `yaml:"negative_penalty" mapstructure:"negative_penalty"`
}

// ValidateConfig configures the deep validator.
type ValidateConfig struct {
	HardTimeoutSecs int `yaml:"hard_timeout_secs" mapstructure:"hard_timeout_secs"`
	PageTimeoutSecs int `yaml:"page_timeout_secs" mapstructure:"page_timeout_secs"`
}

// BatchConfig configures batch processing.
type BatchConfig struct {
	CheckpointEvery int `yaml:"checkpoint_every" mapstructure:"checkpoint_every"`
	Workers         int `yaml:"workers" mapstructure:"workers"`
}

// ExportConfig configures export output.
type ExportConfig struct {
	OutputDir string `yaml:"output_dir" mapstructure:"output_dir"`
	Format    string `yaml:"format" mapstructure:"format"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("LEADGEN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "leadgen.db")
	v.SetDefault("store.max_conns", 10)
	v.SetDefault("store.min_conns", 2)
	v.SetDefault("brave.base_url", "https://api.search.brave.com/res/v1")
	v.SetDefault("search.rate_per_sec", 1.0)
	v.SetDefault("search.cache_ttl_hours", 72)
	v.SetDefault("search.result_count", 5)
	v.SetDefault("role.strong_positive", 0.3)
	v.SetDefault("role.strong_negative", -0.4)
	v.SetDefault("role.generic_positive", 0.1)
	v.SetDefault("role.generic_negative", -0.15)
	v.SetDefault("role.customer_threshold", 0.3)
	v.SetDefault("role.intermediary_threshold", -0.2)
	v.SetDefault("scorer.e1_per_hit", 0.4)
	v.SetDefault("scorer.e2_per_hit", 0.25)
	v.SetDefault("scorer.e3_per_hit", 0.2)
	v.SetDefault("scorer.negative_penalty", 0.3)
	v.SetDefault("validate.hard_timeout_secs", 45)
	v.SetDefault("validate.page_timeout_secs", 15)
	v.SetDefault("batch.checkpoint_every", 25)
	v.SetDefault("batch.workers", 1)
	v.SetDefault("export.output_dir", "out")
	v.SetDefault("export.format", "csv")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
