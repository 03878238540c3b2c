package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store    StoreConfig    `yaml:"store" mapstructure:"store"`
	Claude   ClaudeConfig   `yaml:"claude" mapstructure:"claude"`
	Gemini   GeminiConfig   `yaml:"gemini" mapstructure:"gemini"`
	Backends BackendsConfig `yaml:"backends" mapstructure:"backends"`
	Cache    CacheConfig    `yaml:"cache" mapstructure:"cache"`
	Scoring  ScoringConfig  `yaml:"scoring" mapstructure:"scoring"`
	Taxonomy TaxonomyConfig `yaml:"taxonomy" mapstructure:"taxonomy"`
	Server   ServerConfig   `yaml:"server" mapstructure:"server"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the run history backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// ClaudeConfig holds Anthropic API settings for the contextual extractor.
type ClaudeConfig struct {
	Key               string `yaml:"key" mapstructure:"key"`
	Model             string `yaml:"model" mapstructure:"model"`
	RequestsPerMinute int    `yaml:"requests_per_minute" mapstructure:"requests_per_minute"`
}

// GeminiConfig holds Gemini API settings for the embedding backend.
type GeminiConfig struct {
	Key               string `yaml:"key" mapstructure:"key"`
	Model             string `yaml:"model" mapstructure:"model"`
	RequestsPerMinute int    `yaml:"requests_per_minute" mapstructure:"requests_per_minute"`
}

// BackendsConfig controls registry probing and backend enablement.
type BackendsConfig struct {
	ProbeTimeoutSecs   int  `yaml:"probe_timeout_secs" mapstructure:"probe_timeout_secs"`
	ExtractTimeoutSecs int  `yaml:"extract_timeout_secs" mapstructure:"extract_timeout_secs"`
	StatisticalEnabled bool `yaml:"statistical_enabled" mapstructure:"statistical_enabled"`
	CrossCheck         bool `yaml:"cross_check" mapstructure:"cross_check"`
}

// CacheConfig bounds the result cache.
type CacheConfig struct {
	TTLMinutes int `yaml:"ttl_minutes" mapstructure:"ttl_minutes"`
	MaxEntries int `yaml:"max_entries" mapstructure:"max_entries"`
}

// ScoringConfig holds the quality score weights. Weights live in config
// rather than constants so deployments can rebalance them; a weight change
// alters score semantics, so bump the taxonomy version alongside it to
// invalidate cached results.
type ScoringConfig struct {
	Weights ScoreWeights `yaml:"weights" mapstructure:"weights"`
}

// ScoreWeights weights the quality sub-scores in the final combination.
type ScoreWeights struct {
	Structure     float64 `yaml:"structure" mapstructure:"structure"`
	SkillCoverage float64 `yaml:"skill_coverage" mapstructure:"skill_coverage"`
	Impact        float64 `yaml:"impact" mapstructure:"impact"`
	AntiPattern   float64 `yaml:"anti_pattern" mapstructure:"anti_pattern"`
}

// TaxonomyConfig points at the field taxonomy file. Empty path uses the
// builtin taxonomy.
type TaxonomyConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
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
	v.SetEnvPrefix("RESUME")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "resume.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("claude.model", "claude-haiku-4-5-20251001")
	v.SetDefault("claude.requests_per_minute", 50)
	v.SetDefault("gemini.model", "gemini-embedding-001")
	v.SetDefault("gemini.requests_per_minute", 60)
	v.SetDefault("backends.probe_timeout_secs", 5)
	v.SetDefault("backends.extract_timeout_secs", 30)
	v.SetDefault("backends.statistical_enabled", true)
	v.SetDefault("backends.cross_check", true)
	v.SetDefault("cache.ttl_minutes", 60)
	v.SetDefault("cache.max_entries", 1024)
	v.SetDefault("scoring.weights.structure", 0.30)
	v.SetDefault("scoring.weights.skill_coverage", 0.35)
	v.SetDefault("scoring.weights.impact", 0.20)
	v.SetDefault("scoring.weights.anti_pattern", 0.15)

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
