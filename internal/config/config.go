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
	Store       StoreConfig       `yaml:"store" mapstructure:"store"`
	Match       MatchConfig       `yaml:"match" mapstructure:"match"`
	Pipeline    PipelineConfig    `yaml:"pipeline" mapstructure:"pipeline"`
	Attribution AttributionConfig `yaml:"attribution" mapstructure:"attribution"`
	Report      ReportConfig      `yaml:"report" mapstructure:"report"`
	Log         LogConfig         `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// MatchConfig configures identity resolution.
type MatchConfig struct {
	// Suffixes stripped from raw identifiers before comparison. Empty
	// means the built-in platform suffix set.
	Suffixes []string `yaml:"suffixes" mapstructure:"suffixes"`
}

// PipelineConfig locates the stage pipeline definition.
type PipelineConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// AttributionConfig configures the credit split.
type AttributionConfig struct {
	UnauthorizedWeight     float64 `yaml:"unauthorized_weight" mapstructure:"unauthorized_weight"`
	MaxConcurrentCompanies int     `yaml:"max_concurrent_companies" mapstructure:"max_concurrent_companies"`
}

// ReportConfig configures report output.
type ReportConfig struct {
	Format string `yaml:"format" mapstructure:"format"` // "csv" or "xlsx"
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
	v.SetEnvPrefix("COMMISSION")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "commission.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("attribution.unauthorized_weight", 0.5)
	v.SetDefault("attribution.max_concurrent_companies", 5)
	v.SetDefault("report.format", "csv")

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
