// Package config loads runtime settings from defaults, an optional .env
// file, and PANTRYCHEF_* environment variables.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"pantrychef/internal/logger"
)

// Config holds every runtime setting for the assistant.
type Config struct {
	DataDir  string `mapstructure:"data_dir"`
	LogFile  string `mapstructure:"log_file"`
	LogLevel string `mapstructure:"log_level"`

	MinMatchScore      float64 `mapstructure:"min_match_score"`
	FilteredMinScore   float64 `mapstructure:"filtered_min_score"`
	AllowSubstitutions bool    `mapstructure:"allow_substitutions"`

	ExpiryWarnDays      int           `mapstructure:"expiry_warn_days"`
	ExpiryCheckInterval time.Duration `mapstructure:"expiry_check_interval"`
}

// Load reads configuration in increasing precedence: defaults, a .env file
// in the working directory, then environment variables.
func Load() (*Config, error) {
	// A missing .env file is fine; defaults and the environment still apply.
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("PANTRYCHEF")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Short unprefixed aliases for the settings people tweak most.
	v.BindEnv("log_level", "LOG_LEVEL")
	v.BindEnv("data_dir", "DATA_DIR")

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// LoggerLevel maps the configured log level string to a logger level.
func (c *Config) LoggerLevel() logger.Level {
	switch strings.ToLower(c.LogLevel) {
	case "off":
		return logger.LevelOff
	case "verbose":
		return logger.LevelVerbose
	default:
		return logger.LevelNormal
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("data_dir", "data")
	v.SetDefault("log_file", "pantrychef.log")
	v.SetDefault("log_level", "normal")

	v.SetDefault("min_match_score", 0.7)
	v.SetDefault("filtered_min_score", 0.8)
	v.SetDefault("allow_substitutions", true)

	v.SetDefault("expiry_warn_days", 3)
	v.SetDefault("expiry_check_interval", "30s")
}

func validate(cfg *Config) error {
	if cfg.DataDir == "" {
		return fmt.Errorf("data_dir is required")
	}
	switch strings.ToLower(cfg.LogLevel) {
	case "off", "normal", "verbose":
	default:
		return fmt.Errorf("unknown log_level %q", cfg.LogLevel)
	}
	if cfg.MinMatchScore < 0 || cfg.MinMatchScore > 1 {
		return fmt.Errorf("min_match_score must be between 0 and 1, got %v", cfg.MinMatchScore)
	}
	if cfg.FilteredMinScore < 0 || cfg.FilteredMinScore > 1 {
		return fmt.Errorf("filtered_min_score must be between 0 and 1, got %v", cfg.FilteredMinScore)
	}
	if cfg.ExpiryWarnDays < 0 {
		return fmt.Errorf("expiry_warn_days must not be negative, got %d", cfg.ExpiryWarnDays)
	}
	if cfg.ExpiryCheckInterval <= 0 {
		return fmt.Errorf("expiry_check_interval must be positive, got %s", cfg.ExpiryCheckInterval)
	}
	return nil
}
