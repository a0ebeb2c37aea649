// Package config handles application configuration from environment
// variables and an optional TOML config file.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
//
// Values are resolved in this order (later wins): built-in defaults, the
// config file, a .env file, SEASONCAL_* environment variables.
type Config struct {
	// Server settings
	Port int    `mapstructure:"port"` // HTTP port to listen on
	Env  string `mapstructure:"env"`  // development, staging, production

	// Game clock
	ClockSource  string `mapstructure:"clock_source"`   // sqlite or savefile
	DatabasePath string `mapstructure:"database_path"`  // Path to SQLite file
	SaveFilePath string `mapstructure:"save_file_path"` // Path to TOML save file

	// Authentication
	APIKey string `mapstructure:"api_key"` // API key for clock and event writes

	// Logging
	LogLevel  string `mapstructure:"log_level"`  // debug, info, warn, error
	LogFormat string `mapstructure:"log_format"` // json, text
}

// Environment constants
const (
	EnvDevelopment = "development"
	EnvStaging     = "staging"
	EnvProduction  = "production"
)

// Clock sources
const (
	ClockSQLite   = "sqlite"
	ClockSaveFile = "savefile"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "SEASONCAL"

// Load reads configuration. If path is non-empty the TOML file at path must
// exist; otherwise ./seasoncal.toml is read when present.
func Load(path string) (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigType("toml")
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
	} else {
		v.SetConfigName("seasoncal")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config file: %w", err)
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", 8080)
	v.SetDefault("env", EnvDevelopment)
	v.SetDefault("clock_source", ClockSQLite)
	v.SetDefault("database_path", "./data/seasoncal.db")
	v.SetDefault("save_file_path", "./data/save.toml")
	v.SetDefault("api_key", "")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
}

// Validate checks that all required configuration is present and valid.
func (c *Config) Validate() error {
	var errs []error

	if c.Port < 1 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port must be between 1 and 65535, got %d", c.Port))
	}

	switch c.Env {
	case EnvDevelopment, EnvStaging, EnvProduction:
	default:
		errs = append(errs, fmt.Errorf("env must be one of: development, staging, production; got %q", c.Env))
	}

	// Events live in SQLite whichever source drives the clock.
	if c.DatabasePath == "" {
		errs = append(errs, errors.New("database_path is required"))
	}

	switch c.ClockSource {
	case ClockSQLite:
	case ClockSaveFile:
		if c.SaveFilePath == "" {
			errs = append(errs, errors.New("save_file_path is required for the savefile clock"))
		}
	default:
		errs = append(errs, fmt.Errorf("clock_source must be one of: sqlite, savefile; got %q", c.ClockSource))
	}

	if c.Env == EnvProduction && c.APIKey == "" {
		errs = append(errs, errors.New("api_key is required in production"))
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("log_level must be one of: debug, info, warn, error; got %q", c.LogLevel))
	}

	switch c.LogFormat {
	case "json", "text":
	default:
		errs = append(errs, fmt.Errorf("log_format must be one of: json, text; got %q", c.LogFormat))
	}

	return errors.Join(errs...)
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Env == EnvDevelopment
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}
