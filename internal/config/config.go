// Package config loads server and CLI settings from defaults, an optional config file
// and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/mmynk/tripsplit/pkg/logging"
)

// Keys shared by the config file, environment and CLI flag bindings.
const (
	KeyDBPath         = "db_path"
	KeyPort           = "port"
	KeyStaticPath     = "static_path"
	KeyLogLevel       = "log_level"
	KeyMetricsEnabled = "metrics_enabled"
)

// Config holds the runtime settings.
type Config struct {
	DBPath         string `mapstructure:"db_path"`
	Port           int    `mapstructure:"port"`
	StaticPath     string `mapstructure:"static_path"`
	LogLevel       string `mapstructure:"log_level"`
	MetricsEnabled bool   `mapstructure:"metrics_enabled"`
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyDBPath, "./data/tripsplit.db")
	v.SetDefault(KeyPort, 8080)
	v.SetDefault(KeyStaticPath, "../frontend/static")
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyMetricsEnabled, true)
}

// Load reads configuration into a Config. Precedence, highest first: values already
// bound on v (e.g. CLI flags), environment (DB_PATH, PORT, ...), the config file,
// defaults. An empty configFile searches for tripsplit.yaml in the working directory
// and $HOME/.config/tripsplit, and a missing file there is not an error.
func Load(v *viper.Viper, configFile string) (*Config, error) {
	SetDefaults(v)

	for _, key := range []string{KeyDBPath, KeyPort, KeyStaticPath, KeyLogLevel, KeyMetricsEnabled} {
		if err := v.BindEnv(key, strings.ToUpper(key)); err != nil {
			return nil, fmt.Errorf("failed to bind env for %s: %w", key, err)
		}
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("tripsplit")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "tripsplit"))
		}
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.DBPath = ExpandPath(cfg.DBPath)
	cfg.StaticPath = ExpandPath(cfg.StaticPath)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that the settings are usable.
func (c *Config) Validate() error {
	if c.DBPath == "" {
		return fmt.Errorf("db_path must not be empty")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// ExpandPath expands a leading ~ and environment variables in path.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return os.ExpandEnv(path)
}
