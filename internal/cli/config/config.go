package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config represents the typestream tooling configuration
type Config struct {
	Cache CacheConfig `mapstructure:"cache"`
	Log   LogConfig   `mapstructure:"log"`
}

// CacheConfig represents unit store configuration
type CacheConfig struct {
	Dir string `mapstructure:"dir"`
}

// LogConfig represents logging configuration
type LogConfig struct {
	Verbose bool `mapstructure:"verbose"`
}

// Load loads the configuration from typestream.yml or typestream.yaml
func Load() (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("cache.dir", filepath.Join(".typestream", "cache"))
	v.SetDefault("log.verbose", false)

	// Set config name and paths
	v.SetConfigName("typestream")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Enable environment variable support
	v.SetEnvPrefix("TYPESTREAM")
	v.AutomaticEnv()

	// Read config file if it exists
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found - use defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if config.Cache.Dir == "" {
		return nil, fmt.Errorf("cache.dir must not be empty")
	}

	return &config, nil
}

// CacheDir returns the unit store directory, honoring the
// TYPESTREAM_CACHE_DIR environment variable over the config file.
func CacheDir() string {
	if dir := os.Getenv("TYPESTREAM_CACHE_DIR"); dir != "" {
		return dir
	}
	cfg, err := Load()
	if err != nil {
		return filepath.Join(".typestream", "cache")
	}
	return cfg.Cache.Dir
}
