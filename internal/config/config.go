// Package config loads server configuration from an optional YAML file
// with environment variable overrides. Environment always wins.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// Config is the full server configuration
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Log     LogConfig     `yaml:"log"`
	Storage StorageConfig `yaml:"storage"`
}

// ServerConfig holds the listen address
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// LogConfig holds logging settings
type LogConfig struct {
	// Level is one of debug, info, warn, error
	Level string `yaml:"level"`
}

// StorageConfig selects and configures the history backend
type StorageConfig struct {
	// Type is "memory" or "redis"
	Type string `yaml:"type"`

	// RedisURL is required when Type is "redis"
	RedisURL string `yaml:"redis_url"`
}

// Default returns the configuration used when nothing is specified
func Default() Config {
	return Config{
		Server: ServerConfig{
			Host: "",
			Port: 8080,
		},
		Log: LogConfig{
			Level: "info",
		},
		Storage: StorageConfig{
			Type: StorageTypeMemory,
		},
	}
}

// Load reads configuration from the given YAML file (may be empty for none)
// and applies environment overrides on top.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.applyEnv()

	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := strings.TrimSpace(os.Getenv("HOST")); v != "" {
		c.Server.Host = v
	}
	if v := strings.TrimSpace(os.Getenv("PORT")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Server.Port = n
		}
	}
	if v := strings.TrimSpace(os.Getenv("LOG_LEVEL")); v != "" {
		c.Log.Level = v
	}
	if v := strings.TrimSpace(os.Getenv("STORAGE_TYPE")); v != "" {
		c.Storage.Type = v
	}
	if v := strings.TrimSpace(os.Getenv("REDIS_URL")); v != "" {
		c.Storage.RedisURL = v
	}
}

func (c *Config) validate() error {
	switch c.Storage.Type {
	case StorageTypeMemory:
	case StorageTypeRedis:
		if c.Storage.RedisURL == "" {
			return fmt.Errorf("redis_url required when storage type is %q", StorageTypeRedis)
		}
	default:
		return fmt.Errorf("invalid storage type %q", c.Storage.Type)
	}

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level %q", c.Log.Level)
	}

	return nil
}
