// Package config loads paneflow settings from a TOML file and the
// environment.
//
// The file is ~/.config/paneflow/config.toml unless PANEFLOW_CONFIG names
// another one. Every key can be overridden by an environment variable with
// the PANEFLOW_ prefix and dots replaced by underscores, for example
// PANEFLOW_CACHE_BACKEND=redis.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/viper"

	"github.com/matzehuels/paneflow/pkg/cache"
	"github.com/matzehuels/paneflow/pkg/layout"
)

const appName = "paneflow"

// Config holds application configuration.
type Config struct {
	Layout LayoutConfig
	Cache  CacheConfig
	Server ServerConfig
	Log    LogConfig
}

// LayoutConfig holds resize defaults.
type LayoutConfig struct {
	Gap   float64
	Width float64 // default target width; 0 keeps the scene width
}

// CacheConfig selects the result cache.
type CacheConfig struct {
	Backend  string
	Dir      string
	RedisURL string `mapstructure:"redis_url"`
	TTL      time.Duration
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr string
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string
}

// Load reads configuration from file and env. A missing file is not an error.
func Load() (Config, error) {
	v := viper.New()

	v.SetDefault("layout.gap", layout.DefaultGap)
	v.SetDefault("layout.width", 0)
	v.SetDefault("cache.backend", string(cache.BackendFile))
	v.SetDefault("cache.dir", DefaultCacheDir())
	v.SetDefault("cache.redis_url", "redis://localhost:6379/0")
	v.SetDefault("cache.ttl", cache.DefaultTTL)
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("log.level", "info")

	v.SetConfigType("toml")
	if path := os.Getenv("PANEFLOW_CONFIG"); path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(filepath.Join(configHome(), appName))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("PANEFLOW")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate checks enumerated values.
func (c Config) Validate() error {
	switch cache.Backend(c.Cache.Backend) {
	case cache.BackendNone, cache.BackendFile, cache.BackendRedis:
	default:
		return fmt.Errorf("cache.backend: unknown backend %q (want none, file or redis)", c.Cache.Backend)
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	if c.Layout.Gap < 0 {
		return fmt.Errorf("layout.gap: must not be negative, got %g", c.Layout.Gap)
	}
	return nil
}

// CacheOptions converts the cache section for cache.Open.
func (c Config) CacheOptions() cache.Config {
	return cache.Config{
		Backend:  cache.Backend(c.Cache.Backend),
		Dir:      c.Cache.Dir,
		RedisURL: c.Cache.RedisURL,
	}
}

// LogLevel returns the configured level, or info when it does not parse.
func (c Config) LogLevel() log.Level {
	level, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return log.InfoLevel
	}
	return level
}

// Save writes cfg to path, or to the default location when path is empty.
func Save(cfg Config, path string) error {
	if path == "" {
		path = DefaultPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("layout.gap", cfg.Layout.Gap)
	v.Set("layout.width", cfg.Layout.Width)
	v.Set("cache.backend", cfg.Cache.Backend)
	v.Set("cache.dir", cfg.Cache.Dir)
	v.Set("cache.redis_url", cfg.Cache.RedisURL)
	v.Set("cache.ttl", cfg.Cache.TTL.String())
	v.Set("server.addr", cfg.Server.Addr)
	v.Set("log.level", cfg.Log.Level)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// DefaultPath returns the config file location used when PANEFLOW_CONFIG
// is unset.
func DefaultPath() string {
	if path := os.Getenv("PANEFLOW_CONFIG"); path != "" {
		return path
	}
	return filepath.Join(configHome(), appName, "config.toml")
}

// DefaultCacheDir returns $XDG_CACHE_HOME/paneflow or ~/.cache/paneflow.
func DefaultCacheDir() string {
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, appName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), appName)
	}
	return filepath.Join(home, ".cache", appName)
}

func configHome() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return os.TempDir()
	}
	return filepath.Join(home, ".config")
}
