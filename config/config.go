// Package config holds the engine settings and loads them from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Strategy names accepted by Config.Strategy.
const (
	CurrentThread = "current-thread"
	NonBlocking   = "non-blocking"
	Spawner       = "spawner"
)

type Config struct {
	MaxDepth             int    `mapstructure:"max_depth"`
	MaxComplexity        int    `mapstructure:"max_complexity"`
	MaxParallelism       int    `mapstructure:"max_parallelism"`
	Strategy             string `mapstructure:"strategy"`
	SpawnerPoolSize      int    `mapstructure:"spawner_pool_size"`
	DisableIntrospection bool   `mapstructure:"disable_introspection"`
	// RateLimit is the number of operations admitted per second; 0 turns limiting off.
	RateLimit float64 `mapstructure:"rate_limit"`
	RateBurst int     `mapstructure:"rate_burst"`
	LogLevel  string  `mapstructure:"log_level"`
	LogFormat string  `mapstructure:"log_format"`
}

func Default() *Config {
	return &Config{
		MaxDepth:        50,
		MaxParallelism:  10,
		Strategy:        CurrentThread,
		SpawnerPoolSize: 64,
		RateBurst:       1,
		LogLevel:        "info",
		LogFormat:       "text",
	}
}

// Validate checks the settings for values the engine can not use.
func (c *Config) Validate() error {
	switch c.Strategy {
	case CurrentThread, NonBlocking, Spawner:
	default:
		return fmt.Errorf("unknown strategy %q", c.Strategy)
	}
	if c.MaxDepth < 0 || c.MaxComplexity < 0 || c.MaxParallelism < 0 || c.SpawnerPoolSize < 0 {
		return errors.New("limits must not be negative")
	}
	return nil
}

// Load starts from Default, then applies the optional config files in order and
// finally the environment variables starting with prefix: with prefix "GQL_",
// GQL_MAX_DEPTH sets MaxDepth.
func Load(prefix string, files ...string) (*Config, error) {
	v := viper.New()

	def := Default()
	v.SetDefault("max_depth", def.MaxDepth)
	v.SetDefault("max_complexity", def.MaxComplexity)
	v.SetDefault("max_parallelism", def.MaxParallelism)
	v.SetDefault("strategy", def.Strategy)
	v.SetDefault("spawner_pool_size", def.SpawnerPoolSize)
	v.SetDefault("disable_introspection", def.DisableIntrospection)
	v.SetDefault("rate_limit", def.RateLimit)
	v.SetDefault("rate_burst", def.RateBurst)
	v.SetDefault("log_level", def.LogLevel)
	v.SetDefault("log_format", def.LogFormat)

	for _, file := range files {
		v.SetConfigFile(file)
		if err := v.MergeInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); ok || errors.Is(err, os.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("failed to read config %s: %w", file, err)
		}
	}

	prefixUpper := strings.ToUpper(prefix)
	for _, envStr := range os.Environ() {
		key, value, ok := strings.Cut(envStr, "=")
		if !ok || prefixUpper == "" || !strings.HasPrefix(key, prefixUpper) {
			continue
		}
		// GQL_MAX_DEPTH -> max_depth
		propKey := strings.ToLower(strings.TrimPrefix(key, prefixUpper))
		propKey = strings.TrimPrefix(propKey, "_")
		v.Set(propKey, value)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
