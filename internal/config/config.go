package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all trichroma configuration.
type Config struct {
	Channel ChannelConfig
	Run     RunConfig
	Metrics MetricsConfig
	Logging LogConfig
}

// ChannelConfig names the shared-memory channel.
type ChannelConfig struct {
	Name string `envconfig:"TRICHROMA_CHANNEL" default:"trichroma"`
}

// RunConfig holds defaults for the run orchestrator.
type RunConfig struct {
	Generators int `envconfig:"TRICHROMA_GENERATORS" default:"4"`
}

// MetricsConfig holds the diagnostics listener configuration.
type MetricsConfig struct {
	Addr string `envconfig:"TRICHROMA_METRICS_ADDR" default:""`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `envconfig:"TRICHROMA_LOG_LEVEL" default:"info"`
	Format string `envconfig:"TRICHROMA_LOG_FORMAT" default:"console"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Channel: ChannelConfig{
			Name: "trichroma",
		},
		Run: RunConfig{
			Generators: 4,
		},
		Metrics: MetricsConfig{
			Addr: "",
		},
		Logging: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}
