// Package config loads ProcPipe settings from the environment, with
// defaults that work out of the box. CLI flags may override individual
// values.
package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all settings.
type Config struct {
	Logging  LogConfig
	Drain    DrainConfig
	Terminal TermConfig
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"PROCPIPE_LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"PROCPIPE_LOG_DEV" default:"false"`
}

// DrainConfig holds pipe-draining configuration.
type DrainConfig struct {
	BufferBytes int `envconfig:"PROCPIPE_DRAIN_BUFFER" default:"65536"`
}

// TermConfig holds pty session defaults. An empty Shell defers to
// $SHELL.
type TermConfig struct {
	Shell string `envconfig:"PROCPIPE_SHELL" default:""`
	Cols  int    `envconfig:"PROCPIPE_COLS" default:"80"`
	Rows  int    `envconfig:"PROCPIPE_ROWS" default:"24"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from the environment, falling back
// to defaults on error.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Logging:  LogConfig{Level: "info"},
		Drain:    DrainConfig{BufferBytes: 65536},
		Terminal: TermConfig{Cols: 80, Rows: 24},
	}
}
