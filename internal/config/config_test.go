package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.False(t, cfg.Logging.Development)
	assert.Equal(t, 65536, cfg.Drain.BufferBytes)
	assert.Equal(t, 80, cfg.Terminal.Cols)
	assert.Equal(t, 24, cfg.Terminal.Rows)
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("PROCPIPE_LOG_LEVEL", "debug")
	t.Setenv("PROCPIPE_LOG_DEV", "true")
	t.Setenv("PROCPIPE_DRAIN_BUFFER", "1024")
	t.Setenv("PROCPIPE_SHELL", "/bin/zsh")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.Logging.Development)
	assert.Equal(t, 1024, cfg.Drain.BufferBytes)
	assert.Equal(t, "/bin/zsh", cfg.Terminal.Shell)
}

func TestLoadOrDefaultFallsBack(t *testing.T) {
	t.Setenv("PROCPIPE_DRAIN_BUFFER", "not-a-number")
	cfg := LoadOrDefault()
	assert.Equal(t, 65536, cfg.Drain.BufferBytes)
}
