package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/lao-tseu-is-alive/go-flocking/pkg/flocking"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestParseFlags_Defaults(t *testing.T) {
	o, err := parseFlags(nil)
	require.NoError(t, err)

	cfg, err := o.loadConfig()
	require.NoError(t, err)
	assert.False(t, o.headless)
	assert.Equal(t, "info", o.logLevel)
	assert.Equal(t, flocking.DefaultCount, cfg.Count)
	assert.Equal(t, 1, cfg.Workers)
	assert.Zero(t, cfg.Seed)
}

func TestParseFlags_OverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flock.yaml")
	require.NoError(t, os.WriteFile(path, []byte("count: 30\nseed: 4\nworkers: 2\n"), 0o600))

	o, err := parseFlags([]string{"--config", path, "--seed", "11", "--headless", "--ticks=50"})
	require.NoError(t, err)
	cfg, err := o.loadConfig()
	require.NoError(t, err)

	assert.True(t, o.headless)
	assert.Equal(t, uint64(50), o.ticks)
	assert.Equal(t, 30, cfg.Count)
	assert.Equal(t, uint64(11), cfg.Seed, "flag wins over file")
	assert.Equal(t, 2, cfg.Workers, "unset flag keeps the file value")
}

func TestParseFlags_Errors(t *testing.T) {
	_, err := parseFlags([]string{"--nope"})
	assert.Error(t, err)

	_, err = parseFlags([]string{"extra"})
	assert.Error(t, err)

	o, err := parseFlags([]string{"--workers=-3"})
	require.NoError(t, err)
	_, err = o.loadConfig()
	assert.ErrorIs(t, err, flocking.ErrInvalidRules)

	o, err = parseFlags([]string{"--config", filepath.Join(t.TempDir(), "missing.toml")})
	require.NoError(t, err)
	_, err = o.loadConfig()
	assert.Error(t, err)
}

func TestRun_Headless(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flock.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"count": 12, "ticksPerSecond": 500}`), 0o600))

	o, err := parseFlags([]string{"--config", path, "--headless", "--ticks", "25", "--seed", "3"})
	require.NoError(t, err)
	assert.NoError(t, run(context.Background(), o, zap.NewNop()))
}
