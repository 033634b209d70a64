package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/graph-gophers/graphql-engine/config"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load("GQLTEST_DEFAULTS_")
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestLoadEnv(t *testing.T) {
	t.Setenv("GQLTEST_MAX_DEPTH", "7")
	t.Setenv("GQLTEST_STRATEGY", "spawner")
	t.Setenv("GQLTEST_DISABLE_INTROSPECTION", "true")
	t.Setenv("GQLTEST_RATE_LIMIT", "2.5")

	cfg, err := config.Load("GQLTEST_")
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.MaxDepth)
	assert.Equal(t, config.Spawner, cfg.Strategy)
	assert.True(t, cfg.DisableIntrospection)
	assert.Equal(t, 2.5, cfg.RateLimit)
	assert.Equal(t, 10, cfg.MaxParallelism)
}

func TestLoadFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "engine.yaml")
	require.NoError(t, os.WriteFile(file, []byte("max_complexity: 100\nstrategy: non-blocking\n"), 0o600))
	t.Setenv("GQLFILE_STRATEGY", "current-thread")

	cfg, err := config.Load("GQLFILE_", file, filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 100, cfg.MaxComplexity)
	assert.Equal(t, config.CurrentThread, cfg.Strategy)
}

func TestValidate(t *testing.T) {
	cfg := config.Default()
	cfg.Strategy = "threads"
	assert.EqualError(t, cfg.Validate(), `unknown strategy "threads"`)

	cfg = config.Default()
	cfg.MaxDepth = -1
	assert.Error(t, cfg.Validate())
}
