package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 1, cfg.Generate.Count)
	assert.Equal(t, 0.0, cfg.Generate.ErrorRate)
	assert.Equal(t, 1, cfg.Generate.Sets)
	assert.Equal(t, 1, cfg.Generate.Workers)
	assert.Equal(t, 80.0, cfg.Generate.FieldWeight)
	assert.Equal(t, 20.0, cfg.Generate.SegmentWeight)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Empty(t, cfg.Source)
}

func TestLoad_FileAndEnvironment(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	t.Setenv("HOME", t.TempDir())

	yaml := "generate:\n  count: 5\n  error_rate: 0.4\nspecs:\n  dir: ./specs\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "editrainer.yaml"), []byte(yaml), 0o644))
	t.Setenv("EDITRAINER_LOG_LEVEL", "debug")
	t.Setenv("EDITRAINER_GENERATE_SETS", "3")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.Generate.Count)
	assert.Equal(t, 0.4, cfg.Generate.ErrorRate)
	assert.Equal(t, 3, cfg.Generate.Sets)
	assert.Equal(t, "./specs", cfg.Specs.Dir)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Contains(t, cfg.Source, "editrainer.yaml")
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	t.Setenv("HOME", t.TempDir())
	t.Setenv("EDITRAINER_METRICS_FILE", "")
	require.NoError(t, os.Unsetenv("EDITRAINER_METRICS_FILE"))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("EDITRAINER_METRICS_FILE=run.prom\n"), 0o644))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "run.prom", cfg.Metrics.File)
}

func TestLoad_ExplicitPathMustExist(t *testing.T) {
	chdir(t, t.TempDir())
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing.yaml")
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"count", "generate:\n  count: 0\n", "generate.count"},
		{"error rate", "generate:\n  error_rate: 1.5\n", "generate.error_rate"},
		{"sets", "generate:\n  sets: 0\n", "generate.sets"},
		{"workers", "generate:\n  workers: 0\n", "generate.workers"},
		{"weights", "generate:\n  field_weight: 0\n  segment_weight: 0\n", "field_weight"},
		{"log format", "log:\n  format: xml\n", "log.format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chdir(t, t.TempDir())
			path := filepath.Join(t.TempDir(), "cfg.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.yaml), 0o644))

			_, err := Load(path)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalid))
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
