package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoaderDefaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	cfg, err := NewLoader().Load()
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.Output.Format)
	assert.Equal(t, []string{"block", "sparse", "column", "auto"}, cfg.OCR.SegModes)
	assert.InDelta(t, 30.0, cfg.OCR.MinTokenConfidence, 1e-9)
}

func TestLoaderWithFile(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	path := filepath.Join(t.TempDir(), "tillscan.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
log_level: debug
output:
  format: json
batch:
  workers: 8
`), 0o600))

	cfg, err := NewLoader().LoadWithFile(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "json", cfg.Output.Format)
	assert.Equal(t, 8, cfg.Batch.Workers)
	// Untouched keys keep their defaults.
	assert.Equal(t, "adaptive", cfg.Preprocess.FallbackVariant)
}

func TestLoaderWithMissingFile(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	_, err := NewLoader().LoadWithFile("/nonexistent/tillscan.yaml")
	assert.Error(t, err)
}

func TestLoaderRejectsInvalidFileValues(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	path := filepath.Join(t.TempDir(), "tillscan.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log_level: loud\n"), 0o600))

	_, err := NewLoader().LoadWithFile(path)
	assert.Error(t, err)
}

func TestGetConfigSearchPaths(t *testing.T) {
	paths := GetConfigSearchPaths()
	assert.Contains(t, paths, ".")
	assert.Contains(t, paths, "/etc/tillscan")
}
