package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tillscan/tillscan/internal/ocr"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	assert.NoError(t, cfg.Validate())
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }},
		{"bad format", func(c *Config) { c.Output.Format = "xml" }},
		{"no seg modes", func(c *Config) { c.OCR.SegModes = nil }},
		{"unknown seg mode", func(c *Config) { c.OCR.SegModes = []string{"diagonal"} }},
		{"token confidence too high", func(c *Config) { c.OCR.MinTokenConfidence = 150 }},
		{"probe fraction zero", func(c *Config) { c.Preprocess.ProbeCropFraction = 0 }},
		{"item confidence above one", func(c *Config) { c.Extraction.MinItemConfidence = 1.5 }},
		{"negative workers", func(c *Config) { c.Batch.Workers = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestSegModesResolution(t *testing.T) {
	cfg := DefaultConfig()
	cfg.OCR.SegModes = []string{"Block", "sparse", "COLUMN", "auto"}
	modes := cfg.SegModes()
	require.Len(t, modes, 4)
	assert.Equal(t, []ocr.SegMode{
		ocr.SegBlock, ocr.SegSparseText, ocr.SegSingleColumn, ocr.SegAuto,
	}, modes)
}

func TestValidateAcceptsMixedCase(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LogLevel = "DEBUG"
	cfg.Output.Format = "JSON"
	assert.NoError(t, cfg.Validate())
}
