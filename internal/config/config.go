// Package config defines the application configuration for tillscan,
// loaded from files, environment variables, and command-line flags.
package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/tillscan/tillscan/internal/ocr"
)

// Config represents the complete configuration for the tillscan
// application across all commands (image, batch, config).
type Config struct {
	// Global settings
	LogLevel string `mapstructure:"log_level" yaml:"log_level" json:"log_level"`
	Verbose  bool   `mapstructure:"verbose" yaml:"verbose" json:"verbose"`

	// OCR engine configuration
	OCR OCRConfig `mapstructure:"ocr" yaml:"ocr" json:"ocr"`

	// Preprocessing configuration
	Preprocess PreprocessConfig `mapstructure:"preprocess" yaml:"preprocess" json:"preprocess"`

	// Item extraction configuration
	Extraction ExtractionConfig `mapstructure:"extraction" yaml:"extraction" json:"extraction"`

	// Output configuration
	Output OutputConfig `mapstructure:"output" yaml:"output" json:"output"`

	// Batch processing configuration
	Batch BatchConfig `mapstructure:"batch" yaml:"batch" json:"batch"`
}

// OCRConfig contains recognition settings.
type OCRConfig struct {
	SegModes           []string `mapstructure:"seg_modes" yaml:"seg_modes" json:"seg_modes"`
	Whitelist          string   `mapstructure:"whitelist" yaml:"whitelist" json:"whitelist"`
	MinTokenConfidence float64  `mapstructure:"min_token_confidence" yaml:"min_token_confidence" json:"min_token_confidence"`
}

// PreprocessConfig contains enhancement selection settings.
type PreprocessConfig struct {
	ProbeCropFraction float64 `mapstructure:"probe_crop_fraction" yaml:"probe_crop_fraction" json:"probe_crop_fraction"`
	FallbackVariant   string  `mapstructure:"fallback_variant" yaml:"fallback_variant" json:"fallback_variant"`
}

// ExtractionConfig contains item extraction settings.
type ExtractionConfig struct {
	MinItemConfidence float64 `mapstructure:"min_item_confidence" yaml:"min_item_confidence" json:"min_item_confidence"`
}

// OutputConfig contains output formatting settings.
type OutputConfig struct {
	Format string `mapstructure:"format" yaml:"format" json:"format"`
	File   string `mapstructure:"file" yaml:"file" json:"file"`
}

// BatchConfig contains batch processing settings.
type BatchConfig struct {
	Workers         int  `mapstructure:"workers" yaml:"workers" json:"workers"`
	ContinueOnError bool `mapstructure:"continue_on_error" yaml:"continue_on_error" json:"continue_on_error"`
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() Config {
	return Config{
		LogLevel: "info",
		Verbose:  false,
		OCR: OCRConfig{
			SegModes:           []string{"block", "sparse", "column", "auto"},
			Whitelist:          ocr.DefaultWhitelist,
			MinTokenConfidence: 30,
		},
		Preprocess: PreprocessConfig{
			ProbeCropFraction: 0.5,
			FallbackVariant:   "adaptive",
		},
		Extraction: ExtractionConfig{
			MinItemConfidence: 0,
		},
		Output: OutputConfig{
			Format: "text",
		},
		Batch: BatchConfig{
			Workers:         4,
			ContinueOnError: true,
		},
	}
}

var (
	validLogLevels = []string{"debug", "info", "warn", "error"}
	validFormats   = []string{"text", "json", "csv"}
	validSegModes  = []string{"auto", "block", "sparse", "column"}
)

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if !slices.Contains(validLogLevels, strings.ToLower(c.LogLevel)) {
		return fmt.Errorf("invalid log level: %s (valid: %s)", c.LogLevel, strings.Join(validLogLevels, ", "))
	}
	if !slices.Contains(validFormats, strings.ToLower(c.Output.Format)) {
		return fmt.Errorf("invalid output format: %s (valid: %s)", c.Output.Format, strings.Join(validFormats, ", "))
	}
	if len(c.OCR.SegModes) == 0 {
		return fmt.Errorf("at least one segmentation mode is required")
	}
	for _, m := range c.OCR.SegModes {
		if !slices.Contains(validSegModes, strings.ToLower(m)) {
			return fmt.Errorf("invalid segmentation mode: %s (valid: %s)", m, strings.Join(validSegModes, ", "))
		}
	}
	if c.OCR.MinTokenConfidence < 0 || c.OCR.MinTokenConfidence > 100 {
		return fmt.Errorf("min token confidence must be in [0, 100], got %v", c.OCR.MinTokenConfidence)
	}
	if c.Preprocess.ProbeCropFraction <= 0 || c.Preprocess.ProbeCropFraction > 1 {
		return fmt.Errorf("probe crop fraction must be in (0, 1], got %v", c.Preprocess.ProbeCropFraction)
	}
	if c.Extraction.MinItemConfidence < 0 || c.Extraction.MinItemConfidence > 1 {
		return fmt.Errorf("min item confidence must be in [0, 1], got %v", c.Extraction.MinItemConfidence)
	}
	if c.Batch.Workers < 0 {
		return fmt.Errorf("batch workers must not be negative, got %d", c.Batch.Workers)
	}
	return nil
}

// SegModes resolves the configured mode names into ocr.SegMode values.
func (c *Config) SegModes() []ocr.SegMode {
	modes := make([]ocr.SegMode, 0, len(c.OCR.SegModes))
	for _, name := range c.OCR.SegModes {
		switch strings.ToLower(name) {
		case "block":
			modes = append(modes, ocr.SegBlock)
		case "sparse":
			modes = append(modes, ocr.SegSparseText)
		case "column":
			modes = append(modes, ocr.SegSingleColumn)
		case "auto":
			modes = append(modes, ocr.SegAuto)
		}
	}
	return modes
}
