package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tillscan/tillscan/internal/config"
	"github.com/tillscan/tillscan/internal/pipeline"
	"github.com/tillscan/tillscan/internal/receipt"
	"github.com/tillscan/tillscan/internal/utils"
)

const (
	outputFormatJSON = "json"
	outputFormatCSV  = "csv"
	outputFormatText = "text"
)

// imageCmd represents the image command.
var imageCmd = &cobra.Command{
	Use:   "image [files...]",
	Short: "Extract structured receipt data from images",
	Long: `Process one or more receipt images and extract merchant, date,
line items, and totals.

Supported formats: JPEG, PNG, BMP, TIFF

Examples:
  tillscan image receipt.jpg
  tillscan image *.png --format json
  tillscan image receipt.jpg --output result.json --min-item-confidence 0.5`,
	Args:         cobra.ArbitraryArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return errors.New("no input files provided")
		}

		// Configuration includes CLI flags, config file, env vars, and defaults.
		cfg := GetConfig()
		if err := cfg.Validate(); err != nil {
			return err
		}

		p, err := buildPipeline(cfg)
		if err != nil {
			return fmt.Errorf("failed to build extraction pipeline: %w", err)
		}
		defer func() {
			if err := p.Close(); err != nil {
				fmt.Fprintf(os.Stderr, "Error closing pipeline: %v\n", err)
			}
		}()

		var outputs []string
		for _, pth := range args {
			if !utils.IsSupportedImage(pth) {
				return fmt.Errorf("unsupported image format: %s", pth)
			}
			res, err := p.ProcessFile(cmd.Context(), pth)
			if err != nil {
				return fmt.Errorf("extraction failed for %s: %w", pth, err)
			}
			s, err := formatResult(pth, res, strings.ToLower(cfg.Output.Format), len(args) > 1)
			if err != nil {
				return err
			}
			outputs = append(outputs, s)
		}

		final := strings.Join(outputs, "\n")
		if cfg.Output.File != "" {
			if err := os.WriteFile(cfg.Output.File, []byte(final), 0o600); err != nil {
				return fmt.Errorf("failed to write output file: %w", err)
			}
			if _, err := fmt.Fprintf(cmd.OutOrStdout(), "Results written to %s\n", cfg.Output.File); err != nil {
				return err
			}
			return nil
		}
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), final); err != nil {
			return fmt.Errorf("failed to write final output: %w", err)
		}
		return nil
	},
}

// buildPipeline constructs an extraction pipeline from the effective
// configuration.
func buildPipeline(cfg *config.Config) (*pipeline.Pipeline, error) {
	b := pipeline.NewBuilder().
		WithSegModes(cfg.SegModes()).
		WithWhitelist(cfg.OCR.Whitelist).
		WithMinTokenConfidence(cfg.OCR.MinTokenConfidence).
		WithProbeCropFraction(cfg.Preprocess.ProbeCropFraction).
		WithMinItemConfidence(cfg.Extraction.MinItemConfidence).
		WithWorkers(cfg.Batch.Workers)
	return b.Build()
}

// formatResult renders a single result in the requested output format.
func formatResult(path string, res *receipt.Result, format string, multi bool) (string, error) {
	switch format {
	case outputFormatJSON:
		obj := struct {
			File    string          `json:"file"`
			Receipt *receipt.Result `json:"receipt"`
		}{File: path, Receipt: res}
		bts, err := json.MarshalIndent(obj, "", "  ")
		if err != nil {
			return "", fmt.Errorf("failed to marshal JSON: %w", err)
		}
		return string(bts), nil
	case outputFormatCSV:
		s, err := receipt.ToCSV(res)
		if err != nil {
			return "", fmt.Errorf("format csv failed: %w", err)
		}
		if multi {
			s = "# " + path + "\n" + s
		}
		return s, nil
	default:
		s, err := receipt.ToText(res)
		if err != nil {
			return "", fmt.Errorf("format text failed: %w", err)
		}
		return fmt.Sprintf("%s:\n%s", path, s), nil
	}
}

func addImageFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("format", "f", "text", "output format (text, json, csv)")
	cmd.Flags().StringP("output", "o", "", "output file (default: stdout)")
	cmd.Flags().Float64("min-item-confidence", 0, "minimum retained item confidence (0..1, 0=ensemble default)")
	cmd.Flags().Float64("min-token-confidence", 30, "minimum OCR token confidence (0..100)")
	cmd.Flags().StringSlice("seg-modes", []string{"block", "sparse", "column", "auto"},
		"segmentation modes tried during recognition (auto, block, sparse, column)")
	cmd.Flags().String("whitelist", "", "OCR character whitelist (empty: default)")
	cmd.Flags().Float64("probe-crop", 0.5, "central crop fraction for preprocessing probe passes (0..1)")
}

// bindImageFlags binds all flags to viper configuration keys.
func bindImageFlags(cmd *cobra.Command) {
	flagBindings := []struct {
		key  string
		flag string
	}{
		{"output.format", "format"},
		{"output.file", "output"},
		{"extraction.min_item_confidence", "min-item-confidence"},
		{"ocr.min_token_confidence", "min-token-confidence"},
		{"ocr.seg_modes", "seg-modes"},
		{"ocr.whitelist", "whitelist"},
		{"preprocess.probe_crop_fraction", "probe-crop"},
	}

	for _, binding := range flagBindings {
		if err := viper.BindPFlag(binding.key, cmd.Flags().Lookup(binding.flag)); err != nil {
			panic(fmt.Sprintf("failed to bind flag %s: %v", binding.flag, err))
		}
	}
}

func init() {
	rootCmd.AddCommand(imageCmd)

	addImageFlags(imageCmd)
	bindImageFlags(imageCmd)
}

// GetImageCommand returns the image command for testing purposes.
func GetImageCommand() *cobra.Command {
	return imageCmd
}
