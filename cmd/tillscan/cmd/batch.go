package cmd

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tillscan/tillscan/internal/pipeline"
	"github.com/tillscan/tillscan/internal/utils"
)

// batchCmd represents the batch command for parallel receipt processing.
var batchCmd = &cobra.Command{
	Use:   "batch [files or directories...]",
	Short: "Process multiple receipt images in parallel",
	Long: `Process multiple receipt images in parallel using a worker pool.
Arguments may be image files or directories; directories are scanned for
supported images.

Supported formats: JPEG, PNG, BMP, TIFF

Examples:
  tillscan batch *.jpg
  tillscan batch scans/ --recursive --workers 8
  tillscan batch a.jpg b.png --format json --output results.json`,
	Args:         cobra.MinimumNArgs(1),
	SilenceUsage: true,
	RunE:         runBatchCommand,
}

func runBatchCommand(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	if err := cfg.Validate(); err != nil {
		return err
	}

	recursive, _ := cmd.Flags().GetBool("recursive")
	quiet, _ := cmd.Flags().GetBool("quiet")
	showProgress, _ := cmd.Flags().GetBool("progress")

	paths, err := discoverImages(args, recursive)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return errors.New("no supported image files found")
	}

	if !quiet {
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "Processing %d file(s)\n", len(paths)); err != nil {
			return err
		}
	}

	b := pipeline.NewBuilder().
		WithSegModes(cfg.SegModes()).
		WithWhitelist(cfg.OCR.Whitelist).
		WithMinTokenConfidence(cfg.OCR.MinTokenConfidence).
		WithProbeCropFraction(cfg.Preprocess.ProbeCropFraction).
		WithMinItemConfidence(cfg.Extraction.MinItemConfidence).
		WithWorkers(cfg.Batch.Workers)
	if showProgress && !quiet {
		b = b.WithProgressCallback(&printProgress{out: cmd.OutOrStdout()})
	}
	p, err := b.Build()
	if err != nil {
		return fmt.Errorf("failed to build extraction pipeline: %w", err)
	}
	defer func() {
		if err := p.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Error closing pipeline: %v\n", err)
		}
	}()

	results, err := p.ProcessBatch(cmd.Context(), paths)
	if err != nil && !cfg.Batch.ContinueOnError {
		return fmt.Errorf("batch processing failed: %w", err)
	}

	format := strings.ToLower(cfg.Output.Format)
	var outputs []string
	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "Error: %s: %v\n", r.Path, r.Err)
			continue
		}
		s, err := formatResult(r.Path, r.Result, format, len(results) > 1)
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
		if !quiet {
			if _, err := fmt.Fprintf(cmd.OutOrStdout(), "Results written to %s\n", cfg.Output.File); err != nil {
				return err
			}
		}
	} else if final != "" {
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), final); err != nil {
			return err
		}
	}

	if !quiet {
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "Processed %d file(s), %d failed\n",
			len(results)-failed, failed); err != nil {
			return err
		}
	}
	if failed > 0 && !cfg.Batch.ContinueOnError {
		return fmt.Errorf("%d file(s) failed", failed)
	}
	return nil
}

// discoverImages expands the argument list into supported image paths.
// Directories are scanned one level deep unless recursive is set.
func discoverImages(args []string, recursive bool) ([]string, error) {
	var paths []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			// Keep missing files in the list so the batch reports them.
			paths = append(paths, arg)
			continue
		}
		if !info.IsDir() {
			paths = append(paths, arg)
			continue
		}
		if recursive {
			err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
				if err != nil {
					return err
				}
				if !d.IsDir() && utils.IsSupportedImage(path) {
					paths = append(paths, path)
				}
				return nil
			})
			if err != nil {
				return nil, fmt.Errorf("failed to scan %s: %w", arg, err)
			}
			continue
		}
		entries, err := os.ReadDir(arg)
		if err != nil {
			return nil, fmt.Errorf("failed to read directory %s: %w", arg, err)
		}
		for _, e := range entries {
			if !e.IsDir() {
				p := filepath.Join(arg, e.Name())
				if utils.IsSupportedImage(p) {
					paths = append(paths, p)
				}
			}
		}
	}
	return paths, nil
}

// printProgress writes plain progress lines as batch items complete.
type printProgress struct {
	out io.Writer
}

func (p *printProgress) OnStart(total int) {
	fmt.Fprintf(p.out, "Starting: %d file(s)\n", total)
}

func (p *printProgress) OnProgress(done, total int) {
	fmt.Fprintf(p.out, "Progress: %d/%d\n", done, total)
}

func (p *printProgress) OnComplete() {
	fmt.Fprintln(p.out, "Done")
}

var _ pipeline.ProgressCallback = (*printProgress)(nil)

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntP("workers", "w", 0, "number of parallel workers (0 = number of CPUs)")
	batchCmd.Flags().Bool("continue-on-error", true, "keep processing when individual files fail")
	batchCmd.Flags().BoolP("recursive", "r", false, "recursively scan directories")
	batchCmd.Flags().Bool("progress", false, "print progress lines")
	batchCmd.Flags().Bool("quiet", false, "suppress progress and summary output")

	for _, binding := range []struct {
		key  string
		flag string
	}{
		{"batch.workers", "workers"},
		{"batch.continue_on_error", "continue-on-error"},
	} {
		if err := viper.BindPFlag(binding.key, batchCmd.Flags().Lookup(binding.flag)); err != nil {
			panic(fmt.Sprintf("failed to bind flag %s: %v", binding.flag, err))
		}
	}
}

// GetBatchCommand returns the batch command for testing purposes.
func GetBatchCommand() *cobra.Command {
	return batchCmd
}
