package pipeline

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/tillscan/tillscan/internal/receipt"
)

// ProgressCallback receives batch progress notifications.
type ProgressCallback interface {
	OnStart(total int)
	OnProgress(done, total int)
	OnComplete()
}

// ParallelConfig holds configuration for batch processing. Each
// receipt's pipeline run is independent, so workers share nothing but
// the engine-owning pipeline itself.
type ParallelConfig struct {
	MaxWorkers       int                       // 0 = runtime.NumCPU()
	ContinueOnError  bool                      // keep processing after per-file failures
	ProgressCallback ProgressCallback          // optional progress reporting
	ErrorHandler     func(path string, err error) // optional per-file error handler
}

// DefaultParallelConfig returns sensible defaults for batch processing.
func DefaultParallelConfig() ParallelConfig {
	return ParallelConfig{
		MaxWorkers:      runtime.NumCPU(),
		ContinueOnError: true,
	}
}

// BatchResult pairs one input file with its outcome.
type BatchResult struct {
	Path   string
	Result *receipt.Result
	Err    error
}

type fileJob struct {
	index int
	path  string
}

// ProcessBatch processes receipt image files in parallel with a worker
// pool. Results come back in input order. With ContinueOnError set,
// per-file failures are recorded in the corresponding BatchResult and
// the first of them is returned as the error alongside the full slice.
func (p *Pipeline) ProcessBatch(ctx context.Context, paths []string) ([]BatchResult, error) {
	if len(paths) == 0 {
		return nil, errors.New("no input files provided")
	}
	cfg := p.cfg.Parallel
	if cfg.MaxWorkers <= 0 {
		cfg.MaxWorkers = runtime.NumCPU()
	}
	if cfg.MaxWorkers > len(paths) {
		cfg.MaxWorkers = len(paths)
	}
	if cfg.ProgressCallback != nil {
		cfg.ProgressCallback.OnStart(len(paths))
		defer cfg.ProgressCallback.OnComplete()
	}

	jobs := make(chan fileJob, len(paths))
	results := make(chan BatchResult, len(paths))
	ordered := make([]BatchResult, len(paths))

	var wg sync.WaitGroup
	for i := 0; i < cfg.MaxWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				if err := ctx.Err(); err != nil {
					ordered[job.index] = BatchResult{Path: job.path, Err: err}
					results <- ordered[job.index]
					continue
				}
				res, err := p.ProcessFile(ctx, job.path)
				ordered[job.index] = BatchResult{Path: job.path, Result: res, Err: err}
				results <- ordered[job.index]
			}
		}()
	}

	go func() {
		defer close(jobs)
		for i, path := range paths {
			select {
			case jobs <- fileJob{index: i, path: path}:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	done := 0
	for r := range results {
		done++
		if cfg.ProgressCallback != nil {
			cfg.ProgressCallback.OnProgress(done, len(paths))
		}
		if r.Err != nil && cfg.ErrorHandler != nil {
			cfg.ErrorHandler(r.Path, r.Err)
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var firstErr error
	for i, r := range ordered {
		if r.Err != nil && firstErr == nil {
			firstErr = fmt.Errorf("%s: %w", r.Path, r.Err)
		}
		if r.Err != nil && !cfg.ContinueOnError {
			return ordered[:i+1], firstErr
		}
	}
	return ordered, firstErr
}
