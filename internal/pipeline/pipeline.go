// Package pipeline wires the receipt extraction stages together:
// preprocessing variant selection, multi-pass recognition, the three
// line classifiers, the ensemble, and metadata extraction.
package pipeline

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/tillscan/tillscan/internal/classify"
	"github.com/tillscan/tillscan/internal/metadata"
	"github.com/tillscan/tillscan/internal/ocr"
	"github.com/tillscan/tillscan/internal/preprocess"
	"github.com/tillscan/tillscan/internal/recognize"
)

// Config holds configuration for the extraction pipeline and its
// components.
type Config struct {
	Preprocess preprocess.Config
	Recognize  recognize.Config

	// MinItemConfidence overrides the ensemble floor when > 0.
	MinItemConfidence float64

	// Parallel processing configuration
	Parallel ParallelConfig
}

// DefaultConfig returns a default pipeline config with component
// defaults.
func DefaultConfig() Config {
	return Config{
		Preprocess: preprocess.DefaultConfig(),
		Recognize:  recognize.DefaultConfig(),
		Parallel:   DefaultParallelConfig(),
	}
}

// Builder constructs a Pipeline with fluent configuration.
type Builder struct {
	cfg    Config
	engine ocr.Engine
}

// NewBuilder creates a new pipeline builder with defaults.
func NewBuilder() *Builder { return &Builder{cfg: DefaultConfig()} }

// WithEngine sets the OCR engine. Without one, Build creates the
// default backend.
func (b *Builder) WithEngine(engine ocr.Engine) *Builder {
	b.engine = engine
	return b
}

// WithVariants overrides the preprocessing variant set.
func (b *Builder) WithVariants(variants []preprocess.Variant) *Builder {
	if len(variants) > 0 {
		b.cfg.Preprocess.Variants = variants
	}
	return b
}

// WithProbeCropFraction sets the central-crop fraction for probe passes.
func (b *Builder) WithProbeCropFraction(frac float64) *Builder {
	if frac > 0 && frac <= 1.0 {
		b.cfg.Preprocess.ProbeCropFraction = frac
	}
	return b
}

// WithSegModes overrides the segmentation modes tried during
// recognition.
func (b *Builder) WithSegModes(modes []ocr.SegMode) *Builder {
	if len(modes) > 0 {
		b.cfg.Recognize.SegModes = modes
	}
	return b
}

// WithWhitelist sets the OCR character whitelist.
func (b *Builder) WithWhitelist(whitelist string) *Builder {
	if whitelist != "" {
		b.cfg.Recognize.Whitelist = whitelist
	}
	return b
}

// WithMinTokenConfidence sets the token confidence floor, [0,100].
func (b *Builder) WithMinTokenConfidence(conf float64) *Builder {
	if conf >= 0 && conf <= 100 {
		b.cfg.Recognize.MinTokenConfidence = conf
	}
	return b
}

// WithMinItemConfidence sets the minimum retained-item confidence,
// (0,1].
func (b *Builder) WithMinItemConfidence(conf float64) *Builder {
	if conf > 0 && conf <= 1.0 {
		b.cfg.MinItemConfidence = conf
	}
	return b
}

// WithWorkers sets the number of parallel workers for batch
// processing.
func (b *Builder) WithWorkers(workers int) *Builder {
	if workers > 0 {
		b.cfg.Parallel.MaxWorkers = workers
	}
	return b
}

// WithProgressCallback sets the progress callback for batch
// processing.
func (b *Builder) WithProgressCallback(callback ProgressCallback) *Builder {
	b.cfg.Parallel.ProgressCallback = callback
	return b
}

// Config returns a copy of the current config.
func (b *Builder) Config() Config { return b.cfg }

// Validate checks that the configuration looks sane.
func (b *Builder) Validate() error {
	if len(b.cfg.Recognize.SegModes) == 0 {
		return errors.New("no segmentation modes configured")
	}
	if len(b.cfg.Preprocess.Variants) == 0 {
		return errors.New("no preprocessing variants configured")
	}
	if b.cfg.Parallel.MaxWorkers < 0 {
		return errors.New("worker count must not be negative")
	}
	return nil
}

// Pipeline runs the full receipt extraction flow over images.
type Pipeline struct {
	cfg          Config
	engine       ocr.Engine
	ownsEngine   bool
	selector     *preprocess.Selector
	orchestrator *recognize.Orchestrator
	classifiers  []classify.Classifier
	metadata     *metadata.Extractor
}

// Build initializes the pipeline components.
func (b *Builder) Build() (*Pipeline, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}

	engine := b.engine
	ownsEngine := false
	if engine == nil {
		var err error
		engine, err = ocr.NewEngine()
		if err != nil {
			return nil, fmt.Errorf("init engine: %w", err)
		}
		ownsEngine = true
	}

	selector, err := preprocess.NewSelector(b.cfg.Preprocess, engine)
	if err != nil {
		return nil, fmt.Errorf("init selector: %w", err)
	}
	orchestrator, err := recognize.NewOrchestrator(b.cfg.Recognize, engine)
	if err != nil {
		return nil, fmt.Errorf("init orchestrator: %w", err)
	}

	return &Pipeline{
		cfg:          b.cfg,
		engine:       engine,
		ownsEngine:   ownsEngine,
		selector:     selector,
		orchestrator: orchestrator,
		classifiers:  classify.DefaultClassifiers(),
		metadata:     metadata.NewExtractor(),
	}, nil
}

// Close releases the OCR engine if the pipeline created it.
func (p *Pipeline) Close() error {
	if p.ownsEngine && p.engine != nil {
		err := p.engine.Close()
		p.engine = nil
		return err
	}
	return nil
}

// Config returns the pipeline configuration.
func (p *Pipeline) Config() Config { return p.cfg }

// Workers returns the effective batch worker count.
func (p *Pipeline) Workers() int {
	if p.cfg.Parallel.MaxWorkers > 0 {
		return p.cfg.Parallel.MaxWorkers
	}
	return runtime.NumCPU()
}
