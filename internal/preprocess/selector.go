package preprocess

import (
	"context"
	"errors"
	"image"
	"log/slog"

	"github.com/tillscan/tillscan/internal/ocr"
	"github.com/tillscan/tillscan/internal/utils"
)

// Config holds configuration for the preprocessing selector.
type Config struct {
	Variants           []Variant
	ProbeCropFraction  float64     // central crop used for the cheap OCR probe
	ProbeSegMode       ocr.SegMode // segmentation hint for probe passes
	FallbackVariant    string      // variant used when every probe fails
	FallbackConfidence float64     // assumed probe confidence for the fallback, [0,100]
}

// DefaultConfig returns default selector configuration.
func DefaultConfig() Config {
	return Config{
		Variants:           DefaultVariants(),
		ProbeCropFraction:  0.5,
		ProbeSegMode:       ocr.SegBlock,
		FallbackVariant:    "adaptive",
		FallbackConfidence: 50.0,
	}
}

// Selection is the outcome of variant selection.
type Selection struct {
	Image           *image.Gray
	Variant         string
	ProbeConfidence float64 // mean token confidence of the winning probe, [0,100]
}

// Selector chooses the enhancement variant that best serves recognition
// by probing each candidate with a cheap OCR pass over a central crop.
type Selector struct {
	cfg    Config
	engine ocr.Engine
}

// NewSelector creates a selector using the given engine for probing.
func NewSelector(cfg Config, engine ocr.Engine) (*Selector, error) {
	if engine == nil {
		return nil, errors.New("preprocess: nil engine")
	}
	if len(cfg.Variants) == 0 {
		cfg.Variants = DefaultVariants()
	}
	return &Selector{cfg: cfg, engine: engine}, nil
}

// Select enhances the input, applies every variant, probes each, and
// returns the candidate with the highest probe confidence. When all
// probes fail the configured fallback variant is returned with its
// assumed confidence. The input image is never mutated.
func (s *Selector) Select(ctx context.Context, img image.Image) (*Selection, error) {
	if img == nil {
		return nil, errors.New("preprocess: input image is nil")
	}
	enhanced := Enhance(img)

	var best *Selection
	candidates := make(map[string]*image.Gray, len(s.cfg.Variants))
	for _, v := range s.cfg.Variants {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		candidate := v.Apply(enhanced)
		candidates[v.Name] = candidate

		conf, err := s.probe(ctx, candidate)
		if err != nil {
			slog.Debug("preprocess probe failed", "variant", v.Name, "error", err)
			continue
		}
		slog.Debug("preprocess probe", "variant", v.Name, "confidence", conf)
		if best == nil || conf > best.ProbeConfidence {
			best = &Selection{Image: candidate, Variant: v.Name, ProbeConfidence: conf}
		}
	}

	if best == nil {
		fallback, ok := candidates[s.cfg.FallbackVariant]
		if !ok {
			fallback = candidates[s.cfg.Variants[0].Name]
		}
		slog.Warn("all preprocess probes failed, using fallback",
			"variant", s.cfg.FallbackVariant, "assumed_confidence", s.cfg.FallbackConfidence)
		return &Selection{
			Image:           fallback,
			Variant:         s.cfg.FallbackVariant,
			ProbeConfidence: s.cfg.FallbackConfidence,
		}, nil
	}

	slog.Debug("preprocess variant selected", "variant", best.Variant, "confidence", best.ProbeConfidence)
	return best, nil
}

// probe runs a restricted OCR pass over the central crop and returns the
// mean token confidence.
func (s *Selector) probe(ctx context.Context, candidate *image.Gray) (float64, error) {
	region := utils.CenterCrop(candidate, s.cfg.ProbeCropFraction)
	tokens, err := s.engine.Recognize(ctx, region, ocr.Config{
		SegMode:   s.cfg.ProbeSegMode,
		Whitelist: ocr.DefaultWhitelist,
	})
	if err != nil {
		return 0, err
	}
	if len(tokens) == 0 {
		return 0, errors.New("probe returned no tokens")
	}
	return ocr.MeanConfidence(tokens), nil
}
