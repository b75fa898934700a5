package pipeline

import (
	"context"
	"errors"
	"image"
	"log/slog"
	"time"

	"github.com/tillscan/tillscan/internal/classify"
	"github.com/tillscan/tillscan/internal/receipt"
	"github.com/tillscan/tillscan/internal/utils"
)

// ProcessImage runs the full extraction flow over a decoded image.
func (p *Pipeline) ProcessImage(img image.Image) (*receipt.Result, error) {
	return p.ProcessImageContext(context.Background(), img)
}

// ProcessImageContext runs the full extraction flow with cancellation
// support. For any decodable input it returns a Result; an empty item
// list and absent metadata fields are valid outcomes, not errors.
func (p *Pipeline) ProcessImageContext(ctx context.Context, img image.Image) (*receipt.Result, error) {
	if p == nil || p.selector == nil || p.orchestrator == nil {
		return nil, errors.New("pipeline not initialized")
	}
	if img == nil {
		return nil, errors.New("input image is nil")
	}
	total := time.Now()

	start := time.Now()
	selection, err := p.selector.Select(ctx, img)
	if err != nil {
		recordFailure("preprocess")
		return nil, err
	}
	preprocessNs := time.Since(start).Nanoseconds()
	observeStage("preprocess", time.Since(start))

	start = time.Now()
	pass, err := p.orchestrator.Recognize(ctx, selection.Image)
	if err != nil {
		recordFailure("recognize")
		return nil, err
	}
	recognizeNs := time.Since(start).Nanoseconds()
	observeStage("recognize", time.Since(start))

	start = time.Now()
	candidates := classify.RunAll(p.classifiers, pass.Lines)
	items := p.combine(candidates)
	classifyNs := time.Since(start).Nanoseconds()
	observeStage("classify", time.Since(start))

	md := p.metadata.Extract(pass.Lines)
	classify.Reconcile(items, md.Total)

	result := &receipt.Result{
		Metadata:    md,
		Items:       items,
		Lines:       pass.Lines,
		Confidence:  pass.Confidence,
		Preprocess:  selection.Variant,
		Recognition: pass.Mode,
	}
	result.Processing.PreprocessNs = preprocessNs
	result.Processing.RecognizeNs = recognizeNs
	result.Processing.ClassifyNs = classifyNs
	result.Processing.TotalNs = time.Since(total).Nanoseconds()

	recordReceipt(len(items))
	slog.Info("receipt processed",
		"variant", selection.Variant,
		"mode", pass.Mode,
		"lines", len(pass.Lines),
		"items", len(items),
		"confidence", pass.Confidence)
	return result, nil
}

// ProcessFile loads an image from disk and processes it. An
// undecodable file is a fatal input error.
func (p *Pipeline) ProcessFile(ctx context.Context, path string) (*receipt.Result, error) {
	img, meta, err := utils.LoadImage(path)
	if err != nil {
		recordFailure("load")
		return nil, err
	}
	slog.Debug("image loaded", "path", path, "width", meta.Width, "height", meta.Height, "format", meta.Format)
	return p.ProcessImageContext(ctx, img)
}

// combine applies the ensemble, honoring a configured floor override.
func (p *Pipeline) combine(candidates []receipt.Candidate) []receipt.Item {
	items := classify.Combine(candidates)
	if p.cfg.MinItemConfidence <= 0 {
		return items
	}
	filtered := items[:0]
	for _, item := range items {
		if item.Confidence >= p.cfg.MinItemConfidence {
			filtered = append(filtered, item)
		}
	}
	return filtered
}
