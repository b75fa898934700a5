package recognize

import (
	"context"
	"errors"
	"image"
	"log/slog"
	"strings"

	"github.com/tillscan/tillscan/internal/ocr"
	"github.com/tillscan/tillscan/internal/receipt"
)

// Config holds configuration for the recognition orchestrator.
type Config struct {
	SegModes           []ocr.SegMode // segmentation modes tried in order
	Whitelist          string        // character whitelist passed to the engine
	MinTokenConfidence float64       // tokens below this are discarded, [0,100]
	FallbackConfidence float64       // per-line confidence of the plain-text fallback, [0,1]
}

// DefaultConfig returns default orchestrator configuration.
func DefaultConfig() Config {
	return Config{
		SegModes: []ocr.SegMode{
			ocr.SegBlock,
			ocr.SegSparseText,
			ocr.SegSingleColumn,
			ocr.SegAuto, // no-hint pass, tried last before the plain-text fallback
		},
		Whitelist:          ocr.DefaultWhitelist,
		MinTokenConfidence: 30.0,
		FallbackConfidence: 0.5,
	}
}

// Pass is the outcome of recognition: the reconstructed lines of the
// winning segmentation pass and the mode that produced them.
type Pass struct {
	Lines      []receipt.Line
	Confidence float64 // mean surviving-token confidence, [0,1]
	Mode       string
}

// Orchestrator runs the OCR engine once per segmentation mode and keeps
// the pass whose surviving tokens carry the highest mean confidence.
type Orchestrator struct {
	cfg    Config
	engine ocr.Engine
}

// NewOrchestrator creates an orchestrator around the given engine.
func NewOrchestrator(cfg Config, engine ocr.Engine) (*Orchestrator, error) {
	if engine == nil {
		return nil, errors.New("recognize: nil engine")
	}
	if len(cfg.SegModes) == 0 {
		cfg.SegModes = DefaultConfig().SegModes
	}
	return &Orchestrator{cfg: cfg, engine: engine}, nil
}

// Recognize runs every configured segmentation pass over the image and
// returns the best one. Ties on confidence are broken toward the pass
// with more lines. When every pass fails or yields nothing, a
// plain-text fallback is attempted; if that also fails an empty pass is
// returned rather than an error, so downstream stages still run.
func (o *Orchestrator) Recognize(ctx context.Context, img image.Image) (*Pass, error) {
	if img == nil {
		return nil, errors.New("recognize: input image is nil")
	}

	var best *Pass
	for _, mode := range o.cfg.SegModes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		tokens, err := o.engine.Recognize(ctx, img, ocr.Config{
			SegMode:   mode,
			Whitelist: o.cfg.Whitelist,
		})
		if err != nil {
			slog.Debug("recognition pass failed", "mode", mode, "error", err)
			continue
		}
		pass := o.buildPass(mode, tokens)
		if pass == nil {
			slog.Debug("recognition pass yielded no lines", "mode", mode)
			continue
		}
		slog.Debug("recognition pass",
			"mode", mode, "lines", len(pass.Lines), "confidence", pass.Confidence)
		if betterPass(pass, best) {
			best = pass
		}
	}

	if best != nil {
		slog.Debug("recognition pass selected",
			"mode", best.Mode, "lines", len(best.Lines), "confidence", best.Confidence)
		return best, nil
	}
	return o.fallback(ctx, img)
}

// buildPass filters low-confidence tokens, groups the survivors into
// lines by their line index, and cleans the reconstructed text. Returns
// nil when nothing survives.
func (o *Orchestrator) buildPass(mode ocr.SegMode, tokens []ocr.Token) *Pass {
	var surviving []ocr.Token
	for _, tok := range tokens {
		if tok.Confidence >= o.cfg.MinTokenConfidence && strings.TrimSpace(tok.Text) != "" {
			surviving = append(surviving, tok)
		}
	}
	if len(surviving) == 0 {
		return nil
	}

	var lines []receipt.Line
	var total float64
	start := 0
	for i := 1; i <= len(surviving); i++ {
		if i < len(surviving) && surviving[i].Line == surviving[start].Line {
			continue
		}
		if line, ok := assembleLine(len(lines), surviving[start:i]); ok {
			lines = append(lines, line)
		}
		start = i
	}
	if len(lines) == 0 {
		return nil
	}
	for _, tok := range surviving {
		total += tok.Confidence
	}
	return &Pass{
		Lines:      lines,
		Confidence: total / float64(len(surviving)) / 100.0,
		Mode:       mode.String(),
	}
}

// assembleLine joins a run of tokens sharing a line index into a single
// cleaned line with the mean token confidence. Lines that clean down to
// a single character are discarded.
func assembleLine(index int, tokens []ocr.Token) (receipt.Line, bool) {
	words := make([]string, 0, len(tokens))
	var sum float64
	for _, tok := range tokens {
		words = append(words, tok.Text)
		sum += tok.Confidence
	}
	text := CleanLine(strings.Join(words, " "))
	if len(text) <= 1 {
		return receipt.Line{}, false
	}
	return receipt.Line{
		Index:      index,
		Text:       text,
		Confidence: sum / float64(len(tokens)) / 100.0,
	}, true
}

// betterPass reports whether a beats b, preferring higher confidence
// and, on ties, more lines.
func betterPass(a, b *Pass) bool {
	if b == nil {
		return true
	}
	if a.Confidence != b.Confidence {
		return a.Confidence > b.Confidence
	}
	return len(a.Lines) > len(b.Lines)
}

// fallback runs an unrestricted plain-text pass and splits it on
// newlines, assigning the nominal fallback confidence to every line.
func (o *Orchestrator) fallback(ctx context.Context, img image.Image) (*Pass, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	text, err := o.engine.PlainText(ctx, img)
	if err != nil {
		slog.Warn("all recognition passes and plain-text fallback failed", "error", err)
		return &Pass{Mode: "none"}, nil
	}

	var lines []receipt.Line
	for _, raw := range strings.Split(text, "\n") {
		cleaned := CleanLine(raw)
		if len(cleaned) <= 1 {
			continue
		}
		lines = append(lines, receipt.Line{
			Index:      len(lines),
			Text:       cleaned,
			Confidence: o.cfg.FallbackConfidence,
		})
	}
	if len(lines) == 0 {
		slog.Warn("plain-text fallback produced no usable lines")
		return &Pass{Mode: "none"}, nil
	}
	slog.Debug("plain-text fallback used", "lines", len(lines))
	return &Pass{
		Lines:      lines,
		Confidence: o.cfg.FallbackConfidence,
		Mode:       "fallback",
	}, nil
}
