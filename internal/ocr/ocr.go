// Package ocr defines the boundary to the external character-recognition
// collaborator. The engine is treated as a black box invoked repeatedly
// with different segmentation hints; everything downstream consumes only
// tokens and plain-text transcriptions.
package ocr

import (
	"context"
	"errors"
	"image"
)

// SegMode is a page segmentation hint passed to the engine.
type SegMode int

const (
	SegAuto SegMode = iota // no hint, engine default (fast path)
	SegBlock
	SegSparseText
	SegSingleColumn
)

// String returns the mode name for logging.
func (m SegMode) String() string {
	switch m {
	case SegBlock:
		return "block"
	case SegSparseText:
		return "sparse"
	case SegSingleColumn:
		return "column"
	default:
		return "auto"
	}
}

// Token is a single recognized word with its physical line association
// and the engine's confidence in [0,100].
type Token struct {
	Text       string
	Line       int
	Confidence float64
}

// Config holds per-invocation engine settings.
type Config struct {
	SegMode   SegMode
	Whitelist string // permitted characters; advisory, backends may ignore
}

// DefaultWhitelist restricts recognition to characters that occur on
// printed receipts, cutting down on symbol garbage.
const DefaultWhitelist = "0123456789" +
	"ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz" +
	".,!@#$%^&*()_+-=[]{}|;:'\"<>?/~` "

// Engine is the external recognition primitive.
type Engine interface {
	// Recognize returns per-word tokens for the image under the given
	// configuration. An empty token slice with a nil error is a valid
	// outcome for a blank image.
	Recognize(ctx context.Context, img image.Image, cfg Config) ([]Token, error)

	// PlainText returns an unstructured whole-image transcription,
	// used as the last-resort fallback path.
	PlainText(ctx context.Context, img image.Image) (string, error)

	Close() error
}

// ErrNoBackend indicates no recognition backend was linked into the
// binary. Build with -tags=tesseract or supply a custom Engine.
var ErrNoBackend = errors.New("ocr: no engine backend linked; build with -tags=tesseract or provide an Engine")

// NewEngine returns the default engine backend for this build.
func NewEngine() (Engine, error) { return newDefaultEngine() }

// MeanConfidence returns the mean token confidence in [0,100], or 0 for
// an empty slice.
func MeanConfidence(tokens []Token) float64 {
	if len(tokens) == 0 {
		return 0
	}
	var sum float64
	for _, t := range tokens {
		sum += t.Confidence
	}
	return sum / float64(len(tokens))
}
