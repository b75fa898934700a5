package pipeline

import (
	"context"
	"image"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tillscan/tillscan/internal/ocr"
)

// scriptEngine returns the same receipt transcript for every
// recognition call, regardless of image content.
type scriptEngine struct {
	lines      []string
	confidence float64
}

func newScriptEngine(lines ...string) *scriptEngine {
	return &scriptEngine{lines: lines, confidence: 85}
}

func (e *scriptEngine) Recognize(_ context.Context, _ image.Image, _ ocr.Config) ([]ocr.Token, error) {
	var tokens []ocr.Token
	for i, line := range e.lines {
		for _, word := range strings.Fields(line) {
			tokens = append(tokens, ocr.Token{Text: word, Line: i, Confidence: e.confidence})
		}
	}
	return tokens, nil
}

func (e *scriptEngine) PlainText(_ context.Context, _ image.Image) (string, error) {
	return strings.Join(e.lines, "\n"), nil
}

func (e *scriptEngine) Close() error { return nil }

func sampleTranscript() []string {
	return []string{
		"GROCERY MART",
		"123 Main St",
		"01/15/2024 10:45 am",
		"Milk 2.49",
		"Organic Bananas 2 lbs $3.98",
		"Cheddar Cheese 4.99",
		"Frozen Pizza 6.49",
		"Apple Juice 2.99",
		"Subtotal $20.94",
		"Tax $1.68",
		"Total $22.62",
	}
}

func receiptImage() image.Image {
	return image.NewGray(image.Rect(0, 0, 400, 800))
}

func TestBuilderDefaults(t *testing.T) {
	cfg := NewBuilder().Config()
	assert.NotEmpty(t, cfg.Preprocess.Variants)
	assert.NotEmpty(t, cfg.Recognize.SegModes)
	assert.Zero(t, cfg.MinItemConfidence)
}

func TestBuilderFluentConfig(t *testing.T) {
	b := NewBuilder().
		WithSegModes([]ocr.SegMode{ocr.SegBlock}).
		WithMinTokenConfidence(40).
		WithMinItemConfidence(0.5).
		WithWorkers(2).
		WithProbeCropFraction(0.25)

	cfg := b.Config()
	assert.Equal(t, []ocr.SegMode{ocr.SegBlock}, cfg.Recognize.SegModes)
	assert.InDelta(t, 40.0, cfg.Recognize.MinTokenConfidence, 1e-9)
	assert.InDelta(t, 0.5, cfg.MinItemConfidence, 1e-9)
	assert.Equal(t, 2, cfg.Parallel.MaxWorkers)
	assert.InDelta(t, 0.25, cfg.Preprocess.ProbeCropFraction, 1e-9)
}

func TestBuilderIgnoresInvalidValues(t *testing.T) {
	cfg := NewBuilder().
		WithMinItemConfidence(1.5).
		WithMinTokenConfidence(-1).
		WithWorkers(0).
		Config()
	assert.Zero(t, cfg.MinItemConfidence)
	assert.InDelta(t, 30.0, cfg.Recognize.MinTokenConfidence, 1e-9)
	assert.Equal(t, DefaultParallelConfig().MaxWorkers, cfg.Parallel.MaxWorkers)
}

func TestProcessImageFullFlow(t *testing.T) {
	p, err := NewBuilder().WithEngine(newScriptEngine(sampleTranscript()...)).Build()
	require.NoError(t, err)
	defer func() { _ = p.Close() }()

	result, err := p.ProcessImage(receiptImage())
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.Equal(t, "Grocery Mart", result.Metadata.MerchantName)
	require.NotNil(t, result.Metadata.Total)
	assert.InDelta(t, 22.62, *result.Metadata.Total, 1e-9)
	require.NotNil(t, result.Metadata.Subtotal)
	assert.InDelta(t, 20.94, *result.Metadata.Subtotal, 1e-9)
	require.NotNil(t, result.Metadata.Tax)
	assert.InDelta(t, 1.68, *result.Metadata.Tax, 1e-9)
	require.NotNil(t, result.Metadata.Date)
	assert.Equal(t, "10:45 am", result.Metadata.Time)

	assert.NotEmpty(t, result.Items)
	names := make([]string, 0, len(result.Items))
	for _, item := range result.Items {
		names = append(names, item.Name)
		assert.Greater(t, item.TotalPrice, 0.0)
		assert.GreaterOrEqual(t, item.Confidence, 0.0)
		assert.LessOrEqual(t, item.Confidence, 1.0)
	}
	assert.Contains(t, names, "Organic Bananas")
	assert.NotContains(t, names, "Subtotal")
	assert.NotContains(t, names, "Total")

	assert.NotEmpty(t, result.Preprocess)
	assert.NotEmpty(t, result.Recognition)
	assert.InDelta(t, 0.85, result.Confidence, 1e-9)
	assert.Positive(t, result.Processing.TotalNs)
}

func TestProcessImageNoBackendStillReturnsResult(t *testing.T) {
	// The stub backend fails every recognition call; the pipeline must
	// still produce an empty Result rather than an error.
	p, err := NewBuilder().Build()
	require.NoError(t, err)
	defer func() { _ = p.Close() }()

	result, err := p.ProcessImage(receiptImage())
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Empty(t, result.Items)
	assert.Empty(t, result.Lines)
	assert.Zero(t, result.Confidence)
}

func TestProcessImageNilInput(t *testing.T) {
	p, err := NewBuilder().WithEngine(newScriptEngine("Milk 2.49")).Build()
	require.NoError(t, err)
	defer func() { _ = p.Close() }()

	_, err = p.ProcessImage(nil)
	assert.Error(t, err)
}

func TestProcessImageContextCancellation(t *testing.T) {
	p, err := NewBuilder().WithEngine(newScriptEngine(sampleTranscript()...)).Build()
	require.NoError(t, err)
	defer func() { _ = p.Close() }()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = p.ProcessImageContext(ctx, receiptImage())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMinItemConfidenceOverride(t *testing.T) {
	p, err := NewBuilder().
		WithEngine(newScriptEngine(sampleTranscript()...)).
		WithMinItemConfidence(0.99).
		Build()
	require.NoError(t, err)
	defer func() { _ = p.Close() }()

	result, err := p.ProcessImage(receiptImage())
	require.NoError(t, err)
	for _, item := range result.Items {
		assert.GreaterOrEqual(t, item.Confidence, 0.99)
	}
}
