//go:build tesseract

package ocr

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"strings"

	"github.com/otiai10/gosseract/v2"
)

// newDefaultEngine returns the Tesseract-backed implementation when the
// build tag is enabled.
func newDefaultEngine() (Engine, error) { return &tesseractEngine{}, nil }

// tesseractEngine drives Tesseract through gosseract. A fresh client is
// created per invocation; gosseract clients are not safe for concurrent
// reuse and per-receipt pipelines may run in parallel.
type tesseractEngine struct{}

func (e *tesseractEngine) Recognize(ctx context.Context, img image.Image, cfg Config) ([]Token, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	client := gosseract.NewClient()
	defer func() { _ = client.Close() }()

	if err := configureClient(client, img, cfg); err != nil {
		return nil, err
	}

	boxes, err := client.GetBoundingBoxesVerbose()
	if err != nil {
		return nil, fmt.Errorf("tesseract word boxes: %w", err)
	}

	tokens := make([]Token, 0, len(boxes))
	// Tesseract line numbers restart per block; fold block and paragraph
	// indices into a single monotonic line key.
	lineKeys := make(map[[3]int]int)
	for _, b := range boxes {
		word := strings.TrimSpace(b.Word)
		if word == "" {
			continue
		}
		key := [3]int{b.BlockNum, b.ParNum, b.LineNum}
		idx, ok := lineKeys[key]
		if !ok {
			idx = len(lineKeys)
			lineKeys[key] = idx
		}
		tokens = append(tokens, Token{Text: word, Line: idx, Confidence: b.Confidence})
	}
	return tokens, nil
}

func (e *tesseractEngine) PlainText(ctx context.Context, img image.Image) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	client := gosseract.NewClient()
	defer func() { _ = client.Close() }()

	if err := configureClient(client, img, Config{SegMode: SegAuto}); err != nil {
		return "", err
	}
	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("tesseract text: %w", err)
	}
	return text, nil
}

func (e *tesseractEngine) Close() error { return nil }

func configureClient(client *gosseract.Client, img image.Image, cfg Config) error {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("encode image for tesseract: %w", err)
	}
	if err := client.SetImageFromBytes(buf.Bytes()); err != nil {
		return fmt.Errorf("set tesseract image: %w", err)
	}
	if err := client.SetPageSegMode(pageSegMode(cfg.SegMode)); err != nil {
		return fmt.Errorf("set page segmentation mode: %w", err)
	}
	if cfg.Whitelist != "" {
		if err := client.SetWhitelist(cfg.Whitelist); err != nil {
			return fmt.Errorf("set whitelist: %w", err)
		}
	}
	return nil
}

func pageSegMode(m SegMode) gosseract.PageSegMode {
	switch m {
	case SegBlock:
		return gosseract.PSM_SINGLE_BLOCK
	case SegSparseText:
		return gosseract.PSM_SPARSE_TEXT
	case SegSingleColumn:
		return gosseract.PSM_SINGLE_COLUMN
	default:
		return gosseract.PSM_AUTO
	}
}
