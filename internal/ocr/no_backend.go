//go:build !tesseract

package ocr

import (
	"context"
	"image"
)

type stubEngine struct{}

func newDefaultEngine() (Engine, error) { return &stubEngine{}, nil }

func (s *stubEngine) Recognize(_ context.Context, _ image.Image, _ Config) ([]Token, error) {
	return nil, ErrNoBackend
}

func (s *stubEngine) PlainText(_ context.Context, _ image.Image) (string, error) {
	return "", ErrNoBackend
}

func (s *stubEngine) Close() error { return nil }
