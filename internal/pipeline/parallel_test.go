package pipeline

import (
	"context"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestPNG(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, image.NewGray(image.Rect(0, 0, 100, 200))))
	require.NoError(t, f.Close())
	return path
}

type countingProgress struct {
	mu       sync.Mutex
	started  int
	progress int
	done     bool
}

func (c *countingProgress) OnStart(total int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.started = total
}

func (c *countingProgress) OnProgress(done, total int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.progress = done
}

func (c *countingProgress) OnComplete() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.done = true
}

func TestProcessBatch(t *testing.T) {
	dir := t.TempDir()
	paths := []string{
		writeTestPNG(t, dir, "a.png"),
		writeTestPNG(t, dir, "b.png"),
		writeTestPNG(t, dir, "c.png"),
	}

	progress := &countingProgress{}
	p, err := NewBuilder().
		WithEngine(newScriptEngine(sampleTranscript()...)).
		WithWorkers(2).
		WithProgressCallback(progress).
		Build()
	require.NoError(t, err)
	defer func() { _ = p.Close() }()

	results, err := p.ProcessBatch(context.Background(), paths)
	require.NoError(t, err)
	require.Len(t, results, 3)
	for i, r := range results {
		assert.Equal(t, paths[i], r.Path, "results keep input order")
		require.NoError(t, r.Err)
		require.NotNil(t, r.Result)
		assert.NotEmpty(t, r.Result.Items)
	}
	assert.Equal(t, 3, progress.started)
	assert.Equal(t, 3, progress.progress)
	assert.True(t, progress.done)
}

func TestProcessBatchContinueOnError(t *testing.T) {
	dir := t.TempDir()
	good := writeTestPNG(t, dir, "good.png")
	missing := filepath.Join(dir, "missing.png")

	var handled []string
	p, err := NewBuilder().WithEngine(newScriptEngine(sampleTranscript()...)).Build()
	require.NoError(t, err)
	defer func() { _ = p.Close() }()
	p.cfg.Parallel.ErrorHandler = func(path string, _ error) { handled = append(handled, path) }

	results, err := p.ProcessBatch(context.Background(), []string{good, missing})
	assert.Error(t, err, "first failure is surfaced")
	require.Len(t, results, 2, "good file is still processed")
	assert.NoError(t, results[0].Err)
	assert.Error(t, results[1].Err)
	assert.Equal(t, []string{missing}, handled)
}

func TestProcessBatchEmptyInput(t *testing.T) {
	p, err := NewBuilder().WithEngine(newScriptEngine("Milk 2.49")).Build()
	require.NoError(t, err)
	defer func() { _ = p.Close() }()

	_, err = p.ProcessBatch(context.Background(), nil)
	assert.Error(t, err)
}

func TestProcessBatchCancelledContext(t *testing.T) {
	dir := t.TempDir()
	paths := []string{writeTestPNG(t, dir, "a.png")}

	p, err := NewBuilder().WithEngine(newScriptEngine("Milk 2.49")).Build()
	require.NoError(t, err)
	defer func() { _ = p.Close() }()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = p.ProcessBatch(ctx, paths)
	assert.ErrorIs(t, err, context.Canceled)
}
