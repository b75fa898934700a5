// Package classify implements the three line classifiers that propose
// item candidates from recognized receipt lines, and the ensemble that
// merges their outputs. The models deliberately use partially different
// noise filters and confidence thresholds so their error modes stay
// independent; the ensemble's agreement bonus depends on that.
package classify

import (
	"sync"

	"github.com/tillscan/tillscan/internal/receipt"
)

// Classifier proposes item candidates from recognized lines. The set
// of implementations is fixed; there is no runtime registration.
type Classifier interface {
	Name() string
	Classify(lines []receipt.Line) []receipt.Candidate
}

// DefaultClassifiers returns the three models in their canonical order.
func DefaultClassifiers() []Classifier {
	return []Classifier{
		&PatternModel{},
		&SemanticModel{},
		&StructuralModel{},
	}
}

// RunAll executes every classifier concurrently over the shared
// immutable line slice and returns the pooled candidates in classifier
// order. Callers hand the pool to Combine.
func RunAll(classifiers []Classifier, lines []receipt.Line) []receipt.Candidate {
	results := make([][]receipt.Candidate, len(classifiers))
	var wg sync.WaitGroup
	for i, c := range classifiers {
		i, c := i, c
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = c.Classify(lines)
		}()
	}
	wg.Wait()

	var pooled []receipt.Candidate
	for _, r := range results {
		pooled = append(pooled, r...)
	}
	return pooled
}
