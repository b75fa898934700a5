package classify

import (
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strings"

	"github.com/tillscan/tillscan/internal/receipt"
)

// Ensemble thresholds and bonuses.
const (
	// agreementBonus is added when at least two models propose the
	// same normalized name and price.
	agreementBonus = 0.1
	// confidenceFloor is the minimum confidence for a retained item.
	confidenceFloor = 0.4
	// lowItemFloor admits borderline items when the floor alone keeps
	// too few.
	lowItemFloor = 0.3
	// minItemCount is the item count below which borderline items are
	// admitted.
	minItemCount = 3
	// maxBorderlineItems caps how many borderline items may be
	// admitted.
	maxBorderlineItems = 5
	// reconcileTolerance is the relative divergence between the item
	// sum and the declared total above which a warning is logged.
	reconcileTolerance = 0.10
)

// Combine pools candidates from all models, deduplicates them by
// normalized name and price, applies the agreement bonus when
// independent models corroborate an item, and returns the retained
// items sorted by confidence descending. Running it again over an
// already-deduplicated set yields the same items.
func Combine(candidates []receipt.Candidate) []receipt.Item {
	if len(candidates) == 0 {
		return nil
	}

	groups := make(map[string][]receipt.Candidate)
	var order []string
	for _, c := range candidates {
		key := itemKey(c.Name, c.TotalPrice)
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], c)
	}

	items := make([]receipt.Item, 0, len(order))
	for _, key := range order {
		group := groups[key]
		best := group[0]
		for _, c := range group[1:] {
			if c.Confidence > best.Confidence {
				best = c
			}
		}
		confidence := best.Confidence
		if len(group) >= 2 {
			confidence = capScore(confidence + agreementBonus)
		}
		items = append(items, receipt.Item{
			Name:       best.Name,
			Quantity:   best.Quantity,
			UnitPrice:  best.UnitPrice,
			TotalPrice: best.TotalPrice,
			Confidence: confidence,
			LineIndex:  best.LineIndex,
		})
	}

	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Confidence != items[j].Confidence {
			return items[i].Confidence > items[j].Confidence
		}
		return items[i].LineIndex < items[j].LineIndex
	})

	retained := make([]receipt.Item, 0, len(items))
	var borderline []receipt.Item
	for _, item := range items {
		switch {
		case item.Confidence >= confidenceFloor:
			retained = append(retained, item)
		case item.Confidence >= lowItemFloor:
			borderline = append(borderline, item)
		}
	}
	// A sparse result usually means the floor was too strict for this
	// receipt, not that the receipt had no items.
	if len(retained) < minItemCount && len(borderline) > 0 {
		n := min(len(borderline), maxBorderlineItems)
		retained = append(retained, borderline[:n]...)
	}
	return retained
}

// itemKey normalizes a candidate for grouping: lowercased,
// whitespace-collapsed name plus the price rounded to cents.
func itemKey(name string, price float64) string {
	normalized := strings.Join(strings.Fields(strings.ToLower(name)), " ")
	return fmt.Sprintf("%s_%.2f", normalized, math.Round(price*100)/100)
}

// Reconcile compares the retained items' price sum against the
// declared receipt total. Divergence is advisory only; it signals
// missed or spuriously duplicated items and is logged, never enforced.
func Reconcile(items []receipt.Item, declaredTotal *float64) {
	if declaredTotal == nil || *declaredTotal <= 0 || len(items) == 0 {
		return
	}
	var sum float64
	for _, item := range items {
		sum += item.TotalPrice
	}
	divergence := math.Abs(sum-*declaredTotal) / *declaredTotal
	if divergence > reconcileTolerance {
		slog.Warn("item sum diverges from declared total",
			"item_sum", sum,
			"declared_total", *declaredTotal,
			"divergence", divergence)
	}
}
