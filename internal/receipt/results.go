package receipt

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ToJSON serializes a single Result to pretty JSON.
func ToJSON(res *Result) (string, error) {
	if res == nil {
		return "", errors.New("nil result")
	}
	b, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ToJSONMany serializes multiple results to pretty JSON.
func ToJSONMany(results []*Result) (string, error) {
	b, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ToCSV exports the item list as CSV with a header row.
func ToCSV(res *Result) (string, error) {
	if res == nil {
		return "", errors.New("nil result")
	}
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"name", "quantity", "unit_price", "total_price", "confidence"}); err != nil {
		return "", err
	}
	for _, it := range res.Items {
		rec := []string{
			it.Name,
			formatOptional(it.Quantity),
			formatOptional(it.UnitPrice),
			strconv.FormatFloat(it.TotalPrice, 'f', 2, 64),
			strconv.FormatFloat(it.Confidence, 'f', 3, 64),
		}
		if err := w.Write(rec); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// ToText renders a human-readable summary: merchant, date, items, totals.
func ToText(res *Result) (string, error) {
	if res == nil {
		return "", errors.New("nil result")
	}
	var b strings.Builder
	if res.Metadata.MerchantName != "" {
		fmt.Fprintf(&b, "%s\n", res.Metadata.MerchantName)
	}
	if res.Metadata.Date != nil {
		fmt.Fprintf(&b, "%s", res.Metadata.Date.Format("2006-01-02"))
		if res.Metadata.Time != "" {
			fmt.Fprintf(&b, " %s", res.Metadata.Time)
		}
		b.WriteString("\n")
	}
	for _, it := range res.Items {
		if it.Quantity != nil && it.UnitPrice != nil {
			fmt.Fprintf(&b, "%-40s %g x %.2f  %8.2f\n", it.Name, *it.Quantity, *it.UnitPrice, it.TotalPrice)
		} else {
			fmt.Fprintf(&b, "%-40s %8.2f\n", it.Name, it.TotalPrice)
		}
	}
	writeTotalLine(&b, "Subtotal", res.Metadata.Subtotal)
	writeTotalLine(&b, "Tax", res.Metadata.Tax)
	writeTotalLine(&b, "Total", res.Metadata.Total)
	return b.String(), nil
}

func writeTotalLine(b *strings.Builder, label string, v *float64) {
	if v != nil {
		fmt.Fprintf(b, "%-40s %8.2f\n", label, *v)
	}
}

func formatOptional(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', 2, 64)
}
