package receipt

import "time"

// Line is a single recognized text line, the authoritative input to all
// downstream extraction stages. Lines are immutable once produced.
type Line struct {
	Index      int     `json:"index"`
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"` // [0,1], inherited from the OCR pass
}

// Candidate is an item proposal produced by exactly one line classifier.
// Candidates are ephemeral; they exist only between a classifier and the
// ensemble combiner and are never persisted.
type Candidate struct {
	LineIndex  int
	Name       string
	Quantity   *float64
	UnitPrice  *float64
	TotalPrice float64
	Confidence float64
	Model      string // name of the classifier that proposed it
}

// Item is a deduplicated, ensemble-scored receipt line item.
// Invariants: Confidence in [0,1], TotalPrice > 0, Name non-empty with
// at least three alphabetic characters.
type Item struct {
	Name       string   `json:"name"`
	Quantity   *float64 `json:"quantity,omitempty"`
	UnitPrice  *float64 `json:"unit_price,omitempty"`
	TotalPrice float64  `json:"total_price"`
	Confidence float64  `json:"confidence"`
	LineIndex  int      `json:"line_index"`
}

// Metadata holds receipt-level fields derived independently of item
// extraction. Absent fields stay nil/empty; absence is a valid outcome.
type Metadata struct {
	MerchantName  string     `json:"merchant_name"`
	Date          *time.Time `json:"date,omitempty"`
	Time          string     `json:"time,omitempty"`
	Subtotal      *float64   `json:"subtotal,omitempty"`
	Tax           *float64   `json:"tax,omitempty"`
	Total         *float64   `json:"total,omitempty"`
	ReceiptNumber string     `json:"receipt_number,omitempty"`
}

// Result is the terminal aggregate handed to external collaborators.
type Result struct {
	Metadata   Metadata `json:"metadata"`
	Items      []Item   `json:"items"`
	Lines      []Line   `json:"lines,omitempty"`
	Confidence float64  `json:"confidence"` // mean OCR confidence of the chosen pass

	// Provenance of the upstream stages.
	Preprocess  string `json:"preprocess,omitempty"`   // chosen enhancement variant
	Recognition string `json:"recognition,omitempty"`  // chosen segmentation mode
	Processing  struct {
		PreprocessNs int64 `json:"preprocess_ns"`
		RecognizeNs  int64 `json:"recognize_ns"`
		ClassifyNs   int64 `json:"classify_ns"`
		TotalNs      int64 `json:"total_ns"`
	} `json:"processing"`
}

// ItemSum returns the sum of all item total prices.
func (r *Result) ItemSum() float64 {
	var sum float64
	for _, it := range r.Items {
		sum += it.TotalPrice
	}
	return sum
}
