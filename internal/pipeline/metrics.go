package pipeline

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	receiptsProcessedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tillscan_receipts_processed_total",
		Help: "Total number of receipts processed successfully.",
	})

	itemsExtractedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tillscan_items_extracted_total",
		Help: "Total number of items extracted across all receipts.",
	})

	emptyReceiptsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tillscan_empty_receipts_total",
		Help: "Receipts processed without any extracted items.",
	})

	stageFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tillscan_stage_failures_total",
		Help: "Pipeline stage failures by stage.",
	}, []string{"stage"})

	stageDurationSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "tillscan_stage_duration_seconds",
		Help:    "Pipeline stage duration in seconds.",
		Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
	}, []string{"stage"})
)

func recordReceipt(items int) {
	receiptsProcessedTotal.Inc()
	itemsExtractedTotal.Add(float64(items))
	if items == 0 {
		emptyReceiptsTotal.Inc()
	}
}

func recordFailure(stage string) {
	stageFailuresTotal.WithLabelValues(stage).Inc()
}

func observeStage(stage string, d time.Duration) {
	stageDurationSeconds.WithLabelValues(stage).Observe(d.Seconds())
}
