// Package metrics defines and registers the Prometheus metrics of the quote
// engine. It is the single source of truth for metric names, labels and help
// strings.
//
// The CLI has no HTTP listener, so metrics are exported with WriteTextfile
// for the node_exporter textfile collector.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/borneomart/shipping-quote/internal/core/ports"
)

const namespace = "shipping_quote"

// ── Quote metrics ─────────────────────────────────────────────────────────────

// QuotesTotal counts calculated quotes.
// Labels:
//   - region: the resolved pricing region (e.g. "sabah", "unknown")
//   - confidence: detection confidence ("high", "low", "none")
var QuotesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "quotes_total",
		Help:      "Total number of shipping quotes calculated.",
	},
	[]string{"region", "confidence"},
)

// QuotesEmptyTotal counts quotes that produced no shipping option.
var QuotesEmptyTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "quotes_empty_total",
		Help:      "Total number of quotes with no available shipping option.",
	},
	[]string{"region"},
)

// QuoteOptionsTotal counts priced options by pricing path.
// Label:
//   - pricing: "regional" or "fallback"
var QuoteOptionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "quote_options_total",
		Help:      "Total number of priced service options, by pricing path.",
	},
	[]string{"pricing"},
)

// RegionDetectionsTotal counts detection outcomes.
// Label:
//   - source: "state_code", "country_code", "postal_code", "manual" or "fallback"
var RegionDetectionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "region_detections_total",
		Help:      "Total number of region detections, by source.",
	},
	[]string{"source"},
)

// QuoteDuration measures end-to-end quote latency including catalog loading.
var QuoteDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "quote_duration_seconds",
		Help:      "Duration of a quote from request to priced options.",
		Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1},
	},
)

// ── Catalog metrics ───────────────────────────────────────────────────────────

// CatalogLoadsTotal counts catalog reads.
// Labels:
//   - source: "cache" or "store"
//   - result: "ok" or "error"
var CatalogLoadsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "catalog_loads_total",
		Help:      "Total number of provider catalog loads, by source and result.",
	},
	[]string{"source", "result"},
)

// CatalogRejectedTotal counts catalog records dropped during ingestion.
// Label:
//   - kind: "provider", "service" or "regional_pricing"
var CatalogRejectedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "catalog_rejected_total",
		Help:      "Total number of catalog records rejected by validation.",
	},
	[]string{"kind"},
)

// Observer implements ports.QuoteObserver on top of the package metrics.
type Observer struct{}

var _ ports.QuoteObserver = Observer{}

func (Observer) ObserveQuote(q *ports.Quote, elapsed time.Duration) {
	region := string(q.Detection.Region)
	QuotesTotal.WithLabelValues(region, string(q.Detection.Confidence)).Inc()
	RegionDetectionsTotal.WithLabelValues(string(q.Detection.Source)).Inc()
	QuoteDuration.Observe(elapsed.Seconds())

	if len(q.Options) == 0 {
		QuotesEmptyTotal.WithLabelValues(region).Inc()
	}
	for _, opt := range q.Options {
		if opt.UsedRegionalPricing {
			QuoteOptionsTotal.WithLabelValues("regional").Inc()
		} else {
			QuoteOptionsTotal.WithLabelValues("fallback").Inc()
		}
	}
}

func (Observer) ObserveCatalogLoad(source string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	CatalogLoadsTotal.WithLabelValues(source, result).Inc()
}

// WriteTextfile dumps the default registry to path in the text exposition
// format. An empty path is a no-op.
func WriteTextfile(path string) error {
	if path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, prometheus.DefaultGatherer); err != nil {
		return fmt.Errorf("metrics: write textfile: %w", err)
	}
	return nil
}
