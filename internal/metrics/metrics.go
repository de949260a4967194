package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"

	CacheHit   = "hit"
	CacheMiss  = "miss"
	CacheError = "error"

	GaugeOK      = "ok"
	GaugeUnknown = "unknown_type"
	GaugeEmpty   = "empty"
	GaugePanic   = "panic"
)

var (
	recordFetchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "csat",
			Name:      "record_fetches_total",
			Help:      "Record fetches against the data source, partitioned by outcome.",
		},
		[]string{"outcome"},
	)

	recordFetchSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "csat",
			Name:      "record_fetch_seconds",
			Help:      "Record fetch latency in seconds, retries included.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		},
	)

	recordCacheLookupsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "csat",
			Name:      "record_cache_lookups_total",
			Help:      "Record cache lookups, partitioned by result.",
		},
		[]string{"result"},
	)

	gaugeTransformsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "csat",
			Name:      "gauge_transforms_total",
			Help:      "Gauge transforms, partitioned by type key and outcome.",
		},
		[]string{"type", "outcome"},
	)

	refreshesThrottledTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "csat",
			Name:      "refreshes_throttled_total",
			Help:      "Manual refreshes rejected by the rate limiter.",
		},
	)
)

// Register attaches the csat collectors to the supplied Prometheus registerer.
func Register(reg prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		recordFetchesTotal,
		recordFetchSeconds,
		recordCacheLookupsTotal,
		gaugeTransformsTotal,
		refreshesThrottledTotal,
	}

	for _, collector := range collectors {
		if err := reg.Register(collector); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); ok {
				continue
			}
			return err
		}
	}
	return nil
}

// ObserveFetch records a fetch duration and outcome label.
func ObserveFetch(duration time.Duration, outcome string) {
	label := outcome
	if label != OutcomeError {
		label = OutcomeSuccess
	}
	recordFetchesTotal.WithLabelValues(label).Inc()
	if duration < 0 {
		duration = 0
	}
	recordFetchSeconds.Observe(duration.Seconds())
}

func ObserveCacheLookup(result string) {
	recordCacheLookupsTotal.WithLabelValues(result).Inc()
}

func ObserveGauge(typeKey, outcome string) {
	gaugeTransformsTotal.WithLabelValues(typeKey, outcome).Inc()
}

func ObserveThrottled() {
	refreshesThrottledTotal.Inc()
}
