package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	FetchPages = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "eventmap",
		Name:      "fetch_pages_total",
		Help:      "Number of event pages fetched from the database",
	})
	FetchErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "eventmap",
		Name:      "fetch_errors_total",
		Help:      "Number of failed page fetches",
	})
	DroppedTriggers = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "eventmap",
		Name:      "dropped_triggers_total",
		Help:      "Fetch triggers dropped because a fetch was already in flight",
	}, []string{"trigger"})
	CachedEvents = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "eventmap",
		Name:      "cached_events",
		Help:      "Number of events currently held in the cache",
	})
	CacheResets = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "eventmap",
		Name:      "cache_resets_total",
		Help:      "Number of full cache resets (auth changes, manual clears)",
	})
	GeocodeResults = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "eventmap",
		Name:      "geocode_results_total",
		Help:      "Nominatim lookups by outcome",
	}, []string{"status"})
)

func init() {
	prometheus.MustRegister(
		FetchPages,
		FetchErrors,
		DroppedTriggers,
		CachedEvents,
		CacheResets,
		GeocodeResults,
	)
}
