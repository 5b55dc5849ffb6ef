package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	cacheReads = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "fikiri_client_cache_reads_total",
		Help: "The total number of cache reads, partitioned by outcome.",
	}, []string{"resource", "outcome"})

	fetchesInFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "fikiri_client_fetches_in_flight",
		Help: "The current number of fetches in course.",
	})

	fetchesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "fikiri_client_fetches_total",
		Help: "The total number of fetches which were performed.",
	}, []string{"resource", "status"})

	liveFrames = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "fikiri_client_live_frames_total",
		Help: "The total number of live-update frames received.",
	}, []string{"resource"})

	mutations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "fikiri_client_mutations_total",
		Help: "The total number of mutations dispatched.",
	}, []string{"status"})
)

func init() {
	prometheus.MustRegister(cacheReads)
	prometheus.MustRegister(fetchesInFlight)
	prometheus.MustRegister(fetchesTotal)
	prometheus.MustRegister(liveFrames)
	prometheus.MustRegister(mutations)
}

// Read outcomes.
const (
	ReadHit   = "hit"
	ReadStale = "stale"
	ReadMiss  = "miss"
)

func CacheRead(resource, outcome string) {
	cacheReads.WithLabelValues(resource, outcome).Inc()
}

func FetchStarted() {
	fetchesInFlight.Inc()
}

func FetchFinished(resource string, err error) {
	fetchesInFlight.Dec()
	status := "ok"
	if err != nil {
		status = "error"
	}
	fetchesTotal.WithLabelValues(resource, status).Inc()
}

func LiveFrame(resource string) {
	liveFrames.WithLabelValues(resource).Inc()
}

func MutationDone(err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	mutations.WithLabelValues(status).Inc()
}
