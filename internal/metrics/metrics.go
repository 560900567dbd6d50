package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "onhostel",
			Name:      "http_requests_total",
			Help:      "HTTP requests by endpoint.",
		},
		[]string{"endpoint"},
	)

	recordWrites = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "onhostel",
			Name:      "record_writes_total",
			Help:      "Mirror writes by collection and operation.",
		},
		[]string{"collection", "op"},
	)

	syncFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "onhostel",
			Name:      "remote_sync_failures_total",
			Help:      "Remote replication failures by collection.",
		},
		[]string{"collection"},
	)

	reportsGenerated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "onhostel",
			Name:      "reports_generated_total",
			Help:      "Monthly report files generated.",
		},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(httpRequests, recordWrites, syncFailures, reportsGenerated)
	})
}

// IncHTTP increments the counter for an endpoint label.
func IncHTTP(endpoint string) {
	httpRequests.WithLabelValues(endpoint).Inc()
}

// IncWrite increments the mirror write counter.
func IncWrite(collection, op string) {
	recordWrites.WithLabelValues(collection, op).Inc()
}

// IncSyncFailure increments the remote replication failure counter.
func IncSyncFailure(collection string) {
	syncFailures.WithLabelValues(collection).Inc()
}

// IncReport increments the generated reports counter.
func IncReport() {
	reportsGenerated.Inc()
}
