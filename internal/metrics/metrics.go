package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	apiRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "bookbnb",
			Name:      "api_requests_total",
			Help:      "Outgoing REST requests by endpoint and status code.",
		},
		[]string{"endpoint", "status"},
	)

	apiDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "bookbnb",
			Name:      "api_request_duration_seconds",
			Help:      "Latency of outgoing REST requests.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	domainEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "bookbnb",
			Name:      "events_total",
			Help:      "Session and booking events by type.",
		},
		[]string{"type"},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(apiRequests, apiDuration, domainEvents)
	})
}

// ObserveAPI records one outgoing request. status 0 means a transport failure.
func ObserveAPI(endpoint string, status int, dur time.Duration) {
	apiRequests.WithLabelValues(endpoint, strconv.Itoa(status)).Inc()
	apiDuration.WithLabelValues(endpoint).Observe(dur.Seconds())
}

// IncEvent increments the counter for an event type.
func IncEvent(eventType string) {
	domainEvents.WithLabelValues(eventType).Inc()
}
