package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "rentfleet",
			Name:      "http_requests_total",
			Help:      "HTTP requests by endpoint, method and status code.",
		},
		[]string{"endpoint", "method", "code"},
	)

	bookingTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "rentfleet",
			Name:      "booking_transitions_total",
			Help:      "Applied booking status transitions by action.",
		},
		[]string{"action"},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(httpRequests, bookingTransitions)
	})
}

// IncHTTP increments the request counter for an endpoint label.
func IncHTTP(endpoint, method, code string) {
	httpRequests.WithLabelValues(endpoint, method, code).Inc()
}

// IncTransition increments the transition counter for an action label.
func IncTransition(action string) {
	bookingTransitions.WithLabelValues(action).Inc()
}
