package inspect

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// metrics holds the inspect server's Prometheus metrics. A nil *metrics
// records nothing.
type metrics struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	clients         prometheus.Gauge
	framesSent      prometheus.Counter
}

func newMetrics(namespace string, registry prometheus.Registerer) *metrics {
	factory := promauto.With(registry)

	return &metrics{
		requestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "inspect",
			Name:      "requests_total",
			Help:      "Total number of inspect HTTP requests",
		}, []string{"route", "code"}),

		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "inspect",
			Name:      "request_duration_seconds",
			Help:      "Inspect HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),

		clients: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "inspect",
			Name:      "websocket_clients",
			Help:      "Number of connected journal stream clients",
		}),

		framesSent: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "inspect",
			Name:      "frames_sent_total",
			Help:      "Total number of frames sent to stream clients",
		}),
	}
}

func (m *metrics) observeRequest(route string, code int, seconds float64) {
	if m == nil {
		return
	}
	m.requestsTotal.WithLabelValues(route, strconv.Itoa(code)).Inc()
	m.requestDuration.WithLabelValues(route).Observe(seconds)
}

func (m *metrics) setClients(n int) {
	if m == nil {
		return
	}
	m.clients.Set(float64(n))
}

func (m *metrics) frameSent() {
	if m == nil {
		return
	}
	m.framesSent.Inc()
}
