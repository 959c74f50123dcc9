package exporter

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/benmeehan/freebox-agent/pkg/freebox"
)

// ClientMetrics counts the API traffic of a freebox.Client. It implements freebox.Observer.
type ClientMetrics struct {
	requests *prometheus.CounterVec
	sessions *prometheus.CounterVec
	retries  prometheus.Counter
}

var _ freebox.Observer = (*ClientMetrics)(nil)

// NewClientMetrics creates the counters and registers them with reg.
func NewClientMetrics(reg prometheus.Registerer) *ClientMetrics {
	m := &ClientMetrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "client",
			Name:      "requests_total",
			Help:      "API calls by method and outcome.",
		}, []string{"method", "outcome"}),
		sessions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "client",
			Name:      "sessions_total",
			Help:      "Session logins by outcome.",
		}, []string{"outcome"}),
		retries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "client",
			Name:      "retries_total",
			Help:      "Requests replayed after a session refresh.",
		}),
	}
	reg.MustRegister(m.requests, m.sessions, m.retries)
	return m
}

// RequestDone implements freebox.Observer.
func (m *ClientMetrics) RequestDone(method string, err error) {
	m.requests.WithLabelValues(method, outcome(err)).Inc()
}

// SessionOpened implements freebox.Observer.
func (m *ClientMetrics) SessionOpened(err error) {
	m.sessions.WithLabelValues(outcome(err)).Inc()
}

// Retried implements freebox.Observer.
func (m *ClientMetrics) Retried() {
	m.retries.Inc()
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case freebox.IsInsufficientRights(err):
		return "insufficient_rights"
	case freebox.IsAuthorization(err):
		return "authorization"
	case freebox.IsRequest(err):
		return "request"
	default:
		return "transport"
	}
}
