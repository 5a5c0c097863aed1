package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	registry       *prometheus.Registry
	ActiveSessions prometheus.Gauge
	MessagesTotal  *prometheus.CounterVec
	AuthFailures   *prometheus.CounterVec
	FramesTotal    *prometheus.CounterVec
	CommandErrors  *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	r := prometheus.NewRegistry()
	m := &Metrics{
		registry: r,
		ActiveSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "remote_gateway",
			Name:      "active_sessions",
			Help:      "Number of live authenticated sessions",
		}),
		MessagesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "remote_gateway",
			Name:      "messages_total",
			Help:      "Total dispatched messages by envelope type",
		}, []string{"type"}),
		AuthFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "remote_gateway",
			Name:      "auth_failures_total",
			Help:      "Total rejected pairing credentials by reason",
		}, []string{"reason"}),
		FramesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "remote_gateway",
			Name:      "frames_total",
			Help:      "Total stream frames by result",
		}, []string{"result"}),
		CommandErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "remote_gateway",
			Name:      "command_errors_total",
			Help:      "Total failed command relays by kind",
		}, []string{"kind"}),
	}
	r.MustRegister(m.ActiveSessions, m.MessagesTotal, m.AuthFailures, m.FramesTotal, m.CommandErrors)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry { return m.registry }
