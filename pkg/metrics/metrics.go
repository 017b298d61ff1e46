package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "healthbot"

// Metrics exposes Prometheus collectors for conversation activity. A nil
// *Metrics is valid and records nothing.
type Metrics struct {
	turns           *prometheus.CounterVec
	turnDuration    prometheus.Histogram
	backendFailures *prometheus.CounterVec
	awards          *prometheus.CounterVec
	corruptStates   prometheus.Counter
	storeErrors     *prometheus.CounterVec
}

// MustNewMetrics registers the collectors with reg. Pass a fresh registry in
// tests; registration errors panic.
func MustNewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		turns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "router",
			Name:      "turns_total",
			Help:      "Inbound turns handled, by the flow that consumed them.",
		}, []string{"flow"}),
		turnDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "router",
			Name:      "turn_duration_seconds",
			Help:      "Wall time of a turn including the backend call.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),
		backendFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "backend",
			Name:      "failures_total",
			Help:      "Generative backend calls that failed or timed out.",
		}, []string{"flow"}),
		awards: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "score",
			Name:      "points_awarded_total",
			Help:      "Score points awarded, by event.",
		}, []string{"event"}),
		corruptStates: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "router",
			Name:      "corrupt_states_total",
			Help:      "Unrecognized pending states that were cleared.",
		}),
		storeErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "errors_total",
			Help:      "Record store failures, by operation.",
		}, []string{"op"}),
	}

	reg.MustRegister(m.turns, m.turnDuration, m.backendFailures, m.awards, m.corruptStates, m.storeErrors)
	return m
}

func (m *Metrics) ObserveTurn(flow string, d time.Duration) {
	if m == nil {
		return
	}
	m.turns.WithLabelValues(flow).Inc()
	m.turnDuration.Observe(d.Seconds())
}

func (m *Metrics) BackendFailure(flow string) {
	if m == nil {
		return
	}
	m.backendFailures.WithLabelValues(flow).Inc()
}

// Award counts points; zero awards are skipped.
func (m *Metrics) Award(event string, points int) {
	if m == nil || points <= 0 {
		return
	}
	m.awards.WithLabelValues(event).Add(float64(points))
}

func (m *Metrics) CorruptState() {
	if m == nil {
		return
	}
	m.corruptStates.Inc()
}

func (m *Metrics) StoreError(op string) {
	if m == nil {
		return
	}
	m.storeErrors.WithLabelValues(op).Inc()
}
