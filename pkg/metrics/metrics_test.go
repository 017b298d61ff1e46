package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Counters(t *testing.T) {
	m := MustNewMetrics(prometheus.NewRegistry())

	m.ObserveTurn("intake", 120*time.Millisecond)
	m.ObserveTurn("intake", 80*time.Millisecond)
	m.BackendFailure("symptom")
	m.Award("workout", 15)
	m.Award("mood", 5)
	m.Award("mood", 5)
	m.Award("profile_update", 0)
	m.CorruptState()
	m.StoreError("put")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.turns.WithLabelValues("intake")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.backendFailures.WithLabelValues("symptom")))
	assert.Equal(t, 15.0, testutil.ToFloat64(m.awards.WithLabelValues("workout")))
	assert.Equal(t, 10.0, testutil.ToFloat64(m.awards.WithLabelValues("mood")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.corruptStates))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.storeErrors.WithLabelValues("put")))
	assert.Equal(t, 2, testutil.CollectAndCount(m.awards), "zero awards create no series")
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveTurn("x", time.Second)
		m.BackendFailure("x")
		m.Award("x", 1)
		m.CorruptState()
		m.StoreError("get")
	})
}

func TestMustNewMetrics_DuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	MustNewMetrics(reg)
	assert.Panics(t, func() { MustNewMetrics(reg) })
}
