package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Counters(t *testing.T) {
	m := New("ground-booking", prometheus.NewRegistry())

	m.ObserveReservation("book", "success")
	m.ObserveReservation("book", "success")
	m.ObserveReservation("book", "slot_full")
	m.IncConsistencyViolation("audit")
	m.ObserveDBCall("exec", time.Millisecond, errors.New("boom"))
	m.ObserveDBCall("exec", time.Millisecond, nil)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.ReservationsTotal.WithLabelValues("ground-booking", "book", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ReservationsTotal.WithLabelValues("ground-booking", "book", "slot_full")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ConsistencyViolations.WithLabelValues("ground-booking", "audit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DBErrorsTotal.WithLabelValues("ground-booking", "exec")))
}

func TestMetrics_SeparateRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		New("a", prometheus.NewRegistry())
		New("a", prometheus.NewRegistry())
	})
}
