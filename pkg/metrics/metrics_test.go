package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegistersOnGivenRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New("medcare", reg)

	m.AppointmentsBooked.Inc()
	m.StatusTransitions.WithLabelValues("scheduled", "confirmed").Inc()
	m.StatusTransitions.WithLabelValues("scheduled", "confirmed").Inc()

	assert.Equal(t, 1.0, testutil.ToFloat64(m.AppointmentsBooked))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.StatusTransitions.WithLabelValues("scheduled", "confirmed")))

	families, err := reg.Gather()
	require.NoError(t, err)

	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "medcare_appointments_booked_total")
	assert.Contains(t, names, "medcare_appointments_status_transitions_total")
}

func TestNewTwiceOnSameRegistryPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	New("medcare", reg)
	assert.Panics(t, func() { New("medcare", reg) })
}
