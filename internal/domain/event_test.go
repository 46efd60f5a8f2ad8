package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewAppointmentEvent(t *testing.T) {
	at := time.Date(2024, 3, 4, 9, 15, 0, 0, time.FixedZone("x", 3600))
	a := Appointment{
		ID:              3,
		DoctorID:        7,
		PatientID:       42,
		AppointmentDate: time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC),
		AppointmentTime: "09:30 AM",
		Status:          AppointmentStatusCancelled,
	}

	event := NewAppointmentEvent(AppointmentEventStatusChanged, a, AppointmentStatusScheduled, Actor{UserID: 42, Role: UserRolePatient}, at)

	assert.Equal(t, "2024-03-04", event.AppointmentDate)
	assert.Equal(t, AppointmentStatusScheduled, event.PreviousStatus)
	assert.Equal(t, AppointmentStatusCancelled, event.Status)
	assert.Equal(t, UserRolePatient, event.ActorRole)
	assert.Equal(t, time.UTC, event.OccurredAt.Location())
	assert.Equal(t, []int64{7, 42}, event.Recipients())
}

func TestRecipientsDeduplicates(t *testing.T) {
	assert.Equal(t, []int64{7}, AppointmentEvent{DoctorID: 7, PatientID: 7}.Recipients())
}
