package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestComputeDashboardStats(t *testing.T) {
	today := time.Date(2024, time.March, 4, 15, 0, 0, 0, time.UTC)
	yesterday := today.AddDate(0, 0, -1)
	tomorrow := today.AddDate(0, 0, 1)

	appointments := []Appointment{
		{PatientID: 1, AppointmentDate: today, Status: AppointmentStatusCompleted},
		{PatientID: 2, AppointmentDate: today, Status: AppointmentStatusConfirmed},
		{PatientID: 1, AppointmentDate: today, Status: AppointmentStatusCancelled},
		{PatientID: 3, AppointmentDate: tomorrow, Status: AppointmentStatusScheduled},
		{PatientID: 4, AppointmentDate: yesterday, Status: AppointmentStatusNoShow},
	}

	stats := ComputeDashboardStats(appointments, today)
	assert.Equal(t, DashboardStats{
		TodayAppointments:   3,
		CompletedToday:      1,
		PendingAppointments: 2,
		TotalPatients:       4,
	}, stats)
}

func TestComputeDashboardStatsEmpty(t *testing.T) {
	assert.Equal(t, DashboardStats{}, ComputeDashboardStats(nil, time.Now()))
}
