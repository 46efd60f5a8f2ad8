package domain

import (
	"time"
)

type DashboardStats struct {
	TodayAppointments   int `json:"todayAppointments"`
	CompletedToday      int `json:"completedToday"`
	PendingAppointments int `json:"pendingAppointments"`
	TotalPatients       int `json:"totalPatients"`
}

// ComputeDashboardStats summarizes a doctor's appointments; pending counts
// visits that are still scheduled or confirmed.
func ComputeDashboardStats(appointments []Appointment, today time.Time) DashboardStats {
	var stats DashboardStats
	patients := make(map[int64]struct{})

	for _, a := range appointments {
		patients[a.PatientID] = struct{}{}

		if SameDay(a.AppointmentDate, today) {
			stats.TodayAppointments++
			if a.Status == AppointmentStatusCompleted {
				stats.CompletedToday++
			}
		}

		if !a.Status.IsTerminal() {
			stats.PendingAppointments++
		}
	}

	stats.TotalPatients = len(patients)
	return stats
}
