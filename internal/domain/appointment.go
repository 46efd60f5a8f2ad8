package domain

import (
	"time"
)

const DateLayout = "2006-01-02"

type AppointmentStatus string

const (
	AppointmentStatusScheduled AppointmentStatus = "scheduled"
	AppointmentStatusConfirmed AppointmentStatus = "confirmed"
	AppointmentStatusCompleted AppointmentStatus = "completed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
	AppointmentStatusNoShow    AppointmentStatus = "no-show"
)

func (s AppointmentStatus) IsValid() bool {
	switch s {
	case AppointmentStatusScheduled, AppointmentStatusConfirmed, AppointmentStatusCompleted,
		AppointmentStatusCancelled, AppointmentStatusNoShow:
		return true
	}
	return false
}

func (s AppointmentStatus) IsTerminal() bool {
	return s == AppointmentStatusCompleted || s == AppointmentStatusCancelled || s == AppointmentStatusNoShow
}

type Appointment struct {
	ID              int64             `json:"_id"`
	DoctorID        int64             `json:"doctorId"`
	PatientID       int64             `json:"patientId"`
	AppointmentDate time.Time         `json:"appointmentDate"`
	AppointmentTime string            `json:"appointmentTime"`
	Status          AppointmentStatus `json:"status"`
	Reason          string            `json:"reason"`
	CreatedAt       time.Time         `json:"createdAt"`
	UpdatedAt       time.Time         `json:"updatedAt"`
	DoctorName      string            `json:"doctorName,omitempty"`
	Specialization  string            `json:"specialization,omitempty"`
	PatientName     string            `json:"patientName,omitempty"`
	PatientPhone    string            `json:"patientPhone,omitempty"`
	HasRecord       bool              `json:"hasRecord"`
}

type CreateAppointmentDTO struct {
	DoctorID        int64  `json:"doctorId" binding:"required,min=1"`
	AppointmentDate string `json:"appointmentDate" binding:"required,datetime=2006-01-02"`
	AppointmentTime string `json:"appointmentTime" binding:"required"`
	Reason          string `json:"reason" binding:"required,max=500"`
}

type UpdateStatusDTO struct {
	Status AppointmentStatus `json:"status" binding:"required"`
}

type AppointmentFilter struct {
	DoctorID  *int64             `json:"doctorId"`
	PatientID *int64             `json:"patientId"`
	Status    *AppointmentStatus `json:"status"`
	StartDate *time.Time         `json:"startDate"`
	EndDate   *time.Time         `json:"endDate"`
	Limit     int                `json:"limit"`
	Offset    int                `json:"offset"`
}

// DaySlots is what a patient sees when picking a time for a doctor.
type DaySlots struct {
	DoctorID  int64  `json:"doctorId"`
	Date      string `json:"date"`
	Working   bool   `json:"working"`
	Accepting bool   `json:"acceptingAppointments"`
	// CapacityReached is set when the doctor's daily limit is used up.
	CapacityReached bool           `json:"capacityReached"`
	Window          *WorkingWindow `json:"window,omitempty"`
	AvailableSlots  []string       `json:"availableSlots"`
}

// ActiveCount counts appointments that still hold a slot.
func ActiveCount(appointments []Appointment) int {
	n := 0
	for _, a := range appointments {
		if a.Status != AppointmentStatusCancelled {
			n++
		}
	}
	return n
}

func ParseDate(value string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, value, time.UTC)
}

func PointerTo[T any](v T) *T {
	return &v
}
