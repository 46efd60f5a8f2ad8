package domain

import "time"

type AppointmentEventType string

const (
	AppointmentEventBooked        AppointmentEventType = "appointment.booked"
	AppointmentEventStatusChanged AppointmentEventType = "appointment.status_changed"
	AppointmentEventRecordSaved   AppointmentEventType = "medical_record.saved"
)

// AppointmentEvent is pushed to the doctor and the patient of an appointment
// after a change has been committed.
type AppointmentEvent struct {
	Type            AppointmentEventType `json:"type"`
	AppointmentID   int64                `json:"appointmentId"`
	DoctorID        int64                `json:"doctorId"`
	PatientID       int64                `json:"patientId"`
	PreviousStatus  AppointmentStatus    `json:"previousStatus,omitempty"`
	Status          AppointmentStatus    `json:"status"`
	AppointmentDate string               `json:"appointmentDate"`
	AppointmentTime string               `json:"appointmentTime"`
	ActorRole       UserRole             `json:"actorRole"`
	OccurredAt      time.Time            `json:"occurredAt"`
}

func NewAppointmentEvent(typ AppointmentEventType, a Appointment, previous AppointmentStatus, actor Actor, at time.Time) AppointmentEvent {
	return AppointmentEvent{
		Type:            typ,
		AppointmentID:   a.ID,
		DoctorID:        a.DoctorID,
		PatientID:       a.PatientID,
		PreviousStatus:  previous,
		Status:          a.Status,
		AppointmentDate: a.AppointmentDate.UTC().Format(DateLayout),
		AppointmentTime: a.AppointmentTime,
		ActorRole:       actor.Role,
		OccurredAt:      at.UTC(),
	}
}

func (e AppointmentEvent) Recipients() []int64 {
	if e.DoctorID == e.PatientID {
		return []int64{e.DoctorID}
	}
	return []int64{e.DoctorID, e.PatientID}
}
