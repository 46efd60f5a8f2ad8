package domain

import (
	"strings"
	"time"
)

type Prescription struct {
	Medicine  string `json:"medicine"`
	Dosage    string `json:"dosage"`
	Frequency string `json:"frequency"`
	Duration  string `json:"duration"`
}

type MedicalRecord struct {
	ID               int64          `json:"_id"`
	PatientID        int64          `json:"patientId"`
	DoctorID         int64          `json:"doctorId"`
	AppointmentID    int64          `json:"appointmentId"`
	Diagnosis        string         `json:"diagnosis"`
	Symptoms         []string       `json:"symptoms"`
	Prescription     []Prescription `json:"prescription"`
	TestsRecommended []string       `json:"testsRecommended"`
	Notes            string         `json:"notes"`
	CreatedAt        time.Time      `json:"createdAt"`
	UpdatedAt        time.Time      `json:"updatedAt"`
	DoctorName       string         `json:"doctorName,omitempty"`
	PatientName      string         `json:"patientName,omitempty"`
	AppointmentDate  *time.Time     `json:"appointmentDate,omitempty"`
}

// MedicalRecordContent is the clinical part of a record, shared by create and update.
type MedicalRecordContent struct {
	Diagnosis        string         `json:"diagnosis"`
	Symptoms         []string       `json:"symptoms"`
	Prescription     []Prescription `json:"prescription"`
	TestsRecommended []string       `json:"testsRecommended"`
	Notes            string         `json:"notes"`
}

type CreateMedicalRecordDTO struct {
	PatientID     int64 `json:"patientId" binding:"required,min=1"`
	AppointmentID int64 `json:"appointmentId" binding:"required,min=1"`
	MedicalRecordContent
}

type UpdateMedicalRecordDTO struct {
	MedicalRecordContent
}

type MedicalRecordFilter struct {
	DoctorID  *int64 `json:"doctorId"`
	PatientID *int64 `json:"patientId"`
	Limit     int    `json:"limit"`
	Offset    int    `json:"offset"`
}

// Normalize trims every field, drops blank list entries and prescriptions
// without a medicine or dosage, and fails when no diagnosis is left.
func (c MedicalRecordContent) Normalize() (MedicalRecordContent, error) {
	out := MedicalRecordContent{
		Diagnosis:        strings.TrimSpace(c.Diagnosis),
		Symptoms:         compactStrings(c.Symptoms),
		TestsRecommended: compactStrings(c.TestsRecommended),
		Prescription:     make([]Prescription, 0, len(c.Prescription)),
		Notes:            strings.TrimSpace(c.Notes),
	}

	for _, p := range c.Prescription {
		p = Prescription{
			Medicine:  strings.TrimSpace(p.Medicine),
			Dosage:    strings.TrimSpace(p.Dosage),
			Frequency: strings.TrimSpace(p.Frequency),
			Duration:  strings.TrimSpace(p.Duration),
		}
		if p.Medicine == "" || p.Dosage == "" {
			continue
		}
		out.Prescription = append(out.Prescription, p)
	}

	if out.Diagnosis == "" {
		return out, NewValidationError("diagnosis", "diagnosis is required")
	}

	return out, nil
}

func compactStrings(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
