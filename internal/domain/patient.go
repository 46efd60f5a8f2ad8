package domain

import (
	"time"
)

type EmergencyContact struct {
	Name     string `json:"name" validate:"omitempty,max=100"`
	Phone    string `json:"phone" validate:"omitempty,numeric,len=10"`
	Relation string `json:"relation" validate:"omitempty,max=50"`
}

type PatientProfile struct {
	BloodGroup       string           `json:"bloodGroup,omitempty"`
	Allergies        []string         `json:"allergies"`
	MedicalHistory   string           `json:"medicalHistory,omitempty"`
	EmergencyContact EmergencyContact `json:"emergencyContact"`
}

// Patient shares its ID with the owning user account.
type Patient struct {
	ID           int64      `json:"_id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	Phone        string     `json:"phone"`
	Address      string     `json:"address,omitempty"`
	DateOfBirth  *time.Time `json:"dateOfBirth,omitempty"`
	Gender       string     `json:"gender,omitempty"`
	ProfileImage string     `json:"profileImage,omitempty"`
	IsActive     bool       `json:"isActive"`
	PatientProfile
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type UpdatePatientDTO struct {
	Name             *string           `json:"name" binding:"omitempty,min=2,max=100"`
	Phone            *string           `json:"phone" binding:"omitempty,numeric,len=10"`
	Address          *string           `json:"address"`
	DateOfBirth      *string           `json:"dateOfBirth" binding:"omitempty,datetime=2006-01-02"`
	Gender           *string           `json:"gender" binding:"omitempty,oneof=male female other"`
	BloodGroup       *string           `json:"bloodGroup" binding:"omitempty,oneof=A+ A- B+ B- AB+ AB- O+ O-"`
	Allergies        *[]string         `json:"allergies"`
	MedicalHistory   *string           `json:"medicalHistory"`
	EmergencyContact *EmergencyContact `json:"emergencyContact"`
}

type PatientFilter struct {
	Search *string `json:"search"`
	Limit  int     `json:"limit"`
	Offset int     `json:"offset"`
}
