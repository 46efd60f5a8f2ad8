package domain

import (
	"time"
)

const (
	DefaultMaxPatientsPerDay = 20
	MaxPatientsPerDayLimit   = 50
)

type DoctorProfile struct {
	Specialization    string  `json:"specialization"`
	LicenseNumber     string  `json:"licenseNumber"`
	Experience        int     `json:"experience"`
	ConsultationFee   float64 `json:"consultationFee"`
	Department        string  `json:"department"`
	Qualifications    string  `json:"qualifications,omitempty"`
	RoomNumber        string  `json:"roomNumber,omitempty"`
	IsAvailable       bool    `json:"isAvailable"`
	MaxPatientsPerDay int     `json:"maxPatientsPerDay"`
}

// Doctor shares its ID with the owning user account.
type Doctor struct {
	ID           int64  `json:"_id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Gender       string `json:"gender,omitempty"`
	ProfileImage string `json:"profileImage,omitempty"`
	IsActive     bool   `json:"isActive"`
	DoctorProfile
	Availability []WeeklyAvailabilitySlot `json:"availability"`
	CreatedAt    time.Time                `json:"createdAt"`
	UpdatedAt    time.Time                `json:"updatedAt"`
}

// AcceptsBookings reports whether patients may book this doctor at all.
func (d *Doctor) AcceptsBookings() bool {
	return d.IsActive && d.IsAvailable
}

type UpdateDoctorDTO struct {
	Name              *string  `json:"name" binding:"omitempty,min=2,max=100"`
	Phone             *string  `json:"phone" binding:"omitempty,numeric,len=10"`
	Gender            *string  `json:"gender" binding:"omitempty,oneof=male female other"`
	Specialization    *string  `json:"specialization" binding:"omitempty,min=2"`
	LicenseNumber     *string  `json:"licenseNumber" binding:"omitempty,min=2"`
	Experience        *int     `json:"experience" binding:"omitempty,min=0,max=70"`
	ConsultationFee   *float64 `json:"consultationFee" binding:"omitempty,min=0"`
	Department        *string  `json:"department"`
	Qualifications    *string  `json:"qualifications"`
	RoomNumber        *string  `json:"roomNumber"`
	IsAvailable       *bool    `json:"isAvailable"`
	MaxPatientsPerDay *int     `json:"maxPatientsPerDay" binding:"omitempty,min=1,max=50"`
	IsActive          *bool    `json:"isActive"`
}

type UpdateAvailabilityDTO struct {
	Availability []WeeklyAvailabilitySlot `json:"availability" binding:"required,dive"`
}

type DoctorFilter struct {
	Specialization  *string `json:"specialization"`
	Department      *string `json:"department"`
	Search          *string `json:"search"`
	OnlyAvailable   bool    `json:"onlyAvailable"`
	IncludeInactive bool    `json:"includeInactive"`
	Limit           int     `json:"limit"`
	Offset          int     `json:"offset"`
}
