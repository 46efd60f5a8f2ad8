package domain

import (
	"strings"
	"time"

	"medcare/pkg/validator"
)

// RegisterRequest is the wire shape of the sign-up form. It carries the
// union of patient and doctor fields and is narrowed by Parse.
type RegisterRequest struct {
	Role        UserRole `json:"role"`
	Name        string   `json:"name"`
	Email       string   `json:"email"`
	Password    string   `json:"password"`
	Phone       string   `json:"phone"`
	Address     string   `json:"address"`
	DateOfBirth string   `json:"dateOfBirth"`
	Gender      string   `json:"gender"`

	Specialization    string   `json:"specialization,omitempty"`
	LicenseNumber     string   `json:"licenseNumber,omitempty"`
	Experience        *int     `json:"experience,omitempty"`
	ConsultationFee   *float64 `json:"consultationFee,omitempty"`
	Department        string   `json:"department,omitempty"`
	Qualifications    string   `json:"qualifications,omitempty"`
	RoomNumber        string   `json:"roomNumber,omitempty"`
	MaxPatientsPerDay *int     `json:"maxPatientsPerDay,omitempty"`

	BloodGroup       string            `json:"bloodGroup,omitempty"`
	Allergies        []string          `json:"allergies,omitempty"`
	EmergencyContact *EmergencyContact `json:"emergencyContact,omitempty"`
}

type AccountFields struct {
	Name        string `json:"name" validate:"required,min=2,max=100"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=6,max=72"`
	Phone       string `json:"phone" validate:"required,numeric,len=10"`
	Address     string `json:"address" validate:"max=255"`
	DateOfBirth string `json:"dateOfBirth" validate:"omitempty,datetime=2006-01-02"`
	Gender      string `json:"gender" validate:"omitempty,oneof=male female other"`
}

func (a AccountFields) BirthDate() *time.Time {
	if a.DateOfBirth == "" {
		return nil
	}
	t, err := ParseDate(a.DateOfBirth)
	if err != nil {
		return nil
	}
	return &t
}

// Registration is either a *PatientRegistration or a *DoctorRegistration.
type Registration interface {
	Role() UserRole
	Account() AccountFields
}

type PatientRegistration struct {
	AccountFields
	BloodGroup       string           `json:"bloodGroup" validate:"omitempty,oneof=A+ A- B+ B- AB+ AB- O+ O-"`
	Allergies        []string         `json:"allergies"`
	EmergencyContact EmergencyContact `json:"emergencyContact"`
}

func (r *PatientRegistration) Role() UserRole         { return UserRolePatient }
func (r *PatientRegistration) Account() AccountFields { return r.AccountFields }

func (r *PatientRegistration) Profile() PatientProfile {
	return PatientProfile{
		BloodGroup:       r.BloodGroup,
		Allergies:        compactStrings(r.Allergies),
		EmergencyContact: r.EmergencyContact,
	}
}

type DoctorRegistration struct {
	AccountFields
	Specialization    string   `json:"specialization" validate:"required,min=2,max=100"`
	LicenseNumber     string   `json:"licenseNumber" validate:"required,min=2,max=50"`
	Experience        *int     `json:"experience" validate:"required,gte=0,lte=70"`
	ConsultationFee   *float64 `json:"consultationFee" validate:"required,gte=0"`
	Department        string   `json:"department" validate:"required,max=100"`
	Qualifications    string   `json:"qualifications" validate:"max=255"`
	RoomNumber        string   `json:"roomNumber" validate:"max=20"`
	MaxPatientsPerDay int      `json:"maxPatientsPerDay" validate:"gte=1,lte=50"`
}

func (r *DoctorRegistration) Role() UserRole         { return UserRoleDoctor }
func (r *DoctorRegistration) Account() AccountFields { return r.AccountFields }

func (r *DoctorRegistration) Profile() DoctorProfile {
	profile := DoctorProfile{
		Specialization:    r.Specialization,
		LicenseNumber:     r.LicenseNumber,
		Department:        r.Department,
		Qualifications:    r.Qualifications,
		RoomNumber:        r.RoomNumber,
		IsAvailable:       true,
		MaxPatientsPerDay: r.MaxPatientsPerDay,
	}
	if r.Experience != nil {
		profile.Experience = *r.Experience
	}
	if r.ConsultationFee != nil {
		profile.ConsultationFee = *r.ConsultationFee
	}
	return profile
}

// Parse narrows the request to the schema of its role and validates it.
// Admin accounts cannot be self-registered.
func (r RegisterRequest) Parse() (Registration, error) {
	account := AccountFields{
		Name:        strings.TrimSpace(r.Name),
		Email:       strings.ToLower(strings.TrimSpace(r.Email)),
		Password:    r.Password,
		Phone:       validator.FormatPhone(r.Phone),
		Address:     strings.TrimSpace(r.Address),
		DateOfBirth: strings.TrimSpace(r.DateOfBirth),
		Gender:      strings.ToLower(strings.TrimSpace(r.Gender)),
	}

	var reg Registration
	switch r.Role {
	case UserRolePatient:
		p := &PatientRegistration{
			AccountFields: account,
			BloodGroup:    strings.ToUpper(strings.TrimSpace(r.BloodGroup)),
			Allergies:     r.Allergies,
		}
		if r.EmergencyContact != nil {
			p.EmergencyContact = *r.EmergencyContact
			p.EmergencyContact.Phone = validator.FormatPhone(p.EmergencyContact.Phone)
		}
		reg = p
	case UserRoleDoctor:
		d := &DoctorRegistration{
			AccountFields:     account,
			Specialization:    strings.TrimSpace(r.Specialization),
			LicenseNumber:     strings.TrimSpace(r.LicenseNumber),
			Experience:        r.Experience,
			ConsultationFee:   r.ConsultationFee,
			Department:        strings.TrimSpace(r.Department),
			Qualifications:    strings.TrimSpace(r.Qualifications),
			RoomNumber:        strings.TrimSpace(r.RoomNumber),
			MaxPatientsPerDay: DefaultMaxPatientsPerDay,
		}
		if r.MaxPatientsPerDay != nil {
			d.MaxPatientsPerDay = *r.MaxPatientsPerDay
		}
		reg = d
	default:
		return nil, NewValidationError("role", "must be one of: patient doctor")
	}

	if err := validateStruct(reg); err != nil {
		return nil, err
	}

	return reg, nil
}

func validateStruct(v interface{}) error {
	violations, err := validator.Struct(v)
	if err != nil {
		return err
	}

	verr := &ValidationError{}
	for _, violation := range violations {
		verr.Add(violation.Field, violation.Message)
	}
	return verr.OrNil()
}
