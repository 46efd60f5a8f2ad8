package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fieldsOf(t *testing.T, err error) []string {
	t.Helper()

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)

	fields := make([]string, 0, len(verr.Fields))
	for _, f := range verr.Fields {
		fields = append(fields, f.Field)
	}
	return fields
}

func TestRegisterRequestParsePatient(t *testing.T) {
	req := RegisterRequest{
		Role:        UserRolePatient,
		Name:        " Jane Doe ",
		Email:       "Jane@Example.com",
		Password:    "secret1",
		Phone:       "(555) 123-4567",
		DateOfBirth: "1990-05-01",
		Gender:      "Female",
		BloodGroup:  "o+",
		Allergies:   []string{"penicillin", " "},
		EmergencyContact: &EmergencyContact{
			Name:     "John Doe",
			Phone:    "555 765 4321",
			Relation: "spouse",
		},
	}

	reg, err := req.Parse()
	require.NoError(t, err)
	require.Equal(t, UserRolePatient, reg.Role())

	patient, ok := reg.(*PatientRegistration)
	require.True(t, ok)
	assert.Equal(t, "Jane Doe", patient.Name)
	assert.Equal(t, "jane@example.com", patient.Email)
	assert.Equal(t, "5551234567", patient.Phone)
	assert.Equal(t, "female", patient.Gender)
	require.NotNil(t, patient.BirthDate())
	assert.Equal(t, 1990, patient.BirthDate().Year())

	profile := patient.Profile()
	assert.Equal(t, "O+", profile.BloodGroup)
	assert.Equal(t, []string{"penicillin"}, profile.Allergies)
	assert.Equal(t, "5557654321", profile.EmergencyContact.Phone)
}

func TestRegisterRequestParseDoctor(t *testing.T) {
	req := RegisterRequest{
		Role:            UserRoleDoctor,
		Name:            "Gregory House",
		Email:           "house@example.com",
		Password:        "vicodin",
		Phone:           "5550001111",
		Specialization:  "Diagnostics",
		LicenseNumber:   "LIC-42",
		Experience:      PointerTo(20),
		ConsultationFee: PointerTo(150.0),
		Department:      "Internal Medicine",
	}

	reg, err := req.Parse()
	require.NoError(t, err)

	doctor, ok := reg.(*DoctorRegistration)
	require.True(t, ok)
	profile := doctor.Profile()
	assert.Equal(t, 20, profile.Experience)
	assert.Equal(t, 150.0, profile.ConsultationFee)
	assert.True(t, profile.IsAvailable)
	assert.Equal(t, DefaultMaxPatientsPerDay, profile.MaxPatientsPerDay)
}

func TestRegisterRequestParseDoctorRequiresProfessionalFields(t *testing.T) {
	req := RegisterRequest{
		Role:     UserRoleDoctor,
		Name:     "Gregory House",
		Email:    "house@example.com",
		Password: "vicodin",
		Phone:    "5550001111",
	}

	_, err := req.Parse()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)

	fields := fieldsOf(t, err)
	assert.ElementsMatch(t, []string{"specialization", "licenseNumber", "experience", "consultationFee", "department"}, fields)
}

func TestRegisterRequestParseAccountFields(t *testing.T) {
	req := RegisterRequest{
		Role:        UserRolePatient,
		Name:        "J",
		Email:       "not-an-email",
		Password:    "123",
		Phone:       "12345",
		DateOfBirth: "01/05/1990",
	}

	_, err := req.Parse()
	require.Error(t, err)

	fields := fieldsOf(t, err)
	assert.ElementsMatch(t, []string{"name", "email", "password", "phone", "dateOfBirth"}, fields)
}

func TestRegisterRequestParseRejectsOtherRoles(t *testing.T) {
	for _, role := range []UserRole{UserRoleAdmin, "", "nurse"} {
		_, err := RegisterRequest{Role: role, Name: "Admin", Email: "a@example.com", Password: "secret1", Phone: "5550001111"}.Parse()
		require.Error(t, err, role)
		assert.Equal(t, []string{"role"}, fieldsOf(t, err))
	}
}

func TestRegisterRequestParseMaxPatientsPerDayBounds(t *testing.T) {
	req := RegisterRequest{
		Role:              UserRoleDoctor,
		Name:              "Lisa Cuddy",
		Email:             "cuddy@example.com",
		Password:          "secret1",
		Phone:             "5550002222",
		Specialization:    "Endocrinology",
		LicenseNumber:     "LIC-7",
		Experience:        PointerTo(15),
		ConsultationFee:   PointerTo(90.0),
		Department:        "Administration",
		MaxPatientsPerDay: PointerTo(51),
	}

	_, err := req.Parse()
	require.Error(t, err)
	assert.Equal(t, []string{"maxPatientsPerDay"}, fieldsOf(t, err))
}
