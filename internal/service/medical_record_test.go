package service

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"medcare/internal/domain"
	"medcare/pkg/metrics"
)

func setupMedicalRecordService() (*MedicalRecordServiceImpl, *MockMedicalRecordRepository, *MockAppointmentRepository, *metrics.Metrics) {
	repo := &MockMedicalRecordRepository{}
	appointments := &MockAppointmentRepository{}
	m := newTestMetrics()
	svc := NewMedicalRecordService(repo, appointments, m, &recordingNotifier{}, zap.NewNop(), func() time.Time { return testNow })
	return svc, repo, appointments, m
}

func recordDTO(diagnosis string) domain.CreateMedicalRecordDTO {
	return domain.CreateMedicalRecordDTO{
		PatientID:     42,
		AppointmentID: 3,
		MedicalRecordContent: domain.MedicalRecordContent{
			Diagnosis: diagnosis,
			Symptoms:  []string{" cough ", ""},
			Prescription: []domain.Prescription{
				{Medicine: "Amoxicillin", Dosage: "500mg", Frequency: "3x daily", Duration: "7 days"},
				{Medicine: "", Dosage: "1 tab"},
			},
		},
	}
}

func visit(status domain.AppointmentStatus) *domain.Appointment {
	return &domain.Appointment{ID: 3, DoctorID: 7, PatientID: 42, AppointmentTime: "09:00 AM", Status: status}
}

func TestCreateRecordRequiresDiagnosis(t *testing.T) {
	svc, repo, appointments, _ := setupMedicalRecordService()

	_, err := svc.Create(context.Background(), doctorActor, recordDTO("   "))
	require.ErrorIs(t, err, domain.ErrValidation)

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "diagnosis", verr.Fields[0].Field)

	appointments.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateRecordCompletesVisit(t *testing.T) {
	tests := []struct {
		name        string
		status      domain.AppointmentStatus
		transitions float64
	}{
		{"scheduled visit is confirmed then completed", domain.AppointmentStatusScheduled, 1},
		{"confirmed visit is completed", domain.AppointmentStatusConfirmed, 1},
		{"completed visit is overwritten", domain.AppointmentStatusCompleted, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, appointments, m := setupMedicalRecordService()
			appointments.On("GetByID", mock.Anything, int64(3)).Return(visit(tt.status), nil)
			repo.On("Save", mock.Anything, mock.MatchedBy(func(r domain.MedicalRecord) bool {
				return r.AppointmentID == 3 && r.DoctorID == 7 && r.PatientID == 42 &&
					r.Diagnosis == "Bronchitis" &&
					assert.ObjectsAreEqual([]string{"cough"}, r.Symptoms) &&
					len(r.Prescription) == 1
			}), tt.status, domain.AppointmentStatusCompleted).Return(int64(9), nil)
			repo.On("GetByID", mock.Anything, int64(9)).Return(&domain.MedicalRecord{ID: 9, AppointmentID: 3}, nil)

			record, err := svc.Create(context.Background(), doctorActor, recordDTO(" Bronchitis "))
			require.NoError(t, err)

			assert.Equal(t, int64(9), record.ID)
			assert.Equal(t, 1.0, testutil.ToFloat64(m.MedicalRecordsSaved))
			assert.Equal(t, tt.transitions, testutil.ToFloat64(m.StatusTransitions.WithLabelValues(string(tt.status), "completed")))
			repo.AssertExpectations(t)

			events := notified(svc.notifier)
			require.Len(t, events, 1)
			assert.Equal(t, domain.AppointmentEventRecordSaved, events[0].Type)
			assert.Equal(t, domain.AppointmentStatusCompleted, events[0].Status)
		})
	}
}

func TestCreateRecordRejectsClosedVisit(t *testing.T) {
	for _, status := range []domain.AppointmentStatus{domain.AppointmentStatusCancelled, domain.AppointmentStatusNoShow} {
		t.Run(string(status), func(t *testing.T) {
			svc, repo, appointments, _ := setupMedicalRecordService()
			appointments.On("GetByID", mock.Anything, int64(3)).Return(visit(status), nil)

			_, err := svc.Create(context.Background(), doctorActor, recordDTO("Flu"))
			assert.ErrorIs(t, err, domain.ErrInvalidTransition)
			repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestCreateRecordAccess(t *testing.T) {
	t.Run("patient cannot write records", func(t *testing.T) {
		svc, _, appointments, _ := setupMedicalRecordService()

		_, err := svc.Create(context.Background(), patientActor, recordDTO("Flu"))
		assert.ErrorIs(t, err, domain.ErrForbidden)
		appointments.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})

	t.Run("other doctor", func(t *testing.T) {
		svc, _, appointments, _ := setupMedicalRecordService()
		appointments.On("GetByID", mock.Anything, int64(3)).Return(visit(domain.AppointmentStatusConfirmed), nil)

		_, err := svc.Create(context.Background(), domain.Actor{UserID: 8, Role: domain.UserRoleDoctor}, recordDTO("Flu"))
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("patient mismatch", func(t *testing.T) {
		svc, _, appointments, _ := setupMedicalRecordService()
		appointments.On("GetByID", mock.Anything, int64(3)).Return(visit(domain.AppointmentStatusConfirmed), nil)

		dto := recordDTO("Flu")
		dto.PatientID = 43
		_, err := svc.Create(context.Background(), doctorActor, dto)
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("unknown appointment", func(t *testing.T) {
		svc, _, appointments, _ := setupMedicalRecordService()
		appointments.On("GetByID", mock.Anything, int64(3)).Return(nil, domain.ErrNotFound)

		_, err := svc.Create(context.Background(), doctorActor, recordDTO("Flu"))
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestUpdateRecord(t *testing.T) {
	svc, repo, _, _ := setupMedicalRecordService()
	repo.On("GetByID", mock.Anything, int64(9)).Return(&domain.MedicalRecord{ID: 9, DoctorID: 7}, nil)
	repo.On("Update", mock.Anything, int64(9), mock.MatchedBy(func(c domain.MedicalRecordContent) bool {
		return c.Diagnosis == "Asthma"
	})).Return(nil)

	_, err := svc.Update(context.Background(), doctorActor, 9, domain.UpdateMedicalRecordDTO{
		MedicalRecordContent: domain.MedicalRecordContent{Diagnosis: "Asthma"},
	})
	require.NoError(t, err)
	repo.AssertExpectations(t)

	_, err = svc.Update(context.Background(), domain.Actor{UserID: 8, Role: domain.UserRoleDoctor}, 9, domain.UpdateMedicalRecordDTO{
		MedicalRecordContent: domain.MedicalRecordContent{Diagnosis: "Asthma"},
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestGetRecordAccess(t *testing.T) {
	svc, repo, _, _ := setupMedicalRecordService()
	repo.On("GetByID", mock.Anything, int64(9)).Return(&domain.MedicalRecord{ID: 9, DoctorID: 7, PatientID: 42}, nil)

	tests := []struct {
		actor   domain.Actor
		allowed bool
	}{
		{doctorActor, true},
		{patientActor, true},
		{domain.Actor{UserID: 1, Role: domain.UserRoleAdmin}, true},
		{domain.Actor{UserID: 8, Role: domain.UserRoleDoctor}, false},
		{domain.Actor{UserID: 43, Role: domain.UserRolePatient}, false},
	}

	for _, tt := range tests {
		_, err := svc.GetByID(context.Background(), tt.actor, 9)
		if tt.allowed {
			assert.NoError(t, err, tt.actor)
		} else {
			assert.ErrorIs(t, err, domain.ErrForbidden, tt.actor)
		}
	}
}
