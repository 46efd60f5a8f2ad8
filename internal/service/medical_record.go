package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"medcare/internal/domain"
	"medcare/internal/repository"
	"medcare/pkg/metrics"
)

type MedicalRecordServiceImpl struct {
	repo            repository.MedicalRecordRepository
	appointmentRepo repository.AppointmentRepository
	metrics         *metrics.Metrics
	notifier        Notifier
	logger          *zap.Logger
	now             func() time.Time
}

func NewMedicalRecordService(
	repo repository.MedicalRecordRepository,
	appointmentRepo repository.AppointmentRepository,
	metrics *metrics.Metrics,
	notifier Notifier,
	logger *zap.Logger,
	now func() time.Time,
) *MedicalRecordServiceImpl {
	return &MedicalRecordServiceImpl{
		repo:            repo,
		appointmentRepo: appointmentRepo,
		metrics:         metrics,
		notifier:        notifier,
		logger:          logger,
		now:             now,
	}
}

// Create completes the appointment if needed and stores the record for it.
// Saving again for the same appointment replaces the clinical content.
func (s *MedicalRecordServiceImpl) Create(ctx context.Context, actor domain.Actor, dto domain.CreateMedicalRecordDTO) (*domain.MedicalRecord, error) {
	content, err := dto.MedicalRecordContent.Normalize()
	if err != nil {
		return nil, err
	}

	if !actor.Is(domain.UserRoleDoctor) {
		return nil, domain.ErrForbidden
	}

	appointment, err := s.appointmentRepo.GetByID(ctx, dto.AppointmentID)
	if err != nil {
		return nil, err
	}
	if appointment.DoctorID != actor.UserID {
		return nil, domain.ErrForbidden
	}
	if appointment.PatientID != dto.PatientID {
		return nil, domain.NewValidationError("patientId", "does not match the appointment")
	}

	completed, err := domain.PrepareForRecord(*appointment, actor.Role)
	if err != nil {
		return nil, err
	}

	record := domain.MedicalRecord{
		PatientID:        appointment.PatientID,
		DoctorID:         appointment.DoctorID,
		AppointmentID:    appointment.ID,
		Diagnosis:        content.Diagnosis,
		Symptoms:         content.Symptoms,
		Prescription:     content.Prescription,
		TestsRecommended: content.TestsRecommended,
		Notes:            content.Notes,
	}

	id, err := s.repo.Save(ctx, record, appointment.Status, completed.Status)
	if err != nil {
		if !errors.Is(err, domain.ErrConcurrentUpdate) {
			s.logger.Error("failed to save medical record", zap.Int64("appointmentId", appointment.ID), zap.Error(err))
		}
		return nil, err
	}

	if appointment.Status != completed.Status {
		s.metrics.StatusTransitions.WithLabelValues(string(appointment.Status), string(completed.Status)).Inc()
	}
	s.metrics.MedicalRecordsSaved.Inc()
	s.notifier.Notify(domain.NewAppointmentEvent(domain.AppointmentEventRecordSaved, completed, appointment.Status, actor, s.now()))

	return s.repo.GetByID(ctx, id)
}

func (s *MedicalRecordServiceImpl) Update(ctx context.Context, actor domain.Actor, id int64, dto domain.UpdateMedicalRecordDTO) (*domain.MedicalRecord, error) {
	content, err := dto.MedicalRecordContent.Normalize()
	if err != nil {
		return nil, err
	}

	if !actor.Is(domain.UserRoleDoctor) {
		return nil, domain.ErrForbidden
	}

	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing.DoctorID != actor.UserID {
		return nil, domain.ErrForbidden
	}

	if err := s.repo.Update(ctx, id, content); err != nil {
		s.logger.Error("failed to update medical record", zap.Int64("recordId", id), zap.Error(err))
		return nil, err
	}
	s.metrics.MedicalRecordsSaved.Inc()

	return s.repo.GetByID(ctx, id)
}

func (s *MedicalRecordServiceImpl) GetByID(ctx context.Context, actor domain.Actor, id int64) (*domain.MedicalRecord, error) {
	record, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.logger.Error("failed to get medical record", zap.Int64("recordId", id), zap.Error(err))
		}
		return nil, err
	}

	switch {
	case actor.Is(domain.UserRoleAdmin),
		actor.Is(domain.UserRoleDoctor) && record.DoctorID == actor.UserID,
		actor.Is(domain.UserRolePatient) && record.PatientID == actor.UserID:
		return record, nil
	}

	return nil, domain.ErrForbidden
}

func (s *MedicalRecordServiceImpl) List(ctx context.Context, filter domain.MedicalRecordFilter) ([]domain.MedicalRecord, int, error) {
	records, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error("failed to list medical records", zap.Error(err))
		return nil, 0, err
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		s.logger.Error("failed to count medical records", zap.Error(err))
		return nil, 0, err
	}

	return records, total, nil
}
