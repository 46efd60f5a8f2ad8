package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"medcare/internal/domain"
	"medcare/internal/repository"
	"medcare/pkg/validator"
)

type PatientServiceImpl struct {
	repo   repository.PatientRepository
	logger *zap.Logger
}

func NewPatientService(repo repository.PatientRepository, logger *zap.Logger) *PatientServiceImpl {
	return &PatientServiceImpl{
		repo:   repo,
		logger: logger,
	}
}

func (s *PatientServiceImpl) GetByID(ctx context.Context, id int64) (*domain.Patient, error) {
	patient, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.logger.Error("failed to get patient", zap.Int64("patientId", id), zap.Error(err))
		}
		return nil, err
	}
	return patient, nil
}

func (s *PatientServiceImpl) Update(ctx context.Context, id int64, dto domain.UpdatePatientDTO) (*domain.Patient, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, err
	}

	if dto.Name != nil {
		dto.Name = domain.PointerTo(strings.TrimSpace(*dto.Name))
	}
	if dto.Allergies != nil {
		allergies := make([]string, 0, len(*dto.Allergies))
		for _, a := range *dto.Allergies {
			if a = strings.TrimSpace(a); a != "" {
				allergies = append(allergies, a)
			}
		}
		dto.Allergies = &allergies
	}
	if dto.EmergencyContact != nil {
		contact := *dto.EmergencyContact
		contact.Name = strings.TrimSpace(contact.Name)
		contact.Phone = validator.FormatPhone(contact.Phone)
		contact.Relation = strings.TrimSpace(contact.Relation)
		if contact.Phone != "" && !validator.ValidatePhone(contact.Phone) {
			return nil, domain.NewValidationError("emergencyContact.phone", "must be a 10 digit phone number")
		}
		dto.EmergencyContact = &contact
	}

	if err := s.repo.Update(ctx, id, dto); err != nil {
		if !errors.Is(err, domain.ErrValidation) {
			s.logger.Error("failed to update patient", zap.Int64("patientId", id), zap.Error(err))
		}
		return nil, err
	}

	return s.repo.GetByID(ctx, id)
}

func (s *PatientServiceImpl) List(ctx context.Context, filter domain.PatientFilter) ([]domain.Patient, int, error) {
	patients, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error("failed to list patients", zap.Error(err))
		return nil, 0, err
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		s.logger.Error("failed to count patients", zap.Error(err))
		return nil, 0, err
	}

	return patients, total, nil
}
