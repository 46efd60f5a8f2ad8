package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"medcare/internal/cache"
	"medcare/internal/domain"
	"medcare/internal/repository"
)

type DoctorServiceImpl struct {
	repo            repository.DoctorRepository
	userRepo        repository.UserRepository
	authRepo        repository.AuthRepository
	appointmentRepo repository.AppointmentRepository
	cache           *cache.Cache
	logger          *zap.Logger
	now             func() time.Time
}

func NewDoctorService(
	repo repository.DoctorRepository,
	userRepo repository.UserRepository,
	authRepo repository.AuthRepository,
	appointmentRepo repository.AppointmentRepository,
	cache *cache.Cache,
	logger *zap.Logger,
	now func() time.Time,
) *DoctorServiceImpl {
	return &DoctorServiceImpl{
		repo:            repo,
		userRepo:        userRepo,
		authRepo:        authRepo,
		appointmentRepo: appointmentRepo,
		cache:           cache,
		logger:          logger,
		now:             now,
	}
}

// Create is the admin path for adding a doctor with a password.
func (s *DoctorServiceImpl) Create(ctx context.Context, req domain.RegisterRequest) (int64, error) {
	req.Role = domain.UserRoleDoctor

	reg, err := req.Parse()
	if err != nil {
		return 0, err
	}

	return createAccount(ctx, reg, s.userRepo, s.repo, nil, s.logger)
}

func (s *DoctorServiceImpl) GetByID(ctx context.Context, id int64) (*domain.Doctor, error) {
	doctor, err := cache.Load(s.cache, cache.EntityDoctor, id, func() (domain.Doctor, error) {
		d, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return domain.Doctor{}, err
		}
		return *d, nil
	})
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.logger.Error("failed to get doctor", zap.Int64("doctorId", id), zap.Error(err))
		}
		return nil, err
	}

	return copyDoctor(doctor), nil
}

func (s *DoctorServiceImpl) GetPublic(ctx context.Context, id int64) (*domain.Doctor, error) {
	doctor, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !doctor.IsActive {
		return nil, domain.ErrNotFound
	}
	return doctor, nil
}

func (s *DoctorServiceImpl) List(ctx context.Context, filter domain.DoctorFilter) ([]domain.Doctor, int, error) {
	doctors, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error("failed to list doctors", zap.Error(err))
		return nil, 0, err
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		s.logger.Error("failed to count doctors", zap.Error(err))
		return nil, 0, err
	}

	return doctors, total, nil
}

func (s *DoctorServiceImpl) Update(ctx context.Context, id int64, dto domain.UpdateDoctorDTO) (*domain.Doctor, error) {
	if dto.MaxPatientsPerDay != nil && (*dto.MaxPatientsPerDay < 1 || *dto.MaxPatientsPerDay > domain.MaxPatientsPerDayLimit) {
		return nil, domain.NewValidationError("maxPatientsPerDay", "must be between 1 and 50")
	}

	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, id, dto); err != nil {
		s.logger.Error("failed to update doctor", zap.Int64("doctorId", id), zap.Error(err))
		return nil, err
	}
	s.invalidate(id)

	if dto.IsActive != nil && !*dto.IsActive {
		s.dropSessions(ctx, id)
	}

	return s.GetByID(ctx, id)
}

// Deactivate hides the doctor from patients and signs them out.
func (s *DoctorServiceImpl) Deactivate(ctx context.Context, id int64) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}

	if err := s.userRepo.SetActive(ctx, id, false); err != nil {
		s.logger.Error("failed to deactivate doctor", zap.Int64("doctorId", id), zap.Error(err))
		return err
	}
	s.invalidate(id)
	s.dropSessions(ctx, id)

	s.logger.Info("doctor deactivated", zap.Int64("doctorId", id))
	return nil
}

func (s *DoctorServiceImpl) GetAvailability(ctx context.Context, id int64) ([]domain.WeeklyAvailabilitySlot, error) {
	availability, err := cache.Load(s.cache, cache.EntityAvailability, id, func() ([]domain.WeeklyAvailabilitySlot, error) {
		return s.repo.GetAvailability(ctx, id)
	})
	if err != nil {
		s.logger.Error("failed to get availability", zap.Int64("doctorId", id), zap.Error(err))
		return nil, err
	}

	return append([]domain.WeeklyAvailabilitySlot{}, availability...), nil
}

func (s *DoctorServiceImpl) UpdateAvailability(ctx context.Context, id int64, availability []domain.WeeklyAvailabilitySlot) ([]domain.WeeklyAvailabilitySlot, error) {
	normalized, err := domain.NormalizeAvailability(availability)
	if err != nil {
		return nil, err
	}

	if err := s.repo.ReplaceAvailability(ctx, id, normalized); err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.logger.Error("failed to save availability", zap.Int64("doctorId", id), zap.Error(err))
		}
		return nil, err
	}
	s.invalidate(id)

	return normalized, nil
}

func (s *DoctorServiceImpl) Dashboard(ctx context.Context, id int64) (*domain.DashboardStats, error) {
	appointments, err := s.appointmentRepo.List(ctx, domain.AppointmentFilter{DoctorID: &id})
	if err != nil {
		s.logger.Error("failed to load doctor appointments", zap.Int64("doctorId", id), zap.Error(err))
		return nil, err
	}

	stats := domain.ComputeDashboardStats(appointments, s.now())
	return &stats, nil
}

func (s *DoctorServiceImpl) invalidate(id int64) {
	s.cache.Invalidate(cache.Key(cache.EntityDoctor, id), cache.Key(cache.EntityAvailability, id))
}

func (s *DoctorServiceImpl) dropSessions(ctx context.Context, id int64) {
	if err := s.authRepo.DeleteSessionsByUserID(ctx, id); err != nil {
		s.logger.Warn("failed to drop doctor sessions", zap.Int64("doctorId", id), zap.Error(err))
	}
}

func copyDoctor(d domain.Doctor) *domain.Doctor {
	d.Availability = append([]domain.WeeklyAvailabilitySlot{}, d.Availability...)
	return &d
}
