package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"medcare/internal/domain"
	"medcare/internal/repository"
	"medcare/pkg/metrics"
)

type doctorLookup interface {
	GetByID(ctx context.Context, id int64) (*domain.Doctor, error)
}

type AppointmentServiceImpl struct {
	repo    repository.AppointmentRepository
	doctors doctorLookup
	metrics  *metrics.Metrics
	notifier Notifier
	logger   *zap.Logger
	now      func() time.Time
}

func NewAppointmentService(
	repo repository.AppointmentRepository,
	doctors doctorLookup,
	metrics *metrics.Metrics,
	notifier Notifier,
	logger *zap.Logger,
	now func() time.Time,
) *AppointmentServiceImpl {
	return &AppointmentServiceImpl{
		repo:     repo,
		doctors:  doctors,
		metrics:  metrics,
		notifier: notifier,
		logger:   logger,
		now:      now,
	}
}

// dayPlan is everything booking and slot listing need for one doctor-day.
type dayPlan struct {
	doctor       *domain.Doctor
	date         time.Time
	day          domain.DayAvailability
	appointments []domain.Appointment
}

func (p dayPlan) capacityReached() bool {
	return domain.ActiveCount(p.appointments) >= p.doctor.MaxPatientsPerDay
}

func (p dayPlan) openSlots() []string {
	if p.capacityReached() {
		return []string{}
	}
	return domain.ComputeOpenSlots(p.day.Candidates, p.appointments, p.date, p.doctor.ID)
}

func (s *AppointmentServiceImpl) planDay(ctx context.Context, doctorID int64, date time.Time) (*dayPlan, error) {
	doctor, err := s.doctors.GetByID(ctx, doctorID)
	if err != nil {
		return nil, err
	}
	if !doctor.IsActive {
		return nil, domain.ErrNotFound
	}

	plan := &dayPlan{
		doctor: doctor,
		date:   date,
		day:    domain.ResolveDay(doctor.Availability, date),
	}

	if !plan.day.Working || !doctor.IsAvailable {
		return plan, nil
	}

	plan.appointments, err = s.repo.ListByDoctorAndDate(ctx, doctorID, date)
	if err != nil {
		s.logger.Error("failed to load day appointments", zap.Int64("doctorId", doctorID), zap.Error(err))
		return nil, err
	}

	return plan, nil
}

func (s *AppointmentServiceImpl) AvailableSlots(ctx context.Context, doctorID int64, date string) (*domain.DaySlots, error) {
	day, err := domain.ParseDate(strings.TrimSpace(date))
	if err != nil {
		return nil, domain.NewValidationError("date", "must be a date in YYYY-MM-DD format")
	}

	plan, err := s.planDay(ctx, doctorID, day)
	if err != nil {
		return nil, err
	}

	result := &domain.DaySlots{
		DoctorID:       doctorID,
		Date:           day.Format(domain.DateLayout),
		Working:        plan.day.Working,
		Accepting:      plan.doctor.IsAvailable,
		Window:         plan.day.Window,
		AvailableSlots: []string{},
	}

	if !result.Working || !result.Accepting {
		return result, nil
	}

	result.CapacityReached = plan.capacityReached()
	result.AvailableSlots = plan.openSlots()

	return result, nil
}

// Book re-checks the slot against fresh data; the unique index settles races
// between two patients that pass the check at the same time.
func (s *AppointmentServiceImpl) Book(ctx context.Context, actor domain.Actor, dto domain.CreateAppointmentDTO) (*domain.Appointment, error) {
	if !actor.Is(domain.UserRolePatient) {
		return nil, domain.ErrForbidden
	}

	verr := &domain.ValidationError{}
	date, err := domain.ParseDate(strings.TrimSpace(dto.AppointmentDate))
	if err != nil {
		verr.Add("appointmentDate", "must be a date in YYYY-MM-DD format")
	}
	label, ok := domain.CanonicalLabel(dto.AppointmentTime)
	if !ok {
		verr.Add("appointmentTime", "must be one of the offered time slots")
	}
	reason := strings.TrimSpace(dto.Reason)
	if reason == "" {
		verr.Add("reason", "reason is required")
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	if date.Before(startOfDay(s.now())) {
		return nil, domain.ErrPastDate
	}

	plan, err := s.planDay(ctx, dto.DoctorID, date)
	if err != nil {
		return nil, err
	}
	if !plan.doctor.IsAvailable {
		return nil, domain.ErrDoctorNotAccepting
	}
	if !plan.day.Working {
		return nil, domain.ErrDoctorNotWorking
	}
	if plan.capacityReached() {
		return nil, domain.ErrDailyCapacityReached
	}

	if !contains(plan.openSlots(), label) {
		if contains(plan.day.Candidates, label) {
			s.metrics.SlotConflicts.Inc()
			return nil, domain.ErrSlotTaken
		}
		return nil, domain.ErrSlotUnavailable
	}

	id, err := s.repo.Create(ctx, domain.Appointment{
		DoctorID:        dto.DoctorID,
		PatientID:       actor.UserID,
		AppointmentDate: date,
		AppointmentTime: label,
		Status:          domain.AppointmentStatusScheduled,
		Reason:          reason,
	})
	if err != nil {
		if errors.Is(err, domain.ErrSlotTaken) {
			s.metrics.SlotConflicts.Inc()
			s.logger.Info("slot taken by a concurrent booking",
				zap.Int64("doctorId", dto.DoctorID), zap.String("date", dto.AppointmentDate), zap.String("time", label))
			return nil, err
		}
		s.logger.Error("failed to create appointment", zap.Error(err))
		return nil, err
	}

	s.metrics.AppointmentsBooked.Inc()
	s.logger.Info("appointment booked", zap.Int64("appointmentId", id), zap.Int64("doctorId", dto.DoctorID))

	appointment, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.notifier.Notify(domain.NewAppointmentEvent(domain.AppointmentEventBooked, *appointment, "", actor, s.now()))

	return appointment, nil
}

func (s *AppointmentServiceImpl) GetByID(ctx context.Context, actor domain.Actor, id int64) (*domain.Appointment, error) {
	appointment, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.logger.Error("failed to get appointment", zap.Int64("appointmentId", id), zap.Error(err))
		}
		return nil, err
	}

	if !canView(actor, appointment) {
		return nil, domain.ErrForbidden
	}

	return appointment, nil
}

func (s *AppointmentServiceImpl) Cancel(ctx context.Context, actor domain.Actor, id int64) (*domain.Appointment, error) {
	return s.UpdateStatus(ctx, actor, id, domain.AppointmentStatusCancelled)
}

func (s *AppointmentServiceImpl) UpdateStatus(ctx context.Context, actor domain.Actor, id int64, status domain.AppointmentStatus) (*domain.Appointment, error) {
	current, err := s.GetByID(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if actor.Is(domain.UserRoleAdmin) {
		return nil, domain.ErrForbidden
	}

	next, err := domain.Transition(*current, status, actor.Role)
	if err != nil {
		s.metrics.RejectedTransitions.WithLabelValues(string(current.Status), string(status), string(actor.Role)).Inc()
		return nil, err
	}

	if err := s.repo.UpdateStatus(ctx, id, current.Status, next.Status); err != nil {
		if !errors.Is(err, domain.ErrConcurrentUpdate) {
			s.logger.Error("failed to update appointment status", zap.Int64("appointmentId", id), zap.Error(err))
		}
		return nil, err
	}

	s.metrics.StatusTransitions.WithLabelValues(string(current.Status), string(next.Status)).Inc()
	s.notifier.Notify(domain.NewAppointmentEvent(domain.AppointmentEventStatusChanged, next, current.Status, actor, s.now()))

	return &next, nil
}

func (s *AppointmentServiceImpl) List(ctx context.Context, filter domain.AppointmentFilter) ([]domain.Appointment, int, error) {
	if filter.Status != nil && !filter.Status.IsValid() {
		return nil, 0, domain.NewValidationError("status", "unknown appointment status")
	}

	appointments, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error("failed to list appointments", zap.Error(err))
		return nil, 0, err
	}

	total, err := s.repo.CountByFilter(ctx, filter)
	if err != nil {
		s.logger.Error("failed to count appointments", zap.Error(err))
		return nil, 0, err
	}

	return appointments, total, nil
}

func canView(actor domain.Actor, a *domain.Appointment) bool {
	switch actor.Role {
	case domain.UserRoleAdmin:
		return true
	case domain.UserRoleDoctor:
		return a.DoctorID == actor.UserID
	case domain.UserRolePatient:
		return a.PatientID == actor.UserID
	}
	return false
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func contains(values []string, v string) bool {
	for _, value := range values {
		if value == v {
			return true
		}
	}
	return false
}
