package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"medcare/config"
	"medcare/internal/cache"
	"medcare/internal/domain"
	"medcare/internal/repository"
	"medcare/internal/storage"
	"medcare/pkg/metrics"
)

type Deps struct {
	Repos       *repository.Repositories
	Logger      *zap.Logger
	Config      *config.Config
	FileStorage storage.FileStorage
	Cache       *cache.Cache
	Metrics     *metrics.Metrics
	// Notifier receives committed appointment changes; nil disables push.
	Notifier Notifier
	// Now defaults to time.Now.
	Now func() time.Time
}

type Services struct {
	Auth          AuthService
	User          UserService
	Doctor        DoctorService
	Patient       PatientService
	Appointment   AppointmentService
	MedicalRecord MedicalRecordService
}

func NewServices(deps Deps) *Services {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Notifier == nil {
		deps.Notifier = noopNotifier{}
	}

	doctors := NewDoctorService(deps.Repos.Doctor, deps.Repos.User, deps.Repos.Auth, deps.Repos.Appointment, deps.Cache, deps.Logger, deps.Now)

	return &Services{
		Auth:          NewAuthService(deps.Repos.Auth, deps.Repos.User, deps.Repos.Doctor, deps.Repos.Patient, deps.Config.JWT, deps.Logger),
		User:          NewUserService(deps.Repos.User, deps.Repos.Auth, deps.FileStorage, deps.Cache, deps.Logger),
		Doctor:        doctors,
		Patient:       NewPatientService(deps.Repos.Patient, deps.Logger),
		Appointment:   NewAppointmentService(deps.Repos.Appointment, doctors, deps.Metrics, deps.Notifier, deps.Logger, deps.Now),
		MedicalRecord: NewMedicalRecordService(deps.Repos.MedicalRecord, deps.Repos.Appointment, deps.Metrics, deps.Notifier, deps.Logger, deps.Now),
	}
}

type Notifier interface {
	Notify(event domain.AppointmentEvent)
}

type noopNotifier struct{}

func (noopNotifier) Notify(domain.AppointmentEvent) {}

type AuthService interface {
	Register(ctx context.Context, req domain.RegisterRequest) (int64, error)
	Login(ctx context.Context, dto domain.LoginRequest, userAgent, ip string) (*domain.Tokens, error)
	RefreshTokens(ctx context.Context, refreshToken, userAgent, ip string) (*domain.Tokens, error)
	Logout(ctx context.Context, refreshToken string) error
	ParseToken(ctx context.Context, token string) (domain.Actor, error)
}

type UserService interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	CreateAdmin(ctx context.Context, dto domain.CreateAdminDTO) (int64, error)
	ChangePassword(ctx context.Context, id int64, dto domain.PasswordUpdateDTO) error
	UploadProfileImage(ctx context.Context, id int64, data []byte, filename string) (string, error)
}

type DoctorService interface {
	Create(ctx context.Context, req domain.RegisterRequest) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Doctor, error)
	// GetPublic hides deactivated doctors.
	GetPublic(ctx context.Context, id int64) (*domain.Doctor, error)
	List(ctx context.Context, filter domain.DoctorFilter) ([]domain.Doctor, int, error)
	Update(ctx context.Context, id int64, dto domain.UpdateDoctorDTO) (*domain.Doctor, error)
	Deactivate(ctx context.Context, id int64) error
	GetAvailability(ctx context.Context, id int64) ([]domain.WeeklyAvailabilitySlot, error)
	UpdateAvailability(ctx context.Context, id int64, availability []domain.WeeklyAvailabilitySlot) ([]domain.WeeklyAvailabilitySlot, error)
	Dashboard(ctx context.Context, id int64) (*domain.DashboardStats, error)
}

type PatientService interface {
	GetByID(ctx context.Context, id int64) (*domain.Patient, error)
	Update(ctx context.Context, id int64, dto domain.UpdatePatientDTO) (*domain.Patient, error)
	List(ctx context.Context, filter domain.PatientFilter) ([]domain.Patient, int, error)
}

type AppointmentService interface {
	AvailableSlots(ctx context.Context, doctorID int64, date string) (*domain.DaySlots, error)
	Book(ctx context.Context, actor domain.Actor, dto domain.CreateAppointmentDTO) (*domain.Appointment, error)
	GetByID(ctx context.Context, actor domain.Actor, id int64) (*domain.Appointment, error)
	Cancel(ctx context.Context, actor domain.Actor, id int64) (*domain.Appointment, error)
	UpdateStatus(ctx context.Context, actor domain.Actor, id int64, status domain.AppointmentStatus) (*domain.Appointment, error)
	List(ctx context.Context, filter domain.AppointmentFilter) ([]domain.Appointment, int, error)
}

type MedicalRecordService interface {
	Create(ctx context.Context, actor domain.Actor, dto domain.CreateMedicalRecordDTO) (*domain.MedicalRecord, error)
	Update(ctx context.Context, actor domain.Actor, id int64, dto domain.UpdateMedicalRecordDTO) (*domain.MedicalRecord, error)
	GetByID(ctx context.Context, actor domain.Actor, id int64) (*domain.MedicalRecord, error)
	List(ctx context.Context, filter domain.MedicalRecordFilter) ([]domain.MedicalRecord, int, error)
}
