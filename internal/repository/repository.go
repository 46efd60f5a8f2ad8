package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"medcare/internal/domain"
)

type Repositories struct {
	User          UserRepository
	Auth          AuthRepository
	Doctor        DoctorRepository
	Patient       PatientRepository
	Appointment   AppointmentRepository
	MedicalRecord MedicalRecordRepository
}

func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		User:          NewUserRepository(db),
		Auth:          NewAuthRepository(db),
		Doctor:        NewDoctorRepository(db),
		Patient:       NewPatientRepository(db),
		Appointment:   NewAppointmentRepository(db),
		MedicalRecord: NewMedicalRecordRepository(db),
	}
}

type UserRepository interface {
	Create(ctx context.Context, user domain.CreateUserDTO) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	UpdateProfileImage(ctx context.Context, id int64, imageURL string) error
	SetActive(ctx context.Context, id int64, active bool) error
}

type AuthRepository interface {
	CreateSession(ctx context.Context, session domain.Session) error
	GetSessionByRefreshToken(ctx context.Context, refreshToken string) (*domain.Session, error)
	DeleteSession(ctx context.Context, id string) error
	DeleteSessionsByUserID(ctx context.Context, userID int64) error
}

type DoctorRepository interface {
	// CreateWithUser inserts the account and the doctor profile in one transaction.
	CreateWithUser(ctx context.Context, user domain.CreateUserDTO, profile domain.DoctorProfile) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Doctor, error)
	List(ctx context.Context, filter domain.DoctorFilter) ([]domain.Doctor, error)
	Count(ctx context.Context, filter domain.DoctorFilter) (int, error)
	Update(ctx context.Context, id int64, dto domain.UpdateDoctorDTO) error
	GetAvailability(ctx context.Context, id int64) ([]domain.WeeklyAvailabilitySlot, error)
	ReplaceAvailability(ctx context.Context, id int64, availability []domain.WeeklyAvailabilitySlot) error
}

type PatientRepository interface {
	CreateWithUser(ctx context.Context, user domain.CreateUserDTO, profile domain.PatientProfile) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Patient, error)
	Update(ctx context.Context, id int64, dto domain.UpdatePatientDTO) error
	List(ctx context.Context, filter domain.PatientFilter) ([]domain.Patient, error)
	Count(ctx context.Context, filter domain.PatientFilter) (int, error)
}

type AppointmentRepository interface {
	// Create returns domain.ErrSlotTaken when a live booking already holds the slot.
	Create(ctx context.Context, appointment domain.Appointment) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	List(ctx context.Context, filter domain.AppointmentFilter) ([]domain.Appointment, error)
	CountByFilter(ctx context.Context, filter domain.AppointmentFilter) (int, error)
	ListByDoctorAndDate(ctx context.Context, doctorID int64, date time.Time) ([]domain.Appointment, error)
	// UpdateStatus applies the change only if the stored status is still from.
	UpdateStatus(ctx context.Context, id int64, from, to domain.AppointmentStatus) error
}

type MedicalRecordRepository interface {
	// Save upserts the record for its appointment and moves the appointment
	// from one status to another in the same transaction.
	Save(ctx context.Context, record domain.MedicalRecord, from, to domain.AppointmentStatus) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.MedicalRecord, error)
	GetByAppointmentID(ctx context.Context, appointmentID int64) (*domain.MedicalRecord, error)
	Update(ctx context.Context, id int64, content domain.MedicalRecordContent) error
	List(ctx context.Context, filter domain.MedicalRecordFilter) ([]domain.MedicalRecord, error)
	Count(ctx context.Context, filter domain.MedicalRecordFilter) (int, error)
}
