package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"medcare/internal/domain"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user domain.CreateUserDTO) (int64, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	user, _ := args.Get(0).(*domain.User)
	return user, args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	user, _ := args.Get(0).(*domain.User)
	return user, args.Error(1)
}

func (m *MockUserRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	return m.Called(ctx, id, passwordHash).Error(0)
}

func (m *MockUserRepository) UpdateProfileImage(ctx context.Context, id int64, imageURL string) error {
	return m.Called(ctx, id, imageURL).Error(0)
}

func (m *MockUserRepository) SetActive(ctx context.Context, id int64, active bool) error {
	return m.Called(ctx, id, active).Error(0)
}

type MockAuthRepository struct {
	mock.Mock
}

func (m *MockAuthRepository) CreateSession(ctx context.Context, session domain.Session) error {
	return m.Called(ctx, session).Error(0)
}

func (m *MockAuthRepository) GetSessionByRefreshToken(ctx context.Context, refreshToken string) (*domain.Session, error) {
	args := m.Called(ctx, refreshToken)
	session, _ := args.Get(0).(*domain.Session)
	return session, args.Error(1)
}

func (m *MockAuthRepository) DeleteSession(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockAuthRepository) DeleteSessionsByUserID(ctx context.Context, userID int64) error {
	return m.Called(ctx, userID).Error(0)
}

type MockDoctorRepository struct {
	mock.Mock
}

func (m *MockDoctorRepository) CreateWithUser(ctx context.Context, user domain.CreateUserDTO, profile domain.DoctorProfile) (int64, error) {
	args := m.Called(ctx, user, profile)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockDoctorRepository) GetByID(ctx context.Context, id int64) (*domain.Doctor, error) {
	args := m.Called(ctx, id)
	doctor, _ := args.Get(0).(*domain.Doctor)
	return doctor, args.Error(1)
}

func (m *MockDoctorRepository) List(ctx context.Context, filter domain.DoctorFilter) ([]domain.Doctor, error) {
	args := m.Called(ctx, filter)
	doctors, _ := args.Get(0).([]domain.Doctor)
	return doctors, args.Error(1)
}

func (m *MockDoctorRepository) Count(ctx context.Context, filter domain.DoctorFilter) (int, error) {
	args := m.Called(ctx, filter)
	return args.Int(0), args.Error(1)
}

func (m *MockDoctorRepository) Update(ctx context.Context, id int64, dto domain.UpdateDoctorDTO) error {
	return m.Called(ctx, id, dto).Error(0)
}

func (m *MockDoctorRepository) GetAvailability(ctx context.Context, id int64) ([]domain.WeeklyAvailabilitySlot, error) {
	args := m.Called(ctx, id)
	slots, _ := args.Get(0).([]domain.WeeklyAvailabilitySlot)
	return slots, args.Error(1)
}

func (m *MockDoctorRepository) ReplaceAvailability(ctx context.Context, id int64, availability []domain.WeeklyAvailabilitySlot) error {
	return m.Called(ctx, id, availability).Error(0)
}

type MockPatientRepository struct {
	mock.Mock
}

func (m *MockPatientRepository) CreateWithUser(ctx context.Context, user domain.CreateUserDTO, profile domain.PatientProfile) (int64, error) {
	args := m.Called(ctx, user, profile)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPatientRepository) GetByID(ctx context.Context, id int64) (*domain.Patient, error) {
	args := m.Called(ctx, id)
	patient, _ := args.Get(0).(*domain.Patient)
	return patient, args.Error(1)
}

func (m *MockPatientRepository) Update(ctx context.Context, id int64, dto domain.UpdatePatientDTO) error {
	return m.Called(ctx, id, dto).Error(0)
}

func (m *MockPatientRepository) List(ctx context.Context, filter domain.PatientFilter) ([]domain.Patient, error) {
	args := m.Called(ctx, filter)
	patients, _ := args.Get(0).([]domain.Patient)
	return patients, args.Error(1)
}

func (m *MockPatientRepository) Count(ctx context.Context, filter domain.PatientFilter) (int, error) {
	args := m.Called(ctx, filter)
	return args.Int(0), args.Error(1)
}

type MockAppointmentRepository struct {
	mock.Mock
}

func (m *MockAppointmentRepository) Create(ctx context.Context, appointment domain.Appointment) (int64, error) {
	args := m.Called(ctx, appointment)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAppointmentRepository) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	args := m.Called(ctx, id)
	appointment, _ := args.Get(0).(*domain.Appointment)
	return appointment, args.Error(1)
}

func (m *MockAppointmentRepository) List(ctx context.Context, filter domain.AppointmentFilter) ([]domain.Appointment, error) {
	args := m.Called(ctx, filter)
	appointments, _ := args.Get(0).([]domain.Appointment)
	return appointments, args.Error(1)
}

func (m *MockAppointmentRepository) CountByFilter(ctx context.Context, filter domain.AppointmentFilter) (int, error) {
	args := m.Called(ctx, filter)
	return args.Int(0), args.Error(1)
}

func (m *MockAppointmentRepository) ListByDoctorAndDate(ctx context.Context, doctorID int64, date time.Time) ([]domain.Appointment, error) {
	args := m.Called(ctx, doctorID, date)
	appointments, _ := args.Get(0).([]domain.Appointment)
	return appointments, args.Error(1)
}

func (m *MockAppointmentRepository) UpdateStatus(ctx context.Context, id int64, from, to domain.AppointmentStatus) error {
	return m.Called(ctx, id, from, to).Error(0)
}

type MockMedicalRecordRepository struct {
	mock.Mock
}

func (m *MockMedicalRecordRepository) Save(ctx context.Context, record domain.MedicalRecord, from, to domain.AppointmentStatus) (int64, error) {
	args := m.Called(ctx, record, from, to)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockMedicalRecordRepository) GetByID(ctx context.Context, id int64) (*domain.MedicalRecord, error) {
	args := m.Called(ctx, id)
	record, _ := args.Get(0).(*domain.MedicalRecord)
	return record, args.Error(1)
}

func (m *MockMedicalRecordRepository) GetByAppointmentID(ctx context.Context, appointmentID int64) (*domain.MedicalRecord, error) {
	args := m.Called(ctx, appointmentID)
	record, _ := args.Get(0).(*domain.MedicalRecord)
	return record, args.Error(1)
}

func (m *MockMedicalRecordRepository) Update(ctx context.Context, id int64, content domain.MedicalRecordContent) error {
	return m.Called(ctx, id, content).Error(0)
}

func (m *MockMedicalRecordRepository) List(ctx context.Context, filter domain.MedicalRecordFilter) ([]domain.MedicalRecord, error) {
	args := m.Called(ctx, filter)
	records, _ := args.Get(0).([]domain.MedicalRecord)
	return records, args.Error(1)
}

func (m *MockMedicalRecordRepository) Count(ctx context.Context, filter domain.MedicalRecordFilter) (int, error) {
	args := m.Called(ctx, filter)
	return args.Int(0), args.Error(1)
}

type MockFileStorage struct {
	mock.Mock
}

func (m *MockFileStorage) UploadImage(ctx context.Context, folder string, data []byte, filename string) (string, error) {
	args := m.Called(ctx, folder, data, filename)
	return args.String(0), args.Error(1)
}

func (m *MockFileStorage) DeleteFile(ctx context.Context, fileURL string) error {
	return m.Called(ctx, fileURL).Error(0)
}
