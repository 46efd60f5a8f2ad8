package rest

import (
	"context"

	"github.com/stretchr/testify/mock"

	"medcare/internal/domain"
)

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, req domain.RegisterRequest) (int64, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, dto domain.LoginRequest, userAgent, ip string) (*domain.Tokens, error) {
	args := m.Called(ctx, dto, userAgent, ip)
	v, _ := args.Get(0).(*domain.Tokens)
	return v, args.Error(1)
}

func (m *MockAuthService) RefreshTokens(ctx context.Context, refreshToken, userAgent, ip string) (*domain.Tokens, error) {
	args := m.Called(ctx, refreshToken, userAgent, ip)
	v, _ := args.Get(0).(*domain.Tokens)
	return v, args.Error(1)
}

func (m *MockAuthService) Logout(ctx context.Context, refreshToken string) error {
	args := m.Called(ctx, refreshToken)
	return args.Error(0)
}

func (m *MockAuthService) ParseToken(ctx context.Context, token string) (domain.Actor, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(domain.Actor), args.Error(1)
}

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	v, _ := args.Get(0).(*domain.User)
	return v, args.Error(1)
}

func (m *MockUserService) CreateAdmin(ctx context.Context, dto domain.CreateAdminDTO) (int64, error) {
	args := m.Called(ctx, dto)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserService) ChangePassword(ctx context.Context, id int64, dto domain.PasswordUpdateDTO) error {
	args := m.Called(ctx, id, dto)
	return args.Error(0)
}

func (m *MockUserService) UploadProfileImage(ctx context.Context, id int64, data []byte, filename string) (string, error) {
	args := m.Called(ctx, id, data, filename)
	return args.String(0), args.Error(1)
}

type MockDoctorService struct {
	mock.Mock
}

func (m *MockDoctorService) Create(ctx context.Context, req domain.RegisterRequest) (int64, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockDoctorService) GetByID(ctx context.Context, id int64) (*domain.Doctor, error) {
	args := m.Called(ctx, id)
	v, _ := args.Get(0).(*domain.Doctor)
	return v, args.Error(1)
}

func (m *MockDoctorService) GetPublic(ctx context.Context, id int64) (*domain.Doctor, error) {
	args := m.Called(ctx, id)
	v, _ := args.Get(0).(*domain.Doctor)
	return v, args.Error(1)
}

func (m *MockDoctorService) List(ctx context.Context, filter domain.DoctorFilter) ([]domain.Doctor, int, error) {
	args := m.Called(ctx, filter)
	v, _ := args.Get(0).([]domain.Doctor)
	return v, args.Int(1), args.Error(2)
}

func (m *MockDoctorService) Update(ctx context.Context, id int64, dto domain.UpdateDoctorDTO) (*domain.Doctor, error) {
	args := m.Called(ctx, id, dto)
	v, _ := args.Get(0).(*domain.Doctor)
	return v, args.Error(1)
}

func (m *MockDoctorService) Deactivate(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockDoctorService) GetAvailability(ctx context.Context, id int64) ([]domain.WeeklyAvailabilitySlot, error) {
	args := m.Called(ctx, id)
	v, _ := args.Get(0).([]domain.WeeklyAvailabilitySlot)
	return v, args.Error(1)
}

func (m *MockDoctorService) UpdateAvailability(ctx context.Context, id int64, availability []domain.WeeklyAvailabilitySlot) ([]domain.WeeklyAvailabilitySlot, error) {
	args := m.Called(ctx, id, availability)
	v, _ := args.Get(0).([]domain.WeeklyAvailabilitySlot)
	return v, args.Error(1)
}

func (m *MockDoctorService) Dashboard(ctx context.Context, id int64) (*domain.DashboardStats, error) {
	args := m.Called(ctx, id)
	v, _ := args.Get(0).(*domain.DashboardStats)
	return v, args.Error(1)
}

type MockAppointmentService struct {
	mock.Mock
}

func (m *MockAppointmentService) AvailableSlots(ctx context.Context, doctorID int64, date string) (*domain.DaySlots, error) {
	args := m.Called(ctx, doctorID, date)
	v, _ := args.Get(0).(*domain.DaySlots)
	return v, args.Error(1)
}

func (m *MockAppointmentService) Book(ctx context.Context, actor domain.Actor, dto domain.CreateAppointmentDTO) (*domain.Appointment, error) {
	args := m.Called(ctx, actor, dto)
	v, _ := args.Get(0).(*domain.Appointment)
	return v, args.Error(1)
}

func (m *MockAppointmentService) GetByID(ctx context.Context, actor domain.Actor, id int64) (*domain.Appointment, error) {
	args := m.Called(ctx, actor, id)
	v, _ := args.Get(0).(*domain.Appointment)
	return v, args.Error(1)
}

func (m *MockAppointmentService) Cancel(ctx context.Context, actor domain.Actor, id int64) (*domain.Appointment, error) {
	args := m.Called(ctx, actor, id)
	v, _ := args.Get(0).(*domain.Appointment)
	return v, args.Error(1)
}

func (m *MockAppointmentService) UpdateStatus(ctx context.Context, actor domain.Actor, id int64, status domain.AppointmentStatus) (*domain.Appointment, error) {
	args := m.Called(ctx, actor, id, status)
	v, _ := args.Get(0).(*domain.Appointment)
	return v, args.Error(1)
}

func (m *MockAppointmentService) List(ctx context.Context, filter domain.AppointmentFilter) ([]domain.Appointment, int, error) {
	args := m.Called(ctx, filter)
	v, _ := args.Get(0).([]domain.Appointment)
	return v, args.Int(1), args.Error(2)
}

type MockMedicalRecordService struct {
	mock.Mock
}

func (m *MockMedicalRecordService) Create(ctx context.Context, actor domain.Actor, dto domain.CreateMedicalRecordDTO) (*domain.MedicalRecord, error) {
	args := m.Called(ctx, actor, dto)
	v, _ := args.Get(0).(*domain.MedicalRecord)
	return v, args.Error(1)
}

func (m *MockMedicalRecordService) Update(ctx context.Context, actor domain.Actor, id int64, dto domain.UpdateMedicalRecordDTO) (*domain.MedicalRecord, error) {
	args := m.Called(ctx, actor, id, dto)
	v, _ := args.Get(0).(*domain.MedicalRecord)
	return v, args.Error(1)
}

func (m *MockMedicalRecordService) GetByID(ctx context.Context, actor domain.Actor, id int64) (*domain.MedicalRecord, error) {
	args := m.Called(ctx, actor, id)
	v, _ := args.Get(0).(*domain.MedicalRecord)
	return v, args.Error(1)
}

func (m *MockMedicalRecordService) List(ctx context.Context, filter domain.MedicalRecordFilter) ([]domain.MedicalRecord, int, error) {
	args := m.Called(ctx, filter)
	v, _ := args.Get(0).([]domain.MedicalRecord)
	return v, args.Int(1), args.Error(2)
}
