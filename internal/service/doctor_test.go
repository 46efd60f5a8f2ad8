package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"medcare/internal/cache"
	"medcare/internal/domain"
)

type doctorMocks struct {
	doctors      *MockDoctorRepository
	users        *MockUserRepository
	sessions     *MockAuthRepository
	appointments *MockAppointmentRepository
	cache        *cache.Cache
}

func setupDoctorService() (*DoctorServiceImpl, doctorMocks) {
	m := doctorMocks{
		doctors:      &MockDoctorRepository{},
		users:        &MockUserRepository{},
		sessions:     &MockAuthRepository{},
		appointments: &MockAppointmentRepository{},
		cache:        cache.New(time.Minute, time.Minute),
	}
	svc := NewDoctorService(m.doctors, m.users, m.sessions, m.appointments, m.cache, zap.NewNop(), func() time.Time { return testNow })
	return svc, m
}

func TestDoctorGetByIDIsCached(t *testing.T) {
	svc, m := setupDoctorService()
	m.doctors.On("GetByID", mock.Anything, int64(7)).Return(testDoctor(), nil).Once()

	var lookups []bool
	m.cache.OnLookup(func(entity string, hit bool) {
		assert.Equal(t, cache.EntityDoctor, entity)
		lookups = append(lookups, hit)
	})

	first, err := svc.GetByID(context.Background(), 7)
	require.NoError(t, err)
	first.Availability[0].StartTime = "08:00 AM"

	second, err := svc.GetByID(context.Background(), 7)
	require.NoError(t, err)

	assert.Equal(t, "09:00 AM", second.Availability[0].StartTime)
	assert.Equal(t, []bool{false, true}, lookups)
	m.doctors.AssertNumberOfCalls(t, "GetByID", 1)
}

func TestDoctorErrorsAreNotCached(t *testing.T) {
	svc, m := setupDoctorService()
	m.doctors.On("GetByID", mock.Anything, int64(7)).Return(nil, errors.New("connection reset")).Once()
	m.doctors.On("GetByID", mock.Anything, int64(7)).Return(testDoctor(), nil).Once()

	_, err := svc.GetByID(context.Background(), 7)
	require.Error(t, err)

	d, err := svc.GetByID(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, int64(7), d.ID)
}

func TestDoctorGetPublicHidesInactive(t *testing.T) {
	svc, m := setupDoctorService()
	d := testDoctor()
	d.IsActive = false
	m.doctors.On("GetByID", mock.Anything, int64(7)).Return(d, nil)

	_, err := svc.GetPublic(context.Background(), 7)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDoctorUpdateInvalidatesCache(t *testing.T) {
	svc, m := setupDoctorService()
	updated := testDoctor()
	updated.IsAvailable = false

	m.doctors.On("GetByID", mock.Anything, int64(7)).Return(testDoctor(), nil).Twice()
	m.doctors.On("GetByID", mock.Anything, int64(7)).Return(updated, nil)
	dto := domain.UpdateDoctorDTO{IsAvailable: domain.PointerTo(false)}
	m.doctors.On("Update", mock.Anything, int64(7), dto).Return(nil)

	_, err := svc.GetByID(context.Background(), 7)
	require.NoError(t, err)

	got, err := svc.Update(context.Background(), 7, dto)
	require.NoError(t, err)
	assert.False(t, got.IsAvailable)
	m.sessions.AssertNotCalled(t, "DeleteSessionsByUserID", mock.Anything, mock.Anything)
}

func TestDoctorUpdateRejectsCapacityOutOfRange(t *testing.T) {
	svc, m := setupDoctorService()

	for _, v := range []int{0, 51} {
		_, err := svc.Update(context.Background(), 7, domain.UpdateDoctorDTO{MaxPatientsPerDay: domain.PointerTo(v)})
		assert.ErrorIs(t, err, domain.ErrValidation)
	}
	m.doctors.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestDoctorDeactivate(t *testing.T) {
	svc, m := setupDoctorService()
	m.doctors.On("GetByID", mock.Anything, int64(7)).Return(testDoctor(), nil)
	m.users.On("SetActive", mock.Anything, int64(7), false).Return(nil)
	m.sessions.On("DeleteSessionsByUserID", mock.Anything, int64(7)).Return(nil)

	m.cache.Set(cache.Key(cache.EntityDoctor, 7), *testDoctor())

	require.NoError(t, svc.Deactivate(context.Background(), 7))

	_, cached := m.cache.Get(cache.Key(cache.EntityDoctor, 7))
	assert.False(t, cached)
	m.users.AssertExpectations(t)
	m.sessions.AssertExpectations(t)
}

func TestDoctorUpdateAvailability(t *testing.T) {
	svc, m := setupDoctorService()
	m.cache.Set(cache.Key(cache.EntityAvailability, 7), testDoctor().Availability)

	normalized := []domain.WeeklyAvailabilitySlot{
		{Day: "Wednesday", IsAvailable: true, StartTime: "10:00 AM", EndTime: "02:00 PM"},
		{Day: "Friday", IsAvailable: false},
	}
	m.doctors.On("ReplaceAvailability", mock.Anything, int64(7), normalized).Return(nil)

	got, err := svc.UpdateAvailability(context.Background(), 7, []domain.WeeklyAvailabilitySlot{
		{Day: "wednesday", IsAvailable: true, StartTime: "10:00 am", EndTime: "2:00 PM"},
		{Day: "FRIDAY", IsAvailable: false, StartTime: "09:00 AM", EndTime: "05:00 PM"},
	})
	require.NoError(t, err)
	assert.Equal(t, normalized, got)

	_, cached := m.cache.Get(cache.Key(cache.EntityAvailability, 7))
	assert.False(t, cached)
	m.doctors.AssertExpectations(t)
}

func TestDoctorUpdateAvailabilityRejectsBadWindow(t *testing.T) {
	svc, m := setupDoctorService()

	_, err := svc.UpdateAvailability(context.Background(), 7, []domain.WeeklyAvailabilitySlot{
		{Day: "Monday", IsAvailable: true, StartTime: "03:00 PM", EndTime: "09:00 AM"},
	})
	assert.ErrorIs(t, err, domain.ErrValidation)
	m.doctors.AssertNotCalled(t, "ReplaceAvailability", mock.Anything, mock.Anything, mock.Anything)
}

func TestDoctorDashboard(t *testing.T) {
	svc, m := setupDoctorService()
	today := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	m.appointments.On("List", mock.Anything, domain.AppointmentFilter{DoctorID: domain.PointerTo(int64(7))}).
		Return([]domain.Appointment{
			{PatientID: 1, AppointmentDate: today, Status: domain.AppointmentStatusCompleted},
			{PatientID: 2, AppointmentDate: today, Status: domain.AppointmentStatusScheduled},
			{PatientID: 1, AppointmentDate: testMonday, Status: domain.AppointmentStatusConfirmed},
			{PatientID: 3, AppointmentDate: testMonday, Status: domain.AppointmentStatusCancelled},
		}, nil)

	stats, err := svc.Dashboard(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, &domain.DashboardStats{
		TodayAppointments:   2,
		CompletedToday:      1,
		PendingAppointments: 2,
		TotalPatients:       3,
	}, stats)
}
