package service

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"medcare/internal/domain"
	"medcare/pkg/metrics"
)

// 2024-03-04 is a Monday; the clock sits on the Friday before.
var (
	testNow    = time.Date(2024, time.March, 1, 15, 0, 0, 0, time.UTC)
	testMonday = time.Date(2024, time.March, 4, 0, 0, 0, 0, time.UTC)
)

type stubDoctors map[int64]*domain.Doctor

func (s stubDoctors) GetByID(_ context.Context, id int64) (*domain.Doctor, error) {
	if d, ok := s[id]; ok {
		copied := *d
		return &copied, nil
	}
	return nil, domain.ErrNotFound
}

func testDoctor() *domain.Doctor {
	return &domain.Doctor{
		ID:       7,
		Name:     "Dr. Grey",
		IsActive: true,
		DoctorProfile: domain.DoctorProfile{
			Specialization:    "Cardiology",
			IsAvailable:       true,
			MaxPatientsPerDay: 20,
		},
		Availability: []domain.WeeklyAvailabilitySlot{
			{Day: "Monday", IsAvailable: true, StartTime: "09:00 AM", EndTime: "12:00 PM"},
			{Day: "Tuesday", IsAvailable: false},
		},
	}
}

func newTestMetrics() *metrics.Metrics {
	return metrics.New("test", prometheus.NewRegistry())
}

func setupAppointmentService(doctor *domain.Doctor) (*AppointmentServiceImpl, *MockAppointmentRepository, *metrics.Metrics) {
	repo := &MockAppointmentRepository{}
	m := newTestMetrics()
	svc := NewAppointmentService(repo, stubDoctors{doctor.ID: doctor}, m, &recordingNotifier{}, zap.NewNop(), func() time.Time { return testNow })
	return svc, repo, m
}

type recordingNotifier struct {
	events []domain.AppointmentEvent
}

func (n *recordingNotifier) Notify(event domain.AppointmentEvent) {
	n.events = append(n.events, event)
}

func notified(n Notifier) []domain.AppointmentEvent {
	return n.(*recordingNotifier).events
}

func booked(id int64, label string, status domain.AppointmentStatus) domain.Appointment {
	return domain.Appointment{
		ID:              id,
		DoctorID:        7,
		PatientID:       100 + id,
		AppointmentDate: testMonday,
		AppointmentTime: label,
		Status:          status,
	}
}

var patientActor = domain.Actor{UserID: 42, Role: domain.UserRolePatient}
var doctorActor = domain.Actor{UserID: 7, Role: domain.UserRoleDoctor}

func TestAvailableSlotsExcludesBookedTime(t *testing.T) {
	svc, repo, _ := setupAppointmentService(testDoctor())
	repo.On("ListByDoctorAndDate", mock.Anything, int64(7), testMonday).
		Return([]domain.Appointment{booked(1, "10:00 AM", domain.AppointmentStatusScheduled)}, nil)

	slots, err := svc.AvailableSlots(context.Background(), 7, "2024-03-04")
	require.NoError(t, err)

	assert.True(t, slots.Working)
	assert.True(t, slots.Accepting)
	assert.False(t, slots.CapacityReached)
	assert.Equal(t, &domain.WorkingWindow{StartTime: "09:00 AM", EndTime: "12:00 PM"}, slots.Window)
	assert.Equal(t, []string{"09:00 AM", "09:30 AM", "10:30 AM", "11:00 AM", "11:30 AM"}, slots.AvailableSlots)
	repo.AssertExpectations(t)
}

func TestAvailableSlotsOnDayOff(t *testing.T) {
	svc, repo, _ := setupAppointmentService(testDoctor())

	slots, err := svc.AvailableSlots(context.Background(), 7, "2024-03-05")
	require.NoError(t, err)

	assert.False(t, slots.Working)
	assert.Nil(t, slots.Window)
	assert.Empty(t, slots.AvailableSlots)
	assert.NotNil(t, slots.AvailableSlots)
	repo.AssertNotCalled(t, "ListByDoctorAndDate", mock.Anything, mock.Anything, mock.Anything)
}

func TestAvailableSlotsWhenNotAccepting(t *testing.T) {
	d := testDoctor()
	d.IsAvailable = false
	svc, repo, _ := setupAppointmentService(d)

	slots, err := svc.AvailableSlots(context.Background(), 7, "2024-03-04")
	require.NoError(t, err)

	assert.True(t, slots.Working)
	assert.False(t, slots.Accepting)
	assert.Empty(t, slots.AvailableSlots)
	repo.AssertNotCalled(t, "ListByDoctorAndDate", mock.Anything, mock.Anything, mock.Anything)
}

func TestAvailableSlotsDailyCapacity(t *testing.T) {
	d := testDoctor()
	d.MaxPatientsPerDay = 1
	svc, repo, _ := setupAppointmentService(d)
	repo.On("ListByDoctorAndDate", mock.Anything, int64(7), testMonday).
		Return([]domain.Appointment{
			booked(1, "09:00 AM", domain.AppointmentStatusCancelled),
			booked(2, "10:00 AM", domain.AppointmentStatusConfirmed),
		}, nil)

	slots, err := svc.AvailableSlots(context.Background(), 7, "2024-03-04")
	require.NoError(t, err)

	assert.True(t, slots.Working)
	assert.True(t, slots.CapacityReached)
	assert.Empty(t, slots.AvailableSlots)
}

func TestAvailableSlotsErrors(t *testing.T) {
	svc, _, _ := setupAppointmentService(testDoctor())

	_, err := svc.AvailableSlots(context.Background(), 7, "04/03/2024")
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.AvailableSlots(context.Background(), 99, "2024-03-04")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	d := testDoctor()
	d.IsActive = false
	svc, _, _ = setupAppointmentService(d)
	_, err = svc.AvailableSlots(context.Background(), 7, "2024-03-04")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func bookingDTO(date, label string) domain.CreateAppointmentDTO {
	return domain.CreateAppointmentDTO{
		DoctorID:        7,
		AppointmentDate: date,
		AppointmentTime: label,
		Reason:          "  chest pain ",
	}
}

func TestBookStoresCanonicalSlot(t *testing.T) {
	svc, repo, m := setupAppointmentService(testDoctor())
	repo.On("ListByDoctorAndDate", mock.Anything, int64(7), testMonday).Return([]domain.Appointment{}, nil)
	repo.On("Create", mock.Anything, domain.Appointment{
		DoctorID:        7,
		PatientID:       42,
		AppointmentDate: testMonday,
		AppointmentTime: "09:30 AM",
		Status:          domain.AppointmentStatusScheduled,
		Reason:          "chest pain",
	}).Return(int64(11), nil)
	stored := booked(11, "09:30 AM", domain.AppointmentStatusScheduled)
	repo.On("GetByID", mock.Anything, int64(11)).Return(&stored, nil)

	appointment, err := svc.Book(context.Background(), patientActor, bookingDTO("2024-03-04", "9:30 am"))
	require.NoError(t, err)

	assert.Equal(t, int64(11), appointment.ID)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AppointmentsBooked))
	repo.AssertExpectations(t)

	events := notified(svc.notifier)
	require.Len(t, events, 1)
	assert.Equal(t, domain.AppointmentEventBooked, events[0].Type)
	assert.Equal(t, "2024-03-04", events[0].AppointmentDate)
	assert.Equal(t, testNow, events[0].OccurredAt)
}

func TestBookRejectsTakenSlot(t *testing.T) {
	svc, repo, m := setupAppointmentService(testDoctor())
	repo.On("ListByDoctorAndDate", mock.Anything, int64(7), testMonday).
		Return([]domain.Appointment{booked(1, "10:00 AM", domain.AppointmentStatusScheduled)}, nil)

	_, err := svc.Book(context.Background(), patientActor, bookingDTO("2024-03-04", "10:00 AM"))
	assert.ErrorIs(t, err, domain.ErrSlotTaken)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SlotConflicts))
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestBookAfterCancellationFreesSlot(t *testing.T) {
	svc, repo, _ := setupAppointmentService(testDoctor())
	repo.On("ListByDoctorAndDate", mock.Anything, int64(7), testMonday).
		Return([]domain.Appointment{booked(1, "10:00 AM", domain.AppointmentStatusCancelled)}, nil)
	repo.On("Create", mock.Anything, mock.AnythingOfType("domain.Appointment")).Return(int64(12), nil)
	stored := booked(12, "10:00 AM", domain.AppointmentStatusScheduled)
	repo.On("GetByID", mock.Anything, int64(12)).Return(&stored, nil)

	_, err := svc.Book(context.Background(), patientActor, bookingDTO("2024-03-04", "10:00 AM"))
	require.NoError(t, err)
}

func TestBookConcurrentConflict(t *testing.T) {
	svc, repo, m := setupAppointmentService(testDoctor())
	repo.On("ListByDoctorAndDate", mock.Anything, int64(7), testMonday).Return([]domain.Appointment{}, nil)
	repo.On("Create", mock.Anything, mock.AnythingOfType("domain.Appointment")).Return(int64(0), domain.ErrSlotTaken)

	_, err := svc.Book(context.Background(), patientActor, bookingDTO("2024-03-04", "11:00 AM"))
	assert.ErrorIs(t, err, domain.ErrSlotTaken)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SlotConflicts))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.AppointmentsBooked))
}

func TestBookRejections(t *testing.T) {
	notAccepting := testDoctor()
	notAccepting.IsAvailable = false
	smallDay := testDoctor()
	smallDay.MaxPatientsPerDay = 1

	tests := []struct {
		name    string
		doctor  *domain.Doctor
		actor   domain.Actor
		dto     domain.CreateAppointmentDTO
		day     []domain.Appointment
		wantErr error
	}{
		{"doctor cannot book", testDoctor(), doctorActor, bookingDTO("2024-03-04", "09:00 AM"), nil, domain.ErrForbidden},
		{"past date", testDoctor(), patientActor, bookingDTO("2024-02-26", "09:00 AM"), nil, domain.ErrPastDate},
		{"bad date", testDoctor(), patientActor, bookingDTO("next monday", "09:00 AM"), nil, domain.ErrValidation},
		{"unknown label", testDoctor(), patientActor, bookingDTO("2024-03-04", "09:15 AM"), nil, domain.ErrValidation},
		{"day off", testDoctor(), patientActor, bookingDTO("2024-03-05", "09:00 AM"), nil, domain.ErrDoctorNotWorking},
		{"outside window", testDoctor(), patientActor, bookingDTO("2024-03-04", "02:00 PM"), []domain.Appointment{}, domain.ErrSlotUnavailable},
		{"end of window is exclusive", testDoctor(), patientActor, bookingDTO("2024-03-04", "12:00 PM"), []domain.Appointment{}, domain.ErrSlotUnavailable},
		{"not accepting", notAccepting, patientActor, bookingDTO("2024-03-04", "09:00 AM"), nil, domain.ErrDoctorNotAccepting},
		{"capacity", smallDay, patientActor, bookingDTO("2024-03-04", "09:00 AM"),
			[]domain.Appointment{booked(1, "11:00 AM", domain.AppointmentStatusScheduled)}, domain.ErrDailyCapacityReached},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, _ := setupAppointmentService(tt.doctor)
			if tt.day != nil {
				repo.On("ListByDoctorAndDate", mock.Anything, int64(7), mock.Anything).Return(tt.day, nil)
			}

			_, err := svc.Book(context.Background(), tt.actor, tt.dto)
			assert.ErrorIs(t, err, tt.wantErr)
			repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestBookTodayIsAllowed(t *testing.T) {
	d := testDoctor()
	d.Availability = []domain.WeeklyAvailabilitySlot{{Day: "Friday", IsAvailable: true, StartTime: "04:00 PM", EndTime: "06:00 PM"}}
	svc, repo, _ := setupAppointmentService(d)
	today := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	repo.On("ListByDoctorAndDate", mock.Anything, int64(7), today).Return([]domain.Appointment{}, nil)
	repo.On("Create", mock.Anything, mock.AnythingOfType("domain.Appointment")).Return(int64(5), nil)
	repo.On("GetByID", mock.Anything, int64(5)).Return(&domain.Appointment{ID: 5}, nil)

	_, err := svc.Book(context.Background(), patientActor, bookingDTO("2024-03-01", "04:30 PM"))
	require.NoError(t, err)
}

func TestUpdateStatus(t *testing.T) {
	t.Run("doctor confirms own appointment", func(t *testing.T) {
		svc, repo, m := setupAppointmentService(testDoctor())
		a := booked(3, "09:00 AM", domain.AppointmentStatusScheduled)
		repo.On("GetByID", mock.Anything, int64(3)).Return(&a, nil)
		repo.On("UpdateStatus", mock.Anything, int64(3), domain.AppointmentStatusScheduled, domain.AppointmentStatusConfirmed).Return(nil)

		got, err := svc.UpdateStatus(context.Background(), doctorActor, 3, domain.AppointmentStatusConfirmed)
		require.NoError(t, err)
		assert.Equal(t, domain.AppointmentStatusConfirmed, got.Status)
		assert.Equal(t, 1.0, testutil.ToFloat64(m.StatusTransitions.WithLabelValues("scheduled", "confirmed")))
		repo.AssertExpectations(t)
	})

	t.Run("completed cannot go back to scheduled", func(t *testing.T) {
		svc, repo, m := setupAppointmentService(testDoctor())
		a := booked(3, "09:00 AM", domain.AppointmentStatusCompleted)
		repo.On("GetByID", mock.Anything, int64(3)).Return(&a, nil)

		_, err := svc.UpdateStatus(context.Background(), doctorActor, 3, domain.AppointmentStatusScheduled)
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)

		var terr *domain.InvalidTransitionError
		require.ErrorAs(t, err, &terr)
		assert.Equal(t, domain.AppointmentStatusCompleted, terr.From)
		assert.Equal(t, domain.AppointmentStatusScheduled, terr.To)
		assert.Equal(t, 1.0, testutil.ToFloat64(m.RejectedTransitions.WithLabelValues("completed", "scheduled", "doctor")))
		repo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("patient cannot confirm", func(t *testing.T) {
		svc, repo, _ := setupAppointmentService(testDoctor())
		a := booked(3, "09:00 AM", domain.AppointmentStatusScheduled)
		a.PatientID = patientActor.UserID
		repo.On("GetByID", mock.Anything, int64(3)).Return(&a, nil)

		_, err := svc.UpdateStatus(context.Background(), patientActor, 3, domain.AppointmentStatusConfirmed)
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	})

	t.Run("other doctor is forbidden", func(t *testing.T) {
		svc, repo, _ := setupAppointmentService(testDoctor())
		a := booked(3, "09:00 AM", domain.AppointmentStatusScheduled)
		repo.On("GetByID", mock.Anything, int64(3)).Return(&a, nil)

		_, err := svc.UpdateStatus(context.Background(), domain.Actor{UserID: 8, Role: domain.UserRoleDoctor}, 3, domain.AppointmentStatusConfirmed)
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("admin has no transition rights", func(t *testing.T) {
		svc, repo, _ := setupAppointmentService(testDoctor())
		a := booked(3, "09:00 AM", domain.AppointmentStatusScheduled)
		repo.On("GetByID", mock.Anything, int64(3)).Return(&a, nil)

		_, err := svc.UpdateStatus(context.Background(), domain.Actor{UserID: 1, Role: domain.UserRoleAdmin}, 3, domain.AppointmentStatusCancelled)
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("stale status is reported", func(t *testing.T) {
		svc, repo, _ := setupAppointmentService(testDoctor())
		a := booked(3, "09:00 AM", domain.AppointmentStatusConfirmed)
		repo.On("GetByID", mock.Anything, int64(3)).Return(&a, nil)
		repo.On("UpdateStatus", mock.Anything, int64(3), domain.AppointmentStatusConfirmed, domain.AppointmentStatusNoShow).
			Return(domain.ErrConcurrentUpdate)

		_, err := svc.UpdateStatus(context.Background(), doctorActor, 3, domain.AppointmentStatusNoShow)
		assert.ErrorIs(t, err, domain.ErrConcurrentUpdate)
	})
}

func TestCancelByPatient(t *testing.T) {
	svc, repo, _ := setupAppointmentService(testDoctor())
	a := booked(4, "09:00 AM", domain.AppointmentStatusScheduled)
	a.PatientID = patientActor.UserID
	repo.On("GetByID", mock.Anything, int64(4)).Return(&a, nil)
	repo.On("UpdateStatus", mock.Anything, int64(4), domain.AppointmentStatusScheduled, domain.AppointmentStatusCancelled).Return(nil)

	got, err := svc.Cancel(context.Background(), patientActor, 4)
	require.NoError(t, err)
	assert.Equal(t, domain.AppointmentStatusCancelled, got.Status)

	events := notified(svc.notifier)
	require.Len(t, events, 1)
	assert.Equal(t, domain.AppointmentEventStatusChanged, events[0].Type)
	assert.Equal(t, domain.AppointmentStatusScheduled, events[0].PreviousStatus)
	assert.Equal(t, domain.AppointmentStatusCancelled, events[0].Status)
	assert.Equal(t, []int64{7, 42}, events[0].Recipients())
}

func TestCancelConfirmedByPatientIsRejected(t *testing.T) {
	svc, repo, _ := setupAppointmentService(testDoctor())
	a := booked(4, "09:00 AM", domain.AppointmentStatusConfirmed)
	a.PatientID = patientActor.UserID
	repo.On("GetByID", mock.Anything, int64(4)).Return(&a, nil)

	_, err := svc.Cancel(context.Background(), patientActor, 4)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.Empty(t, notified(svc.notifier))
}

func TestListRejectsUnknownStatus(t *testing.T) {
	svc, repo, _ := setupAppointmentService(testDoctor())

	_, _, err := svc.List(context.Background(), domain.AppointmentFilter{Status: domain.PointerTo(domain.AppointmentStatus("lost"))})
	assert.ErrorIs(t, err, domain.ErrValidation)
	repo.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
}

func TestList(t *testing.T) {
	svc, repo, _ := setupAppointmentService(testDoctor())
	filter := domain.AppointmentFilter{PatientID: domain.PointerTo(int64(42)), Limit: 10}
	repo.On("List", mock.Anything, filter).Return([]domain.Appointment{{ID: 1}, {ID: 2}}, nil)
	repo.On("CountByFilter", mock.Anything, filter).Return(12, nil)

	items, total, err := svc.List(context.Background(), filter)
	require.NoError(t, err)
	assert.Len(t, items, 2)
	assert.Equal(t, 12, total)
}
