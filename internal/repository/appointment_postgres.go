package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"medcare/internal/domain"
	"medcare/pkg/database"
)

const activeSlotConstraint = "appointments_active_slot_idx"

type AppointmentRepo struct {
	db *pgxpool.Pool
}

func NewAppointmentRepository(db *pgxpool.Pool) *AppointmentRepo {
	return &AppointmentRepo{
		db: db,
	}
}

const appointmentSelect = `
	SELECT a.id, a.doctor_id, a.patient_id, a.appointment_date, a.appointment_time, a.status, a.reason,
	       a.created_at, a.updated_at,
	       du.name, d.specialization, pu.name, pu.phone,
	       EXISTS (SELECT 1 FROM medical_records mr WHERE mr.appointment_id = a.id)
	FROM appointments a
	JOIN doctors d ON d.user_id = a.doctor_id
	JOIN users du ON du.id = a.doctor_id
	JOIN users pu ON pu.id = a.patient_id
`

func scanAppointment(row pgx.Row) (*domain.Appointment, error) {
	var appointment domain.Appointment
	err := row.Scan(
		&appointment.ID,
		&appointment.DoctorID,
		&appointment.PatientID,
		&appointment.AppointmentDate,
		&appointment.AppointmentTime,
		&appointment.Status,
		&appointment.Reason,
		&appointment.CreatedAt,
		&appointment.UpdatedAt,
		&appointment.DoctorName,
		&appointment.Specialization,
		&appointment.PatientName,
		&appointment.PatientPhone,
		&appointment.HasRecord,
	)
	if err != nil {
		return nil, err
	}
	appointment.AppointmentDate = appointment.AppointmentDate.UTC()
	return &appointment, nil
}

func (r *AppointmentRepo) Create(ctx context.Context, appointment domain.Appointment) (int64, error) {
	query := `
		INSERT INTO appointments (doctor_id, patient_id, appointment_date, appointment_time, status, reason, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRow(ctx, query,
		appointment.DoctorID,
		appointment.PatientID,
		appointment.AppointmentDate,
		appointment.AppointmentTime,
		appointment.Status,
		appointment.Reason,
		time.Now(),
	).Scan(&id)
	if err != nil {
		if database.IsUniqueViolation(err, activeSlotConstraint) {
			return 0, domain.ErrSlotTaken
		}
		return 0, fmt.Errorf("create appointment: %w", err)
	}

	return id, nil
}

func (r *AppointmentRepo) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	appointment, err := scanAppointment(r.db.QueryRow(ctx, appointmentSelect+` WHERE a.id = $1`, id))
	if err != nil {
		return nil, notFound(err, "appointment", id)
	}
	return appointment, nil
}

func appointmentConditions(filter domain.AppointmentFilter) *queryBuilder {
	b := &queryBuilder{}

	if filter.DoctorID != nil {
		b.add("a.doctor_id = $%d", *filter.DoctorID)
	}
	if filter.PatientID != nil {
		b.add("a.patient_id = $%d", *filter.PatientID)
	}
	if filter.Status != nil {
		b.add("a.status = $%d", *filter.Status)
	}
	if filter.StartDate != nil {
		b.add("a.appointment_date >= $%d", *filter.StartDate)
	}
	if filter.EndDate != nil {
		b.add("a.appointment_date <= $%d", *filter.EndDate)
	}

	return b
}

func (r *AppointmentRepo) List(ctx context.Context, filter domain.AppointmentFilter) ([]domain.Appointment, error) {
	b := appointmentConditions(filter)
	where := b.where()
	query := fmt.Sprintf("%s %s ORDER BY a.appointment_date DESC, a.created_at DESC %s", appointmentSelect, where, b.page(filter.Limit, filter.Offset))

	return r.query(ctx, query, b.args...)
}

func (r *AppointmentRepo) CountByFilter(ctx context.Context, filter domain.AppointmentFilter) (int, error) {
	b := appointmentConditions(filter)
	query := fmt.Sprintf("SELECT COUNT(*) FROM appointments a %s", b.where())

	var count int
	if err := r.db.QueryRow(ctx, query, b.args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count appointments: %w", err)
	}
	return count, nil
}

// ListByDoctorAndDate returns every appointment of the doctor on that day,
// cancelled ones included.
func (r *AppointmentRepo) ListByDoctorAndDate(ctx context.Context, doctorID int64, date time.Time) ([]domain.Appointment, error) {
	query := appointmentSelect + ` WHERE a.doctor_id = $1 AND a.appointment_date = $2 ORDER BY a.created_at`
	y, m, d := date.UTC().Date()
	return r.query(ctx, query, doctorID, time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
}

func (r *AppointmentRepo) UpdateStatus(ctx context.Context, id int64, from, to domain.AppointmentStatus) error {
	query := `
		UPDATE appointments
		SET status = $1, updated_at = $2
		WHERE id = $3 AND status = $4
	`

	tag, err := r.db.Exec(ctx, query, to, time.Now(), id, from)
	if err != nil {
		if database.IsUniqueViolation(err, activeSlotConstraint) {
			return domain.ErrSlotTaken
		}
		return fmt.Errorf("update appointment status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrConcurrentUpdate
	}

	return nil
}

func (r *AppointmentRepo) query(ctx context.Context, query string, args ...interface{}) ([]domain.Appointment, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	defer rows.Close()

	appointments := make([]domain.Appointment, 0)
	for rows.Next() {
		appointment, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan appointment: %w", err)
		}
		appointments = append(appointments, *appointment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate appointments: %w", err)
	}

	return appointments, nil
}
