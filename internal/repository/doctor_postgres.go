package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"medcare/internal/domain"
)

type DoctorRepo struct {
	db *pgxpool.Pool
}

func NewDoctorRepository(db *pgxpool.Pool) *DoctorRepo {
	return &DoctorRepo{
		db: db,
	}
}

const doctorSelect = `
	SELECT u.id, u.name, u.email, u.phone, u.gender, u.profile_image, u.is_active,
	       d.specialization, d.license_number, d.experience, d.consultation_fee, d.department,
	       d.qualifications, d.room_number, d.is_available, d.max_patients_per_day,
	       u.created_at, u.updated_at
	FROM doctors d
	JOIN users u ON u.id = d.user_id
`

func scanDoctor(row pgx.Row) (*domain.Doctor, error) {
	var doctor domain.Doctor
	err := row.Scan(
		&doctor.ID,
		&doctor.Name,
		&doctor.Email,
		&doctor.Phone,
		&doctor.Gender,
		&doctor.ProfileImage,
		&doctor.IsActive,
		&doctor.Specialization,
		&doctor.LicenseNumber,
		&doctor.Experience,
		&doctor.ConsultationFee,
		&doctor.Department,
		&doctor.Qualifications,
		&doctor.RoomNumber,
		&doctor.IsAvailable,
		&doctor.MaxPatientsPerDay,
		&doctor.CreatedAt,
		&doctor.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	doctor.Availability = []domain.WeeklyAvailabilitySlot{}
	return &doctor, nil
}

func (r *DoctorRepo) CreateWithUser(ctx context.Context, user domain.CreateUserDTO, profile domain.DoctorProfile) (int64, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	user.Role = domain.UserRoleDoctor
	id, err := insertUser(ctx, tx, user)
	if err != nil {
		return 0, err
	}

	query := `
		INSERT INTO doctors (user_id, specialization, license_number, experience, consultation_fee, department,
		                     qualifications, room_number, is_available, max_patients_per_day)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err = tx.Exec(ctx, query,
		id,
		profile.Specialization,
		profile.LicenseNumber,
		profile.Experience,
		profile.ConsultationFee,
		profile.Department,
		profile.Qualifications,
		profile.RoomNumber,
		profile.IsAvailable,
		profile.MaxPatientsPerDay,
	)
	if err != nil {
		return 0, fmt.Errorf("insert doctor profile: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit transaction: %w", err)
	}

	return id, nil
}

func (r *DoctorRepo) GetByID(ctx context.Context, id int64) (*domain.Doctor, error) {
	doctor, err := scanDoctor(r.db.QueryRow(ctx, doctorSelect+` WHERE d.user_id = $1`, id))
	if err != nil {
		return nil, notFound(err, "doctor", id)
	}

	availability, err := r.GetAvailability(ctx, id)
	if err != nil {
		return nil, err
	}
	doctor.Availability = availability

	return doctor, nil
}

func doctorConditions(filter domain.DoctorFilter) *queryBuilder {
	b := &queryBuilder{}

	if !filter.IncludeInactive {
		b.conditions = append(b.conditions, "u.is_active = TRUE")
	}
	if filter.OnlyAvailable {
		b.conditions = append(b.conditions, "d.is_available = TRUE")
	}
	if filter.Specialization != nil && *filter.Specialization != "" {
		b.add("d.specialization ILIKE $%d", "%"+*filter.Specialization+"%")
	}
	if filter.Department != nil && *filter.Department != "" {
		b.add("d.department ILIKE $%d", "%"+*filter.Department+"%")
	}
	if filter.Search != nil && *filter.Search != "" {
		b.add("(u.name ILIKE $%[1]d OR d.specialization ILIKE $%[1]d)", "%"+*filter.Search+"%")
	}

	return b
}

func (r *DoctorRepo) List(ctx context.Context, filter domain.DoctorFilter) ([]domain.Doctor, error) {
	b := doctorConditions(filter)
	where := b.where()
	query := fmt.Sprintf("%s %s ORDER BY u.name, u.id %s", doctorSelect, where, b.page(filter.Limit, filter.Offset))

	rows, err := r.db.Query(ctx, query, b.args...)
	if err != nil {
		return nil, fmt.Errorf("list doctors: %w", err)
	}
	defer rows.Close()

	doctors := make([]domain.Doctor, 0)
	ids := make([]int64, 0)
	for rows.Next() {
		doctor, err := scanDoctor(rows)
		if err != nil {
			return nil, fmt.Errorf("scan doctor: %w", err)
		}
		doctors = append(doctors, *doctor)
		ids = append(ids, doctor.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate doctors: %w", err)
	}

	availability, err := r.availabilityFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range doctors {
		if slots, ok := availability[doctors[i].ID]; ok {
			doctors[i].Availability = slots
		}
	}

	return doctors, nil
}

func (r *DoctorRepo) Count(ctx context.Context, filter domain.DoctorFilter) (int, error) {
	b := doctorConditions(filter)
	query := fmt.Sprintf("SELECT COUNT(*) FROM doctors d JOIN users u ON u.id = d.user_id %s", b.where())

	var count int
	if err := r.db.QueryRow(ctx, query, b.args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count doctors: %w", err)
	}
	return count, nil
}

func (r *DoctorRepo) Update(ctx context.Context, id int64, dto domain.UpdateDoctorDTO) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var account setBuilder
	if dto.Name != nil {
		account.set("name", *dto.Name)
	}
	if dto.Phone != nil {
		account.set("phone", *dto.Phone)
	}
	if dto.Gender != nil {
		account.set("gender", *dto.Gender)
	}
	if dto.IsActive != nil {
		account.set("is_active", *dto.IsActive)
	}
	if err := account.exec(ctx, tx, "users", "id", id); err != nil {
		return err
	}

	var profile setBuilder
	if dto.Specialization != nil {
		profile.set("specialization", *dto.Specialization)
	}
	if dto.LicenseNumber != nil {
		profile.set("license_number", *dto.LicenseNumber)
	}
	if dto.Experience != nil {
		profile.set("experience", *dto.Experience)
	}
	if dto.ConsultationFee != nil {
		profile.set("consultation_fee", *dto.ConsultationFee)
	}
	if dto.Department != nil {
		profile.set("department", *dto.Department)
	}
	if dto.Qualifications != nil {
		profile.set("qualifications", *dto.Qualifications)
	}
	if dto.RoomNumber != nil {
		profile.set("room_number", *dto.RoomNumber)
	}
	if dto.IsAvailable != nil {
		profile.set("is_available", *dto.IsAvailable)
	}
	if dto.MaxPatientsPerDay != nil {
		profile.set("max_patients_per_day", *dto.MaxPatientsPerDay)
	}
	if !profile.empty() {
		if err := profile.execRaw(ctx, tx, "doctors", "user_id", id); err != nil {
			return err
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

func (r *DoctorRepo) GetAvailability(ctx context.Context, id int64) ([]domain.WeeklyAvailabilitySlot, error) {
	byDoctor, err := r.availabilityFor(ctx, []int64{id})
	if err != nil {
		return nil, err
	}
	if slots, ok := byDoctor[id]; ok {
		return slots, nil
	}
	return []domain.WeeklyAvailabilitySlot{}, nil
}

func (r *DoctorRepo) availabilityFor(ctx context.Context, ids []int64) (map[int64][]domain.WeeklyAvailabilitySlot, error) {
	result := make(map[int64][]domain.WeeklyAvailabilitySlot, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	query := `
		SELECT doctor_id, day, is_available, start_time, end_time
		FROM doctor_availability
		WHERE doctor_id = ANY($1)
		ORDER BY doctor_id, position
	`

	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("get availability: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var doctorID int64
		var slot domain.WeeklyAvailabilitySlot
		if err := rows.Scan(&doctorID, &slot.Day, &slot.IsAvailable, &slot.StartTime, &slot.EndTime); err != nil {
			return nil, fmt.Errorf("scan availability: %w", err)
		}
		result[doctorID] = append(result[doctorID], slot)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate availability: %w", err)
	}

	return result, nil
}

// ReplaceAvailability swaps the whole weekly schedule, keeping entry order.
func (r *DoctorRepo) ReplaceAvailability(ctx context.Context, id int64, availability []domain.WeeklyAvailabilitySlot) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var exists bool
	err = tx.QueryRow(ctx, `SELECT TRUE FROM doctors WHERE user_id = $1 FOR UPDATE`, id).Scan(&exists)
	if err != nil {
		return notFound(err, "doctor", id)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM doctor_availability WHERE doctor_id = $1`, id); err != nil {
		return fmt.Errorf("clear availability: %w", err)
	}

	rows := make([][]interface{}, 0, len(availability))
	for i, slot := range availability {
		rows = append(rows, []interface{}{id, i, slot.Day, slot.IsAvailable, slot.StartTime, slot.EndTime})
	}

	_, err = tx.CopyFrom(ctx,
		pgx.Identifier{"doctor_availability"},
		[]string{"doctor_id", "position", "day", "is_available", "start_time", "end_time"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return fmt.Errorf("insert availability: %w", err)
	}

	var touch setBuilder
	if err := touch.exec(ctx, tx, "users", "id", id); err != nil {
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}
