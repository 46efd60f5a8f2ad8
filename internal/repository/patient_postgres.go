package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"medcare/internal/domain"
)

type PatientRepo struct {
	db *pgxpool.Pool
}

func NewPatientRepository(db *pgxpool.Pool) *PatientRepo {
	return &PatientRepo{
		db: db,
	}
}

const patientSelect = `
	SELECT u.id, u.name, u.email, u.phone, u.address, u.date_of_birth, u.gender, u.profile_image, u.is_active,
	       p.blood_group, p.allergies, p.medical_history,
	       p.emergency_contact_name, p.emergency_contact_phone, p.emergency_contact_relation,
	       u.created_at, u.updated_at
	FROM patients p
	JOIN users u ON u.id = p.user_id
`

func scanPatient(row pgx.Row) (*domain.Patient, error) {
	var patient domain.Patient
	err := row.Scan(
		&patient.ID,
		&patient.Name,
		&patient.Email,
		&patient.Phone,
		&patient.Address,
		&patient.DateOfBirth,
		&patient.Gender,
		&patient.ProfileImage,
		&patient.IsActive,
		&patient.BloodGroup,
		&patient.Allergies,
		&patient.MedicalHistory,
		&patient.EmergencyContact.Name,
		&patient.EmergencyContact.Phone,
		&patient.EmergencyContact.Relation,
		&patient.CreatedAt,
		&patient.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if patient.Allergies == nil {
		patient.Allergies = []string{}
	}
	return &patient, nil
}

func (r *PatientRepo) CreateWithUser(ctx context.Context, user domain.CreateUserDTO, profile domain.PatientProfile) (int64, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	user.Role = domain.UserRolePatient
	id, err := insertUser(ctx, tx, user)
	if err != nil {
		return 0, err
	}

	allergies := profile.Allergies
	if allergies == nil {
		allergies = []string{}
	}

	query := `
		INSERT INTO patients (user_id, blood_group, allergies, medical_history,
		                      emergency_contact_name, emergency_contact_phone, emergency_contact_relation)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err = tx.Exec(ctx, query,
		id,
		profile.BloodGroup,
		allergies,
		profile.MedicalHistory,
		profile.EmergencyContact.Name,
		profile.EmergencyContact.Phone,
		profile.EmergencyContact.Relation,
	)
	if err != nil {
		return 0, fmt.Errorf("insert patient profile: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit transaction: %w", err)
	}

	return id, nil
}

func (r *PatientRepo) GetByID(ctx context.Context, id int64) (*domain.Patient, error) {
	patient, err := scanPatient(r.db.QueryRow(ctx, patientSelect+` WHERE p.user_id = $1`, id))
	if err != nil {
		return nil, notFound(err, "patient", id)
	}
	return patient, nil
}

func (r *PatientRepo) Update(ctx context.Context, id int64, dto domain.UpdatePatientDTO) error {
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
	if dto.Address != nil {
		account.set("address", *dto.Address)
	}
	if dto.DateOfBirth != nil {
		if *dto.DateOfBirth == "" {
			account.set("date_of_birth", nil)
		} else {
			birth, err := domain.ParseDate(*dto.DateOfBirth)
			if err != nil {
				return domain.NewValidationError("dateOfBirth", "must be a date in YYYY-MM-DD format")
			}
			account.set("date_of_birth", birth)
		}
	}
	if dto.Gender != nil {
		account.set("gender", *dto.Gender)
	}
	if err := account.exec(ctx, tx, "users", "id", id); err != nil {
		return err
	}

	var profile setBuilder
	if dto.BloodGroup != nil {
		profile.set("blood_group", *dto.BloodGroup)
	}
	if dto.Allergies != nil {
		allergies := *dto.Allergies
		if allergies == nil {
			allergies = []string{}
		}
		profile.set("allergies", allergies)
	}
	if dto.MedicalHistory != nil {
		profile.set("medical_history", *dto.MedicalHistory)
	}
	if dto.EmergencyContact != nil {
		profile.set("emergency_contact_name", dto.EmergencyContact.Name)
		profile.set("emergency_contact_phone", dto.EmergencyContact.Phone)
		profile.set("emergency_contact_relation", dto.EmergencyContact.Relation)
	}
	if !profile.empty() {
		if err := profile.execRaw(ctx, tx, "patients", "user_id", id); err != nil {
			return err
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

func patientConditions(filter domain.PatientFilter) *queryBuilder {
	b := &queryBuilder{}
	if filter.Search != nil && *filter.Search != "" {
		b.add("(u.name ILIKE $%[1]d OR u.email ILIKE $%[1]d OR u.phone ILIKE $%[1]d)", "%"+*filter.Search+"%")
	}
	return b
}

func (r *PatientRepo) List(ctx context.Context, filter domain.PatientFilter) ([]domain.Patient, error) {
	b := patientConditions(filter)
	where := b.where()
	query := fmt.Sprintf("%s %s ORDER BY u.created_at DESC, u.id DESC %s", patientSelect, where, b.page(filter.Limit, filter.Offset))

	rows, err := r.db.Query(ctx, query, b.args...)
	if err != nil {
		return nil, fmt.Errorf("list patients: %w", err)
	}
	defer rows.Close()

	patients := make([]domain.Patient, 0)
	for rows.Next() {
		patient, err := scanPatient(rows)
		if err != nil {
			return nil, fmt.Errorf("scan patient: %w", err)
		}
		patients = append(patients, *patient)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate patients: %w", err)
	}

	return patients, nil
}

func (r *PatientRepo) Count(ctx context.Context, filter domain.PatientFilter) (int, error) {
	b := patientConditions(filter)
	query := fmt.Sprintf("SELECT COUNT(*) FROM patients p JOIN users u ON u.id = p.user_id %s", b.where())

	var count int
	if err := r.db.QueryRow(ctx, query, b.args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count patients: %w", err)
	}
	return count, nil
}
