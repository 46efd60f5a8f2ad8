package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"medcare/internal/domain"
)

type MedicalRecordRepo struct {
	db *pgxpool.Pool
}

func NewMedicalRecordRepository(db *pgxpool.Pool) *MedicalRecordRepo {
	return &MedicalRecordRepo{
		db: db,
	}
}

const medicalRecordSelect = `
	SELECT mr.id, mr.patient_id, mr.doctor_id, mr.appointment_id, mr.diagnosis, mr.symptoms, mr.prescription,
	       mr.tests_recommended, mr.notes, mr.created_at, mr.updated_at,
	       du.name, pu.name, a.appointment_date
	FROM medical_records mr
	JOIN users du ON du.id = mr.doctor_id
	JOIN users pu ON pu.id = mr.patient_id
	JOIN appointments a ON a.id = mr.appointment_id
`

func scanMedicalRecord(row pgx.Row) (*domain.MedicalRecord, error) {
	var record domain.MedicalRecord
	var prescription []byte
	var appointmentDate time.Time

	err := row.Scan(
		&record.ID,
		&record.PatientID,
		&record.DoctorID,
		&record.AppointmentID,
		&record.Diagnosis,
		&record.Symptoms,
		&prescription,
		&record.TestsRecommended,
		&record.Notes,
		&record.CreatedAt,
		&record.UpdatedAt,
		&record.DoctorName,
		&record.PatientName,
		&appointmentDate,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(prescription, &record.Prescription); err != nil {
		return nil, fmt.Errorf("decode prescription: %w", err)
	}

	appointmentDate = appointmentDate.UTC()
	record.AppointmentDate = &appointmentDate
	if record.Symptoms == nil {
		record.Symptoms = []string{}
	}
	if record.TestsRecommended == nil {
		record.TestsRecommended = []string{}
	}
	if record.Prescription == nil {
		record.Prescription = []domain.Prescription{}
	}

	return &record, nil
}

func encodePrescription(p []domain.Prescription) (string, error) {
	if p == nil {
		p = []domain.Prescription{}
	}
	data, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("encode prescription: %w", err)
	}
	return string(data), nil
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

// Save moves the appointment from one status to another and upserts the
// record keyed by appointment in a single transaction. A second save for the
// same appointment overwrites the clinical content.
func (r *MedicalRecordRepo) Save(ctx context.Context, record domain.MedicalRecord, from, to domain.AppointmentStatus) (int64, error) {
	prescription, err := encodePrescription(record.Prescription)
	if err != nil {
		return 0, err
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`UPDATE appointments SET status = $1, updated_at = $2 WHERE id = $3 AND status = $4`,
		to, time.Now(), record.AppointmentID, from,
	)
	if err != nil {
		return 0, fmt.Errorf("update appointment status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return 0, domain.ErrConcurrentUpdate
	}

	query := `
		INSERT INTO medical_records (patient_id, doctor_id, appointment_id, diagnosis, symptoms, prescription,
		                             tests_recommended, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6::jsonb, $7, $8, $9, $9)
		ON CONFLICT (appointment_id) DO UPDATE SET
			diagnosis = EXCLUDED.diagnosis,
			symptoms = EXCLUDED.symptoms,
			prescription = EXCLUDED.prescription,
			tests_recommended = EXCLUDED.tests_recommended,
			notes = EXCLUDED.notes,
			updated_at = EXCLUDED.updated_at
		RETURNING id
	`

	var id int64
	err = tx.QueryRow(ctx, query,
		record.PatientID,
		record.DoctorID,
		record.AppointmentID,
		record.Diagnosis,
		nonNil(record.Symptoms),
		prescription,
		nonNil(record.TestsRecommended),
		record.Notes,
		time.Now(),
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("save medical record: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit transaction: %w", err)
	}

	return id, nil
}

func (r *MedicalRecordRepo) GetByID(ctx context.Context, id int64) (*domain.MedicalRecord, error) {
	record, err := scanMedicalRecord(r.db.QueryRow(ctx, medicalRecordSelect+` WHERE mr.id = $1`, id))
	if err != nil {
		return nil, notFound(err, "medical record", id)
	}
	return record, nil
}

func (r *MedicalRecordRepo) GetByAppointmentID(ctx context.Context, appointmentID int64) (*domain.MedicalRecord, error) {
	record, err := scanMedicalRecord(r.db.QueryRow(ctx, medicalRecordSelect+` WHERE mr.appointment_id = $1`, appointmentID))
	if err != nil {
		return nil, notFound(err, "medical record for appointment", appointmentID)
	}
	return record, nil
}

func (r *MedicalRecordRepo) Update(ctx context.Context, id int64, content domain.MedicalRecordContent) error {
	prescription, err := encodePrescription(content.Prescription)
	if err != nil {
		return err
	}

	query := `
		UPDATE medical_records
		SET diagnosis = $1, symptoms = $2, prescription = $3::jsonb, tests_recommended = $4, notes = $5, updated_at = $6
		WHERE id = $7
	`

	tag, err := r.db.Exec(ctx, query,
		content.Diagnosis,
		nonNil(content.Symptoms),
		prescription,
		nonNil(content.TestsRecommended),
		content.Notes,
		time.Now(),
		id,
	)
	if err != nil {
		return fmt.Errorf("update medical record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("medical record %d: %w", id, domain.ErrNotFound)
	}

	return nil
}

func medicalRecordConditions(filter domain.MedicalRecordFilter) *queryBuilder {
	b := &queryBuilder{}
	if filter.DoctorID != nil {
		b.add("mr.doctor_id = $%d", *filter.DoctorID)
	}
	if filter.PatientID != nil {
		b.add("mr.patient_id = $%d", *filter.PatientID)
	}
	return b
}

func (r *MedicalRecordRepo) List(ctx context.Context, filter domain.MedicalRecordFilter) ([]domain.MedicalRecord, error) {
	b := medicalRecordConditions(filter)
	where := b.where()
	query := fmt.Sprintf("%s %s ORDER BY mr.created_at DESC, mr.id DESC %s", medicalRecordSelect, where, b.page(filter.Limit, filter.Offset))

	rows, err := r.db.Query(ctx, query, b.args...)
	if err != nil {
		return nil, fmt.Errorf("list medical records: %w", err)
	}
	defer rows.Close()

	records := make([]domain.MedicalRecord, 0)
	for rows.Next() {
		record, err := scanMedicalRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan medical record: %w", err)
		}
		records = append(records, *record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate medical records: %w", err)
	}

	return records, nil
}

func (r *MedicalRecordRepo) Count(ctx context.Context, filter domain.MedicalRecordFilter) (int, error) {
	b := medicalRecordConditions(filter)
	query := fmt.Sprintf("SELECT COUNT(*) FROM medical_records mr %s", b.where())

	var count int
	if err := r.db.QueryRow(ctx, query, b.args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count medical records: %w", err)
	}
	return count, nil
}
