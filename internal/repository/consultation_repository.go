package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/clinichub/clinic-booking/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ConsultationRepository struct {
	pool *pgxpool.Pool
}

func NewConsultationRepository(pool *pgxpool.Pool) *ConsultationRepository {
	return &ConsultationRepository{pool: pool}
}

const consultationColumns = `id, code, patient_id, responsibility_doctor_id, clinic_id, clinic_schedule_id, medical_service_id,
	examination_date, examination_reason, patient_status, diagnosis, re_examinate_date, note_from_doctor,
	medical_fee, medical_service_name, payment_method, payment_status, status,
	patient_name, patient_gender, patient_phone_number, patient_email, patient_date_of_birth,
	patient_province, patient_district, patient_address, created_at, updated_at`

func scanConsultation(row pgx.Row) (*model.Consultation, error) {
	var c model.Consultation
	err := row.Scan(
		&c.ID,
		&c.Code,
		&c.PatientID,
		&c.ResponsibilityDoctorID,
		&c.ClinicID,
		&c.ClinicScheduleID,
		&c.MedicalServiceID,
		&c.ExaminationDate,
		&c.ExaminationReason,
		&c.PatientStatus,
		&c.Diagnosis,
		&c.ReExaminateDate,
		&c.NoteFromDoctor,
		&c.MedicalFee,
		&c.MedicalServiceName,
		&c.PaymentMethod,
		&c.PaymentStatus,
		&c.Status,
		&c.PatientName,
		&c.PatientGender,
		&c.PatientPhoneNumber,
		&c.PatientEmail,
		&c.PatientDateOfBirth,
		&c.PatientProvince,
		&c.PatientDistrict,
		&c.PatientAddress,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Create inserts a new consultation. The id and code are assigned by the
// caller so the code can be derived from the id before the write.
func (r *ConsultationRepository) Create(ctx context.Context, c *model.Consultation) error {
	query := `
		INSERT INTO consultations (id, code, patient_id, responsibility_doctor_id, clinic_id, clinic_schedule_id, medical_service_id,
			examination_date, examination_reason, patient_status, diagnosis, re_examinate_date, note_from_doctor,
			medical_fee, medical_service_name, payment_method, payment_status, status,
			patient_name, patient_gender, patient_phone_number, patient_email, patient_date_of_birth,
			patient_province, patient_district, patient_address)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26)
		RETURNING created_at, updated_at
	`

	err := r.pool.QueryRow(
		ctx, query,
		c.ID,
		c.Code,
		c.PatientID,
		c.ResponsibilityDoctorID,
		c.ClinicID,
		c.ClinicScheduleID,
		c.MedicalServiceID,
		c.ExaminationDate,
		c.ExaminationReason,
		c.PatientStatus,
		c.Diagnosis,
		c.ReExaminateDate,
		c.NoteFromDoctor,
		c.MedicalFee,
		c.MedicalServiceName,
		c.PaymentMethod,
		c.PaymentStatus,
		c.Status,
		c.PatientName,
		c.PatientGender,
		c.PatientPhoneNumber,
		c.PatientEmail,
		c.PatientDateOfBirth,
		c.PatientProvince,
		c.PatientDistrict,
		c.PatientAddress,
	).Scan(&c.CreatedAt, &c.UpdatedAt)

	if err != nil {
		return fmt.Errorf("create consultation: %w", err)
	}

	return nil
}

// GetByID returns a consultation by id.
func (r *ConsultationRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Consultation, error) {
	query := `SELECT ` + consultationColumns + ` FROM consultations WHERE id = $1`

	c, err := scanConsultation(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get consultation by id: %w", err)
	}

	return c, nil
}

// Update rewrites the mutable fields of a consultation.
func (r *ConsultationRepository) Update(ctx context.Context, c *model.Consultation) error {
	query := `
		UPDATE consultations
		SET patient_id = $1, responsibility_doctor_id = $2, clinic_id = $3, clinic_schedule_id = $4, medical_service_id = $5,
			examination_date = $6, examination_reason = $7, patient_status = $8, diagnosis = $9, re_examinate_date = $10,
			note_from_doctor = $11, medical_fee = $12, medical_service_name = $13, payment_method = $14, payment_status = $15,
			status = $16, patient_name = $17, patient_gender = $18, patient_phone_number = $19, patient_email = $20,
			patient_date_of_birth = $21, patient_province = $22, patient_district = $23, patient_address = $24,
			updated_at = now()
		WHERE id = $25
		RETURNING updated_at
	`

	err := r.pool.QueryRow(
		ctx, query,
		c.PatientID,
		c.ResponsibilityDoctorID,
		c.ClinicID,
		c.ClinicScheduleID,
		c.MedicalServiceID,
		c.ExaminationDate,
		c.ExaminationReason,
		c.PatientStatus,
		c.Diagnosis,
		c.ReExaminateDate,
		c.NoteFromDoctor,
		c.MedicalFee,
		c.MedicalServiceName,
		c.PaymentMethod,
		c.PaymentStatus,
		c.Status,
		c.PatientName,
		c.PatientGender,
		c.PatientPhoneNumber,
		c.PatientEmail,
		c.PatientDateOfBirth,
		c.PatientProvince,
		c.PatientDistrict,
		c.PatientAddress,
		c.ID,
	).Scan(&c.UpdatedAt)

	if err != nil {
		if err == pgx.ErrNoRows {
			return fmt.Errorf("consultation not found")
		}
		return fmt.Errorf("update consultation: %w", err)
	}

	return nil
}

// UpdateStatus moves a consultation to a new lifecycle status.
func (r *ConsultationRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.ConsultationStatus) error {
	query := `UPDATE consultations SET status = $1, updated_at = now() WHERE id = $2`

	result, err := r.pool.Exec(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("update consultation status: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("consultation not found")
	}

	return nil
}

// Delete removes a consultation.
func (r *ConsultationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM consultations WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete consultation: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("consultation not found")
	}

	return nil
}

func buildFilter(filter model.ConsultationFilter) (string, []interface{}) {
	where := ""
	var args []interface{}
	add := func(clause string, arg interface{}) {
		args = append(args, arg)
		if where == "" {
			where = "WHERE "
		} else {
			where += " AND "
		}
		where += fmt.Sprintf(clause, len(args))
	}

	if filter.PatientID != nil {
		add("patient_id = $%d", *filter.PatientID)
	}
	if filter.ClinicID != nil {
		add("clinic_id = $%d", *filter.ClinicID)
	}
	if filter.DoctorID != nil {
		add("responsibility_doctor_id = $%d", *filter.DoctorID)
	}
	if filter.Status != nil {
		add("status = $%d", *filter.Status)
	}
	if filter.DateFrom != nil {
		add("examination_date >= $%d", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		add("examination_date <= $%d", *filter.DateTo)
	}

	return where, args
}

// List returns a page of consultations matching the filter, newest first.
func (r *ConsultationRepository) List(ctx context.Context, filter model.ConsultationFilter, limit, offset int) ([]*model.Consultation, error) {
	where, args := buildFilter(filter)
	args = append(args, limit, offset)
	query := fmt.Sprintf(
		`SELECT %s FROM consultations %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		consultationColumns, where, len(args)-1, len(args),
	)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list consultations: %w", err)
	}
	defer rows.Close()

	var consultations []*model.Consultation
	for rows.Next() {
		c, err := scanConsultation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan consultation: %w", err)
		}
		consultations = append(consultations, c)
	}

	return consultations, nil
}

// Count counts the consultations matching the filter.
func (r *ConsultationRepository) Count(ctx context.Context, filter model.ConsultationFilter) (int64, error) {
	where, args := buildFilter(filter)
	query := fmt.Sprintf(`SELECT COUNT(*) FROM consultations %s`, where)

	var count int64
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count consultations: %w", err)
	}

	return count, nil
}

// CountActiveBySchedule counts the non-canceled consultations for one
// clinic/slot/date combination.
func (r *ConsultationRepository) CountActiveBySchedule(ctx context.Context, clinicID, scheduleID uuid.UUID, date time.Time) (int, error) {
	query := `
		SELECT COUNT(*) FROM consultations
		WHERE clinic_id = $1 AND clinic_schedule_id = $2 AND examination_date = $3 AND status <> $4
	`

	var count int
	err := r.pool.QueryRow(ctx, query, clinicID, scheduleID, date, model.ConsultationCanceled).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count consultations by schedule: %w", err)
	}

	return count, nil
}

// DoctorHasActive reports whether the doctor already holds a non-canceled
// consultation for the clinic/slot/date. excludeID skips the record being
// mutated; pass uuid.Nil when creating.
func (r *ConsultationRepository) DoctorHasActive(ctx context.Context, doctorID, clinicID, scheduleID uuid.UUID, date time.Time, excludeID uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM consultations
			WHERE responsibility_doctor_id = $1 AND clinic_id = $2 AND clinic_schedule_id = $3
			  AND examination_date = $4 AND status <> $5 AND id <> $6
		)
	`

	var exists bool
	err := r.pool.QueryRow(ctx, query, doctorID, clinicID, scheduleID, date, model.ConsultationCanceled, excludeID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check doctor consultation: %w", err)
	}

	return exists, nil
}

// PatientHasActive reports whether the patient already holds a non-canceled
// consultation for the clinic/slot/date.
func (r *ConsultationRepository) PatientHasActive(ctx context.Context, patientID, clinicID, scheduleID uuid.UUID, date time.Time) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM consultations
			WHERE patient_id = $1 AND clinic_id = $2 AND clinic_schedule_id = $3
			  AND examination_date = $4 AND status <> $5
		)
	`

	var exists bool
	err := r.pool.QueryRow(ctx, query, patientID, clinicID, scheduleID, date, model.ConsultationCanceled).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check patient consultation: %w", err)
	}

	return exists, nil
}

// ListActiveByPatientAndDate returns the patient's non-canceled consultations
// on a date, across all clinics, with the slot joined in for time comparison.
func (r *ConsultationRepository) ListActiveByPatientAndDate(ctx context.Context, patientID uuid.UUID, date time.Time) ([]*model.Consultation, error) {
	query := `
		SELECT c.id, c.code, c.patient_id, c.responsibility_doctor_id, c.clinic_id, c.clinic_schedule_id, c.medical_service_id,
			c.examination_date, c.examination_reason, c.patient_status, c.diagnosis, c.re_examinate_date, c.note_from_doctor,
			c.medical_fee, c.medical_service_name, c.payment_method, c.payment_status, c.status,
			c.patient_name, c.patient_gender, c.patient_phone_number, c.patient_email, c.patient_date_of_birth,
			c.patient_province, c.patient_district, c.patient_address, c.created_at, c.updated_at,
			s.id, s.clinic_id, s.start_time, s.end_time, s.status, s.created_at, s.updated_at
		FROM consultations c
		JOIN clinic_schedules s ON s.id = c.clinic_schedule_id
		WHERE c.patient_id = $1 AND c.examination_date = $2 AND c.status <> $3
	`

	rows, err := r.pool.Query(ctx, query, patientID, date, model.ConsultationCanceled)
	if err != nil {
		return nil, fmt.Errorf("list consultations by patient and date: %w", err)
	}
	defer rows.Close()

	var consultations []*model.Consultation
	for rows.Next() {
		var c model.Consultation
		var s model.ClinicSchedule
		err := rows.Scan(
			&c.ID,
			&c.Code,
			&c.PatientID,
			&c.ResponsibilityDoctorID,
			&c.ClinicID,
			&c.ClinicScheduleID,
			&c.MedicalServiceID,
			&c.ExaminationDate,
			&c.ExaminationReason,
			&c.PatientStatus,
			&c.Diagnosis,
			&c.ReExaminateDate,
			&c.NoteFromDoctor,
			&c.MedicalFee,
			&c.MedicalServiceName,
			&c.PaymentMethod,
			&c.PaymentStatus,
			&c.Status,
			&c.PatientName,
			&c.PatientGender,
			&c.PatientPhoneNumber,
			&c.PatientEmail,
			&c.PatientDateOfBirth,
			&c.PatientProvince,
			&c.PatientDistrict,
			&c.PatientAddress,
			&c.CreatedAt,
			&c.UpdatedAt,
			&s.ID,
			&s.ClinicID,
			&s.StartTime,
			&s.EndTime,
			&s.Status,
			&s.CreatedAt,
			&s.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan consultation: %w", err)
		}
		c.Schedule = &s
		consultations = append(consultations, &c)
	}

	return consultations, nil
}

// BookedDoctorIDs returns the doctors with a non-canceled consultation for
// the clinic/service/slot/date combination.
func (r *ConsultationRepository) BookedDoctorIDs(ctx context.Context, clinicID, medicalServiceID, scheduleID uuid.UUID, date time.Time) ([]uuid.UUID, error) {
	query := `
		SELECT DISTINCT responsibility_doctor_id FROM consultations
		WHERE clinic_id = $1 AND medical_service_id = $2 AND clinic_schedule_id = $3
		  AND examination_date = $4 AND status <> $5 AND responsibility_doctor_id IS NOT NULL
	`

	rows, err := r.pool.Query(ctx, query, clinicID, medicalServiceID, scheduleID, date, model.ConsultationCanceled)
	if err != nil {
		return nil, fmt.Errorf("list booked doctors: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan doctor id: %w", err)
		}
		ids = append(ids, id)
	}

	return ids, nil
}
