package repository

import (
	"context"
	"fmt"

	"github.com/clinichub/clinic-booking/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ScheduleRepository struct {
	pool *pgxpool.Pool
}

func NewScheduleRepository(pool *pgxpool.Pool) *ScheduleRepository {
	return &ScheduleRepository{pool: pool}
}

// Create inserts a new clinic schedule slot.
func (r *ScheduleRepository) Create(ctx context.Context, schedule *model.ClinicSchedule) error {
	query := `
		INSERT INTO clinic_schedules (clinic_id, start_time, end_time, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`

	err := r.pool.QueryRow(
		ctx, query,
		schedule.ClinicID,
		schedule.StartTime,
		schedule.EndTime,
		schedule.Status,
	).Scan(&schedule.ID, &schedule.CreatedAt, &schedule.UpdatedAt)

	if err != nil {
		return fmt.Errorf("create clinic schedule: %w", err)
	}

	return nil
}

// GetByID returns a clinic schedule slot by id.
func (r *ScheduleRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.ClinicSchedule, error) {
	query := `
		SELECT id, clinic_id, start_time, end_time, status, created_at, updated_at
		FROM clinic_schedules
		WHERE id = $1
	`

	var schedule model.ClinicSchedule
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&schedule.ID,
		&schedule.ClinicID,
		&schedule.StartTime,
		&schedule.EndTime,
		&schedule.Status,
		&schedule.CreatedAt,
		&schedule.UpdatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get clinic schedule by id: %w", err)
	}

	return &schedule, nil
}

// ListByClinic returns a clinic's schedule slots, optionally active only.
func (r *ScheduleRepository) ListByClinic(ctx context.Context, clinicID uuid.UUID, activeOnly bool) ([]*model.ClinicSchedule, error) {
	query := `
		SELECT id, clinic_id, start_time, end_time, status, created_at, updated_at
		FROM clinic_schedules
		WHERE clinic_id = $1
	`
	args := []interface{}{clinicID}
	if activeOnly {
		query += ` AND status = $2`
		args = append(args, model.StatusActive)
	}
	query += ` ORDER BY start_time`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list clinic schedules: %w", err)
	}
	defer rows.Close()

	var schedules []*model.ClinicSchedule
	for rows.Next() {
		var schedule model.ClinicSchedule
		err := rows.Scan(
			&schedule.ID,
			&schedule.ClinicID,
			&schedule.StartTime,
			&schedule.EndTime,
			&schedule.Status,
			&schedule.CreatedAt,
			&schedule.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan clinic schedule: %w", err)
		}
		schedules = append(schedules, &schedule)
	}

	return schedules, nil
}

// UpdateTimes changes a slot's start and end times.
func (r *ScheduleRepository) UpdateTimes(ctx context.Context, id uuid.UUID, startTime, endTime string) error {
	query := `
		UPDATE clinic_schedules
		SET start_time = $1, end_time = $2, updated_at = now()
		WHERE id = $3
	`

	result, err := r.pool.Exec(ctx, query, startTime, endTime, id)
	if err != nil {
		return fmt.Errorf("update clinic schedule times: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("clinic schedule not found")
	}

	return nil
}

// UpdateStatus toggles a slot active or inactive.
func (r *ScheduleRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.ActiveStatus) error {
	query := `
		UPDATE clinic_schedules
		SET status = $1, updated_at = now()
		WHERE id = $2
	`

	result, err := r.pool.Exec(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("update clinic schedule status: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("clinic schedule not found")
	}

	return nil
}

// Delete removes a slot together with the working-schedule links that
// reference it.
func (r *ScheduleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM doctor_working_schedules WHERE clinic_schedule_id = $1`, id); err != nil {
		return fmt.Errorf("delete working schedule links: %w", err)
	}

	result, err := tx.Exec(ctx, `DELETE FROM clinic_schedules WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete clinic schedule: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("clinic schedule not found")
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

// SetClinicActiveSet activates the given slots for a clinic and deactivates
// all its others in one transaction.
func (r *ScheduleRepository) SetClinicActiveSet(ctx context.Context, clinicID uuid.UUID, activeIDs []uuid.UUID) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `UPDATE clinic_schedules SET status = $1, updated_at = now() WHERE clinic_id = $2`
	if _, err := tx.Exec(ctx, query, model.StatusInactive, clinicID); err != nil {
		return fmt.Errorf("deactivate clinic schedules: %w", err)
	}

	query = `UPDATE clinic_schedules SET status = $1, updated_at = now() WHERE clinic_id = $2 AND id = ANY($3)`
	if _, err := tx.Exec(ctx, query, model.StatusActive, clinicID, activeIDs); err != nil {
		return fmt.Errorf("activate clinic schedules: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

// ReplaceWorkingSchedules replaces a doctor's working-schedule links with the
// given slot set. The whole bulk write runs in one transaction.
func (r *ScheduleRepository) ReplaceWorkingSchedules(ctx context.Context, doctorID uuid.UUID, scheduleIDs []uuid.UUID) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM doctor_working_schedules WHERE doctor_id = $1`, doctorID); err != nil {
		return fmt.Errorf("clear working schedules: %w", err)
	}

	query := `INSERT INTO doctor_working_schedules (doctor_id, clinic_schedule_id) VALUES ($1, $2)`
	for _, scheduleID := range scheduleIDs {
		if _, err := tx.Exec(ctx, query, doctorID, scheduleID); err != nil {
			return fmt.Errorf("insert working schedule: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

// ListWorkingSchedulesByDoctor returns a doctor's working-schedule links with
// the slot data joined in.
func (r *ScheduleRepository) ListWorkingSchedulesByDoctor(ctx context.Context, doctorID uuid.UUID) ([]*model.DoctorWorkingSchedule, error) {
	query := `
		SELECT w.id, w.doctor_id, w.clinic_schedule_id, w.created_at,
		       s.id, s.clinic_id, s.start_time, s.end_time, s.status, s.created_at, s.updated_at
		FROM doctor_working_schedules w
		JOIN clinic_schedules s ON s.id = w.clinic_schedule_id
		WHERE w.doctor_id = $1
		ORDER BY s.start_time
	`

	rows, err := r.pool.Query(ctx, query, doctorID)
	if err != nil {
		return nil, fmt.Errorf("list working schedules: %w", err)
	}
	defer rows.Close()

	var links []*model.DoctorWorkingSchedule
	for rows.Next() {
		var link model.DoctorWorkingSchedule
		var schedule model.ClinicSchedule
		err := rows.Scan(
			&link.ID,
			&link.DoctorID,
			&link.ClinicScheduleID,
			&link.CreatedAt,
			&schedule.ID,
			&schedule.ClinicID,
			&schedule.StartTime,
			&schedule.EndTime,
			&schedule.Status,
			&schedule.CreatedAt,
			&schedule.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan working schedule: %w", err)
		}
		link.Schedule = &schedule
		links = append(links, &link)
	}

	return links, nil
}
