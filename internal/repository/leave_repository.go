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

type LeaveRepository struct {
	pool *pgxpool.Pool
}

func NewLeaveRepository(pool *pgxpool.Pool) *LeaveRepository {
	return &LeaveRepository{pool: pool}
}

// Create inserts a new leave schedule.
func (r *LeaveRepository) Create(ctx context.Context, leave *model.LeaveSchedule) error {
	query := `
		INSERT INTO leave_schedules (doctor_id, clinic_schedule_id, date, reason, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`

	err := r.pool.QueryRow(
		ctx, query,
		leave.DoctorID,
		leave.ClinicScheduleID,
		leave.Date,
		leave.Reason,
		leave.Status,
	).Scan(&leave.ID, &leave.CreatedAt, &leave.UpdatedAt)

	if err != nil {
		return fmt.Errorf("create leave schedule: %w", err)
	}

	return nil
}

// GetByID returns a leave schedule by id.
func (r *LeaveRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.LeaveSchedule, error) {
	query := `
		SELECT id, doctor_id, clinic_schedule_id, date, reason, status, created_at, updated_at
		FROM leave_schedules
		WHERE id = $1
	`

	var leave model.LeaveSchedule
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&leave.ID,
		&leave.DoctorID,
		&leave.ClinicScheduleID,
		&leave.Date,
		&leave.Reason,
		&leave.Status,
		&leave.CreatedAt,
		&leave.UpdatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get leave schedule by id: %w", err)
	}

	return &leave, nil
}

// GetByDoctorSlotDate returns the leave record for one (doctor, slot, date)
// combination, regardless of status.
func (r *LeaveRepository) GetByDoctorSlotDate(ctx context.Context, doctorID, scheduleID uuid.UUID, date time.Time) (*model.LeaveSchedule, error) {
	query := `
		SELECT id, doctor_id, clinic_schedule_id, date, reason, status, created_at, updated_at
		FROM leave_schedules
		WHERE doctor_id = $1 AND clinic_schedule_id = $2 AND date = $3
	`

	var leave model.LeaveSchedule
	err := r.pool.QueryRow(ctx, query, doctorID, scheduleID, date).Scan(
		&leave.ID,
		&leave.DoctorID,
		&leave.ClinicScheduleID,
		&leave.Date,
		&leave.Reason,
		&leave.Status,
		&leave.CreatedAt,
		&leave.UpdatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get leave schedule by doctor/slot/date: %w", err)
	}

	return &leave, nil
}

// ListByDoctor returns all leave schedules of a doctor with the slot joined in.
func (r *LeaveRepository) ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]*model.LeaveSchedule, error) {
	query := `
		SELECT l.id, l.doctor_id, l.clinic_schedule_id, l.date, l.reason, l.status, l.created_at, l.updated_at,
		       s.id, s.clinic_id, s.start_time, s.end_time, s.status, s.created_at, s.updated_at
		FROM leave_schedules l
		JOIN clinic_schedules s ON s.id = l.clinic_schedule_id
		WHERE l.doctor_id = $1
		ORDER BY l.date DESC
	`

	rows, err := r.pool.Query(ctx, query, doctorID)
	if err != nil {
		return nil, fmt.Errorf("list leave schedules by doctor: %w", err)
	}
	defer rows.Close()

	var leaves []*model.LeaveSchedule
	for rows.Next() {
		var leave model.LeaveSchedule
		var schedule model.ClinicSchedule
		err := rows.Scan(
			&leave.ID,
			&leave.DoctorID,
			&leave.ClinicScheduleID,
			&leave.Date,
			&leave.Reason,
			&leave.Status,
			&leave.CreatedAt,
			&leave.UpdatedAt,
			&schedule.ID,
			&schedule.ClinicID,
			&schedule.StartTime,
			&schedule.EndTime,
			&schedule.Status,
			&schedule.CreatedAt,
			&schedule.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan leave schedule: %w", err)
		}
		leave.Schedule = &schedule
		leaves = append(leaves, &leave)
	}

	return leaves, nil
}

// UpdateStatus toggles a leave schedule active or inactive.
func (r *LeaveRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.ActiveStatus) error {
	query := `
		UPDATE leave_schedules
		SET status = $1, updated_at = now()
		WHERE id = $2
	`

	result, err := r.pool.Exec(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("update leave schedule status: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("leave schedule not found")
	}

	return nil
}

// Delete removes a leave schedule.
func (r *LeaveRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM leave_schedules WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete leave schedule: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("leave schedule not found")
	}

	return nil
}

// HasActive reports whether the doctor has an active leave for the slot and
// date.
func (r *LeaveRepository) HasActive(ctx context.Context, doctorID, scheduleID uuid.UUID, date time.Time) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM leave_schedules
			WHERE doctor_id = $1 AND clinic_schedule_id = $2 AND date = $3 AND status = $4
		)
	`

	var exists bool
	err := r.pool.QueryRow(ctx, query, doctorID, scheduleID, date, model.StatusActive).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check active leave: %w", err)
	}

	return exists, nil
}

// CountActiveBySchedule counts the doctors on active leave for one slot and
// date.
func (r *LeaveRepository) CountActiveBySchedule(ctx context.Context, scheduleID uuid.UUID, date time.Time) (int, error) {
	query := `
		SELECT COUNT(DISTINCT doctor_id) FROM leave_schedules
		WHERE clinic_schedule_id = $1 AND date = $2 AND status = $3
	`

	var count int
	err := r.pool.QueryRow(ctx, query, scheduleID, date, model.StatusActive).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count active leaves: %w", err)
	}

	return count, nil
}

// ActiveDoctorIDsByDate returns the doctors with any active leave on a date,
// across all slots.
func (r *LeaveRepository) ActiveDoctorIDsByDate(ctx context.Context, date time.Time) ([]uuid.UUID, error) {
	query := `
		SELECT DISTINCT doctor_id FROM leave_schedules
		WHERE date = $1 AND status = $2
	`

	rows, err := r.pool.Query(ctx, query, date, model.StatusActive)
	if err != nil {
		return nil, fmt.Errorf("list doctors on leave: %w", err)
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
