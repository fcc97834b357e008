package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/clinichub/clinic-booking/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type RequestChangeRepository struct {
	pool *pgxpool.Pool
}

func NewRequestChangeRepository(pool *pgxpool.Pool) *RequestChangeRepository {
	return &RequestChangeRepository{pool: pool}
}

// Create inserts a new schedule-change request.
func (r *RequestChangeRepository) Create(ctx context.Context, req *model.RequestChangeSchedule) error {
	query := `
		INSERT INTO request_change_schedules (name, clinic_id, apply_date, new_value)
		VALUES ($1, $2, $3, $4)
		RETURNING id, applied, created_at, updated_at
	`

	err := r.pool.QueryRow(
		ctx, query,
		req.Name,
		req.ClinicID,
		req.ApplyDate,
		req.NewValue,
	).Scan(&req.ID, &req.Applied, &req.CreatedAt, &req.UpdatedAt)

	if err != nil {
		return fmt.Errorf("create request change schedule: %w", err)
	}

	return nil
}

// ListDue returns unapplied requests whose apply date has been reached.
func (r *RequestChangeRepository) ListDue(ctx context.Context, now time.Time) ([]*model.RequestChangeSchedule, error) {
	query := `
		SELECT id, name, clinic_id, apply_date, new_value, applied, created_at, updated_at
		FROM request_change_schedules
		WHERE applied = false AND apply_date <= $1
		ORDER BY apply_date
	`

	rows, err := r.pool.Query(ctx, query, now)
	if err != nil {
		return nil, fmt.Errorf("list due request changes: %w", err)
	}
	defer rows.Close()

	var requests []*model.RequestChangeSchedule
	for rows.Next() {
		var req model.RequestChangeSchedule
		err := rows.Scan(
			&req.ID,
			&req.Name,
			&req.ClinicID,
			&req.ApplyDate,
			&req.NewValue,
			&req.Applied,
			&req.CreatedAt,
			&req.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan request change: %w", err)
		}
		requests = append(requests, &req)
	}

	return requests, nil
}

// MarkApplied flags a request as applied.
func (r *RequestChangeRepository) MarkApplied(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE request_change_schedules SET applied = true, updated_at = now() WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("mark request change applied: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("request change not found")
	}

	return nil
}

// ListByClinic returns all schedule-change requests of a clinic.
func (r *RequestChangeRepository) ListByClinic(ctx context.Context, clinicID uuid.UUID) ([]*model.RequestChangeSchedule, error) {
	query := `
		SELECT id, name, clinic_id, apply_date, new_value, applied, created_at, updated_at
		FROM request_change_schedules
		WHERE clinic_id = $1
		ORDER BY apply_date DESC
	`

	rows, err := r.pool.Query(ctx, query, clinicID)
	if err != nil {
		return nil, fmt.Errorf("list request changes by clinic: %w", err)
	}
	defer rows.Close()

	var requests []*model.RequestChangeSchedule
	for rows.Next() {
		var req model.RequestChangeSchedule
		err := rows.Scan(
			&req.ID,
			&req.Name,
			&req.ClinicID,
			&req.ApplyDate,
			&req.NewValue,
			&req.Applied,
			&req.CreatedAt,
			&req.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan request change: %w", err)
		}
		requests = append(requests, &req)
	}

	return requests, nil
}
