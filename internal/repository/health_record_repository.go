package repository

import (
	"context"
	"fmt"

	"github.com/clinichub/clinic-booking/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type HealthRecordRepository struct {
	pool *pgxpool.Pool
}

func NewHealthRecordRepository(pool *pgxpool.Pool) *HealthRecordRepository {
	return &HealthRecordRepository{pool: pool}
}

// Create inserts an empty record for a user.
func (r *HealthRecordRepository) Create(ctx context.Context, record *model.HealthRecord) error {
	query := `
		INSERT INTO health_records (user_id, blood_type, height, weight, health_history)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`

	err := r.pool.QueryRow(
		ctx, query,
		record.UserID,
		record.BloodType,
		record.Height,
		record.Weight,
		record.HealthHistory,
	).Scan(&record.ID, &record.CreatedAt, &record.UpdatedAt)

	if err != nil {
		return fmt.Errorf("create health record: %w", err)
	}

	return nil
}

// GetByUser returns the record of one user.
func (r *HealthRecordRepository) GetByUser(ctx context.Context, userID uuid.UUID) (*model.HealthRecord, error) {
	query := `
		SELECT id, user_id, blood_type, height, weight, health_history, created_at, updated_at
		FROM health_records
		WHERE user_id = $1
	`

	var record model.HealthRecord
	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&record.ID,
		&record.UserID,
		&record.BloodType,
		&record.Height,
		&record.Weight,
		&record.HealthHistory,
		&record.CreatedAt,
		&record.UpdatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get health record by user: %w", err)
	}

	return &record, nil
}

// Update rewrites the medical fields of a record.
func (r *HealthRecordRepository) Update(ctx context.Context, record *model.HealthRecord) error {
	query := `
		UPDATE health_records
		SET blood_type = $2, height = $3, weight = $4, health_history = $5, updated_at = NOW()
		WHERE user_id = $1
		RETURNING updated_at
	`

	err := r.pool.QueryRow(
		ctx, query,
		record.UserID,
		record.BloodType,
		record.Height,
		record.Weight,
		record.HealthHistory,
	).Scan(&record.UpdatedAt)

	if err != nil {
		return fmt.Errorf("update health record: %w", err)
	}

	return nil
}
