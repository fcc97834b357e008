package repository

import (
	"context"
	"fmt"

	"github.com/clinichub/clinic-booking/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type MedicalServiceRepository struct {
	pool *pgxpool.Pool
}

func NewMedicalServiceRepository(pool *pgxpool.Pool) *MedicalServiceRepository {
	return &MedicalServiceRepository{pool: pool}
}

// Create inserts a new medical service.
func (r *MedicalServiceRepository) Create(ctx context.Context, svc *model.MedicalService) error {
	query := `
		INSERT INTO medical_services (name, original_price, current_price, type, clinic_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`

	err := r.pool.QueryRow(
		ctx, query,
		svc.Name,
		svc.OriginalPrice,
		svc.CurrentPrice,
		svc.Type,
		svc.ClinicID,
	).Scan(&svc.ID, &svc.CreatedAt, &svc.UpdatedAt)

	if err != nil {
		return fmt.Errorf("create medical service: %w", err)
	}

	return nil
}

// GetByID returns a medical service by id.
func (r *MedicalServiceRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.MedicalService, error) {
	query := `
		SELECT id, name, original_price, current_price, type, clinic_id, created_at, updated_at
		FROM medical_services
		WHERE id = $1
	`

	var svc model.MedicalService
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&svc.ID,
		&svc.Name,
		&svc.OriginalPrice,
		&svc.CurrentPrice,
		&svc.Type,
		&svc.ClinicID,
		&svc.CreatedAt,
		&svc.UpdatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get medical service by id: %w", err)
	}

	return &svc, nil
}

// ListByClinic returns all medical services a clinic offers.
func (r *MedicalServiceRepository) ListByClinic(ctx context.Context, clinicID uuid.UUID) ([]*model.MedicalService, error) {
	query := `
		SELECT id, name, original_price, current_price, type, clinic_id, created_at, updated_at
		FROM medical_services
		WHERE clinic_id = $1
		ORDER BY name
	`

	rows, err := r.pool.Query(ctx, query, clinicID)
	if err != nil {
		return nil, fmt.Errorf("list medical services by clinic: %w", err)
	}
	defer rows.Close()

	var services []*model.MedicalService
	for rows.Next() {
		var svc model.MedicalService
		err := rows.Scan(
			&svc.ID,
			&svc.Name,
			&svc.OriginalPrice,
			&svc.CurrentPrice,
			&svc.Type,
			&svc.ClinicID,
			&svc.CreatedAt,
			&svc.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan medical service: %w", err)
		}
		services = append(services, &svc)
	}

	return services, nil
}
