package repository

import (
	"context"
	"fmt"

	"github.com/clinichub/clinic-booking/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ClinicRepository struct {
	pool *pgxpool.Pool
}

func NewClinicRepository(pool *pgxpool.Pool) *ClinicRepository {
	return &ClinicRepository{pool: pool}
}

// Create inserts a new clinic.
func (r *ClinicRepository) Create(ctx context.Context, clinic *model.Clinic) error {
	query := `
		INSERT INTO clinics (name, email, hotline, address, status, description, logo)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`

	err := r.pool.QueryRow(
		ctx, query,
		clinic.Name,
		clinic.Email,
		clinic.Hotline,
		clinic.Address,
		clinic.Status,
		clinic.Description,
		clinic.Logo,
	).Scan(&clinic.ID, &clinic.CreatedAt, &clinic.UpdatedAt)

	if err != nil {
		return fmt.Errorf("create clinic: %w", err)
	}

	return nil
}

// GetByID returns a clinic by id.
func (r *ClinicRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Clinic, error) {
	query := `
		SELECT id, name, email, hotline, address, status, description, logo, created_at, updated_at
		FROM clinics
		WHERE id = $1
	`

	var clinic model.Clinic
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&clinic.ID,
		&clinic.Name,
		&clinic.Email,
		&clinic.Hotline,
		&clinic.Address,
		&clinic.Status,
		&clinic.Description,
		&clinic.Logo,
		&clinic.CreatedAt,
		&clinic.UpdatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get clinic by id: %w", err)
	}

	return &clinic, nil
}

// List returns all clinics.
func (r *ClinicRepository) List(ctx context.Context) ([]*model.Clinic, error) {
	query := `
		SELECT id, name, email, hotline, address, status, description, logo, created_at, updated_at
		FROM clinics
		ORDER BY name
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list clinics: %w", err)
	}
	defer rows.Close()

	var clinics []*model.Clinic
	for rows.Next() {
		var clinic model.Clinic
		err := rows.Scan(
			&clinic.ID,
			&clinic.Name,
			&clinic.Email,
			&clinic.Hotline,
			&clinic.Address,
			&clinic.Status,
			&clinic.Description,
			&clinic.Logo,
			&clinic.CreatedAt,
			&clinic.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan clinic: %w", err)
		}
		clinics = append(clinics, &clinic)
	}

	return clinics, nil
}
