package repository

import (
	"context"
	"fmt"

	"github.com/clinichub/clinic-booking/internal/model"
	"github.com/jackc/pgx/v5/pgxpool"
)

type HistoryLogRepository struct {
	pool *pgxpool.Pool
}

func NewHistoryLogRepository(pool *pgxpool.Pool) *HistoryLogRepository {
	return &HistoryLogRepository{pool: pool}
}

// Create inserts one audit entry.
func (r *HistoryLogRepository) Create(ctx context.Context, entry *model.HistoryLog) error {
	query := `
		INSERT INTO history_logs (user_id, action, details, updated_by_user_id, entity, entity_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	err := r.pool.QueryRow(
		ctx, query,
		entry.UserID,
		entry.Action,
		entry.Details,
		entry.UpdatedByUserID,
		entry.Entity,
		entry.EntityID,
	).Scan(&entry.ID, &entry.CreatedAt)

	if err != nil {
		return fmt.Errorf("create history log: %w", err)
	}

	return nil
}

// List returns a page of audit entries, newest first.
func (r *HistoryLogRepository) List(ctx context.Context, limit, offset int) ([]*model.HistoryLog, error) {
	query := `
		SELECT id, user_id, action, details, updated_by_user_id, entity, entity_id, created_at
		FROM history_logs
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list history logs: %w", err)
	}
	defer rows.Close()

	var entries []*model.HistoryLog
	for rows.Next() {
		var entry model.HistoryLog
		err := rows.Scan(
			&entry.ID,
			&entry.UserID,
			&entry.Action,
			&entry.Details,
			&entry.UpdatedByUserID,
			&entry.Entity,
			&entry.EntityID,
			&entry.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan history log: %w", err)
		}
		entries = append(entries, &entry)
	}

	return entries, nil
}
