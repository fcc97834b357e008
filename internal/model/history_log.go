package model

import (
	"time"

	"github.com/google/uuid"
)

type AuditAction string

const (
	AuditCreate AuditAction = "CREATE"
	AuditUpdate AuditAction = "UPDATE"
	AuditDelete AuditAction = "DELETE"
)

// HistoryLog is one audit entry for a mutation of a domain entity.
type HistoryLog struct {
	ID              uuid.UUID   `json:"id"`
	UserID          *uuid.UUID  `json:"user_id"`
	Action          AuditAction `json:"action"`
	Details         string      `json:"details"`
	UpdatedByUserID uuid.UUID   `json:"updated_by_user_id"`
	Entity          string      `json:"entity"`
	EntityID        uuid.UUID   `json:"entity_id"`
	CreatedAt       time.Time   `json:"created_at"`
}
