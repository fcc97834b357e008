package service

import (
	"context"

	"github.com/clinichub/clinic-booking/internal/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type historyLogStore interface {
	Create(ctx context.Context, entry *model.HistoryLog) error
	List(ctx context.Context, limit, offset int) ([]*model.HistoryLog, error)
}

// AuditService writes history-log entries for entity mutations. Recording is
// best-effort: a lost audit entry must never fail the mutation it describes.
type AuditService struct {
	logs   historyLogStore
	logger *zap.Logger
}

func NewAuditService(logs historyLogStore, logger *zap.Logger) *AuditService {
	return &AuditService{
		logs:   logs,
		logger: logger,
	}
}

// Record stores one audit entry. Errors are logged and swallowed.
func (s *AuditService) Record(ctx context.Context, subjectID *uuid.UUID, action model.AuditAction, details string, actorID uuid.UUID, entity string, entityID uuid.UUID) {
	entry := &model.HistoryLog{
		UserID:          subjectID,
		Action:          action,
		Details:         details,
		UpdatedByUserID: actorID,
		Entity:          entity,
		EntityID:        entityID,
	}

	if err := s.logs.Create(ctx, entry); err != nil {
		s.logger.Error("Failed to write history log",
			zap.String("entity", entity),
			zap.String("entity_id", entityID.String()),
			zap.Error(err),
		)
	}
}

// List returns a page of audit entries.
func (s *AuditService) List(ctx context.Context, limit, offset int) ([]*model.HistoryLog, error) {
	return s.logs.List(ctx, limit, offset)
}
