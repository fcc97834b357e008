package service

import (
	"context"
	"fmt"

	"github.com/clinichub/clinic-booking/internal/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const entityHealthRecord = "HealthRecord"

type HealthRecordStore interface {
	Create(ctx context.Context, record *model.HealthRecord) error
	GetByUser(ctx context.Context, userID uuid.UUID) (*model.HealthRecord, error)
	Update(ctx context.Context, record *model.HealthRecord) error
}

// HealthRecordService manages the baseline medical profile attached to each
// account. Records are created empty at registration and filled in later.
type HealthRecordService struct {
	records HealthRecordStore
	audit   *AuditService
	logger  *zap.Logger
}

func NewHealthRecordService(records HealthRecordStore, audit *AuditService, logger *zap.Logger) *HealthRecordService {
	return &HealthRecordService{
		records: records,
		audit:   audit,
		logger:  logger,
	}
}

// Get returns the record of one user. Users may only read their own; admins
// may read anyone's.
func (s *HealthRecordService) Get(ctx context.Context, actor model.ActorContext, userID uuid.UUID) (*model.HealthRecord, error) {
	if !actor.IsAdmin() && actor.UserID != userID {
		return nil, forbidden(MsgForbidden)
	}

	record, err := s.records.GetByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get health record: %w", err)
	}
	if record == nil {
		return nil, notFound(MsgHealthRecordNotFound)
	}

	return record, nil
}

type UpdateHealthRecordRequest struct {
	BloodType     *string
	Height        *float64
	Weight        *float64
	HealthHistory *string
}

// Update fills in the medical fields of an existing record. Fields left nil
// are unchanged. Users may only update their own record; admins may update
// anyone's.
func (s *HealthRecordService) Update(ctx context.Context, actor model.ActorContext, userID uuid.UUID, req UpdateHealthRecordRequest) (*model.HealthRecord, error) {
	if !actor.IsAdmin() && actor.UserID != userID {
		return nil, forbidden(MsgForbidden)
	}

	record, err := s.records.GetByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get health record: %w", err)
	}
	if record == nil {
		return nil, notFound(MsgHealthRecordNotFound)
	}

	if req.BloodType != nil {
		record.BloodType = req.BloodType
	}
	if req.Height != nil {
		record.Height = req.Height
	}
	if req.Weight != nil {
		record.Weight = req.Weight
	}
	if req.HealthHistory != nil {
		record.HealthHistory = req.HealthHistory
	}

	if err := s.records.Update(ctx, record); err != nil {
		return nil, fmt.Errorf("update health record: %w", err)
	}

	s.audit.Record(ctx, &record.UserID, model.AuditUpdate,
		"Update health record", actor.UserID, entityHealthRecord, record.ID)

	return record, nil
}
