package service

import (
	"context"
	"fmt"
	"time"

	"github.com/clinichub/clinic-booking/internal/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const entityLeaveSchedule = "LeaveSchedule"

type LeaveScheduleStore interface {
	Create(ctx context.Context, leave *model.LeaveSchedule) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.LeaveSchedule, error)
	GetByDoctorSlotDate(ctx context.Context, doctorID, scheduleID uuid.UUID, date time.Time) (*model.LeaveSchedule, error)
	ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]*model.LeaveSchedule, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.ActiveStatus) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// LeaveService manages doctor leave declarations. Each leave is keyed by
// (doctor, slot, date); only one record may exist per key, toggled between
// active and inactive rather than recreated.
type LeaveService struct {
	leaves    LeaveScheduleStore
	schedules ScheduleStore
	doctors   DoctorStore
	audit     *AuditService
	logger    *zap.Logger
}

func NewLeaveService(leaves LeaveScheduleStore, schedules ScheduleStore, doctors DoctorStore, audit *AuditService, logger *zap.Logger) *LeaveService {
	return &LeaveService{
		leaves:    leaves,
		schedules: schedules,
		doctors:   doctors,
		audit:     audit,
		logger:    logger,
	}
}

type CreateLeaveRequest struct {
	DoctorID         uuid.UUID
	ClinicScheduleID uuid.UUID
	Date             time.Time
	Reason           string
}

// Create registers an active leave for one doctor, slot and date. A doctor
// may only declare leave for themselves; admins may declare for anyone.
func (s *LeaveService) Create(ctx context.Context, actor model.ActorContext, req CreateLeaveRequest) (*model.LeaveSchedule, error) {
	if req.DoctorID == uuid.Nil || req.ClinicScheduleID == uuid.Nil || req.Date.IsZero() || req.Reason == "" {
		return nil, badRequest(MsgMissingRequiredFields)
	}
	if !actor.IsAdmin() && actor.UserID != req.DoctorID {
		return nil, forbidden(MsgForbidden)
	}

	date := truncateToDay(req.Date)

	doctor, err := s.doctors.GetDoctor(ctx, req.DoctorID)
	if err != nil {
		return nil, fmt.Errorf("get doctor: %w", err)
	}
	if doctor == nil {
		return nil, notFound(MsgDoctorNotFound)
	}

	schedule, err := s.schedules.GetByID(ctx, req.ClinicScheduleID)
	if err != nil {
		return nil, fmt.Errorf("get schedule: %w", err)
	}
	if schedule == nil {
		return nil, notFound(MsgScheduleNotFound)
	}

	existing, err := s.leaves.GetByDoctorSlotDate(ctx, req.DoctorID, req.ClinicScheduleID, date)
	if err != nil {
		return nil, fmt.Errorf("get leave schedule: %w", err)
	}
	if existing != nil {
		return nil, badRequest(MsgLeaveExists)
	}

	leave := &model.LeaveSchedule{
		DoctorID:         req.DoctorID,
		ClinicScheduleID: req.ClinicScheduleID,
		Date:             date,
		Reason:           req.Reason,
		Status:           model.StatusActive,
	}

	if err := s.leaves.Create(ctx, leave); err != nil {
		return nil, fmt.Errorf("create leave schedule: %w", err)
	}

	s.audit.Record(ctx, &leave.DoctorID, model.AuditCreate,
		"Create leave schedule", actor.UserID, entityLeaveSchedule, leave.ID)

	s.logger.Info("Leave schedule created",
		zap.String("leave_id", leave.ID.String()),
		zap.String("doctor_id", leave.DoctorID.String()),
		zap.Time("date", leave.Date),
	)

	return leave, nil
}

// ListByDoctor returns all leave records of one doctor. Doctors may only see
// their own; admins may see anyone's.
func (s *LeaveService) ListByDoctor(ctx context.Context, actor model.ActorContext, doctorID uuid.UUID) ([]*model.LeaveSchedule, error) {
	if !actor.IsAdmin() && actor.UserID != doctorID {
		return nil, forbidden(MsgForbidden)
	}
	return s.leaves.ListByDoctor(ctx, doctorID)
}

// Activate turns an inactive leave back on.
func (s *LeaveService) Activate(ctx context.Context, actor model.ActorContext, id uuid.UUID) (*model.LeaveSchedule, error) {
	return s.setStatus(ctx, actor, id, model.StatusActive)
}

// Deactivate lifts a leave, freeing the doctor for the slot and date again.
func (s *LeaveService) Deactivate(ctx context.Context, actor model.ActorContext, id uuid.UUID) (*model.LeaveSchedule, error) {
	return s.setStatus(ctx, actor, id, model.StatusInactive)
}

func (s *LeaveService) setStatus(ctx context.Context, actor model.ActorContext, id uuid.UUID, status model.ActiveStatus) (*model.LeaveSchedule, error) {
	leave, err := s.leaves.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get leave schedule: %w", err)
	}
	if leave == nil {
		return nil, notFound(MsgLeaveNotFound)
	}
	if !actor.IsAdmin() && actor.UserID != leave.DoctorID {
		return nil, forbidden(MsgForbidden)
	}
	if leave.Status == status {
		if status == model.StatusActive {
			return nil, badRequest(MsgLeaveAlreadyActive)
		}
		return nil, badRequest(MsgLeaveAlreadyInactive)
	}

	if err := s.leaves.UpdateStatus(ctx, id, status); err != nil {
		return nil, fmt.Errorf("update leave schedule status: %w", err)
	}
	leave.Status = status

	s.audit.Record(ctx, &leave.DoctorID, model.AuditUpdate,
		"Update leave schedule status", actor.UserID, entityLeaveSchedule, leave.ID)

	return leave, nil
}

// Delete removes a leave record entirely. The owning doctor or an admin
// may delete.
func (s *LeaveService) Delete(ctx context.Context, actor model.ActorContext, id uuid.UUID) error {
	leave, err := s.leaves.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get leave schedule: %w", err)
	}
	if leave == nil {
		return notFound(MsgLeaveNotFound)
	}
	if !actor.IsAdmin() && actor.UserID != leave.DoctorID {
		return forbidden(MsgForbidden)
	}

	if err := s.leaves.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete leave schedule: %w", err)
	}

	s.audit.Record(ctx, &leave.DoctorID, model.AuditDelete,
		"Delete leave schedule", actor.UserID, entityLeaveSchedule, leave.ID)

	return nil
}
