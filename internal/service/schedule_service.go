package service

import (
	"context"
	"fmt"
	"time"

	"github.com/clinichub/clinic-booking/internal/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const entityClinicSchedule = "ClinicSchedule"

type ClinicScheduleStore interface {
	Create(ctx context.Context, schedule *model.ClinicSchedule) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.ClinicSchedule, error)
	ListByClinic(ctx context.Context, clinicID uuid.UUID, activeOnly bool) ([]*model.ClinicSchedule, error)
	UpdateTimes(ctx context.Context, id uuid.UUID, startTime, endTime string) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.ActiveStatus) error
	Delete(ctx context.Context, id uuid.UUID) error
	SetClinicActiveSet(ctx context.Context, clinicID uuid.UUID, activeIDs []uuid.UUID) error
	ReplaceWorkingSchedules(ctx context.Context, doctorID uuid.UUID, scheduleIDs []uuid.UUID) error
	ListWorkingSchedulesByDoctor(ctx context.Context, doctorID uuid.UUID) ([]*model.DoctorWorkingSchedule, error)
}

type RequestChangeStore interface {
	Create(ctx context.Context, req *model.RequestChangeSchedule) error
	ListDue(ctx context.Context, now time.Time) ([]*model.RequestChangeSchedule, error)
	MarkApplied(ctx context.Context, id uuid.UUID) error
	ListByClinic(ctx context.Context, clinicID uuid.UUID) ([]*model.RequestChangeSchedule, error)
}

type ClinicStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Clinic, error)
}

// ScheduleService manages clinic schedule slots, doctors' working-schedule
// links and deferred slot-set changes.
type ScheduleService struct {
	schedules ClinicScheduleStore
	requests  RequestChangeStore
	clinics   ClinicStore
	doctors   DoctorStore
	audit     *AuditService
	logger    *zap.Logger
}

func NewScheduleService(schedules ClinicScheduleStore, requests RequestChangeStore, clinics ClinicStore, doctors DoctorStore, audit *AuditService, logger *zap.Logger) *ScheduleService {
	return &ScheduleService{
		schedules: schedules,
		requests:  requests,
		clinics:   clinics,
		doctors:   doctors,
		audit:     audit,
		logger:    logger,
	}
}

type CreateScheduleRequest struct {
	ClinicID  uuid.UUID
	StartTime string
	EndTime   string
}

// Create adds a new slot to a clinic. New slots start active.
func (s *ScheduleService) Create(ctx context.Context, actor model.ActorContext, req CreateScheduleRequest) (*model.ClinicSchedule, error) {
	if !actor.IsAdmin() {
		return nil, forbidden(MsgForbidden)
	}
	if req.ClinicID == uuid.Nil || req.StartTime == "" || req.EndTime == "" {
		return nil, badRequest(MsgMissingRequiredFields)
	}

	clinic, err := s.clinics.GetByID(ctx, req.ClinicID)
	if err != nil {
		return nil, fmt.Errorf("get clinic: %w", err)
	}
	if clinic == nil {
		return nil, notFound(MsgClinicNotFound)
	}

	schedule := &model.ClinicSchedule{
		ClinicID:  req.ClinicID,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Status:    model.StatusActive,
	}

	if err := s.schedules.Create(ctx, schedule); err != nil {
		return nil, fmt.Errorf("create clinic schedule: %w", err)
	}

	s.audit.Record(ctx, nil, model.AuditCreate,
		"Create clinic schedule", actor.UserID, entityClinicSchedule, schedule.ID)

	return schedule, nil
}

// GetByID returns one slot.
func (s *ScheduleService) GetByID(ctx context.Context, id uuid.UUID) (*model.ClinicSchedule, error) {
	schedule, err := s.schedules.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get clinic schedule: %w", err)
	}
	if schedule == nil {
		return nil, notFound(MsgScheduleNotFound)
	}
	return schedule, nil
}

// ListByClinic returns a clinic's slots. Non-admin callers only see active
// slots.
func (s *ScheduleService) ListByClinic(ctx context.Context, actor model.ActorContext, clinicID uuid.UUID) ([]*model.ClinicSchedule, error) {
	clinic, err := s.clinics.GetByID(ctx, clinicID)
	if err != nil {
		return nil, fmt.Errorf("get clinic: %w", err)
	}
	if clinic == nil {
		return nil, notFound(MsgClinicNotFound)
	}
	return s.schedules.ListByClinic(ctx, clinicID, !actor.IsAdmin())
}

type UpdateScheduleRequest struct {
	StartTime *string
	EndTime   *string
	Status    *model.ActiveStatus
}

// Update changes a slot's times and/or status.
func (s *ScheduleService) Update(ctx context.Context, actor model.ActorContext, id uuid.UUID, req UpdateScheduleRequest) (*model.ClinicSchedule, error) {
	if !actor.IsAdmin() {
		return nil, forbidden(MsgForbidden)
	}

	schedule, err := s.schedules.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get clinic schedule: %w", err)
	}
	if schedule == nil {
		return nil, notFound(MsgScheduleNotFound)
	}

	if req.StartTime != nil || req.EndTime != nil {
		start := schedule.StartTime
		end := schedule.EndTime
		if req.StartTime != nil {
			start = *req.StartTime
		}
		if req.EndTime != nil {
			end = *req.EndTime
		}
		if err := s.schedules.UpdateTimes(ctx, id, start, end); err != nil {
			return nil, fmt.Errorf("update clinic schedule times: %w", err)
		}
		schedule.StartTime = start
		schedule.EndTime = end
	}

	if req.Status != nil && *req.Status != schedule.Status {
		if err := s.schedules.UpdateStatus(ctx, id, *req.Status); err != nil {
			return nil, fmt.Errorf("update clinic schedule status: %w", err)
		}
		schedule.Status = *req.Status
	}

	s.audit.Record(ctx, nil, model.AuditUpdate,
		"Update clinic schedule", actor.UserID, entityClinicSchedule, schedule.ID)

	return schedule, nil
}

// Delete removes a slot and its working-schedule links.
func (s *ScheduleService) Delete(ctx context.Context, actor model.ActorContext, id uuid.UUID) error {
	if !actor.IsAdmin() {
		return forbidden(MsgForbidden)
	}

	schedule, err := s.schedules.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get clinic schedule: %w", err)
	}
	if schedule == nil {
		return notFound(MsgScheduleNotFound)
	}

	if err := s.schedules.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete clinic schedule: %w", err)
	}

	s.audit.Record(ctx, nil, model.AuditDelete,
		"Delete clinic schedule", actor.UserID, entityClinicSchedule, id)

	return nil
}

type CreateRequestChangeRequest struct {
	Name      string
	ClinicID  uuid.UUID
	ApplyDate time.Time
	NewValue  []uuid.UUID
}

// CreateRequestChange registers a deferred switch of a clinic's active slot
// set. The scheduler applies it once the apply date is reached.
func (s *ScheduleService) CreateRequestChange(ctx context.Context, actor model.ActorContext, req CreateRequestChangeRequest) (*model.RequestChangeSchedule, error) {
	if !actor.IsAdmin() {
		return nil, forbidden(MsgForbidden)
	}
	if req.Name == "" || req.ClinicID == uuid.Nil || req.ApplyDate.IsZero() {
		return nil, badRequest(MsgMissingRequiredFields)
	}
	if len(req.NewValue) == 0 {
		return nil, badRequest(MsgRequestChangeEmpty)
	}

	clinic, err := s.clinics.GetByID(ctx, req.ClinicID)
	if err != nil {
		return nil, fmt.Errorf("get clinic: %w", err)
	}
	if clinic == nil {
		return nil, notFound(MsgClinicNotFound)
	}

	for _, scheduleID := range req.NewValue {
		schedule, err := s.schedules.GetByID(ctx, scheduleID)
		if err != nil {
			return nil, fmt.Errorf("get clinic schedule: %w", err)
		}
		if schedule == nil || schedule.ClinicID != req.ClinicID {
			return nil, notFound(MsgScheduleNotFound)
		}
	}

	request := &model.RequestChangeSchedule{
		Name:      req.Name,
		ClinicID:  req.ClinicID,
		ApplyDate: req.ApplyDate,
		NewValue:  req.NewValue,
	}

	if err := s.requests.Create(ctx, request); err != nil {
		return nil, fmt.Errorf("create request change: %w", err)
	}

	s.logger.Info("Schedule change requested",
		zap.String("request_id", request.ID.String()),
		zap.String("clinic_id", request.ClinicID.String()),
		zap.Time("apply_date", request.ApplyDate),
	)

	return request, nil
}

// ListRequestChanges returns a clinic's deferred slot-set changes.
func (s *ScheduleService) ListRequestChanges(ctx context.Context, actor model.ActorContext, clinicID uuid.UUID) ([]*model.RequestChangeSchedule, error) {
	if !actor.IsAdmin() {
		return nil, forbidden(MsgForbidden)
	}
	return s.requests.ListByClinic(ctx, clinicID)
}

// ApplyDueScheduleChanges applies every unapplied request whose apply date
// has passed and returns how many were applied. A failing request is logged
// and skipped so one bad row cannot stall the rest.
func (s *ScheduleService) ApplyDueScheduleChanges(ctx context.Context, now time.Time) (int, error) {
	due, err := s.requests.ListDue(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("list due request changes: %w", err)
	}

	applied := 0
	for _, request := range due {
		if err := s.schedules.SetClinicActiveSet(ctx, request.ClinicID, request.NewValue); err != nil {
			s.logger.Error("Failed to apply schedule change",
				zap.String("request_id", request.ID.String()),
				zap.Error(err),
			)
			continue
		}
		if err := s.requests.MarkApplied(ctx, request.ID); err != nil {
			s.logger.Error("Failed to mark schedule change applied",
				zap.String("request_id", request.ID.String()),
				zap.Error(err),
			)
			continue
		}

		applied++
		s.logger.Info("Schedule change applied",
			zap.String("request_id", request.ID.String()),
			zap.String("clinic_id", request.ClinicID.String()),
		)
	}

	return applied, nil
}

// ReplaceWorkingSchedules swaps a doctor's working-schedule links for the
// given slot set. Doctors may only change their own; admins anyone's.
func (s *ScheduleService) ReplaceWorkingSchedules(ctx context.Context, actor model.ActorContext, doctorID uuid.UUID, scheduleIDs []uuid.UUID) ([]*model.DoctorWorkingSchedule, error) {
	if !actor.IsAdmin() && actor.UserID != doctorID {
		return nil, forbidden(MsgForbidden)
	}

	doctor, err := s.doctors.GetDoctor(ctx, doctorID)
	if err != nil {
		return nil, fmt.Errorf("get doctor: %w", err)
	}
	if doctor == nil {
		return nil, notFound(MsgDoctorNotFound)
	}

	for _, scheduleID := range scheduleIDs {
		schedule, err := s.schedules.GetByID(ctx, scheduleID)
		if err != nil {
			return nil, fmt.Errorf("get clinic schedule: %w", err)
		}
		if schedule == nil {
			return nil, notFound(MsgScheduleNotFound)
		}
	}

	if err := s.schedules.ReplaceWorkingSchedules(ctx, doctorID, scheduleIDs); err != nil {
		return nil, fmt.Errorf("replace working schedules: %w", err)
	}

	s.audit.Record(ctx, &doctorID, model.AuditUpdate,
		"Replace doctor working schedules", actor.UserID, "DoctorWorkingSchedule", doctorID)

	return s.schedules.ListWorkingSchedulesByDoctor(ctx, doctorID)
}

// ListWorkingSchedules returns a doctor's working-schedule links.
func (s *ScheduleService) ListWorkingSchedules(ctx context.Context, doctorID uuid.UUID) ([]*model.DoctorWorkingSchedule, error) {
	return s.schedules.ListWorkingSchedulesByDoctor(ctx, doctorID)
}
