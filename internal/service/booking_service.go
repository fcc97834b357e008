package service

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/clinichub/clinic-booking/internal/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const entityConsultation = "MedicalConsultationHistory"

// Store seams the allocation engine reads and writes through. The pgx
// repositories satisfy them in production; tests substitute in-memory fakes.
type ConsultationStore interface {
	Create(ctx context.Context, c *model.Consultation) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Consultation, error)
	Update(ctx context.Context, c *model.Consultation) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.ConsultationStatus) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter model.ConsultationFilter, limit, offset int) ([]*model.Consultation, error)
	Count(ctx context.Context, filter model.ConsultationFilter) (int64, error)
	CountActiveBySchedule(ctx context.Context, clinicID, scheduleID uuid.UUID, date time.Time) (int, error)
	DoctorHasActive(ctx context.Context, doctorID, clinicID, scheduleID uuid.UUID, date time.Time, excludeID uuid.UUID) (bool, error)
	PatientHasActive(ctx context.Context, patientID, clinicID, scheduleID uuid.UUID, date time.Time) (bool, error)
	ListActiveByPatientAndDate(ctx context.Context, patientID uuid.UUID, date time.Time) ([]*model.Consultation, error)
	BookedDoctorIDs(ctx context.Context, clinicID, medicalServiceID, scheduleID uuid.UUID, date time.Time) ([]uuid.UUID, error)
}

type ScheduleStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.ClinicSchedule, error)
}

type DoctorStore interface {
	GetDoctor(ctx context.Context, userID uuid.UUID) (*model.Doctor, error)
	CountDoctorsByClinic(ctx context.Context, clinicID uuid.UUID) (int, error)
	ListDoctorsByClinicAndService(ctx context.Context, clinicID, medicalServiceID uuid.UUID) ([]*model.Doctor, error)
}

type LeaveStore interface {
	HasActive(ctx context.Context, doctorID, scheduleID uuid.UUID, date time.Time) (bool, error)
	CountActiveBySchedule(ctx context.Context, scheduleID uuid.UUID, date time.Time) (int, error)
	ActiveDoctorIDsByDate(ctx context.Context, date time.Time) ([]uuid.UUID, error)
}

// BookingService is the slot allocation engine. It decides whether a
// consultation can be booked for a clinic schedule slot on a date, picks a
// doctor when none is requested, and drives the record through its lifecycle.
//
// All checks are read-then-decide without a wrapping transaction: two
// concurrent requests for the last open slot can both pass the capacity read.
// Contention is low enough in practice that this window is accepted.
type BookingService struct {
	consultations   ConsultationStore
	schedules       ScheduleStore
	doctors         DoctorStore
	leaves          LeaveStore
	audit           *AuditService
	defaultPageSize int
	logger          *zap.Logger
}

func NewBookingService(
	consultations ConsultationStore,
	schedules ScheduleStore,
	doctors DoctorStore,
	leaves LeaveStore,
	audit *AuditService,
	defaultPageSize int,
	logger *zap.Logger,
) *BookingService {
	return &BookingService{
		consultations:   consultations,
		schedules:       schedules,
		doctors:         doctors,
		leaves:          leaves,
		audit:           audit,
		defaultPageSize: defaultPageSize,
		logger:          logger,
	}
}

// PatientSnapshot is the patient data captured on the record at booking time.
type PatientSnapshot struct {
	Name        string
	Gender      model.Gender
	PhoneNumber string
	Email       string
	DateOfBirth time.Time
	Province    string
	District    string
	Address     string
}

type CreateConsultationRequest struct {
	PatientID              uuid.UUID
	ClinicID               uuid.UUID
	ClinicScheduleID       uuid.UUID
	MedicalServiceID       uuid.UUID
	ResponsibilityDoctorID *uuid.UUID
	ExaminationDate        time.Time
	ExaminationReason      string
	ReExaminateDate        *time.Time
	MedicalFee             float64
	MedicalServiceName     string
	PaymentMethod          model.PaymentMethod
	Patient                PatientSnapshot
}

type UpdateConsultationRequest struct {
	ResponsibilityDoctorID *uuid.UUID
	ClinicScheduleID       *uuid.UUID
	ExaminationDate        *time.Time
	ExaminationReason      *string
	PatientStatus          *string
	Diagnosis              *string
	ReExaminateDate        *time.Time
	NoteFromDoctor         *string
	MedicalFee             *float64
	PaymentMethod          *model.PaymentMethod
	PaymentStatus          *model.PaymentStatus
}

type CompleteConsultationRequest struct {
	PatientStatus   *string
	Diagnosis       *string
	NoteFromDoctor  *string
	ReExaminateDate *time.Time
	PaymentStatus   *model.PaymentStatus
}

// Availability is the outcome of a capacity probe for one slot and date.
type Availability struct {
	Available bool   `json:"available"`
	Reason    string `json:"reason,omitempty"`
}

// truncateToDay normalizes a timestamp to its calendar date. Examination
// dates are always stored and compared at day granularity.
func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ComputeAvailability answers whether a booking could happen for the slot and
// date, for a specific doctor when one is given, otherwise against the
// clinic's remaining capacity.
func (s *BookingService) ComputeAvailability(ctx context.Context, clinicID, scheduleID uuid.UUID, date time.Time, doctorID *uuid.UUID) (*Availability, error) {
	date = truncateToDay(date)

	schedule, err := s.schedules.GetByID(ctx, scheduleID)
	if err != nil {
		return nil, fmt.Errorf("get schedule: %w", err)
	}
	if schedule == nil {
		return nil, notFound(MsgScheduleNotFound)
	}
	if schedule.Status != model.StatusActive {
		return &Availability{Available: false, Reason: MsgScheduleInactive}, nil
	}

	if doctorID != nil {
		booked, err := s.consultations.DoctorHasActive(ctx, *doctorID, clinicID, scheduleID, date, uuid.Nil)
		if err != nil {
			return nil, fmt.Errorf("check doctor booking: %w", err)
		}
		if booked {
			return &Availability{Available: false, Reason: MsgDoctorAlreadyBooked}, nil
		}

		onLeave, err := s.leaves.HasActive(ctx, *doctorID, scheduleID, date)
		if err != nil {
			return nil, fmt.Errorf("check doctor leave: %w", err)
		}
		if onLeave {
			return &Availability{Available: false, Reason: MsgDoctorOnLeave}, nil
		}
	}

	free, err := s.availableSlots(ctx, clinicID, scheduleID, date)
	if err != nil {
		return nil, err
	}
	if free <= 0 {
		return &Availability{Available: false, Reason: MsgScheduleFull}, nil
	}

	return &Availability{Available: true}, nil
}

// availableSlots computes the remaining capacity for one clinic/slot/date:
// doctors in the clinic, minus those on active leave for the slot that date,
// minus the non-canceled bookings already taken.
func (s *BookingService) availableSlots(ctx context.Context, clinicID, scheduleID uuid.UUID, date time.Time) (int, error) {
	doctorCount, err := s.doctors.CountDoctorsByClinic(ctx, clinicID)
	if err != nil {
		return 0, fmt.Errorf("count doctors: %w", err)
	}

	onLeave, err := s.leaves.CountActiveBySchedule(ctx, scheduleID, date)
	if err != nil {
		return 0, fmt.Errorf("count leaves: %w", err)
	}

	booked, err := s.consultations.CountActiveBySchedule(ctx, clinicID, scheduleID, date)
	if err != nil {
		return 0, fmt.Errorf("count bookings: %w", err)
	}

	return doctorCount - onLeave - booked, nil
}

// assignDoctor picks a random eligible doctor for the clinic, medical service,
// slot and date: attached to both clinic and service, not already booked for
// the combination, and without any active leave on the date. The leave lookup
// is deliberately date-wide rather than slot-specific in this path.
func (s *BookingService) assignDoctor(ctx context.Context, clinicID, medicalServiceID, scheduleID uuid.UUID, date time.Time) (*model.Doctor, error) {
	candidates, err := s.doctors.ListDoctorsByClinicAndService(ctx, clinicID, medicalServiceID)
	if err != nil {
		return nil, fmt.Errorf("list candidate doctors: %w", err)
	}

	bookedIDs, err := s.consultations.BookedDoctorIDs(ctx, clinicID, medicalServiceID, scheduleID, date)
	if err != nil {
		return nil, fmt.Errorf("list booked doctors: %w", err)
	}

	leaveIDs, err := s.leaves.ActiveDoctorIDsByDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("list doctors on leave: %w", err)
	}

	excluded := make(map[uuid.UUID]bool, len(bookedIDs)+len(leaveIDs))
	for _, id := range bookedIDs {
		excluded[id] = true
	}
	for _, id := range leaveIDs {
		excluded[id] = true
	}

	var eligible []*model.Doctor
	for _, doctor := range candidates {
		if !excluded[doctor.User.ID] {
			eligible = append(eligible, doctor)
		}
	}

	if len(eligible) == 0 {
		return nil, badRequest(MsgNoAvailableDoctors)
	}

	return eligible[rand.IntN(len(eligible))], nil
}

func validateCreate(req CreateConsultationRequest) error {
	switch {
	case req.PatientID == uuid.Nil,
		req.ClinicID == uuid.Nil,
		req.ClinicScheduleID == uuid.Nil,
		req.MedicalServiceID == uuid.Nil,
		req.ExaminationDate.IsZero(),
		req.ExaminationReason == "",
		req.MedicalFee == 0,
		req.MedicalServiceName == "",
		req.PaymentMethod == 0,
		req.Patient.Name == "",
		req.Patient.Gender == 0,
		req.Patient.PhoneNumber == "",
		req.Patient.Email == "",
		req.Patient.DateOfBirth.IsZero(),
		req.Patient.Province == "",
		req.Patient.District == "",
		req.Patient.Address == "":
		return badRequest(MsgMissingRequiredFields)
	}
	return nil
}

// Create books a consultation. Checks run in a fixed order and the first
// failure wins: field validation, schedule state, doctor eligibility (when a
// doctor is requested), the patient duplicate guard, the cross-clinic time
// conflict, then auto-assignment (when no doctor is requested).
func (s *BookingService) Create(ctx context.Context, actor model.ActorContext, req CreateConsultationRequest) (*model.Consultation, error) {
	if err := validateCreate(req); err != nil {
		return nil, err
	}

	date := truncateToDay(req.ExaminationDate)

	schedule, err := s.schedules.GetByID(ctx, req.ClinicScheduleID)
	if err != nil {
		return nil, fmt.Errorf("get schedule: %w", err)
	}
	if schedule == nil {
		return nil, notFound(MsgScheduleNotFound)
	}
	if schedule.Status != model.StatusActive {
		return nil, badRequest(MsgScheduleInactive)
	}

	doctorID := req.ResponsibilityDoctorID
	if doctorID != nil {
		doctor, err := s.doctors.GetDoctor(ctx, *doctorID)
		if err != nil {
			return nil, fmt.Errorf("get doctor: %w", err)
		}
		if doctor == nil {
			return nil, notFound(MsgDoctorNotFound)
		}

		booked, err := s.consultations.DoctorHasActive(ctx, *doctorID, req.ClinicID, req.ClinicScheduleID, date, uuid.Nil)
		if err != nil {
			return nil, fmt.Errorf("check doctor booking: %w", err)
		}
		if booked {
			return nil, badRequest(MsgDoctorAlreadyBooked)
		}

		onLeave, err := s.leaves.HasActive(ctx, *doctorID, req.ClinicScheduleID, date)
		if err != nil {
			return nil, fmt.Errorf("check doctor leave: %w", err)
		}
		if onLeave {
			return nil, badRequest(MsgDoctorOnLeave)
		}
	}

	free, err := s.availableSlots(ctx, req.ClinicID, req.ClinicScheduleID, date)
	if err != nil {
		return nil, err
	}
	if free <= 0 {
		return nil, badRequest(MsgScheduleFull)
	}

	exists, err := s.consultations.PatientHasActive(ctx, req.PatientID, req.ClinicID, req.ClinicScheduleID, date)
	if err != nil {
		return nil, fmt.Errorf("check patient booking: %w", err)
	}
	if exists {
		return nil, badRequest(MsgConsultationExists)
	}

	if err := s.checkCrossClinicConflict(ctx, req.PatientID, date, schedule); err != nil {
		return nil, err
	}

	if doctorID == nil {
		doctor, err := s.assignDoctor(ctx, req.ClinicID, req.MedicalServiceID, req.ClinicScheduleID, date)
		if err != nil {
			return nil, err
		}
		doctorID = &doctor.User.ID
	}

	id := uuid.New()
	consultation := &model.Consultation{
		ID:                     id,
		Code:                   model.ConsultationCode(id),
		PatientID:              req.PatientID,
		ResponsibilityDoctorID: doctorID,
		ClinicID:               req.ClinicID,
		ClinicScheduleID:       req.ClinicScheduleID,
		MedicalServiceID:       req.MedicalServiceID,
		ExaminationDate:        date,
		ExaminationReason:      req.ExaminationReason,
		ReExaminateDate:        req.ReExaminateDate,
		MedicalFee:             req.MedicalFee,
		MedicalServiceName:     req.MedicalServiceName,
		PaymentMethod:          req.PaymentMethod,
		PaymentStatus:          model.PaymentStatusUnpaid,
		Status:                 model.ConsultationPending,
		PatientName:            req.Patient.Name,
		PatientGender:          req.Patient.Gender,
		PatientPhoneNumber:     req.Patient.PhoneNumber,
		PatientEmail:           req.Patient.Email,
		PatientDateOfBirth:     req.Patient.DateOfBirth,
		PatientProvince:        req.Patient.Province,
		PatientDistrict:        req.Patient.District,
		PatientAddress:         req.Patient.Address,
	}

	if err := s.consultations.Create(ctx, consultation); err != nil {
		return nil, fmt.Errorf("create consultation: %w", err)
	}

	s.audit.Record(ctx, &consultation.PatientID, model.AuditCreate,
		"Create medical consultation history "+consultation.Code,
		actor.UserID, entityConsultation, consultation.ID)

	s.logger.Info("Consultation booked",
		zap.String("consultation_id", consultation.ID.String()),
		zap.String("clinic_id", consultation.ClinicID.String()),
		zap.String("schedule_id", consultation.ClinicScheduleID.String()),
		zap.Time("examination_date", consultation.ExaminationDate),
	)

	return consultation, nil
}

// checkCrossClinicConflict rejects a booking when the patient already holds a
// non-canceled consultation on the same date in a slot with identical start
// and end times. Slot ids differ across clinics, so times are compared by
// value. Overlapping-but-unequal ranges are not detected; only exact matches.
func (s *BookingService) checkCrossClinicConflict(ctx context.Context, patientID uuid.UUID, date time.Time, target *model.ClinicSchedule) error {
	others, err := s.consultations.ListActiveByPatientAndDate(ctx, patientID, date)
	if err != nil {
		return fmt.Errorf("list patient consultations: %w", err)
	}

	for _, other := range others {
		if other.Schedule == nil {
			continue
		}
		if other.Schedule.StartTime == target.StartTime && other.Schedule.EndTime == target.EndTime {
			return badRequest(MsgConsultationExists)
		}
	}

	return nil
}

// revalidateDoctor repeats the doctor-leave and doctor-double-booking checks
// against the record's (possibly changed) doctor, slot and date. The record
// itself is excluded from the double-booking lookup.
func (s *BookingService) revalidateDoctor(ctx context.Context, c *model.Consultation) error {
	if c.ResponsibilityDoctorID == nil {
		return nil
	}

	onLeave, err := s.leaves.HasActive(ctx, *c.ResponsibilityDoctorID, c.ClinicScheduleID, c.ExaminationDate)
	if err != nil {
		return fmt.Errorf("check doctor leave: %w", err)
	}
	if onLeave {
		return badRequest(MsgDoctorOnLeave)
	}

	booked, err := s.consultations.DoctorHasActive(ctx, *c.ResponsibilityDoctorID, c.ClinicID, c.ClinicScheduleID, c.ExaminationDate, c.ID)
	if err != nil {
		return fmt.Errorf("check doctor booking: %w", err)
	}
	if booked {
		return badRequest(MsgDoctorAlreadyBooked)
	}

	return nil
}

// GetByID returns one consultation.
func (s *BookingService) GetByID(ctx context.Context, id uuid.UUID) (*model.Consultation, error) {
	consultation, err := s.consultations.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get consultation: %w", err)
	}
	if consultation == nil {
		return nil, notFound(MsgConsultationNotFound)
	}
	return consultation, nil
}

// List returns one page of consultations plus the total match count. Pages
// are 1-based; page and page size are clamped to at least 1, with the
// configured default when no size is given.
func (s *BookingService) List(ctx context.Context, filter model.ConsultationFilter, page, pageSize int) ([]*model.Consultation, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = s.defaultPageSize
	}
	if pageSize < 1 {
		pageSize = 1
	}

	total, err := s.consultations.Count(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count consultations: %w", err)
	}

	items, err := s.consultations.List(ctx, filter, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("list consultations: %w", err)
	}

	return items, total, nil
}

// Update rewrites a pending consultation. Changing the doctor, slot or date
// re-runs the doctor eligibility checks exactly as at creation time.
func (s *BookingService) Update(ctx context.Context, actor model.ActorContext, id uuid.UUID, req UpdateConsultationRequest) (*model.Consultation, error) {
	consultation, err := s.consultations.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get consultation: %w", err)
	}
	if consultation == nil {
		return nil, notFound(MsgConsultationNotFound)
	}
	if consultation.Status.Terminal() {
		return nil, badRequest(MsgOnlyPendingUpdated)
	}

	if req.ClinicScheduleID != nil {
		schedule, err := s.schedules.GetByID(ctx, *req.ClinicScheduleID)
		if err != nil {
			return nil, fmt.Errorf("get schedule: %w", err)
		}
		if schedule == nil {
			return nil, notFound(MsgScheduleNotFound)
		}
		consultation.ClinicScheduleID = *req.ClinicScheduleID
	}
	if req.ResponsibilityDoctorID != nil {
		doctor, err := s.doctors.GetDoctor(ctx, *req.ResponsibilityDoctorID)
		if err != nil {
			return nil, fmt.Errorf("get doctor: %w", err)
		}
		if doctor == nil {
			return nil, notFound(MsgDoctorNotFound)
		}
		consultation.ResponsibilityDoctorID = req.ResponsibilityDoctorID
	}
	if req.ExaminationDate != nil {
		consultation.ExaminationDate = truncateToDay(*req.ExaminationDate)
	}
	if req.ExaminationReason != nil {
		consultation.ExaminationReason = *req.ExaminationReason
	}
	if req.PatientStatus != nil {
		consultation.PatientStatus = req.PatientStatus
	}
	if req.Diagnosis != nil {
		consultation.Diagnosis = req.Diagnosis
	}
	if req.ReExaminateDate != nil {
		consultation.ReExaminateDate = req.ReExaminateDate
	}
	if req.NoteFromDoctor != nil {
		consultation.NoteFromDoctor = req.NoteFromDoctor
	}
	if req.MedicalFee != nil {
		consultation.MedicalFee = *req.MedicalFee
	}
	if req.PaymentMethod != nil {
		consultation.PaymentMethod = *req.PaymentMethod
	}
	if req.PaymentStatus != nil {
		consultation.PaymentStatus = *req.PaymentStatus
	}

	if err := s.revalidateDoctor(ctx, consultation); err != nil {
		return nil, err
	}

	if err := s.consultations.Update(ctx, consultation); err != nil {
		return nil, fmt.Errorf("update consultation: %w", err)
	}

	s.audit.Record(ctx, &consultation.PatientID, model.AuditUpdate,
		"Update medical consultation history "+consultation.Code,
		actor.UserID, entityConsultation, consultation.ID)

	return consultation, nil
}

// Cancel moves a pending consultation to CANCELED. No doctor re-validation is
// needed to give a slot back.
func (s *BookingService) Cancel(ctx context.Context, actor model.ActorContext, id uuid.UUID) (*model.Consultation, error) {
	consultation, err := s.consultations.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get consultation: %w", err)
	}
	if consultation == nil {
		return nil, notFound(MsgConsultationNotFound)
	}
	if consultation.Status.Terminal() {
		return nil, badRequest(MsgOnlyPendingCanceled)
	}

	if err := s.consultations.UpdateStatus(ctx, id, model.ConsultationCanceled); err != nil {
		return nil, fmt.Errorf("cancel consultation: %w", err)
	}
	consultation.Status = model.ConsultationCanceled

	s.audit.Record(ctx, &consultation.PatientID, model.AuditUpdate,
		"Cancel medical consultation history "+consultation.Code,
		actor.UserID, entityConsultation, consultation.ID)

	s.logger.Info("Consultation canceled",
		zap.String("consultation_id", consultation.ID.String()),
		zap.String("actor_id", actor.UserID.String()),
	)

	return consultation, nil
}

// Complete moves a pending consultation to DONE, applying the closing fields
// and re-running the doctor checks first.
func (s *BookingService) Complete(ctx context.Context, actor model.ActorContext, id uuid.UUID, req CompleteConsultationRequest) (*model.Consultation, error) {
	consultation, err := s.consultations.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get consultation: %w", err)
	}
	if consultation == nil {
		return nil, notFound(MsgConsultationNotFound)
	}
	if consultation.Status.Terminal() {
		return nil, badRequest(MsgOnlyPendingCompleted)
	}

	if err := s.revalidateDoctor(ctx, consultation); err != nil {
		return nil, err
	}

	if req.PatientStatus != nil {
		consultation.PatientStatus = req.PatientStatus
	}
	if req.Diagnosis != nil {
		consultation.Diagnosis = req.Diagnosis
	}
	if req.NoteFromDoctor != nil {
		consultation.NoteFromDoctor = req.NoteFromDoctor
	}
	if req.ReExaminateDate != nil {
		consultation.ReExaminateDate = req.ReExaminateDate
	}
	if req.PaymentStatus != nil {
		consultation.PaymentStatus = *req.PaymentStatus
	}
	consultation.Status = model.ConsultationDone

	if err := s.consultations.Update(ctx, consultation); err != nil {
		return nil, fmt.Errorf("complete consultation: %w", err)
	}

	s.audit.Record(ctx, &consultation.PatientID, model.AuditUpdate,
		"Complete medical consultation history "+consultation.Code,
		actor.UserID, entityConsultation, consultation.ID)

	s.logger.Info("Consultation completed",
		zap.String("consultation_id", consultation.ID.String()),
		zap.String("actor_id", actor.UserID.String()),
	)

	return consultation, nil
}

// Delete removes a consultation entirely. Admin only.
func (s *BookingService) Delete(ctx context.Context, actor model.ActorContext, id uuid.UUID) error {
	if !actor.IsAdmin() {
		return forbidden(MsgForbidden)
	}

	consultation, err := s.consultations.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get consultation: %w", err)
	}
	if consultation == nil {
		return notFound(MsgConsultationNotFound)
	}

	if err := s.consultations.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete consultation: %w", err)
	}

	s.audit.Record(ctx, &consultation.PatientID, model.AuditDelete,
		"Delete medical consultation history "+consultation.Code,
		actor.UserID, entityConsultation, consultation.ID)

	return nil
}
