package service

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/clinichub/clinic-booking/internal/model"
)

type fakeConsultations struct {
	items     map[uuid.UUID]*model.Consultation
	schedules map[uuid.UUID]*model.ClinicSchedule
}

func newFakeConsultations(schedules map[uuid.UUID]*model.ClinicSchedule) *fakeConsultations {
	return &fakeConsultations{
		items:     make(map[uuid.UUID]*model.Consultation),
		schedules: schedules,
	}
}

func (f *fakeConsultations) Create(_ context.Context, c *model.Consultation) error {
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	f.items[c.ID] = c
	return nil
}

func (f *fakeConsultations) GetByID(_ context.Context, id uuid.UUID) (*model.Consultation, error) {
	return f.items[id], nil
}

func (f *fakeConsultations) Update(_ context.Context, c *model.Consultation) error {
	c.UpdatedAt = time.Now()
	f.items[c.ID] = c
	return nil
}

func (f *fakeConsultations) UpdateStatus(_ context.Context, id uuid.UUID, status model.ConsultationStatus) error {
	f.items[id].Status = status
	return nil
}

func (f *fakeConsultations) Delete(_ context.Context, id uuid.UUID) error {
	delete(f.items, id)
	return nil
}

func (f *fakeConsultations) matches(c *model.Consultation, filter model.ConsultationFilter) bool {
	if filter.PatientID != nil && c.PatientID != *filter.PatientID {
		return false
	}
	if filter.ClinicID != nil && c.ClinicID != *filter.ClinicID {
		return false
	}
	if filter.DoctorID != nil && (c.ResponsibilityDoctorID == nil || *c.ResponsibilityDoctorID != *filter.DoctorID) {
		return false
	}
	if filter.Status != nil && c.Status != *filter.Status {
		return false
	}
	if filter.DateFrom != nil && c.ExaminationDate.Before(*filter.DateFrom) {
		return false
	}
	if filter.DateTo != nil && c.ExaminationDate.After(*filter.DateTo) {
		return false
	}
	return true
}

func (f *fakeConsultations) List(_ context.Context, filter model.ConsultationFilter, limit, offset int) ([]*model.Consultation, error) {
	var all []*model.Consultation
	for _, c := range f.items {
		if f.matches(c, filter) {
			all = append(all, c)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	if offset >= len(all) {
		return nil, nil
	}
	all = all[offset:]
	if limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

func (f *fakeConsultations) Count(_ context.Context, filter model.ConsultationFilter) (int64, error) {
	var n int64
	for _, c := range f.items {
		if f.matches(c, filter) {
			n++
		}
	}
	return n, nil
}

func (f *fakeConsultations) CountActiveBySchedule(_ context.Context, clinicID, scheduleID uuid.UUID, date time.Time) (int, error) {
	n := 0
	for _, c := range f.items {
		if c.ClinicID == clinicID && c.ClinicScheduleID == scheduleID &&
			c.ExaminationDate.Equal(date) && c.Status != model.ConsultationCanceled {
			n++
		}
	}
	return n, nil
}

func (f *fakeConsultations) DoctorHasActive(_ context.Context, doctorID, clinicID, scheduleID uuid.UUID, date time.Time, excludeID uuid.UUID) (bool, error) {
	for _, c := range f.items {
		if c.ID == excludeID || c.Status == model.ConsultationCanceled {
			continue
		}
		if c.ResponsibilityDoctorID != nil && *c.ResponsibilityDoctorID == doctorID &&
			c.ClinicID == clinicID && c.ClinicScheduleID == scheduleID && c.ExaminationDate.Equal(date) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeConsultations) PatientHasActive(_ context.Context, patientID, clinicID, scheduleID uuid.UUID, date time.Time) (bool, error) {
	for _, c := range f.items {
		if c.PatientID == patientID && c.ClinicID == clinicID && c.ClinicScheduleID == scheduleID &&
			c.ExaminationDate.Equal(date) && c.Status != model.ConsultationCanceled {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeConsultations) ListActiveByPatientAndDate(_ context.Context, patientID uuid.UUID, date time.Time) ([]*model.Consultation, error) {
	var out []*model.Consultation
	for _, c := range f.items {
		if c.PatientID == patientID && c.ExaminationDate.Equal(date) && c.Status != model.ConsultationCanceled {
			c.Schedule = f.schedules[c.ClinicScheduleID]
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeConsultations) BookedDoctorIDs(_ context.Context, clinicID, medicalServiceID, scheduleID uuid.UUID, date time.Time) ([]uuid.UUID, error) {
	seen := make(map[uuid.UUID]bool)
	var ids []uuid.UUID
	for _, c := range f.items {
		if c.ResponsibilityDoctorID == nil || c.Status == model.ConsultationCanceled {
			continue
		}
		if c.ClinicID == clinicID && c.MedicalServiceID == medicalServiceID &&
			c.ClinicScheduleID == scheduleID && c.ExaminationDate.Equal(date) &&
			!seen[*c.ResponsibilityDoctorID] {
			seen[*c.ResponsibilityDoctorID] = true
			ids = append(ids, *c.ResponsibilityDoctorID)
		}
	}
	return ids, nil
}

type fakeSchedules struct {
	items map[uuid.UUID]*model.ClinicSchedule
}

func (f *fakeSchedules) GetByID(_ context.Context, id uuid.UUID) (*model.ClinicSchedule, error) {
	return f.items[id], nil
}

type fakeDoctors struct {
	doctors []*model.Doctor
}

func (f *fakeDoctors) GetDoctor(_ context.Context, userID uuid.UUID) (*model.Doctor, error) {
	for _, d := range f.doctors {
		if d.User.ID == userID {
			return d, nil
		}
	}
	return nil, nil
}

func (f *fakeDoctors) CountDoctorsByClinic(_ context.Context, clinicID uuid.UUID) (int, error) {
	n := 0
	for _, d := range f.doctors {
		if d.Profile.ClinicID != nil && *d.Profile.ClinicID == clinicID {
			n++
		}
	}
	return n, nil
}

func (f *fakeDoctors) ListDoctorsByClinicAndService(_ context.Context, clinicID, medicalServiceID uuid.UUID) ([]*model.Doctor, error) {
	var out []*model.Doctor
	for _, d := range f.doctors {
		if d.Profile.ClinicID != nil && *d.Profile.ClinicID == clinicID &&
			d.Profile.MedicalServiceID != nil && *d.Profile.MedicalServiceID == medicalServiceID {
			out = append(out, d)
		}
	}
	return out, nil
}

type fakeLeaves struct {
	leaves []*model.LeaveSchedule
}

func (f *fakeLeaves) HasActive(_ context.Context, doctorID, scheduleID uuid.UUID, date time.Time) (bool, error) {
	for _, l := range f.leaves {
		if l.DoctorID == doctorID && l.ClinicScheduleID == scheduleID &&
			l.Date.Equal(date) && l.Status == model.StatusActive {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeLeaves) CountActiveBySchedule(_ context.Context, scheduleID uuid.UUID, date time.Time) (int, error) {
	seen := make(map[uuid.UUID]bool)
	for _, l := range f.leaves {
		if l.ClinicScheduleID == scheduleID && l.Date.Equal(date) && l.Status == model.StatusActive {
			seen[l.DoctorID] = true
		}
	}
	return len(seen), nil
}

func (f *fakeLeaves) ActiveDoctorIDsByDate(_ context.Context, date time.Time) ([]uuid.UUID, error) {
	seen := make(map[uuid.UUID]bool)
	var ids []uuid.UUID
	for _, l := range f.leaves {
		if l.Date.Equal(date) && l.Status == model.StatusActive && !seen[l.DoctorID] {
			seen[l.DoctorID] = true
			ids = append(ids, l.DoctorID)
		}
	}
	return ids, nil
}

type fakeHistoryLogs struct {
	entries []*model.HistoryLog
}

func (f *fakeHistoryLogs) Create(_ context.Context, entry *model.HistoryLog) error {
	entry.ID = uuid.New()
	entry.CreatedAt = time.Now()
	f.entries = append(f.entries, entry)
	return nil
}

func (f *fakeHistoryLogs) List(_ context.Context, limit, offset int) ([]*model.HistoryLog, error) {
	if offset >= len(f.entries) {
		return nil, nil
	}
	out := f.entries[offset:]
	if limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

// bookingFixture is one clinic with one active slot, two doctors offering the
// same medical service, and everything needed to book against it.
type bookingFixture struct {
	svc           *BookingService
	consultations *fakeConsultations
	leaves        *fakeLeaves
	doctors       *fakeDoctors
	logs          *fakeHistoryLogs

	clinicID   uuid.UUID
	scheduleID uuid.UUID
	serviceID  uuid.UUID
	doctor1    uuid.UUID
	doctor2    uuid.UUID
	patientID  uuid.UUID
	admin      model.ActorContext
	patient    model.ActorContext
	date       time.Time
}

func newBookingFixture(t *testing.T) *bookingFixture {
	t.Helper()

	fx := &bookingFixture{
		clinicID:   uuid.New(),
		scheduleID: uuid.New(),
		serviceID:  uuid.New(),
		doctor1:    uuid.New(),
		doctor2:    uuid.New(),
		patientID:  uuid.New(),
		date:       time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
	}
	fx.admin = model.ActorContext{UserID: uuid.New(), Role: model.RoleAdmin}
	fx.patient = model.ActorContext{UserID: fx.patientID, Role: model.RoleUser}

	schedules := map[uuid.UUID]*model.ClinicSchedule{
		fx.scheduleID: {
			ID:        fx.scheduleID,
			ClinicID:  fx.clinicID,
			StartTime: "08:00",
			EndTime:   "09:00",
			Status:    model.StatusActive,
		},
	}

	fx.consultations = newFakeConsultations(schedules)
	fx.leaves = &fakeLeaves{}
	fx.doctors = &fakeDoctors{doctors: []*model.Doctor{
		{
			User:    model.User{ID: fx.doctor1, Role: model.RoleDoctor},
			Profile: model.DoctorProfile{UserID: fx.doctor1, ClinicID: &fx.clinicID, MedicalServiceID: &fx.serviceID},
		},
		{
			User:    model.User{ID: fx.doctor2, Role: model.RoleDoctor},
			Profile: model.DoctorProfile{UserID: fx.doctor2, ClinicID: &fx.clinicID, MedicalServiceID: &fx.serviceID},
		},
	}}
	fx.logs = &fakeHistoryLogs{}

	logger := zap.NewNop()
	audit := NewAuditService(fx.logs, logger)
	fx.svc = NewBookingService(fx.consultations, &fakeSchedules{items: schedules}, fx.doctors, fx.leaves, audit, 10, logger)

	return fx
}

func (fx *bookingFixture) createRequest() CreateConsultationRequest {
	return CreateConsultationRequest{
		PatientID:          fx.patientID,
		ClinicID:           fx.clinicID,
		ClinicScheduleID:   fx.scheduleID,
		MedicalServiceID:   fx.serviceID,
		ExaminationDate:    fx.date,
		ExaminationReason:  "Persistent headache",
		MedicalFee:         150000,
		MedicalServiceName: "Neurology consult",
		PaymentMethod:      model.PaymentMethodCash,
		Patient: PatientSnapshot{
			Name:        "Tran Van A",
			Gender:      model.GenderMale,
			PhoneNumber: "0900000001",
			Email:       "a@example.com",
			DateOfBirth: time.Date(1990, 5, 1, 0, 0, 0, 0, time.UTC),
			Province:    "Hanoi",
			District:    "Dong Da",
			Address:     "1 Lang St",
		},
	}
}

func TestCreateConsultation(t *testing.T) {
	ctx := context.Background()

	t.Run("assigns a doctor and starts pending", func(t *testing.T) {
		fx := newBookingFixture(t)

		c, err := fx.svc.Create(ctx, fx.patient, fx.createRequest())
		require.NoError(t, err)
		require.NotNil(t, c.ResponsibilityDoctorID)
		assert.Contains(t, []uuid.UUID{fx.doctor1, fx.doctor2}, *c.ResponsibilityDoctorID)
		assert.Equal(t, model.ConsultationPending, c.Status)
		assert.Equal(t, model.PaymentStatusUnpaid, c.PaymentStatus)
		assert.Len(t, c.Code, 12)
		assert.Len(t, fx.logs.entries, 1)
	})

	t.Run("normalizes the examination date to its day", func(t *testing.T) {
		fx := newBookingFixture(t)

		req := fx.createRequest()
		req.ExaminationDate = time.Date(2026, 3, 10, 14, 35, 12, 0, time.UTC)

		c, err := fx.svc.Create(ctx, fx.patient, req)
		require.NoError(t, err)
		assert.True(t, c.ExaminationDate.Equal(fx.date))
	})

	t.Run("rejects missing fields", func(t *testing.T) {
		fx := newBookingFixture(t)

		req := fx.createRequest()
		req.ExaminationReason = ""

		_, err := fx.svc.Create(ctx, fx.patient, req)
		require.Error(t, err)
		assert.EqualError(t, err, MsgMissingRequiredFields)
	})

	t.Run("honors an explicit doctor choice", func(t *testing.T) {
		fx := newBookingFixture(t)

		req := fx.createRequest()
		req.ResponsibilityDoctorID = &fx.doctor2

		c, err := fx.svc.Create(ctx, fx.patient, req)
		require.NoError(t, err)
		assert.Equal(t, fx.doctor2, *c.ResponsibilityDoctorID)
	})

	t.Run("rejects a doctor on leave", func(t *testing.T) {
		fx := newBookingFixture(t)
		fx.leaves.leaves = append(fx.leaves.leaves, &model.LeaveSchedule{
			DoctorID:         fx.doctor1,
			ClinicScheduleID: fx.scheduleID,
			Date:             fx.date,
			Status:           model.StatusActive,
		})

		req := fx.createRequest()
		req.ResponsibilityDoctorID = &fx.doctor1

		_, err := fx.svc.Create(ctx, fx.patient, req)
		assert.EqualError(t, err, MsgDoctorOnLeave)
	})

	t.Run("an inactive leave does not block the doctor", func(t *testing.T) {
		fx := newBookingFixture(t)
		fx.leaves.leaves = append(fx.leaves.leaves, &model.LeaveSchedule{
			DoctorID:         fx.doctor1,
			ClinicScheduleID: fx.scheduleID,
			Date:             fx.date,
			Status:           model.StatusInactive,
		})

		req := fx.createRequest()
		req.ResponsibilityDoctorID = &fx.doctor1

		_, err := fx.svc.Create(ctx, fx.patient, req)
		assert.NoError(t, err)
	})

	t.Run("rejects a double-booked doctor", func(t *testing.T) {
		fx := newBookingFixture(t)

		first := fx.createRequest()
		first.ResponsibilityDoctorID = &fx.doctor1
		_, err := fx.svc.Create(ctx, fx.patient, first)
		require.NoError(t, err)

		second := fx.createRequest()
		second.PatientID = uuid.New()
		second.ResponsibilityDoctorID = &fx.doctor1

		_, err = fx.svc.Create(ctx, model.ActorContext{UserID: second.PatientID, Role: model.RoleUser}, second)
		assert.EqualError(t, err, MsgDoctorAlreadyBooked)
	})

	t.Run("rejects when the slot is at capacity", func(t *testing.T) {
		fx := newBookingFixture(t)

		// One doctor on leave leaves a single open seat; one booking takes it.
		fx.leaves.leaves = append(fx.leaves.leaves, &model.LeaveSchedule{
			DoctorID:         fx.doctor1,
			ClinicScheduleID: fx.scheduleID,
			Date:             fx.date,
			Status:           model.StatusActive,
		})
		c, err := fx.svc.Create(ctx, fx.patient, fx.createRequest())
		require.NoError(t, err)
		require.NotNil(t, c.ResponsibilityDoctorID)
		assert.Equal(t, fx.doctor2, *c.ResponsibilityDoctorID)

		req := fx.createRequest()
		req.PatientID = uuid.New()
		_, err = fx.svc.Create(ctx, model.ActorContext{UserID: req.PatientID, Role: model.RoleUser}, req)
		assert.EqualError(t, err, MsgScheduleFull)
	})

	t.Run("a third booking on a two-doctor clinic is rejected as full", func(t *testing.T) {
		fx := newBookingFixture(t)

		for i := 0; i < 2; i++ {
			req := fx.createRequest()
			req.PatientID = uuid.New()
			_, err := fx.svc.Create(ctx, model.ActorContext{UserID: req.PatientID, Role: model.RoleUser}, req)
			require.NoError(t, err)
		}

		req := fx.createRequest()
		req.PatientID = uuid.New()
		_, err := fx.svc.Create(ctx, model.ActorContext{UserID: req.PatientID, Role: model.RoleUser}, req)
		assert.EqualError(t, err, MsgScheduleFull)
	})

	t.Run("reports no available doctors when capacity exists but none match", func(t *testing.T) {
		fx := newBookingFixture(t)

		req := fx.createRequest()
		req.MedicalServiceID = uuid.New()

		_, err := fx.svc.Create(ctx, fx.patient, req)
		assert.EqualError(t, err, MsgNoAvailableDoctors)
	})

	t.Run("rejects a duplicate booking for the same slot and date", func(t *testing.T) {
		fx := newBookingFixture(t)

		_, err := fx.svc.Create(ctx, fx.patient, fx.createRequest())
		require.NoError(t, err)

		_, err = fx.svc.Create(ctx, fx.patient, fx.createRequest())
		assert.EqualError(t, err, MsgConsultationExists)
	})

	t.Run("rejects an identical time range at another clinic", func(t *testing.T) {
		fx := newBookingFixture(t)

		_, err := fx.svc.Create(ctx, fx.patient, fx.createRequest())
		require.NoError(t, err)

		otherClinic := uuid.New()
		otherSchedule := uuid.New()
		otherService := uuid.New()
		otherDoctor := uuid.New()
		fx.consultations.schedules[otherSchedule] = &model.ClinicSchedule{
			ID:        otherSchedule,
			ClinicID:  otherClinic,
			StartTime: "08:00",
			EndTime:   "09:00",
			Status:    model.StatusActive,
		}
		fx.doctors.doctors = append(fx.doctors.doctors, &model.Doctor{
			User:    model.User{ID: otherDoctor, Role: model.RoleDoctor},
			Profile: model.DoctorProfile{UserID: otherDoctor, ClinicID: &otherClinic, MedicalServiceID: &otherService},
		})

		req := fx.createRequest()
		req.ClinicID = otherClinic
		req.ClinicScheduleID = otherSchedule
		req.MedicalServiceID = otherService

		_, err = fx.svc.Create(ctx, fx.patient, req)
		assert.EqualError(t, err, MsgConsultationExists)
	})

	t.Run("a canceled booking frees its seat", func(t *testing.T) {
		fx := newBookingFixture(t)
		fx.leaves.leaves = append(fx.leaves.leaves, &model.LeaveSchedule{
			DoctorID:         fx.doctor1,
			ClinicScheduleID: fx.scheduleID,
			Date:             fx.date,
			Status:           model.StatusActive,
		})

		c, err := fx.svc.Create(ctx, fx.patient, fx.createRequest())
		require.NoError(t, err)
		require.NotNil(t, c.ResponsibilityDoctorID)
		assert.Equal(t, fx.doctor2, *c.ResponsibilityDoctorID)

		_, err = fx.svc.Cancel(ctx, fx.patient, c.ID)
		require.NoError(t, err)

		req := fx.createRequest()
		req.PatientID = uuid.New()
		c, err = fx.svc.Create(ctx, model.ActorContext{UserID: req.PatientID, Role: model.RoleUser}, req)
		require.NoError(t, err)
		require.NotNil(t, c.ResponsibilityDoctorID)
		assert.Equal(t, fx.doctor2, *c.ResponsibilityDoctorID)
	})

	t.Run("auto-assignment never picks a doctor on leave", func(t *testing.T) {
		fx := newBookingFixture(t)
		fx.leaves.leaves = append(fx.leaves.leaves, &model.LeaveSchedule{
			DoctorID:         fx.doctor1,
			ClinicScheduleID: fx.scheduleID,
			Date:             fx.date,
			Status:           model.StatusActive,
		})

		// The pick is random, so one lucky draw proves nothing; repeat it.
		for i := 0; i < 20; i++ {
			req := fx.createRequest()
			req.PatientID = uuid.New()
			c, err := fx.svc.Create(ctx, model.ActorContext{UserID: req.PatientID, Role: model.RoleUser}, req)
			require.NoError(t, err)
			require.NotNil(t, c.ResponsibilityDoctorID)
			assert.Equal(t, fx.doctor2, *c.ResponsibilityDoctorID)
			require.NoError(t, fx.svc.Delete(ctx, fx.admin, c.ID))
		}
	})

	t.Run("auto-assignment never picks an already booked doctor", func(t *testing.T) {
		fx := newBookingFixture(t)

		first := fx.createRequest()
		first.ResponsibilityDoctorID = &fx.doctor1
		_, err := fx.svc.Create(ctx, fx.patient, first)
		require.NoError(t, err)

		for i := 0; i < 20; i++ {
			req := fx.createRequest()
			req.PatientID = uuid.New()
			c, err := fx.svc.Create(ctx, model.ActorContext{UserID: req.PatientID, Role: model.RoleUser}, req)
			require.NoError(t, err)
			require.NotNil(t, c.ResponsibilityDoctorID)
			assert.Equal(t, fx.doctor2, *c.ResponsibilityDoctorID)
			require.NoError(t, fx.svc.Delete(ctx, fx.admin, c.ID))
		}
	})

	t.Run("rejects an inactive schedule", func(t *testing.T) {
		fx := newBookingFixture(t)
		fx.consultations.schedules[fx.scheduleID].Status = model.StatusInactive

		_, err := fx.svc.Create(ctx, fx.patient, fx.createRequest())
		assert.EqualError(t, err, MsgScheduleInactive)
	})

	t.Run("rejects an unknown schedule", func(t *testing.T) {
		fx := newBookingFixture(t)

		req := fx.createRequest()
		req.ClinicScheduleID = uuid.New()

		_, err := fx.svc.Create(ctx, fx.patient, req)
		assert.EqualError(t, err, MsgScheduleNotFound)
	})
}

func TestComputeAvailability(t *testing.T) {
	ctx := context.Background()

	t.Run("open slot is available", func(t *testing.T) {
		fx := newBookingFixture(t)

		a, err := fx.svc.ComputeAvailability(ctx, fx.clinicID, fx.scheduleID, fx.date, nil)
		require.NoError(t, err)
		assert.True(t, a.Available)
	})

	t.Run("full slot reports the reason", func(t *testing.T) {
		fx := newBookingFixture(t)
		for _, doctorID := range []uuid.UUID{fx.doctor1, fx.doctor2} {
			req := fx.createRequest()
			req.PatientID = uuid.New()
			req.ResponsibilityDoctorID = &doctorID
			_, err := fx.svc.Create(ctx, model.ActorContext{UserID: req.PatientID, Role: model.RoleUser}, req)
			require.NoError(t, err)
		}

		a, err := fx.svc.ComputeAvailability(ctx, fx.clinicID, fx.scheduleID, fx.date, nil)
		require.NoError(t, err)
		assert.False(t, a.Available)
		assert.Equal(t, MsgScheduleFull, a.Reason)
	})

	t.Run("doctor probe reports leave", func(t *testing.T) {
		fx := newBookingFixture(t)
		fx.leaves.leaves = append(fx.leaves.leaves, &model.LeaveSchedule{
			DoctorID:         fx.doctor1,
			ClinicScheduleID: fx.scheduleID,
			Date:             fx.date,
			Status:           model.StatusActive,
		})

		a, err := fx.svc.ComputeAvailability(ctx, fx.clinicID, fx.scheduleID, fx.date, &fx.doctor1)
		require.NoError(t, err)
		assert.False(t, a.Available)
		assert.Equal(t, MsgDoctorOnLeave, a.Reason)
	})
}

func TestConsultationLifecycle(t *testing.T) {
	ctx := context.Background()

	t.Run("complete applies closing fields", func(t *testing.T) {
		fx := newBookingFixture(t)

		c, err := fx.svc.Create(ctx, fx.patient, fx.createRequest())
		require.NoError(t, err)

		diagnosis := "Tension headache"
		paid := model.PaymentStatusPaid
		done, err := fx.svc.Complete(ctx, fx.admin, c.ID, CompleteConsultationRequest{
			Diagnosis:     &diagnosis,
			PaymentStatus: &paid,
		})
		require.NoError(t, err)
		assert.Equal(t, model.ConsultationDone, done.Status)
		assert.Equal(t, diagnosis, *done.Diagnosis)
		assert.Equal(t, model.PaymentStatusPaid, done.PaymentStatus)
	})

	t.Run("terminal records refuse further transitions", func(t *testing.T) {
		fx := newBookingFixture(t)

		c, err := fx.svc.Create(ctx, fx.patient, fx.createRequest())
		require.NoError(t, err)
		_, err = fx.svc.Cancel(ctx, fx.patient, c.ID)
		require.NoError(t, err)

		_, err = fx.svc.Cancel(ctx, fx.patient, c.ID)
		assert.EqualError(t, err, MsgOnlyPendingCanceled)

		_, err = fx.svc.Complete(ctx, fx.admin, c.ID, CompleteConsultationRequest{})
		assert.EqualError(t, err, MsgOnlyPendingCompleted)

		reason := "changed my mind"
		_, err = fx.svc.Update(ctx, fx.patient, c.ID, UpdateConsultationRequest{ExaminationReason: &reason})
		assert.EqualError(t, err, MsgOnlyPendingUpdated)
	})

	t.Run("update revalidates the doctor against leave", func(t *testing.T) {
		fx := newBookingFixture(t)

		req := fx.createRequest()
		req.ResponsibilityDoctorID = &fx.doctor1
		c, err := fx.svc.Create(ctx, fx.patient, req)
		require.NoError(t, err)

		newDate := time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC)
		fx.leaves.leaves = append(fx.leaves.leaves, &model.LeaveSchedule{
			DoctorID:         fx.doctor1,
			ClinicScheduleID: fx.scheduleID,
			Date:             newDate,
			Status:           model.StatusActive,
		})

		_, err = fx.svc.Update(ctx, fx.admin, c.ID, UpdateConsultationRequest{ExaminationDate: &newDate})
		assert.EqualError(t, err, MsgDoctorOnLeave)
	})

	t.Run("update excludes the record itself from the doctor check", func(t *testing.T) {
		fx := newBookingFixture(t)

		req := fx.createRequest()
		req.ResponsibilityDoctorID = &fx.doctor1
		c, err := fx.svc.Create(ctx, fx.patient, req)
		require.NoError(t, err)

		reason := "follow-up on chest pain"
		updated, err := fx.svc.Update(ctx, fx.admin, c.ID, UpdateConsultationRequest{ExaminationReason: &reason})
		require.NoError(t, err)
		assert.Equal(t, reason, updated.ExaminationReason)
	})

	t.Run("delete is admin only", func(t *testing.T) {
		fx := newBookingFixture(t)

		c, err := fx.svc.Create(ctx, fx.patient, fx.createRequest())
		require.NoError(t, err)

		err = fx.svc.Delete(ctx, fx.patient, c.ID)
		assert.EqualError(t, err, MsgForbidden)

		err = fx.svc.Delete(ctx, fx.admin, c.ID)
		require.NoError(t, err)

		_, err = fx.svc.GetByID(ctx, c.ID)
		assert.EqualError(t, err, MsgConsultationNotFound)
	})
}

func TestListConsultations(t *testing.T) {
	ctx := context.Background()
	fx := newBookingFixture(t)

	for i := 0; i < 3; i++ {
		req := fx.createRequest()
		req.PatientID = uuid.New()
		req.ResponsibilityDoctorID = &fx.doctor1
		if i > 0 {
			// Different slots so the doctor is not double-booked.
			scheduleID := uuid.New()
			fx.consultations.schedules[scheduleID] = &model.ClinicSchedule{
				ID:        scheduleID,
				ClinicID:  fx.clinicID,
				StartTime: time.Date(2026, 3, 10, 9+i, 0, 0, 0, time.UTC).Format("15:04"),
				EndTime:   time.Date(2026, 3, 10, 10+i, 0, 0, 0, time.UTC).Format("15:04"),
				Status:    model.StatusActive,
			}
			req.ClinicScheduleID = scheduleID
		}
		_, err := fx.svc.Create(ctx, model.ActorContext{UserID: req.PatientID, Role: model.RoleUser}, req)
		require.NoError(t, err)
	}

	t.Run("clamps page and page size", func(t *testing.T) {
		items, total, err := fx.svc.List(ctx, model.ConsultationFilter{}, 0, -5)
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		assert.Len(t, items, 3)
	})

	t.Run("pages past the end are empty", func(t *testing.T) {
		items, total, err := fx.svc.List(ctx, model.ConsultationFilter{}, 5, 2)
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		assert.Empty(t, items)
	})

	t.Run("filters by doctor", func(t *testing.T) {
		items, total, err := fx.svc.List(ctx, model.ConsultationFilter{DoctorID: &fx.doctor2}, 1, 10)
		require.NoError(t, err)
		assert.Zero(t, total)
		assert.Empty(t, items)
	})
}
