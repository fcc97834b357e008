package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/clinichub/clinic-booking/internal/model"
)

type fakeScheduleAdmin struct {
	items map[uuid.UUID]*model.ClinicSchedule
	links map[uuid.UUID][]uuid.UUID
}

func newFakeScheduleAdmin() *fakeScheduleAdmin {
	return &fakeScheduleAdmin{
		items: make(map[uuid.UUID]*model.ClinicSchedule),
		links: make(map[uuid.UUID][]uuid.UUID),
	}
}

func (f *fakeScheduleAdmin) Create(_ context.Context, schedule *model.ClinicSchedule) error {
	schedule.ID = uuid.New()
	schedule.CreatedAt = time.Now()
	schedule.UpdatedAt = schedule.CreatedAt
	f.items[schedule.ID] = schedule
	return nil
}

func (f *fakeScheduleAdmin) GetByID(_ context.Context, id uuid.UUID) (*model.ClinicSchedule, error) {
	return f.items[id], nil
}

func (f *fakeScheduleAdmin) ListByClinic(_ context.Context, clinicID uuid.UUID, activeOnly bool) ([]*model.ClinicSchedule, error) {
	var out []*model.ClinicSchedule
	for _, s := range f.items {
		if s.ClinicID == clinicID && (!activeOnly || s.Status == model.StatusActive) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeScheduleAdmin) UpdateTimes(_ context.Context, id uuid.UUID, startTime, endTime string) error {
	f.items[id].StartTime = startTime
	f.items[id].EndTime = endTime
	return nil
}

func (f *fakeScheduleAdmin) UpdateStatus(_ context.Context, id uuid.UUID, status model.ActiveStatus) error {
	f.items[id].Status = status
	return nil
}

func (f *fakeScheduleAdmin) Delete(_ context.Context, id uuid.UUID) error {
	delete(f.items, id)
	return nil
}

func (f *fakeScheduleAdmin) SetClinicActiveSet(_ context.Context, clinicID uuid.UUID, activeIDs []uuid.UUID) error {
	active := make(map[uuid.UUID]bool, len(activeIDs))
	for _, id := range activeIDs {
		active[id] = true
	}
	for id, s := range f.items {
		if s.ClinicID != clinicID {
			continue
		}
		if active[id] {
			s.Status = model.StatusActive
		} else {
			s.Status = model.StatusInactive
		}
	}
	return nil
}

func (f *fakeScheduleAdmin) ReplaceWorkingSchedules(_ context.Context, doctorID uuid.UUID, scheduleIDs []uuid.UUID) error {
	f.links[doctorID] = scheduleIDs
	return nil
}

func (f *fakeScheduleAdmin) ListWorkingSchedulesByDoctor(_ context.Context, doctorID uuid.UUID) ([]*model.DoctorWorkingSchedule, error) {
	var out []*model.DoctorWorkingSchedule
	for _, scheduleID := range f.links[doctorID] {
		out = append(out, &model.DoctorWorkingSchedule{
			ID:               uuid.New(),
			DoctorID:         doctorID,
			ClinicScheduleID: scheduleID,
			Schedule:         f.items[scheduleID],
		})
	}
	return out, nil
}

type fakeRequestChanges struct {
	items []*model.RequestChangeSchedule
}

func (f *fakeRequestChanges) Create(_ context.Context, req *model.RequestChangeSchedule) error {
	req.ID = uuid.New()
	req.CreatedAt = time.Now()
	req.UpdatedAt = req.CreatedAt
	f.items = append(f.items, req)
	return nil
}

func (f *fakeRequestChanges) ListDue(_ context.Context, now time.Time) ([]*model.RequestChangeSchedule, error) {
	var out []*model.RequestChangeSchedule
	for _, r := range f.items {
		if !r.Applied && !r.ApplyDate.After(now) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRequestChanges) MarkApplied(_ context.Context, id uuid.UUID) error {
	for _, r := range f.items {
		if r.ID == id {
			r.Applied = true
		}
	}
	return nil
}

func (f *fakeRequestChanges) ListByClinic(_ context.Context, clinicID uuid.UUID) ([]*model.RequestChangeSchedule, error) {
	var out []*model.RequestChangeSchedule
	for _, r := range f.items {
		if r.ClinicID == clinicID {
			out = append(out, r)
		}
	}
	return out, nil
}

type fakeClinics struct {
	items map[uuid.UUID]*model.Clinic
}

func (f *fakeClinics) GetByID(_ context.Context, id uuid.UUID) (*model.Clinic, error) {
	return f.items[id], nil
}

type scheduleFixture struct {
	svc      *ScheduleService
	store    *fakeScheduleAdmin
	requests *fakeRequestChanges
	clinicID uuid.UUID
	admin    model.ActorContext
	user     model.ActorContext
}

func newScheduleFixture(t *testing.T) *scheduleFixture {
	t.Helper()

	fx := &scheduleFixture{
		store:    newFakeScheduleAdmin(),
		requests: &fakeRequestChanges{},
		clinicID: uuid.New(),
		admin:    model.ActorContext{UserID: uuid.New(), Role: model.RoleAdmin},
		user:     model.ActorContext{UserID: uuid.New(), Role: model.RoleUser},
	}

	clinics := &fakeClinics{items: map[uuid.UUID]*model.Clinic{
		fx.clinicID: {ID: fx.clinicID, Name: "Central Clinic", Status: model.StatusActive},
	}}

	logger := zap.NewNop()
	audit := NewAuditService(&fakeHistoryLogs{}, logger)
	fx.svc = NewScheduleService(fx.store, fx.requests, clinics, &fakeDoctors{}, audit, logger)

	return fx
}

func (fx *scheduleFixture) addSlot(t *testing.T, start, end string) *model.ClinicSchedule {
	t.Helper()
	s, err := fx.svc.Create(context.Background(), fx.admin, CreateScheduleRequest{
		ClinicID:  fx.clinicID,
		StartTime: start,
		EndTime:   end,
	})
	require.NoError(t, err)
	return s
}

func TestScheduleCRUD(t *testing.T) {
	ctx := context.Background()

	t.Run("create requires admin", func(t *testing.T) {
		fx := newScheduleFixture(t)

		_, err := fx.svc.Create(ctx, fx.user, CreateScheduleRequest{
			ClinicID:  fx.clinicID,
			StartTime: "08:00",
			EndTime:   "09:00",
		})
		assert.EqualError(t, err, MsgForbidden)
	})

	t.Run("new slots start active", func(t *testing.T) {
		fx := newScheduleFixture(t)

		s := fx.addSlot(t, "08:00", "09:00")
		assert.Equal(t, model.StatusActive, s.Status)
	})

	t.Run("non-admin listing hides inactive slots", func(t *testing.T) {
		fx := newScheduleFixture(t)
		fx.addSlot(t, "08:00", "09:00")
		inactive := fx.addSlot(t, "09:00", "10:00")

		status := model.StatusInactive
		_, err := fx.svc.Update(ctx, fx.admin, inactive.ID, UpdateScheduleRequest{Status: &status})
		require.NoError(t, err)

		visible, err := fx.svc.ListByClinic(ctx, fx.user, fx.clinicID)
		require.NoError(t, err)
		assert.Len(t, visible, 1)

		all, err := fx.svc.ListByClinic(ctx, fx.admin, fx.clinicID)
		require.NoError(t, err)
		assert.Len(t, all, 2)
	})

	t.Run("unknown clinic", func(t *testing.T) {
		fx := newScheduleFixture(t)

		_, err := fx.svc.ListByClinic(ctx, fx.admin, uuid.New())
		assert.EqualError(t, err, MsgClinicNotFound)
	})
}

func TestRequestChange(t *testing.T) {
	ctx := context.Background()

	t.Run("requires at least one slot", func(t *testing.T) {
		fx := newScheduleFixture(t)

		_, err := fx.svc.CreateRequestChange(ctx, fx.admin, CreateRequestChangeRequest{
			Name:      "Summer hours",
			ClinicID:  fx.clinicID,
			ApplyDate: time.Now().Add(24 * time.Hour),
		})
		assert.EqualError(t, err, MsgRequestChangeEmpty)
	})

	t.Run("rejects slots of another clinic", func(t *testing.T) {
		fx := newScheduleFixture(t)

		_, err := fx.svc.CreateRequestChange(ctx, fx.admin, CreateRequestChangeRequest{
			Name:      "Summer hours",
			ClinicID:  fx.clinicID,
			ApplyDate: time.Now().Add(24 * time.Hour),
			NewValue:  []uuid.UUID{uuid.New()},
		})
		assert.EqualError(t, err, MsgScheduleNotFound)
	})

	t.Run("due requests swap the active slot set exactly once", func(t *testing.T) {
		fx := newScheduleFixture(t)
		morning := fx.addSlot(t, "08:00", "09:00")
		evening := fx.addSlot(t, "18:00", "19:00")

		_, err := fx.svc.CreateRequestChange(ctx, fx.admin, CreateRequestChangeRequest{
			Name:      "Evening only",
			ClinicID:  fx.clinicID,
			ApplyDate: time.Now().Add(-time.Minute),
			NewValue:  []uuid.UUID{evening.ID},
		})
		require.NoError(t, err)

		applied, err := fx.svc.ApplyDueScheduleChanges(ctx, time.Now())
		require.NoError(t, err)
		assert.Equal(t, 1, applied)
		assert.Equal(t, model.StatusInactive, fx.store.items[morning.ID].Status)
		assert.Equal(t, model.StatusActive, fx.store.items[evening.ID].Status)

		applied, err = fx.svc.ApplyDueScheduleChanges(ctx, time.Now())
		require.NoError(t, err)
		assert.Zero(t, applied)
	})

	t.Run("future requests stay pending", func(t *testing.T) {
		fx := newScheduleFixture(t)
		slot := fx.addSlot(t, "08:00", "09:00")

		_, err := fx.svc.CreateRequestChange(ctx, fx.admin, CreateRequestChangeRequest{
			Name:      "Next month",
			ClinicID:  fx.clinicID,
			ApplyDate: time.Now().Add(30 * 24 * time.Hour),
			NewValue:  []uuid.UUID{slot.ID},
		})
		require.NoError(t, err)

		applied, err := fx.svc.ApplyDueScheduleChanges(ctx, time.Now())
		require.NoError(t, err)
		assert.Zero(t, applied)
	})
}
