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

type fakeHealthRecords struct {
	records map[uuid.UUID]*model.HealthRecord
}

func newFakeHealthRecords() *fakeHealthRecords {
	return &fakeHealthRecords{records: make(map[uuid.UUID]*model.HealthRecord)}
}

func (f *fakeHealthRecords) Create(_ context.Context, record *model.HealthRecord) error {
	record.ID = uuid.New()
	record.CreatedAt = time.Now()
	record.UpdatedAt = record.CreatedAt
	f.records[record.UserID] = record
	return nil
}

func (f *fakeHealthRecords) GetByUser(_ context.Context, userID uuid.UUID) (*model.HealthRecord, error) {
	return f.records[userID], nil
}

func (f *fakeHealthRecords) Update(_ context.Context, record *model.HealthRecord) error {
	record.UpdatedAt = time.Now()
	f.records[record.UserID] = record
	return nil
}

func newHealthRecordService(store *fakeHealthRecords) *HealthRecordService {
	logger := zap.NewNop()
	return NewHealthRecordService(store, NewAuditService(&fakeHistoryLogs{}, logger), logger)
}

func TestHealthRecord(t *testing.T) {
	ctx := context.Background()
	admin := model.ActorContext{UserID: uuid.New(), Role: model.RoleAdmin}

	seed := func(store *fakeHealthRecords) uuid.UUID {
		userID := uuid.New()
		require.NoError(t, store.Create(ctx, &model.HealthRecord{UserID: userID}))
		return userID
	}

	t.Run("a new record starts empty", func(t *testing.T) {
		store := newFakeHealthRecords()
		svc := newHealthRecordService(store)
		userID := seed(store)

		record, err := svc.Get(ctx, model.ActorContext{UserID: userID, Role: model.RoleUser}, userID)
		require.NoError(t, err)
		assert.Nil(t, record.BloodType)
		assert.Nil(t, record.Height)
		assert.Nil(t, record.Weight)
		assert.Nil(t, record.HealthHistory)
	})

	t.Run("update fills in the medical fields", func(t *testing.T) {
		store := newFakeHealthRecords()
		svc := newHealthRecordService(store)
		userID := seed(store)

		bloodType := "O+"
		height := 172.0
		record, err := svc.Update(ctx, model.ActorContext{UserID: userID, Role: model.RoleUser}, userID,
			UpdateHealthRecordRequest{BloodType: &bloodType, Height: &height})
		require.NoError(t, err)
		assert.Equal(t, "O+", *record.BloodType)
		assert.Equal(t, 172.0, *record.Height)
	})

	t.Run("omitted fields keep their value", func(t *testing.T) {
		store := newFakeHealthRecords()
		svc := newHealthRecordService(store)
		userID := seed(store)
		actor := model.ActorContext{UserID: userID, Role: model.RoleUser}

		bloodType := "AB-"
		_, err := svc.Update(ctx, actor, userID, UpdateHealthRecordRequest{BloodType: &bloodType})
		require.NoError(t, err)

		weight := 64.5
		record, err := svc.Update(ctx, actor, userID, UpdateHealthRecordRequest{Weight: &weight})
		require.NoError(t, err)
		require.NotNil(t, record.BloodType)
		assert.Equal(t, "AB-", *record.BloodType)
		assert.Equal(t, 64.5, *record.Weight)
	})

	t.Run("a user cannot touch someone else's record", func(t *testing.T) {
		store := newFakeHealthRecords()
		svc := newHealthRecordService(store)
		userID := seed(store)
		other := model.ActorContext{UserID: uuid.New(), Role: model.RoleUser}

		_, err := svc.Get(ctx, other, userID)
		assert.EqualError(t, err, MsgForbidden)

		history := "asthma"
		_, err = svc.Update(ctx, other, userID, UpdateHealthRecordRequest{HealthHistory: &history})
		assert.EqualError(t, err, MsgForbidden)
	})

	t.Run("an admin can read and update any record", func(t *testing.T) {
		store := newFakeHealthRecords()
		svc := newHealthRecordService(store)
		userID := seed(store)

		_, err := svc.Get(ctx, admin, userID)
		require.NoError(t, err)

		history := "hypertension"
		record, err := svc.Update(ctx, admin, userID, UpdateHealthRecordRequest{HealthHistory: &history})
		require.NoError(t, err)
		assert.Equal(t, "hypertension", *record.HealthHistory)
	})

	t.Run("missing record", func(t *testing.T) {
		svc := newHealthRecordService(newFakeHealthRecords())

		_, err := svc.Get(ctx, admin, uuid.New())
		assert.EqualError(t, err, MsgHealthRecordNotFound)

		_, err = svc.Update(ctx, admin, uuid.New(), UpdateHealthRecordRequest{})
		assert.EqualError(t, err, MsgHealthRecordNotFound)
	})
}
