package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/thecleanest/thecleanest/pkg/core/ledger"
	"github.com/thecleanest/thecleanest/pkg/db"
)

func TestBone(t *testing.T) {
	store := &mockStore{workers: testWorkers()}
	now := time.Date(2024, 7, 1, 15, 4, 5, 0, time.UTC)

	event, err := Bone(context.Background(), store, "w2", now, zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, db.EventBone, event.Kind)
	assert.Equal(t, "w2", event.WorkerID)
	assert.Equal(t, "2024-07-01T15:04:05Z", event.Timestamp)
	assert.NotEmpty(t, event.ID)

	count, err := store.CountEvents(context.Background(), db.EventFilter{Kind: db.EventBone, WorkerID: "w2"})
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestBone_UnknownWorker(t *testing.T) {
	store := &mockStore{workers: testWorkers()}

	_, err := Bone(context.Background(), store, "nobody", time.Now(), zap.NewNop())
	assert.ErrorIs(t, err, ledger.ErrWorkerNotFound)
	assert.Empty(t, store.events)
}

func TestNudge(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 7, 1, 9, 0, 0, 0, time.UTC)

	t.Run("without mailer", func(t *testing.T) {
		store := &mockStore{workers: testWorkers()}
		event, err := Nudge(ctx, store, nil, "w1", now, zap.NewNop())
		require.NoError(t, err)
		assert.Equal(t, db.EventNudge, event.Kind)
	})

	t.Run("emails the worker", func(t *testing.T) {
		store := &mockStore{workers: testWorkers()}
		mailer := &mockMailer{}
		_, err := Nudge(ctx, store, mailer, "w1", now, zap.NewNop())
		require.NoError(t, err)
		assert.Equal(t, []string{"ada@example.com"}, mailer.sent)
	})

	t.Run("email failure keeps the event", func(t *testing.T) {
		store := &mockStore{workers: testWorkers()}
		mailer := &mockMailer{err: errStore}
		event, err := Nudge(ctx, store, mailer, "w1", now, zap.NewNop())
		require.Error(t, err)
		assert.ErrorIs(t, err, errStore)
		require.NotNil(t, event)
		assert.Len(t, store.events, 1)
	})

	t.Run("store failure sends nothing", func(t *testing.T) {
		store := &mockStore{workers: testWorkers(), insertErr: errStore}
		mailer := &mockMailer{}
		_, err := Nudge(ctx, store, mailer, "w1", now, zap.NewNop())
		assert.ErrorIs(t, err, errStore)
		assert.Empty(t, mailer.sent)
	})
}
