package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/thecleanest/thecleanest/pkg/core/ledger"
	"github.com/thecleanest/thecleanest/pkg/db"
)

// EventRecorderStore defines the database operations needed to record events
type EventRecorderStore interface {
	GetWorker(ctx context.Context, id string) (*db.Worker, error)
	InsertEvent(ctx context.Context, event *db.Event) error
}

// Mailer sends plain text emails; gmailclient.Client implements it
type Mailer interface {
	SendEmail(ctx context.Context, to, subject, body string) error
}

// Bone records a bone (a thank-you) for a worker
func Bone(ctx context.Context, store EventRecorderStore, workerID string, now time.Time, logger *zap.Logger) (*db.Event, error) {
	event, _, err := recordEvent(ctx, store, db.EventBone, workerID, now, logger)
	return event, err
}

// Nudge records a nudge (a reminder) for a worker and, when mailer is not
// nil, emails them. The event stays recorded if the email fails.
func Nudge(ctx context.Context, store EventRecorderStore, mailer Mailer, workerID string, now time.Time, logger *zap.Logger) (*db.Event, error) {
	event, worker, err := recordEvent(ctx, store, db.EventNudge, workerID, now, logger)
	if err != nil {
		return nil, err
	}
	if mailer == nil {
		return event, nil
	}

	body := fmt.Sprintf("Hi %s,\n\nThis is a friendly nudge about kitchen duty.\n", worker.Name)
	if err := mailer.SendEmail(ctx, worker.Email, "Kitchen duty nudge", body); err != nil {
		logger.Warn("Nudge recorded but email failed",
			zap.String("worker_id", workerID),
			zap.Error(err))
		return event, fmt.Errorf("failed to email nudge: %w", err)
	}

	logger.Info("Nudge email sent", zap.String("worker_id", workerID), zap.String("email", worker.Email))
	return event, nil
}

func recordEvent(ctx context.Context, store EventRecorderStore, kind, workerID string, now time.Time, logger *zap.Logger) (*db.Event, *db.Worker, error) {
	worker, err := store.GetWorker(ctx, workerID)
	if errors.Is(err, db.ErrNotFound) {
		return nil, nil, fmt.Errorf("%w: %s", ledger.ErrWorkerNotFound, workerID)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get worker: %w", err)
	}

	event := &db.Event{
		ID:        uuid.New().String(),
		Kind:      kind,
		WorkerID:  workerID,
		Timestamp: db.FormatTimestamp(now),
	}
	if err := store.InsertEvent(ctx, event); err != nil {
		return nil, nil, fmt.Errorf("failed to record %s: %w", kind, err)
	}

	logger.Info("Event recorded",
		zap.String("kind", kind),
		zap.String("worker_id", workerID),
		zap.String("event_id", event.ID))
	return event, worker, nil
}
