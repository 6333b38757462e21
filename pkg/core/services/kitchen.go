package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/thecleanest/thecleanest/pkg/core/calendar"
	"github.com/thecleanest/thecleanest/pkg/core/ledger"
	"github.com/thecleanest/thecleanest/pkg/db"
)

// KitchenStore defines the database operations needed for the kitchen view
type KitchenStore interface {
	GetWorker(ctx context.Context, id string) (*db.Worker, error)
}

// KitchenResult says who holds the kitchen duty today
type KitchenResult struct {
	Date      time.Time
	IsWorkday bool
	// Assignment is the latest one on or before Date; nil before anything is scheduled
	Assignment *db.Assignment
	Worker     *db.Worker // nil when nobody holds the duty
}

// OnDutyToday reports whether the current assignment is dated today
func (r *KitchenResult) OnDutyToday() bool {
	return r.Assignment != nil && r.Assignment.Date == calendar.FormatDate(r.Date)
}

// Kitchen returns the duty in effect today. On weekends, holidays and
// unscheduled workdays that is the last assignment before today.
func Kitchen(ctx context.Context, store KitchenStore, cal *calendar.Calendar, finder CurrentAssignmentFinder, today time.Time) (*KitchenResult, error) {
	today = calendar.Day(today)
	result := &KitchenResult{Date: today, IsWorkday: cal.IsWorkday(today)}

	a, err := finder.CurrentAssignment(ctx, today)
	if errors.Is(err, ledger.ErrNoAssignment) {
		return result, nil
	}
	if err != nil {
		return nil, err
	}
	result.Assignment = a

	if a.WorkerID != "" {
		w, err := store.GetWorker(ctx, a.WorkerID)
		if err != nil {
			return nil, fmt.Errorf("failed to get worker: %w", err)
		}
		result.Worker = w
	}
	return result, nil
}
