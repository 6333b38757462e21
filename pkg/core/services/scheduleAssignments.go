package services

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/thecleanest/thecleanest/pkg/core/calendar"
	"github.com/thecleanest/thecleanest/pkg/db"
)

// ScheduleAssignmentsStore defines the database operations needed to schedule duty
type ScheduleAssignmentsStore interface {
	GetWorkers(ctx context.Context) ([]db.Worker, error)
	GetAssignments(ctx context.Context) ([]db.Assignment, error)
	InsertAssignments(ctx context.Context, assignments []db.Assignment) error
}

// ScheduleAssignments creates one scheduled assignment for every workday in
// [from, to] that has none. Each day goes to the worker holding the fewest
// assignments so far, ties by worker ID. Every assignment gets a fresh
// random defer code.
func ScheduleAssignments(
	ctx context.Context,
	store ScheduleAssignmentsStore,
	cal *calendar.Calendar,
	from, to time.Time,
	logger *zap.Logger,
) ([]db.Assignment, error) {
	workers, err := store.GetWorkers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get workers: %w", err)
	}
	if len(workers) == 0 {
		return nil, ErrNoWorkers
	}

	existing, err := store.GetAssignments(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get assignments: %w", err)
	}
	taken := assignmentsByDate(existing)
	counts := assignmentCounts(existing)

	var created []db.Assignment
	for _, day := range cal.Workdays(calendar.DateRange(calendar.Day(from), calendar.Day(to))) {
		date := calendar.FormatDate(day)
		if _, ok := taken[date]; ok {
			logger.Debug("Day already scheduled", zap.String("date", date))
			continue
		}

		worker := slices.MinFunc(workers, func(a, b db.Worker) int {
			return cmp.Or(cmp.Compare(counts[a.ID], counts[b.ID]), cmp.Compare(a.ID, b.ID))
		})
		counts[worker.ID]++

		created = append(created, db.Assignment{
			ID:        uuid.New().String(),
			Date:      date,
			WorkerID:  worker.ID,
			DeferCode: uuid.New().String(),
			Status:    db.StatusScheduled,
		})
	}

	if len(created) == 0 {
		logger.Info("Nothing to schedule")
		return nil, nil
	}

	if err := store.InsertAssignments(ctx, created); err != nil {
		return nil, fmt.Errorf("failed to insert assignments: %w", err)
	}

	logger.Info("Assignments scheduled",
		zap.Int("count", len(created)),
		zap.String("from", created[0].Date),
		zap.String("to", created[len(created)-1].Date))
	return created, nil
}
