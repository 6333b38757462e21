package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/thecleanest/thecleanest/pkg/core/calendar"
	"github.com/thecleanest/thecleanest/pkg/core/ledger"
	"github.com/thecleanest/thecleanest/pkg/db"
)

// ScheduleStore defines the database operations needed for the schedule views
type ScheduleStore interface {
	GetAssignmentsFrom(ctx context.Context, from string) ([]db.Assignment, error)
	db.EventCounter
}

// CurrentAssignmentFinder finds the assignment in effect on a date
type CurrentAssignmentFinder interface {
	CurrentAssignment(ctx context.Context, today time.Time) (*db.Assignment, error)
}

// ScheduleDay is one weekday cell of the schedule grid
type ScheduleDay struct {
	Date       time.Time
	IsWorkday  bool
	Holiday    string         // holiday name, empty on ordinary days
	Assignment *db.Assignment // nil when nothing is scheduled
}

// ScheduleResult is the two-week grid together with today's activity
type ScheduleResult struct {
	Days        []ScheduleDay
	Current     *db.Assignment // nil before the first assignment
	BonesToday  int
	NudgesToday int
}

// Schedule builds the Monday to Friday grid of this week and next
func Schedule(
	ctx context.Context,
	store ScheduleStore,
	cal *calendar.Calendar,
	finder CurrentAssignmentFinder,
	today time.Time,
	loc *time.Location,
	logger *zap.Logger,
) (*ScheduleResult, error) {
	monday := calendar.MondayOf(today)
	grid := calendar.DateRange(monday, monday.AddDate(0, 0, 11))
	logger.Debug("Building schedule",
		zap.String("from", calendar.FormatDate(grid.Start)),
		zap.String("to", calendar.FormatDate(grid.End)))

	assignments, err := store.GetAssignmentsFrom(ctx, calendar.FormatDate(monday))
	if err != nil {
		return nil, fmt.Errorf("failed to get assignments: %w", err)
	}
	byDate := assignmentsByDate(assignments)

	result := &ScheduleResult{}
	for d := range calendar.Weekdays(grid.All()) {
		day := ScheduleDay{
			Date:      d,
			IsWorkday: cal.IsWorkday(d),
			Holiday:   cal.HolidayName(d),
		}
		if a, ok := byDate[calendar.FormatDate(d)]; ok {
			day.Assignment = &a
		}
		result.Days = append(result.Days, day)
	}

	current, err := finder.CurrentAssignment(ctx, today)
	switch {
	case errors.Is(err, ledger.ErrNoAssignment):
	case err != nil:
		return nil, fmt.Errorf("failed to get current assignment: %w", err)
	default:
		result.Current = current
	}

	from, to := dayBounds(today, loc)
	if result.BonesToday, err = store.CountEvents(ctx, db.EventFilter{Kind: db.EventBone, From: from, To: to}); err != nil {
		return nil, fmt.Errorf("failed to count bones: %w", err)
	}
	if result.NudgesToday, err = store.CountEvents(ctx, db.EventFilter{Kind: db.EventNudge, From: from, To: to}); err != nil {
		return nil, fmt.Errorf("failed to count nudges: %w", err)
	}

	return result, nil
}

// FullScheduleLookback is how far before today the full schedule starts
const FullScheduleLookback = 7

// FullSchedule returns every assignment from a week ago onwards, by date
func FullSchedule(ctx context.Context, store ScheduleStore, today time.Time, logger *zap.Logger) ([]db.Assignment, error) {
	from := calendar.FormatDate(calendar.Day(today).AddDate(0, 0, -FullScheduleLookback))
	logger.Debug("Fetching full schedule", zap.String("from", from))

	assignments, err := store.GetAssignmentsFrom(ctx, from)
	if err != nil {
		return nil, fmt.Errorf("failed to get assignments: %w", err)
	}
	return assignments, nil
}
