package services

import (
	"time"

	"github.com/thecleanest/thecleanest/pkg/db"
)

// assignmentsByDate indexes assignments by their YYYY-MM-DD date
func assignmentsByDate(assignments []db.Assignment) map[string]db.Assignment {
	byDate := make(map[string]db.Assignment, len(assignments))
	for _, a := range assignments {
		byDate[a.Date] = a
	}
	return byDate
}

// dayBounds returns the instants the calendar date day starts and ends in loc
func dayBounds(day time.Time, loc *time.Location) (time.Time, time.Time) {
	if loc == nil {
		loc = time.UTC
	}
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 0, 1)
}
