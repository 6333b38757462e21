// Package calendar classifies dates as weekends, holidays and workdays and walks
// ranges of dates.
package calendar

import (
	"errors"
	"time"
)

// ErrNoHolidayTable is returned when a Calendar is built without a holiday table
var ErrNoHolidayTable = errors.New("holiday table is required")

// Calendar combines the weekend rule with a configured holiday table
type Calendar struct {
	holidays *HolidayTable
}

// New creates a Calendar. An explicitly empty table is fine, a nil one is not.
func New(holidays *HolidayTable) (*Calendar, error) {
	if holidays == nil {
		return nil, ErrNoHolidayTable
	}
	return &Calendar{holidays: holidays}, nil
}

// IsWeekend reports whether d is a Saturday or Sunday
func (c *Calendar) IsWeekend(d time.Time) bool {
	return IsWeekend(d)
}

// IsHoliday reports whether d is in the holiday table
func (c *Calendar) IsHoliday(d time.Time) bool {
	_, ok := c.holidays.Lookup(d)
	return ok
}

// HolidayName returns the holiday name for d, or "" when d is not a holiday
func (c *Calendar) HolidayName(d time.Time) string {
	name, _ := c.holidays.Lookup(d)
	return name
}

// IsWorkday reports whether d is neither a weekend nor a holiday
func (c *Calendar) IsWorkday(d time.Time) bool {
	return !IsWeekend(d) && !c.IsHoliday(d)
}

// Workdays returns the workdays of r in ascending order
func (c *Calendar) Workdays(r Range) []time.Time {
	var days []time.Time
	for d := range r.All() {
		if c.IsWorkday(d) {
			days = append(days, d)
		}
	}
	return days
}
