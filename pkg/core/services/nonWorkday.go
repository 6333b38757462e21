package services

import (
	"time"

	"github.com/thecleanest/thecleanest/pkg/core/calendar"
)

// NonWorkdayResult explains why nobody is on duty on a date
type NonWorkdayResult struct {
	Date        time.Time
	IsWeekend   bool
	IsHoliday   bool
	HolidayName string
}

// NonWorkday explains a weekend or holiday; a workday returns ErrIsWorkday
func NonWorkday(cal *calendar.Calendar, date time.Time) (*NonWorkdayResult, error) {
	date = calendar.Day(date)
	if cal.IsWorkday(date) {
		return nil, ErrIsWorkday
	}
	return &NonWorkdayResult{
		Date:        date,
		IsWeekend:   cal.IsWeekend(date),
		IsHoliday:   cal.IsHoliday(date),
		HolidayName: cal.HolidayName(date),
	}, nil
}
