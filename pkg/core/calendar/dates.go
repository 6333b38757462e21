package calendar

import (
	"fmt"
	"iter"
	"time"
)

// DateLayout is the layout used for dates in records, config and command arguments
const DateLayout = "2006-01-02"

// Day normalises t to midnight UTC of its calendar date
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Today returns the current calendar date in loc, normalised with Day
func Today(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return Day(time.Now().In(loc))
}

// ParseDate parses a YYYY-MM-DD date
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return d, nil
}

// FormatDate formats d as YYYY-MM-DD
func FormatDate(d time.Time) string {
	return d.Format(DateLayout)
}

// MondayOf returns the Monday of the week containing d
func MondayOf(d time.Time) time.Time {
	d = Day(d)
	// Weekday() counts from Sunday
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDate(0, 0, -offset)
}

const secondsPerDay = 24 * 60 * 60

// Range is an inclusive span of calendar dates
type Range struct {
	Start time.Time
	End   time.Time
}

// DateRange returns the inclusive range of dates from start to end.
// A start after end gives an empty range.
func DateRange(start, end time.Time) Range {
	return Range{Start: Day(start), End: Day(end)}
}

// Len returns the number of dates in the range
func (r Range) Len() int {
	if r.Start.After(r.End) {
		return 0
	}
	// both ends are UTC midnight; time.Duration would saturate past ~292 years
	return int((r.End.Unix()-r.Start.Unix())/secondsPerDay) + 1
}

// All yields each date of the range in ascending order.
// The sequence is lazy and can be ranged over any number of times.
func (r Range) All() iter.Seq[time.Time] {
	return func(yield func(time.Time) bool) {
		for d := r.Start; !d.After(r.End); d = d.AddDate(0, 0, 1) {
			if !yield(d) {
				return
			}
		}
	}
}

// Weekdays filters seq down to Monday..Friday. Holidays are kept, this is for
// display grids; use Calendar.IsWorkday when assigning duty.
func Weekdays(seq iter.Seq[time.Time]) iter.Seq[time.Time] {
	return func(yield func(time.Time) bool) {
		for d := range seq {
			if IsWeekend(d) {
				continue
			}
			if !yield(d) {
				return
			}
		}
	}
}

// IsWeekend reports whether d is a Saturday or Sunday
func IsWeekend(d time.Time) bool {
	wd := d.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}
