package calendar

import (
	"fmt"
	"sync"
	"time"

	"github.com/teambition/rrule-go"
)

// Holiday is a single fixed-date day off
type Holiday struct {
	Name string
	Date time.Time
}

// HolidayRule is a recurring day off expressed as an RRULE, e.g.
// "FREQ=YEARLY;BYMONTH=11;BYDAY=4TH" for the fourth Thursday of November.
// Rules are evaluated one calendar year at a time.
type HolidayRule struct {
	Name  string
	RRule string
}

type compiledRule struct {
	name string
	rule *rrule.RRule
}

// HolidayTable answers whether a date is a configured holiday
type HolidayTable struct {
	dates map[string]string

	// rrule.RRule carries iteration state, DTStart+Between must not interleave
	mu    sync.Mutex
	rules []compiledRule
}

// NewHolidayTable builds a table from exact dates and recurrence rules.
// Invalid rules are rejected here so a bad calendar fails at startup.
func NewHolidayTable(holidays []Holiday, rules []HolidayRule) (*HolidayTable, error) {
	t := &HolidayTable{
		dates: make(map[string]string, len(holidays)),
		rules: make([]compiledRule, 0, len(rules)),
	}

	for _, h := range holidays {
		if h.Date.IsZero() {
			return nil, fmt.Errorf("holiday %q has no date", h.Name)
		}
		t.dates[FormatDate(Day(h.Date))] = h.Name
	}

	for i, r := range rules {
		parsed, err := rrule.StrToRRule(r.RRule)
		if err != nil {
			return nil, fmt.Errorf("invalid rrule for holiday rule %d (%s): %w", i, r.Name, err)
		}
		t.rules = append(t.rules, compiledRule{name: r.Name, rule: parsed})
	}

	return t, nil
}

// Lookup returns the name of the holiday falling on d, if any
func (t *HolidayTable) Lookup(d time.Time) (string, bool) {
	d = Day(d)
	if name, ok := t.dates[FormatDate(d)]; ok {
		return name, true
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	yearStart := time.Date(d.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	for _, r := range t.rules {
		r.rule.DTStart(yearStart)
		for _, occurrence := range r.rule.Between(d, d, true) {
			if Day(occurrence).Equal(d) {
				return r.name, true
			}
		}
	}

	return "", false
}

// Len returns the number of exact dates plus recurrence rules in the table
func (t *HolidayTable) Len() int {
	return len(t.dates) + len(t.rules)
}
