package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/thecleanest/thecleanest/pkg/core/calendar"
)

// holidaysFile is the TOML layout of the holiday calendar:
//
//	[[holiday]]
//	name = "Independence Day"
//	date = 2024-07-04
//
//	[[rule]]
//	name = "Thanksgiving"
//	rrule = "FREQ=YEARLY;BYMONTH=11;BYDAY=4TH"
type holidaysFile struct {
	Holidays []holidayEntry `toml:"holiday"`
	Rules    []ruleEntry    `toml:"rule"`
}

type holidayEntry struct {
	Name string    `toml:"name"`
	Date time.Time `toml:"date"`
}

type ruleEntry struct {
	Name  string `toml:"name"`
	RRule string `toml:"rrule"`
}

// LoadHolidays reads the holiday calendar at path into a HolidayTable.
// Unknown keys and invalid rules are configuration errors.
func LoadHolidays(path string) (*calendar.HolidayTable, error) {
	var file holidaysFile
	md, err := toml.DecodeFile(path, &file)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse holidays file: %w", ErrInvalidConfig, err)
	}
	return buildHolidayTable(file, md)
}

// ParseHolidays is LoadHolidays over an in-memory document
func ParseHolidays(data string) (*calendar.HolidayTable, error) {
	var file holidaysFile
	md, err := toml.Decode(data, &file)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse holidays: %w", ErrInvalidConfig, err)
	}
	return buildHolidayTable(file, md)
}

func buildHolidayTable(file holidaysFile, md toml.MetaData) (*calendar.HolidayTable, error) {
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("%w: unknown keys in holidays file: %s", ErrInvalidConfig, strings.Join(keys, ", "))
	}

	holidays := make([]calendar.Holiday, len(file.Holidays))
	for i, h := range file.Holidays {
		holidays[i] = calendar.Holiday{Name: h.Name, Date: h.Date}
	}
	rules := make([]calendar.HolidayRule, len(file.Rules))
	for i, r := range file.Rules {
		rules[i] = calendar.HolidayRule{Name: r.Name, RRule: r.RRule}
	}

	table, err := calendar.NewHolidayTable(holidays, rules)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return table, nil
}
