package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleHolidays = `
[[holiday]]
name = "Independence Day"
date = 2024-07-04

[[holiday]]
name = "Office closure"
date = 2024-12-27

[[rule]]
name = "Thanksgiving"
rrule = "FREQ=YEARLY;BYMONTH=11;BYDAY=4TH"

[[rule]]
name = "Christmas Day"
rrule = "FREQ=YEARLY;BYMONTH=12;BYMONTHDAY=25"
`

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestParseHolidays(t *testing.T) {
	table, err := ParseHolidays(sampleHolidays)
	require.NoError(t, err)

	tests := []struct {
		date time.Time
		name string
		ok   bool
	}{
		{day(2024, time.July, 4), "Independence Day", true},
		{day(2025, time.July, 4), "", false},
		{day(2024, time.December, 27), "Office closure", true},
		{day(2024, time.November, 28), "Thanksgiving", true},
		{day(2025, time.November, 27), "Thanksgiving", true},
		{day(2024, time.November, 21), "", false},
		{day(2030, time.December, 25), "Christmas Day", true},
		{day(2024, time.June, 3), "", false},
	}
	for _, tt := range tests {
		t.Run(tt.date.Format("2006-01-02"), func(t *testing.T) {
			name, ok := table.Lookup(tt.date)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.name, name)
		})
	}
}

func TestParseHolidays_Empty(t *testing.T) {
	table, err := ParseHolidays("")
	require.NoError(t, err)
	assert.Zero(t, table.Len())
}

func TestParseHolidays_UnknownKey(t *testing.T) {
	_, err := ParseHolidays(`
[[holiday]]
name = "Independence Day"
date = 2024-07-04
colour = "red"
`)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidConfig)
	assert.Contains(t, err.Error(), "colour")
}

func TestParseHolidays_InvalidRule(t *testing.T) {
	_, err := ParseHolidays(`
[[rule]]
name = "Broken"
rrule = "NOT_A_RULE"
`)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestParseHolidays_MissingDate(t *testing.T) {
	_, err := ParseHolidays(`
[[holiday]]
name = "Someday"
`)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestParseHolidays_Malformed(t *testing.T) {
	_, err := ParseHolidays(`[[holiday]`)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestLoadHolidays(t *testing.T) {
	path := filepath.Join(t.TempDir(), "holidays.toml")
	require.NoError(t, os.WriteFile(path, []byte(sampleHolidays), 0644))

	table, err := LoadHolidays(path)
	require.NoError(t, err)
	assert.Equal(t, 4, table.Len())

	_, err = LoadHolidays(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
