package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thecleanest/thecleanest/pkg/core/calendar"
	"github.com/thecleanest/thecleanest/pkg/db"
)

func scheduleStore() *mockStore {
	return &mockStore{
		workers: testWorkers(),
		assignments: []db.Assignment{
			{ID: "a0", Date: "2024-06-28", WorkerID: "w1", DeferCode: "c0", Status: db.StatusScheduled},
			{ID: "a1", Date: "2024-07-01", WorkerID: "w2", DeferCode: "c1", Status: db.StatusScheduled},
			{ID: "a2", Date: "2024-07-02", WorkerID: "w3", DeferCode: "c2", Status: db.StatusScheduled},
			{ID: "a3", Date: "2024-07-03", WorkerID: "w1", DeferCode: "c3", Status: db.StatusScheduled},
			{ID: "a5", Date: "2024-07-05", WorkerID: "w2", DeferCode: "c5", Status: db.StatusScheduled},
		},
		events: []db.Event{
			{ID: "e1", Kind: db.EventBone, WorkerID: "w1", Timestamp: "2024-07-03T10:00:00Z"},
			{ID: "e2", Kind: db.EventBone, WorkerID: "w2", Timestamp: "2024-07-03T23:30:00Z"},
			{ID: "e3", Kind: db.EventBone, WorkerID: "w2", Timestamp: "2024-07-03T02:00:00Z"},
			{ID: "e4", Kind: db.EventBone, WorkerID: "w3", Timestamp: "2024-07-02T12:00:00Z"},
			{ID: "e5", Kind: db.EventNudge, WorkerID: "w1", Timestamp: "2024-07-03T09:00:00Z"},
		},
	}
}

func TestSchedule_TwoWeekGrid(t *testing.T) {
	f := newFixture(t, scheduleStore())
	today := mustDate(t, "2024-07-03")

	result, err := Schedule(context.Background(), f.store, f.cal, f.ledger, today, time.UTC, f.logger)
	require.NoError(t, err)

	require.Len(t, result.Days, 10)
	assert.Equal(t, "2024-07-01", calendar.FormatDate(result.Days[0].Date))
	assert.Equal(t, "2024-07-12", calendar.FormatDate(result.Days[9].Date))
	for _, d := range result.Days {
		assert.False(t, calendar.IsWeekend(d.Date), calendar.FormatDate(d.Date))
	}

	holiday := result.Days[3]
	assert.Equal(t, "2024-07-04", calendar.FormatDate(holiday.Date))
	assert.False(t, holiday.IsWorkday)
	assert.Equal(t, "Independence Day", holiday.Holiday)
	assert.Nil(t, holiday.Assignment)

	require.NotNil(t, result.Days[0].Assignment)
	assert.Equal(t, "a1", result.Days[0].Assignment.ID)
	assert.True(t, result.Days[0].IsWorkday)
	assert.Nil(t, result.Days[5].Assignment)

	require.NotNil(t, result.Current)
	assert.Equal(t, "a3", result.Current.ID)
	assert.Equal(t, 3, result.BonesToday)
	assert.Equal(t, 1, result.NudgesToday)
}

func TestSchedule_TodayInLocalTimezone(t *testing.T) {
	f := newFixture(t, scheduleStore())
	newYork, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	result, err := Schedule(context.Background(), f.store, f.cal, f.ledger, mustDate(t, "2024-07-03"), newYork, f.logger)
	require.NoError(t, err)

	// 02:00Z on the 3rd is still the 2nd in New York
	assert.Equal(t, 2, result.BonesToday)
}

func TestSchedule_NoAssignmentsYet(t *testing.T) {
	f := newFixture(t, &mockStore{workers: testWorkers()})

	result, err := Schedule(context.Background(), f.store, f.cal, f.ledger, mustDate(t, "2024-07-03"), time.UTC, f.logger)
	require.NoError(t, err)
	assert.Nil(t, result.Current)
	assert.Len(t, result.Days, 10)
	assert.Zero(t, result.BonesToday)
}

func TestFullSchedule_FromAWeekAgo(t *testing.T) {
	f := newFixture(t, scheduleStore())

	assignments, err := FullSchedule(context.Background(), f.store, mustDate(t, "2024-07-08"), f.logger)
	require.NoError(t, err)

	require.Len(t, assignments, 4)
	assert.Equal(t, "2024-07-01", assignments[0].Date)
	assert.Equal(t, "2024-07-05", assignments[3].Date)
}

func TestFrequency(t *testing.T) {
	store := scheduleStore()
	store.workers = append(store.workers, db.Worker{ID: "w0", Name: "Zed", Email: "zed@example.com"})

	frequencies, err := Frequency(context.Background(), store)
	require.NoError(t, err)

	require.Len(t, frequencies, 4)
	assert.Equal(t, "w1", frequencies[0].Worker.ID)
	assert.Equal(t, 2, frequencies[0].Count)
	assert.Equal(t, "w2", frequencies[1].Worker.ID)
	assert.Equal(t, 2, frequencies[1].Count)
	assert.Equal(t, "w3", frequencies[2].Worker.ID)
	assert.Equal(t, 1, frequencies[2].Count)
	assert.Equal(t, "w0", frequencies[3].Worker.ID)
	assert.Zero(t, frequencies[3].Count)
}

func TestNonWorkday(t *testing.T) {
	cal := testCalendar(t)

	t.Run("holiday", func(t *testing.T) {
		result, err := NonWorkday(cal, mustDate(t, "2024-07-04"))
		require.NoError(t, err)
		assert.True(t, result.IsHoliday)
		assert.False(t, result.IsWeekend)
		assert.Equal(t, "Independence Day", result.HolidayName)
	})

	t.Run("weekend", func(t *testing.T) {
		result, err := NonWorkday(cal, mustDate(t, "2024-07-06"))
		require.NoError(t, err)
		assert.True(t, result.IsWeekend)
		assert.False(t, result.IsHoliday)
	})

	t.Run("workday is not found", func(t *testing.T) {
		_, err := NonWorkday(cal, mustDate(t, "2024-07-05"))
		assert.ErrorIs(t, err, ErrIsWorkday)
		assert.ErrorIs(t, err, db.ErrNotFound)
	})
}

func TestKitchen(t *testing.T) {
	f := newFixture(t, scheduleStore())
	ctx := context.Background()

	t.Run("on duty", func(t *testing.T) {
		result, err := Kitchen(ctx, f.store, f.cal, f.ledger, mustDate(t, "2024-07-03"))
		require.NoError(t, err)
		assert.True(t, result.IsWorkday)
		assert.True(t, result.OnDutyToday())
		require.NotNil(t, result.Worker)
		assert.Equal(t, "Ada", result.Worker.Name)
	})

	t.Run("holiday keeps the last duty", func(t *testing.T) {
		result, err := Kitchen(ctx, f.store, f.cal, f.ledger, mustDate(t, "2024-07-04"))
		require.NoError(t, err)
		assert.False(t, result.IsWorkday)
		require.NotNil(t, result.Assignment)
		assert.Equal(t, "2024-07-03", result.Assignment.Date)
		assert.False(t, result.OnDutyToday())
		require.NotNil(t, result.Worker)
		assert.Equal(t, "Ada", result.Worker.Name)
	})

	t.Run("weekend after the last assignment", func(t *testing.T) {
		result, err := Kitchen(ctx, f.store, f.cal, f.ledger, mustDate(t, "2024-07-06"))
		require.NoError(t, err)
		assert.False(t, result.IsWorkday)
		require.NotNil(t, result.Worker)
		assert.Equal(t, "Brian", result.Worker.Name)
	})

	t.Run("unscheduled workday", func(t *testing.T) {
		result, err := Kitchen(ctx, f.store, f.cal, f.ledger, mustDate(t, "2024-07-08"))
		require.NoError(t, err)
		assert.True(t, result.IsWorkday)
		require.NotNil(t, result.Assignment)
		assert.Equal(t, "2024-07-05", result.Assignment.Date)
		assert.False(t, result.OnDutyToday())
	})

	t.Run("before anything is scheduled", func(t *testing.T) {
		result, err := Kitchen(ctx, f.store, f.cal, f.ledger, mustDate(t, "2024-06-24"))
		require.NoError(t, err)
		assert.Nil(t, result.Assignment)
		assert.Nil(t, result.Worker)
	})
}
