package sqlite

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thecleanest/thecleanest/pkg/db"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	ctx := context.Background()

	store, err := NewDB(ctx, filepath.Join(t.TempDir(), "ledger.db"))
	require.NoError(t, err)
	t.Cleanup(store.Close)

	require.NoError(t, store.RunMigrations(ctx))
	return store
}

func seed(t *testing.T, store *DB) {
	t.Helper()
	ctx := context.Background()

	for _, w := range []db.Worker{
		{ID: "w1", Name: "Ada", Email: "ada@example.com"},
		{ID: "w2", Name: "Brian", Email: "brian@example.com"},
		{ID: "w3", Name: "Cleo", Email: "cleo@example.com"},
	} {
		require.NoError(t, store.InsertWorker(ctx, &w))
	}

	require.NoError(t, store.InsertAssignments(ctx, []db.Assignment{
		{ID: "a1", Date: "2024-06-03", WorkerID: "w1", DeferCode: "code-1"},
		{ID: "a2", Date: "2024-06-04", WorkerID: "w2", DeferCode: "code-2"},
		{ID: "a3", Date: "2024-06-05", WorkerID: "w3", DeferCode: "code-3"},
	}))
}

func debitFor(assignmentID, workerID string) db.Debit {
	return db.Debit{
		ID:                  "debit-" + assignmentID,
		WorkerID:            workerID,
		SkippedAssignmentID: assignmentID,
		Amount:              1,
		CreatedAt:           "2024-06-03T09:00:00Z",
	}
}

func TestRunMigrationsIsIdempotent(t *testing.T) {
	store := newTestDB(t)
	assert.NoError(t, store.RunMigrations(context.Background()))
}

func TestWorkers(t *testing.T) {
	store := newTestDB(t)
	seed(t, store)
	ctx := context.Background()

	workers, err := store.GetWorkers(ctx)
	require.NoError(t, err)
	require.Len(t, workers, 3)
	assert.Equal(t, "w1", workers[0].ID)

	w, err := store.GetWorker(ctx, "w2")
	require.NoError(t, err)
	assert.Equal(t, "brian@example.com", w.Email)

	_, err = store.GetWorker(ctx, "nobody")
	assert.ErrorIs(t, err, db.ErrNotFound)

	dup := db.Worker{ID: "w4", Name: "Ada again", Email: "ada@example.com"}
	assert.Error(t, store.InsertWorker(ctx, &dup))
}

func TestAssignmentLookups(t *testing.T) {
	store := newTestDB(t)
	seed(t, store)
	ctx := context.Background()

	t.Run("by date", func(t *testing.T) {
		a, err := store.GetAssignmentByDate(ctx, "2024-06-04")
		require.NoError(t, err)
		assert.Equal(t, "a2", a.ID)
		assert.Equal(t, db.StatusScheduled, a.Status)
	})

	t.Run("by defer code", func(t *testing.T) {
		a, err := store.GetAssignmentByDeferCode(ctx, "code-3")
		require.NoError(t, err)
		assert.Equal(t, "a3", a.ID)
	})

	t.Run("latest on or before", func(t *testing.T) {
		a, err := store.GetLatestAssignmentOnOrBefore(ctx, "2024-06-08")
		require.NoError(t, err)
		assert.Equal(t, "a3", a.ID)

		a, err = store.GetLatestAssignmentOnOrBefore(ctx, "2024-06-04")
		require.NoError(t, err)
		assert.Equal(t, "a2", a.ID)

		_, err = store.GetLatestAssignmentOnOrBefore(ctx, "2024-06-01")
		assert.ErrorIs(t, err, db.ErrNotFound)
	})

	t.Run("from date", func(t *testing.T) {
		assignments, err := store.GetAssignmentsFrom(ctx, "2024-06-04")
		require.NoError(t, err)
		require.Len(t, assignments, 2)
		assert.Equal(t, "a2", assignments[0].ID)
		assert.Equal(t, "a3", assignments[1].ID)
	})

	t.Run("missing", func(t *testing.T) {
		_, err := store.GetAssignmentByID(ctx, "nope")
		assert.ErrorIs(t, err, db.ErrNotFound)
	})

	t.Run("duplicate date rejected", func(t *testing.T) {
		err := store.InsertAssignments(ctx, []db.Assignment{
			{ID: "a9", Date: "2024-06-03", WorkerID: "w2", DeferCode: "code-9"},
		})
		assert.Error(t, err)
	})
}

func TestDeferAssignment(t *testing.T) {
	store := newTestDB(t)
	seed(t, store)
	ctx := context.Background()

	require.NoError(t, store.DeferAssignment(ctx, "code-1", debitFor("a1", "w1"), "w2"))

	a, err := store.GetAssignmentByID(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, db.StatusDeferred, a.Status)
	assert.Empty(t, a.WorkerID)
	assert.Equal(t, "w1", a.DeferredWorkerID)
	assert.Equal(t, "w2", a.ProposedWorkerID)

	debits, err := store.GetDebitsForWorker(ctx, "w1")
	require.NoError(t, err)
	require.Len(t, debits, 1)
	assert.Equal(t, "a1", debits[0].SkippedAssignmentID)
	assert.Equal(t, 1, debits[0].Amount)

	t.Run("second defer conflicts", func(t *testing.T) {
		d := debitFor("a1", "w1")
		d.ID = "debit-again"
		err := store.DeferAssignment(ctx, "code-1", d, "w3")
		assert.ErrorIs(t, err, db.ErrConflict)

		debits, err := store.GetDebitsForAssignment(ctx, "a1")
		require.NoError(t, err)
		assert.Len(t, debits, 1)
	})

	t.Run("unknown code", func(t *testing.T) {
		err := store.DeferAssignment(ctx, "no-such-code", debitFor("a2", "w2"), "w3")
		assert.ErrorIs(t, err, db.ErrNotFound)
	})

	t.Run("stale debit does not match", func(t *testing.T) {
		err := store.DeferAssignment(ctx, "code-2", debitFor("a2", "w3"), "w1")
		assert.ErrorIs(t, err, db.ErrConflict)

		a, err := store.GetAssignmentByID(ctx, "a2")
		require.NoError(t, err)
		assert.Equal(t, db.StatusScheduled, a.Status)
	})
}

func TestConcurrentDeferWritesOneDebit(t *testing.T) {
	store := newTestDB(t)
	seed(t, store)
	ctx := context.Background()

	const attempts = 8
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := range attempts {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			d := debitFor("a2", "w2")
			d.ID = fmt.Sprintf("debit-%d", i)
			errs[i] = store.DeferAssignment(ctx, "code-2", d, "w3")
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.True(t, errors.Is(err, db.ErrConflict), "unexpected error: %v", err)
	}
	assert.Equal(t, 1, succeeded)

	debits, err := store.GetDebitsForAssignment(ctx, "a2")
	require.NoError(t, err)
	assert.Len(t, debits, 1)
}

func TestAcceptAssignment(t *testing.T) {
	store := newTestDB(t)
	seed(t, store)
	ctx := context.Background()

	credit := db.Credit{ID: "credit-1", WorkerID: "w3", SkippedDate: "2024-06-03", Amount: 1, CreatedAt: "2024-06-03T10:00:00Z"}

	t.Run("scheduled cannot be accepted", func(t *testing.T) {
		err := store.AcceptAssignment(ctx, "a1", "w3", credit)
		assert.ErrorIs(t, err, db.ErrConflict)
	})

	require.NoError(t, store.DeferAssignment(ctx, "code-1", debitFor("a1", "w1"), "w3"))
	require.NoError(t, store.AcceptAssignment(ctx, "a1", "w3", credit))

	a, err := store.GetAssignmentByID(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, db.StatusReassigned, a.Status)
	assert.Equal(t, "w3", a.WorkerID)
	assert.Equal(t, "w1", a.DeferredWorkerID)

	credits, err := store.GetCreditsForDate(ctx, "2024-06-03")
	require.NoError(t, err)
	require.Len(t, credits, 1)
	assert.Equal(t, "w3", credits[0].WorkerID)

	t.Run("accepting twice conflicts", func(t *testing.T) {
		again := credit
		again.ID = "credit-2"
		assert.ErrorIs(t, store.AcceptAssignment(ctx, "a1", "w2", again), db.ErrConflict)

		credits, err := store.GetCreditsForWorker(ctx, "w2")
		require.NoError(t, err)
		assert.Empty(t, credits)
	})

	t.Run("unknown assignment", func(t *testing.T) {
		assert.ErrorIs(t, store.AcceptAssignment(ctx, "nope", "w2", credit), db.ErrNotFound)
	})
}

func TestCountEvents(t *testing.T) {
	store := newTestDB(t)
	seed(t, store)
	ctx := context.Background()

	base := time.Date(2024, 6, 3, 12, 0, 0, 0, time.UTC)
	events := []db.Event{
		{ID: "e1", Kind: db.EventBone, WorkerID: "w1", Timestamp: db.FormatTimestamp(base)},
		{ID: "e2", Kind: db.EventBone, WorkerID: "w1", Timestamp: db.FormatTimestamp(base.Add(24 * time.Hour))},
		{ID: "e3", Kind: db.EventBone, WorkerID: "w2", Timestamp: db.FormatTimestamp(base)},
		{ID: "e4", Kind: db.EventNudge, WorkerID: "w1", Timestamp: db.FormatTimestamp(base)},
	}
	for _, e := range events {
		require.NoError(t, store.InsertEvent(ctx, &e))
	}

	dayStart := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name   string
		filter db.EventFilter
		want   int
	}{
		{"all bones", db.EventFilter{Kind: db.EventBone}, 3},
		{"bones for worker", db.EventFilter{Kind: db.EventBone, WorkerID: "w1"}, 2},
		{"nudges", db.EventFilter{Kind: db.EventNudge}, 1},
		{"bones on one day", db.EventFilter{Kind: db.EventBone, From: dayStart, To: dayStart.AddDate(0, 0, 1)}, 2},
		{"bones from second day", db.EventFilter{Kind: db.EventBone, From: dayStart.AddDate(0, 0, 1)}, 1},
		{"no events for worker", db.EventFilter{Kind: db.EventNudge, WorkerID: "w3"}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := store.CountEvents(ctx, tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
