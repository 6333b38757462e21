package services

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/thecleanest/thecleanest/pkg/core/calendar"
	"github.com/thecleanest/thecleanest/pkg/core/fairness"
	"github.com/thecleanest/thecleanest/pkg/core/ledger"
	"github.com/thecleanest/thecleanest/pkg/db"
)

// mockStore is an in-memory db.Database
type mockStore struct {
	mu          sync.Mutex
	workers     []db.Worker
	assignments []db.Assignment
	debits      []db.Debit
	credits     []db.Credit
	events      []db.Event

	insertErr error
}

var _ db.Database = (*mockStore)(nil)

func (m *mockStore) RunMigrations(ctx context.Context) error { return nil }
func (m *mockStore) Close()                                  {}

func (m *mockStore) GetWorkers(ctx context.Context) ([]db.Worker, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.workers), nil
}

func (m *mockStore) GetWorker(ctx context.Context, id string) (*db.Worker, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, w := range m.workers {
		if w.ID == id {
			return &w, nil
		}
	}
	return nil, db.ErrNotFound
}

func (m *mockStore) InsertWorker(ctx context.Context, worker *db.Worker) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.insertErr != nil {
		return m.insertErr
	}
	m.workers = append(m.workers, *worker)
	return nil
}

func (m *mockStore) sortedAssignments(keep func(db.Assignment) bool) []db.Assignment {
	var out []db.Assignment
	for _, a := range m.assignments {
		if keep(a) {
			out = append(out, a)
		}
	}
	slices.SortFunc(out, func(a, b db.Assignment) int { return strings.Compare(a.Date, b.Date) })
	return out
}

func (m *mockStore) GetAssignments(ctx context.Context) ([]db.Assignment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sortedAssignments(func(db.Assignment) bool { return true }), nil
}

func (m *mockStore) GetAssignmentsFrom(ctx context.Context, from string) ([]db.Assignment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sortedAssignments(func(a db.Assignment) bool { return a.Date >= from }), nil
}

func (m *mockStore) findAssignment(match func(db.Assignment) bool) (*db.Assignment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.assignments {
		if match(a) {
			return &a, nil
		}
	}
	return nil, db.ErrNotFound
}

func (m *mockStore) GetAssignmentByID(ctx context.Context, id string) (*db.Assignment, error) {
	return m.findAssignment(func(a db.Assignment) bool { return a.ID == id })
}

func (m *mockStore) GetAssignmentByDate(ctx context.Context, date string) (*db.Assignment, error) {
	return m.findAssignment(func(a db.Assignment) bool { return a.Date == date })
}

func (m *mockStore) GetAssignmentByDeferCode(ctx context.Context, code string) (*db.Assignment, error) {
	return m.findAssignment(func(a db.Assignment) bool { return a.DeferCode == code })
}

func (m *mockStore) GetLatestAssignmentOnOrBefore(ctx context.Context, date string) (*db.Assignment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	before := m.sortedAssignments(func(a db.Assignment) bool { return a.Date <= date })
	if len(before) == 0 {
		return nil, db.ErrNotFound
	}
	return &before[len(before)-1], nil
}

func (m *mockStore) InsertAssignments(ctx context.Context, assignments []db.Assignment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.insertErr != nil {
		return m.insertErr
	}
	m.assignments = append(m.assignments, assignments...)
	return nil
}

func (m *mockStore) DeferAssignment(ctx context.Context, code string, debit db.Debit, proposedWorkerID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.assignments {
		a := &m.assignments[i]
		if a.DeferCode != code {
			continue
		}
		if a.Status != db.StatusScheduled {
			return db.ErrConflict
		}
		a.Status = db.StatusDeferred
		a.DeferredWorkerID = a.WorkerID
		a.WorkerID = ""
		a.ProposedWorkerID = proposedWorkerID
		m.debits = append(m.debits, debit)
		return nil
	}
	return db.ErrNotFound
}

func (m *mockStore) AcceptAssignment(ctx context.Context, assignmentID string, workerID string, credit db.Credit) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.assignments {
		a := &m.assignments[i]
		if a.ID != assignmentID {
			continue
		}
		if a.Status != db.StatusDeferred {
			return db.ErrConflict
		}
		a.Status = db.StatusReassigned
		a.WorkerID = workerID
		m.credits = append(m.credits, credit)
		return nil
	}
	return db.ErrNotFound
}

func filter[T any](items []T, keep func(T) bool) []T {
	var out []T
	for _, item := range items {
		if keep(item) {
			out = append(out, item)
		}
	}
	return out
}

func (m *mockStore) GetDebits(ctx context.Context) ([]db.Debit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.debits), nil
}

func (m *mockStore) GetDebitsForWorker(ctx context.Context, workerID string) ([]db.Debit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return filter(m.debits, func(d db.Debit) bool { return d.WorkerID == workerID }), nil
}

func (m *mockStore) GetDebitsForAssignment(ctx context.Context, assignmentID string) ([]db.Debit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return filter(m.debits, func(d db.Debit) bool { return d.SkippedAssignmentID == assignmentID }), nil
}

func (m *mockStore) GetCredits(ctx context.Context) ([]db.Credit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.credits), nil
}

func (m *mockStore) GetCreditsForWorker(ctx context.Context, workerID string) ([]db.Credit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return filter(m.credits, func(c db.Credit) bool { return c.WorkerID == workerID }), nil
}

func (m *mockStore) GetCreditsForDate(ctx context.Context, date string) ([]db.Credit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return filter(m.credits, func(c db.Credit) bool { return c.SkippedDate == date }), nil
}

func (m *mockStore) CountEvents(ctx context.Context, f db.EventFilter) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, e := range m.events {
		if e.Kind != f.Kind || (f.WorkerID != "" && e.WorkerID != f.WorkerID) {
			continue
		}
		ts, err := db.ParseTimestamp(e.Timestamp)
		if err != nil {
			return 0, err
		}
		if !f.From.IsZero() && ts.Before(f.From) {
			continue
		}
		if !f.To.IsZero() && !ts.Before(f.To) {
			continue
		}
		count++
	}
	return count, nil
}

func (m *mockStore) InsertEvent(ctx context.Context, event *db.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.insertErr != nil {
		return m.insertErr
	}
	m.events = append(m.events, *event)
	return nil
}

// mockMailer records sent emails
type mockMailer struct {
	sent []string
	err  error
}

func (m *mockMailer) SendEmail(ctx context.Context, to, subject, body string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, to)
	return nil
}

var errStore = errors.New("store unavailable")

// firstPicker always proposes the first candidate
type firstPicker struct{}

func (firstPicker) Pick([]ledger.Candidate) int { return 0 }

func testWorkers() []db.Worker {
	return []db.Worker{
		{ID: "w1", Name: "Ada", Email: "ada@example.com"},
		{ID: "w2", Name: "Brian", Email: "brian@example.com"},
		{ID: "w3", Name: "Cleo", Email: "cleo@example.com"},
	}
}

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := calendar.ParseDate(s)
	require.NoError(t, err)
	return d
}

// testCalendar has Independence Day 2024 as its only holiday
func testCalendar(t *testing.T) *calendar.Calendar {
	t.Helper()
	table, err := calendar.NewHolidayTable([]calendar.Holiday{
		{Name: "Independence Day", Date: mustDate(t, "2024-07-04")},
	}, nil)
	require.NoError(t, err)
	cal, err := calendar.New(table)
	require.NoError(t, err)
	return cal
}

type fixture struct {
	store  *mockStore
	cal    *calendar.Calendar
	engine *fairness.Engine
	ledger *ledger.Ledger
	logger *zap.Logger
}

func newFixture(t *testing.T, store *mockStore) *fixture {
	t.Helper()
	cal := testCalendar(t)
	engine := fairness.NewEngine(store, fairness.Config{})
	logger := zap.NewNop()
	return &fixture{
		store:  store,
		cal:    cal,
		engine: engine,
		ledger: ledger.New(store, cal, engine, nil, firstPicker{}, logger),
		logger: logger,
	}
}
