// Package ledger holds the per-workday duty assignments and the deferral state
// machine: scheduled -> deferred -> reassigned.
package ledger

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/thecleanest/thecleanest/pkg/core/calendar"
	"github.com/thecleanest/thecleanest/pkg/db"
)

// Store is the persistence the ledger needs
type Store interface {
	GetWorkers(ctx context.Context) ([]db.Worker, error)
	GetWorker(ctx context.Context, id string) (*db.Worker, error)
	GetAssignmentByDate(ctx context.Context, date string) (*db.Assignment, error)
	GetAssignmentByDeferCode(ctx context.Context, code string) (*db.Assignment, error)
	GetLatestAssignmentOnOrBefore(ctx context.Context, date string) (*db.Assignment, error)
	db.DeferralStore
}

// Weigher provides deferral weights; fairness.Engine implements it
type Weigher interface {
	DeferralWeight(ctx context.Context, workerID string, now time.Time) (float64, error)
}

// Ledger answers assignment queries and performs deferrals
type Ledger struct {
	store   Store
	cal     *calendar.Calendar
	weigher Weigher
	policy  ExclusionPolicy
	picker  Picker
	logger  *zap.Logger
}

// DeferResult describes a successful deferral
type DeferResult struct {
	Assignment *db.Assignment
	Debit      db.Debit
	Proposed   Candidate
}

// AcceptResult describes a successful acceptance of a deferred assignment
type AcceptResult struct {
	Assignment *db.Assignment
	Credit     db.Credit
}

// New creates a Ledger. A nil policy excludes nobody; a nil picker picks by
// weight using a time-based seed.
func New(store Store, cal *calendar.Calendar, weigher Weigher, policy ExclusionPolicy, picker Picker, logger *zap.Logger) *Ledger {
	if policy == nil {
		policy = NoExclusions{}
	}
	if picker == nil {
		picker = NewWeightedPicker(uint64(time.Now().UnixNano()))
	}
	return &Ledger{
		store:   store,
		cal:     cal,
		weigher: weigher,
		policy:  policy,
		picker:  picker,
		logger:  logger,
	}
}

// CurrentAssignment returns the assignment with the latest date on or before today
func (l *Ledger) CurrentAssignment(ctx context.Context, today time.Time) (*db.Assignment, error) {
	a, err := l.store.GetLatestAssignmentOnOrBefore(ctx, calendar.FormatDate(today))
	if errors.Is(err, db.ErrNotFound) {
		return nil, ErrNoAssignment
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get current assignment: %w", err)
	}
	return a, nil
}

// AssignmentForDate returns the assignment on a workday
func (l *Ledger) AssignmentForDate(ctx context.Context, date time.Time) (*db.Assignment, error) {
	if !l.cal.IsWorkday(date) {
		return nil, fmt.Errorf("%w: %s", ErrNotWorkday, calendar.FormatDate(date))
	}

	a, err := l.store.GetAssignmentByDate(ctx, calendar.FormatDate(date))
	if errors.Is(err, db.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrAssignmentNotFound, calendar.FormatDate(date))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get assignment: %w", err)
	}
	return a, nil
}

// EligibleDeferTargets returns the workers who may take over the assignment,
// ordered by worker ID. The assigned worker and the worker who deferred it are
// never eligible. An empty set is reported as ErrNoEligibleTargets.
func (l *Ledger) EligibleDeferTargets(ctx context.Context, assignment db.Assignment, now time.Time) ([]Candidate, error) {
	date, err := calendar.ParseDate(assignment.Date)
	if err != nil {
		return nil, err
	}
	if !l.cal.IsWorkday(date) {
		return nil, fmt.Errorf("%w: %s", ErrNotWorkday, assignment.Date)
	}

	workers, err := l.store.GetWorkers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get workers: %w", err)
	}

	var candidates []Candidate
	for _, w := range workers {
		if w.ID == assignment.WorkerID || w.ID == assignment.DeferredWorkerID {
			continue
		}
		if l.policy.Excludes(w, assignment) {
			l.logger.Debug("Worker excluded by policy",
				zap.String("worker_id", w.ID),
				zap.String("date", assignment.Date))
			continue
		}
		weight, err := l.weigher.DeferralWeight(ctx, w.ID, now)
		if err != nil {
			return nil, fmt.Errorf("failed to get deferral weight for %s: %w", w.ID, err)
		}
		candidates = append(candidates, Candidate{Worker: w, Weight: weight})
	}

	if len(candidates) == 0 {
		return nil, ErrNoEligibleTargets
	}

	slices.SortFunc(candidates, func(a, b Candidate) int { return cmp.Compare(a.Worker.ID, b.Worker.ID) })
	return candidates, nil
}

// LookupDeferCode finds the assignment a defer code belongs to. A code whose
// assignment has left the scheduled state returns the assignment together
// with ErrAlreadyDeferred.
func (l *Ledger) LookupDeferCode(ctx context.Context, code string) (*db.Assignment, error) {
	a, err := l.store.GetAssignmentByDeferCode(ctx, code)
	if errors.Is(err, db.ErrNotFound) {
		return nil, ErrDeferCodeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up defer code: %w", err)
	}
	if a.Status != db.StatusScheduled {
		return a, ErrAlreadyDeferred
	}
	return a, nil
}

// Defer moves the assignment holding code from scheduled to deferred. The
// assigned worker is debited and a replacement is proposed; the day stays
// unfilled until someone accepts it.
func (l *Ledger) Defer(ctx context.Context, code string, now time.Time) (*DeferResult, error) {
	a, err := l.LookupDeferCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if a.WorkerID == "" {
		return nil, fmt.Errorf("%w: %s has no assigned worker", ErrInvalidTransition, a.Date)
	}

	candidates, err := l.EligibleDeferTargets(ctx, *a, now)
	if err != nil {
		l.logger.Warn("Deferral refused", zap.String("date", a.Date), zap.Error(err))
		return nil, err
	}
	proposed := candidates[l.picker.Pick(candidates)]

	debit := db.Debit{
		ID:                  uuid.New().String(),
		WorkerID:            a.WorkerID,
		SkippedAssignmentID: a.ID,
		Amount:              1,
		CreatedAt:           db.FormatTimestamp(now),
	}

	err = l.store.DeferAssignment(ctx, code, debit, proposed.Worker.ID)
	switch {
	case errors.Is(err, db.ErrConflict):
		return nil, ErrAlreadyDeferred
	case errors.Is(err, db.ErrNotFound):
		return nil, ErrDeferCodeNotFound
	case err != nil:
		return nil, fmt.Errorf("failed to defer assignment: %w", err)
	}

	l.logger.Info("Assignment deferred",
		zap.String("assignment_id", a.ID),
		zap.String("date", a.Date),
		zap.String("worker_id", a.WorkerID),
		zap.String("proposed_worker_id", proposed.Worker.ID),
		zap.String("debit_id", debit.ID))

	deferred := *a
	deferred.Status = db.StatusDeferred
	deferred.DeferredWorkerID = a.WorkerID
	deferred.WorkerID = ""
	deferred.ProposedWorkerID = proposed.Worker.ID

	return &DeferResult{
		Assignment: &deferred,
		Debit:      debit,
		Proposed:   proposed,
	}, nil
}

// Accept assigns a deferred workday to workerID and credits them for it
func (l *Ledger) Accept(ctx context.Context, date time.Time, workerID string, now time.Time) (*AcceptResult, error) {
	a, err := l.AssignmentForDate(ctx, date)
	if err != nil {
		return nil, err
	}
	if a.Status != db.StatusDeferred {
		return nil, fmt.Errorf("%w: %s is %s", ErrInvalidTransition, a.Date, a.Status)
	}

	if _, err := l.store.GetWorker(ctx, workerID); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrWorkerNotFound, workerID)
		}
		return nil, fmt.Errorf("failed to get worker: %w", err)
	}

	candidates, err := l.EligibleDeferTargets(ctx, *a, now)
	if err != nil {
		return nil, err
	}
	if !slices.ContainsFunc(candidates, func(c Candidate) bool { return c.Worker.ID == workerID }) {
		return nil, fmt.Errorf("%w: %s", ErrIneligibleWorker, workerID)
	}

	credit := db.Credit{
		ID:          uuid.New().String(),
		WorkerID:    workerID,
		SkippedDate: a.Date,
		Amount:      1,
		CreatedAt:   db.FormatTimestamp(now),
	}

	err = l.store.AcceptAssignment(ctx, a.ID, workerID, credit)
	if errors.Is(err, db.ErrConflict) {
		return nil, fmt.Errorf("%w: %s was already taken", ErrInvalidTransition, a.Date)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to accept assignment: %w", err)
	}

	l.logger.Info("Deferred assignment accepted",
		zap.String("assignment_id", a.ID),
		zap.String("date", a.Date),
		zap.String("worker_id", workerID),
		zap.String("credit_id", credit.ID))

	accepted := *a
	accepted.Status = db.StatusReassigned
	accepted.WorkerID = workerID

	return &AcceptResult{Assignment: &accepted, Credit: credit}, nil
}
