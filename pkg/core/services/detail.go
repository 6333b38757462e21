package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/thecleanest/thecleanest/pkg/core/ledger"
	"github.com/thecleanest/thecleanest/pkg/db"
)

// DetailStore defines the database operations needed for the detail views
type DetailStore interface {
	GetWorker(ctx context.Context, id string) (*db.Worker, error)
	GetAssignmentByID(ctx context.Context, id string) (*db.Assignment, error)
	GetDebitsForAssignment(ctx context.Context, assignmentID string) ([]db.Debit, error)
	GetCreditsForDate(ctx context.Context, date string) ([]db.Credit, error)
	GetDebitsForWorker(ctx context.Context, workerID string) ([]db.Debit, error)
	GetCreditsForWorker(ctx context.Context, workerID string) ([]db.Credit, error)
	db.EventCounter
}

// AssignmentFinder resolves a date to its assignment
type AssignmentFinder interface {
	AssignmentForDate(ctx context.Context, date time.Time) (*db.Assignment, error)
}

// Balancer computes worker balances
type Balancer interface {
	Balance(ctx context.Context, workerID string) (int, error)
}

// AssignmentDetail is an assignment with the ledger records that reference it
type AssignmentDetail struct {
	Assignment     db.Assignment
	Worker         *db.Worker // nil while unfilled
	DeferredWorker *db.Worker // nil unless deferred
	ProposedWorker *db.Worker // nil unless a replacement was proposed
	Debits         []db.Debit
	Credits        []db.Credit
}

// AssignmentDetailByID returns the assignment with the given ID
func AssignmentDetailByID(ctx context.Context, store DetailStore, id string) (*AssignmentDetail, error) {
	a, err := store.GetAssignmentByID(ctx, id)
	if errors.Is(err, db.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ledger.ErrAssignmentNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get assignment: %w", err)
	}
	return assignmentDetail(ctx, store, *a)
}

// AssignmentDetailByDate returns the assignment on a workday
func AssignmentDetailByDate(ctx context.Context, store DetailStore, finder AssignmentFinder, date time.Time) (*AssignmentDetail, error) {
	a, err := finder.AssignmentForDate(ctx, date)
	if err != nil {
		return nil, err
	}
	return assignmentDetail(ctx, store, *a)
}

func assignmentDetail(ctx context.Context, store DetailStore, a db.Assignment) (*AssignmentDetail, error) {
	detail := &AssignmentDetail{Assignment: a}

	var err error
	if detail.Worker, err = optionalWorker(ctx, store, a.WorkerID); err != nil {
		return nil, err
	}
	if detail.DeferredWorker, err = optionalWorker(ctx, store, a.DeferredWorkerID); err != nil {
		return nil, err
	}
	if detail.ProposedWorker, err = optionalWorker(ctx, store, a.ProposedWorkerID); err != nil {
		return nil, err
	}

	if detail.Debits, err = store.GetDebitsForAssignment(ctx, a.ID); err != nil {
		return nil, fmt.Errorf("failed to get debits: %w", err)
	}
	if detail.Credits, err = store.GetCreditsForDate(ctx, a.Date); err != nil {
		return nil, fmt.Errorf("failed to get credits: %w", err)
	}
	return detail, nil
}

func optionalWorker(ctx context.Context, store DetailStore, id string) (*db.Worker, error) {
	if id == "" {
		return nil, nil
	}
	w, err := store.GetWorker(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get worker %s: %w", id, err)
	}
	return w, nil
}

// WorkerDetail is a worker's ledger history
type WorkerDetail struct {
	Worker  db.Worker
	Debits  []db.Debit
	Credits []db.Credit
	Balance int
	Bones   int
	Nudges  int
}

// GetWorkerDetail returns a worker's debits, credits, balance and event counts
func GetWorkerDetail(ctx context.Context, store DetailStore, balancer Balancer, workerID string) (*WorkerDetail, error) {
	w, err := store.GetWorker(ctx, workerID)
	if errors.Is(err, db.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ledger.ErrWorkerNotFound, workerID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get worker: %w", err)
	}

	detail := &WorkerDetail{Worker: *w}
	if detail.Debits, err = store.GetDebitsForWorker(ctx, workerID); err != nil {
		return nil, fmt.Errorf("failed to get debits: %w", err)
	}
	if detail.Credits, err = store.GetCreditsForWorker(ctx, workerID); err != nil {
		return nil, fmt.Errorf("failed to get credits: %w", err)
	}
	if detail.Balance, err = balancer.Balance(ctx, workerID); err != nil {
		return nil, fmt.Errorf("failed to get balance: %w", err)
	}
	if detail.Bones, err = store.CountEvents(ctx, db.EventFilter{Kind: db.EventBone, WorkerID: workerID}); err != nil {
		return nil, fmt.Errorf("failed to count bones: %w", err)
	}
	if detail.Nudges, err = store.CountEvents(ctx, db.EventFilter{Kind: db.EventNudge, WorkerID: workerID}); err != nil {
		return nil, fmt.Errorf("failed to count nudges: %w", err)
	}
	return detail, nil
}
