package db

import (
	"context"
	"time"
)

// WorkerStore defines the interface for worker database operations
type WorkerStore interface {
	GetWorkers(ctx context.Context) ([]Worker, error)
	GetWorker(ctx context.Context, id string) (*Worker, error)
	InsertWorker(ctx context.Context, worker *Worker) error
}

// AssignmentStore defines the interface for assignment database operations
type AssignmentStore interface {
	GetAssignments(ctx context.Context) ([]Assignment, error)
	GetAssignmentsFrom(ctx context.Context, from string) ([]Assignment, error)
	GetAssignmentByID(ctx context.Context, id string) (*Assignment, error)
	GetAssignmentByDate(ctx context.Context, date string) (*Assignment, error)
	GetAssignmentByDeferCode(ctx context.Context, code string) (*Assignment, error)
	GetLatestAssignmentOnOrBefore(ctx context.Context, date string) (*Assignment, error)
	InsertAssignments(ctx context.Context, assignments []Assignment) error
}

// DeferralStore performs the two ledger state transitions. Both run in a single
// transaction conditional on the assignment's current status and return
// ErrConflict when that status has already moved on.
type DeferralStore interface {
	// DeferAssignment moves the assignment holding code from scheduled to
	// deferred, records debit and proposes proposedWorkerID as the replacement
	DeferAssignment(ctx context.Context, code string, debit Debit, proposedWorkerID string) error

	// AcceptAssignment moves a deferred assignment to reassigned, assigns
	// workerID and records credit
	AcceptAssignment(ctx context.Context, assignmentID string, workerID string, credit Credit) error
}

// DebitStore defines the interface for debit database operations
type DebitStore interface {
	GetDebits(ctx context.Context) ([]Debit, error)
	GetDebitsForWorker(ctx context.Context, workerID string) ([]Debit, error)
	GetDebitsForAssignment(ctx context.Context, assignmentID string) ([]Debit, error)
}

// CreditStore defines the interface for credit database operations
type CreditStore interface {
	GetCredits(ctx context.Context) ([]Credit, error)
	GetCreditsForWorker(ctx context.Context, workerID string) ([]Credit, error)
	GetCreditsForDate(ctx context.Context, date string) ([]Credit, error)
}

// EventFilter narrows an event count. Empty WorkerID matches every worker,
// zero From/To leave that end of the window open. To is exclusive.
type EventFilter struct {
	Kind     string
	WorkerID string
	From     time.Time
	To       time.Time
}

// EventCounter counts bone and nudge events
type EventCounter interface {
	CountEvents(ctx context.Context, filter EventFilter) (int, error)
}

// EventStore defines the interface for event database operations
type EventStore interface {
	EventCounter
	InsertEvent(ctx context.Context, event *Event) error
}

// Database defines the interface for all database operations.
// Both postgres.DB and sqlite.DB implement this interface.
type Database interface {
	WorkerStore
	AssignmentStore
	DeferralStore
	DebitStore
	CreditStore
	EventStore
	RunMigrations(ctx context.Context) error
	Close()
}
