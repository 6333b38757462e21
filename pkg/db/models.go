package db

// Assignment states
const (
	StatusScheduled  = "scheduled"
	StatusDeferred   = "deferred"
	StatusReassigned = "reassigned"
)

// Event kinds
const (
	EventBone  = "bone"
	EventNudge = "nudge"
)

// Worker represents a database worker record
type Worker struct {
	ID    string `yaml:"id"`
	Name  string `yaml:"name"`
	Email string `yaml:"email"`
}

// Assignment represents one day of kitchen duty.
// WorkerID is empty while the day is unfilled, e.g. after a deferral and before
// anyone has accepted it.
type Assignment struct {
	ID               string `yaml:"id"`
	Date             string `yaml:"date"`
	WorkerID         string `yaml:"worker_id,omitempty"`
	DeferCode        string `yaml:"defer_code"`
	Status           string `yaml:"status"`
	DeferredWorkerID string `yaml:"deferred_worker_id,omitempty"`
	ProposedWorkerID string `yaml:"proposed_worker_id,omitempty"`
}

// Debit records that a worker owes a make-up duty for a skipped assignment
type Debit struct {
	ID                  string `yaml:"id"`
	WorkerID            string `yaml:"worker_id"`
	SkippedAssignmentID string `yaml:"skipped_assignment_id"`
	Amount              int    `yaml:"amount"`
	CreatedAt           string `yaml:"created_at"`
}

// Credit records that a worker covered someone else's duty on SkippedDate
type Credit struct {
	ID          string `yaml:"id"`
	WorkerID    string `yaml:"worker_id"`
	SkippedDate string `yaml:"skipped_date"`
	Amount      int    `yaml:"amount"`
	CreatedAt   string `yaml:"created_at"`
}

// Event represents a bone or nudge notification aimed at a worker
type Event struct {
	ID        string `yaml:"id"`
	Kind      string `yaml:"kind"`
	WorkerID  string `yaml:"worker_id"`
	Timestamp string `yaml:"timestamp"`
}
