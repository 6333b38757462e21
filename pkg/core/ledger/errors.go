package ledger

import "errors"

var (
	ErrNoAssignment       = errors.New("no assignment has been scheduled yet")
	ErrAssignmentNotFound = errors.New("assignment not found")
	ErrWorkerNotFound     = errors.New("worker not found")
	ErrDeferCodeNotFound  = errors.New("defer code not found")
	ErrAlreadyDeferred    = errors.New("assignment has already been deferred")
	ErrNoEligibleTargets  = errors.New("no eligible workers to take over the assignment")
	ErrNotWorkday         = errors.New("date is not a workday")
	ErrInvalidTransition  = errors.New("invalid assignment state transition")
	ErrIneligibleWorker   = errors.New("worker is not eligible to take over the assignment")
)
