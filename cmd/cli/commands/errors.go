package commands

import (
	"errors"
	"fmt"

	"github.com/thecleanest/thecleanest/pkg/core/ledger"
	"github.com/thecleanest/thecleanest/pkg/db"
)

// userError turns domain errors into the message shown to the user.
// Errors it does not recognise are returned unchanged.
func userError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ledger.ErrAlreadyDeferred):
		return fmt.Errorf("conflict: this assignment has already been deferred: %w", err)
	case errors.Is(err, ledger.ErrInvalidTransition):
		return fmt.Errorf("conflict: %w", err)
	case errors.Is(err, ledger.ErrNoEligibleTargets):
		return fmt.Errorf("nobody is available to take this day: %w", err)
	case errors.Is(err, ledger.ErrIneligibleWorker):
		return fmt.Errorf("that worker cannot take this day: %w", err)
	case errors.Is(err, ledger.ErrNoAssignment),
		errors.Is(err, ledger.ErrAssignmentNotFound),
		errors.Is(err, ledger.ErrWorkerNotFound),
		errors.Is(err, ledger.ErrDeferCodeNotFound),
		errors.Is(err, ledger.ErrNotWorkday),
		errors.Is(err, db.ErrNotFound):
		return fmt.Errorf("not found: %w", err)
	}
	return err
}
