package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/thecleanest/thecleanest/pkg/db"
)

// DeferAssignment moves a scheduled assignment to deferred and inserts its
// debit in one transaction. The UPDATE is conditional on status so a second,
// concurrent attempt matches no row and gets db.ErrConflict.
func (d *DB) DeferAssignment(ctx context.Context, code string, debit db.Debit, proposedWorkerID string) error {
	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var assignmentID, deferredWorkerID string
	err = tx.QueryRow(ctx, `
		UPDATE assignment
		SET status = 'deferred',
		    deferred_worker_id = worker_id,
		    worker_id = NULL,
		    proposed_worker_id = $2
		WHERE defer_code = $1 AND status = 'scheduled' AND worker_id IS NOT NULL
		RETURNING id, deferred_worker_id
	`, code, nullable(proposedWorkerID)).Scan(&assignmentID, &deferredWorkerID)
	if errors.Is(err, pgx.ErrNoRows) {
		return d.missOrConflict(ctx, tx, code)
	}
	if err != nil {
		return fmt.Errorf("failed to update assignment: %w", err)
	}

	// the caller built the debit from a read outside this transaction
	if assignmentID != debit.SkippedAssignmentID || deferredWorkerID != debit.WorkerID {
		return db.ErrConflict
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO debit (id, worker_id, skipped_assignment_id, amount, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, debit.ID, debit.WorkerID, debit.SkippedAssignmentID, debit.Amount, debit.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert debit: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (d *DB) missOrConflict(ctx context.Context, tx pgx.Tx, code string) error {
	var exists bool
	if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM assignment WHERE defer_code = $1)`, code).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check defer code: %w", err)
	}
	if !exists {
		return db.ErrNotFound
	}
	return db.ErrConflict
}

// AcceptAssignment moves a deferred assignment to reassigned and inserts the
// credit in one transaction
func (d *DB) AcceptAssignment(ctx context.Context, assignmentID string, workerID string, credit db.Credit) error {
	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE assignment
		SET status = 'reassigned', worker_id = $2
		WHERE id = $1 AND status = 'deferred'
	`, assignmentID, workerID)
	if err != nil {
		return fmt.Errorf("failed to update assignment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM assignment WHERE id = $1)`, assignmentID).Scan(&exists); err != nil {
			return fmt.Errorf("failed to check assignment: %w", err)
		}
		if !exists {
			return db.ErrNotFound
		}
		return db.ErrConflict
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO credit (id, worker_id, skipped_date, amount, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, credit.ID, credit.WorkerID, credit.SkippedDate, credit.Amount, credit.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert credit: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
