package postgres

import (
	"context"
	"fmt"

	"github.com/thecleanest/thecleanest/pkg/db"
)

const debitColumns = `id, worker_id, skipped_assignment_id, amount, created_at`

// GetDebits retrieves all debit records ordered by creation time
func (d *DB) GetDebits(ctx context.Context) ([]db.Debit, error) {
	return d.queryDebits(ctx, `SELECT `+debitColumns+` FROM debit ORDER BY created_at, id`)
}

// GetDebitsForWorker retrieves the debits a worker owes
func (d *DB) GetDebitsForWorker(ctx context.Context, workerID string) ([]db.Debit, error) {
	return d.queryDebits(ctx, `SELECT `+debitColumns+` FROM debit WHERE worker_id = $1 ORDER BY created_at, id`, workerID)
}

// GetDebitsForAssignment retrieves the debits referencing an assignment
func (d *DB) GetDebitsForAssignment(ctx context.Context, assignmentID string) ([]db.Debit, error) {
	return d.queryDebits(ctx, `SELECT `+debitColumns+` FROM debit WHERE skipped_assignment_id = $1 ORDER BY created_at, id`, assignmentID)
}

func (d *DB) queryDebits(ctx context.Context, query string, args ...any) ([]db.Debit, error) {
	rows, err := d.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query debits: %w", err)
	}
	debits, err := collect(rows, scanDebit)
	if err != nil {
		return nil, fmt.Errorf("failed to read debits: %w", err)
	}
	return debits, nil
}
