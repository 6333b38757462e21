package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/thecleanest/thecleanest/pkg/db"
)

// GetAssignments retrieves all assignment records ordered by date
func (d *DB) GetAssignments(ctx context.Context) ([]db.Assignment, error) {
	rows, err := d.pool.Query(ctx, `SELECT `+assignmentColumns+` FROM assignment ORDER BY date`)
	if err != nil {
		return nil, fmt.Errorf("failed to query assignments: %w", err)
	}
	assignments, err := collect(rows, scanAssignment)
	if err != nil {
		return nil, fmt.Errorf("failed to read assignments: %w", err)
	}
	return assignments, nil
}

// GetAssignmentsFrom retrieves assignments dated on or after from, ordered by date
func (d *DB) GetAssignmentsFrom(ctx context.Context, from string) ([]db.Assignment, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT `+assignmentColumns+`
		FROM assignment
		WHERE date >= $1
		ORDER BY date
	`, from)
	if err != nil {
		return nil, fmt.Errorf("failed to query assignments: %w", err)
	}
	assignments, err := collect(rows, scanAssignment)
	if err != nil {
		return nil, fmt.Errorf("failed to read assignments: %w", err)
	}
	return assignments, nil
}

func (d *DB) getAssignment(ctx context.Context, where string, arg any) (*db.Assignment, error) {
	a, err := scanAssignment(d.pool.QueryRow(ctx, `SELECT `+assignmentColumns+` FROM assignment WHERE `+where, arg))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, db.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get assignment: %w", err)
	}
	return &a, nil
}

// GetAssignmentByID retrieves an assignment by ID
func (d *DB) GetAssignmentByID(ctx context.Context, id string) (*db.Assignment, error) {
	return d.getAssignment(ctx, `id = $1`, id)
}

// GetAssignmentByDate retrieves the assignment for a date
func (d *DB) GetAssignmentByDate(ctx context.Context, date string) (*db.Assignment, error) {
	return d.getAssignment(ctx, `date = $1`, date)
}

// GetAssignmentByDeferCode retrieves the assignment holding a defer code
func (d *DB) GetAssignmentByDeferCode(ctx context.Context, code string) (*db.Assignment, error) {
	return d.getAssignment(ctx, `defer_code = $1`, code)
}

// GetLatestAssignmentOnOrBefore retrieves the assignment with the greatest date <= date
func (d *DB) GetLatestAssignmentOnOrBefore(ctx context.Context, date string) (*db.Assignment, error) {
	return d.getAssignment(ctx, `date <= $1 ORDER BY date DESC LIMIT 1`, date)
}

// InsertAssignments inserts assignment records in one transaction
func (d *DB) InsertAssignments(ctx context.Context, assignments []db.Assignment) error {
	if len(assignments) == 0 {
		return nil
	}

	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, a := range assignments {
		status := a.Status
		if status == "" {
			status = db.StatusScheduled
		}
		_, err := tx.Exec(ctx, `
			INSERT INTO assignment (id, date, worker_id, defer_code, status, deferred_worker_id, proposed_worker_id)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, a.ID, a.Date, nullable(a.WorkerID), a.DeferCode, status, nullable(a.DeferredWorkerID), nullable(a.ProposedWorkerID))
		if err != nil {
			return fmt.Errorf("failed to insert assignment for %s: %w", a.Date, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
