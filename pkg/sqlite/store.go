package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/thecleanest/thecleanest/pkg/db"
)

// GetWorkers retrieves all worker records ordered by ID
func (d *DB) GetWorkers(ctx context.Context) ([]db.Worker, error) {
	rows, err := d.conn.QueryContext(ctx, `SELECT `+workerColumns+` FROM worker ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query workers: %w", err)
	}
	workers, err := collect(rows, scanWorker)
	if err != nil {
		return nil, fmt.Errorf("failed to read workers: %w", err)
	}
	return workers, nil
}

// GetWorker retrieves a worker by ID
func (d *DB) GetWorker(ctx context.Context, id string) (*db.Worker, error) {
	w, err := scanWorker(d.conn.QueryRowContext(ctx, `SELECT `+workerColumns+` FROM worker WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, db.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get worker: %w", err)
	}
	return &w, nil
}

// InsertWorker inserts a new worker record
func (d *DB) InsertWorker(ctx context.Context, worker *db.Worker) error {
	_, err := d.conn.ExecContext(ctx, `INSERT INTO worker (id, name, email) VALUES (?, ?, ?)`,
		worker.ID, worker.Name, worker.Email)
	if err != nil {
		return fmt.Errorf("failed to insert worker: %w", err)
	}
	return nil
}

func (d *DB) queryAssignments(ctx context.Context, query string, args ...any) ([]db.Assignment, error) {
	rows, err := d.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query assignments: %w", err)
	}
	assignments, err := collect(rows, scanAssignment)
	if err != nil {
		return nil, fmt.Errorf("failed to read assignments: %w", err)
	}
	return assignments, nil
}

// GetAssignments retrieves all assignment records ordered by date
func (d *DB) GetAssignments(ctx context.Context) ([]db.Assignment, error) {
	return d.queryAssignments(ctx, `SELECT `+assignmentColumns+` FROM assignment ORDER BY date`)
}

// GetAssignmentsFrom retrieves assignments dated on or after from, ordered by date
func (d *DB) GetAssignmentsFrom(ctx context.Context, from string) ([]db.Assignment, error) {
	return d.queryAssignments(ctx, `SELECT `+assignmentColumns+` FROM assignment WHERE date >= ? ORDER BY date`, from)
}

func (d *DB) getAssignment(ctx context.Context, where string, arg any) (*db.Assignment, error) {
	a, err := scanAssignment(d.conn.QueryRowContext(ctx, `SELECT `+assignmentColumns+` FROM assignment WHERE `+where, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, db.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get assignment: %w", err)
	}
	return &a, nil
}

// GetAssignmentByID retrieves an assignment by ID
func (d *DB) GetAssignmentByID(ctx context.Context, id string) (*db.Assignment, error) {
	return d.getAssignment(ctx, `id = ?`, id)
}

// GetAssignmentByDate retrieves the assignment for a date
func (d *DB) GetAssignmentByDate(ctx context.Context, date string) (*db.Assignment, error) {
	return d.getAssignment(ctx, `date = ?`, date)
}

// GetAssignmentByDeferCode retrieves the assignment holding a defer code
func (d *DB) GetAssignmentByDeferCode(ctx context.Context, code string) (*db.Assignment, error) {
	return d.getAssignment(ctx, `defer_code = ?`, code)
}

// GetLatestAssignmentOnOrBefore retrieves the assignment with the greatest date <= date
func (d *DB) GetLatestAssignmentOnOrBefore(ctx context.Context, date string) (*db.Assignment, error) {
	return d.getAssignment(ctx, `date <= ? ORDER BY date DESC LIMIT 1`, date)
}

// InsertAssignments inserts assignment records in one transaction
func (d *DB) InsertAssignments(ctx context.Context, assignments []db.Assignment) error {
	if len(assignments) == 0 {
		return nil
	}

	tx, err := d.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, a := range assignments {
		status := a.Status
		if status == "" {
			status = db.StatusScheduled
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO assignment (id, date, worker_id, defer_code, status, deferred_worker_id, proposed_worker_id)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, a.ID, a.Date, nullable(a.WorkerID), a.DeferCode, status, nullable(a.DeferredWorkerID), nullable(a.ProposedWorkerID))
		if err != nil {
			return fmt.Errorf("failed to insert assignment for %s: %w", a.Date, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// DeferAssignment moves a scheduled assignment to deferred and inserts its
// debit in one transaction, conditional on the assignment still being
// scheduled
func (d *DB) DeferAssignment(ctx context.Context, code string, debit db.Debit, proposedWorkerID string) error {
	tx, err := d.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE assignment
		SET status = 'deferred',
		    deferred_worker_id = worker_id,
		    worker_id = NULL,
		    proposed_worker_id = ?
		WHERE defer_code = ? AND status = 'scheduled' AND id = ? AND worker_id = ?
	`, nullable(proposedWorkerID), code, debit.SkippedAssignmentID, debit.WorkerID)
	if err != nil {
		return fmt.Errorf("failed to update assignment: %w", err)
	}
	if err := missOrConflict(ctx, tx, res, `defer_code = ?`, code); err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO debit (`+debitColumns+`)
		VALUES (?, ?, ?, ?, ?)
	`, debit.ID, debit.WorkerID, debit.SkippedAssignmentID, debit.Amount, debit.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert debit: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// AcceptAssignment moves a deferred assignment to reassigned and inserts the
// credit in one transaction
func (d *DB) AcceptAssignment(ctx context.Context, assignmentID string, workerID string, credit db.Credit) error {
	tx, err := d.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE assignment
		SET status = 'reassigned', worker_id = ?
		WHERE id = ? AND status = 'deferred'
	`, workerID, assignmentID)
	if err != nil {
		return fmt.Errorf("failed to update assignment: %w", err)
	}
	if err := missOrConflict(ctx, tx, res, `id = ?`, assignmentID); err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO credit (`+creditColumns+`)
		VALUES (?, ?, ?, ?, ?)
	`, credit.ID, credit.WorkerID, credit.SkippedDate, credit.Amount, credit.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert credit: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// missOrConflict turns a conditional UPDATE that touched no row into
// db.ErrNotFound or db.ErrConflict
func missOrConflict(ctx context.Context, tx *sql.Tx, res sql.Result, where string, arg any) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected > 0 {
		return nil
	}

	var exists bool
	if err := tx.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM assignment WHERE `+where+`)`, arg).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check assignment: %w", err)
	}
	if !exists {
		return db.ErrNotFound
	}
	return db.ErrConflict
}

func (d *DB) queryDebits(ctx context.Context, query string, args ...any) ([]db.Debit, error) {
	rows, err := d.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query debits: %w", err)
	}
	debits, err := collect(rows, scanDebit)
	if err != nil {
		return nil, fmt.Errorf("failed to read debits: %w", err)
	}
	return debits, nil
}

// GetDebits retrieves all debit records ordered by creation time
func (d *DB) GetDebits(ctx context.Context) ([]db.Debit, error) {
	return d.queryDebits(ctx, `SELECT `+debitColumns+` FROM debit ORDER BY created_at, id`)
}

// GetDebitsForWorker retrieves the debits a worker owes
func (d *DB) GetDebitsForWorker(ctx context.Context, workerID string) ([]db.Debit, error) {
	return d.queryDebits(ctx, `SELECT `+debitColumns+` FROM debit WHERE worker_id = ? ORDER BY created_at, id`, workerID)
}

// GetDebitsForAssignment retrieves the debits referencing an assignment
func (d *DB) GetDebitsForAssignment(ctx context.Context, assignmentID string) ([]db.Debit, error) {
	return d.queryDebits(ctx, `SELECT `+debitColumns+` FROM debit WHERE skipped_assignment_id = ? ORDER BY created_at, id`, assignmentID)
}

func (d *DB) queryCredits(ctx context.Context, query string, args ...any) ([]db.Credit, error) {
	rows, err := d.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query credits: %w", err)
	}
	credits, err := collect(rows, scanCredit)
	if err != nil {
		return nil, fmt.Errorf("failed to read credits: %w", err)
	}
	return credits, nil
}

// GetCredits retrieves all credit records ordered by creation time
func (d *DB) GetCredits(ctx context.Context) ([]db.Credit, error) {
	return d.queryCredits(ctx, `SELECT `+creditColumns+` FROM credit ORDER BY created_at, id`)
}

// GetCreditsForWorker retrieves the credits a worker has earned
func (d *DB) GetCreditsForWorker(ctx context.Context, workerID string) ([]db.Credit, error) {
	return d.queryCredits(ctx, `SELECT `+creditColumns+` FROM credit WHERE worker_id = ? ORDER BY created_at, id`, workerID)
}

// GetCreditsForDate retrieves the credits for covering a date
func (d *DB) GetCreditsForDate(ctx context.Context, date string) ([]db.Credit, error) {
	return d.queryCredits(ctx, `SELECT `+creditColumns+` FROM credit WHERE skipped_date = ? ORDER BY created_at, id`, date)
}

// CountEvents counts bone or nudge events matching filter. Timestamps are
// stored as UTC RFC 3339 text so string comparison orders them correctly.
func (d *DB) CountEvents(ctx context.Context, filter db.EventFilter) (int, error) {
	conditions := []string{"kind = ?"}
	args := []any{filter.Kind}

	if filter.WorkerID != "" {
		conditions = append(conditions, "worker_id = ?")
		args = append(args, filter.WorkerID)
	}
	if !filter.From.IsZero() {
		conditions = append(conditions, "timestamp >= ?")
		args = append(args, db.FormatTimestamp(filter.From))
	}
	if !filter.To.IsZero() {
		conditions = append(conditions, "timestamp < ?")
		args = append(args, db.FormatTimestamp(filter.To))
	}

	var count int
	query := `SELECT COUNT(*) FROM event WHERE ` + strings.Join(conditions, " AND ")
	if err := d.conn.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count %s events: %w", filter.Kind, err)
	}
	return count, nil
}

// InsertEvent inserts a new event record
func (d *DB) InsertEvent(ctx context.Context, event *db.Event) error {
	_, err := d.conn.ExecContext(ctx, `INSERT INTO event (id, kind, worker_id, timestamp) VALUES (?, ?, ?, ?)`,
		event.ID, event.Kind, event.WorkerID, event.Timestamp)
	if err != nil {
		return fmt.Errorf("failed to insert event: %w", err)
	}
	return nil
}
