package sqlite

import (
	"database/sql"

	"github.com/thecleanest/thecleanest/pkg/db"
)

const (
	workerColumns     = `id, name, email`
	assignmentColumns = `id, date, worker_id, defer_code, status, deferred_worker_id, proposed_worker_id`
	debitColumns      = `id, worker_id, skipped_assignment_id, amount, created_at`
	creditColumns     = `id, worker_id, skipped_date, amount, created_at`
)

// row is satisfied by both *sql.Row and *sql.Rows
type row interface {
	Scan(dest ...any) error
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func scanWorker(r row) (db.Worker, error) {
	var w db.Worker
	err := r.Scan(&w.ID, &w.Name, &w.Email)
	return w, err
}

func scanAssignment(r row) (db.Assignment, error) {
	var a db.Assignment
	var workerID, deferredWorkerID, proposedWorkerID sql.NullString
	if err := r.Scan(&a.ID, &a.Date, &workerID, &a.DeferCode, &a.Status, &deferredWorkerID, &proposedWorkerID); err != nil {
		return db.Assignment{}, err
	}
	a.WorkerID = workerID.String
	a.DeferredWorkerID = deferredWorkerID.String
	a.ProposedWorkerID = proposedWorkerID.String
	return a, nil
}

func scanDebit(r row) (db.Debit, error) {
	var d db.Debit
	err := r.Scan(&d.ID, &d.WorkerID, &d.SkippedAssignmentID, &d.Amount, &d.CreatedAt)
	return d, err
}

func scanCredit(r row) (db.Credit, error) {
	var c db.Credit
	err := r.Scan(&c.ID, &c.WorkerID, &c.SkippedDate, &c.Amount, &c.CreatedAt)
	return c, err
}

func collect[T any](rows *sql.Rows, scan func(row) (T, error)) ([]T, error) {
	defer rows.Close()

	var out []T
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
