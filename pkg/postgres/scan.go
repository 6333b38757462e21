package postgres

import (
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/thecleanest/thecleanest/pkg/db"
)

const dateLayout = "2006-01-02"

const assignmentColumns = `id, date, worker_id, defer_code, status, deferred_worker_id, proposed_worker_id`

// nullable maps "" to SQL NULL
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func scanAssignment(row pgx.Row) (db.Assignment, error) {
	var a db.Assignment
	var date time.Time
	var workerID, deferredWorkerID, proposedWorkerID *string
	if err := row.Scan(&a.ID, &date, &workerID, &a.DeferCode, &a.Status, &deferredWorkerID, &proposedWorkerID); err != nil {
		return db.Assignment{}, err
	}
	a.Date = date.Format(dateLayout)
	a.WorkerID = deref(workerID)
	a.DeferredWorkerID = deref(deferredWorkerID)
	a.ProposedWorkerID = deref(proposedWorkerID)
	return a, nil
}

func scanDebit(row pgx.Row) (db.Debit, error) {
	var d db.Debit
	var createdAt time.Time
	if err := row.Scan(&d.ID, &d.WorkerID, &d.SkippedAssignmentID, &d.Amount, &createdAt); err != nil {
		return db.Debit{}, err
	}
	d.CreatedAt = db.FormatTimestamp(createdAt)
	return d, nil
}

func scanCredit(row pgx.Row) (db.Credit, error) {
	var c db.Credit
	var skippedDate, createdAt time.Time
	if err := row.Scan(&c.ID, &c.WorkerID, &skippedDate, &c.Amount, &createdAt); err != nil {
		return db.Credit{}, err
	}
	c.SkippedDate = skippedDate.Format(dateLayout)
	c.CreatedAt = db.FormatTimestamp(createdAt)
	return c, nil
}

// collect scans every row with scan, closing rows when done
func collect[T any](rows pgx.Rows, scan func(pgx.Row) (T, error)) ([]T, error) {
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
