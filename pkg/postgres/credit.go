package postgres

import (
	"context"
	"fmt"

	"github.com/thecleanest/thecleanest/pkg/db"
)

const creditColumns = `id, worker_id, skipped_date, amount, created_at`

// GetCredits retrieves all credit records ordered by creation time
func (d *DB) GetCredits(ctx context.Context) ([]db.Credit, error) {
	return d.queryCredits(ctx, `SELECT `+creditColumns+` FROM credit ORDER BY created_at, id`)
}

// GetCreditsForWorker retrieves the credits a worker has earned
func (d *DB) GetCreditsForWorker(ctx context.Context, workerID string) ([]db.Credit, error) {
	return d.queryCredits(ctx, `SELECT `+creditColumns+` FROM credit WHERE worker_id = $1 ORDER BY created_at, id`, workerID)
}

// GetCreditsForDate retrieves the credits for covering a date
func (d *DB) GetCreditsForDate(ctx context.Context, date string) ([]db.Credit, error) {
	return d.queryCredits(ctx, `SELECT `+creditColumns+` FROM credit WHERE skipped_date = $1 ORDER BY created_at, id`, date)
}

func (d *DB) queryCredits(ctx context.Context, query string, args ...any) ([]db.Credit, error) {
	rows, err := d.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query credits: %w", err)
	}
	credits, err := collect(rows, scanCredit)
	if err != nil {
		return nil, fmt.Errorf("failed to read credits: %w", err)
	}
	return credits, nil
}
