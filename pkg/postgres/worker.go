package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/thecleanest/thecleanest/pkg/db"
)

func scanWorker(row pgx.Row) (db.Worker, error) {
	var w db.Worker
	err := row.Scan(&w.ID, &w.Name, &w.Email)
	return w, err
}

// GetWorkers retrieves all worker records ordered by ID
func (d *DB) GetWorkers(ctx context.Context) ([]db.Worker, error) {
	rows, err := d.pool.Query(ctx, `SELECT id, name, email FROM worker ORDER BY id`)
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
	w, err := scanWorker(d.pool.QueryRow(ctx, `SELECT id, name, email FROM worker WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, db.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get worker: %w", err)
	}
	return &w, nil
}

// InsertWorker inserts a new worker record
func (d *DB) InsertWorker(ctx context.Context, worker *db.Worker) error {
	_, err := d.pool.Exec(ctx, `
		INSERT INTO worker (id, name, email)
		VALUES ($1, $2, $3)
	`, worker.ID, worker.Name, worker.Email)
	if err != nil {
		return fmt.Errorf("failed to insert worker: %w", err)
	}
	return nil
}
