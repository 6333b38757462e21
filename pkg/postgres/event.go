package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/thecleanest/thecleanest/pkg/db"
)

// CountEvents counts bone or nudge events matching filter
func (d *DB) CountEvents(ctx context.Context, filter db.EventFilter) (int, error) {
	conditions := []string{"kind = $1"}
	args := []any{filter.Kind}

	if filter.WorkerID != "" {
		args = append(args, filter.WorkerID)
		conditions = append(conditions, fmt.Sprintf("worker_id = $%d", len(args)))
	}
	if !filter.From.IsZero() {
		args = append(args, filter.From.UTC())
		conditions = append(conditions, fmt.Sprintf("timestamp >= $%d", len(args)))
	}
	if !filter.To.IsZero() {
		args = append(args, filter.To.UTC())
		conditions = append(conditions, fmt.Sprintf("timestamp < $%d", len(args)))
	}

	var count int
	query := `SELECT COUNT(*) FROM event WHERE ` + strings.Join(conditions, " AND ")
	if err := d.pool.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count %s events: %w", filter.Kind, err)
	}
	return count, nil
}

// InsertEvent inserts a new event record
func (d *DB) InsertEvent(ctx context.Context, event *db.Event) error {
	_, err := d.pool.Exec(ctx, `
		INSERT INTO event (id, kind, worker_id, timestamp)
		VALUES ($1, $2, $3, $4)
	`, event.ID, event.Kind, event.WorkerID, event.Timestamp)
	if err != nil {
		return fmt.Errorf("failed to insert event: %w", err)
	}
	return nil
}
