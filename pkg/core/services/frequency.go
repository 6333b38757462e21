package services

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/thecleanest/thecleanest/pkg/db"
)

// FrequencyStore defines the database operations needed for the frequency table
type FrequencyStore interface {
	GetWorkers(ctx context.Context) ([]db.Worker, error)
	GetAssignments(ctx context.Context) ([]db.Assignment, error)
}

// WorkerFrequency is how many assignments a worker currently holds
type WorkerFrequency struct {
	Worker db.Worker
	Count  int
}

// Frequency returns every worker with their assignment count, most assigned
// first, ties by worker ID
func Frequency(ctx context.Context, store FrequencyStore) ([]WorkerFrequency, error) {
	workers, err := store.GetWorkers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get workers: %w", err)
	}
	assignments, err := store.GetAssignments(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get assignments: %w", err)
	}

	counts := assignmentCounts(assignments)
	frequencies := make([]WorkerFrequency, len(workers))
	for i, w := range workers {
		frequencies[i] = WorkerFrequency{Worker: w, Count: counts[w.ID]}
	}

	slices.SortFunc(frequencies, func(a, b WorkerFrequency) int {
		return cmp.Or(cmp.Compare(b.Count, a.Count), cmp.Compare(a.Worker.ID, b.Worker.ID))
	})
	return frequencies, nil
}

func assignmentCounts(assignments []db.Assignment) map[string]int {
	counts := make(map[string]int)
	for _, a := range assignments {
		if a.WorkerID != "" {
			counts[a.WorkerID]++
		}
	}
	return counts
}
