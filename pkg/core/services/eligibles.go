package services

import (
	"context"
	"time"

	"github.com/thecleanest/thecleanest/pkg/core/ledger"
	"github.com/thecleanest/thecleanest/pkg/db"
)

// EligibleFinder lists the workers who may take over an assignment
type EligibleFinder interface {
	AssignmentFinder
	EligibleDeferTargets(ctx context.Context, assignment db.Assignment, now time.Time) ([]ledger.Candidate, error)
}

// EligibleTarget is a candidate with its weight relative to the lightest candidate
type EligibleTarget struct {
	Worker     db.Worker
	Weight     float64
	Normalized float64
}

// EligiblesResult lists who could cover an assignment
type EligiblesResult struct {
	Assignment db.Assignment
	Targets    []EligibleTarget
	MinWeight  float64
}

// Eligibles returns the eligible defer targets for the assignment on date.
// Normalized is weight divided by the smallest weight, or the weight itself
// when the smallest is zero.
func Eligibles(ctx context.Context, finder EligibleFinder, date time.Time, now time.Time) (*EligiblesResult, error) {
	a, err := finder.AssignmentForDate(ctx, date)
	if err != nil {
		return nil, err
	}

	candidates, err := finder.EligibleDeferTargets(ctx, *a, now)
	if err != nil {
		return nil, err
	}

	minWeight := candidates[0].Weight
	for _, c := range candidates[1:] {
		minWeight = min(minWeight, c.Weight)
	}

	targets := make([]EligibleTarget, len(candidates))
	for i, c := range candidates {
		normalized := c.Weight
		if minWeight > 0 {
			normalized = c.Weight / minWeight
		}
		targets[i] = EligibleTarget{Worker: c.Worker, Weight: c.Weight, Normalized: normalized}
	}

	return &EligiblesResult{Assignment: *a, Targets: targets, MinWeight: minWeight}, nil
}
