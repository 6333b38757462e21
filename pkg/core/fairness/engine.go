// Package fairness computes deferral balances, eligibility weights and the
// hall of fame/shame rankings.
package fairness

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/thecleanest/thecleanest/pkg/db"
)

// DefaultRankingLimit is the number of workers shown on event leaderboards
const DefaultRankingLimit = 10

// Store is the ledger data the engine reads
type Store interface {
	GetWorkers(ctx context.Context) ([]db.Worker, error)
	GetDebitsForWorker(ctx context.Context, workerID string) ([]db.Debit, error)
	GetCreditsForWorker(ctx context.Context, workerID string) ([]db.Credit, error)
	db.EventCounter
}

// Config holds the engine's policy settings
type Config struct {
	// Excused workers, by email or worker ID, are left off the shame rankings
	Excused []string

	// Strategy computes deferral weights; nil means InverseWeight
	Strategy WeightStrategy

	// Window bounds which debits count as recent deferrals; 0 counts all of them
	Window time.Duration

	// RankingLimit caps event leaderboards; 0 means DefaultRankingLimit
	RankingLimit int
}

// Engine computes balances and rankings from ledger state. Nothing is cached,
// every call reads the store.
type Engine struct {
	store    Store
	strategy WeightStrategy
	window   time.Duration
	limit    int
	excused  map[string]bool
}

// Standing is a worker with their current balance
type Standing struct {
	Worker  db.Worker
	Balance int
}

// EventTally is a worker with a count of events of one kind
type EventTally struct {
	Worker db.Worker
	Count  int
}

// NewEngine creates an Engine
func NewEngine(store Store, cfg Config) *Engine {
	e := &Engine{
		store:    store,
		strategy: cfg.Strategy,
		window:   cfg.Window,
		limit:    cfg.RankingLimit,
		excused:  make(map[string]bool, len(cfg.Excused)),
	}
	if e.strategy == nil {
		e.strategy = InverseWeight{}
	}
	if e.limit <= 0 {
		e.limit = DefaultRankingLimit
	}
	for _, id := range cfg.Excused {
		e.excused[strings.ToLower(strings.TrimSpace(id))] = true
	}
	return e
}

// SumBalance returns the sum of credit amounts minus the sum of debit amounts
func SumBalance(debits []db.Debit, credits []db.Credit) int {
	balance := 0
	for _, c := range credits {
		balance += c.Amount
	}
	for _, d := range debits {
		balance -= d.Amount
	}
	return balance
}

// RecentDeferrals counts the debits created within window before now.
// A zero window counts every debit.
func RecentDeferrals(debits []db.Debit, now time.Time, window time.Duration) (int, error) {
	if window <= 0 {
		return len(debits), nil
	}

	cutoff := now.Add(-window)
	count := 0
	for _, d := range debits {
		created, err := db.ParseTimestamp(d.CreatedAt)
		if err != nil {
			return 0, fmt.Errorf("debit %s has invalid created_at: %w", d.ID, err)
		}
		if !created.Before(cutoff) {
			count++
		}
	}
	return count, nil
}

// Balance returns the worker's credits minus debits. Negative means they owe.
func (e *Engine) Balance(ctx context.Context, workerID string) (int, error) {
	debits, err := e.store.GetDebitsForWorker(ctx, workerID)
	if err != nil {
		return 0, fmt.Errorf("failed to get debits: %w", err)
	}
	credits, err := e.store.GetCreditsForWorker(ctx, workerID)
	if err != nil {
		return 0, fmt.Errorf("failed to get credits: %w", err)
	}
	return SumBalance(debits, credits), nil
}

// DeferralWeight returns the worker's eligibility weight as of now
func (e *Engine) DeferralWeight(ctx context.Context, workerID string, now time.Time) (float64, error) {
	debits, err := e.store.GetDebitsForWorker(ctx, workerID)
	if err != nil {
		return 0, fmt.Errorf("failed to get debits: %w", err)
	}
	recent, err := RecentDeferrals(debits, now, e.window)
	if err != nil {
		return 0, err
	}
	return e.strategy.Weight(recent), nil
}

// IsExcused reports whether the worker is excused from the shame rankings
func (e *Engine) IsExcused(w db.Worker) bool {
	return e.excused[strings.ToLower(w.Email)] || e.excused[strings.ToLower(w.ID)]
}

// Excused returns the excused workers that exist in the store, ordered by ID
func (e *Engine) Excused(ctx context.Context) ([]db.Worker, error) {
	workers, err := e.store.GetWorkers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get workers: %w", err)
	}

	var excused []db.Worker
	for _, w := range workers {
		if e.IsExcused(w) {
			excused = append(excused, w)
		}
	}
	slices.SortFunc(excused, func(a, b db.Worker) int { return cmp.Compare(a.ID, b.ID) })
	return excused, nil
}

// MostDeferred returns the non-excused workers with a negative balance, most
// negative first, ties by worker ID
func (e *Engine) MostDeferred(ctx context.Context) ([]Standing, error) {
	workers, err := e.store.GetWorkers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get workers: %w", err)
	}

	var standings []Standing
	for _, w := range workers {
		if e.IsExcused(w) {
			continue
		}
		balance, err := e.Balance(ctx, w.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to compute balance for %s: %w", w.ID, err)
		}
		if balance < 0 {
			standings = append(standings, Standing{Worker: w, Balance: balance})
		}
	}

	slices.SortFunc(standings, func(a, b Standing) int {
		return cmp.Or(cmp.Compare(a.Balance, b.Balance), cmp.Compare(a.Worker.ID, b.Worker.ID))
	})
	return standings, nil
}

// MostNudged returns the most nudged non-excused workers
func (e *Engine) MostNudged(ctx context.Context) ([]EventTally, error) {
	return e.topByEvents(ctx, db.EventNudge, true)
}

// MostBoned returns the most boned workers. Excused workers still get the glory.
func (e *Engine) MostBoned(ctx context.Context) ([]EventTally, error) {
	return e.topByEvents(ctx, db.EventBone, false)
}

func (e *Engine) topByEvents(ctx context.Context, kind string, skipExcused bool) ([]EventTally, error) {
	workers, err := e.store.GetWorkers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get workers: %w", err)
	}

	var tallies []EventTally
	for _, w := range workers {
		if skipExcused && e.IsExcused(w) {
			continue
		}
		count, err := e.store.CountEvents(ctx, db.EventFilter{Kind: kind, WorkerID: w.ID})
		if err != nil {
			return nil, fmt.Errorf("failed to count %s events for %s: %w", kind, w.ID, err)
		}
		if count > 0 {
			tallies = append(tallies, EventTally{Worker: w, Count: count})
		}
	}

	slices.SortFunc(tallies, func(a, b EventTally) int {
		return cmp.Or(cmp.Compare(b.Count, a.Count), cmp.Compare(a.Worker.ID, b.Worker.ID))
	})
	if len(tallies) > e.limit {
		tallies = tallies[:e.limit]
	}
	return tallies, nil
}
