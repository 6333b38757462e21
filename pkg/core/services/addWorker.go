package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/thecleanest/thecleanest/pkg/db"
)

var validate = validator.New()

// AddWorkerStore defines the database operations needed to add a worker
type AddWorkerStore interface {
	InsertWorker(ctx context.Context, worker *db.Worker) error
}

type newWorker struct {
	Name  string `validate:"required"`
	Email string `validate:"required,email"`
}

// AddWorker validates and stores a new worker
func AddWorker(ctx context.Context, store AddWorkerStore, name, email string, logger *zap.Logger) (*db.Worker, error) {
	input := newWorker{Name: strings.TrimSpace(name), Email: strings.ToLower(strings.TrimSpace(email))}
	if err := validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidWorker, err)
	}

	worker := &db.Worker{
		ID:    uuid.New().String(),
		Name:  input.Name,
		Email: input.Email,
	}
	if err := store.InsertWorker(ctx, worker); err != nil {
		return nil, fmt.Errorf("failed to add worker: %w", err)
	}

	logger.Info("Worker added", zap.String("worker_id", worker.ID), zap.String("email", worker.Email))
	return worker, nil
}
