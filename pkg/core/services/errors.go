package services

import (
	"errors"
	"fmt"

	"github.com/thecleanest/thecleanest/pkg/db"
)

var (
	// ErrIsWorkday is returned when a non-workday explanation is asked for a workday
	ErrIsWorkday = fmt.Errorf("%w: date is a workday", db.ErrNotFound)

	// ErrUnknownExportKind is returned for an export of an unknown record kind
	ErrUnknownExportKind = errors.New("unknown export kind")

	// ErrNoWorkers is returned when scheduling with nobody to schedule
	ErrNoWorkers = errors.New("no workers to schedule")

	// ErrInvalidWorker is returned when a new worker fails validation
	ErrInvalidWorker = errors.New("invalid worker")
)
