package commands

import (
	"bufio"
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/thecleanest/thecleanest/internal/config"
	"github.com/thecleanest/thecleanest/pkg/core/calendar"
	"github.com/thecleanest/thecleanest/pkg/core/fairness"
	"github.com/thecleanest/thecleanest/pkg/core/ledger"
	"github.com/thecleanest/thecleanest/pkg/core/services"
	"github.com/thecleanest/thecleanest/pkg/db"
)

// AppContext holds the application dependencies shared across all commands
type AppContext struct {
	Cfg      *config.Config
	Database db.Database
	Calendar *calendar.Calendar
	Fairness *fairness.Engine
	Ledger   *ledger.Ledger
	Location *time.Location
	Logger   *zap.Logger
	Ctx      context.Context

	// Input is shared by confirmation prompts and the interactive session
	Input *bufio.Reader

	// Mailer returns the client nudge emails go through; nil when email is off
	Mailer func() (services.Mailer, error)

	// Clock is time.Now unless a test pins it
	Clock func() time.Time
}

// Now returns the current instant
func (app *AppContext) Now() time.Time {
	if app.Clock != nil {
		return app.Clock()
	}
	return time.Now()
}

// Today returns the current calendar date in the configured timezone
func (app *AppContext) Today() time.Time {
	loc := app.Location
	if loc == nil {
		loc = time.UTC
	}
	return calendar.Day(app.Now().In(loc))
}

// workerNames maps worker IDs to display names
func (app *AppContext) workerNames() (map[string]string, error) {
	workers, err := app.Database.GetWorkers(app.Ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(workers))
	for _, w := range workers {
		names[w.ID] = w.Name
	}
	return names, nil
}
