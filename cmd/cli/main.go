package main

import (
	"bufio"
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/thecleanest/thecleanest/cmd/cli/commands"
	"github.com/thecleanest/thecleanest/internal/config"
	"github.com/thecleanest/thecleanest/pkg/clients/gmailclient"
	"github.com/thecleanest/thecleanest/pkg/core/calendar"
	"github.com/thecleanest/thecleanest/pkg/core/fairness"
	"github.com/thecleanest/thecleanest/pkg/core/ledger"
	"github.com/thecleanest/thecleanest/pkg/core/services"
	"github.com/thecleanest/thecleanest/pkg/db"
	"github.com/thecleanest/thecleanest/pkg/postgres"
	"github.com/thecleanest/thecleanest/pkg/sqlite"
	"github.com/thecleanest/thecleanest/pkg/utils"
	"github.com/thecleanest/thecleanest/pkg/utils/logging"
)

var (
	env  string
	seed uint64
	app  = &commands.AppContext{}
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "cli",
		Short: "The Cleanest - kitchen duty scheduling",
		Long:  `A CLI tool for scheduling kitchen duty, deferring and covering days, and keeping score.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app.Database != nil {
				app.Database.Close()
			}
			if app.Logger != nil {
				app.Logger.Sync()
			}
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&env, "env", "e", "", "Environment (required: dev, test, prod, etc.)")
	rootCmd.MarkPersistentFlagRequired("env")
	rootCmd.PersistentFlags().Uint64Var(&seed, "seed", 0, "Seed for picking replacements (0 picks a random seed)")

	commands.Register(rootCmd, app)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// initApp loads config, sets up the logger and database, and builds the
// calendar, fairness engine and ledger
func initApp() error {
	var err error
	app.Ctx = context.Background()
	app.Input = bufio.NewReader(os.Stdin)

	app.Cfg, err = config.LoadWithEnv(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	app.Logger, err = logging.InitLogger(env, app.Cfg.LogDir)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	app.Logger.Info("Starting application", zap.String("environment", env))

	app.Location, err = app.Cfg.Location()
	if err != nil {
		return fmt.Errorf("%w: %w", config.ErrInvalidConfig, err)
	}

	app.Logger.Debug("Loading holidays", zap.String("path", app.Cfg.HolidaysFile))
	holidays, err := config.LoadHolidays(app.Cfg.HolidaysFile)
	if err != nil {
		return fmt.Errorf("failed to load holidays: %w", err)
	}
	app.Calendar, err = calendar.New(holidays)
	if err != nil {
		return fmt.Errorf("%w: %w", config.ErrInvalidConfig, err)
	}
	app.Logger.Debug("Holidays loaded", zap.Int("entries", holidays.Len()))

	app.Logger.Info("Connecting to database", zap.String("driver", app.Cfg.DatabaseDriver))
	app.Database, err = openDatabase(app.Ctx, app.Cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	strategy, err := fairness.StrategyByName(app.Cfg.DeferralWeight)
	if err != nil {
		return fmt.Errorf("%w: %w", config.ErrInvalidConfig, err)
	}
	app.Fairness = fairness.NewEngine(app.Database, fairness.Config{
		Excused:      app.Cfg.Excused,
		Strategy:     strategy,
		Window:       app.Cfg.DeferralWindow(),
		RankingLimit: app.Cfg.RankingLimit,
	})

	var picker ledger.Picker
	if seed != 0 {
		app.Logger.Debug("Using fixed seed", zap.Uint64("seed", seed))
		picker = ledger.NewWeightedPicker(seed)
	}
	app.Ledger = ledger.New(app.Database, app.Calendar, app.Fairness, ledger.NewOnLeavePolicy(app.Cfg.OnLeave), picker, app.Logger)

	if app.Cfg.GmailSender != "" {
		app.Mailer = newMailer
	}

	app.Logger.Debug("Application initialized")
	return nil
}

func openDatabase(ctx context.Context, cfg *config.Config) (db.Database, error) {
	switch cfg.DatabaseDriver {
	case config.DriverPostgres:
		database, err := postgres.NewDB(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		return database, nil
	case config.DriverSqlite:
		database, err := sqlite.NewDB(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		return database, nil
	}
	return nil, fmt.Errorf("%w: unknown database driver %q", config.ErrInvalidConfig, cfg.DatabaseDriver)
}

var gmail *gmailclient.Client

// newMailer authorizes with Google on first use and reuses the client after that
func newMailer() (services.Mailer, error) {
	if gmail != nil {
		return gmail, nil
	}

	oauthCfg, err := config.LoadOAuthClientWithEnv(env)
	if err != nil {
		return nil, fmt.Errorf("failed to load OAuth client config: %w", err)
	}
	oauthConfig, err := utils.GetOAuthConfig(oauthCfg)
	if err != nil {
		return nil, err
	}
	token, err := utils.GetTokenWithFlow(app.Ctx, oauthConfig, env, app.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to get gmail token: %w", err)
	}

	gmail, err = gmailclient.NewClient(app.Ctx, oauthCfg, token, app.Cfg.GmailSender)
	if err != nil {
		return nil, fmt.Errorf("failed to create gmail client: %w", err)
	}
	app.Logger.Info("Gmail client initialized")
	return gmail, nil
}
