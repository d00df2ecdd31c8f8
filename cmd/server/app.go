package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/phrazzld/taskboard-api/internal/config"
	"github.com/phrazzld/taskboard-api/internal/platform/mail"
	"github.com/phrazzld/taskboard-api/internal/platform/postgres"
	"github.com/phrazzld/taskboard-api/internal/scheduler"
	"github.com/phrazzld/taskboard-api/internal/service"
	"github.com/phrazzld/taskboard-api/internal/service/auth"
	"github.com/phrazzld/taskboard-api/internal/store"
)

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sqlx.DB

	userStore store.UserStore
	taskStore store.TaskStore

	jwtService  auth.JWTService
	notifier    *mail.Notifier
	userService service.UserService
	taskService service.TaskService
	scheduler   *scheduler.Scheduler
	background  backgroundGroup
}

// newApplication wires stores, services and background jobs on top of an
// established database connection.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sqlx.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	loc, err := cfg.Scheduler.Location()
	if err != nil {
		return nil, err
	}

	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("token service initialized",
		slog.Int("access_lifetime_minutes", cfg.Auth.AccessLifetimeMinutes),
		slog.Int("refresh_lifetime_minutes", cfg.Auth.RefreshLifetimeMinutes))

	app.userStore = postgres.NewPostgresUserStore(db, logger)
	app.taskStore = postgres.NewPostgresTaskStore(db, logger)

	catalog, err := mail.DefaultCatalog()
	if err != nil {
		return nil, fmt.Errorf("failed to load mail templates: %w", err)
	}
	mailer, err := mail.NewMailer(cfg.Mail, cfg.Server.AppName, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize mailer: %w", err)
	}
	app.notifier = mail.NewNotifier(catalog, mailer, mail.NotifierConfig{
		AppName:         cfg.Server.AppName,
		ClientURL:       cfg.Server.ClientURL,
		ActivationTTL:   time.Duration(cfg.Auth.ActivationLifetimeMinutes) * time.Minute,
		ResetTTL:        time.Duration(cfg.Auth.ResetLifetimeMinutes) * time.Minute,
		ReminderMinutes: cfg.Scheduler.ReminderWindowMinutes,
	})

	app.userService, err = service.NewUserService(
		app.userStore,
		app.taskStore,
		postgres.NewTransactor(db, logger),
		app.jwtService,
		auth.NewBcryptHasher(cfg.Auth.BcryptCost),
		app.notifier,
		logger,
		service.WithBackgroundRunner(app.background.Go),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create user service: %w", err)
	}

	app.taskService, err = service.NewTaskService(app.taskStore, app.userStore, loc, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create task service: %w", err)
	}

	app.scheduler = newScheduler(cfg.Scheduler, loc, app.taskStore, app.notifier, logger)

	logger.Info("application initialized")
	return app, nil
}

// newScheduler registers the reminder and overdue sweep jobs.
func newScheduler(
	cfg config.SchedulerConfig,
	loc *time.Location,
	tasks store.TaskStore,
	notifier scheduler.ReminderNotifier,
	logger *slog.Logger,
) *scheduler.Scheduler {
	s := scheduler.New(logger)
	s.Register(scheduler.NewReminderJob(tasks, notifier, scheduler.ReminderConfig{
		Window:      time.Duration(cfg.ReminderWindowMinutes) * time.Minute,
		Location:    loc,
		Concurrency: cfg.SendConcurrency,
	}), time.Duration(cfg.ReminderIntervalSeconds)*time.Second)
	s.Register(scheduler.NewSweepJob(tasks, loc), time.Duration(cfg.SweepIntervalSeconds)*time.Second)
	return s
}

// Run starts the scheduler, when enabled, and serves HTTP until ctx is done.
func (app *application) Run(ctx context.Context) error {
	if app.config.Scheduler.Enabled {
		if err := app.scheduler.Start(ctx); err != nil {
			return fmt.Errorf("failed to start scheduler: %w", err)
		}
	} else {
		app.logger.Info("scheduler disabled")
	}

	if err := app.startHTTPServer(ctx, app.setupRouter()); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.scheduler != nil {
		app.scheduler.Stop()
	}

	if !app.background.Wait(app.config.Server.ShutdownTimeout()) {
		app.logger.Warn("background work still running at shutdown")
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database connection", slog.Any("error", err))
		}
	}

	app.logger.Info("application shutdown completed")
}
