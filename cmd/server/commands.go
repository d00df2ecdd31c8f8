package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/phrazzld/taskboard-api/internal/config"
	"github.com/phrazzld/taskboard-api/internal/domain"
	"github.com/phrazzld/taskboard-api/internal/platform/logger"
	"github.com/phrazzld/taskboard-api/internal/platform/postgres"
	"github.com/phrazzld/taskboard-api/internal/service/auth"
	"github.com/phrazzld/taskboard-api/internal/store"
	"github.com/spf13/cobra"
)

// rootOptions holds flags shared by every subcommand.
type rootOptions struct {
	configFile string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "taskboard-api",
		Short:         "Task assignment API server",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&opts.configFile, "config", "c", "",
		"config file (default: ./config.yaml if present)")

	root.AddCommand(
		newServeCmd(opts),
		newMigrateCmd(opts),
		newHashPasswordCmd(),
		newMakeAdminCmd(opts),
	)
	return root
}

// loadConfig loads configuration and installs the configured logger.
func (o *rootOptions) loadConfig() (*config.Config, *slog.Logger, error) {
	cfg, err := config.LoadFile(o.configFile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	log, err := logger.Setup(cfg.Server)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to set up logger: %w", err)
	}
	return cfg, log, nil
}

func newServeCmd(opts *rootOptions) *cobra.Command {
	var runJobsOnce bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server and the background scheduler",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := opts.loadConfig()
			if err != nil {
				return err
			}
			log.Info("server configuration loaded",
				slog.Int("port", cfg.Server.Port),
				slog.String("log_level", cfg.Server.LogLevel),
				slog.Bool("scheduler_enabled", cfg.Scheduler.Enabled))

			ctx := cmd.Context()
			db, err := openDatabase(ctx, cfg.Database, log)
			if err != nil {
				return err
			}

			app, err := newApplication(cfg, log, db)
			if err != nil {
				_ = db.Close()
				return err
			}
			defer app.cleanup()

			if runJobsOnce {
				return app.scheduler.RunOnce(ctx)
			}
			return app.Run(ctx)
		},
	}
	cmd.Flags().BoolVar(&runJobsOnce, "run-jobs-once", false,
		"run the reminder and overdue jobs once and exit without serving HTTP")
	return cmd
}

func newMigrateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:       "migrate up|down|status|reset|version",
		Short:     "Apply or inspect database migrations",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"up", "down", "status", "reset", "version"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := opts.loadConfig()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			db, err := openDatabase(ctx, cfg.Database, log)
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			return postgres.Migrate(ctx, db.DB, args[0], log)
		},
	}
}

func newHashPasswordCmd() *cobra.Command {
	var cost int

	cmd := &cobra.Command{
		Use:   "hash-password PASSWORD...",
		Short: "Print bcrypt hashes for the given passwords",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hasher := auth.NewBcryptHasher(cost)
			for _, password := range args {
				hash, err := hasher.Hash(password)
				if err != nil {
					return fmt.Errorf("failed to hash password: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), hash)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&cost, "cost", 10, "bcrypt cost")
	return cmd
}

func newMakeAdminCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "make-admin EMAIL",
		Short: "Grant admin rights to an existing user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := opts.loadConfig()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			db, err := openDatabase(ctx, cfg.Database, log)
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			users := postgres.NewPostgresUserStore(db, log)
			if err := promoteToAdmin(ctx, cmd.OutOrStdout(), users, args[0]); err != nil {
				return err
			}
			log.Info("user promoted to admin")
			return nil
		},
	}
}

// promoteToAdmin sets the admin flag of the user owning email.
func promoteToAdmin(ctx context.Context, out io.Writer, users store.UserStore, email string) error {
	user, err := users.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return fmt.Errorf("no user with email %q", domain.NormalizeEmail(email))
		}
		return fmt.Errorf("failed to load user: %w", err)
	}
	if user.IsAdmin {
		fmt.Fprintf(out, "%s is already an admin\n", user.Email)
		return nil
	}

	user.IsAdmin = true
	if err := users.Update(ctx, user); err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	fmt.Fprintf(out, "%s is now an admin\n", user.Email)
	return nil
}
