package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/justsurfingit/alumni-hub/internal/auth"
	"github.com/justsurfingit/alumni-hub/internal/config"
	"github.com/justsurfingit/alumni-hub/internal/database"
	"github.com/justsurfingit/alumni-hub/internal/logging"
	"github.com/justsurfingit/alumni-hub/internal/metrics"
	"github.com/justsurfingit/alumni-hub/internal/ratelimit"
	"github.com/justsurfingit/alumni-hub/internal/repository"
	"github.com/justsurfingit/alumni-hub/internal/server"
)

var configPath string

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "alumni-hub",
		Short: "Job board, mentorship and workshop API for students and alumni",
		Long: `alumni-hub serves the REST API behind the alumni portal.

Running without a subcommand is the same as "alumni-hub serve".`,
		SilenceUsage: true,
		RunE:         runServe,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML config file (defaults to $CONFIG_FILE)")

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run the HTTP API",
			RunE:  runServe,
		},
		&cobra.Command{
			Use:   "migrate",
			Short: "Create or update the database schema and exit",
			RunE:  runMigrate,
		},
	)
	return root
}

func bootstrap() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	logger, err := logging.New(cfg.Log)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	// 1. Config and logging
	cfg, logger, err := bootstrap()
	if err != nil {
		return err
	}
	defer func() { _ = logging.Sync(logger) }()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Database connection
	db, err := database.Connect(ctx, cfg.Database, logger)
	if err != nil {
		return err
	}
	defer func() { _ = database.Close(db) }()

	if cfg.Database.AutoMigrate {
		logger.Info("running migrations")
		if err := database.Migrate(ctx, db); err != nil {
			return err
		}
	}

	// 3. Rate limiting
	limiter, closeLimiter, err := newLimiter(ctx, cfg.RateLimit, logger)
	if err != nil {
		return err
	}
	defer closeLimiter()

	// 4. Router
	if !cfg.App.Debug() {
		gin.SetMode(gin.ReleaseMode)
	}
	stores := repository.New(db)
	router, err := server.NewRouter(server.Options{
		Config: cfg,
		Logger: logger,
		Stores: server.Stores{
			Users:        stores.Users,
			Jobs:         stores.Jobs,
			Applications: stores.Applications,
			Mentorship:   stores.Mentorship,
			Workshops:    stores.Workshops,
		},
		Tokens:  auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL),
		Limiter: limiter,
		Metrics: metrics.New(),
		Ping: func(ctx context.Context) error {
			return database.Ping(ctx, db)
		},
	})
	if err != nil {
		return err
	}

	logger.Info("configuration loaded",
		zap.String("env", cfg.App.Env),
		zap.String("transition_policy", cfg.Workflow.TransitionPolicy),
		zap.Bool("rate_limit", limiter != nil),
	)
	return server.Run(ctx, cfg.Server.Port, router, logger)
}

// newLimiter returns a nil Limiter when rate limiting is disabled.
func newLimiter(ctx context.Context, cfg config.RateLimitConfig, logger *zap.Logger) (ratelimit.Limiter, func(), error) {
	noop := func() {}
	if !cfg.Enabled {
		return nil, noop, nil
	}
	if cfg.RedisURL == "" {
		logger.Info("rate limiting in process", zap.Float64("rps", cfg.RPS), zap.Int("burst", cfg.Burst))
		return ratelimit.NewMemoryLimiter(cfg.RPS, cfg.Burst), noop, nil
	}
	client, err := ratelimit.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		return nil, noop, err
	}
	logger.Info("rate limiting via redis", zap.Float64("rps", cfg.RPS), zap.Int("burst", cfg.Burst))
	return ratelimit.NewRedisLimiter(client, cfg.RPS, cfg.Burst), func() { _ = client.Close() }, nil
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := bootstrap()
	if err != nil {
		return err
	}
	defer func() { _ = logging.Sync(logger) }()

	db, err := database.Connect(cmd.Context(), cfg.Database, logger)
	if err != nil {
		return err
	}
	defer func() { _ = database.Close(db) }()

	if err := database.Migrate(cmd.Context(), db); err != nil {
		return err
	}
	logger.Info("migrations applied")
	return nil
}
