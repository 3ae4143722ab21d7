package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mashangjie/taskmarket/internal/api"
	"github.com/mashangjie/taskmarket/internal/api/handler"
	"github.com/mashangjie/taskmarket/internal/core/service"
	"github.com/mashangjie/taskmarket/internal/infrastructure/config"
	mongodb "github.com/mashangjie/taskmarket/internal/infrastructure/db/mongo"
	redisdb "github.com/mashangjie/taskmarket/internal/infrastructure/db/redis"
	"github.com/mashangjie/taskmarket/internal/infrastructure/payment"
	"github.com/mashangjie/taskmarket/internal/infrastructure/queue"
	"github.com/mashangjie/taskmarket/pkg/logger"
)

// taskmarket serve: start the HTTP server and the settlement workers.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return serve(ctx)
	},
}

func serve(ctx context.Context) error {
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "taskmarket",
	})

	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
		Timeout:  cfg.Mongo.Timeout,
	})
	if err != nil {
		return err
	}
	defer func() { _ = mongoClient.Disconnect(context.Background()) }()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return err
	}
	defer func() { _ = rdb.Close() }()

	repos := mongodb.NewRepositories(db)
	if err := repos.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("ensure indexes: %w", err)
	}

	// --- Settlement ---
	settlement := service.NewSettlementService(repos.Orders, repos.Payouts, logger.For("settlement"))
	dispatcher := queue.NewDispatcher(cfg.Settlement.Workers, settlement, logger.For("dispatcher"))
	dispatcher.Start(ctx)
	if n, err := dispatcher.Recover(ctx); err != nil {
		log.Error().Err(err).Msg("failed to recover pending settlements")
	} else if n > 0 {
		log.Info().Int("orders", n).Msg("re-enqueued pending settlements")
	}

	// --- Use cases ---
	services := api.Services{
		Users:  service.NewUserService(repos.Users, logger.For("user")),
		Tasks:  service.NewTaskService(repos.Tasks, repos.Users, logger.For("task")),
		Orders: service.NewOrderService(repos.Orders, repos.Tasks, repos.Users, dispatcher, logger.For("order")),
		Payments: service.NewPaymentService(
			repos.Orders, repos.Tasks, repos.Users, repos.PaymentEvents,
			payment.NewSandboxGateway(cfg.Payment.SandboxSecret, logger.For("gateway")),
			redisdb.NewDedupChecker(rdb, cfg.Redis.DedupTTL),
			logger.For("payment"),
		),
		Reviews: service.NewReviewService(repos.Reviews, repos.Tasks, repos.Orders, repos.Users, logger.For("review")),
	}

	if cfg.Payment.CallbackSecret == "" {
		log.Warn().Msg("PAYMENT_CALLBACK_SECRET not set: payment callbacks are accepted without a signature")
	}

	e := api.NewRouter(services, api.Options{
		JWTSecret:      cfg.JWTSecret,
		CallbackSecret: cfg.Payment.CallbackSecret,
		Checks: map[string]handler.DependencyCheck{
			"mongodb": func(ctx context.Context) error { return mongoClient.Ping(ctx, nil) },
			"redis":   func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		},
		Log: logger.For("http"),
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("http server listening")
		errCh <- e.Start(":" + cfg.Port)
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown requested")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	log.Info().Msg("server stopped")
	return nil
}
