package main

import (
	"context"
	"errors"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/abhinav07-codes/budget-blitz-buddy/internal/backend"
	"github.com/abhinav07-codes/budget-blitz-buddy/internal/cli"
	"github.com/abhinav07-codes/budget-blitz-buddy/internal/events"
	applog "github.com/abhinav07-codes/budget-blitz-buddy/internal/log"
	"github.com/abhinav07-codes/budget-blitz-buddy/internal/notify"
	"github.com/abhinav07-codes/budget-blitz-buddy/internal/payments"
	"github.com/abhinav07-codes/budget-blitz-buddy/internal/services"
	"github.com/abhinav07-codes/budget-blitz-buddy/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()
	cfg := cli.LoadAndValidateConfig(logger)

	logger.Info("Starting budget-worker")

	if cfg.AMQPURL == "" {
		logger.Error("budget-worker requires AMQP_URL")
		os.Exit(1)
	}

	factory := backend.NewFactory(logger)
	store, cleanup, err := factory.CreateStore(cfg)
	if err != nil {
		logger.Error("Failed to initialize store", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	defer cleanup()

	consumer, err := events.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer consumer.Close()

	// The worker only reconciles, so the mock source and no publisher
	// are enough for its service.
	notifier := notify.NewLogNotifier(logger.With(applog.FieldComponent, applog.ComponentWorker))
	svc := services.NewBudgetService(store, payments.NewMockSource(cfg.Location()), notifier, nil, cfg.Location())

	reconciler := worker.NewReconciler(svc, cfg.ImportInterval)

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, nil)

	if err := backend.WaitForStore(ctx, store, 10*time.Second); err != nil {
		logger.Error("Store not ready", "error", err)
		os.Exit(1)
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return consumer.Consume(gctx, func(msg *events.Message) error {
			return reconciler.HandleMessage(gctx, msg)
		})
	})

	g.Go(func() error {
		return reconciler.RunSweep(gctx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker failed", "error", err)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("budget-worker stopped gracefully")
}
