package main

import (
	"context"
	"os"
	"time"

	"github.com/abhinav07-codes/budget-blitz-buddy/internal/backend"
	"github.com/abhinav07-codes/budget-blitz-buddy/internal/budget"
	"github.com/abhinav07-codes/budget-blitz-buddy/internal/cli"
	"github.com/abhinav07-codes/budget-blitz-buddy/internal/events"
	applog "github.com/abhinav07-codes/budget-blitz-buddy/internal/log"
	"github.com/abhinav07-codes/budget-blitz-buddy/internal/notify"
	"github.com/abhinav07-codes/budget-blitz-buddy/internal/services"
	"github.com/abhinav07-codes/budget-blitz-buddy/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()
	cfg := cli.LoadAndValidateConfig(logger)

	logger.Info("Starting import-worker",
		"payments_source", cfg.PaymentsSource,
		"interval", cfg.ImportInterval.String())

	factory := backend.NewFactory(logger)

	store, cleanup, err := factory.CreateStore(cfg)
	if err != nil {
		logger.Error("Failed to initialize store", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	defer cleanup()

	source, err := factory.CreatePaymentSource(context.Background(), cfg)
	if err != nil {
		logger.Error("Failed to initialize payment source", "error", err, "source", cfg.PaymentsSource)
		os.Exit(1)
	}

	var pub budget.EventPublisher
	if cfg.AMQPURL != "" {
		client, err := events.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, continuing without events", "error", err)
		} else {
			defer client.Close()
			pub = client
		}
	}

	notifier := notify.NewLogNotifier(logger.With(applog.FieldComponent, applog.ComponentImport))
	svc := services.NewBudgetService(store, source, notifier, pub, cfg.Location())

	scheduler := worker.NewImportScheduler(svc, cfg.ImportInterval)

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, scheduler.Stop)
	scheduler.Start(ctx)

	cli.WaitForShutdown(ctx, done)
	logger.Info("import-worker stopped gracefully")
}
