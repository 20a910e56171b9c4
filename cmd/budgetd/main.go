package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/abhinav07-codes/budget-blitz-buddy/internal/backend"
	"github.com/abhinav07-codes/budget-blitz-buddy/internal/budget"
	"github.com/abhinav07-codes/budget-blitz-buddy/internal/cli"
	"github.com/abhinav07-codes/budget-blitz-buddy/internal/config"
	"github.com/abhinav07-codes/budget-blitz-buddy/internal/events"
	apphttp "github.com/abhinav07-codes/budget-blitz-buddy/internal/http"
	applog "github.com/abhinav07-codes/budget-blitz-buddy/internal/log"
	"github.com/abhinav07-codes/budget-blitz-buddy/internal/notify"
	"github.com/abhinav07-codes/budget-blitz-buddy/internal/services"
)

// newService wires the budget service. A nil publisher must stay an
// untyped nil in the interface slot so eventing is truly disabled.
func newService(store budget.Store, source budget.PaymentSource, publisher *events.Client, logger *slog.Logger, cfg *config.Config) *services.BudgetService {
	notifier := notify.NewLogNotifier(logger.With(applog.FieldComponent, applog.ComponentBudget))
	var pub budget.EventPublisher
	if publisher != nil {
		pub = publisher
	}
	return services.NewBudgetService(store, source, notifier, pub, cfg.Location())
}

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()
	cfg := cli.LoadAndValidateConfig(logger)

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

	// Event publishing is optional; without AMQP_URL mutations are local only.
	var publisher *events.Client
	if cfg.AMQPURL != "" {
		publisher, err = events.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, continuing without events", "error", err)
			publisher = nil
		} else {
			defer publisher.Close()
			logger.Info("Initialized AMQP client", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
		}
	}

	svc := newService(store, source, publisher, logger, cfg)
	srv := apphttp.NewServer(":"+cfg.Port, svc, cfg.Location())

	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		cancel()
	}()

	logger.Info("Starting budgetd server",
		"port", cfg.Port,
		"backend", cfg.DataBackend,
		"payments_source", cfg.PaymentsSource,
		"timezone", cfg.Timezone)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}
