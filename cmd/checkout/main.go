package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/DanielPopoola/ficmart-checkout/internal/application"
	"github.com/DanielPopoola/ficmart-checkout/internal/application/services"
	"github.com/DanielPopoola/ficmart-checkout/internal/config"
	"github.com/DanielPopoola/ficmart-checkout/internal/infrastructure/lock"
	"github.com/DanielPopoola/ficmart-checkout/internal/infrastructure/persistence/postgres"
	"github.com/DanielPopoola/ficmart-checkout/internal/interfaces/rest/handlers"
	"github.com/DanielPopoola/ficmart-checkout/internal/interfaces/rest/openapi"
	"github.com/DanielPopoola/ficmart-checkout/internal/telemetry"
	"github.com/DanielPopoola/ficmart-checkout/internal/worker"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := cfg.Logger.NewLogger()
	slog.SetDefault(logger)

	logger.Info("starting checkout service",
		"port", cfg.Server.Port,
		"log_level", cfg.Logger.Level,
		"lock_backend", cfg.Lock.Backend,
	)

	shutdownTracer, err := telemetry.SetupTracer(cfg.Telemetry.ServiceName, cfg.Telemetry.TraceStdout)
	if err != nil {
		logger.Error("failed to set up tracing", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	db, err := postgres.Connect(ctx, &cfg.Database, logger)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	locker, closeLocker, err := newLocker(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to set up invoice lock", "error", err)
		os.Exit(1)
	}
	defer closeLocker()

	registrations, err := newProcessors(cfg.Processors, logger)
	if err != nil {
		logger.Error("failed to configure processors", "error", err)
		os.Exit(1)
	}
	registry, err := services.NewRegistry(registrations...)
	if err != nil {
		logger.Error("failed to build processor registry", "error", err)
		os.Exit(1)
	}
	logger.Info("processors registered", "providers", registry.Tags())

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := telemetry.NewPaymentMetrics(reg)

	invoiceRepo := postgres.NewInvoiceRepository(db)
	methodRepo := postgres.NewPaymentMethodRepository(db)
	checkoutRepo := postgres.NewCheckoutRepository(db)
	idempotencyRepo := postgres.NewIdempotencyRepository(db)

	gateway := services.NewGatewayService(invoiceRepo, methodRepo, registry, locker, metrics, logger)
	paymentService := services.NewPaymentService(checkoutRepo, invoiceRepo, registry, gateway, idempotencyRepo, logger)

	doc, err := openapi.Load()
	if err != nil {
		logger.Error("failed to load api document", "error", err)
		os.Exit(1)
	}

	router, err := handlers.NewRouter(handlers.NewHandlers(paymentService, logger), handlers.RouterOptions{
		Doc:            doc,
		Gatherer:       reg,
		Health:         db,
		RequestTimeout: cfg.Server.RequestTimeout,
	})
	if err != nil {
		logger.Error("failed to build router", "error", err)
		os.Exit(1)
	}

	server := &http.Server{
		Addr:         "0.0.0.0:" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	sweeper := worker.NewIdempotencySweeper(
		idempotencyRepo,
		cfg.Worker.Interval,
		cfg.Worker.StaleAfter,
		cfg.Worker.BatchSize,
		logger,
	)

	workerCtx, cancelWorkers := context.WithCancel(context.Background())
	defer cancelWorkers()

	go sweeper.Start(workerCtx)

	go func() {
		logger.Info("server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	cancelWorkers()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}
	if err := shutdownTracer(shutdownCtx); err != nil {
		logger.Error("failed to flush traces", "error", err)
	}

	logger.Info("server exited")
}

func newLocker(ctx context.Context, cfg *config.Config, logger *slog.Logger) (application.InvoiceLocker, func(), error) {
	if cfg.Lock.Backend != "redis" {
		return services.NewKeyedLocker(), func() {}, nil
	}

	client := redis.NewClient(cfg.Redis.Options())
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, err
	}
	closer := func() {
		if err := client.Close(); err != nil {
			logger.Error("failed to close redis client", "error", err)
		}
	}
	return lock.NewRedisLocker(client, cfg.Telemetry.ServiceName, cfg.Lock.TTL, logger), closer, nil
}
