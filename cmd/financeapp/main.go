package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/AlexKMarshall/fm-personal-finance-app/internal/amqp"
	"github.com/AlexKMarshall/fm-personal-finance-app/internal/auth"
	"github.com/AlexKMarshall/fm-personal-finance-app/internal/config"
	apphttp "github.com/AlexKMarshall/fm-personal-finance-app/internal/http"
	applog "github.com/AlexKMarshall/fm-personal-finance-app/internal/log"
	"github.com/AlexKMarshall/fm-personal-finance-app/internal/services"
	"github.com/AlexKMarshall/fm-personal-finance-app/internal/storage"
)

func main() {
	// Load .env for local development (ignore errors in production)
	_ = godotenv.Load()

	logger := applog.New(applog.DefaultConfig())
	applog.SetDefault(logger)
	appLogger := logger.WithComponent(applog.ComponentApp)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		appLogger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		appLogger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	// AMQP is optional: without a broker the API runs fine, it just
	// doesn't emit transaction events.
	var publisher apphttp.EventPublisher
	if cfg.AMQPURL != "" {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			appLogger.Error("Failed to initialize AMQP client", "error", err, "url", cfg.AMQPURL)
			os.Exit(1)
		}
		defer amqpClient.Close()
		publisher = amqpClient
		appLogger.Info("AMQP event publishing enabled", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	} else {
		appLogger.Info("AMQP disabled - no AMQP_URL provided")
	}

	authService := auth.NewService(cfg.SessionSecret, cfg.SessionTTL)

	srv := apphttp.NewServer(apphttp.Options{
		Addr:               ":" + cfg.Port,
		AuthService:        authService,
		Users:              repo,
		Transactions:       services.NewTransactionService(repo),
		Bills:              services.NewBillService(repo),
		Budgets:            services.NewBudgetService(repo),
		Publisher:          publisher,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
		TrustedProxies:     cfg.TrustedProxies,
	})

	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		appLogger.Info("Starting server", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		appLogger.Info("Shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		appLogger.Error("Server error", "error", err)
		os.Exit(1)
	}
	appLogger.Info("Server stopped gracefully")
}
