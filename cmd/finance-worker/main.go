package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/AlexKMarshall/fm-personal-finance-app/internal/amqp"
	"github.com/AlexKMarshall/fm-personal-finance-app/internal/config"
	applog "github.com/AlexKMarshall/fm-personal-finance-app/internal/log"
	"github.com/AlexKMarshall/fm-personal-finance-app/internal/storage"
	"github.com/AlexKMarshall/fm-personal-finance-app/internal/worker"
)

func main() {
	// Load .env for local development (ignore errors in production)
	_ = godotenv.Load()

	logger := applog.New(applog.DefaultConfig())
	applog.SetDefault(logger)
	workerLogger := logger.WithComponent(applog.ComponentWorker)

	workerLogger.Info("Starting finance-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		workerLogger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	if cfg.AMQPURL == "" {
		workerLogger.Error("AMQP_URL is required for the export worker")
		os.Exit(1)
	}

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		workerLogger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		workerLogger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	exportWorker, err := worker.NewExportWorker(repo, cfg.ExportDir)
	if err != nil {
		workerLogger.Error("Failed to initialize export worker", "error", err, "dir", cfg.ExportDir)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		err := amqpClient.ConsumeTransactionEvents(gctx, func(evt *amqp.TransactionEvent) error {
			handleCtx, cancel := context.WithTimeout(gctx, 30*time.Second)
			defer cancel()
			return exportWorker.HandleEvent(handleCtx, evt)
		})
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})

	if err := g.Wait(); err != nil {
		workerLogger.Error("Worker error", "error", err)
		os.Exit(1)
	}
	workerLogger.Info("Worker stopped gracefully")
}
