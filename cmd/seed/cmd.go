package main

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/GregMSThompson/sales-dashboard/internal/bootstrap"
	"github.com/GregMSThompson/sales-dashboard/internal/config"
	"github.com/GregMSThompson/sales-dashboard/internal/store"
	"github.com/GregMSThompson/sales-dashboard/pkg/logger"
)

// seed writes the sample collection to the Firestore "sales" collection.
func main() {
	_ = godotenv.Load()

	if err := run(context.Background()); err != nil {
		slog.Error("seed failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.New()
	if err != nil {
		return err
	}
	if cfg.ProjectID == "" {
		return errors.New("PROJECTID must be set to seed Firestore")
	}

	log := logger.New(cfg.LogLevel, logger.NewCloudRunHandler)
	slog.SetDefault(log)
	ctx = logger.ToContext(ctx, log)

	client, err := bootstrap.InitFirestore(ctx, cfg.ProjectID)
	if err != nil {
		return err
	}
	defer client.Close()

	records := store.SampleSales()
	if err := store.NewSalesStore(client).UpsertBatch(ctx, records); err != nil {
		return err
	}

	log.Info("sample sales written", "records", len(records), "project", cfg.ProjectID)
	return nil
}
