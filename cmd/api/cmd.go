package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/GregMSThompson/sales-dashboard/internal/bootstrap"
	"github.com/GregMSThompson/sales-dashboard/internal/config"
	"github.com/GregMSThompson/sales-dashboard/internal/engine"
	"github.com/GregMSThompson/sales-dashboard/internal/handlers"
	"github.com/GregMSThompson/sales-dashboard/internal/response"
	"github.com/GregMSThompson/sales-dashboard/internal/router"
	"github.com/GregMSThompson/sales-dashboard/internal/services"
	"github.com/GregMSThompson/sales-dashboard/pkg/logger"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := run(ctx, nil)
	stop()
	if err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

// run serves until ctx is cancelled. Every client opened by bootstrap is
// closed before it returns, including on failure. ready, when non-nil,
// receives the listening address.
func run(ctx context.Context, ready chan<- string) error {
	cfg, err := config.New()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	bs, err := bootstrap.Run(cfg)
	defer func() {
		if cerr := bs.Close(); cerr != nil {
			bs.Log.Error("failed to close clients", "error", cerr)
		}
	}()
	if err != nil {
		bs.Log.Error("bootstrap failed", "error", err)
		return err
	}
	slog.SetDefault(bs.Log)

	// services
	salesv := services.NewSalesService(bs.Source, bs.Cache, services.SalesOptions{
		CacheTTL: cfg.CacheTTL,
		Currency: cfg.Currency,
		Targets: engine.Targets{
			Revenue:   cfg.RevenueTarget,
			Customers: cfg.CustomersTarget,
			Sales:     cfg.SalesTarget,
		},
	})

	if _, err := salesv.Refresh(logger.ToContext(ctx, bs.Log)); err != nil {
		return fmt.Errorf("initial sales load failed: %w", err)
	}

	// response handler
	rh := response.New(bs.Log)

	// dependencies
	deps := new(handlers.Deps)
	deps.Log = bs.Log
	deps.ResponseHandler = rh
	deps.Firebase = bs.Firebase
	deps.SalesSvc = salesv

	// router
	srv := &http.Server{
		Handler:           router.NewRouter(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}
	ln, err := net.Listen("tcp", ":"+cfg.Port)
	if err != nil {
		return fmt.Errorf("server start failed: %w", err)
	}

	served := make(chan error, 1)
	go func() { served <- srv.Serve(ln) }()
	bs.Log.Info("server listening", "addr", ln.Addr().String(), "auth", cfg.AuthEnabled)
	if ready != nil {
		ready <- ln.Addr().String()
	}

	select {
	case err := <-served:
		return fmt.Errorf("server stopped: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	if err := <-served; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
