package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/arun-gupta/api-status-dashboard/internal/config"
	"github.com/arun-gupta/api-status-dashboard/internal/httpapi"
	"github.com/arun-gupta/api-status-dashboard/internal/logging"
	"github.com/arun-gupta/api-status-dashboard/internal/metrics"
	"github.com/arun-gupta/api-status-dashboard/internal/monitor"
	"github.com/arun-gupta/api-status-dashboard/internal/probe"
	"github.com/arun-gupta/api-status-dashboard/internal/repo"
	"github.com/arun-gupta/api-status-dashboard/internal/repo/backend"
	"github.com/arun-gupta/api-status-dashboard/internal/scheduler"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.FromEnv()
	logger, err := logging.NewLogger(cfg.LogDir, cfg.LogLevel)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("api_exit", zap.Error(err))
	}
}

func run(cfg config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	eps, err := cfg.Endpoints()
	if err != nil {
		return err
	}

	kv, closeStore, err := backend.Open(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	m := metrics.New()
	mon := monitor.New(logger, probe.NewProber(logger), repo.NewHistoryRepo(kv).WithLogger(logger), eps, monitor.Options{
		Metrics:     m,
		DiagnoseDNS: cfg.DiagnoseDNS,
	})
	logger.Info("registry_loaded", zap.Strings("endpoints", mon.Names()))

	sched := scheduler.New(logger, mon, cfg.CheckInterval, cfg.CheckOnStart)
	schedDone := make(chan struct{})
	go func() {
		defer close(schedDone)
		sched.Run(ctx)
	}()

	api := httpapi.NewServer(logger, mon, m, httpapi.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		TriggerRPM:     cfg.TriggerRPM,
		TriggerBurst:   cfg.TriggerBurst,
	})
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           api.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info("api_listen", zap.String("addr", cfg.Addr), zap.String("store", cfg.StoreDriver()))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
		logger.Info("shutdown_start")
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(sctx); err != nil {
			logger.Warn("shutdown_error", zap.Error(err))
		}
	}

	stop()
	select {
	case <-schedDone:
	case <-time.After(shutdownTimeout):
		logger.Warn("scheduler_stop_timeout")
	}
	logger.Info("shutdown_complete")
	return nil
}
