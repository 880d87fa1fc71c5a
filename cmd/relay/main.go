package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/hpsconstructions/hps-platform/internal/app/bootstrap"
	appconfig "github.com/hpsconstructions/hps-platform/internal/config"
	"github.com/hpsconstructions/hps-platform/internal/observability/metrics"
	"github.com/hpsconstructions/hps-platform/internal/relay"
	"github.com/hpsconstructions/hps-platform/pkg/logging"
)

func main() {
	_ = godotenv.Load()

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel).Component("relay")

	srv := &http.Server{
		Addr:         ":" + cfg.RelayPort,
		Handler:      newRelayHandler(cfg, prometheus.DefaultRegisterer, logger),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("sms relay listening", "addr", srv.Addr, "destination", cfg.RelayDestinationNumber)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}
	logger.Info("sms relay exited")
}

// newRelayHandler sends each alert exactly once. A missing provider is logged
// and every request then fails with the reason.
func newRelayHandler(cfg *appconfig.Config, reg prometheus.Registerer, logger *logging.Logger) http.Handler {
	sender, provider, reason := bootstrap.BuildRelaySender(cfg, logger)
	if sender == nil {
		logger.Warn("sms provider not configured", "reason", reason)
	} else {
		logger.Info("sms provider selected", "provider", provider)
	}
	svc := relay.NewService(sender, relay.Config{
		Destination: cfg.RelayDestinationNumber,
		Location:    cfg.RelayLocation(),
	}, metrics.NewRelayMetrics(reg), logger)
	return relay.NewRouter(relay.NewHandler(svc, logger))
}
