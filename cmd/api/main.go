package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wolfman30/clinic-booking-widget/internal/api/router"
	"github.com/wolfman30/clinic-booking-widget/internal/app/bootstrap"
	"github.com/wolfman30/clinic-booking-widget/internal/booking"
	appconfig "github.com/wolfman30/clinic-booking-widget/internal/config"
	"github.com/wolfman30/clinic-booking-widget/internal/http/handlers"
	"github.com/wolfman30/clinic-booking-widget/internal/observability/metrics"
	"github.com/wolfman30/clinic-booking-widget/pkg/logging"
)

func main() {
	// Load configuration
	cfg := appconfig.Load()

	// Initialize logger
	logger := logging.NewWithWriter(cfg.LogLevel, cfg.LogFormat, os.Stdout)
	logger.Info("starting clinic booking API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx := context.Background()
	blobs, closeBlobs, err := bootstrap.BuildBlobStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to build snapshot store", "error", err)
		os.Exit(1)
	}
	defer closeBlobs()

	metricsHandler, bookingMetrics := setupBookingMetrics(cfg)
	svc := bootstrap.BuildBookingService(ctx, cfg, blobs, logger, booking.WithMetrics(bookingMetrics))

	r := router.New(&router.Config{
		Logger:             logger,
		BookingHandler:     handlers.NewBookingHandler(svc, cfg.Doctors, logger),
		MetricsHandler:     metricsHandler,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		RateLimitRPS:       cfg.RateLimitRPS,
		RateLimitBurst:     cfg.RateLimitBurst,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
	fmt.Println("Server exited gracefully")
}

// setupBookingMetrics builds a private registry with Go runtime collectors
// and the booking counters. Both results are nil when metrics are disabled.
func setupBookingMetrics(cfg *appconfig.Config) (http.Handler, *metrics.BookingMetrics) {
	if !cfg.MetricsEnabled {
		return nil, nil
	}
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := bootstrap.BuildBookingMetrics(cfg, reg)
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{}), m
}
