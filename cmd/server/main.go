package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cyphex/internal/app"
	"cyphex/internal/platform/config"
	"cyphex/internal/platform/health"
	"cyphex/internal/platform/logger"
	"cyphex/internal/platform/telemetry"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	config.LoadDotEnv()
	cfg, err := config.FromEnv()
	log := logger.New(cfg.Server.LogLevel)
	if err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	log.Info("initializing cyphex",
		"addr", cfg.Server.Addr,
		"env", cfg.Server.Environment,
		"version", health.Version,
	)

	shutdownTracing := telemetry.Init(context.Background(), "cyphex", health.Version, cfg.Server.OTLPEndpoint, log)

	application, err := app.New(cfg, log)
	if err != nil {
		log.Error("failed to wire application", "error", err)
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           application.Handler,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      app.ReviewRequestTimeout(cfg) + 5*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	log.Info("starting http server", "addr", cfg.Server.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server gracefully")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}
	if err := shutdownTracing(ctx); err != nil {
		log.Error("tracer shutdown failed", "error", err)
	}

	log.Info("server stopped")
}
