package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cyphex/internal/mockupstream"
	"cyphex/internal/platform/logger"
)

// main serves the fake breach providers and Messages API. Point
// XPOSEDORNOT_BASE_URL, HIBP_BASE_URL, LEAKCHECK_BASE_URL and ANTHROPIC_API_URL
// at it and set ANTHROPIC_API_KEY=mock-anthropic-key.
func main() {
	log := logger.New(os.Getenv("LOG_LEVEL"))
	addr := ":" + getEnv("PORT", "8081")

	srv := &http.Server{
		Addr:              addr,
		Handler:           mockupstream.New().Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	log.Info("starting mock upstream",
		"addr", addr,
		"magic_emails", []string{
			mockupstream.EmailBreached, mockupstream.EmailMany, mockupstream.EmailNotFound,
			mockupstream.EmailDenied, mockupstream.EmailDeniedClean, mockupstream.EmailRateLimited,
			mockupstream.EmailBroken, mockupstream.EmailGarbage,
		},
	)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("mock upstream error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("shutdown failed", "error", err)
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
