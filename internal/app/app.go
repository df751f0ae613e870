// Package app assembles the breach and review features into one HTTP handler.
package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	breachhandler "cyphex/internal/breach/handler"
	breachmetrics "cyphex/internal/breach/metrics"
	"cyphex/internal/breach/orchestrator"
	"cyphex/internal/breach/providers/adapters"
	"cyphex/internal/breach/providers/catalog"
	breachservice "cyphex/internal/breach/service"
	"cyphex/internal/breach/tracer"
	"cyphex/internal/platform/config"
	"cyphex/internal/platform/health"
	"cyphex/internal/review/client"
	reviewhandler "cyphex/internal/review/handler"
	reviewmetrics "cyphex/internal/review/metrics"
	reviewservice "cyphex/internal/review/service"
	httptransport "cyphex/internal/transport/http"
	request "cyphex/pkg/platform/middleware/request"
	"cyphex/pkg/platform/middleware/security"
	"cyphex/web"
)

// App is the wired application.
type App struct {
	Handler      http.Handler
	Orchestrator *orchestrator.Orchestrator
	Registry     *prometheus.Registry
}

type options struct {
	providerClient adapters.HTTPDoer
	reviewClient   client.HTTPDoer
	tracer         tracer.Tracer
	registry       *prometheus.Registry
	static         fs.FS
}

// Option customizes New.
type Option func(*options)

// WithProviderClient replaces the outbound client used by every breach provider.
func WithProviderClient(c adapters.HTTPDoer) Option {
	return func(o *options) {
		o.providerClient = c
	}
}

// WithReviewClient replaces the outbound client used for model completions.
func WithReviewClient(c client.HTTPDoer) Option {
	return func(o *options) {
		o.reviewClient = c
	}
}

func WithTracer(t tracer.Tracer) Option {
	return func(o *options) {
		o.tracer = t
	}
}

// WithRegistry collects metrics into reg instead of a fresh registry.
func WithRegistry(reg *prometheus.Registry) Option {
	return func(o *options) {
		o.registry = reg
	}
}

// WithStatic serves the SPA from fsys instead of STATIC_DIR or the embedded shell.
func WithStatic(fsys fs.FS) Option {
	return func(o *options) {
		o.static = fsys
	}
}

// New builds the provider chain, services, health checks and router from cfg.
func New(cfg config.Config, logger *slog.Logger, opts ...Option) (*App, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.tracer == nil {
		o.tracer = tracer.NewOTel()
	}
	if o.registry == nil {
		o.registry = prometheus.NewRegistry()
		o.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	if o.static == nil {
		static, err := staticRoot(cfg.Server.StaticDir)
		if err != nil {
			return nil, err
		}
		o.static = static
	}

	chain, err := catalog.Chain(cfg.Breach, o.providerClient)
	if err != nil {
		return nil, fmt.Errorf("build provider chain: %w", err)
	}
	bm := breachmetrics.New(o.registry)
	orch, err := orchestrator.New(orchestrator.Config{
		Chain:   chain,
		Tracer:  o.tracer,
		Metrics: bm,
	})
	if err != nil {
		return nil, fmt.Errorf("build orchestrator: %w", err)
	}
	breachSvc := breachservice.New(orch,
		breachservice.WithFailureMode(cfg.Breach.FailureMode),
		breachservice.WithTracer(o.tracer),
		breachservice.WithMetrics(bm),
		breachservice.WithLogger(logger),
	)

	var clientOpts []client.Option
	if o.reviewClient != nil {
		clientOpts = append(clientOpts, client.WithHTTPClient(o.reviewClient))
	}
	reviewSvc := reviewservice.New(client.New(cfg.Review, clientOpts...),
		reviewservice.WithMetrics(reviewmetrics.New(o.registry)),
	)

	healthHandler := health.New(cfg.Server.Environment)
	healthHandler.RegisterCheck("breach_providers", providerCheck(orch))

	router := httptransport.NewRouter(httptransport.Config{
		RequestTimeout: cfg.Server.RequestTimeout,
		MaxBodyBytes:   cfg.Server.MaxBodyBytes,
		CORSOrigins:    security.ParseOrigins(cfg.Server.CORSOrigins),
		TrustedProxies: cfg.Server.TrustedProxies,
	}, httptransport.Deps{
		Logger:   logger,
		Metrics:  request.NewMetrics(o.registry),
		Gatherer: o.registry,
		Static:   o.static,
		APIs: []httptransport.API{
			{Routes: healthHandler},
			{Routes: breachhandler.New(breachSvc)},
			{Routes: reviewhandler.New(reviewSvc), Timeout: ReviewRequestTimeout(cfg)},
		},
	})

	logger.Info("application wired",
		"providers", orch.ChainIDs(),
		"failure_mode", cfg.Breach.FailureMode,
		"review_configured", reviewSvc.Configured(),
	)
	return &App{Handler: router, Orchestrator: orch, Registry: o.registry}, nil
}

// ReviewRequestTimeout leaves room for a model call that uses its full
// REVIEW_TIMEOUT budget.
func ReviewRequestTimeout(cfg config.Config) time.Duration {
	return max(cfg.Server.RequestTimeout, cfg.Review.Timeout+5*time.Second)
}

// providerCheck is ready while at least one provider in the chain answers.
func providerCheck(orch *orchestrator.Orchestrator) health.CheckFunc {
	return func(ctx context.Context) error {
		results, err := orch.HealthCheck(ctx)
		if err != nil {
			return err
		}
		var errs []error
		for _, id := range orch.ChainIDs() {
			if err := results[id]; err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", id, err))
			}
		}
		if len(errs) == len(results) {
			return errors.Join(errs...)
		}
		return nil
	}
}

func staticRoot(dir string) (fs.FS, error) {
	if dir == "" {
		return web.FS, nil
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("STATIC_DIR: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("STATIC_DIR %s is not a directory", dir)
	}
	return os.DirFS(dir), nil
}
