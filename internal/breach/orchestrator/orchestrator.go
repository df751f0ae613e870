// Package orchestrator walks the configured provider chain for one address
// and reduces the answers to a single models.LookupResult.
package orchestrator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"cyphex/internal/breach/metrics"
	"cyphex/internal/breach/models"
	"cyphex/internal/breach/providers"
	"cyphex/internal/breach/tracer"
	"cyphex/pkg/requestcontext"
)

// Config configures the orchestrator.
type Config struct {
	// Chain is the lookup order. The first provider is the primary; the rest
	// are only consulted after an access denial.
	Chain   []providers.Provider
	Tracer  tracer.Tracer
	Metrics *metrics.Metrics
}

// Orchestrator coordinates the provider fallback chain. Safe for concurrent use.
type Orchestrator struct {
	chain   []providers.Provider
	tracer  tracer.Tracer
	metrics *metrics.Metrics
}

// New validates the chain: it must be non-empty and must not name a provider twice.
func New(cfg Config) (*Orchestrator, error) {
	if len(cfg.Chain) == 0 {
		return nil, providers.ErrEmptyChain
	}
	seen := make(map[string]bool, len(cfg.Chain))
	for _, p := range cfg.Chain {
		if seen[p.ID()] {
			return nil, fmt.Errorf("provider %s appears twice in chain", p.ID())
		}
		seen[p.ID()] = true
	}
	if cfg.Tracer == nil {
		cfg.Tracer = tracer.NewNoop()
	}
	return &Orchestrator{
		chain:   append([]providers.Provider(nil), cfg.Chain...),
		tracer:  cfg.Tracer,
		metrics: cfg.Metrics,
	}, nil
}

// ChainIDs lists the provider IDs in lookup order.
func (o *Orchestrator) ChainIDs() []string {
	ids := make([]string, len(o.chain))
	for i, p := range o.chain {
		ids[i] = p.ID()
	}
	return ids
}

// Lookup queries the primary provider and, only on access denial, each
// following provider once. It never returns an error: every failure is
// folded into an OutcomeError result with a user-facing message.
//
// Primary answers map as: breaches → Found, nothing/404 → Clean,
// 429 → RateLimited, anything else → Error. A fallback provider either finds
// breaches or the lookup fails with the access-denied message, since the
// primary already refused to answer.
func (o *Orchestrator) Lookup(ctx context.Context, email string) models.LookupResult {
	log := requestcontext.Logger(ctx)

	for i, p := range o.chain {
		res, err := o.call(ctx, i, p, email)
		primary := i == 0

		if err == nil {
			if len(res.Breaches) > 0 {
				return models.Found(p.ID(), res.Breaches)
			}
			if primary {
				return models.Clean(p.ID())
			}
			return models.Failed(p.ID(), models.MsgAccessDenied)
		}

		if providers.GetCategory(err) == providers.ErrorAccessDenied {
			if next := i + 1; next < len(o.chain) {
				log.WarnContext(ctx, "breach provider denied access, falling back",
					"provider", p.ID(),
					"next_provider", o.chain[next].ID(),
				)
				o.metrics.RecordFallback(p.ID(), o.chain[next].ID())
				continue
			}
			return models.Failed(p.ID(), models.MsgAccessDenied)
		}

		if !primary {
			log.WarnContext(ctx, "fallback breach provider failed", "provider", p.ID(), "error", err)
			return models.Failed(p.ID(), models.MsgAccessDenied)
		}
		return primaryFailure(p.ID(), err)
	}

	// Unreachable with a non-empty chain.
	return models.Failed("", models.MsgAccessDenied)
}

// primaryFailure maps a non-denial primary error to its verdict.
func primaryFailure(providerID string, err error) models.LookupResult {
	pe, ok := providers.AsProviderError(err)
	if !ok {
		return models.Failed(providerID, models.MsgUnreachable)
	}
	switch pe.Category {
	case providers.ErrorNotFound:
		return models.Clean(providerID)
	case providers.ErrorRateLimited:
		return models.RateLimited(providerID)
	case providers.ErrorTimeout:
		return models.Failed(providerID, models.MsgTimeout)
	case providers.ErrorUpstream:
		return models.Failed(providerID, models.APIErrorMessage(pe.StatusCode))
	case providers.ErrorReported:
		return models.Failed(providerID, pe.Message)
	case providers.ErrorBadData:
		return models.Failed(providerID, models.MsgInvalidPayload)
	default:
		return models.Failed(providerID, models.MsgUnreachable)
	}
}

func (o *Orchestrator) call(ctx context.Context, index int, p providers.Provider, email string) (*providers.Result, error) {
	ctx, span := o.tracer.Start(ctx, tracer.SpanProviderCall,
		tracer.String(tracer.AttrProvider, p.ID()),
		tracer.Int(tracer.AttrChainIndex, index),
	)
	if index > 0 {
		span.AddEvent(tracer.EventFallback)
	}

	start := time.Now()
	res, err := p.Lookup(ctx, email)
	elapsed := time.Since(start)

	result := "ok"
	if err != nil {
		result = string(providers.GetCategory(err))
		span.SetAttributes(tracer.String(tracer.AttrCategory, result))
		if pe, ok := providers.AsProviderError(err); ok && pe.StatusCode != 0 {
			span.SetAttributes(tracer.Int(tracer.AttrStatusCode, pe.StatusCode))
		}
	} else {
		span.SetAttributes(tracer.Int(tracer.AttrBreachCount, len(res.Breaches)))
	}
	o.metrics.ObserveProviderCall(p.ID(), result, elapsed.Seconds())
	span.End(err)

	requestcontext.Logger(ctx).DebugContext(ctx, "breach provider call",
		"provider", p.ID(),
		"result", result,
		"duration_ms", elapsed.Milliseconds(),
	)
	return res, err
}

// HealthCheck probes every provider in the chain concurrently and returns
// the error (nil when healthy) per provider ID. A provider failure is a
// result, not a fan-out error; only the end of ctx stops the remaining
// probes, and then the partial results come back with ctx's error.
func (o *Orchestrator) HealthCheck(ctx context.Context) (map[string]error, error) {
	results := make(map[string]error, len(o.chain))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	for _, p := range o.chain {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			err := p.Health(gctx)
			mu.Lock()
			results[p.ID()] = err
			mu.Unlock()
			return ctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return results, fmt.Errorf("provider health check: %w", err)
	}
	return results, nil
}
