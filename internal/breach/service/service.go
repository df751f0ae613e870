package service

import (
	"context"
	"log/slog"

	"cyphex/internal/breach/metrics"
	"cyphex/internal/breach/models"
	"cyphex/internal/breach/score"
	"cyphex/internal/breach/tracer"
	"cyphex/internal/platform/config"
	"cyphex/internal/platform/privacy"
	dErrors "cyphex/pkg/domain-errors"
	"cyphex/pkg/requestcontext"
)

// Lookuper is the orchestrator as seen by the service.
type Lookuper interface {
	Lookup(ctx context.Context, email string) models.LookupResult
}

// Service turns an address into a breach report. It holds no per-request state.
type Service struct {
	lookup      Lookuper
	failureMode string
	tracer      tracer.Tracer
	metrics     *metrics.Metrics
	logger      *slog.Logger
}

// Option configures the Service.
type Option func(*Service)

// WithFailureMode selects how upstream failures reach the client:
// config.FailureModeError (500) or config.FailureModeSoft (200, score 0).
func WithFailureMode(mode string) Option {
	return func(s *Service) {
		s.failureMode = mode
	}
}

func WithTracer(t tracer.Tracer) Option {
	return func(s *Service) {
		s.tracer = t
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithLogger sets the fallback logger used when the context carries none.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func New(lookup Lookuper, opts ...Option) *Service {
	s := &Service{
		lookup:      lookup,
		failureMode: config.FailureModeError,
		tracer:      tracer.NewNoop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Check looks the address up and normalizes the verdict. In error mode an
// upstream failure is returned as CodeUpstreamUnavailable; in soft mode it
// becomes a zero-score report carrying the failure message.
func (s *Service) Check(ctx context.Context, email string) (report *models.Report, err error) {
	ctx, span := s.tracer.Start(ctx, tracer.SpanBreachCheck,
		tracer.String(tracer.AttrEmailHash, tracer.HashEmail(email)),
		tracer.String(tracer.AttrEmailDomain, privacy.EmailDomain(email)),
	)
	defer func() { span.End(err) }()

	log := s.log(ctx).With(
		"email", privacy.RedactEmail(email),
		"email_domain", privacy.EmailDomain(email),
	)

	result := s.lookup.Lookup(ctx, email)
	s.metrics.RecordLookup(result.Provider, string(result.Outcome))
	span.SetAttributes(
		tracer.String(tracer.AttrProvider, result.Provider),
		tracer.String(tracer.AttrOutcome, string(result.Outcome)),
		tracer.Int(tracer.AttrBreachCount, len(result.Breaches)),
	)

	normalized, err := score.Normalize(result)
	if err != nil {
		if s.failureMode == config.FailureModeSoft && dErrors.HasCode(err, dErrors.CodeUpstreamUnavailable) {
			log.WarnContext(ctx, "breach lookup failed, answering with soft report",
				"provider", result.Provider,
				"reason", result.Message,
			)
			soft := score.Soft(result.Message)
			s.metrics.ObserveScore(soft.BreachScore)
			return &soft, nil
		}
		log.ErrorContext(ctx, "breach lookup failed",
			"provider", result.Provider,
			"reason", result.Message,
		)
		return nil, err
	}

	s.metrics.ObserveScore(normalized.BreachScore)
	span.SetAttributes(tracer.Int(tracer.AttrScore, normalized.BreachScore))
	log.InfoContext(ctx, "breach lookup completed",
		"provider", result.Provider,
		"outcome", string(result.Outcome),
		"breaches", len(result.Breaches),
		"score", normalized.BreachScore,
	)
	return &normalized, nil
}

func (s *Service) log(ctx context.Context) *slog.Logger {
	if s.logger != nil && requestcontext.RequestID(ctx) == "" {
		return s.logger
	}
	return requestcontext.Logger(ctx)
}
