package service

import (
	"context"
	"time"
	"unicode/utf8"

	"cyphex/internal/review/language"
	"cyphex/internal/review/metrics"
	dErrors "cyphex/pkg/domain-errors"
	"cyphex/pkg/requestcontext"
)

// Completion modes, used as the metrics "mode" label.
const (
	ModeReview  = "review"
	ModeExplain = "explain"
	ModeTest    = "test"
)

// Completer is the model backend as seen by the service.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
	Configured() bool
}

// ReviewInput is a trimmed, non-empty snippet plus an optional language hint.
type ReviewInput struct {
	Code     string
	Language string
	Explain  bool
}

type ReviewResult struct {
	Review           string
	DetectedLanguage string
	CodeLength       int
	Timestamp        time.Time
}

type Detection struct {
	Language   string
	Confidence string
}

// Service builds prompts and forwards them to the model backend.
type Service struct {
	completer Completer
	metrics   *metrics.Metrics
	now       func() time.Time
}

// Option configures the Service.
type Option func(*Service)

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithClock overrides time.Now (for testing).
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func New(completer Completer, opts ...Option) *Service {
	s := &Service{
		completer: completer,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Configured reports whether the backend has credentials.
func (s *Service) Configured() bool {
	return s.completer.Configured()
}

// Review sends the snippet for review, or for explanation when in.Explain is
// set. An explicit language skips detection.
func (s *Service) Review(ctx context.Context, in ReviewInput) (*ReviewResult, error) {
	if !s.Configured() {
		return nil, notConfigured()
	}

	lang := in.Language
	if lang == "" {
		lang = s.DetectLanguage(in.Code).Language
	}

	mode, prompt := ModeReview, reviewPrompt(in.Code, lang)
	if in.Explain {
		mode, prompt = ModeExplain, explainPrompt(in.Code, lang)
	}

	text, err := s.complete(ctx, mode, prompt)
	if err != nil {
		return nil, err
	}

	length := utf8.RuneCountInString(in.Code)
	requestcontext.Logger(ctx).InfoContext(ctx, "code review completed",
		"mode", mode,
		"language", lang,
		"code_length", length,
	)
	return &ReviewResult{
		Review:           text,
		DetectedLanguage: lang,
		CodeLength:       length,
		Timestamp:        s.now().UTC(),
	}, nil
}

func (s *Service) DetectLanguage(code string) Detection {
	lang := language.Detect(code)
	s.metrics.RecordDetection(lang)
	return Detection{Language: lang, Confidence: language.Confidence(lang)}
}

func (s *Service) Languages() []string {
	return language.Supported()
}

// TestConnection round-trips a fixed prompt through the backend.
func (s *Service) TestConnection(ctx context.Context) (string, error) {
	if !s.Configured() {
		return "", notConfigured()
	}
	return s.complete(ctx, ModeTest, TestPrompt)
}

func (s *Service) complete(ctx context.Context, mode, prompt string) (string, error) {
	start := time.Now()
	text, err := s.completer.Complete(ctx, prompt)
	elapsed := time.Since(start).Seconds()
	if err != nil {
		s.metrics.ObserveCompletion(mode, "error", elapsed)
		requestcontext.Logger(ctx).WarnContext(ctx, "model completion failed",
			"mode", mode,
			"error", err,
		)
		return "", dErrors.Wrap(err, dErrors.CodeUpstreamError, "Claude API error: "+err.Error())
	}
	s.metrics.ObserveCompletion(mode, "ok", elapsed)
	return text, nil
}

func notConfigured() error {
	return dErrors.New(dErrors.CodeNotConfigured, "Anthropic API key not configured")
}

// IsNotConfigured reports whether err means the backend has no credentials.
func IsNotConfigured(err error) bool {
	return dErrors.HasCode(err, dErrors.CodeNotConfigured)
}
