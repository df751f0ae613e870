package adapters

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"cyphex/internal/breach/models"
	"cyphex/internal/breach/providers"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

//go:generate mockgen -source=http.go -destination=mocks/mocks.go -package=mocks

// maxResponseBytes caps how much of an upstream body we read.
const maxResponseBytes = 4 << 20

// HTTPDoer is the minimal interface needed from an HTTP client.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// URLBuilder renders the lookup URL for an address. Implementations escape the email.
type URLBuilder func(baseURL, email string) string

// ResponseParser converts a 2xx body into breach records. It may return
// providers.Reported for bodies that carry their own error message.
type ResponseParser func(body []byte) ([]models.BreachRecord, error)

// HTTPAdapterConfig configures an HTTP adapter
type HTTPAdapterConfig struct {
	ID         string
	BaseURL    string
	Timeout    time.Duration
	HTTPClient HTTPDoer
	Headers    map[string]string
	BuildURL   URLBuilder
	Parser     ResponseParser
	// HealthURL is probed by Health. Defaults to BaseURL.
	HealthURL string
	Now       func() time.Time
}

// HTTPAdapter performs GET lookups against a JSON breach API and classifies
// every failure into a providers.ProviderError.
type HTTPAdapter struct {
	id        string
	baseURL   string
	healthURL string
	timeout   time.Duration
	client    HTTPDoer
	headers   map[string]string
	buildURL  URLBuilder
	parser    ResponseParser
	now       func() time.Time
}

func New(cfg HTTPAdapterConfig) *HTTPAdapter {
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.HealthURL == "" {
		cfg.HealthURL = cfg.BaseURL
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &HTTPAdapter{
		id:        cfg.ID,
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		healthURL: cfg.HealthURL,
		timeout:   cfg.Timeout,
		client:    selectHTTPClient(cfg),
		headers:   cfg.Headers,
		buildURL:  cfg.BuildURL,
		parser:    cfg.Parser,
		now:       cfg.Now,
	}
}

// NewHTTPClient returns the default outbound client: bounded by timeout and
// instrumented with OpenTelemetry.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout:   timeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}
}

func selectHTTPClient(cfg HTTPAdapterConfig) HTTPDoer {
	if cfg.HTTPClient != nil {
		return cfg.HTTPClient
	}
	return NewHTTPClient(cfg.Timeout)
}

func (a *HTTPAdapter) ID() string {
	return a.id
}

// Lookup performs one GET against the provider. It never retries.
func (a *HTTPAdapter) Lookup(ctx context.Context, email string) (*providers.Result, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.buildURL(a.baseURL, email), nil)
	if err != nil {
		return nil, providers.NewProviderError(providers.ErrorInternal, a.id, "failed to create request", err)
	}
	for k, v := range a.headers {
		req.Header.Set(k, v)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		if isTimeout(ctx, err) {
			return nil, providers.NewProviderError(providers.ErrorTimeout, a.id, "request timeout", err)
		}
		return nil, providers.NewProviderError(providers.ErrorProviderOutage, a.id, "failed to execute request", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		if isTimeout(ctx, err) {
			return nil, providers.NewProviderError(providers.ErrorTimeout, a.id, "timeout reading response", err)
		}
		return nil, providers.NewProviderError(providers.ErrorBadData, a.id, "failed to read response", err)
	}

	switch {
	case resp.StatusCode == http.StatusForbidden:
		return nil, &providers.ProviderError{
			Category: providers.ErrorAccessDenied, ProviderID: a.id,
			Message: "access denied", StatusCode: resp.StatusCode,
		}
	case resp.StatusCode == http.StatusNotFound:
		return nil, &providers.ProviderError{
			Category: providers.ErrorNotFound, ProviderID: a.id,
			Message: "record not found", StatusCode: resp.StatusCode,
		}
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, &providers.ProviderError{
			Category: providers.ErrorRateLimited, ProviderID: a.id,
			Message: "rate limit exceeded", StatusCode: resp.StatusCode,
		}
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, providers.NewStatusError(a.id, resp.StatusCode)
	}

	result := &providers.Result{ProviderID: a.id, CheckedAt: a.now()}
	if len(bytes.TrimSpace(body)) == 0 {
		return result, nil
	}

	records, err := a.parser(body)
	if err != nil {
		if pe, ok := providers.AsProviderError(err); ok {
			pe.ProviderID = a.id
			return nil, pe
		}
		return nil, providers.NewProviderError(providers.ErrorBadData, a.id, "failed to parse response", err)
	}
	for i := range records {
		records[i] = records[i].WithDefaults()
	}
	result.Breaches = records
	return result, nil
}

// Health reports the provider as down only when it is unreachable or answers 5xx.
func (a *HTTPAdapter) Health(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.healthURL, nil)
	if err != nil {
		return providers.NewProviderError(providers.ErrorInternal, a.id, "failed to create health request", err)
	}
	for k, v := range a.headers {
		req.Header.Set(k, v)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return providers.NewProviderError(providers.ErrorProviderOutage, a.id, "health check failed", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	if resp.StatusCode >= http.StatusInternalServerError {
		return providers.NewStatusError(a.id, resp.StatusCode)
	}
	return nil
}

func isTimeout(ctx context.Context, err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

var _ providers.Provider = (*HTTPAdapter)(nil)
