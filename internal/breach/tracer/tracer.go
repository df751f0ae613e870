// Package tracer is a small tracing abstraction for breach lookups.
//
// Callers depend on the Tracer interface rather than OpenTelemetry directly.
// OTelTracer is the production implementation; NoopTracer is for tests and
// for deployments without an exporter.
package tracer

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

// Span represents an active trace span.
type Span interface {
	// End completes the span. A non-nil err marks it failed. Call exactly once.
	End(err error)

	SetAttributes(attrs ...Attribute)

	AddEvent(name string, attrs ...Attribute)
}

// Tracer creates spans. Implementations must be safe for concurrent use.
type Tracer interface {
	// Start opens a span; the returned context carries it to child operations.
	//
	//   ctx, span := tr.Start(ctx, tracer.SpanBreachCheck,
	//       tracer.String(tracer.AttrEmailHash, tracer.HashEmail(email)),
	//   )
	//   defer span.End(nil)
	Start(ctx context.Context, name string, attrs ...Attribute) (context.Context, Span)
}

// Attribute represents a key-value pair attached to spans.
type Attribute struct {
	Key   string
	Value any
}

func String(key, value string) Attribute {
	return Attribute{Key: key, Value: value}
}

func Bool(key string, value bool) Attribute {
	return Attribute{Key: key, Value: value}
}

func Int64(key string, value int64) Attribute {
	return Attribute{Key: key, Value: value}
}

func Int(key string, value int) Attribute {
	return Attribute{Key: key, Value: int64(value)}
}

// Duration creates a duration attribute in milliseconds.
func Duration(key string, value time.Duration) Attribute {
	return Attribute{Key: key, Value: value.Milliseconds()}
}

// HashEmail returns a short SHA-256 digest of the normalized address so
// traces can be correlated without carrying the address itself.
func HashEmail(email string) string {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return ""
	}
	hash := sha256.Sum256([]byte(email))
	return hex.EncodeToString(hash[:8])
}

// Span names.
const (
	SpanBreachCheck  = "breach.check"
	SpanProviderCall = "breach.provider.call"
)

// Attribute keys.
const (
	AttrEmailHash   = "email.hash"
	AttrEmailDomain = "email.domain"
	AttrProvider    = "breach.provider"
	AttrChainIndex  = "breach.chain_index"
	AttrOutcome     = "breach.outcome"
	AttrBreachCount = "breach.count"
	AttrScore       = "breach.score"
	AttrCategory    = "provider.error_category"
	AttrStatusCode  = "http.status_code"
)

// Event names.
const (
	EventFallback = "breach.fallback"
)
