// Package requestcontext carries per-request values (request ID, scoped logger,
// client metadata) through context.Context.
package requestcontext

import (
	"context"
	"log/slog"
)

type contextKeyRequestID struct{}
type contextKeyLogger struct{}
type contextKeyClientIP struct{}
type contextKeyUserAgent struct{}
type contextKeyClient struct{}

// WithRequestID stores the request ID in the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, contextKeyRequestID{}, requestID)
}

// RequestID returns the request ID stored in the context, or "".
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(contextKeyRequestID{}).(string)
	return id
}

// WithLogger stores a request-scoped logger in the context.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, contextKeyLogger{}, logger)
}

// Logger returns the request-scoped logger. When none was attached it falls
// back to slog.Default so callers never need a nil check.
func Logger(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(contextKeyLogger{}).(*slog.Logger); ok && l != nil {
		return l
	}
	return slog.Default()
}

// WithClientMetadata stores the client IP and raw User-Agent header.
func WithClientMetadata(ctx context.Context, ip, userAgent string) context.Context {
	ctx = context.WithValue(ctx, contextKeyClientIP{}, ip)
	return context.WithValue(ctx, contextKeyUserAgent{}, userAgent)
}

// ClientIP returns the client IP stored in the context, or "".
func ClientIP(ctx context.Context) string {
	ip, _ := ctx.Value(contextKeyClientIP{}).(string)
	return ip
}

// UserAgent returns the raw User-Agent stored in the context, or "".
func UserAgent(ctx context.Context) string {
	ua, _ := ctx.Value(contextKeyUserAgent{}).(string)
	return ua
}

// WithClient stores a human-readable client description ("Chrome on Windows").
func WithClient(ctx context.Context, client string) context.Context {
	return context.WithValue(ctx, contextKeyClient{}, client)
}

// Client returns the human-readable client description, or "".
func Client(ctx context.Context) string {
	c, _ := ctx.Value(contextKeyClient{}).(string)
	return c
}
