package logtrace

import (
	"context"

	"github.com/rs/zerolog"
)

type requestIdContextKey string

const requestIdKey = requestIdContextKey("requestId")

// WithRequestId returns a copy of ctx carrying the request ID.
func WithRequestId(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIdKey, id)
}

// RequestIdFromContext returns the request ID stored in ctx, or "".
func RequestIdFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	r, ok := ctx.Value(requestIdKey).(string)
	if !ok {
		return ""
	}
	return r
}

// IsTraceEnabled reports whether route tracing is enabled.
func IsTraceEnabled() bool {
	return zerolog.GlobalLevel() <= zerolog.TraceLevel
}
