// Package context provides request-scoped values extraction.
package context

import (
	"context"

	"github.com/google/uuid"
)

// TraceContext contains request tracing information.
type TraceContext struct {
	TraceID   string
	SpanID    string
	RequestID string
}

type traceContextKey struct{}

// WithTrace adds TraceContext to context.
func WithTrace(ctx context.Context, trace *TraceContext) context.Context {
	return context.WithValue(ctx, traceContextKey{}, trace)
}

// GetTrace returns TraceContext from context.
func GetTrace(ctx context.Context) *TraceContext {
	if v, ok := ctx.Value(traceContextKey{}).(*TraceContext); ok {
		return v
	}
	return nil
}

// GetRequestID returns request ID from context or empty string.
func GetRequestID(ctx context.Context) string {
	if t := GetTrace(ctx); t != nil {
		return t.RequestID
	}
	return ""
}

// NewTraceContext creates a TraceContext, reusing the given IDs when non-empty.
func NewTraceContext(traceID, requestID string) *TraceContext {
	if traceID == "" {
		traceID = uuid.New().String()
	}
	if requestID == "" {
		requestID = uuid.New().String()
	}
	return &TraceContext{
		TraceID:   traceID,
		SpanID:    uuid.New().String()[:16],
		RequestID: requestID,
	}
}
