package middleware

import (
	"github.com/gin-gonic/gin"

	appctx "ibeer/internal/core/context"
)

const (
	HeaderRequestID = "X-Request-ID"
	HeaderTraceID   = "X-Trace-ID"
)

// Trace middleware adds request tracing context.
// Incoming IDs are propagated; missing ones are generated.
func Trace() gin.HandlerFunc {
	return func(c *gin.Context) {
		trace := appctx.NewTraceContext(c.GetHeader(HeaderTraceID), c.GetHeader(HeaderRequestID))

		ctx := appctx.WithTrace(c.Request.Context(), trace)
		c.Request = c.Request.WithContext(ctx)

		// Store in gin context for easy access
		c.Set("trace_id", trace.TraceID)
		c.Set("request_id", trace.RequestID)

		c.Header(HeaderRequestID, trace.RequestID)
		c.Header(HeaderTraceID, trace.TraceID)

		c.Next()
	}
}
