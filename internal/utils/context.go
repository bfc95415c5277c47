// Package utils provides general-purpose helpers used across the application:
// identifier generation, content hashing, context keys, HTTP response
// writing and the HTTP client.
package utils

import (
	"context"
)

// contextKey is a private type for context keys, preventing collisions with
// string keys from other packages.
type contextKey string

func (c contextKey) String() string {
	return string(c)
}

// TraceIDCtxKey stores the request trace identifier set by the HTTP trace-id
// middleware.
var TraceIDCtxKey = contextKey("traceID")

// GetTraceIDFromContext returns the trace id stored under TraceIDCtxKey.
//
// Example usage:
//
//	traceID, ok := utils.GetTraceIDFromContext(ctx)
func GetTraceIDFromContext(ctx context.Context) (string, bool) {
	traceID, ok := ctx.Value(TraceIDCtxKey).(string)
	return traceID, ok && traceID != ""
}
