// file: internal/middleware/context.go
package middleware

import (
	"context"
	"net"
	"net/http"
	"strings"
	"time"

	"linkedout/internal/contextutils"

	"go.uber.org/zap"
)

// GetRequestID returns the correlation ID assigned by RequestID
func GetRequestID(ctx context.Context) string {
	return contextutils.GetRequestID(ctx)
}

// GetRequestLogger returns the request-scoped logger, or a no-op logger
// outside the middleware chain
func GetRequestLogger(ctx context.Context) *zap.Logger {
	return contextutils.GetLogger(ctx, nil)
}

// GetRequestStart returns when RequestID first saw the request
func GetRequestStart(ctx context.Context) time.Time {
	if start, ok := ctx.Value(RequestStartKey).(time.Time); ok {
		return start
	}
	return time.Now()
}

// getClientIP prefers proxy headers over the socket address
func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
