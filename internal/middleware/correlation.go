package middleware

import (
	"context"
	"net/http"

	"github.com/plenario-app/go-chat-gateway/internal/logger"
	"github.com/plenario-app/go-chat-gateway/internal/utils"
)

// RequestCorrelationMiddleware attaches request and correlation IDs to the
// request context and echoes them back in the response headers. A
// client-provided ID wins over a generated one so the dashboard can stitch
// its own traces together.
func RequestCorrelationMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(utils.HeaderRequestID)
		if requestID == "" {
			requestID = utils.GenerateRequestID()
		}

		correlationID := r.Header.Get(utils.HeaderCorrelationID)
		if correlationID == "" {
			correlationID = utils.GenerateCorrelationID()
		}

		w.Header().Set(utils.HeaderRequestID, requestID)
		w.Header().Set(utils.HeaderCorrelationID, correlationID)

		ctx := context.WithValue(r.Context(), logger.RequestIDKey, requestID)
		ctx = context.WithValue(ctx, logger.CorrelationIDKey, correlationID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequestIDFromContext returns the request ID set by the correlation
// middleware, or an empty string.
func RequestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(logger.RequestIDKey).(string); ok {
		return id
	}
	return ""
}
