package middleware

import (
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/helixml/hackai-log/internal/log"
)

// CorrelationIDHeader carries the correlation ID on requests and responses.
const CorrelationIDHeader = "X-Correlation-ID"

// CorrelationID stores the caller's correlation ID, or chi's request ID when
// none was sent, in the request context so every log line carries it.
func CorrelationID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := middleware.GetReqID(r.Context())
		correlationID := r.Header.Get(CorrelationIDHeader)
		if correlationID == "" {
			correlationID = requestID
		}

		w.Header().Set(CorrelationIDHeader, correlationID)

		ctx := log.WithRequestID(r.Context(), requestID)
		ctx = log.WithCorrelationID(ctx, correlationID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
