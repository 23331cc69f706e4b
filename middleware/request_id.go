package middleware

import (
	"net/http"

	"github.com/google/uuid"
)

// requestIDHeader carries the request ID between clients and the gateway.
// Inbound values are reused so callers can correlate their own traces.
const requestIDHeader = "X-Request-ID"

// RequestID is a middleware that assigns every request an ID. The ID is
// stored in the request context and echoed on the response header.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(requestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}

		ctx := WithRequestID(r.Context(), requestID)
		w.Header().Set(requestIDHeader, requestID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
