package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// RequestIDContextKey is the context key for the per-request ID.
const RequestIDContextKey = contextKey("request_id")

// RequestIDMiddleware assigns each request a UUID, honoring an incoming
// X-Request-ID header so IDs survive proxy hops.
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		ctx := context.WithValue(r.Context(), RequestIDContextKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
