package tracing

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// InjectTraceID returns a context whose logger carries a fresh trace id and
// the name of the command or route being served, so every log line emitted
// during one invocation can be correlated.
func InjectTraceID(ctx context.Context, scope string) context.Context {
	logger := log.With().
		Str("traceId", uuid.New().String()).
		Str("scope", scope).
		Logger()
	return logger.WithContext(ctx)
}

// Middleware tags each API request's context the same way CLI commands tag
// theirs.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(InjectTraceID(r.Context(), r.URL.Path)))
	})
}
