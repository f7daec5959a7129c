package httpapi

import (
	"net/http"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/aeturnis/aeturnis-online/internal/platform/requestctx"
	"github.com/aeturnis/aeturnis-online/internal/services/game/auth"
)

const tracerName = "github.com/aeturnis/aeturnis-online/internal/services/game/api/http"

// withAuth verifies the bearer token and stores the caller's identity in the
// request context.
func (h *Handler) withAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		claims, err := auth.VerifyToken(token, h.authConfig)
		if err != nil {
			writeError(w, h.logger, err)
			return
		}
		ctx := requestctx.WithAccountID(r.Context(), claims.AccountID)
		if claims.CharacterID != "" {
			ctx = requestctx.WithCharacterID(ctx, claims.CharacterID)
		}
		next(w, r.WithContext(ctx))
	}
}

// withTracing wraps a handler in a server span named after the route.
func withTracing(route string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := otel.Tracer(tracerName).Start(r.Context(), route,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				semconv.HTTPRequestMethodKey.String(r.Method),
				attribute.String("http.route", route),
			),
		)
		defer span.End()
		next(w, r.WithContext(ctx))
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}
