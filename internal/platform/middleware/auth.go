package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"crossledger/pkg/domain"
)

// TokenValidator validates a bearer token and returns the caller principal.
type TokenValidator interface {
	ValidateToken(tokenString string) (domain.Principal, error)
}

type contextKeyPrincipal struct{}

// GetPrincipal retrieves the authenticated caller from the context. Returns
// the null principal when the request did not pass RequireAuth.
func GetPrincipal(ctx context.Context) domain.Principal {
	p, ok := ctx.Value(contextKeyPrincipal{}).(domain.Principal)
	if !ok {
		return domain.Zero
	}
	return p
}

// WithPrincipal injects a caller principal, for handler tests that bypass
// the middleware chain.
func WithPrincipal(ctx context.Context, p domain.Principal) context.Context {
	return context.WithValue(ctx, contextKeyPrincipal{}, p)
}

// RequireAuth rejects requests without a valid bearer token and stores the
// caller principal in the request context.
func RequireAuth(validator TokenValidator, log zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok {
				log.Warn().Str("request_id", GetRequestID(r.Context())).
					Msg("missing bearer token")
				writeUnauthorized(w)
				return
			}

			principal, err := validator.ValidateToken(token)
			if err != nil {
				log.Warn().Err(err).Str("request_id", GetRequestID(r.Context())).
					Msg("invalid bearer token")
				writeUnauthorized(w)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), principal)))
		})
	}
}

func writeUnauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": "unauthorized"})
}
