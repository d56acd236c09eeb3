package transport

import (
	"context"
	"net/http"
	"strings"

	"github.com/rpggio/retroboard/internal/domain/identity"
)

// Resolver resolves a caller from a bearer token.
type Resolver interface {
	ResolveToken(ctx context.Context, token string) (identity.Caller, error)
}

// IdentityMiddleware resolves the caller once per request. Requests without a
// token proceed as the anonymous caller; an unresolvable token is rejected.
// Websocket clients pass the token as the token query parameter.
func IdentityMiddleware(resolver Resolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				next.ServeHTTP(w, r.WithContext(identity.WithCaller(r.Context(), identity.Anonymous())))
				return
			}

			caller, err := resolver.ResolveToken(r.Context(), token)
			if err != nil || !caller.Authenticated() {
				http.Error(w, "invalid bearer token", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(identity.WithCaller(r.Context(), caller)))
		})
	}
}

// StaticIdentity attaches a fixed caller to every request.
func StaticIdentity(caller identity.Caller) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(identity.WithCaller(r.Context(), caller)))
		})
	}
}

func bearerToken(r *http.Request) string {
	if auth := r.Header.Get("Authorization"); auth != "" {
		return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
	}
	return strings.TrimSpace(r.URL.Query().Get("token"))
}
