package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/retroboard/internal/domain/identity"
)

// CallerResolver resolves the caller behind a bearer token.
type CallerResolver interface {
	ResolveToken(ctx context.Context, token string) (identity.Caller, error)
}

var errUnauthorized = errors.New("unauthorized")

// authMiddleware implements bearer token authentication as MCP middleware.
func authMiddleware(resolver CallerResolver) sdkmcp.Middleware {
	return func(next sdkmcp.MethodHandler) sdkmcp.MethodHandler {
		return func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
			// Skip auth for protocol methods
			if method == "initialize" || method == "ping" || strings.HasPrefix(method, "notifications/") {
				return next(ctx, method, req)
			}

			extra := req.GetExtra()
			if extra == nil || extra.Header == nil {
				return nil, fmt.Errorf("%w: missing headers", errUnauthorized)
			}

			auth := extra.Header.Get("Authorization")
			token := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
			if token == "" {
				return nil, fmt.Errorf("%w: missing bearer token", errUnauthorized)
			}

			caller, err := resolver.ResolveToken(ctx, token)
			if err != nil {
				return nil, fmt.Errorf("%w: %w", errUnauthorized, err)
			}
			if !caller.Authenticated() {
				return nil, fmt.Errorf("%w: invalid bearer token", errUnauthorized)
			}

			return next(identity.WithCaller(ctx, caller), method, req)
		}
	}
}

// staticCallerMiddleware injects a fixed caller when auth is disabled.
func staticCallerMiddleware(caller identity.Caller) sdkmcp.Middleware {
	return func(next sdkmcp.MethodHandler) sdkmcp.MethodHandler {
		return func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
			return next(identity.WithCaller(ctx, caller), method, req)
		}
	}
}
