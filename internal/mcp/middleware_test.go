package mcp

import (
	"context"
	"errors"
	"net/http"
	"testing"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/retroboard/internal/domain/identity"
	"github.com/stretchr/testify/require"
)

type resolverStub map[string]string

func (r resolverStub) ResolveToken(_ context.Context, token string) (identity.Caller, error) {
	userID, ok := r[token]
	if !ok {
		return identity.Anonymous(), errors.New("bad token")
	}
	return identity.User(userID), nil
}

func requestWithAuth(value string) *sdkmcp.CallToolRequest {
	header := http.Header{}
	if value != "" {
		header.Set("Authorization", value)
	}
	return &sdkmcp.CallToolRequest{Extra: &sdkmcp.RequestExtra{Header: header}}
}

func TestAuthMiddleware(t *testing.T) {
	var seen identity.Caller
	next := func(ctx context.Context, _ string, _ sdkmcp.Request) (sdkmcp.Result, error) {
		seen = identity.FromContext(ctx)
		return nil, nil
	}
	handler := authMiddleware(resolverStub{"tok": "u1"})(next)
	ctx := context.Background()

	_, err := handler(ctx, "tools/call", requestWithAuth("Bearer tok"))
	require.NoError(t, err)
	require.Equal(t, identity.User("u1"), seen)

	_, err = handler(ctx, "tools/call", requestWithAuth("Bearer nope"))
	require.ErrorIs(t, err, errUnauthorized)

	_, err = handler(ctx, "tools/call", requestWithAuth(""))
	require.ErrorIs(t, err, errUnauthorized)

	seen = identity.Caller{}
	_, err = handler(ctx, "ping", requestWithAuth(""))
	require.NoError(t, err)
	require.False(t, seen.Authenticated())
}
