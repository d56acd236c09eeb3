package mcp

import (
	"context"
	"encoding/json"
	"log/slog"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/retroboard/internal/domain/identity"
)

// Dispatcher executes board operations on behalf of a caller. rpc.Handler
// satisfies it.
type Dispatcher interface {
	Handle(ctx context.Context, caller identity.Caller, method string, params json.RawMessage) (any, error)
}

// Config contains server configuration.
type Config struct {
	Dispatcher  Dispatcher
	Resolver    CallerResolver
	AuthEnabled bool
	// DevUserID is the caller used for every request when auth is disabled.
	DevUserID string
	Logger    *slog.Logger
}

// NewServer creates and configures an MCP server with all tools and middleware.
func NewServer(cfg Config) *sdkmcp.Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "retroboard",
		Version: "0.1.0",
	}, &sdkmcp.ServerOptions{
		Instructions: serverInstructions,
		Logger:       logger,
	})

	registerDocResources(server)

	// Later middleware wraps earlier middleware, so the caller is resolved
	// before traffic is logged.
	server.AddReceivingMiddleware(trafficLoggingMiddleware(logger, "inbound"))
	server.AddSendingMiddleware(trafficLoggingMiddleware(logger, "outbound"))
	if cfg.AuthEnabled {
		server.AddReceivingMiddleware(authMiddleware(cfg.Resolver))
	} else {
		server.AddReceivingMiddleware(staticCallerMiddleware(identity.User(cfg.DevUserID)))
	}

	registerTools(server, cfg.Dispatcher, logger)

	return server
}
