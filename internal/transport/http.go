package transport

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rpggio/retroboard/internal/domain/identity"
	"github.com/rpggio/retroboard/internal/domain/user"
)

// RPCHandler handles JSON-RPC method dispatch.
type RPCHandler interface {
	Handle(ctx context.Context, caller identity.Caller, method string, params json.RawMessage) (any, error)
}

// Registrar creates users for development setups.
type Registrar interface {
	Register(ctx context.Context, req user.RegisterRequest) (*user.Registration, error)
}

// Config wires the HTTP surface.
type Config struct {
	RPC       RPCHandler
	Registrar Registrar
	// Realtime serves websocket subscriptions at /ws/boards/{boardID}.
	Realtime http.Handler
	// MCP serves the Model Context Protocol endpoint when set.
	MCP      http.Handler
	Identity func(http.Handler) http.Handler
	Logger   *slog.Logger
}

// Server wires HTTP handlers.
type Server struct {
	rpc       RPCHandler
	registrar Registrar
	logger    *slog.Logger
}

// NewServer creates an HTTP server router with middleware.
func NewServer(cfg Config) *chi.Mux {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	r := chi.NewRouter()
	srv := &Server{rpc: cfg.RPC, registrar: cfg.Registrar, logger: logger}

	r.Get("/health", srv.handleHealth)
	if cfg.Registrar != nil {
		r.Post("/api/users", srv.handleRegister)
	}
	if cfg.MCP != nil {
		r.Handle("/mcp", cfg.MCP)
	}

	r.Group(func(r chi.Router) {
		if cfg.Identity != nil {
			r.Use(cfg.Identity)
		}
		r.Post("/rpc", srv.handleRPC)
		if cfg.Realtime != nil {
			r.Get("/ws/boards/{boardID}", cfg.Realtime.ServeHTTP)
		}
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleRPC(w http.ResponseWriter, r *http.Request) {
	req, err := ParseRequest(r.Body)
	if err != nil {
		code := ErrInvalidReq
		var perr *ParseError
		if errors.As(err, &perr) {
			code = perr.Code
		}
		WriteError(w, nil, code, err.Error(), nil)
		return
	}

	caller := identity.FromContext(r.Context())
	s.logger.Debug("rpc call", "method", req.Method, "user_id", caller.UserID)

	result, err := s.rpc.Handle(r.Context(), caller, req.Method, req.Params)
	if err != nil {
		var coded CodedError
		if errors.As(err, &coded) {
			WriteError(w, req.ID, coded.RPCCode(), coded.Error(), coded.Data())
			return
		}
		s.logger.Error("rpc call failed", "method", req.Method, "user_id", caller.UserID, "error", err)
		WriteError(w, req.ID, ErrInternal, "internal error", nil)
		return
	}

	WriteResult(w, req.ID, result)
}

type registerBody struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var body registerBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	reg, err := s.registrar.Register(r.Context(), user.RegisterRequest{Name: body.Name, Email: body.Email})
	if err != nil {
		if errors.Is(err, user.ErrInvalidInput) {
			http.Error(w, "name is required", http.StatusBadRequest)
			return
		}
		s.logger.Error("registration failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, reg)
}
