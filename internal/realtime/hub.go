// Package realtime pushes re-derived board views to websocket subscribers.
package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/rpggio/retroboard/internal/domain/board"
	"github.com/rpggio/retroboard/internal/domain/confetti"
	"github.com/rpggio/retroboard/internal/domain/identity"
	"github.com/rpggio/retroboard/internal/domain/participant"
	"github.com/rpggio/retroboard/internal/domain/snapshot"
	"github.com/rpggio/retroboard/internal/feed"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingInterval   = 54 * time.Second
	maxMessageSize = 4096
)

// SnapshotService composes the board view.
type SnapshotService interface {
	Get(ctx context.Context, caller identity.Caller, boardID string) (*snapshot.BoardDetail, error)
}

// PresenceService tracks the connected participant.
type PresenceService interface {
	Join(ctx context.Context, caller identity.Caller, boardID string) error
	Heartbeat(ctx context.Context, caller identity.Caller, boardID string) error
	Leave(ctx context.Context, caller identity.Caller, boardID string) error
	UpdateCursor(ctx context.Context, caller identity.Caller, boardID string, c participant.Cursor) error
	GetCursorPositions(ctx context.Context, caller identity.Caller, boardID string) ([]participant.CursorState, error)
}

// ConfettiService lists recent bursts.
type ConfettiService interface {
	Recent(ctx context.Context, boardID string) ([]confetti.Event, error)
}

// Subscriber opens per-board change subscriptions.
type Subscriber interface {
	Subscribe(ctx context.Context, boardID string) (<-chan feed.Change, func())
}

// Config wires a Hub.
type Config struct {
	Snapshots SnapshotService
	Presence  PresenceService
	Confetti  ConfettiService
	Feed      Subscriber
	Logger    *slog.Logger
	// CheckOrigin overrides the default same-origin policy of the upgrader.
	CheckOrigin func(r *http.Request) bool
}

// Hub serves board subscriptions over websockets.
type Hub struct {
	snapshots SnapshotService
	presence  PresenceService
	confetti  ConfettiService
	feed      Subscriber
	logger    *slog.Logger
	upgrader  websocket.Upgrader
}

// NewHub creates a websocket hub.
func NewHub(cfg Config) *Hub {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Hub{
		snapshots: cfg.Snapshots,
		presence:  cfg.Presence,
		confetti:  cfg.Confetti,
		feed:      cfg.Feed,
		logger:    logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     cfg.CheckOrigin,
		},
	}
}

// ServeHTTP upgrades the request and streams the board until either side
// closes. The caller must already be on the request context.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	boardID := chi.URLParam(r, "boardID")
	caller := identity.FromContext(r.Context())
	if !caller.Authenticated() {
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return
	}

	if err := h.presence.Join(r.Context(), caller, boardID); err != nil {
		if errors.Is(err, board.ErrBoardNotFound) {
			http.Error(w, "board not found", http.StatusNotFound)
			return
		}
		h.logger.Error("websocket join failed", "board_id", boardID, "user_id", caller.UserID, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "board_id", boardID, "error", err)
		return
	}

	ctx, cancel := context.WithCancel(r.Context())
	changes, unsubscribe := h.feed.Subscribe(ctx, boardID)

	c := &client{
		hub:     h,
		ws:      ws,
		caller:  caller,
		boardID: boardID,
		leave:   make(chan struct{}),
	}
	h.logger.Info("websocket connected", "board_id", boardID, "user_id", caller.UserID)

	done := make(chan struct{})
	go func() {
		defer close(done)
		c.writePump(ctx, changes)
		// Unblock readPump if the peer never answers our close frame.
		_ = ws.NetConn().SetReadDeadline(time.Now().Add(writeWait))
	}()

	c.readPump(ctx)

	cancel()
	unsubscribe()
	<-done
	_ = ws.Close()

	if err := h.presence.Leave(context.WithoutCancel(r.Context()), caller, boardID); err != nil {
		h.logger.Warn("websocket leave failed", "board_id", boardID, "user_id", caller.UserID, "error", err)
	}
	h.logger.Info("websocket disconnected", "board_id", boardID, "user_id", caller.UserID)
}

type client struct {
	hub     *Hub
	ws      *websocket.Conn
	caller  identity.Caller
	boardID string
	// closed by readPump when the client sends leave
	leave chan struct{}
	// last accepted cursor update, owned by readPump
	lastCursor time.Time
}

func (c *client) readPump(ctx context.Context) {
	c.ws.SetReadLimit(maxMessageSize)
	_ = c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, payload, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseNoStatusReceived) {
				c.hub.logger.Debug("websocket read failed", "board_id", c.boardID, "error", err)
			}
			return
		}

		var msg ClientMessage
		if err := json.Unmarshal(payload, &msg); err != nil {
			c.hub.logger.Debug("invalid websocket message", "board_id", c.boardID, "error", err)
			continue
		}
		if !c.handle(ctx, msg) {
			close(c.leave)
			return
		}
	}
}

// handle applies one client message. It returns false when the client left.
func (c *client) handle(ctx context.Context, msg ClientMessage) bool {
	var err error
	switch msg.Type {
	case MessageHeartbeat:
		err = c.hub.presence.Heartbeat(ctx, c.caller, c.boardID)
	case MessageCursor:
		if msg.Cursor == nil {
			return true
		}
		now := time.Now()
		if now.Sub(c.lastCursor) < participant.CursorThrottle {
			return true
		}
		c.lastCursor = now
		err = c.hub.presence.UpdateCursor(ctx, c.caller, c.boardID, *msg.Cursor)
	case MessageLeave:
		return false
	default:
		c.hub.logger.Debug("unknown websocket message", "board_id", c.boardID, "type", msg.Type)
	}
	if err != nil && ctx.Err() == nil {
		c.hub.logger.Warn("websocket message failed", "board_id", c.boardID, "type", msg.Type, "error", err)
	}
	return true
}

func (c *client) writePump(ctx context.Context, changes <-chan feed.Change) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for _, typ := range []string{FrameBoard, FrameCursors, FrameConfetti} {
		if !c.push(ctx, typ) {
			return
		}
	}

	for {
		select {
		case <-ctx.Done():
			c.closeWith(websocket.CloseNormalClosure, "")
			return
		case <-c.leave:
			c.closeWith(websocket.CloseNormalClosure, "left")
			return
		case change, ok := <-changes:
			if !ok {
				c.closeWith(websocket.CloseGoingAway, "feed closed")
				return
			}
			typ, own := frameFor(change)
			if own && change.ActorID == c.caller.UserID {
				continue
			}
			if typ == FrameDeleted {
				_ = c.write(FrameDeleted, deletedData{BoardID: c.boardID})
				c.closeWith(websocket.CloseNormalClosure, "board deleted")
				return
			}
			if !c.push(ctx, typ) {
				return
			}
		case <-ticker.C:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// frameFor maps a change to the frame it invalidates. own reports whether
// the change's author has nothing new to see.
func frameFor(change feed.Change) (typ string, own bool) {
	switch change.Kind {
	case feed.KindCursors:
		return FrameCursors, true
	case feed.KindConfetti:
		return FrameConfetti, true
	case feed.KindDeleted:
		return FrameDeleted, false
	default:
		return FrameBoard, false
	}
}

// push re-derives the view for typ and writes it. It returns false once the
// connection is unusable.
func (c *client) push(ctx context.Context, typ string) bool {
	var (
		data any
		err  error
	)
	switch typ {
	case FrameBoard:
		var detail *snapshot.BoardDetail
		detail, err = c.hub.snapshots.Get(ctx, c.caller, c.boardID)
		if err == nil && detail == nil {
			_ = c.write(FrameDeleted, deletedData{BoardID: c.boardID})
			c.closeWith(websocket.CloseNormalClosure, "board deleted")
			return false
		}
		data = detail
	case FrameCursors:
		data, err = c.hub.presence.GetCursorPositions(ctx, c.caller, c.boardID)
	case FrameConfetti:
		data, err = c.hub.confetti.Recent(ctx, c.boardID)
	}
	if err != nil {
		if ctx.Err() != nil {
			return false
		}
		c.hub.logger.Error("websocket view failed", "board_id", c.boardID, "frame", typ, "error", err)
		return c.write(FrameError, errorData{Message: "failed to load " + typ}) == nil
	}
	return c.write(typ, data) == nil
}

func (c *client) write(typ string, data any) error {
	payload, err := encodeFrame(typ, data)
	if err != nil {
		c.hub.logger.Error("websocket encode failed", "frame", typ, "error", err)
		return err
	}
	_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
	return c.ws.WriteMessage(websocket.TextMessage, payload)
}

func (c *client) closeWith(code int, reason string) {
	msg := websocket.FormatCloseMessage(code, reason)
	_ = c.ws.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
}
