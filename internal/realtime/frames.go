package realtime

import (
	"encoding/json"

	"github.com/rpggio/retroboard/internal/domain/participant"
)

// Server frame types.
const (
	FrameBoard    = "board"
	FrameCursors  = "cursors"
	FrameConfetti = "confetti"
	FrameDeleted  = "deleted"
	FrameError    = "error"
)

// Client message types.
const (
	MessageHeartbeat = "heartbeat"
	MessageCursor    = "cursor"
	MessageLeave     = "leave"
)

// Frame is one server push. Data holds the re-derived read model.
type Frame struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// ClientMessage is a frame sent by the browser.
type ClientMessage struct {
	Type   string              `json:"type"`
	Cursor *participant.Cursor `json:"cursor,omitempty"`
}

type deletedData struct {
	BoardID string `json:"boardId"`
}

type errorData struct {
	Message string `json:"message"`
}

func encodeFrame(typ string, data any) ([]byte, error) {
	return json.Marshal(Frame{Type: typ, Data: data})
}
