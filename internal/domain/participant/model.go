package participant

import "time"

// Presence timing shared with clients.
const (
	HeartbeatInterval = 10 * time.Second
	LivenessWindow    = 30 * time.Second
	CursorThrottle    = 200 * time.Millisecond
)

// Participant is a user's membership and presence on a board.
type Participant struct {
	ID       string    `json:"id"`
	BoardID  string    `json:"boardId"`
	UserID   string    `json:"userId"`
	Name     string    `json:"name"`
	IsActive bool      `json:"isActive"`
	LastSeen time.Time `json:"lastSeen"`
	FolderID *string   `json:"folderId,omitempty"`
	Cursor   *Cursor   `json:"cursor,omitempty"`
}

// Cursor is the last reported pointer position of a participant.
type Cursor struct {
	X         float64  `json:"x"`
	Y         float64  `json:"y"`
	ViewportX *float64 `json:"viewportX,omitempty"`
	ViewportY *float64 `json:"viewportY,omitempty"`
	Zoom      *float64 `json:"zoom,omitempty"`
}

// Presence is a participant as seen by other board members.
type Presence struct {
	ID       string    `json:"id"`
	UserID   string    `json:"userId"`
	Name     string    `json:"name"`
	IsActive bool      `json:"isActive"`
	LastSeen time.Time `json:"lastSeen"`
}

// CursorState is a live participant's cursor with its display color.
type CursorState struct {
	ParticipantID string `json:"id"`
	UserID        string `json:"userId"`
	Name          string `json:"name"`
	Cursor        Cursor `json:"cursor"`
	Color         string `json:"color"`
}

// IsLive reports whether a participant last seen at lastSeen still counts as
// present at now. The stored active flag is not consulted.
func IsLive(lastSeen, now time.Time) bool {
	return now.Sub(lastSeen) < LivenessWindow
}

// CursorPalette is the fixed set of cursor colors.
var CursorPalette = []string{
	"red", "orange", "amber", "lime", "green", "emerald", "teal", "cyan",
	"sky", "blue", "indigo", "violet", "purple", "fuchsia", "pink", "rose",
}

// CursorColor picks a stable palette color for a user.
func CursorColor(userID string) string {
	sum := 0
	for _, r := range userID {
		sum += int(r)
	}
	return CursorPalette[sum%len(CursorPalette)]
}
