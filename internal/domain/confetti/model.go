package confetti

import "time"

// RecentLimit is the number of events a board keeps visible to subscribers.
const RecentLimit = 50

// DefaultType is used when a burst does not name its style.
const DefaultType = "basic"

// Event is one confetti burst fired on a board.
type Event struct {
	ID        string    `json:"id"`
	BoardID   string    `json:"boardId"`
	SenderID  string    `json:"senderId"`
	Type      string    `json:"type"`
	OriginX   float64   `json:"originX"`
	OriginY   float64   `json:"originY"`
	Angle     float64   `json:"angle"`
	Velocity  float64   `json:"velocity"`
	Distance  float64   `json:"distance"`
	CreatedAt time.Time `json:"createdAt"`
}
