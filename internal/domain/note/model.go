package note

import (
	"time"

	"github.com/rpggio/retroboard/internal/domain/board"
)

// Note positions are percentages of the section area.
const (
	MinPosition = 2.0
	MaxPosition = 85.0
)

// ActionPrefix is prepended to notes promoted into an action section.
const ActionPrefix = "ACTION: "

// Note is a sticky note on a board section.
type Note struct {
	ID        string      `json:"id"`
	BoardID   string      `json:"boardId"`
	SectionID string      `json:"sectionId"`
	Content   string      `json:"content"`
	Color     board.Color `json:"color"`
	CreatedBy string      `json:"createdBy"`
	PositionX float64     `json:"positionX"`
	PositionY float64     `json:"positionY"`
	CreatedAt time.Time   `json:"createdAt"`
}

// Vote is one user's vote on one note.
type Vote struct {
	ID        string    `json:"id"`
	NoteID    string    `json:"noteId"`
	BoardID   string    `json:"boardId"`
	UserID    string    `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}

// VoteAction reports which way a vote toggle went.
type VoteAction string

const (
	VoteAdded   VoteAction = "added"
	VoteRemoved VoteAction = "removed"
)

// MessageNoVotesRemaining is returned when the vote budget is spent.
const MessageNoVotesRemaining = "No votes remaining"

// VoteResult is the outcome of a vote toggle. An exhausted budget is a normal
// result with Success false, not an error.
type VoteResult struct {
	Success bool       `json:"success"`
	Action  VoteAction `json:"action,omitempty"`
	Message string     `json:"message,omitempty"`
}

// ClampPosition keeps a coordinate inside the section area.
func ClampPosition(v float64) float64 {
	if v < MinPosition {
		return MinPosition
	}
	if v > MaxPosition {
		return MaxPosition
	}
	return v
}
