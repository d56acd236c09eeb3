// Package snapshot composes the per-viewer read model of a board.
package snapshot

import (
	"encoding/json"
	"time"

	"github.com/rpggio/retroboard/internal/domain/board"
)

// BoardDetail is everything a viewer needs to render a board.
type BoardDetail struct {
	ID             string            `json:"id"`
	Name           string            `json:"name"`
	Phase          board.Phase       `json:"phase"`
	VotesPerPerson int               `json:"votesPerPerson"`
	Timer          board.Timer       `json:"timer"`
	CreatedBy      string            `json:"createdBy"`
	CreatorName    string            `json:"creatorName"`
	CreatedAt      time.Time         `json:"createdAt"`
	FolderID       *string           `json:"folderId,omitempty"`
	Sections       []board.Section   `json:"sections"`
	Notes          []NoteView        `json:"notes"`
	Participants   []ParticipantView `json:"participants"`
}

// NoteView is a note as one viewer may see it. Ghost notes serialize without
// content, color, position or votes.
type NoteView struct {
	ID          string
	SectionID   string
	CreatedBy   string
	CreatorName string
	Visibility  board.Visibility
	Content     string
	Color       board.Color
	PositionX   float64
	PositionY   float64
	Votes       []string
	CreatedAt   time.Time
}

type ghostNoteJSON struct {
	ID          string           `json:"id"`
	SectionID   string           `json:"sectionId"`
	CreatedBy   string           `json:"createdBy"`
	CreatorName string           `json:"creatorName"`
	Visibility  board.Visibility `json:"visibility"`
}

type fullNoteJSON struct {
	ID          string           `json:"id"`
	SectionID   string           `json:"sectionId"`
	CreatedBy   string           `json:"createdBy"`
	CreatorName string           `json:"creatorName"`
	Visibility  board.Visibility `json:"visibility"`
	Content     string           `json:"content"`
	Color       board.Color      `json:"color"`
	PositionX   float64          `json:"positionX"`
	PositionY   float64          `json:"positionY"`
	Votes       []string         `json:"votes"`
	CreatedAt   time.Time        `json:"createdAt"`
}

func (n NoteView) MarshalJSON() ([]byte, error) {
	if n.Visibility == board.VisibilityGhost {
		return json.Marshal(ghostNoteJSON{
			ID:          n.ID,
			SectionID:   n.SectionID,
			CreatedBy:   n.CreatedBy,
			CreatorName: n.CreatorName,
			Visibility:  n.Visibility,
		})
	}
	votes := n.Votes
	if votes == nil {
		votes = []string{}
	}
	return json.Marshal(fullNoteJSON{
		ID:          n.ID,
		SectionID:   n.SectionID,
		CreatedBy:   n.CreatedBy,
		CreatorName: n.CreatorName,
		Visibility:  n.Visibility,
		Content:     n.Content,
		Color:       n.Color,
		PositionX:   n.PositionX,
		PositionY:   n.PositionY,
		Votes:       votes,
		CreatedAt:   n.CreatedAt,
	})
}

// ParticipantView is a board member with liveness computed at read time.
type ParticipantView struct {
	ID       string    `json:"id"`
	UserID   string    `json:"userId"`
	Name     string    `json:"name"`
	IsLive   bool      `json:"isLive"`
	LastSeen time.Time `json:"lastSeen"`
}
