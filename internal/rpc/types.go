package rpc

import (
	"github.com/rpggio/retroboard/internal/domain/board"
	"github.com/rpggio/retroboard/internal/domain/participant"
)

type BoardIDParams struct {
	BoardID string `json:"boardId"`
}

type CreateBoardParams struct {
	Name     string               `json:"name"`
	Sections []board.SectionInput `json:"sections"`
}

type UpdatePhaseParams struct {
	BoardID        string      `json:"boardId"`
	Phase          board.Phase `json:"phase"`
	VotesPerPerson *int        `json:"votesPerPerson,omitempty"`
	ResetVotes     bool        `json:"resetVotes,omitempty"`
}

type MoveToFolderParams struct {
	BoardID  string  `json:"boardId"`
	FolderID *string `json:"folderId"`
}

type StartTimerParams struct {
	BoardID    string `json:"boardId"`
	DurationMs int64  `json:"durationMs"`
}

type CreateNoteParams struct {
	BoardID   string      `json:"boardId"`
	SectionID string      `json:"sectionId"`
	Content   string      `json:"content"`
	Color     board.Color `json:"color"`
	PositionX float64     `json:"positionX"`
	PositionY float64     `json:"positionY"`
}

type UpdateNoteParams struct {
	NoteID    string       `json:"noteId"`
	Content   *string      `json:"content,omitempty"`
	SectionID *string      `json:"sectionId,omitempty"`
	Color     *board.Color `json:"color,omitempty"`
	PositionX *float64     `json:"positionX,omitempty"`
	PositionY *float64     `json:"positionY,omitempty"`
}

type MoveNoteParams struct {
	NoteID             string  `json:"noteId"`
	PositionX          float64 `json:"positionX"`
	PositionY          float64 `json:"positionY"`
	SectionID          *string `json:"sectionId,omitempty"`
	FollowSectionColor bool    `json:"followSectionColor,omitempty"`
}

type NoteIDParams struct {
	NoteID string `json:"noteId"`
}

type VoteParams struct {
	NoteID  string `json:"noteId"`
	BoardID string `json:"boardId"`
}

type ActionItemParams struct {
	BoardID      string `json:"boardId"`
	SourceNoteID string `json:"sourceNoteId"`
}

type UpdateCursorParams struct {
	BoardID string `json:"boardId"`
	participant.Cursor
}

type FireConfettiParams struct {
	BoardID  string  `json:"boardId"`
	Type     string  `json:"type"`
	OriginX  float64 `json:"originX"`
	OriginY  float64 `json:"originY"`
	Angle    float64 `json:"angle"`
	Velocity float64 `json:"velocity"`
	Distance float64 `json:"distance"`
}

type CreateFolderParams struct {
	Name  string  `json:"name"`
	Color *string `json:"color,omitempty"`
}

type RenameFolderParams struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type FolderIDParams struct {
	ID string `json:"id"`
}

// IDResponse is returned by create operations.
type IDResponse struct {
	ID string `json:"id"`
}

// StatusResponse is returned by operations without a result value.
type StatusResponse struct {
	Status string `json:"status"`
}

var statusOK = StatusResponse{Status: "ok"}
