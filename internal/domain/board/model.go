package board

import (
	"strings"
	"time"
)

// Phase is the facilitation stage of a board.
type Phase string

const (
	PhaseWriting    Phase = "writing"
	PhaseReveal     Phase = "reveal"
	PhaseVoting     Phase = "voting"
	PhaseDiscussion Phase = "discussion"
	PhaseFinished   Phase = "finished"
)

// Phases lists every phase in facilitation order.
var Phases = []Phase{PhaseWriting, PhaseReveal, PhaseVoting, PhaseDiscussion, PhaseFinished}

// Valid reports whether p is one of the known phases.
func (p Phase) Valid() bool {
	for _, known := range Phases {
		if p == known {
			return true
		}
	}
	return false
}

// AcceptsNoteChanges reports whether notes may be created, edited or
// removed in this phase.
func (p Phase) AcceptsNoteChanges() bool {
	return p != PhaseFinished
}

// Color is a sticky-note color.
type Color string

const (
	ColorYellow Color = "yellow"
	ColorBlue   Color = "blue"
	ColorGreen  Color = "green"
	ColorRed    Color = "red"
	ColorPink   Color = "pink"
)

// Valid reports whether c is one of the palette colors.
func (c Color) Valid() bool {
	switch c {
	case ColorYellow, ColorBlue, ColorGreen, ColorRed, ColorPink:
		return true
	}
	return false
}

// DefaultVotesPerPerson is the vote budget of a new board.
const DefaultVotesPerPerson = 3

// Board is a retrospective session.
type Board struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	CreatedBy      string    `json:"createdBy"`
	Phase          Phase     `json:"phase"`
	VotesPerPerson int       `json:"votesPerPerson"`
	Timer          Timer     `json:"timer"`
	CreatedAt      time.Time `json:"createdAt"`
}

// Section is a named column on a board.
type Section struct {
	ID       string `json:"id"`
	BoardID  string `json:"boardId"`
	Name     string `json:"name"`
	Color    Color  `json:"color"`
	Position int    `json:"order"`
}

// Summary is the list view of a board for one caller.
type Summary struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Phase            Phase     `json:"phase"`
	CreatedBy        string    `json:"createdBy"`
	CreatorName      string    `json:"creatorName"`
	VotesPerPerson   int       `json:"votesPerPerson"`
	ParticipantCount int       `json:"participantCount"`
	NoteCount        int       `json:"noteCount"`
	FolderID         *string   `json:"folderId,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
}

var actionSectionKeywords = []string{"action", "todo", "next step"}

// IsActionSection reports whether a section collects follow-up items.
func IsActionSection(name string) bool {
	lower := strings.ToLower(name)
	for _, kw := range actionSectionKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// FindActionSection returns the first action section in display order.
func FindActionSection(sections []Section) (Section, bool) {
	for _, s := range sections {
		if IsActionSection(s.Name) {
			return s, true
		}
	}
	return Section{}, false
}

// Visibility describes how much of a note a viewer may see.
type Visibility string

const (
	VisibilityFull  Visibility = "full"
	VisibilityGhost Visibility = "ghost"
)

// NoteVisibility hides other users' notes while the board is in the writing
// phase.
func NoteVisibility(phase Phase, creatorID, viewerID string) Visibility {
	if phase == PhaseWriting && creatorID != viewerID {
		return VisibilityGhost
	}
	return VisibilityFull
}
