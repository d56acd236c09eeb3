package note

import "errors"

var (
	// ErrNoteNotFound indicates the note doesn't exist.
	ErrNoteNotFound = errors.New("note not found")
	// ErrSectionNotFound indicates the section doesn't exist on the board.
	ErrSectionNotFound = errors.New("section not found")
	// ErrBoardFinished indicates the board no longer accepts note changes.
	ErrBoardFinished = errors.New("board is finished")
	// ErrNotAuthorized indicates the caller did not create the note.
	ErrNotAuthorized = errors.New("not authorized to modify this note")
	// ErrNoActionSection indicates the board has no section for action items.
	ErrNoActionSection = errors.New("no action items section found")
	// ErrInvalidInput indicates invalid note input.
	ErrInvalidInput = errors.New("invalid note input")
)
