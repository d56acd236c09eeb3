package board

import "errors"

var (
	// ErrBoardNotFound indicates the board doesn't exist.
	ErrBoardNotFound = errors.New("board not found")
	// ErrInvalidInput indicates invalid board input.
	ErrInvalidInput = errors.New("invalid board input")
	// ErrInvalidPhase indicates an unknown phase value.
	ErrInvalidPhase = errors.New("invalid phase")
)
