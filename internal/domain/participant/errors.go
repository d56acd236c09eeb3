package participant

import "errors"

var (
	// ErrNotParticipant indicates the caller has never joined the board.
	ErrNotParticipant = errors.New("not a participant of this board")
)
