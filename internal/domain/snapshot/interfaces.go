package snapshot

import (
	"context"

	"github.com/rpggio/retroboard/internal/domain/board"
	"github.com/rpggio/retroboard/internal/domain/note"
	"github.com/rpggio/retroboard/internal/domain/participant"
	"github.com/rpggio/retroboard/internal/domain/user"
)

// BoardRepository reads boards.
type BoardRepository interface {
	Get(ctx context.Context, id string) (*board.Board, error)
}

// SectionRepository reads sections in display order.
type SectionRepository interface {
	ListByBoard(ctx context.Context, boardID string) ([]board.Section, error)
}

// NoteRepository reads notes.
type NoteRepository interface {
	ListByBoard(ctx context.Context, boardID string) ([]note.Note, error)
}

// VoteRepository reads votes.
type VoteRepository interface {
	ListByBoard(ctx context.Context, boardID string) ([]note.Vote, error)
}

// ParticipantRepository reads participants.
type ParticipantRepository interface {
	ListByBoard(ctx context.Context, boardID string) ([]participant.Participant, error)
}

// UserRepository resolves display names.
type UserRepository interface {
	Get(ctx context.Context, id string) (*user.User, error)
}

// Reader groups the repositories a snapshot is composed from.
type Reader struct {
	Boards       BoardRepository
	Sections     SectionRepository
	Notes        NoteRepository
	Votes        VoteRepository
	Participants ParticipantRepository
	Users        UserRepository
}
