package board

import (
	"context"
	"time"

	"github.com/rpggio/retroboard/internal/domain/user"
)

// Repository provides persistence for boards.
type Repository interface {
	Create(ctx context.Context, b *Board) error
	Get(ctx context.Context, id string) (*Board, error)
	Update(ctx context.Context, b *Board) error
	Delete(ctx context.Context, id string) error
	ListForUser(ctx context.Context, userID string) ([]Summary, error)
}

// SectionRepository provides persistence for board sections.
type SectionRepository interface {
	Create(ctx context.Context, s *Section) error
	ListByBoard(ctx context.Context, boardID string) ([]Section, error)
	DeleteByBoard(ctx context.Context, boardID string) error
}

// NoteRepository is the slice of note storage a board deletion needs.
type NoteRepository interface {
	DeleteByBoard(ctx context.Context, boardID string) error
}

// VoteRepository is the slice of vote storage the board service needs.
type VoteRepository interface {
	DeleteByBoard(ctx context.Context, boardID string) (int64, error)
}

// ParticipantRepository is the slice of participant storage the board
// service needs.
type ParticipantRepository interface {
	Enroll(ctx context.Context, boardID, userID, name string, at time.Time) error
	DeleteByBoard(ctx context.Context, boardID string) error
}

// ConfettiRepository is the slice of confetti storage a board deletion needs.
type ConfettiRepository interface {
	DeleteByBoard(ctx context.Context, boardID string) error
}

// UserRepository resolves display names.
type UserRepository interface {
	Get(ctx context.Context, id string) (*user.User, error)
}
