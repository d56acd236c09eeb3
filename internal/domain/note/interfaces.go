package note

import (
	"context"

	"github.com/rpggio/retroboard/internal/domain/board"
)

// Repository provides persistence for notes.
type Repository interface {
	Create(ctx context.Context, n *Note) error
	Get(ctx context.Context, id string) (*Note, error)
	Update(ctx context.Context, n *Note) error
	Delete(ctx context.Context, id string) error
	ListByBoard(ctx context.Context, boardID string) ([]Note, error)
}

// VoteRepository provides persistence for votes.
type VoteRepository interface {
	Find(ctx context.Context, userID, noteID string) (*Vote, error)
	Create(ctx context.Context, v *Vote) error
	Delete(ctx context.Context, id string) error
	CountByUserAndBoard(ctx context.Context, userID, boardID string) (int, error)
	DeleteByNote(ctx context.Context, noteID string) error
	ListByBoard(ctx context.Context, boardID string) ([]Vote, error)
}

// BoardRepository reads boards.
type BoardRepository interface {
	Get(ctx context.Context, id string) (*board.Board, error)
}

// SectionRepository reads board sections.
type SectionRepository interface {
	Get(ctx context.Context, id string) (*board.Section, error)
	ListByBoard(ctx context.Context, boardID string) ([]board.Section, error)
}
