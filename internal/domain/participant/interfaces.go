package participant

import (
	"context"
	"time"

	"github.com/rpggio/retroboard/internal/domain/board"
	"github.com/rpggio/retroboard/internal/domain/folder"
	"github.com/rpggio/retroboard/internal/domain/user"
)

// Repository provides persistence for participants.
type Repository interface {
	FindByUserAndBoard(ctx context.Context, userID, boardID string) (*Participant, error)
	Create(ctx context.Context, p *Participant) error
	Touch(ctx context.Context, id string, active bool, lastSeen time.Time) error
	SetActive(ctx context.Context, id string, active bool) error
	UpdateCursor(ctx context.Context, id string, c Cursor) error
	SetFolder(ctx context.Context, id string, folderID *string) error
	ListByBoard(ctx context.Context, boardID string) ([]Participant, error)
}

// BoardRepository reads boards.
type BoardRepository interface {
	Get(ctx context.Context, id string) (*board.Board, error)
}

// FolderRepository reads folders.
type FolderRepository interface {
	Get(ctx context.Context, id string) (*folder.Folder, error)
}

// UserRepository resolves display names.
type UserRepository interface {
	Get(ctx context.Context, id string) (*user.User, error)
}
