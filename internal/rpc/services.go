package rpc

import (
	"context"
	"time"

	"github.com/rpggio/retroboard/internal/domain/board"
	"github.com/rpggio/retroboard/internal/domain/confetti"
	"github.com/rpggio/retroboard/internal/domain/folder"
	"github.com/rpggio/retroboard/internal/domain/identity"
	"github.com/rpggio/retroboard/internal/domain/note"
	"github.com/rpggio/retroboard/internal/domain/participant"
	"github.com/rpggio/retroboard/internal/domain/snapshot"
	"github.com/rpggio/retroboard/internal/domain/user"
)

// BoardService defines board operations needed by RPC.
type BoardService interface {
	Create(ctx context.Context, caller identity.Caller, req board.CreateRequest) (*board.Board, error)
	List(ctx context.Context, caller identity.Caller) ([]board.Summary, error)
	UpdatePhase(ctx context.Context, caller identity.Caller, req board.PhaseUpdate) (*board.Board, error)
	Remove(ctx context.Context, caller identity.Caller, boardID string) error
	StartTimer(ctx context.Context, caller identity.Caller, boardID string, d time.Duration) (*board.Board, error)
	PauseTimer(ctx context.Context, caller identity.Caller, boardID string) (*board.Board, error)
	ResumeTimer(ctx context.Context, caller identity.Caller, boardID string) (*board.Board, error)
	ResetTimer(ctx context.Context, caller identity.Caller, boardID string) (*board.Board, error)
}

// SnapshotService composes board read models.
type SnapshotService interface {
	Get(ctx context.Context, caller identity.Caller, boardID string) (*snapshot.BoardDetail, error)
}

// NoteService defines note and vote operations needed by RPC.
type NoteService interface {
	Create(ctx context.Context, caller identity.Caller, req note.CreateRequest) (*note.Note, error)
	Update(ctx context.Context, caller identity.Caller, req note.UpdateRequest) (*note.Note, error)
	Move(ctx context.Context, caller identity.Caller, req note.MoveRequest) (*note.Note, error)
	Remove(ctx context.Context, caller identity.Caller, noteID string) error
	Vote(ctx context.Context, caller identity.Caller, noteID, boardID string) (*note.VoteResult, error)
	CreateActionItem(ctx context.Context, caller identity.Caller, boardID, sourceNoteID string) (*note.Note, error)
}

// ParticipantService defines presence operations needed by RPC.
type ParticipantService interface {
	Join(ctx context.Context, caller identity.Caller, boardID string) error
	Heartbeat(ctx context.Context, caller identity.Caller, boardID string) error
	Leave(ctx context.Context, caller identity.Caller, boardID string) error
	GetActive(ctx context.Context, boardID string) ([]participant.Presence, error)
	UpdateCursor(ctx context.Context, caller identity.Caller, boardID string, c participant.Cursor) error
	GetCursorPositions(ctx context.Context, caller identity.Caller, boardID string) ([]participant.CursorState, error)
	MoveToFolder(ctx context.Context, caller identity.Caller, boardID string, folderID *string) error
}

// ConfettiService defines confetti operations needed by RPC.
type ConfettiService interface {
	Fire(ctx context.Context, caller identity.Caller, req confetti.FireRequest) (*confetti.Event, error)
	Recent(ctx context.Context, boardID string) ([]confetti.Event, error)
}

// FolderService defines folder operations needed by RPC.
type FolderService interface {
	List(ctx context.Context, caller identity.Caller) ([]folder.Folder, error)
	Create(ctx context.Context, caller identity.Caller, name string, color *string) (*folder.Folder, error)
	Rename(ctx context.Context, caller identity.Caller, id, name string) error
	Remove(ctx context.Context, caller identity.Caller, id string) error
}

// UserService defines user operations needed by RPC.
type UserService interface {
	Current(ctx context.Context, caller identity.Caller) (*user.User, error)
}

// Services contains all domain services reachable over RPC.
type Services struct {
	Boards       BoardService
	Snapshots    SnapshotService
	Notes        NoteService
	Participants ParticipantService
	Confetti     ConfettiService
	Folders      FolderService
	Users        UserService
}
