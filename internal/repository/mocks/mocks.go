package mocks

import (
	"context"
	"time"

	"github.com/rpggio/retroboard/internal/domain/board"
	"github.com/rpggio/retroboard/internal/domain/confetti"
	"github.com/rpggio/retroboard/internal/domain/folder"
	"github.com/rpggio/retroboard/internal/domain/note"
	"github.com/rpggio/retroboard/internal/domain/participant"
	"github.com/rpggio/retroboard/internal/domain/user"
	"github.com/rpggio/retroboard/internal/feed"
	"github.com/stretchr/testify/mock"
)

// Transactor runs fn directly; mocked repositories see the caller's context.
type Transactor struct{}

func (Transactor) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// Publisher records published changes.
type Publisher struct {
	Changes []feed.Change
}

func (p *Publisher) Publish(_ context.Context, change feed.Change) error {
	p.Changes = append(p.Changes, change)
	return nil
}

// Kinds returns the kinds of the recorded changes in publish order.
func (p *Publisher) Kinds() []feed.Kind {
	kinds := make([]feed.Kind, 0, len(p.Changes))
	for _, c := range p.Changes {
		kinds = append(kinds, c.Kind)
	}
	return kinds
}

// BoardRepository is a mock for board.Repository.
type BoardRepository struct {
	mock.Mock
}

func (m *BoardRepository) Create(ctx context.Context, b *board.Board) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}

func (m *BoardRepository) Get(ctx context.Context, id string) (*board.Board, error) {
	args := m.Called(ctx, id)
	if b, ok := args.Get(0).(*board.Board); ok {
		return b, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *BoardRepository) Update(ctx context.Context, b *board.Board) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}

func (m *BoardRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *BoardRepository) ListForUser(ctx context.Context, userID string) ([]board.Summary, error) {
	args := m.Called(ctx, userID)
	if list, ok := args.Get(0).([]board.Summary); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// SectionRepository is a mock for board.SectionRepository and note.SectionRepository.
type SectionRepository struct {
	mock.Mock
}

func (m *SectionRepository) Create(ctx context.Context, s *board.Section) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *SectionRepository) Get(ctx context.Context, id string) (*board.Section, error) {
	args := m.Called(ctx, id)
	if s, ok := args.Get(0).(*board.Section); ok {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *SectionRepository) ListByBoard(ctx context.Context, boardID string) ([]board.Section, error) {
	args := m.Called(ctx, boardID)
	if list, ok := args.Get(0).([]board.Section); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *SectionRepository) DeleteByBoard(ctx context.Context, boardID string) error {
	args := m.Called(ctx, boardID)
	return args.Error(0)
}

// NoteRepository is a mock for note.Repository.
type NoteRepository struct {
	mock.Mock
}

func (m *NoteRepository) Create(ctx context.Context, n *note.Note) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func (m *NoteRepository) Get(ctx context.Context, id string) (*note.Note, error) {
	args := m.Called(ctx, id)
	if n, ok := args.Get(0).(*note.Note); ok {
		return n, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *NoteRepository) Update(ctx context.Context, n *note.Note) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func (m *NoteRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *NoteRepository) ListByBoard(ctx context.Context, boardID string) ([]note.Note, error) {
	args := m.Called(ctx, boardID)
	if list, ok := args.Get(0).([]note.Note); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *NoteRepository) DeleteByBoard(ctx context.Context, boardID string) error {
	args := m.Called(ctx, boardID)
	return args.Error(0)
}

// VoteRepository is a mock for note.VoteRepository.
type VoteRepository struct {
	mock.Mock
}

func (m *VoteRepository) Find(ctx context.Context, userID, noteID string) (*note.Vote, error) {
	args := m.Called(ctx, userID, noteID)
	if v, ok := args.Get(0).(*note.Vote); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *VoteRepository) Create(ctx context.Context, v *note.Vote) error {
	args := m.Called(ctx, v)
	return args.Error(0)
}

func (m *VoteRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *VoteRepository) CountByUserAndBoard(ctx context.Context, userID, boardID string) (int, error) {
	args := m.Called(ctx, userID, boardID)
	return args.Int(0), args.Error(1)
}

func (m *VoteRepository) DeleteByNote(ctx context.Context, noteID string) error {
	args := m.Called(ctx, noteID)
	return args.Error(0)
}

func (m *VoteRepository) DeleteByBoard(ctx context.Context, boardID string) (int64, error) {
	args := m.Called(ctx, boardID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *VoteRepository) ListByBoard(ctx context.Context, boardID string) ([]note.Vote, error) {
	args := m.Called(ctx, boardID)
	if list, ok := args.Get(0).([]note.Vote); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// ParticipantRepository is a mock for participant.Repository.
type ParticipantRepository struct {
	mock.Mock
}

func (m *ParticipantRepository) FindByUserAndBoard(ctx context.Context, userID, boardID string) (*participant.Participant, error) {
	args := m.Called(ctx, userID, boardID)
	if p, ok := args.Get(0).(*participant.Participant); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ParticipantRepository) Create(ctx context.Context, p *participant.Participant) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *ParticipantRepository) Enroll(ctx context.Context, boardID, userID, name string, at time.Time) error {
	args := m.Called(ctx, boardID, userID, name, at)
	return args.Error(0)
}

func (m *ParticipantRepository) Touch(ctx context.Context, id string, active bool, lastSeen time.Time) error {
	args := m.Called(ctx, id, active, lastSeen)
	return args.Error(0)
}

func (m *ParticipantRepository) SetActive(ctx context.Context, id string, active bool) error {
	args := m.Called(ctx, id, active)
	return args.Error(0)
}

func (m *ParticipantRepository) UpdateCursor(ctx context.Context, id string, c participant.Cursor) error {
	args := m.Called(ctx, id, c)
	return args.Error(0)
}

func (m *ParticipantRepository) SetFolder(ctx context.Context, id string, folderID *string) error {
	args := m.Called(ctx, id, folderID)
	return args.Error(0)
}

func (m *ParticipantRepository) ClearFolder(ctx context.Context, userID, folderID string) (int64, error) {
	args := m.Called(ctx, userID, folderID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *ParticipantRepository) ListByBoard(ctx context.Context, boardID string) ([]participant.Participant, error) {
	args := m.Called(ctx, boardID)
	if list, ok := args.Get(0).([]participant.Participant); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ParticipantRepository) DeleteByBoard(ctx context.Context, boardID string) error {
	args := m.Called(ctx, boardID)
	return args.Error(0)
}

// FolderRepository is a mock for folder.Repository.
type FolderRepository struct {
	mock.Mock
}

func (m *FolderRepository) Create(ctx context.Context, f *folder.Folder) error {
	args := m.Called(ctx, f)
	return args.Error(0)
}

func (m *FolderRepository) Get(ctx context.Context, id string) (*folder.Folder, error) {
	args := m.Called(ctx, id)
	if f, ok := args.Get(0).(*folder.Folder); ok {
		return f, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *FolderRepository) Rename(ctx context.Context, id, name string) error {
	args := m.Called(ctx, id, name)
	return args.Error(0)
}

func (m *FolderRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *FolderRepository) ListByUser(ctx context.Context, userID string) ([]folder.Folder, error) {
	args := m.Called(ctx, userID)
	if list, ok := args.Get(0).([]folder.Folder); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// ConfettiRepository is a mock for confetti.Repository.
type ConfettiRepository struct {
	mock.Mock
}

func (m *ConfettiRepository) Create(ctx context.Context, e *confetti.Event) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m *ConfettiRepository) Recent(ctx context.Context, boardID string, limit int) ([]confetti.Event, error) {
	args := m.Called(ctx, boardID, limit)
	if list, ok := args.Get(0).([]confetti.Event); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ConfettiRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

func (m *ConfettiRepository) DeleteByBoard(ctx context.Context, boardID string) error {
	args := m.Called(ctx, boardID)
	return args.Error(0)
}

// UserRepository is a mock for user.Repository and user.TokenRepository.
type UserRepository struct {
	mock.Mock
}

func (m *UserRepository) Create(ctx context.Context, u *user.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *UserRepository) Get(ctx context.Context, id string) (*user.User, error) {
	args := m.Called(ctx, id)
	if u, ok := args.Get(0).(*user.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *UserRepository) CreateToken(ctx context.Context, userID, tokenHash string) error {
	args := m.Called(ctx, userID, tokenHash)
	return args.Error(0)
}

func (m *UserRepository) ResolveToken(ctx context.Context, tokenHash string) (string, error) {
	args := m.Called(ctx, tokenHash)
	return args.String(0), args.Error(1)
}
