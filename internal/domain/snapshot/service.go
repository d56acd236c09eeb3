package snapshot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/rpggio/retroboard/internal/domain/board"
	"github.com/rpggio/retroboard/internal/domain/identity"
	"github.com/rpggio/retroboard/internal/domain/participant"
	"github.com/rpggio/retroboard/internal/repository"
)

// Service derives board snapshots. Nothing is cached between calls.
type Service struct {
	read   Reader
	tx     repository.Transactor
	logger *slog.Logger
	now    func() time.Time
}

// NewService creates a new snapshot service. Every snapshot is read inside
// one transaction from tx.
func NewService(read Reader, tx repository.Transactor, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{read: read, tx: tx, logger: logger, now: time.Now}
}

// SetClock overrides the time source.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// Get composes the board as the caller sees it. It returns nil without error
// for anonymous callers and missing boards.
func (s *Service) Get(ctx context.Context, caller identity.Caller, boardID string) (*BoardDetail, error) {
	if !caller.Authenticated() {
		return nil, nil
	}

	var detail *BoardDetail
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		detail, err = s.compose(ctx, caller, boardID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return detail, nil
}

func (s *Service) compose(ctx context.Context, caller identity.Caller, boardID string) (*BoardDetail, error) {
	b, err := s.read.Boards.Get(ctx, boardID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("getting board: %w", err)
	}

	sections, err := s.read.Sections.ListByBoard(ctx, boardID)
	if err != nil {
		return nil, fmt.Errorf("listing sections: %w", err)
	}
	notes, err := s.read.Notes.ListByBoard(ctx, boardID)
	if err != nil {
		return nil, fmt.Errorf("listing notes: %w", err)
	}
	votes, err := s.read.Votes.ListByBoard(ctx, boardID)
	if err != nil {
		return nil, fmt.Errorf("listing votes: %w", err)
	}
	members, err := s.read.Participants.ListByBoard(ctx, boardID)
	if err != nil {
		return nil, fmt.Errorf("listing participants: %w", err)
	}

	names := newNameCache(s.read.Users)
	creatorName, err := names.lookup(ctx, b.CreatedBy)
	if err != nil {
		return nil, err
	}

	detail := &BoardDetail{
		ID:             b.ID,
		Name:           b.Name,
		Phase:          b.Phase,
		VotesPerPerson: b.VotesPerPerson,
		Timer:          b.Timer,
		CreatedBy:      b.CreatedBy,
		CreatorName:    creatorName,
		CreatedAt:      b.CreatedAt,
		Sections:       sections,
		Notes:          make([]NoteView, 0, len(notes)),
		Participants:   make([]ParticipantView, 0, len(members)),
	}
	if detail.Sections == nil {
		detail.Sections = []board.Section{}
	}

	voters := make(map[string][]string)
	for _, v := range votes {
		voters[v.NoteID] = append(voters[v.NoteID], v.UserID)
	}

	for _, n := range notes {
		name, err := names.lookup(ctx, n.CreatedBy)
		if err != nil {
			return nil, err
		}
		view := NoteView{
			ID:          n.ID,
			SectionID:   n.SectionID,
			CreatedBy:   n.CreatedBy,
			CreatorName: name,
			Visibility:  board.NoteVisibility(b.Phase, n.CreatedBy, caller.UserID),
		}
		if view.Visibility == board.VisibilityFull {
			view.Content = n.Content
			view.Color = n.Color
			view.PositionX = n.PositionX
			view.PositionY = n.PositionY
			view.Votes = voters[n.ID]
			view.CreatedAt = n.CreatedAt
		}
		detail.Notes = append(detail.Notes, view)
	}

	now := s.now()
	for _, p := range members {
		if p.UserID == caller.UserID {
			detail.FolderID = p.FolderID
		}
		detail.Participants = append(detail.Participants, ParticipantView{
			ID:       p.ID,
			UserID:   p.UserID,
			Name:     p.Name,
			IsLive:   participant.IsLive(p.LastSeen, now),
			LastSeen: p.LastSeen,
		})
	}

	return detail, nil
}

type nameCache struct {
	users UserRepository
	names map[string]string
}

func newNameCache(users UserRepository) *nameCache {
	return &nameCache{users: users, names: make(map[string]string)}
}

func (c *nameCache) lookup(ctx context.Context, userID string) (string, error) {
	if name, ok := c.names[userID]; ok {
		return name, nil
	}
	u, err := c.users.Get(ctx, userID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return "", fmt.Errorf("getting user: %w", err)
	}
	name := u.DisplayName()
	c.names[userID] = name
	return name, nil
}
