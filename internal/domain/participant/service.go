package participant

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/rpggio/retroboard/internal/domain/board"
	"github.com/rpggio/retroboard/internal/domain/folder"
	"github.com/rpggio/retroboard/internal/domain/identity"
	"github.com/rpggio/retroboard/internal/domain/user"
	"github.com/rpggio/retroboard/internal/feed"
	"github.com/rpggio/retroboard/internal/repository"
)

// Service tracks board membership, liveness and cursors.
type Service struct {
	repo    Repository
	boards  BoardRepository
	folders FolderRepository
	users   UserRepository
	tx      repository.Transactor
	pub     feed.Publisher
	logger  *slog.Logger
	now     func() time.Time
}

// NewService creates a new participant service.
func NewService(repo Repository, boards BoardRepository, folders FolderRepository, users UserRepository, tx repository.Transactor, pub feed.Publisher, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{
		repo:    repo,
		boards:  boards,
		folders: folders,
		users:   users,
		tx:      tx,
		pub:     pub,
		logger:  logger,
		now:     time.Now,
	}
}

// SetClock overrides the time source.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// Join marks the caller present on a board, creating the participant on
// first visit.
func (s *Service) Join(ctx context.Context, caller identity.Caller, boardID string) error {
	if err := caller.Require(); err != nil {
		return err
	}

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.boards.Get(ctx, boardID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return board.ErrBoardNotFound
			}
			return fmt.Errorf("getting board: %w", err)
		}

		now := s.now()
		existing, err := s.find(ctx, caller, boardID)
		if err != nil {
			return err
		}
		if existing != nil {
			if err := s.repo.Touch(ctx, existing.ID, true, now); err != nil {
				return fmt.Errorf("updating participant: %w", err)
			}
			return nil
		}

		name, err := s.displayName(ctx, caller.UserID)
		if err != nil {
			return err
		}
		p := &Participant{
			ID:       uuid.NewString(),
			BoardID:  boardID,
			UserID:   caller.UserID,
			Name:     name,
			IsActive: true,
			LastSeen: now,
		}
		if err := s.repo.Create(ctx, p); err != nil {
			return fmt.Errorf("creating participant: %w", err)
		}
		s.logger.Debug("participant joined", "board_id", boardID, "user_id", caller.UserID)
		return nil
	})
	if err != nil {
		return err
	}

	feed.Notify(ctx, s.pub, s.logger, boardID, feed.KindParticipants, caller.UserID)
	return nil
}

// Heartbeat refreshes the caller's liveness. It does nothing for anonymous
// callers or boards the caller never joined.
func (s *Service) Heartbeat(ctx context.Context, caller identity.Caller, boardID string) error {
	now := s.now()
	p, err := s.updateOwn(ctx, caller, boardID, func(ctx context.Context, p *Participant) error {
		return s.repo.Touch(ctx, p.ID, true, now)
	})
	if err != nil || p == nil {
		return err
	}
	if !p.IsActive || !IsLive(p.LastSeen, now) {
		feed.Notify(ctx, s.pub, s.logger, boardID, feed.KindParticipants, caller.UserID)
	}
	return nil
}

// Leave marks the caller inactive. The participant row is kept.
func (s *Service) Leave(ctx context.Context, caller identity.Caller, boardID string) error {
	p, err := s.updateOwn(ctx, caller, boardID, func(ctx context.Context, p *Participant) error {
		return s.repo.SetActive(ctx, p.ID, false)
	})
	if err != nil || p == nil {
		return err
	}
	feed.Notify(ctx, s.pub, s.logger, boardID, feed.KindParticipants, caller.UserID)
	return nil
}

// GetActive returns participants seen within the liveness window.
func (s *Service) GetActive(ctx context.Context, boardID string) ([]Presence, error) {
	all, err := s.repo.ListByBoard(ctx, boardID)
	if err != nil {
		return nil, fmt.Errorf("listing participants: %w", err)
	}

	now := s.now()
	active := make([]Presence, 0, len(all))
	for _, p := range all {
		if !IsLive(p.LastSeen, now) {
			continue
		}
		active = append(active, Presence{
			ID:       p.ID,
			UserID:   p.UserID,
			Name:     p.Name,
			IsActive: true,
			LastSeen: p.LastSeen,
		})
	}
	return active, nil
}

// UpdateCursor records the caller's pointer position.
func (s *Service) UpdateCursor(ctx context.Context, caller identity.Caller, boardID string, c Cursor) error {
	p, err := s.updateOwn(ctx, caller, boardID, func(ctx context.Context, p *Participant) error {
		return s.repo.UpdateCursor(ctx, p.ID, c)
	})
	if err != nil || p == nil {
		return err
	}
	feed.Notify(ctx, s.pub, s.logger, boardID, feed.KindCursors, caller.UserID)
	return nil
}

// GetCursorPositions returns the cursors of live participants other than the
// caller.
func (s *Service) GetCursorPositions(ctx context.Context, caller identity.Caller, boardID string) ([]CursorState, error) {
	all, err := s.repo.ListByBoard(ctx, boardID)
	if err != nil {
		return nil, fmt.Errorf("listing participants: %w", err)
	}

	now := s.now()
	cursors := make([]CursorState, 0, len(all))
	for _, p := range all {
		if p.Cursor == nil || p.UserID == caller.UserID || !IsLive(p.LastSeen, now) {
			continue
		}
		cursors = append(cursors, CursorState{
			ParticipantID: p.ID,
			UserID:        p.UserID,
			Name:          p.Name,
			Cursor:        *p.Cursor,
			Color:         CursorColor(p.UserID),
		})
	}
	return cursors, nil
}

// MoveToFolder files the board under one of the caller's folders, or
// un-files it when folderID is nil. Filing is per participant.
func (s *Service) MoveToFolder(ctx context.Context, caller identity.Caller, boardID string, folderID *string) error {
	if err := caller.Require(); err != nil {
		return err
	}

	return s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.boards.Get(ctx, boardID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return board.ErrBoardNotFound
			}
			return fmt.Errorf("getting board: %w", err)
		}
		p, err := s.find(ctx, caller, boardID)
		if err != nil {
			return err
		}
		if p == nil {
			return ErrNotParticipant
		}
		if folderID != nil {
			f, err := s.folders.Get(ctx, *folderID)
			if err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					return folder.ErrFolderNotFound
				}
				return fmt.Errorf("getting folder: %w", err)
			}
			if f.UserID != caller.UserID {
				return folder.ErrFolderNotFound
			}
		}
		if err := s.repo.SetFolder(ctx, p.ID, folderID); err != nil {
			return fmt.Errorf("filing board: %w", err)
		}
		return nil
	})
}

// updateOwn applies write to the caller's participant row in one
// transaction and returns the row as it was before the write. It returns nil
// without error for anonymous callers, missing rows, and rows removed before
// the write landed.
func (s *Service) updateOwn(ctx context.Context, caller identity.Caller, boardID string, write func(context.Context, *Participant) error) (*Participant, error) {
	if !caller.Authenticated() {
		return nil, nil
	}

	var found *Participant
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		p, err := s.find(ctx, caller, boardID)
		if err != nil || p == nil {
			return err
		}
		if err := write(ctx, p); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil
			}
			return fmt.Errorf("updating participant: %w", err)
		}
		found = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return found, nil
}

// find returns nil without error when the caller never joined the board.
func (s *Service) find(ctx context.Context, caller identity.Caller, boardID string) (*Participant, error) {
	p, err := s.repo.FindByUserAndBoard(ctx, caller.UserID, boardID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("finding participant: %w", err)
	}
	return p, nil
}

func (s *Service) displayName(ctx context.Context, userID string) (string, error) {
	u, err := s.users.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return user.AnonymousName, nil
		}
		return "", fmt.Errorf("getting user: %w", err)
	}
	return u.DisplayName(), nil
}
