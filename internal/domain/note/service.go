package note

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/rpggio/retroboard/internal/domain/board"
	"github.com/rpggio/retroboard/internal/domain/identity"
	"github.com/rpggio/retroboard/internal/feed"
	"github.com/rpggio/retroboard/internal/repository"
)

// Service handles note mutations and vote toggles.
type Service struct {
	notes    Repository
	votes    VoteRepository
	boards   BoardRepository
	sections SectionRepository
	tx       repository.Transactor
	pub      feed.Publisher
	logger   *slog.Logger
	now      func() time.Time
}

// NewService creates a new note service.
func NewService(notes Repository, votes VoteRepository, boards BoardRepository, sections SectionRepository, tx repository.Transactor, pub feed.Publisher, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{
		notes:    notes,
		votes:    votes,
		boards:   boards,
		sections: sections,
		tx:       tx,
		pub:      pub,
		logger:   logger,
		now:      time.Now,
	}
}

// SetClock overrides the time source.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// CreateRequest defines note creation inputs.
type CreateRequest struct {
	BoardID   string
	SectionID string
	Content   string
	Color     board.Color
	PositionX float64
	PositionY float64
}

// Create adds a note to a section of an unfinished board.
func (s *Service) Create(ctx context.Context, caller identity.Caller, req CreateRequest) (*Note, error) {
	if err := caller.Require(); err != nil {
		return nil, err
	}
	if !req.Color.Valid() {
		return nil, fmt.Errorf("%w: color %q", ErrInvalidInput, req.Color)
	}

	n := &Note{
		ID:        uuid.NewString(),
		BoardID:   req.BoardID,
		SectionID: req.SectionID,
		Content:   req.Content,
		Color:     req.Color,
		CreatedBy: caller.UserID,
		PositionX: ClampPosition(req.PositionX),
		PositionY: ClampPosition(req.PositionY),
		CreatedAt: s.now(),
	}

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		b, err := s.loadBoard(ctx, req.BoardID)
		if err != nil {
			return err
		}
		if !b.Phase.AcceptsNoteChanges() {
			return ErrBoardFinished
		}
		if _, err := s.loadSection(ctx, b.ID, req.SectionID); err != nil {
			return err
		}
		if err := s.notes.Create(ctx, n); err != nil {
			return fmt.Errorf("creating note: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	feed.Notify(ctx, s.pub, s.logger, n.BoardID, feed.KindNotes, caller.UserID)
	return n, nil
}

// UpdateRequest is a partial note update. Nil fields are left unchanged.
type UpdateRequest struct {
	NoteID    string
	Content   *string
	SectionID *string
	Color     *board.Color
	PositionX *float64
	PositionY *float64
}

// Update edits a note the caller created.
func (s *Service) Update(ctx context.Context, caller identity.Caller, req UpdateRequest) (*Note, error) {
	if err := caller.Require(); err != nil {
		return nil, err
	}
	if req.Color != nil && !req.Color.Valid() {
		return nil, fmt.Errorf("%w: color %q", ErrInvalidInput, *req.Color)
	}

	var n *Note
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		n, err = s.loadOwned(ctx, caller, req.NoteID)
		if err != nil {
			return err
		}
		if req.SectionID != nil && *req.SectionID != n.SectionID {
			if _, err := s.loadSection(ctx, n.BoardID, *req.SectionID); err != nil {
				return err
			}
			n.SectionID = *req.SectionID
		}
		if req.Content != nil {
			n.Content = *req.Content
		}
		if req.Color != nil {
			n.Color = *req.Color
		}
		if req.PositionX != nil {
			n.PositionX = ClampPosition(*req.PositionX)
		}
		if req.PositionY != nil {
			n.PositionY = ClampPosition(*req.PositionY)
		}
		if err := s.notes.Update(ctx, n); err != nil {
			return fmt.Errorf("updating note: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	feed.Notify(ctx, s.pub, s.logger, n.BoardID, feed.KindNotes, caller.UserID)
	return n, nil
}

// MoveRequest repositions a note, optionally into another section.
type MoveRequest struct {
	NoteID             string
	PositionX          float64
	PositionY          float64
	SectionID          *string
	FollowSectionColor bool
}

// Move repositions any note on the board. Concurrent moves resolve to the
// last write. Only the note's creator can have it take on the destination
// section's color.
func (s *Service) Move(ctx context.Context, caller identity.Caller, req MoveRequest) (*Note, error) {
	if err := caller.Require(); err != nil {
		return nil, err
	}

	var n *Note
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		n, err = s.loadNote(ctx, req.NoteID)
		if err != nil {
			return err
		}
		n.PositionX = ClampPosition(req.PositionX)
		n.PositionY = ClampPosition(req.PositionY)
		if req.SectionID != nil && *req.SectionID != n.SectionID {
			sec, err := s.loadSection(ctx, n.BoardID, *req.SectionID)
			if err != nil {
				return err
			}
			n.SectionID = sec.ID
			if req.FollowSectionColor && n.CreatedBy == caller.UserID {
				n.Color = sec.Color
			}
		}
		if err := s.notes.Update(ctx, n); err != nil {
			return fmt.Errorf("moving note: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	feed.Notify(ctx, s.pub, s.logger, n.BoardID, feed.KindNotes, caller.UserID)
	return n, nil
}

// Remove deletes a note the caller created, together with its votes.
func (s *Service) Remove(ctx context.Context, caller identity.Caller, noteID string) error {
	if err := caller.Require(); err != nil {
		return err
	}

	var boardID string
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		n, err := s.loadOwned(ctx, caller, noteID)
		if err != nil {
			return err
		}
		boardID = n.BoardID
		if err := s.votes.DeleteByNote(ctx, n.ID); err != nil {
			return fmt.Errorf("deleting votes: %w", err)
		}
		if err := s.notes.Delete(ctx, n.ID); err != nil {
			return fmt.Errorf("deleting note: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	feed.Notify(ctx, s.pub, s.logger, boardID, feed.KindNotes, caller.UserID)
	return nil
}

// Vote toggles the caller's vote on a note. Removing a vote always succeeds;
// adding one is refused once the caller has spent the board's budget.
func (s *Service) Vote(ctx context.Context, caller identity.Caller, noteID, boardID string) (*VoteResult, error) {
	if err := caller.Require(); err != nil {
		return nil, err
	}

	var result *VoteResult
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		b, err := s.loadBoard(ctx, boardID)
		if err != nil {
			return err
		}
		n, err := s.loadNote(ctx, noteID)
		if err != nil {
			return err
		}
		if n.BoardID != b.ID {
			return fmt.Errorf("%w: note is not on board", ErrInvalidInput)
		}

		existing, err := s.votes.Find(ctx, caller.UserID, noteID)
		switch {
		case err == nil:
			if err := s.votes.Delete(ctx, existing.ID); err != nil {
				return fmt.Errorf("removing vote: %w", err)
			}
			result = &VoteResult{Success: true, Action: VoteRemoved}
			return nil
		case !errors.Is(err, repository.ErrNotFound):
			return fmt.Errorf("finding vote: %w", err)
		}

		used, err := s.votes.CountByUserAndBoard(ctx, caller.UserID, boardID)
		if err != nil {
			return fmt.Errorf("counting votes: %w", err)
		}
		if used >= b.VotesPerPerson {
			result = &VoteResult{Success: false, Message: MessageNoVotesRemaining}
			return nil
		}

		v := &Vote{
			ID:        uuid.NewString(),
			NoteID:    noteID,
			BoardID:   boardID,
			UserID:    caller.UserID,
			CreatedAt: s.now(),
		}
		if err := s.votes.Create(ctx, v); err != nil {
			return fmt.Errorf("adding vote: %w", err)
		}
		result = &VoteResult{Success: true, Action: VoteAdded}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.Success {
		feed.Notify(ctx, s.pub, s.logger, boardID, feed.KindNotes, caller.UserID)
	}
	return result, nil
}

// CreateActionItem copies a note into the board's action section.
func (s *Service) CreateActionItem(ctx context.Context, caller identity.Caller, boardID, sourceNoteID string) (*Note, error) {
	if err := caller.Require(); err != nil {
		return nil, err
	}

	var n *Note
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		b, err := s.loadBoard(ctx, boardID)
		if err != nil {
			return err
		}
		if !b.Phase.AcceptsNoteChanges() {
			return ErrBoardFinished
		}
		source, err := s.loadNote(ctx, sourceNoteID)
		if err != nil {
			return err
		}
		if source.BoardID != b.ID {
			return fmt.Errorf("%w: note is not on board", ErrInvalidInput)
		}
		sections, err := s.sections.ListByBoard(ctx, b.ID)
		if err != nil {
			return fmt.Errorf("listing sections: %w", err)
		}
		target, ok := board.FindActionSection(sections)
		if !ok {
			return ErrNoActionSection
		}

		n = &Note{
			ID:        uuid.NewString(),
			BoardID:   b.ID,
			SectionID: target.ID,
			Content:   ActionPrefix + source.Content,
			Color:     target.Color,
			CreatedBy: caller.UserID,
			PositionX: ClampPosition(source.PositionX),
			PositionY: ClampPosition(source.PositionY),
			CreatedAt: s.now(),
		}
		if err := s.notes.Create(ctx, n); err != nil {
			return fmt.Errorf("creating action item: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	feed.Notify(ctx, s.pub, s.logger, boardID, feed.KindNotes, caller.UserID)
	return n, nil
}

// loadOwned applies the edit checks in order: the note exists, its board is
// not finished, and the caller created it.
func (s *Service) loadOwned(ctx context.Context, caller identity.Caller, noteID string) (*Note, error) {
	n, err := s.loadNote(ctx, noteID)
	if err != nil {
		return nil, err
	}
	b, err := s.boards.Get(ctx, n.BoardID)
	switch {
	case err == nil:
		if !b.Phase.AcceptsNoteChanges() {
			return nil, ErrBoardFinished
		}
	case !errors.Is(err, repository.ErrNotFound):
		return nil, fmt.Errorf("getting board: %w", err)
	}
	if n.CreatedBy != caller.UserID {
		return nil, ErrNotAuthorized
	}
	return n, nil
}

func (s *Service) loadNote(ctx context.Context, noteID string) (*Note, error) {
	n, err := s.notes.Get(ctx, noteID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNoteNotFound
		}
		return nil, fmt.Errorf("getting note: %w", err)
	}
	return n, nil
}

func (s *Service) loadBoard(ctx context.Context, boardID string) (*board.Board, error) {
	b, err := s.boards.Get(ctx, boardID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, board.ErrBoardNotFound
		}
		return nil, fmt.Errorf("getting board: %w", err)
	}
	return b, nil
}

func (s *Service) loadSection(ctx context.Context, boardID, sectionID string) (*board.Section, error) {
	sec, err := s.sections.Get(ctx, sectionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSectionNotFound
		}
		return nil, fmt.Errorf("getting section: %w", err)
	}
	if sec.BoardID != boardID {
		return nil, ErrSectionNotFound
	}
	return sec, nil
}
