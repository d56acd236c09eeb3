package board

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rpggio/retroboard/internal/domain/identity"
	"github.com/rpggio/retroboard/internal/domain/user"
	"github.com/rpggio/retroboard/internal/feed"
	"github.com/rpggio/retroboard/internal/repository"
)

// Stores groups the repositories the board service touches.
type Stores struct {
	Boards       Repository
	Sections     SectionRepository
	Notes        NoteRepository
	Votes        VoteRepository
	Participants ParticipantRepository
	Confetti     ConfettiRepository
	Users        UserRepository
}

// Service handles board lifecycle, phase and timer operations.
type Service struct {
	stores Stores
	tx     repository.Transactor
	pub    feed.Publisher
	logger *slog.Logger
	now    func() time.Time
}

// NewService creates a new board service.
func NewService(stores Stores, tx repository.Transactor, pub feed.Publisher, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{stores: stores, tx: tx, pub: pub, logger: logger, now: time.Now}
}

// SetClock overrides the time source.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// SectionInput describes one section of a new board.
type SectionInput struct {
	Name  string `json:"name"`
	Color Color  `json:"color"`
}

// CreateRequest defines board creation inputs.
type CreateRequest struct {
	Name     string
	Sections []SectionInput
}

// Create creates a board with its sections and enrolls the creator.
func (s *Service) Create(ctx context.Context, caller identity.Caller, req CreateRequest) (*Board, error) {
	if err := caller.Require(); err != nil {
		return nil, err
	}
	if len(req.Sections) == 0 {
		return nil, fmt.Errorf("%w: at least one section is required", ErrInvalidInput)
	}
	for i, sec := range req.Sections {
		if strings.TrimSpace(sec.Name) == "" {
			return nil, fmt.Errorf("%w: section %d has no name", ErrInvalidInput, i)
		}
		if !sec.Color.Valid() {
			return nil, fmt.Errorf("%w: section %d has invalid color %q", ErrInvalidInput, i, sec.Color)
		}
	}

	now := s.now()
	b := &Board{
		ID:             uuid.NewString(),
		Name:           strings.TrimSpace(req.Name),
		CreatedBy:      caller.UserID,
		Phase:          PhaseWriting,
		VotesPerPerson: DefaultVotesPerPerson,
		CreatedAt:      now,
	}

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		name, err := s.displayName(ctx, caller.UserID)
		if err != nil {
			return err
		}
		if err := s.stores.Boards.Create(ctx, b); err != nil {
			return fmt.Errorf("creating board: %w", err)
		}
		for i, in := range req.Sections {
			sec := &Section{
				ID:       uuid.NewString(),
				BoardID:  b.ID,
				Name:     strings.TrimSpace(in.Name),
				Color:    in.Color,
				Position: i,
			}
			if err := s.stores.Sections.Create(ctx, sec); err != nil {
				return fmt.Errorf("creating section: %w", err)
			}
		}
		if err := s.stores.Participants.Enroll(ctx, b.ID, caller.UserID, name, now); err != nil {
			return fmt.Errorf("enrolling creator: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("board created", "board_id", b.ID, "user_id", caller.UserID, "sections", len(req.Sections))
	return b, nil
}

// List returns the boards the caller participates in, newest first.
func (s *Service) List(ctx context.Context, caller identity.Caller) ([]Summary, error) {
	if !caller.Authenticated() {
		return []Summary{}, nil
	}
	list, err := s.stores.Boards.ListForUser(ctx, caller.UserID)
	if err != nil {
		return nil, fmt.Errorf("listing boards: %w", err)
	}
	if list == nil {
		list = []Summary{}
	}
	return list, nil
}

// PhaseUpdate defines a phase change. Any known phase may follow any other.
type PhaseUpdate struct {
	BoardID        string
	Phase          Phase
	VotesPerPerson *int
	ResetVotes     bool
}

// UpdatePhase sets the board phase and optionally the vote budget, clearing
// all votes when requested.
func (s *Service) UpdatePhase(ctx context.Context, caller identity.Caller, req PhaseUpdate) (*Board, error) {
	if err := caller.Require(); err != nil {
		return nil, err
	}
	if !req.Phase.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPhase, req.Phase)
	}
	if req.VotesPerPerson != nil && *req.VotesPerPerson < 0 {
		return nil, fmt.Errorf("%w: votesPerPerson must not be negative", ErrInvalidInput)
	}

	var b *Board
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		b, err = s.load(ctx, req.BoardID)
		if err != nil {
			return err
		}
		b.Phase = req.Phase
		if req.VotesPerPerson != nil {
			b.VotesPerPerson = *req.VotesPerPerson
		}
		if err := s.stores.Boards.Update(ctx, b); err != nil {
			return fmt.Errorf("updating board: %w", err)
		}
		if req.ResetVotes {
			n, err := s.stores.Votes.DeleteByBoard(ctx, b.ID)
			if err != nil {
				return fmt.Errorf("resetting votes: %w", err)
			}
			s.logger.Debug("votes reset", "board_id", b.ID, "deleted", n)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	feed.Notify(ctx, s.pub, s.logger, b.ID, feed.KindBoard, caller.UserID)
	return b, nil
}

// Remove deletes a board and everything attached to it.
func (s *Service) Remove(ctx context.Context, caller identity.Caller, boardID string) error {
	if err := caller.Require(); err != nil {
		return err
	}

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.load(ctx, boardID); err != nil {
			return err
		}
		if _, err := s.stores.Votes.DeleteByBoard(ctx, boardID); err != nil {
			return fmt.Errorf("deleting votes: %w", err)
		}
		if err := s.stores.Notes.DeleteByBoard(ctx, boardID); err != nil {
			return fmt.Errorf("deleting notes: %w", err)
		}
		if err := s.stores.Sections.DeleteByBoard(ctx, boardID); err != nil {
			return fmt.Errorf("deleting sections: %w", err)
		}
		if err := s.stores.Participants.DeleteByBoard(ctx, boardID); err != nil {
			return fmt.Errorf("deleting participants: %w", err)
		}
		if err := s.stores.Confetti.DeleteByBoard(ctx, boardID); err != nil {
			return fmt.Errorf("deleting confetti: %w", err)
		}
		if err := s.stores.Boards.Delete(ctx, boardID); err != nil {
			return fmt.Errorf("deleting board: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("board removed", "board_id", boardID, "user_id", caller.UserID)
	feed.Notify(ctx, s.pub, s.logger, boardID, feed.KindDeleted, caller.UserID)
	return nil
}

// StartTimer begins a countdown of d.
func (s *Service) StartTimer(ctx context.Context, caller identity.Caller, boardID string, d time.Duration) (*Board, error) {
	if d <= 0 {
		return nil, fmt.Errorf("%w: duration must be positive", ErrInvalidInput)
	}
	return s.updateTimer(ctx, caller, boardID, func(t *Timer, now time.Time) bool {
		t.Start(d, now)
		return true
	})
}

// PauseTimer freezes a running countdown.
func (s *Service) PauseTimer(ctx context.Context, caller identity.Caller, boardID string) (*Board, error) {
	return s.updateTimer(ctx, caller, boardID, func(t *Timer, now time.Time) bool {
		return t.Pause(now)
	})
}

// ResumeTimer continues a paused countdown.
func (s *Service) ResumeTimer(ctx context.Context, caller identity.Caller, boardID string) (*Board, error) {
	return s.updateTimer(ctx, caller, boardID, func(t *Timer, now time.Time) bool {
		return t.Resume(now)
	})
}

// ResetTimer clears the countdown.
func (s *Service) ResetTimer(ctx context.Context, caller identity.Caller, boardID string) (*Board, error) {
	return s.updateTimer(ctx, caller, boardID, func(t *Timer, _ time.Time) bool {
		t.Reset()
		return true
	})
}

func (s *Service) updateTimer(ctx context.Context, caller identity.Caller, boardID string, apply func(*Timer, time.Time) bool) (*Board, error) {
	if err := caller.Require(); err != nil {
		return nil, err
	}

	var (
		b       *Board
		changed bool
	)
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		b, err = s.load(ctx, boardID)
		if err != nil {
			return err
		}
		if changed = apply(&b.Timer, s.now()); !changed {
			return nil
		}
		if err := s.stores.Boards.Update(ctx, b); err != nil {
			return fmt.Errorf("updating timer: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if changed {
		feed.Notify(ctx, s.pub, s.logger, b.ID, feed.KindBoard, caller.UserID)
	}
	return b, nil
}

func (s *Service) load(ctx context.Context, boardID string) (*Board, error) {
	b, err := s.stores.Boards.Get(ctx, boardID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrBoardNotFound
		}
		return nil, fmt.Errorf("getting board: %w", err)
	}
	return b, nil
}

func (s *Service) displayName(ctx context.Context, userID string) (string, error) {
	u, err := s.stores.Users.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return user.AnonymousName, nil
		}
		return "", fmt.Errorf("getting user: %w", err)
	}
	return u.DisplayName(), nil
}
