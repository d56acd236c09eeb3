package confetti

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rpggio/retroboard/internal/domain/board"
	"github.com/rpggio/retroboard/internal/domain/identity"
	"github.com/rpggio/retroboard/internal/feed"
	"github.com/rpggio/retroboard/internal/repository"
)

// Service appends and replays confetti bursts.
type Service struct {
	repo   Repository
	pub    feed.Publisher
	logger *slog.Logger
	now    func() time.Time
}

// NewService creates a new confetti service.
func NewService(repo Repository, pub feed.Publisher, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{repo: repo, pub: pub, logger: logger, now: time.Now}
}

// SetClock overrides the time source.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// FireRequest describes a burst. Type is opaque to the server.
type FireRequest struct {
	BoardID  string
	Type     string
	OriginX  float64
	OriginY  float64
	Angle    float64
	Velocity float64
	Distance float64
}

// Fire records a burst sent by the caller.
func (s *Service) Fire(ctx context.Context, caller identity.Caller, req FireRequest) (*Event, error) {
	if err := caller.Require(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.BoardID) == "" {
		return nil, ErrInvalidInput
	}

	kind := strings.TrimSpace(req.Type)
	if kind == "" {
		kind = DefaultType
	}

	e := &Event{
		ID:        uuid.NewString(),
		BoardID:   req.BoardID,
		SenderID:  caller.UserID,
		Type:      kind,
		OriginX:   req.OriginX,
		OriginY:   req.OriginY,
		Angle:     req.Angle,
		Velocity:  req.Velocity,
		Distance:  req.Distance,
		CreatedAt: s.now(),
	}
	if err := s.repo.Create(ctx, e); err != nil {
		if errors.Is(err, repository.ErrForeignKeyViolation) {
			return nil, board.ErrBoardNotFound
		}
		return nil, fmt.Errorf("recording confetti: %w", err)
	}

	feed.Notify(ctx, s.pub, s.logger, e.BoardID, feed.KindConfetti, caller.UserID)
	return e, nil
}

// Recent returns the newest events of a board, oldest first.
func (s *Service) Recent(ctx context.Context, boardID string) ([]Event, error) {
	events, err := s.repo.Recent(ctx, boardID, RecentLimit)
	if err != nil {
		return nil, fmt.Errorf("listing confetti: %w", err)
	}
	if events == nil {
		events = []Event{}
	}
	return events, nil
}

// Prune deletes events older than retention.
func (s *Service) Prune(ctx context.Context, retention time.Duration) (int64, error) {
	n, err := s.repo.DeleteOlderThan(ctx, s.now().Add(-retention))
	if err != nil {
		return 0, fmt.Errorf("pruning confetti: %w", err)
	}
	if n > 0 {
		s.logger.Debug("confetti pruned", "deleted", n)
	}
	return n, nil
}

// RunPruner prunes every interval until ctx is done.
func (s *Service) RunPruner(ctx context.Context, interval, retention time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.Prune(ctx, retention); err != nil && ctx.Err() == nil {
				s.logger.Warn("confetti prune failed", "error", err)
			}
		}
	}
}
