package folder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rpggio/retroboard/internal/domain/identity"
	"github.com/rpggio/retroboard/internal/repository"
)

// Service handles folder operations.
type Service struct {
	repo         Repository
	participants ParticipantRepository
	tx           repository.Transactor
	logger       *slog.Logger
}

// NewService creates a new folder service.
func NewService(repo Repository, participants ParticipantRepository, tx repository.Transactor, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{repo: repo, participants: participants, tx: tx, logger: logger}
}

// List returns the caller's folders.
func (s *Service) List(ctx context.Context, caller identity.Caller) ([]Folder, error) {
	if !caller.Authenticated() {
		return []Folder{}, nil
	}
	folders, err := s.repo.ListByUser(ctx, caller.UserID)
	if err != nil {
		return nil, fmt.Errorf("listing folders: %w", err)
	}
	if folders == nil {
		folders = []Folder{}
	}
	return folders, nil
}

// Create creates a folder owned by the caller.
func (s *Service) Create(ctx context.Context, caller identity.Caller, name string, color *string) (*Folder, error) {
	if err := caller.Require(); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidInput
	}

	f := &Folder{
		ID:        uuid.NewString(),
		UserID:    caller.UserID,
		Name:      name,
		Color:     color,
		CreatedAt: time.Now(),
	}
	if err := s.repo.Create(ctx, f); err != nil {
		return nil, fmt.Errorf("creating folder: %w", err)
	}
	return f, nil
}

// Rename renames a folder owned by the caller. Folders of other users are
// reported as missing.
func (s *Service) Rename(ctx context.Context, caller identity.Caller, id, name string) error {
	if err := caller.Require(); err != nil {
		return err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrInvalidInput
	}

	f, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrFolderNotFound
		}
		return fmt.Errorf("getting folder: %w", err)
	}
	if f.UserID != caller.UserID {
		return ErrFolderNotFound
	}

	if err := s.repo.Rename(ctx, id, name); err != nil {
		return fmt.Errorf("renaming folder: %w", err)
	}
	return nil
}

// Remove deletes a folder after un-filing every board in it.
func (s *Service) Remove(ctx context.Context, caller identity.Caller, id string) error {
	if err := caller.Require(); err != nil {
		return err
	}

	return s.tx.WithinTx(ctx, func(ctx context.Context) error {
		f, err := s.repo.Get(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrFolderNotFound
			}
			return fmt.Errorf("getting folder: %w", err)
		}
		if f.UserID != caller.UserID {
			return ErrNotAuthorized
		}

		n, err := s.participants.ClearFolder(ctx, caller.UserID, id)
		if err != nil {
			return fmt.Errorf("un-filing boards: %w", err)
		}
		if err := s.repo.Delete(ctx, id); err != nil {
			return fmt.Errorf("deleting folder: %w", err)
		}
		s.logger.Debug("folder removed", "folder_id", id, "unfiled", n)
		return nil
	})
}
