package user

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rpggio/retroboard/internal/domain/identity"
	"github.com/rpggio/retroboard/internal/repository"
)

// Service handles user lookups and token resolution.
type Service struct {
	repo   Repository
	tokens TokenRepository
	tx     repository.Transactor
	logger *slog.Logger
}

// NewService creates a new user service.
func NewService(repo Repository, tokens TokenRepository, tx repository.Transactor, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{repo: repo, tokens: tokens, tx: tx, logger: logger}
}

// RegisterRequest defines user creation inputs.
type RegisterRequest struct {
	Name  string
	Email string
}

// Register creates a user and issues an API token for it.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*Registration, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrInvalidInput
	}

	token, err := newToken()
	if err != nil {
		return nil, fmt.Errorf("generating token: %w", err)
	}

	u := &User{
		ID:        uuid.NewString(),
		Name:      name,
		Email:     strings.TrimSpace(req.Email),
		CreatedAt: time.Now(),
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, u); err != nil {
			return fmt.Errorf("creating user: %w", err)
		}
		if err := s.tokens.CreateToken(ctx, u.ID, HashToken(token)); err != nil {
			return fmt.Errorf("storing token: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("user registered", "user_id", u.ID)
	return &Registration{User: u, Token: token}, nil
}

// Current returns the caller's user record, or nil for the anonymous caller.
func (s *Service) Current(ctx context.Context, caller identity.Caller) (*User, error) {
	if !caller.Authenticated() {
		return nil, nil
	}
	u, err := s.repo.Get(ctx, caller.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("getting user: %w", err)
	}
	return u, nil
}

// ResolveToken maps a bearer token to its caller.
func (s *Service) ResolveToken(ctx context.Context, token string) (identity.Caller, error) {
	if token == "" {
		return identity.Anonymous(), ErrInvalidToken
	}
	userID, err := s.tokens.ResolveToken(ctx, HashToken(token))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return identity.Anonymous(), ErrInvalidToken
		}
		return identity.Anonymous(), fmt.Errorf("resolving token: %w", err)
	}
	return identity.User(userID), nil
}

// HashToken returns the stored form of a token.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func newToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
