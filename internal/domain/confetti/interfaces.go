package confetti

import (
	"context"
	"time"
)

// Repository provides persistence for confetti events.
type Repository interface {
	Create(ctx context.Context, e *Event) error
	// Recent returns up to limit of the newest events, oldest first.
	Recent(ctx context.Context, boardID string, limit int) ([]Event, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
