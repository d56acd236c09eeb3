// Package feed fans out board change notifications to live subscribers.
package feed

import (
	"context"
	"log/slog"
	"time"
)

// Kind identifies which derived view of a board a change affects.
type Kind string

const (
	KindBoard        Kind = "board"
	KindNotes        Kind = "notes"
	KindParticipants Kind = "participants"
	KindCursors      Kind = "cursors"
	KindConfetti     Kind = "confetti"
	KindDeleted      Kind = "deleted"
)

// Change is published after a mutation commits.
type Change struct {
	BoardID string    `json:"board_id"`
	Kind    Kind      `json:"kind"`
	ActorID string    `json:"actor_id,omitempty"`
	At      time.Time `json:"at"`
}

// Publisher accepts changes for delivery.
type Publisher interface {
	Publish(ctx context.Context, change Change) error
}

// Broker delivers published changes to per-board subscribers.
type Broker interface {
	Publisher
	// Subscribe returns a channel of changes for boardID and a cancel func
	// that releases the subscription and closes the channel.
	Subscribe(ctx context.Context, boardID string) (<-chan Change, func())
	Close() error
}

// Notify publishes a change, logging instead of failing when delivery errors.
// A nil publisher is a no-op.
func Notify(ctx context.Context, pub Publisher, logger *slog.Logger, boardID string, kind Kind, actorID string) {
	if pub == nil {
		return
	}
	change := Change{BoardID: boardID, Kind: kind, ActorID: actorID, At: time.Now()}
	if err := pub.Publish(ctx, change); err != nil && logger != nil {
		logger.Warn("failed to publish board change", "board_id", boardID, "kind", kind, "error", err)
	}
}

func channelName(boardID string) string {
	return "retro:board:" + boardID
}
