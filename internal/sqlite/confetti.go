package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/rpggio/retroboard/internal/domain/confetti"
)

// ConfettiRepository implements confetti.Repository for SQLite
type ConfettiRepository struct {
	db *DB
}

// NewConfettiRepository creates a new ConfettiRepository
func NewConfettiRepository(db *DB) *ConfettiRepository {
	return &ConfettiRepository{db: db}
}

// Create appends a confetti event
func (r *ConfettiRepository) Create(ctx context.Context, e *confetti.Event) error {
	query := `
		INSERT INTO confetti_events (id, board_id, sender_id, type, origin_x, origin_y,
			angle, velocity, distance, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.conn(ctx).ExecContext(ctx, query,
		e.ID,
		e.BoardID,
		e.SenderID,
		e.Type,
		e.OriginX,
		e.OriginY,
		e.Angle,
		e.Velocity,
		e.Distance,
		toMillis(e.CreatedAt),
	)
	if err != nil {
		return writeError("create confetti event", err)
	}
	return nil
}

// Recent returns up to limit of a board's newest events, oldest first.
// Events created in the same millisecond keep insertion order.
func (r *ConfettiRepository) Recent(ctx context.Context, boardID string, limit int) ([]confetti.Event, error) {
	query := `
		SELECT id, board_id, sender_id, type, origin_x, origin_y, angle, velocity, distance, created_at
		FROM (
			SELECT rowid AS seq, *
			FROM confetti_events
			WHERE board_id = ?
			ORDER BY created_at DESC, rowid DESC
			LIMIT ?
		)
		ORDER BY created_at ASC, seq ASC
	`

	rows, err := r.db.conn(ctx).QueryContext(ctx, query, boardID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list confetti events: %w", err)
	}
	defer rows.Close()

	var events []confetti.Event
	for rows.Next() {
		var (
			e         confetti.Event
			createdAt int64
		)
		if err := rows.Scan(
			&e.ID,
			&e.BoardID,
			&e.SenderID,
			&e.Type,
			&e.OriginX,
			&e.OriginY,
			&e.Angle,
			&e.Velocity,
			&e.Distance,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan confetti event: %w", err)
		}
		e.CreatedAt = fromMillis(createdAt)
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate confetti events: %w", err)
	}
	return events, nil
}

// DeleteOlderThan removes events created before cutoff
func (r *ConfettiRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := r.db.conn(ctx).ExecContext(ctx, `DELETE FROM confetti_events WHERE created_at < ?`, toMillis(cutoff))
	if err != nil {
		return 0, writeError("prune confetti events", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to prune confetti events: %w", err)
	}
	return n, nil
}

// DeleteByBoard removes every event of a board
func (r *ConfettiRepository) DeleteByBoard(ctx context.Context, boardID string) error {
	if _, err := r.db.conn(ctx).ExecContext(ctx, `DELETE FROM confetti_events WHERE board_id = ?`, boardID); err != nil {
		return writeError("delete confetti events", err)
	}
	return nil
}
