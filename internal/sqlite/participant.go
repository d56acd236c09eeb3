package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rpggio/retroboard/internal/domain/participant"
)

// ParticipantRepository implements participant.Repository for SQLite
type ParticipantRepository struct {
	db *DB
}

// NewParticipantRepository creates a new ParticipantRepository
func NewParticipantRepository(db *DB) *ParticipantRepository {
	return &ParticipantRepository{db: db}
}

const participantColumns = `id, board_id, user_id, name, is_active, last_seen, folder_id,
	cursor_x, cursor_y, viewport_x, viewport_y, zoom`

func scanParticipant(row rowScanner) (participant.Participant, error) {
	var (
		p         participant.Participant
		lastSeen  int64
		folderID  sql.NullString
		cursorX   sql.NullFloat64
		cursorY   sql.NullFloat64
		viewportX sql.NullFloat64
		viewportY sql.NullFloat64
		zoom      sql.NullFloat64
	)
	err := row.Scan(
		&p.ID,
		&p.BoardID,
		&p.UserID,
		&p.Name,
		&p.IsActive,
		&lastSeen,
		&folderID,
		&cursorX,
		&cursorY,
		&viewportX,
		&viewportY,
		&zoom,
	)
	if err != nil {
		return participant.Participant{}, err
	}

	p.LastSeen = fromMillis(lastSeen)
	p.FolderID = stringPtr(folderID)
	if cursorX.Valid && cursorY.Valid {
		p.Cursor = &participant.Cursor{
			X:         cursorX.Float64,
			Y:         cursorY.Float64,
			ViewportX: floatPtr(viewportX),
			ViewportY: floatPtr(viewportY),
			Zoom:      floatPtr(zoom),
		}
	}
	return p, nil
}

// FindByUserAndBoard returns a user's participant row on a board
func (r *ParticipantRepository) FindByUserAndBoard(ctx context.Context, userID, boardID string) (*participant.Participant, error) {
	query := `SELECT ` + participantColumns + ` FROM participants WHERE user_id = ? AND board_id = ?`

	p, err := scanParticipant(r.db.conn(ctx).QueryRowContext(ctx, query, userID, boardID))
	if err != nil {
		return nil, readError("find participant", err)
	}
	return &p, nil
}

// Create inserts a participant
func (r *ParticipantRepository) Create(ctx context.Context, p *participant.Participant) error {
	query := `
		INSERT INTO participants (id, board_id, user_id, name, is_active, last_seen, folder_id)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.conn(ctx).ExecContext(ctx, query,
		p.ID,
		p.BoardID,
		p.UserID,
		p.Name,
		p.IsActive,
		toMillis(p.LastSeen),
		nullString(p.FolderID),
	)
	if err != nil {
		return writeError("create participant", err)
	}
	return nil
}

// Enroll inserts an active participant, or marks an existing one active
func (r *ParticipantRepository) Enroll(ctx context.Context, boardID, userID, name string, at time.Time) error {
	query := `
		INSERT INTO participants (id, board_id, user_id, name, is_active, last_seen)
		VALUES (?, ?, ?, ?, 1, ?)
		ON CONFLICT (user_id, board_id) DO UPDATE SET is_active = 1, last_seen = excluded.last_seen
	`

	_, err := r.db.conn(ctx).ExecContext(ctx, query, uuid.NewString(), boardID, userID, name, toMillis(at))
	if err != nil {
		return writeError("enroll participant", err)
	}
	return nil
}

// Touch sets the active flag and last-seen time
func (r *ParticipantRepository) Touch(ctx context.Context, id string, active bool, lastSeen time.Time) error {
	result, err := r.db.conn(ctx).ExecContext(ctx,
		`UPDATE participants SET is_active = ?, last_seen = ? WHERE id = ?`,
		active, toMillis(lastSeen), id,
	)
	if err != nil {
		return writeError("touch participant", err)
	}
	return requireAffected("touch participant", result)
}

// SetActive sets the active flag without touching last-seen
func (r *ParticipantRepository) SetActive(ctx context.Context, id string, active bool) error {
	result, err := r.db.conn(ctx).ExecContext(ctx, `UPDATE participants SET is_active = ? WHERE id = ?`, active, id)
	if err != nil {
		return writeError("update participant", err)
	}
	return requireAffected("update participant", result)
}

// UpdateCursor stores the latest cursor position
func (r *ParticipantRepository) UpdateCursor(ctx context.Context, id string, c participant.Cursor) error {
	query := `
		UPDATE participants
		SET cursor_x = ?, cursor_y = ?, viewport_x = ?, viewport_y = ?, zoom = ?
		WHERE id = ?
	`

	result, err := r.db.conn(ctx).ExecContext(ctx, query,
		c.X,
		c.Y,
		nullFloat(c.ViewportX),
		nullFloat(c.ViewportY),
		nullFloat(c.Zoom),
		id,
	)
	if err != nil {
		return writeError("update cursor", err)
	}
	return requireAffected("update cursor", result)
}

// SetFolder files the participant's board into a folder, or clears it
func (r *ParticipantRepository) SetFolder(ctx context.Context, id string, folderID *string) error {
	result, err := r.db.conn(ctx).ExecContext(ctx,
		`UPDATE participants SET folder_id = ? WHERE id = ?`, nullString(folderID), id,
	)
	if err != nil {
		return writeError("set folder", err)
	}
	return requireAffected("set folder", result)
}

// ClearFolder un-files every board of a user from a folder
func (r *ParticipantRepository) ClearFolder(ctx context.Context, userID, folderID string) (int64, error) {
	result, err := r.db.conn(ctx).ExecContext(ctx,
		`UPDATE participants SET folder_id = NULL WHERE user_id = ? AND folder_id = ?`, userID, folderID,
	)
	if err != nil {
		return 0, writeError("clear folder", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to clear folder: %w", err)
	}
	return n, nil
}

// ListByBoard returns every participant row of a board
func (r *ParticipantRepository) ListByBoard(ctx context.Context, boardID string) ([]participant.Participant, error) {
	query := `SELECT ` + participantColumns + ` FROM participants WHERE board_id = ? ORDER BY rowid ASC`

	rows, err := r.db.conn(ctx).QueryContext(ctx, query, boardID)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}
	defer rows.Close()

	var list []participant.Participant
	for rows.Next() {
		p, err := scanParticipant(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		list = append(list, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate participants: %w", err)
	}
	return list, nil
}

// DeleteByBoard deletes every participant row of a board
func (r *ParticipantRepository) DeleteByBoard(ctx context.Context, boardID string) error {
	if _, err := r.db.conn(ctx).ExecContext(ctx, `DELETE FROM participants WHERE board_id = ?`, boardID); err != nil {
		return writeError("delete participants", err)
	}
	return nil
}
