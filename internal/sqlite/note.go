package sqlite

import (
	"context"
	"fmt"

	"github.com/rpggio/retroboard/internal/domain/board"
	"github.com/rpggio/retroboard/internal/domain/note"
)

// NoteRepository implements note.Repository for SQLite
type NoteRepository struct {
	db *DB
}

// NewNoteRepository creates a new NoteRepository
func NewNoteRepository(db *DB) *NoteRepository {
	return &NoteRepository{db: db}
}

const noteColumns = `id, board_id, section_id, content, color, created_by, position_x, position_y, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanNote(row rowScanner) (note.Note, error) {
	var (
		n         note.Note
		color     string
		createdAt int64
	)
	err := row.Scan(
		&n.ID,
		&n.BoardID,
		&n.SectionID,
		&n.Content,
		&color,
		&n.CreatedBy,
		&n.PositionX,
		&n.PositionY,
		&createdAt,
	)
	if err != nil {
		return note.Note{}, err
	}
	n.Color = board.Color(color)
	n.CreatedAt = fromMillis(createdAt)
	return n, nil
}

// Create creates a new note
func (r *NoteRepository) Create(ctx context.Context, n *note.Note) error {
	query := `INSERT INTO notes (` + noteColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.conn(ctx).ExecContext(ctx, query,
		n.ID,
		n.BoardID,
		n.SectionID,
		n.Content,
		string(n.Color),
		n.CreatedBy,
		n.PositionX,
		n.PositionY,
		toMillis(n.CreatedAt),
	)
	if err != nil {
		return writeError("create note", err)
	}
	return nil
}

// Get retrieves a note by ID
func (r *NoteRepository) Get(ctx context.Context, id string) (*note.Note, error) {
	query := `SELECT ` + noteColumns + ` FROM notes WHERE id = ?`

	n, err := scanNote(r.db.conn(ctx).QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, readError("get note", err)
	}
	return &n, nil
}

// Update writes the note's section, content, color and position
func (r *NoteRepository) Update(ctx context.Context, n *note.Note) error {
	query := `
		UPDATE notes
		SET section_id = ?, content = ?, color = ?, position_x = ?, position_y = ?
		WHERE id = ?
	`

	result, err := r.db.conn(ctx).ExecContext(ctx, query,
		n.SectionID,
		n.Content,
		string(n.Color),
		n.PositionX,
		n.PositionY,
		n.ID,
	)
	if err != nil {
		return writeError("update note", err)
	}
	return requireAffected("update note", result)
}

// Delete deletes a note. Its votes must be removed first.
func (r *NoteRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.conn(ctx).ExecContext(ctx, `DELETE FROM notes WHERE id = ?`, id)
	if err != nil {
		return writeError("delete note", err)
	}
	return requireAffected("delete note", result)
}

// ListByBoard returns a board's notes in creation order
func (r *NoteRepository) ListByBoard(ctx context.Context, boardID string) ([]note.Note, error) {
	query := `SELECT ` + noteColumns + ` FROM notes WHERE board_id = ? ORDER BY created_at ASC, rowid ASC`

	rows, err := r.db.conn(ctx).QueryContext(ctx, query, boardID)
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}
	defer rows.Close()

	var notes []note.Note
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan note: %w", err)
		}
		notes = append(notes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate notes: %w", err)
	}
	return notes, nil
}

// DeleteByBoard deletes every note of a board
func (r *NoteRepository) DeleteByBoard(ctx context.Context, boardID string) error {
	if _, err := r.db.conn(ctx).ExecContext(ctx, `DELETE FROM notes WHERE board_id = ?`, boardID); err != nil {
		return writeError("delete notes", err)
	}
	return nil
}
