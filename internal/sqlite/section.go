package sqlite

import (
	"context"
	"fmt"

	"github.com/rpggio/retroboard/internal/domain/board"
)

// SectionRepository implements board.SectionRepository for SQLite
type SectionRepository struct {
	db *DB
}

// NewSectionRepository creates a new SectionRepository
func NewSectionRepository(db *DB) *SectionRepository {
	return &SectionRepository{db: db}
}

// Create creates a new section
func (r *SectionRepository) Create(ctx context.Context, s *board.Section) error {
	query := `
		INSERT INTO sections (id, board_id, name, color, position)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err := r.db.conn(ctx).ExecContext(ctx, query, s.ID, s.BoardID, s.Name, string(s.Color), s.Position)
	if err != nil {
		return writeError("create section", err)
	}
	return nil
}

// Get retrieves a section by ID
func (r *SectionRepository) Get(ctx context.Context, id string) (*board.Section, error) {
	query := `SELECT id, board_id, name, color, position FROM sections WHERE id = ?`

	var (
		s     board.Section
		color string
	)
	err := r.db.conn(ctx).QueryRowContext(ctx, query, id).Scan(&s.ID, &s.BoardID, &s.Name, &color, &s.Position)
	if err != nil {
		return nil, readError("get section", err)
	}
	s.Color = board.Color(color)
	return &s, nil
}

// ListByBoard returns a board's sections in display order
func (r *SectionRepository) ListByBoard(ctx context.Context, boardID string) ([]board.Section, error) {
	query := `
		SELECT id, board_id, name, color, position
		FROM sections
		WHERE board_id = ?
		ORDER BY position ASC
	`

	rows, err := r.db.conn(ctx).QueryContext(ctx, query, boardID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sections: %w", err)
	}
	defer rows.Close()

	var sections []board.Section
	for rows.Next() {
		var (
			s     board.Section
			color string
		)
		if err := rows.Scan(&s.ID, &s.BoardID, &s.Name, &color, &s.Position); err != nil {
			return nil, fmt.Errorf("failed to scan section: %w", err)
		}
		s.Color = board.Color(color)
		sections = append(sections, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate sections: %w", err)
	}
	return sections, nil
}

// DeleteByBoard deletes every section of a board
func (r *SectionRepository) DeleteByBoard(ctx context.Context, boardID string) error {
	if _, err := r.db.conn(ctx).ExecContext(ctx, `DELETE FROM sections WHERE board_id = ?`, boardID); err != nil {
		return writeError("delete sections", err)
	}
	return nil
}
