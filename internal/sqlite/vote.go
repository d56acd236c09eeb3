package sqlite

import (
	"context"
	"fmt"

	"github.com/rpggio/retroboard/internal/domain/note"
)

// VoteRepository implements note.VoteRepository for SQLite
type VoteRepository struct {
	db *DB
}

// NewVoteRepository creates a new VoteRepository
func NewVoteRepository(db *DB) *VoteRepository {
	return &VoteRepository{db: db}
}

// Find returns a user's vote on a note
func (r *VoteRepository) Find(ctx context.Context, userID, noteID string) (*note.Vote, error) {
	query := `
		SELECT id, note_id, board_id, user_id, created_at
		FROM votes
		WHERE user_id = ? AND note_id = ?
	`

	var (
		v         note.Vote
		createdAt int64
	)
	err := r.db.conn(ctx).QueryRowContext(ctx, query, userID, noteID).Scan(
		&v.ID, &v.NoteID, &v.BoardID, &v.UserID, &createdAt,
	)
	if err != nil {
		return nil, readError("find vote", err)
	}
	v.CreatedAt = fromMillis(createdAt)
	return &v, nil
}

// Create records a vote
func (r *VoteRepository) Create(ctx context.Context, v *note.Vote) error {
	query := `
		INSERT INTO votes (id, note_id, board_id, user_id, created_at)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err := r.db.conn(ctx).ExecContext(ctx, query, v.ID, v.NoteID, v.BoardID, v.UserID, toMillis(v.CreatedAt))
	if err != nil {
		return writeError("create vote", err)
	}
	return nil
}

// Delete removes a vote
func (r *VoteRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.conn(ctx).ExecContext(ctx, `DELETE FROM votes WHERE id = ?`, id)
	if err != nil {
		return writeError("delete vote", err)
	}
	return requireAffected("delete vote", result)
}

// CountByUserAndBoard counts the votes a user has cast on a board
func (r *VoteRepository) CountByUserAndBoard(ctx context.Context, userID, boardID string) (int, error) {
	var count int
	err := r.db.conn(ctx).QueryRowContext(ctx,
		`SELECT COUNT(*) FROM votes WHERE user_id = ? AND board_id = ?`, userID, boardID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count votes: %w", err)
	}
	return count, nil
}

// DeleteByNote removes every vote on a note
func (r *VoteRepository) DeleteByNote(ctx context.Context, noteID string) error {
	if _, err := r.db.conn(ctx).ExecContext(ctx, `DELETE FROM votes WHERE note_id = ?`, noteID); err != nil {
		return writeError("delete votes", err)
	}
	return nil
}

// DeleteByBoard removes every vote on a board and returns how many were removed
func (r *VoteRepository) DeleteByBoard(ctx context.Context, boardID string) (int64, error) {
	result, err := r.db.conn(ctx).ExecContext(ctx, `DELETE FROM votes WHERE board_id = ?`, boardID)
	if err != nil {
		return 0, writeError("delete votes", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to delete votes: %w", err)
	}
	return n, nil
}

// ListByBoard returns every vote on a board
func (r *VoteRepository) ListByBoard(ctx context.Context, boardID string) ([]note.Vote, error) {
	query := `
		SELECT id, note_id, board_id, user_id, created_at
		FROM votes
		WHERE board_id = ?
		ORDER BY created_at ASC, rowid ASC
	`

	rows, err := r.db.conn(ctx).QueryContext(ctx, query, boardID)
	if err != nil {
		return nil, fmt.Errorf("failed to list votes: %w", err)
	}
	defer rows.Close()

	var votes []note.Vote
	for rows.Next() {
		var (
			v         note.Vote
			createdAt int64
		)
		if err := rows.Scan(&v.ID, &v.NoteID, &v.BoardID, &v.UserID, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan vote: %w", err)
		}
		v.CreatedAt = fromMillis(createdAt)
		votes = append(votes, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate votes: %w", err)
	}
	return votes, nil
}
