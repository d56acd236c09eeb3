package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rpggio/retroboard/internal/domain/board"
)

// BoardRepository implements board.Repository for SQLite
type BoardRepository struct {
	db *DB
}

// NewBoardRepository creates a new BoardRepository
func NewBoardRepository(db *DB) *BoardRepository {
	return &BoardRepository{db: db}
}

// Create creates a new board
func (r *BoardRepository) Create(ctx context.Context, b *board.Board) error {
	query := `
		INSERT INTO boards (id, name, created_by, phase, votes_per_person,
			timer_duration_ms, timer_started_at, timer_paused, timer_remaining_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.conn(ctx).ExecContext(ctx, query,
		b.ID,
		b.Name,
		b.CreatedBy,
		string(b.Phase),
		b.VotesPerPerson,
		b.Timer.DurationMs,
		nullMillis(b.Timer.StartedAt),
		b.Timer.Paused,
		nullInt(b.Timer.RemainingMs),
		toMillis(b.CreatedAt),
	)
	if err != nil {
		return writeError("create board", err)
	}
	return nil
}

// Get retrieves a board by ID
func (r *BoardRepository) Get(ctx context.Context, id string) (*board.Board, error) {
	query := `
		SELECT id, name, created_by, phase, votes_per_person,
			timer_duration_ms, timer_started_at, timer_paused, timer_remaining_ms, created_at
		FROM boards
		WHERE id = ?
	`

	var (
		b         board.Board
		phase     string
		startedAt sql.NullInt64
		remaining sql.NullInt64
		createdAt int64
	)
	err := r.db.conn(ctx).QueryRowContext(ctx, query, id).Scan(
		&b.ID,
		&b.Name,
		&b.CreatedBy,
		&phase,
		&b.VotesPerPerson,
		&b.Timer.DurationMs,
		&startedAt,
		&b.Timer.Paused,
		&remaining,
		&createdAt,
	)
	if err != nil {
		return nil, readError("get board", err)
	}

	b.Phase = board.Phase(phase)
	b.CreatedAt = fromMillis(createdAt)
	if startedAt.Valid {
		t := fromMillis(startedAt.Int64)
		b.Timer.StartedAt = &t
	}
	if remaining.Valid {
		ms := remaining.Int64
		b.Timer.RemainingMs = &ms
	}
	return &b, nil
}

// Update writes the mutable board fields: phase, vote budget and timer
func (r *BoardRepository) Update(ctx context.Context, b *board.Board) error {
	query := `
		UPDATE boards
		SET phase = ?, votes_per_person = ?, timer_duration_ms = ?,
			timer_started_at = ?, timer_paused = ?, timer_remaining_ms = ?
		WHERE id = ?
	`

	result, err := r.db.conn(ctx).ExecContext(ctx, query,
		string(b.Phase),
		b.VotesPerPerson,
		b.Timer.DurationMs,
		nullMillis(b.Timer.StartedAt),
		b.Timer.Paused,
		nullInt(b.Timer.RemainingMs),
		b.ID,
	)
	if err != nil {
		return writeError("update board", err)
	}
	return requireAffected("update board", result)
}

// Delete deletes a board row. Dependent rows must be removed first.
func (r *BoardRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.conn(ctx).ExecContext(ctx, `DELETE FROM boards WHERE id = ?`, id)
	if err != nil {
		return writeError("delete board", err)
	}
	return requireAffected("delete board", result)
}

// ListForUser returns summaries of the boards a user participates in
func (r *BoardRepository) ListForUser(ctx context.Context, userID string) ([]board.Summary, error) {
	query := `
		SELECT
			b.id,
			b.name,
			b.phase,
			b.created_by,
			COALESCE(NULLIF(u.name, ''), 'Anonymous'),
			b.votes_per_person,
			(SELECT COUNT(*) FROM participants ap WHERE ap.board_id = b.id AND ap.is_active = 1),
			(SELECT COUNT(*) FROM notes n WHERE n.board_id = b.id),
			p.folder_id,
			b.created_at
		FROM participants p
		JOIN boards b ON b.id = p.board_id
		LEFT JOIN users u ON u.id = b.created_by
		WHERE p.user_id = ?
		ORDER BY b.created_at DESC, b.rowid DESC
	`

	rows, err := r.db.conn(ctx).QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list boards: %w", err)
	}
	defer rows.Close()

	var summaries []board.Summary
	for rows.Next() {
		var (
			s         board.Summary
			phase     string
			folderID  sql.NullString
			createdAt int64
		)
		if err := rows.Scan(
			&s.ID,
			&s.Name,
			&phase,
			&s.CreatedBy,
			&s.CreatorName,
			&s.VotesPerPerson,
			&s.ParticipantCount,
			&s.NoteCount,
			&folderID,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan board summary: %w", err)
		}
		s.Phase = board.Phase(phase)
		s.FolderID = stringPtr(folderID)
		s.CreatedAt = fromMillis(createdAt)
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate boards: %w", err)
	}

	return summaries, nil
}

func nullInt(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}
