package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rpggio/retroboard/internal/domain/board"
	"github.com/rpggio/retroboard/internal/domain/user"
	"github.com/stretchr/testify/require"
)

// NewTestDB creates a new in-memory SQLite database for testing
func NewTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := New(":memory:")
	require.NoError(t, err, "failed to create test database")

	err = db.RunMigrations()
	require.NoError(t, err, "failed to run migrations")

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

// seedBoard creates a user, a board with two sections and returns them
func seedBoard(t *testing.T, db *DB, boardID, userID string) (*board.Board, []board.Section) {
	t.Helper()
	ctx := context.Background()

	users := NewUserRepository(db)
	if _, err := users.Get(ctx, userID); err != nil {
		require.NoError(t, users.Create(ctx, &user.User{ID: userID, Name: "User " + userID, CreatedAt: time.Now()}))
	}

	b := &board.Board{
		ID:             boardID,
		Name:           "Sprint " + boardID,
		CreatedBy:      userID,
		Phase:          board.PhaseWriting,
		VotesPerPerson: board.DefaultVotesPerPerson,
		CreatedAt:      time.Now(),
	}
	require.NoError(t, NewBoardRepository(db).Create(ctx, b))

	sections := []board.Section{
		{ID: boardID + "-went-well", BoardID: boardID, Name: "Went well", Color: board.ColorGreen, Position: 0},
		{ID: boardID + "-actions", BoardID: boardID, Name: "Action items", Color: board.ColorBlue, Position: 1},
	}
	repo := NewSectionRepository(db)
	for i := range sections {
		require.NoError(t, repo.Create(ctx, &sections[i]))
	}
	return b, sections
}

// TestMigrations verifies that migrations run successfully
func TestMigrations(t *testing.T) {
	db := NewTestDB(t)

	tables := []string{
		"users",
		"api_tokens",
		"boards",
		"sections",
		"notes",
		"votes",
		"folders",
		"participants",
		"confetti_events",
	}

	for _, table := range tables {
		var count int
		err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&count)
		require.NoError(t, err, "failed to query table %s", table)
		require.Equal(t, 1, count, "table %s not found", table)
	}

	// Applying again is a no-op
	require.NoError(t, db.RunMigrations())
}

// TestForeignKeys verifies that foreign key constraints are enabled
func TestForeignKeys(t *testing.T) {
	db := NewTestDB(t)

	var enabled int
	err := db.QueryRow("PRAGMA foreign_keys").Scan(&enabled)
	require.NoError(t, err)
	require.Equal(t, 1, enabled, "foreign keys not enabled")
}

func TestBoardsTable_CheckConstraints(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()

	_, err := db.ExecContext(ctx,
		`INSERT INTO boards (id, name, created_by, phase, created_at) VALUES (?, ?, ?, ?, ?)`,
		"b1", "Board", "u1", "brainstorm", 0)
	require.Error(t, err, "should fail with unknown phase")

	_, err = db.ExecContext(ctx,
		`INSERT INTO boards (id, name, created_by, phase, votes_per_person, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		"b1", "Board", "u1", "writing", -1, 0)
	require.Error(t, err, "should fail with negative vote budget")
}

func TestWithinTx_CommitAndRollback(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	users := NewUserRepository(db)

	err := db.WithinTx(ctx, func(ctx context.Context) error {
		return users.Create(ctx, &user.User{ID: "u1", Name: "Ada", CreatedAt: time.Now()})
	})
	require.NoError(t, err)

	_, err = users.Get(ctx, "u1")
	require.NoError(t, err)

	boom := errors.New("boom")
	err = db.WithinTx(ctx, func(ctx context.Context) error {
		if err := users.Create(ctx, &user.User{ID: "u2", Name: "Grace", CreatedAt: time.Now()}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	_, err = users.Get(ctx, "u2")
	require.Error(t, err, "rolled back user should not exist")
}

func TestWithinTx_Nested(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	users := NewUserRepository(db)

	err := db.WithinTx(ctx, func(ctx context.Context) error {
		return db.WithinTx(ctx, func(ctx context.Context) error {
			return users.Create(ctx, &user.User{ID: "u1", CreatedAt: time.Now()})
		})
	})
	require.NoError(t, err)

	u, err := users.Get(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, user.AnonymousName, u.DisplayName())
}
