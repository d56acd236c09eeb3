package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/rpggio/retroboard/internal/domain/board"
	"github.com/rpggio/retroboard/internal/domain/note"
	"github.com/rpggio/retroboard/internal/repository"
	"github.com/stretchr/testify/require"
)

func TestBoardRepository_CreateGetUpdate(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewBoardRepository(db)

	b, _ := seedBoard(t, db, "b1", "u1")

	got, err := repo.Get(ctx, "b1")
	require.NoError(t, err)
	require.Equal(t, b.Name, got.Name)
	require.Equal(t, board.PhaseWriting, got.Phase)
	require.Equal(t, 3, got.VotesPerPerson)
	require.Nil(t, got.Timer.StartedAt)

	now := time.UnixMilli(1_700_000_000_000)
	got.Phase = board.PhaseVoting
	got.VotesPerPerson = 5
	got.Timer.Start(5*time.Minute, now)
	require.NoError(t, repo.Update(ctx, got))

	reloaded, err := repo.Get(ctx, "b1")
	require.NoError(t, err)
	require.Equal(t, board.PhaseVoting, reloaded.Phase)
	require.Equal(t, 5, reloaded.VotesPerPerson)
	require.NotNil(t, reloaded.Timer.StartedAt)
	require.True(t, reloaded.Timer.StartedAt.Equal(now))
	require.Equal(t, int64(300000), reloaded.Timer.DurationMs)
	require.False(t, reloaded.Timer.Paused)
}

func TestBoardRepository_GetMissing(t *testing.T) {
	db := NewTestDB(t)
	_, err := NewBoardRepository(db).Get(context.Background(), "missing")
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestBoardRepository_DeleteMissing(t *testing.T) {
	db := NewTestDB(t)
	err := NewBoardRepository(db).Delete(context.Background(), "missing")
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestBoardRepository_ListForUser(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewBoardRepository(db)
	participants := NewParticipantRepository(db)
	notes := NewNoteRepository(db)

	older, sections := seedBoard(t, db, "b1", "u1")
	newer, _ := seedBoard(t, db, "b2", "u1")
	seedBoard(t, db, "b3", "u2")

	_, err := db.ExecContext(ctx, `UPDATE boards SET created_at = ? WHERE id = ?`, toMillis(older.CreatedAt.Add(-time.Hour)), older.ID)
	require.NoError(t, err)

	now := time.Now()
	require.NoError(t, participants.Enroll(ctx, older.ID, "u1", "User u1", now))
	require.NoError(t, participants.Enroll(ctx, newer.ID, "u1", "User u1", now))
	require.NoError(t, participants.Enroll(ctx, older.ID, "u2", "User u2", now))
	require.NoError(t, participants.Enroll(ctx, "b3", "u2", "User u2", now))

	require.NoError(t, notes.Create(ctx, &note.Note{
		ID: "n1", BoardID: older.ID, SectionID: sections[0].ID, Content: "CI is fast",
		Color: board.ColorGreen, CreatedBy: "u1", PositionX: 10, PositionY: 10, CreatedAt: now,
	}))

	list, err := repo.ListForUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, newer.ID, list[0].ID, "newest first")
	require.Equal(t, older.ID, list[1].ID)
	require.Equal(t, 2, list[1].ParticipantCount)
	require.Equal(t, 1, list[1].NoteCount)
	require.Equal(t, "User u1", list[1].CreatorName)
	require.Nil(t, list[1].FolderID)

	none, err := repo.ListForUser(ctx, "nobody")
	require.NoError(t, err)
	require.Empty(t, none)
}

func TestBoardRepository_ParticipantCountUsesStoredFlag(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	participants := NewParticipantRepository(db)

	seedBoard(t, db, "b1", "u1")
	stale := time.Now().Add(-time.Hour)
	require.NoError(t, participants.Enroll(ctx, "b1", "u1", "User u1", stale))
	require.NoError(t, participants.Enroll(ctx, "b1", "u2", "User u2", stale))

	p, err := participants.FindByUserAndBoard(ctx, "u2", "b1")
	require.NoError(t, err)
	require.NoError(t, participants.SetActive(ctx, p.ID, false))

	list, err := NewBoardRepository(db).ListForUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, 1, list[0].ParticipantCount)
}

func TestSectionRepository_ListOrdered(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	_, sections := seedBoard(t, db, "b1", "u1")

	list, err := NewSectionRepository(db).ListByBoard(ctx, "b1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, sections[0].ID, list[0].ID)
	require.Equal(t, 1, list[1].Position)

	dup := &board.Section{ID: "dup", BoardID: "b1", Name: "Dup", Color: board.ColorRed, Position: 0}
	err = NewSectionRepository(db).Create(ctx, dup)
	require.ErrorIs(t, err, repository.ErrConflict)
}
