package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/rpggio/retroboard/internal/domain/folder"
	"github.com/rpggio/retroboard/internal/domain/participant"
	"github.com/rpggio/retroboard/internal/repository"
	"github.com/stretchr/testify/require"
)

func TestParticipantRepository_EnrollIsUpsert(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewParticipantRepository(db)
	seedBoard(t, db, "b1", "u1")

	first := time.UnixMilli(1_700_000_000_000)
	require.NoError(t, repo.Enroll(ctx, "b1", "u1", "Ada", first))

	p, err := repo.FindByUserAndBoard(ctx, "u1", "b1")
	require.NoError(t, err)
	require.NoError(t, repo.SetActive(ctx, p.ID, false))

	second := first.Add(time.Minute)
	require.NoError(t, repo.Enroll(ctx, "b1", "u1", "Ada", second))

	list, err := repo.ListByBoard(ctx, "b1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, p.ID, list[0].ID)
	require.True(t, list[0].IsActive)
	require.True(t, list[0].LastSeen.Equal(second))
}

func TestParticipantRepository_CreateDuplicate(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewParticipantRepository(db)
	seedBoard(t, db, "b1", "u1")

	p := &participant.Participant{ID: "p1", BoardID: "b1", UserID: "u1", Name: "Ada", IsActive: true, LastSeen: time.Now()}
	require.NoError(t, repo.Create(ctx, p))

	dup := *p
	dup.ID = "p2"
	require.ErrorIs(t, repo.Create(ctx, &dup), repository.ErrConflict)
}

func TestParticipantRepository_TouchAndCursor(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewParticipantRepository(db)
	seedBoard(t, db, "b1", "u1")

	p := &participant.Participant{ID: "p1", BoardID: "b1", UserID: "u1", Name: "Ada", LastSeen: time.UnixMilli(1000)}
	require.NoError(t, repo.Create(ctx, p))

	got, err := repo.FindByUserAndBoard(ctx, "u1", "b1")
	require.NoError(t, err)
	require.False(t, got.IsActive)
	require.Nil(t, got.Cursor)

	seen := time.UnixMilli(5000)
	require.NoError(t, repo.Touch(ctx, "p1", true, seen))

	zoom := 1.5
	require.NoError(t, repo.UpdateCursor(ctx, "p1", participant.Cursor{X: 120, Y: 80, Zoom: &zoom}))

	got, err = repo.FindByUserAndBoard(ctx, "u1", "b1")
	require.NoError(t, err)
	require.True(t, got.IsActive)
	require.True(t, got.LastSeen.Equal(seen))
	require.NotNil(t, got.Cursor)
	require.Equal(t, 120.0, got.Cursor.X)
	require.Nil(t, got.Cursor.ViewportX)
	require.Equal(t, 1.5, *got.Cursor.Zoom)

	require.ErrorIs(t, repo.Touch(ctx, "missing", true, seen), repository.ErrNotFound)
}

func TestParticipantRepository_Folders(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewParticipantRepository(db)
	folders := NewFolderRepository(db)
	seedBoard(t, db, "b1", "u1")
	seedBoard(t, db, "b2", "u1")

	require.NoError(t, folders.Create(ctx, &folder.Folder{ID: "f1", UserID: "u1", Name: "Q3", CreatedAt: time.Now()}))
	require.NoError(t, repo.Enroll(ctx, "b1", "u1", "Ada", time.Now()))
	require.NoError(t, repo.Enroll(ctx, "b2", "u1", "Ada", time.Now()))

	fid := "f1"
	for _, boardID := range []string{"b1", "b2"} {
		p, err := repo.FindByUserAndBoard(ctx, "u1", boardID)
		require.NoError(t, err)
		require.NoError(t, repo.SetFolder(ctx, p.ID, &fid))
	}

	missing := "missing"
	p, err := repo.FindByUserAndBoard(ctx, "u1", "b1")
	require.NoError(t, err)
	require.ErrorIs(t, repo.SetFolder(ctx, p.ID, &missing), repository.ErrForeignKeyViolation)

	n, err := repo.ClearFolder(ctx, "u1", "f1")
	require.NoError(t, err)
	require.Equal(t, int64(2), n)

	p, err = repo.FindByUserAndBoard(ctx, "u1", "b2")
	require.NoError(t, err)
	require.Nil(t, p.FolderID)
}

func TestParticipantRepository_FindMissing(t *testing.T) {
	db := NewTestDB(t)
	_, err := NewParticipantRepository(db).FindByUserAndBoard(context.Background(), "u1", "b1")
	require.ErrorIs(t, err, repository.ErrNotFound)
}
