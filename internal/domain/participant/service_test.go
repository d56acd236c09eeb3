package participant_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/rpggio/retroboard/internal/domain/board"
	"github.com/rpggio/retroboard/internal/domain/folder"
	"github.com/rpggio/retroboard/internal/domain/identity"
	"github.com/rpggio/retroboard/internal/domain/participant"
	"github.com/rpggio/retroboard/internal/domain/user"
	"github.com/rpggio/retroboard/internal/feed"
	"github.com/rpggio/retroboard/internal/repository"
	"github.com/rpggio/retroboard/internal/repository/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var now = time.UnixMilli(1_700_000_000_000)

type fixture struct {
	repo    *mocks.ParticipantRepository
	boards  *mocks.BoardRepository
	folders *mocks.FolderRepository
	users   *mocks.UserRepository
	pub     *mocks.Publisher
	svc     *participant.Service
}

func newFixture() *fixture {
	f := &fixture{
		repo:    &mocks.ParticipantRepository{},
		boards:  &mocks.BoardRepository{},
		folders: &mocks.FolderRepository{},
		users:   &mocks.UserRepository{},
		pub:     &mocks.Publisher{},
	}
	f.svc = participant.NewService(f.repo, f.boards, f.folders, f.users, mocks.Transactor{}, f.pub, nil)
	f.svc.SetClock(func() time.Time { return now })
	return f
}

func TestParticipantService_JoinCreates(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.boards.On("Get", ctx, "b1").Return(&board.Board{ID: "b1"}, nil)
	f.repo.On("FindByUserAndBoard", ctx, "u1", "b1").Return((*participant.Participant)(nil), repository.ErrNotFound)
	f.users.On("Get", ctx, "u1").Return(&user.User{ID: "u1", Name: "Ada"}, nil)
	f.repo.On("Create", ctx, mock.MatchedBy(func(p *participant.Participant) bool {
		return p.Name == "Ada" && p.IsActive && p.LastSeen.Equal(now) && p.BoardID == "b1"
	})).Return(nil)

	require.NoError(t, f.svc.Join(ctx, identity.User("u1"), "b1"))
	f.repo.AssertExpectations(t)
	require.Equal(t, []feed.Kind{feed.KindParticipants}, f.pub.Kinds())
}

func TestParticipantService_JoinTouchesExisting(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.boards.On("Get", ctx, "b1").Return(&board.Board{ID: "b1"}, nil)
	f.repo.On("FindByUserAndBoard", ctx, "u1", "b1").Return(&participant.Participant{ID: "p1"}, nil)
	f.repo.On("Touch", ctx, "p1", true, now).Return(nil)

	require.NoError(t, f.svc.Join(ctx, identity.User("u1"), "b1"))
	f.repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestParticipantService_JoinChecks(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	require.ErrorIs(t, f.svc.Join(ctx, identity.Anonymous(), "b1"), identity.ErrUnauthenticated)

	f.boards.On("Get", ctx, "gone").Return((*board.Board)(nil), repository.ErrNotFound)
	require.ErrorIs(t, f.svc.Join(ctx, identity.User("u1"), "gone"), board.ErrBoardNotFound)
	require.Empty(t, f.pub.Changes)
}

func TestParticipantService_HeartbeatNoops(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	require.NoError(t, f.svc.Heartbeat(ctx, identity.Anonymous(), "b1"))

	f.repo.On("FindByUserAndBoard", ctx, "u1", "b1").Return((*participant.Participant)(nil), repository.ErrNotFound)
	require.NoError(t, f.svc.Heartbeat(ctx, identity.User("u1"), "b1"))
	require.NoError(t, f.svc.Leave(ctx, identity.User("u1"), "b1"))

	f.repo.AssertNotCalled(t, "Touch", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	f.repo.AssertNotCalled(t, "SetActive", mock.Anything, mock.Anything, mock.Anything)
	require.Empty(t, f.pub.Changes)
}

func TestParticipantService_RowRemovedBeforeWriteIsNoop(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	cursor := participant.Cursor{X: 3, Y: 4}
	gone := fmt.Errorf("participant p1: %w", repository.ErrNotFound)

	f.repo.On("FindByUserAndBoard", ctx, "u1", "b1").Return(&participant.Participant{ID: "p1", LastSeen: now.Add(-time.Hour)}, nil)
	f.repo.On("Touch", ctx, "p1", true, now).Return(gone)
	f.repo.On("SetActive", ctx, "p1", false).Return(gone)
	f.repo.On("UpdateCursor", ctx, "p1", cursor).Return(gone)

	require.NoError(t, f.svc.Heartbeat(ctx, identity.User("u1"), "b1"))
	require.NoError(t, f.svc.Leave(ctx, identity.User("u1"), "b1"))
	require.NoError(t, f.svc.UpdateCursor(ctx, identity.User("u1"), "b1", cursor))
	f.repo.AssertExpectations(t)
	require.Empty(t, f.pub.Changes)
}

func TestParticipantService_HeartbeatPublishesOnReturn(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	// Live and active: refresh silently
	f.repo.On("FindByUserAndBoard", ctx, "u1", "b1").Return(&participant.Participant{ID: "p1", IsActive: true, LastSeen: now.Add(-10 * time.Second)}, nil).Once()
	f.repo.On("Touch", ctx, "p1", true, now).Return(nil)
	require.NoError(t, f.svc.Heartbeat(ctx, identity.User("u1"), "b1"))
	require.Empty(t, f.pub.Changes)

	// Stale: others need to see the participant come back
	f.repo.On("FindByUserAndBoard", ctx, "u1", "b1").Return(&participant.Participant{ID: "p1", IsActive: true, LastSeen: now.Add(-time.Minute)}, nil).Once()
	require.NoError(t, f.svc.Heartbeat(ctx, identity.User("u1"), "b1"))
	require.Equal(t, []feed.Kind{feed.KindParticipants}, f.pub.Kinds())
}

func TestParticipantService_Leave(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.repo.On("FindByUserAndBoard", ctx, "u1", "b1").Return(&participant.Participant{ID: "p1", IsActive: true}, nil)
	f.repo.On("SetActive", ctx, "p1", false).Return(nil)

	require.NoError(t, f.svc.Leave(ctx, identity.User("u1"), "b1"))
	f.repo.AssertExpectations(t)
	require.Equal(t, []feed.Kind{feed.KindParticipants}, f.pub.Kinds())
}

func TestParticipantService_GetActiveUsesLiveness(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.repo.On("ListByBoard", ctx, "b1").Return([]participant.Participant{
		{ID: "p1", UserID: "u1", Name: "Ada", IsActive: true, LastSeen: now.Add(-5 * time.Second)},
		{ID: "p2", UserID: "u2", Name: "Bob", IsActive: true, LastSeen: now.Add(-2 * time.Minute)},
		{ID: "p3", UserID: "u3", Name: "Cy", IsActive: false, LastSeen: now.Add(-time.Second)},
	}, nil)

	active, err := f.svc.GetActive(ctx, "b1")
	require.NoError(t, err)
	require.Len(t, active, 2)
	require.Equal(t, "p1", active[0].ID)
	require.Equal(t, "p3", active[1].ID, "stored flag is ignored")
}

func TestParticipantService_CursorPositions(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	cursor := participant.Cursor{X: 10, Y: 20}

	f.repo.On("ListByBoard", ctx, "b1").Return([]participant.Participant{
		{ID: "p1", UserID: "u1", LastSeen: now, Cursor: &cursor},
		{ID: "p2", UserID: "u2", Name: "Bob", LastSeen: now, Cursor: &cursor},
		{ID: "p3", UserID: "u3", LastSeen: now},
		{ID: "p4", UserID: "u4", LastSeen: now.Add(-time.Hour), Cursor: &cursor},
	}, nil)

	cursors, err := f.svc.GetCursorPositions(ctx, identity.User("u1"), "b1")
	require.NoError(t, err)
	require.Equal(t, []participant.CursorState{{
		ParticipantID: "p2",
		UserID:        "u2",
		Name:          "Bob",
		Cursor:        cursor,
		Color:         participant.CursorColor("u2"),
	}}, cursors)
}

func TestParticipantService_UpdateCursor(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	cursor := participant.Cursor{X: 1, Y: 2}

	f.repo.On("FindByUserAndBoard", ctx, "u1", "b1").Return(&participant.Participant{ID: "p1"}, nil)
	f.repo.On("UpdateCursor", ctx, "p1", cursor).Return(nil)

	require.NoError(t, f.svc.UpdateCursor(ctx, identity.User("u1"), "b1", cursor))
	require.Equal(t, []feed.Kind{feed.KindCursors}, f.pub.Kinds())
}

func TestParticipantService_MoveToFolder(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	caller := identity.User("u1")
	mine, theirs := "f1", "f2"

	f.boards.On("Get", ctx, "b1").Return(&board.Board{ID: "b1"}, nil)
	f.repo.On("FindByUserAndBoard", ctx, "u1", "b1").Return(&participant.Participant{ID: "p1"}, nil)
	f.folders.On("Get", ctx, "f1").Return(&folder.Folder{ID: "f1", UserID: "u1"}, nil)
	f.folders.On("Get", ctx, "f2").Return(&folder.Folder{ID: "f2", UserID: "u2"}, nil)
	f.repo.On("SetFolder", ctx, "p1", &mine).Return(nil)
	f.repo.On("SetFolder", ctx, "p1", (*string)(nil)).Return(nil)

	require.NoError(t, f.svc.MoveToFolder(ctx, caller, "b1", &mine))
	require.NoError(t, f.svc.MoveToFolder(ctx, caller, "b1", nil))
	require.ErrorIs(t, f.svc.MoveToFolder(ctx, caller, "b1", &theirs), folder.ErrFolderNotFound)

	f.repo.AssertNumberOfCalls(t, "SetFolder", 2)
}

func TestParticipantService_MoveToFolderRequiresMembership(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	id := "f1"

	f.boards.On("Get", ctx, "b1").Return(&board.Board{ID: "b1"}, nil)
	f.repo.On("FindByUserAndBoard", ctx, "u1", "b1").Return((*participant.Participant)(nil), repository.ErrNotFound)

	err := f.svc.MoveToFolder(ctx, identity.User("u1"), "b1", &id)
	require.ErrorIs(t, err, participant.ErrNotParticipant)
}
