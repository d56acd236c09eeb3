package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rpggio/retroboard/internal/domain/board"
	"github.com/rpggio/retroboard/internal/domain/confetti"
	"github.com/rpggio/retroboard/internal/domain/folder"
	"github.com/rpggio/retroboard/internal/domain/identity"
	"github.com/rpggio/retroboard/internal/domain/note"
	"github.com/rpggio/retroboard/internal/domain/participant"
	"github.com/rpggio/retroboard/internal/domain/snapshot"
	"github.com/rpggio/retroboard/internal/domain/user"
	"github.com/stretchr/testify/require"
)

type boardStub struct {
	createFn func(context.Context, identity.Caller, board.CreateRequest) (*board.Board, error)
	listFn   func(context.Context, identity.Caller) ([]board.Summary, error)
	phaseFn  func(context.Context, identity.Caller, board.PhaseUpdate) (*board.Board, error)
	removeFn func(context.Context, identity.Caller, string) error
	startFn  func(context.Context, identity.Caller, string, time.Duration) (*board.Board, error)
	timerFn  func(context.Context, identity.Caller, string) (*board.Board, error)
}

func (b boardStub) Create(ctx context.Context, caller identity.Caller, req board.CreateRequest) (*board.Board, error) {
	return b.createFn(ctx, caller, req)
}
func (b boardStub) List(ctx context.Context, caller identity.Caller) ([]board.Summary, error) {
	return b.listFn(ctx, caller)
}
func (b boardStub) UpdatePhase(ctx context.Context, caller identity.Caller, req board.PhaseUpdate) (*board.Board, error) {
	return b.phaseFn(ctx, caller, req)
}
func (b boardStub) Remove(ctx context.Context, caller identity.Caller, boardID string) error {
	return b.removeFn(ctx, caller, boardID)
}
func (b boardStub) StartTimer(ctx context.Context, caller identity.Caller, boardID string, d time.Duration) (*board.Board, error) {
	return b.startFn(ctx, caller, boardID, d)
}
func (b boardStub) PauseTimer(ctx context.Context, caller identity.Caller, boardID string) (*board.Board, error) {
	return b.timerFn(ctx, caller, boardID)
}
func (b boardStub) ResumeTimer(ctx context.Context, caller identity.Caller, boardID string) (*board.Board, error) {
	return b.timerFn(ctx, caller, boardID)
}
func (b boardStub) ResetTimer(ctx context.Context, caller identity.Caller, boardID string) (*board.Board, error) {
	return b.timerFn(ctx, caller, boardID)
}

type snapshotStub struct {
	getFn func(context.Context, identity.Caller, string) (*snapshot.BoardDetail, error)
}

func (s snapshotStub) Get(ctx context.Context, caller identity.Caller, boardID string) (*snapshot.BoardDetail, error) {
	return s.getFn(ctx, caller, boardID)
}

type noteStub struct {
	createFn func(context.Context, identity.Caller, note.CreateRequest) (*note.Note, error)
	updateFn func(context.Context, identity.Caller, note.UpdateRequest) (*note.Note, error)
	moveFn   func(context.Context, identity.Caller, note.MoveRequest) (*note.Note, error)
	removeFn func(context.Context, identity.Caller, string) error
	voteFn   func(context.Context, identity.Caller, string, string) (*note.VoteResult, error)
	actionFn func(context.Context, identity.Caller, string, string) (*note.Note, error)
}

func (n noteStub) Create(ctx context.Context, caller identity.Caller, req note.CreateRequest) (*note.Note, error) {
	return n.createFn(ctx, caller, req)
}
func (n noteStub) Update(ctx context.Context, caller identity.Caller, req note.UpdateRequest) (*note.Note, error) {
	return n.updateFn(ctx, caller, req)
}
func (n noteStub) Move(ctx context.Context, caller identity.Caller, req note.MoveRequest) (*note.Note, error) {
	return n.moveFn(ctx, caller, req)
}
func (n noteStub) Remove(ctx context.Context, caller identity.Caller, noteID string) error {
	return n.removeFn(ctx, caller, noteID)
}
func (n noteStub) Vote(ctx context.Context, caller identity.Caller, noteID, boardID string) (*note.VoteResult, error) {
	return n.voteFn(ctx, caller, noteID, boardID)
}
func (n noteStub) CreateActionItem(ctx context.Context, caller identity.Caller, boardID, sourceNoteID string) (*note.Note, error) {
	return n.actionFn(ctx, caller, boardID, sourceNoteID)
}

type participantStub struct {
	presenceFn func(context.Context, identity.Caller, string) error
	activeFn   func(context.Context, string) ([]participant.Presence, error)
	cursorFn   func(context.Context, identity.Caller, string, participant.Cursor) error
	cursorsFn  func(context.Context, identity.Caller, string) ([]participant.CursorState, error)
	folderFn   func(context.Context, identity.Caller, string, *string) error
}

func (p participantStub) Join(ctx context.Context, caller identity.Caller, boardID string) error {
	return p.presenceFn(ctx, caller, "join:"+boardID)
}
func (p participantStub) Heartbeat(ctx context.Context, caller identity.Caller, boardID string) error {
	return p.presenceFn(ctx, caller, "heartbeat:"+boardID)
}
func (p participantStub) Leave(ctx context.Context, caller identity.Caller, boardID string) error {
	return p.presenceFn(ctx, caller, "leave:"+boardID)
}
func (p participantStub) GetActive(ctx context.Context, boardID string) ([]participant.Presence, error) {
	return p.activeFn(ctx, boardID)
}
func (p participantStub) UpdateCursor(ctx context.Context, caller identity.Caller, boardID string, c participant.Cursor) error {
	return p.cursorFn(ctx, caller, boardID, c)
}
func (p participantStub) GetCursorPositions(ctx context.Context, caller identity.Caller, boardID string) ([]participant.CursorState, error) {
	return p.cursorsFn(ctx, caller, boardID)
}
func (p participantStub) MoveToFolder(ctx context.Context, caller identity.Caller, boardID string, folderID *string) error {
	return p.folderFn(ctx, caller, boardID, folderID)
}

type confettiStub struct {
	fireFn   func(context.Context, identity.Caller, confetti.FireRequest) (*confetti.Event, error)
	recentFn func(context.Context, string) ([]confetti.Event, error)
}

func (c confettiStub) Fire(ctx context.Context, caller identity.Caller, req confetti.FireRequest) (*confetti.Event, error) {
	return c.fireFn(ctx, caller, req)
}
func (c confettiStub) Recent(ctx context.Context, boardID string) ([]confetti.Event, error) {
	return c.recentFn(ctx, boardID)
}

type folderStub struct {
	listFn   func(context.Context, identity.Caller) ([]folder.Folder, error)
	createFn func(context.Context, identity.Caller, string, *string) (*folder.Folder, error)
	renameFn func(context.Context, identity.Caller, string, string) error
	removeFn func(context.Context, identity.Caller, string) error
}

func (f folderStub) List(ctx context.Context, caller identity.Caller) ([]folder.Folder, error) {
	return f.listFn(ctx, caller)
}
func (f folderStub) Create(ctx context.Context, caller identity.Caller, name string, color *string) (*folder.Folder, error) {
	return f.createFn(ctx, caller, name, color)
}
func (f folderStub) Rename(ctx context.Context, caller identity.Caller, id, name string) error {
	return f.renameFn(ctx, caller, id, name)
}
func (f folderStub) Remove(ctx context.Context, caller identity.Caller, id string) error {
	return f.removeFn(ctx, caller, id)
}

type userStub struct {
	currentFn func(context.Context, identity.Caller) (*user.User, error)
}

func (u userStub) Current(ctx context.Context, caller identity.Caller) (*user.User, error) {
	return u.currentFn(ctx, caller)
}

func TestHandler_BoardCreate(t *testing.T) {
	var got board.CreateRequest
	h := NewHandler(Services{Boards: boardStub{
		createFn: func(_ context.Context, caller identity.Caller, req board.CreateRequest) (*board.Board, error) {
			require.Equal(t, "u1", caller.UserID)
			got = req
			return &board.Board{ID: "b1"}, nil
		},
	}})

	params := json.RawMessage(`{"name":"Sprint 9","sections":[{"name":"Went well","color":"green"},{"name":"Action items","color":"blue"}]}`)
	result, err := h.Handle(context.Background(), identity.User("u1"), "board.create", params)
	require.NoError(t, err)
	require.Equal(t, IDResponse{ID: "b1"}, result)
	require.Equal(t, "Sprint 9", got.Name)
	require.Equal(t, []board.SectionInput{
		{Name: "Went well", Color: board.ColorGreen},
		{Name: "Action items", Color: board.ColorBlue},
	}, got.Sections)
}

func TestHandler_BoardGetMissingIsNull(t *testing.T) {
	h := NewHandler(Services{Snapshots: snapshotStub{
		getFn: func(context.Context, identity.Caller, string) (*snapshot.BoardDetail, error) {
			return nil, nil
		},
	}})

	result, err := h.Handle(context.Background(), identity.User("u1"), "board.get", json.RawMessage(`{"boardId":"gone"}`))
	require.NoError(t, err)
	require.Nil(t, result)
}

func TestHandler_UpdatePhase(t *testing.T) {
	var got board.PhaseUpdate
	h := NewHandler(Services{Boards: boardStub{
		phaseFn: func(_ context.Context, _ identity.Caller, req board.PhaseUpdate) (*board.Board, error) {
			got = req
			return &board.Board{ID: req.BoardID, Phase: req.Phase}, nil
		},
	}})

	result, err := h.Handle(context.Background(), identity.User("u1"), "board.updatePhase",
		json.RawMessage(`{"boardId":"b1","phase":"voting","votesPerPerson":5,"resetVotes":true}`))
	require.NoError(t, err)
	require.Equal(t, statusOK, result)
	require.Equal(t, board.PhaseVoting, got.Phase)
	require.Equal(t, 5, *got.VotesPerPerson)
	require.True(t, got.ResetVotes)
}

func TestHandler_TimerStart(t *testing.T) {
	h := NewHandler(Services{Boards: boardStub{
		startFn: func(_ context.Context, _ identity.Caller, _ string, d time.Duration) (*board.Board, error) {
			require.Equal(t, 90*time.Second, d)
			return &board.Board{Timer: board.Timer{DurationMs: d.Milliseconds()}}, nil
		},
	}})

	result, err := h.Handle(context.Background(), identity.User("u1"), "timer.start", json.RawMessage(`{"boardId":"b1","durationMs":90000}`))
	require.NoError(t, err)
	require.Equal(t, int64(90000), result.(board.Timer).DurationMs)
}

func TestHandler_MoveToFolderRoutesToParticipants(t *testing.T) {
	var folderID *string
	h := NewHandler(Services{Participants: participantStub{
		folderFn: func(_ context.Context, _ identity.Caller, boardID string, id *string) error {
			require.Equal(t, "b1", boardID)
			folderID = id
			return nil
		},
	}})

	_, err := h.Handle(context.Background(), identity.User("u1"), "board.moveToFolder", json.RawMessage(`{"boardId":"b1","folderId":null}`))
	require.NoError(t, err)
	require.Nil(t, folderID)

	_, err = h.Handle(context.Background(), identity.User("u1"), "board.moveToFolder", json.RawMessage(`{"boardId":"b1","folderId":"f1"}`))
	require.NoError(t, err)
	require.Equal(t, "f1", *folderID)
}

func TestHandler_NoteVoteBudgetIsNotAnError(t *testing.T) {
	h := NewHandler(Services{Notes: noteStub{
		voteFn: func(_ context.Context, _ identity.Caller, noteID, boardID string) (*note.VoteResult, error) {
			require.Equal(t, "n1", noteID)
			require.Equal(t, "b1", boardID)
			return &note.VoteResult{Success: false, Message: note.MessageNoVotesRemaining}, nil
		},
	}})

	result, err := h.Handle(context.Background(), identity.User("u1"), "note.vote", json.RawMessage(`{"noteId":"n1","boardId":"b1"}`))
	require.NoError(t, err)
	data, err := json.Marshal(result)
	require.NoError(t, err)
	require.JSONEq(t, `{"success":false,"message":"No votes remaining"}`, string(data))
}

func TestHandler_NoteUpdatePartial(t *testing.T) {
	var got note.UpdateRequest
	h := NewHandler(Services{Notes: noteStub{
		updateFn: func(_ context.Context, _ identity.Caller, req note.UpdateRequest) (*note.Note, error) {
			got = req
			return &note.Note{}, nil
		},
	}})

	_, err := h.Handle(context.Background(), identity.User("u1"), "note.update", json.RawMessage(`{"noteId":"n1","content":"edited"}`))
	require.NoError(t, err)
	require.Equal(t, "edited", *got.Content)
	require.Nil(t, got.Color)
	require.Nil(t, got.PositionX)
}

func TestHandler_UpdateCursor(t *testing.T) {
	var got participant.Cursor
	h := NewHandler(Services{Participants: participantStub{
		cursorFn: func(_ context.Context, _ identity.Caller, _ string, c participant.Cursor) error {
			got = c
			return nil
		},
	}})

	_, err := h.Handle(context.Background(), identity.User("u1"), "participant.updateCursor", json.RawMessage(`{"boardId":"b1","x":12.5,"y":40,"zoom":1.5}`))
	require.NoError(t, err)
	require.Equal(t, 12.5, got.X)
	require.Equal(t, 1.5, *got.Zoom)
	require.Nil(t, got.ViewportX)
}

func TestHandler_PresenceMethods(t *testing.T) {
	var calls []string
	h := NewHandler(Services{Participants: participantStub{
		presenceFn: func(_ context.Context, _ identity.Caller, op string) error {
			calls = append(calls, op)
			return nil
		},
	}})

	for _, method := range []string{"participant.join", "participant.heartbeat", "participant.leave"} {
		_, err := h.Handle(context.Background(), identity.User("u1"), method, json.RawMessage(`{"boardId":"b1"}`))
		require.NoError(t, err)
	}
	require.Equal(t, []string{"join:b1", "heartbeat:b1", "leave:b1"}, calls)
}

func TestHandler_FolderAndConfetti(t *testing.T) {
	h := NewHandler(Services{
		Folders: folderStub{
			createFn: func(_ context.Context, _ identity.Caller, name string, color *string) (*folder.Folder, error) {
				require.Equal(t, "Q3", name)
				require.Nil(t, color)
				return &folder.Folder{ID: "f1"}, nil
			},
		},
		Confetti: confettiStub{
			fireFn: func(_ context.Context, caller identity.Caller, req confetti.FireRequest) (*confetti.Event, error) {
				require.Equal(t, "b1", req.BoardID)
				require.Equal(t, 0.25, req.OriginX)
				return &confetti.Event{}, nil
			},
		},
	})

	result, err := h.Handle(context.Background(), identity.User("u1"), "folder.create", json.RawMessage(`{"name":"Q3"}`))
	require.NoError(t, err)
	require.Equal(t, IDResponse{ID: "f1"}, result)

	_, err = h.Handle(context.Background(), identity.User("u1"), "confetti.fire", json.RawMessage(`{"boardId":"b1","originX":0.25}`))
	require.NoError(t, err)
}

func TestHandler_UserCurrentAnonymous(t *testing.T) {
	h := NewHandler(Services{Users: userStub{
		currentFn: func(context.Context, identity.Caller) (*user.User, error) { return nil, nil },
	}})

	result, err := h.Handle(context.Background(), identity.Anonymous(), "user.current", nil)
	require.NoError(t, err)
	require.Nil(t, result)
}

func TestHandler_MapsDomainErrors(t *testing.T) {
	cases := []struct {
		err  error
		code string
		rpc  int
	}{
		{identity.ErrUnauthenticated, CodeUnauthenticated, RPCUnauthenticated},
		{note.ErrNotAuthorized, CodeNotAuthorized, RPCNotAuthorized},
		{note.ErrBoardFinished, CodeInvalidState, RPCInvalidState},
		{board.ErrBoardNotFound, CodeNotFound, RPCNotFound},
		{note.ErrNoActionSection, CodeInvalidInput, RPCInvalidParams},
		{folder.ErrNotAuthorized, CodeNotAuthorized, RPCNotAuthorized},
		{participant.ErrNotParticipant, CodeNotAuthorized, RPCNotAuthorized},
	}
	for _, tc := range cases {
		h := NewHandler(Services{Notes: noteStub{
			removeFn: func(context.Context, identity.Caller, string) error {
				return tc.err
			},
		}})
		_, err := h.Handle(context.Background(), identity.User("u1"), "note.remove", json.RawMessage(`{"noteId":"n1"}`))
		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr, tc.err)
		require.Equal(t, tc.code, apiErr.Code)
		require.Equal(t, tc.rpc, apiErr.RPCCode())
	}
}

func TestHandler_InternalErrorsPassThrough(t *testing.T) {
	boom := errors.New("disk on fire")
	h := NewHandler(Services{Boards: boardStub{
		listFn: func(context.Context, identity.Caller) ([]board.Summary, error) { return nil, boom },
	}})

	_, err := h.Handle(context.Background(), identity.User("u1"), "board.list", nil)
	require.ErrorIs(t, err, boom)
	require.Nil(t, MapError(err))
}

func TestHandler_BadParamsAndUnknownMethod(t *testing.T) {
	h := NewHandler(Services{})

	_, err := h.Handle(context.Background(), identity.User("u1"), "note.remove", json.RawMessage(`{"noteId":42}`))
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, CodeInvalidInput, apiErr.Code)

	_, err = h.Handle(context.Background(), identity.User("u1"), "board.explode", nil)
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, RPCMethodNotFound, apiErr.RPCCode())
}
