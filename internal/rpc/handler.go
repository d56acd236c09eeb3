package rpc

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rpggio/retroboard/internal/domain/board"
	"github.com/rpggio/retroboard/internal/domain/confetti"
	"github.com/rpggio/retroboard/internal/domain/identity"
	"github.com/rpggio/retroboard/internal/domain/note"
)

// Handler dispatches RPC methods to domain services.
type Handler struct {
	svc Services
}

// NewHandler creates a new RPC handler.
func NewHandler(svc Services) *Handler {
	return &Handler{svc: svc}
}

// Handle dispatches one method call on behalf of caller. Domain errors are
// returned as *APIError; anything else is an internal failure.
func (h *Handler) Handle(ctx context.Context, caller identity.Caller, method string, params json.RawMessage) (any, error) {
	result, err := h.dispatch(ctx, caller, method, params)
	if err != nil {
		return nil, mapError(err)
	}
	return result, nil
}

func (h *Handler) dispatch(ctx context.Context, caller identity.Caller, method string, params json.RawMessage) (any, error) {
	switch method {
	// Boards
	case "board.list":
		return h.svc.Boards.List(ctx, caller)
	case "board.get":
		var req BoardIDParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		detail, err := h.svc.Snapshots.Get(ctx, caller, req.BoardID)
		if err != nil || detail == nil {
			return nil, err
		}
		return detail, nil
	case "board.create":
		var req CreateBoardParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		b, err := h.svc.Boards.Create(ctx, caller, board.CreateRequest{
			Name:     req.Name,
			Sections: req.Sections,
		})
		if err != nil {
			return nil, err
		}
		return IDResponse{ID: b.ID}, nil
	case "board.updatePhase":
		var req UpdatePhaseParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		if _, err := h.svc.Boards.UpdatePhase(ctx, caller, board.PhaseUpdate{
			BoardID:        req.BoardID,
			Phase:          req.Phase,
			VotesPerPerson: req.VotesPerPerson,
			ResetVotes:     req.ResetVotes,
		}); err != nil {
			return nil, err
		}
		return statusOK, nil
	case "board.remove":
		var req BoardIDParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		if err := h.svc.Boards.Remove(ctx, caller, req.BoardID); err != nil {
			return nil, err
		}
		return statusOK, nil
	case "board.moveToFolder":
		var req MoveToFolderParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		if err := h.svc.Participants.MoveToFolder(ctx, caller, req.BoardID, req.FolderID); err != nil {
			return nil, err
		}
		return statusOK, nil

	// Timer
	case "timer.start":
		var req StartTimerParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		b, err := h.svc.Boards.StartTimer(ctx, caller, req.BoardID, time.Duration(req.DurationMs)*time.Millisecond)
		if err != nil {
			return nil, err
		}
		return b.Timer, nil
	case "timer.pause", "timer.resume", "timer.reset":
		var req BoardIDParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		op := map[string]func(context.Context, identity.Caller, string) (*board.Board, error){
			"timer.pause":  h.svc.Boards.PauseTimer,
			"timer.resume": h.svc.Boards.ResumeTimer,
			"timer.reset":  h.svc.Boards.ResetTimer,
		}[method]
		b, err := op(ctx, caller, req.BoardID)
		if err != nil {
			return nil, err
		}
		return b.Timer, nil

	// Notes
	case "note.create":
		var req CreateNoteParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		n, err := h.svc.Notes.Create(ctx, caller, note.CreateRequest{
			BoardID:   req.BoardID,
			SectionID: req.SectionID,
			Content:   req.Content,
			Color:     req.Color,
			PositionX: req.PositionX,
			PositionY: req.PositionY,
		})
		if err != nil {
			return nil, err
		}
		return IDResponse{ID: n.ID}, nil
	case "note.update":
		var req UpdateNoteParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		if _, err := h.svc.Notes.Update(ctx, caller, note.UpdateRequest{
			NoteID:    req.NoteID,
			Content:   req.Content,
			SectionID: req.SectionID,
			Color:     req.Color,
			PositionX: req.PositionX,
			PositionY: req.PositionY,
		}); err != nil {
			return nil, err
		}
		return statusOK, nil
	case "note.move":
		var req MoveNoteParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		if _, err := h.svc.Notes.Move(ctx, caller, note.MoveRequest{
			NoteID:             req.NoteID,
			PositionX:          req.PositionX,
			PositionY:          req.PositionY,
			SectionID:          req.SectionID,
			FollowSectionColor: req.FollowSectionColor,
		}); err != nil {
			return nil, err
		}
		return statusOK, nil
	case "note.remove":
		var req NoteIDParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		if err := h.svc.Notes.Remove(ctx, caller, req.NoteID); err != nil {
			return nil, err
		}
		return statusOK, nil
	case "note.vote":
		var req VoteParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.svc.Notes.Vote(ctx, caller, req.NoteID, req.BoardID)
	case "note.createActionItem":
		var req ActionItemParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		n, err := h.svc.Notes.CreateActionItem(ctx, caller, req.BoardID, req.SourceNoteID)
		if err != nil {
			return nil, err
		}
		return IDResponse{ID: n.ID}, nil

	// Participants
	case "participant.join", "participant.heartbeat", "participant.leave":
		var req BoardIDParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		op := map[string]func(context.Context, identity.Caller, string) error{
			"participant.join":      h.svc.Participants.Join,
			"participant.heartbeat": h.svc.Participants.Heartbeat,
			"participant.leave":     h.svc.Participants.Leave,
		}[method]
		if err := op(ctx, caller, req.BoardID); err != nil {
			return nil, err
		}
		return statusOK, nil
	case "participant.getActive":
		var req BoardIDParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.svc.Participants.GetActive(ctx, req.BoardID)
	case "participant.updateCursor":
		var req UpdateCursorParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		if err := h.svc.Participants.UpdateCursor(ctx, caller, req.BoardID, req.Cursor); err != nil {
			return nil, err
		}
		return statusOK, nil
	case "participant.getCursorPositions":
		var req BoardIDParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.svc.Participants.GetCursorPositions(ctx, caller, req.BoardID)

	// Confetti
	case "confetti.fire":
		var req FireConfettiParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		if _, err := h.svc.Confetti.Fire(ctx, caller, confetti.FireRequest{
			BoardID:  req.BoardID,
			Type:     req.Type,
			OriginX:  req.OriginX,
			OriginY:  req.OriginY,
			Angle:    req.Angle,
			Velocity: req.Velocity,
			Distance: req.Distance,
		}); err != nil {
			return nil, err
		}
		return statusOK, nil
	case "confetti.recent":
		var req BoardIDParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.svc.Confetti.Recent(ctx, req.BoardID)

	// Folders
	case "folder.list":
		return h.svc.Folders.List(ctx, caller)
	case "folder.create":
		var req CreateFolderParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		f, err := h.svc.Folders.Create(ctx, caller, req.Name, req.Color)
		if err != nil {
			return nil, err
		}
		return IDResponse{ID: f.ID}, nil
	case "folder.rename":
		var req RenameFolderParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		if err := h.svc.Folders.Rename(ctx, caller, req.ID, req.Name); err != nil {
			return nil, err
		}
		return statusOK, nil
	case "folder.remove":
		var req FolderIDParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		if err := h.svc.Folders.Remove(ctx, caller, req.ID); err != nil {
			return nil, err
		}
		return statusOK, nil

	// Users
	case "user.current":
		u, err := h.svc.Users.Current(ctx, caller)
		if err != nil || u == nil {
			return nil, err
		}
		return u, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownMethod, method)
	}
}

func decodeParams(params json.RawMessage, out any) error {
	if len(params) == 0 {
		return nil
	}
	if err := json.Unmarshal(params, out); err != nil {
		return &APIError{Code: CodeInvalidInput, Message: fmt.Sprintf("invalid params: %v", err), RPC: RPCInvalidParams}
	}
	return nil
}
