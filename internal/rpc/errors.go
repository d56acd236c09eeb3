package rpc

import (
	"errors"
	"fmt"

	"github.com/rpggio/retroboard/internal/domain/board"
	"github.com/rpggio/retroboard/internal/domain/confetti"
	"github.com/rpggio/retroboard/internal/domain/folder"
	"github.com/rpggio/retroboard/internal/domain/identity"
	"github.com/rpggio/retroboard/internal/domain/note"
	"github.com/rpggio/retroboard/internal/domain/participant"
	"github.com/rpggio/retroboard/internal/domain/user"
)

// Error codes surfaced to clients.
const (
	CodeUnauthenticated = "UNAUTHENTICATED"
	CodeNotFound        = "NOT_FOUND"
	CodeNotAuthorized   = "NOT_AUTHORIZED"
	CodeInvalidState    = "INVALID_STATE"
	CodeInvalidInput    = "INVALID_INPUT"
	CodeMethodNotFound  = "METHOD_NOT_FOUND"
)

// JSON-RPC error codes for domain failures.
const (
	RPCUnauthenticated = -32001
	RPCNotAuthorized   = -32003
	RPCNotFound        = -32004
	RPCInvalidState    = -32009
	RPCInvalidParams   = -32602
	RPCMethodNotFound  = -32601
)

// ErrUnknownMethod is returned for methods the handler does not serve.
var ErrUnknownMethod = errors.New("unknown method")

// APIError represents an RPC error response.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	RPC     int    `json:"-"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// RPCCode returns the JSON-RPC error code.
func (e *APIError) RPCCode() int {
	return e.RPC
}

// Data returns the error payload attached to JSON-RPC errors.
func (e *APIError) Data() any {
	return map[string]string{"code": e.Code}
}

// MapError maps domain errors to API errors. Unknown errors map to nil.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	switch {
	case errors.Is(err, identity.ErrUnauthenticated), errors.Is(err, user.ErrInvalidToken):
		return &APIError{Code: CodeUnauthenticated, Message: "authentication required", RPC: RPCUnauthenticated}
	case errors.Is(err, board.ErrBoardNotFound):
		return &APIError{Code: CodeNotFound, Message: "board not found", RPC: RPCNotFound}
	case errors.Is(err, note.ErrNoteNotFound):
		return &APIError{Code: CodeNotFound, Message: "note not found", RPC: RPCNotFound}
	case errors.Is(err, note.ErrSectionNotFound):
		return &APIError{Code: CodeNotFound, Message: "section not found", RPC: RPCNotFound}
	case errors.Is(err, folder.ErrFolderNotFound):
		return &APIError{Code: CodeNotFound, Message: "folder not found", RPC: RPCNotFound}
	case errors.Is(err, user.ErrUserNotFound):
		return &APIError{Code: CodeNotFound, Message: "user not found", RPC: RPCNotFound}
	case errors.Is(err, note.ErrNotAuthorized):
		return &APIError{Code: CodeNotAuthorized, Message: "only the note's creator can change it", RPC: RPCNotAuthorized}
	case errors.Is(err, folder.ErrNotAuthorized):
		return &APIError{Code: CodeNotAuthorized, Message: "folder belongs to another user", RPC: RPCNotAuthorized}
	case errors.Is(err, participant.ErrNotParticipant):
		return &APIError{Code: CodeNotAuthorized, Message: "caller has not joined this board", RPC: RPCNotAuthorized}
	case errors.Is(err, note.ErrBoardFinished):
		return &APIError{Code: CodeInvalidState, Message: "board is finished", RPC: RPCInvalidState}
	case errors.Is(err, note.ErrNoActionSection):
		return &APIError{Code: CodeInvalidInput, Message: "board has no action section", RPC: RPCInvalidParams}
	case errors.Is(err, board.ErrInvalidPhase),
		errors.Is(err, board.ErrInvalidInput),
		errors.Is(err, note.ErrInvalidInput),
		errors.Is(err, folder.ErrInvalidInput),
		errors.Is(err, confetti.ErrInvalidInput),
		errors.Is(err, user.ErrInvalidInput):
		return &APIError{Code: CodeInvalidInput, Message: err.Error(), RPC: RPCInvalidParams}
	case errors.Is(err, ErrUnknownMethod):
		return &APIError{Code: CodeMethodNotFound, Message: err.Error(), RPC: RPCMethodNotFound}
	default:
		return nil
	}
}

func mapError(err error) error {
	if apiErr := MapError(err); apiErr != nil {
		return apiErr
	}
	return err
}
