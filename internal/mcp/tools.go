package mcp

import (
	"context"
	"encoding/json"
	"log/slog"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/retroboard/internal/domain/board"
	"github.com/rpggio/retroboard/internal/domain/identity"
)

type ListBoardsInput struct{}

type GetBoardInput struct {
	BoardID string `json:"boardId" jsonschema:"board ID"`
}

type AddNoteInput struct {
	BoardID   string      `json:"boardId" jsonschema:"board ID"`
	SectionID string      `json:"sectionId" jsonschema:"section the note is filed under"`
	Content   string      `json:"content" jsonschema:"note text"`
	Color     board.Color `json:"color" jsonschema:"one of yellow, blue, green, red, pink"`
	PositionX float64     `json:"positionX,omitempty" jsonschema:"horizontal offset inside the section"`
	PositionY float64     `json:"positionY,omitempty" jsonschema:"vertical offset inside the section"`
}

type CreateActionItemInput struct {
	BoardID      string `json:"boardId" jsonschema:"board ID"`
	SourceNoteID string `json:"sourceNoteId" jsonschema:"note the action item follows up on"`
}

type SetPhaseInput struct {
	BoardID        string      `json:"boardId" jsonschema:"board ID"`
	Phase          board.Phase `json:"phase" jsonschema:"one of writing, reveal, voting, discussion, finished"`
	VotesPerPerson *int        `json:"votesPerPerson,omitempty" jsonschema:"new vote budget per participant"`
	ResetVotes     bool        `json:"resetVotes,omitempty" jsonschema:"clear every vote on the board"`
}

type VoteInput struct {
	BoardID string `json:"boardId" jsonschema:"board ID"`
	NoteID  string `json:"noteId" jsonschema:"note to vote on; voting again removes the vote"`
}

// toolBinding binds a tool to the RPC method it runs.
type toolBinding struct {
	name        string
	description string
	method      string
}

var toolCatalog = []toolBinding{
	{name: "list_boards", description: "List the boards the caller has joined", method: "board.list"},
	{name: "get_board", description: "Get a board with its sections, notes and participants as the caller sees them", method: "board.get"},
	{name: "add_note", description: "Add a note to a board section", method: "note.create"},
	{name: "create_action_item", description: "Create an action item from an existing note in the board's action section", method: "note.createActionItem"},
	{name: "set_phase", description: "Set the board phase, optionally changing the vote budget or clearing votes", method: "board.updatePhase"},
	{name: "vote", description: "Toggle the caller's vote on a note", method: "note.vote"},
}

func registerTools(server *sdkmcp.Server, dispatcher Dispatcher, logger *slog.Logger) {
	for _, b := range toolCatalog {
		tool := &sdkmcp.Tool{Name: b.name, Description: b.description}
		switch b.name {
		case "list_boards":
			sdkmcp.AddTool(server, tool, toolHandler[ListBoardsInput](dispatcher, b.method, logger))
		case "get_board":
			sdkmcp.AddTool(server, tool, toolHandler[GetBoardInput](dispatcher, b.method, logger))
		case "add_note":
			sdkmcp.AddTool(server, tool, toolHandler[AddNoteInput](dispatcher, b.method, logger))
		case "create_action_item":
			sdkmcp.AddTool(server, tool, toolHandler[CreateActionItemInput](dispatcher, b.method, logger))
		case "set_phase":
			sdkmcp.AddTool(server, tool, toolHandler[SetPhaseInput](dispatcher, b.method, logger))
		case "vote":
			sdkmcp.AddTool(server, tool, toolHandler[VoteInput](dispatcher, b.method, logger))
		}
	}
}

// toolHandler forwards the tool input as the params of method. Input field
// names match the RPC params.
func toolHandler[In any](dispatcher Dispatcher, method string, logger *slog.Logger) sdkmcp.ToolHandlerFor[In, any] {
	return func(ctx context.Context, _ *sdkmcp.CallToolRequest, in In) (*sdkmcp.CallToolResult, any, error) {
		params, err := json.Marshal(in)
		if err != nil {
			return nil, nil, err
		}
		result, err := dispatcher.Handle(ctx, identity.FromContext(ctx), method, params)
		if err != nil {
			logger.Debug("mcp tool failed", "method", method, "error", err)
			res, err := errorResult(err)
			return res, nil, err
		}
		res, err := jsonResult(result)
		return res, nil, err
	}
}
