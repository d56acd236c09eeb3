package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `retroboard hosts retrospective boards: Boards → Sections → Notes, with votes and action items.

Core concepts:
- Board: a retrospective with a phase (writing, reveal, voting, discussion, finished) and a per-person vote budget.
- Section: a column of a board with a fixed color. The first section whose name mentions "action", "todo" or "next step" collects action items.
- Note: a sticky note. During writing, other participants' notes are ghosts (no content).
- Vote: one per (note, user), bounded by the board's votes per person.

Typical facilitation:
1) Orient: list_boards, then get_board for the board you are helping with.
2) Collect: add_note during writing.
3) Move the board forward with set_phase. Phases may be set in any order.
4) Vote with vote; a spent budget returns success=false, not an error.
5) Close the loop: create_action_item from the most voted notes, then set_phase finished.

Docs:
- retro://docs/phases
- retro://docs/visibility
`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     string
}

var docResources = []docResource{
	{
		URI:         "retro://docs/phases",
		Name:        "phases",
		Title:       "Board phases",
		Description: "What each phase allows",
		Content: `# Board phases

| Phase | Notes | Votes | Visibility |
|---|---|---|---|
| writing | create, edit, move | open | own notes only |
| reveal | create, edit, move | open | all notes |
| voting | create, edit, move | open | all notes |
| discussion | create, edit, move | open | all notes |
| finished | read only | closed | all notes |

Transitions are not ordered: any phase may follow any other.
Reset votes when setting a phase to clear every vote on the board.
`,
	},
	{
		URI:         "retro://docs/visibility",
		Name:        "visibility",
		Title:       "Note visibility",
		Description: "How ghost notes work",
		Content: `# Note visibility

While a board is in the writing phase, a viewer sees full content only
for notes they created. Other notes are returned as ghosts that carry
id, sectionId, createdBy, creatorName and visibility only.

From reveal onwards every note is visible to every viewer, including
its votes.
`,
	},
}

func registerDocResources(server *sdkmcp.Server) {
	for _, doc := range docResources {
		doc := doc
		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
			Size:        int64(len(doc.Content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			uri := doc.URI
			if req != nil && req.Params != nil && req.Params.URI != "" {
				uri = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      uri,
					MIMEType: "text/markdown",
					Text:     doc.Content,
				}},
			}, nil
		})
	}
}
