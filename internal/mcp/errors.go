package mcp

import (
	"encoding/json"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/retroboard/internal/rpc"
)

// toolError is the JSON body of a failed tool call.
type toolError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// errorResult converts a domain failure into a tool result the agent can
// read. Internal failures are returned as errors.
func errorResult(err error) (*sdkmcp.CallToolResult, error) {
	apiErr := rpc.MapError(err)
	if apiErr == nil {
		return nil, err
	}
	data, mErr := json.Marshal(toolError{Code: apiErr.Code, Message: apiErr.Message})
	if mErr != nil {
		return nil, mErr
	}
	return &sdkmcp.CallToolResult{
		IsError: true,
		Content: []sdkmcp.Content{&sdkmcp.TextContent{Text: string(data)}},
	}, nil
}

func jsonResult(v any) (*sdkmcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return &sdkmcp.CallToolResult{
		Content: []sdkmcp.Content{&sdkmcp.TextContent{Text: string(data)}},
	}, nil
}
