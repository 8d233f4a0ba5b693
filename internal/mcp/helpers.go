package mcp

import (
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"flowmine/internal/eventlog"
)

func toolText(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

func toolError(format string, args ...any) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: fmt.Sprintf(format, args...)}},
		IsError: true,
	}
}

func toolJSON(v any) (*mcp.CallToolResult, any, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return toolError("Failed to marshal result: %v", err), nil, nil
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(data)}},
	}, nil, nil
}

// datasetRows resolves a dataset id to its rows. The second return carries
// the error result to hand back when resolution fails.
func datasetRows(store *eventlog.LogStore, id string) (eventlog.EventLog, *mcp.CallToolResult) {
	if id == "" {
		return nil, toolError("dataset_id is required")
	}
	ds, ok := store.Get(id)
	if !ok {
		return nil, toolError("Unknown dataset %q. Use list_datasets to see what is loaded.", id)
	}
	return ds.Rows, nil
}
