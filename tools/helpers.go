package tools

import (
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// textResult creates a successful text CallToolResult.
func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

// errorResult creates an error CallToolResult (visible to the LLM for self-correction).
func errorResult(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: msg}},
		IsError: true,
	}
}

// jsonRawTextResult pretty-prints raw JSON bytes, falling back to the bytes
// verbatim when they do not parse.
func jsonRawTextResult(raw json.RawMessage) *mcp.CallToolResult {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return textResult(string(raw))
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return textResult(string(raw))
	}
	return textResult(string(data))
}

// failedResult formats an underlying error into the standard failure report.
func failedResult(action, target string, err error) *mcp.CallToolResult {
	return errorResult(fmt.Sprintf("failed to %s '%s': %v", action, target, err))
}
