package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"logseqmcp/backend"
	"logseqmcp/sync"
	"logseqmcp/types"
)

// Blocks implements the single-block CRUD tools.
type Blocks struct {
	b   backend.Backend
	log *slog.Logger
}

// NewBlocks creates the block tool handler.
func NewBlocks(b backend.Backend, logger *slog.Logger) *Blocks {
	if logger == nil {
		logger = slog.Default()
	}
	return &Blocks{b: b, log: logger}
}

// InsertBlock inserts a single block, page-level or nested.
func (t *Blocks) InsertBlock(ctx context.Context, req *mcp.CallToolRequest, input types.InsertBlockInput) (*mcp.CallToolResult, any, error) {
	if input.Content == "" {
		return errorResult("content argument required"), nil, nil
	}

	opts := map[string]any{
		"isPageBlock": input.IsPageBlock,
		"before":      input.Before,
		"customUUID":  nil,
	}
	if input.CustomUUID != "" {
		opts["customUUID"] = input.CustomUUID
	}

	var parent any
	if input.ParentBlock != "" {
		parent = input.ParentBlock
	}

	raw, err := t.b.InsertBlock(ctx, parent, input.Content, opts)
	if err != nil {
		return errorResult(fmt.Sprintf("failed to insert block: %v", err)), nil, nil
	}

	var result any
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &result)
	}

	lines := []string{"Block inserted"}
	if uuid, ok := sync.ExtractIdentifier(result); ok {
		lines = append(lines, "UUID: "+uuid)
	} else {
		lines = append(lines, "Response: "+string(raw))
	}

	return textResult(strings.Join(lines, "\n")), nil, nil
}

// UpdateBlock replaces an existing block's content.
func (t *Blocks) UpdateBlock(ctx context.Context, req *mcp.CallToolRequest, input types.UpdateBlockInput) (*mcp.CallToolResult, any, error) {
	if input.BlockUUID == "" {
		return errorResult("block_uuid argument required"), nil, nil
	}

	if err := t.b.UpdateBlock(ctx, input.BlockUUID, input.Content, input.Pos); err != nil {
		return failedResult("update block", input.BlockUUID, err), nil, nil
	}

	return textResult(fmt.Sprintf("Updated block %s", input.BlockUUID)), nil, nil
}

// DeleteBlock removes a block and its children.
func (t *Blocks) DeleteBlock(ctx context.Context, req *mcp.CallToolRequest, input types.DeleteBlockInput) (*mcp.CallToolResult, any, error) {
	if input.BlockUUID == "" {
		return errorResult("block_uuid argument required"), nil, nil
	}

	if err := t.b.RemoveBlock(ctx, input.BlockUUID); err != nil {
		return failedResult("delete block", input.BlockUUID, err), nil, nil
	}

	return textResult(fmt.Sprintf("Deleted block %s", input.BlockUUID)), nil, nil
}

// GetBlock fetches a block by UUID, optionally with children, as pretty JSON.
func (t *Blocks) GetBlock(ctx context.Context, req *mcp.CallToolRequest, input types.GetBlockInput) (*mcp.CallToolResult, any, error) {
	if input.BlockUUID == "" {
		return errorResult("block_uuid argument required"), nil, nil
	}

	raw, err := t.b.GetBlock(ctx, input.BlockUUID, input.IncludeChildren)
	if err != nil {
		return failedResult("get block", input.BlockUUID, err), nil, nil
	}

	return jsonRawTextResult(raw), nil, nil
}
