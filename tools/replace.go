package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"logseqmcp/sync"
	"logseqmcp/types"
)

// Replacer is the subtree replacement operation. *sync.Engine satisfies it.
type Replacer interface {
	ReplaceChildren(ctx context.Context, parent sync.ParentRef, blocks []types.BlockSpec, deleteExisting bool) ([]string, error)
}

// Replace implements the replace_children tool.
type Replace struct {
	engine Replacer
	log    *slog.Logger
}

// NewReplace creates the replace_children tool handler.
func NewReplace(engine Replacer, logger *slog.Logger) *Replace {
	if logger == nil {
		logger = slog.Default()
	}
	return &Replace{engine: engine, log: logger}
}

// ReplaceChildrenSchema is the hand-written input schema. The blocks field
// is recursive, which the SDK's schema generator cannot express, so the
// tool is registered with a raw handler and this literal.
const ReplaceChildrenSchema = `{
  "type": "object",
  "definitions": {
    "block": {
      "type": "object",
      "properties": {
        "content": {"type": "string", "description": "Block content in Markdown"},
        "children": {"type": "array", "items": {"$ref": "#/definitions/block"}, "description": "Optional child blocks to nest under this block"},
        "custom_uuid": {"type": "string", "description": "Optional UUID to assign to this block"}
      },
      "required": ["content"]
    }
  },
  "properties": {
    "target": {"type": "string", "description": "Page name or block UUID whose children should be replaced"},
    "is_page": {"type": "boolean", "description": "Treat target as a page name (true for page-level operations)", "default": false},
    "blocks": {"type": "array", "items": {"$ref": "#/definitions/block"}, "description": "New block hierarchy to insert"},
    "delete_existing": {"type": "boolean", "description": "Delete existing children before inserting the new tree", "default": true}
  },
  "required": ["target", "blocks"]
}`

// ReplaceChildrenRaw is the raw ToolHandler for replace_children.
func (r *Replace) ReplaceChildrenRaw(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var input types.ReplaceChildrenInput
	if err := json.Unmarshal(req.Params.Arguments, &input); err != nil {
		return errorResult(fmt.Sprintf("invalid input: %v", err)), nil
	}
	return r.replaceChildren(ctx, input), nil
}

// replaceChildren is the shared implementation behind the raw handler.
func (r *Replace) replaceChildren(ctx context.Context, input types.ReplaceChildrenInput) *mcp.CallToolResult {
	if input.Target == "" {
		return errorResult("target argument required")
	}
	if input.Blocks == nil {
		return errorResult("blocks argument must be an array")
	}

	r.warnOnMalformedUUIDs(input.Blocks)

	deleteExisting := input.DeleteExisting == nil || *input.DeleteExisting

	inserted, err := r.engine.ReplaceChildren(ctx, sync.ParentRef{
		Target: input.Target,
		IsPage: input.IsPage,
	}, input.Blocks, deleteExisting)
	if err != nil {
		return failedResult("replace children under", input.Target, err)
	}

	summary := []string{
		fmt.Sprintf("Replaced children under %s", input.Target),
		fmt.Sprintf("Inserted blocks: %d", len(inserted)),
	}
	if len(inserted) > 0 {
		summary = append(summary, "First inserted UUID: "+inserted[0])
	}
	if len(inserted) < len(input.Blocks) {
		summary = append(summary, fmt.Sprintf("Warning: %d of %d root blocks could not be tracked by UUID",
			len(input.Blocks)-len(inserted), len(input.Blocks)))
	}

	return textResult(strings.Join(summary, "\n"))
}

// warnOnMalformedUUIDs logs custom UUIDs Logseq will likely reject. They are
// still passed through; the remote end has the final say.
func (r *Replace) warnOnMalformedUUIDs(blocks []types.BlockSpec) {
	for _, b := range blocks {
		if b.CustomUUID != "" {
			if _, err := uuid.Parse(b.CustomUUID); err != nil {
				r.log.Warn("custom_uuid is not a valid UUID", "value", b.CustomUUID)
			}
		}
		if len(b.Children) > 0 {
			r.warnOnMalformedUUIDs(b.Children)
		}
	}
}
