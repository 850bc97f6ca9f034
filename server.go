package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"logseqmcp/backend"
	"logseqmcp/tools"
)

// newServer creates and configures the MCP server with all tools registered.
// If readOnly is true, write tools are not registered.
func newServer(b backend.Backend, replacer tools.Replacer, readOnly bool, logger *slog.Logger) *mcp.Server {
	srv := mcp.NewServer(
		&mcp.Implementation{
			Name:    "logseqmcp",
			Version: version,
		},
		nil,
	)

	pages := tools.NewPages(b, logger)
	blocks := tools.NewBlocks(b, logger)
	search := tools.NewSearch(b, logger)

	// --- Read tools ---
	mcp.AddTool(srv, &mcp.Tool{
		Name:        "list_pages",
		Description: "Lists all pages in a LogSeq graph. Journal/daily notes are excluded unless include_journals is set.",
	}, pages.ListPages)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "get_page_content",
		Description: "Get the content of a specific page from LogSeq: metadata, properties, and the full block tree. Choose text or json output.",
	}, pages.GetPageContent)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "get_block",
		Description: "Retrieve a block by UUID (optionally with children) as JSON.",
	}, blocks.GetBlock)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "search",
		Description: "Search for content across LogSeq pages, blocks, and files. Limiting and ranking are done by LogSeq itself.",
	}, search.Run)

	// --- Write tools (skipped in read-only mode) ---
	if !readOnly {
		mcp.AddTool(srv, &mcp.Tool{
			Name:        "create_page",
			Description: "Create a new page in LogSeq with a title and initial content.",
		}, pages.CreatePage)

		mcp.AddTool(srv, &mcp.Tool{
			Name:        "update_page",
			Description: "Update a page in LogSeq with new content and/or properties. Content is appended; properties are merged.",
		}, pages.UpdatePage)

		mcp.AddTool(srv, &mcp.Tool{
			Name:        "delete_page",
			Description: "Delete a page from LogSeq. Fails if the page does not exist. This is irreversible.",
		}, pages.DeletePage)

		mcp.AddTool(srv, &mcp.Tool{
			Name:        "insert_block",
			Description: "Insert a new block into LogSeq (page-level or nested under another block).",
		}, blocks.InsertBlock)

		mcp.AddTool(srv, &mcp.Tool{
			Name:        "update_block",
			Description: "Update the content of an existing block by UUID.",
		}, blocks.UpdateBlock)

		mcp.AddTool(srv, &mcp.Tool{
			Name:        "delete_block",
			Description: "Delete a block by UUID. Removes the block and all its children. This is irreversible.",
		}, blocks.DeleteBlock)

		// replace_children uses a raw handler because the blocks field is
		// recursive, which the schema generator can't handle.
		replace := tools.NewReplace(replacer, logger)
		srv.AddTool(&mcp.Tool{
			Name:        "replace_children",
			Description: "Replace the children of a page or block with a provided block hierarchy. Existing children are deleted first unless delete_existing is false. Not transactional: a failure mid-tree leaves earlier deletes and inserts in place.",
			InputSchema: json.RawMessage(tools.ReplaceChildrenSchema),
		}, replace.ReplaceChildrenRaw)
	}

	// --- Health tool ---
	mcp.AddTool(srv, &mcp.Tool{
		Name:        "health",
		Description: "Check server status: version, read-only mode, page count. Use to verify the server is alive and LogSeq is reachable.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, input struct{}) (*mcp.CallToolResult, any, error) {
		status := "ok"
		if err := b.Ping(ctx); err != nil {
			status = fmt.Sprintf("error: %v", err)
		}

		pages, _ := b.GetAllPages(ctx)

		data, _ := json.MarshalIndent(map[string]any{
			"status":    status,
			"version":   version,
			"readOnly":  readOnly,
			"pageCount": len(pages),
		}, "", "  ")

		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: string(data)}},
		}, nil, nil
	})

	return srv
}
