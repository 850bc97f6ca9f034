// Package backend defines the contract between the MCP tool handlers and the
// Logseq API client. Tools depend on this interface so tests can substitute
// a fake graph.
package backend

import (
	"context"
	"encoding/json"

	"logseqmcp/types"
)

// Backend is the set of Logseq operations the tool surface relies on.
// client.Client satisfies this interface.
type Backend interface {
	// Page operations
	GetAllPages(ctx context.Context) ([]types.PageEntity, error)
	GetPage(ctx context.Context, nameOrID any) (*types.PageEntity, error)
	GetPageBlocksTree(ctx context.Context, nameOrID any) ([]types.BlockEntity, error)
	GetPageProperties(ctx context.Context, nameOrID any) (map[string]any, error)
	CreatePage(ctx context.Context, name string, properties map[string]any, opts map[string]any) (*types.PageEntity, error)
	DeletePage(ctx context.Context, name string) error
	UpdatePageProperties(ctx context.Context, name string, properties map[string]any) error
	SetPageProperties(ctx context.Context, name string, properties map[string]any) error
	AppendBlockInPage(ctx context.Context, page string, content string) (*types.BlockEntity, error)

	// Block operations
	InsertBlock(ctx context.Context, parent any, content string, opts map[string]any) (json.RawMessage, error)
	UpdateBlock(ctx context.Context, uuid string, content string, pos *int) error
	RemoveBlock(ctx context.Context, uuid string) error
	GetBlock(ctx context.Context, uuid string, includeChildren bool) (json.RawMessage, error)

	// Search
	Search(ctx context.Context, query string, opts map[string]any) (*types.SearchResults, error)

	// Connectivity
	Ping(ctx context.Context) error
}
