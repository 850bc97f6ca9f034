package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"logseqmcp/backend"
	"logseqmcp/types"
)

// Pages implements the page CRUD tools.
type Pages struct {
	b   backend.Backend
	log *slog.Logger
}

// NewPages creates the page tool handler.
func NewPages(b backend.Backend, logger *slog.Logger) *Pages {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pages{b: b, log: logger}
}

// CreatePage creates a page and appends the initial content as its first block.
func (p *Pages) CreatePage(ctx context.Context, req *mcp.CallToolRequest, input types.CreatePageInput) (*mcp.CallToolResult, any, error) {
	if input.Title == "" {
		return errorResult("title argument required"), nil, nil
	}

	_, err := p.b.CreatePage(ctx, input.Title, nil, map[string]any{"createFirstBlock": true})
	if err != nil {
		return failedResult("create page", input.Title, err), nil, nil
	}

	if strings.TrimSpace(input.Content) != "" {
		if _, err := p.b.AppendBlockInPage(ctx, input.Title, input.Content); err != nil {
			return failedResult("add content to page", input.Title, err), nil, nil
		}
	}

	return textResult(fmt.Sprintf("Successfully created page '%s'", input.Title)), nil, nil
}

// ListPages lists all pages in the graph, journals excluded by default.
func (p *Pages) ListPages(ctx context.Context, req *mcp.CallToolRequest, input types.ListPagesInput) (*mcp.CallToolResult, any, error) {
	pages, err := p.b.GetAllPages(ctx)
	if err != nil {
		return errorResult(fmt.Sprintf("failed to list pages: %v", err)), nil, nil
	}

	return textResult(formatPageList(pages, input.IncludeJournals)), nil, nil
}

// formatPageList renders the page listing with a count footer.
func formatPageList(pages []types.PageEntity, includeJournals bool) string {
	var lines []string
	for _, page := range pages {
		if page.Journal && !includeJournals {
			continue
		}
		name := page.OriginalName
		if name == "" {
			name = page.Name
		}
		if name == "" {
			name = "<unknown>"
		}
		line := "- " + name
		if page.Journal {
			line += " [journal]"
		}
		lines = append(lines, line)
	}
	sort.Strings(lines)

	journalNote := " (excluding journal pages)"
	if includeJournals {
		journalNote = " (including journal pages)"
	}

	return "LogSeq Pages:\n\n" + strings.Join(lines, "\n") +
		fmt.Sprintf("\nTotal pages: %d%s", len(lines), journalNote)
}

// GetPageContent returns a page's metadata, properties, and block tree.
func (p *Pages) GetPageContent(ctx context.Context, req *mcp.CallToolRequest, input types.GetPageContentInput) (*mcp.CallToolResult, any, error) {
	page, err := p.b.GetPage(ctx, input.PageName)
	if err != nil {
		return failedResult("get page", input.PageName, err), nil, nil
	}
	if page == nil {
		return textResult(fmt.Sprintf("Page '%s' not found.", input.PageName)), nil, nil
	}

	blocks, err := p.b.GetPageBlocksTree(ctx, input.PageName)
	if err != nil {
		return failedResult("get blocks for page", input.PageName, err), nil, nil
	}

	properties, err := p.b.GetPageProperties(ctx, input.PageName)
	if err != nil {
		return failedResult("get properties for page", input.PageName, err), nil, nil
	}
	page.Properties = properties

	if input.Format == "json" {
		data, err := json.MarshalIndent(map[string]any{
			"page":   page,
			"blocks": blocks,
		}, "", "  ")
		if err != nil {
			return nil, nil, fmt.Errorf("marshal page content: %w", err)
		}
		return textResult(string(data)), nil, nil
	}

	return textResult(formatPageText(input.PageName, page, blocks)), nil, nil
}

// formatPageText renders a page as readable markdown-ish text.
func formatPageText(requestedName string, page *types.PageEntity, blocks []types.BlockEntity) string {
	var parts []string

	title := page.OriginalName
	if title == "" {
		title = requestedName
	}
	parts = append(parts, "# "+title+"\n")

	if len(page.Properties) > 0 {
		parts = append(parts, "Properties:")
		keys := make([]string, 0, len(page.Properties))
		for k := range page.Properties {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			parts = append(parts, fmt.Sprintf("- %s: %v", k, page.Properties[k]))
		}
		parts = append(parts, "")
	}

	if len(blocks) > 0 {
		parts = append(parts, "Content:")
		parts = appendBlockLines(parts, blocks, 0)
	} else {
		parts = append(parts, "No content blocks found.")
	}

	return strings.Join(parts, "\n")
}

func appendBlockLines(parts []string, blocks []types.BlockEntity, depth int) []string {
	indent := strings.Repeat("  ", depth)
	for _, b := range blocks {
		if strings.TrimSpace(b.Content) != "" {
			parts = append(parts, indent+"- "+b.Content)
		}
		if len(b.Children) > 0 {
			parts = appendBlockLines(parts, b.Children, depth+1)
		}
	}
	return parts
}

// UpdatePage updates a page's properties and/or appends content.
func (p *Pages) UpdatePage(ctx context.Context, req *mcp.CallToolRequest, input types.UpdatePageInput) (*mcp.CallToolResult, any, error) {
	if input.Content == "" && len(input.Properties) == 0 {
		return errorResult("either 'content' or 'properties' must be provided for update"), nil, nil
	}

	exists, err := p.pageExists(ctx, input.PageName)
	if err != nil {
		return failedResult("update page", input.PageName, err), nil, nil
	}
	if !exists {
		return errorResult(fmt.Sprintf("Page '%s' does not exist", input.PageName)), nil, nil
	}

	var updates []string

	if len(input.Properties) > 0 {
		if err := p.b.UpdatePageProperties(ctx, input.PageName, input.Properties); err != nil {
			// Older Logseq versions reject updatePage with a properties
			// argument; setPageProperties is the fallback.
			p.log.Warn("updatePage failed, falling back to setPageProperties",
				"page", input.PageName, "error", err)
			if err := p.b.SetPageProperties(ctx, input.PageName, input.Properties); err != nil {
				return failedResult("update properties of page", input.PageName, err), nil, nil
			}
			updates = append(updates, "properties updated (via fallback method)")
		} else {
			updates = append(updates, "properties updated")
		}
	}

	if input.Content != "" {
		if _, err := p.b.AppendBlockInPage(ctx, input.PageName, input.Content); err != nil {
			return failedResult("append content to page", input.PageName, err), nil, nil
		}
		updates = append(updates, "content appended")
	}

	return textResult(fmt.Sprintf("Successfully updated page '%s': %s",
		input.PageName, strings.Join(updates, ", "))), nil, nil
}

// DeletePage deletes a page after verifying it exists. The existence check
// matters because deletePage on a missing page silently succeeds.
func (p *Pages) DeletePage(ctx context.Context, req *mcp.CallToolRequest, input types.DeletePageInput) (*mcp.CallToolResult, any, error) {
	exists, err := p.pageExists(ctx, input.PageName)
	if err != nil {
		return failedResult("delete page", input.PageName, err), nil, nil
	}
	if !exists {
		return errorResult(fmt.Sprintf("Page '%s' does not exist", input.PageName)), nil, nil
	}

	if err := p.b.DeletePage(ctx, input.PageName); err != nil {
		return failedResult("delete page", input.PageName, err), nil, nil
	}

	return textResult(fmt.Sprintf("Successfully deleted page '%s'", input.PageName)), nil, nil
}

func (p *Pages) pageExists(ctx context.Context, name string) (bool, error) {
	pages, err := p.b.GetAllPages(ctx)
	if err != nil {
		return false, err
	}
	for _, page := range pages {
		if page.OriginalName == name || page.Name == name {
			return true, nil
		}
	}
	return false, nil
}
