package tools

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"logseqmcp/backend"
	"logseqmcp/types"
)

const defaultSearchLimit = 20

// Logseq wraps matched terms in full-text snippets with these markers.
var snippetMarkers = strings.NewReplacer("$pfts_2lqh>$", "", "$<pfts_2lqh$", "")

// Search implements the full-text search tool. Result limiting and ranking
// are entirely Logseq's; this layer only formats.
type Search struct {
	b   backend.Backend
	log *slog.Logger
}

// NewSearch creates the search tool handler.
func NewSearch(b backend.Backend, logger *slog.Logger) *Search {
	if logger == nil {
		logger = slog.Default()
	}
	return &Search{b: b, log: logger}
}

// Run executes logseq.search and renders a sectioned text report.
func (s *Search) Run(ctx context.Context, req *mcp.CallToolRequest, input types.SearchInput) (*mcp.CallToolResult, any, error) {
	if input.Query == "" {
		return errorResult("query argument required"), nil, nil
	}

	limit := input.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	results, err := s.b.Search(ctx, input.Query, map[string]any{"limit": limit})
	if err != nil {
		return errorResult(fmt.Sprintf("search failed: %v", err)), nil, nil
	}
	if results == nil {
		return textResult(fmt.Sprintf("No search results found for '%s'", input.Query)), nil, nil
	}

	includeBlocks := input.IncludeBlocks == nil || *input.IncludeBlocks
	includePages := input.IncludePages == nil || *input.IncludePages

	return textResult(formatSearchResults(input.Query, results, limit, includeBlocks, includePages, input.IncludeFiles)), nil, nil
}

// formatSearchResults renders the search report the remote results map to.
func formatSearchResults(query string, r *types.SearchResults, limit int, includeBlocks, includePages, includeFiles bool) string {
	var parts []string
	parts = append(parts, fmt.Sprintf("# Search Results for '%s'\n", query))

	if includeBlocks && len(r.Blocks) > 0 {
		parts = append(parts, fmt.Sprintf("## Content Blocks (%d found)", len(r.Blocks)))
		for i, block := range capped(r.Blocks, limit) {
			content := strings.TrimSpace(block.Content)
			if content == "" {
				continue
			}
			parts = append(parts, fmt.Sprintf("%d. %s", i+1, truncate(content, 150)))
		}
		parts = append(parts, "")
	}

	if includeBlocks && len(r.PagesContent) > 0 {
		parts = append(parts, fmt.Sprintf("## Page Snippets (%d found)", len(r.PagesContent)))
		for i, snippet := range capped(r.PagesContent, limit) {
			text := strings.TrimSpace(snippetMarkers.Replace(snippet.Snippet))
			if text == "" {
				continue
			}
			parts = append(parts, fmt.Sprintf("%d. %s", i+1, truncate(text, 200)))
		}
		parts = append(parts, "")
	}

	if includePages && len(r.Pages) > 0 {
		parts = append(parts, fmt.Sprintf("## Matching Pages (%d found)", len(r.Pages)))
		for _, page := range r.Pages {
			parts = append(parts, "- "+page)
		}
		parts = append(parts, "")
	}

	if includeFiles && len(r.Files) > 0 {
		parts = append(parts, fmt.Sprintf("## Matching Files (%d found)", len(r.Files)))
		for _, file := range r.Files {
			parts = append(parts, "- "+file)
		}
		parts = append(parts, "")
	}

	if r.HasMore {
		parts = append(parts, "More results available - increase limit to see more")
	}

	total := len(r.Blocks) + len(r.Pages) + len(r.Files)
	parts = append(parts, fmt.Sprintf("\nTotal results found: %d", total))

	return strings.Join(parts, "\n")
}

func capped[T any](s []T, limit int) []T {
	if len(s) > limit {
		return s[:limit]
	}
	return s
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max]) + "..."
}
