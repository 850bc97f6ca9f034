package types

import (
	"encoding/json"
	"fmt"
)

// PageEntity represents a Logseq page as returned by the HTTP API.
type PageEntity struct {
	ID           int            `json:"id"`
	UUID         string         `json:"uuid"`
	Name         string         `json:"name"`
	OriginalName string         `json:"originalName"`
	Journal      bool           `json:"journal?"`
	JournalDay   int            `json:"journalDay,omitempty"`
	Properties   map[string]any `json:"properties,omitempty"`
	CreatedAt    int64          `json:"createdAt,omitempty"`
	UpdatedAt    int64          `json:"updatedAt,omitempty"`
}

// BlockEntity represents a Logseq block (the atomic unit of the graph).
type BlockEntity struct {
	ID         int            `json:"id"`
	UUID       string         `json:"uuid"`
	Content    string         `json:"content"`
	Format     string         `json:"format,omitempty"`
	Page       *PageRef       `json:"page,omitempty"`
	Parent     *BlockRef      `json:"parent,omitempty"`
	Children   []BlockEntity  `json:"children,omitempty"`
	Properties map[string]any `json:"properties,omitempty"`
}

// PageRef is a lightweight page reference.
type PageRef struct {
	ID   int    `json:"id"`
	Name string `json:"name,omitempty"`
}

// BlockRef is a lightweight block reference.
type BlockRef struct {
	ID int `json:"id"`
}

// UnmarshalJSON handles Logseq returning PageRef as either {"id": N} or plain N.
func (p *PageRef) UnmarshalJSON(data []byte) error {
	// Try number first (compact form from write operations)
	var id int
	if err := json.Unmarshal(data, &id); err == nil {
		p.ID = id
		return nil
	}
	type pageRefAlias PageRef
	var alias pageRefAlias
	if err := json.Unmarshal(data, &alias); err != nil {
		return fmt.Errorf("PageRef: expected number or object, got %s", string(data))
	}
	*p = PageRef(alias)
	return nil
}

// UnmarshalJSON handles Logseq returning BlockRef as either {"id": N} or plain N.
func (b *BlockRef) UnmarshalJSON(data []byte) error {
	var id int
	if err := json.Unmarshal(data, &id); err == nil {
		b.ID = id
		return nil
	}
	type blockRefAlias BlockRef
	var alias blockRefAlias
	if err := json.Unmarshal(data, &alias); err != nil {
		return fmt.Errorf("BlockRef: expected number or object, got %s", string(data))
	}
	*b = BlockRef(alias)
	return nil
}

// SearchResults is the response of logseq.search. Key names follow the
// ClojureScript conventions of the Logseq API ("pages-content", "has-more?").
type SearchResults struct {
	Blocks       []SearchBlock   `json:"blocks"`
	PagesContent []SearchSnippet `json:"pages-content"`
	Pages        []string        `json:"pages"`
	Files        []string        `json:"files"`
	HasMore      bool            `json:"has-more?"`
}

// SearchBlock is a block hit from full-text search.
type SearchBlock struct {
	Content string `json:"block/content"`
	UUID    string `json:"block/uuid,omitempty"`
}

// SearchSnippet is a page content snippet from full-text search.
type SearchSnippet struct {
	Snippet string `json:"block/snippet"`
	UUID    string `json:"block/uuid,omitempty"`
}

// APIRequest is the JSON body sent to the Logseq HTTP API.
type APIRequest struct {
	Method string `json:"method"`
	Args   []any  `json:"args"`
}
