package types

// BlockSpec is a caller-supplied block to materialize in the graph. Children
// nest arbitrarily deep; sibling order in the slice is the order blocks end
// up in Logseq.
type BlockSpec struct {
	Content    string      `json:"content"`
	Children   []BlockSpec `json:"children,omitempty"`
	CustomUUID string      `json:"custom_uuid,omitempty"`
}

// --- Page tool inputs ---

type CreatePageInput struct {
	Title   string `json:"title" jsonschema:"Title of the new page"`
	Content string `json:"content" jsonschema:"Content of the new page"`
}

type ListPagesInput struct {
	IncludeJournals bool `json:"include_journals,omitempty" jsonschema:"Whether to include journal/daily notes in the list. Default: false"`
}

type GetPageContentInput struct {
	PageName string `json:"page_name" jsonschema:"Name of the page to retrieve"`
	Format   string `json:"format,omitempty" jsonschema:"Output format: text or json. Default: text"`
}

type UpdatePageInput struct {
	PageName   string         `json:"page_name" jsonschema:"Name of the page to update"`
	Content    string         `json:"content,omitempty" jsonschema:"New content to append to the page"`
	Properties map[string]any `json:"properties,omitempty" jsonschema:"Page properties to update"`
}

type DeletePageInput struct {
	PageName string `json:"page_name" jsonschema:"Name of the page to delete"`
}

// --- Block tool inputs ---

type InsertBlockInput struct {
	ParentBlock string `json:"parent_block,omitempty" jsonschema:"Parent block UUID or page name (optional for page block inserts)"`
	Content     string `json:"content" jsonschema:"Block content"`
	IsPageBlock bool   `json:"is_page_block,omitempty" jsonschema:"Insert directly into page. Default: false"`
	Before      bool   `json:"before,omitempty" jsonschema:"Insert before the parent. Default: false"`
	CustomUUID  string `json:"custom_uuid,omitempty" jsonschema:"Optional custom UUID for the new block"`
}

type UpdateBlockInput struct {
	BlockUUID string `json:"block_uuid" jsonschema:"UUID of the block to update"`
	Content   string `json:"content" jsonschema:"New block content"`
	Pos       *int   `json:"pos,omitempty" jsonschema:"Optional cursor position"`
}

type DeleteBlockInput struct {
	BlockUUID string `json:"block_uuid" jsonschema:"UUID of the block to delete"`
}

type GetBlockInput struct {
	BlockUUID       string `json:"block_uuid" jsonschema:"UUID of the block"`
	IncludeChildren bool   `json:"include_children,omitempty" jsonschema:"Include child blocks in response. Default: false"`
}

// --- Search tool input ---

type SearchInput struct {
	Query         string `json:"query" jsonschema:"Search query text"`
	Limit         int    `json:"limit,omitempty" jsonschema:"Maximum number of results to return. Default: 20"`
	IncludeBlocks *bool  `json:"include_blocks,omitempty" jsonschema:"Include block content results. Default: true"`
	IncludePages  *bool  `json:"include_pages,omitempty" jsonschema:"Include page name results. Default: true"`
	IncludeFiles  bool   `json:"include_files,omitempty" jsonschema:"Include file name results. Default: false"`
}

// --- Replace-children tool input ---

// ReplaceChildrenInput is decoded by hand from raw arguments because the
// recursive blocks field defeats schema generation.
type ReplaceChildrenInput struct {
	Target         string      `json:"target"`
	IsPage         bool        `json:"is_page"`
	Blocks         []BlockSpec `json:"blocks"`
	DeleteExisting *bool       `json:"delete_existing"`
}
