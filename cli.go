package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/pflag"

	"logseqmcp/client"
	"logseqmcp/sync"
	"logseqmcp/types"
)

const cliTimeout = 30 * time.Second

var (
	headingColor = color.New(color.FgCyan, color.Bold)
	uuidColor    = color.New(color.FgGreen)
	warnColor    = color.New(color.FgYellow)
)

func runCLI(args []string, c *client.Client, engine *sync.Engine) {
	switch args[0] {
	case "search":
		runSearch(args[1:], c)
	case "add":
		runAdd(args[1:], c)
	case "replace":
		runReplace(args[1:], engine)
	default:
		fmt.Fprintf(os.Stderr, "logseqmcp: unknown command %q\n\n", args[0])
		fmt.Fprintf(os.Stderr, "Commands:\n")
		fmt.Fprintf(os.Stderr, "  search   Full-text search across the graph\n")
		fmt.Fprintf(os.Stderr, "  add      Append a block to a page\n")
		fmt.Fprintf(os.Stderr, "  replace  Replace a page's or block's children with a JSON block tree\n")
		os.Exit(1)
	}
}

// runSearch performs full-text search and prints results to stdout.
func runSearch(args []string, c *client.Client) {
	fs := pflag.NewFlagSet("search", pflag.ExitOnError)
	limit := fs.Int("limit", 10, "Max results")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: logseqmcp search [--limit N] QUERY\n\n")
		fmt.Fprintf(os.Stderr, "Full-text search across the LogSeq graph.\n\n")
		fs.PrintDefaults()
	}
	fs.Parse(args)

	query := strings.Join(fs.Args(), " ")
	if query == "" {
		fs.Usage()
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cliTimeout)
	defer cancel()

	results, err := c.Search(ctx, query, map[string]any{"limit": *limit})
	if err != nil {
		fmt.Fprintf(os.Stderr, "logseqmcp search: %v\n", err)
		os.Exit(1)
	}

	if results == nil || (len(results.Blocks) == 0 && len(results.Pages) == 0) {
		fmt.Fprintf(os.Stderr, "no results for %q\n", query)
		os.Exit(1)
	}

	if len(results.Pages) > 0 {
		headingColor.Println("Pages")
		for _, page := range results.Pages {
			fmt.Printf("  %s\n", page)
		}
	}
	if len(results.Blocks) > 0 {
		headingColor.Println("Blocks")
		for _, block := range results.Blocks {
			fmt.Printf("  %s\n", strings.TrimSpace(block.Content))
		}
	}
	if results.HasMore {
		warnColor.Println("more results available, raise --limit")
	}
}

// runAdd appends a block to a named page.
func runAdd(args []string, c *client.Client) {
	fs := pflag.NewFlagSet("add", pflag.ExitOnError)
	page := fs.StringP("page", "p", "", "Page name (required)")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: logseqmcp add --page PAGE CONTENT\n")
		fmt.Fprintf(os.Stderr, "       echo CONTENT | logseqmcp add -p PAGE\n\n")
		fmt.Fprintf(os.Stderr, "Appends a block to a LogSeq page.\n")
		fmt.Fprintf(os.Stderr, "Prints the created block UUID on success.\n\n")
		fs.PrintDefaults()
	}
	fs.Parse(args)

	if *page == "" {
		fmt.Fprintf(os.Stderr, "logseqmcp add: --page is required\n\n")
		fs.Usage()
		os.Exit(1)
	}

	content := readContent(fs.Args())
	if content == "" {
		fmt.Fprintf(os.Stderr, "logseqmcp add: no content provided\n\n")
		fs.Usage()
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cliTimeout)
	defer cancel()

	block, err := c.AppendBlockInPage(ctx, *page, content)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logseqmcp add: %v\n", err)
		os.Exit(1)
	}

	if block != nil {
		uuidColor.Println(block.UUID)
	}
}

// runReplace replaces a target's children with a block tree read as JSON.
func runReplace(args []string, engine *sync.Engine) {
	fs := pflag.NewFlagSet("replace", pflag.ExitOnError)
	target := fs.StringP("target", "t", "", "Page name or block UUID (required)")
	isPage := fs.Bool("page", false, "Treat target as a page name")
	keep := fs.Bool("keep-existing", false, "Do not delete existing children first")
	file := fs.StringP("file", "f", "", "Read the block tree from this file instead of stdin")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: logseqmcp replace --target TARGET [--page] [--keep-existing] [--file BLOCKS.json]\n\n")
		fmt.Fprintf(os.Stderr, "Replaces the children of a page or block with a JSON array of\n")
		fmt.Fprintf(os.Stderr, "{content, children, custom_uuid} objects, read from --file or stdin.\n")
		fmt.Fprintf(os.Stderr, "Prints one UUID per inserted root block.\n\n")
		fs.PrintDefaults()
	}
	fs.Parse(args)

	if *target == "" {
		fmt.Fprintf(os.Stderr, "logseqmcp replace: --target is required\n\n")
		fs.Usage()
		os.Exit(1)
	}

	var data []byte
	var err error
	if *file != "" {
		data, err = os.ReadFile(*file)
	} else {
		data, err = io.ReadAll(os.Stdin)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "logseqmcp replace: %v\n", err)
		os.Exit(1)
	}

	var blocks []types.BlockSpec
	if err := json.Unmarshal(data, &blocks); err != nil {
		fmt.Fprintf(os.Stderr, "logseqmcp replace: parse block tree: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cliTimeout)
	defer cancel()

	inserted, err := engine.ReplaceChildren(ctx, sync.ParentRef{Target: *target, IsPage: *isPage}, blocks, !*keep)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logseqmcp replace: %v\n", err)
		os.Exit(1)
	}

	for _, id := range inserted {
		uuidColor.Println(id)
	}
	if len(inserted) < len(blocks) {
		warnColor.Fprintf(os.Stderr, "%d of %d root blocks could not be tracked by UUID\n",
			len(blocks)-len(inserted), len(blocks))
	}
}

// readContent gets content from positional args or stdin (if piped).
func readContent(args []string) string {
	if len(args) > 0 {
		return strings.Join(args, " ")
	}

	// Only read stdin if it's piped (not a terminal).
	stat, err := os.Stdin.Stat()
	if err != nil {
		return ""
	}
	if (stat.Mode() & os.ModeCharDevice) != 0 {
		return ""
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}
