// Package sync replaces the child tree of a Logseq page or block with a
// caller-supplied block hierarchy.
//
// All remote effects within one ReplaceChildren call are issued strictly
// sequentially: the delete loop first, then each root insert with its
// recursive descendants. Logseq's insertBlock appends, so issue order is the
// only control over final sibling order — there is no concurrent fan-out and
// no transaction. A transport or HTTP error aborts the remaining calls and
// propagates as-is; nothing already applied is rolled back. Concurrent
// ReplaceChildren calls against the same parent are not coordinated.
package sync

import (
	"context"
	"encoding/json"
	"log/slog"

	"logseqmcp/metrics"
	"logseqmcp/types"
)

// Caller issues one Logseq RPC. *client.Client satisfies this; tests use a
// scripted fake.
type Caller interface {
	Call(ctx context.Context, method string, args ...any) (json.RawMessage, error)
}

// ParentRef addresses the parent whose children are being worked on. IsPage
// decides which RPC method applies — Logseq exposes different calls for
// "children of a page" and "children of a block" — so the caller states the
// interpretation explicitly instead of the engine guessing from the string.
type ParentRef struct {
	Target string
	IsPage bool
}

// Engine performs block-tree synchronization against a Logseq graph.
type Engine struct {
	rpc Caller
	log *slog.Logger
}

// NewEngine creates an Engine calling Logseq through rpc.
func NewEngine(rpc Caller, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{rpc: rpc, log: logger}
}

// ReplaceChildren tears down the parent's existing children (unless
// deleteExisting is false) and materializes blocks in their place, in input
// order. It returns the UUIDs of the new root-level blocks.
//
// A root block whose insert succeeded but yielded no recognizable UUID
// contributes no entry, so a result shorter than blocks means some roots
// could not be tracked even though the remote mutation may have happened.
func (e *Engine) ReplaceChildren(ctx context.Context, parent ParentRef, blocks []types.BlockSpec, deleteExisting bool) ([]string, error) {
	if deleteExisting {
		if err := e.deleteChildren(ctx, parent); err != nil {
			return nil, err
		}
	}

	inserted := make([]string, 0, len(blocks))
	for _, spec := range blocks {
		id, err := e.InsertTree(ctx, parent.Target, spec, parent.IsPage)
		if err != nil {
			return nil, err
		}
		if id != "" {
			inserted = append(inserted, id)
		}
	}
	return inserted, nil
}

// InsertTree creates spec as a block under parent and recurses into its
// children. isRoot marks a direct child of a page (insertBlock's
// isPageBlock option). Returns the new block's UUID, or "" when the insert
// response carried no recognizable identifier — in that case the children
// are dropped, since there is no parent to address them to, while sibling
// and ancestor processing continues.
func (e *Engine) InsertTree(ctx context.Context, parent string, spec types.BlockSpec, isRoot bool) (string, error) {
	if spec.Content == "" {
		return "", &InvalidSpecError{Reason: "block content is required"}
	}

	opts := map[string]any{
		"isPageBlock": isRoot,
		// Always append: sequential appends make sibling order equal
		// input order.
		"before":     false,
		"customUUID": nil,
	}
	if spec.CustomUUID != "" {
		opts["customUUID"] = spec.CustomUUID
	}

	raw, err := e.rpc.Call(ctx, "logseq.Editor.insertBlock", parent, spec.Content, opts)
	if err != nil {
		return "", err
	}

	var result any
	if len(raw) > 0 {
		// Undecodable bodies fall through to extraction failure below.
		_ = json.Unmarshal(raw, &result)
	}

	id, ok := ExtractIdentifier(result)
	if !ok {
		e.log.Warn("insert result carried no identifier, dropping subtree",
			"parent", parent, "children", len(spec.Children))
		return "", nil
	}
	metrics.BlocksInserted.Inc()

	for _, child := range spec.Children {
		if _, err := e.InsertTree(ctx, id, child, false); err != nil {
			return "", err
		}
	}
	return id, nil
}

// FetchChildren returns the parent's immediate child descriptors in the
// order Logseq reports them. The API returns null, an object with a
// children field, or a bare array depending on method and version; all
// three normalize to one list. Any other shape is logged and treated as
// "no children" — there is nothing a caller could do about it, and
// replacement should proceed as if the parent were empty.
func (e *Engine) FetchChildren(ctx context.Context, parent ParentRef) ([]any, error) {
	var (
		raw json.RawMessage
		err error
	)
	if parent.IsPage {
		raw, err = e.rpc.Call(ctx, "logseq.Editor.getPageBlocksTree", parent.Target)
	} else {
		raw, err = e.rpc.Call(ctx, "logseq.Editor.getBlock", parent.Target, map[string]any{"includeChildren": true})
	}
	if err != nil {
		return nil, err
	}

	var result any
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &result); err != nil {
			e.log.Warn("children fetch returned undecodable body, treating as empty",
				"target", parent.Target, "error", err)
			return nil, nil
		}
	}

	children, ok := normalizeChildren(result)
	if !ok {
		e.log.Warn("children fetch returned unexpected shape, treating as empty",
			"target", parent.Target)
	}
	return children, nil
}

// normalizeChildren maps the known response variants to one child list.
// ok is false only for shapes outside the expected set.
func normalizeChildren(v any) ([]any, bool) {
	switch val := v.(type) {
	case nil:
		return nil, true
	case []any:
		return val, true
	case map[string]any:
		c, exists := val["children"]
		if !exists || c == nil {
			return nil, true
		}
		if arr, ok := c.([]any); ok {
			return arr, true
		}
		return nil, false
	default:
		return nil, false
	}
}

// deleteChildren removes the parent's current children one by one, last
// sibling first. Back-to-front deletion guards against a remote end that
// renumbers siblings as the front shrinks; whether Logseq actually does
// this is unverified, so treat the ordering as policy, not invariant.
func (e *Engine) deleteChildren(ctx context.Context, parent ParentRef) error {
	children, err := e.FetchChildren(ctx, parent)
	if err != nil {
		return err
	}

	for i := len(children) - 1; i >= 0; i-- {
		desc, ok := children[i].(map[string]any)
		if !ok {
			continue
		}
		id, ok := desc["uuid"].(string)
		if !ok {
			// Malformed descriptor, nothing to address a delete to.
			e.log.Warn("child descriptor without uuid, skipping delete", "target", parent.Target)
			continue
		}
		if _, err := e.rpc.Call(ctx, "logseq.Editor.removeBlock", id); err != nil {
			return err
		}
		metrics.BlocksDeleted.Inc()
	}
	return nil
}
