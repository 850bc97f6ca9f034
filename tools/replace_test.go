package tools

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"logseqmcp/sync"
	"logseqmcp/types"
)

type fakeReplacer struct {
	called    bool
	gotParent sync.ParentRef
	gotBlocks []types.BlockSpec
	gotDelete bool

	ids []string
	err error
}

func (f *fakeReplacer) ReplaceChildren(ctx context.Context, parent sync.ParentRef, blocks []types.BlockSpec, deleteExisting bool) ([]string, error) {
	f.called = true
	f.gotParent = parent
	f.gotBlocks = blocks
	f.gotDelete = deleteExisting
	return f.ids, f.err
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.Len(t, res.Content, 1)
	text, ok := res.Content[0].(*mcp.TextContent)
	require.True(t, ok)
	return text.Text
}

func newTestReplace(f *fakeReplacer) *Replace {
	return NewReplace(f, slog.New(slog.DiscardHandler))
}

func boolPtr(b bool) *bool { return &b }

func TestReplaceChildren_Summary(t *testing.T) {
	f := &fakeReplacer{ids: []string{"u1", "u3"}}
	r := newTestReplace(f)

	res := r.replaceChildren(context.Background(), types.ReplaceChildrenInput{
		Target: "Page A",
		IsPage: true,
		Blocks: []types.BlockSpec{{Content: "Task 1"}, {Content: "Task 2"}},
	})

	assert.False(t, res.IsError)
	text := resultText(t, res)
	assert.Contains(t, text, "Replaced children under Page A")
	assert.Contains(t, text, "Inserted blocks: 2")
	assert.Contains(t, text, "First inserted UUID: u1")

	assert.Equal(t, sync.ParentRef{Target: "Page A", IsPage: true}, f.gotParent)
	assert.True(t, f.gotDelete, "delete_existing defaults to true")
}

func TestReplaceChildren_WarnsOnUntrackedRoots(t *testing.T) {
	f := &fakeReplacer{ids: []string{"u1"}}
	r := newTestReplace(f)

	res := r.replaceChildren(context.Background(), types.ReplaceChildrenInput{
		Target: "Page A",
		Blocks: []types.BlockSpec{{Content: "a"}, {Content: "b"}, {Content: "c"}},
	})

	assert.Contains(t, resultText(t, res), "2 of 3 root blocks could not be tracked")
}

func TestReplaceChildren_DeleteExistingFalsePassedThrough(t *testing.T) {
	f := &fakeReplacer{}
	r := newTestReplace(f)

	r.replaceChildren(context.Background(), types.ReplaceChildrenInput{
		Target:         "b-uuid",
		Blocks:         []types.BlockSpec{{Content: "x"}},
		DeleteExisting: boolPtr(false),
	})

	assert.False(t, f.gotDelete)
	assert.False(t, f.gotParent.IsPage)
}

func TestReplaceChildren_RequiresTarget(t *testing.T) {
	f := &fakeReplacer{}
	r := newTestReplace(f)

	res := r.replaceChildren(context.Background(), types.ReplaceChildrenInput{
		Blocks: []types.BlockSpec{{Content: "x"}},
	})

	assert.True(t, res.IsError)
	assert.False(t, f.called)
}

func TestReplaceChildren_RequiresBlocksArray(t *testing.T) {
	f := &fakeReplacer{}
	r := newTestReplace(f)

	res := r.replaceChildren(context.Background(), types.ReplaceChildrenInput{Target: "Page A"})

	assert.True(t, res.IsError)
	assert.False(t, f.called)
}

func TestReplaceChildren_EmptyBlocksArrayIsValid(t *testing.T) {
	f := &fakeReplacer{}
	r := newTestReplace(f)

	res := r.replaceChildren(context.Background(), types.ReplaceChildrenInput{
		Target: "Page A",
		Blocks: []types.BlockSpec{},
	})

	assert.False(t, res.IsError)
	assert.True(t, f.called, "an empty array clears the children")
	assert.Contains(t, resultText(t, res), "Inserted blocks: 0")
}

func TestReplaceChildren_EngineErrorBecomesFailureReport(t *testing.T) {
	f := &fakeReplacer{err: errors.New("remote unavailable")}
	r := newTestReplace(f)

	res := r.replaceChildren(context.Background(), types.ReplaceChildrenInput{
		Target: "Page A",
		Blocks: []types.BlockSpec{{Content: "x"}},
	})

	assert.True(t, res.IsError)
	text := resultText(t, res)
	assert.Contains(t, text, "Page A")
	assert.Contains(t, text, "remote unavailable")
}
