// Package client implements the Logseq HTTP API client. Every operation is a
// single POST of {"method": ..., "args": [...]} to <base>/api with a bearer
// token; responses are untyped JSON decoded per call site.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"logseqmcp/config"
	"logseqmcp/metrics"
	"logseqmcp/types"
)

// Client communicates with the Logseq HTTP API.
//
// Calls are never retried. The Logseq API has no idempotency tokens, so a
// retried insert that actually landed would duplicate blocks; callers see
// every failure exactly once and decide for themselves.
type Client struct {
	apiURL     string
	token      string
	httpClient *http.Client
	log        *slog.Logger
}

// New creates a Logseq API client from cfg. The connect timeout bounds the
// TCP dial; the read timeout bounds waiting for response headers. Both are
// fixed per client — individual calls cannot override them.
func New(cfg config.Config, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}

	transport := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout: cfg.ConnectTimeout,
		}).DialContext,
		ResponseHeaderTimeout: cfg.ReadTimeout,
	}

	return &Client{
		apiURL: cfg.APIURL,
		token:  cfg.APIToken,
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   cfg.ConnectTimeout + cfg.ReadTimeout,
		},
		log: logger,
	}
}

// Call issues one RPC and returns the raw response body. Transport failures
// come back as *TransportError, non-2xx responses as *RemoteError.
func (c *Client) Call(ctx context.Context, method string, args ...any) (json.RawMessage, error) {
	if args == nil {
		args = []any{}
	}
	bodyBytes, err := json.Marshal(types.APIRequest{Method: method, Args: args})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	start := time.Now()
	raw, err := c.do(ctx, method, bodyBytes)
	metrics.RPCDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())
	metrics.RPCCalls.WithLabelValues(method, outcome(err)).Inc()
	return raw, err
}

func (c *Client) do(ctx context.Context, method string, body []byte) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL+"/api", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Method: method, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Method: method, Err: fmt.Errorf("read response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &RemoteError{Method: method, Status: resp.StatusCode, Body: string(respBody)}
	}

	c.log.Debug("logseq rpc", "method", method, "status", resp.StatusCode)
	return respBody, nil
}

func outcome(err error) string {
	switch err.(type) {
	case nil:
		return "ok"
	case *RemoteError:
		return "remote_error"
	default:
		return "transport_error"
	}
}

// callTyped makes a Logseq API call and unmarshals the response into T.
func callTyped[T any](c *Client, ctx context.Context, method string, args ...any) (T, error) {
	var zero T
	raw, err := c.Call(ctx, method, args...)
	if err != nil {
		return zero, err
	}
	var result T
	if err := json.Unmarshal(raw, &result); err != nil {
		return zero, fmt.Errorf("unmarshal %s response: %w", method, err)
	}
	return result, nil
}

// --- Page Operations ---

// GetAllPages returns all pages in the graph.
func (c *Client) GetAllPages(ctx context.Context) ([]types.PageEntity, error) {
	return callTyped[[]types.PageEntity](c, ctx, "logseq.Editor.getAllPages")
}

// GetPage returns a page by name or ID, or nil if it does not exist.
func (c *Client) GetPage(ctx context.Context, nameOrID any) (*types.PageEntity, error) {
	return callTyped[*types.PageEntity](c, ctx, "logseq.Editor.getPage", nameOrID)
}

// GetPageBlocksTree returns the full block tree for a page.
func (c *Client) GetPageBlocksTree(ctx context.Context, nameOrID any) ([]types.BlockEntity, error) {
	return callTyped[[]types.BlockEntity](c, ctx, "logseq.Editor.getPageBlocksTree", nameOrID)
}

// GetPageProperties returns all properties for a page.
func (c *Client) GetPageProperties(ctx context.Context, nameOrID any) (map[string]any, error) {
	return callTyped[map[string]any](c, ctx, "logseq.Editor.getPageProperties", nameOrID)
}

// CreatePage creates a new page with optional properties.
func (c *Client) CreatePage(ctx context.Context, name string, properties map[string]any, opts map[string]any) (*types.PageEntity, error) {
	if properties == nil {
		properties = map[string]any{}
	}
	args := []any{name, properties}
	if opts != nil {
		args = append(args, opts)
	}
	return callTyped[*types.PageEntity](c, ctx, "logseq.Editor.createPage", args...)
}

// DeletePage removes a page by name.
func (c *Client) DeletePage(ctx context.Context, name string) error {
	_, err := c.Call(ctx, "logseq.Editor.deletePage", name)
	return err
}

// UpdatePageProperties updates page properties via logseq.Editor.updatePage.
func (c *Client) UpdatePageProperties(ctx context.Context, name string, properties map[string]any) error {
	_, err := c.Call(ctx, "logseq.Editor.updatePage", name, properties)
	return err
}

// SetPageProperties is the fallback property update for Logseq versions
// where updatePage does not accept a properties argument.
func (c *Client) SetPageProperties(ctx context.Context, name string, properties map[string]any) error {
	_, err := c.Call(ctx, "logseq.Editor.setPageProperties", name, properties)
	return err
}

// AppendBlockInPage adds a block at the end of a page.
func (c *Client) AppendBlockInPage(ctx context.Context, page string, content string) (*types.BlockEntity, error) {
	return callTyped[*types.BlockEntity](c, ctx, "logseq.Editor.appendBlockInPage", page, content)
}

// --- Block Operations ---

// InsertBlock inserts a block under parent. The raw response is returned
// because insertBlock's shape varies between Logseq versions; callers
// extract what they need.
func (c *Client) InsertBlock(ctx context.Context, parent any, content string, opts map[string]any) (json.RawMessage, error) {
	return c.Call(ctx, "logseq.Editor.insertBlock", parent, content, opts)
}

// UpdateBlock replaces a block's content, optionally placing the cursor.
func (c *Client) UpdateBlock(ctx context.Context, uuid string, content string, pos *int) error {
	payload := map[string]any{"content": content}
	if pos != nil {
		payload["pos"] = *pos
	}
	_, err := c.Call(ctx, "logseq.Editor.updateBlock", uuid, payload)
	return err
}

// RemoveBlock deletes a block and its children.
func (c *Client) RemoveBlock(ctx context.Context, uuid string) error {
	_, err := c.Call(ctx, "logseq.Editor.removeBlock", uuid)
	return err
}

// GetBlock fetches a block by UUID, optionally with its child tree.
func (c *Client) GetBlock(ctx context.Context, uuid string, includeChildren bool) (json.RawMessage, error) {
	return c.Call(ctx, "logseq.Editor.getBlock", uuid, map[string]any{"includeChildren": includeChildren})
}

// --- Search ---

// Search runs full-text search across pages, blocks, and files.
func (c *Client) Search(ctx context.Context, query string, opts map[string]any) (*types.SearchResults, error) {
	if opts == nil {
		opts = map[string]any{}
	}
	return callTyped[*types.SearchResults](c, ctx, "logseq.search", query, opts)
}

// Ping checks if the Logseq API is reachable.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.Call(ctx, "logseq.Editor.getCurrentPage")
	return err
}
