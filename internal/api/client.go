package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultTimeout bounds every backend call. Sync calls are fire-and-forget,
// so a hung request must never pin a goroutine for long.
const DefaultTimeout = 30 * time.Second

// ErrNotFound reports that the backend has no record for the requested
// resource. Callers check it with errors.Is.
var ErrNotFound = errors.New("not found")

// Config holds configuration for creating an HTTPClient.
type Config struct {
	// BaseURL is the root URL of the backend service, e.g.
	// "http://localhost:8000".
	BaseURL string

	// HTTPClient is used for all requests. Defaults to http.DefaultClient.
	HTTPClient *http.Client

	// Timeout bounds each request. Defaults to DefaultTimeout.
	Timeout time.Duration

	// Logger is used for structured logging. Defaults to slog.Default().
	Logger *slog.Logger
}

// HTTPClient implements Client against the backend's HTTP API. Write
// endpoints are form-encoded and reads return JSON, mirroring the service.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	logger     *slog.Logger
}

// NewHTTPClient creates an HTTPClient from the given configuration.
func NewHTTPClient(config Config) (*HTTPClient, error) {
	baseURL := strings.TrimRight(config.BaseURL, "/")
	if baseURL == "" {
		return nil, fmt.Errorf("api: base URL is required")
	}
	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		return nil, fmt.Errorf("api: base URL must be http or https (got %q)", config.BaseURL)
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &HTTPClient{
		baseURL:    baseURL,
		httpClient: httpClient,
		timeout:    timeout,
		logger:     logger,
	}, nil
}

// ListBoards retrieves all boards.
func (c *HTTPClient) ListBoards(ctx context.Context) ([]Board, error) {
	var boards []Board
	if err := c.getJSON(ctx, "/boards", &boards); err != nil {
		return nil, fmt.Errorf("list boards: %w", err)
	}
	return boards, nil
}

// CreateBoard creates a board with the given name.
func (c *HTTPClient) CreateBoard(ctx context.Context, name string) (*Board, error) {
	var board Board
	form := url.Values{"name": {name}}
	if err := c.postForm(ctx, "/boards", form, &board); err != nil {
		return nil, fmt.Errorf("create board %q: %w", name, err)
	}
	return &board, nil
}

// ListItems retrieves the items of a board.
func (c *HTTPClient) ListItems(ctx context.Context, boardID string) ([]Item, error) {
	var items []Item
	path := "/boards/" + url.PathEscape(boardID) + "/items"
	if err := c.getJSON(ctx, path, &items); err != nil {
		return nil, fmt.Errorf("list items for board %s: %w", boardID, err)
	}
	return items, nil
}

// DeleteItem deletes an item and its derived data.
func (c *HTTPClient) DeleteItem(ctx context.Context, itemID string) error {
	path := "/items/" + url.PathEscape(itemID)
	if err := c.delete(ctx, path, nil); err != nil {
		return fmt.Errorf("delete item %s: %w", itemID, err)
	}
	return nil
}

// SetItemGroup assigns the stored group-name attribute of the given items.
// An empty group clears membership.
func (c *HTTPClient) SetItemGroup(ctx context.Context, itemIDs []string, group string) error {
	form := url.Values{
		"item_ids": {strings.Join(itemIDs, ",")},
		"group":    {group},
	}
	if err := c.postForm(ctx, "/items/group", form, nil); err != nil {
		return fmt.Errorf("set group %q on %d items: %w", group, len(itemIDs), err)
	}
	return nil
}

// ListGroups retrieves the group records of a board.
func (c *HTTPClient) ListGroups(ctx context.Context, boardID string) ([]Group, error) {
	var groups []Group
	path := "/boards/" + url.PathEscape(boardID) + "/groups"
	if err := c.getJSON(ctx, path, &groups); err != nil {
		return nil, fmt.Errorf("list groups for board %s: %w", boardID, err)
	}
	return groups, nil
}

// UpsertGroup creates or updates a group record by name.
func (c *HTTPClient) UpsertGroup(ctx context.Context, boardID, name, template string) error {
	form := url.Values{
		"board_id": {boardID},
		"name":     {name},
		"template": {template},
	}
	if err := c.postForm(ctx, "/groups", form, nil); err != nil {
		return fmt.Errorf("upsert group %q: %w", name, err)
	}
	return nil
}

// DeleteGroup removes a group record by name.
func (c *HTTPClient) DeleteGroup(ctx context.Context, boardID, name string) error {
	query := url.Values{
		"board_id": {boardID},
		"name":     {name},
	}
	if err := c.delete(ctx, "/groups", query); err != nil {
		return fmt.Errorf("delete group %q: %w", name, err)
	}
	return nil
}

// Chat sends a query and returns the answer with its contexts.
func (c *HTTPClient) Chat(ctx context.Context, q ChatQuery) (*ChatAnswer, error) {
	body, err := json.Marshal(q)
	if err != nil {
		return nil, fmt.Errorf("chat: encode query: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("chat: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var answer ChatAnswer
	if err := c.do(req, &answer); err != nil {
		return nil, fmt.Errorf("chat: %w", err)
	}
	return &answer, nil
}

func (c *HTTPClient) getJSON(ctx context.Context, path string, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *HTTPClient) postForm(ctx context.Context, path string, form url.Values, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req, out)
}

func (c *HTTPClient) delete(ctx context.Context, path string, query url.Values) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, u, nil)
	if err != nil {
		return err
	}
	return c.do(req, nil)
}

// do executes a request and decodes a JSON response into out when non-nil.
func (c *HTTPClient) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, ErrNotFound)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("%s %s: status %d: %s", req.Method, req.URL.Path, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
