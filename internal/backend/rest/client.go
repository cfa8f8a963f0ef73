// Package rest implements the service.Service interface against a JSON
// collection endpoint (GET/POST /tasks, PUT/DELETE /tasks/{id}).
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"tasklist/internal/config"
	"tasklist/internal/service"
)

const (
	// CollectionPath is the task collection resource.
	CollectionPath = "/tasks"

	// maxErrorBody caps how much of a failed response is kept in the error.
	maxErrorBody = 512
)

// Options configures a Client.
type Options struct {
	BaseURL    string
	UpdateMode string
	Timeout    time.Duration
	Logger     *slog.Logger
}

// Client implements service.Service over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
	updateMode string
	timeout    time.Duration
	log        *slog.Logger
}

// New creates a client from config.
// If token.json exists in the config directory, requests carry its access
// token as a bearer credential.
func New(ctx context.Context, cfg *config.Config) (*Client, error) {
	httpClient := &http.Client{}

	if cfg.HasToken() {
		data, err := os.ReadFile(cfg.TokenPath())
		if err != nil {
			return nil, fmt.Errorf("failed to read token.json: %w", err)
		}
		var token oauth2.Token
		if err := json.Unmarshal(data, &token); err != nil {
			return nil, fmt.Errorf("invalid token.json: %w", err)
		}
		if token.AccessToken == "" {
			return nil, fmt.Errorf("invalid token.json: missing access_token")
		}
		httpClient = oauth2.NewClient(ctx, oauth2.StaticTokenSource(&token))
	}

	return NewWithHTTPClient(httpClient, Options{
		BaseURL:    cfg.BaseURL,
		UpdateMode: cfg.UpdateMode,
		Timeout:    cfg.Timeout,
		Logger:     cfg.Logger,
	}), nil
}

// NewWithHTTPClient creates a client with a custom HTTP client (for testing).
func NewWithHTTPClient(httpClient *http.Client, opts Options) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	mode := opts.UpdateMode
	if mode == "" {
		mode = config.UpdateFull
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = config.DefaultTimeout
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Client{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		httpClient: httpClient,
		updateMode: mode,
		timeout:    timeout,
		log:        logger,
	}
}

// ListTasks returns all tasks in server order.
func (c *Client) ListTasks(ctx context.Context) ([]service.Task, error) {
	var result []service.Task
	if err := c.do(ctx, http.MethodGet, CollectionPath, nil, &result); err != nil {
		return nil, err
	}
	if result == nil {
		result = []service.Task{}
	}
	return result, nil
}

type createRequest struct {
	Title string `json:"title"`
}

// CreateTask creates a task and returns the server's record.
func (c *Client) CreateTask(ctx context.Context, title string) (service.Task, error) {
	var result service.Task
	if err := c.do(ctx, http.MethodPost, CollectionPath, createRequest{Title: title}, &result); err != nil {
		return service.Task{}, err
	}
	return result, nil
}

type patchRequest struct {
	Completed bool `json:"completed"`
}

// UpdateTask sends task to PUT /tasks/{id}.
// In patch mode only the completed flag is sent.
func (c *Client) UpdateTask(ctx context.Context, task service.Task) (service.Task, error) {
	var body any = task
	if c.updateMode == config.UpdatePatch {
		body = patchRequest{Completed: task.Completed}
	}

	var result service.Task
	if err := c.do(ctx, http.MethodPut, itemPath(task.ID), body, &result); err != nil {
		return service.Task{}, err
	}
	return result, nil
}

// DeleteTask deletes a task. Any response body is ignored.
func (c *Client) DeleteTask(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, itemPath(id), nil, nil)
}

func itemPath(id string) string {
	return CollectionPath + "/" + url.PathEscape(id)
}

// do performs one request. Any status outside 2xx is a *service.StatusError.
func (c *Client) do(ctx context.Context, method, path string, body, result any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Debug("request failed", "method", method, "path", path, "err", err)
		return wrapError(method, path, err)
	}
	defer resp.Body.Close()
	c.log.Debug("request", "method", method, "path", path, "status", resp.StatusCode, "duration", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &service.StatusError{
			Method: method,
			Path:   path,
			Code:   resp.StatusCode,
			Body:   string(data),
		}
	}

	if result == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("decode %s %s response: %w", method, path, err)
	}
	return nil
}

// wrapError turns transport failures into short messages.
func wrapError(method, path string, err error) error {
	if strings.Contains(err.Error(), "context deadline exceeded") {
		return fmt.Errorf("%s %s: request timed out", method, path)
	}
	return fmt.Errorf("%s %s: %w", method, path, err)
}
