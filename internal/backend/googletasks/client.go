// Package googletasks implements the service.Service interface using Google
// Tasks API. One Google task list plays the role of the task collection.
package googletasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	tasks "google.golang.org/api/tasks/v1"

	"tasklist/internal/config"
	"tasklist/internal/service"
)

const (
	// PageSize is the number of tasks per page.
	PageSize = 100

	// Scope is the OAuth scope for Google Tasks.
	Scope = "https://www.googleapis.com/auth/tasks"

	statusCompleted   = "completed"
	statusNeedsAction = "needsAction"
)

// Client implements service.Service using Google Tasks API.
type Client struct {
	svc     *tasks.Service
	listID  string
	timeout time.Duration
}

// New creates a new Google Tasks client.
// Requires oauth_client.json and token.json to exist.
func New(ctx context.Context, cfg *config.Config) (*Client, error) {
	oauthConfig, err := LoadOAuthConfig(cfg)
	if err != nil {
		return nil, err
	}

	tokenData, err := os.ReadFile(cfg.TokenPath())
	if err != nil {
		return nil, fmt.Errorf("failed to read token.json: %w", err)
	}

	var token oauth2.Token
	if err := json.Unmarshal(tokenData, &token); err != nil {
		return nil, fmt.Errorf("invalid token.json: %w", err)
	}

	// Token source refreshes automatically
	httpClient := oauth2.NewClient(ctx, oauthConfig.TokenSource(ctx, &token))

	return NewWithHTTPClient(ctx, httpClient, cfg.GoogleListID, cfg.Timeout)
}

// LoadOAuthConfig reads oauth_client.json from the config directory.
func LoadOAuthConfig(cfg *config.Config) (*oauth2.Config, error) {
	clientJSON, err := os.ReadFile(cfg.OAuthClientPath())
	if err != nil {
		return nil, fmt.Errorf("failed to read oauth_client.json: %w", err)
	}
	oauthConfig, err := google.ConfigFromJSON(clientJSON, Scope)
	if err != nil {
		return nil, fmt.Errorf("invalid oauth_client.json: %w", err)
	}
	return oauthConfig, nil
}

// NewWithHTTPClient creates a client with a custom HTTP client (for testing).
// Extra options, such as option.WithEndpoint, are passed to the API service.
func NewWithHTTPClient(ctx context.Context, httpClient *http.Client, listID string, timeout time.Duration, opts ...option.ClientOption) (*Client, error) {
	opts = append([]option.ClientOption{option.WithHTTPClient(httpClient)}, opts...)
	svc, err := tasks.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create tasks service: %w", err)
	}
	if listID == "" {
		listID = config.DefaultGoogleList
	}
	if timeout <= 0 {
		timeout = config.DefaultTimeout
	}
	return &Client{svc: svc, listID: listID, timeout: timeout}, nil
}

// ListTasks returns all tasks of the list, completed ones included, in API order.
func (c *Client) ListTasks(ctx context.Context) ([]service.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	result := []service.Task{}
	err := c.svc.Tasks.List(c.listID).
		MaxResults(PageSize).
		ShowCompleted(true).
		ShowHidden(true).
		ShowDeleted(false).
		Pages(ctx, func(resp *tasks.Tasks) error {
			for _, t := range resp.Items {
				result = append(result, fromAPI(t))
			}
			return nil
		})
	if err != nil {
		return nil, wrapError(http.MethodGet, "tasks", err)
	}
	return result, nil
}

// CreateTask creates a new open task.
func (c *Client) CreateTask(ctx context.Context, title string) (service.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	created, err := c.svc.Tasks.Insert(c.listID, &tasks.Task{Title: title, Status: statusNeedsAction}).Context(ctx).Do()
	if err != nil {
		return service.Task{}, wrapError(http.MethodPost, "tasks", err)
	}
	return fromAPI(created), nil
}

// UpdateTask patches title and status of a task.
func (c *Client) UpdateTask(ctx context.Context, task service.Task) (service.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	patch := &tasks.Task{Title: task.Title, Status: statusNeedsAction}
	if task.Completed {
		patch.Status = statusCompleted
	} else {
		// Reopening requires clearing the completion timestamp.
		patch.NullFields = []string{"Completed"}
	}

	updated, err := c.svc.Tasks.Patch(c.listID, task.ID, patch).Context(ctx).Do()
	if err != nil {
		return service.Task{}, wrapError(http.MethodPatch, "tasks/"+task.ID, err)
	}
	return fromAPI(updated), nil
}

// DeleteTask deletes a task.
func (c *Client) DeleteTask(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if err := c.svc.Tasks.Delete(c.listID, id).Context(ctx).Do(); err != nil {
		return wrapError(http.MethodDelete, "tasks/"+id, err)
	}
	return nil
}

func fromAPI(t *tasks.Task) service.Task {
	return service.Task{
		ID:        t.Id,
		Title:     t.Title,
		Completed: t.Status == statusCompleted,
	}
}

// wrapError converts API errors into *service.StatusError so callers can map
// them the same way as REST failures.
func wrapError(method, path string, err error) error {
	if err == nil {
		return nil
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return &service.StatusError{
			Method: method,
			Path:   path,
			Code:   apiErr.Code,
			Body:   apiErr.Message,
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s %s: request timed out", method, path)
	}
	return fmt.Errorf("%s %s: %w", method, path, err)
}
