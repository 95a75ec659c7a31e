// Package habitica is the client for the Habitica v3 task API.
package habitica

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/fentz26/habiterm/internal/logger"
	"github.com/fentz26/habiterm/internal/models"
)

// DefaultBaseURL is the public Habitica API root.
const DefaultBaseURL = "https://habitica.com/api/v3"

// DefaultClientTimeout is the default timeout for API requests.
const DefaultClientTimeout = 30 * time.Second

// Client wraps HTTP calls to the Habitica API. One Client is built per
// process and shared by every component that talks to the API.
type Client struct {
	http *resty.Client
	log  logger.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithBaseURL points the client at another API root.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) { c.http.SetBaseURL(baseURL) }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.SetTimeout(d) }
}

// WithLogger sets the client logger.
func WithLogger(l logger.Logger) Option {
	return func(c *Client) { c.log = l }
}

// NewClient creates an authenticated API client. Requests are never retried.
func NewClient(userID, apiToken string, opts ...Option) *Client {
	h := resty.New().
		SetBaseURL(DefaultBaseURL).
		SetTimeout(DefaultClientTimeout).
		SetHeader("x-api-user", userID).
		SetHeader("x-api-key", apiToken).
		SetHeader("x-client", userID+"-habitica-cli").
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetRetryCount(0)

	c := &Client{http: h, log: logger.Discard()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// envelope is the wrapper Habitica puts around every response.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Message string          `json:"message"`
}

// apiTask mirrors the task JSON. Pointers let defaults apply to absent fields.
type apiTask struct {
	ID       string   `json:"id"`
	LegacyID string   `json:"_id"`
	Text     string   `json:"text"`
	Type     string   `json:"type"`
	Notes    *string  `json:"notes"`
	Priority *float64 `json:"priority"`
	Value    *float64 `json:"value"`
}

func (t apiTask) toModel() models.Task {
	task := models.Task{
		ID:       t.ID,
		Text:     t.Text,
		Type:     models.TaskType(t.Type),
		Priority: models.DefaultPriority,
	}
	if task.ID == "" {
		task.ID = t.LegacyID
	}
	if t.Notes != nil {
		task.Notes = *t.Notes
	}
	if t.Priority != nil {
		task.Priority = *t.Priority
	}
	if t.Value != nil {
		task.Value = *t.Value
	}
	return task
}

// ListTasks fetches the user's tasks of one category. An empty category lists all.
func (c *Client) ListTasks(ctx context.Context, category models.Category) ([]models.Task, error) {
	params := map[string]string{}
	if category != "" {
		params["type"] = string(category)
	}

	var raw []apiTask
	if err := c.do(ctx, "list tasks", http.MethodGet, "/tasks/user", params, nil, &raw); err != nil {
		return nil, err
	}

	tasks := make([]models.Task, len(raw))
	for i, t := range raw {
		tasks[i] = t.toModel()
	}
	return tasks, nil
}

// CreateTask creates a new task.
func (c *Client) CreateTask(ctx context.Context, text string, taskType models.TaskType, notes string, priority float64) (*models.Task, error) {
	body := map[string]any{
		"text":     text,
		"type":     taskType,
		"notes":    notes,
		"priority": priority,
	}

	var raw apiTask
	if err := c.do(ctx, "create task", http.MethodPost, "/tasks/user", nil, body, &raw); err != nil {
		return nil, err
	}
	task := raw.toModel()
	return &task, nil
}

// UpdateTask applies a partial update to a task.
func (c *Client) UpdateTask(ctx context.Context, id string, update models.TaskUpdate) (*models.Task, error) {
	var raw apiTask
	if err := c.do(ctx, "update task", http.MethodPut, "/tasks/"+url.PathEscape(id), nil, update, &raw); err != nil {
		return nil, err
	}
	task := raw.toModel()
	return &task, nil
}

// DeleteTask deletes a task.
func (c *Client) DeleteTask(ctx context.Context, id string) error {
	return c.do(ctx, "delete task", http.MethodDelete, "/tasks/"+url.PathEscape(id), nil, nil, nil)
}

// ScoreTask records a positive or negative scoring event.
func (c *Client) ScoreTask(ctx context.Context, id string, dir models.Direction) (*models.ScoreResult, error) {
	path := fmt.Sprintf("/tasks/%s/score/%s", url.PathEscape(id), dir)

	var result models.ScoreResult
	if err := c.do(ctx, "score task", http.MethodPost, path, nil, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) do(ctx context.Context, op, method, path string, params map[string]string, body, out any) error {
	req := c.http.R().SetContext(ctx)
	if params != nil {
		req.SetQueryParams(params)
	}
	if body != nil {
		req.SetBody(body)
	}

	start := time.Now()
	resp, err := req.Execute(method, path)
	if err != nil {
		c.log.Warn("API request failed", "op", op, "method", method, "path", path, "err", err)
		return &RemoteError{Op: op, Kind: KindNetwork, Err: err}
	}
	c.log.Debug("API request completed", "op", op, "method", method, "path", path,
		"status", resp.StatusCode(), "elapsed", time.Since(start))

	var env envelope
	decodeErr := json.Unmarshal(resp.Body(), &env)

	if resp.IsError() {
		msg := env.Message
		if msg == "" {
			msg = http.StatusText(resp.StatusCode())
		}
		return &RemoteError{Op: op, Kind: kindForStatus(resp.StatusCode()), Status: resp.StatusCode(), Message: msg}
	}
	if decodeErr != nil {
		return &RemoteError{Op: op, Kind: KindUnknown, Status: resp.StatusCode(), Err: fmt.Errorf("decode response: %w", decodeErr)}
	}
	if !env.Success {
		return &RemoteError{Op: op, Kind: KindUnknown, Status: resp.StatusCode(), Message: env.Message}
	}

	if out == nil || len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return &RemoteError{Op: op, Kind: KindUnknown, Status: resp.StatusCode(), Err: fmt.Errorf("decode data: %w", err)}
	}
	return nil
}
