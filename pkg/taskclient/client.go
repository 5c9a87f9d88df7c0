// Package taskclient is a typed client for the task manager REST API.
package taskclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	defaultTimeout       = 30 * time.Second
	idempotencyKeyHeader = "Idempotency-Key"
	maxErrorBody         = 1 << 16
)

// APIError is a non-2xx answer from the server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("task api: %d %s", e.Status, e.Message)
}

// IsNotFound reports whether err is an APIError with status 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

type Client struct {
	baseURL  string
	http     *http.Client
	language string
}

type Option func(*Client)

func WithHTTPClient(c *http.Client) Option {
	return func(client *Client) {
		client.http = c
	}
}

// WithLanguage sets Accept-Language, which picks the language of error messages.
func WithLanguage(lang string) Option {
	return func(client *Client) {
		client.language = lang
	}
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) ListTasks(ctx context.Context, opts ListOptions) (TaskList, error) {
	query := url.Values{}
	if opts.Completed != nil {
		query.Set("completed", strconv.FormatBool(*opts.Completed))
	}
	if opts.Skip > 0 {
		query.Set("skip", strconv.Itoa(opts.Skip))
	}
	if opts.Limit > 0 {
		query.Set("limit", strconv.Itoa(opts.Limit))
	}

	path := "/tasks"
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	var list TaskList
	err := c.do(ctx, http.MethodGet, path, nil, &list, nil)
	return list, err
}

func (c *Client) GetTask(ctx context.Context, id uint64) (Task, error) {
	var task Task
	err := c.do(ctx, http.MethodGet, taskPath(id), nil, &task, nil)
	return task, err
}

// CreateTask sends idempotencyKey when non-empty, so a retry with the same key
// cannot create a second task.
func (c *Client) CreateTask(ctx context.Context, task NewTask, idempotencyKey string) (Task, error) {
	var created Task
	err := c.do(ctx, http.MethodPost, "/tasks", task, &created, idempotencyHeader(idempotencyKey))
	return created, err
}

func (c *Client) UpdateTask(ctx context.Context, id uint64, patch TaskPatch) (Task, error) {
	var updated Task
	err := c.do(ctx, http.MethodPatch, taskPath(id), patch, &updated, nil)
	return updated, err
}

// DeleteTask returns the server's confirmation message.
func (c *Client) DeleteTask(ctx context.Context, id uint64) (string, error) {
	var resp struct {
		Message string `json:"message"`
	}
	err := c.do(ctx, http.MethodDelete, taskPath(id), nil, &resp, nil)
	return resp.Message, err
}

func (c *Client) AIStatus(ctx context.Context) (AIStatus, error) {
	var status AIStatus
	err := c.do(ctx, http.MethodGet, "/ai/status", nil, &status, nil)
	return status, err
}

func (c *Client) Parse(ctx context.Context, text string) (TaskDraft, error) {
	var draft TaskDraft
	err := c.do(ctx, http.MethodPost, "/ai/parse", map[string]string{"text": text}, &draft, nil)
	return draft, err
}

func (c *Client) ParseAndCreate(ctx context.Context, text, idempotencyKey string) (ParseAndCreateResult, error) {
	var result ParseAndCreateResult
	err := c.do(ctx, http.MethodPost, "/ai/parse-and-create", map[string]string{"text": text}, &result, idempotencyHeader(idempotencyKey))
	return result, err
}

func (c *Client) Prioritize(ctx context.Context, ids []uint64) (Prioritization, error) {
	var result Prioritization
	err := c.do(ctx, http.MethodPost, "/ai/prioritize", map[string][]uint64{"task_ids": ids}, &result, nil)
	return result, err
}

func (c *Client) Categorize(ctx context.Context, id uint64) (Categorization, error) {
	var result Categorization
	err := c.do(ctx, http.MethodPost, "/ai/categorize/"+strconv.FormatUint(id, 10), nil, &result, nil)
	return result, err
}

func (c *Client) Insights(ctx context.Context) (Insights, error) {
	var insights Insights
	err := c.do(ctx, http.MethodGet, "/ai/insights", nil, &insights, nil)
	return insights, err
}

func (c *Client) do(ctx context.Context, method, path string, body, out any, headers http.Header) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	for key, values := range headers {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.language != "" {
		req.Header.Set("Accept-Language", c.language)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return decodeAPIError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}

	var envelope struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if json.Unmarshal(b, &envelope) == nil && envelope.Error.Message != "" {
		apiErr.Message = envelope.Error.Message
	}
	return apiErr
}

func taskPath(id uint64) string {
	return "/tasks/" + strconv.FormatUint(id, 10)
}

func idempotencyHeader(key string) http.Header {
	if key == "" {
		return nil
	}
	return http.Header{idempotencyKeyHeader: []string{key}}
}
