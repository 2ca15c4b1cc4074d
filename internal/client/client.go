// Package client реализует типизированный HTTP клиент REST API задач.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"todo-service/internal/converter"
	"todo-service/internal/model"
	todosv1 "todo-service/pkg/todos/v1"
)

// Классы ошибок, которые видит вызывающая сторона
var (
	ErrValidation         = errors.New("validation error")
	ErrNotFound           = errors.New("task not found")
	ErrStorageUnavailable = errors.New("storage unavailable")
	ErrNetwork            = errors.New("network error")
)

// APIError ответ сервера с неуспешным статусом
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error: status %d", e.Status)
	}
	return fmt.Sprintf("api error: status %d: %s", e.Status, e.Message)
}

// Is сопоставляет ошибку с классом по коду или статусу
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrValidation:
		return e.Code == todosv1.CodeValidation || e.Status == http.StatusBadRequest
	case ErrNotFound:
		return e.Code == todosv1.CodeNotFound || e.Status == http.StatusNotFound
	case ErrStorageUnavailable:
		return e.Code == todosv1.CodeStorageUnavailable || e.Status == http.StatusServiceUnavailable
	}
	return false
}

// NetworkError запрос не дошел до сервера или ответ не удалось прочитать
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrNetwork, e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

func (e *NetworkError) Is(target error) bool { return target == ErrNetwork }

// Client HTTP клиент ресурса задач
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option функциональная опция клиента
type Option func(*Client)

// WithHTTPClient задает http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout задает таймаут одного запроса
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// New создает клиент для сервера по адресу baseURL
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid server url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid server url %q: scheme must be http or https", baseURL)
	}

	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// List возвращает все задачи в порядке создания
func (c *Client) List(ctx context.Context) ([]model.Task, error) {
	var dtos []todosv1.Task
	if err := c.do(ctx, http.MethodGet, todosv1.BasePath, nil, &dtos); err != nil {
		return nil, err
	}
	return converter.DTOsToModels(dtos), nil
}

// Get возвращает задачу по ID
func (c *Client) Get(ctx context.Context, id string) (model.Task, error) {
	var dto todosv1.Task
	if err := c.do(ctx, http.MethodGet, taskPath(id), nil, &dto); err != nil {
		return model.Task{}, err
	}
	return converter.DTOToModel(dto), nil
}

// Create создает задачу
func (c *Client) Create(ctx context.Context, text string) (model.Task, error) {
	var dto todosv1.Task
	if err := c.do(ctx, http.MethodPost, todosv1.BasePath, todosv1.CreateTaskRequest{Text: &text}, &dto); err != nil {
		return model.Task{}, err
	}
	return converter.DTOToModel(dto), nil
}

// Update частично обновляет задачу
func (c *Client) Update(ctx context.Context, id string, patch model.Patch) (model.Task, error) {
	var dto todosv1.Task
	if err := c.do(ctx, http.MethodPatch, taskPath(id), converter.PatchToUpdateRequest(patch), &dto); err != nil {
		return model.Task{}, err
	}
	return converter.DTOToModel(dto), nil
}

// Delete удаляет задачу
func (c *Client) Delete(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, taskPath(id), nil, nil)
}

func taskPath(id string) string {
	return todosv1.BasePath + "/" + url.PathEscape(id)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	op := method + " " + path

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &NetworkError{Op: op, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}

	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	var body todosv1.ErrorResponse
	if err := json.Unmarshal(data, &body); err == nil {
		apiErr.Code = body.Code
		apiErr.Message = body.Error
	} else {
		apiErr.Message = strings.TrimSpace(string(data))
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}
	return apiErr
}
