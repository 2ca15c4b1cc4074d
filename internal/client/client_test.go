package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpapi "todo-service/internal/api/http"
	"todo-service/internal/config"
	"todo-service/internal/model"
	"todo-service/internal/repository/memory"
	"todo-service/internal/service/tasks"
)

func ptr[T any](v T) *T { return &v }

// newTestServer поднимает настоящий REST стек поверх in-memory хранилища
func newTestServer(t *testing.T) *Client {
	t.Helper()
	log := slog.New(slog.DiscardHandler)
	service := tasks.NewTaskService(memory.NewRepository(), log)
	router := httpapi.NewRouter(httpapi.NewHandler(service, log), nil, &config.ConfigGateway{RateLimitRPS: 1000, RateLimitBurst: 1000}, log)

	ts := httptest.NewServer(router)
	t.Cleanup(ts.Close)

	c, err := New(ts.URL)
	require.NoError(t, err)
	return c
}

func TestClient_CRUD(t *testing.T) {
	ctx := context.Background()
	c := newTestServer(t)

	list, err := c.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	created, err := c.Create(ctx, " a ")
	require.NoError(t, err)
	assert.Equal(t, "a", created.Text)
	assert.False(t, created.CreatedAt.IsZero())

	got, err := c.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	updated, err := c.Update(ctx, created.ID, model.Patch{Completed: ptr(true)})
	require.NoError(t, err)
	assert.True(t, updated.Completed)
	assert.Equal(t, "a", updated.Text)

	require.NoError(t, c.Delete(ctx, created.ID))

	err = c.Delete(ctx, created.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
}

func TestClient_ValidationError(t *testing.T) {
	c := newTestServer(t)

	_, err := c.Create(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrValidation)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.NotErrorIs(t, err, ErrNetwork)
}

func TestClient_StorageUnavailable(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = io.WriteString(w, `{"error":"storage unavailable","code":"STORAGE_UNAVAILABLE"}`)
	}))
	defer ts.Close()

	c, err := New(ts.URL)
	require.NoError(t, err)

	_, err = c.List(context.Background())
	assert.ErrorIs(t, err, ErrStorageUnavailable)
	assert.Contains(t, err.Error(), "storage unavailable")
}

func TestClient_NonJSONErrorBody(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer ts.Close()

	c, err := New(ts.URL)
	require.NoError(t, err)

	_, err = c.List(context.Background())
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)
	assert.Equal(t, "bad gateway", apiErr.Message)
}

func TestClient_NetworkError(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()

	c, err := New(url, WithTimeout(time.Second))
	require.NoError(t, err)

	_, err = c.List(context.Background())
	assert.ErrorIs(t, err, ErrNetwork)

	var netErr *NetworkError
	require.ErrorAs(t, err, &netErr)
	assert.Equal(t, "GET /api/todos", netErr.Op)
}

func TestClient_MalformedResponse(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"id":`)
	}))
	defer ts.Close()

	c, err := New(ts.URL)
	require.NoError(t, err)

	_, err = c.Get(context.Background(), "x")
	assert.ErrorIs(t, err, ErrNetwork)
}

func TestClient_SendsOnlyPresentPatchFields(t *testing.T) {
	var got map[string]any
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/api/todos/id%2F1", r.URL.EscapedPath())
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = io.WriteString(w, `{"id":"id/1","text":"a","completed":true}`)
	}))
	defer ts.Close()

	c, err := New(ts.URL + "/")
	require.NoError(t, err)

	task, err := c.Update(context.Background(), "id/1", model.Patch{Completed: ptr(true)})
	require.NoError(t, err)
	assert.True(t, task.Completed)
	assert.Equal(t, map[string]any{"completed": true}, got)
}

func TestNew_InvalidURL(t *testing.T) {
	_, err := New("localhost:5000")
	assert.Error(t, err)

	_, err = New("://bad")
	assert.Error(t, err)
}

func TestAPIError_Is(t *testing.T) {
	err := error(&APIError{Status: http.StatusBadRequest})
	assert.True(t, errors.Is(err, ErrValidation))
	assert.False(t, errors.Is(err, ErrStorageUnavailable))
}
