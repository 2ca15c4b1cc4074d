package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"todo-service/internal/converter"
	"todo-service/internal/model"
	"todo-service/internal/repository"
	svc "todo-service/internal/service"
	todosv1 "todo-service/pkg/todos/v1"
)

// maxBodyBytes ограничение размера тела запроса
const maxBodyBytes = 1 << 20

// Handler реализует REST API задач
type Handler struct {
	taskService svc.TaskService
	log         *slog.Logger
}

// NewHandler создает новый экземпляр HTTP handler
func NewHandler(taskService svc.TaskService, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{
		taskService: taskService,
		log:         log,
	}
}

// ListTasks GET /api/todos
func (h *Handler) ListTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.taskService.List(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, converter.ModelsToDTOs(tasks))
}

// GetTask GET /api/todos/{id}
func (h *Handler) GetTask(w http.ResponseWriter, r *http.Request) {
	task, err := h.taskService.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, converter.ModelToDTO(task))
}

// CreateTask POST /api/todos
func (h *Handler) CreateTask(w http.ResponseWriter, r *http.Request) {
	var req todosv1.CreateTaskRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	if req.Text == nil {
		h.writeError(w, r, fmt.Errorf("%w: text is required", model.ErrValidation))
		return
	}

	task, err := h.taskService.Create(r.Context(), *req.Text)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	w.Header().Set("Location", todosv1.BasePath+"/"+task.ID)
	writeJSON(w, http.StatusCreated, converter.ModelToDTO(task))
}

// UpdateTask PATCH /api/todos/{id}
func (h *Handler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	var req todosv1.UpdateTaskRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	task, err := h.taskService.Update(r.Context(), r.PathValue("id"), converter.UpdateRequestToPatch(req))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, converter.ModelToDTO(task))
}

// DeleteTask DELETE /api/todos/{id}
func (h *Handler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	if err := h.taskService.Delete(r.Context(), r.PathValue("id")); err != nil {
		h.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Health GET /healthz
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.taskService.Ping(r.Context()); err != nil {
		h.log.WarnContext(r.Context(), "health check failed", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, todosv1.HealthResponse{Status: "unavailable"})
		return
	}

	writeJSON(w, http.StatusOK, todosv1.HealthResponse{Status: "ok"})
}

// NotFound отвечает на неизвестные пути под /api/
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, todosv1.ErrorResponse{
		Error: "route not found",
		Code:  todosv1.CodeNotFound,
	})
}

// writeError преобразует ошибку сервиса в HTTP ответ
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, model.ErrValidation):
		writeJSON(w, http.StatusBadRequest, todosv1.ErrorResponse{
			Error: err.Error(),
			Code:  todosv1.CodeValidation,
		})
	case errors.Is(err, repository.ErrTaskNotFound):
		writeJSON(w, http.StatusNotFound, todosv1.ErrorResponse{
			Error: "task not found",
			Code:  todosv1.CodeNotFound,
		})
	case errors.Is(err, repository.ErrStorageUnavailable):
		h.log.ErrorContext(r.Context(), "storage unavailable", "method", r.Method, "path", r.URL.Path, "error", err)
		writeJSON(w, http.StatusServiceUnavailable, todosv1.ErrorResponse{
			Error: "storage unavailable",
			Code:  todosv1.CodeStorageUnavailable,
		})
	default:
		if errors.Is(err, context.Canceled) {
			h.log.DebugContext(r.Context(), "request canceled", "path", r.URL.Path)
		} else {
			h.log.ErrorContext(r.Context(), "internal error", "method", r.Method, "path", r.URL.Path, "error", err)
		}
		writeJSON(w, http.StatusInternalServerError, todosv1.ErrorResponse{
			Error: "internal server error",
			Code:  todosv1.CodeInternal,
		})
	}
}

// decodeJSON читает тело как единственный JSON объект без неизвестных полей и null значений
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return fmt.Errorf("%w: request body exceeds %d bytes", model.ErrValidation, maxErr.Limit)
		}
		return fmt.Errorf("%w: read request body: %v", model.ErrValidation, err)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil || fields == nil {
		return fmt.Errorf("%w: request body must be a JSON object", model.ErrValidation)
	}
	for name, raw := range fields {
		if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
			return fmt.Errorf("%w: field %q must not be null", model.ErrValidation, name)
		}
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return fmt.Errorf("%w: field %q must be %s", model.ErrValidation, typeErr.Field, typeErr.Type)
		}
		return fmt.Errorf("%w: %v", model.ErrValidation, err)
	}

	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
