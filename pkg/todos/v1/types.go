// Package todosv1 описывает JSON-представление REST API задач.
// Типы используются и сервером, и клиентом.
package todosv1

import "time"

// Коды ошибок в теле ответа
const (
	CodeValidation         = "VALIDATION_ERROR"
	CodeNotFound           = "NOT_FOUND"
	CodeStorageUnavailable = "STORAGE_UNAVAILABLE"
	CodeInternal           = "INTERNAL_ERROR"
	CodeRateLimited        = "RATE_LIMITED"
)

// BasePath префикс ресурса задач
const BasePath = "/api/todos"

// Task задача в том виде, в котором она передается по сети
type Task struct {
	ID        string     `json:"id"`
	Text      string     `json:"text"`
	Completed bool       `json:"completed"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// CreateTaskRequest тело POST /api/todos
type CreateTaskRequest struct {
	Text *string `json:"text"`
}

// UpdateTaskRequest тело PATCH /api/todos/{id}; отсутствующие поля не меняются
type UpdateTaskRequest struct {
	Text      *string `json:"text,omitempty"`
	Completed *bool   `json:"completed,omitempty"`
}

// ErrorResponse тело ответа с ошибкой
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HealthResponse тело ответа /healthz
type HealthResponse struct {
	Status string `json:"status"`
}

// WelcomeResponse ответ корневого пути, когда клиентская сборка не развернута
type WelcomeResponse struct {
	Message   string            `json:"message"`
	Version   string            `json:"version"`
	Endpoints map[string]string `json:"endpoints"`
}
