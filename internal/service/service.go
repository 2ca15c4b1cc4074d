package service

import (
	"context"

	"todo-service/internal/model"
)

// TaskService интерфейс для бизнес-логики работы с задачами
type TaskService interface {
	// Create создает новую задачу с указанным текстом
	Create(ctx context.Context, text string) (model.Task, error)

	// Get возвращает задачу по её ID
	Get(ctx context.Context, id string) (model.Task, error)

	// List возвращает список всех задач в порядке создания
	List(ctx context.Context) ([]model.Task, error)

	// Update частично обновляет задачу: применяются только заданные поля патча
	Update(ctx context.Context, id string, patch model.Patch) (model.Task, error)

	// Delete удаляет задачу по ID
	Delete(ctx context.Context, id string) error

	// Ping проверяет доступность хранилища
	Ping(ctx context.Context) error
}
