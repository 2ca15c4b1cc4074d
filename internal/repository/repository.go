package repository

import (
	"context"
	"errors"

	"todo-service/internal/model"
)

var (
	// ErrTaskNotFound возвращается, когда задача не найдена (удалена или никогда не существовала)
	ErrTaskNotFound = errors.New("task not found")

	// ErrStorageUnavailable возвращается, когда хранилище недоступно или вернуло ошибку
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// TaskRepository интерфейс для работы с задачами в хранилище.
// Update и Delete по одному ID сериализуются внутри реализации:
// удаление и конкурентное обновление не могут оба завершиться успешно.
type TaskRepository interface {
	// Create сохраняет новую задачу и возвращает её с назначенным ID
	Create(ctx context.Context, task model.Task) (model.Task, error)

	// GetByID возвращает задачу по её ID
	GetByID(ctx context.Context, id string) (model.Task, error)

	// List возвращает все задачи в порядке создания
	List(ctx context.Context) ([]model.Task, error)

	// Update атомарно применяет патч и возвращает обновленную задачу
	Update(ctx context.Context, id string, patch model.Patch) (model.Task, error)

	// Delete удаляет задачу по ID
	Delete(ctx context.Context, id string) error

	// Ping проверяет доступность хранилища
	Ping(ctx context.Context) error

	// Close освобождает ресурсы хранилища
	Close(ctx context.Context) error
}
