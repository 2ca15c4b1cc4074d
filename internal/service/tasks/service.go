package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"todo-service/internal/model"
	"todo-service/internal/repository"
	svc "todo-service/internal/service"
)

var _ svc.TaskService = (*service)(nil)

type service struct {
	taskRepository repository.TaskRepository
	log            *slog.Logger
	now            func() time.Time
}

// NewTaskService создает новый экземпляр сервиса для работы с задачами
func NewTaskService(taskRepository repository.TaskRepository, log *slog.Logger) svc.TaskService {
	if log == nil {
		log = slog.Default()
	}
	return &service{
		taskRepository: taskRepository,
		log:            log,
		now:            time.Now,
	}
}

// Create создает новую задачу; текст обрезается и не может быть пустым
func (s *service) Create(ctx context.Context, text string) (model.Task, error) {
	text = strings.TrimSpace(text)

	task := model.Task{
		Text:      text,
		Completed: false,
		CreatedAt: s.now(),
	}
	if err := task.Validate(); err != nil {
		return model.Task{}, err
	}

	// ID назначается репозиторием
	created, err := s.taskRepository.Create(ctx, task)
	if err != nil {
		return model.Task{}, fmt.Errorf("create task: %w", err)
	}

	s.log.DebugContext(ctx, "task created", "id", created.ID)
	return created, nil
}

// Get возвращает задачу по её ID
func (s *service) Get(ctx context.Context, id string) (model.Task, error) {
	if err := validateID(id); err != nil {
		return model.Task{}, err
	}

	task, err := s.taskRepository.GetByID(ctx, id)
	if err != nil {
		return model.Task{}, fmt.Errorf("get task %s: %w", id, err)
	}

	return task, nil
}

// List возвращает список всех задач
func (s *service) List(ctx context.Context) ([]model.Task, error) {
	tasks, err := s.taskRepository.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}

	if tasks == nil {
		tasks = []model.Task{}
	}
	return tasks, nil
}

// Update применяет только переданные поля патча
func (s *service) Update(ctx context.Context, id string, patch model.Patch) (model.Task, error) {
	if err := validateID(id); err != nil {
		return model.Task{}, err
	}

	// Текст валидируется до обращения к хранилищу: патч применяется целиком или никак
	if patch.Text != nil {
		trimmed := strings.TrimSpace(*patch.Text)
		if err := model.ValidateText(trimmed); err != nil {
			return model.Task{}, err
		}
		patch.Text = &trimmed
	}

	task, err := s.taskRepository.Update(ctx, id, patch)
	if err != nil {
		return model.Task{}, fmt.Errorf("update task %s: %w", id, err)
	}

	s.log.DebugContext(ctx, "task updated", "id", task.ID, "completed", task.Completed)
	return task, nil
}

// Delete удаляет задачу по ID
func (s *service) Delete(ctx context.Context, id string) error {
	if err := validateID(id); err != nil {
		return err
	}

	if err := s.taskRepository.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete task %s: %w", id, err)
	}

	s.log.DebugContext(ctx, "task deleted", "id", id)
	return nil
}

// Ping проверяет доступность хранилища
func (s *service) Ping(ctx context.Context) error {
	return s.taskRepository.Ping(ctx)
}

func validateID(id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%w: id cannot be empty", model.ErrValidation)
	}
	return nil
}
