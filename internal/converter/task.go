package converter

import (
	"time"

	"todo-service/internal/model"
	todosv1 "todo-service/pkg/todos/v1"
)

// DTOToModel конвертирует сетевое представление Task в domain модель
func DTOToModel(dto todosv1.Task) model.Task {
	var createdAt, updatedAt time.Time
	if dto.CreatedAt != nil {
		createdAt = *dto.CreatedAt
	}
	if dto.UpdatedAt != nil {
		updatedAt = *dto.UpdatedAt
	}

	return model.Task{
		ID:        dto.ID,
		Text:      dto.Text,
		Completed: dto.Completed,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}
}

// ModelToDTO конвертирует domain модель Task в сетевое представление
func ModelToDTO(task model.Task) todosv1.Task {
	var createdAt, updatedAt *time.Time
	if !task.CreatedAt.IsZero() {
		t := task.CreatedAt.UTC()
		createdAt = &t
	}
	if !task.UpdatedAt.IsZero() {
		t := task.UpdatedAt.UTC()
		updatedAt = &t
	}

	return todosv1.Task{
		ID:        task.ID,
		Text:      task.Text,
		Completed: task.Completed,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}
}

// ModelsToDTOs конвертирует слайс domain моделей; результат никогда не nil,
// чтобы список сериализовался в [] а не в null
func ModelsToDTOs(tasks []model.Task) []todosv1.Task {
	dtos := make([]todosv1.Task, len(tasks))
	for i, task := range tasks {
		dtos[i] = ModelToDTO(task)
	}

	return dtos
}

// DTOsToModels конвертирует слайс сетевых задач в domain модели
func DTOsToModels(dtos []todosv1.Task) []model.Task {
	tasks := make([]model.Task, len(dtos))
	for i, dto := range dtos {
		tasks[i] = DTOToModel(dto)
	}

	return tasks
}

// UpdateRequestToPatch конвертирует тело PATCH в патч
func UpdateRequestToPatch(req todosv1.UpdateTaskRequest) model.Patch {
	return model.Patch{
		Text:      req.Text,
		Completed: req.Completed,
	}
}

// PatchToUpdateRequest конвертирует патч в тело PATCH
func PatchToUpdateRequest(patch model.Patch) todosv1.UpdateTaskRequest {
	return todosv1.UpdateTaskRequest{
		Text:      patch.Text,
		Completed: patch.Completed,
	}
}
