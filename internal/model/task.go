package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrValidation возвращается, когда входные данные не прошли валидацию
var ErrValidation = errors.New("validation failed")

// Task представляет задачу из списка дел (доменная модель)
type Task struct {
	ID        string    // UUID задачи, назначается хранилищем
	Text      string    // Текст задачи
	Completed bool      // Признак выполнения
	CreatedAt time.Time // Дата создания
	UpdatedAt time.Time // Дата последнего обновления
}

// Validate проверяет валидность задачи
func (t *Task) Validate() error {
	return ValidateText(t.Text)
}

// IsEmpty проверяет, пуста ли задача
func (t *Task) IsEmpty() bool {
	return t.ID == "" && t.Text == "" && !t.Completed
}

// Patch частичное обновление задачи: nil-поля не изменяются
type Patch struct {
	Text      *string
	Completed *bool
}

// IsEmpty возвращает true, если патч не меняет ни одного поля
func (p Patch) IsEmpty() bool {
	return p.Text == nil && p.Completed == nil
}

// Apply применяет патч к копии задачи
func (p Patch) Apply(t Task) Task {
	if p.Text != nil {
		t.Text = *p.Text
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
	return t
}

// ValidateText проверяет, что текст задачи не пустой после TrimSpace
func ValidateText(text string) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("%w: text cannot be empty", ErrValidation)
	}
	return nil
}
