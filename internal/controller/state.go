package controller

import (
	"slices"

	"todo-service/internal/model"
)

// Edit активное редактирование одной задачи
type Edit struct {
	ID    string
	Draft string

	// session отличает новое редактирование той же задачи от прежнего
	session uint64
}

// State снимок состояния клиента. Значение не изменяется после создания:
// каждый переход возвращает новый State, копируя то, что меняет
type State struct {
	Tasks   []model.Task
	Input   string
	Editing *Edit
}

// Task ищет задачу в зеркале
func (s State) Task(id string) (model.Task, bool) {
	if i := s.index(id); i >= 0 {
		return s.Tasks[i], true
	}
	return model.Task{}, false
}

// IsEditing сообщает, редактируется ли задача id
func (s State) IsEditing(id string) bool {
	return s.Editing != nil && s.Editing.ID == id
}

func (s State) index(id string) int {
	return slices.IndexFunc(s.Tasks, func(t model.Task) bool { return t.ID == id })
}

func (s State) withTasks(tasks []model.Task) State {
	s.Tasks = slices.Clone(tasks)
	if s.Tasks == nil {
		s.Tasks = []model.Task{}
	}
	// Редактирование исчезнувшей задачи теряет смысл
	if s.Editing != nil && s.index(s.Editing.ID) < 0 {
		s.Editing = nil
	}
	return s
}

func (s State) withAppended(task model.Task) State {
	tasks := make([]model.Task, len(s.Tasks), len(s.Tasks)+1)
	copy(tasks, s.Tasks)
	s.Tasks = append(tasks, task)
	return s
}

// withReplaced заменяет задачу с тем же ID. Ответ на обновление уже
// удаленной задачи игнорируется
func (s State) withReplaced(task model.Task) State {
	i := s.index(task.ID)
	if i < 0 {
		return s
	}
	s.Tasks = slices.Clone(s.Tasks)
	s.Tasks[i] = task
	return s
}

func (s State) withRemoved(id string) State {
	i := s.index(id)
	if i < 0 {
		return s
	}
	s.Tasks = slices.Delete(slices.Clone(s.Tasks), i, i+1)
	if s.IsEditing(id) {
		s.Editing = nil
	}
	return s
}

// withEdit начинает редактирование; предыдущий черновик отбрасывается
func (s State) withEdit(id, draft string, session uint64) State {
	s.Editing = &Edit{ID: id, Draft: draft, session: session}
	return s
}

func (s State) withDraft(draft string) State {
	if s.Editing == nil {
		return s
	}
	edit := *s.Editing
	edit.Draft = draft
	s.Editing = &edit
	return s
}

func (s State) withoutEdit() State {
	s.Editing = nil
	return s
}

func (s State) withInput(text string) State {
	s.Input = text
	return s
}
