// Package controller держит локальное зеркало списка задач и синхронизирует
// его с сервером. Зеркало меняется только после успешного ответа.
package controller

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"todo-service/internal/model"
)

// Ошибки, при которых запрос не отправляется
var (
	ErrEmptyText   = errors.New("text cannot be empty")
	ErrNotEditing  = errors.New("no task is being edited")
	ErrUnknownTask = errors.New("task is not in the list")
)

// API удаленное хранилище задач
type API interface {
	List(ctx context.Context) ([]model.Task, error)
	Create(ctx context.Context, text string) (model.Task, error)
	Update(ctx context.Context, id string, patch model.Patch) (model.Task, error)
	Delete(ctx context.Context, id string) error
}

// Controller владеет текущим State. Блокировка не удерживается во время запроса,
// поэтому операции над разными задачами выполняются параллельно
type Controller struct {
	api API
	log *slog.Logger

	mu          sync.Mutex
	state       State
	session     uint64
	nextSub     int
	subscribers map[int]func(State)
}

// New создает контроллер с пустым зеркалом
func New(api API, log *slog.Logger) *Controller {
	if log == nil {
		log = slog.Default()
	}
	return &Controller{
		api:         api,
		log:         log,
		state:       State{Tasks: []model.Task{}},
		subscribers: make(map[int]func(State)),
	}
}

// State возвращает текущий снимок
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Subscribe регистрирует fn, вызываемую после каждого изменения состояния.
// Возвращает функцию отписки
func (c *Controller) Subscribe(fn func(State)) func() {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextSub
	c.nextSub++
	c.subscribers[id] = fn

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.subscribers, id)
	}
}

// update применяет переход и уведомляет подписчиков вне блокировки
func (c *Controller) update(transition func(State) State) State {
	c.mu.Lock()
	c.state = transition(c.state)
	state := c.state
	subs := make([]func(State), 0, len(c.subscribers))
	for _, fn := range c.subscribers {
		subs = append(subs, fn)
	}
	c.mu.Unlock()

	for _, fn := range subs {
		fn(state)
	}
	return state
}

func (c *Controller) fail(ctx context.Context, op string, err error, attrs ...any) error {
	c.log.WarnContext(ctx, op+" failed", append(attrs, "error", err)...)
	return err
}

// Refresh заменяет зеркало списком с сервера
func (c *Controller) Refresh(ctx context.Context) error {
	tasks, err := c.api.List(ctx)
	if err != nil {
		return c.fail(ctx, "refresh", err)
	}

	c.update(func(s State) State { return s.withTasks(tasks) })
	return nil
}

// SetInput обновляет поле ввода новой задачи
func (c *Controller) SetInput(text string) {
	c.update(func(s State) State { return s.withInput(text) })
}

// SubmitNew создает задачу; при успехе добавляет её в зеркало и очищает поле ввода
func (c *Controller) SubmitNew(ctx context.Context, text string) (model.Task, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return model.Task{}, ErrEmptyText
	}

	task, err := c.api.Create(ctx, trimmed)
	if err != nil {
		return model.Task{}, c.fail(ctx, "create", err)
	}

	c.update(func(s State) State {
		s = s.withAppended(task)
		// Пользователь мог начать вводить следующую задачу
		if s.Input == text {
			s = s.withInput("")
		}
		return s
	})
	return task, nil
}

// Edit начинает редактирование с текущим текстом задачи в черновике
func (c *Controller) Edit(id string) error {
	task, ok := c.State().Task(id)
	if !ok {
		return ErrUnknownTask
	}
	return c.EditWith(id, task.Text)
}

// EditWith начинает редактирование с заданным черновиком.
// Незавершенное редактирование другой задачи отменяется
func (c *Controller) EditWith(id, draft string) error {
	var unknown bool
	c.update(func(s State) State {
		if _, ok := s.Task(id); !ok {
			unknown = true
			return s
		}
		c.session++
		return s.withEdit(id, draft, c.session)
	})
	if unknown {
		return ErrUnknownTask
	}
	return nil
}

// SetDraft меняет черновик активного редактирования
func (c *Controller) SetDraft(draft string) error {
	var editing bool
	c.update(func(s State) State {
		editing = s.Editing != nil
		return s.withDraft(draft)
	})
	if !editing {
		return ErrNotEditing
	}
	return nil
}

// CancelEdit отбрасывает черновик без запроса
func (c *Controller) CancelEdit() {
	c.update(State.withoutEdit)
}

// CommitEdit сохраняет черновик. При ошибке редактирование продолжается
func (c *Controller) CommitEdit(ctx context.Context) (model.Task, error) {
	edit := c.State().Editing
	if edit == nil {
		return model.Task{}, ErrNotEditing
	}

	draft := strings.TrimSpace(edit.Draft)
	if draft == "" {
		return model.Task{}, ErrEmptyText
	}

	task, err := c.api.Update(ctx, edit.ID, model.Patch{Text: &draft})
	if err != nil {
		return model.Task{}, c.fail(ctx, "commit edit", err, "id", edit.ID)
	}

	c.update(func(s State) State {
		s = s.withReplaced(task)
		// Выходим только из того редактирования, которое сохраняли
		if s.Editing != nil && s.Editing.session == edit.session {
			s = s.withoutEdit()
		}
		return s
	})
	return task, nil
}

// Toggle инвертирует completed задачи из зеркала
func (c *Controller) Toggle(ctx context.Context, id string) (model.Task, error) {
	current, ok := c.State().Task(id)
	if !ok {
		return model.Task{}, ErrUnknownTask
	}

	completed := !current.Completed
	task, err := c.api.Update(ctx, id, model.Patch{Completed: &completed})
	if err != nil {
		return model.Task{}, c.fail(ctx, "toggle", err, "id", id)
	}

	c.update(func(s State) State { return s.withReplaced(task) })
	return task, nil
}

// Remove удаляет задачу на сервере, затем из зеркала
func (c *Controller) Remove(ctx context.Context, id string) error {
	if err := c.api.Delete(ctx, id); err != nil {
		return c.fail(ctx, "remove", err, "id", id)
	}

	c.update(func(s State) State { return s.withRemoved(id) })
	return nil
}
