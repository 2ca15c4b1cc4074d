package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"todo-service/internal/model"
	"todo-service/internal/repository"

	"github.com/google/uuid"
)

var _ repository.TaskRepository = (*repo)(nil)

// record хранит задачу под собственным мьютексом.
// deleted выставляется под mu до удаления записи из индекса.
type record struct {
	mu      sync.Mutex
	seq     uint64
	task    model.Task
	deleted bool
}

type repo struct {
	mu      sync.RWMutex // защищает только индекс и счетчик
	seq     uint64
	records map[string]*record
	now     func() time.Time
}

// NewRepository создает новый экземпляр in-memory репозитория на основе map
func NewRepository() repository.TaskRepository {
	return newRepo(time.Now)
}

func newRepo(now func() time.Time) *repo {
	return &repo{
		records: make(map[string]*record),
		now:     now,
	}
}

// Create сохраняет новую задачу и возвращает её с ID
func (r *repo) Create(ctx context.Context, task model.Task) (model.Task, error) {
	if err := ctx.Err(); err != nil {
		return model.Task{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// ID всегда генерируется хранилищем и не переиспользуется
	for {
		task.ID = uuid.New().String()
		if _, exists := r.records[task.ID]; !exists {
			break
		}
	}

	now := r.now()
	if task.CreatedAt.IsZero() {
		task.CreatedAt = now
	}
	task.UpdatedAt = task.CreatedAt

	r.seq++
	r.records[task.ID] = &record{seq: r.seq, task: task}

	return task, nil
}

// GetByID возвращает задачу по её ID
func (r *repo) GetByID(ctx context.Context, id string) (model.Task, error) {
	rec, ok := r.lookup(id)
	if !ok {
		return model.Task{}, repository.ErrTaskNotFound
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()

	if rec.deleted {
		return model.Task{}, repository.ErrTaskNotFound
	}
	return rec.task, nil
}

// List возвращает все задачи в порядке создания
func (r *repo) List(ctx context.Context) ([]model.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	recs := make([]*record, 0, len(r.records))
	for _, rec := range r.records {
		recs = append(recs, rec)
	}
	r.mu.RUnlock()

	sort.Slice(recs, func(i, j int) bool { return recs[i].seq < recs[j].seq })

	tasks := make([]model.Task, 0, len(recs))
	for _, rec := range recs {
		rec.mu.Lock()
		if !rec.deleted {
			tasks = append(tasks, rec.task)
		}
		rec.mu.Unlock()
	}

	return tasks, nil
}

// Update применяет патч под блокировкой записи
func (r *repo) Update(ctx context.Context, id string, patch model.Patch) (model.Task, error) {
	if err := ctx.Err(); err != nil {
		return model.Task{}, err
	}

	rec, ok := r.lookup(id)
	if !ok {
		return model.Task{}, repository.ErrTaskNotFound
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()

	// Запись могла быть удалена, пока мы ждали блокировку
	if rec.deleted {
		return model.Task{}, repository.ErrTaskNotFound
	}

	if patch.IsEmpty() {
		return rec.task, nil
	}

	updated := patch.Apply(rec.task)
	updated.UpdatedAt = r.now()
	rec.task = updated

	return updated, nil
}

// Delete удаляет задачу по ID
func (r *repo) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	rec, ok := r.lookup(id)
	if !ok {
		return repository.ErrTaskNotFound
	}

	rec.mu.Lock()
	if rec.deleted {
		rec.mu.Unlock()
		return repository.ErrTaskNotFound
	}
	rec.deleted = true
	rec.mu.Unlock()

	r.mu.Lock()
	delete(r.records, id)
	r.mu.Unlock()

	return nil
}

// Ping всегда успешен для in-memory хранилища
func (r *repo) Ping(ctx context.Context) error {
	return nil
}

// Close ничего не делает
func (r *repo) Close(ctx context.Context) error {
	return nil
}

func (r *repo) lookup(id string) (*record, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.records[id]
	return rec, ok
}
