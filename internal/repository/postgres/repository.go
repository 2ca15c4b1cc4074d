package postgres

import (
	"context"
	"time"

	"todo-service/internal/model"
	"todo-service/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var _ repository.TaskRepository = (*repo)(nil)

const taskColumns = `id::text, text, completed, created_at, updated_at`

type repo struct {
	pool *pgxpool.Pool
	now  func() time.Time
}

// NewRepository создает репозиторий задач поверх пула pgx.
// Репозиторий владеет пулом и закрывает его в Close.
func NewRepository(pool *pgxpool.Pool) repository.TaskRepository {
	return &repo{
		pool: pool,
		now:  time.Now,
	}
}

// Create вставляет новую задачу с новым UUID
func (r *repo) Create(ctx context.Context, task model.Task) (model.Task, error) {
	if task.CreatedAt.IsZero() {
		task.CreatedAt = r.now()
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO todos (id, text, completed, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $4)
		RETURNING `+taskColumns,
		uuid.New(), task.Text, task.Completed, task.CreatedAt.UTC(),
	)

	created, err := scanTask(row)
	if err != nil {
		return model.Task{}, handlePgError(err)
	}
	return created, nil
}

// GetByID возвращает задачу по её ID
func (r *repo) GetByID(ctx context.Context, id string) (model.Task, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return model.Task{}, repository.ErrTaskNotFound
	}

	row := r.pool.QueryRow(ctx, `SELECT `+taskColumns+` FROM todos WHERE id = $1`, uid)

	task, err := scanTask(row)
	if err != nil {
		return model.Task{}, handlePgError(err)
	}
	return task, nil
}

// List возвращает все задачи в порядке вставки
func (r *repo) List(ctx context.Context) ([]model.Task, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+taskColumns+` FROM todos ORDER BY seq`)
	if err != nil {
		return nil, handlePgError(err)
	}

	tasks, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.Task, error) {
		return scanTask(row)
	})
	if err != nil {
		return nil, handlePgError(err)
	}
	return tasks, nil
}

// Update применяет патч одним UPDATE: блокировка строки сериализует
// конкурентные UPDATE и DELETE по одному ID
func (r *repo) Update(ctx context.Context, id string, patch model.Patch) (model.Task, error) {
	if patch.IsEmpty() {
		return r.GetByID(ctx, id)
	}

	uid, err := uuid.Parse(id)
	if err != nil {
		return model.Task{}, repository.ErrTaskNotFound
	}

	row := r.pool.QueryRow(ctx, `
		UPDATE todos
		SET text       = COALESCE($2::text, text),
		    completed  = COALESCE($3::boolean, completed),
		    updated_at = $4
		WHERE id = $1
		RETURNING `+taskColumns,
		uid, patch.Text, patch.Completed, r.now().UTC(),
	)

	task, err := scanTask(row)
	if err != nil {
		return model.Task{}, handlePgError(err)
	}
	return task, nil
}

// Delete удаляет задачу; 0 затронутых строк означает NotFound
func (r *repo) Delete(ctx context.Context, id string) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return repository.ErrTaskNotFound
	}

	tag, err := r.pool.Exec(ctx, `DELETE FROM todos WHERE id = $1`, uid)
	if err != nil {
		return handlePgError(err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrTaskNotFound
	}
	return nil
}

// Ping проверяет соединение с базой
func (r *repo) Ping(ctx context.Context) error {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Second)
		defer cancel()
	}
	if err := r.pool.Ping(ctx); err != nil {
		return handlePgError(err)
	}
	return nil
}

// Close закрывает пул соединений
func (r *repo) Close(ctx context.Context) error {
	r.pool.Close()
	return nil
}

func scanTask(row pgx.Row) (model.Task, error) {
	var task model.Task
	err := row.Scan(&task.ID, &task.Text, &task.Completed, &task.CreatedAt, &task.UpdatedAt)
	return task, err
}
