package memory

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todo-service/internal/model"
	"todo-service/internal/repository"
)

func ptr[T any](v T) *T { return &v }

func TestRepository_CreateAssignsUniqueIDs(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository()

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		task, err := repo.Create(ctx, model.Task{Text: "task"})
		require.NoError(t, err)
		require.NotEmpty(t, task.ID)
		require.False(t, seen[task.ID], "duplicate id %s", task.ID)
		seen[task.ID] = true
		assert.False(t, task.Completed)
		assert.False(t, task.CreatedAt.IsZero())
	}
}

func TestRepository_CreateIgnoresCallerID(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository()

	task, err := repo.Create(ctx, model.Task{ID: "chosen-by-caller", Text: "x"})
	require.NoError(t, err)
	assert.NotEqual(t, "chosen-by-caller", task.ID)
}

func TestRepository_ListKeepsCreationOrder(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository()

	var ids []string
	for _, text := range []string{"one", "two", "three", "four"} {
		task, err := repo.Create(ctx, model.Task{Text: text})
		require.NoError(t, err)
		ids = append(ids, task.ID)
	}

	require.NoError(t, repo.Delete(ctx, ids[1]))

	tasks, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 3)
	assert.Equal(t, []string{ids[0], ids[2], ids[3]}, []string{tasks[0].ID, tasks[1].ID, tasks[2].ID})
}

func TestRepository_UpdatePartial(t *testing.T) {
	ctx := context.Background()
	clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	repo := newRepo(func() time.Time { return clock })

	task, err := repo.Create(ctx, model.Task{Text: "a"})
	require.NoError(t, err)

	clock = clock.Add(time.Minute)
	updated, err := repo.Update(ctx, task.ID, model.Patch{Completed: ptr(true)})
	require.NoError(t, err)
	assert.Equal(t, "a", updated.Text)
	assert.True(t, updated.Completed)
	assert.Equal(t, task.CreatedAt, updated.CreatedAt)
	assert.True(t, updated.UpdatedAt.After(task.UpdatedAt))

	updated, err = repo.Update(ctx, task.ID, model.Patch{Text: ptr("b")})
	require.NoError(t, err)
	assert.Equal(t, "b", updated.Text)
	assert.True(t, updated.Completed, "completed must keep its previous value")
}

func TestRepository_UpdateEmptyPatchReturnsCurrent(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository()

	task, err := repo.Create(ctx, model.Task{Text: "a"})
	require.NoError(t, err)

	got, err := repo.Update(ctx, task.ID, model.Patch{})
	require.NoError(t, err)
	assert.Equal(t, task, got)
}

func TestRepository_NotFound(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository()

	_, err := repo.GetByID(ctx, "nonexistent-id")
	assert.ErrorIs(t, err, repository.ErrTaskNotFound)

	_, err = repo.Update(ctx, "nonexistent-id", model.Patch{Text: ptr("x")})
	assert.ErrorIs(t, err, repository.ErrTaskNotFound)

	err = repo.Delete(ctx, "nonexistent-id")
	assert.ErrorIs(t, err, repository.ErrTaskNotFound)

	tasks, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestRepository_DeleteIsFinal(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository()

	task, err := repo.Create(ctx, model.Task{Text: "a"})
	require.NoError(t, err)
	require.NoError(t, repo.Delete(ctx, task.ID))

	_, err = repo.Update(ctx, task.ID, model.Patch{Completed: ptr(true)})
	assert.ErrorIs(t, err, repository.ErrTaskNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, task.ID), repository.ErrTaskNotFound)

	tasks, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestRepository_ConcurrentUpdateAndDeleteOnSameID(t *testing.T) {
	ctx := context.Background()

	for round := 0; round < 200; round++ {
		repo := NewRepository()
		task, err := repo.Create(ctx, model.Task{Text: "race"})
		require.NoError(t, err)

		var (
			wg        sync.WaitGroup
			updatedOK atomic.Int32
			deletedOK atomic.Int32
		)

		wg.Add(2)
		go func() {
			defer wg.Done()
			if err := repo.Delete(ctx, task.ID); err == nil {
				deletedOK.Add(1)
			}
		}()
		go func() {
			defer wg.Done()
			if _, err := repo.Update(ctx, task.ID, model.Patch{Completed: ptr(true)}); err == nil {
				updatedOK.Add(1)
			}
		}()
		wg.Wait()

		require.Equal(t, int32(1), deletedOK.Load(), "delete must always succeed")
		require.LessOrEqual(t, updatedOK.Load(), int32(1))

		// Обновление либо произошло до удаления, либо получило NotFound
		_, err = repo.GetByID(ctx, task.ID)
		require.ErrorIs(t, err, repository.ErrTaskNotFound)
	}
}

func TestRepository_ConcurrentDeletesOnlyOneWins(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository()

	task, err := repo.Create(ctx, model.Task{Text: "a"})
	require.NoError(t, err)

	var (
		wg  sync.WaitGroup
		won atomic.Int32
	)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if repo.Delete(ctx, task.ID) == nil {
				won.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), won.Load())
}

func TestRepository_ConcurrentCreates(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository()

	const n = 64
	ids := make(chan string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			task, err := repo.Create(ctx, model.Task{Text: "x"})
			if err == nil {
				ids <- task.ID
			}
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[string]bool)
	for id := range ids {
		assert.False(t, seen[id])
		seen[id] = true
	}
	assert.Len(t, seen, n)

	tasks, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, tasks, n)
}
