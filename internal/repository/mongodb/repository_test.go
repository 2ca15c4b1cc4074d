package mongodb

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"

	"todo-service/internal/model"
	"todo-service/internal/repository"
)

func ptr[T any](v T) *T { return &v }

func TestHandleMongoError(t *testing.T) {
	assert.NoError(t, handleMongoError(nil))
	assert.ErrorIs(t, handleMongoError(mongo.ErrNoDocuments), repository.ErrTaskNotFound)
	assert.ErrorIs(t, handleMongoError(context.Canceled), context.Canceled)

	err := handleMongoError(errors.New("server selection timeout"))
	assert.ErrorIs(t, err, repository.ErrStorageUnavailable)
	assert.Contains(t, err.Error(), "server selection timeout")
}

func TestTaskDocument_ToModel(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	doc := taskDocument{ID: "id-1", Seq: 7, Text: "a", Completed: true, CreatedAt: now, UpdatedAt: now}

	assert.Equal(t, model.Task{ID: "id-1", Text: "a", Completed: true, CreatedAt: now, UpdatedAt: now}, doc.toModel())
}

func newTestRepository(t *testing.T) repository.TaskRepository {
	t.Helper()

	uri := os.Getenv("TODO_TEST_MONGO_URI")
	if uri == "" {
		t.Skip("TODO_TEST_MONGO_URI is not set")
	}

	ctx := context.Background()
	db, err := Connect(ctx, uri, fmt.Sprintf("todo_test_%d", time.Now().UnixNano()), 5*time.Second)
	require.NoError(t, err)

	repo, err := NewRepository(ctx, db)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = db.Drop(context.Background())
		_ = repo.Close(context.Background())
	})

	return repo
}

func TestRepository_Integration_CRUD(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	first, err := repo.Create(ctx, model.Task{Text: "buy milk"})
	require.NoError(t, err)
	second, err := repo.Create(ctx, model.Task{Text: "walk dog"})
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	tasks, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, first.ID, tasks[0].ID)
	assert.Equal(t, second.ID, tasks[1].ID)

	updated, err := repo.Update(ctx, first.ID, model.Patch{Completed: ptr(true)})
	require.NoError(t, err)
	assert.Equal(t, "buy milk", updated.Text)
	assert.True(t, updated.Completed)

	require.NoError(t, repo.Delete(ctx, first.ID))
	assert.ErrorIs(t, repo.Delete(ctx, first.ID), repository.ErrTaskNotFound)

	_, err = repo.Update(ctx, first.ID, model.Patch{Text: ptr("x")})
	assert.ErrorIs(t, err, repository.ErrTaskNotFound)

	_, err = repo.GetByID(ctx, first.ID)
	assert.ErrorIs(t, err, repository.ErrTaskNotFound)
}
