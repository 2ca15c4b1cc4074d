package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"todo-service/internal/model"
	"todo-service/internal/repository"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	tasksCollection    = "todos"
	countersCollection = "counters"
)

var _ repository.TaskRepository = (*repo)(nil)

// taskDocument представление задачи в MongoDB
type taskDocument struct {
	ID        string    `bson:"_id"`
	Seq       int64     `bson:"seq"`
	Text      string    `bson:"text"`
	Completed bool      `bson:"completed"`
	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

func (d taskDocument) toModel() model.Task {
	return model.Task{
		ID:        d.ID,
		Text:      d.Text,
		Completed: d.Completed,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

type repo struct {
	db       *mongo.Database
	tasks    *mongo.Collection
	counters *mongo.Collection
	now      func() time.Time
}

// Connect подключается к MongoDB и возвращает базу данных
func Connect(ctx context.Context, uri, database string, timeout time.Duration) (*mongo.Database, error) {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri).SetConnectTimeout(timeout))
	if err != nil {
		return nil, fmt.Errorf("connecting to mongo: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("pinging mongo: %w", err)
	}

	return client.Database(database), nil
}

// NewRepository создает репозиторий задач поверх базы MongoDB
// и создает индекс порядка вставки
func NewRepository(ctx context.Context, db *mongo.Database) (repository.TaskRepository, error) {
	r := &repo{
		db:       db,
		tasks:    db.Collection(tasksCollection),
		counters: db.Collection(countersCollection),
		now:      time.Now,
	}

	_, err := r.tasks.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "seq", Value: 1}},
	})
	if err != nil {
		return nil, fmt.Errorf("creating seq index: %w", handleMongoError(err))
	}

	return r, nil
}

// Create вставляет новую задачу; seq берется из атомарного счетчика
func (r *repo) Create(ctx context.Context, task model.Task) (model.Task, error) {
	seq, err := r.nextSeq(ctx)
	if err != nil {
		return model.Task{}, err
	}

	createdAt := task.CreatedAt
	if createdAt.IsZero() {
		createdAt = r.now()
	}
	// MongoDB хранит время с точностью до миллисекунд
	createdAt = createdAt.UTC().Truncate(time.Millisecond)

	doc := taskDocument{
		ID:        uuid.New().String(),
		Seq:       seq,
		Text:      task.Text,
		Completed: task.Completed,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}

	if _, err := r.tasks.InsertOne(ctx, doc); err != nil {
		return model.Task{}, handleMongoError(err)
	}

	return doc.toModel(), nil
}

// GetByID возвращает задачу по её ID
func (r *repo) GetByID(ctx context.Context, id string) (model.Task, error) {
	var doc taskDocument
	if err := r.tasks.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		return model.Task{}, handleMongoError(err)
	}
	return doc.toModel(), nil
}

// List возвращает все задачи, отсортированные по seq
func (r *repo) List(ctx context.Context) ([]model.Task, error) {
	cursor, err := r.tasks.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "seq", Value: 1}}))
	if err != nil {
		return nil, handleMongoError(err)
	}

	var docs []taskDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, handleMongoError(err)
	}

	tasks := make([]model.Task, 0, len(docs))
	for _, doc := range docs {
		tasks = append(tasks, doc.toModel())
	}
	return tasks, nil
}

// Update применяет патч через FindOneAndUpdate: операция атомарна на уровне документа
func (r *repo) Update(ctx context.Context, id string, patch model.Patch) (model.Task, error) {
	if patch.IsEmpty() {
		return r.GetByID(ctx, id)
	}

	set := bson.M{"updated_at": r.now().UTC().Truncate(time.Millisecond)}
	if patch.Text != nil {
		set["text"] = *patch.Text
	}
	if patch.Completed != nil {
		set["completed"] = *patch.Completed
	}

	var doc taskDocument
	err := r.tasks.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		return model.Task{}, handleMongoError(err)
	}

	return doc.toModel(), nil
}

// Delete удаляет задачу; DeletedCount == 0 означает NotFound
func (r *repo) Delete(ctx context.Context, id string) error {
	res, err := r.tasks.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return handleMongoError(err)
	}
	if res.DeletedCount == 0 {
		return repository.ErrTaskNotFound
	}
	return nil
}

// Ping проверяет доступность сервера
func (r *repo) Ping(ctx context.Context) error {
	if err := r.db.Client().Ping(ctx, readpref.Primary()); err != nil {
		return handleMongoError(err)
	}
	return nil
}

// Close отключает клиента
func (r *repo) Close(ctx context.Context) error {
	return r.db.Client().Disconnect(ctx)
}

func (r *repo) nextSeq(ctx context.Context) (int64, error) {
	var counter struct {
		Seq int64 `bson:"seq"`
	}

	err := r.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": tasksCollection},
		bson.M{"$inc": bson.M{"seq": int64(1)}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&counter)
	if err != nil {
		// Счетчик обязан существовать после upsert: отсутствие документа тоже отказ хранилища
		if errors.Is(err, mongo.ErrNoDocuments) {
			return 0, fmt.Errorf("%w: counter not returned", repository.ErrStorageUnavailable)
		}
		return 0, handleMongoError(err)
	}

	return counter.Seq, nil
}

// handleMongoError переводит ошибки драйвера в ошибки репозитория
func handleMongoError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return repository.ErrTaskNotFound
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	return fmt.Errorf("%w: %w", repository.ErrStorageUnavailable, err)
}
