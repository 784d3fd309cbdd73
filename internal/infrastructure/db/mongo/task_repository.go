package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tekblok/fieldtask/internal/core/domain"
)

const (
	collectionTasks    = "tasks"
	collectionCounters = "counters"
	taskSequence       = "task_id"
)

// TaskRepository stores tasks under sequential integer ids.
type TaskRepository struct {
	db       *mongo.Database
	col      *mongo.Collection
	counters *mongo.Collection
}

func NewTaskRepository(db *mongo.Database) *TaskRepository {
	return &TaskRepository{
		db:       db,
		col:      db.Collection(collectionTasks),
		counters: db.Collection(collectionCounters),
	}
}

// nextID atomically increments the task sequence.
func (r *TaskRepository) nextID(ctx context.Context) (int64, error) {
	var seq struct {
		Value int64 `bson:"value"`
	}
	err := r.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": taskSequence},
		bson.M{"$inc": bson.M{"value": 1}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&seq)
	if err != nil {
		return 0, fmt.Errorf("next task id: %w", err)
	}
	return seq.Value, nil
}

// Create assigns the next id to t and inserts it.
func (r *TaskRepository) Create(ctx context.Context, t *domain.Task) error {
	if err := t.CheckStorable(); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	id, err := r.nextID(ctx)
	if err != nil {
		return err
	}
	t.ID = id

	if _, err := r.col.InsertOne(ctx, t); err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	return nil
}

func (r *TaskRepository) FindByID(ctx context.Context, id int64) (*domain.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var t domain.Task
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&t); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, fmt.Errorf("find task: %w", err)
	}
	return &t, nil
}

// List returns open or completed tasks in id order.
func (r *TaskRepository) List(ctx context.Context, completed bool) ([]*domain.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx,
		bson.M{"is_completed": completed},
		options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}),
	)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	tasks := make([]*domain.Task, 0)
	if err := cur.All(ctx, &tasks); err != nil {
		return nil, fmt.Errorf("decode tasks: %w", err)
	}
	return tasks, nil
}

// Replace overwrites the stored task. Concurrent writers race; the last one
// wins.
func (r *TaskRepository) Replace(ctx context.Context, t *domain.Task) error {
	if err := t.CheckStorable(); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": t.ID}, t)
	if err != nil {
		return fmt.Errorf("replace task: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func (r *TaskRepository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func (r *TaskRepository) DeleteAll(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteMany(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("delete tasks: %w", err)
	}
	return res.DeletedCount, nil
}

// taskValidator mirrors Task.CheckStorable on the server so that no writer
// can persist an out-of-range photo list.
func taskValidator() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"_id", "is_completed", "created_at"},
			"properties": bson.M{
				"_id":          bson.M{"bsonType": "long"},
				"is_completed": bson.M{"bsonType": "bool"},
				"photos": bson.M{
					"bsonType": "array",
					"minItems": domain.MinTaskPhotos,
					"maxItems": domain.MaxTaskPhotos,
					"items":    bson.M{"bsonType": "string"},
				},
				"coordinates": bson.M{
					"bsonType": "object",
					"required": bson.A{"latitude", "longitude"},
					"properties": bson.M{
						"latitude":  bson.M{"bsonType": "double", "minimum": -90, "maximum": 90},
						"longitude": bson.M{"bsonType": "double", "minimum": -180, "maximum": 180},
					},
				},
			},
		},
	}
}

// EnsureSchema creates the tasks collection with its validator, refreshes the
// validator on an existing collection, and builds the listing index.
func (r *TaskRepository) EnsureSchema(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	validator := taskValidator()
	if err := ensureCollection(ctx, r.db, collectionTasks, options.CreateCollection().SetValidator(validator)); err != nil {
		return err
	}
	if err := r.db.RunCommand(ctx, bson.D{
		{Key: "collMod", Value: collectionTasks},
		{Key: "validator", Value: validator},
	}).Err(); err != nil {
		return fmt.Errorf("update task validator: %w", err)
	}

	_, err := r.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "is_completed", Value: 1}, {Key: "_id", Value: 1}}},
		{Keys: bson.D{{Key: "worker_id", Value: 1}}},
	})
	return err
}
