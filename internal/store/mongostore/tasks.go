package mongostore

import (
	"context"
	"time"

	"github.com/huangang/taskhub/backend/internal/models"
	"github.com/huangang/taskhub/backend/internal/store"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type taskStore struct {
	coll     *mongo.Collection
	projects *mongo.Collection
	bind     func(context.Context) context.Context
}

func (s *taskStore) Insert(ctx context.Context, task *models.Task) (string, error) {
	if task.ID == "" {
		task.ID = newID()
	}
	if task.Status == "" {
		task.Status = models.TaskStatusPending
	}
	now := time.Now()
	if task.CreatedAt.IsZero() {
		task.CreatedAt = now
	}
	if task.UpdatedAt.IsZero() {
		task.UpdatedAt = now
	}
	if _, err := s.coll.InsertOne(s.bind(ctx), task); err != nil {
		return "", translate(err, "insert task")
	}
	return task.ID, nil
}

func (s *taskStore) FindByID(ctx context.Context, id string) (*models.Task, error) {
	var task models.Task
	if err := s.coll.FindOne(s.bind(ctx), bson.M{"_id": id}).Decode(&task); err != nil {
		return nil, translate(err, "find task")
	}
	return &task, nil
}

func (s *taskStore) FindByProject(ctx context.Context, projectID string) ([]models.Task, error) {
	ctx = s.bind(ctx)
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cur, err := s.coll.Find(ctx, bson.M{"projectId": projectID}, opts)
	if err != nil {
		return nil, translate(err, "find tasks")
	}
	tasks := []models.Task{}
	if err := cur.All(ctx, &tasks); err != nil {
		return nil, translate(err, "find tasks")
	}
	return tasks, nil
}

func (s *taskStore) Update(ctx context.Context, id string, update store.TaskUpdate) error {
	res, err := s.coll.UpdateOne(s.bind(ctx), bson.M{"_id": id}, taskUpdateDoc(update, time.Now()))
	if err != nil {
		return translate(err, "update task")
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *taskStore) Delete(ctx context.Context, id string) error {
	res, err := s.coll.DeleteOne(s.bind(ctx), bson.M{"_id": id})
	if err != nil {
		return translate(err, "delete task")
	}
	if res.DeletedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *taskStore) DeleteAllForProject(ctx context.Context, projectID string) (int64, error) {
	res, err := s.coll.DeleteMany(s.bind(ctx), bson.M{"projectId": projectID})
	if err != nil {
		return 0, translate(err, "delete project tasks")
	}
	return res.DeletedCount, nil
}

func (s *taskStore) DeleteOrphans(ctx context.Context) (int64, error) {
	ctx = s.bind(ctx)
	cutoff := time.Now()
	ids, err := s.projects.Distinct(ctx, "_id", bson.M{})
	if err != nil {
		return 0, translate(err, "list project ids")
	}
	res, err := s.coll.DeleteMany(ctx, orphanFilter(ids, cutoff))
	if err != nil {
		return 0, translate(err, "delete orphan tasks")
	}
	return res.DeletedCount, nil
}
