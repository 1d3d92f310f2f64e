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

type projectStore struct {
	coll *mongo.Collection
	bind func(context.Context) context.Context
}

func (s *projectStore) Insert(ctx context.Context, project *models.Project) (string, error) {
	if project.ID == "" {
		project.ID = newID()
	}
	now := time.Now()
	if project.CreatedAt.IsZero() {
		project.CreatedAt = now
	}
	if project.UpdatedAt.IsZero() {
		project.UpdatedAt = now
	}
	project.Members = uniqueMembers(project.Members)

	if _, err := s.coll.InsertOne(s.bind(ctx), project); err != nil {
		return "", translate(err, "insert project")
	}
	return project.ID, nil
}

func (s *projectStore) FindByID(ctx context.Context, id string) (*models.Project, error) {
	var project models.Project
	if err := s.coll.FindOne(s.bind(ctx), bson.M{"_id": id}).Decode(&project); err != nil {
		return nil, translate(err, "find project")
	}
	normalize(&project)
	return &project, nil
}

func (s *projectStore) FindByIDForUpdate(ctx context.Context, id string) (*models.Project, error) {
	var project models.Project
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err := s.coll.FindOneAndUpdate(s.bind(ctx), bson.M{"_id": id}, touchDoc(), opts).Decode(&project)
	if err != nil {
		return nil, translate(err, "lock project")
	}
	normalize(&project)
	return &project, nil
}

func (s *projectStore) FindByOwnerOrMember(ctx context.Context, userID string) ([]models.Project, error) {
	ctx = s.bind(ctx)
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cur, err := s.coll.Find(ctx, ownerOrMemberFilter(userID), opts)
	if err != nil {
		return nil, translate(err, "find projects")
	}
	projects := []models.Project{}
	if err := cur.All(ctx, &projects); err != nil {
		return nil, translate(err, "find projects")
	}
	for i := range projects {
		normalize(&projects[i])
	}
	return projects, nil
}

func (s *projectStore) Update(ctx context.Context, id string, update store.ProjectUpdate) error {
	res, err := s.coll.UpdateOne(s.bind(ctx), bson.M{"_id": id}, projectUpdateDoc(update, time.Now()))
	if err != nil {
		return translate(err, "update project")
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *projectStore) AddMember(ctx context.Context, projectID, userID string) error {
	update := bson.M{"$addToSet": bson.M{"members": userID}}
	res, err := s.coll.UpdateOne(s.bind(ctx), bson.M{"_id": projectID}, update)
	if err != nil {
		return translate(err, "add member")
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *projectStore) Delete(ctx context.Context, id string) error {
	res, err := s.coll.DeleteOne(s.bind(ctx), bson.M{"_id": id})
	if err != nil {
		return translate(err, "delete project")
	}
	if res.DeletedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

// normalize keeps Members non-nil for documents written without the field.
func normalize(p *models.Project) {
	if p.Members == nil {
		p.Members = []string{}
	}
}
