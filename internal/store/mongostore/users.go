package mongostore

import (
	"context"
	"time"

	"github.com/huangang/taskhub/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type userStore struct {
	coll *mongo.Collection
	bind func(context.Context) context.Context
}

func (s *userStore) Insert(ctx context.Context, user *models.User) (string, error) {
	if user.ID == "" {
		user.ID = newID()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	if _, err := s.coll.InsertOne(s.bind(ctx), user); err != nil {
		return "", translate(err, "insert user")
	}
	return user.ID, nil
}

func (s *userStore) FindByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := s.coll.FindOne(s.bind(ctx), bson.M{"_id": id}).Decode(&user); err != nil {
		return nil, translate(err, "find user")
	}
	return &user, nil
}

func (s *userStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	opts := options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	if err := s.coll.FindOne(s.bind(ctx), bson.M{"email": email}, opts).Decode(&user); err != nil {
		return nil, translate(err, "find user by email")
	}
	return &user, nil
}

func (s *userStore) FindByIDs(ctx context.Context, ids []string) ([]models.User, error) {
	if len(ids) == 0 {
		return []models.User{}, nil
	}
	return s.find(ctx, idsFilter(ids), "find users")
}

func (s *userStore) FindAll(ctx context.Context) ([]models.User, error) {
	return s.find(ctx, bson.M{}, "list users")
}

func (s *userStore) find(ctx context.Context, filter bson.M, op string) ([]models.User, error) {
	ctx = s.bind(ctx)
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cur, err := s.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, translate(err, op)
	}
	users := []models.User{}
	if err := cur.All(ctx, &users); err != nil {
		return nil, translate(err, op)
	}
	return users, nil
}
