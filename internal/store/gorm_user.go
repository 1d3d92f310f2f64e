package store

import (
	"context"
	"time"

	"github.com/huangang/taskhub/backend/internal/models"
	"gorm.io/gorm"
)

type gormUserStore struct {
	db *gorm.DB
}

func (s *gormUserStore) Insert(ctx context.Context, user *models.User) (string, error) {
	if user.ID == "" {
		user.ID = newID()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		return "", translate(err, "insert user")
	}
	return user.ID, nil
}

func (s *gormUserStore) FindByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, translate(err, "find user")
	}
	return &user, nil
}

func (s *gormUserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).Order("created_at ASC").First(&user).Error; err != nil {
		return nil, translate(err, "find user by email")
	}
	return &user, nil
}

func (s *gormUserStore) FindByIDs(ctx context.Context, ids []string) ([]models.User, error) {
	users := []models.User{}
	if len(ids) == 0 {
		return users, nil
	}
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Order("created_at ASC").Find(&users).Error; err != nil {
		return nil, translate(err, "find users")
	}
	return users, nil
}

func (s *gormUserStore) FindAll(ctx context.Context) ([]models.User, error) {
	users := []models.User{}
	if err := s.db.WithContext(ctx).Order("created_at ASC").Find(&users).Error; err != nil {
		return nil, translate(err, "list users")
	}
	return users, nil
}
