package store

import (
	"context"
	"time"

	"github.com/huangang/taskhub/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type gormTaskStore struct {
	db *gorm.DB
}

func (s *gormTaskStore) Insert(ctx context.Context, task *models.Task) (string, error) {
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
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(task).Error; err != nil {
		return "", translate(err, "insert task")
	}
	return task.ID, nil
}

func (s *gormTaskStore) FindByID(ctx context.Context, id string) (*models.Task, error) {
	var task models.Task
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&task).Error; err != nil {
		return nil, translate(err, "find task")
	}
	return &task, nil
}

func (s *gormTaskStore) FindByProject(ctx context.Context, projectID string) ([]models.Task, error) {
	tasks := []models.Task{}
	if err := s.db.WithContext(ctx).Where("project_id = ?", projectID).
		Order("created_at ASC").Find(&tasks).Error; err != nil {
		return nil, translate(err, "find tasks")
	}
	return tasks, nil
}

func (s *gormTaskStore) Update(ctx context.Context, id string, update TaskUpdate) error {
	updates := map[string]interface{}{
		"updated_at": time.Now(),
	}
	if update.Status != nil {
		updates["status"] = *update.Status
	}

	result := s.db.WithContext(ctx).Model(&models.Task{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return translate(result.Error, "update task")
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *gormTaskStore) Delete(ctx context.Context, id string) error {
	result := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Task{})
	if result.Error != nil {
		return translate(result.Error, "delete task")
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *gormTaskStore) DeleteAllForProject(ctx context.Context, projectID string) (int64, error) {
	result := s.db.WithContext(ctx).Where("project_id = ?", projectID).Delete(&models.Task{})
	if result.Error != nil {
		return 0, translate(result.Error, "delete project tasks")
	}
	return result.RowsAffected, nil
}

func (s *gormTaskStore) DeleteOrphans(ctx context.Context) (int64, error) {
	db := s.db.WithContext(ctx)
	projectIDs := db.Session(&gorm.Session{NewDB: true}).Model(&models.Project{}).Select("id")

	result := db.Where("project_id NOT IN (?)", projectIDs).Delete(&models.Task{})
	if result.Error != nil {
		return 0, translate(result.Error, "delete orphan tasks")
	}
	return result.RowsAffected, nil
}
