package store

import (
	"context"
	"time"

	"github.com/huangang/taskhub/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type gormProjectStore struct {
	db *gorm.DB
}

func (s *gormProjectStore) Insert(ctx context.Context, project *models.Project) (string, error) {
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
	if project.Members == nil {
		project.Members = []string{}
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(project).Error; err != nil {
			return err
		}
		for _, userID := range project.Members {
			if err := addMember(tx, project.ID, userID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return "", translate(err, "insert project")
	}
	return project.ID, nil
}

func (s *gormProjectStore) FindByID(ctx context.Context, id string) (*models.Project, error) {
	return s.find(s.db.WithContext(ctx), id)
}

func (s *gormProjectStore) FindByIDForUpdate(ctx context.Context, id string) (*models.Project, error) {
	return s.find(s.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (s *gormProjectStore) find(db *gorm.DB, id string) (*models.Project, error) {
	var project models.Project
	if err := db.Where("id = ?", id).First(&project).Error; err != nil {
		return nil, translate(err, "find project")
	}
	projects := []models.Project{project}
	if err := s.loadMembers(db.Session(&gorm.Session{NewDB: true}), projects); err != nil {
		return nil, err
	}
	return &projects[0], nil
}

func (s *gormProjectStore) FindByOwnerOrMember(ctx context.Context, userID string) ([]models.Project, error) {
	db := s.db.WithContext(ctx)
	memberOf := db.Model(&models.ProjectMember{}).Select("project_id").Where("user_id = ?", userID)

	projects := []models.Project{}
	if err := db.Where("owner_id = ?", userID).Or("id IN (?)", memberOf).
		Order("created_at ASC").Find(&projects).Error; err != nil {
		return nil, translate(err, "find projects")
	}
	if err := s.loadMembers(db, projects); err != nil {
		return nil, err
	}
	return projects, nil
}

func (s *gormProjectStore) Update(ctx context.Context, id string, update ProjectUpdate) error {
	updates := map[string]interface{}{
		"updated_at": time.Now(),
	}
	if update.Name != nil {
		updates["name"] = *update.Name
	}
	if update.Description != nil {
		updates["description"] = *update.Description
	}
	if update.StartDate != nil {
		updates["start_date"] = *update.StartDate
	}
	if update.EndDate != nil {
		updates["end_date"] = *update.EndDate
	}

	result := s.db.WithContext(ctx).Model(&models.Project{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return translate(result.Error, "update project")
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *gormProjectStore) AddMember(ctx context.Context, projectID, userID string) error {
	if err := addMember(s.db.WithContext(ctx), projectID, userID); err != nil {
		return translate(err, "add member")
	}
	return nil
}

func addMember(db *gorm.DB, projectID, userID string) error {
	member := models.ProjectMember{
		ProjectID: projectID,
		UserID:    userID,
		CreatedAt: time.Now(),
	}
	return db.Clauses(clause.OnConflict{DoNothing: true}).Omit(clause.Associations).Create(&member).Error
}

func (s *gormProjectStore) Delete(ctx context.Context, id string) error {
	var result *gorm.DB
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", id).Delete(&models.ProjectMember{}).Error; err != nil {
			return err
		}
		result = tx.Where("id = ?", id).Delete(&models.Project{})
		return result.Error
	})
	if err != nil {
		return translate(err, "delete project")
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// loadMembers fills Members for every project in place.
func (s *gormProjectStore) loadMembers(db *gorm.DB, projects []models.Project) error {
	if len(projects) == 0 {
		return nil
	}
	ids := make([]string, len(projects))
	index := make(map[string]int, len(projects))
	for i := range projects {
		ids[i] = projects[i].ID
		index[projects[i].ID] = i
		projects[i].Members = []string{}
	}

	var rows []models.ProjectMember
	if err := db.Where("project_id IN ?", ids).Order("created_at ASC, user_id ASC").Find(&rows).Error; err != nil {
		return translate(err, "load members")
	}
	for _, row := range rows {
		i := index[row.ProjectID]
		projects[i].Members = append(projects[i].Members, row.UserID)
	}
	return nil
}
