package services

import (
	"context"
	"strings"
	"time"

	"github.com/huangang/taskhub/backend/internal/models"
	"github.com/huangang/taskhub/backend/internal/store"
	"github.com/huangang/taskhub/backend/pkg/logger"
)

type ProjectService struct {
	store      store.Store
	aggregator *ProjectAggregator
}

func NewProjectService(st store.Store, aggregator *ProjectAggregator) *ProjectService {
	return &ProjectService{store: st, aggregator: aggregator}
}

type CreateProjectRequest struct {
	Name        string    `json:"name" binding:"required"`
	Description *string   `json:"description"`
	StartDate   time.Time `json:"start_date" binding:"required"`
	EndDate     time.Time `json:"end_date" binding:"required"`
}

// UpdateProjectRequest carries only the fields to change.
type UpdateProjectRequest struct {
	Name        *string    `json:"name"`
	Description *string    `json:"description"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
}

type AddMemberRequest struct {
	UserID string `json:"user_id" binding:"required"`
}

// MyProjects lists projects the caller owns or is a member of.
func (s *ProjectService) MyProjects(ctx context.Context, caller *models.User) ([]models.Project, error) {
	if caller == nil {
		return nil, ErrUnauthorized
	}
	return s.store.Projects().FindByOwnerOrMember(ctx, caller.ID)
}

func (s *ProjectService) Details(ctx context.Context, projectID string) (*ProjectDetails, error) {
	return s.aggregator.ProjectDetails(ctx, projectID)
}

func (s *ProjectService) Create(ctx context.Context, caller *models.User, req *CreateProjectRequest) (*models.Project, error) {
	if caller == nil {
		return nil, ErrUnauthorized
	}
	if strings.TrimSpace(req.Name) == "" {
		return nil, newError(KindInvalidInput, "project name is required")
	}
	if req.StartDate.IsZero() || req.EndDate.IsZero() {
		return nil, newError(KindInvalidInput, "start_date and end_date are required")
	}
	if req.EndDate.Before(req.StartDate) {
		return nil, newError(KindInvalidInput, "end_date must not be before start_date")
	}

	project := &models.Project{
		Name:        req.Name,
		Description: req.Description,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		OwnerID:     caller.ID,
		Members:     []string{},
	}
	if _, err := s.store.Projects().Insert(ctx, project); err != nil {
		return nil, err
	}

	logger.Info().Str("project_id", project.ID).Str("user_id", caller.ID).Msg("project created")
	return project, nil
}

// Update changes project metadata. Only the owner may do so.
func (s *ProjectService) Update(ctx context.Context, caller *models.User, projectID string, req *UpdateProjectRequest) (*models.Project, error) {
	if caller == nil {
		return nil, ErrUnauthorized
	}
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		return nil, newError(KindInvalidInput, "project name must not be empty")
	}

	var updated *models.Project
	err := s.store.WithinTx(ctx, func(tx store.Store) error {
		project, err := s.loadManaged(ctx, tx, caller, projectID)
		if err != nil {
			return err
		}

		start, end := project.StartDate, project.EndDate
		if req.StartDate != nil {
			start = *req.StartDate
		}
		if req.EndDate != nil {
			end = *req.EndDate
		}
		if end.Before(start) {
			return newError(KindInvalidInput, "end_date must not be before start_date")
		}

		update := store.ProjectUpdate{
			Name:        req.Name,
			Description: req.Description,
			StartDate:   req.StartDate,
			EndDate:     req.EndDate,
		}
		if err := tx.Projects().Update(ctx, projectID, update); err != nil {
			return notFound(err, "project not found")
		}

		updated, err = tx.Projects().FindByID(ctx, projectID)
		return notFound(err, "project not found")
	})
	if err != nil {
		return nil, err
	}

	logger.Info().Str("project_id", projectID).Str("user_id", caller.ID).Msg("project updated")
	return updated, nil
}

// AddMember grants userID task creation rights. Adding an existing member
// leaves the project unchanged.
func (s *ProjectService) AddMember(ctx context.Context, caller *models.User, projectID, userID string) (*models.Project, error) {
	if caller == nil {
		return nil, ErrUnauthorized
	}
	if userID == "" {
		return nil, newError(KindInvalidInput, "user_id is required")
	}

	var updated *models.Project
	err := s.store.WithinTx(ctx, func(tx store.Store) error {
		if _, err := s.loadManaged(ctx, tx, caller, projectID); err != nil {
			return err
		}
		if _, err := tx.Users().FindByID(ctx, userID); err != nil {
			return notFound(err, "user not found")
		}
		if err := tx.Projects().AddMember(ctx, projectID, userID); err != nil {
			return notFound(err, "project not found")
		}

		var err error
		updated, err = tx.Projects().FindByID(ctx, projectID)
		return notFound(err, "project not found")
	})
	if err != nil {
		return nil, err
	}

	logger.Info().Str("project_id", projectID).Str("member_id", userID).Msg("member added")
	return updated, nil
}

// Delete removes the project and every task referencing it in one
// transaction. The project row is locked first, so a concurrent CreateTask
// either commits before the cascade or sees the project gone.
func (s *ProjectService) Delete(ctx context.Context, caller *models.User, projectID string) (bool, error) {
	if caller == nil {
		return false, ErrUnauthorized
	}

	var removed int64
	err := s.store.WithinTx(ctx, func(tx store.Store) error {
		if _, err := s.loadManaged(ctx, tx, caller, projectID); err != nil {
			return err
		}

		var err error
		removed, err = tx.Tasks().DeleteAllForProject(ctx, projectID)
		if err != nil {
			return err
		}
		return notFound(tx.Projects().Delete(ctx, projectID), "project not found")
	})
	if err != nil {
		return false, err
	}

	logger.Info().Str("project_id", projectID).Int64("tasks_removed", removed).Msg("project deleted")
	return true, nil
}

// loadManaged locks the project and checks the caller may manage it.
func (s *ProjectService) loadManaged(ctx context.Context, tx store.Store, caller *models.User, projectID string) (*models.Project, error) {
	project, err := tx.Projects().FindByIDForUpdate(ctx, projectID)
	if err != nil {
		return nil, notFound(err, "project not found")
	}
	if !project.CanManage(caller.ID) {
		return nil, newError(KindForbidden, "only the project owner can do this")
	}
	return project, nil
}
