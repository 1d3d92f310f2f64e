package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/huangang/taskhub/backend/internal/models"
	"github.com/huangang/taskhub/backend/internal/store"
	"github.com/huangang/taskhub/backend/pkg/logger"
)

type TaskService struct {
	store store.Store
}

func NewTaskService(st store.Store) *TaskService {
	return &TaskService{store: st}
}

type CreateTaskRequest struct {
	Title      string               `json:"title" binding:"required"`
	AssignedTo *string              `json:"assigned_to"`
	Priority   *models.TaskPriority `json:"priority" binding:"omitempty,oneof=LOW MEDIUM HIGH"`
	DueDate    *time.Time           `json:"due_date"`
}

type UpdateTaskStatusRequest struct {
	Status models.TaskStatus `json:"status" binding:"required,oneof=PENDING IN_PROGRESS COMPLETED"`
}

// Create adds a PENDING task. The project owner and its members may create tasks.
func (s *TaskService) Create(ctx context.Context, caller *models.User, projectID string, req *CreateTaskRequest) (*models.Task, error) {
	if caller == nil {
		return nil, ErrUnauthorized
	}
	if strings.TrimSpace(req.Title) == "" {
		return nil, newError(KindInvalidInput, "task title is required")
	}
	if req.Priority != nil && !req.Priority.Valid() {
		return nil, newError(KindInvalidInput, "priority must be LOW, MEDIUM or HIGH")
	}

	task := &models.Task{
		Title:      req.Title,
		ProjectID:  projectID,
		AssignedTo: req.AssignedTo,
		Status:     models.TaskStatusPending,
		Priority:   req.Priority,
		DueDate:    req.DueDate,
	}

	err := s.store.WithinTx(ctx, func(tx store.Store) error {
		project, err := tx.Projects().FindByIDForUpdate(ctx, projectID)
		if err != nil {
			return notFound(err, "project not found")
		}
		if !project.CanCreateTask(caller.ID) {
			return newError(KindForbidden, "only the project owner or members can create tasks")
		}

		if _, err := tx.Tasks().Insert(ctx, task); err != nil {
			// foreign key on project_id
			if errors.Is(err, store.ErrConflict) {
				return newError(KindNotFound, "project not found")
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info().Str("task_id", task.ID).Str("project_id", projectID).Str("user_id", caller.ID).Msg("task created")
	return task, nil
}

// UpdateStatus changes the status of any task. No identity is required.
func (s *TaskService) UpdateStatus(ctx context.Context, taskID string, status models.TaskStatus) (*models.Task, error) {
	if !status.Valid() {
		return nil, newError(KindInvalidInput, "status must be PENDING, IN_PROGRESS or COMPLETED")
	}

	if err := s.store.Tasks().Update(ctx, taskID, store.TaskUpdate{Status: &status}); err != nil {
		return nil, notFound(err, "task not found")
	}

	task, err := s.store.Tasks().FindByID(ctx, taskID)
	if err != nil {
		return nil, notFound(err, "task not found")
	}
	return task, nil
}
