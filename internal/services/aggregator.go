package services

import (
	"context"
	"errors"
	"time"

	"github.com/huangang/taskhub/backend/internal/models"
	"github.com/huangang/taskhub/backend/internal/store"
)

// ProjectDetails is the composed view of a project with its people and tasks.
type ProjectDetails struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description *string       `json:"description"`
	StartDate   time.Time     `json:"start_date"`
	EndDate     time.Time     `json:"end_date"`
	OwnerID     string        `json:"owner_id"`
	Owner       *models.User  `json:"owner"`
	Members     []models.User `json:"members"`
	Tasks       []models.Task `json:"tasks"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

type ProjectAggregator struct {
	store store.Store
}

func NewProjectAggregator(st store.Store) *ProjectAggregator {
	return &ProjectAggregator{store: st}
}

// ProjectDetails returns (nil, nil) when the project does not exist. A
// missing owner leaves Owner nil and member ids without a user are dropped.
func (a *ProjectAggregator) ProjectDetails(ctx context.Context, projectID string) (*ProjectDetails, error) {
	project, err := a.store.Projects().FindByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	owner, err := a.store.Users().FindByID(ctx, project.OwnerID)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			return nil, err
		}
		owner = nil
	}

	members, err := a.store.Users().FindByIDs(ctx, project.Members)
	if err != nil {
		return nil, err
	}

	tasks, err := a.store.Tasks().FindByProject(ctx, project.ID)
	if err != nil {
		return nil, err
	}

	return &ProjectDetails{
		ID:          project.ID,
		Name:        project.Name,
		Description: project.Description,
		StartDate:   project.StartDate,
		EndDate:     project.EndDate,
		OwnerID:     project.OwnerID,
		Owner:       owner,
		Members:     orderLike(project.Members, members),
		Tasks:       tasks,
		CreatedAt:   project.CreatedAt,
		UpdatedAt:   project.UpdatedAt,
	}, nil
}

// orderLike returns users in the order their ids appear in ids.
func orderLike(ids []string, users []models.User) []models.User {
	byID := make(map[string]models.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}
	out := make([]models.User, 0, len(users))
	for _, id := range ids {
		if u, ok := byID[id]; ok {
			out = append(out, u)
		}
	}
	return out
}
