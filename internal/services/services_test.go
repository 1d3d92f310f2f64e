package services

import (
	"context"
	"testing"
	"time"

	"github.com/huangang/taskhub/backend/internal/config"
	"github.com/huangang/taskhub/backend/internal/models"
	"github.com/huangang/taskhub/backend/internal/store"
	"github.com/huangang/taskhub/backend/internal/store/storetest"
	"github.com/huangang/taskhub/backend/internal/utils"
)

type testEnv struct {
	store    *store.GormStore
	auth     *AuthService
	projects *ProjectService
	tasks    *TaskService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	utils.SetJWTSecret("test-secret")

	st := storetest.New(t)
	return &testEnv{
		store:    st,
		auth:     NewAuthService(st, &config.JWTConfig{ExpireHour: 168}),
		projects: NewProjectService(st, NewProjectAggregator(st)),
		tasks:    NewTaskService(st),
	}
}

func (e *testEnv) register(t *testing.T, name string) *models.User {
	t.Helper()
	payload, err := e.auth.Register(context.Background(), &RegisterRequest{
		Username: name,
		Email:    name + "@example.com",
		Password: name + "-password",
	})
	if err != nil {
		t.Fatalf("Register(%s) error = %v", name, err)
	}
	return payload.User
}

func (e *testEnv) createProject(t *testing.T, owner *models.User, name string) *models.Project {
	t.Helper()
	start := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	project, err := e.projects.Create(context.Background(), owner, &CreateProjectRequest{
		Name:      name,
		StartDate: start,
		EndDate:   start.AddDate(0, 0, 14),
	})
	if err != nil {
		t.Fatalf("Create(%s) error = %v", name, err)
	}
	return project
}

func (e *testEnv) createTask(t *testing.T, caller *models.User, projectID, title string) *models.Task {
	t.Helper()
	task, err := e.tasks.Create(context.Background(), caller, projectID, &CreateTaskRequest{Title: title})
	if err != nil {
		t.Fatalf("CreateTask(%s) error = %v", title, err)
	}
	return task
}

func strPtr(s string) *string { return &s }
