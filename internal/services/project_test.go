package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestMyProjects_OwnerSeesProjectStrangerDoesNot(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.register(t, "alice")
	bob := env.register(t, "bob")

	project := env.createProject(t, alice, "Sprint1")

	mine, err := env.projects.MyProjects(ctx, alice)
	if err != nil {
		t.Fatalf("MyProjects(alice) error = %v", err)
	}
	if len(mine) != 1 || mine[0].ID != project.ID {
		t.Errorf("alice sees %v, expected [%s]", mine, project.ID)
	}

	theirs, err := env.projects.MyProjects(ctx, bob)
	if err != nil {
		t.Fatalf("MyProjects(bob) error = %v", err)
	}
	if len(theirs) != 0 {
		t.Errorf("bob sees %d projects, expected 0", len(theirs))
	}
}

func TestMyProjects_RequiresIdentity(t *testing.T) {
	env := newTestEnv(t)
	if _, err := env.projects.MyProjects(context.Background(), nil); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("MyProjects(nil) error = %v, expected Unauthorized", err)
	}
}

func TestCreateProject(t *testing.T) {
	env := newTestEnv(t)
	alice := env.register(t, "alice")

	project := env.createProject(t, alice, "Sprint1")
	if project.OwnerID != alice.ID {
		t.Errorf("OwnerID = %q, expected %q", project.OwnerID, alice.ID)
	}
	if len(project.Members) != 0 {
		t.Errorf("Members = %v, expected empty", project.Members)
	}
}

func TestCreateProject_Validation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.register(t, "alice")
	start := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		req  *CreateProjectRequest
	}{
		{"blank name", &CreateProjectRequest{Name: "  ", StartDate: start, EndDate: start}},
		{"missing dates", &CreateProjectRequest{Name: "P"}},
		{"end before start", &CreateProjectRequest{Name: "P", StartDate: start, EndDate: start.AddDate(0, 0, -1)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := env.projects.Create(ctx, alice, tt.req); !errors.Is(err, ErrInvalidInput) {
				t.Errorf("Create() error = %v, expected InvalidInput", err)
			}
		})
	}

	if _, err := env.projects.Create(ctx, nil, tests[0].req); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("Create(nil) error = %v, expected Unauthorized", err)
	}
}

func TestUpdateProject(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.register(t, "alice")
	project := env.createProject(t, alice, "Sprint1")

	updated, err := env.projects.Update(ctx, alice, project.ID, &UpdateProjectRequest{
		Name:        strPtr("Sprint1b"),
		Description: strPtr("carry-over"),
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.Name != "Sprint1b" {
		t.Errorf("Name = %q, expected %q", updated.Name, "Sprint1b")
	}
	if updated.Description == nil || *updated.Description != "carry-over" {
		t.Errorf("Description = %v", updated.Description)
	}
	if !updated.EndDate.Equal(project.EndDate) {
		t.Errorf("EndDate changed to %v", updated.EndDate)
	}
}

func TestUpdateProject_RejectsInvertedDates(t *testing.T) {
	env := newTestEnv(t)
	alice := env.register(t, "alice")
	project := env.createProject(t, alice, "Sprint1")

	end := project.StartDate.AddDate(0, 0, -1)
	_, err := env.projects.Update(context.Background(), alice, project.ID, &UpdateProjectRequest{EndDate: &end})
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Update() error = %v, expected InvalidInput", err)
	}
}

func TestOwnerOnlyOperations(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.register(t, "alice")
	bob := env.register(t, "bob")
	carol := env.register(t, "carol")

	tests := []struct {
		name string
		run  func(projectID string) error
	}{
		{"update", func(id string) error {
			_, err := env.projects.Update(ctx, bob, id, &UpdateProjectRequest{Name: strPtr("hijacked")})
			return err
		}},
		{"add member", func(id string) error {
			_, err := env.projects.AddMember(ctx, bob, id, carol.ID)
			return err
		}},
		{"delete", func(id string) error {
			_, err := env.projects.Delete(ctx, bob, id)
			return err
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			project := env.createProject(t, alice, "Sprint-"+tt.name)
			// membership does not confer management rights
			if _, err := env.projects.AddMember(ctx, alice, project.ID, bob.ID); err != nil {
				t.Fatalf("AddMember() error = %v", err)
			}

			if err := tt.run(project.ID); !errors.Is(err, ErrForbidden) {
				t.Errorf("non-owner %s error = %v, expected Forbidden", tt.name, err)
			}
			if err := tt.run("missing"); !errors.Is(err, ErrNotFound) {
				t.Errorf("%s on missing project error = %v, expected NotFound", tt.name, err)
			}
		})
	}
}

func TestAddMember_Idempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.register(t, "alice")
	bob := env.register(t, "bob")
	project := env.createProject(t, alice, "Sprint1")

	for i := 0; i < 2; i++ {
		updated, err := env.projects.AddMember(ctx, alice, project.ID, bob.ID)
		if err != nil {
			t.Fatalf("AddMember() #%d error = %v", i, err)
		}
		if len(updated.Members) != 1 || updated.Members[0] != bob.ID {
			t.Errorf("Members after #%d = %v, expected [%s]", i, updated.Members, bob.ID)
		}
	}

	shared, _ := env.projects.MyProjects(ctx, bob)
	if len(shared) != 1 {
		t.Errorf("member sees %d projects, expected 1", len(shared))
	}
}

func TestAddMember_UnknownUser(t *testing.T) {
	env := newTestEnv(t)
	alice := env.register(t, "alice")
	project := env.createProject(t, alice, "Sprint1")

	_, err := env.projects.AddMember(context.Background(), alice, project.ID, "ghost")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("AddMember(ghost) error = %v, expected NotFound", err)
	}
}

func TestDeleteProject_CascadesTasks(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.register(t, "alice")
	project := env.createProject(t, alice, "Sprint1")
	other := env.createProject(t, alice, "Sprint2")
	env.createTask(t, alice, project.ID, "T1")
	env.createTask(t, alice, project.ID, "T2")
	kept := env.createTask(t, alice, other.ID, "T3")

	ok, err := env.projects.Delete(ctx, alice, project.ID)
	if err != nil || !ok {
		t.Fatalf("Delete() = %v, %v", ok, err)
	}

	details, err := env.projects.Details(ctx, project.ID)
	if err != nil {
		t.Fatalf("Details() error = %v", err)
	}
	if details != nil {
		t.Error("deleted project should be absent")
	}

	left, _ := env.store.Tasks().FindByProject(ctx, project.ID)
	if len(left) != 0 {
		t.Errorf("%d tasks outlived their project", len(left))
	}
	if _, err := env.store.Tasks().FindByID(ctx, kept.ID); err != nil {
		t.Errorf("task of another project was removed: %v", err)
	}
}

func TestProjectDetails(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.register(t, "alice")
	bob := env.register(t, "bob")
	carol := env.register(t, "carol")
	project := env.createProject(t, alice, "Sprint1")
	other := env.createProject(t, alice, "Sprint2")

	for _, u := range []string{bob.ID, carol.ID} {
		if _, err := env.projects.AddMember(ctx, alice, project.ID, u); err != nil {
			t.Fatal(err)
		}
	}
	t1 := env.createTask(t, bob, project.ID, "T1")
	t2 := env.createTask(t, carol, project.ID, "T2")
	env.createTask(t, alice, other.ID, "elsewhere")

	details, err := env.projects.Details(ctx, project.ID)
	if err != nil {
		t.Fatalf("Details() error = %v", err)
	}
	if details == nil {
		t.Fatal("Details() returned nil for an existing project")
	}
	if details.Owner == nil || details.Owner.ID != alice.ID {
		t.Errorf("Owner = %v, expected alice", details.Owner)
	}
	if len(details.Members) != 2 || details.Members[0].ID != bob.ID || details.Members[1].ID != carol.ID {
		t.Errorf("Members = %v, expected [bob carol]", details.Members)
	}
	if len(details.Tasks) != 2 {
		t.Fatalf("Tasks = %d, expected 2", len(details.Tasks))
	}
	ids := map[string]bool{details.Tasks[0].ID: true, details.Tasks[1].ID: true}
	if !ids[t1.ID] || !ids[t2.ID] {
		t.Errorf("unexpected tasks %v", ids)
	}
}

func TestProjectDetails_Absent(t *testing.T) {
	env := newTestEnv(t)
	details, err := env.projects.Details(context.Background(), "missing")
	if err != nil || details != nil {
		t.Errorf("Details(missing) = %v, %v; expected nil, nil", details, err)
	}
}

func TestProjectDetails_DanglingReferences(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.register(t, "alice")
	bob := env.register(t, "bob")
	project := env.createProject(t, alice, "Sprint1")
	if _, err := env.projects.AddMember(ctx, alice, project.ID, bob.ID); err != nil {
		t.Fatal(err)
	}

	// remove both users underneath the project
	db := env.store.DB()
	if err := db.Exec("PRAGMA foreign_keys = OFF").Error; err != nil {
		t.Fatal(err)
	}
	if err := db.Exec("DELETE FROM users").Error; err != nil {
		t.Fatal(err)
	}
	if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
		t.Fatal(err)
	}

	details, err := env.projects.Details(ctx, project.ID)
	if err != nil {
		t.Fatalf("Details() error = %v", err)
	}
	if details.Owner != nil {
		t.Errorf("Owner = %v, expected nil for a missing owner", details.Owner)
	}
	if len(details.Members) != 0 {
		t.Errorf("Members = %v, expected dangling ids dropped", details.Members)
	}
}

// Example walkthrough: alice plans a sprint with bob.
func TestSprintScenario(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := env.register(t, "alice")
	bob := env.register(t, "bob")
	login, err := env.auth.Login(ctx, &LoginRequest{Email: "alice@example.com", Password: "alice-password"})
	if err != nil || login.User.ID != alice.ID {
		t.Fatalf("Login() = %v, %v", login, err)
	}

	project := env.createProject(t, alice, "Sprint1")
	if project.OwnerID != alice.ID || len(project.Members) != 0 {
		t.Fatalf("new project = %+v", project)
	}

	project, err = env.projects.AddMember(ctx, alice, project.ID, bob.ID)
	if err != nil {
		t.Fatalf("AddMember() error = %v", err)
	}
	if len(project.Members) != 1 || project.Members[0] != bob.ID {
		t.Fatalf("Members = %v, expected [bob]", project.Members)
	}

	task := env.createTask(t, bob, project.ID, "T1")

	ok, err := env.projects.Delete(ctx, alice, project.ID)
	if err != nil || !ok {
		t.Fatalf("Delete() = %v, %v", ok, err)
	}
	if _, err := env.store.Tasks().FindByID(ctx, task.ID); err == nil {
		t.Error("T1 should be gone with its project")
	}
	if details, _ := env.projects.Details(ctx, project.ID); details != nil {
		t.Error("projectDetails should be absent after delete")
	}
}

func TestDeleteProject_ConcurrentTaskCreateLeavesNoOrphans(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.register(t, "alice")

	for i := 0; i < 30; i++ {
		project := env.createProject(t, alice, fmt.Sprintf("Sprint%d", i))

		var (
			wg        sync.WaitGroup
			createErr error
			deleteErr error
		)
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, createErr = env.tasks.Create(ctx, alice, project.ID, &CreateTaskRequest{Title: "late task"})
		}()
		go func() {
			defer wg.Done()
			_, deleteErr = env.projects.Delete(ctx, alice, project.ID)
		}()
		wg.Wait()

		if deleteErr != nil {
			t.Fatalf("round %d: Delete() error = %v", i, deleteErr)
		}
		if createErr != nil && !errors.Is(createErr, ErrNotFound) {
			t.Fatalf("round %d: Create() error = %v, expected nil or NotFound", i, createErr)
		}

		left, err := env.store.Tasks().FindByProject(ctx, project.ID)
		if err != nil {
			t.Fatalf("round %d: FindByProject() error = %v", i, err)
		}
		if len(left) != 0 {
			t.Fatalf("round %d: %d tasks outlived their project", i, len(left))
		}
	}
}
