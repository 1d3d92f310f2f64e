// Package store persists users, projects and tasks. Store implementations
// exist for the relational drivers (gorm) and for MongoDB (subpackage
// mongostore); callers depend on the interfaces below only.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/huangang/taskhub/backend/internal/models"
)

var (
	// ErrNotFound is returned when the addressed record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrConflict is returned when an insert or update violates a constraint.
	ErrConflict = errors.New("record conflicts with existing data")
)

type UserStore interface {
	Insert(ctx context.Context, user *models.User) (string, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	// FindByIDs returns the users that exist among ids; unknown ids are skipped.
	FindByIDs(ctx context.Context, ids []string) ([]models.User, error)
	FindAll(ctx context.Context) ([]models.User, error)
}

// ProjectUpdate holds the optional fields of a partial project update.
type ProjectUpdate struct {
	Name        *string
	Description *string
	StartDate   *time.Time
	EndDate     *time.Time
}

type ProjectStore interface {
	Insert(ctx context.Context, project *models.Project) (string, error)
	FindByID(ctx context.Context, id string) (*models.Project, error)
	// FindByIDForUpdate loads the project and locks it for the rest of the
	// enclosing transaction.
	FindByIDForUpdate(ctx context.Context, id string) (*models.Project, error)
	// FindByOwnerOrMember matches projects owned by userID or listing it as member.
	FindByOwnerOrMember(ctx context.Context, userID string) ([]models.Project, error)
	Update(ctx context.Context, id string, update ProjectUpdate) error
	// AddMember is idempotent.
	AddMember(ctx context.Context, projectID, userID string) error
	Delete(ctx context.Context, id string) error
}

// TaskUpdate holds the optional fields of a partial task update.
type TaskUpdate struct {
	Status *models.TaskStatus
}

type TaskStore interface {
	Insert(ctx context.Context, task *models.Task) (string, error)
	FindByID(ctx context.Context, id string) (*models.Task, error)
	FindByProject(ctx context.Context, projectID string) ([]models.Task, error)
	Update(ctx context.Context, id string, update TaskUpdate) error
	Delete(ctx context.Context, id string) error
	DeleteAllForProject(ctx context.Context, projectID string) (int64, error)
	// DeleteOrphans removes tasks whose project no longer exists.
	DeleteOrphans(ctx context.Context) (int64, error)
}

// Store is the handle opened once at startup and shared by all services.
type Store interface {
	Users() UserStore
	Projects() ProjectStore
	Tasks() TaskStore
	// WithinTx runs fn against a transactional view of the store. The
	// transaction commits when fn returns nil and rolls back otherwise.
	WithinTx(ctx context.Context, fn func(tx Store) error) error
	Ping(ctx context.Context) error
	Close() error
}
