package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormStore implements Store on top of a gorm connection.
type GormStore struct {
	db       *gorm.DB
	users    *gormUserStore
	projects *gormProjectStore
	tasks    *gormTaskStore
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{
		db:       db,
		users:    &gormUserStore{db: db},
		projects: &gormProjectStore{db: db},
		tasks:    &gormTaskStore{db: db},
	}
}

func (s *GormStore) Users() UserStore       { return s.users }
func (s *GormStore) Projects() ProjectStore { return s.projects }
func (s *GormStore) Tasks() TaskStore       { return s.tasks }

// DB exposes the underlying connection for migrations.
func (s *GormStore) DB() *gorm.DB { return s.db }

func (s *GormStore) WithinTx(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewGormStore(tx))
	})
}

func (s *GormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func newID() string {
	return uuid.NewString()
}

// translate maps gorm errors onto the store sentinels.
func translate(err error, op string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey), errors.Is(err, gorm.ErrForeignKeyViolated):
		return fmt.Errorf("%s: %w: %v", op, ErrConflict, err)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
