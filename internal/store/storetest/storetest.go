// Package storetest opens throwaway sqlite stores for tests.
package storetest

import (
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/huangang/taskhub/backend/internal/config"
	"github.com/huangang/taskhub/backend/internal/models"
	"github.com/huangang/taskhub/backend/internal/store"
)

var seq atomic.Int64

// New returns a migrated store backed by a private in-memory sqlite database.
func New(t testing.TB) *store.GormStore {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, seq.Add(1))

	db, err := models.OpenDB(&config.DatabaseConfig{Driver: "sqlite", DSN: dsn}, "silent")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	s := store.NewGormStore(db)
	t.Cleanup(func() { _ = s.Close() })
	return s
}
