// Package testutil holds helpers shared by package tests.
package testutil

import (
	"context"
	"testing"

	"wicki/internal/store"
	"wicki/pkg/db"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OpenInMemoryDB opens a fresh in-memory SQLite database with the schema
// applied. Each call gets its own database.
func OpenInMemoryDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := db.OpenGorm(db.Config{
		Driver: db.DriverSQLite,
		DSN:    "file:" + uuid.NewString() + "?mode=memory&cache=shared",
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := store.Migrate(context.Background(), gdb, db.DriverSQLite); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return gdb
}

// NewStore is OpenInMemoryDB wrapped in a store.
func NewStore(t *testing.T) *store.Store {
	t.Helper()
	return store.New(OpenInMemoryDB(t))
}
