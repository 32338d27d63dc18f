package store

import (
	"context"
	"fmt"

	"wicki/internal/domain"
	"wicki/internal/store/migrations"
	"wicki/pkg/db"

	"github.com/pressly/goose/v3"
	"gorm.io/gorm"
)

// Migrate brings the schema up to date. Postgres runs the embedded goose
// migrations; sqlite is auto-migrated from the domain models.
func Migrate(ctx context.Context, gdb *gorm.DB, driver string) error {
	if driver == db.DriverSQLite {
		return gdb.WithContext(ctx).AutoMigrate(domain.Models()...)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return err
	}
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, sqlDB, "."); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	return nil
}

// MigrationStatus logs the state of every postgres migration.
func MigrationStatus(ctx context.Context, gdb *gorm.DB) error {
	sqlDB, err := gdb.DB()
	if err != nil {
		return err
	}
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	return goose.StatusContext(ctx, sqlDB, ".")
}
