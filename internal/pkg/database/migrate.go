package database

import (
	"errors"
	"fmt"

	"github.com/cmlabs-hris/tenant-invitation-go/internal/pkg/database/migrations"
	"github.com/golang-migrate/migrate/v4"
	migratepgx "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5/stdlib"
)

// ApplyMigrations brings the schema up to date using the embedded migration files.
func (db *DB) ApplyMigrations() error {
	sqlDB := stdlib.OpenDBFromPool(db.Pool)

	driver, err := migratepgx.WithInstance(sqlDB, &migratepgx.Config{})
	if err != nil {
		sqlDB.Close()
		return fmt.Errorf("create migration driver: %w", err)
	}

	source, err := iofs.New(migrations.Migrations, ".")
	if err != nil {
		driver.Close()
		return fmt.Errorf("open embedded migrations: %w", err)
	}

	instance, err := migrate.NewWithInstance("iofs", source, "pgx5", driver)
	if err != nil {
		driver.Close()
		return fmt.Errorf("create migrate instance: %w", err)
	}
	// closes the source and the driver, which owns sqlDB
	defer instance.Close()

	if err := instance.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}

	return nil
}
