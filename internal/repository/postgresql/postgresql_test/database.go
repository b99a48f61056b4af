package postgresql_test

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/cmlabs-hris/tenant-invitation-go/internal/pkg/database"
)

// ErrNoTestDatabase is returned when TEST_DATABASE_URL is not set
var ErrNoTestDatabase = errors.New("TEST_DATABASE_URL is not set")

// TestDatabaseSetup holds a migrated connection to the integration database
type TestDatabaseSetup struct {
	DB *database.DB
}

// NewTestDatabase connects to TEST_DATABASE_URL and applies the embedded migrations
func NewTestDatabase(ctx context.Context) (*TestDatabaseSetup, error) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		return nil, ErrNoTestDatabase
	}

	db, err := database.NewPostgreSQLDB(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to test database: %w", err)
	}

	if err := db.ApplyMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate test database: %w", err)
	}

	return &TestDatabaseSetup{DB: db}, nil
}

// TruncateAllTables removes all rows from every application table
func (t *TestDatabaseSetup) TruncateAllTables(ctx context.Context) error {
	tx, err := t.DB.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tables := []string{
		"audit_events",
		"tenant_invitations",
		"tenant_memberships",
		"users",
		"tenants",
	}

	for _, table := range tables {
		_, err := tx.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table))
		if err != nil {
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
	}

	return tx.Commit(ctx)
}

// Close closes the database connection
func (t *TestDatabaseSetup) Close() {
	t.DB.Close()
}
