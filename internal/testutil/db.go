package testutil

import (
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/crestline-dev/budget-api/internal/database"
	"github.com/crestline-dev/budget-api/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var migrateOnce sync.Once

// SetupTestDB creates a connection to the test PostgreSQL database.
// It uses environment variables or falls back to docker-compose defaults.
func SetupTestDB(t *testing.T) *gorm.DB {
	host := getEnvOrDefault("DATABASE_HOST", "localhost")
	port := getEnvOrDefault("DATABASE_PORT", "5432")
	user := getEnvOrDefault("DATABASE_USER", "budget_user")
	password := getEnvOrDefault("DATABASE_PASSWORD", "budget_password")
	dbname := getEnvOrDefault("DATABASE_NAME", "budget")

	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable TimeZone=UTC",
		host, port, user, password, dbname)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "Failed to connect to test database. Ensure PostgreSQL is running.")

	migrateOnce.Do(func() {
		err = database.AutoMigrate(db)
	})
	require.NoError(t, err, "Failed to migrate test database schema")

	return db
}

// SetupCleanTestDB connects and wipes any data left behind by earlier runs
func SetupCleanTestDB(t *testing.T) *gorm.DB {
	db := SetupTestDB(t)
	CleanupTestData(t, db)
	return db
}

// CleanupTestData cleans up test data from all tables.
// This should be called after tests to ensure a clean state.
func CleanupTestData(t *testing.T, db *gorm.DB) {
	// Delete in order to respect foreign key constraints
	tables := []string{
		"change_order_documents",
		"change_orders",
		"budget_line_items",
		"project_budgets",
		"template_items",
		"template_categories",
		"budget_templates",
		"plan_cost_lines",
		"plans",
		"projects",
	}

	for _, table := range tables {
		err := db.Exec(fmt.Sprintf("DELETE FROM %s WHERE id IS NOT NULL", table)).Error
		if err != nil {
			// Table might not exist, that's ok
			t.Logf("Note: Could not clean table %s: %v", table, err)
		}
	}
}

// CreateTestProject creates a project row and returns it
func CreateTestProject(t *testing.T, db *gorm.DB, name string) *domain.Project {
	project := &domain.Project{Name: name}
	err := db.Create(project).Error
	require.NoError(t, err)
	return project
}

// CreateTestBudget creates a budget version for a project and returns it.
// The project's version sequence is advanced past the explicit number so a
// later CreateWithNextVersion call never collides with fixture rows.
func CreateTestBudget(t *testing.T, db *gorm.DB, projectID uuid.UUID, name string, version int, active bool) *domain.ProjectBudget {
	budget := &domain.ProjectBudget{
		ProjectID:     projectID,
		BudgetName:    name,
		VersionNumber: version,
		IsActive:      active,
		Status:        domain.BudgetStatusDraft,
		CreatedBy:     "test",
	}
	err := db.Omit("LineItems").Create(budget).Error
	require.NoError(t, err)

	err = db.Exec("UPDATE projects SET budget_version_seq = GREATEST(budget_version_seq, ?) WHERE id = ?",
		version, projectID).Error
	require.NoError(t, err)

	return budget
}

// UniqueName appends nanoseconds so parallel runs never collide on names
func UniqueName(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano())
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
