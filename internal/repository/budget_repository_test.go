package repository_test

import (
	"context"
	"sync"
	"testing"

	"github.com/crestline-dev/budget-api/internal/domain"
	"github.com/crestline-dev/budget-api/internal/repository"
	"github.com/crestline-dev/budget-api/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupBudgetTestDB(t *testing.T) *gorm.DB {
	db := testutil.SetupCleanTestDB(t)
	t.Cleanup(func() {
		testutil.CleanupTestData(t, db)
	})
	return db
}

func TestBudgetRepository_CreateWithNextVersion(t *testing.T) {
	db := setupBudgetTestDB(t)
	repo := repository.NewBudgetRepository(db)
	project := testutil.CreateTestProject(t, db, "Maple Ridge Lot 4")
	ctx := context.Background()

	t.Run("first budget gets version 1", func(t *testing.T) {
		budget := &domain.ProjectBudget{
			ProjectID:  project.ID,
			BudgetName: "Initial Budget",
			Status:     domain.BudgetStatusDraft,
		}
		err := repo.CreateWithNextVersion(ctx, budget, nil, false)
		require.NoError(t, err)
		assert.Equal(t, 1, budget.VersionNumber)
		assert.False(t, budget.IsActive)
	})

	t.Run("versions increase monotonically", func(t *testing.T) {
		budget := &domain.ProjectBudget{
			ProjectID:  project.ID,
			BudgetName: "Revised Budget",
			Status:     domain.BudgetStatusDraft,
		}
		err := repo.CreateWithNextVersion(ctx, budget, nil, false)
		require.NoError(t, err)
		assert.Equal(t, 2, budget.VersionNumber)
	})

	t.Run("deleting the latest version leaves a gap", func(t *testing.T) {
		budget := &domain.ProjectBudget{
			ProjectID:  project.ID,
			BudgetName: "Short Lived",
			Status:     domain.BudgetStatusDraft,
		}
		require.NoError(t, repo.CreateWithNextVersion(ctx, budget, nil, false))
		assert.Equal(t, 3, budget.VersionNumber)

		// Delete v3, the highest number issued so far. The project counter
		// keeps it retired: the next create gets v4, not v3 again.
		require.NoError(t, repo.Delete(ctx, budget.ID))

		next := &domain.ProjectBudget{
			ProjectID:  project.ID,
			BudgetName: "After Delete",
			Status:     domain.BudgetStatusDraft,
		}
		require.NoError(t, repo.CreateWithNextVersion(ctx, next, nil, false))
		assert.Equal(t, 4, next.VersionNumber)
	})

	t.Run("unknown project", func(t *testing.T) {
		budget := &domain.ProjectBudget{
			ProjectID:  uuid.New(),
			BudgetName: "Orphan",
			Status:     domain.BudgetStatusDraft,
		}
		err := repo.CreateWithNextVersion(ctx, budget, nil, false)
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	})
}

func TestBudgetRepository_CreateWithNextVersion_Concurrent(t *testing.T) {
	db := setupBudgetTestDB(t)
	repo := repository.NewBudgetRepository(db)
	project := testutil.CreateTestProject(t, db, "Alder Court 3")
	ctx := context.Background()

	const workers = 8
	var wg sync.WaitGroup
	numbers := make([]int, workers)
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			budget := &domain.ProjectBudget{
				ProjectID:  project.ID,
				BudgetName: testutil.UniqueName("Concurrent"),
				Status:     domain.BudgetStatusDraft,
			}
			errs[i] = repo.CreateWithNextVersion(ctx, budget, nil, false)
			numbers[i] = budget.VersionNumber
		}(i)
	}
	wg.Wait()

	// Creates serialize on the project row lock: every worker gets its own
	// version and together they cover 1..workers exactly once.
	seen := make(map[int]bool, workers)
	for i := 0; i < workers; i++ {
		require.NoError(t, errs[i])
		assert.False(t, seen[numbers[i]], "version %d assigned twice", numbers[i])
		seen[numbers[i]] = true
		assert.GreaterOrEqual(t, numbers[i], 1)
		assert.LessOrEqual(t, numbers[i], workers)
	}
}

func TestBudgetRepository_CreateWithNextVersion_SeedsAndActivates(t *testing.T) {
	db := setupBudgetTestDB(t)
	repo := repository.NewBudgetRepository(db)
	project := testutil.CreateTestProject(t, db, "Cedar Hollow 12")
	ctx := context.Background()

	existing := &domain.ProjectBudget{
		ProjectID:  project.ID,
		BudgetName: "Old Active",
		Status:     domain.BudgetStatusDraft,
	}
	require.NoError(t, repo.CreateWithNextVersion(ctx, existing, nil, true))
	require.True(t, existing.IsActive)

	seed := []domain.BudgetLineItem{
		{Category: "Hard Costs", LineItemCode: "02-001", LineItemName: "Foundation", BudgetAmount: 45000, CalculationType: domain.CalculationTypeFixed},
		{Category: "Hard Costs", LineItemCode: "02-002", LineItemName: "Framing", BudgetAmount: 60000, CalculationType: domain.CalculationTypeFixed},
	}
	budget := &domain.ProjectBudget{
		ProjectID:  project.ID,
		BudgetName: "Seeded",
		Status:     domain.BudgetStatusDraft,
	}
	require.NoError(t, repo.CreateWithNextVersion(ctx, budget, seed, true))

	loaded, err := repo.GetByID(ctx, budget.ID)
	require.NoError(t, err)
	assert.Len(t, loaded.LineItems, 2)
	assert.True(t, loaded.IsActive)

	// Activation during create deactivated the previous active budget
	old, err := repo.GetByID(ctx, existing.ID)
	require.NoError(t, err)
	assert.False(t, old.IsActive)

	active, err := repo.GetActive(ctx, project.ID)
	require.NoError(t, err)
	assert.Equal(t, budget.ID, active.ID)
}

func TestBudgetRepository_SetActive(t *testing.T) {
	db := setupBudgetTestDB(t)
	repo := repository.NewBudgetRepository(db)
	project := testutil.CreateTestProject(t, db, "Birch Lane 7")
	ctx := context.Background()

	v1 := testutil.CreateTestBudget(t, db, project.ID, "V1", 1, true)
	v2 := testutil.CreateTestBudget(t, db, project.ID, "V2", 2, false)

	err := repo.SetActive(ctx, project.ID, v2.ID)
	require.NoError(t, err)

	var activeCount int64
	require.NoError(t, db.Model(&domain.ProjectBudget{}).
		Where("project_id = ? AND is_active = ?", project.ID, true).
		Count(&activeCount).Error)
	assert.Equal(t, int64(1), activeCount)

	active, err := repo.GetActive(ctx, project.ID)
	require.NoError(t, err)
	assert.Equal(t, v2.ID, active.ID)

	t.Run("activating the active budget is a no-op", func(t *testing.T) {
		require.NoError(t, repo.SetActive(ctx, project.ID, v2.ID))
		active, err := repo.GetActive(ctx, project.ID)
		require.NoError(t, err)
		assert.Equal(t, v2.ID, active.ID)
	})

	t.Run("budget from another project", func(t *testing.T) {
		other := testutil.CreateTestProject(t, db, "Other Project")
		err := repo.SetActive(ctx, other.ID, v1.ID)
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	})
}

func TestBudgetRepository_GetActive_NoneActive(t *testing.T) {
	db := setupBudgetTestDB(t)
	repo := repository.NewBudgetRepository(db)
	project := testutil.CreateTestProject(t, db, "No Active Yet")

	testutil.CreateTestBudget(t, db, project.ID, "Draft", 1, false)

	_, err := repo.GetActive(context.Background(), project.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestBudgetRepository_UpdateMeta(t *testing.T) {
	db := setupBudgetTestDB(t)
	repo := repository.NewBudgetRepository(db)
	project := testutil.CreateTestProject(t, db, "Meta Project")
	budget := testutil.CreateTestBudget(t, db, project.ID, "Before", 1, false)
	ctx := context.Background()

	err := repo.UpdateMeta(ctx, budget.ID, "After", domain.BudgetStatusApproved)
	require.NoError(t, err)

	loaded, err := repo.GetByID(ctx, budget.ID)
	require.NoError(t, err)
	assert.Equal(t, "After", loaded.BudgetName)
	assert.Equal(t, domain.BudgetStatusApproved, loaded.Status)
	// Version and project are immutable through UpdateMeta
	assert.Equal(t, 1, loaded.VersionNumber)

	t.Run("unknown budget", func(t *testing.T) {
		err := repo.UpdateMeta(ctx, uuid.New(), "X", domain.BudgetStatusDraft)
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	})
}

func TestBudgetRepository_Delete(t *testing.T) {
	db := setupBudgetTestDB(t)
	repo := repository.NewBudgetRepository(db)
	project := testutil.CreateTestProject(t, db, "Delete Project")
	budget := testutil.CreateTestBudget(t, db, project.ID, "Doomed", 1, false)
	ctx := context.Background()

	item := &domain.BudgetLineItem{
		BudgetID:        budget.ID,
		Category:        "Hard Costs",
		LineItemCode:    "02-001",
		LineItemName:    "Foundation",
		CalculationType: domain.CalculationTypeFixed,
	}
	require.NoError(t, db.Create(item).Error)

	require.NoError(t, repo.Delete(ctx, budget.ID))

	_, err := repo.GetByID(ctx, budget.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	var itemCount int64
	require.NoError(t, db.Model(&domain.BudgetLineItem{}).
		Where("budget_id = ?", budget.ID).
		Count(&itemCount).Error)
	assert.Equal(t, int64(0), itemCount)

	t.Run("unknown budget", func(t *testing.T) {
		assert.ErrorIs(t, repo.Delete(ctx, uuid.New()), gorm.ErrRecordNotFound)
	})
}

func TestBudgetRepository_ListByProject(t *testing.T) {
	db := setupBudgetTestDB(t)
	repo := repository.NewBudgetRepository(db)
	project := testutil.CreateTestProject(t, db, "List Project")
	ctx := context.Background()

	testutil.CreateTestBudget(t, db, project.ID, "V1", 1, false)
	testutil.CreateTestBudget(t, db, project.ID, "V2", 2, false)
	testutil.CreateTestBudget(t, db, project.ID, "V3", 3, true)

	budgets, err := repo.ListByProject(ctx, project.ID)
	require.NoError(t, err)
	require.Len(t, budgets, 3)

	// Newest first
	assert.Equal(t, 3, budgets[0].VersionNumber)
	assert.Equal(t, 2, budgets[1].VersionNumber)
	assert.Equal(t, 1, budgets[2].VersionNumber)
}
