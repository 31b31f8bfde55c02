package service_test

import (
	"context"
	"testing"

	"github.com/crestline-dev/budget-api/internal/domain"
	"github.com/crestline-dev/budget-api/internal/repository"
	"github.com/crestline-dev/budget-api/internal/service"
	"github.com/crestline-dev/budget-api/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupPlanService(t *testing.T) (*gorm.DB, *service.PlanService) {
	db := testutil.SetupCleanTestDB(t)
	t.Cleanup(func() {
		testutil.CleanupTestData(t, db)
	})
	svc := service.NewPlanService(repository.NewPlanRepository(db), zap.NewNop())
	return db, svc
}

func charlestonRequest() *domain.CreatePlanRequest {
	return &domain.CreatePlanRequest{
		Name:          "Charleston",
		Description:   "Two-story single family",
		SquareFootage: 2450,
		Bedrooms:      4,
		Bathrooms:     2.5,
		GarageSpaces:  2,
		Stories:       2,
		ProjectTypes:  []string{string(domain.ProjectTypeSingleFamily)},
		BaseCost:      310000,
		CostPerSF:     126.53,
		CostLines: []domain.CreatePlanCostLineRequest{
			{CategoryKey: "foundation", Amount: 45000},
			{CategoryKey: "framing", Amount: 60000},
		},
	}
}

func TestPlanService_Create(t *testing.T) {
	_, svc := setupPlanService(t)
	ctx := context.Background()

	plan, err := svc.Create(ctx, charlestonRequest())
	require.NoError(t, err)
	assert.Equal(t, "Charleston", plan.Name)
	assert.True(t, plan.IsActive)
	require.Len(t, plan.CostLines, 2)
	// Omitted display order falls back to authoring order
	assert.Equal(t, 1, plan.CostLines[0].DisplayOrder)
	assert.Equal(t, 2, plan.CostLines[1].DisplayOrder)

	t.Run("invalid project type", func(t *testing.T) {
		req := charlestonRequest()
		req.ProjectTypes = []string{"castle"}
		_, err := svc.Create(ctx, req)
		assert.ErrorIs(t, err, service.ErrInvalidInput)
	})
}

func TestPlanService_List_CachesCatalog(t *testing.T) {
	db, svc := setupPlanService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, charlestonRequest())
	require.NoError(t, err)

	plans, err := svc.List(ctx, nil)
	require.NoError(t, err)
	require.Len(t, plans, 1)

	// A write that bypasses the service is invisible until the cache rolls
	rogue := &domain.Plan{Name: "Backdoor", SquareFootage: 1000}
	require.NoError(t, repository.NewPlanRepository(db).Create(ctx, rogue))

	plans, err = svc.List(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, plans, 1)

	// Any write through the service invalidates the whole cache
	req := charlestonRequest()
	req.Name = "Ashford"
	_, err = svc.Create(ctx, req)
	require.NoError(t, err)

	plans, err = svc.List(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, plans, 3)
}

func TestPlanService_List_FilterValidation(t *testing.T) {
	_, svc := setupPlanService(t)

	bad := domain.ProjectType("castle")
	_, err := svc.List(context.Background(), &bad)
	assert.ErrorIs(t, err, service.ErrInvalidInput)
}

func TestPlanService_Update_InPlaceWhenUnreferenced(t *testing.T) {
	_, svc := setupPlanService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, charlestonRequest())
	require.NoError(t, err)

	req := &domain.UpdatePlanRequest{
		Name:          "Charleston Revised",
		SquareFootage: 2500,
		ProjectTypes:  []string{string(domain.ProjectTypeSingleFamily)},
		CostLines: []domain.CreatePlanCostLineRequest{
			{CategoryKey: "foundation", Amount: 48000},
		},
	}
	updated, err := svc.Update(ctx, created.ID, req)
	require.NoError(t, err)

	// Same row, edited in place
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Charleston Revised", updated.Name)
	require.Len(t, updated.CostLines, 1)
}

func TestPlanService_Update_CopyOnWriteWhenReferenced(t *testing.T) {
	db, svc := setupPlanService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, charlestonRequest())
	require.NoError(t, err)

	// Seed a budget from the plan so it becomes referenced
	project := testutil.CreateTestProject(t, db, "Seeded Project")
	budget := &domain.ProjectBudget{
		ProjectID:     project.ID,
		BudgetName:    "From Charleston",
		VersionNumber: 1,
		PlanID:        &created.ID,
		Status:        domain.BudgetStatusDraft,
	}
	require.NoError(t, db.Omit("LineItems").Create(budget).Error)

	req := &domain.UpdatePlanRequest{
		Name:          "Charleston II",
		SquareFootage: 2600,
		ProjectTypes:  []string{string(domain.ProjectTypeSingleFamily)},
	}
	updated, err := svc.Update(ctx, created.ID, req)
	require.NoError(t, err)

	// The edit landed on a new row
	assert.NotEqual(t, created.ID, updated.ID)
	assert.Equal(t, "Charleston II", updated.Name)

	// The referenced row survives deactivated, snapshot intact
	old, err := svc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, old.IsActive)
	assert.Equal(t, "Charleston", old.Name)
	assert.Equal(t, 2450, old.SquareFootage)
}

func TestPlanService_Delete(t *testing.T) {
	db, svc := setupPlanService(t)
	ctx := context.Background()

	t.Run("unreferenced plan deletes", func(t *testing.T) {
		created, err := svc.Create(ctx, charlestonRequest())
		require.NoError(t, err)

		require.NoError(t, svc.Delete(ctx, created.ID))
		_, err = svc.GetByID(ctx, created.ID)
		assert.ErrorIs(t, err, service.ErrPlanNotFound)
	})

	t.Run("referenced plan refuses deletion", func(t *testing.T) {
		created, err := svc.Create(ctx, charlestonRequest())
		require.NoError(t, err)

		project := testutil.CreateTestProject(t, db, "Referencing Project")
		budget := &domain.ProjectBudget{
			ProjectID:     project.ID,
			BudgetName:    "Seeded",
			VersionNumber: 1,
			PlanID:        &created.ID,
			Status:        domain.BudgetStatusDraft,
		}
		require.NoError(t, db.Omit("LineItems").Create(budget).Error)

		err = svc.Delete(ctx, created.ID)
		assert.ErrorIs(t, err, service.ErrConflict)
	})

	t.Run("unknown plan", func(t *testing.T) {
		assert.ErrorIs(t, svc.Delete(ctx, uuid.New()), service.ErrPlanNotFound)
	})
}
