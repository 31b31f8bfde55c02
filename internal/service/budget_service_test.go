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

// ledgerStub stands in for the accounting ledger connection
type ledgerStub struct {
	posted bool
	err    error
}

func (l *ledgerStub) HasPostedEntries(ctx context.Context, budgetID uuid.UUID) (bool, error) {
	return l.posted, l.err
}

func setupBudgetServiceTestDB(t *testing.T) *gorm.DB {
	db := testutil.SetupCleanTestDB(t)
	t.Cleanup(func() {
		testutil.CleanupTestData(t, db)
	})
	return db
}

func createBudgetService(db *gorm.DB, ledger service.LedgerChecker) *service.BudgetService {
	return service.NewBudgetService(
		repository.NewBudgetRepository(db),
		repository.NewLineItemRepository(db),
		repository.NewProjectRepository(db),
		repository.NewPlanRepository(db),
		repository.NewTemplateRepository(db),
		ledger,
		zap.NewNop(),
	)
}

func TestBudgetService_Create(t *testing.T) {
	db := setupBudgetServiceTestDB(t)
	svc := createBudgetService(db, nil)
	project := testutil.CreateTestProject(t, db, "Maple Ridge Lot 4")
	ctx := context.Background()

	t.Run("blank budget", func(t *testing.T) {
		budget, err := svc.Create(ctx, &domain.CreateBudgetRequest{
			ProjectID:  project.ID,
			BudgetName: "Initial Budget",
		}, "Dana Whitfield")
		require.NoError(t, err)
		assert.Equal(t, 1, budget.VersionNumber)
		assert.Equal(t, domain.BudgetStatusDraft, budget.Status)
		assert.Equal(t, "Dana Whitfield", budget.CreatedBy)
		assert.False(t, budget.IsActive)
		assert.Empty(t, budget.LineItems)
	})

	t.Run("second version", func(t *testing.T) {
		budget, err := svc.Create(ctx, &domain.CreateBudgetRequest{
			ProjectID:  project.ID,
			BudgetName: "Revised",
			Activate:   true,
		}, "Dana Whitfield")
		require.NoError(t, err)
		assert.Equal(t, 2, budget.VersionNumber)
		assert.True(t, budget.IsActive)
	})

	t.Run("omitted name is derived", func(t *testing.T) {
		budget, err := svc.Create(ctx, &domain.CreateBudgetRequest{
			ProjectID: project.ID,
		}, "Dana Whitfield")
		require.NoError(t, err)
		assert.Equal(t, 3, budget.VersionNumber)
		assert.Equal(t, "Maple Ridge Lot 4 - Budget - V3", budget.BudgetName)
	})

	t.Run("plan and template together", func(t *testing.T) {
		planID := uuid.New()
		templateID := uuid.New()
		_, err := svc.Create(ctx, &domain.CreateBudgetRequest{
			ProjectID:  project.ID,
			BudgetName: "Conflicted",
			PlanID:     &planID,
			TemplateID: &templateID,
		}, "Dana Whitfield")
		assert.ErrorIs(t, err, service.ErrSeedSourceConflict)
	})

	t.Run("unknown project", func(t *testing.T) {
		_, err := svc.Create(ctx, &domain.CreateBudgetRequest{
			ProjectID:  uuid.New(),
			BudgetName: "Orphan",
		}, "Dana Whitfield")
		assert.ErrorIs(t, err, service.ErrProjectNotFound)
	})

	t.Run("unknown plan", func(t *testing.T) {
		planID := uuid.New()
		_, err := svc.Create(ctx, &domain.CreateBudgetRequest{
			ProjectID:  project.ID,
			BudgetName: "Bad Seed",
			PlanID:     &planID,
		}, "Dana Whitfield")
		assert.ErrorIs(t, err, service.ErrPlanNotFound)
	})
}

func TestBudgetService_Create_SeededFromPlan(t *testing.T) {
	db := setupBudgetServiceTestDB(t)
	svc := createBudgetService(db, nil)
	project := testutil.CreateTestProject(t, db, "Cedar Hollow 12")
	ctx := context.Background()

	plan := &domain.Plan{
		Name:          "Charleston",
		SquareFootage: 2450,
		ProjectTypes:  []string{string(domain.ProjectTypeSingleFamily)},
		CostLines: []domain.PlanCostLine{
			{CategoryKey: "foundation", Amount: 45000, DisplayOrder: 1},
			{CategoryKey: "rough_plumbing", Amount: 18000, DisplayOrder: 2},
		},
	}
	require.NoError(t, repository.NewPlanRepository(db).Create(ctx, plan))

	budget, err := svc.Create(ctx, &domain.CreateBudgetRequest{
		ProjectID:  project.ID,
		BudgetName: "From Charleston",
		PlanID:     &plan.ID,
	}, "Dana Whitfield")
	require.NoError(t, err)

	require.Len(t, budget.LineItems, 2)
	assert.Equal(t, "Hard Costs", budget.LineItems[0].Category)
	assert.Equal(t, "Foundation", budget.LineItems[0].LineItemName)
	assert.Equal(t, "02-001", budget.LineItems[0].LineItemCode)
	assert.True(t, budget.LineItems[0].IsFromPlan)
	assert.Equal(t, 63000.0, budget.TotalBudget)
	require.NotNil(t, budget.Totals)
	assert.Equal(t, 63000.0, budget.Totals.TotalBudget)
}

func TestBudgetService_Create_SeededFromTemplate(t *testing.T) {
	db := setupBudgetServiceTestDB(t)
	svc := createBudgetService(db, nil)
	project := testutil.CreateTestProject(t, db, "Template Project")
	ctx := context.Background()

	tpl := &domain.BudgetTemplate{
		Name: "Standard Residential",
		Items: []domain.TemplateItem{
			{Category: "Soft Costs", Code: "05-100", Name: "Permits", DefaultAmount: 3500, SortOrder: 1},
			{Category: "Soft Costs", Code: "05-200", Name: "Insurance", DefaultAmount: 2800, SortOrder: 2},
		},
	}
	require.NoError(t, repository.NewTemplateRepository(db).Create(ctx, tpl))

	budget, err := svc.Create(ctx, &domain.CreateBudgetRequest{
		ProjectID:  project.ID,
		BudgetName: "From Template",
		TemplateID: &tpl.ID,
	}, "Dana Whitfield")
	require.NoError(t, err)

	require.Len(t, budget.LineItems, 2)
	assert.True(t, budget.LineItems[0].IsFromTemplate)
	assert.Equal(t, 6300.0, budget.TotalBudget)
}

func TestBudgetService_SetActive(t *testing.T) {
	db := setupBudgetServiceTestDB(t)
	svc := createBudgetService(db, nil)
	project := testutil.CreateTestProject(t, db, "Activate Project")
	ctx := context.Background()

	v1, err := svc.Create(ctx, &domain.CreateBudgetRequest{ProjectID: project.ID, BudgetName: "V1", Activate: true}, "test")
	require.NoError(t, err)
	v2, err := svc.Create(ctx, &domain.CreateBudgetRequest{ProjectID: project.ID, BudgetName: "V2"}, "test")
	require.NoError(t, err)

	activated, err := svc.SetActive(ctx, project.ID, v2.ID)
	require.NoError(t, err)
	assert.True(t, activated.IsActive)

	// The flip leaves exactly one active version
	active, err := svc.GetActive(ctx, project.ID)
	require.NoError(t, err)
	assert.Equal(t, v2.ID, active.ID)

	old, err := svc.GetByID(ctx, v1.ID)
	require.NoError(t, err)
	assert.False(t, old.IsActive)

	t.Run("no active budget", func(t *testing.T) {
		other := testutil.CreateTestProject(t, db, "Nothing Active")
		_, err := svc.GetActive(ctx, other.ID)
		assert.ErrorIs(t, err, service.ErrNoActiveBudget)
	})
}

func TestBudgetService_Update(t *testing.T) {
	db := setupBudgetServiceTestDB(t)
	svc := createBudgetService(db, nil)
	project := testutil.CreateTestProject(t, db, "Update Project")
	ctx := context.Background()

	budget, err := svc.Create(ctx, &domain.CreateBudgetRequest{ProjectID: project.ID, BudgetName: "Before"}, "test")
	require.NoError(t, err)

	updated, err := svc.Update(ctx, budget.ID, &domain.UpdateBudgetRequest{
		BudgetName: "After",
		Status:     domain.BudgetStatusApproved,
	})
	require.NoError(t, err)
	assert.Equal(t, "After", updated.BudgetName)
	assert.Equal(t, domain.BudgetStatusApproved, updated.Status)

	t.Run("omitted status keeps the current one", func(t *testing.T) {
		updated, err := svc.Update(ctx, budget.ID, &domain.UpdateBudgetRequest{BudgetName: "Renamed"})
		require.NoError(t, err)
		assert.Equal(t, domain.BudgetStatusApproved, updated.Status)
	})

	t.Run("invalid status", func(t *testing.T) {
		_, err := svc.Update(ctx, budget.ID, &domain.UpdateBudgetRequest{BudgetName: "X", Status: "bogus"})
		assert.ErrorIs(t, err, service.ErrInvalidInput)
	})
}

func TestBudgetService_Delete(t *testing.T) {
	db := setupBudgetServiceTestDB(t)
	project := testutil.CreateTestProject(t, db, "Delete Project")
	ctx := context.Background()

	t.Run("ledger entries block deletion", func(t *testing.T) {
		svc := createBudgetService(db, &ledgerStub{posted: true})
		budget, err := svc.Create(ctx, &domain.CreateBudgetRequest{ProjectID: project.ID, BudgetName: "Posted"}, "test")
		require.NoError(t, err)

		err = svc.Delete(ctx, budget.ID)
		assert.ErrorIs(t, err, service.ErrBudgetHasPostedEntries)

		// Still there
		_, err = svc.GetByID(ctx, budget.ID)
		assert.NoError(t, err)
	})

	t.Run("clean budget deletes", func(t *testing.T) {
		svc := createBudgetService(db, &ledgerStub{posted: false})
		budget, err := svc.Create(ctx, &domain.CreateBudgetRequest{ProjectID: project.ID, BudgetName: "Clean"}, "test")
		require.NoError(t, err)

		require.NoError(t, svc.Delete(ctx, budget.ID))
		_, err = svc.GetByID(ctx, budget.ID)
		assert.ErrorIs(t, err, service.ErrBudgetNotFound)
	})

	t.Run("no ledger configured skips the check", func(t *testing.T) {
		svc := createBudgetService(db, nil)
		budget, err := svc.Create(ctx, &domain.CreateBudgetRequest{ProjectID: project.ID, BudgetName: "No Ledger"}, "test")
		require.NoError(t, err)
		assert.NoError(t, svc.Delete(ctx, budget.ID))
	})
}

func TestBudgetService_LineItems(t *testing.T) {
	db := setupBudgetServiceTestDB(t)
	svc := createBudgetService(db, nil)
	project := testutil.CreateTestProject(t, db, "Line Item Project")
	ctx := context.Background()

	budget, err := svc.Create(ctx, &domain.CreateBudgetRequest{ProjectID: project.ID, BudgetName: "V1"}, "test")
	require.NoError(t, err)

	t.Run("create", func(t *testing.T) {
		item, err := svc.CreateLineItem(ctx, budget.ID, &domain.CreateLineItemRequest{
			Category:     "Hard Costs",
			LineItemCode: "02-001",
			LineItemName: "Foundation",
			BudgetAmount: 45000,
		})
		require.NoError(t, err)
		assert.Equal(t, domain.CalculationTypeFixed, item.CalculationType)
	})

	t.Run("duplicate code", func(t *testing.T) {
		_, err := svc.CreateLineItem(ctx, budget.ID, &domain.CreateLineItemRequest{
			Category:     "Hard Costs",
			LineItemCode: "02-001",
			LineItemName: "Foundation again",
		})
		assert.ErrorIs(t, err, service.ErrDuplicateLineItemCode)
	})

	t.Run("percentage item requires basis and rate", func(t *testing.T) {
		_, err := svc.CreateLineItem(ctx, budget.ID, &domain.CreateLineItemRequest{
			Category:        "Soft Costs",
			LineItemCode:    "06-100",
			LineItemName:    "Builder Fee",
			CalculationType: domain.CalculationTypePercentage,
		})
		assert.ErrorIs(t, err, service.ErrInvalidInput)
	})

	t.Run("percentage item resolves against fixed siblings", func(t *testing.T) {
		basis := domain.BasisHardCosts
		rate := 10.0
		_, err := svc.CreateLineItem(ctx, budget.ID, &domain.CreateLineItemRequest{
			Category:         "Soft Costs",
			LineItemCode:     "06-100",
			LineItemName:     "Builder Fee",
			CalculationType:  domain.CalculationTypePercentage,
			CalculationBasis: &basis,
			PercentageRate:   &rate,
		})
		require.NoError(t, err)

		items, err := svc.ListLineItems(ctx, budget.ID)
		require.NoError(t, err)
		require.Len(t, items, 2)

		var fee *domain.BudgetLineItemDTO
		for i := range items {
			if items[i].LineItemCode == "06-100" {
				fee = &items[i]
			}
		}
		require.NotNil(t, fee)
		assert.Equal(t, 4500.0, fee.BudgetAmount)
	})

	t.Run("bulk create rejects batch-internal duplicates", func(t *testing.T) {
		_, err := svc.BulkCreateLineItems(ctx, budget.ID, &domain.BulkCreateLineItemsRequest{
			Items: []domain.CreateLineItemRequest{
				{Category: "Hard Costs", LineItemCode: "02-010", LineItemName: "A"},
				{Category: "Hard Costs", LineItemCode: "02-010", LineItemName: "B"},
			},
		})
		assert.ErrorIs(t, err, service.ErrDuplicateLineItemCode)

		// Nothing from the failed batch landed
		items, err := svc.ListLineItems(ctx, budget.ID)
		require.NoError(t, err)
		assert.Len(t, items, 2)
	})

	t.Run("update in wrong budget", func(t *testing.T) {
		other, err := svc.Create(ctx, &domain.CreateBudgetRequest{ProjectID: project.ID, BudgetName: "V2"}, "test")
		require.NoError(t, err)

		items, err := svc.ListLineItems(ctx, budget.ID)
		require.NoError(t, err)

		_, err = svc.UpdateLineItem(ctx, other.ID, items[0].ID, &domain.UpdateLineItemRequest{
			Category:     "Hard Costs",
			LineItemCode: items[0].LineItemCode,
			LineItemName: "Moved?",
		})
		assert.ErrorIs(t, err, service.ErrLineItemNotFound)
	})
}

func TestBudgetService_DeleteLineItem_BlockedByChangeOrders(t *testing.T) {
	db := setupBudgetServiceTestDB(t)
	svc := createBudgetService(db, nil)
	project := testutil.CreateTestProject(t, db, "Blocked Delete")
	ctx := context.Background()

	budget, err := svc.Create(ctx, &domain.CreateBudgetRequest{ProjectID: project.ID, BudgetName: "V1"}, "test")
	require.NoError(t, err)

	item, err := svc.CreateLineItem(ctx, budget.ID, &domain.CreateLineItemRequest{
		Category:     "Hard Costs",
		LineItemCode: "02-001",
		LineItemName: "Foundation",
	})
	require.NoError(t, err)

	coService := service.NewChangeOrderService(
		repository.NewChangeOrderRepository(db),
		repository.NewBudgetRepository(db),
		repository.NewLineItemRepository(db),
		nil,
		zap.NewNop(),
	)
	_, err = coService.Create(ctx, &domain.CreateChangeOrderRequest{
		ProjectID:        project.ID,
		BudgetID:         budget.ID,
		Title:            "Rock excavation",
		Reason:           domain.ReasonUnforeseenCondition,
		ContractorName:   "Hayes Excavating",
		Amount:           4200,
		BudgetLineItemID: &item.ID,
	}, "test")
	require.NoError(t, err)

	err = svc.DeleteLineItem(ctx, budget.ID, item.ID)
	assert.ErrorIs(t, err, service.ErrLineItemHasChangeOrders)
}
