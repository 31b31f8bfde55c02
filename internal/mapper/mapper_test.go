package mapper_test

import (
	"testing"
	"time"

	"github.com/crestline-dev/budget-api/internal/domain"
	"github.com/crestline-dev/budget-api/internal/mapper"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testTime = time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

func TestToPlanDTO(t *testing.T) {
	plan := &domain.Plan{
		ID:            uuid.New(),
		Name:          "Charleston",
		SquareFootage: 2450,
		Bedrooms:      4,
		Bathrooms:     2.5,
		ProjectTypes:  []string{"single_family"},
		BaseCost:      310000,
		CostPerSF:     126.53,
		IsActive:      true,
		CostLines: []domain.PlanCostLine{
			{ID: uuid.New(), CategoryKey: "foundation", Amount: 45000, DisplayOrder: 1},
			{ID: uuid.New(), CategoryKey: "framing", Amount: 60000, DisplayOrder: 2},
		},
		CreatedAt: testTime,
		UpdatedAt: testTime,
	}

	dto := mapper.ToPlanDTO(plan)

	assert.Equal(t, plan.ID, dto.ID)
	assert.Equal(t, "Charleston", dto.Name)
	assert.Equal(t, 2.5, dto.Bathrooms)
	assert.Equal(t, []string{"single_family"}, dto.ProjectTypes)
	assert.Equal(t, "2026-03-14T09:26:53Z", dto.CreatedAt)
	require.Len(t, dto.CostLines, 2)
	assert.Equal(t, "foundation", dto.CostLines[0].CategoryKey)
	assert.Equal(t, 45000.0, dto.CostLines[0].Amount)
}

func TestToProjectBudgetDTO(t *testing.T) {
	planID := uuid.New()
	budget := &domain.ProjectBudget{
		ID:             uuid.New(),
		ProjectID:      uuid.New(),
		BudgetName:     "Lot 14 Rev B",
		VersionNumber:  3,
		PlanID:         &planID,
		IsActive:       true,
		Status:         domain.BudgetStatusApproved,
		CreatedBy:      "Dana Whitfield",
		TotalBudget:    450000,
		TotalActual:    120000,
		TotalCommitted: 35000,
		TotalVariance:  330000,
		CreatedAt:      testTime,
		UpdatedAt:      testTime,
	}

	dto := mapper.ToProjectBudgetDTO(budget)

	assert.Equal(t, budget.ID, dto.ID)
	assert.Equal(t, 3, dto.VersionNumber)
	require.NotNil(t, dto.PlanID)
	assert.Equal(t, planID, *dto.PlanID)
	assert.Nil(t, dto.TemplateID)
	assert.Equal(t, domain.BudgetStatusApproved, dto.Status)
	assert.Equal(t, 330000.0, dto.TotalVariance)
}

func TestToBudgetLineItemDTO_ComputesVariance(t *testing.T) {
	item := &domain.BudgetLineItem{
		ID:              uuid.New(),
		BudgetID:        uuid.New(),
		Category:        "Hard Costs",
		LineItemCode:    "02-001",
		LineItemName:    "Foundation",
		BudgetAmount:    45000,
		ActualAmount:    30000,
		CommittedAmount: 5000,
		CalculationType: domain.CalculationTypeFixed,
		CreatedAt:       testTime,
		UpdatedAt:       testTime,
	}

	dto := mapper.ToBudgetLineItemDTO(item)

	// Variance is against actual spend only, commitments stay pending
	assert.Equal(t, 15000.0, dto.Variance)
	assert.Equal(t, domain.CalculationTypeFixed, dto.CalculationType)
}

func TestToProjectBudgetDetailDTO(t *testing.T) {
	budget := &domain.ProjectBudget{
		ID:         uuid.New(),
		BudgetName: "Lot 14",
		CreatedAt:  testTime,
		UpdatedAt:  testTime,
	}
	items := []*domain.BudgetLineItem{
		{ID: uuid.New(), LineItemCode: "02-001", CreatedAt: testTime, UpdatedAt: testTime},
		{ID: uuid.New(), LineItemCode: "02-002", CreatedAt: testTime, UpdatedAt: testTime},
	}
	totals := domain.BudgetTotals{TotalBudget: 90000}

	dto := mapper.ToProjectBudgetDetailDTO(budget, items, totals)

	assert.Equal(t, budget.ID, dto.ID)
	require.Len(t, dto.LineItems, 2)
	require.NotNil(t, dto.Totals)
	assert.Equal(t, 90000.0, dto.Totals.TotalBudget)
}

func TestToChangeOrderDTO(t *testing.T) {
	deadline := testTime.Add(14 * 24 * time.Hour)
	paidAmount := 4100.0
	co := &domain.ChangeOrder{
		ID:               uuid.New(),
		ProjectID:        uuid.New(),
		BudgetID:         uuid.New(),
		CONumber:         7,
		Title:            "Upgrade kitchen counters",
		Reason:           domain.ReasonOwnerRequest,
		Amount:           4200,
		SubmittedDate:    testTime,
		ApprovalDeadline: &deadline,
		Status:           domain.ChangeOrderStatusApproved,
		ApprovedDate:     &testTime,
		ApprovedBy:       "Dana Whitfield",
		IsPaid:           true,
		PaidDate:         &testTime,
		PaidAmount:       &paidAmount,
		CreatedAt:        testTime,
		UpdatedAt:        testTime,
		Documents: []domain.ChangeOrderDocument{
			{ID: uuid.New(), DocumentType: "quote", FileName: "quote.pdf", FileSize: 1024, UploadedAt: testTime},
		},
	}

	dto := mapper.ToChangeOrderDTO(co)

	assert.Equal(t, 7, dto.CONumber)
	assert.Equal(t, "2026-03-14T09:26:53Z", dto.SubmittedDate)
	assert.Equal(t, "2026-03-28T09:26:53Z", dto.ApprovalDeadline)
	require.NotNil(t, dto.PaidAmount)
	assert.Equal(t, 4100.0, *dto.PaidAmount)
	require.Len(t, dto.Documents, 1)
	assert.Equal(t, "quote.pdf", dto.Documents[0].FileName)
}

func TestToChangeOrderDTO_NilOptionalDates(t *testing.T) {
	co := &domain.ChangeOrder{
		ID:            uuid.New(),
		CONumber:      1,
		Status:        domain.ChangeOrderStatusPending,
		SubmittedDate: testTime,
		CreatedAt:     testTime,
		UpdatedAt:     testTime,
	}

	dto := mapper.ToChangeOrderDTO(co)

	assert.Empty(t, dto.ApprovalDeadline)
	assert.Empty(t, dto.ApprovedDate)
	assert.Empty(t, dto.PaidDate)
	assert.Nil(t, dto.PaidAmount)
	assert.Empty(t, dto.Documents)
}
