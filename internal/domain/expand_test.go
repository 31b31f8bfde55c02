package domain_test

import (
	"testing"

	"github.com/crestline-dev/budget-api/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandTemplate(t *testing.T) {
	categoryID := uuid.New()
	tpl := &domain.BudgetTemplate{
		Name: "Standard Residential",
		Categories: []domain.TemplateCategory{
			{ID: categoryID, Name: "Site Work", DisplayOrder: 1},
		},
		Items: []domain.TemplateItem{
			{CategoryID: &categoryID, Code: "01-100", Name: "Clearing & Grading", DefaultAmount: 12000, SortOrder: 1},
			{Category: "Soft Costs", Code: "05-100", Name: "Permits", DefaultAmount: 3500, SortOrder: 2},
			{Name: "Contingency", DefaultAmount: 5000},
		},
	}

	drafts := domain.ExpandTemplate(tpl)
	require.Len(t, drafts, 3)

	t.Run("category resolved by id", func(t *testing.T) {
		assert.Equal(t, "Site Work", drafts[0].Category)
		assert.Equal(t, "01-100", drafts[0].LineItemCode)
		assert.Equal(t, "Clearing & Grading", drafts[0].LineItemName)
		assert.Equal(t, 12000.0, drafts[0].BudgetAmount)
		assert.True(t, drafts[0].IsFromTemplate)
		assert.False(t, drafts[0].IsFromPlan)
	})

	t.Run("category falls back to literal string", func(t *testing.T) {
		assert.Equal(t, "Soft Costs", drafts[1].Category)
		assert.Equal(t, "05-100", drafts[1].LineItemCode)
	})

	t.Run("uncategorized item with synthesized code", func(t *testing.T) {
		assert.Equal(t, domain.UncategorizedCategory, drafts[2].Category)
		assert.Equal(t, "03-003", drafts[2].LineItemCode)
		assert.Equal(t, 3, drafts[2].SortOrder)
	})
}

func TestExpandTemplate_CategoryIDDoesNotResolve(t *testing.T) {
	tpl := &domain.BudgetTemplate{
		Items: []domain.TemplateItem{
			{CategoryID: ptrUUID(uuid.New()), Category: "Hard Costs", Name: "Framing", DefaultAmount: 40000},
		},
	}

	drafts := domain.ExpandTemplate(tpl)
	require.Len(t, drafts, 1)
	assert.Equal(t, "Hard Costs", drafts[0].Category)
}

func TestExpandTemplate_Empty(t *testing.T) {
	drafts := domain.ExpandTemplate(&domain.BudgetTemplate{})
	assert.Empty(t, drafts)
}

func TestExpandTemplate_Deterministic(t *testing.T) {
	tpl := &domain.BudgetTemplate{
		Items: []domain.TemplateItem{
			{Name: "A", DefaultAmount: 1},
			{Name: "B", DefaultAmount: 2},
		},
	}

	first := domain.ExpandTemplate(tpl)
	second := domain.ExpandTemplate(tpl)
	assert.Equal(t, first, second)
}

func TestExpandPlanCostBreakdown(t *testing.T) {
	plan := &domain.Plan{
		Name: "Charleston",
		CostLines: []domain.PlanCostLine{
			{CategoryKey: "foundation", Amount: 45000, DisplayOrder: 1},
			{CategoryKey: "rough_plumbing", Amount: 18000, DisplayOrder: 2},
			{CategoryKey: "hvac_install", Amount: 22000, DisplayOrder: 3},
		},
	}

	drafts := domain.ExpandPlanCostBreakdown(plan)
	require.Len(t, drafts, 3)

	t.Run("all items land under hard costs", func(t *testing.T) {
		for _, d := range drafts {
			assert.Equal(t, domain.PlanExpansionCategory, d.Category)
			assert.Equal(t, domain.PlanExpansionSubcategory, d.Subcategory)
			assert.True(t, d.IsFromPlan)
			assert.False(t, d.IsFromTemplate)
		}
	})

	t.Run("codes and names synthesized in order", func(t *testing.T) {
		assert.Equal(t, "02-001", drafts[0].LineItemCode)
		assert.Equal(t, "Foundation", drafts[0].LineItemName)
		assert.Equal(t, "02-002", drafts[1].LineItemCode)
		assert.Equal(t, "Rough Plumbing", drafts[1].LineItemName)
		assert.Equal(t, "02-003", drafts[2].LineItemCode)
		assert.Equal(t, "Hvac Install", drafts[2].LineItemName)
	})

	t.Run("amounts carried through", func(t *testing.T) {
		assert.Equal(t, 45000.0, drafts[0].BudgetAmount)
		assert.Equal(t, 18000.0, drafts[1].BudgetAmount)
		assert.Equal(t, 22000.0, drafts[2].BudgetAmount)
	})

	t.Run("plan items sort after template items", func(t *testing.T) {
		assert.Equal(t, 100, drafts[0].SortOrder)
		assert.Equal(t, 101, drafts[1].SortOrder)
		assert.Equal(t, 102, drafts[2].SortOrder)
	})
}

func ptrUUID(id uuid.UUID) *uuid.UUID {
	return &id
}
