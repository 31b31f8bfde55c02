package domain_test

import (
	"testing"

	"github.com/crestline-dev/budget-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedItem(category string, budget, actual, committed float64) *domain.BudgetLineItem {
	return &domain.BudgetLineItem{
		Category:        category,
		BudgetAmount:    budget,
		ActualAmount:    actual,
		CommittedAmount: committed,
		CalculationType: domain.CalculationTypeFixed,
	}
}

func percentageItem(category string, basis domain.CalculationBasis, rate float64) *domain.BudgetLineItem {
	return &domain.BudgetLineItem{
		Category:         category,
		CalculationType:  domain.CalculationTypePercentage,
		CalculationBasis: &basis,
		PercentageRate:   &rate,
	}
}

func TestResolvePercentageItems(t *testing.T) {
	t.Run("percentage of hard cost basis", func(t *testing.T) {
		items := []*domain.BudgetLineItem{
			fixedItem("Hard Costs", 600, 0, 0),
			fixedItem("Hard Costs", 400, 0, 0),
			percentageItem("Soft Costs", domain.BasisHardCosts, 5),
		}

		domain.ResolvePercentageItems(items)
		assert.Equal(t, 50.0, items[2].BudgetAmount)
	})

	t.Run("percentage items excluded from their own basis", func(t *testing.T) {
		// A percentage item sitting inside Hard Costs must not feed the
		// hard-cost sum it is computed from
		items := []*domain.BudgetLineItem{
			fixedItem("Hard Costs", 1000, 0, 0),
			percentageItem("Hard Costs", domain.BasisHardCosts, 10),
		}

		domain.ResolvePercentageItems(items)
		assert.Equal(t, 100.0, items[1].BudgetAmount)
	})

	t.Run("soft cost basis", func(t *testing.T) {
		items := []*domain.BudgetLineItem{
			fixedItem("Hard Costs", 5000, 0, 0),
			fixedItem("Soft Costs", 200, 0, 0),
			percentageItem("Fees", domain.BasisSoftCosts, 50),
		}

		domain.ResolvePercentageItems(items)
		assert.Equal(t, 100.0, items[2].BudgetAmount)
	})

	t.Run("missing basis or rate resolves to zero", func(t *testing.T) {
		rate := 10.0
		items := []*domain.BudgetLineItem{
			fixedItem("Hard Costs", 1000, 0, 0),
			{
				Category:        "Soft Costs",
				BudgetAmount:    999, // stale stored value must be overwritten
				CalculationType: domain.CalculationTypePercentage,
				PercentageRate:  &rate,
			},
		}

		domain.ResolvePercentageItems(items)
		assert.Equal(t, 0.0, items[1].BudgetAmount)
	})

	t.Run("fixed items untouched", func(t *testing.T) {
		items := []*domain.BudgetLineItem{
			fixedItem("Hard Costs", 1234, 56, 78),
		}

		domain.ResolvePercentageItems(items)
		assert.Equal(t, 1234.0, items[0].BudgetAmount)
	})
}

func TestAggregateLineItems(t *testing.T) {
	items := []*domain.BudgetLineItem{
		fixedItem("Hard Costs", 100, 50, 10),
		fixedItem("Hard Costs", 200, 0, 0),
		fixedItem("Soft Costs", 300, 150, 0),
	}

	totals := domain.AggregateLineItems(items)

	assert.Equal(t, 600.0, totals.TotalBudget)
	assert.Equal(t, 200.0, totals.TotalActual)
	assert.Equal(t, 10.0, totals.TotalCommitted)
	assert.Equal(t, 400.0, totals.TotalVariance)
	assert.InDelta(t, 33.33, totals.PercentUsed, 0.01)

	require.Len(t, totals.Categories, 2)

	hard := totals.Categories[0]
	assert.Equal(t, "Hard Costs", hard.Category)
	assert.Equal(t, 300.0, hard.Budget)
	assert.Equal(t, 50.0, hard.Actual)
	assert.Equal(t, 10.0, hard.Committed)
	assert.Equal(t, 250.0, hard.Variance)
	assert.Equal(t, 2, hard.ItemCount)

	soft := totals.Categories[1]
	assert.Equal(t, "Soft Costs", soft.Category)
	assert.Equal(t, 300.0, soft.Budget)
	assert.Equal(t, 50.0, soft.PercentUsed)
	assert.Equal(t, 1, soft.ItemCount)
}

func TestAggregateLineItems_Empty(t *testing.T) {
	totals := domain.AggregateLineItems(nil)

	assert.Equal(t, 0.0, totals.TotalBudget)
	assert.Equal(t, 0.0, totals.PercentUsed)
	assert.Empty(t, totals.Categories)
}

func TestAggregateLineItems_ZeroBudgetCategory(t *testing.T) {
	items := []*domain.BudgetLineItem{
		fixedItem("Contingency", 0, 500, 0),
	}

	totals := domain.AggregateLineItems(items)

	// Percent used stays zero instead of dividing by zero
	assert.Equal(t, 0.0, totals.PercentUsed)
	require.Len(t, totals.Categories, 1)
	assert.Equal(t, 0.0, totals.Categories[0].PercentUsed)
	assert.Equal(t, -500.0, totals.Categories[0].Variance)
}

func TestAggregateLineItems_CategoryOrderIsFirstAppearance(t *testing.T) {
	items := []*domain.BudgetLineItem{
		fixedItem("Soft Costs", 1, 0, 0),
		fixedItem("Hard Costs", 2, 0, 0),
		fixedItem("Soft Costs", 3, 0, 0),
	}

	totals := domain.AggregateLineItems(items)

	require.Len(t, totals.Categories, 2)
	assert.Equal(t, "Soft Costs", totals.Categories[0].Category)
	assert.Equal(t, "Hard Costs", totals.Categories[1].Category)
}
