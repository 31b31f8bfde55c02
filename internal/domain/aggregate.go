package domain

// CategoryTotals carries the rolled-up figures for one budget category.
type CategoryTotals struct {
	Category    string  `json:"category"`
	Budget      float64 `json:"budget"`
	Actual      float64 `json:"actual"`
	Committed   float64 `json:"committed"`
	Variance    float64 `json:"variance"`
	PercentUsed float64 `json:"percentUsed"`
	ItemCount   int     `json:"itemCount"`
}

// BudgetTotals is the full aggregation of a budget version: grand totals plus
// per-category breakdown in first-appearance order.
type BudgetTotals struct {
	TotalBudget    float64          `json:"totalBudget"`
	TotalActual    float64          `json:"totalActual"`
	TotalCommitted float64          `json:"totalCommitted"`
	TotalVariance  float64          `json:"totalVariance"`
	PercentUsed    float64          `json:"percentUsed"`
	Categories     []CategoryTotals `json:"categories"`
}

// ResolvePercentageItems computes the effective budget amount of every
// percentage-based item against the fixed-amount items in its basis category
// group and writes the result into BudgetAmount. Percentage items never
// contribute to any basis sum, so resolution order does not matter. Items are
// mutated in place.
func ResolvePercentageItems(items []*BudgetLineItem) {
	var hardSum, softSum float64
	for _, it := range items {
		if it.CalculationType == CalculationTypePercentage {
			continue
		}
		switch it.Category {
		case BasisHardCosts.CategoryName():
			hardSum += it.BudgetAmount
		case BasisSoftCosts.CategoryName():
			softSum += it.BudgetAmount
		}
	}

	for _, it := range items {
		if it.CalculationType != CalculationTypePercentage {
			continue
		}
		if it.CalculationBasis == nil || it.PercentageRate == nil {
			it.BudgetAmount = 0
			continue
		}
		basis := hardSum
		if *it.CalculationBasis == BasisSoftCosts {
			basis = softSum
		}
		it.BudgetAmount = (*it.PercentageRate / 100) * basis
	}
}

// AggregateLineItems rolls up resolved line items into grand totals and
// per-category subtotals. Callers must run ResolvePercentageItems first so
// percentage items carry effective amounts. Variance is budget minus actual;
// percent used is zero when the budget total is zero.
func AggregateLineItems(items []*BudgetLineItem) BudgetTotals {
	totals := BudgetTotals{}
	byCategory := make(map[string]*CategoryTotals)
	order := make([]string, 0)

	for _, it := range items {
		ct, ok := byCategory[it.Category]
		if !ok {
			ct = &CategoryTotals{Category: it.Category}
			byCategory[it.Category] = ct
			order = append(order, it.Category)
		}
		ct.Budget += it.BudgetAmount
		ct.Actual += it.ActualAmount
		ct.Committed += it.CommittedAmount
		ct.ItemCount++

		totals.TotalBudget += it.BudgetAmount
		totals.TotalActual += it.ActualAmount
		totals.TotalCommitted += it.CommittedAmount
	}

	totals.Categories = make([]CategoryTotals, 0, len(order))
	for _, name := range order {
		ct := byCategory[name]
		ct.Variance = ct.Budget - ct.Actual
		if ct.Budget != 0 {
			ct.PercentUsed = (ct.Actual / ct.Budget) * 100
		}
		totals.Categories = append(totals.Categories, *ct)
	}

	totals.TotalVariance = totals.TotalBudget - totals.TotalActual
	if totals.TotalBudget != 0 {
		totals.PercentUsed = (totals.TotalActual / totals.TotalBudget) * 100
	}
	return totals
}
