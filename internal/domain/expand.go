package domain

import (
	"fmt"
	"strings"
)

// Categories assigned to plan-derived line items. Vertical construction is
// always hard cost.
const (
	PlanExpansionCategory    = "Hard Costs"
	PlanExpansionSubcategory = "Vertical Construction"

	// Plan-derived items sort after manually- and template-derived ones
	planSortOrderBase = 100

	// UncategorizedCategory is the fallback when a template item names no
	// category at all
	UncategorizedCategory = "Uncategorized"
)

// DraftLineItem is an unsaved line item produced by expansion. Callers bulk
// insert drafts through the line-item store; expansion itself never touches
// storage.
type DraftLineItem struct {
	Category       string
	Subcategory    string
	LineItemCode   string
	LineItemName   string
	BudgetAmount   float64
	IsFromTemplate bool
	IsFromPlan     bool
	SortOrder      int
}

// ExpandTemplate turns a budget template into draft line items, one per
// template item in stored order. Category resolution per item: the named
// template category if CategoryID resolves, else the item's literal category
// string, else "Uncategorized". Items without a code get one synthesized from
// their 1-based position. Deterministic given identical input order.
func ExpandTemplate(tpl *BudgetTemplate) []DraftLineItem {
	categoryNames := make(map[string]string, len(tpl.Categories))
	for _, c := range tpl.Categories {
		categoryNames[c.ID.String()] = c.Name
	}

	drafts := make([]DraftLineItem, 0, len(tpl.Items))
	for i, item := range tpl.Items {
		n := i + 1

		category := UncategorizedCategory
		if item.CategoryID != nil {
			if name, ok := categoryNames[item.CategoryID.String()]; ok {
				category = name
			} else if item.Category != "" {
				category = item.Category
			}
		} else if item.Category != "" {
			category = item.Category
		}

		code := item.Code
		if code == "" {
			code = fmt.Sprintf("%02d-%03d", n, n)
		}

		sortOrder := item.SortOrder
		if sortOrder == 0 {
			sortOrder = n
		}

		drafts = append(drafts, DraftLineItem{
			Category:       category,
			LineItemCode:   code,
			LineItemName:   item.Name,
			BudgetAmount:   item.DefaultAmount,
			IsFromTemplate: true,
			SortOrder:      sortOrder,
		})
	}
	return drafts
}

// ExpandPlanCostBreakdown turns a plan's cost breakdown into draft line
// items, one per cost line in stored order. Every item lands under
// "Hard Costs" / "Vertical Construction" with a human-readable name derived
// from the category key and a synthesized 02-NNN code. Deterministic given
// identical input order.
func ExpandPlanCostBreakdown(plan *Plan) []DraftLineItem {
	drafts := make([]DraftLineItem, 0, len(plan.CostLines))
	for i, line := range plan.CostLines {
		drafts = append(drafts, DraftLineItem{
			Category:     PlanExpansionCategory,
			Subcategory:  PlanExpansionSubcategory,
			LineItemCode: fmt.Sprintf("02-%03d", i+1),
			LineItemName: humanizeCategoryKey(line.CategoryKey),
			BudgetAmount: line.Amount,
			IsFromPlan:   true,
			SortOrder:    planSortOrderBase + i,
		})
	}
	return drafts
}

// humanizeCategoryKey converts a snake_case breakdown key into a display
// name, e.g. "rough_plumbing" -> "Rough Plumbing"
func humanizeCategoryKey(key string) string {
	words := strings.Split(strings.ReplaceAll(key, "_", " "), " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
