package mapper

import (
	"time"

	"github.com/crestline-dev/budget-api/internal/domain"
)

const timeFormat = "2006-01-02T15:04:05Z"

func formatTimePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(timeFormat)
}

// ToProjectDTO converts Project to ProjectDTO
func ToProjectDTO(project *domain.Project) domain.ProjectDTO {
	return domain.ProjectDTO{
		ID:        project.ID,
		Name:      project.Name,
		CreatedAt: project.CreatedAt.Format(timeFormat),
		UpdatedAt: project.UpdatedAt.Format(timeFormat),
	}
}

// ToPlanDTO converts Plan to PlanDTO
func ToPlanDTO(plan *domain.Plan) domain.PlanDTO {
	lines := make([]domain.PlanCostLineDTO, len(plan.CostLines))
	for i, line := range plan.CostLines {
		lines[i] = ToPlanCostLineDTO(&line)
	}

	return domain.PlanDTO{
		ID:            plan.ID,
		Name:          plan.Name,
		Description:   plan.Description,
		SquareFootage: plan.SquareFootage,
		Bedrooms:      plan.Bedrooms,
		Bathrooms:     plan.Bathrooms,
		GarageSpaces:  plan.GarageSpaces,
		Stories:       plan.Stories,
		ProjectTypes:  plan.ProjectTypes,
		BaseCost:      plan.BaseCost,
		CostPerSF:     plan.CostPerSF,
		IsActive:      plan.IsActive,
		CostLines:     lines,
		CreatedAt:     plan.CreatedAt.Format(timeFormat),
		UpdatedAt:     plan.UpdatedAt.Format(timeFormat),
	}
}

// ToPlanCostLineDTO converts PlanCostLine to PlanCostLineDTO
func ToPlanCostLineDTO(line *domain.PlanCostLine) domain.PlanCostLineDTO {
	return domain.PlanCostLineDTO{
		ID:           line.ID,
		CategoryKey:  line.CategoryKey,
		Amount:       line.Amount,
		DisplayOrder: line.DisplayOrder,
	}
}

// ToBudgetTemplateDTO converts BudgetTemplate to BudgetTemplateDTO
func ToBudgetTemplateDTO(tpl *domain.BudgetTemplate) domain.BudgetTemplateDTO {
	categories := make([]domain.TemplateCategoryDTO, len(tpl.Categories))
	for i, c := range tpl.Categories {
		categories[i] = domain.TemplateCategoryDTO{
			ID:           c.ID,
			Name:         c.Name,
			DisplayOrder: c.DisplayOrder,
		}
	}

	items := make([]domain.TemplateItemDTO, len(tpl.Items))
	for i, item := range tpl.Items {
		items[i] = domain.TemplateItemDTO{
			ID:            item.ID,
			CategoryID:    item.CategoryID,
			Category:      item.Category,
			Code:          item.Code,
			Name:          item.Name,
			DefaultAmount: item.DefaultAmount,
			SortOrder:     item.SortOrder,
		}
	}

	return domain.BudgetTemplateDTO{
		ID:          tpl.ID,
		Name:        tpl.Name,
		Description: tpl.Description,
		IsActive:    tpl.IsActive,
		Categories:  categories,
		Items:       items,
		CreatedAt:   tpl.CreatedAt.Format(timeFormat),
		UpdatedAt:   tpl.UpdatedAt.Format(timeFormat),
	}
}

// ToProjectBudgetDTO converts ProjectBudget to ProjectBudgetDTO
func ToProjectBudgetDTO(budget *domain.ProjectBudget) domain.ProjectBudgetDTO {
	return domain.ProjectBudgetDTO{
		ID:             budget.ID,
		ProjectID:      budget.ProjectID,
		BudgetName:     budget.BudgetName,
		VersionNumber:  budget.VersionNumber,
		PlanID:         budget.PlanID,
		TemplateID:     budget.TemplateID,
		IsActive:       budget.IsActive,
		Status:         budget.Status,
		CreatedBy:      budget.CreatedBy,
		TotalBudget:    budget.TotalBudget,
		TotalActual:    budget.TotalActual,
		TotalCommitted: budget.TotalCommitted,
		TotalVariance:  budget.TotalVariance,
		CreatedAt:      budget.CreatedAt.Format(timeFormat),
		UpdatedAt:      budget.UpdatedAt.Format(timeFormat),
	}
}

// ToProjectBudgetDetailDTO converts a budget plus resolved items and totals
func ToProjectBudgetDetailDTO(budget *domain.ProjectBudget, items []*domain.BudgetLineItem, totals domain.BudgetTotals) domain.ProjectBudgetDetailDTO {
	itemDTOs := make([]domain.BudgetLineItemDTO, len(items))
	for i, item := range items {
		itemDTOs[i] = ToBudgetLineItemDTO(item)
	}

	return domain.ProjectBudgetDetailDTO{
		ProjectBudgetDTO: ToProjectBudgetDTO(budget),
		LineItems:        itemDTOs,
		Totals:           &totals,
	}
}

// ToBudgetLineItemDTO converts BudgetLineItem to BudgetLineItemDTO
func ToBudgetLineItemDTO(item *domain.BudgetLineItem) domain.BudgetLineItemDTO {
	return domain.BudgetLineItemDTO{
		ID:               item.ID,
		BudgetID:         item.BudgetID,
		Category:         item.Category,
		Subcategory:      item.Subcategory,
		LineItemCode:     item.LineItemCode,
		LineItemName:     item.LineItemName,
		BudgetAmount:     item.BudgetAmount,
		ActualAmount:     item.ActualAmount,
		CommittedAmount:  item.CommittedAmount,
		Variance:         item.Variance(),
		CalculationType:  item.CalculationType,
		CalculationBasis: item.CalculationBasis,
		PercentageRate:   item.PercentageRate,
		IsFromTemplate:   item.IsFromTemplate,
		IsFromPlan:       item.IsFromPlan,
		SortOrder:        item.SortOrder,
		CreatedAt:        item.CreatedAt.Format(timeFormat),
		UpdatedAt:        item.UpdatedAt.Format(timeFormat),
	}
}

// ToChangeOrderDTO converts ChangeOrder to ChangeOrderDTO
func ToChangeOrderDTO(co *domain.ChangeOrder) domain.ChangeOrderDTO {
	docs := make([]domain.ChangeOrderDocumentDTO, len(co.Documents))
	for i, doc := range co.Documents {
		docs[i] = ToChangeOrderDocumentDTO(&doc)
	}

	return domain.ChangeOrderDTO{
		ID:                  co.ID,
		ProjectID:           co.ProjectID,
		BudgetID:            co.BudgetID,
		CONumber:            co.CONumber,
		Title:               co.Title,
		Description:         co.Description,
		Reason:              co.Reason,
		ContractorID:        co.ContractorID,
		ContractorName:      co.ContractorName,
		ContractorReference: co.ContractorReference,
		Amount:              co.Amount,
		BudgetLineItemID:    co.BudgetLineItemID,
		SubmittedDate:       co.SubmittedDate.Format(timeFormat),
		ApprovalDeadline:    formatTimePtr(co.ApprovalDeadline),
		Status:              co.Status,
		ApprovedDate:        formatTimePtr(co.ApprovedDate),
		ApprovedBy:          co.ApprovedBy,
		ApprovalNotes:       co.ApprovalNotes,
		DenialReason:        co.DenialReason,
		IsPaid:              co.IsPaid,
		PaidDate:            formatTimePtr(co.PaidDate),
		PaidAmount:          co.PaidAmount,
		Notes:               co.Notes,
		CreatedBy:           co.CreatedBy,
		Documents:           docs,
		CreatedAt:           co.CreatedAt.Format(timeFormat),
		UpdatedAt:           co.UpdatedAt.Format(timeFormat),
	}
}

// ToChangeOrderDocumentDTO converts ChangeOrderDocument to its DTO
func ToChangeOrderDocumentDTO(doc *domain.ChangeOrderDocument) domain.ChangeOrderDocumentDTO {
	return domain.ChangeOrderDocumentDTO{
		ID:            doc.ID,
		ChangeOrderID: doc.ChangeOrderID,
		DocumentType:  doc.DocumentType,
		FileName:      doc.FileName,
		FileSize:      doc.FileSize,
		UploadedAt:    doc.UploadedAt.Format(timeFormat),
	}
}
