package domain

import (
	"time"

	"github.com/google/uuid"
)

// DTOs for API responses

type ProjectDTO struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt string    `json:"createdAt"` // ISO 8601
	UpdatedAt string    `json:"updatedAt"` // ISO 8601
}

type PlanDTO struct {
	ID            uuid.UUID         `json:"id"`
	Name          string            `json:"name"`
	Description   string            `json:"description,omitempty"`
	SquareFootage int               `json:"squareFootage"`
	Bedrooms      int               `json:"bedrooms"`
	Bathrooms     float64           `json:"bathrooms"`
	GarageSpaces  int               `json:"garageSpaces"`
	Stories       int               `json:"stories"`
	ProjectTypes  []string          `json:"projectTypes"`
	BaseCost      float64           `json:"baseCost"`
	CostPerSF     float64           `json:"costPerSf"`
	IsActive      bool              `json:"isActive"`
	CostLines     []PlanCostLineDTO `json:"costLines,omitempty"`
	CreatedAt     string            `json:"createdAt"`
	UpdatedAt     string            `json:"updatedAt"`
}

type PlanCostLineDTO struct {
	ID           uuid.UUID `json:"id"`
	CategoryKey  string    `json:"categoryKey"`
	Amount       float64   `json:"amount"`
	DisplayOrder int       `json:"displayOrder"`
}

type BudgetTemplateDTO struct {
	ID          uuid.UUID             `json:"id"`
	Name        string                `json:"name"`
	Description string                `json:"description,omitempty"`
	IsActive    bool                  `json:"isActive"`
	Categories  []TemplateCategoryDTO `json:"categories,omitempty"`
	Items       []TemplateItemDTO     `json:"items,omitempty"`
	CreatedAt   string                `json:"createdAt"`
	UpdatedAt   string                `json:"updatedAt"`
}

type TemplateCategoryDTO struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	DisplayOrder int       `json:"displayOrder"`
}

type TemplateItemDTO struct {
	ID            uuid.UUID  `json:"id"`
	CategoryID    *uuid.UUID `json:"categoryId,omitempty"`
	Category      string     `json:"category,omitempty"`
	Code          string     `json:"code,omitempty"`
	Name          string     `json:"name"`
	DefaultAmount float64    `json:"defaultAmount"`
	SortOrder     int        `json:"sortOrder"`
}

type ProjectBudgetDTO struct {
	ID             uuid.UUID    `json:"id"`
	ProjectID      uuid.UUID    `json:"projectId"`
	BudgetName     string       `json:"budgetName"`
	VersionNumber  int          `json:"versionNumber"`
	PlanID         *uuid.UUID   `json:"planId,omitempty"`
	TemplateID     *uuid.UUID   `json:"templateId,omitempty"`
	IsActive       bool         `json:"isActive"`
	Status         BudgetStatus `json:"status"`
	CreatedBy      string       `json:"createdBy,omitempty"`
	TotalBudget    float64      `json:"totalBudget"`
	TotalActual    float64      `json:"totalActual"`
	TotalCommitted float64      `json:"totalCommitted"`
	TotalVariance  float64      `json:"totalVariance"`
	CreatedAt      string       `json:"createdAt"`
	UpdatedAt      string       `json:"updatedAt"`
}

// ProjectBudgetDetailDTO includes the budget with its line items and totals
type ProjectBudgetDetailDTO struct {
	ProjectBudgetDTO
	LineItems []BudgetLineItemDTO `json:"lineItems"`
	Totals    *BudgetTotals       `json:"totals,omitempty"`
}

type BudgetLineItemDTO struct {
	ID               uuid.UUID         `json:"id"`
	BudgetID         uuid.UUID         `json:"budgetId"`
	Category         string            `json:"category"`
	Subcategory      string            `json:"subcategory,omitempty"`
	LineItemCode     string            `json:"lineItemCode"`
	LineItemName     string            `json:"lineItemName"`
	BudgetAmount     float64           `json:"budgetAmount"`
	ActualAmount     float64           `json:"actualAmount"`
	CommittedAmount  float64           `json:"committedAmount"`
	Variance         float64           `json:"variance"`
	CalculationType  CalculationType   `json:"calculationType"`
	CalculationBasis *CalculationBasis `json:"calculationBasis,omitempty"`
	PercentageRate   *float64          `json:"percentageRate,omitempty"`
	IsFromTemplate   bool              `json:"isFromTemplate"`
	IsFromPlan       bool              `json:"isFromPlan"`
	SortOrder        int               `json:"sortOrder"`
	CreatedAt        string            `json:"createdAt"`
	UpdatedAt        string            `json:"updatedAt"`
}

type ChangeOrderDTO struct {
	ID                  uuid.UUID         `json:"id"`
	ProjectID           uuid.UUID         `json:"projectId"`
	BudgetID            uuid.UUID         `json:"budgetId"`
	CONumber            int               `json:"coNumber"`
	Title               string            `json:"title"`
	Description         string            `json:"description,omitempty"`
	Reason              ChangeOrderReason `json:"reason"`
	ContractorID        string            `json:"contractorId,omitempty"`
	ContractorName      string            `json:"contractorName,omitempty"`
	ContractorReference string            `json:"contractorReference,omitempty"`
	Amount              float64           `json:"amount"`
	BudgetLineItemID    *uuid.UUID        `json:"budgetLineItemId,omitempty"`
	SubmittedDate       string            `json:"submittedDate,omitempty"`
	ApprovalDeadline    string            `json:"approvalDeadline,omitempty"`
	Status              ChangeOrderStatus `json:"status"`
	ApprovedDate        string            `json:"approvedDate,omitempty"`
	ApprovedBy          string            `json:"approvedBy,omitempty"`
	ApprovalNotes       string            `json:"approvalNotes,omitempty"`
	DenialReason        string            `json:"denialReason,omitempty"`
	IsPaid              bool              `json:"isPaid"`
	PaidDate            string            `json:"paidDate,omitempty"`
	PaidAmount          *float64          `json:"paidAmount,omitempty"`
	Notes               string            `json:"notes,omitempty"`
	CreatedBy           string            `json:"createdBy,omitempty"`
	Documents           []ChangeOrderDocumentDTO `json:"documents,omitempty"`
	CreatedAt           string            `json:"createdAt"`
	UpdatedAt           string            `json:"updatedAt"`
}

type ChangeOrderDocumentDTO struct {
	ID            uuid.UUID    `json:"id"`
	ChangeOrderID uuid.UUID    `json:"changeOrderId"`
	DocumentType  DocumentType `json:"documentType"`
	FileName      string       `json:"fileName"`
	FileSize      int64        `json:"fileSize"`
	UploadedAt    string       `json:"uploadedAt"`
}

// ErrorResponse represents an API error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code,omitempty"`
}

// API Response wrapper
type APIResponse struct {
	Data    interface{} `json:"data,omitempty"`
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
}

// Request DTOs

type CreateProjectRequest struct {
	Name string `json:"name" validate:"required,max=200"`
}

type CreatePlanRequest struct {
	Name          string                      `json:"name" validate:"required,max=200"`
	Description   string                      `json:"description,omitempty"`
	SquareFootage int                         `json:"squareFootage" validate:"gte=0"`
	Bedrooms      int                         `json:"bedrooms,omitempty" validate:"gte=0"`
	Bathrooms     float64                     `json:"bathrooms,omitempty" validate:"gte=0"`
	GarageSpaces  int                         `json:"garageSpaces,omitempty" validate:"gte=0"`
	Stories       int                         `json:"stories,omitempty" validate:"gte=0"`
	ProjectTypes  []string                    `json:"projectTypes,omitempty"`
	BaseCost      float64                     `json:"baseCost,omitempty" validate:"gte=0"`
	CostPerSF     float64                     `json:"costPerSf,omitempty" validate:"gte=0"`
	IsActive      *bool                       `json:"isActive,omitempty"`
	CostLines     []CreatePlanCostLineRequest `json:"costLines,omitempty" validate:"dive"`
}

type UpdatePlanRequest struct {
	Name          string                      `json:"name" validate:"required,max=200"`
	Description   string                      `json:"description,omitempty"`
	SquareFootage int                         `json:"squareFootage" validate:"gte=0"`
	Bedrooms      int                         `json:"bedrooms,omitempty" validate:"gte=0"`
	Bathrooms     float64                     `json:"bathrooms,omitempty" validate:"gte=0"`
	GarageSpaces  int                         `json:"garageSpaces,omitempty" validate:"gte=0"`
	Stories       int                         `json:"stories,omitempty" validate:"gte=0"`
	ProjectTypes  []string                    `json:"projectTypes,omitempty"`
	BaseCost      float64                     `json:"baseCost,omitempty" validate:"gte=0"`
	CostPerSF     float64                     `json:"costPerSf,omitempty" validate:"gte=0"`
	IsActive      *bool                       `json:"isActive,omitempty"`
	CostLines     []CreatePlanCostLineRequest `json:"costLines,omitempty" validate:"dive"`
}

type CreatePlanCostLineRequest struct {
	CategoryKey  string  `json:"categoryKey" validate:"required,max=100"`
	Amount       float64 `json:"amount" validate:"gte=0"`
	DisplayOrder int     `json:"displayOrder,omitempty" validate:"gte=0"`
}

// CreateBudgetRequest creates a new budget version for a project. The version
// number is always assigned server side; an omitted name defaults to
// "{project name} - Budget - V{version}".
type CreateBudgetRequest struct {
	ProjectID  uuid.UUID  `json:"projectId" validate:"required"`
	BudgetName string     `json:"budgetName,omitempty" validate:"omitempty,max=200"`
	PlanID     *uuid.UUID `json:"planId,omitempty"`
	TemplateID *uuid.UUID `json:"templateId,omitempty"`
	Activate   bool       `json:"activate,omitempty"`
}

type UpdateBudgetRequest struct {
	BudgetName string       `json:"budgetName" validate:"required,max=200"`
	Status     BudgetStatus `json:"status,omitempty"`
}

type CreateLineItemRequest struct {
	Category         string            `json:"category" validate:"required,max=100"`
	Subcategory      string            `json:"subcategory,omitempty" validate:"max=100"`
	LineItemCode     string            `json:"lineItemCode" validate:"required,max=50"`
	LineItemName     string            `json:"lineItemName" validate:"required,max=200"`
	BudgetAmount     float64           `json:"budgetAmount,omitempty"`
	CalculationType  CalculationType   `json:"calculationType,omitempty"`
	CalculationBasis *CalculationBasis `json:"calculationBasis,omitempty"`
	PercentageRate   *float64          `json:"percentageRate,omitempty" validate:"omitempty,gte=0,lte=100"`
	SortOrder        int               `json:"sortOrder,omitempty" validate:"gte=0"`
}

type UpdateLineItemRequest struct {
	Category         string            `json:"category" validate:"required,max=100"`
	Subcategory      string            `json:"subcategory,omitempty" validate:"max=100"`
	LineItemCode     string            `json:"lineItemCode" validate:"required,max=50"`
	LineItemName     string            `json:"lineItemName" validate:"required,max=200"`
	BudgetAmount     float64           `json:"budgetAmount,omitempty"`
	ActualAmount     *float64          `json:"actualAmount,omitempty" validate:"omitempty,gte=0"`
	CalculationType  CalculationType   `json:"calculationType,omitempty"`
	CalculationBasis *CalculationBasis `json:"calculationBasis,omitempty"`
	PercentageRate   *float64          `json:"percentageRate,omitempty" validate:"omitempty,gte=0,lte=100"`
	SortOrder        int               `json:"sortOrder,omitempty" validate:"gte=0"`
}

// BulkCreateLineItemsRequest inserts several line items atomically. Either
// every item lands or none do.
type BulkCreateLineItemsRequest struct {
	Items []CreateLineItemRequest `json:"items" validate:"required,min=1,dive"`
}

type CreateChangeOrderRequest struct {
	ProjectID           uuid.UUID         `json:"projectId" validate:"required"`
	BudgetID            uuid.UUID         `json:"budgetId" validate:"required"`
	Title               string            `json:"title" validate:"required,max=200"`
	Description         string            `json:"description,omitempty"`
	Reason              ChangeOrderReason `json:"reason" validate:"required"`
	ContractorID        string            `json:"contractorId,omitempty" validate:"max=100"`
	ContractorName      string            `json:"contractorName" validate:"required,max=200"`
	ContractorReference string            `json:"contractorReference,omitempty" validate:"max=100"`
	Amount              float64           `json:"amount" validate:"required"`
	BudgetLineItemID    *uuid.UUID        `json:"budgetLineItemId,omitempty"`
	SubmittedDate       *time.Time        `json:"submittedDate,omitempty"`
	ApprovalDeadline    *time.Time        `json:"approvalDeadline,omitempty"`
	Notes               string            `json:"notes,omitempty"`
}

// UpdateChangeOrderRequest edits a pending change order. Status, numbering
// and payment fields move through their own endpoints.
type UpdateChangeOrderRequest struct {
	Title               string            `json:"title" validate:"required,max=200"`
	Description         string            `json:"description,omitempty"`
	Reason              ChangeOrderReason `json:"reason" validate:"required"`
	ContractorID        string            `json:"contractorId,omitempty" validate:"max=100"`
	ContractorName      string            `json:"contractorName" validate:"required,max=200"`
	ContractorReference string            `json:"contractorReference,omitempty" validate:"max=100"`
	Amount              float64           `json:"amount" validate:"required"`
	BudgetLineItemID    *uuid.UUID        `json:"budgetLineItemId,omitempty"`
	SubmittedDate       *time.Time        `json:"submittedDate,omitempty"`
	ApprovalDeadline    *time.Time        `json:"approvalDeadline,omitempty"`
	Notes               string            `json:"notes,omitempty"`
}

type ApproveChangeOrderRequest struct {
	ApprovalNotes string `json:"approvalNotes,omitempty" validate:"max=500"`
}

type DenyChangeOrderRequest struct {
	DenialReason string `json:"denialReason" validate:"required,max=500"`
}

// MarkChangeOrderPaidRequest records payment of an approved change order.
// PaidAmount defaults to the change order amount when omitted.
type MarkChangeOrderPaidRequest struct {
	PaidAmount *float64   `json:"paidAmount,omitempty" validate:"omitempty,gte=0"`
	PaidDate   *time.Time `json:"paidDate,omitempty"`
}
