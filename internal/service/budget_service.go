package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/crestline-dev/budget-api/internal/domain"
	"github.com/crestline-dev/budget-api/internal/mapper"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// BudgetStore is the persistence surface the budget service depends on
type BudgetStore interface {
	CreateWithNextVersion(ctx context.Context, budget *domain.ProjectBudget, seedItems []domain.BudgetLineItem, activate bool) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.ProjectBudget, error)
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]domain.ProjectBudget, error)
	GetActive(ctx context.Context, projectID uuid.UUID) (*domain.ProjectBudget, error)
	SetActive(ctx context.Context, projectID, budgetID uuid.UUID) error
	UpdateMeta(ctx context.Context, id uuid.UUID, name string, status domain.BudgetStatus) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountChangeOrders(ctx context.Context, budgetID uuid.UUID) (int, error)
}

// LineItemStore is the persistence surface for budget line items
type LineItemStore interface {
	ListByBudget(ctx context.Context, budgetID uuid.UUID) ([]domain.BudgetLineItem, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.BudgetLineItem, error)
	CodeExists(ctx context.Context, budgetID uuid.UUID, code string, excludeID *uuid.UUID) (bool, error)
	Create(ctx context.Context, item *domain.BudgetLineItem) error
	BulkCreate(ctx context.Context, items []domain.BudgetLineItem) error
	Update(ctx context.Context, item *domain.BudgetLineItem) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountActiveChangeOrders(ctx context.Context, lineItemID uuid.UUID) (int, error)
}

// ProjectStore is the minimal project surface the budget service needs
type ProjectStore interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

// LedgerChecker reports whether a budget has journal entries posted in the
// accounting ledger. A nil-safe no-op implementation is used when the ledger
// connection is disabled.
type LedgerChecker interface {
	HasPostedEntries(ctx context.Context, budgetID uuid.UUID) (bool, error)
}

// BudgetService handles business logic for budget versions and line items
type BudgetService struct {
	budgets   BudgetStore
	lineItems LineItemStore
	projects  ProjectStore
	plans     PlanStore
	templates TemplateStore
	ledger    LedgerChecker
	logger    *zap.Logger
}

// NewBudgetService creates a new BudgetService instance
func NewBudgetService(
	budgets BudgetStore,
	lineItems LineItemStore,
	projects ProjectStore,
	plans PlanStore,
	templates TemplateStore,
	ledger LedgerChecker,
	logger *zap.Logger,
) *BudgetService {
	return &BudgetService{
		budgets:   budgets,
		lineItems: lineItems,
		projects:  projects,
		plans:     plans,
		templates: templates,
		ledger:    ledger,
		logger:    logger,
	}
}

// Create creates a new budget version for a project. The version number is
// assigned server side under a project lock. When the request names a plan or
// a template (never both), its expansion seeds the line items in the same
// transaction as the budget insert.
func (s *BudgetService) Create(ctx context.Context, req *domain.CreateBudgetRequest, createdBy string) (*domain.ProjectBudgetDetailDTO, error) {
	if req.PlanID != nil && req.TemplateID != nil {
		return nil, ErrSeedSourceConflict
	}

	exists, err := s.projects.Exists(ctx, req.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to check project: %w", err)
	}
	if !exists {
		return nil, ErrProjectNotFound
	}

	var drafts []domain.DraftLineItem
	if req.PlanID != nil {
		plan, err := s.plans.GetByID(ctx, *req.PlanID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrPlanNotFound
			}
			return nil, fmt.Errorf("failed to get plan: %w", err)
		}
		drafts = domain.ExpandPlanCostBreakdown(plan)
	}
	if req.TemplateID != nil {
		tpl, err := s.templates.GetByID(ctx, *req.TemplateID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrTemplateNotFound
			}
			return nil, fmt.Errorf("failed to get template: %w", err)
		}
		drafts = domain.ExpandTemplate(tpl)
	}

	seedItems := make([]domain.BudgetLineItem, len(drafts))
	for i, d := range drafts {
		seedItems[i] = domain.BudgetLineItem{
			Category:        d.Category,
			Subcategory:     d.Subcategory,
			LineItemCode:    d.LineItemCode,
			LineItemName:    d.LineItemName,
			BudgetAmount:    d.BudgetAmount,
			CalculationType: domain.CalculationTypeFixed,
			IsFromTemplate:  d.IsFromTemplate,
			IsFromPlan:      d.IsFromPlan,
			SortOrder:       d.SortOrder,
		}
	}

	budget := &domain.ProjectBudget{
		ProjectID:  req.ProjectID,
		BudgetName: req.BudgetName,
		PlanID:     req.PlanID,
		TemplateID: req.TemplateID,
		Status:     domain.BudgetStatusDraft,
		CreatedBy:  createdBy,
	}

	if err := s.budgets.CreateWithNextVersion(ctx, budget, seedItems, req.Activate); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to create budget: %w", err)
	}

	s.logger.Info("Budget version created",
		zap.String("budget_id", budget.ID.String()),
		zap.String("project_id", budget.ProjectID.String()),
		zap.Int("version_number", budget.VersionNumber),
		zap.Int("seeded_items", len(seedItems)),
	)

	return s.GetByID(ctx, budget.ID)
}

// GetByID retrieves a budget with resolved line items and computed totals
func (s *BudgetService) GetByID(ctx context.Context, id uuid.UUID) (*domain.ProjectBudgetDetailDTO, error) {
	budget, err := s.budgets.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBudgetNotFound
		}
		return nil, fmt.Errorf("failed to get budget: %w", err)
	}

	return s.detailDTO(budget), nil
}

// GetActive retrieves the active budget for a project with computed totals
func (s *BudgetService) GetActive(ctx context.Context, projectID uuid.UUID) (*domain.ProjectBudgetDetailDTO, error) {
	budget, err := s.budgets.GetActive(ctx, projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoActiveBudget
		}
		return nil, fmt.Errorf("failed to get active budget: %w", err)
	}

	return s.detailDTO(budget), nil
}

// ListByProject returns all budget versions for a project, newest first,
// each with totals computed from its line items
func (s *BudgetService) ListByProject(ctx context.Context, projectID uuid.UUID) ([]domain.ProjectBudgetDTO, error) {
	budgets, err := s.budgets.ListByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list budgets: %w", err)
	}

	dtos := make([]domain.ProjectBudgetDTO, len(budgets))
	for i := range budgets {
		items, err := s.lineItems.ListByBudget(ctx, budgets[i].ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load line items: %w", err)
		}
		_, totals := resolveAndAggregate(items)
		budgets[i].TotalBudget = totals.TotalBudget
		budgets[i].TotalActual = totals.TotalActual
		budgets[i].TotalCommitted = totals.TotalCommitted
		budgets[i].TotalVariance = totals.TotalVariance
		dtos[i] = mapper.ToProjectBudgetDTO(&budgets[i])
	}
	return dtos, nil
}

// SetActive makes the given budget its project's active version
func (s *BudgetService) SetActive(ctx context.Context, projectID, budgetID uuid.UUID) (*domain.ProjectBudgetDetailDTO, error) {
	if err := s.budgets.SetActive(ctx, projectID, budgetID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBudgetNotFound
		}
		return nil, fmt.Errorf("failed to activate budget: %w", err)
	}

	s.logger.Info("Budget activated",
		zap.String("budget_id", budgetID.String()),
		zap.String("project_id", projectID.String()),
	)

	return s.GetByID(ctx, budgetID)
}

// Update edits a budget's name and status. Version number, project and seed
// source are immutable once created.
func (s *BudgetService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateBudgetRequest) (*domain.ProjectBudgetDetailDTO, error) {
	status := req.Status
	if status == "" {
		existing, err := s.budgets.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrBudgetNotFound
			}
			return nil, fmt.Errorf("failed to get budget: %w", err)
		}
		status = existing.Status
	} else if !status.IsValid() {
		return nil, fmt.Errorf("%w: unknown budget status %q", ErrInvalidInput, status)
	}

	if err := s.budgets.UpdateMeta(ctx, id, req.BudgetName, status); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBudgetNotFound
		}
		return nil, fmt.Errorf("failed to update budget: %w", err)
	}

	return s.GetByID(ctx, id)
}

// Delete removes a budget version. Refused when the accounting ledger has
// journal entries posted against it; the deleted version number is never
// reissued.
func (s *BudgetService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.budgets.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBudgetNotFound
		}
		return fmt.Errorf("failed to get budget: %w", err)
	}

	if s.ledger != nil {
		posted, err := s.ledger.HasPostedEntries(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to check ledger entries: %w", err)
		}
		if posted {
			return ErrBudgetHasPostedEntries
		}
	}

	if err := s.budgets.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBudgetNotFound
		}
		return fmt.Errorf("failed to delete budget: %w", err)
	}

	s.logger.Info("Budget deleted", zap.String("budget_id", id.String()))
	return nil
}

// ListLineItems returns a budget's line items with percentage amounts resolved
func (s *BudgetService) ListLineItems(ctx context.Context, budgetID uuid.UUID) ([]domain.BudgetLineItemDTO, error) {
	if _, err := s.budgets.GetByID(ctx, budgetID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBudgetNotFound
		}
		return nil, fmt.Errorf("failed to get budget: %w", err)
	}

	items, err := s.lineItems.ListByBudget(ctx, budgetID)
	if err != nil {
		return nil, fmt.Errorf("failed to list line items: %w", err)
	}

	resolved, _ := resolveAndAggregate(items)
	dtos := make([]domain.BudgetLineItemDTO, len(resolved))
	for i, item := range resolved {
		dtos[i] = mapper.ToBudgetLineItemDTO(item)
	}
	return dtos, nil
}

// CreateLineItem adds a line item to a budget. The code must be unique within
// the budget; percentage items must name a basis and a rate.
func (s *BudgetService) CreateLineItem(ctx context.Context, budgetID uuid.UUID, req *domain.CreateLineItemRequest) (*domain.BudgetLineItemDTO, error) {
	if _, err := s.budgets.GetByID(ctx, budgetID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBudgetNotFound
		}
		return nil, fmt.Errorf("failed to get budget: %w", err)
	}

	calcType := req.CalculationType
	if calcType == "" {
		calcType = domain.CalculationTypeFixed
	}
	if err := validateCalculation(calcType, req.CalculationBasis, req.PercentageRate); err != nil {
		return nil, err
	}

	exists, err := s.lineItems.CodeExists(ctx, budgetID, req.LineItemCode, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to check line item code: %w", err)
	}
	if exists {
		return nil, ErrDuplicateLineItemCode
	}

	item := &domain.BudgetLineItem{
		BudgetID:         budgetID,
		Category:         req.Category,
		Subcategory:      req.Subcategory,
		LineItemCode:     req.LineItemCode,
		LineItemName:     req.LineItemName,
		BudgetAmount:     req.BudgetAmount,
		CalculationType:  calcType,
		CalculationBasis: req.CalculationBasis,
		PercentageRate:   req.PercentageRate,
		SortOrder:        req.SortOrder,
	}

	if err := s.lineItems.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to create line item: %w", err)
	}

	dto := mapper.ToBudgetLineItemDTO(item)
	return &dto, nil
}

// BulkCreateLineItems inserts several line items atomically. Codes are
// validated against the budget and against each other before the insert;
// one bad item rejects the whole batch.
func (s *BudgetService) BulkCreateLineItems(ctx context.Context, budgetID uuid.UUID, req *domain.BulkCreateLineItemsRequest) ([]domain.BudgetLineItemDTO, error) {
	if _, err := s.budgets.GetByID(ctx, budgetID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBudgetNotFound
		}
		return nil, fmt.Errorf("failed to get budget: %w", err)
	}

	seen := make(map[string]bool, len(req.Items))
	items := make([]domain.BudgetLineItem, len(req.Items))
	for i, itemReq := range req.Items {
		if seen[itemReq.LineItemCode] {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateLineItemCode, itemReq.LineItemCode)
		}
		seen[itemReq.LineItemCode] = true

		exists, err := s.lineItems.CodeExists(ctx, budgetID, itemReq.LineItemCode, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to check line item code: %w", err)
		}
		if exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateLineItemCode, itemReq.LineItemCode)
		}

		calcType := itemReq.CalculationType
		if calcType == "" {
			calcType = domain.CalculationTypeFixed
		}
		if err := validateCalculation(calcType, itemReq.CalculationBasis, itemReq.PercentageRate); err != nil {
			return nil, err
		}

		items[i] = domain.BudgetLineItem{
			BudgetID:         budgetID,
			Category:         itemReq.Category,
			Subcategory:      itemReq.Subcategory,
			LineItemCode:     itemReq.LineItemCode,
			LineItemName:     itemReq.LineItemName,
			BudgetAmount:     itemReq.BudgetAmount,
			CalculationType:  calcType,
			CalculationBasis: itemReq.CalculationBasis,
			PercentageRate:   itemReq.PercentageRate,
			SortOrder:        itemReq.SortOrder,
		}
	}

	if err := s.lineItems.BulkCreate(ctx, items); err != nil {
		return nil, fmt.Errorf("failed to bulk create line items: %w", err)
	}

	dtos := make([]domain.BudgetLineItemDTO, len(items))
	for i := range items {
		dtos[i] = mapper.ToBudgetLineItemDTO(&items[i])
	}
	return dtos, nil
}

// UpdateLineItem edits a line item. Committed amount is workflow-owned and
// never writable here; actual amount accepts direct cost postings.
func (s *BudgetService) UpdateLineItem(ctx context.Context, budgetID, itemID uuid.UUID, req *domain.UpdateLineItemRequest) (*domain.BudgetLineItemDTO, error) {
	item, err := s.lineItems.GetByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLineItemNotFound
		}
		return nil, fmt.Errorf("failed to get line item: %w", err)
	}
	if item.BudgetID != budgetID {
		return nil, ErrLineItemNotFound
	}

	calcType := req.CalculationType
	if calcType == "" {
		calcType = item.CalculationType
	}
	if err := validateCalculation(calcType, req.CalculationBasis, req.PercentageRate); err != nil {
		return nil, err
	}

	if req.LineItemCode != item.LineItemCode {
		exists, err := s.lineItems.CodeExists(ctx, budgetID, req.LineItemCode, &itemID)
		if err != nil {
			return nil, fmt.Errorf("failed to check line item code: %w", err)
		}
		if exists {
			return nil, ErrDuplicateLineItemCode
		}
	}

	item.Category = req.Category
	item.Subcategory = req.Subcategory
	item.LineItemCode = req.LineItemCode
	item.LineItemName = req.LineItemName
	item.BudgetAmount = req.BudgetAmount
	item.CalculationType = calcType
	item.CalculationBasis = req.CalculationBasis
	item.PercentageRate = req.PercentageRate
	item.SortOrder = req.SortOrder
	if req.ActualAmount != nil {
		item.ActualAmount = *req.ActualAmount
	}

	if err := s.lineItems.Update(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to update line item: %w", err)
	}

	dto := mapper.ToBudgetLineItemDTO(item)
	return &dto, nil
}

// DeleteLineItem removes a line item unless active change orders reference it
func (s *BudgetService) DeleteLineItem(ctx context.Context, budgetID, itemID uuid.UUID) error {
	item, err := s.lineItems.GetByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrLineItemNotFound
		}
		return fmt.Errorf("failed to get line item: %w", err)
	}
	if item.BudgetID != budgetID {
		return ErrLineItemNotFound
	}

	count, err := s.lineItems.CountActiveChangeOrders(ctx, itemID)
	if err != nil {
		return fmt.Errorf("failed to count change orders: %w", err)
	}
	if count > 0 {
		return ErrLineItemHasChangeOrders
	}

	if err := s.lineItems.Delete(ctx, itemID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrLineItemNotFound
		}
		return fmt.Errorf("failed to delete line item: %w", err)
	}
	return nil
}

func (s *BudgetService) detailDTO(budget *domain.ProjectBudget) *domain.ProjectBudgetDetailDTO {
	resolved, totals := resolveAndAggregate(budget.LineItems)
	budget.TotalBudget = totals.TotalBudget
	budget.TotalActual = totals.TotalActual
	budget.TotalCommitted = totals.TotalCommitted
	budget.TotalVariance = totals.TotalVariance

	dto := mapper.ToProjectBudgetDetailDTO(budget, resolved, totals)
	return &dto
}

// resolveAndAggregate resolves percentage items and computes totals over a
// budget's line items
func resolveAndAggregate(items []domain.BudgetLineItem) ([]*domain.BudgetLineItem, domain.BudgetTotals) {
	resolved := make([]*domain.BudgetLineItem, len(items))
	for i := range items {
		resolved[i] = &items[i]
	}
	domain.ResolvePercentageItems(resolved)
	return resolved, domain.AggregateLineItems(resolved)
}

func validateCalculation(calcType domain.CalculationType, basis *domain.CalculationBasis, rate *float64) error {
	if !calcType.IsValid() {
		return fmt.Errorf("%w: unknown calculation type %q", ErrInvalidInput, calcType)
	}
	if calcType == domain.CalculationTypePercentage {
		if basis == nil || rate == nil {
			return fmt.Errorf("%w: percentage items require calculationBasis and percentageRate", ErrInvalidInput)
		}
		if !basis.IsValid() {
			return fmt.Errorf("%w: unknown calculation basis %q", ErrInvalidInput, *basis)
		}
	}
	return nil
}
