package handler

import (
	"encoding/json"
	"net/http"

	"github.com/crestline-dev/budget-api/internal/auth"
	"github.com/crestline-dev/budget-api/internal/domain"
	"github.com/crestline-dev/budget-api/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BudgetHandler handles HTTP requests for project budget versions and their
// line items
type BudgetHandler struct {
	budgetService *service.BudgetService
	logger        *zap.Logger
}

// NewBudgetHandler creates a new BudgetHandler instance
func NewBudgetHandler(budgetService *service.BudgetService, logger *zap.Logger) *BudgetHandler {
	return &BudgetHandler{
		budgetService: budgetService,
		logger:        logger,
	}
}

// Create creates a new budget version for a project
// @Summary Create budget version
// @Description Create a new budget version, optionally seeded from a plan or template
// @Tags budgets
// @Accept json
// @Produce json
// @Param id path string true "Project ID"
// @Param request body domain.CreateBudgetRequest true "Budget details"
// @Success 201 {object} domain.ProjectBudgetDetailDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Failure 500 {object} domain.APIError
// @Router /projects/{id}/budgets [post]
// @Security BearerAuth
func (h *BudgetHandler) Create(w http.ResponseWriter, r *http.Request) {
	projectID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid project ID")
		return
	}

	var req domain.CreateBudgetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.ProjectID = projectID

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	budget, err := h.budgetService.Create(r.Context(), &req, auth.ActorName(r.Context()))
	if err != nil {
		respondServiceError(w, h.logger, err, "create budget")
		return
	}

	respondJSON(w, http.StatusCreated, budget)
}

// ListByProject returns all budget versions for a project
// @Summary List project budgets
// @Description Get all budget versions for a project, newest first
// @Tags budgets
// @Accept json
// @Produce json
// @Param id path string true "Project ID"
// @Success 200 {array} domain.ProjectBudgetDTO
// @Failure 400 {object} domain.APIError
// @Failure 500 {object} domain.APIError
// @Router /projects/{id}/budgets [get]
// @Security BearerAuth
func (h *BudgetHandler) ListByProject(w http.ResponseWriter, r *http.Request) {
	projectID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid project ID")
		return
	}

	budgets, err := h.budgetService.ListByProject(r.Context(), projectID)
	if err != nil {
		respondServiceError(w, h.logger, err, "list budgets")
		return
	}

	respondJSON(w, http.StatusOK, budgets)
}

// GetActive returns the active budget version for a project
// @Summary Get active budget
// @Description Get the currently active budget version for a project with totals
// @Tags budgets
// @Accept json
// @Produce json
// @Param id path string true "Project ID"
// @Success 200 {object} domain.ProjectBudgetDetailDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Failure 500 {object} domain.APIError
// @Router /projects/{id}/budgets/active [get]
// @Security BearerAuth
func (h *BudgetHandler) GetActive(w http.ResponseWriter, r *http.Request) {
	projectID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid project ID")
		return
	}

	budget, err := h.budgetService.GetActive(r.Context(), projectID)
	if err != nil {
		respondServiceError(w, h.logger, err, "get active budget")
		return
	}

	respondJSON(w, http.StatusOK, budget)
}

// Activate flips the active flag to the named budget version
// @Summary Activate budget version
// @Description Make the named budget version the project's active one; the previous active version is deactivated atomically
// @Tags budgets
// @Accept json
// @Produce json
// @Param id path string true "Project ID"
// @Param budgetId path string true "Budget ID"
// @Success 200 {object} domain.ProjectBudgetDetailDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Failure 500 {object} domain.APIError
// @Router /projects/{id}/budgets/{budgetId}/activate [put]
// @Security BearerAuth
func (h *BudgetHandler) Activate(w http.ResponseWriter, r *http.Request) {
	projectID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid project ID")
		return
	}
	budgetID, err := uuid.Parse(chi.URLParam(r, "budgetId"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid budget ID")
		return
	}

	budget, err := h.budgetService.SetActive(r.Context(), projectID, budgetID)
	if err != nil {
		respondServiceError(w, h.logger, err, "activate budget")
		return
	}

	respondJSON(w, http.StatusOK, budget)
}

// Get returns a budget version with resolved line items and totals
// @Summary Get budget
// @Description Get a budget version by ID including resolved line items and category totals
// @Tags budgets
// @Accept json
// @Produce json
// @Param id path string true "Budget ID"
// @Success 200 {object} domain.ProjectBudgetDetailDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Failure 500 {object} domain.APIError
// @Router /budgets/{id} [get]
// @Security BearerAuth
func (h *BudgetHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid budget ID")
		return
	}

	budget, err := h.budgetService.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err, "get budget")
		return
	}

	respondJSON(w, http.StatusOK, budget)
}

// Update edits budget metadata
// @Summary Update budget
// @Description Update a budget version's name or status
// @Tags budgets
// @Accept json
// @Produce json
// @Param id path string true "Budget ID"
// @Param request body domain.UpdateBudgetRequest true "Updated budget details"
// @Success 200 {object} domain.ProjectBudgetDetailDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Failure 500 {object} domain.APIError
// @Router /budgets/{id} [put]
// @Security BearerAuth
func (h *BudgetHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid budget ID")
		return
	}

	var req domain.UpdateBudgetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	budget, err := h.budgetService.Update(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "update budget")
		return
	}

	respondJSON(w, http.StatusOK, budget)
}

// Delete removes a budget version
// @Summary Delete budget
// @Description Delete a budget version; refused when the accounting ledger has posted entries against it
// @Tags budgets
// @Accept json
// @Produce json
// @Param id path string true "Budget ID"
// @Success 204 "No Content"
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Failure 409 {object} domain.APIError
// @Failure 500 {object} domain.APIError
// @Router /budgets/{id} [delete]
// @Security BearerAuth
func (h *BudgetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid budget ID")
		return
	}

	if err := h.budgetService.Delete(r.Context(), id); err != nil {
		respondServiceError(w, h.logger, err, "delete budget")
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}

// ListLineItems returns a budget's line items with percentage amounts resolved
// @Summary List budget line items
// @Description Get all line items of a budget with percentage-based amounts resolved
// @Tags budgets,line-items
// @Accept json
// @Produce json
// @Param id path string true "Budget ID"
// @Success 200 {array} domain.BudgetLineItemDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Failure 500 {object} domain.APIError
// @Router /budgets/{id}/line-items [get]
// @Security BearerAuth
func (h *BudgetHandler) ListLineItems(w http.ResponseWriter, r *http.Request) {
	budgetID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid budget ID")
		return
	}

	items, err := h.budgetService.ListLineItems(r.Context(), budgetID)
	if err != nil {
		respondServiceError(w, h.logger, err, "list line items")
		return
	}

	respondJSON(w, http.StatusOK, items)
}

// CreateLineItem adds a single line item to a budget
// @Summary Create line item
// @Description Add a line item to a budget; the code must be unique within the budget
// @Tags budgets,line-items
// @Accept json
// @Produce json
// @Param id path string true "Budget ID"
// @Param request body domain.CreateLineItemRequest true "Line item details"
// @Success 201 {object} domain.BudgetLineItemDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Failure 409 {object} domain.APIError
// @Failure 500 {object} domain.APIError
// @Router /budgets/{id}/line-items [post]
// @Security BearerAuth
func (h *BudgetHandler) CreateLineItem(w http.ResponseWriter, r *http.Request) {
	budgetID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid budget ID")
		return
	}

	var req domain.CreateLineItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	item, err := h.budgetService.CreateLineItem(r.Context(), budgetID, &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "create line item")
		return
	}

	respondJSON(w, http.StatusCreated, item)
}

// BulkCreateLineItems adds several line items in one transaction
// @Summary Bulk create line items
// @Description Add multiple line items to a budget atomically; any duplicate code rejects the whole batch
// @Tags budgets,line-items
// @Accept json
// @Produce json
// @Param id path string true "Budget ID"
// @Param request body domain.BulkCreateLineItemsRequest true "Line items"
// @Success 201 {array} domain.BudgetLineItemDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Failure 409 {object} domain.APIError
// @Failure 500 {object} domain.APIError
// @Router /budgets/{id}/line-items/bulk [post]
// @Security BearerAuth
func (h *BudgetHandler) BulkCreateLineItems(w http.ResponseWriter, r *http.Request) {
	budgetID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid budget ID")
		return
	}

	var req domain.BulkCreateLineItemsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	items, err := h.budgetService.BulkCreateLineItems(r.Context(), budgetID, &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "create line items")
		return
	}

	respondJSON(w, http.StatusCreated, items)
}

// UpdateLineItem edits a line item
// @Summary Update line item
// @Description Update a line item; committed amounts move only through the change order workflow
// @Tags budgets,line-items
// @Accept json
// @Produce json
// @Param id path string true "Budget ID"
// @Param itemId path string true "Line item ID"
// @Param request body domain.UpdateLineItemRequest true "Updated line item details"
// @Success 200 {object} domain.BudgetLineItemDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Failure 409 {object} domain.APIError
// @Failure 500 {object} domain.APIError
// @Router /budgets/{id}/line-items/{itemId} [put]
// @Security BearerAuth
func (h *BudgetHandler) UpdateLineItem(w http.ResponseWriter, r *http.Request) {
	budgetID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid budget ID")
		return
	}
	itemID, err := uuid.Parse(chi.URLParam(r, "itemId"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid line item ID")
		return
	}

	var req domain.UpdateLineItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	item, err := h.budgetService.UpdateLineItem(r.Context(), budgetID, itemID, &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "update line item")
		return
	}

	respondJSON(w, http.StatusOK, item)
}

// DeleteLineItem removes a line item
// @Summary Delete line item
// @Description Delete a line item; refused while pending or approved change orders reference it
// @Tags budgets,line-items
// @Accept json
// @Produce json
// @Param id path string true "Budget ID"
// @Param itemId path string true "Line item ID"
// @Success 204 "No Content"
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Failure 409 {object} domain.APIError
// @Failure 500 {object} domain.APIError
// @Router /budgets/{id}/line-items/{itemId} [delete]
// @Security BearerAuth
func (h *BudgetHandler) DeleteLineItem(w http.ResponseWriter, r *http.Request) {
	budgetID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid budget ID")
		return
	}
	itemID, err := uuid.Parse(chi.URLParam(r, "itemId"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid line item ID")
		return
	}

	if err := h.budgetService.DeleteLineItem(r.Context(), budgetID, itemID); err != nil {
		respondServiceError(w, h.logger, err, "delete line item")
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}
