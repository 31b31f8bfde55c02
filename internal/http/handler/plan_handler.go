package handler

import (
	"encoding/json"
	"net/http"

	"github.com/crestline-dev/budget-api/internal/domain"
	"github.com/crestline-dev/budget-api/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PlanHandler handles HTTP requests for the floor plan catalog
type PlanHandler struct {
	planService *service.PlanService
	logger      *zap.Logger
}

// NewPlanHandler creates a new PlanHandler instance
func NewPlanHandler(planService *service.PlanService, logger *zap.Logger) *PlanHandler {
	return &PlanHandler{
		planService: planService,
		logger:      logger,
	}
}

// List returns the active plan catalog
// @Summary List plans
// @Description Get all active floor plans, optionally filtered by project type
// @Tags plans
// @Accept json
// @Produce json
// @Param projectType query string false "Project type filter"
// @Success 200 {array} domain.PlanDTO
// @Failure 400 {object} domain.APIError
// @Failure 500 {object} domain.APIError
// @Router /plans [get]
// @Security BearerAuth
func (h *PlanHandler) List(w http.ResponseWriter, r *http.Request) {
	var projectType *domain.ProjectType
	if pt := r.URL.Query().Get("projectType"); pt != "" {
		t := domain.ProjectType(pt)
		if !t.IsValid() {
			respondWithError(w, http.StatusBadRequest, "Invalid project type")
			return
		}
		projectType = &t
	}

	plans, err := h.planService.List(r.Context(), projectType)
	if err != nil {
		respondServiceError(w, h.logger, err, "list plans")
		return
	}

	respondJSON(w, http.StatusOK, plans)
}

// Get returns a single plan with its cost breakdown
// @Summary Get plan
// @Description Get a floor plan by ID including its cost breakdown lines
// @Tags plans
// @Accept json
// @Produce json
// @Param id path string true "Plan ID"
// @Success 200 {object} domain.PlanDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Failure 500 {object} domain.APIError
// @Router /plans/{id} [get]
// @Security BearerAuth
func (h *PlanHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid plan ID")
		return
	}

	plan, err := h.planService.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err, "get plan")
		return
	}

	respondJSON(w, http.StatusOK, plan)
}

// Create adds a new plan to the catalog
// @Summary Create plan
// @Description Create a new floor plan with its cost breakdown
// @Tags plans
// @Accept json
// @Produce json
// @Param request body domain.CreatePlanRequest true "Plan details"
// @Success 201 {object} domain.PlanDTO
// @Failure 400 {object} domain.APIError
// @Failure 500 {object} domain.APIError
// @Router /plans [post]
// @Security BearerAuth
func (h *PlanHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreatePlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	plan, err := h.planService.Create(r.Context(), &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "create plan")
		return
	}

	respondJSON(w, http.StatusCreated, plan)
}

// Update edits a plan. Plans referenced by budgets are versioned
// copy-on-write so existing budgets keep their snapshot.
// @Summary Update plan
// @Description Update a floor plan; referenced plans are replaced with a new version
// @Tags plans
// @Accept json
// @Produce json
// @Param id path string true "Plan ID"
// @Param request body domain.UpdatePlanRequest true "Updated plan details"
// @Success 200 {object} domain.PlanDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Failure 500 {object} domain.APIError
// @Router /plans/{id} [put]
// @Security BearerAuth
func (h *PlanHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid plan ID")
		return
	}

	var req domain.UpdatePlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	plan, err := h.planService.Update(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "update plan")
		return
	}

	respondJSON(w, http.StatusOK, plan)
}

// Delete retires a plan from the catalog
// @Summary Delete plan
// @Description Delete a floor plan; plans referenced by budgets cannot be deleted
// @Tags plans
// @Accept json
// @Produce json
// @Param id path string true "Plan ID"
// @Success 204 "No Content"
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Failure 409 {object} domain.APIError
// @Failure 500 {object} domain.APIError
// @Router /plans/{id} [delete]
// @Security BearerAuth
func (h *PlanHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid plan ID")
		return
	}

	if err := h.planService.Delete(r.Context(), id); err != nil {
		respondServiceError(w, h.logger, err, "delete plan")
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}
