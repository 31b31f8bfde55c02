package handler

import (
	"net/http"

	"github.com/crestline-dev/budget-api/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TemplateHandler handles HTTP requests for budget templates. Templates are
// maintained by the accounting team; this API only reads them as budget seeds.
type TemplateHandler struct {
	templateService *service.TemplateService
	logger          *zap.Logger
}

// NewTemplateHandler creates a new TemplateHandler instance
func NewTemplateHandler(templateService *service.TemplateService, logger *zap.Logger) *TemplateHandler {
	return &TemplateHandler{
		templateService: templateService,
		logger:          logger,
	}
}

// List returns all active budget templates
// @Summary List budget templates
// @Description Get all active budget templates with their categories and items
// @Tags templates
// @Accept json
// @Produce json
// @Success 200 {array} domain.BudgetTemplateDTO
// @Failure 500 {object} domain.APIError
// @Router /templates [get]
// @Security BearerAuth
func (h *TemplateHandler) List(w http.ResponseWriter, r *http.Request) {
	templates, err := h.templateService.List(r.Context())
	if err != nil {
		respondServiceError(w, h.logger, err, "list templates")
		return
	}

	respondJSON(w, http.StatusOK, templates)
}

// Get returns a single budget template
// @Summary Get budget template
// @Description Get a budget template by ID with its categories and items
// @Tags templates
// @Accept json
// @Produce json
// @Param id path string true "Template ID"
// @Success 200 {object} domain.BudgetTemplateDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Failure 500 {object} domain.APIError
// @Router /templates/{id} [get]
// @Security BearerAuth
func (h *TemplateHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid template ID")
		return
	}

	tpl, err := h.templateService.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err, "get template")
		return
	}

	respondJSON(w, http.StatusOK, tpl)
}
