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

// ProjectHandler handles HTTP requests for the project registry
type ProjectHandler struct {
	projectService *service.ProjectService
	logger         *zap.Logger
}

// NewProjectHandler creates a new ProjectHandler instance
func NewProjectHandler(projectService *service.ProjectService, logger *zap.Logger) *ProjectHandler {
	return &ProjectHandler{
		projectService: projectService,
		logger:         logger,
	}
}

// List returns all projects
// @Summary List projects
// @Tags projects
// @Accept json
// @Produce json
// @Success 200 {array} domain.ProjectDTO
// @Failure 500 {object} domain.APIError
// @Router /projects [get]
// @Security BearerAuth
func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	projects, err := h.projectService.List(r.Context())
	if err != nil {
		respondServiceError(w, h.logger, err, "list projects")
		return
	}

	respondJSON(w, http.StatusOK, projects)
}

// Get returns a single project
// @Summary Get project
// @Tags projects
// @Accept json
// @Produce json
// @Param id path string true "Project ID"
// @Success 200 {object} domain.ProjectDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Failure 500 {object} domain.APIError
// @Router /projects/{id} [get]
// @Security BearerAuth
func (h *ProjectHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid project ID")
		return
	}

	project, err := h.projectService.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err, "get project")
		return
	}

	respondJSON(w, http.StatusOK, project)
}

// Create registers a new project
// @Summary Create project
// @Tags projects
// @Accept json
// @Produce json
// @Param request body domain.CreateProjectRequest true "Project details"
// @Success 201 {object} domain.ProjectDTO
// @Failure 400 {object} domain.APIError
// @Failure 500 {object} domain.APIError
// @Router /projects [post]
// @Security BearerAuth
func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	project, err := h.projectService.Create(r.Context(), &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "create project")
		return
	}

	respondJSON(w, http.StatusCreated, project)
}
