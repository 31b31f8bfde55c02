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

// ProjectCatalogStore is the persistence surface for the project registry
type ProjectCatalogStore interface {
	Create(ctx context.Context, project *domain.Project) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Project, error)
	List(ctx context.Context) ([]domain.Project, error)
}

// ProjectService maintains the project registry that budgets and change
// orders hang off. Projects themselves are thin here; scheduling, lots and
// buyers live in other systems.
type ProjectService struct {
	store  ProjectCatalogStore
	logger *zap.Logger
}

// NewProjectService creates a new ProjectService instance
func NewProjectService(store ProjectCatalogStore, logger *zap.Logger) *ProjectService {
	return &ProjectService{
		store:  store,
		logger: logger,
	}
}

// Create registers a new project
func (s *ProjectService) Create(ctx context.Context, req *domain.CreateProjectRequest) (*domain.ProjectDTO, error) {
	project := &domain.Project{Name: req.Name}
	if err := s.store.Create(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	s.logger.Info("Project created",
		zap.String("project_id", project.ID.String()),
		zap.String("name", project.Name),
	)

	dto := mapper.ToProjectDTO(project)
	return &dto, nil
}

// GetByID retrieves a project
func (s *ProjectService) GetByID(ctx context.Context, id uuid.UUID) (*domain.ProjectDTO, error) {
	project, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	dto := mapper.ToProjectDTO(project)
	return &dto, nil
}

// List returns all projects
func (s *ProjectService) List(ctx context.Context) ([]domain.ProjectDTO, error) {
	projects, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}

	dtos := make([]domain.ProjectDTO, len(projects))
	for i := range projects {
		dtos[i] = mapper.ToProjectDTO(&projects[i])
	}
	return dtos, nil
}
