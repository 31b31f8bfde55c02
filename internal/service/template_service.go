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

// TemplateStore is the persistence surface the template service depends on
type TemplateStore interface {
	Create(ctx context.Context, tpl *domain.BudgetTemplate) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.BudgetTemplate, error)
	List(ctx context.Context) ([]domain.BudgetTemplate, error)
}

// TemplateService handles business logic for budget templates
type TemplateService struct {
	store  TemplateStore
	logger *zap.Logger
}

// NewTemplateService creates a new TemplateService instance
func NewTemplateService(store TemplateStore, logger *zap.Logger) *TemplateService {
	return &TemplateService{store: store, logger: logger}
}

// List returns all active templates
func (s *TemplateService) List(ctx context.Context) ([]domain.BudgetTemplateDTO, error) {
	templates, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}

	dtos := make([]domain.BudgetTemplateDTO, len(templates))
	for i := range templates {
		dtos[i] = mapper.ToBudgetTemplateDTO(&templates[i])
	}
	return dtos, nil
}

// GetByID retrieves a template with categories and items
func (s *TemplateService) GetByID(ctx context.Context, id uuid.UUID) (*domain.BudgetTemplateDTO, error) {
	tpl, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTemplateNotFound
		}
		return nil, fmt.Errorf("failed to get template: %w", err)
	}

	dto := mapper.ToBudgetTemplateDTO(tpl)
	return &dto, nil
}
