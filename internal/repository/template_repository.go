package repository

import (
	"context"

	"github.com/crestline-dev/budget-api/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TemplateRepository handles database operations for budget templates
type TemplateRepository struct {
	db *gorm.DB
}

// NewTemplateRepository creates a new TemplateRepository instance
func NewTemplateRepository(db *gorm.DB) *TemplateRepository {
	return &TemplateRepository{db: db}
}

// Create inserts a new template with its categories and items
func (r *TemplateRepository) Create(ctx context.Context, tpl *domain.BudgetTemplate) error {
	return r.db.WithContext(ctx).Create(tpl).Error
}

// GetByID retrieves a template with categories and items in authored order
func (r *TemplateRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.BudgetTemplate, error) {
	var tpl domain.BudgetTemplate
	err := r.db.WithContext(ctx).
		Preload("Categories", func(db *gorm.DB) *gorm.DB {
			return db.Order("display_order ASC")
		}).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		}).
		Where("id = ?", id).
		First(&tpl).Error
	if err != nil {
		return nil, err
	}
	return &tpl, nil
}

// List returns all active templates ordered by name, without children
func (r *TemplateRepository) List(ctx context.Context) ([]domain.BudgetTemplate, error) {
	var templates []domain.BudgetTemplate
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("name ASC").
		Find(&templates).Error
	return templates, err
}
