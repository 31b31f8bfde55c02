package repository

import (
	"context"
	"fmt"

	"github.com/crestline-dev/budget-api/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PlanRepository handles database operations for construction plans and
// their cost breakdowns
type PlanRepository struct {
	db *gorm.DB
}

// NewPlanRepository creates a new PlanRepository instance
func NewPlanRepository(db *gorm.DB) *PlanRepository {
	return &PlanRepository{db: db}
}

// Create inserts a new plan along with its cost lines
func (r *PlanRepository) Create(ctx context.Context, plan *domain.Plan) error {
	return r.db.WithContext(ctx).Create(plan).Error
}

// GetByID retrieves a plan with its cost lines in display order
func (r *PlanRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Plan, error) {
	var plan domain.Plan
	err := r.db.WithContext(ctx).
		Preload("CostLines", func(db *gorm.DB) *gorm.DB {
			return db.Order("display_order ASC")
		}).
		Where("id = ?", id).
		First(&plan).Error
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

// List returns active plans, optionally filtered to those tagged for a
// project type. Filtering happens in SQL against the text[] column.
func (r *PlanRepository) List(ctx context.Context, projectType *domain.ProjectType) ([]domain.Plan, error) {
	var plans []domain.Plan
	q := r.db.WithContext(ctx).
		Preload("CostLines", func(db *gorm.DB) *gorm.DB {
			return db.Order("display_order ASC")
		}).
		Where("is_active = ?", true)

	if projectType != nil {
		q = q.Where("? = ANY(project_types)", string(*projectType))
	}

	err := q.Order("name ASC").Find(&plans).Error
	return plans, err
}

// IsReferenced reports whether any budget was seeded from the plan
func (r *PlanRepository) IsReferenced(ctx context.Context, planID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.ProjectBudget{}).
		Where("plan_id = ?", planID).
		Count(&count).Error
	return count > 0, err
}

// Update saves changes to a plan that no budget references. Existing cost
// lines are replaced wholesale.
func (r *PlanRepository) Update(ctx context.Context, plan *domain.Plan) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("plan_id = ?", plan.ID).Delete(&domain.PlanCostLine{}).Error; err != nil {
			return fmt.Errorf("failed to replace cost lines: %w", err)
		}
		return tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(plan).Error
	})
}

// ReplaceVersion deactivates the old plan row and inserts the replacement in
// one transaction. Used when editing a plan that budgets already reference:
// seeded budgets keep pointing at the old row, which stays immutable.
func (r *PlanRepository) ReplaceVersion(ctx context.Context, oldID uuid.UUID, replacement *domain.Plan) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&domain.Plan{}).
			Where("id = ?", oldID).
			Update("is_active", false)
		if result.Error != nil {
			return fmt.Errorf("failed to deactivate plan: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		if err := tx.Create(replacement).Error; err != nil {
			return fmt.Errorf("failed to create replacement plan: %w", err)
		}
		return nil
	})
}

// SetActive flips the is_active flag on a plan
func (r *PlanRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	result := r.db.WithContext(ctx).
		Model(&domain.Plan{}).
		Where("id = ?", id).
		Update("is_active", active)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete removes a plan that no budget references
func (r *PlanRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&domain.Plan{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
