package repository

import (
	"context"
	"fmt"

	"github.com/crestline-dev/budget-api/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BudgetRepository handles database operations for project budgets. Version
// numbers are assigned under a project row lock so concurrent creates for the
// same project serialize and never reuse a number.
type BudgetRepository struct {
	db *gorm.DB
}

// NewBudgetRepository creates a new BudgetRepository instance
func NewBudgetRepository(db *gorm.DB) *BudgetRepository {
	return &BudgetRepository{db: db}
}

// CreateWithNextVersion inserts a budget with the next version number for its
// project, optionally seeding line items and activating it, all in one
// transaction. The project row is locked FOR UPDATE for the duration and
// carries a high-water sequence: concurrent creates serialize on the lock,
// and deleting a budget never puts its number back in circulation.
func (r *BudgetRepository) CreateWithNextVersion(ctx context.Context, budget *domain.ProjectBudget, seedItems []domain.BudgetLineItem, activate bool) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var project domain.Project
		result := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", budget.ProjectID).
			First(&project)
		if result.Error == gorm.ErrRecordNotFound {
			return gorm.ErrRecordNotFound
		}
		if result.Error != nil {
			return fmt.Errorf("failed to lock project: %w", result.Error)
		}

		budget.VersionNumber = project.BudgetVersionSeq + 1
		if err := tx.Model(&domain.Project{}).
			Where("id = ?", project.ID).
			Update("budget_version_seq", budget.VersionNumber).Error; err != nil {
			return fmt.Errorf("failed to advance version sequence: %w", err)
		}

		if budget.BudgetName == "" {
			budget.BudgetName = fmt.Sprintf("%s - Budget - V%d", project.Name, budget.VersionNumber)
		}

		if activate {
			if err := tx.Model(&domain.ProjectBudget{}).
				Where("project_id = ? AND is_active = ?", budget.ProjectID, true).
				Update("is_active", false).Error; err != nil {
				return fmt.Errorf("failed to deactivate current budget: %w", err)
			}
			budget.IsActive = true
		}

		if err := tx.Omit("LineItems").Create(budget).Error; err != nil {
			return fmt.Errorf("failed to create budget: %w", err)
		}

		if len(seedItems) > 0 {
			for i := range seedItems {
				seedItems[i].BudgetID = budget.ID
			}
			if err := tx.Create(&seedItems).Error; err != nil {
				return fmt.Errorf("failed to seed line items: %w", err)
			}
		}

		return nil
	})
}

// GetByID retrieves a budget with its line items in sort order
func (r *BudgetRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.ProjectBudget, error) {
	var budget domain.ProjectBudget
	err := r.db.WithContext(ctx).
		Preload("LineItems", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC, line_item_code ASC")
		}).
		Where("id = ?", id).
		First(&budget).Error
	if err != nil {
		return nil, err
	}
	return &budget, nil
}

// ListByProject returns all budget versions for a project, newest first,
// without line items
func (r *BudgetRepository) ListByProject(ctx context.Context, projectID uuid.UUID) ([]domain.ProjectBudget, error) {
	var budgets []domain.ProjectBudget
	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("version_number DESC").
		Find(&budgets).Error
	return budgets, err
}

// GetActive retrieves the active budget for a project with its line items
func (r *BudgetRepository) GetActive(ctx context.Context, projectID uuid.UUID) (*domain.ProjectBudget, error) {
	var budget domain.ProjectBudget
	err := r.db.WithContext(ctx).
		Preload("LineItems", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC, line_item_code ASC")
		}).
		Where("project_id = ? AND is_active = ?", projectID, true).
		First(&budget).Error
	if err != nil {
		return nil, err
	}
	return &budget, nil
}

// SetActive makes the given budget the project's active version. The
// deactivate and activate run in one transaction so no reader ever sees two
// active budgets, and a crash between the two statements cannot leave the
// flip half-applied.
func (r *BudgetRepository) SetActive(ctx context.Context, projectID, budgetID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var budget domain.ProjectBudget
		result := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ? AND project_id = ?", budgetID, projectID).
			First(&budget)
		if result.Error != nil {
			return result.Error
		}

		if err := tx.Model(&domain.ProjectBudget{}).
			Where("project_id = ? AND is_active = ? AND id <> ?", projectID, true, budgetID).
			Update("is_active", false).Error; err != nil {
			return fmt.Errorf("failed to deactivate current budget: %w", err)
		}

		return tx.Model(&domain.ProjectBudget{}).
			Where("id = ?", budgetID).
			Update("is_active", true).Error
	})
}

// UpdateMeta saves name and status changes to a budget
func (r *BudgetRepository) UpdateMeta(ctx context.Context, id uuid.UUID, name string, status domain.BudgetStatus) error {
	result := r.db.WithContext(ctx).
		Model(&domain.ProjectBudget{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"budget_name": name,
			"status":      status,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete removes a budget and its line items
func (r *BudgetRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("budget_id = ?", id).Delete(&domain.BudgetLineItem{}).Error; err != nil {
			return fmt.Errorf("failed to delete line items: %w", err)
		}
		result := tx.Delete(&domain.ProjectBudget{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// CountChangeOrders returns the number of change orders attached to a budget
func (r *BudgetRepository) CountChangeOrders(ctx context.Context, budgetID uuid.UUID) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.ChangeOrder{}).
		Where("budget_id = ?", budgetID).
		Count(&count).Error
	return int(count), err
}
