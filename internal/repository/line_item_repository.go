package repository

import (
	"context"
	"fmt"

	"github.com/crestline-dev/budget-api/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LineItemRepository handles database operations for budget line items
type LineItemRepository struct {
	db *gorm.DB
}

// NewLineItemRepository creates a new LineItemRepository instance
func NewLineItemRepository(db *gorm.DB) *LineItemRepository {
	return &LineItemRepository{db: db}
}

// ListByBudget returns all line items for a budget in sort order
func (r *LineItemRepository) ListByBudget(ctx context.Context, budgetID uuid.UUID) ([]domain.BudgetLineItem, error) {
	var items []domain.BudgetLineItem
	err := r.db.WithContext(ctx).
		Where("budget_id = ?", budgetID).
		Order("sort_order ASC, line_item_code ASC").
		Find(&items).Error
	return items, err
}

// GetByID retrieves a line item by its ID
func (r *LineItemRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.BudgetLineItem, error) {
	var item domain.BudgetLineItem
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// CodeExists reports whether another line item in the same budget already
// uses the code. excludeID skips the item being updated.
func (r *LineItemRepository) CodeExists(ctx context.Context, budgetID uuid.UUID, code string, excludeID *uuid.UUID) (bool, error) {
	var count int64
	q := r.db.WithContext(ctx).
		Model(&domain.BudgetLineItem{}).
		Where("budget_id = ? AND line_item_code = ?", budgetID, code)
	if excludeID != nil {
		q = q.Where("id <> ?", *excludeID)
	}
	err := q.Count(&count).Error
	return count > 0, err
}

// Create inserts a new line item
func (r *LineItemRepository) Create(ctx context.Context, item *domain.BudgetLineItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

// BulkCreate inserts several line items in one transaction. If any insert
// fails the whole batch rolls back.
func (r *LineItemRepository) BulkCreate(ctx context.Context, items []domain.BudgetLineItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&items).Error; err != nil {
			return fmt.Errorf("failed to bulk create line items: %w", err)
		}
		return nil
	})
}

// Update saves changes to an existing line item
func (r *LineItemRepository) Update(ctx context.Context, item *domain.BudgetLineItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

// Delete removes a line item
func (r *LineItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&domain.BudgetLineItem{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CountActiveChangeOrders returns the number of pending or approved change
// orders referencing the line item
func (r *LineItemRepository) CountActiveChangeOrders(ctx context.Context, lineItemID uuid.UUID) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.ChangeOrder{}).
		Where("budget_line_item_id = ? AND status IN ?", lineItemID,
			[]domain.ChangeOrderStatus{domain.ChangeOrderStatusPending, domain.ChangeOrderStatusApproved}).
		Count(&count).Error
	return int(count), err
}
