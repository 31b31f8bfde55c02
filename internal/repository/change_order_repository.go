package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/crestline-dev/budget-api/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ChangeOrderRepository handles database operations for change orders and
// their documents. Workflow transitions run as status-guarded updates inside
// a transaction: the row lock plus the status predicate make approve, deny
// and mark-paid idempotence-safe under concurrent requests.
type ChangeOrderRepository struct {
	db *gorm.DB
}

// NewChangeOrderRepository creates a new ChangeOrderRepository instance
func NewChangeOrderRepository(db *gorm.DB) *ChangeOrderRepository {
	return &ChangeOrderRepository{db: db}
}

// CreateWithNextNumber inserts a change order with the next co_number for its
// project. Same high-water sequence scheme as budget version numbers: the
// project row is locked FOR UPDATE so concurrent submissions serialize, and a
// deleted change order's number is never handed out again.
func (r *ChangeOrderRepository) CreateWithNextNumber(ctx context.Context, co *domain.ChangeOrder) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var project domain.Project
		result := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", co.ProjectID).
			First(&project)
		if result.Error == gorm.ErrRecordNotFound {
			return gorm.ErrRecordNotFound
		}
		if result.Error != nil {
			return fmt.Errorf("failed to lock project: %w", result.Error)
		}

		co.CONumber = project.ChangeOrderSeq + 1
		if err := tx.Model(&domain.Project{}).
			Where("id = ?", project.ID).
			Update("change_order_seq", co.CONumber).Error; err != nil {
			return fmt.Errorf("failed to advance change order sequence: %w", err)
		}

		if err := tx.Omit("Documents").Create(co).Error; err != nil {
			return fmt.Errorf("failed to create change order: %w", err)
		}
		return nil
	})
}

// GetByID retrieves a change order with its documents
func (r *ChangeOrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.ChangeOrder, error) {
	var co domain.ChangeOrder
	err := r.db.WithContext(ctx).
		Preload("Documents", func(db *gorm.DB) *gorm.DB {
			return db.Order("uploaded_at ASC")
		}).
		Where("id = ?", id).
		First(&co).Error
	if err != nil {
		return nil, err
	}
	return &co, nil
}

// ListByProject returns a project's change orders by number, optionally
// filtered to one budget version and/or one status
func (r *ChangeOrderRepository) ListByProject(ctx context.Context, projectID uuid.UUID, budgetID *uuid.UUID, status *domain.ChangeOrderStatus) ([]domain.ChangeOrder, error) {
	var orders []domain.ChangeOrder
	q := r.db.WithContext(ctx).
		Preload("Documents").
		Where("project_id = ?", projectID)
	if budgetID != nil {
		q = q.Where("budget_id = ?", *budgetID)
	}
	if status != nil {
		q = q.Where("status = ?", *status)
	}
	err := q.Order("co_number ASC").Find(&orders).Error
	return orders, err
}

// Update saves edits to a pending change order. The status guard on the
// UPDATE rejects edits that race a decision.
func (r *ChangeOrderRepository) Update(ctx context.Context, co *domain.ChangeOrder) error {
	result := r.db.WithContext(ctx).
		Model(&domain.ChangeOrder{}).
		Where("id = ? AND status = ?", co.ID, domain.ChangeOrderStatusPending).
		Updates(map[string]interface{}{
			"title":                co.Title,
			"description":          co.Description,
			"reason":               co.Reason,
			"contractor_id":        co.ContractorID,
			"contractor_name":      co.ContractorName,
			"contractor_reference": co.ContractorReference,
			"amount":               co.Amount,
			"budget_line_item_id":  co.BudgetLineItemID,
			"submitted_date":       co.SubmittedDate,
			"approval_deadline":    co.ApprovalDeadline,
			"notes":                co.Notes,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrInvalidTransition
	}
	return nil
}

// Approve transitions a pending change order to approved and commits its
// amount to the linked line item, atomically. Only the pending row matches
// the guarded UPDATE, so a repeated approve (or an approve racing a deny)
// affects zero rows and the commitment is applied exactly once.
func (r *ChangeOrderRepository) Approve(ctx context.Context, id uuid.UUID, approvedBy, notes string, approvedAt time.Time) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var co domain.ChangeOrder
		result := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", id).
			First(&co)
		if result.Error != nil {
			return result.Error
		}
		if co.Status != domain.ChangeOrderStatusPending {
			return domain.ErrInvalidTransition
		}

		update := tx.Model(&domain.ChangeOrder{}).
			Where("id = ? AND status = ?", id, domain.ChangeOrderStatusPending).
			Updates(map[string]interface{}{
				"status":         domain.ChangeOrderStatusApproved,
				"approved_date":  approvedAt,
				"approved_by":    approvedBy,
				"approval_notes": notes,
			})
		if update.Error != nil {
			return fmt.Errorf("failed to approve change order: %w", update.Error)
		}
		if update.RowsAffected == 0 {
			return domain.ErrInvalidTransition
		}

		if co.BudgetLineItemID != nil {
			if err := tx.Model(&domain.BudgetLineItem{}).
				Where("id = ?", *co.BudgetLineItemID).
				Update("committed_amount", gorm.Expr("committed_amount + ?", co.Amount)).Error; err != nil {
				return fmt.Errorf("failed to commit amount to line item: %w", err)
			}
		}
		return nil
	})
}

// Deny transitions a pending change order to denied. No line item fields
// move; a denied change order never affects the budget.
func (r *ChangeOrderRepository) Deny(ctx context.Context, id uuid.UUID, reason string) error {
	result := r.db.WithContext(ctx).
		Model(&domain.ChangeOrder{}).
		Where("id = ? AND status = ?", id, domain.ChangeOrderStatusPending).
		Updates(map[string]interface{}{
			"status":        domain.ChangeOrderStatusDenied,
			"denial_reason": reason,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrInvalidTransition
	}
	return nil
}

// MarkPaid records payment of an approved change order and converts the
// line item's commitment into actual cost: actual += paid amount,
// committed -= the originally committed amount. Guarded on is_paid so a
// double submit applies the conversion once.
func (r *ChangeOrderRepository) MarkPaid(ctx context.Context, id uuid.UUID, paidAmount float64, paidDate time.Time) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var co domain.ChangeOrder
		result := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", id).
			First(&co)
		if result.Error != nil {
			return result.Error
		}
		if co.Status != domain.ChangeOrderStatusApproved || co.IsPaid {
			return domain.ErrInvalidTransition
		}

		update := tx.Model(&domain.ChangeOrder{}).
			Where("id = ? AND status = ? AND is_paid = ?", id, domain.ChangeOrderStatusApproved, false).
			Updates(map[string]interface{}{
				"is_paid":     true,
				"paid_date":   paidDate,
				"paid_amount": paidAmount,
			})
		if update.Error != nil {
			return fmt.Errorf("failed to mark change order paid: %w", update.Error)
		}
		if update.RowsAffected == 0 {
			return domain.ErrInvalidTransition
		}

		if co.BudgetLineItemID != nil {
			if err := tx.Model(&domain.BudgetLineItem{}).
				Where("id = ?", *co.BudgetLineItemID).
				Updates(map[string]interface{}{
					"actual_amount":    gorm.Expr("actual_amount + ?", paidAmount),
					"committed_amount": gorm.Expr("committed_amount - ?", co.Amount),
				}).Error; err != nil {
				return fmt.Errorf("failed to convert commitment on line item: %w", err)
			}
		}
		return nil
	})
}

// Delete removes a pending change order and its documents. Decided change
// orders are part of the audit trail and cannot be deleted.
func (r *ChangeOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var co domain.ChangeOrder
		result := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", id).
			First(&co)
		if result.Error != nil {
			return result.Error
		}
		if co.Status != domain.ChangeOrderStatusPending {
			return domain.ErrInvalidTransition
		}

		if err := tx.Where("change_order_id = ?", id).Delete(&domain.ChangeOrderDocument{}).Error; err != nil {
			return fmt.Errorf("failed to delete change order documents: %w", err)
		}
		return tx.Delete(&domain.ChangeOrder{}, "id = ?", id).Error
	})
}

// ListPendingPastDeadline returns pending change orders whose approval
// deadline has passed
func (r *ChangeOrderRepository) ListPendingPastDeadline(ctx context.Context, now time.Time) ([]domain.ChangeOrder, error) {
	var orders []domain.ChangeOrder
	err := r.db.WithContext(ctx).
		Where("status = ? AND approval_deadline IS NOT NULL AND approval_deadline < ?",
			domain.ChangeOrderStatusPending, now).
		Order("approval_deadline ASC").
		Find(&orders).Error
	return orders, err
}

// CreateDocument inserts document metadata for a change order
func (r *ChangeOrderRepository) CreateDocument(ctx context.Context, doc *domain.ChangeOrderDocument) error {
	return r.db.WithContext(ctx).Create(doc).Error
}

// GetDocument retrieves one document by change order and document ID
func (r *ChangeOrderRepository) GetDocument(ctx context.Context, changeOrderID, documentID uuid.UUID) (*domain.ChangeOrderDocument, error) {
	var doc domain.ChangeOrderDocument
	err := r.db.WithContext(ctx).
		Where("id = ? AND change_order_id = ?", documentID, changeOrderID).
		First(&doc).Error
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// DeleteDocument removes document metadata
func (r *ChangeOrderRepository) DeleteDocument(ctx context.Context, changeOrderID, documentID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND change_order_id = ?", documentID, changeOrderID).
		Delete(&domain.ChangeOrderDocument{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
