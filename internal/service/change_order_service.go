package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/crestline-dev/budget-api/internal/domain"
	"github.com/crestline-dev/budget-api/internal/mapper"
	"github.com/crestline-dev/budget-api/internal/storage"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ChangeOrderStore is the persistence surface the change order service
// depends on
type ChangeOrderStore interface {
	CreateWithNextNumber(ctx context.Context, co *domain.ChangeOrder) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.ChangeOrder, error)
	ListByProject(ctx context.Context, projectID uuid.UUID, budgetID *uuid.UUID, status *domain.ChangeOrderStatus) ([]domain.ChangeOrder, error)
	Update(ctx context.Context, co *domain.ChangeOrder) error
	Approve(ctx context.Context, id uuid.UUID, approvedBy, notes string, approvedAt time.Time) error
	Deny(ctx context.Context, id uuid.UUID, reason string) error
	MarkPaid(ctx context.Context, id uuid.UUID, paidAmount float64, paidDate time.Time) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListPendingPastDeadline(ctx context.Context, now time.Time) ([]domain.ChangeOrder, error)
	CreateDocument(ctx context.Context, doc *domain.ChangeOrderDocument) error
	GetDocument(ctx context.Context, changeOrderID, documentID uuid.UUID) (*domain.ChangeOrderDocument, error)
	DeleteDocument(ctx context.Context, changeOrderID, documentID uuid.UUID) error
}

// ChangeOrderService handles the change order workflow: submission, the
// approve/deny decision, payment, and supporting documents
type ChangeOrderService struct {
	orders    ChangeOrderStore
	budgets   BudgetStore
	lineItems LineItemStore
	files     storage.Storage
	logger    *zap.Logger
}

// NewChangeOrderService creates a new ChangeOrderService instance
func NewChangeOrderService(
	orders ChangeOrderStore,
	budgets BudgetStore,
	lineItems LineItemStore,
	files storage.Storage,
	logger *zap.Logger,
) *ChangeOrderService {
	return &ChangeOrderService{
		orders:    orders,
		budgets:   budgets,
		lineItems: lineItems,
		files:     files,
		logger:    logger,
	}
}

// Create submits a new change order against a budget version. The CO number
// is assigned server side under a project lock. A linked line item must
// belong to the named budget.
func (s *ChangeOrderService) Create(ctx context.Context, req *domain.CreateChangeOrderRequest, createdBy string) (*domain.ChangeOrderDTO, error) {
	if !req.Reason.IsValid() {
		return nil, fmt.Errorf("%w: unknown change order reason %q", ErrInvalidInput, req.Reason)
	}

	budget, err := s.budgets.GetByID(ctx, req.BudgetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBudgetNotFound
		}
		return nil, fmt.Errorf("failed to get budget: %w", err)
	}
	if budget.ProjectID != req.ProjectID {
		return nil, fmt.Errorf("%w: budget does not belong to project", ErrInvalidInput)
	}

	if req.BudgetLineItemID != nil {
		item, err := s.lineItems.GetByID(ctx, *req.BudgetLineItemID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrLineItemNotFound
			}
			return nil, fmt.Errorf("failed to get line item: %w", err)
		}
		if item.BudgetID != req.BudgetID {
			return nil, fmt.Errorf("%w: line item does not belong to budget", ErrInvalidInput)
		}
	}

	submitted := time.Now().UTC()
	if req.SubmittedDate != nil {
		submitted = *req.SubmittedDate
	}

	co := &domain.ChangeOrder{
		ProjectID:           req.ProjectID,
		BudgetID:            req.BudgetID,
		Title:               req.Title,
		Description:         req.Description,
		Reason:              req.Reason,
		ContractorID:        req.ContractorID,
		ContractorName:      req.ContractorName,
		ContractorReference: req.ContractorReference,
		Amount:              req.Amount,
		BudgetLineItemID:    req.BudgetLineItemID,
		SubmittedDate:       submitted,
		ApprovalDeadline:    req.ApprovalDeadline,
		Status:              domain.ChangeOrderStatusPending,
		Notes:               req.Notes,
		CreatedBy:           createdBy,
	}

	if err := s.orders.CreateWithNextNumber(ctx, co); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to create change order: %w", err)
	}

	s.logger.Info("Change order submitted",
		zap.String("change_order_id", co.ID.String()),
		zap.String("project_id", co.ProjectID.String()),
		zap.Int("co_number", co.CONumber),
		zap.Float64("amount", co.Amount),
	)

	dto := mapper.ToChangeOrderDTO(co)
	return &dto, nil
}

// GetByID retrieves a change order with its documents
func (s *ChangeOrderService) GetByID(ctx context.Context, id uuid.UUID) (*domain.ChangeOrderDTO, error) {
	co, err := s.orders.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrChangeOrderNotFound
		}
		return nil, fmt.Errorf("failed to get change order: %w", err)
	}

	dto := mapper.ToChangeOrderDTO(co)
	return &dto, nil
}

// ListByProject returns a project's change orders, optionally filtered by
// budget version and status
func (s *ChangeOrderService) ListByProject(ctx context.Context, projectID uuid.UUID, budgetID *uuid.UUID, status *domain.ChangeOrderStatus) ([]domain.ChangeOrderDTO, error) {
	if status != nil && !status.IsValid() {
		return nil, fmt.Errorf("%w: unknown change order status %q", ErrInvalidInput, *status)
	}

	orders, err := s.orders.ListByProject(ctx, projectID, budgetID, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list change orders: %w", err)
	}

	dtos := make([]domain.ChangeOrderDTO, len(orders))
	for i := range orders {
		dtos[i] = mapper.ToChangeOrderDTO(&orders[i])
	}
	return dtos, nil
}

// Totals computes the change order rollup for a project or one of its
// budget versions
func (s *ChangeOrderService) Totals(ctx context.Context, projectID uuid.UUID, budgetID *uuid.UUID) (*domain.ChangeOrderTotals, error) {
	orders, err := s.orders.ListByProject(ctx, projectID, budgetID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list change orders: %w", err)
	}

	ptrs := make([]*domain.ChangeOrder, len(orders))
	for i := range orders {
		ptrs[i] = &orders[i]
	}
	totals := domain.SummarizeChangeOrders(ptrs)
	return &totals, nil
}

// Update edits a pending change order. Decided change orders are immutable.
func (s *ChangeOrderService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateChangeOrderRequest) (*domain.ChangeOrderDTO, error) {
	if !req.Reason.IsValid() {
		return nil, fmt.Errorf("%w: unknown change order reason %q", ErrInvalidInput, req.Reason)
	}

	co, err := s.orders.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrChangeOrderNotFound
		}
		return nil, fmt.Errorf("failed to get change order: %w", err)
	}
	if co.Status.IsTerminal() {
		return nil, ErrChangeOrderDecided
	}

	if req.BudgetLineItemID != nil {
		item, err := s.lineItems.GetByID(ctx, *req.BudgetLineItemID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrLineItemNotFound
			}
			return nil, fmt.Errorf("failed to get line item: %w", err)
		}
		if item.BudgetID != co.BudgetID {
			return nil, fmt.Errorf("%w: line item does not belong to budget", ErrInvalidInput)
		}
	}

	co.Title = req.Title
	co.Description = req.Description
	co.Reason = req.Reason
	co.ContractorID = req.ContractorID
	co.ContractorName = req.ContractorName
	co.ContractorReference = req.ContractorReference
	co.Amount = req.Amount
	co.BudgetLineItemID = req.BudgetLineItemID
	if req.SubmittedDate != nil {
		co.SubmittedDate = *req.SubmittedDate
	}
	co.ApprovalDeadline = req.ApprovalDeadline
	co.Notes = req.Notes

	if err := s.orders.Update(ctx, co); err != nil {
		if errors.Is(err, domain.ErrInvalidTransition) {
			return nil, ErrChangeOrderDecided
		}
		return nil, fmt.Errorf("failed to update change order: %w", err)
	}

	return s.GetByID(ctx, id)
}

// Approve decides a pending change order in its favor. The amount becomes a
// commitment on the linked line item in the same transaction; repeating the
// call, or approving after a denial, fails without double-applying.
func (s *ChangeOrderService) Approve(ctx context.Context, id uuid.UUID, req *domain.ApproveChangeOrderRequest, approvedBy string) (*domain.ChangeOrderDTO, error) {
	err := s.orders.Approve(ctx, id, approvedBy, req.ApprovalNotes, time.Now().UTC())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrChangeOrderNotFound
		}
		if errors.Is(err, domain.ErrInvalidTransition) {
			return nil, ErrChangeOrderDecided
		}
		return nil, fmt.Errorf("failed to approve change order: %w", err)
	}

	s.logger.Info("Change order approved",
		zap.String("change_order_id", id.String()),
		zap.String("approved_by", approvedBy),
	)

	return s.GetByID(ctx, id)
}

// Deny decides a pending change order against. A reason is mandatory; the
// budget is untouched.
func (s *ChangeOrderService) Deny(ctx context.Context, id uuid.UUID, req *domain.DenyChangeOrderRequest) (*domain.ChangeOrderDTO, error) {
	if req.DenialReason == "" {
		return nil, ErrDenialReasonRequired
	}

	err := s.orders.Deny(ctx, id, req.DenialReason)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrChangeOrderNotFound
		}
		if errors.Is(err, domain.ErrInvalidTransition) {
			return nil, ErrChangeOrderDecided
		}
		return nil, fmt.Errorf("failed to deny change order: %w", err)
	}

	s.logger.Info("Change order denied", zap.String("change_order_id", id.String()))

	return s.GetByID(ctx, id)
}

// MarkPaid records payment of an approved change order. The paid amount
// defaults to the approved amount; the linked line item's commitment converts
// to actual cost in the same transaction.
func (s *ChangeOrderService) MarkPaid(ctx context.Context, id uuid.UUID, req *domain.MarkChangeOrderPaidRequest) (*domain.ChangeOrderDTO, error) {
	co, err := s.orders.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrChangeOrderNotFound
		}
		return nil, fmt.Errorf("failed to get change order: %w", err)
	}
	if co.Status != domain.ChangeOrderStatusApproved {
		return nil, ErrChangeOrderNotApproved
	}
	if co.IsPaid {
		return nil, ErrChangeOrderAlreadyPaid
	}

	paidAmount := co.Amount
	if req.PaidAmount != nil {
		paidAmount = *req.PaidAmount
	}
	paidDate := time.Now().UTC()
	if req.PaidDate != nil {
		paidDate = *req.PaidDate
	}

	if err := s.orders.MarkPaid(ctx, id, paidAmount, paidDate); err != nil {
		if errors.Is(err, domain.ErrInvalidTransition) {
			return nil, ErrChangeOrderAlreadyPaid
		}
		return nil, fmt.Errorf("failed to mark change order paid: %w", err)
	}

	s.logger.Info("Change order paid",
		zap.String("change_order_id", id.String()),
		zap.Float64("paid_amount", paidAmount),
	)

	return s.GetByID(ctx, id)
}

// Delete removes a pending change order and its stored documents. Decided
// change orders are part of the audit trail and cannot be deleted.
func (s *ChangeOrderService) Delete(ctx context.Context, id uuid.UUID) error {
	co, err := s.orders.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrChangeOrderNotFound
		}
		return fmt.Errorf("failed to get change order: %w", err)
	}
	if co.Status.IsTerminal() {
		return ErrChangeOrderDecided
	}

	if err := s.orders.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrInvalidTransition) {
			return ErrChangeOrderDecided
		}
		return fmt.Errorf("failed to delete change order: %w", err)
	}

	// Best effort blob cleanup after the metadata is gone
	for _, doc := range co.Documents {
		if err := s.files.Delete(ctx, doc.FilePath); err != nil {
			s.logger.Warn("Failed to delete document file",
				zap.String("file_path", doc.FilePath),
				zap.Error(err),
			)
		}
	}
	return nil
}

// ListPastDeadline returns pending change orders whose approval deadline has
// passed. Used by the deadline sweep job and exposed for reporting.
func (s *ChangeOrderService) ListPastDeadline(ctx context.Context) ([]domain.ChangeOrderDTO, error) {
	orders, err := s.orders.ListPendingPastDeadline(ctx, time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to list overdue change orders: %w", err)
	}

	dtos := make([]domain.ChangeOrderDTO, len(orders))
	for i := range orders {
		dtos[i] = mapper.ToChangeOrderDTO(&orders[i])
	}
	return dtos, nil
}

// UploadDocument stores a supporting file and attaches its metadata to a
// change order
func (s *ChangeOrderService) UploadDocument(ctx context.Context, changeOrderID uuid.UUID, docType domain.DocumentType, filename, contentType string, data io.Reader) (*domain.ChangeOrderDocumentDTO, error) {
	if !docType.IsValid() {
		return nil, fmt.Errorf("%w: unknown document type %q", ErrInvalidInput, docType)
	}

	if _, err := s.orders.GetByID(ctx, changeOrderID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrChangeOrderNotFound
		}
		return nil, fmt.Errorf("failed to get change order: %w", err)
	}

	storagePath, size, err := s.files.Upload(ctx, filename, contentType, data)
	if err != nil {
		return nil, fmt.Errorf("failed to store document: %w", err)
	}

	doc := &domain.ChangeOrderDocument{
		ChangeOrderID: changeOrderID,
		DocumentType:  docType,
		FileName:      filename,
		FilePath:      storagePath,
		FileSize:      size,
		UploadedAt:    time.Now().UTC(),
	}

	if err := s.orders.CreateDocument(ctx, doc); err != nil {
		// Orphaned blob cleanup if the metadata insert failed
		if delErr := s.files.Delete(ctx, storagePath); delErr != nil {
			s.logger.Warn("Failed to clean up orphaned document file",
				zap.String("file_path", storagePath),
				zap.Error(delErr),
			)
		}
		return nil, fmt.Errorf("failed to save document metadata: %w", err)
	}

	dto := mapper.ToChangeOrderDocumentDTO(doc)
	return &dto, nil
}

// DownloadDocument opens a stored document for streaming to the client
func (s *ChangeOrderService) DownloadDocument(ctx context.Context, changeOrderID, documentID uuid.UUID) (*domain.ChangeOrderDocument, io.ReadCloser, error) {
	doc, err := s.orders.GetDocument(ctx, changeOrderID, documentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrDocumentNotFound
		}
		return nil, nil, fmt.Errorf("failed to get document: %w", err)
	}

	reader, err := s.files.Download(ctx, doc.FilePath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open document file: %w", err)
	}
	return doc, reader, nil
}

// DeleteDocument removes a document's metadata and stored file
func (s *ChangeOrderService) DeleteDocument(ctx context.Context, changeOrderID, documentID uuid.UUID) error {
	doc, err := s.orders.GetDocument(ctx, changeOrderID, documentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrDocumentNotFound
		}
		return fmt.Errorf("failed to get document: %w", err)
	}

	if err := s.orders.DeleteDocument(ctx, changeOrderID, documentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrDocumentNotFound
		}
		return fmt.Errorf("failed to delete document metadata: %w", err)
	}

	if err := s.files.Delete(ctx, doc.FilePath); err != nil {
		s.logger.Warn("Failed to delete document file",
			zap.String("file_path", doc.FilePath),
			zap.Error(err),
		)
	}
	return nil
}
