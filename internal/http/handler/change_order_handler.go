package handler

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/crestline-dev/budget-api/internal/auth"
	"github.com/crestline-dev/budget-api/internal/domain"
	"github.com/crestline-dev/budget-api/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ChangeOrderHandler handles HTTP requests for the change order workflow
type ChangeOrderHandler struct {
	changeOrderService *service.ChangeOrderService
	maxUploadMB        int64
	logger             *zap.Logger
}

// NewChangeOrderHandler creates a new ChangeOrderHandler instance
func NewChangeOrderHandler(changeOrderService *service.ChangeOrderService, maxUploadMB int64, logger *zap.Logger) *ChangeOrderHandler {
	return &ChangeOrderHandler{
		changeOrderService: changeOrderService,
		maxUploadMB:        maxUploadMB,
		logger:             logger,
	}
}

// Create submits a new change order against a budget version
// @Summary Submit change order
// @Description Submit a change order against a budget version; the CO number is assigned server side
// @Tags change-orders
// @Accept json
// @Produce json
// @Param id path string true "Project ID"
// @Param budgetId path string true "Budget ID"
// @Param request body domain.CreateChangeOrderRequest true "Change order details"
// @Success 201 {object} domain.ChangeOrderDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Failure 500 {object} domain.APIError
// @Router /projects/{id}/budgets/{budgetId}/change-orders [post]
// @Security BearerAuth
func (h *ChangeOrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	projectID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid project ID")
		return
	}
	budgetID, err := uuid.Parse(chi.URLParam(r, "budgetId"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid budget ID")
		return
	}

	var req domain.CreateChangeOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.ProjectID = projectID
	req.BudgetID = budgetID

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	co, err := h.changeOrderService.Create(r.Context(), &req, auth.ActorName(r.Context()))
	if err != nil {
		respondServiceError(w, h.logger, err, "create change order")
		return
	}

	respondJSON(w, http.StatusCreated, co)
}

// ListByProject returns a project's change orders
// @Summary List change orders
// @Description Get a project's change orders, optionally filtered by budget version and status
// @Tags change-orders
// @Accept json
// @Produce json
// @Param id path string true "Project ID"
// @Param budgetId query string false "Budget ID filter"
// @Param status query string false "Status filter (pending, approved, denied)"
// @Success 200 {array} domain.ChangeOrderDTO
// @Failure 400 {object} domain.APIError
// @Failure 500 {object} domain.APIError
// @Router /projects/{id}/change-orders [get]
// @Security BearerAuth
func (h *ChangeOrderHandler) ListByProject(w http.ResponseWriter, r *http.Request) {
	projectID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid project ID")
		return
	}

	var budgetID *uuid.UUID
	if b := r.URL.Query().Get("budgetId"); b != "" {
		id, err := uuid.Parse(b)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid budget ID filter")
			return
		}
		budgetID = &id
	}

	var status *domain.ChangeOrderStatus
	if s := r.URL.Query().Get("status"); s != "" {
		st := domain.ChangeOrderStatus(s)
		status = &st
	}

	orders, err := h.changeOrderService.ListByProject(r.Context(), projectID, budgetID, status)
	if err != nil {
		respondServiceError(w, h.logger, err, "list change orders")
		return
	}

	respondJSON(w, http.StatusOK, orders)
}

// Summary returns the change order rollup for a project
// @Summary Change order summary
// @Description Get the change order totals for a project, optionally scoped to one budget version
// @Tags change-orders
// @Accept json
// @Produce json
// @Param id path string true "Project ID"
// @Param budgetId query string false "Budget ID filter"
// @Success 200 {object} domain.ChangeOrderTotals
// @Failure 400 {object} domain.APIError
// @Failure 500 {object} domain.APIError
// @Router /projects/{id}/change-orders/summary [get]
// @Security BearerAuth
func (h *ChangeOrderHandler) Summary(w http.ResponseWriter, r *http.Request) {
	projectID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid project ID")
		return
	}

	var budgetID *uuid.UUID
	if b := r.URL.Query().Get("budgetId"); b != "" {
		id, err := uuid.Parse(b)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid budget ID filter")
			return
		}
		budgetID = &id
	}

	totals, err := h.changeOrderService.Totals(r.Context(), projectID, budgetID)
	if err != nil {
		respondServiceError(w, h.logger, err, "summarize change orders")
		return
	}

	respondJSON(w, http.StatusOK, totals)
}

// Get returns a change order with its documents
// @Summary Get change order
// @Description Get a change order by ID including its documents
// @Tags change-orders
// @Accept json
// @Produce json
// @Param id path string true "Change order ID"
// @Success 200 {object} domain.ChangeOrderDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Failure 500 {object} domain.APIError
// @Router /change-orders/{id} [get]
// @Security BearerAuth
func (h *ChangeOrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid change order ID")
		return
	}

	co, err := h.changeOrderService.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err, "get change order")
		return
	}

	respondJSON(w, http.StatusOK, co)
}

// Update edits a pending change order
// @Summary Update change order
// @Description Update a pending change order; decided change orders are immutable
// @Tags change-orders
// @Accept json
// @Produce json
// @Param id path string true "Change order ID"
// @Param request body domain.UpdateChangeOrderRequest true "Updated change order details"
// @Success 200 {object} domain.ChangeOrderDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Failure 409 {object} domain.APIError
// @Failure 500 {object} domain.APIError
// @Router /change-orders/{id} [put]
// @Security BearerAuth
func (h *ChangeOrderHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid change order ID")
		return
	}

	var req domain.UpdateChangeOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	co, err := h.changeOrderService.Update(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "update change order")
		return
	}

	respondJSON(w, http.StatusOK, co)
}

// Approve decides a pending change order in its favor
// @Summary Approve change order
// @Description Approve a pending change order; the amount becomes a commitment on the linked line item
// @Tags change-orders
// @Accept json
// @Produce json
// @Param id path string true "Change order ID"
// @Param request body domain.ApproveChangeOrderRequest false "Approval notes"
// @Success 200 {object} domain.ChangeOrderDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Failure 409 {object} domain.APIError
// @Failure 500 {object} domain.APIError
// @Router /change-orders/{id}/approve [post]
// @Security BearerAuth
func (h *ChangeOrderHandler) Approve(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid change order ID")
		return
	}

	var req domain.ApproveChangeOrderRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
	}

	co, err := h.changeOrderService.Approve(r.Context(), id, &req, auth.ActorName(r.Context()))
	if err != nil {
		respondServiceError(w, h.logger, err, "approve change order")
		return
	}

	respondJSON(w, http.StatusOK, co)
}

// Deny decides a pending change order against
// @Summary Deny change order
// @Description Deny a pending change order; a denial reason is mandatory and the budget is untouched
// @Tags change-orders
// @Accept json
// @Produce json
// @Param id path string true "Change order ID"
// @Param request body domain.DenyChangeOrderRequest true "Denial reason"
// @Success 200 {object} domain.ChangeOrderDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Failure 409 {object} domain.APIError
// @Failure 500 {object} domain.APIError
// @Router /change-orders/{id}/deny [post]
// @Security BearerAuth
func (h *ChangeOrderHandler) Deny(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid change order ID")
		return
	}

	var req domain.DenyChangeOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	co, err := h.changeOrderService.Deny(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "deny change order")
		return
	}

	respondJSON(w, http.StatusOK, co)
}

// Pay records payment of an approved change order
// @Summary Mark change order paid
// @Description Record payment of an approved change order; the commitment converts to actual cost
// @Tags change-orders
// @Accept json
// @Produce json
// @Param id path string true "Change order ID"
// @Param request body domain.MarkChangeOrderPaidRequest false "Payment details"
// @Success 200 {object} domain.ChangeOrderDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Failure 409 {object} domain.APIError
// @Failure 500 {object} domain.APIError
// @Router /change-orders/{id}/pay [post]
// @Security BearerAuth
func (h *ChangeOrderHandler) Pay(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid change order ID")
		return
	}

	var req domain.MarkChangeOrderPaidRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
	}

	co, err := h.changeOrderService.MarkPaid(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "mark change order paid")
		return
	}

	respondJSON(w, http.StatusOK, co)
}

// Delete removes a pending change order
// @Summary Delete change order
// @Description Delete a pending change order and its documents; decided change orders cannot be deleted
// @Tags change-orders
// @Accept json
// @Produce json
// @Param id path string true "Change order ID"
// @Success 204 "No Content"
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Failure 409 {object} domain.APIError
// @Failure 500 {object} domain.APIError
// @Router /change-orders/{id} [delete]
// @Security BearerAuth
func (h *ChangeOrderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid change order ID")
		return
	}

	if err := h.changeOrderService.Delete(r.Context(), id); err != nil {
		respondServiceError(w, h.logger, err, "delete change order")
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}

// UploadDocument attaches a supporting document to a change order
// @Summary Upload change order document
// @Description Upload a supporting document (quote, invoice, photo, contract) for a change order
// @Tags change-orders,documents
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Change order ID"
// @Param file formData file true "File to upload"
// @Param documentType formData string true "Document type (quote, invoice, photo, contract, other)"
// @Success 201 {object} domain.ChangeOrderDocumentDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Failure 413 {object} domain.APIError
// @Failure 500 {object} domain.APIError
// @Router /change-orders/{id}/documents [post]
// @Security BearerAuth
func (h *ChangeOrderHandler) UploadDocument(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid change order ID")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadMB*1024*1024)

	if err := r.ParseMultipartForm(h.maxUploadMB * 1024 * 1024); err != nil {
		respondWithError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("File too large: maximum size is %dMB", h.maxUploadMB))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid file upload: file field is required")
		return
	}
	defer file.Close()

	docType := domain.DocumentType(r.FormValue("documentType"))
	if docType == "" {
		docType = domain.DocumentTypeOther
	}

	doc, err := h.changeOrderService.UploadDocument(r.Context(), id, docType, header.Filename, header.Header.Get("Content-Type"), file)
	if err != nil {
		respondServiceError(w, h.logger, err, "upload document")
		return
	}

	respondJSON(w, http.StatusCreated, doc)
}

// DownloadDocument streams a stored document back to the client
// @Summary Download change order document
// @Description Download a change order document
// @Tags change-orders,documents
// @Produce application/octet-stream
// @Param id path string true "Change order ID"
// @Param documentId path string true "Document ID"
// @Success 200
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Failure 500 {object} domain.APIError
// @Router /change-orders/{id}/documents/{documentId} [get]
// @Security BearerAuth
func (h *ChangeOrderHandler) DownloadDocument(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid change order ID")
		return
	}
	documentID, err := uuid.Parse(chi.URLParam(r, "documentId"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid document ID")
		return
	}

	doc, reader, err := h.changeOrderService.DownloadDocument(r.Context(), id, documentID)
	if err != nil {
		respondServiceError(w, h.logger, err, "download document")
		return
	}
	defer reader.Close()

	w.Header().Set("Content-Disposition", "attachment; filename=\""+doc.FileName+"\"")
	w.Header().Set("Content-Type", "application/octet-stream")
	_, _ = io.Copy(w, reader)
}

// DeleteDocument removes a change order document
// @Summary Delete change order document
// @Description Delete a change order document and its stored file
// @Tags change-orders,documents
// @Accept json
// @Produce json
// @Param id path string true "Change order ID"
// @Param documentId path string true "Document ID"
// @Success 204 "No Content"
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Failure 500 {object} domain.APIError
// @Router /change-orders/{id}/documents/{documentId} [delete]
// @Security BearerAuth
func (h *ChangeOrderHandler) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid change order ID")
		return
	}
	documentID, err := uuid.Parse(chi.URLParam(r, "documentId"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid document ID")
		return
	}

	if err := h.changeOrderService.DeleteDocument(r.Context(), id, documentID); err != nil {
		respondServiceError(w, h.logger, err, "delete document")
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}
