package service

import (
	"errors"
	"fmt"
)

// Base error kinds. The specific sentinels below wrap one of these so
// handlers can match on the kind with errors.Is and pick a status code.
var (
	// ErrNotFound is returned when a resource is not found
	ErrNotFound = errors.New("resource not found")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")

	// ErrConflict is returned when an operation collides with current state
	ErrConflict = errors.New("resource conflict")
)

var (
	// ErrProjectNotFound is returned when a project is not found
	ErrProjectNotFound = fmt.Errorf("%w: project", ErrNotFound)

	// ErrPlanNotFound is returned when a plan is not found
	ErrPlanNotFound = fmt.Errorf("%w: plan", ErrNotFound)

	// ErrTemplateNotFound is returned when a budget template is not found
	ErrTemplateNotFound = fmt.Errorf("%w: budget template", ErrNotFound)

	// ErrBudgetNotFound is returned when a budget version is not found
	ErrBudgetNotFound = fmt.Errorf("%w: budget", ErrNotFound)

	// ErrNoActiveBudget is returned when a project has no active budget
	ErrNoActiveBudget = fmt.Errorf("%w: project has no active budget", ErrNotFound)

	// ErrLineItemNotFound is returned when a budget line item is not found
	ErrLineItemNotFound = fmt.Errorf("%w: budget line item", ErrNotFound)

	// ErrChangeOrderNotFound is returned when a change order is not found
	ErrChangeOrderNotFound = fmt.Errorf("%w: change order", ErrNotFound)

	// ErrDocumentNotFound is returned when a change order document is not found
	ErrDocumentNotFound = fmt.Errorf("%w: document", ErrNotFound)

	// ErrDuplicateLineItemCode is returned when a line item code is already
	// used within the same budget
	ErrDuplicateLineItemCode = fmt.Errorf("%w: line item code already exists in this budget", ErrConflict)

	// ErrLineItemHasChangeOrders is returned when deleting a line item that
	// active change orders still reference
	ErrLineItemHasChangeOrders = fmt.Errorf("%w: line item is referenced by active change orders", ErrConflict)

	// ErrChangeOrderDecided is returned when modifying a change order that has
	// already been approved or denied
	ErrChangeOrderDecided = fmt.Errorf("%w: change order has already been decided", ErrConflict)

	// ErrChangeOrderNotApproved is returned when marking an unapproved change
	// order as paid
	ErrChangeOrderNotApproved = fmt.Errorf("%w: change order is not approved", ErrConflict)

	// ErrChangeOrderAlreadyPaid is returned when paying a change order twice
	ErrChangeOrderAlreadyPaid = fmt.Errorf("%w: change order is already paid", ErrConflict)

	// ErrDenialReasonRequired is returned when denying without a reason
	ErrDenialReasonRequired = fmt.Errorf("%w: denial reason is required", ErrInvalidInput)

	// ErrBudgetHasPostedEntries is returned when deleting a budget that has
	// journal entries posted in the accounting ledger
	ErrBudgetHasPostedEntries = fmt.Errorf("%w: budget has posted ledger entries", ErrConflict)

	// ErrSeedSourceConflict is returned when a budget create names both a plan
	// and a template as seed source
	ErrSeedSourceConflict = fmt.Errorf("%w: budget cannot be seeded from both a plan and a template", ErrInvalidInput)
)
