package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Base model with common fields
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// ProjectType represents the kind of development a plan applies to
type ProjectType string

const (
	ProjectTypeSingleFamily ProjectType = "single_family"
	ProjectTypeTownhome     ProjectType = "townhome"
	ProjectTypeDuplex       ProjectType = "duplex"
	ProjectTypeCustom       ProjectType = "custom"
	ProjectTypeSpec         ProjectType = "spec"
	ProjectTypeRenovation   ProjectType = "renovation"
)

// IsValid checks if the ProjectType is a valid enum value
func (pt ProjectType) IsValid() bool {
	switch pt {
	case ProjectTypeSingleFamily, ProjectTypeTownhome, ProjectTypeDuplex,
		ProjectTypeCustom, ProjectTypeSpec, ProjectTypeRenovation:
		return true
	}
	return false
}

// Project is the scope anchor for budget versions and change-order numbering.
// Only id and name are read by this engine; everything else about a project
// lives in the project collaborator. The two counters are high-water marks
// for budget version and change order numbering: they only ever grow, so a
// number is never reissued after the row that carried it is deleted.
type Project struct {
	BaseModel
	Name             string `gorm:"type:varchar(200);not null;index"`
	BudgetVersionSeq int    `gorm:"not null;default:0;column:budget_version_seq"`
	ChangeOrderSeq   int    `gorm:"not null;default:0;column:change_order_seq"`
}

// Plan represents a reusable construction blueprint with a fixed cost breakdown.
// Plans are referenced by value at expansion time: once a budget has been seeded
// from a plan, editing the plan never changes the budget. Edits to a referenced
// plan are copy-on-write (new row, old row deactivated).
type Plan struct {
	BaseModel
	Name          string         `gorm:"type:varchar(200);not null;index"`
	Description   string         `gorm:"type:text"`
	SquareFootage int            `gorm:"not null;column:square_footage"`
	Bedrooms      int            `gorm:"not null;default:0"`
	Bathrooms     float64        `gorm:"type:decimal(3,1);not null;default:0"`
	GarageSpaces  int            `gorm:"not null;default:0;column:garage_spaces"`
	Stories       int            `gorm:"not null;default:1"`
	ProjectTypes  pq.StringArray `gorm:"type:text[];column:project_types"`
	BaseCost      float64        `gorm:"type:decimal(15,2);not null;default:0;column:base_cost"`
	CostPerSF     float64        `gorm:"type:decimal(10,2);not null;default:0;column:cost_per_sf"`
	IsActive      bool           `gorm:"not null;default:true;column:is_active"`
	CostLines     []PlanCostLine `gorm:"foreignKey:PlanID;constraint:OnDelete:CASCADE"`
}

// AppliesTo reports whether the plan is tagged for the given project type
func (p *Plan) AppliesTo(projectType ProjectType) bool {
	for _, t := range p.ProjectTypes {
		if t == string(projectType) {
			return true
		}
	}
	return false
}

// PlanCostLine is one entry of a plan's cost breakdown. Lines are ordered:
// expansion iterates them by display_order, which preserves the order the
// breakdown was authored in. The breakdown is the canonical source for
// line-item generation; base_cost is only a summary figure and the two are
// not required to agree.
type PlanCostLine struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	PlanID       uuid.UUID `gorm:"type:uuid;not null;index;column:plan_id"`
	CategoryKey  string    `gorm:"type:varchar(100);not null;column:category_key"`
	Amount       float64   `gorm:"type:decimal(15,2);not null"`
	DisplayOrder int       `gorm:"not null;default:0;column:display_order"`
}

// BudgetTemplate is a reusable set of line-item definitions not tied to a
// specific plan's physical specs
type BudgetTemplate struct {
	BaseModel
	Name        string             `gorm:"type:varchar(200);not null"`
	Description string             `gorm:"type:text"`
	IsActive    bool               `gorm:"not null;default:true;column:is_active"`
	Categories  []TemplateCategory `gorm:"foreignKey:TemplateID;constraint:OnDelete:CASCADE"`
	Items       []TemplateItem     `gorm:"foreignKey:TemplateID;constraint:OnDelete:CASCADE"`
}

// TemplateCategory is a named grouping defined by a template
type TemplateCategory struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	TemplateID   uuid.UUID `gorm:"type:uuid;not null;index;column:template_id"`
	Name         string    `gorm:"type:varchar(200);not null"`
	DisplayOrder int       `gorm:"not null;default:0;column:display_order"`
}

// TemplateItem is one line-item definition within a template. Category is
// resolved by CategoryID lookup first, then the literal Category string, then
// "Uncategorized".
type TemplateItem struct {
	ID            uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	TemplateID    uuid.UUID  `gorm:"type:uuid;not null;index;column:template_id"`
	CategoryID    *uuid.UUID `gorm:"type:uuid;column:category_id"`
	Category      string     `gorm:"type:varchar(200)"`
	Code          string     `gorm:"type:varchar(20)"`
	Name          string     `gorm:"type:varchar(200);not null"`
	DefaultAmount float64    `gorm:"type:decimal(15,2);not null;default:0;column:default_amount"`
	SortOrder     int        `gorm:"not null;default:0;column:sort_order"`
}

// BudgetStatus represents the review status of a budget version
type BudgetStatus string

const (
	BudgetStatusDraft    BudgetStatus = "draft"
	BudgetStatusApproved BudgetStatus = "approved"
	BudgetStatusArchived BudgetStatus = "archived"
)

// IsValid checks if the BudgetStatus is a valid enum value
func (bs BudgetStatus) IsValid() bool {
	switch bs {
	case BudgetStatusDraft, BudgetStatusApproved, BudgetStatusArchived:
		return true
	}
	return false
}

// ProjectBudget is one versioned snapshot of a project's full budget.
// At most one budget per project has is_active = true; version numbers
// strictly increase per project and are never reused, even after deletion.
type ProjectBudget struct {
	BaseModel
	ProjectID     uuid.UUID        `gorm:"type:uuid;not null;index;column:project_id"`
	Project       *Project         `gorm:"foreignKey:ProjectID"`
	BudgetName    string           `gorm:"type:varchar(200);not null;column:budget_name"`
	VersionNumber int              `gorm:"not null;column:version_number"`
	PlanID        *uuid.UUID       `gorm:"type:uuid;column:plan_id"`
	TemplateID    *uuid.UUID       `gorm:"type:uuid;column:template_id"`
	IsActive      bool             `gorm:"not null;default:false;column:is_active"`
	Status        BudgetStatus     `gorm:"type:varchar(50);not null;default:'draft'"`
	CreatedBy     string           `gorm:"type:varchar(100);column:created_by"`
	LineItems     []BudgetLineItem `gorm:"foreignKey:BudgetID;constraint:OnDelete:CASCADE"`

	// Derived on read from the line items, never persisted
	TotalBudget    float64 `gorm:"-"`
	TotalActual    float64 `gorm:"-"`
	TotalCommitted float64 `gorm:"-"`
	TotalVariance  float64 `gorm:"-"`
}

// CalculationType represents how a line item's budget amount is determined
type CalculationType string

const (
	CalculationTypeFixed      CalculationType = "fixed"
	CalculationTypePercentage CalculationType = "percentage"
)

// IsValid checks if the CalculationType is a valid enum value
func (ct CalculationType) IsValid() bool {
	switch ct {
	case CalculationTypeFixed, CalculationTypePercentage:
		return true
	}
	return false
}

// CalculationBasis is a typed reference to the aggregate a percentage line
// item applies to. Typed rather than a free-text category name so a category
// rename or typo cannot silently detach percentage items from their basis.
type CalculationBasis string

const (
	BasisHardCosts CalculationBasis = "hard_costs"
	BasisSoftCosts CalculationBasis = "soft_costs"
)

// IsValid checks if the CalculationBasis is a valid enum value
func (cb CalculationBasis) IsValid() bool {
	switch cb {
	case BasisHardCosts, BasisSoftCosts:
		return true
	}
	return false
}

// CategoryName returns the line-item category the basis sums over
func (cb CalculationBasis) CategoryName() string {
	switch cb {
	case BasisHardCosts:
		return "Hard Costs"
	case BasisSoftCosts:
		return "Soft Costs"
	}
	return ""
}

// BudgetLineItem is one cost line within a budget. line_item_code is unique
// within a budget (format NN-NNN). For percentage items, budget_amount is
// derived from the fixed siblings in the basis category and is refreshed
// before any aggregation; the stored value is never authoritative.
type BudgetLineItem struct {
	BaseModel
	BudgetID         uuid.UUID         `gorm:"type:uuid;not null;index;column:budget_id"`
	Category         string            `gorm:"type:varchar(100);not null;index"`
	Subcategory      string            `gorm:"type:varchar(100)"`
	LineItemCode     string            `gorm:"type:varchar(20);not null;column:line_item_code"`
	LineItemName     string            `gorm:"type:varchar(200);not null;column:line_item_name"`
	BudgetAmount     float64           `gorm:"type:decimal(15,2);not null;default:0;column:budget_amount"`
	ActualAmount     float64           `gorm:"type:decimal(15,2);not null;default:0;column:actual_amount"`
	CommittedAmount  float64           `gorm:"type:decimal(15,2);not null;default:0;column:committed_amount"`
	CalculationType  CalculationType   `gorm:"type:varchar(50);not null;default:'fixed';column:calculation_type"`
	CalculationBasis *CalculationBasis `gorm:"type:varchar(50);column:calculation_basis"`
	PercentageRate   *float64          `gorm:"type:decimal(5,2);column:percentage_rate"`
	IsFromTemplate   bool              `gorm:"not null;default:false;column:is_from_template"`
	IsFromPlan       bool              `gorm:"not null;default:false;column:is_from_plan"`
	SortOrder        int               `gorm:"not null;default:0;column:sort_order"`
}

// Variance returns the line's remaining budget (positive = under budget)
func (li *BudgetLineItem) Variance() float64 {
	return li.BudgetAmount - li.ActualAmount
}

// ChangeOrderStatus represents the state of a change order. approved and
// denied are terminal: a decided change order is never mutated again, and a
// reversal is modeled as a new compensating change order.
type ChangeOrderStatus string

const (
	ChangeOrderStatusPending  ChangeOrderStatus = "pending"
	ChangeOrderStatusApproved ChangeOrderStatus = "approved"
	ChangeOrderStatusDenied   ChangeOrderStatus = "denied"
)

// IsValid checks if the ChangeOrderStatus is a valid enum value
func (s ChangeOrderStatus) IsValid() bool {
	switch s {
	case ChangeOrderStatusPending, ChangeOrderStatusApproved, ChangeOrderStatusDenied:
		return true
	}
	return false
}

// IsTerminal reports whether the status permits no further transitions
func (s ChangeOrderStatus) IsTerminal() bool {
	return s == ChangeOrderStatusApproved || s == ChangeOrderStatusDenied
}

// ChangeOrderReason represents the categorized cause of a change order
type ChangeOrderReason string

const (
	ReasonOwnerRequest        ChangeOrderReason = "owner_request"
	ReasonUnforeseenCondition ChangeOrderReason = "unforeseen_condition"
	ReasonDesignChange        ChangeOrderReason = "design_change"
	ReasonCodeRequirement     ChangeOrderReason = "code_requirement"
	ReasonValueEngineering    ChangeOrderReason = "value_engineering"
	ReasonOther               ChangeOrderReason = "other"
)

// IsValid checks if the ChangeOrderReason is a valid enum value
func (r ChangeOrderReason) IsValid() bool {
	switch r {
	case ReasonOwnerRequest, ReasonUnforeseenCondition, ReasonDesignChange,
		ReasonCodeRequirement, ReasonValueEngineering, ReasonOther:
		return true
	}
	return false
}

// ChangeOrder is a proposed, then approved or denied, modification to one
// budget line item's cost. Amount is signed: a negative amount is a credit
// (value engineering). co_number is unique and strictly increasing per
// project, assigned the same way as budget version numbers.
type ChangeOrder struct {
	BaseModel
	ProjectID           uuid.UUID             `gorm:"type:uuid;not null;index;column:project_id"`
	BudgetID            uuid.UUID             `gorm:"type:uuid;not null;index;column:budget_id"`
	CONumber            int                   `gorm:"not null;column:co_number"`
	Title               string                `gorm:"type:varchar(200);not null"`
	Description         string                `gorm:"type:text"`
	Reason              ChangeOrderReason     `gorm:"type:varchar(50);not null;default:'other'"`
	ContractorID        string                `gorm:"type:varchar(100);column:contractor_id"`
	ContractorName      string                `gorm:"type:varchar(200);not null;column:contractor_name"`
	ContractorReference string                `gorm:"type:varchar(100);column:contractor_reference"`
	Amount              float64               `gorm:"type:decimal(15,2);not null"`
	BudgetLineItemID    *uuid.UUID            `gorm:"type:uuid;index;column:budget_line_item_id"`
	SubmittedDate       time.Time             `gorm:"type:date;not null;column:submitted_date"`
	ApprovalDeadline    *time.Time            `gorm:"type:date;column:approval_deadline"`
	Status              ChangeOrderStatus     `gorm:"type:varchar(50);not null;default:'pending';index"`
	ApprovedDate        *time.Time            `gorm:"column:approved_date"`
	ApprovedBy          string                `gorm:"type:varchar(100);column:approved_by"`
	ApprovalNotes       string                `gorm:"type:text;column:approval_notes"`
	DenialReason        string                `gorm:"type:text;column:denial_reason"`
	IsPaid              bool                  `gorm:"not null;default:false;column:is_paid"`
	PaidDate            *time.Time            `gorm:"type:date;column:paid_date"`
	PaidAmount          *float64              `gorm:"type:decimal(15,2);column:paid_amount"`
	Notes               string                `gorm:"type:text"`
	CreatedBy           string                `gorm:"type:varchar(100);column:created_by"`
	Documents           []ChangeOrderDocument `gorm:"foreignKey:ChangeOrderID;constraint:OnDelete:CASCADE"`
}

// EffectiveAmount returns the amount a paid change order settled for,
// falling back to the approved amount when no explicit payment was recorded
func (co *ChangeOrder) EffectiveAmount() float64 {
	if co.PaidAmount != nil {
		return *co.PaidAmount
	}
	return co.Amount
}

// DocumentType classifies a supporting document attached to a change order
type DocumentType string

const (
	DocumentTypeContract DocumentType = "contract"
	DocumentTypeQuote    DocumentType = "quote"
	DocumentTypeInvoice  DocumentType = "invoice"
	DocumentTypeDrawing  DocumentType = "drawing"
	DocumentTypePhoto    DocumentType = "photo"
	DocumentTypeOther    DocumentType = "other"
)

// IsValid checks if the DocumentType is a valid enum value
func (dt DocumentType) IsValid() bool {
	switch dt {
	case DocumentTypeContract, DocumentTypeQuote, DocumentTypeInvoice,
		DocumentTypeDrawing, DocumentTypePhoto, DocumentTypeOther:
		return true
	}
	return false
}

// ChangeOrderDocument is file metadata attached to a change order. Pure child
// record: no business logic, cascade-deleted with its parent. File bytes live
// in the document storage collaborator.
type ChangeOrderDocument struct {
	ID            uuid.UUID    `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	ChangeOrderID uuid.UUID    `gorm:"type:uuid;not null;index;column:change_order_id"`
	DocumentType  DocumentType `gorm:"type:varchar(50);not null;default:'other';column:document_type"`
	FileName      string       `gorm:"type:varchar(255);not null;column:file_name"`
	FilePath      string       `gorm:"type:varchar(500);not null;column:file_path"`
	FileSize      int64        `gorm:"not null;column:file_size"`
	UploadedAt    time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP;column:uploaded_at"`
}
