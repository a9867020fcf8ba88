package rule

import (
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/outlay/internal/category"
)

// SequenceType decides how individual approver decisions add up to an outcome.
type SequenceType string

const (
	Sequential SequenceType = "sequential"
	Parallel   SequenceType = "parallel"
	Percentage SequenceType = "percentage"
	AnyOne     SequenceType = "any_one"
)

func (t SequenceType) Valid() bool {
	switch t {
	case Sequential, Parallel, Percentage, AnyOne:
		return true
	}

	return false
}

const DefaultMinApprovalPercentage = 100

// Approver is one entry of a rule's approver list. Order need not be contiguous.
type Approver struct {
	UserID uuid.UUID `json:"user_id" validate:"required"`
	Order  int       `json:"order" validate:"min=1"`
}

// Conditions restrict which expenses a rule applies to. A nil MaxAmount is unbounded
// and empty Categories match every category. Departments is stored but never evaluated.
type Conditions struct {
	MinAmount   decimal.Decimal     `json:"min_amount"`
	MaxAmount   *decimal.Decimal    `json:"max_amount,omitempty"`
	Categories  []category.Category `json:"categories,omitempty"`
	Departments []string            `json:"departments,omitempty"`
}

// Matches evaluates the amount and category bounds.
func (c Conditions) Matches(amount decimal.Decimal, cat category.Category) bool {
	if amount.LessThan(c.MinAmount) {
		return false
	}

	if c.MaxAmount != nil && amount.GreaterThan(*c.MaxAmount) {
		return false
	}

	if len(c.Categories) > 0 && !slices.Contains(c.Categories, cat) {
		return false
	}

	return true
}

// ApprovalRule is a tenant's template for routing expenses to approvers.
type ApprovalRule struct {
	ID                    uuid.UUID
	TenantID              uuid.UUID
	Name                  string
	Description           string
	Approvers             []Approver
	SequenceType          SequenceType
	MinApprovalPercentage int
	Conditions            Conditions
	IsActive              bool
	Priority              int
	CreatedBy             *uuid.UUID
	CreatedAt             time.Time
	UpdatedAt             *time.Time
}

// SortedApprovers returns a copy of the approvers ordered ascending by Order.
func (r *ApprovalRule) SortedApprovers() []Approver {
	out := slices.Clone(r.Approvers)
	slices.SortStableFunc(out, func(a, b Approver) int {
		return a.Order - b.Order
	})

	return out
}
