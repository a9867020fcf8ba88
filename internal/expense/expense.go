package expense

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/outlay/internal/category"
	"github.com/MrJamesThe3rd/outlay/internal/receipt"
	"github.com/MrJamesThe3rd/outlay/internal/workflow"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
	// StatusPartiallyApproved is accepted in filters but no transition produces it.
	StatusPartiallyApproved Status = "partially_approved"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusPartiallyApproved:
		return true
	}

	return false
}

// Expense is a submitted claim. The base amount and exchange rate are fixed at
// submission and never recomputed.
type Expense struct {
	ID               uuid.UUID
	TenantID         uuid.UUID
	SubmittedBy      uuid.UUID
	Description      string
	Category         category.Category
	Date             time.Time
	PaidBy           string
	OriginalAmount   decimal.Decimal
	OriginalCurrency string
	BaseAmount       decimal.Decimal
	BaseCurrency     string
	ExchangeRate     decimal.Decimal
	Receipt          *receipt.Receipt
	Status           Status
	Workflow         *workflow.Instance
	RejectionReason  string
	ApprovedBy       *uuid.UUID
	ApprovedAt       *time.Time
	// Version increases with every persisted decision.
	Version   int
	CreatedAt time.Time
	UpdatedAt *time.Time
}

// Filter narrows expense listings. Zero fields do not filter.
type Filter struct {
	Status      Status
	Category    category.Category
	Department  string
	From        *time.Time
	To          *time.Time
	SubmittedBy *uuid.UUID
	// ManagerID keeps expenses whose submitter reports to this user.
	ManagerID *uuid.UUID
	// PendingApprover keeps expenses holding a pending slot for this user.
	PendingApprover *uuid.UUID
}

const (
	DefaultLimit = 10
	MaxLimit     = 100
)

type Page struct {
	Page  int
	Limit int
}

// Normalize clamps p to page >= 1 and 1 <= limit <= MaxLimit.
func (p Page) Normalize() Page {
	if p.Page < 1 {
		p.Page = 1
	}

	switch {
	case p.Limit < 1:
		p.Limit = DefaultLimit
	case p.Limit > MaxLimit:
		p.Limit = MaxLimit
	}

	return p
}

func (p Page) Offset() int {
	return (p.Page - 1) * p.Limit
}

type Pagination struct {
	Current int `json:"current"`
	Pages   int `json:"pages"`
	Total   int `json:"total"`
}

type List struct {
	Expenses   []*Expense
	Pagination Pagination
}

func newList(expenses []*Expense, total int, p Page) *List {
	return &List{
		Expenses: expenses,
		Pagination: Pagination{
			Current: p.Page,
			Pages:   (total + p.Limit - 1) / p.Limit,
			Total:   total,
		},
	}
}
