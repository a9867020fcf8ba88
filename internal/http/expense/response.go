package expense

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/outlay/internal/category"
	"github.com/MrJamesThe3rd/outlay/internal/expense"
	"github.com/MrJamesThe3rd/outlay/internal/receipt"
	"github.com/MrJamesThe3rd/outlay/internal/rule"
	"github.com/MrJamesThe3rd/outlay/internal/workflow"
)

type expenseResponse struct {
	ID               uuid.UUID          `json:"id"`
	SubmittedBy      uuid.UUID          `json:"submitted_by"`
	Description      string             `json:"description"`
	Category         category.Category  `json:"category"`
	Date             string             `json:"date"`
	PaidBy           string             `json:"paid_by,omitempty"`
	OriginalAmount   decimal.Decimal    `json:"original_amount"`
	OriginalCurrency string             `json:"original_currency"`
	BaseAmount       decimal.Decimal    `json:"base_amount"`
	BaseCurrency     string             `json:"base_currency"`
	ExchangeRate     decimal.Decimal    `json:"exchange_rate"`
	Receipt          *receipt.Receipt   `json:"receipt,omitempty"`
	Status           expense.Status     `json:"status"`
	Workflow         *workflow.Instance `json:"workflow"`
	RejectionReason  string             `json:"rejection_reason,omitempty"`
	ApprovedBy       *uuid.UUID         `json:"approved_by,omitempty"`
	ApprovedAt       *time.Time         `json:"approved_at,omitempty"`
	Version          int                `json:"version"`
	CreatedAt        time.Time          `json:"created_at"`
	UpdatedAt        *time.Time         `json:"updated_at,omitempty"`
}

type submitResponse struct {
	Expense  expenseResponse `json:"expense"`
	Warnings []string        `json:"warnings,omitempty"`
}

type listResponse struct {
	Expenses   []expenseResponse  `json:"expenses"`
	Pagination expense.Pagination `json:"pagination"`
}

func toResponse(e *expense.Expense) expenseResponse {
	return expenseResponse{
		ID:               e.ID,
		SubmittedBy:      e.SubmittedBy,
		Description:      e.Description,
		Category:         e.Category,
		Date:             e.Date.Format(time.DateOnly),
		PaidBy:           e.PaidBy,
		OriginalAmount:   e.OriginalAmount,
		OriginalCurrency: e.OriginalCurrency,
		BaseAmount:       e.BaseAmount,
		BaseCurrency:     e.BaseCurrency,
		ExchangeRate:     e.ExchangeRate,
		Receipt:          e.Receipt,
		Status:           e.Status,
		Workflow:         e.Workflow,
		RejectionReason:  e.RejectionReason,
		ApprovedBy:       e.ApprovedBy,
		ApprovedAt:       e.ApprovedAt,
		Version:          e.Version,
		CreatedAt:        e.CreatedAt,
		UpdatedAt:        e.UpdatedAt,
	}
}

func toListResponse(l *expense.List) listResponse {
	resp := listResponse{
		Expenses:   make([]expenseResponse, len(l.Expenses)),
		Pagination: l.Pagination,
	}

	for i, e := range l.Expenses {
		resp.Expenses[i] = toResponse(e)
	}

	return resp
}

type ruleSummary struct {
	ID           uuid.UUID         `json:"id"`
	Name         string            `json:"name"`
	SequenceType rule.SequenceType `json:"sequence_type"`
	Approvers    []rule.Approver   `json:"approvers"`
}

func toRuleResponse(r *rule.ApprovalRule) *ruleSummary {
	if r == nil {
		return nil
	}

	return &ruleSummary{ID: r.ID, Name: r.Name, SequenceType: r.SequenceType, Approvers: r.SortedApprovers()}
}
