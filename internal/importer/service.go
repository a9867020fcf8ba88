package importer

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/outlay/internal/category"
	"github.com/MrJamesThe3rd/outlay/internal/expense"
	"github.com/MrJamesThe3rd/outlay/internal/identity"
)

//go:generate mockgen -source=service.go -destination=service_mock.go -package=importer
type Submitter interface {
	Submit(ctx context.Context, actor *identity.User, params expense.SubmitParams) (*expense.SubmitResult, error)
}

type TenantFinder interface {
	FindTenant(ctx context.Context, id uuid.UUID) (*identity.Tenant, error)
}

type Service struct {
	submitter Submitter
	tenants   TenantFinder
}

func NewService(submitter Submitter, tenants TenantFinder) *Service {
	return &Service{submitter: submitter, tenants: tenants}
}

type Imported struct {
	Line      int       `json:"line"`
	ExpenseID uuid.UUID `json:"expense_id"`
	Warnings  []string  `json:"warnings,omitempty"`
}

type Result struct {
	Profile  string     `json:"profile"`
	Imported []Imported `json:"imported"`
	Failed   []RowError `json:"failed"`
}

// Import submits every row of the statement for actor. Rows without a currency use
// the company's base currency and rows without a category become Other.
func (s *Service) Import(ctx context.Context, actor *identity.User, r io.Reader) (*Result, error) {
	st, err := Parse(r)
	if err != nil {
		return nil, err
	}

	tenant, err := s.tenants.FindTenant(ctx, actor.TenantID)
	if err != nil {
		return nil, fmt.Errorf("loading company: %w", err)
	}

	res := &Result{
		Profile:  st.Profile,
		Imported: []Imported{},
		Failed:   append([]RowError{}, st.Errors...),
	}

	for _, row := range st.Rows {
		params := expense.SubmitParams{
			Description: row.Description,
			Category:    category.Category(row.Category),
			Date:        row.Date,
			Amount:      row.Amount,
			Currency:    row.Currency,
			PaidBy:      row.PaidBy,
		}

		if params.Currency == "" {
			params.Currency = tenant.BaseCurrency
		}

		if c, ok := category.Parse(row.Category); ok {
			params.Category = c
		} else if row.Category == "" {
			params.Category = category.Other
		}

		out, err := s.submitter.Submit(ctx, actor, params)
		if err != nil {
			res.Failed = append(res.Failed, RowError{Line: row.Line, Message: err.Error()})
			continue
		}

		res.Imported = append(res.Imported, Imported{Line: row.Line, ExpenseID: out.Expense.ID, Warnings: out.Warnings})
	}

	return res, nil
}
