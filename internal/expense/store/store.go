package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/outlay/internal/category"
	"github.com/MrJamesThe3rd/outlay/internal/expense"
	"github.com/MrJamesThe3rd/outlay/internal/workflow"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

const selectExpenseColumns = `
	e.id, e.tenant_id, e.submitted_by, e.description, e.category, e.date, e.paid_by,
	e.original_amount, e.original_currency, e.base_amount, e.base_currency, e.exchange_rate,
	e.receipt, e.status, e.workflow, e.rejection_reason, e.approved_by, e.approved_at,
	e.version, e.created_at, e.updated_at
`

func scanExpense(s scanner) (*expense.Expense, error) {
	var (
		e                  expense.Expense
		cat, status        string
		receiptJSON, wfRaw []byte
	)

	if err := s.Scan(
		&e.ID, &e.TenantID, &e.SubmittedBy, &e.Description, &cat, &e.Date, &e.PaidBy,
		&e.OriginalAmount, &e.OriginalCurrency, &e.BaseAmount, &e.BaseCurrency, &e.ExchangeRate,
		&receiptJSON, &status, &wfRaw, &e.RejectionReason, &e.ApprovedBy, &e.ApprovedAt,
		&e.Version, &e.CreatedAt, &e.UpdatedAt,
	); err != nil {
		return nil, err
	}

	e.Category = category.Category(cat)
	e.Status = expense.Status(status)

	e.Workflow = &workflow.Instance{}
	if err := json.Unmarshal(wfRaw, e.Workflow); err != nil {
		return nil, fmt.Errorf("decoding workflow of expense %s: %w", e.ID, err)
	}

	if len(receiptJSON) > 0 {
		if err := json.Unmarshal(receiptJSON, &e.Receipt); err != nil {
			return nil, fmt.Errorf("decoding receipt of expense %s: %w", e.ID, err)
		}
	}

	return &e, nil
}

func (s *Store) CreateExpense(ctx context.Context, e *expense.Expense) error {
	wf, err := json.Marshal(e.Workflow)
	if err != nil {
		return fmt.Errorf("encoding workflow: %w", err)
	}

	var receiptJSON []byte
	if e.Receipt != nil {
		if receiptJSON, err = json.Marshal(e.Receipt); err != nil {
			return fmt.Errorf("encoding receipt: %w", err)
		}
	}

	query := `
		INSERT INTO expenses (
			id, tenant_id, submitted_by, description, category, date, paid_by,
			original_amount, original_currency, base_amount, base_currency, exchange_rate,
			receipt, status, workflow, version, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, NOW())
		RETURNING created_at
	`

	err = s.db.QueryRowContext(ctx, query,
		e.ID,
		e.TenantID,
		e.SubmittedBy,
		e.Description,
		e.Category,
		e.Date,
		e.PaidBy,
		e.OriginalAmount,
		e.OriginalCurrency,
		e.BaseAmount,
		e.BaseCurrency,
		e.ExchangeRate,
		receiptJSON,
		e.Status,
		wf,
		e.Version,
	).Scan(&e.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating expense: %w", err)
	}

	return nil
}

func (s *Store) GetExpense(ctx context.Context, tenantID, id uuid.UUID) (*expense.Expense, error) {
	query := `SELECT ` + selectExpenseColumns + ` FROM expenses e WHERE e.id = $1 AND e.tenant_id = $2`

	e, err := scanExpense(s.db.QueryRowContext(ctx, query, id, tenantID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, expense.ErrNotFound
		}

		return nil, fmt.Errorf("getting expense: %w", err)
	}

	return e, nil
}

func (s *Store) GetPendingExpense(ctx context.Context, tenantID, id uuid.UUID) (*expense.Expense, error) {
	query := `SELECT ` + selectExpenseColumns + ` FROM expenses e WHERE e.id = $1 AND e.tenant_id = $2 AND e.status = 'pending'`

	e, err := scanExpense(s.db.QueryRowContext(ctx, query, id, tenantID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, expense.ErrNotPending
		}

		return nil, fmt.Errorf("getting pending expense: %w", err)
	}

	return e, nil
}

// SaveDecision is a compare-and-swap on (status = pending, version). The statement
// either applies the whole decision or nothing.
func (s *Store) SaveDecision(ctx context.Context, e *expense.Expense, expectedVersion int) error {
	wf, err := json.Marshal(e.Workflow)
	if err != nil {
		return fmt.Errorf("encoding workflow: %w", err)
	}

	query := `
		UPDATE expenses
		SET status = $1, workflow = $2, rejection_reason = $3, approved_by = $4, approved_at = $5,
			version = version + 1, updated_at = NOW()
		WHERE id = $6 AND tenant_id = $7 AND status = 'pending' AND version = $8
		RETURNING version, updated_at
	`

	err = s.db.QueryRowContext(ctx, query,
		e.Status,
		wf,
		e.RejectionReason,
		e.ApprovedBy,
		e.ApprovedAt,
		e.ID,
		e.TenantID,
		expectedVersion,
	).Scan(&e.Version, &e.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return expense.ErrConflict
		}

		return fmt.Errorf("saving decision: %w", err)
	}

	return nil
}

func (s *Store) ListExpenses(ctx context.Context, tenantID uuid.UUID, filter expense.Filter, page expense.Page) ([]*expense.Expense, int, error) {
	where, args := buildWhere(tenantID, filter)

	from := ` FROM expenses e JOIN users u ON u.id = e.submitted_by WHERE ` + where

	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*)`+from, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting expenses: %w", err)
	}

	query := `SELECT ` + selectExpenseColumns + from +
		fmt.Sprintf(` ORDER BY e.created_at DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)

	rows, err := s.db.QueryContext(ctx, query, append(args, page.Limit, page.Offset())...)
	if err != nil {
		return nil, 0, fmt.Errorf("listing expenses: %w", err)
	}
	defer rows.Close()

	var expenses []*expense.Expense

	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scanning expense: %w", err)
		}

		expenses = append(expenses, e)
	}

	return expenses, total, rows.Err()
}

func buildWhere(tenantID uuid.UUID, filter expense.Filter) (string, []any) {
	conds := []string{"e.tenant_id = $1"}
	args := []any{tenantID}

	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if filter.Status != "" {
		add("e.status = $%d", filter.Status)
	}

	if filter.Category != "" {
		add("e.category = $%d", filter.Category)
	}

	if filter.Department != "" {
		add("u.department = $%d", filter.Department)
	}

	if filter.From != nil {
		add("e.date >= $%d", *filter.From)
	}

	if filter.To != nil {
		add("e.date <= $%d", *filter.To)
	}

	if filter.SubmittedBy != nil {
		add("e.submitted_by = $%d", *filter.SubmittedBy)
	}

	if filter.ManagerID != nil {
		add("u.manager_id = $%d", *filter.ManagerID)
	}

	if filter.PendingApprover != nil {
		add(`e.workflow->'approvers' @> jsonb_build_array(jsonb_build_object('approver_id', $%d::text, 'status', 'pending'))`,
			filter.PendingApprover.String())
	}

	return strings.Join(conds, " AND "), args
}
