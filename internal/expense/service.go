package expense

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/outlay/internal/apperr"
	"github.com/MrJamesThe3rd/outlay/internal/category"
	"github.com/MrJamesThe3rd/outlay/internal/currency"
	"github.com/MrJamesThe3rd/outlay/internal/identity"
	"github.com/MrJamesThe3rd/outlay/internal/notify"
	"github.com/MrJamesThe3rd/outlay/internal/receipt"
	"github.com/MrJamesThe3rd/outlay/internal/rule"
	"github.com/MrJamesThe3rd/outlay/internal/validation"
	"github.com/MrJamesThe3rd/outlay/internal/workflow"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=expense
type Repository interface {
	CreateExpense(ctx context.Context, e *Expense) error
	GetExpense(ctx context.Context, tenantID, id uuid.UUID) (*Expense, error)
	// GetPendingExpense fails with ErrNotPending unless the expense exists in the
	// tenant with status pending.
	GetPendingExpense(ctx context.Context, tenantID, id uuid.UUID) (*Expense, error)
	// SaveDecision writes status, workflow and decision metadata only if the stored
	// version still equals expectedVersion, and fails with ErrConflict otherwise.
	SaveDecision(ctx context.Context, e *Expense, expectedVersion int) error
	ListExpenses(ctx context.Context, tenantID uuid.UUID, filter Filter, page Page) ([]*Expense, int, error)
}

type Directory interface {
	FindUser(ctx context.Context, id uuid.UUID) (*identity.User, error)
	FindTenant(ctx context.Context, id uuid.UUID) (*identity.Tenant, error)
	UsersByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]*identity.User, error)
}

type RuleMatcher interface {
	Match(ctx context.Context, tenantID uuid.UUID, amount decimal.Decimal, cat category.Category) (*rule.ApprovalRule, error)
	Get(ctx context.Context, tenantID, id uuid.UUID) (*rule.ApprovalRule, error)
}

type Converter interface {
	Convert(ctx context.Context, amount decimal.Decimal, from, to string) (currency.Conversion, error)
}

type FileStore interface {
	Put(ctx context.Context, object, contentType string, body io.Reader) (string, error)
}

type ReceiptParser interface {
	Enabled() bool
	Parse(ctx context.Context, tenantID uuid.UUID, image []byte, contentType string) (*receipt.Data, error)
}

type Service struct {
	repo      Repository
	directory Directory
	rules     RuleMatcher
	converter Converter
	files     FileStore
	parser    ReceiptParser
	sender    notify.Sender
	now       func() time.Time
}

type Option func(*Service)

// WithReceipts enables receipt uploads and, when parser is enabled, extraction.
func WithReceipts(files FileStore, parser ReceiptParser) Option {
	return func(s *Service) {
		s.files = files
		s.parser = parser
	}
}

func WithNotifier(sender notify.Sender) Option {
	return func(s *Service) {
		s.sender = sender
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func NewService(repo Repository, directory Directory, rules RuleMatcher, converter Converter, opts ...Option) *Service {
	s := &Service{
		repo:      repo,
		directory: directory,
		rules:     rules,
		converter: converter,
		sender:    notify.Nop{},
		now:       time.Now,
	}

	for _, o := range opts {
		o(s)
	}

	return s
}

// Upload is a receipt file sent along with a submission.
type Upload struct {
	FileName    string
	ContentType string
	Data        []byte
}

type SubmitParams struct {
	Description string            `json:"description" validate:"required,max=200"`
	Category    category.Category `json:"category" validate:"required"`
	Date        time.Time         `json:"date" validate:"required"`
	Amount      decimal.Decimal   `json:"amount"`
	Currency    string            `json:"currency" validate:"required,len=3,uppercase"`
	PaidBy      string            `json:"paid_by" validate:"max=50"`
	Receipt     *Upload           `json:"-"`
}

// SubmitResult carries the stored expense and the best-effort steps that were skipped.
type SubmitResult struct {
	Expense  *Expense
	Warnings []string
}

var minAmount = decimal.RequireFromString("0.01")

// Submit converts the amount once, routes the expense through the matching rule and
// stores it as pending.
func (s *Service) Submit(ctx context.Context, actor *identity.User, params SubmitParams) (*SubmitResult, error) {
	params.Description = strings.TrimSpace(params.Description)
	params.PaidBy = strings.TrimSpace(params.PaidBy)

	if err := validateSubmit(params); err != nil {
		return nil, err
	}

	tenant, err := s.directory.FindTenant(ctx, actor.TenantID)
	if err != nil {
		return nil, fmt.Errorf("loading company: %w", err)
	}

	if !tenant.Settings.AllowMultiCurrency && params.Currency != tenant.BaseCurrency {
		return nil, apperr.Invalid("currency", "company only accepts expenses in %s", tenant.BaseCurrency)
	}

	if tenant.Settings.RequireReceipt && params.Receipt == nil {
		return nil, apperr.Invalid("receipt", "a receipt is required")
	}

	conv, err := s.converter.Convert(ctx, params.Amount, params.Currency, tenant.BaseCurrency)
	if err != nil {
		return nil, fmt.Errorf("converting amount: %w", err)
	}

	if limit := tenant.Settings.MaxExpenseAmount; limit.IsPositive() && conv.Amount.GreaterThan(limit) {
		return nil, apperr.Invalid("amount", "exceeds the company limit of %s %s", limit.StringFixed(2), tenant.BaseCurrency)
	}

	e := &Expense{
		ID:               uuid.New(),
		TenantID:         actor.TenantID,
		SubmittedBy:      actor.ID,
		Description:      params.Description,
		Category:         params.Category,
		Date:             params.Date,
		PaidBy:           params.PaidBy,
		OriginalAmount:   params.Amount,
		OriginalCurrency: params.Currency,
		BaseAmount:       conv.Amount,
		BaseCurrency:     tenant.BaseCurrency,
		ExchangeRate:     conv.Rate,
		Status:           StatusPending,
		Version:          1,
	}

	var warnings []string

	if params.Receipt != nil {
		rec, warning, err := s.storeReceipt(ctx, e, params.Receipt)
		if err != nil {
			return nil, err
		}

		e.Receipt = rec

		if warning != "" {
			warnings = append(warnings, warning)
		}
	}

	matched, err := s.rules.Match(ctx, e.TenantID, e.BaseAmount, e.Category)
	if err != nil {
		slog.Warn("rule matching failed, using default routing",
			"tenant_id", e.TenantID,
			"expense_id", e.ID,
			"error", err,
		)

		matched = nil

		warnings = append(warnings, "approval rules could not be evaluated; default routing was used")
	}

	e.Workflow = workflow.Build(matched, actor.ManagerID)

	if err := s.repo.CreateExpense(ctx, e); err != nil {
		return nil, err
	}

	s.notifyApprovers(ctx, actor, e, e.Workflow.Actionable())

	return &SubmitResult{Expense: e, Warnings: warnings}, nil
}

func validateSubmit(params SubmitParams) error {
	var fields []apperr.FieldError

	if params.Category != "" && !params.Category.Valid() {
		fields = append(fields, apperr.FieldError{Field: "category", Message: "must be one of the known categories"})
	}

	if params.Amount.LessThan(minAmount) {
		fields = append(fields, apperr.FieldError{Field: "amount", Message: "must be at least 0.01"})
	}

	if len(params.Currency) == 3 && !currency.IsValid(params.Currency) {
		fields = append(fields, apperr.FieldError{Field: "currency", Message: "must be a valid ISO 4217 currency code"})
	}

	var extra error
	if len(fields) > 0 {
		extra = &apperr.ValidationError{Fields: fields}
	}

	return validation.Merge(validation.Struct(params), extra)
}

// storeReceipt uploads the file, which must succeed, then tries to read it.
func (s *Service) storeReceipt(ctx context.Context, e *Expense, up *Upload) (*receipt.Receipt, string, error) {
	if s.files == nil {
		return nil, "", apperr.Upstream("receipt storage", errors.New("receipt storage is not configured"))
	}

	name := path.Base(strings.ReplaceAll(up.FileName, "\\", "/"))
	if name == "." || name == "/" {
		name = "receipt"
	}

	object := fmt.Sprintf("%s/%s/%s", e.TenantID, e.ID, name)

	url, err := s.files.Put(ctx, object, up.ContentType, bytes.NewReader(up.Data))
	if err != nil {
		return nil, "", apperr.Upstream("receipt storage", err)
	}

	rec := &receipt.Receipt{
		URL:         url,
		Object:      object,
		FileName:    name,
		ContentType: up.ContentType,
		Size:        int64(len(up.Data)),
	}

	if s.parser == nil || !s.parser.Enabled() || !receipt.IsImage(up.ContentType) {
		return rec, "", nil
	}

	data, err := s.parser.Parse(ctx, e.TenantID, up.Data, up.ContentType)
	if err != nil {
		slog.Warn("receipt extraction failed", "tenant_id", e.TenantID, "expense_id", e.ID, "error", err)
		return rec, "receipt data could not be extracted", nil
	}

	rec.Data = data

	return rec, "", nil
}

type Decision string

const (
	Approve Decision = "approve"
	Reject  Decision = "reject"
)

type DecideParams struct {
	Decision Decision `json:"decision" validate:"required,oneof=approve reject"`
	Comments string   `json:"comments" validate:"max=500"`
	Reason   string   `json:"reason" validate:"max=500"`
}

// Decide applies actor's decision to a pending expense. An approval by an
// administrator of the tenant overrides the workflow. The write is conditional on
// the version read, so a concurrent decision makes this one fail with ErrConflict
// and leaves the stored expense untouched.
func (s *Service) Decide(ctx context.Context, actor *identity.User, id uuid.UUID, params DecideParams) (*Expense, error) {
	params.Comments = strings.TrimSpace(params.Comments)
	params.Reason = strings.TrimSpace(params.Reason)

	if err := validation.Struct(params); err != nil {
		return nil, err
	}

	if params.Decision == Reject && params.Comments == "" {
		return nil, ErrCommentsRequired
	}

	current, err := s.repo.GetPendingExpense(ctx, actor.TenantID, id)
	if err != nil {
		return nil, err
	}

	next := *current
	next.Workflow = current.Workflow.Clone()

	now := s.now()

	var res workflow.Result

	switch {
	case params.Decision == Approve && actor.HasAdministrativeOverride(current.TenantID):
		res, err = next.Workflow.Override(now)
	case params.Decision == Approve:
		res, err = next.Workflow.Approve(actor.ID, params.Comments, now)
	default:
		res, err = next.Workflow.Reject(actor.ID, params.Comments, params.Reason, now)
	}

	if err != nil {
		return nil, err
	}

	switch res.Outcome {
	case workflow.Approved:
		next.Status = StatusApproved
		next.ApprovedBy = &actor.ID
		next.ApprovedAt = new(now)
	case workflow.Rejected:
		next.Status = StatusRejected
		next.RejectionReason = res.Reason
	}

	if err := s.repo.SaveDecision(ctx, &next, current.Version); err != nil {
		return nil, err
	}

	switch {
	case next.Status != StatusPending:
		s.notifyOutcome(ctx, actor, &next, params.Comments)
	case res.Advanced:
		s.notifyApprovers(ctx, actor, &next, next.Workflow.Actionable())
	}

	return &next, nil
}

func (s *Service) Approve(ctx context.Context, actor *identity.User, id uuid.UUID, comments string) (*Expense, error) {
	return s.Decide(ctx, actor, id, DecideParams{Decision: Approve, Comments: comments})
}

func (s *Service) Reject(ctx context.Context, actor *identity.User, id uuid.UUID, comments, reason string) (*Expense, error) {
	return s.Decide(ctx, actor, id, DecideParams{Decision: Reject, Comments: comments, Reason: reason})
}

// ApplicableRule returns the rule an expense was routed by, or for expenses routed
// without one, the rule that would match it now. A nil rule means none applies.
func (s *Service) ApplicableRule(ctx context.Context, viewer *identity.User, id uuid.UUID) (*rule.ApprovalRule, error) {
	e, err := s.Get(ctx, viewer, id)
	if err != nil {
		return nil, err
	}

	if e.Workflow != nil && e.Workflow.RuleID != nil {
		r, err := s.rules.Get(ctx, e.TenantID, *e.Workflow.RuleID)
		if errors.Is(err, rule.ErrNotFound) {
			return nil, nil
		}

		return r, err
	}

	return s.rules.Match(ctx, e.TenantID, e.BaseAmount, e.Category)
}
