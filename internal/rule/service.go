package rule

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/outlay/internal/apperr"
	"github.com/MrJamesThe3rd/outlay/internal/category"
	"github.com/MrJamesThe3rd/outlay/internal/identity"
	"github.com/MrJamesThe3rd/outlay/internal/validation"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=rule
type Repository interface {
	// ListRules orders by priority desc, then created_at desc.
	ListRules(ctx context.Context, tenantID uuid.UUID, activeOnly bool) ([]*ApprovalRule, error)
	GetRule(ctx context.Context, tenantID, id uuid.UUID) (*ApprovalRule, error)
	CreateRule(ctx context.Context, r *ApprovalRule) error
	UpdateRule(ctx context.Context, r *ApprovalRule) error
	DeleteRule(ctx context.Context, tenantID, id uuid.UUID) error
}

// Directory resolves approver references.
type Directory interface {
	UsersByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]*identity.User, error)
}

type Service struct {
	repo      Repository
	directory Directory
}

func NewService(repo Repository, directory Directory) *Service {
	return &Service{repo: repo, directory: directory}
}

type CreateParams struct {
	Name                  string       `json:"name" validate:"required,min=3,max=100"`
	Description           string       `json:"description" validate:"max=500"`
	Approvers             []Approver   `json:"approvers" validate:"min=1,dive"`
	SequenceType          SequenceType `json:"sequence_type" validate:"omitempty,oneof=sequential parallel percentage any_one"`
	MinApprovalPercentage *int         `json:"min_approval_percentage" validate:"omitempty,min=0,max=100"`
	Conditions            Conditions   `json:"conditions"`
	IsActive              *bool        `json:"is_active"`
	Priority              int          `json:"priority" validate:"min=0"`
}

// UpdateParams changes only the fields that are set.
type UpdateParams struct {
	Name                  *string       `json:"name" validate:"omitempty,min=3,max=100"`
	Description           *string       `json:"description" validate:"omitempty,max=500"`
	Approvers             *[]Approver   `json:"approvers" validate:"omitempty,min=1,dive"`
	SequenceType          *SequenceType `json:"sequence_type" validate:"omitempty,oneof=sequential parallel percentage any_one"`
	MinApprovalPercentage *int          `json:"min_approval_percentage" validate:"omitempty,min=0,max=100"`
	Conditions            *Conditions   `json:"conditions"`
	IsActive              *bool         `json:"is_active"`
	Priority              *int          `json:"priority" validate:"omitempty,min=0"`
}

func (s *Service) List(ctx context.Context, tenantID uuid.UUID) ([]*ApprovalRule, error) {
	return s.repo.ListRules(ctx, tenantID, false)
}

func (s *Service) Get(ctx context.Context, tenantID, id uuid.UUID) (*ApprovalRule, error) {
	return s.repo.GetRule(ctx, tenantID, id)
}

// Match selects the rule governing an expense of the given base amount and category,
// or nil when no active rule accepts it.
func (s *Service) Match(ctx context.Context, tenantID uuid.UUID, amount decimal.Decimal, cat category.Category) (*ApprovalRule, error) {
	rules, err := s.repo.ListRules(ctx, tenantID, true)
	if err != nil {
		return nil, fmt.Errorf("listing active rules: %w", err)
	}

	return Match(rules, amount, cat), nil
}

func (s *Service) Create(ctx context.Context, actor *identity.User, params CreateParams) (*ApprovalRule, error) {
	if actor.Role != identity.RoleAdmin {
		return nil, ErrAdminOnly
	}

	if err := validation.Merge(validation.Struct(params), validateConditions(params.Conditions)); err != nil {
		return nil, err
	}

	if err := s.checkApprovers(ctx, actor.TenantID, params.Approvers); err != nil {
		return nil, err
	}

	r := &ApprovalRule{
		TenantID:              actor.TenantID,
		Name:                  strings.TrimSpace(params.Name),
		Description:           strings.TrimSpace(params.Description),
		Approvers:             params.Approvers,
		SequenceType:          params.SequenceType,
		MinApprovalPercentage: DefaultMinApprovalPercentage,
		Conditions:            params.Conditions,
		IsActive:              true,
		Priority:              params.Priority,
		CreatedBy:             &actor.ID,
	}

	if r.SequenceType == "" {
		r.SequenceType = Sequential
	}

	if params.MinApprovalPercentage != nil {
		r.MinApprovalPercentage = *params.MinApprovalPercentage
	}

	if params.IsActive != nil {
		r.IsActive = *params.IsActive
	}

	r.Approvers = r.SortedApprovers()

	if err := s.repo.CreateRule(ctx, r); err != nil {
		return nil, err
	}

	return r, nil
}

// Update applies params to the tenant's rule. Nothing is written when any check fails.
func (s *Service) Update(ctx context.Context, actor *identity.User, id uuid.UUID, params UpdateParams) (*ApprovalRule, error) {
	if actor.Role != identity.RoleAdmin {
		return nil, ErrAdminOnly
	}

	var condErr error
	if params.Conditions != nil {
		condErr = validateConditions(*params.Conditions)
	}

	if err := validation.Merge(validation.Struct(params), condErr); err != nil {
		return nil, err
	}

	r, err := s.repo.GetRule(ctx, actor.TenantID, id)
	if err != nil {
		return nil, err
	}

	if params.Approvers != nil {
		if err := s.checkApprovers(ctx, actor.TenantID, *params.Approvers); err != nil {
			return nil, err
		}

		r.Approvers = *params.Approvers
		r.Approvers = r.SortedApprovers()
	}

	if params.Name != nil {
		r.Name = strings.TrimSpace(*params.Name)
	}

	if params.Description != nil {
		r.Description = strings.TrimSpace(*params.Description)
	}

	if params.SequenceType != nil {
		r.SequenceType = *params.SequenceType
	}

	if params.MinApprovalPercentage != nil {
		r.MinApprovalPercentage = *params.MinApprovalPercentage
	}

	if params.Conditions != nil {
		r.Conditions = *params.Conditions
	}

	if params.IsActive != nil {
		r.IsActive = *params.IsActive
	}

	if params.Priority != nil {
		r.Priority = *params.Priority
	}

	if err := s.repo.UpdateRule(ctx, r); err != nil {
		return nil, err
	}

	return r, nil
}

func (s *Service) Delete(ctx context.Context, actor *identity.User, id uuid.UUID) error {
	if actor.Role != identity.RoleAdmin {
		return ErrAdminOnly
	}

	return s.repo.DeleteRule(ctx, actor.TenantID, id)
}

func validateConditions(c Conditions) error {
	var fields []apperr.FieldError

	if c.MinAmount.IsNegative() {
		fields = append(fields, apperr.FieldError{Field: "conditions.min_amount", Message: "must be greater than or equal to 0"})
	}

	if c.MaxAmount != nil {
		switch {
		case c.MaxAmount.IsNegative():
			fields = append(fields, apperr.FieldError{Field: "conditions.max_amount", Message: "must be greater than or equal to 0"})
		case c.MaxAmount.LessThan(c.MinAmount):
			fields = append(fields, apperr.FieldError{Field: "conditions.max_amount", Message: "must not be below min_amount"})
		}
	}

	for i, cat := range c.Categories {
		if !cat.Valid() {
			fields = append(fields, apperr.FieldError{
				Field:   fmt.Sprintf("conditions.categories[%d]", i),
				Message: fmt.Sprintf("unknown category %q", cat),
			})
		}
	}

	if len(fields) == 0 {
		return nil
	}

	return &apperr.ValidationError{Fields: fields}
}

// checkApprovers requires every approver to be a distinct active admin or manager of the tenant.
func (s *Service) checkApprovers(ctx context.Context, tenantID uuid.UUID, approvers []Approver) error {
	ids := make([]uuid.UUID, 0, len(approvers))
	seen := make(map[uuid.UUID]bool, len(approvers))

	var fields []apperr.FieldError

	for i, a := range approvers {
		if seen[a.UserID] {
			fields = append(fields, apperr.FieldError{
				Field:   fmt.Sprintf("approvers[%d].user_id", i),
				Message: "approver is listed more than once",
			})

			continue
		}

		seen[a.UserID] = true
		ids = append(ids, a.UserID)
	}

	if len(fields) > 0 {
		return &apperr.ValidationError{Fields: fields}
	}

	users, err := s.directory.UsersByIDs(ctx, tenantID, ids)
	if err != nil {
		return fmt.Errorf("loading approvers: %w", err)
	}

	eligible := make(map[uuid.UUID]bool, len(users))
	for _, u := range users {
		eligible[u.ID] = u.TenantID == tenantID && u.CanApprove()
	}

	for i, a := range approvers {
		if !eligible[a.UserID] {
			fields = append(fields, apperr.FieldError{
				Field:   fmt.Sprintf("approvers[%d].user_id", i),
				Message: "must be an active admin or manager of this company",
			})
		}
	}

	if len(fields) > 0 {
		return &apperr.ValidationError{Fields: fields}
	}

	return nil
}
