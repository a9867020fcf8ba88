package expense

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/outlay/internal/apperr"
	"github.com/MrJamesThe3rd/outlay/internal/identity"
)

// Get returns an expense visible to viewer: its submitter, the submitter's manager,
// any approver in its workflow or a tenant admin. Anything else reads as not found.
func (s *Service) Get(ctx context.Context, viewer *identity.User, id uuid.UUID) (*Expense, error) {
	e, err := s.repo.GetExpense(ctx, viewer.TenantID, id)
	if err != nil {
		return nil, err
	}

	ok, err := s.canView(ctx, viewer, e)
	if err != nil {
		return nil, err
	}

	if !ok {
		return nil, ErrNotFound
	}

	return e, nil
}

func (s *Service) canView(ctx context.Context, viewer *identity.User, e *Expense) (bool, error) {
	if e.SubmittedBy == viewer.ID || viewer.HasAdministrativeOverride(e.TenantID) {
		return true, nil
	}

	if e.Workflow != nil && e.Workflow.Involves(viewer.ID) {
		return true, nil
	}

	if viewer.Role != identity.RoleManager {
		return false, nil
	}

	submitter, err := s.directory.FindUser(ctx, e.SubmittedBy)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return false, nil
		}

		return false, err
	}

	return submitter.ManagerID != nil && *submitter.ManagerID == viewer.ID, nil
}

// ListMine lists the actor's own expenses, newest first.
func (s *Service) ListMine(ctx context.Context, actor *identity.User, filter Filter, page Page) (*List, error) {
	filter.SubmittedBy = &actor.ID
	filter.ManagerID = nil
	filter.PendingApprover = nil

	return s.list(ctx, actor.TenantID, filter, page)
}

// ListTenant lists every expense of the tenant. Admins only.
func (s *Service) ListTenant(ctx context.Context, actor *identity.User, filter Filter, page Page) (*List, error) {
	if !actor.HasAdministrativeOverride(actor.TenantID) {
		return nil, ErrAdminOnly
	}

	filter.ManagerID = nil
	filter.PendingApprover = nil

	return s.list(ctx, actor.TenantID, filter, page)
}

// ListTeam lists expenses of the manager's direct reports. Admins see the whole tenant.
func (s *Service) ListTeam(ctx context.Context, actor *identity.User, filter Filter, page Page) (*List, error) {
	filter.PendingApprover = nil

	switch actor.Role {
	case identity.RoleAdmin:
		filter.ManagerID = nil
	case identity.RoleManager:
		filter.ManagerID = &actor.ID
	default:
		return nil, ErrApproversOnly
	}

	return s.list(ctx, actor.TenantID, filter, page)
}

// PendingFor lists pending expenses holding an undecided slot for the actor. Under
// sequential workflows this includes slots whose turn has not come yet.
func (s *Service) PendingFor(ctx context.Context, actor *identity.User, page Page) (*List, error) {
	return s.list(ctx, actor.TenantID, Filter{Status: StatusPending, PendingApprover: &actor.ID}, page)
}

func (s *Service) list(ctx context.Context, tenantID uuid.UUID, filter Filter, page Page) (*List, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, apperr.Invalid("status", "must be one of: pending approved rejected partially_approved")
	}

	if filter.Category != "" && !filter.Category.Valid() {
		return nil, apperr.Invalid("category", "must be one of the known categories")
	}

	page = page.Normalize()

	expenses, total, err := s.repo.ListExpenses(ctx, tenantID, filter, page)
	if err != nil {
		return nil, err
	}

	return newList(expenses, total, page), nil
}
