package expense

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/outlay/internal/identity"
	"github.com/MrJamesThe3rd/outlay/internal/notify"
)

func payload(e *Expense, submitter string) map[string]any {
	return map[string]any{
		"description": e.Description,
		"amount":      e.BaseAmount.StringFixed(2),
		"currency":    e.BaseCurrency,
		"submitter":   submitter,
	}
}

// notifyApprovers tells approverIDs that e waits on them.
func (s *Service) notifyApprovers(ctx context.Context, actor *identity.User, e *Expense, approverIDs []uuid.UUID) {
	if len(approverIDs) == 0 {
		return
	}

	users, err := s.directory.UsersByIDs(ctx, e.TenantID, approverIDs)
	if err != nil {
		slog.Warn("failed to load approvers for notification", "expense_id", e.ID, "error", err)
		return
	}

	submitter := actor.Name
	if actor.ID != e.SubmittedBy {
		if u, err := s.directory.FindUser(ctx, e.SubmittedBy); err == nil {
			submitter = u.Name
		}
	}

	recipients := make([]notify.Recipient, 0, len(users))
	for _, u := range users {
		recipients = append(recipients, notify.Recipient{UserID: u.ID, Email: u.Email, Name: u.Name})
	}

	notify.Async(ctx, s.sender, notify.Event{
		Type:       notify.ApprovalRequired,
		TenantID:   e.TenantID,
		ActorID:    actor.ID,
		ExpenseID:  &e.ID,
		Recipients: recipients,
		Payload:    payload(e, submitter),
	})
}

// notifyOutcome tells the submitter how their expense ended.
func (s *Service) notifyOutcome(ctx context.Context, actor *identity.User, e *Expense, comments string) {
	submitter, err := s.directory.FindUser(ctx, e.SubmittedBy)
	if err != nil {
		slog.Warn("failed to load submitter for notification", "expense_id", e.ID, "error", err)
		return
	}

	event := notify.Event{
		Type:       notify.ExpenseApproved,
		TenantID:   e.TenantID,
		ActorID:    actor.ID,
		ExpenseID:  &e.ID,
		Recipients: []notify.Recipient{{UserID: submitter.ID, Email: submitter.Email, Name: submitter.Name}},
		Payload:    payload(e, submitter.Name),
	}

	event.Payload["comments"] = comments

	if e.Status == StatusRejected {
		event.Type = notify.ExpenseRejected
		event.Payload["reason"] = e.RejectionReason
	}

	notify.Async(ctx, s.sender, event)
}
