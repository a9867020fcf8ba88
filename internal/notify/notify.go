package notify

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Type names a notification event.
type Type string

const (
	ApprovalRequired Type = "approval_required"
	ExpenseApproved  Type = "expense_approved"
	ExpenseRejected  Type = "expense_rejected"
	UserInvited      Type = "user_invited"
)

type Recipient struct {
	UserID uuid.UUID `json:"user_id"`
	Email  string    `json:"email"`
	Name   string    `json:"name"`
}

// Event is the payload handed to every sink. Payload keys are sink independent:
// description, amount, currency, submitter, comments, reason, company, invitation_url.
type Event struct {
	Type       Type           `json:"event_type"`
	TenantID   uuid.UUID      `json:"tenant_id"`
	ActorID    uuid.UUID      `json:"actor_id"`
	ExpenseID  *uuid.UUID     `json:"expense_id,omitempty"`
	Recipients []Recipient    `json:"recipients"`
	Payload    map[string]any `json:"payload,omitempty"`
}

type Sender interface {
	Notify(ctx context.Context, events ...Event) error
}

// Nop discards every event.
type Nop struct{}

func (Nop) Notify(context.Context, ...Event) error { return nil }

// Fanout delivers events to every sink concurrently and joins their errors.
type Fanout []Sender

func (f Fanout) Notify(ctx context.Context, events ...Event) error {
	errs := make([]error, len(f))

	var g errgroup.Group

	for i, s := range f {
		g.Go(func() error {
			errs[i] = s.Notify(ctx, events...)
			return nil
		})
	}

	_ = g.Wait()

	return errors.Join(errs...)
}

// Async sends events in the background on a context detached from ctx's cancellation.
// Failures are logged and never reach the caller.
func Async(ctx context.Context, s Sender, events ...Event) <-chan struct{} {
	done := make(chan struct{})
	if s == nil || len(events) == 0 {
		close(done)
		return done
	}

	ctx = context.WithoutCancel(ctx)

	go func() {
		defer close(done)

		if err := s.Notify(ctx, events...); err != nil {
			for _, e := range events {
				slog.Warn("failed to send notification",
					"event_type", e.Type,
					"tenant_id", e.TenantID,
					"error", err,
				)
			}
		}
	}()

	return done
}
