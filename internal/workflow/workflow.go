// Package workflow materializes approval workflows from rules and applies approver
// decisions to them. It performs no I/O; callers persist the resulting instance.
package workflow

import (
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/outlay/internal/rule"
)

type SlotStatus string

const (
	SlotPending  SlotStatus = "pending"
	SlotApproved SlotStatus = "approved"
	SlotRejected SlotStatus = "rejected"
)

// Slot is one approver's decision record.
type Slot struct {
	ApproverID uuid.UUID  `json:"approver_id"`
	Status     SlotStatus `json:"status"`
	Comments   string     `json:"comments,omitempty"`
	DecidedAt  *time.Time `json:"decided_at,omitempty"`
}

// Instance is the per-expense workflow. It is a snapshot of the matched rule taken at
// submission; later rule edits never reach it. CurrentStep only means something for
// sequential workflows.
type Instance struct {
	RuleID                *uuid.UUID        `json:"rule_id,omitempty"`
	SequenceType          rule.SequenceType `json:"sequence_type"`
	MinApprovalPercentage int               `json:"min_approval_percentage"`
	CurrentStep           int               `json:"current_step"`
	TotalSteps            int               `json:"total_steps"`
	Approvers             []Slot            `json:"approvers"`
	CompletedAt           *time.Time        `json:"completed_at,omitempty"`
}

// Clone returns a deep copy of w.
func (w *Instance) Clone() *Instance {
	out := *w
	out.Approvers = make([]Slot, len(w.Approvers))

	for i, s := range w.Approvers {
		if s.DecidedAt != nil {
			s.DecidedAt = new(*s.DecidedAt)
		}

		out.Approvers[i] = s
	}

	if w.RuleID != nil {
		out.RuleID = new(*w.RuleID)
	}

	if w.CompletedAt != nil {
		out.CompletedAt = new(*w.CompletedAt)
	}

	return &out
}

// Empty reports whether nobody can decide on the workflow. Such expenses stay pending
// until an administrator overrides them.
func (w *Instance) Empty() bool {
	return len(w.Approvers) == 0
}

// Involves reports whether userID holds any slot, decided or not.
func (w *Instance) Involves(userID uuid.UUID) bool {
	return slices.ContainsFunc(w.Approvers, func(s Slot) bool {
		return s.ApproverID == userID
	})
}

// Actionable lists the approvers whose decision the workflow is waiting on. Sequential
// workflows wait on the current step only.
func (w *Instance) Actionable() []uuid.UUID {
	if w.CompletedAt != nil {
		return nil
	}

	if w.SequenceType == rule.Sequential {
		if w.CurrentStep < len(w.Approvers) && w.Approvers[w.CurrentStep].Status == SlotPending {
			return []uuid.UUID{w.Approvers[w.CurrentStep].ApproverID}
		}

		return nil
	}

	var ids []uuid.UUID

	for _, s := range w.Approvers {
		if s.Status == SlotPending {
			ids = append(ids, s.ApproverID)
		}
	}

	return ids
}

func (w *Instance) count(status SlotStatus) int {
	n := 0

	for _, s := range w.Approvers {
		if s.Status == status {
			n++
		}
	}

	return n
}
