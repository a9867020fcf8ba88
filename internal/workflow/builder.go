package workflow

import (
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/outlay/internal/rule"
)

// Build snapshots the approvers of the matched rule into pending slots ordered by
// ascending order. Without a rule the submitter's manager becomes the sole approver,
// and without a manager the workflow has no approvers at all.
func Build(r *rule.ApprovalRule, managerID *uuid.UUID) *Instance {
	if r != nil {
		approvers := r.SortedApprovers()

		w := &Instance{
			RuleID:                new(r.ID),
			SequenceType:          r.SequenceType,
			MinApprovalPercentage: r.MinApprovalPercentage,
			TotalSteps:            len(approvers),
			Approvers:             make([]Slot, len(approvers)),
		}

		if !w.SequenceType.Valid() {
			w.SequenceType = rule.Sequential
		}

		for i, a := range approvers {
			w.Approvers[i] = Slot{ApproverID: a.UserID, Status: SlotPending}
		}

		return w
	}

	w := &Instance{
		SequenceType:          rule.Sequential,
		MinApprovalPercentage: rule.DefaultMinApprovalPercentage,
		Approvers:             []Slot{},
	}

	if managerID != nil {
		w.Approvers = append(w.Approvers, Slot{ApproverID: *managerID, Status: SlotPending})
		w.TotalSteps = 1
	}

	return w
}
