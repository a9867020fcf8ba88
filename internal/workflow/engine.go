package workflow

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/outlay/internal/apperr"
	"github.com/MrJamesThe3rd/outlay/internal/rule"
)

const OverrideComment = "Admin override approval"

var (
	ErrNotApprover    = fmt.Errorf("not an approver of this expense: %w", apperr.ErrForbidden)
	ErrSlotNotPending = fmt.Errorf("approver slot is no longer pending: %w", apperr.ErrNotFound)
	ErrCompleted      = fmt.Errorf("workflow already completed: %w", apperr.ErrNotFound)
)

// Outcome is the overall result a decision leads to.
type Outcome string

const (
	Undecided Outcome = "pending"
	Approved  Outcome = "approved"
	Rejected  Outcome = "rejected"
)

// Result describes what a decision changed beyond the approver's own slot.
type Result struct {
	Outcome Outcome
	// Reason is set for rejections.
	Reason string
	// Advanced reports a sequential step move that did not finish the workflow.
	Advanced bool
}

// Approve records approverID's approval and evaluates completion under the workflow's
// sequence type. The instance is left untouched when an error is returned.
func (w *Instance) Approve(approverID uuid.UUID, comments string, now time.Time) (Result, error) {
	i, err := w.pendingSlot(approverID)
	if err != nil {
		return Result{}, err
	}

	w.decide(i, SlotApproved, comments, now)

	var res Result

	switch w.SequenceType {
	case rule.Parallel:
		res = w.evaluateParallel("")
	case rule.Percentage, rule.AnyOne:
		res = w.evaluateThreshold()
	default:
		res = w.advance()
	}

	if res.Outcome != Undecided {
		w.CompletedAt = new(now)
	}

	return res, nil
}

// Reject records approverID's rejection. Sequential workflows terminate at once and
// parallel ones once every approver has responded. Percentage and any-one workflows
// never terminate on a rejection; only their approval threshold is re-evaluated.
func (w *Instance) Reject(approverID uuid.UUID, comments, reason string, now time.Time) (Result, error) {
	i, err := w.pendingSlot(approverID)
	if err != nil {
		return Result{}, err
	}

	w.decide(i, SlotRejected, comments, now)

	var res Result

	switch w.SequenceType {
	case rule.Parallel:
		res = w.evaluateParallel(reason)
	case rule.Percentage, rule.AnyOne:
		res = w.evaluateThreshold()
	default:
		res = Result{Outcome: Rejected, Reason: reason}
		if res.Reason == "" {
			res.Reason = comments
		}
	}

	if res.Outcome != Undecided {
		w.CompletedAt = new(now)
	}

	return res, nil
}

// Override approves every pending slot on behalf of an administrator and completes the
// workflow. It is the only decision possible on an empty workflow.
func (w *Instance) Override(now time.Time) (Result, error) {
	if w.CompletedAt != nil {
		return Result{}, ErrCompleted
	}

	for i, s := range w.Approvers {
		if s.Status == SlotPending {
			w.decide(i, SlotApproved, OverrideComment, now)
		}
	}

	w.CompletedAt = new(now)

	return Result{Outcome: Approved}, nil
}

// pendingSlot finds the first pending slot held by approverID.
func (w *Instance) pendingSlot(approverID uuid.UUID) (int, error) {
	if w.CompletedAt != nil {
		return -1, ErrCompleted
	}

	held := false

	for i, s := range w.Approvers {
		if s.ApproverID != approverID {
			continue
		}

		if s.Status == SlotPending {
			return i, nil
		}

		held = true
	}

	if held {
		return -1, ErrSlotNotPending
	}

	return -1, ErrNotApprover
}

func (w *Instance) decide(i int, status SlotStatus, comments string, now time.Time) {
	w.Approvers[i].Status = status
	w.Approvers[i].Comments = comments
	w.Approvers[i].DecidedAt = new(now)
}

// advance moves a sequential workflow forward when the slot at the current step has
// been approved. Only the current step is inspected, and only once per decision.
func (w *Instance) advance() Result {
	if w.CurrentStep >= len(w.Approvers) || w.Approvers[w.CurrentStep].Status != SlotApproved {
		return Result{Outcome: Undecided}
	}

	w.CurrentStep++

	if w.CurrentStep >= w.TotalSteps {
		return Result{Outcome: Approved}
	}

	return Result{Outcome: Undecided, Advanced: true}
}

func (w *Instance) evaluateParallel(reason string) Result {
	if w.count(SlotPending) > 0 {
		return Result{Outcome: Undecided}
	}

	for _, s := range w.Approvers {
		if s.Status != SlotRejected {
			continue
		}

		if reason == "" {
			reason = s.Comments
		}

		return Result{Outcome: Rejected, Reason: reason}
	}

	return Result{Outcome: Approved}
}

// evaluateThreshold covers percentage and any-one workflows. Rejections count toward
// the total but never toward approval.
func (w *Instance) evaluateThreshold() Result {
	approved := w.count(SlotApproved)

	if w.SequenceType == rule.AnyOne {
		if approved > 0 {
			return Result{Outcome: Approved}
		}

		return Result{Outcome: Undecided}
	}

	total := len(w.Approvers)
	if total > 0 && approved*100 >= w.MinApprovalPercentage*total {
		return Result{Outcome: Approved}
	}

	return Result{Outcome: Undecided}
}
