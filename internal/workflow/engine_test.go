package workflow_test

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/outlay/internal/apperr"
	"github.com/MrJamesThe3rd/outlay/internal/rule"
	"github.com/MrJamesThe3rd/outlay/internal/workflow"
)

var now = time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

func newWorkflow(seq rule.SequenceType, minPct, n int) (*workflow.Instance, []uuid.UUID) {
	ids := make([]uuid.UUID, n)
	approvers := make([]rule.Approver, n)

	for i := range n {
		ids[i] = uuid.New()
		approvers[i] = rule.Approver{UserID: ids[i], Order: i + 1}
	}

	return workflow.Build(&rule.ApprovalRule{
		ID:                    uuid.New(),
		SequenceType:          seq,
		MinApprovalPercentage: minPct,
		Approvers:             approvers,
	}, nil), ids
}

type step struct {
	approver int
	reject   bool
	want     workflow.Outcome
}

func run(t *testing.T, w *workflow.Instance, ids []uuid.UUID, steps []step) {
	t.Helper()

	for i, s := range steps {
		var (
			res workflow.Result
			err error
		)

		if s.reject {
			res, err = w.Reject(ids[s.approver], "no", "", now)
		} else {
			res, err = w.Approve(ids[s.approver], "ok", now)
		}

		require.NoError(t, err, "step %d", i)
		assert.Equal(t, s.want, res.Outcome, "step %d", i)
	}
}

func TestInstance_Sequential(t *testing.T) {
	t.Run("CompletesAfterLastApprover", func(t *testing.T) {
		w, ids := newWorkflow(rule.Sequential, 100, 3)

		res, err := w.Approve(ids[0], "ok", now)
		require.NoError(t, err)
		assert.Equal(t, workflow.Result{Outcome: workflow.Undecided, Advanced: true}, res)
		assert.Equal(t, 1, w.CurrentStep)
		assert.Equal(t, []uuid.UUID{ids[1]}, w.Actionable())

		run(t, w, ids, []step{{approver: 1, want: workflow.Undecided}, {approver: 2, want: workflow.Approved}})
		assert.Equal(t, 3, w.CurrentStep)
		assert.Equal(t, &now, w.CompletedAt)
		assert.Empty(t, w.Actionable())
	})

	t.Run("RejectionStopsAtStep", func(t *testing.T) {
		w, ids := newWorkflow(rule.Sequential, 100, 3)

		run(t, w, ids, []step{{approver: 0, want: workflow.Undecided}})

		res, err := w.Reject(ids[1], "missing invoice", "", now)
		require.NoError(t, err)
		assert.Equal(t, workflow.Rejected, res.Outcome)
		assert.Equal(t, "missing invoice", res.Reason)
		assert.Equal(t, 1, w.CurrentStep)
		assert.NotNil(t, w.CompletedAt)
		assert.Equal(t, workflow.SlotPending, w.Approvers[2].Status)
	})

	t.Run("ExplicitReasonWins", func(t *testing.T) {
		w, ids := newWorkflow(rule.Sequential, 100, 1)

		res, err := w.Reject(ids[0], "see thread", "Personal expense", now)
		require.NoError(t, err)
		assert.Equal(t, "Personal expense", res.Reason)
		assert.Equal(t, "see thread", w.Approvers[0].Comments)
	})

	// A later approver may decide before their turn; their slot is recorded but the
	// completion check only looks at the current step, so the workflow never finishes.
	t.Run("OutOfTurnApprovalIsNeverConsulted", func(t *testing.T) {
		w, ids := newWorkflow(rule.Sequential, 100, 2)

		run(t, w, ids, []step{
			{approver: 1, want: workflow.Undecided},
			{approver: 0, want: workflow.Undecided},
		})

		assert.Equal(t, 1, w.CurrentStep)
		assert.Nil(t, w.CompletedAt)
		assert.Empty(t, w.Actionable())

		_, err := w.Approve(ids[1], "again", now)
		assert.ErrorIs(t, err, workflow.ErrSlotNotPending)
	})
}

func TestInstance_Parallel(t *testing.T) {
	type testCase struct {
		name  string
		steps []step
	}

	tests := []testCase{
		{
			name: "AllApprove",
			steps: []step{
				{approver: 2, want: workflow.Undecided},
				{approver: 0, want: workflow.Undecided},
				{approver: 1, want: workflow.Approved},
			},
		},
		{
			name: "RejectFirstStillWaitsForEveryone",
			steps: []step{
				{approver: 1, reject: true, want: workflow.Undecided},
				{approver: 0, want: workflow.Undecided},
				{approver: 2, want: workflow.Rejected},
			},
		},
		{
			name: "RejectLast",
			steps: []step{
				{approver: 0, want: workflow.Undecided},
				{approver: 2, want: workflow.Undecided},
				{approver: 1, reject: true, want: workflow.Rejected},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, ids := newWorkflow(rule.Parallel, 100, 3)
			run(t, w, ids, tt.steps)
			assert.NotNil(t, w.CompletedAt)
			assert.Equal(t, 0, w.CurrentStep)
		})
	}
}

func TestInstance_Parallel_ReasonFromRejectingSlot(t *testing.T) {
	w, ids := newWorkflow(rule.Parallel, 100, 2)

	_, err := w.Reject(ids[0], "over budget", "", now)
	require.NoError(t, err)

	res, err := w.Approve(ids[1], "fine by me", now)
	require.NoError(t, err)
	assert.Equal(t, workflow.Result{Outcome: workflow.Rejected, Reason: "over budget"}, res)
}

func TestInstance_Percentage(t *testing.T) {
	t.Run("ThresholdSixtyOfFive", func(t *testing.T) {
		w, ids := newWorkflow(rule.Percentage, 60, 5)

		run(t, w, ids, []step{
			{approver: 4, reject: true, want: workflow.Undecided},
			{approver: 0, want: workflow.Undecided},
			{approver: 1, want: workflow.Undecided},
			{approver: 2, want: workflow.Approved},
		})
		assert.Equal(t, workflow.SlotPending, w.Approvers[3].Status)
	})

	t.Run("RejectionsNeverTerminate", func(t *testing.T) {
		w, ids := newWorkflow(rule.Percentage, 100, 3)

		run(t, w, ids, []step{
			{approver: 0, reject: true, want: workflow.Undecided},
			{approver: 1, want: workflow.Undecided},
			{approver: 2, want: workflow.Undecided},
		})
		assert.Nil(t, w.CompletedAt)
	})

	t.Run("ZeroThresholdCompletesOnFirstDecision", func(t *testing.T) {
		w, ids := newWorkflow(rule.Percentage, 0, 2)

		run(t, w, ids, []step{{approver: 1, reject: true, want: workflow.Approved}})
	})
}

func TestInstance_AnyOne(t *testing.T) {
	w, ids := newWorkflow(rule.AnyOne, 100, 4)

	run(t, w, ids, []step{
		{approver: 0, reject: true, want: workflow.Undecided},
		{approver: 1, reject: true, want: workflow.Undecided},
		{approver: 3, want: workflow.Approved},
	})

	_, err := w.Approve(ids[2], "late", now)
	assert.ErrorIs(t, err, workflow.ErrCompleted)
}

func TestInstance_AnyOne_AllRejectedStaysPending(t *testing.T) {
	w, ids := newWorkflow(rule.AnyOne, 100, 2)

	run(t, w, ids, []step{
		{approver: 0, reject: true, want: workflow.Undecided},
		{approver: 1, reject: true, want: workflow.Undecided},
	})
	assert.Nil(t, w.CompletedAt)
	assert.Empty(t, w.Actionable())
}

func TestInstance_Eligibility(t *testing.T) {
	w, ids := newWorkflow(rule.Parallel, 100, 2)

	before := w.Clone()

	_, err := w.Approve(uuid.New(), "", now)
	require.ErrorIs(t, err, workflow.ErrNotApprover)
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	_, err = w.Reject(uuid.New(), "no", "", now)
	assert.ErrorIs(t, err, workflow.ErrNotApprover)

	if diff := cmp.Diff(before, w); diff != "" {
		t.Fatalf("failed decision mutated workflow (-before +after):\n%s", diff)
	}

	_, err = w.Approve(ids[0], "", now)
	require.NoError(t, err)

	_, err = w.Reject(ids[0], "changed my mind", "", now)
	require.ErrorIs(t, err, workflow.ErrSlotNotPending)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	assert.Equal(t, workflow.SlotApproved, w.Approvers[0].Status)
}

func TestInstance_Override(t *testing.T) {
	t.Run("ApprovesPendingSlotsOnly", func(t *testing.T) {
		w, ids := newWorkflow(rule.Parallel, 100, 3)

		_, err := w.Reject(ids[0], "no", "", now)
		require.NoError(t, err)

		later := now.Add(time.Hour)

		res, err := w.Override(later)
		require.NoError(t, err)
		assert.Equal(t, workflow.Approved, res.Outcome)
		assert.Equal(t, &later, w.CompletedAt)

		want := []workflow.Slot{
			{ApproverID: ids[0], Status: workflow.SlotRejected, Comments: "no", DecidedAt: &now},
			{ApproverID: ids[1], Status: workflow.SlotApproved, Comments: workflow.OverrideComment, DecidedAt: &later},
			{ApproverID: ids[2], Status: workflow.SlotApproved, Comments: workflow.OverrideComment, DecidedAt: &later},
		}
		if diff := cmp.Diff(want, w.Approvers); diff != "" {
			t.Errorf("slots mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("EmptyWorkflow", func(t *testing.T) {
		w := workflow.Build(nil, nil)
		assert.True(t, w.Empty())

		_, err := w.Approve(uuid.New(), "", now)
		assert.ErrorIs(t, err, workflow.ErrNotApprover)

		res, err := w.Override(now)
		require.NoError(t, err)
		assert.Equal(t, workflow.Approved, res.Outcome)

		_, err = w.Override(now)
		assert.ErrorIs(t, err, workflow.ErrCompleted)
	})
}
