package notify_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/outlay/internal/notify"
)

type recordingSender struct {
	mu     sync.Mutex
	events []notify.Event
	err    error
}

func (r *recordingSender) Notify(_ context.Context, events ...notify.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events = append(r.events, events...)

	return r.err
}

type fakeConn struct {
	subjects []string
	payloads [][]byte
	err      error
}

func (f *fakeConn) Publish(subj string, data []byte) error {
	if f.err != nil {
		return f.err
	}

	f.subjects = append(f.subjects, subj)
	f.payloads = append(f.payloads, data)

	return nil
}

func TestFanout(t *testing.T) {
	ok := &recordingSender{}
	failing := &recordingSender{err: errors.New("smtp down")}

	ev := notify.Event{Type: notify.ExpenseApproved, Recipients: []notify.Recipient{{UserID: uuid.New()}}}

	err := notify.Fanout{ok, failing}.Notify(context.Background(), ev)

	assert.EqualError(t, err, "smtp down")
	assert.Len(t, ok.events, 1)
	assert.Len(t, failing.events, 1)
}

func TestAsync(t *testing.T) {
	s := &recordingSender{err: errors.New("ignored")}

	ctx, cancel := context.WithCancel(context.Background())
	done := notify.Async(ctx, s, notify.Event{Type: notify.UserInvited})
	cancel()

	<-done

	s.mu.Lock()
	defer s.mu.Unlock()

	assert.Len(t, s.events, 1)

	<-notify.Async(context.Background(), nil, notify.Event{})
}

func TestNATSPublisher_Notify(t *testing.T) {
	conn := &fakeConn{}
	expenseID := uuid.New()

	err := notify.NewNATSPublisher(conn).Notify(context.Background(),
		notify.Event{
			Type:       notify.ApprovalRequired,
			ExpenseID:  &expenseID,
			Recipients: []notify.Recipient{{UserID: uuid.New(), Email: "a@example.com"}},
		},
		notify.Event{Type: notify.ExpenseApproved},
	)
	require.NoError(t, err)

	require.Equal(t, []string{"notifications.expense.approval_required"}, conn.subjects)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(conn.payloads[0], &decoded))
	assert.Equal(t, "approval_required", decoded["event_type"])
	assert.Equal(t, expenseID.String(), decoded["expense_id"])
}

func TestNATSPublisher_NotifyError(t *testing.T) {
	conn := &fakeConn{err: errors.New("nats: connection closed")}

	err := notify.NewNATSPublisher(conn).Notify(context.Background(), notify.Event{
		Type:       notify.ExpenseRejected,
		Recipients: []notify.Recipient{{UserID: uuid.New()}},
	})

	assert.ErrorContains(t, err, "publishing notifications.expense.expense_rejected")
}
