package expense_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/outlay/internal/apperr"
	"github.com/MrJamesThe3rd/outlay/internal/category"
	"github.com/MrJamesThe3rd/outlay/internal/currency"
	"github.com/MrJamesThe3rd/outlay/internal/expense"
	"github.com/MrJamesThe3rd/outlay/internal/identity"
	"github.com/MrJamesThe3rd/outlay/internal/notify"
	"github.com/MrJamesThe3rd/outlay/internal/receipt"
	"github.com/MrJamesThe3rd/outlay/internal/rule"
	"github.com/MrJamesThe3rd/outlay/internal/workflow"
)

var now = time.Date(2026, 5, 12, 9, 30, 0, 0, time.UTC)

type fixture struct {
	tenant    *identity.Tenant
	admin     *identity.User
	approverA *identity.User
	approverB *identity.User
	employee  *identity.User
	loner     *identity.User
}

func newFixture() fixture {
	tenant := &identity.Tenant{
		ID:           uuid.New(),
		Name:         "Acme",
		BaseCurrency: "USD",
		Settings:     identity.DefaultSettings(),
		IsActive:     true,
	}

	user := func(name string, role identity.Role) *identity.User {
		return &identity.User{
			ID:       uuid.New(),
			TenantID: tenant.ID,
			Name:     name,
			Email:    name + "@acme.test",
			Role:     role,
			IsActive: true,
		}
	}

	f := fixture{
		tenant:    tenant,
		admin:     user("admin", identity.RoleAdmin),
		approverA: user("alice", identity.RoleManager),
		approverB: user("bob", identity.RoleManager),
		employee:  user("erin", identity.RoleEmployee),
		loner:     user("lou", identity.RoleEmployee),
	}
	f.employee.ManagerID = &f.approverA.ID

	return f
}

type mocks struct {
	repo      *expense.MockRepository
	directory *expense.MockDirectory
	rules     *expense.MockRuleMatcher
	converter *expense.MockConverter
	files     *expense.MockFileStore
	parser    *expense.MockReceiptParser
	sent      chan notify.Event
}

// chanSender hands every event to a channel so tests can wait for async delivery.
type chanSender chan notify.Event

func (c chanSender) Notify(_ context.Context, events ...notify.Event) error {
	for _, e := range events {
		c <- e
	}

	return nil
}

func newService(t *testing.T) (*expense.Service, mocks) {
	t.Helper()

	ctrl := gomock.NewController(t)

	m := mocks{
		repo:      expense.NewMockRepository(ctrl),
		directory: expense.NewMockDirectory(ctrl),
		rules:     expense.NewMockRuleMatcher(ctrl),
		converter: expense.NewMockConverter(ctrl),
		files:     expense.NewMockFileStore(ctrl),
		parser:    expense.NewMockReceiptParser(ctrl),
		sent:      make(chan notify.Event, 8),
	}

	svc := expense.NewService(m.repo, m.directory, m.rules, m.converter,
		expense.WithReceipts(m.files, m.parser),
		expense.WithNotifier(chanSender(m.sent)),
		expense.WithClock(func() time.Time { return now }),
	)

	return svc, m
}

func waitEvent(t *testing.T, events <-chan notify.Event) notify.Event {
	t.Helper()

	select {
	case e := <-events:
		return e
	case <-time.After(2 * time.Second):
		t.Fatal("no notification sent")
		return notify.Event{}
	}
}

func sameRate(amount string) currency.Conversion {
	return currency.Conversion{Amount: decimal.RequireFromString(amount), Rate: decimal.NewFromInt(1)}
}

func validParams() expense.SubmitParams {
	return expense.SubmitParams{
		Description: "  Flight to Lisbon ",
		Category:    category.Travel,
		Date:        time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC),
		Amount:      decimal.NewFromInt(1000),
		Currency:    "USD",
	}
}

func fieldNames(t *testing.T, err error) []string {
	t.Helper()

	var verr *apperr.ValidationError
	require.ErrorAs(t, err, &verr)

	names := make([]string, 0, len(verr.Fields))
	for _, f := range verr.Fields {
		names = append(names, f.Field)
	}

	return names
}

func TestService_Submit(t *testing.T) {
	f := newFixture()

	travelRule := &rule.ApprovalRule{
		ID:                    uuid.New(),
		TenantID:              f.tenant.ID,
		Name:                  "Travel",
		Approvers:             []rule.Approver{{UserID: f.approverB.ID, Order: 5}, {UserID: f.approverA.ID, Order: 1}},
		SequenceType:          rule.Sequential,
		MinApprovalPercentage: 100,
		IsActive:              true,
	}

	type testCase struct {
		name         string
		actor        *identity.User
		params       func() expense.SubmitParams
		tenant       func(*identity.Tenant)
		setupMock    func(m mocks)
		wantErr      error
		wantFields   []string
		wantWarnings []string
		check        func(t *testing.T, e *expense.Expense)
		wantNotified []uuid.UUID
	}

	tests := []testCase{
		{
			name:  "RoutedByMatchingRule",
			actor: f.employee,
			setupMock: func(m mocks) {
				m.converter.EXPECT().Convert(gomock.Any(), decimal.NewFromInt(1000), "USD", "USD").Return(sameRate("1000"), nil)
				m.rules.EXPECT().Match(gomock.Any(), f.tenant.ID, decimal.RequireFromString("1000"), category.Travel).Return(travelRule, nil)
				m.repo.EXPECT().CreateExpense(gomock.Any(), gomock.Any()).Return(nil)
				m.directory.EXPECT().UsersByIDs(gomock.Any(), f.tenant.ID, []uuid.UUID{f.approverA.ID}).
					Return([]*identity.User{f.approverA}, nil)
			},
			check: func(t *testing.T, e *expense.Expense) {
				assert.Equal(t, "Flight to Lisbon", e.Description)
				assert.Equal(t, expense.StatusPending, e.Status)
				assert.Equal(t, 1, e.Version)
				require.NotNil(t, e.Workflow.RuleID)
				assert.Equal(t, travelRule.ID, *e.Workflow.RuleID)
				require.Len(t, e.Workflow.Approvers, 2)
				assert.Equal(t, f.approverA.ID, e.Workflow.Approvers[0].ApproverID)
				assert.Equal(t, f.approverB.ID, e.Workflow.Approvers[1].ApproverID)
				assert.Equal(t, 0, e.Workflow.CurrentStep)
				assert.Equal(t, 2, e.Workflow.TotalSteps)
			},
			wantNotified: []uuid.UUID{f.approverA.ID},
		},
		{
			name:  "NoRuleRoutesToManager",
			actor: f.employee,
			setupMock: func(m mocks) {
				m.converter.EXPECT().Convert(gomock.Any(), gomock.Any(), "USD", "USD").Return(sameRate("1000"), nil)
				m.rules.EXPECT().Match(gomock.Any(), f.tenant.ID, gomock.Any(), category.Travel).Return(nil, nil)
				m.repo.EXPECT().CreateExpense(gomock.Any(), gomock.Any()).Return(nil)
				m.directory.EXPECT().UsersByIDs(gomock.Any(), f.tenant.ID, []uuid.UUID{f.approverA.ID}).
					Return([]*identity.User{f.approverA}, nil)
			},
			check: func(t *testing.T, e *expense.Expense) {
				assert.Nil(t, e.Workflow.RuleID)
				assert.Equal(t, rule.Sequential, e.Workflow.SequenceType)
				require.Len(t, e.Workflow.Approvers, 1)
				assert.Equal(t, f.approverA.ID, e.Workflow.Approvers[0].ApproverID)
			},
			wantNotified: []uuid.UUID{f.approverA.ID},
		},
		{
			name:  "NoRuleNoManagerLeavesEmptyWorkflow",
			actor: f.loner,
			setupMock: func(m mocks) {
				m.converter.EXPECT().Convert(gomock.Any(), gomock.Any(), "USD", "USD").Return(sameRate("1000"), nil)
				m.rules.EXPECT().Match(gomock.Any(), f.tenant.ID, gomock.Any(), category.Travel).Return(nil, nil)
				m.repo.EXPECT().CreateExpense(gomock.Any(), gomock.Any()).Return(nil)
			},
			check: func(t *testing.T, e *expense.Expense) {
				assert.Equal(t, expense.StatusPending, e.Status)
				assert.True(t, e.Workflow.Empty())
				assert.Empty(t, e.Workflow.Actionable())
			},
		},
		{
			name:  "RuleMatchFailureFallsBackWithWarning",
			actor: f.employee,
			setupMock: func(m mocks) {
				m.converter.EXPECT().Convert(gomock.Any(), gomock.Any(), "USD", "USD").Return(sameRate("1000"), nil)
				m.rules.EXPECT().Match(gomock.Any(), f.tenant.ID, gomock.Any(), category.Travel).Return(nil, errors.New("db down"))
				m.repo.EXPECT().CreateExpense(gomock.Any(), gomock.Any()).Return(nil)
				m.directory.EXPECT().UsersByIDs(gomock.Any(), f.tenant.ID, []uuid.UUID{f.approverA.ID}).
					Return([]*identity.User{f.approverA}, nil)
			},
			wantWarnings: []string{"approval rules could not be evaluated; default routing was used"},
			check: func(t *testing.T, e *expense.Expense) {
				require.Len(t, e.Workflow.Approvers, 1)
				assert.Equal(t, f.approverA.ID, e.Workflow.Approvers[0].ApproverID)
			},
			wantNotified: []uuid.UUID{f.approverA.ID},
		},
		{
			name:  "ConvertsForeignCurrencyOnce",
			actor: f.loner,
			params: func() expense.SubmitParams {
				p := validParams()
				p.Amount = decimal.RequireFromString("100")
				p.Currency = "EUR"
				return p
			},
			setupMock: func(m mocks) {
				m.converter.EXPECT().Convert(gomock.Any(), decimal.NewFromInt(100), "EUR", "USD").
					Return(currency.Conversion{Amount: decimal.RequireFromString("108.25"), Rate: decimal.RequireFromString("1.0825")}, nil)
				m.rules.EXPECT().Match(gomock.Any(), f.tenant.ID, decimal.RequireFromString("108.25"), category.Travel).Return(nil, nil)
				m.repo.EXPECT().CreateExpense(gomock.Any(), gomock.Any()).Return(nil)
			},
			check: func(t *testing.T, e *expense.Expense) {
				assert.Equal(t, "EUR", e.OriginalCurrency)
				assert.Equal(t, "USD", e.BaseCurrency)
				assert.Equal(t, "108.25", e.BaseAmount.String())
				assert.Equal(t, "1.0825", e.ExchangeRate.String())
			},
		},
		{
			name:  "ConversionFailureIsFatal",
			actor: f.employee,
			params: func() expense.SubmitParams {
				p := validParams()
				p.Currency = "EUR"
				return p
			},
			setupMock: func(m mocks) {
				m.converter.EXPECT().Convert(gomock.Any(), gomock.Any(), "EUR", "USD").
					Return(currency.Conversion{}, apperr.Upstream("exchange rates", errors.New("timeout")))
			},
			wantErr: apperr.ErrUpstream,
		},
		{
			name:  "MultiCurrencyDisabled",
			actor: f.employee,
			params: func() expense.SubmitParams {
				p := validParams()
				p.Currency = "EUR"
				return p
			},
			tenant:     func(t *identity.Tenant) { t.Settings.AllowMultiCurrency = false },
			wantErr:    apperr.ErrValidation,
			wantFields: []string{"currency"},
		},
		{
			name:       "ReceiptRequired",
			actor:      f.employee,
			tenant:     func(t *identity.Tenant) { t.Settings.RequireReceipt = true },
			wantErr:    apperr.ErrValidation,
			wantFields: []string{"receipt"},
		},
		{
			name:  "OverCompanyLimit",
			actor: f.employee,
			setupMock: func(m mocks) {
				m.converter.EXPECT().Convert(gomock.Any(), gomock.Any(), "USD", "USD").Return(sameRate("10000.01"), nil)
			},
			wantErr:    apperr.ErrValidation,
			wantFields: []string{"amount"},
		},
		{
			name:  "ReceiptUploadFailureIsFatal",
			actor: f.employee,
			params: func() expense.SubmitParams {
				p := validParams()
				p.Receipt = &expense.Upload{FileName: "scan.png", ContentType: "image/png", Data: []byte("png")}
				return p
			},
			setupMock: func(m mocks) {
				m.converter.EXPECT().Convert(gomock.Any(), gomock.Any(), "USD", "USD").Return(sameRate("1000"), nil)
				m.files.EXPECT().Put(gomock.Any(), gomock.Any(), "image/png", gomock.Any()).Return("", errors.New("bucket gone"))
			},
			wantErr: apperr.ErrUpstream,
		},
		{
			name:  "ReceiptExtracted",
			actor: f.loner,
			params: func() expense.SubmitParams {
				p := validParams()
				p.Receipt = &expense.Upload{FileName: `C:\scans\scan.png`, ContentType: "image/png", Data: []byte("png")}
				return p
			},
			setupMock: func(m mocks) {
				m.converter.EXPECT().Convert(gomock.Any(), gomock.Any(), "USD", "USD").Return(sameRate("1000"), nil)
				m.files.EXPECT().Put(gomock.Any(), gomock.Any(), "image/png", gomock.Any()).Return("https://files/scan.png", nil)
				m.parser.EXPECT().Enabled().Return(true)
				m.parser.EXPECT().Parse(gomock.Any(), f.tenant.ID, []byte("png"), "image/png").
					Return(&receipt.Data{Merchant: "TAP Air"}, nil)
				m.rules.EXPECT().Match(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)
				m.repo.EXPECT().CreateExpense(gomock.Any(), gomock.Any()).Return(nil)
			},
			check: func(t *testing.T, e *expense.Expense) {
				require.NotNil(t, e.Receipt)
				assert.Equal(t, "scan.png", e.Receipt.FileName)
				assert.Equal(t, f.tenant.ID.String()+"/"+e.ID.String()+"/scan.png", e.Receipt.Object)
				assert.Equal(t, "https://files/scan.png", e.Receipt.URL)
				assert.Equal(t, int64(3), e.Receipt.Size)
				require.NotNil(t, e.Receipt.Data)
				assert.Equal(t, "TAP Air", e.Receipt.Data.Merchant)
			},
		},
		{
			name:  "ExtractionFailureOnlyWarns",
			actor: f.loner,
			params: func() expense.SubmitParams {
				p := validParams()
				p.Receipt = &expense.Upload{FileName: "scan.jpg", ContentType: "image/jpeg", Data: []byte("jpg")}
				return p
			},
			setupMock: func(m mocks) {
				m.converter.EXPECT().Convert(gomock.Any(), gomock.Any(), "USD", "USD").Return(sameRate("1000"), nil)
				m.files.EXPECT().Put(gomock.Any(), gomock.Any(), "image/jpeg", gomock.Any()).Return("https://files/scan.jpg", nil)
				m.parser.EXPECT().Enabled().Return(true)
				m.parser.EXPECT().Parse(gomock.Any(), f.tenant.ID, gomock.Any(), "image/jpeg").
					Return(nil, apperr.Upstream("receipt extraction", errors.New("503")))
				m.rules.EXPECT().Match(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)
				m.repo.EXPECT().CreateExpense(gomock.Any(), gomock.Any()).Return(nil)
			},
			wantWarnings: []string{"receipt data could not be extracted"},
			check: func(t *testing.T, e *expense.Expense) {
				require.NotNil(t, e.Receipt)
				assert.Nil(t, e.Receipt.Data)
			},
		},
		{
			name:  "PDFReceiptSkipsExtraction",
			actor: f.loner,
			params: func() expense.SubmitParams {
				p := validParams()
				p.Receipt = &expense.Upload{FileName: "invoice.pdf", ContentType: "application/pdf", Data: []byte("pdf")}
				return p
			},
			setupMock: func(m mocks) {
				m.converter.EXPECT().Convert(gomock.Any(), gomock.Any(), "USD", "USD").Return(sameRate("1000"), nil)
				m.files.EXPECT().Put(gomock.Any(), gomock.Any(), "application/pdf", gomock.Any()).Return("https://files/invoice.pdf", nil)
				m.parser.EXPECT().Enabled().Return(true)
				m.rules.EXPECT().Match(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)
				m.repo.EXPECT().CreateExpense(gomock.Any(), gomock.Any()).Return(nil)
			},
			check: func(t *testing.T, e *expense.Expense) {
				require.NotNil(t, e.Receipt)
				assert.Nil(t, e.Receipt.Data)
			},
		},
		{
			name:  "CreateFailurePropagates",
			actor: f.loner,
			setupMock: func(m mocks) {
				m.converter.EXPECT().Convert(gomock.Any(), gomock.Any(), "USD", "USD").Return(sameRate("1000"), nil)
				m.rules.EXPECT().Match(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)
				m.repo.EXPECT().CreateExpense(gomock.Any(), gomock.Any()).Return(errors.New("insert failed"))
			},
			wantErr: errors.New("insert failed"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newService(t)

			tenant := *f.tenant
			if tt.tenant != nil {
				tt.tenant(&tenant)
			}

			m.directory.EXPECT().FindTenant(gomock.Any(), f.tenant.ID).Return(&tenant, nil)

			if tt.setupMock != nil {
				tt.setupMock(m)
			}

			params := validParams()
			if tt.params != nil {
				params = tt.params()
			}

			res, err := svc.Submit(context.Background(), tt.actor, params)

			if tt.wantErr != nil {
				require.Error(t, err)

				if errors.Is(tt.wantErr, apperr.ErrValidation) || errors.Is(tt.wantErr, apperr.ErrUpstream) {
					assert.ErrorIs(t, err, tt.wantErr)
				} else {
					assert.ErrorContains(t, err, tt.wantErr.Error())
				}

				if tt.wantFields != nil {
					assert.ElementsMatch(t, tt.wantFields, fieldNames(t, err))
				}

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantWarnings, res.Warnings)
			assert.Equal(t, tt.actor.ID, res.Expense.SubmittedBy)
			assert.Equal(t, f.tenant.ID, res.Expense.TenantID)

			if tt.check != nil {
				tt.check(t, res.Expense)
			}

			for _, id := range tt.wantNotified {
				e := waitEvent(t, m.sent)
				assert.Equal(t, notify.ApprovalRequired, e.Type)
				require.Len(t, e.Recipients, 1)
				assert.Equal(t, id, e.Recipients[0].UserID)
				assert.Equal(t, tt.actor.Name, e.Payload["submitter"])
			}
		})
	}
}

func TestService_Submit_InvalidShape(t *testing.T) {
	f := newFixture()
	svc, _ := newService(t)

	_, err := svc.Submit(context.Background(), f.employee, expense.SubmitParams{
		Description: "   ",
		Category:    "Snacks",
		Amount:      decimal.Zero,
		Currency:    "USDX",
	})

	require.ErrorIs(t, err, apperr.ErrValidation)

	names := fieldNames(t, err)
	for _, want := range []string{"description", "category", "date", "amount", "currency"} {
		assert.Contains(t, names, want)
	}
}

// pendingExpense builds a stored expense routed to approvers in order.
func pendingExpense(f fixture, seq rule.SequenceType, approvers ...*identity.User) *expense.Expense {
	w := &workflow.Instance{
		SequenceType:          seq,
		MinApprovalPercentage: 100,
		TotalSteps:            len(approvers),
		Approvers:             make([]workflow.Slot, len(approvers)),
	}

	for i, a := range approvers {
		w.Approvers[i] = workflow.Slot{ApproverID: a.ID, Status: workflow.SlotPending}
	}

	return &expense.Expense{
		ID:               uuid.New(),
		TenantID:         f.tenant.ID,
		SubmittedBy:      f.employee.ID,
		Description:      "Conference",
		Category:         category.Travel,
		OriginalAmount:   decimal.NewFromInt(900),
		OriginalCurrency: "EUR",
		BaseAmount:       decimal.RequireFromString("1000.00"),
		BaseCurrency:     "USD",
		ExchangeRate:     decimal.RequireFromString("1.1111111111"),
		Status:           expense.StatusPending,
		Workflow:         w,
		Version:          1,
	}
}

// storeIn backs GetPendingExpense and SaveDecision with *stored, applying the same
// pending-and-version guard as the database.
func storeIn(m mocks, stored **expense.Expense) {
	m.repo.EXPECT().GetPendingExpense(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, tenantID, id uuid.UUID) (*expense.Expense, error) {
			cur := *stored
			if cur.TenantID != tenantID || cur.ID != id || cur.Status != expense.StatusPending {
				return nil, expense.ErrNotPending
			}

			cp := *cur
			cp.Workflow = cur.Workflow.Clone()

			return &cp, nil
		}).AnyTimes()

	m.repo.EXPECT().SaveDecision(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, e *expense.Expense, expected int) error {
			cur := *stored
			if cur.Status != expense.StatusPending || cur.Version != expected {
				return expense.ErrConflict
			}

			e.Version = expected + 1
			cp := *e
			cp.Workflow = e.Workflow.Clone()
			*stored = &cp

			return nil
		}).AnyTimes()
}

func TestService_Decide_SequentialEndToEnd(t *testing.T) {
	f := newFixture()
	svc, m := newService(t)

	stored := pendingExpense(f, rule.Sequential, f.approverA, f.approverB)
	storeIn(m, &stored)

	m.directory.EXPECT().UsersByIDs(gomock.Any(), f.tenant.ID, []uuid.UUID{f.approverB.ID}).
		Return([]*identity.User{f.approverB}, nil)
	m.directory.EXPECT().FindUser(gomock.Any(), f.employee.ID).Return(f.employee, nil).Times(2)

	ctx := context.Background()

	e, err := svc.Approve(ctx, f.approverA, stored.ID, "ok by me")
	require.NoError(t, err)
	assert.Equal(t, expense.StatusPending, e.Status)
	assert.Equal(t, 1, e.Workflow.CurrentStep)
	assert.Nil(t, e.Workflow.CompletedAt)
	assert.Equal(t, 2, stored.Version)

	advanced := waitEvent(t, m.sent)
	assert.Equal(t, notify.ApprovalRequired, advanced.Type)
	assert.Equal(t, f.approverB.ID, advanced.Recipients[0].UserID)
	assert.Equal(t, f.employee.Name, advanced.Payload["submitter"])

	e, err = svc.Approve(ctx, f.approverB, stored.ID, "")
	require.NoError(t, err)
	assert.Equal(t, expense.StatusApproved, e.Status)
	assert.Equal(t, 2, e.Workflow.CurrentStep)
	require.NotNil(t, e.Workflow.CompletedAt)
	assert.Equal(t, now, *e.Workflow.CompletedAt)
	require.NotNil(t, e.ApprovedBy)
	assert.Equal(t, f.approverB.ID, *e.ApprovedBy)
	assert.Equal(t, 3, stored.Version)

	assert.Equal(t, "1000", stored.BaseAmount.String())
	assert.Equal(t, "1.1111111111", stored.ExchangeRate.String())
	assert.Equal(t, "USD", stored.BaseCurrency)

	outcome := waitEvent(t, m.sent)
	assert.Equal(t, notify.ExpenseApproved, outcome.Type)
	assert.Equal(t, f.employee.ID, outcome.Recipients[0].UserID)

	_, err = svc.Approve(ctx, f.approverB, stored.ID, "")
	assert.ErrorIs(t, err, expense.ErrNotPending)
}

func TestService_Decide_OutOfTurnApproval(t *testing.T) {
	f := newFixture()
	svc, m := newService(t)

	stored := pendingExpense(f, rule.Sequential, f.approverA, f.approverB)
	storeIn(m, &stored)

	e, err := svc.Approve(context.Background(), f.approverB, stored.ID, "early")
	require.NoError(t, err)

	assert.Equal(t, expense.StatusPending, e.Status)
	assert.Equal(t, 0, e.Workflow.CurrentStep)
	assert.Equal(t, workflow.SlotApproved, stored.Workflow.Approvers[1].Status)
	assert.Equal(t, workflow.SlotPending, stored.Workflow.Approvers[0].Status)
}

func TestService_Decide(t *testing.T) {
	f := newFixture()

	type testCase struct {
		name      string
		expense   func() *expense.Expense
		actor     *identity.User
		params    expense.DecideParams
		setupMock func(m mocks)
		wantErr   error
		check     func(t *testing.T, e, stored *expense.Expense)
		wantEvent notify.Type
	}

	tests := []testCase{
		{
			name:    "SequentialRejectTerminates",
			expense: func() *expense.Expense { return pendingExpense(f, rule.Sequential, f.approverA, f.approverB) },
			actor:   f.approverA,
			params:  expense.DecideParams{Decision: expense.Reject, Comments: "Not a business trip"},
			setupMock: func(m mocks) {
				m.directory.EXPECT().FindUser(gomock.Any(), f.employee.ID).Return(f.employee, nil)
			},
			check: func(t *testing.T, e, stored *expense.Expense) {
				assert.Equal(t, expense.StatusRejected, e.Status)
				assert.Equal(t, "Not a business trip", e.RejectionReason)
				assert.Equal(t, 0, e.Workflow.CurrentStep)
				assert.NotNil(t, e.Workflow.CompletedAt)
				assert.Nil(t, e.ApprovedBy)
			},
			wantEvent: notify.ExpenseRejected,
		},
		{
			name:    "ExplicitReasonWins",
			expense: func() *expense.Expense { return pendingExpense(f, rule.Sequential, f.approverA) },
			actor:   f.approverA,
			params:  expense.DecideParams{Decision: expense.Reject, Comments: "see policy", Reason: "Over budget"},
			setupMock: func(m mocks) {
				m.directory.EXPECT().FindUser(gomock.Any(), f.employee.ID).Return(f.employee, nil)
			},
			check: func(t *testing.T, e, _ *expense.Expense) {
				assert.Equal(t, "Over budget", e.RejectionReason)
			},
			wantEvent: notify.ExpenseRejected,
		},
		{
			name:    "RejectNeedsComments",
			expense: func() *expense.Expense { return pendingExpense(f, rule.Sequential, f.approverA) },
			actor:   f.approverA,
			params:  expense.DecideParams{Decision: expense.Reject, Comments: "   "},
			wantErr: apperr.ErrValidation,
		},
		{
			name:    "UnknownDecision",
			expense: func() *expense.Expense { return pendingExpense(f, rule.Sequential, f.approverA) },
			actor:   f.approverA,
			params:  expense.DecideParams{Decision: "maybe"},
			wantErr: apperr.ErrValidation,
		},
		{
			name:    "NotAnApprover",
			expense: func() *expense.Expense { return pendingExpense(f, rule.Sequential, f.approverA) },
			actor:   f.approverB,
			params:  expense.DecideParams{Decision: expense.Approve},
			wantErr: workflow.ErrNotApprover,
			check: func(t *testing.T, _, stored *expense.Expense) {
				assert.Equal(t, 1, stored.Version)
				assert.Equal(t, workflow.SlotPending, stored.Workflow.Approvers[0].Status)
			},
		},
		{
			name: "AlreadyDecided",
			expense: func() *expense.Expense {
				e := pendingExpense(f, rule.Sequential, f.approverA)
				e.Status = expense.StatusApproved
				return e
			},
			actor:   f.approverA,
			params:  expense.DecideParams{Decision: expense.Approve},
			wantErr: expense.ErrNotPending,
		},
		{
			name:    "OtherTenantReadsAsNotPending",
			expense: func() *expense.Expense { return pendingExpense(f, rule.Sequential, f.approverA) },
			actor: &identity.User{
				ID: f.approverA.ID, TenantID: uuid.New(), Role: identity.RoleManager, IsActive: true,
			},
			params:  expense.DecideParams{Decision: expense.Approve},
			wantErr: expense.ErrNotPending,
		},
		{
			name:    "AdminOverrideCompletesEverySlot",
			expense: func() *expense.Expense { return pendingExpense(f, rule.Parallel, f.approverA, f.approverB) },
			actor:   f.admin,
			params:  expense.DecideParams{Decision: expense.Approve, Comments: "month end"},
			setupMock: func(m mocks) {
				m.directory.EXPECT().FindUser(gomock.Any(), f.employee.ID).Return(f.employee, nil)
			},
			check: func(t *testing.T, e, stored *expense.Expense) {
				assert.Equal(t, expense.StatusApproved, e.Status)
				require.NotNil(t, e.ApprovedBy)
				assert.Equal(t, f.admin.ID, *e.ApprovedBy)
				for _, s := range stored.Workflow.Approvers {
					assert.Equal(t, workflow.SlotApproved, s.Status)
					assert.Equal(t, workflow.OverrideComment, s.Comments)
				}
			},
			wantEvent: notify.ExpenseApproved,
		},
		{
			name:    "AdminOverrideOnEmptyWorkflow",
			expense: func() *expense.Expense { return pendingExpense(f, rule.Sequential) },
			actor:   f.admin,
			params:  expense.DecideParams{Decision: expense.Approve},
			setupMock: func(m mocks) {
				m.directory.EXPECT().FindUser(gomock.Any(), f.employee.ID).Return(f.employee, nil)
			},
			check: func(t *testing.T, e, _ *expense.Expense) {
				assert.Equal(t, expense.StatusApproved, e.Status)
				assert.NotNil(t, e.Workflow.CompletedAt)
			},
			wantEvent: notify.ExpenseApproved,
		},
		{
			name:    "AdminRejectionNeedsASlot",
			expense: func() *expense.Expense { return pendingExpense(f, rule.Sequential, f.approverA) },
			actor:   f.admin,
			params:  expense.DecideParams{Decision: expense.Reject, Comments: "no"},
			wantErr: workflow.ErrNotApprover,
		},
		{
			name:    "ParallelWaitsForEveryone",
			expense: func() *expense.Expense { return pendingExpense(f, rule.Parallel, f.approverA, f.approverB) },
			actor:   f.approverB,
			params:  expense.DecideParams{Decision: expense.Reject, Comments: "too pricey"},
			check: func(t *testing.T, e, stored *expense.Expense) {
				assert.Equal(t, expense.StatusPending, e.Status)
				assert.Equal(t, workflow.SlotRejected, stored.Workflow.Approvers[1].Status)
				assert.Equal(t, "too pricey", stored.Workflow.Approvers[1].Comments)
				assert.Empty(t, stored.RejectionReason)
			},
		},
		{
			name:    "AnyOneApproves",
			expense: func() *expense.Expense { return pendingExpense(f, rule.AnyOne, f.approverA, f.approverB) },
			actor:   f.approverB,
			params:  expense.DecideParams{Decision: expense.Approve},
			setupMock: func(m mocks) {
				m.directory.EXPECT().FindUser(gomock.Any(), f.employee.ID).Return(f.employee, nil)
			},
			check: func(t *testing.T, e, _ *expense.Expense) {
				assert.Equal(t, expense.StatusApproved, e.Status)
				assert.Equal(t, f.approverB.ID, *e.ApprovedBy)
			},
			wantEvent: notify.ExpenseApproved,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newService(t)

			stored := tt.expense()
			storeIn(m, &stored)

			if tt.setupMock != nil {
				tt.setupMock(m)
			}

			e, err := svc.Decide(context.Background(), tt.actor, stored.ID, tt.params)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, 2, stored.Version)
				assert.Equal(t, "1000", stored.BaseAmount.String())
			}

			if tt.check != nil {
				tt.check(t, e, stored)
			}

			if tt.wantEvent != "" {
				ev := waitEvent(t, m.sent)
				assert.Equal(t, tt.wantEvent, ev.Type)
				assert.Equal(t, f.employee.ID, ev.Recipients[0].UserID)
			}
		})
	}
}

func TestService_Decide_LostRace(t *testing.T) {
	f := newFixture()
	svc, m := newService(t)

	loaded := pendingExpense(f, rule.Sequential, f.approverA)

	m.repo.EXPECT().GetPendingExpense(gomock.Any(), f.tenant.ID, loaded.ID).Return(loaded, nil)
	m.repo.EXPECT().SaveDecision(gomock.Any(), gomock.Any(), 1).Return(expense.ErrConflict)

	_, err := svc.Approve(context.Background(), f.approverA, loaded.ID, "")
	require.ErrorIs(t, err, expense.ErrConflict)
	assert.ErrorIs(t, err, apperr.ErrConflict)

	assert.Equal(t, expense.StatusPending, loaded.Status)
	assert.Equal(t, workflow.SlotPending, loaded.Workflow.Approvers[0].Status)
	assert.Nil(t, loaded.Workflow.CompletedAt)
}

func TestService_Get(t *testing.T) {
	f := newFixture()

	other := &identity.User{ID: uuid.New(), TenantID: f.tenant.ID, Role: identity.RoleManager, IsActive: true}

	tests := []struct {
		name      string
		viewer    *identity.User
		setupMock func(m mocks)
		wantErr   error
	}{
		{name: "Submitter", viewer: f.employee},
		{name: "Admin", viewer: f.admin},
		{name: "Approver", viewer: f.approverB},
		{
			name:   "SubmittersManager",
			viewer: f.approverA,
			setupMock: func(m mocks) {
				m.directory.EXPECT().FindUser(gomock.Any(), f.employee.ID).Return(f.employee, nil)
			},
		},
		{
			name:   "UnrelatedManager",
			viewer: other,
			setupMock: func(m mocks) {
				m.directory.EXPECT().FindUser(gomock.Any(), f.employee.ID).Return(f.employee, nil)
			},
			wantErr: expense.ErrNotFound,
		},
		{name: "UnrelatedEmployee", viewer: f.loner, wantErr: expense.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newService(t)

			stored := pendingExpense(f, rule.Sequential, f.approverB)
			m.repo.EXPECT().GetExpense(gomock.Any(), f.tenant.ID, stored.ID).Return(stored, nil)

			if tt.setupMock != nil {
				tt.setupMock(m)
			}

			e, err := svc.Get(context.Background(), tt.viewer, stored.ID)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, stored.ID, e.ID)
		})
	}
}

func TestService_Lists(t *testing.T) {
	f := newFixture()

	t.Run("MineIsScopedToActor", func(t *testing.T) {
		svc, m := newService(t)

		other := uuid.New()

		m.repo.EXPECT().ListExpenses(gomock.Any(), f.tenant.ID,
			expense.Filter{Status: expense.StatusApproved, SubmittedBy: &f.employee.ID},
			expense.Page{Page: 1, Limit: expense.MaxLimit},
		).Return([]*expense.Expense{{ID: uuid.New()}}, 230, nil)

		list, err := svc.ListMine(context.Background(), f.employee,
			expense.Filter{Status: expense.StatusApproved, SubmittedBy: &other, ManagerID: &other},
			expense.Page{Page: 0, Limit: 500},
		)
		require.NoError(t, err)
		assert.Len(t, list.Expenses, 1)
		assert.Equal(t, expense.Pagination{Current: 1, Pages: 3, Total: 230}, list.Pagination)
	})

	t.Run("TenantIsAdminOnly", func(t *testing.T) {
		svc, _ := newService(t)

		_, err := svc.ListTenant(context.Background(), f.approverA, expense.Filter{}, expense.Page{})
		assert.ErrorIs(t, err, expense.ErrAdminOnly)
	})

	t.Run("TeamOfManager", func(t *testing.T) {
		svc, m := newService(t)

		m.repo.EXPECT().ListExpenses(gomock.Any(), f.tenant.ID,
			expense.Filter{ManagerID: &f.approverA.ID},
			expense.Page{Page: 2, Limit: expense.DefaultLimit},
		).Return(nil, 0, nil)

		list, err := svc.ListTeam(context.Background(), f.approverA, expense.Filter{}, expense.Page{Page: 2})
		require.NoError(t, err)
		assert.Equal(t, 0, list.Pagination.Pages)
	})

	t.Run("TeamRefusesEmployees", func(t *testing.T) {
		svc, _ := newService(t)

		_, err := svc.ListTeam(context.Background(), f.employee, expense.Filter{}, expense.Page{})
		assert.ErrorIs(t, err, expense.ErrApproversOnly)
	})

	t.Run("PendingForApprover", func(t *testing.T) {
		svc, m := newService(t)

		m.repo.EXPECT().ListExpenses(gomock.Any(), f.tenant.ID,
			expense.Filter{Status: expense.StatusPending, PendingApprover: &f.approverB.ID},
			expense.Page{Page: 1, Limit: expense.DefaultLimit},
		).Return(nil, 0, nil)

		_, err := svc.PendingFor(context.Background(), f.approverB, expense.Page{})
		require.NoError(t, err)
	})

	t.Run("RejectsUnknownStatus", func(t *testing.T) {
		svc, _ := newService(t)

		_, err := svc.ListMine(context.Background(), f.employee, expense.Filter{Status: "lost"}, expense.Page{})
		assert.ErrorIs(t, err, apperr.ErrValidation)
	})
}

func TestService_ApplicableRule(t *testing.T) {
	f := newFixture()

	routed := &rule.ApprovalRule{ID: uuid.New(), TenantID: f.tenant.ID, Name: "Travel"}

	t.Run("RuleTheExpenseWasRoutedBy", func(t *testing.T) {
		svc, m := newService(t)

		stored := pendingExpense(f, rule.Sequential, f.approverA)
		stored.Workflow.RuleID = &routed.ID

		m.repo.EXPECT().GetExpense(gomock.Any(), f.tenant.ID, stored.ID).Return(stored, nil)
		m.rules.EXPECT().Get(gomock.Any(), f.tenant.ID, routed.ID).Return(routed, nil)

		r, err := svc.ApplicableRule(context.Background(), f.employee, stored.ID)
		require.NoError(t, err)
		assert.Equal(t, routed, r)
	})

	t.Run("DeletedRule", func(t *testing.T) {
		svc, m := newService(t)

		stored := pendingExpense(f, rule.Sequential, f.approverA)
		stored.Workflow.RuleID = &routed.ID

		m.repo.EXPECT().GetExpense(gomock.Any(), f.tenant.ID, stored.ID).Return(stored, nil)
		m.rules.EXPECT().Get(gomock.Any(), f.tenant.ID, routed.ID).Return(nil, rule.ErrNotFound)

		r, err := svc.ApplicableRule(context.Background(), f.employee, stored.ID)
		require.NoError(t, err)
		assert.Nil(t, r)
	})

	t.Run("FallbackRoutedMatchesNow", func(t *testing.T) {
		svc, m := newService(t)

		stored := pendingExpense(f, rule.Sequential, f.approverA)

		m.repo.EXPECT().GetExpense(gomock.Any(), f.tenant.ID, stored.ID).Return(stored, nil)
		m.rules.EXPECT().Match(gomock.Any(), f.tenant.ID, stored.BaseAmount, category.Travel).Return(routed, nil)

		r, err := svc.ApplicableRule(context.Background(), f.employee, stored.ID)
		require.NoError(t, err)
		assert.Equal(t, routed, r)
	})
}
