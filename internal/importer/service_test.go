package importer_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/outlay/internal/apperr"
	"github.com/MrJamesThe3rd/outlay/internal/category"
	"github.com/MrJamesThe3rd/outlay/internal/expense"
	"github.com/MrJamesThe3rd/outlay/internal/identity"
	"github.com/MrJamesThe3rd/outlay/internal/importer"
)

func TestService_Import(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	submitter := importer.NewMockSubmitter(ctrl)
	tenants := importer.NewMockTenantFinder(ctrl)

	actor := &identity.User{ID: uuid.New(), TenantID: uuid.New(), Role: identity.RoleEmployee, IsActive: true}
	tenant := &identity.Tenant{ID: actor.TenantID, BaseCurrency: "GBP"}

	csv := "date,description,amount,currency,category\n" +
		"2026-04-01,Train,30,,transport\n" +
		"2026-04-02,Gift,15,EUR,\n" +
		"2026-04-03,Mystery,99,USD,Snacks\n" +
		"2026-04-04,Broken,x,USD,Food\n"

	tenants.EXPECT().FindTenant(gomock.Any(), actor.TenantID).Return(tenant, nil)

	trainID, giftID := uuid.New(), uuid.New()

	gomock.InOrder(
		submitter.EXPECT().Submit(gomock.Any(), actor, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *identity.User, p expense.SubmitParams) (*expense.SubmitResult, error) {
				assert.Equal(t, "GBP", p.Currency)
				assert.Equal(t, category.Transport, p.Category)
				assert.Equal(t, "Train", p.Description)

				return &expense.SubmitResult{Expense: &expense.Expense{ID: trainID}}, nil
			}),
		submitter.EXPECT().Submit(gomock.Any(), actor, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *identity.User, p expense.SubmitParams) (*expense.SubmitResult, error) {
				assert.Equal(t, "EUR", p.Currency)
				assert.Equal(t, category.Other, p.Category)

				return &expense.SubmitResult{Expense: &expense.Expense{ID: giftID}, Warnings: []string{"note"}}, nil
			}),
		submitter.EXPECT().Submit(gomock.Any(), actor, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *identity.User, p expense.SubmitParams) (*expense.SubmitResult, error) {
				assert.Equal(t, category.Category("Snacks"), p.Category)

				return nil, apperr.Invalid("category", "must be one of the known categories")
			}),
	)

	res, err := importer.NewService(submitter, tenants).Import(context.Background(), actor, strings.NewReader(csv))
	require.NoError(t, err)

	assert.Equal(t, "standard", res.Profile)
	assert.Equal(t, []importer.Imported{
		{Line: 2, ExpenseID: trainID},
		{Line: 3, ExpenseID: giftID, Warnings: []string{"note"}},
	}, res.Imported)

	require.Len(t, res.Failed, 2)
	assert.Equal(t, 5, res.Failed[0].Line)
	assert.Equal(t, 4, res.Failed[1].Line)
	assert.Contains(t, res.Failed[1].Message, "category")
}

func TestService_Import_TenantLookupFails(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	tenants := importer.NewMockTenantFinder(ctrl)
	tenants.EXPECT().FindTenant(gomock.Any(), gomock.Any()).Return(nil, errors.New("db down"))

	actor := &identity.User{ID: uuid.New(), TenantID: uuid.New()}

	_, err := importer.NewService(importer.NewMockSubmitter(ctrl), tenants).
		Import(context.Background(), actor, strings.NewReader("date,description,amount\n2026-01-01,a,1\n"))
	assert.ErrorContains(t, err, "db down")
}
