package category_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/outlay/internal/apperr"
	"github.com/MrJamesThe3rd/outlay/internal/category"
)

func TestParse(t *testing.T) {
	c, ok := category.Parse("  office supplies ")
	assert.True(t, ok)
	assert.Equal(t, category.OfficeSupplies, c)

	_, ok = category.Parse("Groceries")
	assert.False(t, ok)

	assert.Len(t, category.All(), 7)
	assert.False(t, category.Category("travel").Valid())
	assert.True(t, category.Travel.Valid())
}

func TestService_Suggest(t *testing.T) {
	tenantID := uuid.New()

	type testCase struct {
		name      string
		merchant  string
		setupMock func(m *category.MockRepository)
		want      category.Category
		wantErr   bool
	}

	tests := []testCase{
		{
			name:     "Match",
			merchant: " Uber Trip 1234 ",
			setupMock: func(m *category.MockRepository) {
				m.EXPECT().FindMatch(gomock.Any(), tenantID, "Uber Trip 1234").Return(category.Transport, nil)
			},
			want: category.Transport,
		},
		{
			name:     "EmptyMerchant",
			merchant: "  ",
		},
		{
			name:     "RepoError",
			merchant: "Hotel",
			setupMock: func(m *category.MockRepository) {
				m.EXPECT().FindMatch(gomock.Any(), tenantID, "Hotel").Return(category.Category(""), errors.New("db error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := category.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			got, err := category.NewService(repo).Suggest(context.Background(), tenantID, tt.merchant)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestService_Learn(t *testing.T) {
	tenantID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := category.NewMockRepository(ctrl)

		repo.EXPECT().
			CreateMapping(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, m *category.Mapping) error {
				m.ID = uuid.New()
				return nil
			})

		m, err := category.NewService(repo).Learn(context.Background(), tenantID, " Marriott ", category.Accommodation)
		assert.NoError(t, err)
		assert.Equal(t, "Marriott", m.MerchantPattern)
		assert.Equal(t, tenantID, m.TenantID)
		assert.NotEqual(t, uuid.Nil, m.ID)
	})

	t.Run("InvalidCategory", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := category.NewMockRepository(ctrl)

		_, err := category.NewService(repo).Learn(context.Background(), tenantID, "Marriott", "Lodging")
		assert.ErrorIs(t, err, apperr.ErrValidation)
	})

	t.Run("EmptyPattern", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := category.NewMockRepository(ctrl)

		_, err := category.NewService(repo).Learn(context.Background(), tenantID, "", category.Food)
		assert.ErrorIs(t, err, apperr.ErrValidation)
	})
}
