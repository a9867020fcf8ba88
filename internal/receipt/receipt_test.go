package receipt_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"google.golang.org/api/option"

	"github.com/MrJamesThe3rd/outlay/internal/apperr"
	"github.com/MrJamesThe3rd/outlay/internal/category"
	"github.com/MrJamesThe3rd/outlay/internal/receipt"
)

func testExtractor(url string) *receipt.Extractor {
	rc := retryablehttp.NewClient()
	rc.RetryMax = 0
	rc.RetryWaitMin = time.Millisecond
	rc.Logger = nil

	return receipt.NewExtractor(url, "secret", receipt.WithHTTPClient(rc))
}

func TestExtractor_Extract(t *testing.T) {
	type testCase struct {
		name    string
		status  int
		answer  string
		wantErr string
		check   func(t *testing.T, d *receipt.Data)
	}

	tests := []testCase{
		{
			name:   "FencedJSON",
			status: http.StatusOK,
			answer: "```json\n{\"merchant\":\"Blue Bottle\",\"amount\":12.5,\"currency\":\"usd\",\"date\":\"2025-03-01\"," +
				"\"category\":\"food\",\"items\":[{\"name\":\"Latte\",\"price\":5.5}]}\n```",
			check: func(t *testing.T, d *receipt.Data) {
				assert.Equal(t, "Blue Bottle", d.Merchant)
				require.NotNil(t, d.Amount)
				assert.Equal(t, "12.5", d.Amount.String())
				assert.Equal(t, "usd", d.Currency)
				assert.Equal(t, "2025-03-01", d.Date)
				require.Len(t, d.Items, 1)
				assert.Equal(t, "Latte", d.Items[0].Name)
			},
		},
		{
			name:   "NullFields",
			status: http.StatusOK,
			answer: `{"merchant":null,"amount":null,"currency":null,"date":null,"category":"Other","items":[]}`,
			check: func(t *testing.T, d *receipt.Data) {
				assert.Empty(t, d.Merchant)
				assert.Nil(t, d.Amount)
				assert.Equal(t, "Other", d.Category)
			},
		},
		{name: "NotJSON", status: http.StatusOK, answer: "I could not read this receipt.", wantErr: "decoding extractor answer"},
		{name: "Empty", status: http.StatusOK, answer: "```\n```", wantErr: "no data"},
		{name: "UpstreamFailure", status: http.StatusBadGateway, wantErr: "giving up after 1 attempt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
				assert.Equal(t, "image/png", r.Header.Get("Content-Type"))

				body, _ := io.ReadAll(r.Body)
				assert.Equal(t, "png-bytes", string(body))

				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.answer))
			}))
			defer srv.Close()

			got, err := testExtractor(srv.URL).Extract(context.Background(), []byte("png-bytes"), "image/png")
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			tt.check(t, got)
		})
	}
}

func TestParser_Parse(t *testing.T) {
	tenantID := uuid.New()

	type testCase struct {
		name         string
		contentType  string
		setupMock    func(ext *receipt.MockExtraction, sug *receipt.MockSuggester)
		wantErr      error
		wantCategory string
		wantCurrency string
	}

	tests := []testCase{
		{
			name:        "KnownCategoryNormalized",
			contentType: "image/jpeg",
			setupMock: func(ext *receipt.MockExtraction, _ *receipt.MockSuggester) {
				ext.EXPECT().Extract(gomock.Any(), gomock.Any(), "image/jpeg").
					Return(&receipt.Data{Merchant: "Hilton", Category: "accommodation", Currency: " eur "}, nil)
			},
			wantCategory: "Accommodation",
			wantCurrency: "EUR",
		},
		{
			name:        "SuggestedFromMerchant",
			contentType: "image/png",
			setupMock: func(ext *receipt.MockExtraction, sug *receipt.MockSuggester) {
				ext.EXPECT().Extract(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(&receipt.Data{Merchant: "UBER *TRIP", Category: "Rides"}, nil)
				sug.EXPECT().Suggest(gomock.Any(), tenantID, "UBER *TRIP").Return(category.Transport, nil)
			},
			wantCategory: "Transport",
		},
		{
			name:        "SuggestionFailureFallsBackToOther",
			contentType: "image/png",
			setupMock: func(ext *receipt.MockExtraction, sug *receipt.MockSuggester) {
				ext.EXPECT().Extract(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(&receipt.Data{Merchant: "Corner shop"}, nil)
				sug.EXPECT().Suggest(gomock.Any(), tenantID, "Corner shop").Return(category.Category(""), assert.AnError)
			},
			wantCategory: "Other",
		},
		{
			name:        "ExtractionFailure",
			contentType: "image/png",
			setupMock: func(ext *receipt.MockExtraction, _ *receipt.MockSuggester) {
				ext.EXPECT().Extract(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, assert.AnError)
			},
			wantErr: apperr.ErrUpstream,
		},
		{
			name:        "NotAnImage",
			contentType: "application/pdf",
			wantErr:     apperr.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			ext := receipt.NewMockExtraction(ctrl)
			sug := receipt.NewMockSuggester(ctrl)

			if tt.setupMock != nil {
				tt.setupMock(ext, sug)
			}

			got, err := receipt.NewParser(ext, sug).Parse(context.Background(), tenantID, []byte("img"), tt.contentType)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantCategory, got.Category)
			assert.Equal(t, tt.wantCurrency, got.Currency)
		})
	}
}

func TestParser_Disabled(t *testing.T) {
	p := receipt.NewParser(nil, nil)
	assert.False(t, p.Enabled())

	_, err := p.Parse(context.Background(), uuid.New(), []byte("img"), "image/png")
	assert.ErrorIs(t, err, receipt.ErrExtractionDisabled)
	assert.ErrorIs(t, err, apperr.ErrUpstream)
}

func TestGCSStore_ObjectURL(t *testing.T) {
	client, err := storage.NewClient(context.Background(), option.WithoutAuthentication())
	require.NoError(t, err)
	defer client.Close()

	s := receipt.NewGCSStore(client, "outlay-receipts", "https://storage.googleapis.com/")

	assert.Equal(t,
		"https://storage.googleapis.com/outlay-receipts/tenant/expense/receipt%20march.png",
		s.ObjectURL("tenant/expense/receipt march.png"),
	)
}
