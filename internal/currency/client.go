package currency

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/shopspring/decimal"
)

// Client fetches the latest rates for a base currency from an exchangerate-api style
// endpoint: GET {base}/{CODE} returning {"rates": {"EUR": 0.92, ...}}.
type Client struct {
	baseURL    string
	httpClient *retryablehttp.Client
}

type ClientOption func(*Client)

// WithHTTPClient replaces the retrying client, mostly for tests.
func WithHTTPClient(c *retryablehttp.Client) ClientOption {
	return func(cl *Client) {
		cl.httpClient = c
	}
}

func WithTimeout(d time.Duration) ClientOption {
	return func(cl *Client) {
		cl.httpClient.HTTPClient.Timeout = d
	}
}

func NewClient(baseURL string, opts ...ClientOption) *Client {
	httpClient := retryablehttp.NewClient()
	httpClient.RetryMax = 2
	httpClient.Logger = slog.Default()

	c := &Client{baseURL: baseURL, httpClient: httpClient}
	for _, o := range opts {
		o(c)
	}

	return c
}

type ratesResponse struct {
	Rates map[string]decimal.Decimal `json:"rates"`
}

func (c *Client) FetchRates(ctx context.Context, base string) (map[string]decimal.Decimal, error) {
	endpoint, err := url.JoinPath(c.baseURL, base)
	if err != nil {
		return nil, fmt.Errorf("building rates url: %w", err)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("creating rates request: %w", err)
	}

	req.Header.Set("Accept", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching rates for %s: %w", base, err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching rates for %s: unexpected status %d", base, res.StatusCode)
	}

	var body ratesResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decoding rates for %s: %w", base, err)
	}

	return body.Rates, nil
}
