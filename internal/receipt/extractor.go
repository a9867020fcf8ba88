package receipt

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

const maxAnswerSize = 1 << 20

// Extractor posts receipt images to a vision model endpoint. The endpoint answers with
// the model's text, which is expected to be a JSON object, possibly inside a markdown
// code fence.
type Extractor struct {
	url        string
	key        string
	httpClient *retryablehttp.Client
}

type ExtractorOption func(*Extractor)

func WithHTTPClient(c *retryablehttp.Client) ExtractorOption {
	return func(e *Extractor) {
		e.httpClient = c
	}
}

func WithTimeout(d time.Duration) ExtractorOption {
	return func(e *Extractor) {
		e.httpClient.HTTPClient.Timeout = d
	}
}

func NewExtractor(url, key string, opts ...ExtractorOption) *Extractor {
	httpClient := retryablehttp.NewClient()
	httpClient.RetryMax = 1
	httpClient.Logger = slog.Default()

	e := &Extractor{url: url, key: key, httpClient: httpClient}
	for _, o := range opts {
		o(e)
	}

	return e
}

func (e *Extractor) Extract(ctx context.Context, image []byte, contentType string) (*Data, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, e.url, bytes.NewReader(image))
	if err != nil {
		return nil, fmt.Errorf("creating extraction request: %w", err)
	}

	req.Header.Set("Content-Type", contentType)

	if e.key != "" {
		req.Header.Set("Authorization", "Bearer "+e.key)
	}

	res, err := e.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling extractor: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("calling extractor: unexpected status %d", res.StatusCode)
	}

	answer, err := io.ReadAll(io.LimitReader(res.Body, maxAnswerSize))
	if err != nil {
		return nil, fmt.Errorf("reading extractor answer: %w", err)
	}

	return parseAnswer(string(answer))
}

func parseAnswer(answer string) (*Data, error) {
	cleaned := stripFences(answer)
	if cleaned == "" {
		return nil, fmt.Errorf("extractor returned no data")
	}

	var data Data
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return nil, fmt.Errorf("decoding extractor answer: %w", err)
	}

	return &data, nil
}

// stripFences removes ```json / ``` markers around the answer.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")

	return strings.TrimSpace(s)
}
