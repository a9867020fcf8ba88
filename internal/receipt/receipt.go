// Package receipt stores receipt files and extracts expense data from receipt images.
package receipt

import (
	"context"
	"io"
	"strings"

	"github.com/shopspring/decimal"
)

// Receipt is the stored file attached to an expense.
type Receipt struct {
	URL         string `json:"url"`
	Object      string `json:"object"`
	FileName    string `json:"file_name"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
	Data        *Data  `json:"data,omitempty"`
}

type Item struct {
	Name  string           `json:"name"`
	Price *decimal.Decimal `json:"price,omitempty"`
}

// Data is what extraction could read off a receipt. Every field may be missing.
type Data struct {
	Merchant string           `json:"merchant,omitempty"`
	Amount   *decimal.Decimal `json:"amount,omitempty"`
	Currency string           `json:"currency,omitempty"`
	Date     string           `json:"date,omitempty"`
	Category string           `json:"category,omitempty"`
	Items    []Item           `json:"items,omitempty"`
}

// Store keeps receipt files in object storage.
type Store interface {
	Put(ctx context.Context, object, contentType string, body io.Reader) (url string, err error)
	Open(ctx context.Context, object string) (io.ReadCloser, error)
}

// IsImage reports whether contentType can go through extraction.
func IsImage(contentType string) bool {
	return strings.HasPrefix(contentType, "image/")
}
