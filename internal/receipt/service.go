package receipt

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/outlay/internal/apperr"
	"github.com/MrJamesThe3rd/outlay/internal/category"
)

var ErrExtractionDisabled = errors.New("receipt extraction is not configured")

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=receipt
type Extraction interface {
	Extract(ctx context.Context, image []byte, contentType string) (*Data, error)
}

// Suggester looks up the category learned for a merchant.
type Suggester interface {
	Suggest(ctx context.Context, tenantID uuid.UUID, merchant string) (category.Category, error)
}

// Parser runs extraction and normalizes its answer for the tenant.
type Parser struct {
	extractor Extraction
	suggester Suggester
}

// NewParser accepts a nil extractor, in which case every Parse fails with ErrExtractionDisabled.
func NewParser(extractor Extraction, suggester Suggester) *Parser {
	return &Parser{extractor: extractor, suggester: suggester}
}

func (p *Parser) Enabled() bool {
	return p != nil && p.extractor != nil
}

func (p *Parser) Parse(ctx context.Context, tenantID uuid.UUID, image []byte, contentType string) (*Data, error) {
	if !p.Enabled() {
		return nil, apperr.Upstream("receipt extraction", ErrExtractionDisabled)
	}

	if !IsImage(contentType) {
		return nil, apperr.Invalid("receipt", "only image files can be parsed")
	}

	data, err := p.extractor.Extract(ctx, image, contentType)
	if err != nil {
		return nil, apperr.Upstream("receipt extraction", err)
	}

	data.Currency = strings.ToUpper(strings.TrimSpace(data.Currency))
	data.Category = string(p.categorize(ctx, tenantID, data))

	return data, nil
}

// categorize keeps a recognised category, otherwise asks the tenant's merchant memory
// and falls back to Other.
func (p *Parser) categorize(ctx context.Context, tenantID uuid.UUID, data *Data) category.Category {
	if c, ok := category.Parse(data.Category); ok {
		return c
	}

	if p.suggester != nil && data.Merchant != "" {
		c, err := p.suggester.Suggest(ctx, tenantID, data.Merchant)
		if err != nil {
			slog.Warn("category suggestion failed", "tenant_id", tenantID, "merchant", data.Merchant, "error", err)
		} else if c.Valid() {
			return c
		}
	}

	return category.Other
}
