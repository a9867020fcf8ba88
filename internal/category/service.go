package category

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/outlay/internal/apperr"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=category
type Repository interface {
	FindMatch(ctx context.Context, tenantID uuid.UUID, merchant string) (Category, error)
	CreateMapping(ctx context.Context, mapping *Mapping) error
	ListMappings(ctx context.Context, tenantID uuid.UUID) ([]*Mapping, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Suggest returns the category learned for the longest pattern contained in merchant.
// Returns empty string if no match found.
func (s *Service) Suggest(ctx context.Context, tenantID uuid.UUID, merchant string) (Category, error) {
	merchant = strings.TrimSpace(merchant)
	if merchant == "" {
		return "", nil
	}

	return s.repo.FindMatch(ctx, tenantID, merchant)
}

// Learn remembers that merchants containing pattern belong to c.
func (s *Service) Learn(ctx context.Context, tenantID uuid.UUID, pattern string, c Category) (*Mapping, error) {
	pattern = strings.TrimSpace(pattern)
	if pattern == "" {
		return nil, apperr.Invalid("merchant_pattern", "is required")
	}

	if !c.Valid() {
		return nil, apperr.Invalid("category", "must be one of the known categories")
	}

	m := &Mapping{TenantID: tenantID, MerchantPattern: pattern, Category: c}
	if err := s.repo.CreateMapping(ctx, m); err != nil {
		return nil, err
	}

	return m, nil
}

func (s *Service) Mappings(ctx context.Context, tenantID uuid.UUID) ([]*Mapping, error) {
	return s.repo.ListMappings(ctx, tenantID)
}
