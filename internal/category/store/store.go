package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/outlay/internal/category"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) FindMatch(ctx context.Context, tenantID uuid.UUID, merchant string) (category.Category, error) {
	query := `
		SELECT category
		FROM category_mappings
		WHERE tenant_id = $1 AND $2 ILIKE '%' || merchant_pattern || '%'
		ORDER BY LENGTH(merchant_pattern) DESC, created_at DESC
		LIMIT 1
	`

	var c string

	err := s.db.QueryRowContext(ctx, query, tenantID, merchant).Scan(&c)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}

		return "", fmt.Errorf("finding category match: %w", err)
	}

	return category.Category(c), nil
}

func (s *Store) CreateMapping(ctx context.Context, m *category.Mapping) error {
	query := `
		INSERT INTO category_mappings (tenant_id, merchant_pattern, category, created_at)
		VALUES ($1, $2, $3, NOW())
		RETURNING id, created_at
	`

	err := s.db.QueryRowContext(ctx, query, m.TenantID, m.MerchantPattern, m.Category).Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating category mapping: %w", err)
	}

	return nil
}

func (s *Store) ListMappings(ctx context.Context, tenantID uuid.UUID) ([]*category.Mapping, error) {
	query := `
		SELECT id, tenant_id, merchant_pattern, category, created_at
		FROM category_mappings
		WHERE tenant_id = $1
		ORDER BY merchant_pattern ASC
	`

	rows, err := s.db.QueryContext(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("listing category mappings: %w", err)
	}
	defer rows.Close()

	var out []*category.Mapping

	for rows.Next() {
		var (
			m category.Mapping
			c string
		)

		if err := rows.Scan(&m.ID, &m.TenantID, &m.MerchantPattern, &c, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning category mapping: %w", err)
		}

		m.Category = category.Category(c)
		out = append(out, &m)
	}

	return out, rows.Err()
}
