package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/outlay/internal/rule"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

const selectRuleColumns = `
	id, tenant_id, name, description, approvers, sequence_type, min_approval_percentage,
	conditions, is_active, priority, created_by, created_at, updated_at
`

func scanRule(s scanner) (*rule.ApprovalRule, error) {
	var (
		r                     rule.ApprovalRule
		approvers, conditions []byte
		sequenceType          string
	)

	if err := s.Scan(
		&r.ID, &r.TenantID, &r.Name, &r.Description, &approvers, &sequenceType, &r.MinApprovalPercentage,
		&conditions, &r.IsActive, &r.Priority, &r.CreatedBy, &r.CreatedAt, &r.UpdatedAt,
	); err != nil {
		return nil, err
	}

	r.SequenceType = rule.SequenceType(sequenceType)

	if err := json.Unmarshal(approvers, &r.Approvers); err != nil {
		return nil, fmt.Errorf("decoding approvers of rule %s: %w", r.ID, err)
	}

	if len(conditions) > 0 {
		if err := json.Unmarshal(conditions, &r.Conditions); err != nil {
			return nil, fmt.Errorf("decoding conditions of rule %s: %w", r.ID, err)
		}
	}

	return &r, nil
}

func encode(r *rule.ApprovalRule) (approvers, conditions []byte, err error) {
	approvers, err = json.Marshal(r.Approvers)
	if err != nil {
		return nil, nil, fmt.Errorf("encoding approvers: %w", err)
	}

	conditions, err = json.Marshal(r.Conditions)
	if err != nil {
		return nil, nil, fmt.Errorf("encoding conditions: %w", err)
	}

	return approvers, conditions, nil
}

func (s *Store) ListRules(ctx context.Context, tenantID uuid.UUID, activeOnly bool) ([]*rule.ApprovalRule, error) {
	query := `SELECT ` + selectRuleColumns + ` FROM approval_rules WHERE tenant_id = $1`
	if activeOnly {
		query += ` AND is_active`
	}

	query += ` ORDER BY priority DESC, created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("listing rules: %w", err)
	}
	defer rows.Close()

	var rules []*rule.ApprovalRule

	for rows.Next() {
		r, err := scanRule(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning rule: %w", err)
		}

		rules = append(rules, r)
	}

	return rules, rows.Err()
}

func (s *Store) GetRule(ctx context.Context, tenantID, id uuid.UUID) (*rule.ApprovalRule, error) {
	query := `SELECT ` + selectRuleColumns + ` FROM approval_rules WHERE id = $1 AND tenant_id = $2`

	r, err := scanRule(s.db.QueryRowContext(ctx, query, id, tenantID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, rule.ErrNotFound
		}

		return nil, fmt.Errorf("getting rule: %w", err)
	}

	return r, nil
}

func (s *Store) CreateRule(ctx context.Context, r *rule.ApprovalRule) error {
	approvers, conditions, err := encode(r)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO approval_rules (tenant_id, name, description, approvers, sequence_type, min_approval_percentage, conditions, is_active, priority, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW())
		RETURNING id, created_at
	`

	err = s.db.QueryRowContext(ctx, query,
		r.TenantID,
		r.Name,
		r.Description,
		approvers,
		r.SequenceType,
		r.MinApprovalPercentage,
		conditions,
		r.IsActive,
		r.Priority,
		r.CreatedBy,
	).Scan(&r.ID, &r.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating rule: %w", err)
	}

	return nil
}

func (s *Store) UpdateRule(ctx context.Context, r *rule.ApprovalRule) error {
	approvers, conditions, err := encode(r)
	if err != nil {
		return err
	}

	query := `
		UPDATE approval_rules
		SET name = $1, description = $2, approvers = $3, sequence_type = $4, min_approval_percentage = $5,
			conditions = $6, is_active = $7, priority = $8, updated_at = NOW()
		WHERE id = $9 AND tenant_id = $10
		RETURNING updated_at
	`

	err = s.db.QueryRowContext(ctx, query,
		r.Name,
		r.Description,
		approvers,
		r.SequenceType,
		r.MinApprovalPercentage,
		conditions,
		r.IsActive,
		r.Priority,
		r.ID,
		r.TenantID,
	).Scan(&r.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return rule.ErrNotFound
		}

		return fmt.Errorf("updating rule: %w", err)
	}

	return nil
}

func (s *Store) DeleteRule(ctx context.Context, tenantID, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM approval_rules WHERE id = $1 AND tenant_id = $2`, id, tenantID)
	if err != nil {
		return fmt.Errorf("deleting rule: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting rule: %w", err)
	}

	if n == 0 {
		return rule.ErrNotFound
	}

	return nil
}
