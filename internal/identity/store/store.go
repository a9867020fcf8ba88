package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/outlay/internal/identity"
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

const selectUserColumns = `
	id, tenant_id, name, email, password_hash, role, manager_id, department, is_active,
	invitation_token, invitation_expires, last_login, created_at, updated_at
`

// scanUser expects the column order of selectUserColumns.
func scanUser(s scanner) (*identity.User, error) {
	var (
		u    identity.User
		hash sql.NullString
		role string
	)

	if err := s.Scan(
		&u.ID, &u.TenantID, &u.Name, &u.Email, &hash, &role, &u.ManagerID, &u.Department, &u.IsActive,
		&u.InvitationToken, &u.InvitationExpires, &u.LastLogin, &u.CreatedAt, &u.UpdatedAt,
	); err != nil {
		return nil, err
	}

	u.PasswordHash = hash.String
	u.Role = identity.Role(role)

	return &u, nil
}

const selectTenantColumns = `
	id, name, base_currency, allow_multi_currency, require_receipt, max_expense_amount,
	auto_approval_limit, is_active, created_at, updated_at
`

func scanTenant(s scanner) (*identity.Tenant, error) {
	var t identity.Tenant

	if err := s.Scan(
		&t.ID, &t.Name, &t.BaseCurrency, &t.Settings.AllowMultiCurrency, &t.Settings.RequireReceipt,
		&t.Settings.MaxExpenseAmount, &t.Settings.AutoApprovalLimit, &t.IsActive, &t.CreatedAt, &t.UpdatedAt,
	); err != nil {
		return nil, err
	}

	return &t, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func (s *Store) CreateTenantWithAdmin(ctx context.Context, tenant *identity.Tenant, admin *identity.User) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	err = tx.QueryRowContext(ctx, `
		INSERT INTO tenants (name, base_currency, allow_multi_currency, require_receipt, max_expense_amount, auto_approval_limit, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		RETURNING id, created_at
	`,
		tenant.Name,
		tenant.BaseCurrency,
		tenant.Settings.AllowMultiCurrency,
		tenant.Settings.RequireReceipt,
		tenant.Settings.MaxExpenseAmount,
		tenant.Settings.AutoApprovalLimit,
		tenant.IsActive,
	).Scan(&tenant.ID, &tenant.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating tenant: %w", err)
	}

	admin.TenantID = tenant.ID

	if err := insertUser(ctx, tx, admin); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing signup: %w", err)
	}

	return nil
}

func (s *Store) GetTenant(ctx context.Context, id uuid.UUID) (*identity.Tenant, error) {
	query := `SELECT ` + selectTenantColumns + ` FROM tenants WHERE id = $1`

	t, err := scanTenant(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, identity.ErrTenantNotFound
		}

		return nil, fmt.Errorf("getting tenant: %w", err)
	}

	return t, nil
}

func (s *Store) CreateUser(ctx context.Context, u *identity.User) error {
	return insertUser(ctx, s.db, u)
}

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func insertUser(ctx context.Context, q queryRower, u *identity.User) error {
	query := `
		INSERT INTO users (tenant_id, name, email, password_hash, role, manager_id, department, is_active, invitation_token, invitation_expires, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW())
		RETURNING id, created_at
	`

	err := q.QueryRowContext(ctx, query,
		u.TenantID,
		u.Name,
		u.Email,
		nullString(u.PasswordHash),
		u.Role,
		u.ManagerID,
		u.Department,
		u.IsActive,
		u.InvitationToken,
		u.InvitationExpires,
	).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating user: %w", err)
	}

	return nil
}

func (s *Store) getUserBy(ctx context.Context, where string, arg any) (*identity.User, error) {
	query := `SELECT ` + selectUserColumns + ` FROM users WHERE ` + where

	u, err := scanUser(s.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, identity.ErrUserNotFound
		}

		return nil, fmt.Errorf("getting user: %w", err)
	}

	return u, nil
}

func (s *Store) GetUser(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	return s.getUserBy(ctx, "id = $1", id)
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*identity.User, error) {
	return s.getUserBy(ctx, "email = $1", email)
}

func (s *Store) GetUserByInvitation(ctx context.Context, token string) (*identity.User, error) {
	return s.getUserBy(ctx, "invitation_token = $1", token)
}

func (s *Store) UsersByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]*identity.User, error) {
	query := `SELECT ` + selectUserColumns + ` FROM users WHERE tenant_id = $1 AND id = ANY($2::uuid[])`

	strs := make([]string, len(ids))
	for i, id := range ids {
		strs[i] = id.String()
	}

	return s.listUsers(ctx, query, tenantID, "{"+strings.Join(strs, ",")+"}")
}

func (s *Store) ListUsers(ctx context.Context, filter identity.UserFilter) ([]*identity.User, error) {
	query := `SELECT ` + selectUserColumns + ` FROM users WHERE tenant_id = $1`

	args := []any{filter.TenantID}
	argIdx := 2

	if filter.Role != nil {
		query += fmt.Sprintf(" AND role = $%d", argIdx)

		args = append(args, *filter.Role)
		argIdx++
	}

	if filter.Department != nil {
		query += fmt.Sprintf(" AND department = $%d", argIdx)

		args = append(args, *filter.Department)
		argIdx++
	}

	if filter.ManagerID != nil {
		query += fmt.Sprintf(" AND manager_id = $%d", argIdx)

		args = append(args, *filter.ManagerID)
		argIdx++
	}

	if filter.Search != "" {
		query += fmt.Sprintf(" AND (name ILIKE $%d OR email ILIKE $%d)", argIdx, argIdx)

		args = append(args, "%"+filter.Search+"%")
	}

	query += " ORDER BY name ASC"

	return s.listUsers(ctx, query, args...)
}

func (s *Store) listUsers(ctx context.Context, query string, args ...any) ([]*identity.User, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	defer rows.Close()

	var users []*identity.User

	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning user: %w", err)
		}

		users = append(users, u)
	}

	return users, rows.Err()
}

func (s *Store) UpdateUser(ctx context.Context, u *identity.User) error {
	query := `
		UPDATE users
		SET name = $1, role = $2, manager_id = $3, department = $4, is_active = $5,
			password_hash = $6, invitation_token = $7, invitation_expires = $8, updated_at = NOW()
		WHERE id = $9 AND tenant_id = $10
	`

	res, err := s.db.ExecContext(ctx, query,
		u.Name,
		u.Role,
		u.ManagerID,
		u.Department,
		u.IsActive,
		nullString(u.PasswordHash),
		u.InvitationToken,
		u.InvitationExpires,
		u.ID,
		u.TenantID,
	)
	if err != nil {
		return fmt.Errorf("updating user: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating user: %w", err)
	}

	if n == 0 {
		return identity.ErrUserNotFound
	}

	return nil
}

func (s *Store) TouchLogin(ctx context.Context, id uuid.UUID) error {
	if _, err := s.db.ExecContext(ctx, `UPDATE users SET last_login = NOW() WHERE id = $1`, id); err != nil {
		return fmt.Errorf("recording login: %w", err)
	}

	return nil
}
