package identity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Role controls what a user may do inside their tenant.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleManager  Role = "manager"
	RoleEmployee Role = "employee"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleEmployee:
		return true
	}

	return false
}

// Settings are the tenant-wide expense policies.
type Settings struct {
	AllowMultiCurrency bool
	RequireReceipt     bool
	MaxExpenseAmount   decimal.Decimal
	AutoApprovalLimit  decimal.Decimal
}

func DefaultSettings() Settings {
	return Settings{
		AllowMultiCurrency: true,
		MaxExpenseAmount:   decimal.NewFromInt(10000),
		AutoApprovalLimit:  decimal.NewFromInt(100),
	}
}

// Tenant is a company. Every user, rule and expense belongs to exactly one tenant.
type Tenant struct {
	ID           uuid.UUID
	Name         string
	BaseCurrency string
	Settings     Settings
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    *time.Time
}

type User struct {
	ID                uuid.UUID
	TenantID          uuid.UUID
	Name              string
	Email             string
	PasswordHash      string
	Role              Role
	ManagerID         *uuid.UUID
	Department        string
	IsActive          bool
	InvitationToken   *string
	InvitationExpires *time.Time
	LastLogin         *time.Time
	CreatedAt         time.Time
	UpdatedAt         *time.Time
}

// CanApprove reports whether the user may be listed as an approver.
func (u *User) CanApprove() bool {
	return u.IsActive && (u.Role == RoleAdmin || u.Role == RoleManager)
}

// HasAdministrativeOverride reports whether u may force decisions inside tenantID.
func (u *User) HasAdministrativeOverride(tenantID uuid.UUID) bool {
	return u.IsActive && u.Role == RoleAdmin && u.TenantID == tenantID
}
