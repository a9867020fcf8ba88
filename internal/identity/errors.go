package identity

import (
	"fmt"

	"github.com/MrJamesThe3rd/outlay/internal/apperr"
)

var (
	ErrUserNotFound       = fmt.Errorf("user not found: %w", apperr.ErrNotFound)
	ErrTenantNotFound     = fmt.Errorf("company not found: %w", apperr.ErrNotFound)
	ErrInvalidCredentials = fmt.Errorf("invalid credentials: %w", apperr.ErrUnauthenticated)
	ErrAdminOnly          = fmt.Errorf("only admins can manage users: %w", apperr.ErrForbidden)
	ErrInvalidInvitation  = apperr.Invalid("token", "invalid or expired invitation token")
)
