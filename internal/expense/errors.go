package expense

import (
	"fmt"

	"github.com/MrJamesThe3rd/outlay/internal/apperr"
)

var (
	ErrNotFound = fmt.Errorf("expense not found: %w", apperr.ErrNotFound)
	// ErrNotPending deliberately reads the same whether the expense is missing,
	// belongs to another tenant or was already decided.
	ErrNotPending    = fmt.Errorf("expense not found or not pending approval: %w", apperr.ErrNotFound)
	ErrConflict      = fmt.Errorf("expense was modified concurrently: %w", apperr.ErrConflict)
	ErrAdminOnly     = fmt.Errorf("only admins can view all company expenses: %w", apperr.ErrForbidden)
	ErrApproversOnly = fmt.Errorf("only managers and admins can view team expenses: %w", apperr.ErrForbidden)

	ErrCommentsRequired = apperr.Invalid("comments", "rejection comments are required")
)
