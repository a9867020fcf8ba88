package rule

import (
	"fmt"

	"github.com/MrJamesThe3rd/outlay/internal/apperr"
)

var (
	ErrNotFound  = fmt.Errorf("approval rule not found: %w", apperr.ErrNotFound)
	ErrAdminOnly = fmt.Errorf("only admins can manage approval rules: %w", apperr.ErrForbidden)
)
