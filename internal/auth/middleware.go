package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/outlay/internal/apperr"
	"github.com/MrJamesThe3rd/outlay/internal/http/respond"
	"github.com/MrJamesThe3rd/outlay/internal/identity"
)

var (
	ErrMissingToken = fmt.Errorf("missing bearer token: %w", apperr.ErrUnauthenticated)
	ErrInactiveUser = fmt.Errorf("user is inactive: %w", apperr.ErrUnauthenticated)
	ErrRole         = fmt.Errorf("insufficient role: %w", apperr.ErrForbidden)
)

type UserFinder interface {
	FindUser(ctx context.Context, id uuid.UUID) (*identity.User, error)
}

type ctxKey struct{}

func WithUser(ctx context.Context, u *identity.User) context.Context {
	return context.WithValue(ctx, ctxKey{}, u)
}

// UserFrom returns the authenticated user. Handlers behind Middleware can rely on it.
func UserFrom(ctx context.Context) *identity.User {
	u, _ := ctx.Value(ctxKey{}).(*identity.User)
	return u
}

// Middleware authenticates the bearer token and loads the current user state, so role
// changes and deactivation apply before the token expires.
func Middleware(issuer *Issuer, users UserFinder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, err := authenticate(r, issuer, users)
			if err != nil {
				respond.Error(w, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), u)))
		})
	}
}

func authenticate(r *http.Request, issuer *Issuer, users UserFinder) (*identity.User, error) {
	header := r.Header.Get("Authorization")

	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || strings.TrimSpace(token) == "" {
		return nil, ErrMissingToken
	}

	claims, err := issuer.Parse(strings.TrimSpace(token))
	if err != nil {
		return nil, err
	}

	id, err := claims.UserID()
	if err != nil {
		return nil, err
	}

	u, err := users.FindUser(r.Context(), id)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, ErrInvalidToken
		}

		return nil, err
	}

	if !u.IsActive {
		return nil, ErrInactiveUser
	}

	if u.TenantID != claims.TenantID {
		return nil, ErrInvalidToken
	}

	return u, nil
}

// RequireRole lets through users holding one of roles.
func RequireRole(roles ...identity.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u := UserFrom(r.Context())
			if u == nil {
				respond.Error(w, ErrMissingToken)
				return
			}

			if !slices.Contains(roles, u.Role) {
				respond.Error(w, ErrRole)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
