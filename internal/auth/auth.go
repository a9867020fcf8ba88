// Package auth issues and verifies the bearer tokens of the API.
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/outlay/internal/apperr"
	"github.com/MrJamesThe3rd/outlay/internal/identity"
)

var ErrInvalidToken = fmt.Errorf("invalid or expired token: %w", apperr.ErrUnauthenticated)

// Claims identify a user inside a tenant. The subject is the user ID.
type Claims struct {
	TenantID uuid.UUID     `json:"tenant_id"`
	Role     identity.Role `json:"role"`
	jwt.RegisteredClaims
}

// UserID parses the subject claim.
func (c *Claims) UserID() (uuid.UUID, error) {
	id, err := uuid.Parse(c.Subject)
	if err != nil {
		return uuid.Nil, ErrInvalidToken
	}

	return id, nil
}

type Issuer struct {
	secret []byte
	expire time.Duration
	issuer string
	now    func() time.Time
}

func NewIssuer(secret string, expire time.Duration, issuer string) *Issuer {
	return &Issuer{
		secret: []byte(secret),
		expire: expire,
		issuer: issuer,
		now:    time.Now,
	}
}

// Issue signs an HS256 token for u.
func (i *Issuer) Issue(u *identity.User) (string, error) {
	now := i.now()

	claims := Claims{
		TenantID: u.TenantID,
		Role:     u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID.String(),
			Issuer:    i.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.expire)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}

	return signed, nil
}

// Parse verifies the signature and expiry of token.
func (i *Issuer) Parse(token string) (*Claims, error) {
	var claims Claims

	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(i.issuer),
		jwt.WithTimeFunc(i.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	return &claims, nil
}
