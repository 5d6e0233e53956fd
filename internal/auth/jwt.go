package auth

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Claims are the JWT claims this service accepts. Tokens are issued by the
// upstream identity layer; this service only verifies them.
type Claims struct {
	TenantID string `json:"tenant_id"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

func (c *Claims) validate() error {
	if c.TenantID == "" {
		return errors.New("auth: token missing tenant_id")
	}
	if _, ok := NormalizeRole(c.Role); !ok {
		return fmt.Errorf("auth: unknown role %q", c.Role)
	}
	return nil
}

// ParseJWT verifies an HS256 token and returns its claims. Registered claims
// (expiry, not-before) are checked by the parser; the service-specific claims
// are checked here.
func ParseJWT(tokenString string, secret []byte) (*Claims, error) {
	if tokenString == "" {
		return nil, errors.New("auth: empty token")
	}
	if len(secret) == 0 {
		return nil, errors.New("auth: empty secret")
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims,
		func(*jwt.Token) (any, error) { return secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		return nil, fmt.Errorf("auth: parse token: %w", err)
	}
	if err := claims.validate(); err != nil {
		return nil, err
	}
	return claims, nil
}
