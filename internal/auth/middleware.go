package auth

import (
	"errors"
	"net/http"
	"strings"
)

// Middleware authenticates dashboard API requests. Requests the policy maps
// to no role requirement (health, metrics, anything outside /api/) pass
// through without token parsing.
type Middleware struct {
	secret []byte
	policy Policy
}

// NewMiddleware constructs the auth middleware.
func NewMiddleware(secret []byte, policy Policy) *Middleware {
	return &Middleware{secret: secret, policy: policy}
}

// Wrap applies authentication and role checks to next.
func (m *Middleware) Wrap(next http.Handler) http.Handler {
	if m == nil || len(m.secret) == 0 {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		required, ok := m.requirement(r)
		if !ok {
			next.ServeHTTP(w, r)
			return
		}

		claims, err := m.authenticate(r)
		if err != nil {
			http.Error(w, "missing or invalid bearer token", http.StatusUnauthorized)
			return
		}
		role, _ := NormalizeRole(claims.Role)
		if !RoleAtLeast(role, required) {
			http.Error(w, "insufficient role", http.StatusForbidden)
			return
		}

		ctx := WithIdentity(r.Context(), claims.TenantID, role, claims.Subject)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *Middleware) requirement(r *http.Request) (Role, bool) {
	if m.policy.IsExempt(r) {
		return "", false
	}
	return m.policy.RequiredRole(r)
}

func (m *Middleware) authenticate(r *http.Request) (*Claims, error) {
	token, err := bearerToken(r)
	if err != nil {
		return nil, err
	}
	return ParseJWT(token, m.secret)
}

func bearerToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", errors.New("auth: missing authorization header")
	}
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", errors.New("auth: authorization header is not a bearer token")
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", errors.New("auth: empty bearer token")
	}
	return token, nil
}
