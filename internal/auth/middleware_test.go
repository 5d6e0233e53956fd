package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var testSecret = []byte("test-secret")

func mustToken(t *testing.T, tenantID, role string) string {
	t.Helper()
	claims := Claims{
		TenantID: tenantID,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testSecret)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func newAuthedServer() http.Handler {
	policy := NewDefaultPolicy([]string{"/healthz", "/metrics"}, nil)
	m := NewMiddleware(testSecret, policy)
	return m.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
}

func TestMiddleware_NoTokenIsUnauthorized(t *testing.T) {
	handler := newAuthedServer()

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/dashboard/series?site=A", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestMiddleware_ExemptPathSkipsAuth(t *testing.T) {
	handler := newAuthedServer()

	for _, path := range []string{"/healthz", "/metrics"} {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: expected 200 without token, got %d", path, rec.Code)
		}
	}
}

func TestMiddleware_ViewerCanRead(t *testing.T) {
	handler := newAuthedServer()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard/series?site=A", nil)
	req.Header.Set("Authorization", "Bearer "+mustToken(t, "tenant-1", "viewer"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestMiddleware_ViewerCannotInvalidate(t *testing.T) {
	handler := newAuthedServer()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/dashboard/invalidate", nil)
	req.Header.Set("Authorization", "Bearer "+mustToken(t, "tenant-1", "viewer"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestMiddleware_OperatorCanInvalidate(t *testing.T) {
	handler := newAuthedServer()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/dashboard/invalidate", nil)
	req.Header.Set("Authorization", "Bearer "+mustToken(t, "tenant-1", "operator"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestMiddleware_MalformedAuthorizationHeader(t *testing.T) {
	handler := newAuthedServer()

	headers := []string{
		"Basic dXNlcjpwYXNz",
		"Bearer",
		"Bearer ",
		mustToken(t, "tenant-1", "viewer"),
	}
	for _, header := range headers {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard/series?site=A", nil)
		req.Header.Set("Authorization", header)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("header %q: expected 401, got %d", header, rec.Code)
		}
	}
}

func TestMiddleware_RoleClaimCaseInsensitive(t *testing.T) {
	handler := newAuthedServer()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/dashboard/invalidate", nil)
	req.Header.Set("Authorization", "Bearer "+mustToken(t, "tenant-1", "Operator"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected mixed-case role claim to pass, got %d", rec.Code)
	}
}

func TestMiddleware_ExpiredTokenIsUnauthorized(t *testing.T) {
	handler := newAuthedServer()

	claims := Claims{
		TenantID: "tenant-1",
		Role:     "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testSecret)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard/series?site=A", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for expired token, got %d", rec.Code)
	}
}

func TestMiddleware_BadSignatureIsUnauthorized(t *testing.T) {
	handler := newAuthedServer()

	claims := Claims{TenantID: "tenant-1", Role: "admin"}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("wrong-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard/series?site=A", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestParseJWT_Validation(t *testing.T) {
	if _, err := ParseJWT("", testSecret); err == nil {
		t.Fatal("expected error for empty token")
	}
	if _, err := ParseJWT(mustToken(t, "tenant-1", "viewer"), nil); err == nil {
		t.Fatal("expected error for empty secret")
	}
	if _, err := ParseJWT(mustToken(t, "", "viewer"), testSecret); err == nil {
		t.Fatal("expected error for missing tenant")
	}
	if _, err := ParseJWT(mustToken(t, "tenant-1", "superuser"), testSecret); err == nil {
		t.Fatal("expected error for unknown role")
	}

	claims, err := ParseJWT(mustToken(t, "tenant-1", "viewer"), testSecret)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.TenantID != "tenant-1" || claims.Role != "viewer" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestNormalizeRole(t *testing.T) {
	cases := []struct {
		in   string
		want Role
		ok   bool
	}{
		{"viewer", RoleViewer, true},
		{"Viewer", RoleViewer, true},
		{" operator ", RoleOperator, true},
		{"ADMIN", RoleAdmin, true},
		{"superuser", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, ok := NormalizeRole(tc.in)
		if ok != tc.ok || got != tc.want {
			t.Fatalf("NormalizeRole(%q): expected %q %v, got %q %v", tc.in, tc.want, tc.ok, got, ok)
		}
	}
}

func TestRoleAtLeast(t *testing.T) {
	cases := []struct {
		have, need Role
		want       bool
	}{
		{RoleViewer, RoleViewer, true},
		{RoleViewer, RoleOperator, false},
		{RoleOperator, RoleViewer, true},
		{RoleAdmin, RoleOperator, true},
	}
	for _, tc := range cases {
		if got := RoleAtLeast(tc.have, tc.need); got != tc.want {
			t.Fatalf("RoleAtLeast(%s, %s): expected %v, got %v", tc.have, tc.need, got, tc.want)
		}
	}
}

func TestPolicy_RequiredRole(t *testing.T) {
	policy := NewDefaultPolicy(nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/dashboard/invalidate", nil)
	if role, ok := policy.RequiredRole(req); !ok || role != RoleOperator {
		t.Fatalf("invalidate: expected operator, got %s %v", role, ok)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/exports/series.csv", nil)
	if role, ok := policy.RequiredRole(req); !ok || role != RoleViewer {
		t.Fatalf("exports: expected viewer, got %s %v", role, ok)
	}

	req = httptest.NewRequest(http.MethodGet, "/not-api", nil)
	if _, ok := policy.RequiredRole(req); ok {
		t.Fatal("expected no requirement outside /api/")
	}
}
