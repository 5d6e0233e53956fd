package auth

import "strings"

// Role is the dashboard access level carried in a token's role claim.
type Role string

// The API is read-mostly: viewer covers every dashboard read and export,
// operator adds cache invalidation, admin exists for parity with the issuing
// identity layer.
const (
	RoleViewer   Role = "viewer"
	RoleOperator Role = "operator"
	RoleAdmin    Role = "admin"
)

var roleRanks = map[Role]int{
	RoleViewer:   1,
	RoleOperator: 2,
	RoleAdmin:    3,
}

// NormalizeRole maps a token's role claim onto a known Role. Claims are
// matched case-insensitively; the identity layer is not consistent about
// casing.
func NormalizeRole(value string) (Role, bool) {
	role := Role(strings.ToLower(strings.TrimSpace(value)))
	if _, ok := roleRanks[role]; !ok {
		return "", false
	}
	return role, true
}

// RoleAtLeast reports whether role grants at least the required level.
// Unknown roles rank below every known one.
func RoleAtLeast(role, required Role) bool {
	return roleRanks[role] >= roleRanks[required]
}
