package models

// Role is the access level of a caller
type Role string

const (
	RoleEnumerator Role = "ENUMERATOR"
	RoleAdmin      Role = "ADMIN"
	RolePublic     Role = "PUBLIC"
)

// Permission names a UI/API capability
type Permission string

const (
	PermSearch         Permission = "search"
	PermSelect         Permission = "select"
	PermViewDetails    Permission = "viewDetails"
	PermSaveSearch     Permission = "saveSearch"
	PermOverride       Permission = "override"
	PermManageSynonyms Permission = "manageSynonyms"
	PermViewAuditLogs  Permission = "viewAuditLogs"
	PermViewDashboard  Permission = "viewDashboard"
	PermManageUsers    Permission = "manageUsers"
)

// AllPermissions is every permission the API knows about
var AllPermissions = []Permission{
	PermSearch,
	PermSelect,
	PermViewDetails,
	PermSaveSearch,
	PermOverride,
	PermManageSynonyms,
	PermViewAuditLogs,
	PermViewDashboard,
	PermManageUsers,
}

var rolePermissions = map[Role][]Permission{
	RolePublic:     {PermSearch, PermViewDetails},
	RoleEnumerator: {PermSearch, PermSelect, PermViewDetails, PermSaveSearch},
}

// ParseRole accepts the roles that can be stored on a user record
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleEnumerator:
		return RoleEnumerator, true
	case RoleAdmin:
		return RoleAdmin, true
	}
	return "", false
}

// Permissions lists what the role may do. ADMIN is unrestricted.
func (r Role) Permissions() []Permission {
	if r == RoleAdmin {
		out := make([]Permission, len(AllPermissions))
		copy(out, AllPermissions)
		return out
	}
	perms := rolePermissions[r]
	out := make([]Permission, len(perms))
	copy(out, perms)
	return out
}

// HasPermission reports whether the role grants p
func (r Role) HasPermission(p Permission) bool {
	if r == RoleAdmin {
		return true
	}
	for _, granted := range rolePermissions[r] {
		if granted == p {
			return true
		}
	}
	return false
}
