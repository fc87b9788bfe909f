package models

// Identity is the caller resolved from a session token
type Identity struct {
	Phone string `json:"phone"`
	Role  Role   `json:"role"`
	Name  string `json:"name"`
}

// PublicIdentity is used for requests that carry no token
func PublicIdentity() *Identity {
	return &Identity{Role: RolePublic, Name: "Public User"}
}

// IsPublic reports whether the identity is unauthenticated
func (i *Identity) IsPublic() bool {
	return i == nil || i.Role == RolePublic
}

// Actor is the name written to audit entries
func (i *Identity) Actor() string {
	if i.IsPublic() {
		return "Public User"
	}
	return i.Name
}
