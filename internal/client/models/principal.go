package models

// Role is the backend role of a console user.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "superadmin"
)

// ConsoleRoles are the roles allowed to sign in to the console at all.
var ConsoleRoles = []Role{RoleAdmin, RoleSuperAdmin}

// Recognized reports whether r is one of the console roles.
func (r Role) Recognized() bool {
	return r == RoleAdmin || r == RoleSuperAdmin
}

// In reports whether r is a member of roles.
func (r Role) In(roles []Role) bool {
	for _, x := range roles {
		if x == r {
			return true
		}
	}
	return false
}

// Principal is the authenticated user held for the duration of a console
// session.
type Principal struct {
	ID     ID     `json:"id,omitempty"`
	Name   string `json:"name,omitempty"`
	Mobile string `json:"mobile,omitempty"`
	Email  string `json:"email,omitempty"`
	Role   Role   `json:"role"`

	// IsActive is optional on the wire. Only an explicit false disables
	// the account; a missing field does not.
	IsActive *bool `json:"isActive,omitempty"`
}

// Inactive reports whether the account is explicitly disabled.
func (p *Principal) Inactive() bool {
	return p.IsActive != nil && !*p.IsActive
}

// DisplayName is what the prompt and settings screens show.
func (p *Principal) DisplayName() string {
	switch {
	case p.Name != "":
		return p.Name
	case p.Mobile != "":
		return p.Mobile
	default:
		return string(p.Role)
	}
}

// Bool returns a pointer to v, for building principals in code.
func Bool(v bool) *bool {
	return &v
}
