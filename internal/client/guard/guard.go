// Package guard decides whether the current Principal may enter a console
// section and where to send it otherwise.
package guard

import (
	"fmt"

	"github.com/dmitrijs2005/vendorconsole/internal/client/models"
)

// PrincipalStore is the part of the session store the guard needs.
type PrincipalStore interface {
	Get() (*models.Principal, bool)
	Clear()
}

// Outcome is the kind of a guard decision.
type Outcome int

const (
	Allow Outcome = iota
	RedirectToLogin
	RedirectToRoleHome
)

func (o Outcome) String() string {
	switch o {
	case Allow:
		return "allow"
	case RedirectToLogin:
		return "redirect-to-login"
	case RedirectToRoleHome:
		return "redirect-to-role-home"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Decision is the result of Authorize.
type Decision struct {
	Outcome Outcome
	// Role is set for RedirectToRoleHome.
	Role models.Role
	// Cleared reports that the session store was cleared as a side effect.
	Cleared bool
}

// Target is the path the console should go to for a redirect decision.
// It is empty for Allow.
func (d Decision) Target() string {
	switch d.Outcome {
	case RedirectToLogin:
		return LoginPath
	case RedirectToRoleHome:
		return Home(d.Role)
	default:
		return ""
	}
}

// Authorize gates a section that requires one of required.
//
// Checks run in a fixed order: presence, then role membership, then the
// active flag. Because membership is checked first, an inactive admin who
// asks for a superadmin section is sent to the admin home rather than
// logged out; the admin home then logs them out on the next check.
// An empty required set means any console role.
func Authorize(required []models.Role, store PrincipalStore) Decision {
	p, ok := store.Get()
	if !ok {
		return Decision{Outcome: RedirectToLogin}
	}

	if len(required) == 0 {
		required = models.ConsoleRoles
	}

	if !p.Role.In(required) {
		switch p.Role {
		case models.RoleSuperAdmin, models.RoleAdmin:
			return Decision{Outcome: RedirectToRoleHome, Role: p.Role}
		default:
			store.Clear()
			return Decision{Outcome: RedirectToLogin, Cleared: true}
		}
	}

	if p.Inactive() {
		store.Clear()
		return Decision{Outcome: RedirectToLogin, Cleared: true}
	}

	return Decision{Outcome: Allow}
}
