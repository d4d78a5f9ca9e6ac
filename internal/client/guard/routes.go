package guard

import (
	"errors"
	"strings"

	"github.com/dmitrijs2005/vendorconsole/internal/client/models"
)

const (
	LoginPath          = "/login"
	AdminHomePath      = "/admin/dashboard"
	SuperAdminHomePath = "/superadmin/dashboard"
)

// ErrRouteNotFound is returned for paths outside the route table.
var ErrRouteNotFound = errors.New("page not found")

// Screen names what the console renders for a route.
type Screen string

const (
	ScreenLogin                  Screen = "login"
	ScreenAdminDashboard         Screen = "admin-dashboard"
	ScreenVendorList             Screen = "vendor-list"
	ScreenAdminSubscription      Screen = "admin-subscription"
	ScreenAdminSettings          Screen = "admin-settings"
	ScreenSuperDashboard         Screen = "superadmin-dashboard"
	ScreenVendorManagement       Screen = "vendor-management"
	ScreenSubscriptionManagement Screen = "subscription-management"
	ScreenCustomerManagement     Screen = "customer-management"
	ScreenReportAnalytics        Screen = "report-and-analytics"
	ScreenSuperSettings          Screen = "superadmin-settings"
)

// Route is one entry of the console's route table.
type Route struct {
	Path   string
	Screen Screen
	// Roles guards the route; nil together with Public means open.
	Roles  []models.Role
	Public bool
	// RedirectTo makes the route an alias.
	RedirectTo string
}

var (
	adminOnly      = []models.Role{models.RoleAdmin}
	superAdminOnly = []models.Role{models.RoleSuperAdmin}
)

// Routes is the console's route table.
var Routes = []Route{
	{Path: "/", RedirectTo: LoginPath, Public: true},
	{Path: LoginPath, Screen: ScreenLogin, Public: true},
	{Path: "/admin/login", RedirectTo: LoginPath, Public: true},

	{Path: "/admin", RedirectTo: AdminHomePath, Roles: adminOnly},
	{Path: AdminHomePath, Screen: ScreenAdminDashboard, Roles: adminOnly},
	{Path: "/admin/vendor-list", Screen: ScreenVendorList, Roles: adminOnly},
	{Path: "/admin/subscription", Screen: ScreenAdminSubscription, Roles: adminOnly},
	{Path: "/admin/settings", Screen: ScreenAdminSettings, Roles: adminOnly},

	{Path: "/superadmin", RedirectTo: SuperAdminHomePath, Roles: superAdminOnly},
	{Path: SuperAdminHomePath, Screen: ScreenSuperDashboard, Roles: superAdminOnly},
	{Path: "/superadmin/vendor-management", Screen: ScreenVendorManagement, Roles: superAdminOnly},
	{Path: "/superadmin/subscription-management", Screen: ScreenSubscriptionManagement, Roles: superAdminOnly},
	{Path: "/superadmin/customer-management", Screen: ScreenCustomerManagement, Roles: superAdminOnly},
	{Path: "/superadmin/report-and-analytics", Screen: ScreenReportAnalytics, Roles: superAdminOnly},
	{Path: "/superadmin/settings", Screen: ScreenSuperSettings, Roles: superAdminOnly},
}

// Home is the landing route of a role; unrecognized roles land on login.
func Home(role models.Role) string {
	switch role {
	case models.RoleSuperAdmin:
		return SuperAdminHomePath
	case models.RoleAdmin:
		return AdminHomePath
	default:
		return LoginPath
	}
}

// Lookup finds the route for path. Trailing slashes are ignored.
func Lookup(path string) (Route, error) {
	path = normalize(path)
	for _, r := range Routes {
		if r.Path == path {
			return r, nil
		}
	}
	return Route{}, ErrRouteNotFound
}

// SectionPaths lists the renderable routes a role may visit, in table order.
func SectionPaths(role models.Role) []string {
	var out []string
	for _, r := range Routes {
		if r.Public || r.RedirectTo != "" {
			continue
		}
		if role.In(r.Roles) {
			out = append(out, r.Path)
		}
	}
	return out
}

func normalize(path string) string {
	path = strings.TrimSpace(path)
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
	}
	return path
}
