package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/dmitrijs2005/vendorconsole/internal/client/client"
	"github.com/dmitrijs2005/vendorconsole/internal/client/guard"
	"github.com/dmitrijs2005/vendorconsole/internal/client/models"
	"github.com/dmitrijs2005/vendorconsole/internal/client/services"
	"github.com/dmitrijs2005/vendorconsole/internal/filex"
)

const reportPath = "/superadmin/report-and-analytics"

// ErrWrongScreen is returned by commands used outside their screen.
var ErrWrongScreen = errors.New("command not available on this screen")

// Go opens path through the route guard and renders whatever it resolves
// to. Leaving a screen drops its search filter and vendor selection.
func (a *App) Go(ctx context.Context, path string) error {
	nav, err := guard.Navigate(path, a.sessions)
	if err != nil {
		printlnFn("Error:", err)
		return err
	}
	if d := nav.Decision; d.Outcome != guard.Allow {
		a.log.Info(ctx, "route redirected",
			"path", path, "outcome", d.Outcome.String(), "target", nav.Route.Path, "cleared", d.Cleared)
	}

	if nav.Route.Path != a.route {
		a.search, a.vendor = "", ""
	}
	a.route = nav.Route.Path
	return a.render(ctx, nav.Route)
}

// Refresh renders the current route again, re-checking access.
func (a *App) Refresh(ctx context.Context) error {
	if a.route == "" {
		return a.Go(ctx, "/")
	}
	return a.Go(ctx, a.route)
}

func (a *App) Search(ctx context.Context, query string) error {
	a.search = query
	return a.Refresh(ctx)
}

// SelectVendor picks the vendor whose customers customer management shows.
func (a *App) SelectVendor(ctx context.Context, id string) error {
	if a.route != "/superadmin/customer-management" {
		printlnFn("Open /superadmin/customer-management first")
		return ErrWrongScreen
	}
	a.vendor = id
	a.search = ""
	return a.Refresh(ctx)
}

// Export writes the analytics report to path as CSV.
func (a *App) Export(ctx context.Context, path string) error {
	if a.route != reportPath {
		printlnFn("Open " + reportPath + " first")
		return ErrWrongScreen
	}
	// Re-check access; the session may have changed since the screen opened.
	nav, err := guard.Navigate(reportPath, a.sessions)
	if err != nil || nav.Route.Path != reportPath {
		return a.Go(ctx, reportPath)
	}

	report, err := a.console.Analytics(ctx)
	if err != nil {
		return a.viewFailed(ctx, err)
	}

	abs, err := filex.EnsureParentDir(path)
	if err != nil {
		printlnFn("Error:", err)
		return err
	}
	f, err := os.Create(abs)
	if err != nil {
		printlnFn("Error:", err)
		return err
	}
	defer f.Close()

	if err := services.WriteCSV(f, report); err != nil {
		printlnFn("Error:", err)
		return err
	}
	printlnFn("Report written to " + abs)
	return nil
}

// viewFailed reports a failed screen load. An unauthorized response means
// the session is no longer valid: it is ended and login is shown.
func (a *App) viewFailed(ctx context.Context, err error) error {
	if errors.Is(err, client.ErrUnauthorized) {
		a.log.Info(ctx, "session rejected by the API")
		a.endSession(ctx)
		printlnFn("Session expired, please sign in again")
		_ = a.Go(ctx, guard.LoginPath)
		return err
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	printlnFn("Error:", err)
	return err
}

func (a *App) render(ctx context.Context, r guard.Route) error {
	var err error
	switch r.Screen {
	case guard.ScreenLogin:
		if target, ok := a.flow.Resume(); ok {
			return a.Go(ctx, target)
		}
		printlnFn("Sign in with 'login'")
		return nil
	case guard.ScreenAdminDashboard:
		err = a.renderAdminDashboard(ctx)
	case guard.ScreenVendorList:
		err = a.renderVendorList(ctx, services.FilterVendorDirectory)
	case guard.ScreenVendorManagement:
		err = a.renderVendorList(ctx, services.FilterVendors)
	case guard.ScreenSuperDashboard:
		err = a.renderSuperDashboard(ctx)
	case guard.ScreenAdminSubscription, guard.ScreenSubscriptionManagement:
		err = a.renderSubscriptions(ctx)
	case guard.ScreenCustomerManagement:
		err = a.renderCustomers(ctx)
	case guard.ScreenReportAnalytics:
		err = a.renderAnalytics(ctx)
	case guard.ScreenAdminSettings, guard.ScreenSuperSettings:
		a.renderSettings()
	default:
		printlnFn("Nothing to show for " + r.Path)
	}
	if err != nil {
		return a.viewFailed(ctx, err)
	}
	return nil
}

func (a *App) title(s string) {
	printlnFn("== " + s + " ==")
	if a.search != "" {
		printlnFn(fmt.Sprintf("(filtered by %q)", a.search))
	}
}

func (a *App) renderAdminDashboard(ctx context.Context) error {
	d, err := a.console.AdminDashboard(ctx)
	if err != nil {
		return err
	}
	a.title("Dashboard")
	printlnFn(fmt.Sprintf("Vendors: %d   Active: %d", d.Stats.Total, d.Stats.Active))
	return writeVendors(a.out, services.FilterVendors(d.Vendors, a.search))
}

func (a *App) renderVendorList(ctx context.Context, filter func([]models.Vendor, string) []models.Vendor) error {
	vendors, err := a.console.VendorDirectory(ctx)
	if err != nil {
		return err
	}
	a.title("Vendors")
	return writeVendors(a.out, filter(vendors, a.search))
}

func (a *App) renderSuperDashboard(ctx context.Context) error {
	d, err := a.console.SuperDashboard(ctx)
	if err != nil {
		return err
	}
	a.title("Dashboard")
	printlnFn(fmt.Sprintf("Vendors: %d   Active: %d   Customers: %d",
		d.Stats.Total, d.Stats.Active, len(d.Customers)))
	if len(d.Failed) > 0 {
		printlnFn(fmt.Sprintf("Customers could not be loaded for %d vendor(s)", len(d.Failed)))
	}
	return writeVendors(a.out, services.FilterVendors(d.Vendors, a.search))
}

func (a *App) renderSubscriptions(ctx context.Context) error {
	o, err := a.console.Subscriptions(ctx, a.now())
	if err != nil {
		return err
	}
	a.title("Subscriptions")

	for _, al := range o.Alerts {
		if al.Level == services.AlertError {
			printlnFn("!! " + al.Message)
			continue
		}
		printlnFn("!  " + al.Message)
	}
	printlnFn(fmt.Sprintf("Total: %d   Active: %d   Expired: %d   Cancelled: %d   Expiring soon: %d   Revenue: %.2f",
		o.Stats.Total, o.Stats.Active, o.Stats.Expired, o.Stats.Cancelled, o.Stats.ExpiringSoon, o.Stats.Revenue))

	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "PLAN\tPRICE\tDAYS\tSTATUS")
	for _, p := range o.Plans {
		fmt.Fprintf(tw, "%s\t%.2f\t%d\t%s\n", p.Name, p.Price, p.Duration, p.Status)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	q := strings.ToLower(a.search)
	tw = tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "VENDOR\tPLAN\tSTART\tEND\tDAYS LEFT\tSTATUS")
	for _, s := range o.Subscriptions {
		if q != "" && !strings.Contains(strings.ToLower(s.VendorName()), q) {
			continue
		}
		plan := "N/A"
		if s.Plan != nil {
			plan = s.Plan.Name
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%s\n", s.VendorName(), plan,
			services.FormatDate(s.StartDate.Time), services.FormatDate(s.EndDate.Time), s.DaysLeft, s.Status)
	}
	return tw.Flush()
}

func (a *App) renderCustomers(ctx context.Context) error {
	if a.vendor != "" {
		cs, err := a.console.Customers(ctx, models.ID(a.vendor), a.search)
		if err != nil {
			return err
		}
		a.title("Customers of vendor " + a.vendor)
		tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "NAME\tPHONE\tEMAIL\tSTATUS\tCREATED")
		for _, c := range cs {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", c.Name, c.Phone, c.Email, c.Status, services.FormatDate(c.CreatedAt.Time))
		}
		return tw.Flush()
	}

	rows, err := a.console.CustomerDirectory(ctx)
	if err != nil {
		return err
	}
	a.title("Customers by vendor")
	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tVENDOR\tCUSTOMERS")
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%d\n", r.Vendor.Key(), r.Vendor.DisplayName(), r.Customers)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	printlnFn("Use 'vendor <id>' to list a vendor's customers")
	return nil
}

func (a *App) renderAnalytics(ctx context.Context) error {
	report, err := a.console.Analytics(ctx)
	if err != nil {
		return err
	}
	a.title("Report & Analytics")

	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SERIES\tYEAR\tCOUNT")
	for _, s := range []services.Series{report.Vendors, report.Subscriptions, report.Customers} {
		for _, b := range s.ByYear {
			fmt.Fprintf(tw, "%s\t%s\t%d\n", s.Name, b.Period, b.Count)
		}
		if s.Undated > 0 {
			fmt.Fprintf(tw, "%s\tundated\t%d\n", s.Name, s.Undated)
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	printlnFn("Use 'export <file>' to download the report as CSV")
	return nil
}

func (a *App) renderSettings() {
	a.title("Settings")
	p, ok := a.sessions.Get()
	if !ok {
		return
	}
	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Name\t%s\n", p.DisplayName())
	fmt.Fprintf(tw, "Mobile\t%s\n", p.Mobile)
	fmt.Fprintf(tw, "Email\t%s\n", p.Email)
	fmt.Fprintf(tw, "Role\t%s\n", p.Role)
	_ = tw.Flush()
	printlnFn("Use 'logout' to sign out")
}

func writeVendors(w io.Writer, vendors []models.Vendor) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tCONTACT\tEMAIL\tSTATUS\tCREATED")
	for _, v := range vendors {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			v.Key(), v.DisplayName(), v.Contact(), v.Email, v.StatusOrDefault(), services.FormatDate(v.CreatedAt.Time))
	}
	return tw.Flush()
}
